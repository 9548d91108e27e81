package dto

import "github.com/markkent-max/schedease/internal/model"

// ── users ──

// CreateUserRequest create user
type CreateUserRequest struct {
	Name       string `json:"name"       binding:"required,min=1,max=100"`
	Email      string `json:"email"      binding:"required,email,max=255"`
	Role       string `json:"role"       binding:"required,oneof=admin instructor student"`
	Department string `json:"department" binding:"omitempty,max=100"`
}

// UpdateUserRequest partial update; a rename propagates into derived fields.
type UpdateUserRequest struct {
	Name       *string `json:"name"       binding:"omitempty,min=1,max=100"`
	Email      *string `json:"email"      binding:"omitempty,email,max=255"`
	Department *string `json:"department" binding:"omitempty,max=100"`
}

// ── courses ──

// CreateCourseRequest create course
type CreateCourseRequest struct {
	Code                string   `json:"code"                 binding:"required,min=2,max=20"`
	Name                string   `json:"name"                 binding:"required,min=1,max=200"`
	Department          string   `json:"department"           binding:"omitempty,max=100"`
	Credits             int      `json:"credits"              binding:"omitempty,min=0,max=12"`
	Type                string   `json:"type"                 binding:"required,oneof=lecture lab seminar"`
	Duration            int      `json:"duration"             binding:"required,min=30"`
	RequiredCapacity    int      `json:"required_capacity"    binding:"required,min=1"`
	SpecialRequirements []string `json:"special_requirements" binding:"omitempty,dive,min=1,max=50"`
	InstructorID        *string  `json:"instructor_id"        binding:"omitempty,uuid"`
}

// UpdateCourseRequest partial update. ClearInstructor unlinks the instructor.
type UpdateCourseRequest struct {
	Code                *string  `json:"code"                 binding:"omitempty,min=2,max=20"`
	Name                *string  `json:"name"                 binding:"omitempty,min=1,max=200"`
	Department          *string  `json:"department"           binding:"omitempty,max=100"`
	Credits             *int     `json:"credits"              binding:"omitempty,min=0,max=12"`
	Type                *string  `json:"type"                 binding:"omitempty,oneof=lecture lab seminar"`
	Duration            *int     `json:"duration"             binding:"omitempty,min=30"`
	RequiredCapacity    *int     `json:"required_capacity"    binding:"omitempty,min=1"`
	SpecialRequirements []string `json:"special_requirements" binding:"omitempty,dive,min=1,max=50"`
	InstructorID        *string  `json:"instructor_id"        binding:"omitempty,uuid"`
	ClearInstructor     bool     `json:"clear_instructor"`
}

// CourseListRequest course list query
type CourseListRequest struct {
	Department   string `form:"department"    binding:"omitempty,max=100"`
	InstructorID string `form:"instructor_id" binding:"omitempty,uuid"`
	PaginationRequest
}

// CourseResult course plus unresolved reference warnings.
type CourseResult struct {
	Course   *model.Course `json:"course"`
	Warnings []string      `json:"warnings,omitempty"`
}

// ── rooms ──

// CreateRoomRequest create room
type CreateRoomRequest struct {
	Name        string   `json:"name"         binding:"required,min=1,max=100"`
	Type        string   `json:"type"         binding:"required,oneof=classroom laboratory computer_lab auditorium"`
	Capacity    int      `json:"capacity"     binding:"required,min=1"`
	Building    string   `json:"building"     binding:"omitempty,max=100"`
	Floor       int      `json:"floor"        binding:"omitempty,min=-5,max=200"`
	Equipment   []string `json:"equipment"    binding:"omitempty,dive,min=1,max=50"`
	IsAvailable *bool    `json:"is_available"`
}

// UpdateRoomRequest partial update
type UpdateRoomRequest struct {
	Name        *string  `json:"name"         binding:"omitempty,min=1,max=100"`
	Type        *string  `json:"type"         binding:"omitempty,oneof=classroom laboratory computer_lab auditorium"`
	Capacity    *int     `json:"capacity"     binding:"omitempty,min=1"`
	Building    *string  `json:"building"     binding:"omitempty,max=100"`
	Floor       *int     `json:"floor"        binding:"omitempty,min=-5,max=200"`
	Equipment   []string `json:"equipment"    binding:"omitempty,dive,min=1,max=50"`
	IsAvailable *bool    `json:"is_available"`
}

// RoomListRequest room list query
type RoomListRequest struct {
	AvailableOnly bool `form:"available_only"`
	PaginationRequest
}

// ── instructors ──

// AvailabilityWindow one declared window.
type AvailabilityWindow struct {
	StartTime string `json:"start_time" binding:"required,hhmm"`
	EndTime   string `json:"end_time"   binding:"required,hhmm"`
}

// CreateInstructorRequest create instructor profile for an existing user
type CreateInstructorRequest struct {
	UserID          string                          `json:"user_id"            binding:"required,uuid"`
	MaxHoursPerWeek int                             `json:"max_hours_per_week" binding:"required,min=1,max=60"`
	Specializations []string                        `json:"specializations"    binding:"omitempty,dive,min=1,max=100"`
	Availability    map[string][]AvailabilityWindow `json:"availability"       binding:"omitempty,dive,keys,weekday,endkeys,dive"`
}

// UpdateInstructorRequest partial update
type UpdateInstructorRequest struct {
	MaxHoursPerWeek *int                            `json:"max_hours_per_week" binding:"omitempty,min=1,max=60"`
	Specializations []string                        `json:"specializations"    binding:"omitempty,dive,min=1,max=100"`
	Availability    map[string][]AvailabilityWindow `json:"availability"       binding:"omitempty,dive,keys,weekday,endkeys,dive"`
}

// ── students ──

// CreateStudentRequest create student profile for an existing user
type CreateStudentRequest struct {
	UserID        string `json:"user_id"        binding:"required,uuid"`
	StudentNumber string `json:"student_number" binding:"required,min=1,max=30"`
	Year          int    `json:"year"           binding:"required,min=1,max=4"`
	Section       string `json:"section"        binding:"omitempty,max=20"`
}
