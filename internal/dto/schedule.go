package dto

import "github.com/markkent-max/schedease/internal/model"

// ── schedules ──

// CreateScheduleRequest creates a draft schedule.
type CreateScheduleRequest struct {
	CourseID     string `json:"course_id"     binding:"required,uuid"`
	InstructorID string `json:"instructor_id" binding:"required,uuid"`
	RoomID       string `json:"room_id"       binding:"required,uuid"`
	DayOfWeek    string `json:"day_of_week"   binding:"required,weekday"`
	StartTime    string `json:"start_time"    binding:"required,hhmm"`
	EndTime      string `json:"end_time"      binding:"required,hhmm"`
	Semester     string `json:"semester"      binding:"required,oneof=first second summer"`
	Year         int    `json:"year"          binding:"required,min=2000,max=2100"`
	AcademicYear string `json:"academic_year" binding:"omitempty,max=9"`
}

// UpdateScheduleRequest partial update. Moving a published or conflicting
// schedule re-runs the publish check.
type UpdateScheduleRequest struct {
	CourseID     *string `json:"course_id"     binding:"omitempty,uuid"`
	InstructorID *string `json:"instructor_id" binding:"omitempty,uuid"`
	RoomID       *string `json:"room_id"       binding:"omitempty,uuid"`
	DayOfWeek    *string `json:"day_of_week"   binding:"omitempty,weekday"`
	StartTime    *string `json:"start_time"    binding:"omitempty,hhmm"`
	EndTime      *string `json:"end_time"      binding:"omitempty,hhmm"`
	Semester     *string `json:"semester"      binding:"omitempty,oneof=first second summer"`
	Year         *int    `json:"year"          binding:"omitempty,min=2000,max=2100"`
	AcademicYear *string `json:"academic_year" binding:"omitempty,max=9"`
}

// ScheduleListRequest schedule list query
type ScheduleListRequest struct {
	Semester     string `form:"semester"      binding:"omitempty,oneof=first second summer"`
	Year         int    `form:"year"          binding:"omitempty,min=2000,max=2100"`
	Status       string `form:"status"        binding:"omitempty,oneof=draft published conflict canceled"`
	DayOfWeek    string `form:"day_of_week"   binding:"omitempty,weekday"`
	RoomID       string `form:"room_id"       binding:"omitempty,uuid"`
	InstructorID string `form:"instructor_id" binding:"omitempty,uuid"`
	CourseID     string `form:"course_id"     binding:"omitempty,uuid"`
	PaginationRequest
}

// ScheduleResult schedule after a write, with its findings.
//
// Conflicts mirrors Schedule.Conflicts. Warnings are advisory (capacity,
// equipment, availability, unresolved references) and never block.
type ScheduleResult struct {
	Schedule  *model.Schedule `json:"schedule"`
	Status    string          `json:"status"`
	Conflicts []string        `json:"conflicts"`
	Warnings  []string        `json:"warnings,omitempty"`
}

// CancelResult canceled schedule plus schedules it unblocked.
type CancelResult struct {
	Schedule    *model.Schedule `json:"schedule"`
	Republished []string        `json:"republished,omitempty"`
}

// ── schedule requests ──

// SubmitScheduleRequest files a change request. Either Date or DayOfWeek is required.
type SubmitScheduleRequest struct {
	InstructorID string  `json:"instructor_id" binding:"required,uuid"`
	CourseID     *string `json:"course_id"     binding:"omitempty,uuid"`
	ScheduleID   *string `json:"schedule_id"   binding:"omitempty,uuid"`
	RoomID       *string `json:"room_id"       binding:"omitempty,uuid"`
	RequestType  string  `json:"request_type"  binding:"required,oneof=room_change time_change schedule_conflict"`
	Date         *string `json:"date"          binding:"omitempty,datetime=2006-01-02"`
	DayOfWeek    string  `json:"day_of_week"   binding:"omitempty,weekday"`
	StartTime    string  `json:"start_time"    binding:"required,hhmm"`
	EndTime      string  `json:"end_time"      binding:"required,hhmm"`
	Semester     string  `json:"semester"      binding:"required,oneof=first second summer"`
	Year         int     `json:"year"          binding:"required,min=2000,max=2100"`
	Purpose      string  `json:"purpose"       binding:"omitempty,max=200"`
	Details      string  `json:"details"       binding:"required,min=1"`
}

// RequestListRequest request list query
type RequestListRequest struct {
	Status       string `form:"status"        binding:"omitempty,oneof=pending under_review approved rejected"`
	InstructorID string `form:"instructor_id" binding:"omitempty,uuid"`
	ScheduleID   string `form:"schedule_id"   binding:"omitempty,uuid"`
	PaginationRequest
}

// TransitionRequest moves a request through its lifecycle.
type TransitionRequest struct {
	TargetState string `json:"target_state" binding:"required,oneof=under_review approved rejected"`
	Note        string `json:"note"         binding:"omitempty,max=500"`
}

// RequestResult request after a write, with its findings.
type RequestResult struct {
	Request  *model.ScheduleRequest `json:"request"`
	Warnings []string               `json:"warnings,omitempty"`
}

// EvaluationResult conflict check of a request against the approved set.
type EvaluationResult struct {
	RequestID    string   `json:"request_id"`
	ConflictFlag bool     `json:"conflict_flag"`
	Conflicts    []string `json:"conflicts"`
	Warnings     []string `json:"warnings,omitempty"`
}

// ── enrollments ──

// EnrollRequest enroll one student
type EnrollRequest struct {
	StudentID string `json:"student_id" binding:"required,uuid"`
}

// BulkEnrollRequest enroll many students into one schedule
type BulkEnrollRequest struct {
	StudentIDs []string `json:"student_ids" binding:"required,min=1,max=500,dive,uuid"`
}

// SkippedEnrollment a student left out of a bulk enrollment.
type SkippedEnrollment struct {
	StudentID string `json:"student_id"`
	Reason    string `json:"reason"`
}

// BulkEnrollResult created and skipped students in input order.
type BulkEnrollResult struct {
	Created []model.Enrollment  `json:"created"`
	Skipped []SkippedEnrollment `json:"skipped"`
}

// ReconcileResult counter before and after recounting enrollments.
type ReconcileResult struct {
	ScheduleID string `json:"schedule_id"`
	Before     int    `json:"before"`
	After      int    `json:"after"`
	Corrected  bool   `json:"corrected"`
}

// ── export ──

// TimetableExportRequest export query
type TimetableExportRequest struct {
	Semester string `form:"semester" binding:"required,oneof=first second summer"`
	Year     int    `form:"year"     binding:"required,min=2000,max=2100"`
}
