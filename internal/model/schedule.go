package model

import "time"

// Schedule weekly slot of a course - schedules
//
// Conflicts is empty whenever Status is published. Schedules are never hard
// deleted; canceled is the terminal state.
type Schedule struct {
	ScheduleID       string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_id"`
	CourseID         string         `gorm:"type:uuid;not null"                             json:"course_id"`
	InstructorID     string         `gorm:"type:uuid;not null"                             json:"instructor_id"`
	RoomID           string         `gorm:"type:uuid;not null"                             json:"room_id"`
	DayOfWeek        DayOfWeek      `gorm:"type:varchar(10);not null"                      json:"day_of_week"`
	StartTime        string         `gorm:"type:varchar(5);not null"                       json:"start_time"` // HH:MM
	EndTime          string         `gorm:"type:varchar(5);not null"                       json:"end_time"`
	Semester         Semester       `gorm:"type:varchar(10);not null"                      json:"semester"`
	Year             int            `gorm:"not null"                                       json:"year"`
	AcademicYear     string         `gorm:"type:varchar(9);not null;default:''"            json:"academic_year"` // 2024-2025
	Status           ScheduleStatus `gorm:"type:varchar(20);not null;default:'draft'"      json:"status"`
	Conflicts        StringArray    `gorm:"type:text[];not null;default:'{}'"              json:"conflicts"`
	StudentsEnrolled int            `gorm:"not null;default:0"                             json:"students_enrolled"`
	PublishedAt      *time.Time     `json:"published_at,omitempty"`

	// derived
	CourseCode     string `gorm:"type:varchar(20);not null;default:''"  json:"course_code"`
	CourseName     string `gorm:"type:varchar(200);not null;default:''" json:"course_name"`
	InstructorName string `gorm:"type:varchar(100);not null;default:''" json:"instructor_name"`
	RoomName       string `gorm:"type:varchar(100);not null;default:''" json:"room_name"`
	VersionedModel
}

func (Schedule) TableName() string { return "schedules" }

// Committed reports whether the schedule belongs to the approved set.
func (s *Schedule) Committed() bool { return s.Status == SchedulePublished }

// ScheduleRequest ad-hoc change request from an instructor - schedule_requests
//
// DayOfWeek is always stored; for dated requests it is the weekday of Date.
// ConflictFlag is true iff Conflicts is non-empty.
type ScheduleRequest struct {
	RequestID    string        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"request_id"`
	InstructorID string        `gorm:"type:uuid;not null"                             json:"instructor_id"`
	CourseID     *string       `gorm:"type:uuid"                                      json:"course_id,omitempty"`
	ScheduleID   *string       `gorm:"type:uuid"                                      json:"schedule_id,omitempty"`
	RoomID       *string       `gorm:"type:uuid"                                      json:"room_id,omitempty"`
	RequestType  RequestType   `gorm:"type:varchar(20);not null"                      json:"request_type"`
	Date         *time.Time    `gorm:"type:date"                                      json:"date,omitempty"`
	DayOfWeek    DayOfWeek     `gorm:"type:varchar(10);not null"                      json:"day_of_week"`
	StartTime    string        `gorm:"type:varchar(5);not null"                       json:"start_time"`
	EndTime      string        `gorm:"type:varchar(5);not null"                       json:"end_time"`
	Semester     Semester      `gorm:"type:varchar(10);not null"                      json:"semester"`
	Year         int           `gorm:"not null"                                       json:"year"`
	Purpose      string        `gorm:"type:varchar(200);not null;default:''"          json:"purpose"`
	Details      string        `gorm:"type:text;not null"                             json:"details"`
	Status       RequestStatus `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	ConflictFlag bool          `gorm:"not null;default:false"                         json:"conflict_flag"`
	Conflicts    StringArray   `gorm:"type:text[];not null;default:'{}'"              json:"conflicts"`
	ReviewedBy   *string       `gorm:"type:uuid"                                      json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time    `json:"reviewed_at,omitempty"`
	ReviewNote   string        `gorm:"type:varchar(500);not null;default:''"          json:"review_note"`

	// derived
	InstructorName string `gorm:"type:varchar(100);not null;default:''" json:"instructor_name"`
	CourseCode     string `gorm:"type:varchar(20);not null;default:''"  json:"course_code"`
	CourseName     string `gorm:"type:varchar(200);not null;default:''" json:"course_name"`
	RoomName       string `gorm:"type:varchar(100);not null;default:''" json:"room_name"`
	VersionedModel
}

func (ScheduleRequest) TableName() string { return "schedule_requests" }

// SetConflicts keeps ConflictFlag in step with the list.
func (r *ScheduleRequest) SetConflicts(list []string) {
	r.Conflicts = append(StringArray{}, list...)
	r.ConflictFlag = len(r.Conflicts) > 0
}

// Enrollment student seat in a schedule - enrollments
//
// (StudentID, ScheduleID) is unique.
type Enrollment struct {
	EnrollmentID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"enrollment_id"`
	StudentID    string  `gorm:"type:uuid;not null"                             json:"student_id"`
	CourseID     string  `gorm:"type:uuid;not null"                             json:"course_id"`
	ScheduleID   *string `gorm:"type:uuid"                                      json:"schedule_id,omitempty"`
	InstructorID *string `gorm:"type:uuid"                                      json:"instructor_id,omitempty"`

	// derived
	YearLevel   int    `gorm:"type:smallint;not null;default:1"      json:"year_level"`
	Section     string `gorm:"type:varchar(20);not null;default:''"  json:"section"`
	Department  string `gorm:"type:varchar(100);not null;default:''" json:"department"`
	StudentName string `gorm:"type:varchar(100);not null;default:''" json:"student_name"`
	CourseName  string `gorm:"type:varchar(200);not null;default:''" json:"course_name"`
	CourseCode  string `gorm:"type:varchar(20);not null;default:''"  json:"course_code"`
	BaseModel
}

func (Enrollment) TableName() string { return "enrollments" }
