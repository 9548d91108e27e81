package model

import "gorm.io/datatypes"

// User account table - users
type User struct {
	UserID     string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name       string   `gorm:"type:varchar(100);not null"                     json:"name"`
	Email      string   `gorm:"type:varchar(255);not null"                     json:"email"`
	Role       UserRole `gorm:"type:varchar(20);not null;default:'student'"    json:"role"`
	Department string   `gorm:"type:varchar(100);not null;default:''"          json:"department"`
	VersionedModel
}

// TableName table name
func (User) TableName() string { return "users" }

// Instructor teaching staff profile - instructors
type Instructor struct {
	InstructorID    string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"instructor_id"`
	UserID          string         `gorm:"type:uuid;not null"                             json:"user_id"`
	MaxHoursPerWeek int            `gorm:"not null;default:18"                            json:"max_hours_per_week"`
	Specializations StringArray    `gorm:"type:text[];not null;default:'{}'"              json:"specializations"`
	Availability    datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'"               json:"availability"` // day -> []TimeWindow
	VersionedModel

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

func (Instructor) TableName() string { return "instructors" }

// Student profile - students
type Student struct {
	StudentID       string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`
	UserID          string      `gorm:"type:uuid;not null"                             json:"user_id"`
	StudentNumber   string      `gorm:"type:varchar(30);not null"                      json:"student_number"`
	Year            int         `gorm:"type:smallint;not null"                         json:"year"` // 1..4
	Section         string      `gorm:"type:varchar(20);not null;default:''"           json:"section"`
	EnrolledCourses StringArray `gorm:"type:text[];not null;default:'{}'"              json:"enrolled_courses"`
	VersionedModel

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

func (Student) TableName() string { return "students" }
