package model

// Course catalogue entry - courses
type Course struct {
	CourseID            string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	Code                string      `gorm:"type:varchar(20);not null"                      json:"code"` // uppercase
	Name                string      `gorm:"type:varchar(200);not null"                     json:"name"`
	Department          string      `gorm:"type:varchar(100);not null;default:''"          json:"department"`
	Credits             int         `gorm:"not null;default:3"                             json:"credits"`
	Type                CourseType  `gorm:"type:varchar(20);not null;default:'lecture'"    json:"type"`
	Duration            int         `gorm:"not null;default:60"                            json:"duration"` // minutes
	RequiredCapacity    int         `gorm:"not null;default:1"                             json:"required_capacity"`
	SpecialRequirements StringArray `gorm:"type:text[];not null;default:'{}'"              json:"special_requirements"`
	InstructorID        *string     `gorm:"type:uuid"                                      json:"instructor_id,omitempty"`
	InstructorName      string      `gorm:"type:varchar(100);not null;default:''"          json:"instructor_name"` // derived
	VersionedModel
}

func (Course) TableName() string { return "courses" }

// Room teaching space - rooms
type Room struct {
	RoomID      string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"room_id"`
	Name        string      `gorm:"type:varchar(100);not null"                     json:"name"`
	Type        RoomType    `gorm:"type:varchar(20);not null"                      json:"type"`
	Capacity    int         `gorm:"not null"                                       json:"capacity"`
	Building    string      `gorm:"type:varchar(100);not null;default:''"          json:"building"`
	Floor       int         `gorm:"not null;default:0"                             json:"floor"`
	Equipment   StringArray `gorm:"type:text[];not null;default:'{}'"              json:"equipment"`
	IsAvailable bool        `gorm:"not null;default:true"                          json:"is_available"`
	VersionedModel
}

func (Room) TableName() string { return "rooms" }
