package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates every repository. A copy bound to a transaction is
// handed to the callback of Tx.WithTx.
type Repository struct {
	User       UserRepository
	Course     CourseRepository
	Room       RoomRepository
	Instructor InstructorRepository
	Student    StudentRepository
	Schedule   ScheduleRepository
	Request    ScheduleRequestRepository
	Enrollment EnrollmentRepository
	Tx         Transactor
}

// Transactor runs fn inside one database transaction. Returning an error from
// fn rolls back every write made through the repository it receives.
type Transactor interface {
	WithTx(ctx context.Context, fn func(repo *Repository) error) error
}

// NewRepository creates the aggregate over db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:       NewUserRepo(db),
		Course:     NewCourseRepo(db),
		Room:       NewRoomRepo(db),
		Instructor: NewInstructorRepo(db),
		Student:    NewStudentRepo(db),
		Schedule:   NewScheduleRepo(db),
		Request:    NewScheduleRequestRepo(db),
		Enrollment: NewEnrollmentRepo(db),
		Tx:         &gormTransactor{db: db},
	}
}

type gormTransactor struct {
	db *gorm.DB
}

func (t *gormTransactor) WithTx(ctx context.Context, fn func(repo *Repository) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// SlotQuery selects records whose window overlaps [Start, End) on Day.
// Start and End are zero padded HH:MM so string comparison orders them.
type SlotQuery struct {
	Day          string
	Start        string
	End          string
	RoomID       string
	InstructorID string
}

// Page offset/limit; Limit <= 0 returns everything.
type Page struct {
	Offset int
	Limit  int
}

func (p Page) apply(db *gorm.DB) *gorm.DB {
	if p.Limit > 0 {
		db = db.Offset(p.Offset).Limit(p.Limit)
	}
	return db
}

// slotScope narrows db to rows overlapping q.
func slotScope(q SlotQuery) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("day_of_week = ? AND start_time < ? AND end_time > ?", q.Day, q.End, q.Start)
		switch {
		case q.RoomID != "" && q.InstructorID != "":
			db = db.Where("(room_id = ? OR instructor_id = ?)", q.RoomID, q.InstructorID)
		case q.RoomID != "":
			db = db.Where("room_id = ?", q.RoomID)
		case q.InstructorID != "":
			db = db.Where("instructor_id = ?", q.InstructorID)
		}
		return db
	}
}
