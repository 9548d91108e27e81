package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/markkent-max/schedease/internal/model"
	pkgerrors "github.com/markkent-max/schedease/pkg/errors"
)

// ScheduleFilter list filter for schedules. Zero values match everything.
type ScheduleFilter struct {
	Semester     string
	Year         int
	Status       string
	Day          string
	RoomID       string
	InstructorID string
	CourseID     string
	Page
}

// ScheduleRepository schedule data access
type ScheduleRepository interface {
	Create(ctx context.Context, s *model.Schedule) error
	GetByID(ctx context.Context, id string) (*model.Schedule, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*model.Schedule, error)
	List(ctx context.Context, f ScheduleFilter) ([]model.Schedule, int64, error)
	// ListOverlapping returns schedules in one of statuses whose window overlaps q.
	ListOverlapping(ctx context.Context, q SlotQuery, statuses ...model.ScheduleStatus) ([]model.Schedule, error)
	Update(ctx context.Context, s *model.Schedule) error
	AddEnrolled(ctx context.Context, id string, delta int) error
	SetEnrolled(ctx context.Context, id string, n int) error

	RefreshCourse(ctx context.Context, courseID, code, name string) (int64, error)
	RefreshInstructorName(ctx context.Context, instructorID, name string) (int64, error)
	RefreshRoomName(ctx context.Context, roomID, name string) (int64, error)
}

type scheduleRepo struct {
	db *gorm.DB
}

// NewScheduleRepo creates a ScheduleRepository
func NewScheduleRepo(db *gorm.DB) ScheduleRepository {
	return &scheduleRepo{db: db}
}

func (r *scheduleRepo) Create(ctx context.Context, s *model.Schedule) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *scheduleRepo) GetByID(ctx context.Context, id string) (*model.Schedule, error) {
	var s model.Schedule
	err := r.db.WithContext(ctx).
		Where("schedule_id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *scheduleRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Schedule, error) {
	var s model.Schedule
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("schedule_id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *scheduleRepo) List(ctx context.Context, f ScheduleFilter) ([]model.Schedule, int64, error) {
	var list []model.Schedule
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Schedule{})
	if f.Semester != "" {
		db = db.Where("semester = ?", f.Semester)
	}
	if f.Year > 0 {
		db = db.Where("year = ?", f.Year)
	}
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if f.Day != "" {
		db = db.Where("day_of_week = ?", f.Day)
	}
	if f.RoomID != "" {
		db = db.Where("room_id = ?", f.RoomID)
	}
	if f.InstructorID != "" {
		db = db.Where("instructor_id = ?", f.InstructorID)
	}
	if f.CourseID != "" {
		db = db.Where("course_id = ?", f.CourseID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := f.apply(db).
		Order("CASE day_of_week WHEN 'Monday' THEN 1 WHEN 'Tuesday' THEN 2 WHEN 'Wednesday' THEN 3 " +
			"WHEN 'Thursday' THEN 4 WHEN 'Friday' THEN 5 WHEN 'Saturday' THEN 6 ELSE 7 END").
		Order("start_time ASC, created_at ASC").
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *scheduleRepo) ListOverlapping(ctx context.Context, q SlotQuery, statuses ...model.ScheduleStatus) ([]model.Schedule, error) {
	var list []model.Schedule
	db := r.db.WithContext(ctx).Scopes(slotScope(q))
	if len(statuses) > 0 {
		db = db.Where("status IN ?", statuses)
	}
	err := db.Order("created_at ASC, schedule_id ASC").Find(&list).Error
	return list, err
}

func (r *scheduleRepo) Update(ctx context.Context, s *model.Schedule) error {
	oldVersion := s.Version
	result := r.db.WithContext(ctx).
		Model(s).
		Where("schedule_id = ? AND version = ?", s.ScheduleID, oldVersion).
		Updates(map[string]interface{}{
			"course_id":       s.CourseID,
			"instructor_id":   s.InstructorID,
			"room_id":         s.RoomID,
			"day_of_week":     s.DayOfWeek,
			"start_time":      s.StartTime,
			"end_time":        s.EndTime,
			"semester":        s.Semester,
			"year":            s.Year,
			"academic_year":   s.AcademicYear,
			"status":          s.Status,
			"conflicts":       s.Conflicts,
			"published_at":    s.PublishedAt,
			"course_code":     s.CourseCode,
			"course_name":     s.CourseName,
			"instructor_name": s.InstructorName,
			"room_name":       s.RoomName,
			"updated_by":      s.UpdatedBy,
			"version":         oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	s.Version = oldVersion + 1
	return nil
}

// AddEnrolled moves the counter by delta, never below zero.
func (r *scheduleRepo) AddEnrolled(ctx context.Context, id string, delta int) error {
	result := r.db.WithContext(ctx).
		Model(&model.Schedule{}).
		Where("schedule_id = ?", id).
		UpdateColumn("students_enrolled", gorm.Expr("GREATEST(students_enrolled + ?, 0)", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *scheduleRepo) SetEnrolled(ctx context.Context, id string, n int) error {
	return r.db.WithContext(ctx).
		Model(&model.Schedule{}).
		Where("schedule_id = ?", id).
		UpdateColumn("students_enrolled", n).Error
}

func (r *scheduleRepo) RefreshCourse(ctx context.Context, courseID, code, name string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Schedule{}).
		Where("course_id = ?", courseID).
		UpdateColumns(map[string]interface{}{"course_code": code, "course_name": name})
	return result.RowsAffected, result.Error
}

func (r *scheduleRepo) RefreshInstructorName(ctx context.Context, instructorID, name string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Schedule{}).
		Where("instructor_id = ?", instructorID).
		UpdateColumn("instructor_name", name)
	return result.RowsAffected, result.Error
}

func (r *scheduleRepo) RefreshRoomName(ctx context.Context, roomID, name string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Schedule{}).
		Where("room_id = ?", roomID).
		UpdateColumn("room_name", name)
	return result.RowsAffected, result.Error
}
