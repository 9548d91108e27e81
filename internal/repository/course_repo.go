package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/markkent-max/schedease/internal/model"
	pkgerrors "github.com/markkent-max/schedease/pkg/errors"
)

// CourseFilter list filter for courses
type CourseFilter struct {
	Department   string
	InstructorID string
	Page
}

// CourseRepository course data access
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	List(ctx context.Context, f CourseFilter) ([]model.Course, int64, error)
	Update(ctx context.Context, course *model.Course) error
	// RefreshInstructorName rewrites the derived name on every course taught by instructorID.
	RefreshInstructorName(ctx context.Context, instructorID, name string) (int64, error)
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo creates a CourseRepository
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("course_id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) List(ctx context.Context, f CourseFilter) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Course{})
	if f.Department != "" {
		db = db.Where("department = ?", f.Department)
	}
	if f.InstructorID != "" {
		db = db.Where("instructor_id = ?", f.InstructorID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := f.apply(db).Order("code ASC").Find(&courses).Error; err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	oldVersion := course.Version
	result := r.db.WithContext(ctx).
		Model(course).
		Where("course_id = ? AND version = ?", course.CourseID, oldVersion).
		Updates(map[string]interface{}{
			"code":                 course.Code,
			"name":                 course.Name,
			"department":           course.Department,
			"credits":              course.Credits,
			"type":                 course.Type,
			"duration":             course.Duration,
			"required_capacity":    course.RequiredCapacity,
			"special_requirements": course.SpecialRequirements,
			"instructor_id":        course.InstructorID,
			"instructor_name":      course.InstructorName,
			"updated_by":           course.UpdatedBy,
			"version":              oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	course.Version = oldVersion + 1
	return nil
}

func (r *courseRepo) RefreshInstructorName(ctx context.Context, instructorID, name string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Course{}).
		Where("instructor_id = ?", instructorID).
		UpdateColumn("instructor_name", name)
	return result.RowsAffected, result.Error
}

// ── Room ──

// RoomRepository room data access
type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	List(ctx context.Context, availableOnly bool, p Page) ([]model.Room, int64, error)
	Update(ctx context.Context, room *model.Room) error
}

type roomRepo struct {
	db *gorm.DB
}

func NewRoomRepo(db *gorm.DB) RoomRepository {
	return &roomRepo{db: db}
}

func (r *roomRepo) Create(ctx context.Context, room *model.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *roomRepo) GetByID(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	err := r.db.WithContext(ctx).
		Where("room_id = ?", id).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) List(ctx context.Context, availableOnly bool, p Page) ([]model.Room, int64, error) {
	var rooms []model.Room
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Room{})
	if availableOnly {
		db = db.Where("is_available = ?", true)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := p.apply(db).Order("building ASC, name ASC").Find(&rooms).Error; err != nil {
		return nil, 0, err
	}
	return rooms, total, nil
}

func (r *roomRepo) Update(ctx context.Context, room *model.Room) error {
	oldVersion := room.Version
	result := r.db.WithContext(ctx).
		Model(room).
		Where("room_id = ? AND version = ?", room.RoomID, oldVersion).
		Updates(map[string]interface{}{
			"name":         room.Name,
			"type":         room.Type,
			"capacity":     room.Capacity,
			"building":     room.Building,
			"floor":        room.Floor,
			"equipment":    room.Equipment,
			"is_available": room.IsAvailable,
			"updated_by":   room.UpdatedBy,
			"version":      oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	room.Version = oldVersion + 1
	return nil
}
