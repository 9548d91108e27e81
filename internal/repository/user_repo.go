package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/markkent-max/schedease/internal/model"
	pkgerrors "github.com/markkent-max/schedease/pkg/errors"
)

// UserRepository user data access
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepo creates a UserRepository
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	oldVersion := user.Version
	result := r.db.WithContext(ctx).
		Model(user).
		Where("user_id = ? AND version = ?", user.UserID, oldVersion).
		Updates(map[string]interface{}{
			"name":       user.Name,
			"email":      user.Email,
			"role":       user.Role,
			"department": user.Department,
			"updated_by": user.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	user.Version = oldVersion + 1
	return nil
}

// ── Instructor ──

// InstructorRepository instructor profile data access
type InstructorRepository interface {
	Create(ctx context.Context, inst *model.Instructor) error
	GetByID(ctx context.Context, id string) (*model.Instructor, error)
	ListByUser(ctx context.Context, userID string) ([]model.Instructor, error)
	Update(ctx context.Context, inst *model.Instructor) error
}

type instructorRepo struct {
	db *gorm.DB
}

func NewInstructorRepo(db *gorm.DB) InstructorRepository {
	return &instructorRepo{db: db}
}

func (r *instructorRepo) Create(ctx context.Context, inst *model.Instructor) error {
	return r.db.WithContext(ctx).Omit("User").Create(inst).Error
}

func (r *instructorRepo) GetByID(ctx context.Context, id string) (*model.Instructor, error) {
	var inst model.Instructor
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("instructor_id = ?", id).
		First(&inst).Error
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

func (r *instructorRepo) ListByUser(ctx context.Context, userID string) ([]model.Instructor, error) {
	var list []model.Instructor
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&list).Error
	return list, err
}

func (r *instructorRepo) Update(ctx context.Context, inst *model.Instructor) error {
	oldVersion := inst.Version
	result := r.db.WithContext(ctx).
		Model(inst).
		Where("instructor_id = ? AND version = ?", inst.InstructorID, oldVersion).
		Updates(map[string]interface{}{
			"max_hours_per_week": inst.MaxHoursPerWeek,
			"specializations":    inst.Specializations,
			"availability":       inst.Availability,
			"updated_by":         inst.UpdatedBy,
			"version":            oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	inst.Version = oldVersion + 1
	return nil
}

// ── Student ──

// StudentRepository student profile data access
type StudentRepository interface {
	Create(ctx context.Context, st *model.Student) error
	GetByID(ctx context.Context, id string) (*model.Student, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Student, error)
	AddEnrolledCourse(ctx context.Context, studentID, courseID string) error
}

type studentRepo struct {
	db *gorm.DB
}

func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Create(ctx context.Context, st *model.Student) error {
	return r.db.WithContext(ctx).Omit("User").Create(st).Error
}

func (r *studentRepo) GetByID(ctx context.Context, id string) (*model.Student, error) {
	var st model.Student
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("student_id = ?", id).
		First(&st).Error
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *studentRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Student, error) {
	var list []model.Student
	if len(ids) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("student_id IN ?", ids).
		Find(&list).Error
	return list, err
}

// AddEnrolledCourse appends courseID to enrolled_courses unless present.
func (r *studentRepo) AddEnrolledCourse(ctx context.Context, studentID, courseID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Student{}).
		Where("student_id = ? AND NOT (? = ANY(enrolled_courses))", studentID, courseID).
		UpdateColumn("enrolled_courses", gorm.Expr("array_append(enrolled_courses, ?)", courseID)).Error
}
