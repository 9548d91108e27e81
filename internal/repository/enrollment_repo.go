package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/markkent-max/schedease/internal/model"
)

// EnrollmentRepository enrollment ledger data access.
// Create returns gorm.ErrDuplicatedKey when (student_id, schedule_id) exists.
type EnrollmentRepository interface {
	Create(ctx context.Context, e *model.Enrollment) error
	Get(ctx context.Context, studentID, scheduleID string) (*model.Enrollment, error)
	ListBySchedule(ctx context.Context, scheduleID string) ([]model.Enrollment, error)
	// StudentIDsBySchedules maps each schedule id to its enrolled student ids.
	StudentIDsBySchedules(ctx context.Context, scheduleIDs []string) (map[string][]string, error)
	CountBySchedule(ctx context.Context, scheduleID string) (int64, error)
	Delete(ctx context.Context, studentID, scheduleID string) (int64, error)

	RefreshStudent(ctx context.Context, userID, name, department string) (int64, error)
	RefreshCourse(ctx context.Context, courseID, code, name string) (int64, error)
}

type enrollmentRepo struct {
	db *gorm.DB
}

// NewEnrollmentRepo creates an EnrollmentRepository
func NewEnrollmentRepo(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

func (r *enrollmentRepo) Create(ctx context.Context, e *model.Enrollment) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *enrollmentRepo) Get(ctx context.Context, studentID, scheduleID string) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND schedule_id = ?", studentID, scheduleID).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *enrollmentRepo) ListBySchedule(ctx context.Context, scheduleID string) ([]model.Enrollment, error) {
	var list []model.Enrollment
	err := r.db.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Order("student_name ASC, created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *enrollmentRepo) StudentIDsBySchedules(ctx context.Context, scheduleIDs []string) (map[string][]string, error) {
	out := make(map[string][]string, len(scheduleIDs))
	if len(scheduleIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		ScheduleID string
		StudentID  string
	}
	err := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Select("schedule_id, student_id").
		Where("schedule_id IN ?", scheduleIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ScheduleID] = append(out[row.ScheduleID], row.StudentID)
	}
	return out, nil
}

func (r *enrollmentRepo) CountBySchedule(ctx context.Context, scheduleID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("schedule_id = ?", scheduleID).
		Count(&n).Error
	return n, err
}

func (r *enrollmentRepo) Delete(ctx context.Context, studentID, scheduleID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("student_id = ? AND schedule_id = ?", studentID, scheduleID).
		Delete(&model.Enrollment{})
	return result.RowsAffected, result.Error
}

func (r *enrollmentRepo) RefreshStudent(ctx context.Context, userID, name, department string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("student_id IN (?)", r.db.Model(&model.Student{}).Select("student_id").Where("user_id = ?", userID)).
		UpdateColumns(map[string]interface{}{"student_name": name, "department": department})
	return result.RowsAffected, result.Error
}

func (r *enrollmentRepo) RefreshCourse(ctx context.Context, courseID, code, name string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("course_id = ?", courseID).
		UpdateColumns(map[string]interface{}{"course_code": code, "course_name": name})
	return result.RowsAffected, result.Error
}
