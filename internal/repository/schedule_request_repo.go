package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/markkent-max/schedease/internal/model"
	pkgerrors "github.com/markkent-max/schedease/pkg/errors"
)

// RequestFilter list filter for schedule requests
type RequestFilter struct {
	Status       string
	InstructorID string
	ScheduleID   string
	Page
}

// ScheduleRequestRepository schedule request data access
type ScheduleRequestRepository interface {
	Create(ctx context.Context, req *model.ScheduleRequest) error
	GetByID(ctx context.Context, id string) (*model.ScheduleRequest, error)
	GetByIDForUpdate(ctx context.Context, id string) (*model.ScheduleRequest, error)
	List(ctx context.Context, f RequestFilter) ([]model.ScheduleRequest, int64, error)
	// ListApprovedClaims returns approved requests overlapping q that hold a
	// slot of their own. Approved room/time changes are skipped since they
	// already live on their schedule; a schedule_conflict request counts even
	// when it names a schedule.
	ListApprovedClaims(ctx context.Context, q SlotQuery) ([]model.ScheduleRequest, error)
	Update(ctx context.Context, req *model.ScheduleRequest) error

	RefreshCourse(ctx context.Context, courseID, code, name string) (int64, error)
	RefreshInstructorName(ctx context.Context, instructorID, name string) (int64, error)
	RefreshRoomName(ctx context.Context, roomID, name string) (int64, error)
}

type scheduleRequestRepo struct {
	db *gorm.DB
}

// NewScheduleRequestRepo creates a ScheduleRequestRepository
func NewScheduleRequestRepo(db *gorm.DB) ScheduleRequestRepository {
	return &scheduleRequestRepo{db: db}
}

func (r *scheduleRequestRepo) Create(ctx context.Context, req *model.ScheduleRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *scheduleRequestRepo) GetByID(ctx context.Context, id string) (*model.ScheduleRequest, error) {
	var req model.ScheduleRequest
	err := r.db.WithContext(ctx).
		Where("request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *scheduleRequestRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.ScheduleRequest, error) {
	var req model.ScheduleRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *scheduleRequestRepo) List(ctx context.Context, f RequestFilter) ([]model.ScheduleRequest, int64, error) {
	var list []model.ScheduleRequest
	var total int64

	db := r.db.WithContext(ctx).Model(&model.ScheduleRequest{})
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if f.InstructorID != "" {
		db = db.Where("instructor_id = ?", f.InstructorID)
	}
	if f.ScheduleID != "" {
		db = db.Where("schedule_id = ?", f.ScheduleID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := f.apply(db).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *scheduleRequestRepo) ListApprovedClaims(ctx context.Context, q SlotQuery) ([]model.ScheduleRequest, error) {
	var list []model.ScheduleRequest
	err := r.db.WithContext(ctx).
		Scopes(slotScope(q)).
		Where("status = ? AND (schedule_id IS NULL OR request_type = ?)", model.RequestApproved, model.RequestScheduleConflict).
		Order("created_at ASC, request_id ASC").
		Find(&list).Error
	return list, err
}

func (r *scheduleRequestRepo) Update(ctx context.Context, req *model.ScheduleRequest) error {
	oldVersion := req.Version
	result := r.db.WithContext(ctx).
		Model(req).
		Where("request_id = ? AND version = ?", req.RequestID, oldVersion).
		Updates(map[string]interface{}{
			"status":          req.Status,
			"conflict_flag":   req.ConflictFlag,
			"conflicts":       req.Conflicts,
			"reviewed_by":     req.ReviewedBy,
			"reviewed_at":     req.ReviewedAt,
			"review_note":     req.ReviewNote,
			"instructor_name": req.InstructorName,
			"course_code":     req.CourseCode,
			"course_name":     req.CourseName,
			"room_name":       req.RoomName,
			"updated_by":      req.UpdatedBy,
			"version":         oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	req.Version = oldVersion + 1
	return nil
}

func (r *scheduleRequestRepo) RefreshCourse(ctx context.Context, courseID, code, name string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.ScheduleRequest{}).
		Where("course_id = ?", courseID).
		UpdateColumns(map[string]interface{}{"course_code": code, "course_name": name})
	return result.RowsAffected, result.Error
}

func (r *scheduleRequestRepo) RefreshInstructorName(ctx context.Context, instructorID, name string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.ScheduleRequest{}).
		Where("instructor_id = ?", instructorID).
		UpdateColumn("instructor_name", name)
	return result.RowsAffected, result.Error
}

func (r *scheduleRequestRepo) RefreshRoomName(ctx context.Context, roomID, name string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.ScheduleRequest{}).
		Where("room_id = ?", roomID).
		UpdateColumn("room_name", name)
	return result.RowsAffected, result.Error
}
