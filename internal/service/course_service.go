package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/markkent-max/schedease/internal/dto"
	"github.com/markkent-max/schedease/internal/model"
	"github.com/markkent-max/schedease/internal/repository"
	"github.com/markkent-max/schedease/internal/snapshot"
)

// CourseService course catalogue. Code and name changes propagate into
// schedules, requests and enrollments.
type CourseService interface {
	Create(ctx context.Context, req *dto.CreateCourseRequest, callerID string) (*dto.CourseResult, error)
	GetByID(ctx context.Context, id string) (*model.Course, error)
	List(ctx context.Context, req *dto.CourseListRequest) ([]model.Course, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateCourseRequest, callerID string) (*dto.CourseResult, error)
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService creates a CourseService
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest, callerID string) (*dto.CourseResult, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	c := &model.Course{
		Code:                strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:                strings.TrimSpace(req.Name),
		Department:          strings.TrimSpace(req.Department),
		Credits:             req.Credits,
		Type:                model.CourseType(req.Type),
		Duration:            req.Duration,
		RequiredCapacity:    req.RequiredCapacity,
		SpecialRequirements: model.NormalizeTags(req.SpecialRequirements),
		InstructorID:        nonEmpty(req.InstructorID),
	}
	c.CreatedBy = &callerID
	c.UpdatedBy = &callerID

	var sync snapshot.Result
	err := s.repo.Tx.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		if sync, err = snapshot.New(tx, s.logger).SyncCourse(ctx, c); err != nil {
			return err
		}
		return tx.Course.Create(ctx, c)
	})
	if err != nil {
		return nil, s.writeError("create course", err)
	}
	return &dto.CourseResult{Course: c, Warnings: sync.Warnings()}, nil
}

func (s *courseService) GetByID(ctx context.Context, id string) (*model.Course, error) {
	c, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrCourseNotFound)
	}
	return c, nil
}

func (s *courseService) List(ctx context.Context, req *dto.CourseListRequest) ([]model.Course, int64, error) {
	list, total, err := s.repo.Course.List(ctx, repository.CourseFilter{
		Department:   req.Department,
		InstructorID: req.InstructorID,
		Page:         repository.Page{Offset: req.GetOffset(), Limit: req.GetPageSize()},
	})
	if err != nil {
		s.logger.Error("list courses", zap.Error(err))
		return nil, 0, err
	}
	return list, total, nil
}

func (s *courseService) Update(ctx context.Context, id string, req *dto.UpdateCourseRequest, callerID string) (*dto.CourseResult, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	var (
		c    *model.Course
		sync snapshot.Result
	)
	err := s.repo.Tx.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		if c, err = tx.Course.GetByID(ctx, id); err != nil {
			return notFound(err, ErrCourseNotFound)
		}
		oldCode, oldName := c.Code, c.Name

		if req.Code != nil {
			c.Code = strings.ToUpper(strings.TrimSpace(*req.Code))
		}
		if req.Name != nil {
			c.Name = strings.TrimSpace(*req.Name)
		}
		if req.Department != nil {
			c.Department = strings.TrimSpace(*req.Department)
		}
		if req.Credits != nil {
			c.Credits = *req.Credits
		}
		if req.Type != nil {
			c.Type = model.CourseType(*req.Type)
		}
		if req.Duration != nil {
			c.Duration = *req.Duration
		}
		if req.RequiredCapacity != nil {
			c.RequiredCapacity = *req.RequiredCapacity
		}
		if req.SpecialRequirements != nil {
			c.SpecialRequirements = model.NormalizeTags(req.SpecialRequirements)
		}
		switch {
		case req.ClearInstructor:
			c.InstructorID = nil
		case req.InstructorID != nil:
			c.InstructorID = nonEmpty(req.InstructorID)
		}

		snap := snapshot.New(tx, s.logger)
		if sync, err = snap.SyncCourse(ctx, c); err != nil {
			return err
		}
		c.UpdatedBy = &callerID
		if err := tx.Course.Update(ctx, c); err != nil {
			return err
		}
		if c.Code == oldCode && c.Name == oldName {
			return nil
		}
		return snap.PropagateCourse(ctx, c)
	})
	if err != nil {
		return nil, s.writeError("update course", err)
	}
	return &dto.CourseResult{Course: c, Warnings: sync.Warnings()}, nil
}

func (s *courseService) writeError(op string, err error) error {
	switch {
	case isDuplicate(err):
		return ErrDuplicateCourseCode
	case isForeignKey(err):
		return invalid("instructor_id references an instructor that does not exist")
	}
	err = storeWriteError(err)
	if !isKnown(err) {
		s.logger.Error(op, zap.Error(err))
	}
	return err
}

// ═══════════════════════════════════════════════════════════
// rooms
// ═══════════════════════════════════════════════════════════

// RoomService rooms. A rename propagates into schedules and requests.
type RoomService interface {
	Create(ctx context.Context, req *dto.CreateRoomRequest, callerID string) (*model.Room, error)
	GetByID(ctx context.Context, id string) (*model.Room, error)
	List(ctx context.Context, req *dto.RoomListRequest) ([]model.Room, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateRoomRequest, callerID string) (*model.Room, error)
}

type roomService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRoomService creates a RoomService
func NewRoomService(repo *repository.Repository, logger *zap.Logger) RoomService {
	return &roomService{repo: repo, logger: logger}
}

func (s *roomService) Create(ctx context.Context, req *dto.CreateRoomRequest, callerID string) (*model.Room, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	r := &model.Room{
		Name:        strings.TrimSpace(req.Name),
		Type:        model.RoomType(req.Type),
		Capacity:    req.Capacity,
		Building:    strings.TrimSpace(req.Building),
		Floor:       req.Floor,
		Equipment:   model.NormalizeTags(req.Equipment),
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		r.IsAvailable = *req.IsAvailable
	}
	r.CreatedBy = &callerID
	r.UpdatedBy = &callerID
	if err := s.repo.Room.Create(ctx, r); err != nil {
		s.logger.Error("create room", zap.Error(err))
		return nil, err
	}
	return r, nil
}

func (s *roomService) GetByID(ctx context.Context, id string) (*model.Room, error) {
	r, err := s.repo.Room.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrRoomNotFound)
	}
	return r, nil
}

func (s *roomService) List(ctx context.Context, req *dto.RoomListRequest) ([]model.Room, int64, error) {
	list, total, err := s.repo.Room.List(ctx, req.AvailableOnly, repository.Page{Offset: req.GetOffset(), Limit: req.GetPageSize()})
	if err != nil {
		s.logger.Error("list rooms", zap.Error(err))
		return nil, 0, err
	}
	return list, total, nil
}

func (s *roomService) Update(ctx context.Context, id string, req *dto.UpdateRoomRequest, callerID string) (*model.Room, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	var r *model.Room
	err := s.repo.Tx.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		if r, err = tx.Room.GetByID(ctx, id); err != nil {
			return notFound(err, ErrRoomNotFound)
		}
		oldName := r.Name
		if req.Name != nil {
			r.Name = strings.TrimSpace(*req.Name)
		}
		if req.Type != nil {
			r.Type = model.RoomType(*req.Type)
		}
		if req.Capacity != nil {
			r.Capacity = *req.Capacity
		}
		if req.Building != nil {
			r.Building = strings.TrimSpace(*req.Building)
		}
		if req.Floor != nil {
			r.Floor = *req.Floor
		}
		if req.Equipment != nil {
			r.Equipment = model.NormalizeTags(req.Equipment)
		}
		if req.IsAvailable != nil {
			r.IsAvailable = *req.IsAvailable
		}
		r.UpdatedBy = &callerID
		if err := tx.Room.Update(ctx, r); err != nil {
			return err
		}
		if r.Name == oldName {
			return nil
		}
		return snapshot.New(tx, s.logger).PropagateRoom(ctx, r)
	})
	if err != nil {
		err = storeWriteError(err)
		if !isKnown(err) {
			s.logger.Error("update room", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}
	return r, nil
}
