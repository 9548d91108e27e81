package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/markkent-max/schedease/internal/dto"
	"github.com/markkent-max/schedease/internal/model"
	"github.com/markkent-max/schedease/internal/repository"
	"github.com/markkent-max/schedease/internal/snapshot"
)

// EnrollmentService student seats and the per-schedule counter.
//
// Every enroll and unenroll moves students_enrolled in the same transaction,
// so the counter equals the number of enrollment rows.
type EnrollmentService interface {
	Enroll(ctx context.Context, scheduleID string, req *dto.EnrollRequest, callerID string) (*model.Enrollment, error)
	BulkEnroll(ctx context.Context, scheduleID string, req *dto.BulkEnrollRequest, callerID string) (*dto.BulkEnrollResult, error)
	Unenroll(ctx context.Context, scheduleID, studentID string) error
	ListBySchedule(ctx context.Context, scheduleID string) ([]model.Enrollment, error)
	// Reconcile recounts the rows and corrects the counter when it drifted.
	Reconcile(ctx context.Context, scheduleID string) (*dto.ReconcileResult, error)
}

type enrollmentService struct {
	repo    *repository.Repository
	workers int
	logger  *zap.Logger
}

// NewEnrollmentService creates an EnrollmentService. workers caps concurrent
// enrollments within one bulk call.
func NewEnrollmentService(repo *repository.Repository, workers int, logger *zap.Logger) EnrollmentService {
	if workers < 1 {
		workers = 1
	}
	return &enrollmentService{repo: repo, workers: workers, logger: logger}
}

func (s *enrollmentService) Enroll(ctx context.Context, scheduleID string, req *dto.EnrollRequest, callerID string) (*model.Enrollment, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	e, err := s.enroll(ctx, scheduleID, req.StudentID, callerID)
	if err != nil {
		if !isKnown(err) {
			s.logger.Error("enroll student", zap.String("schedule", scheduleID), zap.String("student", req.StudentID), zap.Error(err))
		}
		return nil, err
	}
	return e, nil
}

func (s *enrollmentService) enroll(ctx context.Context, scheduleID, studentID, callerID string) (*model.Enrollment, error) {
	var e *model.Enrollment
	err := s.repo.Tx.WithTx(ctx, func(tx *repository.Repository) error {
		sched, err := tx.Schedule.GetByID(ctx, scheduleID)
		if err != nil {
			return notFound(err, ErrScheduleNotFound)
		}
		if sched.Status == model.ScheduleCanceled {
			return ErrScheduleCanceled
		}
		if _, err := tx.Student.GetByID(ctx, studentID); err != nil {
			return notFound(err, ErrStudentNotFound)
		}

		e = &model.Enrollment{
			StudentID:    studentID,
			CourseID:     sched.CourseID,
			ScheduleID:   strPtr(sched.ScheduleID),
			InstructorID: strPtr(sched.InstructorID),
		}
		e.CreatedBy = &callerID
		e.UpdatedBy = &callerID
		if _, err := snapshot.New(tx, s.logger).SyncEnrollment(ctx, e); err != nil {
			return err
		}
		if err := tx.Enrollment.Create(ctx, e); err != nil {
			if isDuplicate(err) {
				return ErrDuplicateEnrollment
			}
			return err
		}
		if err := tx.Schedule.AddEnrolled(ctx, sched.ScheduleID, 1); err != nil {
			return err
		}
		return tx.Student.AddEnrolledCourse(ctx, studentID, sched.CourseID)
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// BulkEnroll enrolls each student independently. Students that fail are
// skipped with a reason; only a canceled ctx or an unknown schedule fails the call.
func (s *enrollmentService) BulkEnroll(ctx context.Context, scheduleID string, req *dto.BulkEnrollRequest, callerID string) (*dto.BulkEnrollResult, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if _, err := s.repo.Schedule.GetByID(ctx, scheduleID); err != nil {
		return nil, notFound(err, ErrScheduleNotFound)
	}

	type outcome struct {
		enrollment *model.Enrollment
		reason     string
	}
	outcomes := make([]outcome, len(req.StudentIDs))

	seen := make(map[string]bool, len(req.StudentIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, id := range req.StudentIDs {
		key := strings.ToLower(id)
		if seen[key] {
			outcomes[i].reason = "duplicate in request"
			continue
		}
		seen[key] = true

		i, id := i, id
		g.Go(func() error {
			e, err := s.enroll(gctx, scheduleID, id, callerID)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				if !isKnown(err) {
					s.logger.Warn("bulk enroll student", zap.String("schedule", scheduleID), zap.String("student", id), zap.Error(err))
				}
				outcomes[i].reason = skipReason(err)
				return nil
			}
			outcomes[i].enrollment = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &dto.BulkEnrollResult{Created: []model.Enrollment{}, Skipped: []dto.SkippedEnrollment{}}
	for i, o := range outcomes {
		if o.enrollment != nil {
			res.Created = append(res.Created, *o.enrollment)
			continue
		}
		res.Skipped = append(res.Skipped, dto.SkippedEnrollment{StudentID: req.StudentIDs[i], Reason: o.reason})
	}

	s.logger.Info("bulk enrollment finished",
		zap.String("schedule", scheduleID), zap.Int("created", len(res.Created)), zap.Int("skipped", len(res.Skipped)))
	return res, nil
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateEnrollment):
		return "already enrolled"
	case errors.Is(err, ErrStudentNotFound):
		return "student not found"
	case errors.Is(err, ErrScheduleCanceled):
		return "schedule is canceled"
	default:
		return "internal error"
	}
}

func (s *enrollmentService) Unenroll(ctx context.Context, scheduleID, studentID string) error {
	err := s.repo.Tx.WithTx(ctx, func(tx *repository.Repository) error {
		n, err := tx.Enrollment.Delete(ctx, studentID, scheduleID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrEnrollmentNotFound
		}
		return tx.Schedule.AddEnrolled(ctx, scheduleID, -1)
	})
	if err != nil {
		err = notFound(err, ErrScheduleNotFound)
		if !isKnown(err) {
			s.logger.Error("unenroll student", zap.String("schedule", scheduleID), zap.String("student", studentID), zap.Error(err))
		}
		return err
	}
	return nil
}

func (s *enrollmentService) ListBySchedule(ctx context.Context, scheduleID string) ([]model.Enrollment, error) {
	if _, err := s.repo.Schedule.GetByID(ctx, scheduleID); err != nil {
		return nil, notFound(err, ErrScheduleNotFound)
	}
	return s.repo.Enrollment.ListBySchedule(ctx, scheduleID)
}

func (s *enrollmentService) Reconcile(ctx context.Context, scheduleID string) (*dto.ReconcileResult, error) {
	res := &dto.ReconcileResult{ScheduleID: scheduleID}
	err := s.repo.Tx.WithTx(ctx, func(tx *repository.Repository) error {
		sched, err := tx.Schedule.GetByIDForUpdate(ctx, scheduleID)
		if err != nil {
			return notFound(err, ErrScheduleNotFound)
		}
		n, err := tx.Enrollment.CountBySchedule(ctx, scheduleID)
		if err != nil {
			return err
		}
		res.Before, res.After = sched.StudentsEnrolled, int(n)
		if res.Before == res.After {
			return nil
		}
		res.Corrected = true
		return tx.Schedule.SetEnrolled(ctx, scheduleID, res.After)
	})
	if err != nil {
		if !isKnown(err) {
			s.logger.Error("reconcile enrollment count", zap.String("schedule", scheduleID), zap.Error(err))
		}
		return nil, err
	}
	if res.Corrected {
		s.logger.Warn("enrollment counter drift corrected",
			zap.String("schedule", scheduleID), zap.Int("before", res.Before), zap.Int("after", res.After))
	}
	return res, nil
}
