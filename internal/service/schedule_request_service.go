package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/markkent-max/schedease/internal/conflict"
	"github.com/markkent-max/schedease/internal/dto"
	"github.com/markkent-max/schedease/internal/model"
	"github.com/markkent-max/schedease/internal/repository"
	"github.com/markkent-max/schedease/internal/snapshot"
	"github.com/markkent-max/schedease/pkg/lock"
)

// ScheduleRequestService ad-hoc requests: submit, evaluate, review.
type ScheduleRequestService interface {
	Submit(ctx context.Context, req *dto.SubmitScheduleRequest, callerID string) (*dto.RequestResult, error)
	GetByID(ctx context.Context, id string) (*model.ScheduleRequest, error)
	List(ctx context.Context, req *dto.RequestListRequest) ([]model.ScheduleRequest, int64, error)
	// Evaluate re-checks a non-terminal request against the approved set and
	// stores the findings. Terminal requests report what is stored.
	Evaluate(ctx context.Context, id string) (*dto.EvaluationResult, error)
	// Transition moves a request to under_review, approved or rejected.
	// Approval re-evaluates first and fails with *ConflictError when flagged.
	Transition(ctx context.Context, id string, req *dto.TransitionRequest, reviewerID string) (*model.ScheduleRequest, error)
}

type scheduleRequestService struct {
	repo      *repository.Repository
	locker    lock.Locker
	logger    *zap.Logger
	now       func() time.Time
	schedules *scheduleService // re-checks slots vacated by approved moves
}

// NewScheduleRequestService creates a ScheduleRequestService
func NewScheduleRequestService(repo *repository.Repository, locker lock.Locker, logger *zap.Logger) ScheduleRequestService {
	return &scheduleRequestService{
		repo:      repo,
		locker:    locker,
		logger:    logger,
		now:       time.Now,
		schedules: &scheduleService{repo: repo, locker: locker, logger: logger, now: time.Now},
	}
}

// ────────────────────── Submit ──────────────────────

func (s *scheduleRequestService) Submit(ctx context.Context, req *dto.SubmitScheduleRequest, callerID string) (*dto.RequestResult, error) {
	r, err := buildRequest(req)
	if err != nil {
		return nil, err
	}
	r.CreatedBy = &callerID
	r.UpdatedBy = &callerID

	if _, err := s.repo.Instructor.GetByID(ctx, r.InstructorID); err != nil {
		return nil, notFound(err, ErrInstructorNotFound)
	}
	if r.ScheduleID != nil {
		sched, err := s.repo.Schedule.GetByID(ctx, *r.ScheduleID)
		if err != nil {
			return nil, notFound(err, ErrScheduleNotFound)
		}
		if r.RequestType.MutatesSchedule() && sched.Status == model.ScheduleCanceled {
			return nil, ErrScheduleCanceled
		}
		if r.CourseID == nil {
			r.CourseID = strPtr(sched.CourseID)
		}
	}

	var (
		sync snapshot.Result
		cand conflict.Claim
	)
	err = s.repo.Tx.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		if sync, err = snapshot.New(tx, s.logger).SyncRequest(ctx, r); err != nil {
			return err
		}
		found, c, err := evaluateRequest(ctx, tx, s.logger, r)
		if err != nil {
			return err
		}
		cand = c
		r.SetConflicts(conflict.Descriptions(found))
		return tx.Request.Create(ctx, r)
	})
	if err != nil {
		if isForeignKey(err) {
			return nil, invalid("request references a record that does not exist")
		}
		if !isKnown(err) {
			s.logger.Error("submit schedule request", zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("schedule request submitted",
		zap.String("id", r.RequestID), zap.String("type", string(r.RequestType)), zap.Bool("conflict", r.ConflictFlag))

	return &dto.RequestResult{
		Request:  r,
		Warnings: append(sync.Warnings(), s.advisories(ctx, r, cand)...),
	}, nil
}

// buildRequest validates req and turns it into a pending request.
func buildRequest(req *dto.SubmitScheduleRequest) (*model.ScheduleRequest, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	r := &model.ScheduleRequest{
		InstructorID: req.InstructorID,
		CourseID:     nonEmpty(req.CourseID),
		ScheduleID:   nonEmpty(req.ScheduleID),
		RoomID:       nonEmpty(req.RoomID),
		RequestType:  model.RequestType(req.RequestType),
		Semester:     model.Semester(req.Semester),
		Year:         req.Year,
		Purpose:      strings.TrimSpace(req.Purpose),
		Details:      strings.TrimSpace(req.Details),
		Status:       model.RequestPending,
		Conflicts:    model.StringArray{},
	}
	if r.Details == "" {
		return nil, invalid("details must not be blank")
	}

	var err error
	if r.StartTime, r.EndTime, err = normalizeWindow(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	switch {
	case req.Date != nil && *req.Date != "":
		d, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, invalid("date: %v", err)
		}
		r.Date = &d
		r.DayOfWeek = model.DayOf(d)
		if req.DayOfWeek != "" {
			day, _ := model.ParseDayOfWeek(req.DayOfWeek)
			if day != r.DayOfWeek {
				return nil, invalid("day_of_week %s does not match date %s (%s)", day, *req.Date, r.DayOfWeek)
			}
		}
	case req.DayOfWeek != "":
		day, err := model.ParseDayOfWeek(req.DayOfWeek)
		if err != nil {
			return nil, invalid("%v", err)
		}
		r.DayOfWeek = day
	default:
		return nil, invalid("either date or day_of_week is required")
	}

	switch r.RequestType {
	case model.RequestRoomChange:
		if r.ScheduleID == nil || r.RoomID == nil {
			return nil, invalid("room_change requires schedule_id and room_id")
		}
	case model.RequestTimeChange:
		if r.ScheduleID == nil {
			return nil, invalid("time_change requires schedule_id")
		}
	}
	return r, nil
}

// ────────────────────── Read ──────────────────────

func (s *scheduleRequestService) GetByID(ctx context.Context, id string) (*model.ScheduleRequest, error) {
	r, err := s.repo.Request.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrRequestNotFound)
	}
	return r, nil
}

func (s *scheduleRequestService) List(ctx context.Context, req *dto.RequestListRequest) ([]model.ScheduleRequest, int64, error) {
	list, total, err := s.repo.Request.List(ctx, repository.RequestFilter{
		Status:       req.Status,
		InstructorID: req.InstructorID,
		ScheduleID:   req.ScheduleID,
		Page:         repository.Page{Offset: req.GetOffset(), Limit: req.GetPageSize()},
	})
	if err != nil {
		s.logger.Error("list schedule requests", zap.Error(err))
		return nil, 0, err
	}
	return list, total, nil
}

// ────────────────────── Evaluate ──────────────────────

func (s *scheduleRequestService) Evaluate(ctx context.Context, id string) (*dto.EvaluationResult, error) {
	current, err := s.repo.Request.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrRequestNotFound)
	}
	if current.Status.Terminal() {
		return evaluationOf(current, nil), nil
	}

	release, err := s.lockRequest(ctx, current)
	if err != nil {
		return nil, storeWriteError(err)
	}
	defer release()

	var (
		r    *model.ScheduleRequest
		cand conflict.Claim
	)
	err = s.repo.Tx.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		if r, err = tx.Request.GetByIDForUpdate(ctx, id); err != nil {
			return notFound(err, ErrRequestNotFound)
		}
		if r.Status.Terminal() {
			return nil
		}
		found, c, err := evaluateRequest(ctx, tx, s.logger, r)
		if err != nil {
			return err
		}
		cand = c
		r.SetConflicts(conflict.Descriptions(found))
		return tx.Request.Update(ctx, r)
	})
	if err != nil {
		err = storeWriteError(err)
		if !isKnown(err) {
			s.logger.Error("evaluate schedule request", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	var warnings []string
	if !r.Status.Terminal() {
		warnings = s.advisories(ctx, r, cand)
	}
	return evaluationOf(r, warnings), nil
}

// ────────────────────── Transition ──────────────────────

func (s *scheduleRequestService) Transition(ctx context.Context, id string, req *dto.TransitionRequest, reviewerID string) (*model.ScheduleRequest, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	target := model.RequestStatus(req.TargetState)

	current, err := s.repo.Request.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrRequestNotFound)
	}
	if current.Status == target && target == model.RequestApproved {
		return current, nil
	}
	if !current.Status.CanTransitionTo(target) {
		return nil, ErrInvalidTransition
	}

	release, err := s.lockRequest(ctx, current)
	if err != nil {
		return nil, storeWriteError(err)
	}

	var (
		r       *model.ScheduleRequest
		blocked bool
		vacated *slot
	)
	err = s.repo.Tx.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		if r, err = tx.Request.GetByIDForUpdate(ctx, id); err != nil {
			return notFound(err, ErrRequestNotFound)
		}
		// a concurrent approval may have won while we waited for the locks
		if r.Status == target && target == model.RequestApproved {
			return nil
		}
		if !r.Status.CanTransitionTo(target) {
			return ErrInvalidTransition
		}
		if !sameResources(current, r) {
			return ErrConcurrentModification
		}

		switch target {
		case model.RequestUnderReview:
			found, _, err := evaluateRequest(ctx, tx, s.logger, r)
			if err != nil {
				return err
			}
			r.SetConflicts(conflict.Descriptions(found))
			r.Status = model.RequestUnderReview

		case model.RequestRejected:
			s.review(r, model.RequestRejected, reviewerID, req.Note)

		case model.RequestApproved:
			found, cand, err := evaluateRequest(ctx, tx, s.logger, r)
			if err != nil {
				return err
			}
			r.SetConflicts(conflict.Descriptions(found))
			if r.ConflictFlag {
				// keep the findings, leave the status alone
				blocked = true
				r.UpdatedBy = &reviewerID
				return tx.Request.Update(ctx, r)
			}
			s.review(r, model.RequestApproved, reviewerID, req.Note)
			if r.RequestType.MutatesSchedule() {
				if vacated, err = s.applyToSchedule(ctx, tx, r, cand, reviewerID); err != nil {
					return err
				}
			}
		}
		r.UpdatedBy = &reviewerID
		return tx.Request.Update(ctx, r)
	})
	release()
	if err != nil {
		err = storeWriteError(err)
		if !isKnown(err) {
			s.logger.Error("transition schedule request", zap.String("id", id), zap.String("target", string(target)), zap.Error(err))
		}
		return nil, err
	}
	if blocked {
		return nil, &ConflictError{RequestID: r.RequestID, Conflicts: []string(r.Conflicts)}
	}
	if vacated != nil {
		s.schedules.recheckBlocked(ctx, *vacated, deref(r.ScheduleID), reviewerID)
	}

	s.logger.Info("schedule request transitioned",
		zap.String("id", id), zap.String("status", string(r.Status)), zap.String("reviewer", reviewerID))
	return r, nil
}

func (s *scheduleRequestService) review(r *model.ScheduleRequest, status model.RequestStatus, reviewerID, note string) {
	now := s.now()
	r.Status = status
	r.ReviewedBy = &reviewerID
	r.ReviewedAt = &now
	r.ReviewNote = strings.TrimSpace(note)
}

// applyToSchedule writes an approved room or time change into its schedule.
// The schedule keeps its publish state; a published schedule stays published
// because the request was just checked clean against the same approved set.
// It returns the slot a published schedule moved out of, if any.
func (s *scheduleRequestService) applyToSchedule(ctx context.Context, tx *repository.Repository, r *model.ScheduleRequest, cand conflict.Claim, reviewerID string) (*slot, error) {
	sched, err := tx.Schedule.GetByIDForUpdate(ctx, deref(r.ScheduleID))
	if err != nil {
		return nil, notFound(err, ErrScheduleNotFound)
	}
	if sched.Status == model.ScheduleCanceled {
		return nil, ErrScheduleCanceled
	}
	before, beforeRoom, wasPublished := slotOf(sched), sched.RoomID, sched.Status == model.SchedulePublished
	applyRequestToSchedule(sched, r, cand.Day)
	if _, err := snapshot.New(tx, s.logger).SyncSchedule(ctx, sched); err != nil {
		return nil, err
	}
	found, err := evaluateSchedule(ctx, tx, s.logger, sched)
	if err != nil {
		return nil, err
	}
	applyPublishOutcome(sched, found, false, s.now())
	sched.UpdatedBy = &reviewerID
	if err := tx.Schedule.Update(ctx, sched); err != nil {
		return nil, err
	}
	if wasPublished && (slotOf(sched) != before || sched.RoomID != beforeRoom) {
		return &before, nil
	}
	return nil, nil
}

// lockRequest takes the resource locks a request's evaluation depends on.
func (s *scheduleRequestService) lockRequest(ctx context.Context, r *model.ScheduleRequest) (func(), error) {
	keys := resourceKeys(deref(r.RoomID), r.InstructorID, lock.RecordKey("request", r.RequestID))
	if r.ScheduleID != nil {
		keys = append(keys, lock.RecordKey("schedule", *r.ScheduleID))
		// time_change without a room keeps the schedule's room
		if sched, err := s.repo.Schedule.GetByID(ctx, *r.ScheduleID); err == nil {
			keys = append(keys, lock.RoomKey(sched.RoomID), lock.InstructorKey(sched.InstructorID))
		}
	}
	return s.locker.Lock(ctx, keys...)
}

func (s *scheduleRequestService) advisories(ctx context.Context, r *model.ScheduleRequest, cand conflict.Claim) []string {
	if cand.RoomID == "" && cand.InstructorID == "" {
		return nil
	}
	return slotAdvisories(ctx, s.repo, s.logger, cand.Day, cand.Window, cand.RoomID, deref(r.CourseID), cand.InstructorID)
}

// ── helpers ──

// evaluateRequest builds r's candidate claim and detects it against the approved set.
func evaluateRequest(ctx context.Context, repo *repository.Repository, logger *zap.Logger, r *model.ScheduleRequest) ([]conflict.Conflict, conflict.Claim, error) {
	cand, _, err := requestCandidate(ctx, repo, r)
	if err != nil {
		return nil, conflict.Claim{}, err
	}
	existing, err := approvedSet(ctx, repo, logger, cand)
	if err != nil {
		return nil, conflict.Claim{}, err
	}
	return conflict.Detect(cand, existing), cand, nil
}

func evaluationOf(r *model.ScheduleRequest, warnings []string) *dto.EvaluationResult {
	list := []string(r.Conflicts)
	if list == nil {
		list = []string{}
	}
	return &dto.EvaluationResult{
		RequestID:    r.RequestID,
		ConflictFlag: r.ConflictFlag,
		Conflicts:    list,
		Warnings:     warnings,
	}
}

// sameResources reports whether the locked snapshot still describes the row.
func sameResources(a, b *model.ScheduleRequest) bool {
	return deref(a.RoomID) == deref(b.RoomID) && a.InstructorID == b.InstructorID && deref(a.ScheduleID) == deref(b.ScheduleID)
}

func nonEmpty(p *string) *string {
	if p == nil || strings.TrimSpace(*p) == "" {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}
