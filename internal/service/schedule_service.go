package service

import (
	"context"
	"errors"
	"strconv"
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

// ScheduleService schedule lifecycle: draft, publish with conflict check, cancel.
type ScheduleService interface {
	Create(ctx context.Context, req *dto.CreateScheduleRequest, callerID string) (*dto.ScheduleResult, error)
	GetByID(ctx context.Context, id string) (*model.Schedule, error)
	List(ctx context.Context, req *dto.ScheduleListRequest) ([]model.Schedule, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateScheduleRequest, callerID string) (*dto.ScheduleResult, error)
	// Publish runs a conflict pass against the approved set and stores the
	// outcome: published when clean, conflict otherwise.
	Publish(ctx context.Context, id string, callerID string) (*dto.ScheduleResult, error)
	// Cancel soft deletes the schedule and re-checks schedules it may have blocked.
	Cancel(ctx context.Context, id string, callerID string) (*dto.CancelResult, error)
}

type scheduleService struct {
	repo   *repository.Repository
	locker lock.Locker
	logger *zap.Logger
	now    func() time.Time
}

// NewScheduleService creates a ScheduleService
func NewScheduleService(repo *repository.Repository, locker lock.Locker, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, locker: locker, logger: logger, now: time.Now}
}

// ────────────────────── Create ──────────────────────

func (s *scheduleService) Create(ctx context.Context, req *dto.CreateScheduleRequest, callerID string) (*dto.ScheduleResult, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	day, _ := model.ParseDayOfWeek(req.DayOfWeek)
	start, end, err := normalizeWindow(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	sched := &model.Schedule{
		CourseID:     req.CourseID,
		InstructorID: req.InstructorID,
		RoomID:       req.RoomID,
		DayOfWeek:    day,
		StartTime:    start,
		EndTime:      end,
		Semester:     model.Semester(req.Semester),
		Year:         req.Year,
		AcademicYear: strings.TrimSpace(req.AcademicYear),
		Status:       model.ScheduleDraft,
		Conflicts:    model.StringArray{},
	}
	if sched.AcademicYear == "" {
		sched.AcademicYear = academicYear(req.Year, sched.Semester)
	}
	sched.CreatedBy = &callerID
	sched.UpdatedBy = &callerID

	var sync snapshot.Result
	err = s.repo.Tx.WithTx(ctx, func(tx *repository.Repository) error {
		if err := requireScheduleRefs(ctx, tx, sched); err != nil {
			return err
		}
		var err error
		if sync, err = snapshot.New(tx, s.logger).SyncSchedule(ctx, sched); err != nil {
			return err
		}
		return tx.Schedule.Create(ctx, sched)
	})
	if err != nil {
		if !isKnown(err) {
			s.logger.Error("create schedule", zap.Error(err))
		}
		return nil, err
	}

	return &dto.ScheduleResult{
		Schedule:  sched,
		Status:    string(sched.Status),
		Conflicts: []string{},
		Warnings:  append(sync.Warnings(), s.advisories(ctx, sched)...),
	}, nil
}

// ────────────────────── Read ──────────────────────

func (s *scheduleService) GetByID(ctx context.Context, id string) (*model.Schedule, error) {
	sched, err := s.repo.Schedule.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrScheduleNotFound)
	}
	return sched, nil
}

func (s *scheduleService) List(ctx context.Context, req *dto.ScheduleListRequest) ([]model.Schedule, int64, error) {
	f := repository.ScheduleFilter{
		Semester:     req.Semester,
		Year:         req.Year,
		Status:       req.Status,
		RoomID:       req.RoomID,
		InstructorID: req.InstructorID,
		CourseID:     req.CourseID,
		Page:         repository.Page{Offset: req.GetOffset(), Limit: req.GetPageSize()},
	}
	if req.DayOfWeek != "" {
		day, err := model.ParseDayOfWeek(req.DayOfWeek)
		if err != nil {
			return nil, 0, invalid("%v", err)
		}
		f.Day = string(day)
	}
	list, total, err := s.repo.Schedule.List(ctx, f)
	if err != nil {
		s.logger.Error("list schedules", zap.Error(err))
		return nil, 0, err
	}
	return list, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *scheduleService) Update(ctx context.Context, id string, req *dto.UpdateScheduleRequest, callerID string) (*dto.ScheduleResult, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	current, err := s.repo.Schedule.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrScheduleNotFound)
	}

	newRoom, newInstructor := current.RoomID, current.InstructorID
	if req.RoomID != nil {
		newRoom = *req.RoomID
	}
	if req.InstructorID != nil {
		newInstructor = *req.InstructorID
	}
	keys := resourceKeys(current.RoomID, current.InstructorID, lock.RoomKey(newRoom), lock.InstructorKey(newInstructor), lock.RecordKey("schedule", id))

	var (
		sched   *model.Schedule
		found   []conflict.Conflict
		sync    snapshot.Result
		vacated *slot
	)
	err = func() error {
		release, err := s.locker.Lock(ctx, keys...)
		if err != nil {
			return err
		}
		defer release()

		return s.repo.Tx.WithTx(ctx, func(tx *repository.Repository) error {
			var err error
			if sched, err = tx.Schedule.GetByIDForUpdate(ctx, id); err != nil {
				return notFound(err, ErrScheduleNotFound)
			}
			if sched.Status == model.ScheduleCanceled {
				return ErrScheduleCanceled
			}
			before, wasPublished := slotOf(sched), sched.Status == model.SchedulePublished
			slotChanged, err := patchSchedule(sched, req)
			if err != nil {
				return err
			}
			if err := requireScheduleRefs(ctx, tx, sched); err != nil {
				return err
			}
			if sync, err = snapshot.New(tx, s.logger).SyncSchedule(ctx, sched); err != nil {
				return err
			}
			if slotChanged && sched.Status != model.ScheduleDraft {
				if found, err = evaluateSchedule(ctx, tx, s.logger, sched); err != nil {
					return err
				}
				applyPublishOutcome(sched, found, true, s.now())
			}
			if slotChanged && wasPublished {
				vacated = &before
			}
			sched.UpdatedBy = &callerID
			return tx.Schedule.Update(ctx, sched)
		})
	}()
	if err != nil {
		err = storeWriteError(err)
		if !isKnown(err) {
			s.logger.Error("update schedule", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	if vacated != nil {
		s.recheckBlocked(ctx, *vacated, sched.ScheduleID, callerID)
	}

	return &dto.ScheduleResult{
		Schedule:  sched,
		Status:    string(sched.Status),
		Conflicts: conflictsOf(sched),
		Warnings:  append(sync.Warnings(), s.advisories(ctx, sched)...),
	}, nil
}

// patchSchedule applies req to sched and reports whether the claimed slot moved.
func patchSchedule(sched *model.Schedule, req *dto.UpdateScheduleRequest) (bool, error) {
	before := [5]string{sched.RoomID, sched.InstructorID, string(sched.DayOfWeek), sched.StartTime, sched.EndTime}

	if req.CourseID != nil {
		sched.CourseID = *req.CourseID
	}
	if req.InstructorID != nil {
		sched.InstructorID = *req.InstructorID
	}
	if req.RoomID != nil {
		sched.RoomID = *req.RoomID
	}
	if req.DayOfWeek != nil {
		day, err := model.ParseDayOfWeek(*req.DayOfWeek)
		if err != nil {
			return false, invalid("%v", err)
		}
		sched.DayOfWeek = day
	}
	start, end := sched.StartTime, sched.EndTime
	if req.StartTime != nil {
		start = *req.StartTime
	}
	if req.EndTime != nil {
		end = *req.EndTime
	}
	var err error
	if sched.StartTime, sched.EndTime, err = normalizeWindow(start, end); err != nil {
		return false, err
	}
	if req.Semester != nil {
		sched.Semester = model.Semester(*req.Semester)
	}
	if req.Year != nil {
		sched.Year = *req.Year
	}
	if req.AcademicYear != nil {
		sched.AcademicYear = strings.TrimSpace(*req.AcademicYear)
	}

	after := [5]string{sched.RoomID, sched.InstructorID, string(sched.DayOfWeek), sched.StartTime, sched.EndTime}
	return before != after, nil
}

// ────────────────────── Publish ──────────────────────

func (s *scheduleService) Publish(ctx context.Context, id string, callerID string) (*dto.ScheduleResult, error) {
	current, err := s.repo.Schedule.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrScheduleNotFound)
	}

	release, err := s.locker.Lock(ctx, resourceKeys(current.RoomID, current.InstructorID, lock.RecordKey("schedule", id))...)
	if err != nil {
		return nil, storeWriteError(err)
	}
	defer release()

	var sched *model.Schedule
	err = s.repo.Tx.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		if sched, err = tx.Schedule.GetByIDForUpdate(ctx, id); err != nil {
			return notFound(err, ErrScheduleNotFound)
		}
		if sched.Status == model.ScheduleCanceled {
			return ErrScheduleCanceled
		}
		// the locks taken above must cover the row as it is now
		if sched.RoomID != current.RoomID || sched.InstructorID != current.InstructorID {
			return ErrConcurrentModification
		}

		found, err := evaluateSchedule(ctx, tx, s.logger, sched)
		if err != nil {
			return err
		}
		applyPublishOutcome(sched, found, true, s.now())
		sched.UpdatedBy = &callerID
		return tx.Schedule.Update(ctx, sched)
	})
	if err != nil {
		err = storeWriteError(err)
		if !isKnown(err) {
			s.logger.Error("publish schedule", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("schedule publish evaluated",
		zap.String("id", id), zap.String("status", string(sched.Status)), zap.Int("conflicts", len(sched.Conflicts)))

	return &dto.ScheduleResult{
		Schedule:  sched,
		Status:    string(sched.Status),
		Conflicts: conflictsOf(sched),
		Warnings:  s.advisories(ctx, sched),
	}, nil
}

// ────────────────────── Cancel ──────────────────────

func (s *scheduleService) Cancel(ctx context.Context, id string, callerID string) (*dto.CancelResult, error) {
	current, err := s.repo.Schedule.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrScheduleNotFound)
	}
	if current.Status == model.ScheduleCanceled {
		return &dto.CancelResult{Schedule: current}, nil
	}

	var sched *model.Schedule
	err = func() error {
		release, err := s.locker.Lock(ctx, resourceKeys(current.RoomID, current.InstructorID, lock.RecordKey("schedule", id))...)
		if err != nil {
			return err
		}
		defer release()

		return s.repo.Tx.WithTx(ctx, func(tx *repository.Repository) error {
			var err error
			if sched, err = tx.Schedule.GetByIDForUpdate(ctx, id); err != nil {
				return notFound(err, ErrScheduleNotFound)
			}
			if sched.Status == model.ScheduleCanceled {
				return nil
			}
			sched.Status = model.ScheduleCanceled
			sched.Conflicts = model.StringArray{}
			sched.UpdatedBy = &callerID
			return tx.Schedule.Update(ctx, sched)
		})
	}()
	if err != nil {
		err = storeWriteError(err)
		if !isKnown(err) {
			s.logger.Error("cancel schedule", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	return &dto.CancelResult{Schedule: sched, Republished: s.recheckBlocked(ctx, slotOf(sched), sched.ScheduleID, callerID)}, nil
}

// slot is the day and window a schedule held before a cancel or a move.
type slot struct {
	day        model.DayOfWeek
	start, end string
}

func slotOf(s *model.Schedule) slot {
	return slot{day: s.DayOfWeek, start: s.StartTime, end: s.EndTime}
}

// recheckBlocked republishes conflict-status schedules overlapping a vacated
// slot that are now clean. Each goes through Publish with its own locks, so
// the caller must have released its own. Failures are logged; the write that
// vacated the slot already committed.
func (s *scheduleService) recheckBlocked(ctx context.Context, vacated slot, sourceID, callerID string) []string {
	blocked, err := s.repo.Schedule.ListOverlapping(ctx, repository.SlotQuery{
		Day:   string(vacated.day),
		Start: vacated.start,
		End:   vacated.end,
	}, model.ScheduleConflict)
	if err != nil {
		s.logger.Warn("list blocked schedules", zap.String("source", sourceID), zap.Error(err))
		return nil
	}

	var republished []string
	for i := range blocked {
		if blocked[i].ScheduleID == sourceID {
			continue
		}
		res, err := s.Publish(ctx, blocked[i].ScheduleID, callerID)
		if err != nil {
			s.logger.Warn("re-check blocked schedule", zap.String("id", blocked[i].ScheduleID), zap.Error(err))
			continue
		}
		if res.Status == string(model.SchedulePublished) {
			republished = append(republished, blocked[i].ScheduleID)
		}
	}
	return republished
}

// ── helpers ──

// requireScheduleRefs the course, instructor and room of a schedule must exist.
func requireScheduleRefs(ctx context.Context, repo *repository.Repository, s *model.Schedule) error {
	if _, err := repo.Course.GetByID(ctx, s.CourseID); err != nil {
		return notFound(err, ErrCourseNotFound)
	}
	if _, err := repo.Instructor.GetByID(ctx, s.InstructorID); err != nil {
		return notFound(err, ErrInstructorNotFound)
	}
	if _, err := repo.Room.GetByID(ctx, s.RoomID); err != nil {
		return notFound(err, ErrRoomNotFound)
	}
	return nil
}

// advisories are best effort: a lookup failure drops the advisory, not the write.
func (s *scheduleService) advisories(ctx context.Context, sched *model.Schedule) []string {
	w, err := conflict.ParseWindow(sched.StartTime, sched.EndTime)
	if err != nil {
		return nil
	}
	return slotAdvisories(ctx, s.repo, s.logger, sched.DayOfWeek, w, sched.RoomID, sched.CourseID, sched.InstructorID)
}

func slotAdvisories(ctx context.Context, repo *repository.Repository, logger *zap.Logger,
	day model.DayOfWeek, w conflict.Window, roomID, courseID, instructorID string) []string {
	var res conflict.Resources
	if roomID != "" {
		if room, err := repo.Room.GetByID(ctx, roomID); err == nil {
			res.Room = room
		}
	}
	if courseID != "" {
		if course, err := repo.Course.GetByID(ctx, courseID); err == nil {
			res.Course = course
		}
	}
	if instructorID != "" {
		if inst, err := repo.Instructor.GetByID(ctx, instructorID); err == nil {
			avail, err := model.DecodeAvailability(inst.Availability)
			if err != nil {
				logger.Warn("instructor availability unreadable", zap.String("id", instructorID), zap.Error(err))
			}
			res.Availability = avail
		}
	}
	return conflict.Advisories(day, w, res)
}

func normalizeWindow(start, end string) (string, string, error) {
	w, err := conflict.ParseWindow(start, end)
	if err != nil {
		return "", "", invalid("%v", err)
	}
	return conflict.FormatClock(w.Start), conflict.FormatClock(w.End), nil
}

// academicYear 2025 first -> 2025-2026; second and summer belong to the year before.
func academicYear(year int, sem model.Semester) string {
	start := year
	if sem != model.SemesterFirst {
		start = year - 1
	}
	return strconv.Itoa(start) + "-" + strconv.Itoa(start+1)
}

func conflictsOf(s *model.Schedule) []string {
	if len(s.Conflicts) == 0 {
		return []string{}
	}
	return []string(s.Conflicts)
}

// isKnown reports errors that are part of the API contract and need no error log.
func isKnown(err error) bool {
	var ve *ValidationError
	var ce *ConflictError
	if errors.As(err, &ve) || errors.As(err, &ce) {
		return true
	}
	for _, known := range []error{
		ErrUserNotFound, ErrCourseNotFound, ErrRoomNotFound, ErrInstructorNotFound,
		ErrStudentNotFound, ErrScheduleNotFound, ErrRequestNotFound, ErrEnrollmentNotFound,
		ErrDuplicateEnrollment, ErrDuplicateCourseCode, ErrDuplicateEmail, ErrDuplicateStudentNumber,
		ErrDuplicateProfile, ErrConcurrentModification, ErrResourceBusy, ErrInvalidTransition,
		ErrScheduleCanceled, ErrRoleMismatch,
	} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}
