package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/markkent-max/schedease/internal/conflict"
	"github.com/markkent-max/schedease/internal/model"
	"github.com/markkent-max/schedease/internal/repository"
	"github.com/markkent-max/schedease/pkg/lock"
)

// ═══════════════════════════════════════════════════════════
// approved set
// ═══════════════════════════════════════════════════════════
//
// The comparison baseline for every conflict pass: published schedules plus
// approved requests holding a slot of their own. An approved room or time
// change is already reflected in its schedule, so it is not counted twice.

// approvedSet loads committed claims on cand's day that overlap cand's window.
// When cand carries students every overlapping schedule is relevant, otherwise
// only those sharing the room or the instructor.
func approvedSet(ctx context.Context, repo *repository.Repository, logger *zap.Logger, cand conflict.Claim) ([]conflict.Claim, error) {
	q := repository.SlotQuery{
		Day:   string(cand.Day),
		Start: conflict.FormatClock(cand.Window.Start),
		End:   conflict.FormatClock(cand.Window.End),
	}
	resourceQ := q
	resourceQ.RoomID = cand.RoomID
	resourceQ.InstructorID = cand.InstructorID

	scheduleQ := resourceQ
	if len(cand.StudentIDs) > 0 {
		scheduleQ = q
	}

	schedules, err := repo.Schedule.ListOverlapping(ctx, scheduleQ, model.SchedulePublished)
	if err != nil {
		return nil, err
	}

	var students map[string][]string
	if len(cand.StudentIDs) > 0 && len(schedules) > 0 {
		ids := make([]string, 0, len(schedules))
		for i := range schedules {
			ids = append(ids, schedules[i].ScheduleID)
		}
		if students, err = repo.Enrollment.StudentIDsBySchedules(ctx, ids); err != nil {
			return nil, err
		}
	}

	out := make([]conflict.Claim, 0, len(schedules))
	for i := range schedules {
		c, err := conflict.FromSchedule(&schedules[i], students[schedules[i].ScheduleID])
		if err != nil {
			// the table's window check should make this unreachable
			logger.Warn("skip unreadable schedule claim", zap.String("id", schedules[i].ScheduleID), zap.Error(err))
			continue
		}
		out = append(out, c)
	}

	// Requests carry no students; only room and instructor matter.
	if cand.RoomID == "" && cand.InstructorID == "" {
		return out, nil
	}
	requests, err := repo.Request.ListApprovedClaims(ctx, resourceQ)
	if err != nil {
		return nil, err
	}
	for i := range requests {
		c, err := conflict.FromRequest(&requests[i])
		if err != nil {
			logger.Warn("skip unreadable request claim", zap.String("id", requests[i].RequestID), zap.Error(err))
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// enrolledStudents ids enrolled in scheduleID.
func enrolledStudents(ctx context.Context, repo *repository.Repository, scheduleID string) ([]string, error) {
	m, err := repo.Enrollment.StudentIDsBySchedules(ctx, []string{scheduleID})
	if err != nil {
		return nil, err
	}
	return m[scheduleID], nil
}

// evaluateSchedule runs a full pass for s against the approved set.
func evaluateSchedule(ctx context.Context, repo *repository.Repository, logger *zap.Logger, s *model.Schedule) ([]conflict.Conflict, error) {
	students, err := enrolledStudents(ctx, repo, s.ScheduleID)
	if err != nil {
		return nil, err
	}
	cand, err := conflict.FromSchedule(s, students)
	if err != nil {
		return nil, invalid("%v", err)
	}
	existing, err := approvedSet(ctx, repo, logger, cand)
	if err != nil {
		return nil, err
	}
	return conflict.Detect(cand, existing), nil
}

// applyPublishOutcome moves s to published or conflict. A draft being
// recomputed after someone else's change stays a draft and only records findings.
func applyPublishOutcome(s *model.Schedule, found []conflict.Conflict, publishing bool, now time.Time) {
	s.Conflicts = model.StringArray(conflict.Descriptions(found))
	if s.Status == model.ScheduleDraft && !publishing {
		return
	}
	if len(found) == 0 {
		s.Status = model.SchedulePublished
		if s.PublishedAt == nil {
			s.PublishedAt = &now
		}
		return
	}
	s.Status = model.ScheduleConflict
}

// ═══════════════════════════════════════════════════════════
// request candidates
// ═══════════════════════════════════════════════════════════

// requestCandidate builds the claim a request would make once approved.
//
//   - room_change: the target schedule's slot in the requested room
//   - time_change: the requested day and window for the target schedule, in
//     the requested room when one is given, with the schedule's students
//   - schedule_conflict: the request's own fields
func requestCandidate(ctx context.Context, repo *repository.Repository, r *model.ScheduleRequest) (conflict.Claim, *model.Schedule, error) {
	own, err := conflict.FromRequest(r)
	if err != nil {
		return conflict.Claim{}, nil, invalid("%v", err)
	}
	if !r.RequestType.MutatesSchedule() {
		return own, nil, nil
	}

	sched, err := repo.Schedule.GetByID(ctx, deref(r.ScheduleID))
	if err != nil {
		return conflict.Claim{}, nil, notFound(err, ErrScheduleNotFound)
	}
	students, err := enrolledStudents(ctx, repo, sched.ScheduleID)
	if err != nil {
		return conflict.Claim{}, nil, err
	}
	base, err := conflict.FromSchedule(sched, students)
	if err != nil {
		return conflict.Claim{}, nil, invalid("%v", err)
	}

	cand := own
	cand.ScheduleID = sched.ScheduleID
	cand.InstructorID = sched.InstructorID
	cand.StudentIDs = base.StudentIDs
	switch r.RequestType {
	case model.RequestRoomChange:
		cand.Day, cand.Date, cand.Window = base.Day, nil, base.Window
		cand.RoomID = deref(r.RoomID)
	case model.RequestTimeChange:
		cand.Date = nil
		if cand.RoomID == "" {
			cand.RoomID = sched.RoomID
		}
	}
	return cand, sched, nil
}

// applyRequestToSchedule rewrites the target schedule as the approved request says.
func applyRequestToSchedule(s *model.Schedule, r *model.ScheduleRequest, day model.DayOfWeek) {
	switch r.RequestType {
	case model.RequestRoomChange:
		s.RoomID = deref(r.RoomID)
	case model.RequestTimeChange:
		s.DayOfWeek = day
		s.StartTime, s.EndTime = r.StartTime, r.EndTime
		if r.RoomID != nil && *r.RoomID != "" {
			s.RoomID = *r.RoomID
		}
	}
}

// ── helpers ──

func resourceKeys(roomID, instructorID string, extra ...string) []string {
	keys := []string{lock.RoomKey(roomID), lock.InstructorKey(instructorID)}
	return append(keys, extra...)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func strPtr(s string) *string { return &s }

// isDuplicate reports a unique index violation.
func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// isForeignKey reports a dangling reference rejected by the store.
func isForeignKey(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}
