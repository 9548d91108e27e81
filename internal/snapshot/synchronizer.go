package snapshot

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/markkent-max/schedease/internal/model"
	"github.com/markkent-max/schedease/internal/repository"
)

// ReferenceError a referenced record could not be resolved. The owning write
// still proceeds with the derived fields cleared.
type ReferenceError struct {
	Kind string
	ID   string
	Err  error
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s %s could not be resolved: %v", e.Kind, e.ID, e.Err)
}

func (e *ReferenceError) Unwrap() error { return e.Err }

// Result of one synchronization.
type Result struct {
	Missing []*ReferenceError
}

// Warnings renders unresolved references for API responses.
func (r Result) Warnings() []string {
	out := make([]string, 0, len(r.Missing))
	for _, m := range r.Missing {
		out = append(out, m.Error())
	}
	return out
}

func (r *Result) add(e *ReferenceError) { r.Missing = append(r.Missing, e) }

// Synchronizer resolves references through a repository and fills derived
// fields. Bind it to the transactional repository so resolution and the
// owning write see the same state.
type Synchronizer struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// New creates a Synchronizer over repo.
func New(repo *repository.Repository, logger *zap.Logger) *Synchronizer {
	return &Synchronizer{repo: repo, logger: logger}
}

// resolve maps not-found to a ReferenceError and passes store failures through.
func (s *Synchronizer) resolve(kind, id string, err error, res *Result) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Warn("reference unresolved, derived fields cleared",
			zap.String("kind", kind), zap.String("id", id))
		res.add(&ReferenceError{Kind: kind, ID: id, Err: err})
		return nil
	}
	return fmt.Errorf("resolve %s %s: %w", kind, id, err)
}

func (s *Synchronizer) instructor(ctx context.Context, id string, res *Result) (*InstructorSnapshot, error) {
	if id == "" {
		return nil, nil
	}
	inst, err := s.repo.Instructor.GetByID(ctx, id)
	if err != nil {
		return nil, s.resolve("instructor", id, err, res)
	}
	if inst.User == nil {
		res.add(&ReferenceError{Kind: "user", ID: inst.UserID, Err: gorm.ErrRecordNotFound})
		return nil, nil
	}
	return OfInstructor(inst), nil
}

func (s *Synchronizer) course(ctx context.Context, id string, res *Result) (*CourseSnapshot, error) {
	if id == "" {
		return nil, nil
	}
	c, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		return nil, s.resolve("course", id, err, res)
	}
	return OfCourse(c), nil
}

func (s *Synchronizer) room(ctx context.Context, id string, res *Result) (*RoomSnapshot, error) {
	if id == "" {
		return nil, nil
	}
	r, err := s.repo.Room.GetByID(ctx, id)
	if err != nil {
		return nil, s.resolve("room", id, err, res)
	}
	return OfRoom(r), nil
}

func (s *Synchronizer) student(ctx context.Context, id string, res *Result) (*StudentSnapshot, error) {
	if id == "" {
		return nil, nil
	}
	st, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		return nil, s.resolve("student", id, err, res)
	}
	return OfStudent(st), nil
}

// ── per record ──

// SyncCourse sets InstructorName from the linked instructor, or clears it.
func (s *Synchronizer) SyncCourse(ctx context.Context, c *model.Course) (Result, error) {
	var res Result
	is, err := s.instructor(ctx, deref(c.InstructorID), &res)
	if err != nil {
		return res, err
	}
	ApplyInstructorToCourse(c, is)
	return res, nil
}

// SyncSchedule fills course, instructor and room display fields.
func (s *Synchronizer) SyncSchedule(ctx context.Context, sc *model.Schedule) (Result, error) {
	var res Result
	cs, err := s.course(ctx, sc.CourseID, &res)
	if err != nil {
		return res, err
	}
	is, err := s.instructor(ctx, sc.InstructorID, &res)
	if err != nil {
		return res, err
	}
	rs, err := s.room(ctx, sc.RoomID, &res)
	if err != nil {
		return res, err
	}
	ApplyToSchedule(sc, cs, is, rs)
	return res, nil
}

// SyncRequest fills instructor and the optional course and room display fields.
func (s *Synchronizer) SyncRequest(ctx context.Context, r *model.ScheduleRequest) (Result, error) {
	var res Result
	is, err := s.instructor(ctx, r.InstructorID, &res)
	if err != nil {
		return res, err
	}
	cs, err := s.course(ctx, deref(r.CourseID), &res)
	if err != nil {
		return res, err
	}
	rs, err := s.room(ctx, deref(r.RoomID), &res)
	if err != nil {
		return res, err
	}
	ApplyToRequest(r, is, cs, rs)
	return res, nil
}

// SyncEnrollment fills student and course display fields.
func (s *Synchronizer) SyncEnrollment(ctx context.Context, e *model.Enrollment) (Result, error) {
	var res Result
	ss, err := s.student(ctx, e.StudentID, &res)
	if err != nil {
		return res, err
	}
	cs, err := s.course(ctx, e.CourseID, &res)
	if err != nil {
		return res, err
	}
	ApplyToEnrollment(e, ss, cs)
	return res, nil
}

// ── propagation ──

// PropagateUser pushes a renamed user into every record that copies its name.
func (s *Synchronizer) PropagateUser(ctx context.Context, u *model.User) error {
	insts, err := s.repo.Instructor.ListByUser(ctx, u.UserID)
	if err != nil {
		return err
	}
	for _, inst := range insts {
		if _, err := s.repo.Course.RefreshInstructorName(ctx, inst.InstructorID, u.Name); err != nil {
			return err
		}
		if _, err := s.repo.Schedule.RefreshInstructorName(ctx, inst.InstructorID, u.Name); err != nil {
			return err
		}
		if _, err := s.repo.Request.RefreshInstructorName(ctx, inst.InstructorID, u.Name); err != nil {
			return err
		}
	}
	n, err := s.repo.Enrollment.RefreshStudent(ctx, u.UserID, u.Name, u.Department)
	if err != nil {
		return err
	}
	s.logger.Debug("user snapshot propagated",
		zap.String("user_id", u.UserID), zap.Int("instructors", len(insts)), zap.Int64("enrollments", n))
	return nil
}

// PropagateCourse pushes course code and name into schedules, requests and enrollments.
func (s *Synchronizer) PropagateCourse(ctx context.Context, c *model.Course) error {
	if _, err := s.repo.Schedule.RefreshCourse(ctx, c.CourseID, c.Code, c.Name); err != nil {
		return err
	}
	if _, err := s.repo.Request.RefreshCourse(ctx, c.CourseID, c.Code, c.Name); err != nil {
		return err
	}
	_, err := s.repo.Enrollment.RefreshCourse(ctx, c.CourseID, c.Code, c.Name)
	return err
}

// PropagateRoom pushes a room name into schedules and requests.
func (s *Synchronizer) PropagateRoom(ctx context.Context, r *model.Room) error {
	if _, err := s.repo.Schedule.RefreshRoomName(ctx, r.RoomID, r.Name); err != nil {
		return err
	}
	_, err := s.repo.Request.RefreshRoomName(ctx, r.RoomID, r.Name)
	return err
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
