package service

import (
	"context"
	"errors"
	"testing"

	"github.com/markkent-max/schedease/internal/dto"
	"github.com/markkent-max/schedease/internal/model"
)

func TestEnrollmentService_Enroll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.published(t, courseCS101, instAlice, room101, model.Monday, "09:00", "10:00")

	e, err := env.enrollment.Enroll(ctx, s.ScheduleID, &dto.EnrollRequest{StudentID: studentIDs[0]}, adminID)
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if e.CourseID != courseCS101 || e.CourseCode != "CS101" || e.StudentName != "Student A" {
		t.Errorf("enrollment fields = %+v", e)
	}
	if e.InstructorID == nil || *e.InstructorID != instAlice {
		t.Errorf("instructor_id = %v", e.InstructorID)
	}
	if got := env.stored(t, s.ScheduleID).StudentsEnrolled; got != 1 {
		t.Errorf("students_enrolled = %d, want 1", got)
	}
	if got := env.store.students[studentIDs[0]].EnrolledCourses; len(got) != 1 || got[0] != courseCS101 {
		t.Errorf("enrolled_courses = %v", got)
	}

	_, err = env.enrollment.Enroll(ctx, s.ScheduleID, &dto.EnrollRequest{StudentID: studentIDs[0]}, adminID)
	if !errors.Is(err, ErrDuplicateEnrollment) {
		t.Fatalf("expected ErrDuplicateEnrollment, got %v", err)
	}
	if got := env.stored(t, s.ScheduleID).StudentsEnrolled; got != 1 {
		t.Errorf("duplicate changed the counter: %d", got)
	}
}

func TestEnrollmentService_Enroll_Rejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.draft(t, courseCS101, instAlice, room101, model.Monday, "09:00", "10:00")

	_, err := env.enrollment.Enroll(ctx, s.ScheduleID, &dto.EnrollRequest{StudentID: "50000000-0000-4000-8000-000000000999"}, adminID)
	if !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("unknown student: %v", err)
	}
	_, err = env.enrollment.Enroll(ctx, "b1000000-0000-4000-8000-000000000999", &dto.EnrollRequest{StudentID: studentIDs[0]}, adminID)
	if !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("unknown schedule: %v", err)
	}
	_, err = env.enrollment.Enroll(ctx, s.ScheduleID, &dto.EnrollRequest{StudentID: "not-a-uuid"}, adminID)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("malformed id: %v", err)
	}

	if _, err := env.schedule.Cancel(ctx, s.ScheduleID, adminID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	_, err = env.enrollment.Enroll(ctx, s.ScheduleID, &dto.EnrollRequest{StudentID: studentIDs[0]}, adminID)
	if !errors.Is(err, ErrScheduleCanceled) {
		t.Errorf("canceled schedule: %v", err)
	}
}

func TestEnrollmentService_BulkEnroll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.published(t, courseCS101, instAlice, room101, model.Monday, "09:00", "10:00")

	if _, err := env.enrollment.Enroll(ctx, s.ScheduleID, &dto.EnrollRequest{StudentID: studentIDs[2]}, adminID); err != nil {
		t.Fatalf("pre-enroll: %v", err)
	}

	res, err := env.enrollment.BulkEnroll(ctx, s.ScheduleID, &dto.BulkEnrollRequest{StudentIDs: studentIDs}, adminID)
	if err != nil {
		t.Fatalf("bulk enroll: %v", err)
	}
	if len(res.Created) != 4 || len(res.Skipped) != 1 {
		t.Fatalf("created=%d skipped=%d, want 4 and 1", len(res.Created), len(res.Skipped))
	}
	if res.Skipped[0].StudentID != studentIDs[2] || res.Skipped[0].Reason != "already enrolled" {
		t.Errorf("skipped = %+v", res.Skipped[0])
	}

	// input order is kept
	want := []string{studentIDs[0], studentIDs[1], studentIDs[3], studentIDs[4]}
	for i, e := range res.Created {
		if e.StudentID != want[i] {
			t.Errorf("created[%d] = %s, want %s", i, e.StudentID, want[i])
		}
	}

	if got := env.stored(t, s.ScheduleID).StudentsEnrolled; got != 5 {
		t.Errorf("students_enrolled = %d, want 5", got)
	}
}

func TestEnrollmentService_BulkEnroll_MixedInput(t *testing.T) {
	env := newTestEnv(t)
	s := env.draft(t, courseCS101, instAlice, room101, model.Monday, "09:00", "10:00")
	unknown := "50000000-0000-4000-8000-000000000999"

	res, err := env.enrollment.BulkEnroll(context.Background(), s.ScheduleID, &dto.BulkEnrollRequest{
		StudentIDs: []string{studentIDs[0], unknown, studentIDs[0]},
	}, adminID)
	if err != nil {
		t.Fatalf("bulk enroll: %v", err)
	}
	if len(res.Created) != 1 {
		t.Fatalf("created = %d", len(res.Created))
	}
	reasons := map[string]bool{}
	for _, sk := range res.Skipped {
		reasons[sk.Reason] = true
	}
	if !reasons["student not found"] || !reasons["duplicate in request"] {
		t.Errorf("skipped = %+v", res.Skipped)
	}
}

func TestEnrollmentService_BulkEnroll_UnknownSchedule(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.enrollment.BulkEnroll(context.Background(), "b1000000-0000-4000-8000-000000000999",
		&dto.BulkEnrollRequest{StudentIDs: studentIDs[:1]}, adminID)
	if !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("expected ErrScheduleNotFound, got %v", err)
	}
}

func TestEnrollmentService_Unenroll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.published(t, courseCS101, instAlice, room101, model.Monday, "09:00", "10:00")
	if _, err := env.enrollment.Enroll(ctx, s.ScheduleID, &dto.EnrollRequest{StudentID: studentIDs[0]}, adminID); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	if err := env.enrollment.Unenroll(ctx, s.ScheduleID, studentIDs[0]); err != nil {
		t.Fatalf("unenroll: %v", err)
	}
	if got := env.stored(t, s.ScheduleID).StudentsEnrolled; got != 0 {
		t.Errorf("students_enrolled = %d", got)
	}
	if err := env.enrollment.Unenroll(ctx, s.ScheduleID, studentIDs[0]); !errors.Is(err, ErrEnrollmentNotFound) {
		t.Errorf("second unenroll: expected ErrEnrollmentNotFound, got %v", err)
	}
}

func TestEnrollmentService_Reconcile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.published(t, courseCS101, instAlice, room101, model.Monday, "09:00", "10:00")
	if _, err := env.enrollment.BulkEnroll(ctx, s.ScheduleID, &dto.BulkEnrollRequest{StudentIDs: studentIDs[:3]}, adminID); err != nil {
		t.Fatalf("bulk enroll: %v", err)
	}

	res, err := env.enrollment.Reconcile(ctx, s.ScheduleID)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if res.Corrected || res.Before != 3 || res.After != 3 {
		t.Errorf("clean reconcile = %+v", res)
	}

	env.store.mu.Lock()
	env.store.schedules[s.ScheduleID].StudentsEnrolled = 11
	env.store.mu.Unlock()

	res, err = env.enrollment.Reconcile(ctx, s.ScheduleID)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !res.Corrected || res.Before != 11 || res.After != 3 {
		t.Errorf("drift reconcile = %+v", res)
	}
	if got := env.stored(t, s.ScheduleID).StudentsEnrolled; got != 3 {
		t.Errorf("students_enrolled = %d, want 3", got)
	}
}
