package service

import (
	"context"
	"errors"
	"testing"

	"github.com/markkent-max/schedease/internal/dto"
	"github.com/markkent-max/schedease/internal/model"
)

// ════════════════════════════════════════════════════════════
// Create
// ════════════════════════════════════════════════════════════

func TestScheduleService_Create_Draft(t *testing.T) {
	env := newTestEnv(t)
	s := env.draft(t, courseCS101, instAlice, room101, model.Monday, "9:00", "10:30")

	if s.Status != model.ScheduleDraft {
		t.Errorf("status = %s, want draft", s.Status)
	}
	if s.StartTime != "09:00" || s.EndTime != "10:30" {
		t.Errorf("window = %s-%s, want 09:00-10:30", s.StartTime, s.EndTime)
	}
	if s.CourseCode != "CS101" || s.InstructorName != "Alice Reyes" || s.RoomName != "Room 101" {
		t.Errorf("derived fields not synced: %+v", s)
	}
	if s.AcademicYear != "2025-2026" {
		t.Errorf("academic year = %q", s.AcademicYear)
	}
	if len(s.Conflicts) != 0 {
		t.Errorf("draft should carry no conflicts, got %v", s.Conflicts)
	}
}

func TestScheduleService_Create_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  dto.CreateScheduleRequest
	}{
		{"end before start", dto.CreateScheduleRequest{CourseID: courseCS101, InstructorID: instAlice, RoomID: room101,
			DayOfWeek: "Monday", StartTime: "11:00", EndTime: "10:00", Semester: "first", Year: 2025}},
		{"empty window", dto.CreateScheduleRequest{CourseID: courseCS101, InstructorID: instAlice, RoomID: room101,
			DayOfWeek: "Monday", StartTime: "10:00", EndTime: "10:00", Semester: "first", Year: 2025}},
		{"bad clock", dto.CreateScheduleRequest{CourseID: courseCS101, InstructorID: instAlice, RoomID: room101,
			DayOfWeek: "Monday", StartTime: "25:00", EndTime: "26:00", Semester: "first", Year: 2025}},
		{"bad day", dto.CreateScheduleRequest{CourseID: courseCS101, InstructorID: instAlice, RoomID: room101,
			DayOfWeek: "Funday", StartTime: "09:00", EndTime: "10:00", Semester: "first", Year: 2025}},
		{"missing course", dto.CreateScheduleRequest{InstructorID: instAlice, RoomID: room101,
			DayOfWeek: "Monday", StartTime: "09:00", EndTime: "10:00", Semester: "first", Year: 2025}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.schedule.Create(ctx, &tt.req, adminID)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
	if len(env.store.schedules) != 0 {
		t.Errorf("invalid input must not persist, found %d schedules", len(env.store.schedules))
	}
}

func TestScheduleService_Create_UnknownRoom(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.schedule.Create(context.Background(), &dto.CreateScheduleRequest{
		CourseID: courseCS101, InstructorID: instAlice, RoomID: "30000000-0000-4000-8000-000000000999",
		DayOfWeek: "Monday", StartTime: "09:00", EndTime: "10:00", Semester: "first", Year: 2025,
	}, adminID)
	if !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestScheduleService_Create_Advisories(t *testing.T) {
	env := newTestEnv(t)
	res, err := env.schedule.Create(context.Background(), &dto.CreateScheduleRequest{
		CourseID: courseCS101, InstructorID: instAlice, RoomID: room102,
		DayOfWeek: "Saturday", StartTime: "09:00", EndTime: "10:00", Semester: "first", Year: 2025,
	}, adminID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !containsSubstring(res.Warnings, "seats 20") {
		t.Errorf("expected capacity warning, got %v", res.Warnings)
	}
	if !containsSubstring(res.Warnings, "not available on Saturday") {
		t.Errorf("expected availability warning, got %v", res.Warnings)
	}
}

// ════════════════════════════════════════════════════════════
// Publish
// ════════════════════════════════════════════════════════════

func TestScheduleService_Publish_RoomConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.published(t, courseCS101, instAlice, room101, model.Monday, "09:00", "10:30")
	b := env.draft(t, courseMATH20, instBob, room101, model.Monday, "10:00", "11:00")

	res, err := env.schedule.Publish(ctx, b.ScheduleID, adminID)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if res.Status != string(model.ScheduleConflict) {
		t.Fatalf("status = %s, want conflict", res.Status)
	}
	if len(res.Conflicts) != 1 {
		t.Fatalf("conflicts = %v, want exactly one", res.Conflicts)
	}
	if !containsSubstring(res.Conflicts, "room conflict") || !containsSubstring(res.Conflicts, a.ScheduleID) {
		t.Errorf("conflict should name the room and %s: %v", a.ScheduleID, res.Conflicts)
	}

	if got := env.stored(t, a.ScheduleID); got.Status != model.SchedulePublished || len(got.Conflicts) != 0 {
		t.Errorf("existing schedule must stay published and clean: %s %v", got.Status, got.Conflicts)
	}
	if got := env.stored(t, b.ScheduleID); got.Status != model.ScheduleConflict || got.PublishedAt != nil {
		t.Errorf("stored candidate = %s published_at=%v", got.Status, got.PublishedAt)
	}
}

func TestScheduleService_Publish_AdjacentWindowsDoNotConflict(t *testing.T) {
	env := newTestEnv(t)
	env.published(t, courseCS101, instAlice, room101, model.Monday, "09:00", "10:00")
	env.published(t, courseCS102, instAlice, room101, model.Monday, "10:00", "11:00")
}

func TestScheduleService_Publish_DifferentDaysDoNotConflict(t *testing.T) {
	env := newTestEnv(t)
	env.published(t, courseCS101, instAlice, room101, model.Monday, "09:00", "10:00")
	env.published(t, courseCS102, instAlice, room101, model.Tuesday, "09:00", "10:00")
}

func TestScheduleService_Publish_InstructorConflict(t *testing.T) {
	env := newTestEnv(t)
	a := env.published(t, courseCS101, instAlice, room101, model.Wednesday, "13:00", "14:30")
	b := env.draft(t, courseCS102, instAlice, room102, model.Wednesday, "14:00", "15:00")

	res, err := env.schedule.Publish(context.Background(), b.ScheduleID, adminID)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if res.Status != string(model.ScheduleConflict) {
		t.Fatalf("status = %s, want conflict", res.Status)
	}
	if !containsSubstring(res.Conflicts, "instructor conflict") || !containsSubstring(res.Conflicts, a.ScheduleID) {
		t.Errorf("unexpected conflicts %v", res.Conflicts)
	}
}

func TestScheduleService_Publish_StudentConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.published(t, courseCS101, instAlice, room101, model.Thursday, "09:00", "10:00")
	if _, err := env.enrollment.Enroll(ctx, a.ScheduleID, &dto.EnrollRequest{StudentID: studentIDs[0]}, adminID); err != nil {
		t.Fatalf("enroll a: %v", err)
	}

	b := env.draft(t, courseMATH20, instBob, room102, model.Thursday, "09:30", "10:30")
	if _, err := env.enrollment.Enroll(ctx, b.ScheduleID, &dto.EnrollRequest{StudentID: studentIDs[0]}, adminID); err != nil {
		t.Fatalf("enroll b: %v", err)
	}

	res, err := env.schedule.Publish(ctx, b.ScheduleID, adminID)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if res.Status != string(model.ScheduleConflict) || !containsSubstring(res.Conflicts, "student conflict") {
		t.Errorf("expected student conflict, got %s %v", res.Status, res.Conflicts)
	}
}

func TestScheduleService_Publish_Canceled(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.draft(t, courseCS101, instAlice, room101, model.Monday, "09:00", "10:00")
	if _, err := env.schedule.Cancel(ctx, s.ScheduleID, adminID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := env.schedule.Publish(ctx, s.ScheduleID, adminID); !errors.Is(err, ErrScheduleCanceled) {
		t.Errorf("expected ErrScheduleCanceled, got %v", err)
	}
}

func TestScheduleService_Publish_NotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.schedule.Publish(context.Background(), "b1000000-0000-4000-8000-000000000000", adminID)
	if !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("expected ErrScheduleNotFound, got %v", err)
	}
}

func TestScheduleService_Publish_RepublishKeepsPublishedAt(t *testing.T) {
	env := newTestEnv(t)
	a := env.published(t, courseCS101, instAlice, room101, model.Monday, "09:00", "10:00")
	first := env.stored(t, a.ScheduleID).PublishedAt

	res, err := env.schedule.Publish(context.Background(), a.ScheduleID, adminID)
	if err != nil {
		t.Fatalf("republish: %v", err)
	}
	if res.Status != string(model.SchedulePublished) {
		t.Fatalf("a schedule never conflicts with itself, got %v", res.Conflicts)
	}
	if res.Schedule.PublishedAt == nil || !res.Schedule.PublishedAt.Equal(*first) {
		t.Errorf("published_at moved: %v -> %v", first, res.Schedule.PublishedAt)
	}
}

// ════════════════════════════════════════════════════════════
// Cancel
// ════════════════════════════════════════════════════════════

func TestScheduleService_Cancel_RepublishesBlocked(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.published(t, courseCS101, instAlice, room101, model.Friday, "09:00", "10:00")
	b := env.draft(t, courseMATH20, instBob, room101, model.Friday, "09:30", "10:30")
	if res, _ := env.schedule.Publish(ctx, b.ScheduleID, adminID); res.Status != string(model.ScheduleConflict) {
		t.Fatalf("setup: b should conflict, got %s", res.Status)
	}

	res, err := env.schedule.Cancel(ctx, a.ScheduleID, adminID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if res.Schedule.Status != model.ScheduleCanceled {
		t.Errorf("status = %s", res.Schedule.Status)
	}
	if len(res.Republished) != 1 || res.Republished[0] != b.ScheduleID {
		t.Errorf("republished = %v, want [%s]", res.Republished, b.ScheduleID)
	}
	if got := env.stored(t, b.ScheduleID); got.Status != model.SchedulePublished || len(got.Conflicts) != 0 {
		t.Errorf("b = %s %v, want published and clean", got.Status, got.Conflicts)
	}
}

func TestScheduleService_Cancel_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.published(t, courseCS101, instAlice, room101, model.Monday, "09:00", "10:00")

	if _, err := env.schedule.Cancel(ctx, a.ScheduleID, adminID); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	version := env.stored(t, a.ScheduleID).Version
	res, err := env.schedule.Cancel(ctx, a.ScheduleID, adminID)
	if err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if res.Schedule.Status != model.ScheduleCanceled {
		t.Errorf("status = %s", res.Schedule.Status)
	}
	if got := env.stored(t, a.ScheduleID).Version; got != version {
		t.Errorf("second cancel wrote the row: version %d -> %d", version, got)
	}
}

func TestScheduleService_Cancel_FreesSlot(t *testing.T) {
	env := newTestEnv(t)
	a := env.published(t, courseCS101, instAlice, room101, model.Monday, "09:00", "10:00")
	if _, err := env.schedule.Cancel(context.Background(), a.ScheduleID, adminID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	env.published(t, courseCS102, instAlice, room101, model.Monday, "09:00", "10:00")
}

// ════════════════════════════════════════════════════════════
// Update
// ════════════════════════════════════════════════════════════

func TestScheduleService_Update_PublishedMoveIntoConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.published(t, courseCS101, instAlice, room101, model.Monday, "09:00", "10:00")
	b := env.published(t, courseMATH20, instBob, room102, model.Monday, "09:00", "10:00")

	room := room101
	res, err := env.schedule.Update(ctx, b.ScheduleID, &dto.UpdateScheduleRequest{RoomID: &room}, adminID)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if res.Status != string(model.ScheduleConflict) || !containsSubstring(res.Conflicts, a.ScheduleID) {
		t.Errorf("expected conflict against %s, got %s %v", a.ScheduleID, res.Status, res.Conflicts)
	}
	if res.Schedule.RoomName != "Room 101" {
		t.Errorf("room name not refreshed: %q", res.Schedule.RoomName)
	}
}

func TestScheduleService_Update_MoveRepublishesBlocked(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.published(t, courseCS101, instAlice, room101, model.Monday, "09:00", "10:30")
	b := env.draft(t, courseMATH20, instBob, room101, model.Monday, "10:00", "11:00")
	if res, _ := env.schedule.Publish(ctx, b.ScheduleID, adminID); res.Status != string(model.ScheduleConflict) {
		t.Fatalf("setup: b should conflict, got %s", res.Status)
	}

	day := string(model.Tuesday)
	res, err := env.schedule.Update(ctx, a.ScheduleID, &dto.UpdateScheduleRequest{DayOfWeek: &day}, adminID)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if res.Status != string(model.SchedulePublished) {
		t.Errorf("a = %s %v, want published", res.Status, res.Conflicts)
	}
	if got := env.stored(t, b.ScheduleID); got.Status != model.SchedulePublished || len(got.Conflicts) != 0 {
		t.Errorf("b = %s %v, want published and clean", got.Status, got.Conflicts)
	}
}

func TestScheduleService_Update_DraftIsNotEvaluated(t *testing.T) {
	env := newTestEnv(t)
	env.published(t, courseCS101, instAlice, room101, model.Monday, "09:00", "10:00")
	b := env.draft(t, courseMATH20, instBob, room102, model.Monday, "09:00", "10:00")

	room := room101
	res, err := env.schedule.Update(context.Background(), b.ScheduleID, &dto.UpdateScheduleRequest{RoomID: &room}, adminID)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if res.Status != string(model.ScheduleDraft) || len(res.Conflicts) != 0 {
		t.Errorf("draft = %s %v, want untouched draft", res.Status, res.Conflicts)
	}
}

func TestScheduleService_Update_InvalidWindow(t *testing.T) {
	env := newTestEnv(t)
	s := env.draft(t, courseCS101, instAlice, room101, model.Monday, "09:00", "10:00")
	end := "08:00"
	_, err := env.schedule.Update(context.Background(), s.ScheduleID, &dto.UpdateScheduleRequest{EndTime: &end}, adminID)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if got := env.stored(t, s.ScheduleID); got.EndTime != "10:00" {
		t.Errorf("end time persisted despite validation failure: %s", got.EndTime)
	}
}

// ════════════════════════════════════════════════════════════
// List
// ════════════════════════════════════════════════════════════

func TestScheduleService_List_FilterByDay(t *testing.T) {
	env := newTestEnv(t)
	env.draft(t, courseCS101, instAlice, room101, model.Monday, "09:00", "10:00")
	env.draft(t, courseCS102, instAlice, room101, model.Tuesday, "09:00", "10:00")

	list, total, err := env.schedule.List(context.Background(), &dto.ScheduleListRequest{DayOfWeek: "tuesday"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].DayOfWeek != model.Tuesday {
		t.Errorf("got %d/%d %+v", len(list), total, list)
	}
}
