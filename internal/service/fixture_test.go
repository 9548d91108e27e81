package service

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/markkent-max/schedease/internal/dto"
	"github.com/markkent-max/schedease/internal/model"
	"github.com/markkent-max/schedease/pkg/lock"
)

// ── seed ids ──

const (
	adminID = "10000000-0000-4000-8000-000000000001"

	userAlice = "10000000-0000-4000-8000-000000000011"
	userBob   = "10000000-0000-4000-8000-000000000012"

	instAlice = "20000000-0000-4000-8000-000000000001"
	instBob   = "20000000-0000-4000-8000-000000000002"

	room101 = "30000000-0000-4000-8000-000000000101"
	room102 = "30000000-0000-4000-8000-000000000102"

	courseCS101  = "40000000-0000-4000-8000-000000000001"
	courseCS102  = "40000000-0000-4000-8000-000000000002"
	courseMATH20 = "40000000-0000-4000-8000-000000000003"
)

// studentIDs five seeded students.
var studentIDs = []string{
	"50000000-0000-4000-8000-000000000001",
	"50000000-0000-4000-8000-000000000002",
	"50000000-0000-4000-8000-000000000003",
	"50000000-0000-4000-8000-000000000004",
	"50000000-0000-4000-8000-000000000005",
}

type testEnv struct {
	store      *memStore
	schedule   ScheduleService
	request    ScheduleRequestService
	enrollment EnrollmentService
	user       UserService
	course     CourseService
	room       RoomService
	export     ExportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newMemStore()
	seedCatalog(t, store)
	repo := store.repository()
	logger := zap.NewNop()
	locker := lock.NewLocal(0)
	return &testEnv{
		store:      store,
		schedule:   NewScheduleService(repo, locker, logger),
		request:    NewScheduleRequestService(repo, locker, logger),
		enrollment: NewEnrollmentService(repo, 4, logger),
		user:       NewUserService(repo, logger),
		course:     NewCourseService(repo, logger),
		room:       NewRoomService(repo, logger),
		export:     NewExportService(repo, logger),
	}
}

// seedCatalog two instructors, two rooms, three courses and five students.
// Alice teaches Monday to Friday 08:00-17:00; Bob declares no availability.
func seedCatalog(t *testing.T, m *memStore) {
	t.Helper()
	m.users[adminID] = &model.User{UserID: adminID, Name: "Admin", Email: "admin@example.edu", Role: model.RoleAdmin}
	m.users[userAlice] = &model.User{UserID: userAlice, Name: "Alice Reyes", Email: "alice@example.edu", Role: model.RoleInstructor, Department: "CS"}
	m.users[userBob] = &model.User{UserID: userBob, Name: "Bob Cruz", Email: "bob@example.edu", Role: model.RoleInstructor, Department: "Math"}

	week := model.WeeklyAvailability{}
	for _, d := range model.Weekdays[:5] {
		week[d] = []model.TimeWindow{{StartTime: "08:00", EndTime: "17:00"}}
	}
	avail, err := model.EncodeAvailability(week)
	if err != nil {
		t.Fatalf("encode availability: %v", err)
	}
	m.instructors[instAlice] = &model.Instructor{InstructorID: instAlice, UserID: userAlice, MaxHoursPerWeek: 18, Availability: avail}
	m.instructors[instBob] = &model.Instructor{InstructorID: instBob, UserID: userBob, MaxHoursPerWeek: 18}

	m.rooms[room101] = &model.Room{RoomID: room101, Name: "Room 101", Type: model.RoomClassroom, Capacity: 40,
		Equipment: model.StringArray{"projector"}, IsAvailable: true}
	m.rooms[room102] = &model.Room{RoomID: room102, Name: "Room 102", Type: model.RoomComputerLab, Capacity: 20,
		Equipment: model.StringArray{"computers", "projector"}, IsAvailable: true}

	m.courses[courseCS101] = &model.Course{CourseID: courseCS101, Code: "CS101", Name: "Intro to Programming",
		Type: model.CourseLecture, Duration: 90, RequiredCapacity: 30, InstructorID: strPtr(instAlice), InstructorName: "Alice Reyes"}
	m.courses[courseCS102] = &model.Course{CourseID: courseCS102, Code: "CS102", Name: "Data Structures",
		Type: model.CourseLecture, Duration: 90, RequiredCapacity: 30, InstructorID: strPtr(instAlice), InstructorName: "Alice Reyes"}
	m.courses[courseMATH20] = &model.Course{CourseID: courseMATH20, Code: "MATH20", Name: "Linear Algebra",
		Type: model.CourseLecture, Duration: 60, RequiredCapacity: 10, InstructorID: strPtr(instBob), InstructorName: "Bob Cruz"}

	for i, id := range studentIDs {
		uid := "60000000-0000-4000-8000-00000000000" + string(rune('1'+i))
		m.users[uid] = &model.User{UserID: uid, Name: "Student " + string(rune('A'+i)), Email: uid + "@example.edu",
			Role: model.RoleStudent, Department: "CS"}
		m.students[id] = &model.Student{StudentID: id, UserID: uid, StudentNumber: "2025-000" + string(rune('1'+i)),
			Year: 1, Section: "A", EnrolledCourses: model.StringArray{}}
	}

	for _, u := range m.users {
		u.Version = 1
	}
	for _, i := range m.instructors {
		i.Version = 1
	}
	for _, r := range m.rooms {
		r.Version = 1
	}
	for _, c := range m.courses {
		c.Version = 1
	}
	for _, s := range m.students {
		s.Version = 1
	}
}

// ── scheduling helpers ──

func (e *testEnv) draft(t *testing.T, courseID, instructorID, roomID string, day model.DayOfWeek, start, end string) *model.Schedule {
	t.Helper()
	res, err := e.schedule.Create(context.Background(), &dto.CreateScheduleRequest{
		CourseID:     courseID,
		InstructorID: instructorID,
		RoomID:       roomID,
		DayOfWeek:    string(day),
		StartTime:    start,
		EndTime:      end,
		Semester:     "first",
		Year:         2025,
	}, adminID)
	if err != nil {
		t.Fatalf("create schedule: %v", err)
	}
	return res.Schedule
}

func (e *testEnv) published(t *testing.T, courseID, instructorID, roomID string, day model.DayOfWeek, start, end string) *model.Schedule {
	t.Helper()
	s := e.draft(t, courseID, instructorID, roomID, day, start, end)
	res, err := e.schedule.Publish(context.Background(), s.ScheduleID, adminID)
	if err != nil {
		t.Fatalf("publish schedule: %v", err)
	}
	if res.Status != string(model.SchedulePublished) {
		t.Fatalf("publish %s: status = %s, conflicts = %v", s.ScheduleID, res.Status, res.Conflicts)
	}
	return res.Schedule
}

func (e *testEnv) stored(t *testing.T, scheduleID string) *model.Schedule {
	t.Helper()
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	s, ok := e.store.schedules[scheduleID]
	if !ok {
		t.Fatalf("schedule %s not stored", scheduleID)
	}
	return copySchedule(s)
}

func (e *testEnv) storedRequest(t *testing.T, requestID string) *model.ScheduleRequest {
	t.Helper()
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	r, ok := e.store.requests[requestID]
	if !ok {
		t.Fatalf("request %s not stored", requestID)
	}
	return copyRequest(r)
}

func containsSubstring(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
