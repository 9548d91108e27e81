package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/markkent-max/schedease/internal/model"
	"github.com/markkent-max/schedease/internal/repository"
	pkgerrors "github.com/markkent-max/schedease/pkg/errors"
)

// ── in-memory store ──
//
// One store backs every mock repository so derived-field refreshes and
// counters behave like the real tables. Records are copied on the way in and
// out; a test that wants to inspect state reads the maps directly.

type memStore struct {
	mu          sync.Mutex
	seq         int
	clock       time.Time
	users       map[string]*model.User
	instructors map[string]*model.Instructor
	students    map[string]*model.Student
	courses     map[string]*model.Course
	rooms       map[string]*model.Room
	schedules   map[string]*model.Schedule
	requests    map[string]*model.ScheduleRequest
	enrollments map[string]*model.Enrollment // key studentID|scheduleID

	// txMu serializes WithTx like row locks would.
	txMu sync.Mutex
}

func newMemStore() *memStore {
	return &memStore{
		clock:       time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC),
		users:       make(map[string]*model.User),
		instructors: make(map[string]*model.Instructor),
		students:    make(map[string]*model.Student),
		courses:     make(map[string]*model.Course),
		rooms:       make(map[string]*model.Room),
		schedules:   make(map[string]*model.Schedule),
		requests:    make(map[string]*model.ScheduleRequest),
		enrollments: make(map[string]*model.Enrollment),
	}
}

// next returns a fresh uuid shaped id and a strictly increasing timestamp.
// kind fills the first block so ids read well in failures. Caller holds mu.
func (m *memStore) next(kind string) (string, time.Time) {
	m.seq++
	id := fmt.Sprintf("%08x-0000-4000-8000-%012d", kindCode[kind], m.seq)
	return id, m.clock.Add(time.Duration(m.seq) * time.Second)
}

var kindCode = map[string]int{
	"user": 0xa1, "inst": 0xa2, "stu": 0xa3, "course": 0xa4, "room": 0xa5,
	"sch": 0xb1, "req": 0xb2, "enr": 0xb3,
}

func (m *memStore) repository() *repository.Repository {
	repo := &repository.Repository{
		User:       &mockUserRepo{m},
		Course:     &mockCourseRepo{m},
		Room:       &mockRoomRepo{m},
		Instructor: &mockInstructorRepo{m},
		Student:    &mockStudentRepo{m},
		Schedule:   &mockScheduleRepo{m},
		Request:    &mockRequestRepo{m},
		Enrollment: &mockEnrollmentRepo{m},
	}
	repo.Tx = &mockTransactor{store: m, repo: repo}
	return repo
}

type mockTransactor struct {
	store *memStore
	repo  *repository.Repository
}

func (t *mockTransactor) WithTx(_ context.Context, fn func(repo *repository.Repository) error) error {
	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()
	return fn(t.repo)
}

func overlaps(day model.DayOfWeek, start, end string, q repository.SlotQuery) bool {
	return string(day) == q.Day && start < q.End && end > q.Start
}

func matchesResource(roomID, instructorID string, q repository.SlotQuery) bool {
	switch {
	case q.RoomID != "" && q.InstructorID != "":
		return roomID == q.RoomID || instructorID == q.InstructorID
	case q.RoomID != "":
		return roomID == q.RoomID
	case q.InstructorID != "":
		return instructorID == q.InstructorID
	}
	return true
}

// ── Mock UserRepository ──

type mockUserRepo struct{ m *memStore }

func (r *mockUserRepo) Create(_ context.Context, u *model.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, ex := range r.m.users {
		if strings.EqualFold(ex.Email, u.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	if u.UserID == "" {
		u.UserID, u.CreatedAt = r.m.next("user")
	}
	u.Version = 1
	cp := *u
	r.m.users[u.UserID] = &cp
	return nil
}

func (r *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if u, ok := r.m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) Update(_ context.Context, u *model.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	ex, ok := r.m.users[u.UserID]
	if !ok || ex.Version != u.Version {
		return pkgerrors.ErrOptimisticLock
	}
	u.Version++
	cp := *u
	r.m.users[u.UserID] = &cp
	return nil
}

// ── Mock InstructorRepository ──

type mockInstructorRepo struct{ m *memStore }

func (r *mockInstructorRepo) Create(_ context.Context, inst *model.Instructor) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, ex := range r.m.instructors {
		if ex.UserID == inst.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	if inst.InstructorID == "" {
		inst.InstructorID, inst.CreatedAt = r.m.next("inst")
	}
	inst.Version = 1
	cp := *inst
	cp.User = nil
	r.m.instructors[inst.InstructorID] = &cp
	return nil
}

func (r *mockInstructorRepo) GetByID(_ context.Context, id string) (*model.Instructor, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	inst, ok := r.m.instructors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *inst
	if u, ok := r.m.users[inst.UserID]; ok {
		uc := *u
		cp.User = &uc
	}
	return &cp, nil
}

func (r *mockInstructorRepo) ListByUser(_ context.Context, userID string) ([]model.Instructor, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.Instructor
	for _, inst := range r.m.instructors {
		if inst.UserID == userID {
			out = append(out, *inst)
		}
	}
	return out, nil
}

func (r *mockInstructorRepo) Update(_ context.Context, inst *model.Instructor) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	ex, ok := r.m.instructors[inst.InstructorID]
	if !ok || ex.Version != inst.Version {
		return pkgerrors.ErrOptimisticLock
	}
	inst.Version++
	cp := *inst
	cp.User = nil
	r.m.instructors[inst.InstructorID] = &cp
	return nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct{ m *memStore }

func (r *mockStudentRepo) Create(_ context.Context, st *model.Student) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, ex := range r.m.students {
		if ex.StudentNumber == st.StudentNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	if st.StudentID == "" {
		st.StudentID, st.CreatedAt = r.m.next("stu")
	}
	st.Version = 1
	cp := *st
	cp.User = nil
	r.m.students[st.StudentID] = &cp
	return nil
}

func (r *mockStudentRepo) get(id string) (*model.Student, bool) {
	st, ok := r.m.students[id]
	if !ok {
		return nil, false
	}
	cp := *st
	cp.EnrolledCourses = append(model.StringArray{}, st.EnrolledCourses...)
	if u, ok := r.m.users[st.UserID]; ok {
		uc := *u
		cp.User = &uc
	}
	return &cp, true
}

func (r *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if st, ok := r.get(id); ok {
		return st, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockStudentRepo) ListByIDs(_ context.Context, ids []string) ([]model.Student, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.Student
	for _, id := range ids {
		if st, ok := r.get(id); ok {
			out = append(out, *st)
		}
	}
	return out, nil
}

func (r *mockStudentRepo) AddEnrolledCourse(_ context.Context, studentID, courseID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	st, ok := r.m.students[studentID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if !st.EnrolledCourses.Contains(courseID) {
		st.EnrolledCourses = append(st.EnrolledCourses, courseID)
	}
	return nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct{ m *memStore }

func (r *mockCourseRepo) Create(_ context.Context, c *model.Course) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, ex := range r.m.courses {
		if ex.Code == c.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	if c.InstructorID != nil {
		if _, ok := r.m.instructors[*c.InstructorID]; !ok {
			return gorm.ErrForeignKeyViolated
		}
	}
	if c.CourseID == "" {
		c.CourseID, c.CreatedAt = r.m.next("course")
	}
	c.Version = 1
	cp := *c
	r.m.courses[c.CourseID] = &cp
	return nil
}

func (r *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if c, ok := r.m.courses[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockCourseRepo) List(_ context.Context, f repository.CourseFilter) ([]model.Course, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.Course
	for _, c := range r.m.courses {
		if f.Department != "" && c.Department != f.Department {
			continue
		}
		if f.InstructorID != "" && (c.InstructorID == nil || *c.InstructorID != f.InstructorID) {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *mockCourseRepo) Update(_ context.Context, c *model.Course) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	ex, ok := r.m.courses[c.CourseID]
	if !ok || ex.Version != c.Version {
		return pkgerrors.ErrOptimisticLock
	}
	for id, other := range r.m.courses {
		if id != c.CourseID && other.Code == c.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	c.Version++
	cp := *c
	r.m.courses[c.CourseID] = &cp
	return nil
}

func (r *mockCourseRepo) RefreshInstructorName(_ context.Context, instructorID, name string) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, c := range r.m.courses {
		if c.InstructorID != nil && *c.InstructorID == instructorID {
			c.InstructorName = name
			n++
		}
	}
	return n, nil
}

// ── Mock RoomRepository ──

type mockRoomRepo struct{ m *memStore }

func (r *mockRoomRepo) Create(_ context.Context, room *model.Room) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if room.RoomID == "" {
		room.RoomID, room.CreatedAt = r.m.next("room")
	}
	room.Version = 1
	cp := *room
	r.m.rooms[room.RoomID] = &cp
	return nil
}

func (r *mockRoomRepo) GetByID(_ context.Context, id string) (*model.Room, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if room, ok := r.m.rooms[id]; ok {
		cp := *room
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockRoomRepo) List(_ context.Context, availableOnly bool, _ repository.Page) ([]model.Room, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.Room
	for _, room := range r.m.rooms {
		if availableOnly && !room.IsAvailable {
			continue
		}
		out = append(out, *room)
	}
	return out, int64(len(out)), nil
}

func (r *mockRoomRepo) Update(_ context.Context, room *model.Room) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	ex, ok := r.m.rooms[room.RoomID]
	if !ok || ex.Version != room.Version {
		return pkgerrors.ErrOptimisticLock
	}
	room.Version++
	cp := *room
	r.m.rooms[room.RoomID] = &cp
	return nil
}

// ── Mock ScheduleRepository ──

type mockScheduleRepo struct{ m *memStore }

func copySchedule(s *model.Schedule) *model.Schedule {
	cp := *s
	cp.Conflicts = append(model.StringArray{}, s.Conflicts...)
	return &cp
}

func (r *mockScheduleRepo) Create(_ context.Context, s *model.Schedule) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if s.ScheduleID == "" {
		s.ScheduleID, s.CreatedAt = r.m.next("sch")
	}
	s.Version = 1
	r.m.schedules[s.ScheduleID] = copySchedule(s)
	return nil
}

func (r *mockScheduleRepo) GetByID(_ context.Context, id string) (*model.Schedule, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if s, ok := r.m.schedules[id]; ok {
		return copySchedule(s), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockScheduleRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Schedule, error) {
	return r.GetByID(ctx, id)
}

func (r *mockScheduleRepo) List(_ context.Context, f repository.ScheduleFilter) ([]model.Schedule, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.Schedule
	for _, s := range r.m.schedules {
		switch {
		case f.Semester != "" && string(s.Semester) != f.Semester,
			f.Year > 0 && s.Year != f.Year,
			f.Status != "" && string(s.Status) != f.Status,
			f.Day != "" && string(s.DayOfWeek) != f.Day,
			f.RoomID != "" && s.RoomID != f.RoomID,
			f.InstructorID != "" && s.InstructorID != f.InstructorID,
			f.CourseID != "" && s.CourseID != f.CourseID:
			continue
		}
		out = append(out, *copySchedule(s))
	}
	return out, int64(len(out)), nil
}

func (r *mockScheduleRepo) ListOverlapping(_ context.Context, q repository.SlotQuery, statuses ...model.ScheduleStatus) ([]model.Schedule, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.Schedule
	for _, s := range r.m.schedules {
		if !overlaps(s.DayOfWeek, s.StartTime, s.EndTime, q) || !matchesResource(s.RoomID, s.InstructorID, q) {
			continue
		}
		if len(statuses) > 0 {
			hit := false
			for _, st := range statuses {
				hit = hit || s.Status == st
			}
			if !hit {
				continue
			}
		}
		out = append(out, *copySchedule(s))
	}
	return out, nil
}

func (r *mockScheduleRepo) Update(_ context.Context, s *model.Schedule) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	ex, ok := r.m.schedules[s.ScheduleID]
	if !ok || ex.Version != s.Version {
		return pkgerrors.ErrOptimisticLock
	}
	s.Version++
	cp := copySchedule(s)
	cp.StudentsEnrolled = ex.StudentsEnrolled // not part of the versioned update
	r.m.schedules[s.ScheduleID] = cp
	return nil
}

func (r *mockScheduleRepo) AddEnrolled(_ context.Context, id string, delta int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.schedules[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.StudentsEnrolled += delta
	if s.StudentsEnrolled < 0 {
		s.StudentsEnrolled = 0
	}
	return nil
}

func (r *mockScheduleRepo) SetEnrolled(_ context.Context, id string, n int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if s, ok := r.m.schedules[id]; ok {
		s.StudentsEnrolled = n
	}
	return nil
}

func (r *mockScheduleRepo) RefreshCourse(_ context.Context, courseID, code, name string) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, s := range r.m.schedules {
		if s.CourseID == courseID {
			s.CourseCode, s.CourseName = code, name
			n++
		}
	}
	return n, nil
}

func (r *mockScheduleRepo) RefreshInstructorName(_ context.Context, instructorID, name string) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, s := range r.m.schedules {
		if s.InstructorID == instructorID {
			s.InstructorName = name
			n++
		}
	}
	return n, nil
}

func (r *mockScheduleRepo) RefreshRoomName(_ context.Context, roomID, name string) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, s := range r.m.schedules {
		if s.RoomID == roomID {
			s.RoomName = name
			n++
		}
	}
	return n, nil
}

// ── Mock ScheduleRequestRepository ──

type mockRequestRepo struct{ m *memStore }

func copyRequest(r *model.ScheduleRequest) *model.ScheduleRequest {
	cp := *r
	cp.Conflicts = append(model.StringArray{}, r.Conflicts...)
	return &cp
}

func (r *mockRequestRepo) Create(_ context.Context, req *model.ScheduleRequest) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if req.RequestID == "" {
		req.RequestID, req.CreatedAt = r.m.next("req")
	}
	req.Version = 1
	r.m.requests[req.RequestID] = copyRequest(req)
	return nil
}

func (r *mockRequestRepo) GetByID(_ context.Context, id string) (*model.ScheduleRequest, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if req, ok := r.m.requests[id]; ok {
		return copyRequest(req), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockRequestRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.ScheduleRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *mockRequestRepo) List(_ context.Context, f repository.RequestFilter) ([]model.ScheduleRequest, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.ScheduleRequest
	for _, req := range r.m.requests {
		if f.Status != "" && string(req.Status) != f.Status {
			continue
		}
		if f.InstructorID != "" && req.InstructorID != f.InstructorID {
			continue
		}
		if f.ScheduleID != "" && (req.ScheduleID == nil || *req.ScheduleID != f.ScheduleID) {
			continue
		}
		out = append(out, *copyRequest(req))
	}
	return out, int64(len(out)), nil
}

func (r *mockRequestRepo) ListApprovedClaims(_ context.Context, q repository.SlotQuery) ([]model.ScheduleRequest, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.ScheduleRequest
	for _, req := range r.m.requests {
		if req.Status != model.RequestApproved {
			continue
		}
		if req.ScheduleID != nil && req.RequestType != model.RequestScheduleConflict {
			continue
		}
		if !overlaps(req.DayOfWeek, req.StartTime, req.EndTime, q) || !matchesResource(deref(req.RoomID), req.InstructorID, q) {
			continue
		}
		out = append(out, *copyRequest(req))
	}
	return out, nil
}

func (r *mockRequestRepo) Update(_ context.Context, req *model.ScheduleRequest) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	ex, ok := r.m.requests[req.RequestID]
	if !ok || ex.Version != req.Version {
		return pkgerrors.ErrOptimisticLock
	}
	req.Version++
	r.m.requests[req.RequestID] = copyRequest(req)
	return nil
}

func (r *mockRequestRepo) RefreshCourse(_ context.Context, courseID, code, name string) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, req := range r.m.requests {
		if req.CourseID != nil && *req.CourseID == courseID {
			req.CourseCode, req.CourseName = code, name
			n++
		}
	}
	return n, nil
}

func (r *mockRequestRepo) RefreshInstructorName(_ context.Context, instructorID, name string) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, req := range r.m.requests {
		if req.InstructorID == instructorID {
			req.InstructorName = name
			n++
		}
	}
	return n, nil
}

func (r *mockRequestRepo) RefreshRoomName(_ context.Context, roomID, name string) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, req := range r.m.requests {
		if req.RoomID != nil && *req.RoomID == roomID {
			req.RoomName = name
			n++
		}
	}
	return n, nil
}

// ── Mock EnrollmentRepository ──

type mockEnrollmentRepo struct{ m *memStore }

func enrollmentKey(studentID, scheduleID string) string { return studentID + "|" + scheduleID }

func (r *mockEnrollmentRepo) Create(_ context.Context, e *model.Enrollment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	key := enrollmentKey(e.StudentID, deref(e.ScheduleID))
	if _, ok := r.m.enrollments[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	if e.EnrollmentID == "" {
		e.EnrollmentID, e.CreatedAt = r.m.next("enr")
	}
	cp := *e
	r.m.enrollments[key] = &cp
	return nil
}

func (r *mockEnrollmentRepo) Get(_ context.Context, studentID, scheduleID string) (*model.Enrollment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if e, ok := r.m.enrollments[enrollmentKey(studentID, scheduleID)]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockEnrollmentRepo) ListBySchedule(_ context.Context, scheduleID string) ([]model.Enrollment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.Enrollment
	for _, e := range r.m.enrollments {
		if deref(e.ScheduleID) == scheduleID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *mockEnrollmentRepo) StudentIDsBySchedules(_ context.Context, scheduleIDs []string) (map[string][]string, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	want := make(map[string]bool, len(scheduleIDs))
	for _, id := range scheduleIDs {
		want[id] = true
	}
	out := make(map[string][]string)
	for _, e := range r.m.enrollments {
		if id := deref(e.ScheduleID); want[id] {
			out[id] = append(out[id], e.StudentID)
		}
	}
	return out, nil
}

func (r *mockEnrollmentRepo) CountBySchedule(_ context.Context, scheduleID string) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, e := range r.m.enrollments {
		if deref(e.ScheduleID) == scheduleID {
			n++
		}
	}
	return n, nil
}

func (r *mockEnrollmentRepo) Delete(_ context.Context, studentID, scheduleID string) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	key := enrollmentKey(studentID, scheduleID)
	if _, ok := r.m.enrollments[key]; !ok {
		return 0, nil
	}
	delete(r.m.enrollments, key)
	return 1, nil
}

func (r *mockEnrollmentRepo) RefreshStudent(_ context.Context, userID, name, department string) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, e := range r.m.enrollments {
		st, ok := r.m.students[e.StudentID]
		if ok && st.UserID == userID {
			e.StudentName, e.Department = name, department
			n++
		}
	}
	return n, nil
}

func (r *mockEnrollmentRepo) RefreshCourse(_ context.Context, courseID, code, name string) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, e := range r.m.enrollments {
		if e.CourseID == courseID {
			e.CourseCode, e.CourseName = code, name
			n++
		}
	}
	return n, nil
}
