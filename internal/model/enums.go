package model

import (
	"fmt"
	"strings"
	"time"
)

// DayOfWeek is the full English weekday name used in schedules.
type DayOfWeek string

const (
	Monday    DayOfWeek = "Monday"
	Tuesday   DayOfWeek = "Tuesday"
	Wednesday DayOfWeek = "Wednesday"
	Thursday  DayOfWeek = "Thursday"
	Friday    DayOfWeek = "Friday"
	Saturday  DayOfWeek = "Saturday"
	Sunday    DayOfWeek = "Sunday"
)

// Weekdays in calendar order, Monday first.
var Weekdays = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Valid reports whether d is one of the seven day names.
func (d DayOfWeek) Valid() bool {
	for _, w := range Weekdays {
		if d == w {
			return true
		}
	}
	return false
}

// ParseDayOfWeek accepts any casing of a day name.
func ParseDayOfWeek(s string) (DayOfWeek, error) {
	s = strings.TrimSpace(s)
	for _, w := range Weekdays {
		if strings.EqualFold(s, string(w)) {
			return w, nil
		}
	}
	return "", fmt.Errorf("invalid day of week %q", s)
}

// DayOf returns the weekday of t.
func DayOf(t time.Time) DayOfWeek {
	return DayOfWeek(t.Weekday().String())
}

// Semester academic term.
type Semester string

const (
	SemesterFirst  Semester = "first"
	SemesterSecond Semester = "second"
	SemesterSummer Semester = "summer"
)

// CourseType delivery format of a course.
type CourseType string

const (
	CourseLecture CourseType = "lecture"
	CourseLab     CourseType = "lab"
	CourseSeminar CourseType = "seminar"
)

// RoomType kind of room.
type RoomType string

const (
	RoomClassroom   RoomType = "classroom"
	RoomLaboratory  RoomType = "laboratory"
	RoomComputerLab RoomType = "computer_lab"
	RoomAuditorium  RoomType = "auditorium"
)

// UserRole account role.
type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleInstructor UserRole = "instructor"
	RoleStudent    UserRole = "student"
)

// ScheduleStatus lifecycle of a schedule entry. Canceled is the soft delete.
type ScheduleStatus string

const (
	ScheduleDraft     ScheduleStatus = "draft"
	SchedulePublished ScheduleStatus = "published"
	ScheduleConflict  ScheduleStatus = "conflict"
	ScheduleCanceled  ScheduleStatus = "canceled"
)

// RequestType kind of schedule change request.
type RequestType string

const (
	RequestRoomChange       RequestType = "room_change"
	RequestTimeChange       RequestType = "time_change"
	RequestScheduleConflict RequestType = "schedule_conflict"
)

// MutatesSchedule reports whether approving a request of this type rewrites
// the referenced schedule.
func (t RequestType) MutatesSchedule() bool {
	return t == RequestRoomChange || t == RequestTimeChange
}

// RequestStatus lifecycle of a schedule request.
//
//	pending ──► under_review ──► approved
//	   │              └───────► rejected
//	   ├──────────────────────► approved
//	   └──────────────────────► rejected
type RequestStatus string

const (
	RequestPending     RequestStatus = "pending"
	RequestUnderReview RequestStatus = "under_review"
	RequestApproved    RequestStatus = "approved"
	RequestRejected    RequestStatus = "rejected"
)

var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestPending:     {RequestUnderReview, RequestApproved, RequestRejected},
	RequestUnderReview: {RequestApproved, RequestRejected},
	RequestApproved:    nil,
	RequestRejected:    nil,
}

// Valid reports whether s is a known status.
func (s RequestStatus) Valid() bool {
	_, ok := requestTransitions[s]
	return ok
}

// Terminal reports whether no transition leaves s.
func (s RequestStatus) Terminal() bool {
	return s.Valid() && len(requestTransitions[s]) == 0
}

// CanTransitionTo reports whether s → next is an edge of the lifecycle.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, n := range requestTransitions[s] {
		if n == next {
			return true
		}
	}
	return false
}
