// Package snapshot copies display fields (names, codes) from referenced records
// into the records that depend on them, so reads need no joins.
//
// Apply* functions are pure. A nil snapshot clears the derived fields.
package snapshot

import (
	"strings"

	"github.com/markkent-max/schedease/internal/model"
)

// InstructorSnapshot display data of an instructor, taken from its user.
type InstructorSnapshot struct {
	Name string
}

// CourseSnapshot display data of a course.
type CourseSnapshot struct {
	Code string
	Name string
}

// RoomSnapshot display data of a room.
type RoomSnapshot struct {
	Name string
}

// StudentSnapshot display data of a student, taken from the profile and its user.
type StudentSnapshot struct {
	Name       string
	Department string
	Year       int
	Section    string
}

// OfInstructor needs inst.User loaded; without it the snapshot is nil.
func OfInstructor(inst *model.Instructor) *InstructorSnapshot {
	if inst == nil || inst.User == nil {
		return nil
	}
	return &InstructorSnapshot{Name: strings.TrimSpace(inst.User.Name)}
}

func OfCourse(c *model.Course) *CourseSnapshot {
	if c == nil {
		return nil
	}
	return &CourseSnapshot{Code: c.Code, Name: strings.TrimSpace(c.Name)}
}

func OfRoom(r *model.Room) *RoomSnapshot {
	if r == nil {
		return nil
	}
	return &RoomSnapshot{Name: strings.TrimSpace(r.Name)}
}

// OfStudent needs st.User loaded for name and department.
func OfStudent(st *model.Student) *StudentSnapshot {
	if st == nil {
		return nil
	}
	snap := &StudentSnapshot{Year: st.Year, Section: st.Section}
	if st.User != nil {
		snap.Name = strings.TrimSpace(st.User.Name)
		snap.Department = st.User.Department
	}
	return snap
}

// ── apply ──

// ApplyInstructorToCourse sets or clears Course.InstructorName.
func ApplyInstructorToCourse(c *model.Course, is *InstructorSnapshot) {
	if is == nil {
		c.InstructorName = ""
		return
	}
	c.InstructorName = is.Name
}

// ApplyToSchedule writes every derived field of a schedule.
func ApplyToSchedule(s *model.Schedule, cs *CourseSnapshot, is *InstructorSnapshot, rs *RoomSnapshot) {
	s.CourseCode, s.CourseName = "", ""
	if cs != nil {
		s.CourseCode, s.CourseName = cs.Code, cs.Name
	}
	s.InstructorName = ""
	if is != nil {
		s.InstructorName = is.Name
	}
	ApplyRoomToSchedule(s, rs)
}

// ApplyRoomToSchedule refreshes only the room name, used after a room change.
func ApplyRoomToSchedule(s *model.Schedule, rs *RoomSnapshot) {
	if rs == nil {
		s.RoomName = ""
		return
	}
	s.RoomName = rs.Name
}

// ApplyToRequest writes every derived field of a schedule request.
func ApplyToRequest(r *model.ScheduleRequest, is *InstructorSnapshot, cs *CourseSnapshot, rs *RoomSnapshot) {
	r.InstructorName = ""
	if is != nil {
		r.InstructorName = is.Name
	}
	r.CourseCode, r.CourseName = "", ""
	if cs != nil {
		r.CourseCode, r.CourseName = cs.Code, cs.Name
	}
	r.RoomName = ""
	if rs != nil {
		r.RoomName = rs.Name
	}
}

// ApplyToEnrollment writes student and course derived fields.
func ApplyToEnrollment(e *model.Enrollment, ss *StudentSnapshot, cs *CourseSnapshot) {
	if ss == nil {
		e.StudentName, e.Department, e.Section = "", "", ""
	} else {
		e.StudentName = ss.Name
		e.Department = ss.Department
		e.Section = ss.Section
		if ss.Year > 0 {
			e.YearLevel = ss.Year
		}
	}
	e.CourseCode, e.CourseName = "", ""
	if cs != nil {
		e.CourseCode, e.CourseName = cs.Code, cs.Name
	}
}
