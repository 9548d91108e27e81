// Package conflict decides whether time-bounded claims on rooms, instructors
// and students collide. Everything here is pure computation over in-memory
// claims; callers persist the findings.
package conflict

import (
	"fmt"
	"sort"
	"time"

	"github.com/markkent-max/schedease/internal/model"
)

// Kind class of a conflict. The declaration order is the report order.
type Kind int

const (
	KindRoom Kind = iota
	KindInstructor
	KindStudent
)

func (k Kind) String() string {
	switch k {
	case KindRoom:
		return "room"
	case KindInstructor:
		return "instructor"
	case KindStudent:
		return "student"
	}
	return "unknown"
}

// Source record type behind a claim.
type Source string

const (
	SourceSchedule Source = "schedule"
	SourceRequest  Source = "request"
)

// Claim is one use of a room and an instructor (and optionally a set of
// students) during a window on a weekday or a specific date.
type Claim struct {
	ID     string
	Source Source
	// ScheduleID is the schedule identity: the schedule itself, or the schedule
	// a request targets. Claims sharing it never conflict with each other.
	ScheduleID   string
	Status       string
	RoomID       string
	InstructorID string
	StudentIDs   []string
	Day          model.DayOfWeek
	Date         *time.Time
	Window       Window
	Label        string
	CreatedAt    time.Time
}

// Committed reports whether the claim belongs to the approved set:
// published schedules and approved requests.
func (c Claim) Committed() bool {
	switch c.Source {
	case SourceSchedule:
		return c.Status == string(model.SchedulePublished)
	case SourceRequest:
		return c.Status == string(model.RequestApproved)
	}
	return false
}

func (c Claim) sameIdentity(o Claim) bool {
	if c.ID != "" && c.ID == o.ID && c.Source == o.Source {
		return true
	}
	return c.ScheduleID != "" && c.ScheduleID == o.ScheduleID
}

// SameDay compares calendar dates when both claims are dated, otherwise weekdays.
func SameDay(a, b Claim) bool {
	if a.Date != nil && b.Date != nil {
		ay, am, ad := a.Date.Date()
		by, bm, bd := b.Date.Date()
		return ay == by && am == bm && ad == bd
	}
	return a.Day == b.Day
}

// Conflict one finding against an existing claim.
type Conflict struct {
	Kind     Kind
	Existing Claim
	// Students shared with the existing claim, KindStudent only.
	Students []string
}

// Description human readable text persisted on the record.
func (c Conflict) Description() string {
	ex := c.Existing
	where := string(ex.Day)
	if ex.Date != nil {
		where = ex.Date.Format("2006-01-02")
	}
	label := ex.Label
	if label == "" {
		label = string(ex.Source)
	}
	switch c.Kind {
	case KindRoom:
		return fmt.Sprintf("room conflict: room %s is already booked by %s (%s %s) on %s %s",
			ex.RoomID, label, ex.Source, ex.ID, where, ex.Window)
	case KindInstructor:
		return fmt.Sprintf("instructor conflict: instructor %s is already teaching %s (%s %s) on %s %s",
			ex.InstructorID, label, ex.Source, ex.ID, where, ex.Window)
	default:
		return fmt.Sprintf("student conflict: %d enrolled student(s) already attend %s (%s %s) on %s %s",
			len(c.Students), label, ex.Source, ex.ID, where, ex.Window)
	}
}

// Detect compares candidate with every committed claim in existing and returns
// the conflicts ordered room, instructor, student; inside each class by the
// existing claim's CreatedAt then ID.
func Detect(candidate Claim, existing []Claim) []Conflict {
	var room, instructor, student []Conflict

	students := make(map[string]struct{}, len(candidate.StudentIDs))
	for _, id := range candidate.StudentIDs {
		students[id] = struct{}{}
	}

	for _, ex := range existing {
		if !ex.Committed() || candidate.sameIdentity(ex) {
			continue
		}
		if !SameDay(candidate, ex) || !candidate.Window.Overlaps(ex.Window) {
			continue
		}

		if candidate.RoomID != "" && candidate.RoomID == ex.RoomID {
			room = append(room, Conflict{Kind: KindRoom, Existing: ex})
		}
		if candidate.InstructorID != "" && candidate.InstructorID == ex.InstructorID {
			instructor = append(instructor, Conflict{Kind: KindInstructor, Existing: ex})
		}
		if len(students) > 0 {
			var shared []string
			for _, id := range ex.StudentIDs {
				if _, ok := students[id]; ok {
					shared = append(shared, id)
				}
			}
			if len(shared) > 0 {
				sort.Strings(shared)
				student = append(student, Conflict{Kind: KindStudent, Existing: ex, Students: shared})
			}
		}
	}

	out := make([]Conflict, 0, len(room)+len(instructor)+len(student))
	for _, group := range [][]Conflict{room, instructor, student} {
		sortByExisting(group)
		out = append(out, group...)
	}
	return out
}

func sortByExisting(list []Conflict) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i].Existing, list[j].Existing
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// Descriptions renders conflicts in order.
func Descriptions(list []Conflict) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.Description())
	}
	return out
}
