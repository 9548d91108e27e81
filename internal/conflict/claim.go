package conflict

import (
	"fmt"

	"github.com/markkent-max/schedease/internal/model"
)

// FromSchedule builds the claim a schedule makes. students are the ids of
// students enrolled in it, possibly nil.
func FromSchedule(s *model.Schedule, students []string) (Claim, error) {
	w, err := ParseWindow(s.StartTime, s.EndTime)
	if err != nil {
		return Claim{}, fmt.Errorf("schedule %s: %w", s.ScheduleID, err)
	}
	label := s.CourseCode
	if label == "" {
		label = "course " + s.CourseID
	}
	return Claim{
		ID:           s.ScheduleID,
		Source:       SourceSchedule,
		ScheduleID:   s.ScheduleID,
		Status:       string(s.Status),
		RoomID:       s.RoomID,
		InstructorID: s.InstructorID,
		StudentIDs:   students,
		Day:          s.DayOfWeek,
		Window:       w,
		Label:        label,
		CreatedAt:    s.CreatedAt,
	}, nil
}

// FromRequest builds the claim a request makes with its own fields.
func FromRequest(r *model.ScheduleRequest) (Claim, error) {
	w, err := ParseWindow(r.StartTime, r.EndTime)
	if err != nil {
		return Claim{}, fmt.Errorf("request %s: %w", r.RequestID, err)
	}
	day := r.DayOfWeek
	if r.Date != nil {
		day = model.DayOf(*r.Date)
	}
	label := r.CourseCode
	if label == "" {
		label = string(r.RequestType)
	}
	return Claim{
		ID:           r.RequestID,
		Source:       SourceRequest,
		ScheduleID:   deref(r.ScheduleID),
		Status:       string(r.Status),
		RoomID:       deref(r.RoomID),
		InstructorID: r.InstructorID,
		Day:          day,
		Date:         r.Date,
		Window:       w,
		Label:        label,
		CreatedAt:    r.CreatedAt,
	}, nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
