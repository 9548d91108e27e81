package conflict

import (
	"fmt"

	"github.com/markkent-max/schedease/internal/model"
)

// Resources the claim is about to use. Nil fields skip their checks.
type Resources struct {
	Room   *model.Room
	Course *model.Course
	// Availability of the instructor; an empty map means none was declared.
	Availability model.WeeklyAvailability
}

// Advisories lists soft problems with a slot. They are reported alongside
// conflicts but never block publishing or approval.
func Advisories(day model.DayOfWeek, w Window, res Resources) []string {
	var out []string

	if res.Room != nil {
		if !res.Room.IsAvailable {
			out = append(out, fmt.Sprintf("room %s is marked unavailable", res.Room.Name))
		}
		if res.Course != nil {
			if res.Room.Capacity < res.Course.RequiredCapacity {
				out = append(out, fmt.Sprintf("room %s seats %d, course %s needs %d",
					res.Room.Name, res.Room.Capacity, res.Course.Code, res.Course.RequiredCapacity))
			}
			for _, req := range res.Course.SpecialRequirements {
				if !res.Room.Equipment.Contains(req) {
					out = append(out, fmt.Sprintf("room %s lacks %q required by %s",
						res.Room.Name, req, res.Course.Code))
				}
			}
		}
	}

	if len(res.Availability) > 0 && !available(res.Availability[day], w) {
		out = append(out, fmt.Sprintf("instructor is not available on %s %s", day, w))
	}
	return out
}

func available(windows []model.TimeWindow, w Window) bool {
	for _, tw := range windows {
		aw, err := ParseWindow(tw.StartTime, tw.EndTime)
		if err != nil {
			continue
		}
		if aw.Covers(w) {
			return true
		}
	}
	return false
}
