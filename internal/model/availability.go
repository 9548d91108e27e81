package model

import (
	"encoding/json"
	"fmt"
	"sort"

	"gorm.io/datatypes"
)

// TimeWindow a HH:MM range inside one day.
type TimeWindow struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// WeeklyAvailability maps a weekday to its ordered availability windows.
type WeeklyAvailability map[DayOfWeek][]TimeWindow

// DecodeAvailability reads the instructors.availability column. An empty column
// means no declared availability.
func DecodeAvailability(raw datatypes.JSON) (WeeklyAvailability, error) {
	out := WeeklyAvailability{}
	if len(raw) == 0 || string(raw) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode availability: %w", err)
	}
	return out, nil
}

// EncodeAvailability validates day names, sorts each day's windows by start
// time and serializes for storage.
func EncodeAvailability(a WeeklyAvailability) (datatypes.JSON, error) {
	clean := make(WeeklyAvailability, len(a))
	for day, windows := range a {
		if !day.Valid() {
			return nil, fmt.Errorf("invalid day of week %q", day)
		}
		ws := append([]TimeWindow(nil), windows...)
		sort.SliceStable(ws, func(i, j int) bool { return ws[i].StartTime < ws[j].StartTime })
		clean[day] = ws
	}
	raw, err := json.Marshal(clean)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
