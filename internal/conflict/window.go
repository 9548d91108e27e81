package conflict

import (
	"fmt"
	"strconv"
	"strings"
)

// Window is a half-open [Start, End) range in minutes after midnight.
type Window struct {
	Start int
	End   int
}

// ParseClock parses H:MM or HH:MM (00:00 through 24:00).
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	h, m, ok := strings.Cut(s, ":")
	if !ok || len(h) == 0 || len(h) > 2 || len(m) != 2 {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	hh, err := strconv.Atoi(h)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	mm, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	if hh < 0 || mm < 0 || mm > 59 || hh > 24 || (hh == 24 && mm != 0) {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return hh*60 + mm, nil
}

// FormatClock renders minutes as zero padded HH:MM.
func FormatClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// NormalizeClock zero pads a valid HH:MM value ("9:05" -> "09:05").
func NormalizeClock(s string) (string, error) {
	m, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return FormatClock(m), nil
}

// ParseWindow builds a window from HH:MM bounds. Start must precede End.
func ParseWindow(start, end string) (Window, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Window{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Window{}, err
	}
	if s >= e {
		return Window{}, fmt.Errorf("start time %s must be before end time %s", start, end)
	}
	return Window{Start: s, End: e}, nil
}

// Overlaps reports start1 < end2 && start2 < end1. Touching windows do not overlap.
func (w Window) Overlaps(o Window) bool {
	return w.Start < o.End && o.Start < w.End
}

// Covers reports whether o lies entirely inside w.
func (w Window) Covers(o Window) bool {
	return w.Start <= o.Start && o.End <= w.End
}

// Minutes length of the window.
func (w Window) Minutes() int { return w.End - w.Start }

func (w Window) String() string {
	return FormatClock(w.Start) + "-" + FormatClock(w.End)
}
