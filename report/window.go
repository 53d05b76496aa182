package report

import (
	"fmt"
	"time"
)

// Window is a report time window.
type Window string

const (
	WindowLastHour Window = "last-hour"
	WindowToday    Window = "today"
	WindowThisWeek Window = "this-week"
)

// ParseWindow maps a user-supplied window name to a Window.
func ParseWindow(s string) (Window, error) {
	switch Window(s) {
	case WindowLastHour, WindowToday, WindowThisWeek:
		return Window(s), nil
	}
	return "", fmt.Errorf("unknown window %q (valid: %s, %s, %s)", s, WindowLastHour, WindowToday, WindowThisWeek)
}

// Cutoff returns the earliest published time an article may have and
// still fall inside the window. "today" starts at local midnight.
func (w Window) Cutoff(now time.Time) time.Time {
	switch w {
	case WindowLastHour:
		return now.Add(-time.Hour)
	case WindowToday:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case WindowThisWeek:
		return now.Add(-7 * 24 * time.Hour)
	}
	return now
}

// Label returns a human-readable name for the window.
func (w Window) Label() string {
	switch w {
	case WindowLastHour:
		return "Last Hour"
	case WindowToday:
		return "Today"
	case WindowThisWeek:
		return "This Week"
	}
	return string(w)
}
