package digest

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// durationPattern matches duration strings like "2h", "7d", "2w"
var durationPattern = regexp.MustCompile(`^(\d+)([hdw])$`)

// ParseDuration parses a duration string like "2h", "7d", "2w".
// Returns the duration or an error if the format is invalid.
//
// Supported units:
//   - h: hours
//   - d: days
//   - w: weeks (7 days)
func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("duration string is empty")
	}

	matches := durationPattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("invalid duration format: %s (expected format: <number><unit>, e.g., 2h, 7d, 2w)", s)
	}

	num, err := strconv.Atoi(matches[1])
	if err != nil || num < 0 {
		return 0, fmt.Errorf("invalid number in duration: %s", matches[1])
	}

	var duration time.Duration
	switch matches[2] {
	case "h":
		duration = time.Duration(num) * time.Hour
	case "d":
		duration = time.Duration(num) * 24 * time.Hour
	case "w":
		duration = time.Duration(num) * 7 * 24 * time.Hour
	default:
		return 0, fmt.Errorf("invalid duration unit: %s (expected h, d, or w)", matches[2])
	}

	return duration, nil
}

// SinceCutoff converts a "since" duration string (e.g. "7d") to the
// cutoff time that far in the past.
func SinceCutoff(since string) (time.Time, error) {
	duration, err := ParseDuration(since)
	if err != nil {
		return time.Time{}, err
	}
	return time.Now().Add(-duration), nil
}
