package utils

import (
	"fmt"
	"time"
)

// ParseUserTime parses a time string that can be either RFC3339 or YYYY-MM-DD format.
// For YYYY-MM-DD format, if isEndTime is true, it will set the time to end of day (23:59:59).
func ParseUserTime(timeStr string, isEndTime bool) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, timeStr)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse("2006-01-02", timeStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time format, expected RFC3339 or YYYY-MM-DD, got %s", timeStr)
	}

	if isEndTime {
		t = t.Add(24*time.Hour - time.Second)
	}

	return t, nil
}

// RelativeTime renders how long ago t happened, relative to now.
// A nil t reads as "never".
func RelativeTime(t *time.Time, now time.Time) string {
	if t == nil {
		return "never"
	}

	diffMins := int(now.Sub(*t).Minutes())
	switch {
	case diffMins < 1:
		return "just now"
	case diffMins == 1:
		return "1 min ago"
	case diffMins < 60:
		return fmt.Sprintf("%d mins ago", diffMins)
	default:
		return "more than an hour ago"
	}
}
