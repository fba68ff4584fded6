package util

import (
	"time"
)

// Datetime related utility functions.
const (
	DATETIME_FORMAT_DB              string = "2006-01-02 15:04:05"
	DATETIME_FORMAT_YYYYMMDD_HYPHEN string = "2006-01-02"
)

// TimeNowZ Return current time in UTC. Should be used everywhere to avoid local timezone.
func TimeNowZ() time.Time {
	return time.Now().UTC()
}

// DurationMinutes Returns the interval from start to end in fractional minutes.
// Negative when end precedes start; callers decide how to treat that.
func DurationMinutes(start, end time.Time) float64 {
	return end.Sub(start).Minutes()
}

// HourOfDay Returns the hour bucket (0..23) of the given timestamp.
func HourOfDay(t time.Time) int {
	return t.Hour()
}
