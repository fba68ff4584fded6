package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSafePercentage(t *testing.T) {
	assert.Equal(t, 50.0, SafePercentage(1, 2))
	assert.Equal(t, 100.0, SafePercentage(3, 3))
	// Zero denominator must not produce NaN or Inf.
	assert.Equal(t, 0.0, SafePercentage(5, 0))
	assert.Equal(t, 0.0, SafePercentage(0, 0))
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "33.3", FormatPercentage(33.333333))
	assert.Equal(t, "0.0", FormatPercentage(0))
	assert.Equal(t, "100.0", FormatPercentage(100))
}

func TestSafeMean(t *testing.T) {
	assert.Equal(t, 0.0, SafeMean(nil))
	assert.Equal(t, 0.0, SafeMean([]float64{}))
	assert.Equal(t, 2.5, SafeMean([]float64{1, 2, 3, 4}))
	assert.Equal(t, -1.0, SafeMean([]float64{-2, 0}))
}

func TestDurationMinutes(t *testing.T) {
	start := time.Date(2021, time.May, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Second)
	assert.Equal(t, 1.5, DurationMinutes(start, end))
	// Reversed order yields a negative duration, not an error.
	assert.Equal(t, -1.5, DurationMinutes(end, start))
}

func TestHourOfDay(t *testing.T) {
	assert.Equal(t, 0, HourOfDay(time.Date(2021, time.May, 10, 0, 15, 0, 0, time.UTC)))
	assert.Equal(t, 23, HourOfDay(time.Date(2021, time.May, 10, 23, 59, 59, 0, time.UTC)))
}

func TestSortedIntKeys(t *testing.T) {
	counts := map[int]int64{9: 2, 1: 5, 17: 1}
	assert.Equal(t, []int{1, 9, 17}, SortedIntKeys(counts))
	assert.Empty(t, SortedIntKeys(map[int]int64{}))
}

func TestSortedStringKeys(t *testing.T) {
	counts := map[string]int64{"ios": 3, "android": 2, "web": 1}
	assert.Equal(t, []string{"android", "ios", "web"}, SortedStringKeys(counts))
}
