package util

import (
	"fmt"
	"math/rand"
	"sort"
	"time"
)

// SafePercentage Returns numerator over denominator as a percentage.
// Returns 0 when the denominator is 0, so callers never see NaN or Inf.
func SafePercentage(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return (numerator / denominator) * 100
}

// FormatPercentage Renders a percentage with one decimal place.
func FormatPercentage(percentage float64) string {
	return fmt.Sprintf("%0.1f", percentage)
}

// SafeMean Returns the arithmetic mean of values, 0 for an empty slice.
func SafeMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// SortedIntKeys Returns the keys of counts in ascending order.
func SortedIntKeys(counts map[int]int64) []int {
	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// SortedStringKeys Returns the keys of counts in ascending order.
func SortedStringKeys(counts map[string]int64) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func RandomString(n int) string {
	rand.Seed(time.Now().UnixNano())

	var letter = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

	b := make([]rune, n)
	for i := range b {
		b[i] = letter[rand.Intn(len(letter))]
	}
	return string(b)
}

func RandomInt64() int64 {
	return int64(rand.Uint64())
}
