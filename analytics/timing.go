package analytics

import (
	"sort"

	"ridefunnel/model"
	U "ridefunnel/util"

	"github.com/montanaflynn/stats"
	log "github.com/sirupsen/logrus"
)

// Timing analyses work straight off the ride_requests relation; they never
// need the merge.

// Describe summarises a numeric sample. Empty samples come back as all
// zeroes and a single observation collapses the quartiles onto itself, so
// callers never meet a NaN.
func Describe(values []float64) model.DescriptiveStats {
	count := int64(len(values))
	if count == 0 {
		return model.DescriptiveStats{}
	}
	if count == 1 {
		v := values[0]
		return model.DescriptiveStats{Count: 1, Mean: v, Min: v, Q1: v, Median: v, Q3: v, Max: v}
	}

	data := stats.Float64Data(values)
	mean, _ := stats.Mean(data)
	std, _ := stats.StandardDeviationSample(data)
	min, _ := stats.Min(data)
	max, _ := stats.Max(data)
	quartiles, _ := stats.Quartile(data)

	return model.DescriptiveStats{
		Count:  count,
		Mean:   mean,
		Std:    std,
		Min:    min,
		Q1:     quartiles.Q1,
		Median: quartiles.Q2,
		Q3:     quartiles.Q3,
		Max:    max,
	}
}

// RideDurationQuality distributes completed ride durations in minutes and
// counts the anomalies found on the way. Rides longer than the long ride
// threshold and rides with negative durations are flagged but stay in the
// distribution; dirty data is reported, not hidden.
func RideDurationQuality(requests []model.RideRequest) model.DurationQuality {
	durations := make([]float64, 0, len(requests))
	var longRides, negativeRides int64

	for _, r := range requests {
		if r.DropoffTS == nil || r.PickupTS == nil {
			continue
		}

		minutes := U.DurationMinutes(*r.PickupTS, *r.DropoffTS)
		if minutes > model.LongRideThresholdMinutes {
			longRides++
		}
		if minutes < 0 {
			negativeRides++
		}
		durations = append(durations, minutes)
	}

	if longRides > 0 || negativeRides > 0 {
		log.WithFields(log.Fields{
			"long_rides":     longRides,
			"negative_rides": negativeRides,
		}).Warn("Found anomalous ride durations.")
	}

	return model.DurationQuality{
		Stats:         Describe(durations),
		LongRides:     longRides,
		NegativeRides: negativeRides,
	}
}

// AnalyzeDropoffGap reports rides that were accepted but never dropped off,
// split by whether the rider cancelled explicitly. With no problem rides
// HasCases stays false and the rate is 0.
func AnalyzeDropoffGap(requests []model.RideRequest) model.DropoffGap {
	var gap model.DropoffGap
	for _, r := range requests {
		if r.AcceptTS == nil || r.DropoffTS != nil {
			continue
		}
		gap.ProblemRides++
		if r.CancelTS != nil {
			gap.CancelledRides++
		}
	}

	gap.HasCases = gap.ProblemRides > 0
	gap.CancellationRatePct = U.SafePercentage(float64(gap.CancelledRides), float64(gap.ProblemRides))
	return gap
}

// AnalyzeWaitTimes contrasts driver arrival waits on completed rides with
// how long cancelling riders held out after their ride was accepted. The
// cancellation side only looks at rides that were accepted, never dropped
// off and explicitly cancelled. It also buckets those cancellations by hour
// of day to show when riders give up.
func AnalyzeWaitTimes(requests []model.RideRequest) model.WaitTimeComparison {
	waits := make([]float64, 0, len(requests))
	patiences := make([]float64, 0)
	var longWaiters int64
	cancelHours := make(map[int]int64)

	for _, r := range requests {
		if r.DropoffTS != nil {
			if r.AcceptTS != nil && r.PickupTS != nil {
				waits = append(waits, U.DurationMinutes(*r.AcceptTS, *r.PickupTS))
			}
			continue
		}

		if r.AcceptTS == nil || r.CancelTS == nil {
			continue
		}
		patience := U.DurationMinutes(*r.AcceptTS, *r.CancelTS)
		patiences = append(patiences, patience)
		if patience > model.LongWaitThresholdMinutes {
			longWaiters++
		}
		cancelHours[U.HourOfDay(*r.CancelTS)]++
	}

	hourly := make([]model.HourCount, 0, len(cancelHours))
	for _, hour := range U.SortedIntKeys(cancelHours) {
		hourly = append(hourly, model.HourCount{Hour: hour, Count: cancelHours[hour]})
	}

	return model.WaitTimeComparison{
		CompletedRides:      int64(len(waits)),
		AvgWaitMinutes:      U.SafeMean(waits),
		CancelledRides:      int64(len(patiences)),
		AvgPatienceMinutes:  U.SafeMean(patiences),
		LongWaiters:         longWaiters,
		LongWaiterSharePct:  U.SafePercentage(float64(longWaiters), float64(len(patiences))),
		HourlyCancellations: hourly,
		TopCancelHours:      topHours(hourly, 3),
	}
}

// topHours returns the n busiest buckets, count descending with ties broken
// by the earlier hour.
func topHours(hourly []model.HourCount, n int) []model.HourCount {
	top := make([]model.HourCount, len(hourly))
	copy(top, hourly)
	sort.SliceStable(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Hour < top[j].Hour
	})
	if len(top) > n {
		top = top[:n]
	}
	return top
}
