package analytics

import (
	"ridefunnel/model"
	U "ridefunnel/util"
)

// HourlyDemand buckets ride requests by hour of day, straight off the
// ride_requests relation. Only hours with at least one request appear,
// sorted ascending.
func HourlyDemand(requests []model.RideRequest) []model.HourCount {
	hours := make(map[int]int64)
	for _, r := range requests {
		if r.RequestTS == nil {
			continue
		}
		hours[U.HourOfDay(*r.RequestTS)]++
	}

	demand := make([]model.HourCount, 0, len(hours))
	for _, hour := range U.SortedIntKeys(hours) {
		demand = append(demand, model.HourCount{Hour: hour, Count: hours[hour]})
	}
	return demand
}
