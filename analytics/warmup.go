package analytics

import (
	"math"

	"ridefunnel/model"
	U "ridefunnel/util"
)

// WarmupStats computes the dataset-level totals straight off the source
// tables, before any merge. Revenue sums every transaction regardless of
// charge status; rides requested and completed are row counts, not users.
func WarmupStats(tables *model.EventTables) model.WarmupStats {
	warmup := model.WarmupStats{
		TotalDownloads: int64(len(tables.Downloads)),
		TotalSignups:   int64(len(tables.Signups)),
		RidesRequested: int64(len(tables.Requests)),
	}

	requestingUsers := make(map[int64]struct{})
	durations := make([]float64, 0, len(tables.Requests))
	for _, r := range tables.Requests {
		requestingUsers[r.UserID] = struct{}{}
		if r.AcceptTS != nil {
			warmup.RidesAccepted++
		}
		if r.DropoffTS != nil {
			warmup.RidesCompleted++
			if r.PickupTS != nil {
				durations = append(durations, U.DurationMinutes(*r.PickupTS, *r.DropoffTS))
			}
		}
	}
	warmup.RequestingUsers = int64(len(requestingUsers))
	warmup.AvgRideDurationMins = math.Round(U.SafeMean(durations)*100) / 100

	for _, t := range tables.Transactions {
		warmup.TotalRevenueUSD += t.PurchaseAmountUSD
	}

	platformCounts := make(map[string]int64)
	for _, d := range tables.Downloads {
		platformCounts[d.Platform]++
	}
	warmup.DownloadsByPlatform = make([]model.PlatformCount, 0, len(platformCounts))
	for _, platform := range U.SortedStringKeys(platformCounts) {
		warmup.DownloadsByPlatform = append(warmup.DownloadsByPlatform,
			model.PlatformCount{Platform: platform, Count: platformCounts[platform]})
	}
	return warmup
}
