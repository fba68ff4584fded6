package analytics

import (
	"ridefunnel/model"
	U "ridefunnel/util"
)

// Segment analyses cut the merged funnel table by a download or signup
// attribute. Both run over the full table and count their own predicates,
// the same rule the overall funnel follows.

// PlatformFunnel groups the funnel by download platform. Downloads are
// distinct app_download_key; CompletedRides counts funnel rows with a
// dropoff, so one heavy rider contributes every ride. The conversion rate is
// rides per hundred downloads, which can exceed 100 on a platform with loyal
// riders.
func PlatformFunnel(funnel model.FunnelTable) []model.PlatformMetrics {
	downloadKeys := make(map[string]map[string]struct{})
	completedRides := make(map[string]int64)

	for _, row := range funnel {
		if _, ok := downloadKeys[row.Platform]; !ok {
			downloadKeys[row.Platform] = make(map[string]struct{})
		}
		downloadKeys[row.Platform][row.AppDownloadKey] = struct{}{}

		if row.DropoffTS != nil {
			completedRides[row.Platform]++
		}
	}

	counts := make(map[string]int64, len(downloadKeys))
	for platform, keys := range downloadKeys {
		counts[platform] = int64(len(keys))
	}

	metrics := make([]model.PlatformMetrics, 0, len(counts))
	for _, platform := range U.SortedStringKeys(counts) {
		downloads := counts[platform]
		completed := completedRides[platform]
		metrics = append(metrics, model.PlatformMetrics{
			Platform:          platform,
			Downloads:         downloads,
			CompletedRides:    completed,
			ConversionRatePct: U.SafePercentage(float64(completed), float64(downloads)),
		})
	}
	return metrics
}

// AgeGroupFunnel computes the funnel per age range, over signed up users
// whose age range is known. It starts at signups because platform downloads
// carry no age. All counts are distinct users.
func AgeGroupFunnel(funnel model.FunnelTable) []model.AgeGroupMetrics {
	type ageUsers struct {
		signups   map[int64]struct{}
		requests  map[int64]struct{}
		completed map[int64]struct{}
		reviews   map[int64]struct{}
	}

	groups := make(map[string]*ageUsers)
	for _, row := range funnel {
		if row.AgeRange == nil || row.UserID == nil {
			continue
		}

		group, ok := groups[*row.AgeRange]
		if !ok {
			group = &ageUsers{
				signups:   make(map[int64]struct{}),
				requests:  make(map[int64]struct{}),
				completed: make(map[int64]struct{}),
				reviews:   make(map[int64]struct{}),
			}
			groups[*row.AgeRange] = group
		}

		userID := *row.UserID
		group.signups[userID] = struct{}{}
		if row.RequestTS != nil {
			group.requests[userID] = struct{}{}
		}
		if row.DropoffTS != nil {
			group.completed[userID] = struct{}{}
		}
		if row.ReviewID != nil {
			group.reviews[userID] = struct{}{}
		}
	}

	sizes := make(map[string]int64, len(groups))
	for ageRange := range groups {
		sizes[ageRange] = int64(len(groups[ageRange].signups))
	}

	metrics := make([]model.AgeGroupMetrics, 0, len(groups))
	for _, ageRange := range U.SortedStringKeys(sizes) {
		group := groups[ageRange]
		metrics = append(metrics, model.AgeGroupMetrics{
			AgeRange:  ageRange,
			Signups:   int64(len(group.signups)),
			Requests:  int64(len(group.requests)),
			Completed: int64(len(group.completed)),
			Reviews:   int64(len(group.reviews)),
		})
	}
	return metrics
}
