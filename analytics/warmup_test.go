package analytics

import (
	"testing"

	"ridefunnel/model"

	"github.com/stretchr/testify/assert"
)

func TestWarmupStats(t *testing.T) {
	tables := &model.EventTables{
		Downloads: []model.AppDownload{
			{AppDownloadKey: "D1", Platform: "ios"},
			{AppDownloadKey: "D2", Platform: "ios"},
			{AppDownloadKey: "D3", Platform: "android"},
		},
		Signups: []model.Signup{
			{UserID: 1, SessionID: "D1"},
			{UserID: 2, SessionID: "D2"},
		},
		Requests: []model.RideRequest{
			// Completed, 30 minutes.
			{RideID: 1, UserID: 1, AcceptTS: ts(9, 0), PickupTS: ts(9, 5), DropoffTS: ts(9, 35)},
			// Completed, 45 minutes, same user.
			{RideID: 2, UserID: 1, AcceptTS: ts(17, 0), PickupTS: ts(17, 10), DropoffTS: ts(17, 55)},
			// Accepted but never completed.
			{RideID: 3, UserID: 2, AcceptTS: ts(18, 0), CancelTS: ts(18, 9)},
		},
		Transactions: []model.Transaction{
			{RideID: 1, PurchaseAmountUSD: 10.50, ChargeStatus: model.ChargeStatusApproved},
			// Declined charges still count into total revenue.
			{RideID: 2, PurchaseAmountUSD: 4.25, ChargeStatus: "Cancelled"},
		},
	}

	warmup := WarmupStats(tables)
	assert.Equal(t, int64(3), warmup.TotalDownloads)
	assert.Equal(t, int64(2), warmup.TotalSignups)
	assert.Equal(t, int64(3), warmup.RidesRequested)
	assert.Equal(t, int64(3), warmup.RidesAccepted)
	assert.Equal(t, int64(2), warmup.RidesCompleted)
	assert.Equal(t, int64(2), warmup.RequestingUsers)
	assert.Equal(t, 37.5, warmup.AvgRideDurationMins)
	assert.Equal(t, 14.75, warmup.TotalRevenueUSD)
	assert.Equal(t, []model.PlatformCount{
		{Platform: "android", Count: 1},
		{Platform: "ios", Count: 2},
	}, warmup.DownloadsByPlatform)
}

func TestWarmupStatsEmptyTables(t *testing.T) {
	warmup := WarmupStats(&model.EventTables{})
	assert.Equal(t, int64(0), warmup.TotalDownloads)
	assert.Equal(t, 0.0, warmup.AvgRideDurationMins)
	assert.Equal(t, 0.0, warmup.TotalRevenueUSD)
	assert.Empty(t, warmup.DownloadsByPlatform)
}
