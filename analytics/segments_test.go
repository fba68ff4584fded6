package analytics

import (
	"testing"

	"ridefunnel/merge"
	"ridefunnel/model"

	"github.com/stretchr/testify/assert"
)

func TestPlatformFunnelCountsRidesNotUsers(t *testing.T) {
	tables := &model.EventTables{
		Downloads: []model.AppDownload{
			{AppDownloadKey: "D1", Platform: "ios"},
			{AppDownloadKey: "D2", Platform: "ios"},
			{AppDownloadKey: "D3", Platform: "android"},
			{AppDownloadKey: "D4", Platform: "web"},
		},
		Signups: []model.Signup{
			{UserID: 1, SessionID: "D1"},
			{UserID: 2, SessionID: "D3"},
		},
		Requests: []model.RideRequest{
			// One ios user with two completed rides: ios counts two rides.
			{RideID: 1, UserID: 1, RequestTS: ts(9, 0), DropoffTS: ts(9, 30)},
			{RideID: 2, UserID: 1, RequestTS: ts(17, 0), DropoffTS: ts(17, 45)},
			{RideID: 3, UserID: 2, RequestTS: ts(10, 0)},
		},
	}

	funnel, err := merge.BuildFunnelTable(tables)
	assert.Nil(t, err)

	metrics := PlatformFunnel(funnel)
	assert.Equal(t, []model.PlatformMetrics{
		{Platform: "android", Downloads: 1, CompletedRides: 0, ConversionRatePct: 0},
		{Platform: "ios", Downloads: 2, CompletedRides: 2, ConversionRatePct: 100},
		{Platform: "web", Downloads: 1, CompletedRides: 0, ConversionRatePct: 0},
	}, metrics)
}

func TestPlatformFunnelConversionCanExceedHundred(t *testing.T) {
	funnel := model.FunnelTable{
		{AppDownloadKey: "D1", Platform: "ios", UserID: i64Ptr(1), DropoffTS: ts(9, 30)},
		{AppDownloadKey: "D1", Platform: "ios", UserID: i64Ptr(1), DropoffTS: ts(11, 0)},
		{AppDownloadKey: "D1", Platform: "ios", UserID: i64Ptr(1), DropoffTS: ts(15, 20)},
	}

	metrics := PlatformFunnel(funnel)
	assert.Len(t, metrics, 1)
	assert.Equal(t, int64(1), metrics[0].Downloads)
	assert.Equal(t, int64(3), metrics[0].CompletedRides)
	assert.Equal(t, 300.0, metrics[0].ConversionRatePct)
}

func TestAgeGroupFunnel(t *testing.T) {
	funnel := model.FunnelTable{
		// 25-34: two signups, one requester who completed and reviewed.
		{AppDownloadKey: "D1", Platform: "ios", UserID: i64Ptr(1), AgeRange: strPtr("25-34"),
			RequestTS: ts(9, 0), DropoffTS: ts(9, 30), ReviewID: i64Ptr(50)},
		{AppDownloadKey: "D2", Platform: "ios", UserID: i64Ptr(2), AgeRange: strPtr("25-34")},
		// 18-24: one signup who requested but never completed.
		{AppDownloadKey: "D3", Platform: "android", UserID: i64Ptr(3), AgeRange: strPtr("18-24"),
			RequestTS: ts(10, 0)},
		// Unknown age stays out entirely.
		{AppDownloadKey: "D4", Platform: "web", UserID: i64Ptr(4),
			RequestTS: ts(11, 0), DropoffTS: ts(11, 20)},
		// No signup at all.
		{AppDownloadKey: "D5", Platform: "web"},
	}

	metrics := AgeGroupFunnel(funnel)
	assert.Equal(t, []model.AgeGroupMetrics{
		{AgeRange: "18-24", Signups: 1, Requests: 1, Completed: 0, Reviews: 0},
		{AgeRange: "25-34", Signups: 2, Requests: 1, Completed: 1, Reviews: 1},
	}, metrics)
}

func TestAgeGroupFunnelCountsDistinctUsers(t *testing.T) {
	funnel := model.FunnelTable{
		{AppDownloadKey: "D1", Platform: "ios", UserID: i64Ptr(1), AgeRange: strPtr("35-44"),
			RequestTS: ts(9, 0), DropoffTS: ts(9, 30)},
		{AppDownloadKey: "D1", Platform: "ios", UserID: i64Ptr(1), AgeRange: strPtr("35-44"),
			RequestTS: ts(12, 0), DropoffTS: ts(12, 30)},
	}

	metrics := AgeGroupFunnel(funnel)
	assert.Equal(t, []model.AgeGroupMetrics{
		{AgeRange: "35-44", Signups: 1, Requests: 1, Completed: 1, Reviews: 0},
	}, metrics)
}

func TestSegmentsOnEmptyFunnel(t *testing.T) {
	assert.Empty(t, PlatformFunnel(model.FunnelTable{}))
	assert.Empty(t, AgeGroupFunnel(model.FunnelTable{}))
}
