package analytics

import (
	"testing"
	"time"

	"ridefunnel/merge"
	"ridefunnel/model"

	"github.com/stretchr/testify/assert"
)

func ts(hour, min int) *time.Time {
	t := time.Date(2021, time.May, 10, hour, min, 0, 0, time.UTC)
	return &t
}

func strPtr(s string) *string { return &s }

func i64Ptr(i int64) *int64 { return &i }

// Three downloads, one signup, one ride that was accepted and then cancelled
// before pickup. The funnel must report every stage from its own column, so
// the accepted stage keeps the user while completed and later stages drop to
// zero.
func TestFunnelStepsAcceptedThenCancelledScenario(t *testing.T) {
	tables := &model.EventTables{
		Downloads: []model.AppDownload{
			{AppDownloadKey: "D1", Platform: "ios"},
			{AppDownloadKey: "D2", Platform: "ios"},
			{AppDownloadKey: "D3", Platform: "android"},
		},
		Signups: []model.Signup{
			{UserID: 1, SessionID: "D1", SignupTS: ts(9, 0)},
		},
		Requests: []model.RideRequest{
			{RideID: 501, UserID: 1, RequestTS: ts(18, 0), AcceptTS: ts(18, 5), CancelTS: ts(18, 20)},
		},
	}

	funnel, err := merge.BuildFunnelTable(tables)
	assert.Nil(t, err)

	steps := FunnelSteps(funnel)
	assert.Equal(t, []model.FunnelStep{
		{Name: model.StageDownloads, Count: 3},
		{Name: model.StageSignups, Count: 1},
		{Name: model.StageRequests, Count: 1},
		{Name: model.StageAccepted, Count: 1},
		{Name: model.StageCompleted, Count: 0},
		{Name: model.StagePaid, Count: 0},
		{Name: model.StageReviewed, Count: 0},
	}, steps)

	gap := AnalyzeDropoffGap(tables.Requests)
	assert.Equal(t, int64(1), gap.ProblemRides)
	assert.Equal(t, int64(1), gap.CancelledRides)
	assert.Equal(t, 100.0, gap.CancellationRatePct)
	assert.True(t, gap.HasCases)
}

func TestFunnelStepsCountDistinctUsersPerStage(t *testing.T) {
	// One user with two completed paid rides counts once per stage.
	funnel := model.FunnelTable{
		{AppDownloadKey: "D1", Platform: "ios", UserID: i64Ptr(1),
			RequestTS: ts(10, 0), AcceptTS: ts(10, 1), DropoffTS: ts(10, 30),
			ChargeStatus: strPtr(model.ChargeStatusApproved), ReviewID: i64Ptr(70)},
		{AppDownloadKey: "D1", Platform: "ios", UserID: i64Ptr(1),
			RequestTS: ts(12, 0), AcceptTS: ts(12, 1), DropoffTS: ts(12, 30),
			ChargeStatus: strPtr(model.ChargeStatusApproved), ReviewID: i64Ptr(71)},
		{AppDownloadKey: "D2", Platform: "android", UserID: i64Ptr(2), RequestTS: ts(11, 0)},
	}

	steps := FunnelSteps(funnel)
	byName := map[string]int64{}
	for _, s := range steps {
		byName[s.Name] = s.Count
	}

	assert.Equal(t, int64(2), byName[model.StageDownloads])
	assert.Equal(t, int64(2), byName[model.StageSignups])
	assert.Equal(t, int64(2), byName[model.StageRequests])
	assert.Equal(t, int64(1), byName[model.StageAccepted])
	assert.Equal(t, int64(1), byName[model.StageCompleted])
	assert.Equal(t, int64(1), byName[model.StagePaid])
	assert.Equal(t, int64(1), byName[model.StageReviewed])
}

func TestFunnelStepsStagesAreIndependent(t *testing.T) {
	// A row with a dropoff but no accept still counts as completed. Stages
	// read their own column, they never filter on earlier stages.
	funnel := model.FunnelTable{
		{AppDownloadKey: "D1", Platform: "web", UserID: i64Ptr(5),
			RequestTS: ts(8, 0), DropoffTS: ts(8, 40)},
	}

	steps := FunnelSteps(funnel)
	byName := map[string]int64{}
	for _, s := range steps {
		byName[s.Name] = s.Count
	}

	assert.Equal(t, int64(0), byName[model.StageAccepted])
	assert.Equal(t, int64(1), byName[model.StageCompleted])
}

func TestFunnelStepsPaidMatchesStatusExactly(t *testing.T) {
	funnel := model.FunnelTable{
		{AppDownloadKey: "D1", Platform: "ios", UserID: i64Ptr(1), ChargeStatus: strPtr("Approved")},
		{AppDownloadKey: "D2", Platform: "ios", UserID: i64Ptr(2), ChargeStatus: strPtr("approved")},
		{AppDownloadKey: "D3", Platform: "ios", UserID: i64Ptr(3), ChargeStatus: strPtr("APPROVED")},
		{AppDownloadKey: "D4", Platform: "ios", UserID: i64Ptr(4), ChargeStatus: strPtr("Cancelled")},
	}

	steps := FunnelSteps(funnel)
	for _, s := range steps {
		if s.Name == model.StagePaid {
			assert.Equal(t, int64(1), s.Count)
		}
	}
}

func TestFunnelStepsEmptyFunnel(t *testing.T) {
	steps := FunnelSteps(model.FunnelTable{})
	assert.Len(t, steps, 7)
	for _, s := range steps {
		assert.Equal(t, int64(0), s.Count)
	}
}

func TestStepConversions(t *testing.T) {
	steps := []model.FunnelStep{
		{Name: model.StageDownloads, Count: 4},
		{Name: model.StageSignups, Count: 2},
		{Name: model.StageRequests, Count: 1},
		{Name: model.StageAccepted, Count: 0},
		{Name: model.StageCompleted, Count: 0},
	}

	conversions := StepConversions(steps)
	assert.Len(t, conversions, 5)

	assert.Equal(t, "100.0", conversions[0].ConversionFromPrev)
	assert.Equal(t, "100.0", conversions[0].ConversionOverall)
	assert.Equal(t, "50.0", conversions[1].ConversionFromPrev)
	assert.Equal(t, "50.0", conversions[1].ConversionOverall)
	assert.Equal(t, "50.0", conversions[2].ConversionFromPrev)
	assert.Equal(t, "25.0", conversions[2].ConversionOverall)
	assert.Equal(t, "0.0", conversions[3].ConversionFromPrev)
	// A zero step followed by a zero step stays at 0, not NaN.
	assert.Equal(t, "0.0", conversions[4].ConversionFromPrev)
	assert.Equal(t, "0.0", conversions[4].ConversionOverall)
}

func TestFunnelStepsAsQueryResult(t *testing.T) {
	steps := []model.FunnelStep{
		{Name: model.StageDownloads, Count: 3},
		{Name: model.StageSignups, Count: 1},
	}

	result := FunnelStepsAsQueryResult(steps)
	assert.Equal(t, []string{"step", "count"}, result.Headers)
	assert.Equal(t, [][]interface{}{
		{model.StageDownloads, int64(3)},
		{model.StageSignups, int64(1)},
	}, result.Rows)
}
