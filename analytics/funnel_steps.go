package analytics

import (
	"ridefunnel/model"
	U "ridefunnel/util"
)

// stageOrder fixes the funnel stages counted after downloads.
var stageOrder = []string{
	model.StageSignups,
	model.StageRequests,
	model.StageAccepted,
	model.StageCompleted,
	model.StagePaid,
	model.StageReviewed,
}

// FunnelSteps counts the population of every acquisition stage over the
// merged funnel table. Each stage is an independent predicate on the full
// table, never a filter on the previous stage, so a user who skipped a column
// upstream still counts wherever their row qualifies. Downloads are counted
// as distinct app_download_key, all later stages as distinct user_id with the
// stage's defining column present.
func FunnelSteps(funnel model.FunnelTable) []model.FunnelStep {
	downloadKeys := make(map[string]struct{})
	stageUsers := make(map[string]map[int64]struct{}, len(stageOrder))
	for _, stage := range stageOrder {
		stageUsers[stage] = make(map[int64]struct{})
	}

	for _, row := range funnel {
		downloadKeys[row.AppDownloadKey] = struct{}{}

		if row.UserID == nil {
			continue
		}
		userID := *row.UserID

		stageUsers[model.StageSignups][userID] = struct{}{}
		if row.RequestTS != nil {
			stageUsers[model.StageRequests][userID] = struct{}{}
		}
		if row.AcceptTS != nil {
			stageUsers[model.StageAccepted][userID] = struct{}{}
		}
		if row.DropoffTS != nil {
			stageUsers[model.StageCompleted][userID] = struct{}{}
		}
		if row.ChargeStatus != nil && *row.ChargeStatus == model.ChargeStatusApproved {
			stageUsers[model.StagePaid][userID] = struct{}{}
		}
		if row.ReviewID != nil {
			stageUsers[model.StageReviewed][userID] = struct{}{}
		}
	}

	steps := make([]model.FunnelStep, 0, len(stageOrder)+1)
	steps = append(steps, model.FunnelStep{Name: model.StageDownloads, Count: int64(len(downloadKeys))})
	for _, stage := range stageOrder {
		steps = append(steps, model.FunnelStep{Name: stage, Count: int64(len(stageUsers[stage]))})
	}
	return steps
}

// StepConversions annotates funnel steps with conversion percentages, both
// against the previous step and against the first step.
func StepConversions(steps []model.FunnelStep) []model.FunnelStepConversion {
	conversions := make([]model.FunnelStepConversion, 0, len(steps))
	for i, step := range steps {
		conversion := model.FunnelStepConversion{Name: step.Name, Count: step.Count}
		if i == 0 {
			conversion.ConversionFromPrev = getConversionPercentageAsString(float64(step.Count), float64(step.Count))
			conversion.ConversionOverall = conversion.ConversionFromPrev
		} else {
			conversion.ConversionFromPrev = getConversionPercentageAsString(float64(steps[i-1].Count), float64(step.Count))
			conversion.ConversionOverall = getConversionPercentageAsString(float64(steps[0].Count), float64(step.Count))
		}
		conversions = append(conversions, conversion)
	}
	return conversions
}

func getConversionPercentageAsString(prevCount float64, curCount float64) string {
	var conversion float64

	if prevCount == 0 {
		conversion = float64(0)
	} else {
		conversion = (curCount / prevCount) * 100
	}

	return U.FormatPercentage(conversion)
}

// FunnelStepsAsQueryResult renders funnel steps in tabular form for export
// surfaces like CSV reports.
func FunnelStepsAsQueryResult(steps []model.FunnelStep) *model.QueryResult {
	result := &model.QueryResult{Headers: []string{"step", "count"}}
	result.Rows = make([][]interface{}, 0, len(steps))
	for _, step := range steps {
		result.Rows = append(result.Rows, []interface{}{step.Name, step.Count})
	}
	return result
}
