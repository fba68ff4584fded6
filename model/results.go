package model

// Result types of the analytics layer. All of them are plain data: defined
// zero values stand in wherever a denominator was empty, so marshalling never
// meets a NaN.

// QueryResult is a generic tabular result for export surfaces.
type QueryResult struct {
	Headers []string        `json:"headers"`
	Rows    [][]interface{} `json:"rows"`
}

// DescriptiveStats summarises one numeric sample. Std is the sample standard
// deviation. For a single observation Std is 0 and the quartiles collapse to
// the observation itself; for an empty sample everything is 0.
type DescriptiveStats struct {
	Count  int64   `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// DurationQuality reports the distribution of completed ride durations in
// minutes, with counts of the anomalies found on the way. Anomalous rides
// stay inside Stats.
type DurationQuality struct {
	Stats         DescriptiveStats `json:"duration_minutes"`
	LongRides     int64            `json:"long_rides"`
	NegativeRides int64            `json:"negative_rides"`
}

// DropoffGap reports rides that were accepted but never completed.
// HasCases is false when no such ride exists; the rate is 0 then, not NaN.
type DropoffGap struct {
	ProblemRides        int64   `json:"problem_rides"`
	CancelledRides      int64   `json:"cancelled_rides"`
	CancellationRatePct float64 `json:"cancellation_rate_pct"`
	HasCases            bool    `json:"has_cases"`
}

// HourCount is one hour-of-day bucket with its event count.
type HourCount struct {
	Hour  int   `json:"hour"`
	Count int64 `json:"count"`
}

// WaitTimeComparison contrasts how long completed rides waited for pickup
// against how long cancelled rides waited before giving up.
type WaitTimeComparison struct {
	CompletedRides      int64       `json:"completed_rides"`
	AvgWaitMinutes      float64     `json:"avg_wait_minutes"`
	CancelledRides      int64       `json:"cancelled_rides"`
	AvgPatienceMinutes  float64     `json:"avg_patience_minutes"`
	LongWaiters         int64       `json:"long_waiters"`
	LongWaiterSharePct  float64     `json:"long_waiter_share_pct"`
	HourlyCancellations []HourCount `json:"hourly_cancellations"`
	TopCancelHours      []HourCount `json:"top_cancel_hours"`
}

// PlatformMetrics is the funnel cut by download platform. CompletedRides
// counts rides, not users, so repeat riders weigh in; ConversionRatePct is
// completed rides over distinct downloads.
type PlatformMetrics struct {
	Platform          string  `json:"platform"`
	Downloads         int64   `json:"downloads"`
	CompletedRides    int64   `json:"completed_rides"`
	ConversionRatePct float64 `json:"conversion_rate_pct"`
}

// AgeGroupMetrics is the funnel cut by age range, over signed up users whose
// age range is known. All counts are distinct users.
type AgeGroupMetrics struct {
	AgeRange  string `json:"age_range"`
	Signups   int64  `json:"signups"`
	Requests  int64  `json:"requests"`
	Completed int64  `json:"completed"`
	Reviews   int64  `json:"reviews"`
}

// WarmupStats are the dataset-level totals computed straight off the source
// tables, before any merge. TotalRevenueUSD sums every transaction amount
// regardless of charge status.
type WarmupStats struct {
	TotalDownloads      int64           `json:"total_downloads"`
	TotalSignups        int64           `json:"total_signups"`
	RidesRequested      int64           `json:"rides_requested"`
	RidesAccepted       int64           `json:"rides_accepted"`
	RidesCompleted      int64           `json:"rides_completed"`
	RequestingUsers     int64           `json:"requesting_users"`
	AvgRideDurationMins float64         `json:"avg_ride_duration_mins"`
	TotalRevenueUSD     float64         `json:"total_revenue_usd"`
	DownloadsByPlatform []PlatformCount `json:"downloads_by_platform"`
}

// PlatformCount is one platform with its download count.
type PlatformCount struct {
	Platform string `json:"platform"`
	Count    int64  `json:"count"`
}

// FunnelStepConversion is a funnel step annotated with its conversion
// percentages, both against the previous step and against the first step.
// Percentages are rendered with one decimal place.
type FunnelStepConversion struct {
	Name               string `json:"name"`
	Count              int64  `json:"count"`
	ConversionFromPrev string `json:"conversion_from_prev"`
	ConversionOverall  string `json:"conversion_overall"`
}
