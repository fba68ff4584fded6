package model

import (
	"time"
)

// Funnel stage names, in chain order.
const (
	StageDownloads = "Downloads"
	StageSignups   = "Signups"
	StageRequests  = "Requests"
	StageAccepted  = "Accepted"
	StageCompleted = "Completed"
	StagePaid      = "Paid"
	StageReviewed  = "Reviewed"
)

// ChargeStatusApproved is the only status that counts as paid. Matched
// exactly, case sensitive.
const ChargeStatusApproved = "Approved"

// Duration thresholds in minutes. Rides beyond them are flagged as data
// quality anomalies or long waits, never dropped.
const (
	LongRideThresholdMinutes = 300.0
	LongWaitThresholdMinutes = 10.0
)

// Source table names, used in schema errors and loaders.
const (
	TableAppDownloads = "app_downloads"
	TableSignups      = "signups"
	TableRideRequests = "ride_requests"
	TableTransactions = "transactions"
	TableReviews      = "reviews"
)

// FunnelRow is one row of the merged funnel table. The download columns are
// always present; every column from a later stage is nil until that stage
// happened for the row. user_id and driver_id appear once each: the signup
// and request chain values are canonical and the copies carried by reviews
// are dropped during the merge.
type FunnelRow struct {
	// app_downloads
	AppDownloadKey string     `json:"app_download_key"`
	Platform       string     `json:"platform"`
	DownloadTS     *time.Time `json:"download_ts"`

	// signups
	SessionID *string    `json:"session_id"`
	UserID    *int64     `json:"user_id"`
	SignupTS  *time.Time `json:"signup_ts"`
	AgeRange  *string    `json:"age_range"`

	// ride_requests
	RideID    *int64     `json:"ride_id"`
	DriverID  *int64     `json:"driver_id"`
	RequestTS *time.Time `json:"request_ts"`
	AcceptTS  *time.Time `json:"accept_ts"`
	PickupTS  *time.Time `json:"pickup_ts"`
	DropoffTS *time.Time `json:"dropoff_ts"`
	CancelTS  *time.Time `json:"cancel_ts"`

	// transactions
	PurchaseAmountUSD *float64   `json:"purchase_amount_usd"`
	ChargeStatus      *string    `json:"charge_status"`
	TransactionTS     *time.Time `json:"transaction_ts"`

	// reviews
	ReviewID *int64  `json:"review_id"`
	Rating   *int64  `json:"rating"`
	Review   *string `json:"review"`
}

// FunnelTable is the merged left join of all five relations, anchored on
// app_downloads. It never has fewer rows than app_downloads.
type FunnelTable []FunnelRow

// FunnelStep is one stage of the funnel with its population count. Download
// presence is counted by distinct app_download_key, every later stage by
// distinct user_id with the stage's defining column present.
type FunnelStep struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}
