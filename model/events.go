package model

import (
	"time"
)

// The five source relations of the acquisition funnel. Fields that can be
// absent in the source data are pointers; nil means the value never happened,
// it is not a sentinel.

// AppDownload is one app install. AppDownloadKey identifies the install and
// doubles as the join key to the signup session.
type AppDownload struct {
	AppDownloadKey string     `gorm:"column:app_download_key;primary_key:true" json:"app_download_key"`
	Platform       string     `gorm:"column:platform" json:"platform"`
	DownloadTS     *time.Time `gorm:"column:download_ts" json:"download_ts"`
}

// Signup is one account creation. SessionID carries the app_download_key of
// the session the signup happened in.
type Signup struct {
	UserID    int64      `gorm:"column:user_id;primary_key:true" json:"user_id"`
	SessionID string     `gorm:"column:session_id" json:"session_id"`
	SignupTS  *time.Time `gorm:"column:signup_ts" json:"signup_ts"`
	AgeRange  *string    `gorm:"column:age_range" json:"age_range"`
}

// RideRequest is one ride lifecycle. Only RequestTS is expected on every row;
// the later timestamps stay nil for rides that never reached that point.
type RideRequest struct {
	RideID    int64      `gorm:"column:ride_id;primary_key:true" json:"ride_id"`
	UserID    int64      `gorm:"column:user_id" json:"user_id"`
	DriverID  *int64     `gorm:"column:driver_id" json:"driver_id"`
	RequestTS *time.Time `gorm:"column:request_ts" json:"request_ts"`
	AcceptTS  *time.Time `gorm:"column:accept_ts" json:"accept_ts"`
	PickupTS  *time.Time `gorm:"column:pickup_ts" json:"pickup_ts"`
	DropoffTS *time.Time `gorm:"column:dropoff_ts" json:"dropoff_ts"`
	CancelTS  *time.Time `gorm:"column:cancel_ts" json:"cancel_ts"`
}

// Transaction is one payment attempt for a ride.
type Transaction struct {
	RideID            int64      `gorm:"column:ride_id;primary_key:true" json:"ride_id"`
	PurchaseAmountUSD float64    `gorm:"column:purchase_amount_usd" json:"purchase_amount_usd"`
	ChargeStatus      string     `gorm:"column:charge_status" json:"charge_status"`
	TransactionTS     *time.Time `gorm:"column:transaction_ts" json:"transaction_ts"`
}

// Review is one post-ride review. UserID and DriverID duplicate values that
// already travel with the ride request chain; the merge drops them in favour
// of the canonical request side.
type Review struct {
	ReviewID int64   `gorm:"column:review_id;primary_key:true" json:"review_id"`
	RideID   int64   `gorm:"column:ride_id" json:"ride_id"`
	UserID   int64   `gorm:"column:user_id" json:"user_id"`
	DriverID int64   `gorm:"column:driver_id" json:"driver_id"`
	Rating   *int64  `gorm:"column:rating" json:"rating"`
	Review   *string `gorm:"column:review" json:"review"`
}

// EventTables is one immutable snapshot of the five source relations. Loaders
// produce it, the merge engine consumes it. Replacing a snapshot goes through
// merge.Engine.SetTables so the cached funnel is dropped with it.
type EventTables struct {
	Downloads    []AppDownload `json:"app_downloads"`
	Signups      []Signup      `json:"signups"`
	Requests     []RideRequest `json:"ride_requests"`
	Transactions []Transaction `json:"transactions"`
	Reviews      []Review      `json:"reviews"`
}
