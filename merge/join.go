package merge

import (
	"errors"

	"ridefunnel/model"

	log "github.com/sirupsen/logrus"
)

// The merge is a fixed chain of four left joins anchored on app_downloads:
// signups by session, ride requests by user, transactions and reviews by
// ride. The left side is always the growing funnel, so no download is ever
// dropped and the row count never shrinks. A right side key that matches
// several rows fans the funnel row out once per match.

// BuildFunnelTable runs the full merge over one snapshot.
func BuildFunnelTable(tables *model.EventTables) (model.FunnelTable, error) {
	if tables == nil {
		return nil, errors.New("no event tables to merge")
	}

	logCtx := log.WithFields(log.Fields{
		"downloads":    len(tables.Downloads),
		"signups":      len(tables.Signups),
		"requests":     len(tables.Requests),
		"transactions": len(tables.Transactions),
		"reviews":      len(tables.Reviews),
	})

	if err := validateJoinKeys(tables); err != nil {
		logCtx.WithError(err).Error(model.ErrMsgSchemaValidationFailure)
		return nil, err
	}

	funnel := joinSignups(tables.Downloads, tables.Signups)
	funnel = joinRequests(funnel, tables.Requests)
	funnel = joinTransactions(funnel, tables.Transactions)
	funnel = joinReviews(funnel, tables.Reviews)

	logCtx.WithField("funnel_rows", len(funnel)).Info("Built funnel table.")
	return funnel, nil
}

// validateJoinKeys checks that every row carries its join keys before any
// join runs. A missing key would silently detach rows from the chain, so it
// fails the whole build instead.
func validateJoinKeys(tables *model.EventTables) error {
	for _, d := range tables.Downloads {
		if d.AppDownloadKey == "" {
			return model.NewSchemaError(model.TableAppDownloads, "app_download_key")
		}
	}
	for _, s := range tables.Signups {
		if s.SessionID == "" {
			return model.NewSchemaError(model.TableSignups, "session_id")
		}
		if s.UserID == 0 {
			return model.NewSchemaError(model.TableSignups, "user_id")
		}
	}
	for _, r := range tables.Requests {
		if r.RideID == 0 {
			return model.NewSchemaError(model.TableRideRequests, "ride_id")
		}
		if r.UserID == 0 {
			return model.NewSchemaError(model.TableRideRequests, "user_id")
		}
	}
	for _, t := range tables.Transactions {
		if t.RideID == 0 {
			return model.NewSchemaError(model.TableTransactions, "ride_id")
		}
	}
	for _, r := range tables.Reviews {
		if r.RideID == 0 {
			return model.NewSchemaError(model.TableReviews, "ride_id")
		}
		if r.ReviewID == 0 {
			return model.NewSchemaError(model.TableReviews, "review_id")
		}
	}
	return nil
}

func joinSignups(downloads []model.AppDownload, signups []model.Signup) model.FunnelTable {
	bySession := make(map[string][]model.Signup, len(signups))
	for _, s := range signups {
		bySession[s.SessionID] = append(bySession[s.SessionID], s)
	}

	funnel := make(model.FunnelTable, 0, len(downloads))
	for _, d := range downloads {
		base := model.FunnelRow{
			AppDownloadKey: d.AppDownloadKey,
			Platform:       d.Platform,
			DownloadTS:     d.DownloadTS,
		}

		matches := bySession[d.AppDownloadKey]
		if len(matches) == 0 {
			funnel = append(funnel, base)
			continue
		}
		for _, s := range matches {
			row := base
			sessionID := s.SessionID
			userID := s.UserID
			row.SessionID = &sessionID
			row.UserID = &userID
			row.SignupTS = s.SignupTS
			row.AgeRange = s.AgeRange
			funnel = append(funnel, row)
		}
	}
	return funnel
}

func joinRequests(funnel model.FunnelTable, requests []model.RideRequest) model.FunnelTable {
	byUser := make(map[int64][]model.RideRequest, len(requests))
	for _, r := range requests {
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}

	out := make(model.FunnelTable, 0, len(funnel))
	for _, row := range funnel {
		if row.UserID == nil {
			out = append(out, row)
			continue
		}

		matches := byUser[*row.UserID]
		if len(matches) == 0 {
			out = append(out, row)
			continue
		}
		for _, r := range matches {
			next := row
			rideID := r.RideID
			next.RideID = &rideID
			next.DriverID = r.DriverID
			next.RequestTS = r.RequestTS
			next.AcceptTS = r.AcceptTS
			next.PickupTS = r.PickupTS
			next.DropoffTS = r.DropoffTS
			next.CancelTS = r.CancelTS
			out = append(out, next)
		}
	}
	return out
}

func joinTransactions(funnel model.FunnelTable, transactions []model.Transaction) model.FunnelTable {
	byRide := make(map[int64][]model.Transaction, len(transactions))
	for _, t := range transactions {
		byRide[t.RideID] = append(byRide[t.RideID], t)
	}

	out := make(model.FunnelTable, 0, len(funnel))
	for _, row := range funnel {
		if row.RideID == nil {
			out = append(out, row)
			continue
		}

		matches := byRide[*row.RideID]
		if len(matches) == 0 {
			out = append(out, row)
			continue
		}
		for _, t := range matches {
			next := row
			amount := t.PurchaseAmountUSD
			status := t.ChargeStatus
			next.PurchaseAmountUSD = &amount
			next.ChargeStatus = &status
			next.TransactionTS = t.TransactionTS
			out = append(out, next)
		}
	}
	return out
}

func joinReviews(funnel model.FunnelTable, reviews []model.Review) model.FunnelTable {
	byRide := make(map[int64][]model.Review, len(reviews))
	for _, r := range reviews {
		byRide[r.RideID] = append(byRide[r.RideID], r)
	}

	out := make(model.FunnelTable, 0, len(funnel))
	for _, row := range funnel {
		if row.RideID == nil {
			out = append(out, row)
			continue
		}

		matches := byRide[*row.RideID]
		if len(matches) == 0 {
			out = append(out, row)
			continue
		}
		for _, r := range matches {
			next := row
			reviewID := r.ReviewID
			next.ReviewID = &reviewID
			next.Rating = r.Rating
			next.Review = r.Review
			// The review's user_id and driver_id duplicate the request chain
			// values; the canonical ones already on the row win.
			out = append(out, next)
		}
	}
	return out
}
