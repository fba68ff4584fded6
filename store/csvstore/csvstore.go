package csvstore

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"ridefunnel/filestore"
	"ridefunnel/model"
	U "ridefunnel/util"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// CSVStore reads the five event tables from csv files through a FileManager.
// One file per table, named after the table. The header row is validated
// against the required columns before any row is parsed; an empty cell in an
// optional column becomes a nil field, never a sentinel value.
type CSVStore struct {
	fm filestore.FileManager
}

func New(fm filestore.FileManager) *CSVStore {
	return &CSVStore{fm: fm}
}

var timestampLayouts = []string{
	U.DATETIME_FORMAT_DB,
	time.RFC3339,
}

func parseTimestamp(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, errors.Errorf("unparseable timestamp %q", value)
}

func parseRequiredInt64(table, column, value string) (int64, error) {
	if value == "" {
		return 0, model.NewSchemaError(table, column)
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "bad %s in table %s", column, table)
	}
	return parsed, nil
}

func parseOptionalInt64(table, column, value string) (*int64, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "bad %s in table %s", column, table)
	}
	return &parsed, nil
}

func parseRequiredFloat64(table, column, value string) (float64, error) {
	if value == "" {
		return 0, model.NewSchemaError(table, column)
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "bad %s in table %s", column, table)
	}
	return parsed, nil
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// readTable reads one csv file into column keyed records. Missing required
// header columns fail with a SchemaError before any row is touched.
func (store *CSVStore) readTable(table string, requiredColumns []string) ([]map[string]string, error) {
	path, fileName := store.fm.GetEventTableFilePathAndName(table)
	rc, err := store.fm.Get(path, fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed opening %s", fileName)
	}
	defer rc.Close()

	reader := csv.NewReader(rc)
	header, err := reader.Read()
	if err == io.EOF {
		return nil, model.NewSchemaError(table, requiredColumns[0])
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed reading %s header", table)
	}

	index := make(map[string]int, len(header))
	for i, column := range header {
		index[strings.TrimSpace(column)] = i
	}
	for _, column := range requiredColumns {
		if _, ok := index[column]; !ok {
			return nil, model.NewSchemaError(table, column)
		}
	}

	records := make([]map[string]string, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed reading %s row", table)
		}

		row := make(map[string]string, len(index))
		for column, i := range index {
			if i < len(record) {
				row[column] = strings.TrimSpace(record[i])
			}
		}
		records = append(records, row)
	}
	return records, nil
}

func (store *CSVStore) loadDownloads() ([]model.AppDownload, error) {
	records, err := store.readTable(model.TableAppDownloads, []string{"app_download_key", "platform"})
	if err != nil {
		return nil, err
	}

	downloads := make([]model.AppDownload, 0, len(records))
	for _, rec := range records {
		if rec["app_download_key"] == "" {
			return nil, model.NewSchemaError(model.TableAppDownloads, "app_download_key")
		}
		downloadTS, err := parseTimestamp(rec["download_ts"])
		if err != nil {
			return nil, errors.Wrap(err, model.TableAppDownloads)
		}
		downloads = append(downloads, model.AppDownload{
			AppDownloadKey: rec["app_download_key"],
			Platform:       rec["platform"],
			DownloadTS:     downloadTS,
		})
	}
	return downloads, nil
}

func (store *CSVStore) loadSignups() ([]model.Signup, error) {
	records, err := store.readTable(model.TableSignups, []string{"user_id", "session_id"})
	if err != nil {
		return nil, err
	}

	signups := make([]model.Signup, 0, len(records))
	for _, rec := range records {
		userID, err := parseRequiredInt64(model.TableSignups, "user_id", rec["user_id"])
		if err != nil {
			return nil, err
		}
		if rec["session_id"] == "" {
			return nil, model.NewSchemaError(model.TableSignups, "session_id")
		}
		signupTS, err := parseTimestamp(rec["signup_ts"])
		if err != nil {
			return nil, errors.Wrap(err, model.TableSignups)
		}
		signups = append(signups, model.Signup{
			UserID:    userID,
			SessionID: rec["session_id"],
			SignupTS:  signupTS,
			AgeRange:  optionalString(rec["age_range"]),
		})
	}
	return signups, nil
}

func (store *CSVStore) loadRequests() ([]model.RideRequest, error) {
	records, err := store.readTable(model.TableRideRequests, []string{"ride_id", "user_id"})
	if err != nil {
		return nil, err
	}

	requests := make([]model.RideRequest, 0, len(records))
	for _, rec := range records {
		rideID, err := parseRequiredInt64(model.TableRideRequests, "ride_id", rec["ride_id"])
		if err != nil {
			return nil, err
		}
		userID, err := parseRequiredInt64(model.TableRideRequests, "user_id", rec["user_id"])
		if err != nil {
			return nil, err
		}
		driverID, err := parseOptionalInt64(model.TableRideRequests, "driver_id", rec["driver_id"])
		if err != nil {
			return nil, err
		}

		requestTS, err := parseTimestamp(rec["request_ts"])
		if err != nil {
			return nil, errors.Wrapf(err, "%s request_ts", model.TableRideRequests)
		}
		acceptTS, err := parseTimestamp(rec["accept_ts"])
		if err != nil {
			return nil, errors.Wrapf(err, "%s accept_ts", model.TableRideRequests)
		}
		pickupTS, err := parseTimestamp(rec["pickup_ts"])
		if err != nil {
			return nil, errors.Wrapf(err, "%s pickup_ts", model.TableRideRequests)
		}
		dropoffTS, err := parseTimestamp(rec["dropoff_ts"])
		if err != nil {
			return nil, errors.Wrapf(err, "%s dropoff_ts", model.TableRideRequests)
		}
		cancelTS, err := parseTimestamp(rec["cancel_ts"])
		if err != nil {
			return nil, errors.Wrapf(err, "%s cancel_ts", model.TableRideRequests)
		}

		requests = append(requests, model.RideRequest{
			RideID:    rideID,
			UserID:    userID,
			DriverID:  driverID,
			RequestTS: requestTS,
			AcceptTS:  acceptTS,
			PickupTS:  pickupTS,
			DropoffTS: dropoffTS,
			CancelTS:  cancelTS,
		})
	}
	return requests, nil
}

func (store *CSVStore) loadTransactions() ([]model.Transaction, error) {
	records, err := store.readTable(model.TableTransactions,
		[]string{"ride_id", "purchase_amount_usd", "charge_status"})
	if err != nil {
		return nil, err
	}

	transactions := make([]model.Transaction, 0, len(records))
	for _, rec := range records {
		rideID, err := parseRequiredInt64(model.TableTransactions, "ride_id", rec["ride_id"])
		if err != nil {
			return nil, err
		}
		amount, err := parseRequiredFloat64(model.TableTransactions, "purchase_amount_usd", rec["purchase_amount_usd"])
		if err != nil {
			return nil, err
		}
		transactionTS, err := parseTimestamp(rec["transaction_ts"])
		if err != nil {
			return nil, errors.Wrap(err, model.TableTransactions)
		}
		transactions = append(transactions, model.Transaction{
			RideID:            rideID,
			PurchaseAmountUSD: amount,
			ChargeStatus:      rec["charge_status"],
			TransactionTS:     transactionTS,
		})
	}
	return transactions, nil
}

func (store *CSVStore) loadReviews() ([]model.Review, error) {
	records, err := store.readTable(model.TableReviews,
		[]string{"review_id", "ride_id", "user_id", "driver_id"})
	if err != nil {
		return nil, err
	}

	reviews := make([]model.Review, 0, len(records))
	for _, rec := range records {
		reviewID, err := parseRequiredInt64(model.TableReviews, "review_id", rec["review_id"])
		if err != nil {
			return nil, err
		}
		rideID, err := parseRequiredInt64(model.TableReviews, "ride_id", rec["ride_id"])
		if err != nil {
			return nil, err
		}
		userID, err := parseRequiredInt64(model.TableReviews, "user_id", rec["user_id"])
		if err != nil {
			return nil, err
		}
		driverID, err := parseRequiredInt64(model.TableReviews, "driver_id", rec["driver_id"])
		if err != nil {
			return nil, err
		}
		rating, err := parseOptionalInt64(model.TableReviews, "rating", rec["rating"])
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, model.Review{
			ReviewID: reviewID,
			RideID:   rideID,
			UserID:   userID,
			DriverID: driverID,
			Rating:   rating,
			Review:   optionalString(rec["review"]),
		})
	}
	return reviews, nil
}

// LoadTables reads all five relations. Any schema violation fails the whole
// load; a partially loaded snapshot is never returned.
func (store *CSVStore) LoadTables() (*model.EventTables, error) {
	downloads, err := store.loadDownloads()
	if err != nil {
		return nil, err
	}
	signups, err := store.loadSignups()
	if err != nil {
		return nil, err
	}
	requests, err := store.loadRequests()
	if err != nil {
		return nil, err
	}
	transactions, err := store.loadTransactions()
	if err != nil {
		return nil, err
	}
	reviews, err := store.loadReviews()
	if err != nil {
		return nil, err
	}

	tables := &model.EventTables{
		Downloads:    downloads,
		Signups:      signups,
		Requests:     requests,
		Transactions: transactions,
		Reviews:      reviews,
	}
	log.WithFields(log.Fields{
		"downloads":    len(tables.Downloads),
		"signups":      len(tables.Signups),
		"requests":     len(tables.Requests),
		"transactions": len(tables.Transactions),
		"reviews":      len(tables.Reviews),
	}).Info("Loaded event tables from csv.")
	return tables, nil
}
