package csvstore

import (
	"strings"
	"testing"
	"time"

	"ridefunnel/model"
	serviceDisk "ridefunnel/services/disk"

	"github.com/stretchr/testify/assert"
)

func writeTable(t *testing.T, driver *serviceDisk.DiskDriver, table, content string) {
	t.Helper()
	path, fileName := driver.GetEventTableFilePathAndName(table)
	err := driver.Create(path, fileName, strings.NewReader(content))
	assert.Nil(t, err)
}

func writeFixtureTables(t *testing.T, driver *serviceDisk.DiskDriver) {
	writeTable(t, driver, model.TableAppDownloads,
		"app_download_key,platform,download_ts\n"+
			"D1,ios,2021-05-10 08:00:00\n"+
			"D2,android,\n")
	writeTable(t, driver, model.TableSignups,
		"user_id,session_id,signup_ts,age_range\n"+
			"100,D1,2021-05-10 08:05:00,25-34\n"+
			"200,D2,2021-05-10T09:00:00Z,\n")
	writeTable(t, driver, model.TableRideRequests,
		"ride_id,user_id,driver_id,request_ts,accept_ts,pickup_ts,dropoff_ts,cancel_ts\n"+
			"1,100,7,2021-05-10 10:00:00,2021-05-10 10:02:00,2021-05-10 10:10:00,2021-05-10 10:40:00,\n"+
			"2,200,,2021-05-10 18:00:00,,,,2021-05-10 18:03:00\n")
	writeTable(t, driver, model.TableTransactions,
		"ride_id,purchase_amount_usd,charge_status,transaction_ts\n"+
			"1,12.50,Approved,2021-05-10 10:45:00\n")
	writeTable(t, driver, model.TableReviews,
		"review_id,ride_id,user_id,driver_id,rating,review\n"+
			"900,1,100,7,5,Great ride\n")
}

func TestLoadTables(t *testing.T) {
	driver := serviceDisk.New(t.TempDir())
	writeFixtureTables(t, driver)

	tables, err := New(driver).LoadTables()
	assert.Nil(t, err)

	assert.Len(t, tables.Downloads, 2)
	assert.Len(t, tables.Signups, 2)
	assert.Len(t, tables.Requests, 2)
	assert.Len(t, tables.Transactions, 1)
	assert.Len(t, tables.Reviews, 1)

	d1 := tables.Downloads[0]
	assert.Equal(t, "D1", d1.AppDownloadKey)
	assert.Equal(t, "ios", d1.Platform)
	assert.Equal(t, time.Date(2021, time.May, 10, 8, 0, 0, 0, time.UTC), *d1.DownloadTS)
	// Empty cells become nil fields.
	assert.Nil(t, tables.Downloads[1].DownloadTS)

	s1, s2 := tables.Signups[0], tables.Signups[1]
	assert.Equal(t, int64(100), s1.UserID)
	assert.Equal(t, "25-34", *s1.AgeRange)
	assert.Nil(t, s2.AgeRange)
	// RFC3339 timestamps parse too.
	assert.Equal(t, time.Date(2021, time.May, 10, 9, 0, 0, 0, time.UTC), *s2.SignupTS)

	r1, r2 := tables.Requests[0], tables.Requests[1]
	assert.Equal(t, int64(7), *r1.DriverID)
	assert.NotNil(t, r1.DropoffTS)
	assert.Nil(t, r1.CancelTS)
	assert.Nil(t, r2.DriverID)
	assert.Nil(t, r2.AcceptTS)
	assert.NotNil(t, r2.CancelTS)

	assert.Equal(t, 12.5, tables.Transactions[0].PurchaseAmountUSD)
	assert.Equal(t, model.ChargeStatusApproved, tables.Transactions[0].ChargeStatus)

	review := tables.Reviews[0]
	assert.Equal(t, int64(5), *review.Rating)
	assert.Equal(t, "Great ride", *review.Review)
}

func TestLoadTablesMissingColumn(t *testing.T) {
	driver := serviceDisk.New(t.TempDir())
	writeFixtureTables(t, driver)
	// Rewrite signups without the session_id join key.
	writeTable(t, driver, model.TableSignups,
		"user_id,signup_ts\n100,2021-05-10 08:05:00\n")

	tables, err := New(driver).LoadTables()
	assert.Nil(t, tables)
	assert.True(t, model.IsSchemaError(err))

	schemaErr, ok := err.(*model.SchemaError)
	assert.True(t, ok)
	assert.Equal(t, model.TableSignups, schemaErr.Table)
	assert.Equal(t, "session_id", schemaErr.Column)
}

func TestLoadTablesEmptyRequiredCell(t *testing.T) {
	driver := serviceDisk.New(t.TempDir())
	writeFixtureTables(t, driver)
	writeTable(t, driver, model.TableRideRequests,
		"ride_id,user_id,driver_id,request_ts,accept_ts,pickup_ts,dropoff_ts,cancel_ts\n"+
			"1,,7,2021-05-10 10:00:00,,,,\n")

	tables, err := New(driver).LoadTables()
	assert.Nil(t, tables)
	assert.True(t, model.IsSchemaError(err))
}

func TestLoadTablesMissingFile(t *testing.T) {
	// Only downloads exist; loading must fail on the first absent table.
	driver := serviceDisk.New(t.TempDir())
	writeTable(t, driver, model.TableAppDownloads, "app_download_key,platform\nD1,ios\n")

	tables, err := New(driver).LoadTables()
	assert.Nil(t, tables)
	assert.NotNil(t, err)
	assert.False(t, model.IsSchemaError(err))
}

func TestLoadTablesBadTimestamp(t *testing.T) {
	driver := serviceDisk.New(t.TempDir())
	writeFixtureTables(t, driver)
	writeTable(t, driver, model.TableAppDownloads,
		"app_download_key,platform,download_ts\nD1,ios,yesterday\n")

	tables, err := New(driver).LoadTables()
	assert.Nil(t, tables)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "unparseable timestamp")
}

func TestParseTimestamp(t *testing.T) {
	parsed, err := parseTimestamp("2021-05-10 08:00:00")
	assert.Nil(t, err)
	assert.Equal(t, time.Date(2021, time.May, 10, 8, 0, 0, 0, time.UTC), *parsed)

	parsed, err = parseTimestamp("")
	assert.Nil(t, err)
	assert.Nil(t, parsed)

	_, err = parseTimestamp("10/05/2021")
	assert.NotNil(t, err)
}
