package main

import (
	"bytes"
	"encoding/csv"
	"flag"
	"math/rand"
	"strconv"
	"time"

	C "ridefunnel/config"
	"ridefunnel/filestore"
	"ridefunnel/model"
	serviceDisk "ridefunnel/services/disk"
	U "ridefunnel/util"

	"github.com/google/uuid"
	"github.com/jinzhu/now"
	log "github.com/sirupsen/logrus"
)

var taskID = "Script#GenerateDemoData"
var pbLog = log.WithField("prefix", taskID)

var ageRanges = []string{"18-24", "25-34", "35-44", "45-54", "55+"}
var reviewTexts = []string{
	"Smooth ride, friendly driver.",
	"Driver took a longer route.",
	"Quick pickup, clean car.",
	"Waited too long at the pickup point.",
	"Great conversation, five stars.",
}

func main() {
	envFlag := flag.String("env", "development", "Environment. Could be development|staging.")
	dataDir := flag.String("data_dir", "/usr/local/var/ridefunnel/data",
		"Directory the event table csv files are written to.")
	numDownloads := flag.Int("num_downloads", 500, "Number of app downloads to generate.")
	seedFlag := flag.Int64("seed", 1, "Seed for the generator. The same seed generates the same tables.")
	startDateFlag := flag.String("start_date", "",
		"Start date in YYYY-MM-DD format. Defaults to the beginning of the current week.")
	flag.Parse()

	if !(*envFlag == "development" || *envFlag == "staging") {
		pbLog.Error("Demo data can be generated only on development or staging.")
		return
	}

	config := &C.Configuration{
		AppName:          "script_generate_demo_data",
		Env:              *envFlag,
		DataDir:          *dataDir,
		PrimaryDatastore: C.DatastoreTypeCSV,
	}
	if err := C.InitConf(config); err != nil {
		pbLog.WithError(err).Fatal("Failed to initialize config.")
	}

	var base time.Time
	if *startDateFlag != "" {
		parsed, err := time.Parse(U.DATETIME_FORMAT_YYYYMMDD_HYPHEN, *startDateFlag)
		if err != nil {
			pbLog.WithError(err).Fatal("Invalid start_date. Format must be YYYY-MM-DD")
		}
		base = now.New(parsed).BeginningOfDay()
	} else {
		base = now.New(U.TimeNowZ()).BeginningOfWeek()
	}

	gen := newGenerator(*seedFlag, base)
	gen.run(*numDownloads)

	diskManager := serviceDisk.New(*dataDir)
	ordered := []struct {
		table   string
		records [][]string
	}{
		{model.TableAppDownloads, gen.downloads},
		{model.TableSignups, gen.signups},
		{model.TableRideRequests, gen.requests},
		{model.TableTransactions, gen.transactions},
		{model.TableReviews, gen.reviews},
	}
	for _, t := range ordered {
		if err := writeTable(diskManager, t.table, t.records); err != nil {
			pbLog.WithError(err).WithField("table", t.table).Fatal("Failed to write the table csv.")
		}
	}

	pbLog.WithFields(log.Fields{
		"data_dir":     *dataDir,
		"downloads":    len(gen.downloads) - 1,
		"signups":      len(gen.signups) - 1,
		"requests":     len(gen.requests) - 1,
		"transactions": len(gen.transactions) - 1,
		"reviews":      len(gen.reviews) - 1,
	}).Info("Generated demo event tables.")
}

// generator accumulates csv records for the five event tables.
// The first record of every slice is the header row.
type generator struct {
	r    *rand.Rand
	base time.Time

	downloads    [][]string
	signups      [][]string
	requests     [][]string
	transactions [][]string
	reviews      [][]string

	nextUserID   int64
	nextRideID   int64
	nextReviewID int64
}

func newGenerator(seed int64, base time.Time) *generator {
	return &generator{
		r:    rand.New(rand.NewSource(seed)),
		base: base,
		downloads: [][]string{
			{"app_download_key", "platform", "download_ts"}},
		signups: [][]string{
			{"user_id", "session_id", "signup_ts", "age_range"}},
		requests: [][]string{
			{"ride_id", "user_id", "driver_id", "request_ts", "accept_ts", "pickup_ts", "dropoff_ts", "cancel_ts"}},
		transactions: [][]string{
			{"ride_id", "purchase_amount_usd", "charge_status", "transaction_ts"}},
		reviews: [][]string{
			{"review_id", "ride_id", "user_id", "driver_id", "rating", "review"}},
		nextUserID:   1000,
		nextRideID:   5000,
		nextReviewID: 9000,
	}
}

func (g *generator) run(numDownloads int) {
	for i := 0; i < numDownloads; i++ {
		g.addDownload()
	}
}

func (g *generator) addDownload() {
	key := uuid.New().String()
	downloadTS := g.base.Add(time.Duration(g.r.Intn(7*24*60)) * time.Minute)
	g.downloads = append(g.downloads, []string{key, g.pickPlatform(), formatTS(downloadTS)})

	// Roughly two of three downloads sign up.
	if g.r.Float64() > 0.65 {
		return
	}
	userID := g.nextUserID
	g.nextUserID++
	signupTS := downloadTS.Add(time.Duration(1+g.r.Intn(120)) * time.Minute)
	ageRange := ""
	if g.r.Float64() < 0.9 {
		ageRange = ageRanges[g.r.Intn(len(ageRanges))]
	}
	g.signups = append(g.signups, []string{
		strconv.FormatInt(userID, 10), key, formatTS(signupTS), ageRange})

	// Roughly half the signups go on to request rides.
	if g.r.Float64() > 0.55 {
		return
	}
	numRides := 1 + g.r.Intn(3)
	rideTS := signupTS
	for j := 0; j < numRides; j++ {
		rideTS = rideTS.Add(time.Duration(30+g.r.Intn(48*60)) * time.Minute)
		g.addRide(userID, rideTS)
	}
}

func (g *generator) addRide(userID int64, requestTS time.Time) {
	rideID := g.nextRideID
	g.nextRideID++
	driverID := int64(100 + g.r.Intn(40))

	record := []string{
		strconv.FormatInt(rideID, 10),
		strconv.FormatInt(userID, 10),
		strconv.FormatInt(driverID, 10),
		formatTS(requestTS),
		"", "", "", "",
	}

	// Around one in ten requests never gets accepted.
	if g.r.Float64() < 0.1 {
		g.requests = append(g.requests, record)
		return
	}
	acceptTS := requestTS.Add(time.Duration(1+g.r.Intn(6)) * time.Minute)
	record[4] = formatTS(acceptTS)

	// Some accepted rides stall before pickup. Most of those cancel,
	// the rest just hang with no terminal event.
	if g.r.Float64() < 0.15 {
		if g.r.Float64() < 0.75 {
			cancelTS := acceptTS.Add(time.Duration(2+g.r.Intn(18)) * time.Minute)
			record[7] = formatTS(cancelTS)
		}
		g.requests = append(g.requests, record)
		return
	}

	pickupTS := acceptTS.Add(time.Duration(2+g.r.Intn(12)) * time.Minute)
	record[5] = formatTS(pickupTS)

	// Sprinkle in the anomalies real feeds have. Marathon rides from
	// meter bugs and negative durations from upstream clock skew.
	durationMins := 5 + g.r.Intn(50)
	if g.r.Float64() < 0.01 {
		durationMins = 350 + g.r.Intn(200)
	} else if g.r.Float64() < 0.005 {
		durationMins = -(5 + g.r.Intn(30))
	}
	dropoffTS := pickupTS.Add(time.Duration(durationMins) * time.Minute)
	record[6] = formatTS(dropoffTS)
	g.requests = append(g.requests, record)

	g.addTransaction(rideID, dropoffTS)
	if g.r.Float64() < 0.45 {
		g.addReview(rideID, userID, driverID)
	}
}

func (g *generator) addTransaction(rideID int64, dropoffTS time.Time) {
	amount := 5.0 + g.r.Float64()*55.0
	status := model.ChargeStatusApproved
	if g.r.Float64() < 0.08 {
		status = "Cancelled"
	}
	g.transactions = append(g.transactions, []string{
		strconv.FormatInt(rideID, 10),
		strconv.FormatFloat(amount, 'f', 2, 64),
		status,
		formatTS(dropoffTS.Add(time.Minute)),
	})
}

func (g *generator) addReview(rideID, userID, driverID int64) {
	reviewID := g.nextReviewID
	g.nextReviewID++
	g.reviews = append(g.reviews, []string{
		strconv.FormatInt(reviewID, 10),
		strconv.FormatInt(rideID, 10),
		strconv.FormatInt(userID, 10),
		strconv.FormatInt(driverID, 10),
		strconv.Itoa(1 + g.r.Intn(5)),
		reviewTexts[g.r.Intn(len(reviewTexts))],
	})
}

func (g *generator) pickPlatform() string {
	roll := g.r.Float64()
	switch {
	case roll < 0.5:
		return "ios"
	case roll < 0.9:
		return "android"
	default:
		return "web"
	}
}

func formatTS(t time.Time) string {
	return t.Format(U.DATETIME_FORMAT_DB)
}

func writeTable(fm filestore.FileManager, table string, records [][]string) error {
	var buf bytes.Buffer
	csvWriter := csv.NewWriter(&buf)
	if err := csvWriter.WriteAll(records); err != nil {
		return err
	}

	path, fileName := fm.GetEventTableFilePathAndName(table)
	return fm.Create(path, fileName, &buf)
}
