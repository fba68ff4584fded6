package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"

	"ridefunnel/analytics"
	C "ridefunnel/config"
	"ridefunnel/filestore"
	"ridefunnel/merge"
	"ridefunnel/model"
	serviceDisk "ridefunnel/services/disk"
	serviceGCS "ridefunnel/services/gcstorage"
	serviceS3 "ridefunnel/services/s3"
	"ridefunnel/store"
	U "ridefunnel/util"

	log "github.com/sirupsen/logrus"
)

var taskID = "Script#FunnelReport"
var pbLog = log.WithField("prefix", taskID)

// funnelReport is the full batch output. Every analysis the api serves
// piecemeal lands here in one document.
type funnelReport struct {
	GeneratedAt     string                       `json:"generated_at"`
	FunnelRows      int                          `json:"funnel_rows"`
	Steps           []model.FunnelStep           `json:"steps"`
	Conversions     []model.FunnelStepConversion `json:"conversions"`
	DurationQuality model.DurationQuality        `json:"duration_quality"`
	DropoffGap      model.DropoffGap             `json:"dropoff_gap"`
	WaitTimes       model.WaitTimeComparison     `json:"wait_times"`
	Platforms       []model.PlatformMetrics      `json:"platforms"`
	AgeGroups       []model.AgeGroupMetrics      `json:"age_groups"`
	HourlyDemand    []model.HourCount            `json:"hourly_demand"`
	Warmup          model.WarmupStats            `json:"warmup"`
}

func main() {
	envFlag := flag.String("env", "development", "Environment. Could be development|staging|production.")
	primaryDatastore := flag.String("primary_datastore", C.DatastoreTypeCSV,
		"Datastore to load the event tables from. csv or postgres.")
	dataDir := flag.String("data_dir", "/usr/local/var/ridefunnel/data",
		"Directory with the event table csv files.")
	storageProvider := flag.String("storage_provider", "disk",
		"Where the report is written. disk, gcs or s3.")
	bucketNameFlag := flag.String("bucket_name", "/usr/local/var/ridefunnel",
		"Bucket name, or the base directory for the disk provider.")
	awsRegion := flag.String("aws_region", "us-east-1", "")
	reportName := flag.String("report_name", "funnel_report", "Name for the report file.")
	stepsCSVFlag := flag.String("steps_csv", "", "If the funnel steps are to be written to a csv file")

	dbHost := flag.String("db_host", "localhost", "")
	dbPort := flag.Int("db_port", 5432, "")
	dbUser := flag.String("db_user", "ridefunnel", "")
	dbName := flag.String("db_name", "ridefunnel", "")
	dbPass := flag.String("db_pass", "", "")
	flag.Parse()

	if *envFlag != "development" && *envFlag != "staging" && *envFlag != "production" {
		panic(fmt.Errorf("env [ %s ] not recognised", *envFlag))
	}

	config := &C.Configuration{
		AppName:          "script_run_funnel_report",
		Env:              *envFlag,
		DataDir:          *dataDir,
		PrimaryDatastore: *primaryDatastore,
		DBInfo: C.DBConf{
			Host:     *dbHost,
			Port:     *dbPort,
			User:     *dbUser,
			Name:     *dbName,
			Password: *dbPass,
		},
	}
	err := C.InitConf(config)
	if err != nil {
		pbLog.WithError(err).Fatal("Failed to initialize config.")
	}
	if C.GetConfig().PrimaryDatastore == C.DatastoreTypePostgres {
		if err := C.InitDB(); err != nil {
			pbLog.WithError(err).Fatal("Failed to initialize db.")
		}
		defer C.GetServices().Db.Close()
	}

	tables, err := store.GetStore().LoadTables()
	if err != nil {
		pbLog.WithError(err).Fatal("Failed to load event tables.")
	}

	engine := merge.New(tables)
	funnel, err := engine.Funnel()
	if err != nil {
		pbLog.WithError(err).Fatal(model.ErrMsgFunnelBuildFailure)
	}

	steps := analytics.FunnelSteps(funnel)
	report := funnelReport{
		GeneratedAt:     U.TimeNowZ().Format(U.DATETIME_FORMAT_DB),
		FunnelRows:      len(funnel),
		Steps:           steps,
		Conversions:     analytics.StepConversions(steps),
		DurationQuality: analytics.RideDurationQuality(tables.Requests),
		DropoffGap:      analytics.AnalyzeDropoffGap(tables.Requests),
		WaitTimes:       analytics.AnalyzeWaitTimes(tables.Requests),
		Platforms:       analytics.PlatformFunnel(funnel),
		AgeGroups:       analytics.AgeGroupFunnel(funnel),
		HourlyDemand:    analytics.HourlyDemand(tables.Requests),
		Warmup:          analytics.WarmupStats(tables),
	}

	reportBytes, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		pbLog.WithError(err).Fatal("Failed to marshal the report.")
	}

	var cloudManager filestore.FileManager
	switch *storageProvider {
	case "disk":
		cloudManager = serviceDisk.New(*bucketNameFlag)
	case "gcs":
		cloudManager, err = serviceGCS.New(*bucketNameFlag)
		if err != nil {
			pbLog.WithError(err).Fatal("Failed to init gcs client.")
		}
	case "s3":
		cloudManager = serviceS3.New(*bucketNameFlag, *awsRegion)
	default:
		panic(fmt.Errorf("storage_provider [ %s ] not recognised", *storageProvider))
	}

	path, name := cloudManager.GetReportFilePathAndName(*reportName, U.TimeNowZ().Unix())
	if err := cloudManager.Create(path, name, bytes.NewReader(reportBytes)); err != nil {
		pbLog.WithError(err).Fatal("Failed to write the report file.")
	}

	if *stepsCSVFlag != "" {
		if err := writeStepsCSV(*stepsCSVFlag, steps); err != nil {
			pbLog.WithError(err).Error("Failed to write the funnel steps csv.")
		}
	}

	pbLog.WithFields(log.Fields{
		"report":      path + name,
		"funnel_rows": report.FunnelRows,
	}).Info("Wrote funnel report.")
}

func writeStepsCSV(filePath string, steps []model.FunnelStep) error {
	outf, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer outf.Close()

	csvWriter := csv.NewWriter(outf)
	defer csvWriter.Flush()

	result := analytics.FunnelStepsAsQueryResult(steps)
	records := [][]string{result.Headers}
	for _, row := range result.Rows {
		record := make([]string, 0, len(row))
		for _, cell := range row {
			record = append(record, toCSVCell(cell))
		}
		records = append(records, record)
	}
	return csvWriter.WriteAll(records)
}

func toCSVCell(cell interface{}) string {
	switch v := cell.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}
