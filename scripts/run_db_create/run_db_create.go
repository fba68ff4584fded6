package main

import (
	"flag"

	C "ridefunnel/config"
	"ridefunnel/model"

	_ "github.com/jinzhu/gorm"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "")
	dbHost := flag.String("db_host", "localhost", "")
	dbPort := flag.Int("db_port", 5432, "")
	dbUser := flag.String("db_user", "ridefunnel", "")
	dbName := flag.String("db_name", "ridefunnel", "")
	dbPass := flag.String("db_pass", "", "")
	flag.Parse()

	config := &C.Configuration{
		AppName:          "script_db_create",
		Env:              *env,
		PrimaryDatastore: C.DatastoreTypePostgres,
		DBInfo: C.DBConf{
			Host:     *dbHost,
			Port:     *dbPort,
			User:     *dbUser,
			Name:     *dbName,
			Password: *dbPass,
		},
	}

	// Initialize configs and connections.
	if err := C.InitConf(config); err != nil {
		log.WithError(err).Error("Failed to initialize.")
		return
	}
	if C.GetConfig().Env != C.DEVELOPMENT {
		log.Error("Not Development Environment. Aborting")
		return
	}
	if err := C.InitDB(); err != nil {
		log.WithError(err).Error("Failed to initialize db.")
		return
	}

	db := C.GetServices().Db
	defer db.Close()

	// Create app_downloads table.
	if err := db.CreateTable(&model.AppDownload{}).Error; err != nil {
		log.WithFields(log.Fields{"err": err}).Error("app_downloads table creation failed.")
	} else {
		log.Info("Created app_downloads table")
	}

	// Create signups table.
	if err := db.CreateTable(&model.Signup{}).Error; err != nil {
		log.WithFields(log.Fields{"err": err}).Error("signups table creation failed.")
	} else {
		log.Info("Created signups table")
	}
	// Add index on the join key to app_downloads.
	if err := db.Exec("CREATE INDEX session_id_idx ON signups(session_id);").Error; err != nil {
		log.WithFields(log.Fields{"err": err}).Error("signups table session_id indexing failed.")
	} else {
		log.Info("signups table session_id index created.")
	}

	// Create ride_requests table.
	if err := db.CreateTable(&model.RideRequest{}).Error; err != nil {
		log.WithFields(log.Fields{"err": err}).Error("ride_requests table creation failed.")
	} else {
		log.Info("Created ride_requests table")
	}
	// Add foreign key constraint by signup user.
	if err := db.Model(&model.RideRequest{}).AddForeignKey("user_id", "signups(user_id)", "RESTRICT", "RESTRICT").Error; err != nil {
		log.WithFields(log.Fields{"err": err}).Error("ride_requests table association with signups table failed.")
	} else {
		log.Info("ride_requests table is associated with signups table.")
	}
	// Add sort index on request_ts for the hourly demand scans.
	if err := db.Exec("CREATE INDEX request_ts_idx ON ride_requests(request_ts);").Error; err != nil {
		log.WithFields(log.Fields{"err": err}).Error("ride_requests table request_ts indexing failed.")
	} else {
		log.Info("ride_requests table request_ts index created.")
	}

	// Create transactions table.
	if err := db.CreateTable(&model.Transaction{}).Error; err != nil {
		log.WithFields(log.Fields{"err": err}).Error("transactions table creation failed.")
	} else {
		log.Info("Created transactions table")
	}
	// Add foreign key constraint by ride.
	if err := db.Model(&model.Transaction{}).AddForeignKey("ride_id", "ride_requests(ride_id)", "RESTRICT", "RESTRICT").Error; err != nil {
		log.WithFields(log.Fields{"err": err}).Error("transactions table association with ride_requests table failed.")
	} else {
		log.Info("transactions table is associated with ride_requests table.")
	}

	// Create reviews table.
	if err := db.CreateTable(&model.Review{}).Error; err != nil {
		log.WithFields(log.Fields{"err": err}).Error("reviews table creation failed.")
	} else {
		log.Info("Created reviews table")
	}
	// Add foreign key constraint by ride.
	if err := db.Model(&model.Review{}).AddForeignKey("ride_id", "ride_requests(ride_id)", "RESTRICT", "RESTRICT").Error; err != nil {
		log.WithFields(log.Fields{"err": err}).Error("reviews table association with ride_requests table failed.")
	} else {
		log.Info("reviews table is associated with ride_requests table.")
	}
}
