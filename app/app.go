package main

import (
	"flag"
	"strconv"

	C "ridefunnel/config"
	H "ridefunnel/handler"
	"ridefunnel/merge"
	mid "ridefunnel/middleware"
	"ridefunnel/store"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ./app --env=development --api_http_port=8080 --primary_datastore=csv --data_dir=/usr/local/var/ridefunnel/data
func main() {

	env := flag.String("env", "development", "")
	port := flag.Int("api_http_port", 8080, "")

	primaryDatastore := flag.String("primary_datastore", C.DatastoreTypeCSV,
		"Datastore to load the event tables from. csv or postgres.")
	dataDir := flag.String("data_dir", "/usr/local/var/ridefunnel/data",
		"Directory with the event table csv files.")

	dbHost := flag.String("db_host", "localhost", "")
	dbPort := flag.Int("db_port", 5432, "")
	dbUser := flag.String("db_user", "ridefunnel", "")
	dbName := flag.String("db_name", "ridefunnel", "")
	dbPass := flag.String("db_pass", "", "")
	flag.Parse()

	config := &C.Configuration{
		AppName:          "funnel_api_server",
		Env:              *env,
		Port:             *port,
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

	// Initialize configs and connections.
	err := C.InitConf(config)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize config.")
		return
	}
	if C.GetConfig().PrimaryDatastore == C.DatastoreTypePostgres {
		if err := C.InitDB(); err != nil {
			log.WithError(err).Fatal("Failed to initialize db.")
			return
		}
	}

	tables, err := store.GetStore().LoadTables()
	if err != nil {
		log.WithError(err).Fatal("Failed to load event tables.")
		return
	}
	H.Init(merge.New(tables))

	if !C.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mid.RequestIdGenerator())
	r.Use(mid.Logger())
	r.Use(mid.Recovery())

	// Initialize routes.
	H.InitRoutes(r)
	r.Run(":" + strconv.Itoa(C.GetConfig().Port))
}
