package config

import (
	"fmt"
	"strings"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	log "github.com/sirupsen/logrus"
)

const DEVELOPMENT = "development"

// Supported primary datastores for the event tables.
const (
	DatastoreTypeCSV      = "csv"
	DatastoreTypePostgres = "postgres"
)

type DBConf struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type Configuration struct {
	AppName          string `json:"app_name"`
	Env              string `json:"env"`
	Port             int    `json:"port"`
	DataDir          string `json:"data_dir"`
	PrimaryDatastore string `json:"primary_datastore"`
	DBInfo           DBConf `json:"db"`
}

type Services struct {
	Db *gorm.DB
}

var configuration *Configuration = nil
var services *Services = nil
var initiated bool = false

func initLogging() {
	// Log as JSON instead of the default ASCII formatter.
	log.SetFormatter(&log.JSONFormatter{})

	if IsDevelopment() {
		log.SetLevel(log.DebugLevel)
	}
}

// validateConfig fills defaults and rejects combinations that cannot run.
// The datastore defaults to csv, which needs a data_dir to read from.
func validateConfig(conf *Configuration) error {
	if conf.PrimaryDatastore == "" {
		conf.PrimaryDatastore = DatastoreTypeCSV
	}

	switch conf.PrimaryDatastore {
	case DatastoreTypeCSV:
		if conf.DataDir == "" {
			return fmt.Errorf("csv datastore needs a data_dir")
		}
	case DatastoreTypePostgres:
		if conf.DBInfo.Host == "" || conf.DBInfo.Name == "" {
			return fmt.Errorf("postgres datastore needs db host and name")
		}
	default:
		return fmt.Errorf("unknown primary datastore %s", conf.PrimaryDatastore)
	}
	return nil
}

// InitConf stores the configuration and initializes logging. Database setup
// lives in InitDB; csv runs never need it.
func InitConf(conf *Configuration) error {
	if initiated {
		return fmt.Errorf("Config already initialized")
	}

	if err := validateConfig(conf); err != nil {
		return err
	}
	configuration = conf
	initLogging()

	initiated = true
	return nil
}

// InitDB connects to the configured postgres instance and hangs the handle
// on Services.
func InitDB() error {
	conf := GetConfig()
	db, err := gorm.Open("postgres", fmt.Sprintf("host=%s port=%d user=%s dbname=%s password=%s sslmode=disable",
		conf.DBInfo.Host,
		conf.DBInfo.Port,
		conf.DBInfo.User,
		conf.DBInfo.Name,
		conf.DBInfo.Password))
	if err != nil {
		log.WithFields(log.Fields{"err": err}).Error("Failed Db Initialization")
		return err
	}

	// Connection Pooling and Logging.
	db.DB().SetMaxIdleConns(10)
	db.DB().SetMaxOpenConns(100)
	db.LogMode(IsDevelopment())

	services = &Services{Db: db}
	log.Info("Db Service initialized")
	return nil
}

func GetConfig() *Configuration {
	return configuration
}

func GetServices() *Services {
	return services
}

func IsDevelopment() bool {
	return (strings.Compare(configuration.Env, DEVELOPMENT) == 0)
}
