package store

import (
	C "ridefunnel/config"
	"ridefunnel/model"
	serviceDisk "ridefunnel/services/disk"
	"ridefunnel/store/csvstore"
	storePostgres "ridefunnel/store/postgres"
)

// EventStore loads one immutable snapshot of the five source relations.
type EventStore interface {
	LoadTables() (*model.EventTables, error)
}

// GetStore - Should decide on which store implementation to use by
// configuration and return the store.
func GetStore() EventStore {
	conf := C.GetConfig()
	if conf.PrimaryDatastore == C.DatastoreTypePostgres {
		return &storePostgres.Postgres{}
	}
	return csvstore.New(serviceDisk.New(conf.DataDir))
}
