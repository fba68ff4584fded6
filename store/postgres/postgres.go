package postgres

import (
	C "ridefunnel/config"
	"ridefunnel/model"

	log "github.com/sirupsen/logrus"
)

// Postgres loads the event tables from the configured postgres instance.
// Table and column names follow the gorm tags on the model types, so the
// schema matches the csv files column for column.
type Postgres struct{}

func (store *Postgres) LoadTables() (*model.EventTables, error) {
	db := C.GetServices().Db

	tables := &model.EventTables{}
	if err := db.Find(&tables.Downloads).Error; err != nil {
		log.WithError(err).Error(model.ErrMsgLoadingTablesFailure)
		return nil, err
	}
	if err := db.Find(&tables.Signups).Error; err != nil {
		log.WithError(err).Error(model.ErrMsgLoadingTablesFailure)
		return nil, err
	}
	if err := db.Find(&tables.Requests).Error; err != nil {
		log.WithError(err).Error(model.ErrMsgLoadingTablesFailure)
		return nil, err
	}
	if err := db.Find(&tables.Transactions).Error; err != nil {
		log.WithError(err).Error(model.ErrMsgLoadingTablesFailure)
		return nil, err
	}
	if err := db.Find(&tables.Reviews).Error; err != nil {
		log.WithError(err).Error(model.ErrMsgLoadingTablesFailure)
		return nil, err
	}

	log.WithFields(log.Fields{
		"downloads":    len(tables.Downloads),
		"signups":      len(tables.Signups),
		"requests":     len(tables.Requests),
		"transactions": len(tables.Transactions),
		"reviews":      len(tables.Reviews),
	}).Info("Loaded event tables from postgres.")
	return tables, nil
}
