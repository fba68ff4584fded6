package model

import (
	"errors"
	"fmt"
)

// Error messages surfaced with failed operations.
const (
	ErrMsgSchemaValidationFailure = "Input tables failed schema validation"
	ErrMsgFunnelBuildFailure      = "Failed building funnel table"
	ErrMsgLoadingTablesFailure    = "Failed loading event tables"
)

// SchemaError reports a required column that is missing or empty on a source
// table. The operation that needed the column fails with it; analyses that
// never touch that table keep working.
type SchemaError struct {
	Table  string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("table %s is missing required column %s", e.Table, e.Column)
}

func NewSchemaError(table, column string) *SchemaError {
	return &SchemaError{Table: table, Column: column}
}

// IsSchemaError reports whether err is, or wraps, a SchemaError.
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}
