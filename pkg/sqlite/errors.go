package sqlite

import "errors"

var (
	ErrEmptyPath         = errors.New("empty sqlite database path")
	ErrFailedToOpen      = errors.New("failed to open sqlite database")
	ErrFailedToMigrate   = errors.New("failed to create sqlite session schema")
	ErrHealthcheckFailed = errors.New("sqlite healthcheck failed")
)
