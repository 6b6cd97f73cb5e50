package db

import "errors"

var (
	ErrInvalidConfig   = errors.New("db: invalid connection configuration")
	ErrConnectFailed   = errors.New("db: failed to open database connection")
	ErrSetDialect      = errors.New("db: failed to set migration dialect")
	ErrApplyMigrations = errors.New("db: failed to apply migrations")
)
