package db

import "errors"

// Database driver constants
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Table names
const (
	CarTable          = "car"
	UserTable         = "usr"
	SubscriptionTable = "subscription"
	ErrorTable        = "error"
)

// Error definitions
var (
	ErrUnsupportedDriver = errors.New("unsupported database driver")
	ErrInvalidTableName  = errors.New("invalid table name")
	ErrInvalidQuery      = errors.New("invalid query")
	ErrRowCountMismatch  = errors.New("affected row count does not match request")
	ErrMissingTables     = errors.New("missing tables")
	ErrIDOutOfRange      = errors.New("generated id out of range")
)
