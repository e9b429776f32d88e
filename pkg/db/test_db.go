package db

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"
)

var sqliteTestSchema = []string{
	`CREATE TABLE car (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		car_name TEXT NOT NULL CHECK (car_name <> '')
	)`,
	`CREATE TABLE usr (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		usr_name TEXT NOT NULL UNIQUE,
		usr_password TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE subscription (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		object_name TEXT NOT NULL,
		event_name TEXT NOT NULL,
		call_back TEXT NOT NULL
	)`,
	`CREATE TABLE error (
		id INTEGER PRIMARY KEY,
		error_name TEXT NOT NULL
	)`,
}

var postgresTestSchema = []string{
	`DROP TABLE IF EXISTS car, usr, subscription, error`,
	`CREATE TABLE car (
		id SERIAL PRIMARY KEY,
		car_name TEXT NOT NULL CHECK (car_name <> '')
	)`,
	`CREATE TABLE usr (
		id SERIAL PRIMARY KEY,
		usr_name TEXT NOT NULL UNIQUE,
		usr_password TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE subscription (
		id SERIAL PRIMARY KEY,
		object_name TEXT NOT NULL,
		event_name TEXT NOT NULL,
		call_back TEXT NOT NULL
	)`,
	`CREATE TABLE error (
		id INTEGER PRIMARY KEY,
		error_name TEXT NOT NULL
	)`,
}

// TestErrorNames are the rows MustOpenTestConnection seeds into the error table.
var TestErrorNames = map[int32]string{
	0: "OK",
	1: "DatabaseError",
	2: "NotFoundError",
	3: "InvalidRequestError",
}

// TestOption adjusts how the test database is prepared.
type TestOption func(*testOptions)

type testOptions struct {
	skipErrorTable bool
	skipSeed       bool
}

// WithoutErrorTable leaves the error table out of the schema.
func WithoutErrorTable() TestOption {
	return func(o *testOptions) { o.skipErrorTable = true }
}

// WithoutErrorNames creates the error table but leaves it empty.
func WithoutErrorNames() TestOption {
	return func(o *testOptions) { o.skipSeed = true }
}

// MustOpenTestConnection returns a connection to a blank database with the car, usr,
// subscription and error tables. The database is a temporary SQLite file unless
// WEBAPI_TEST_DATABASE_PROVIDER=postgres, in which case it connects using POSTGRES_TEST_HOST,
// POSTGRES_TEST_PORT, POSTGRES_TEST_USER, POSTGRES_TEST_PASSWORD and POSTGRES_TEST_DATABASE
// and recreates the tables. Those variables may also come from a .env file.
func MustOpenTestConnection(t testing.TB, opts ...TestOption) *Connection {
	t.Helper()

	// Optionally load the dotenv file to point tests at postgres while debugging
	_ = godotenv.Load()

	o := &testOptions{}
	for _, opt := range opts {
		opt(o)
	}

	var cfg ConnectionConfig
	var schema []string
	switch strings.ToLower(strings.TrimSpace(os.Getenv("WEBAPI_TEST_DATABASE_PROVIDER"))) {
	case DriverPostgres:
		port, err := strconv.Atoi(getEnvDefault("POSTGRES_TEST_PORT", "5432"))
		if err != nil {
			t.Fatalf("invalid POSTGRES_TEST_PORT: %v", err)
		}
		cfg = ConnectionConfig{
			Driver:   DriverPostgres,
			Host:     getEnvDefault("POSTGRES_TEST_HOST", "localhost"),
			Port:     port,
			User:     getEnvDefault("POSTGRES_TEST_USER", "postgres"),
			Password: getEnvDefault("POSTGRES_TEST_PASSWORD", "postgres"),
			Database: getEnvDefault("POSTGRES_TEST_DATABASE", "postgres"),
			Timeout:  5 * time.Second,
		}
		schema = postgresTestSchema
	default:
		cfg = ConnectionConfig{
			Driver:   DriverSQLite,
			Database: filepath.Join(t.TempDir(), "webapi-test.sqlite3"),
		}
		schema = sqliteTestSchema
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if os.Getenv("WEBAPI_TEST_VERBOSE") != "" {
		logger = slog.Default()
	}

	ctx := context.Background()
	conn, err := NewConnection(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})

	for _, stmt := range schema {
		if o.skipErrorTable && strings.Contains(stmt, "CREATE TABLE error") {
			continue
		}
		if _, err := conn.DB.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("failed to create test schema: %v", err)
		}
	}

	if !o.skipErrorTable && !o.skipSeed {
		for id, name := range TestErrorNames {
			q := conn.sq.Insert(ErrorTable).Columns("id", "error_name").Values(id, name)
			if _, err := q.RunWith(conn.DB).ExecContext(ctx); err != nil {
				t.Fatalf("failed to seed error table: %v", err)
			}
		}
	}

	return conn
}

// MustCountRows returns the number of rows in table.
func MustCountRows(t testing.TB, conn *Connection, table string) int {
	t.Helper()
	n, err := CountRows(context.Background(), conn, table)
	if err != nil {
		t.Fatalf("%v", err)
	}
	return int(n)
}

func getEnvDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
