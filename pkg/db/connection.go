package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// ConnectionConfig contains configuration for a database connection
type ConnectionConfig struct {
	Driver   string
	DSN      string // Full connection string; when set, Host/Port/User/Password/Database are ignored
	Host     string
	Port     int
	User     string
	Password string
	Database string // Database name, or the file path for sqlite
	Timeout  time.Duration

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Connection represents the shared connection pool. It is safe for concurrent use.
type Connection struct {
	DB     *sql.DB
	Config ConnectionConfig

	sq     sq.StatementBuilderType
	logger *slog.Logger
}

// NewConnection opens the pool and checks that the database answers.
func NewConnection(ctx context.Context, config ConnectionConfig, logger *slog.Logger) (*Connection, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dsn, err := buildDSN(config)
	if err != nil {
		return nil, fmt.Errorf("failed to build DSN: %w", err)
	}

	db, err := sql.Open(config.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(valueOrDefault(config.MaxOpenConns, 25))
	db.SetMaxIdleConns(valueOrDefault(config.MaxIdleConns, 25))
	if config.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(config.ConnMaxLifetime)
	} else {
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return WrapDB(db, config, logger)
}

// WrapDB builds a Connection around an already opened pool.
func WrapDB(db *sql.DB, config ConnectionConfig, logger *slog.Logger) (*Connection, error) {
	placeholder, err := PlaceholderFormat(config.Driver)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Connection{
		DB:     db,
		Config: config,
		sq:     sq.StatementBuilder.PlaceholderFormat(placeholder),
		logger: logger.With("driver", config.Driver),
	}, nil
}

// Close closes the database connection
func (c *Connection) Close() error {
	return c.DB.Close()
}

// buildDSN builds a database connection string
func buildDSN(config ConnectionConfig) (string, error) {
	switch config.Driver {
	case DriverMySQL:
		return buildMySQLDSN(config)
	case DriverPostgres:
		if config.DSN != "" {
			return config.DSN, nil
		}
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable connect_timeout=%d",
			config.Host,
			portOrDefault(config),
			config.User,
			config.Password,
			config.Database,
			int(config.Timeout.Seconds()),
		), nil
	case DriverSQLite:
		if config.DSN != "" {
			return config.DSN, nil
		}
		if config.Database == "" {
			return "", fmt.Errorf("%w: sqlite requires a database path", ErrInvalidQuery)
		}
		return fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", config.Database), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedDriver, config.Driver)
	}
}

// buildMySQLDSN always enables clientFoundRows: UPDATE must report matched rows, not only
// changed ones, or affected-row verification rejects updates that rewrite equal values.
func buildMySQLDSN(config ConnectionConfig) (string, error) {
	var cfg *mysql.Config
	if config.DSN != "" {
		parsed, err := mysql.ParseDSN(config.DSN)
		if err != nil {
			return "", fmt.Errorf("failed to parse mysql DSN: %w", err)
		}
		cfg = parsed
	} else {
		cfg = mysql.NewConfig()
		cfg.User = config.User
		cfg.Passwd = config.Password
		cfg.Net = "tcp"
		cfg.Addr = fmt.Sprintf("%s:%d", config.Host, portOrDefault(config))
		cfg.DBName = config.Database
		cfg.Timeout = config.Timeout
	}
	cfg.ClientFoundRows = true
	return cfg.FormatDSN(), nil
}

// RedactedDSN returns the connection string with the password masked, for logs and
// errors. A connection string that cannot be parsed is replaced by a placeholder.
func RedactedDSN(config ConnectionConfig) string {
	c := config
	if c.Password != "" {
		c.Password = redacted
	}
	dsn, err := buildDSN(c)
	if err != nil {
		return unparsedDSN
	}

	switch c.Driver {
	case DriverMySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return unparsedDSN
		}
		if cfg.Passwd != "" {
			cfg.Passwd = redacted
		}
		return cfg.FormatDSN()
	case DriverPostgres:
		return redactPostgresDSN(dsn)
	}
	return dsn
}

// pgPassword matches the password pair of a key=value connection string, quoted or not.
var pgPassword = regexp.MustCompile(`(?i)(\bpassword\s*=\s*)('(?:[^'\\]|\\.)*'|\S*)`)

// redactPostgresDSN masks the password in either form lib/pq accepts. URLs are converted
// to key=value pairs first so a password given as a query parameter is caught too.
func redactPostgresDSN(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		kv, err := pq.ParseURL(dsn)
		if err != nil {
			return unparsedDSN
		}
		dsn = kv
	}
	return pgPassword.ReplaceAllString(dsn, "${1}"+redacted)
}

const (
	redacted    = "xxxxx"
	unparsedDSN = "<unparsable connection string>"
)

// DefaultPort returns the standard server port of driver, or 0 for file databases.
func DefaultPort(driver string) int {
	switch driver {
	case DriverMySQL:
		return 3306
	case DriverPostgres:
		return 5432
	default:
		return 0
	}
}

func portOrDefault(config ConnectionConfig) int {
	if config.Port > 0 {
		return config.Port
	}
	return DefaultPort(config.Driver)
}

func valueOrDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
