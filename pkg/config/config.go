package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"

	"github.com/hoangnguyenba/webapi/pkg/db"
)

const (
	DefaultListenHost = "127.0.0.1"
	DefaultListenPort = 3456
)

// Config holds the application configuration read from .env and the environment.
type Config struct {
	Driver       string
	Host         string
	Port         int
	Username     string
	Password     string
	Database     string
	DSN          string // Full connection string; overrides the individual parts
	MaxOpenConns int
	Timeout      time.Duration

	ListenHost string
	ListenPort int

	LogLevel  string
	LogFormat string

	// Snapshot storage used by export and import
	Storage  string
	Path     string
	S3Bucket string
	S3Region string
}

// LoadConfig reads .env from the working directory (if present) and the environment.
// Keys are matched case-insensitively, so WEBAPI_HOST and webapi_host are the same key.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read .env: %w", err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		Driver:       getString(v, "webapi_driver", db.DriverPostgres),
		Host:         getString(v, "webapi_host", "localhost"),
		Port:         getInt(v, "webapi_port", 0),
		Username:     getString(v, "webapi_username", ""),
		Password:     getString(v, "webapi_password", ""),
		Database:     getString(v, "webapi_database", ""),
		DSN:          getString(v, "webapi_dsn", ""),
		MaxOpenConns: getInt(v, "webapi_max_open_conns", 25),
		Timeout:      getDuration(v, "webapi_timeout", 10*time.Second),

		ListenHost: getString(v, "my_bin_host", DefaultListenHost),
		ListenPort: getInt(v, "port", DefaultListenPort),

		LogLevel:  getString(v, "webapi_log_level", "info"),
		LogFormat: getString(v, "webapi_log_format", LogFormatText),

		Storage:  getString(v, "webapi_storage", "local"),
		Path:     getString(v, "webapi_snapshot_path", ""),
		S3Bucket: getString(v, "webapi_s3_bucket", ""),
		S3Region: getString(v, "webapi_s3_region", ""),
	}

	return cfg, nil
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	result := &multierror.Error{}

	switch c.Driver {
	case db.DriverMySQL, db.DriverPostgres, db.DriverSQLite:
	default:
		result = multierror.Append(result, fmt.Errorf("unsupported driver %q", c.Driver))
	}

	if c.DSN == "" && c.Database == "" {
		result = multierror.Append(result, errors.New("database (or dsn) is required"))
	}

	if c.Port < 0 || c.Port > 65535 {
		result = multierror.Append(result, fmt.Errorf("invalid database port %d", c.Port))
	}

	if c.ListenPort <= 0 || c.ListenPort > 65535 {
		result = multierror.Append(result, fmt.Errorf("invalid listen port %d", c.ListenPort))
	}

	if c.MaxOpenConns < 0 {
		result = multierror.Append(result, errors.New("max open connections cannot be negative"))
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, err)
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		result = multierror.Append(result, fmt.Errorf("unsupported log format %q", c.LogFormat))
	}

	return result.ErrorOrNil()
}

// ConnectionConfig converts the configuration into pool settings.
func (c *Config) ConnectionConfig() db.ConnectionConfig {
	return db.ConnectionConfig{
		Driver:       c.Driver,
		DSN:          c.DSN,
		Host:         c.Host,
		Port:         c.Port,
		User:         c.Username,
		Password:     c.Password,
		Database:     c.Database,
		Timeout:      c.Timeout,
		MaxOpenConns: c.MaxOpenConns,
		MaxIdleConns: c.MaxOpenConns,
	}
}

// ListenAddr is the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.ListenHost, strconv.Itoa(c.ListenPort))
}

func getString(v *viper.Viper, key, defaultValue string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return defaultValue
}

func getInt(v *viper.Viper, key string, defaultValue int) int {
	if v.IsSet(key) {
		return v.GetInt(key)
	}
	return defaultValue
}

func getDuration(v *viper.Viper, key string, defaultValue time.Duration) time.Duration {
	if v.IsSet(key) {
		return v.GetDuration(key)
	}
	return defaultValue
}
