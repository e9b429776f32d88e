package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoangnguyenba/webapi/pkg/db"
)

var configEnvVars = []string{
	"WEBAPI_DRIVER", "WEBAPI_HOST", "WEBAPI_PORT", "WEBAPI_USERNAME", "WEBAPI_PASSWORD",
	"WEBAPI_DATABASE", "WEBAPI_DSN", "WEBAPI_MAX_OPEN_CONNS", "WEBAPI_TIMEOUT",
	"WEBAPI_LOG_LEVEL", "WEBAPI_LOG_FORMAT", "WEBAPI_STORAGE", "WEBAPI_PATH",
	"WEBAPI_S3_BUCKET", "WEBAPI_S3_REGION", "WEBAPI_SNAPSHOT_PATH", "MY_BIN_HOST", "PORT",
}

// isolate runs the test in an empty directory with none of the config variables set.
// Empty variables count as unset.
func isolate(t *testing.T) string {
	t.Helper()
	for _, key := range configEnvVars {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func writeEnvFile(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0600))
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		isolate(t)

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, db.DriverPostgres, cfg.Driver)
		assert.Equal(t, "localhost", cfg.Host)
		assert.Equal(t, 0, cfg.Port)
		assert.Equal(t, "", cfg.Database)
		assert.Equal(t, 25, cfg.MaxOpenConns)
		assert.Equal(t, 10*time.Second, cfg.Timeout)
		assert.Equal(t, "127.0.0.1:3456", cfg.ListenAddr())
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, LogFormatText, cfg.LogFormat)
		assert.Equal(t, "local", cfg.Storage)
	})

	t.Run("from .env file", func(t *testing.T) {
		dir := isolate(t)
		writeEnvFile(t, dir, `
WEBAPI_DRIVER=mysql
WEBAPI_HOST=env_host
WEBAPI_PORT=3307
WEBAPI_DATABASE=env_db
WEBAPI_MAX_OPEN_CONNS=5
MY_BIN_HOST=0.0.0.0
PORT=8080
`)

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, db.DriverMySQL, cfg.Driver)
		assert.Equal(t, "env_host", cfg.Host)
		assert.Equal(t, 3307, cfg.Port)
		assert.Equal(t, "env_db", cfg.Database)
		assert.Equal(t, 5, cfg.MaxOpenConns)
		assert.Equal(t, "0.0.0.0:8080", cfg.ListenAddr())
	})

	t.Run("environment overrides .env file", func(t *testing.T) {
		dir := isolate(t)
		writeEnvFile(t, dir, `
WEBAPI_HOST=env_host
WEBAPI_DATABASE=env_db
PORT=8080
`)
		t.Setenv("WEBAPI_HOST", "os_host")
		t.Setenv("PORT", "9090")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "os_host", cfg.Host)
		assert.Equal(t, "env_db", cfg.Database)
		assert.Equal(t, 9090, cfg.ListenPort)
	})

	t.Run("connection config", func(t *testing.T) {
		isolate(t)
		t.Setenv("WEBAPI_DRIVER", "sqlite3")
		t.Setenv("WEBAPI_DATABASE", "/tmp/webapi.db")
		t.Setenv("WEBAPI_USERNAME", "bob")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		cc := cfg.ConnectionConfig()
		assert.Equal(t, db.DriverSQLite, cc.Driver)
		assert.Equal(t, "/tmp/webapi.db", cc.Database)
		assert.Equal(t, "bob", cc.User)
		assert.Equal(t, 25, cc.MaxOpenConns)
		assert.Equal(t, 25, cc.MaxIdleConns)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Driver:     db.DriverPostgres,
			Database:   "webapi",
			ListenHost: DefaultListenHost,
			ListenPort: DefaultListenPort,
			LogLevel:   "info",
			LogFormat:  LogFormatText,
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("dsn instead of database", func(t *testing.T) {
		cfg := valid()
		cfg.Database = ""
		cfg.DSN = "postgres://localhost/webapi"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("reports every problem", func(t *testing.T) {
		cfg := valid()
		cfg.Driver = "oracle"
		cfg.Database = ""
		cfg.ListenPort = 0
		cfg.LogLevel = "loud"
		cfg.LogFormat = "xml"

		err := cfg.Validate()
		require.Error(t, err)

		var merr *multierror.Error
		require.ErrorAs(t, err, &merr)
		assert.Len(t, merr.Errors, 5)
		assert.Contains(t, err.Error(), `unsupported driver "oracle"`)
		assert.Contains(t, err.Error(), "database (or dsn) is required")
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := &Config{LogLevel: "warn", LogFormat: LogFormatJSON}
		logger, err := cfg.NewLogger(&buf)
		require.NoError(t, err)

		logger.Info("hidden")
		logger.Warn("shown", "table", "car")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), `"msg":"shown"`)
		assert.Contains(t, buf.String(), `"table":"car"`)
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := &Config{LogLevel: "debug", LogFormat: LogFormatText}
		logger, err := cfg.NewLogger(&buf)
		require.NoError(t, err)

		logger.Debug("detail")
		assert.Contains(t, buf.String(), "detail")
	})

	t.Run("bad level", func(t *testing.T) {
		cfg := &Config{LogLevel: "loud"}
		_, err := cfg.NewLogger(&bytes.Buffer{})
		assert.Error(t, err)
	})
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]string{
		"DEBUG":   "DEBUG",
		"":        "INFO",
		"warning": "WARN",
		"error":   "ERROR",
	} {
		level, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, level.String(), in)
	}
}
