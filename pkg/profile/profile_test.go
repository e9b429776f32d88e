package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDir points WEBAPI_PATH at a fresh temp dir and returns its profiles subdir.
func setupTestDir(t *testing.T) string {
	t.Helper()
	baseTmpDir := t.TempDir()
	t.Setenv("WEBAPI_PATH", baseTmpDir)

	profilesDir := filepath.Join(baseTmpDir, "profiles")
	require.NoError(t, os.MkdirAll(profilesDir, 0755), "Failed to create profiles subdir")
	return profilesDir
}

func createDummyProfile(t *testing.T, profileDir string, profileName string, content string) string {
	t.Helper()
	filePath := filepath.Join(profileDir, profileName+".yaml")
	require.NoError(t, os.WriteFile(filePath, []byte(content), 0644), "Failed to write dummy profile file")
	return filePath
}

func TestGetProfileDir(t *testing.T) {
	t.Run("WEBAPI_PATH not set", func(t *testing.T) {
		t.Setenv("WEBAPI_PATH", "")
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		t.Setenv("HOME", t.TempDir())

		dir, err := GetProfileDir()
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(dir), "Expected absolute path")
		assert.Equal(t, "profiles", filepath.Base(dir))
		assert.Equal(t, "webapi", filepath.Base(filepath.Dir(dir)))
	})

	t.Run("WEBAPI_PATH is set", func(t *testing.T) {
		testPath := t.TempDir()
		t.Setenv("WEBAPI_PATH", testPath)

		dir, err := GetProfileDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(testPath, "profiles"), dir)
		assert.DirExists(t, dir)
	})
}

func TestGetProfilePath(t *testing.T) {
	profileDir := setupTestDir(t)

	path, err := GetProfilePath("my-test-profile")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(profileDir, "my-test-profile.yaml"), path)

	for _, name := range []string{"", "..", "a/b", `a\b`} {
		_, err := GetProfilePath(name)
		assert.Error(t, err, name)
	}
}

func TestLoadProfile(t *testing.T) {
	profileDir := setupTestDir(t)

	t.Run("Profile exists and is valid", func(t *testing.T) {
		createDummyProfile(t, profileDir, "valid-profile", `
database: testdb
host: localhost
port: 5432
driver: postgres
max_open_conns: 10
`)

		cfg, err := LoadProfile("valid-profile")
		require.NoError(t, err)
		assert.Equal(t, &ProfileConfig{
			Driver:       "postgres",
			Host:         "localhost",
			Port:         5432,
			Database:     "testdb",
			MaxOpenConns: 10,
		}, cfg)
	})

	t.Run("DSN only", func(t *testing.T) {
		createDummyProfile(t, profileDir, "dsn-profile", `
driver: mysql
dsn: "user:pw@tcp(db:3306)/webapi"
`)

		cfg, err := LoadProfile("dsn-profile")
		require.NoError(t, err)
		assert.Equal(t, "user:pw@tcp(db:3306)/webapi", cfg.DSN)
	})

	t.Run("Profile does not exist", func(t *testing.T) {
		_, err := LoadProfile("non-existent-profile")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})

	t.Run("Profile exists but is invalid YAML", func(t *testing.T) {
		createDummyProfile(t, profileDir, "invalid-yaml", "database: [testdb\n")

		_, err := LoadProfile("invalid-yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse")
	})

	t.Run("Profile exists but has incorrect types", func(t *testing.T) {
		createDummyProfile(t, profileDir, "wrong-types", `
database: testdb
port: "not-a-number"
`)

		_, err := LoadProfile("wrong-types")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse")
	})

	t.Run("Profile without database", func(t *testing.T) {
		createDummyProfile(t, profileDir, "no-db", "host: localhost\n")

		_, err := LoadProfile("no-db")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is invalid")
	})
}

func TestSaveProfile(t *testing.T) {
	profileDir := setupTestDir(t)

	t.Run("Save new profile", func(t *testing.T) {
		cfg := &ProfileConfig{
			Database: "saved_db",
			Host:     "savehost",
			Port:     5432,
			Username: "saveuser",
			Driver:   "postgres",
		}
		require.NoError(t, SaveProfile("new-save-profile", cfg))

		contentBytes, err := os.ReadFile(filepath.Join(profileDir, "new-save-profile.yaml"))
		require.NoError(t, err)
		content := string(contentBytes)

		assert.Contains(t, content, "database: saved_db")
		assert.Contains(t, content, "host: savehost")
		assert.Contains(t, content, "port: 5432")
		assert.Contains(t, content, "username: saveuser")
		assert.Contains(t, content, "driver: postgres")
		assert.NotContains(t, content, "password:")
		assert.NotContains(t, content, "dsn:")

		loaded, err := LoadProfile("new-save-profile")
		require.NoError(t, err)
		assert.Equal(t, cfg, loaded)
	})

	t.Run("Overwrite existing profile", func(t *testing.T) {
		createDummyProfile(t, profileDir, "overwrite-profile", "database: initial_db")

		require.NoError(t, SaveProfile("overwrite-profile", &ProfileConfig{
			Database: "overwritten_db",
			Host:     "newhost",
		}))

		contentBytes, err := os.ReadFile(filepath.Join(profileDir, "overwrite-profile.yaml"))
		require.NoError(t, err)
		content := string(contentBytes)
		assert.Contains(t, content, "database: overwritten_db")
		assert.NotContains(t, content, "initial_db")
	})

	t.Run("Save profile with password", func(t *testing.T) {
		require.NoError(t, SaveProfile("password-profile", &ProfileConfig{
			Database: "pw_db",
			Password: "supersecret",
		}))

		filePath := filepath.Join(profileDir, "password-profile.yaml")
		contentBytes, err := os.ReadFile(filePath)
		require.NoError(t, err)
		assert.Contains(t, string(contentBytes), "password: supersecret")

		info, err := os.Stat(filePath)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("Missing database is rejected", func(t *testing.T) {
		assert.Error(t, SaveProfile("empty", &ProfileConfig{Host: "h"}))
		assert.Error(t, SaveProfile("nil", nil))
	})

	t.Run("Save profile when directory does not exist", func(t *testing.T) {
		baseDir := t.TempDir()
		t.Setenv("WEBAPI_PATH", baseDir)

		require.NoError(t, SaveProfile("create-dir-profile", &ProfileConfig{Database: "created_dir_db"}))
		assert.FileExists(t, filepath.Join(baseDir, "profiles", "create-dir-profile.yaml"))
	})
}

func TestListAndDeleteProfiles(t *testing.T) {
	profileDir := setupTestDir(t)

	names, err := ListProfiles()
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, SaveProfile("prod", &ProfileConfig{Database: "prod"}))
	require.NoError(t, SaveProfile("dev", &ProfileConfig{Database: "dev"}))
	createDummyProfile(t, profileDir, "notes", "x")
	require.NoError(t, os.Rename(filepath.Join(profileDir, "notes.yaml"), filepath.Join(profileDir, "notes.txt")))

	names, err = ListProfiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"dev", "prod"}, names)

	require.NoError(t, DeleteProfile("dev"))
	assert.ErrorIs(t, DeleteProfile("dev"), ErrProfileNotFound)

	names, err = ListProfiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"prod"}, names)
}
