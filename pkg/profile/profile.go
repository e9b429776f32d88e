package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrProfileNotFound is returned when no file exists for a profile name.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileConfig holds the connection settings stored within a profile.
type ProfileConfig struct {
	Driver       string `yaml:"driver,omitempty"`
	Host         string `yaml:"host,omitempty"`
	Port         int    `yaml:"port,omitempty"`
	Username     string `yaml:"username,omitempty"`
	Password     string `yaml:"password,omitempty"` // Stored in plain text
	Database     string `yaml:"database,omitempty"`
	DSN          string `yaml:"dsn,omitempty"`
	MaxOpenConns int    `yaml:"max_open_conns,omitempty"`
}

// Validate checks that the profile can locate a database.
func (p *ProfileConfig) Validate() error {
	if p.Database == "" && p.DSN == "" {
		return errors.New("missing required 'database' (or 'dsn') field")
	}
	return nil
}

// GetProfileDir determines the directory where profile files are stored.
// It checks the WEBAPI_PATH environment variable first, then falls back
// to a default location based on the operating system.
// It also ensures the directory exists, creating it if necessary.
func GetProfileDir() (string, error) {
	if basePath := os.Getenv("WEBAPI_PATH"); basePath != "" {
		profileDir := filepath.Join(basePath, "profiles")
		if err := os.MkdirAll(profileDir, 0750); err != nil {
			return "", fmt.Errorf("failed to create profile directory specified by WEBAPI_PATH (%s): %w", profileDir, err)
		}
		return profileDir, nil
	}

	var configDir string
	var err error

	switch runtime.GOOS {
	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory on macOS: %w", err)
		}
		configDir = filepath.Join(homeDir, "Library", "Application Support")
	default:
		// XDG_CONFIG_HOME or ~/.config on Linux, %AppData% on Windows
		configDir, err = os.UserConfigDir()
		if err != nil {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get user home directory: %w", err)
			}
			configDir = filepath.Join(homeDir, ".config")
		}
	}

	profileDir := filepath.Join(configDir, "webapi", "profiles")
	if err := os.MkdirAll(profileDir, 0750); err != nil {
		return "", fmt.Errorf("failed to create default profile directory (%s): %w", profileDir, err)
	}

	return profileDir, nil
}

// GetProfilePath constructs the full path to a specific profile file.
func GetProfilePath(profileName string) (string, error) {
	if err := validateName(profileName); err != nil {
		return "", err
	}
	profileDir, err := GetProfileDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(profileDir, profileName+".yaml"), nil
}

func validateName(profileName string) error {
	if profileName == "" {
		return errors.New("profile name cannot be empty")
	}
	if strings.ContainsAny(profileName, `/\`) || profileName == "." || profileName == ".." {
		return fmt.Errorf("invalid profile name %q", profileName)
	}
	return nil
}

// LoadProfile reads and unmarshals a profile configuration file.
func LoadProfile(profileName string) (*ProfileConfig, error) {
	filePath, err := GetProfilePath(profileName)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("profile '%s' at %s: %w", profileName, filePath, ErrProfileNotFound)
		}
		return nil, fmt.Errorf("failed to read profile file %s: %w", filePath, err)
	}

	var config ProfileConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse profile file %s: %w", filePath, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("profile '%s' is invalid: %w", profileName, err)
	}

	return &config, nil
}

// SaveProfile marshals and saves a profile configuration to a file.
func SaveProfile(profileName string, config *ProfileConfig) error {
	if config == nil {
		return errors.New("cannot save a nil profile config")
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("cannot save profile: %w", err)
	}

	filePath, err := GetProfilePath(profileName)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal profile config for '%s': %w", profileName, err)
	}

	// Profiles may hold passwords
	if err := os.WriteFile(filePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write profile file %s: %w", filePath, err)
	}

	return nil
}

// ListProfiles returns the names of all saved profiles, sorted.
func ListProfiles() ([]string, error) {
	profileDir, err := GetProfileDir()
	if err != nil {
		return nil, err
	}

	files, err := os.ReadDir(profileDir)
	if err != nil {
		return nil, fmt.Errorf("could not read profile directory '%s': %w", profileDir, err)
	}

	var names []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".yaml") {
			names = append(names, strings.TrimSuffix(file.Name(), ".yaml"))
		}
	}
	sort.Strings(names)
	return names, nil
}

// DeleteProfile removes a profile file.
func DeleteProfile(profileName string) error {
	filePath, err := GetProfilePath(profileName)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("profile '%s' at %s: %w", profileName, filePath, ErrProfileNotFound)
		}
		return fmt.Errorf("failed to delete profile file '%s': %w", filePath, err)
	}
	return nil
}
