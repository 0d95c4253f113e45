package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/samus-io/stephelper/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Config keys.
const (
	KeyAuthor         = "author"
	KeyAuthorGithubID = "author_github_id"
	KeyVariant        = "variant"
	KeyAttempts       = "attempts"
	KeyLogMode        = "log_mode"
)

// Built-in defaults.
const (
	DefaultAuthor         = "samus.io"
	DefaultAuthorGithubID = "samus-io"
	DefaultVariant        = "step-creation"
	DefaultAttempts       = 3
	DefaultLogMode        = "dev"
)

// Settings is the resolved view of the keys the create command consumes.
type Settings struct {
	Author         string
	AuthorGithubID string
	Variant        string
	Attempts       int
	LogMode        string
}

// Dir returns the path to the config directory (~/.stephelper/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.stephelper/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyAuthor, DefaultAuthor)
	viper.SetDefault(KeyAuthorGithubID, DefaultAuthorGithubID)
	viper.SetDefault(KeyVariant, DefaultVariant)
	viper.SetDefault(KeyAttempts, DefaultAttempts)
	viper.SetDefault(KeyLogMode, DefaultLogMode)

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Current returns the resolved settings. Load must have been called first.
func Current() Settings {
	s := Settings{
		Author:         viper.GetString(KeyAuthor),
		AuthorGithubID: viper.GetString(KeyAuthorGithubID),
		Variant:        viper.GetString(KeyVariant),
		Attempts:       viper.GetInt(KeyAttempts),
		LogMode:        viper.GetString(KeyLogMode),
	}
	if s.Attempts < 1 {
		s.Attempts = 1
	}
	return s
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := checkValue(key, value); err != nil {
		return err
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// checkValue rejects values the create command could not use.
func checkValue(key, value string) error {
	switch key {
	case KeyAttempts:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("%s must be a positive integer, got %q", key, value)
		}
	case KeyAuthor, KeyAuthorGithubID:
		if value == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
	case KeyLogMode:
		if value != "dev" && value != "prod" {
			return fmt.Errorf("%s must be dev or prod, got %q", key, value)
		}
	}
	return nil
}
