package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/arcanaland/tavernkeep/internal/card"
)

const (
	defaultAmount         = 30
	defaultTimeoutSeconds = 30
	defaultLogLevel       = "info"
)

// Config represents the application configuration
type Config struct {
	BaseURL        string `toml:"base_url"`
	LibraryDir     string `toml:"library_dir"`
	NSFW           bool   `toml:"nsfw"`
	Amount         int    `toml:"amount"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	LogLevel       string `toml:"log_level"`
}

// Timeout returns the HTTP request timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Default returns the configuration written on first use
func Default() *Config {
	return &Config{
		BaseURL:        card.DefaultRoot,
		LibraryDir:     GetLibraryPath(),
		NSFW:           true,
		Amount:         defaultAmount,
		TimeoutSeconds: defaultTimeoutSeconds,
		LogLevel:       defaultLogLevel,
	}
}

// GetXDGDataHome returns XDG_DATA_HOME or default path
func GetXDGDataHome() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return xdgData
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".local", "share")
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetLibraryPath returns the default path of the character library
func GetLibraryPath() string {
	return filepath.Join(GetXDGDataHome(), "tavernkeep", "characters")
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), "tavernkeep", "config.toml")
}

// LoadConfig loads the config file
func LoadConfig() (*Config, error) {
	configPath := GetConfigFilePath()

	// Create default config if it doesn't exist
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig()
	}

	// Keys absent from the file keep their defaults
	config := Default()
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}

	if config.Amount < 0 {
		return nil, fmt.Errorf("invalid amount %d in %s", config.Amount, configPath)
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = defaultTimeoutSeconds
	}

	return config, nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig() (*Config, error) {
	config := Default()
	if err := writeConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// SetLibraryDir sets the library directory in the config
func SetLibraryDir(dir string) error {
	config, err := LoadConfig()
	if err != nil {
		return err
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("error resolving %s: %w", dir, err)
	}
	config.LibraryDir = absDir

	return writeConfig(config)
}

func writeConfig(config *Config) error {
	configPath := GetConfigFilePath()

	// Ensure the config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer file.Close()

	// Encode the config to TOML
	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}

	return nil
}
