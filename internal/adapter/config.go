package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Data    DataConfig    `mapstructure:"data"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// DataConfig locates the on-disk state.
type DataConfig struct {
	LibraryPath     string `mapstructure:"library_path"`     // BoltDB file
	PreferencesPath string `mapstructure:"preferences_path"` // YAML preference file
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			LibraryPath:     filepath.Join(defaultDataPath(), "library.db"),
			PreferencesPath: filepath.Join(defaultConfigPath(), "preferences.yaml"),
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "hondana.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS.
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "hondana")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "hondana")
	}
}

// defaultConfigPath returns the default config directory for the current OS.
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "hondana")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "hondana")
	}
}

// LoadConfig loads configuration from file and environment.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("HONDANA")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}
