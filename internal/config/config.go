package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

const (
	// DriverSQLite selects gorm.io/driver/sqlite (cgo).
	DriverSQLite = "sqlite"
	// DriverSQLitePureGo selects github.com/glebarez/sqlite (no cgo).
	DriverSQLitePureGo = "sqlite-purego"

	DefaultDatabasePath = "data/gorev.db"
)

// Config keeps runtime settings for the task tracker core.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
	// Timezone is the IANA location reminder jobs are scheduled in.
	Timezone string `yaml:"timezone" mapstructure:"timezone"`
	// Database holds the storage configuration.
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	// Password holds the argon2id cost parameters.
	Password PasswordConfig `yaml:"password" mapstructure:"password"`
}

// DatabaseConfig holds the SQLite configuration.
type DatabaseConfig struct {
	// Path is the SQLite file path or DSN. ":memory:" is accepted.
	Path string `yaml:"path" mapstructure:"path"`
	// Driver is DriverSQLite or DriverSQLitePureGo.
	Driver string `yaml:"driver" mapstructure:"driver"`
	// LogLevel is the gorm logger level: silent, error, warn, info.
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
}

// PasswordConfig holds argon2id parameters.
type PasswordConfig struct {
	Time    uint32 `yaml:"time" mapstructure:"time"`
	Memory  uint32 `yaml:"memory" mapstructure:"memory"` // KiB
	Threads uint8  `yaml:"threads" mapstructure:"threads"`
}

// Load reads the configuration from the specified path and returns a Config struct.
// If path is empty, the default search paths are used; a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("GOREV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.gorev")
		v.AddConfigPath("/etc/gorev")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		log.Debug("Using config file", "file", v.ConfigFileUsed())
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&c); err != nil {
		return nil, err
	}

	return &c, nil
}

// setDefaults sets default values for the configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("timezone", "Local")
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("password.time", 1)
	v.SetDefault("password.memory", 64*1024)
	v.SetDefault("password.threads", 4)
}

func validateConfig(c *Config) error {
	switch c.Database.Driver {
	case DriverSQLite, DriverSQLitePureGo:
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverSQLite, DriverSQLitePureGo, c.Database.Driver)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Password.Time == 0 || c.Password.Threads == 0 {
		return fmt.Errorf("password.time and password.threads must be positive")
	}
	if c.Password.Memory < 8*uint32(c.Password.Threads) {
		return fmt.Errorf("password.memory must be at least %d KiB", 8*uint32(c.Password.Threads))
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}
