package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Supported STORE_DRIVER values.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverFile     = "file"
	DriverBolt     = "bolt"
	DriverRedis    = "redis"
)

type Config struct {
	Port          string `mapstructure:"PORT"`
	StoreDriver   string `mapstructure:"STORE_DRIVER"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	SQLitePath    string `mapstructure:"SQLITE_PATH"`
	DataDir       string `mapstructure:"DATA_DIR"`
	BoltPath      string `mapstructure:"BOLT_PATH"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	RedisPrefix   string `mapstructure:"REDIS_PREFIX"`
	SeedData      bool   `mapstructure:"SEED_DATA"`
	GinMode       string `mapstructure:"GIN_MODE"`
}

var defaults = map[string]any{
	"PORT":           ":8080",
	"STORE_DRIVER":   DriverSQLite,
	"DATABASE_URL":   "",
	"SQLITE_PATH":    "data/coursehub.db",
	"DATA_DIR":       "data",
	"BOLT_PATH":      "data/coursehub.bolt",
	"REDIS_ADDR":     "127.0.0.1:6379",
	"REDIS_PASSWORD": "",
	"REDIS_DB":       0,
	"REDIS_PREFIX":   "coursehub:",
	"SEED_DATA":      true,
	"GIN_MODE":       "",
}

// LoadConfig reads app.env from path when present, then the environment.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.AutomaticEnv()

	// Bind explicitly so Unmarshal sees env-only keys without a file
	for key, value := range defaults {
		v.SetDefault(key, value)
		if err = v.BindEnv(key); err != nil {
			return
		}
	}

	// A missing app.env is fine, the environment is enough
	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}
	err = config.Validate()
	return
}

// Validate checks the driver and the settings it needs.
func (c *Config) Validate() error {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	if c.Port != "" && !strings.Contains(c.Port, ":") {
		c.Port = ":" + c.Port
	}
	switch c.StoreDriver {
	case DriverSQLite, DriverFile, DriverBolt, DriverRedis:
		return nil
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
		return nil
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
}
