package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	ServerAddress   string        `mapstructure:"SERVER_ADDRESS"`
	DBSource        string        `mapstructure:"DB_SOURCE"`
	ZipDBPath       string        `mapstructure:"ZIP_DB_PATH"`
	PageSize        int           `mapstructure:"PAGE_SIZE"`
	CityRadiusMiles float64       `mapstructure:"CITY_RADIUS_MILES"`
	SessionTTL      time.Duration `mapstructure:"SESSION_TTL"`
	FetchTimeout    time.Duration `mapstructure:"FETCH_TIMEOUT"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	LogPretty       bool          `mapstructure:"LOG_PRETTY"`
}

// LoadConfig reads configuration from app.env in path, with environment overrides.
// A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("DB_SOURCE", "")
	v.SetDefault("ZIP_DB_PATH", "data/zipcodes.db")
	v.SetDefault("PAGE_SIZE", 10)
	v.SetDefault("CITY_RADIUS_MILES", 25.0)
	v.SetDefault("SESSION_TTL", 30*time.Minute)
	v.SetDefault("FETCH_TIMEOUT", 10*time.Second)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)

	var config Config
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("config: failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: failed to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	if c.PageSize <= 0 {
		return fmt.Errorf("config: PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.CityRadiusMiles <= 0 {
		return fmt.Errorf("config: CITY_RADIUS_MILES must be positive, got %g", c.CityRadiusMiles)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	return nil
}
