// Package config loads dashboard settings from configs/config.yml, a
// local .env file and AIRGUARD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application's configuration.
type Config struct {
	API      APIConfig
	Poll     PollConfig
	Log      LogConfig
	Stub     StubConfig
	Timezone string
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type PollConfig struct {
	Interval time.Duration
}

type LogConfig struct {
	Level string
	File  string
}

type StubConfig struct {
	Port     string
	Interval time.Duration
}

const (
	DefaultBaseURL  = "https://iotrestapi.onrender.com/iot/api"
	envPrefix       = "AIRGUARD"
	defaultDir      = "configs"
	defaultName     = "config"
	defaultInterval = 5 * time.Second
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("poll.interval", defaultInterval)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "airguard.log")
	v.SetDefault("stub.port", "8080")
	v.SetDefault("stub.interval", defaultInterval)
	v.SetDefault("timezone", "Local")
}

// Load reads configuration. dir is the directory holding config.yml; an
// empty dir means "configs". A missing config file is not an error:
// defaults and environment variables still apply.
func Load(dir string) (Config, error) {
	// .env is optional, the process environment is used as-is without it
	_ = godotenv.Load()

	if dir == "" {
		dir = defaultDir
	}

	v := viper.New()
	setDefaults(v)
	v.AddConfigPath(dir)
	v.SetConfigName(defaultName)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		API: APIConfig{
			BaseURL: strings.TrimRight(v.GetString("api.base_url"), "/"),
			Timeout: v.GetDuration("api.timeout"),
		},
		Poll: PollConfig{Interval: v.GetDuration("poll.interval")},
		Log: LogConfig{
			Level: v.GetString("log.level"),
			File:  v.GetString("log.file"),
		},
		Stub: StubConfig{
			Port:     v.GetString("stub.port"),
			Interval: v.GetDuration("stub.interval"),
		},
		Timezone: v.GetString("timezone"),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if c.Poll.Interval <= 0 {
		return fmt.Errorf("poll.interval must be positive, got %s", c.Poll.Interval)
	}
	if c.Stub.Interval <= 0 {
		return fmt.Errorf("stub.interval must be positive, got %s", c.Stub.Interval)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured timezone used for zoneless timestamps.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
