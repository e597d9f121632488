// Package config loads service configuration from file and environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the server and CLI need at startup. Environment
// variables use the ROSTEROPT_ prefix and override file values.
type Config struct {
	Port         string        `mapstructure:"port"`
	Env          string        `mapstructure:"env"`
	RedisURL     string        `mapstructure:"redis_url"`
	LogLevel     string        `mapstructure:"log_level"`
	OutputDir    string        `mapstructure:"output_dir"`
	SolveTimeout time.Duration `mapstructure:"solve_timeout"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
}

// Load reads rosteropt.yaml from the working directory when present, then
// applies environment overrides.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("port", "8082")
	v.SetDefault("env", "development")
	v.SetDefault("redis_url", "redis://localhost:6379")
	v.SetDefault("log_level", "info")
	v.SetDefault("output_dir", "Outputs")
	v.SetDefault("solve_timeout", 30*time.Second)
	v.SetDefault("cache_ttl", 24*time.Hour)

	v.SetConfigName("rosteropt")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("ROSTEROPT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return strings.ToLower(c.Env) != "production"
}
