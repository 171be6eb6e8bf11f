package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads the YAML file at path, then lets APP_* variables override it
// (app.port -> APP_APP_PORT, postgres.user -> APP_POSTGRES_USER). A .env file in the working
// directory is loaded first when present; real environment variables still win.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	setDefaults(v)

	var config Config
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// setDefaults registers every key; viper only resolves env overrides for keys it knows about.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "winmix-match-service")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.env", "prod")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.shutdown_timeout", 10)

	v.SetDefault("source.driver", "postgres")

	v.SetDefault("postgres.url", "")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.db", "")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 1)
	v.SetDefault("postgres.max_conn_lifetime", 3600)
	v.SetDefault("postgres.max_conn_idle_time", 300)
	v.SetDefault("postgres.health_check_period", 30)

	v.SetDefault("rest.base_url", "")
	v.SetDefault("rest.api_key", "")
	v.SetDefault("rest.table", "matches")
	v.SetDefault("rest.page_size", 1000)
	v.SetDefault("rest.requests_per_second", 5)
	v.SetDefault("rest.timeout", 10)

	v.SetDefault("rate_limit.store", "memory")
	v.SetDefault("rate_limit.window", 60)
	v.SetDefault("rate_limit.api_limit", 100)
	v.SetDefault("rate_limit.strict_limit", 10)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("logger.level", "")
	v.SetDefault("logger.env", "")
}

// Validate checks the sections the selected drivers actually use.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c.App); err != nil {
		return fmt.Errorf("app config validation error: %w", err)
	}
	if err := v.Struct(c.Source); err != nil {
		return fmt.Errorf("source config validation error: %w", err)
	}
	switch c.Source.Driver {
	case "postgres":
		if err := v.Struct(c.Postgres); err != nil {
			return fmt.Errorf("postgres config validation error: %w", err)
		}
	case "rest":
		if err := v.Struct(c.REST); err != nil {
			return fmt.Errorf("rest config validation error: %w", err)
		}
	}
	if err := v.Struct(c.RateLimit); err != nil {
		return fmt.Errorf("rate limit config validation error: %w", err)
	}
	if c.RateLimit.Store == "redis" && c.Redis.Addr == "" {
		return errors.New("redis config validation error: addr is required for the redis rate limit store")
	}
	return nil
}
