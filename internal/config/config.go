package config

import (
	"github.com/maxviazov/winmix-match-service/internal/logger"
)

// Config is the full service configuration, loaded from YAML and APP_* environment overrides.
type Config struct {
	App       AppConfig           `mapstructure:"app"`
	Logger    logger.LoggerConfig `mapstructure:"logger"`
	Source    SourceConfig        `mapstructure:"source"`
	Postgres  PostgresConfig      `mapstructure:"postgres"`
	REST      RESTConfig          `mapstructure:"rest"`
	RateLimit RateLimitConfig     `mapstructure:"rate_limit"`
	Redis     RedisConfig         `mapstructure:"redis"`
}

type AppConfig struct {
	Name            string `mapstructure:"name"`
	Version         string `mapstructure:"version"`
	Env             string `mapstructure:"env" validate:"oneof=dev test staging prod"`
	Port            int    `mapstructure:"port" validate:"min=1,max=65535"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" validate:"min=0"` // seconds
}

// SourceConfig picks where raw match rows come from.
type SourceConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=postgres rest"`
}

// PostgresConfig describes the pgx pool. URL, when set, wins over the discrete fields.
type PostgresConfig struct {
	URL               string `mapstructure:"url"`
	Host              string `mapstructure:"host" validate:"required_without=URL"`
	Port              int    `mapstructure:"port" validate:"required_without=URL"`
	User              string `mapstructure:"user" validate:"required_without=URL"`
	Password          string `mapstructure:"password" validate:"required_without=URL"`
	DBName            string `mapstructure:"db" validate:"required_without=URL"`
	SSLMode           string `mapstructure:"sslmode"`
	MaxConns          int32  `mapstructure:"max_conns" validate:"min=0"`
	MinConns          int32  `mapstructure:"min_conns" validate:"min=0"`
	MaxConnLifetime   int    `mapstructure:"max_conn_lifetime"`   // seconds
	MaxConnIdleTime   int    `mapstructure:"max_conn_idle_time"`  // seconds
	HealthCheckPeriod int    `mapstructure:"health_check_period"` // seconds
}

// RESTConfig points at the hosted store's PostgREST endpoint.
type RESTConfig struct {
	BaseURL           string  `mapstructure:"base_url" validate:"required,url"`
	APIKey            string  `mapstructure:"api_key" validate:"required"`
	Table             string  `mapstructure:"table" validate:"required"`
	PageSize          int     `mapstructure:"page_size" validate:"min=1,max=10000"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gt=0"`
	Timeout           int     `mapstructure:"timeout"` // seconds
}

// RateLimitConfig sets the fixed windows for the public API.
type RateLimitConfig struct {
	Store          string   `mapstructure:"store" validate:"oneof=memory redis"`
	Window         int      `mapstructure:"window" validate:"min=1"` // seconds
	APILimit       int      `mapstructure:"api_limit" validate:"min=1"`
	StrictLimit    int      `mapstructure:"strict_limit" validate:"min=1"`
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}
