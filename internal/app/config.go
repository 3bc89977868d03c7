package app

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Insight sources.
const (
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"10s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	InsightsSource       string        `envconfig:"INSIGHTS_SOURCE" default:"http"`
	InsightsURL          string        `envconfig:"INSIGHTS_URL" default:"http://localhost:3000/api/insights"`
	InsightsFetchTimeout time.Duration `envconfig:"INSIGHTS_FETCH_TIMEOUT" default:"30s"`

	PGDSN string `envconfig:"PG_DSN"`

	RedisAddr string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"10m"`

	WorldTopologyURL string `envconfig:"WORLD_TOPOLOGY_URL" default:"https://cdn.jsdelivr.net/npm/world-atlas@2/countries-110m.json"`
	WarmupCron       string `envconfig:"WARMUP_CRON" default:"*/15 * * * *"`

	WorkerMetricsAddr string `envconfig:"WORKER_METRICS_ADDR" default:":9091"`
}

// LoadConfig reads configuration from environment variables. Values from the
// given dotenv files (".env" when none are named) fill in variables that are
// not already set; missing files are ignored.
func LoadConfig(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("app: load %s: %w", file, err)
		}
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.InsightsSource {
	case SourceHTTP:
		if c.InsightsURL == "" {
			return errors.New("INSIGHTS_URL must be provided for the http source")
		}
	case SourcePostgres:
		if c.PGDSN == "" {
			return errors.New("PG_DSN must be provided for the postgres source")
		}
	default:
		return fmt.Errorf("unsupported INSIGHTS_SOURCE %q", c.InsightsSource)
	}
	if c.CacheTTL <= 0 {
		return errors.New("CACHE_TTL must be positive")
	}
	return nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
