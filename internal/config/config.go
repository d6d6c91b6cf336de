package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	SourceMemory   = "memory"
	SourceSQLite   = "sqlite"
	SourcePostgres = "postgres"
	SourceRedis    = "redis"
)

type Config struct {
	Source       string `env:"PAYMENTS_SOURCE" env-default:"memory"`
	PaymentsFile string `env:"PAYMENTS_FILE"`
	SQLitePath   string `env:"SQLITE_PATH" env-default:"payments.db"`
	DatabaseURL  string `env:"CONN_STRING"`
	RedisURL     string `env:"REDIS_URL" env-default:"localhost:6379"`
	TimeZone     string `env:"TIME_ZONE" env-default:"UTC"`
}

// Load reads the environment. Flags registered on fs, when given, override it.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, fmt.Errorf("couldn't read environment variables: %w", err)
	}

	if fs != nil {
		fs.StringVar(&cfg.Source, "source", cfg.Source, "payments source: memory, sqlite, postgres or redis")
		fs.StringVar(&cfg.PaymentsFile, "payments-file", cfg.PaymentsFile, "JSON fixture for the memory source")
		fs.StringVar(&cfg.SQLitePath, "sqlite", cfg.SQLitePath, "SQLite database path")
		fs.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "PostgreSQL connection string")
		fs.StringVar(&cfg.RedisURL, "redis", cfg.RedisURL, "Redis address")
		fs.StringVar(&cfg.TimeZone, "tz", cfg.TimeZone, "time zone of the clock")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Source {
	case SourceMemory, SourceSQLite, SourceRedis:
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("CONN_STRING is required for the %s source", SourcePostgres)
		}
	default:
		return fmt.Errorf("unknown payments source %q", c.Source)
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}
