package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
	StoreDriverMemory   = "memory"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort         string   `env:"HTTP_PORT" envDefault:"8080"`
	AppEnv           string   `env:"APP_ENV" envDefault:"production"`
	StoreDriver      string   `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL      string   `env:"DATABASE_URL"`
	SQLitePath       string   `env:"SQLITE_PATH" envDefault:"blog.db"`
	RunMigrations    bool     `env:"RUN_MIGRATIONS" envDefault:"true"`
	JWTSecret        string   `env:"JWT_SECRET,required"`
	RedisAddr        string   `env:"REDIS_ADDR"`
	RedisPassword    string   `env:"REDIS_PASSWORD"`
	RedisDB          int      `env:"REDIS_DB" envDefault:"0"`
	IdentityCacheTTL int      `env:"IDENTITY_CACHE_TTL_SECONDS" envDefault:"30"`
	CORSOrigins      []string `env:"CORS_ORIGINS" envSeparator:","`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate revisa combinaciones que los tags no pueden expresar.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET must not be blank")
	}
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("DATABASE_URL is required for the postgres store")
		}
	case StoreDriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return errors.New("SQLITE_PATH is required for the sqlite store")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.IdentityCacheTTL < 0 {
		return errors.New("IDENTITY_CACHE_TTL_SECONDS must not be negative")
	}
	return nil
}

func (c *Config) IdentityCacheDuration() time.Duration {
	return time.Duration(c.IdentityCacheTTL) * time.Second
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, "development")
}
