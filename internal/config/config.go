package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is read once at startup and passed down explicitly.
type Config struct {
	Port        string `env:"PORT" envDefault:"4000"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"gamehub.db"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	JWTSecret  string `env:"JWT_SECRET,required,notEmpty"`
	BcryptCost int    `env:"BCRYPT_COST" envDefault:"10"`

	DBMaxOpen     int           `env:"DB_MAX_OPEN" envDefault:"25"`
	DBMaxIdle     int           `env:"DB_MAX_IDLE" envDefault:"25"`
	DBMaxLifetime time.Duration `env:"DB_MAX_LIFETIME" envDefault:"5m"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Load parses the process environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	return &cfg, nil
}

// LoadFrom is Load against an explicit set of variables instead of os.Environ.
func LoadFrom(vars map[string]string) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	return &cfg, nil
}

// IsPostgres reports whether DatabaseURL points at Postgres rather than a
// SQLite file.
func (c *Config) IsPostgres() bool {
	u := strings.ToLower(c.DatabaseURL)
	return strings.HasPrefix(u, "postgres://") || strings.HasPrefix(u, "postgresql://")
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
