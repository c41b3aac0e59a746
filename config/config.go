package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config contains server configuration parameters.
type Config struct {
	Port           string        `env:"PORT" envDefault:"5000"`
	AppEnv         string        `env:"APP_ENV" envDefault:"development"`
	LogLevel       int           `env:"LOG_LEVEL" envDefault:"0"`
	JWTSecret      string        `env:"JWT_SECRET"`
	CORSOrigin     string        `env:"CORS_ORIGIN" envDefault:"http://localhost:3000"`
	StorageTimeout time.Duration `env:"STORAGE_TIMEOUT" envDefault:"5s"`
	Database       Database      `envPrefix:"DB_"`
}

// Database contains MySQL connection parameters.
type Database struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	User     string `env:"USER" envDefault:"root"`
	Password string `env:"PASSWORD" envDefault:""`
	Name     string `env:"NAME" envDefault:"newshub_db"`
}

// DSN builds the go-sql-driver connection string. parseTime is required
// so DATETIME columns scan into time.Time.
func (d Database) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User, d.Password, d.Host, d.Name)
}

// Load reads configuration from the environment, with an optional .env
// overlay for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// IsProduction reports whether the server runs in production mode.
// Debug affordances like echoing reset tokens are disabled there.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
