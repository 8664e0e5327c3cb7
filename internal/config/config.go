package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// Config is the full application configuration, loaded once at startup and
// passed down explicitly. Environment variables override file values so the
// same config.yaml works across local dev and deployed environments.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Session  SessionConfig  `yaml:"session"`
}

type AppConfig struct {
	Port  string `yaml:"port"`
	Debug bool   `yaml:"debug"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

type RedisConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type SessionConfig struct {
	TTL           string `yaml:"ttl"`
	SecureCookies bool   `yaml:"secure_cookies"`
}

// Lifetime parses the configured session TTL, falling back to 24h on an
// empty or malformed value.
func (s SessionConfig) Lifetime() time.Duration {
	d, err := time.ParseDuration(s.TTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// DSN builds the Postgres connection string. DATABASE_URL, when set,
// replaces it wholesale.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Load reads the YAML config at path and applies environment overrides.
// A missing file is not an error: everything falls back to defaults plus
// the environment, which is how deployed instances run.
func Load(path string) (Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

func defaults() Config {
	return Config{
		App: AppConfig{Port: "5050"},
		Postgres: PostgresConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Database: "blog",
			SSLMode:  "disable",
		},
		Redis:   RedisConfig{Host: "localhost", Port: 6379},
		Session: SessionConfig{TTL: "24h"},
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.App.Port = v
	}
	if v := os.Getenv("APP_DEBUG"); v != "" {
		cfg.App.Debug = v == "true" || v == "1"
	}
	if v := os.Getenv("POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("POSTGRES_USER"); v != "" {
		cfg.Postgres.User = v
	}
	if v := os.Getenv("POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("POSTGRES_DB"); v != "" {
		cfg.Postgres.Database = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		cfg.Redis.Host = v
	}
	if v := os.Getenv("SECURE_COOKIES"); v != "" {
		cfg.Session.SecureCookies = v == "true" || v == "1"
	}
}

// DatabaseURL resolves the effective Postgres DSN, preferring the
// DATABASE_URL environment variable when present.
func (c Config) DatabaseURL() string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}
	return c.Postgres.DSN()
}

// RedisAddr resolves the effective Redis address, preferring REDIS_ADDR.
func (c Config) RedisAddr() string {
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		return v
	}
	return c.Redis.Addr()
}
