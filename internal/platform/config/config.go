package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr               string        `yaml:"addr"`
	Environment        string        `yaml:"environment"`
	BackendURL         string        `yaml:"backend_url"`
	BackendMode        string        `yaml:"backend_mode"`
	DatabaseURL        string        `yaml:"database_url"`
	CacheDir           string        `yaml:"cache_dir"`
	CacheEncryptionKey string        `yaml:"cache_encryption_key"`
	SessionJWTSecret   string        `yaml:"session_jwt_secret"`
	RemoteTimeout      time.Duration `yaml:"-"`
	RemoteTimeoutRaw   string        `yaml:"remote_timeout"`
}

const (
	BackendModeHTTP     = "http"
	BackendModePostgres = "postgres"
)

func Load() Config {
	cfg := Config{
		Addr:               getEnv("AGENT_ADDR", "127.0.0.1:7717"),
		Environment:        getEnv("AGENT_ENV", "development"),
		BackendURL:         getEnv("BACKEND_URL", ""),
		BackendMode:        getEnv("BACKEND_MODE", BackendModeHTTP),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		CacheDir:           getEnv("CACHE_DIR", defaultCacheDir()),
		CacheEncryptionKey: getEnv("CACHE_ENCRYPTION_KEY", ""),
		SessionJWTSecret:   getEnv("SESSION_JWT_SECRET", ""),
		RemoteTimeout:      getEnvDuration("REMOTE_TIMEOUT", 10*time.Second),
	}

	if path := os.Getenv("AGENT_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
	}
	return cfg
}

// applyFile overlays values from a YAML file on top of the env-derived
// config. File values win for keys they set.
func (c *Config) applyFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	if c.RemoteTimeoutRaw != "" {
		parsed, err := time.ParseDuration(c.RemoteTimeoutRaw)
		if err != nil {
			return fmt.Errorf("parse remote_timeout %q: %w", c.RemoteTimeoutRaw, err)
		}
		c.RemoteTimeout = parsed
	}
	return nil
}

func defaultCacheDir() string {
	if base, err := os.UserCacheDir(); err == nil {
		return filepath.Join(base, "hrdash")
	}
	return ".hrdash-cache"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	switch c.BackendMode {
	case BackendModeHTTP:
		if strings.TrimSpace(c.BackendURL) == "" {
			return fmt.Errorf("BACKEND_URL is required when BACKEND_MODE is http")
		}
	case BackendModePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required when BACKEND_MODE is postgres")
		}
	default:
		return fmt.Errorf("BACKEND_MODE must be %q or %q", BackendModeHTTP, BackendModePostgres)
	}
	if strings.TrimSpace(c.CacheDir) == "" {
		return fmt.Errorf("CACHE_DIR must not be empty")
	}
	if c.Environment == "production" && strings.TrimSpace(c.CacheEncryptionKey) == "" {
		return fmt.Errorf("CACHE_ENCRYPTION_KEY must be set in production for encryption at rest")
	}
	if c.RemoteTimeout <= 0 {
		return fmt.Errorf("REMOTE_TIMEOUT must be positive")
	}
	return nil
}
