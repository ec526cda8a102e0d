package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr string

	BackendBaseURL    string
	BackendTimeoutSec int

	StateDBDriver     string
	StateDBPath       string
	StateDBDSN        string
	StateDBMaxOpen    int
	StateDBMaxIdle    int
	StateDBMaxLife    time.Duration
	StateEncryptKey   string
	TokenStorageKey   string

	CacheTTLSec int

	CORSAllowedOrigins []string

	HTTPReadTimeoutSec       int
	HTTPReadHeaderTimeoutSec int
	HTTPWriteTimeoutSec      int
	HTTPIdleTimeoutSec       int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:               env("LISTEN_ADDR", ":8080"),
		BackendBaseURL:           env("BACKEND_BASE_URL", "http://localhost:8081/api"),
		BackendTimeoutSec:        envInt("BACKEND_TIMEOUT_SEC", 15),
		StateDBDriver:            strings.ToLower(env("STATE_DB_DRIVER", "sqlite")),
		StateDBPath:              env("STATE_DB_PATH", "./data/console.db"),
		StateDBDSN:               env("STATE_DB_DSN", ""),
		StateDBMaxOpen:           envInt("STATE_DB_MAX_OPEN_CONNS", 4),
		StateDBMaxIdle:           envInt("STATE_DB_MAX_IDLE_CONNS", 2),
		StateDBMaxLife:           time.Duration(envInt("STATE_DB_CONN_MAX_LIFETIME_MIN", 30)) * time.Minute,
		StateEncryptKey:          env("STATE_ENCRYPT_KEY", "CHANGE_ME_PRODUCTION_STATE_KEY"),
		TokenStorageKey:          env("TOKEN_STORAGE_KEY", "admin_token"),
		CacheTTLSec:              envInt("CACHE_TTL_SEC", 30),
		CORSAllowedOrigins:       envCSV("CORS_ALLOWED_ORIGINS"),
		HTTPReadTimeoutSec:       envInt("HTTP_READ_TIMEOUT_SEC", 10),
		HTTPReadHeaderTimeoutSec: envInt("HTTP_READ_HEADER_TIMEOUT_SEC", 5),
		HTTPWriteTimeoutSec:      envInt("HTTP_WRITE_TIMEOUT_SEC", 30),
		HTTPIdleTimeoutSec:       envInt("HTTP_IDLE_TIMEOUT_SEC", 60),
	}

	u, err := url.Parse(cfg.BackendBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Config{}, fmt.Errorf("BACKEND_BASE_URL must be an absolute URL")
	}
	cfg.BackendBaseURL = strings.TrimRight(cfg.BackendBaseURL, "/")

	if cfg.BackendTimeoutSec <= 0 {
		return Config{}, fmt.Errorf("backend timeout must be positive")
	}
	if cfg.StateDBMaxOpen <= 0 || cfg.StateDBMaxIdle < 0 {
		return Config{}, fmt.Errorf("invalid state DB pool config")
	}
	switch cfg.StateDBDriver {
	case "sqlite":
	case "mysql", "pgx", "postgres":
		if strings.TrimSpace(cfg.StateDBDSN) == "" {
			return Config{}, fmt.Errorf("STATE_DB_DSN is required for driver %q", cfg.StateDBDriver)
		}
	default:
		return Config{}, fmt.Errorf("STATE_DB_DRIVER must be one of: sqlite, mysql, pgx")
	}
	if strings.TrimSpace(cfg.StateEncryptKey) == "" ||
		cfg.StateEncryptKey == "CHANGE_ME_PRODUCTION_STATE_KEY" ||
		len(cfg.StateEncryptKey) < 24 {
		return Config{}, fmt.Errorf("STATE_ENCRYPT_KEY must be set to a strong non-default value (>=24 chars)")
	}
	if cfg.CacheTTLSec < 0 {
		return Config{}, fmt.Errorf("cache TTL must not be negative")
	}
	if strings.TrimSpace(cfg.TokenStorageKey) == "" {
		return Config{}, fmt.Errorf("TOKEN_STORAGE_KEY must not be empty")
	}
	return cfg, nil
}

func (c Config) BackendTimeout() time.Duration {
	return time.Duration(c.BackendTimeoutSec) * time.Second
}

func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSec) * time.Second
}

func env(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return d
	}
	return n
}

func envCSV(k string) []string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
