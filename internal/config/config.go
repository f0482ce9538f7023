package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Env         string
	ListenAddr  string
	StoreDriver string
	DatabaseURL string
	SQLitePath  string
	SeedFile    string

	SignatureMatching bool
	DomainLookup      bool
	Matcher           string
	LookupTimeout     time.Duration
	ParentFallback    bool

	NATSURL     string
	NATSSubject string

	LogLevel      slog.Level
	ScreenWorkers int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load reads the process environment. Unparseable numeric, boolean and
// duration values fall back to their defaults; an unusable store or matcher
// selection is an error.
func Load() (Config, error) {
	cfg := Config{
		Env:         getenv("APP_ENV", "development"),
		ListenAddr:  getenv("LISTEN_ADDR", ":8080"),
		StoreDriver: strings.ToLower(getenv("STORE_DRIVER", DriverMemory)),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  getenv("SQLITE_PATH", "urlinfo.db"),
		SeedFile:    os.Getenv("SEED_FILE"),

		SignatureMatching: getenvBool("ENABLE_SIGNATURE_MATCHING", true),
		DomainLookup:      getenvBool("ENABLE_DOMAIN_LOOKUP", true),
		Matcher:           strings.ToLower(getenv("MATCHER", "linear")),
		LookupTimeout:     getenvDuration("LOOKUP_TIMEOUT", 2*time.Second),
		ParentFallback:    getenvBool("REPUTATION_PARENT_FALLBACK", false),

		NATSURL:     os.Getenv("NATS_URL"),
		NATSSubject: getenv("NATS_SUBJECT", "urlinfo.verdicts"),

		LogLevel:      getenvLevel("LOG_LEVEL", slog.LevelInfo),
		ScreenWorkers: getenvInt("SCREEN_WORKERS", 4),
	}

	switch cfg.StoreDriver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return cfg, fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=%s", DriverPostgres)
		}
	default:
		return cfg, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.Matcher != "linear" && cfg.Matcher != "automaton" {
		return cfg, fmt.Errorf("unknown MATCHER %q", cfg.Matcher)
	}
	if cfg.ScreenWorkers < 1 {
		cfg.ScreenWorkers = 1
	}
	return cfg, nil
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var out int
		_, err := fmt.Sscanf(v, "%d", &out)
		if err == nil {
			return out
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

func getenvLevel(key string, def slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err == nil {
			return lvl
		}
	}
	return def
}
