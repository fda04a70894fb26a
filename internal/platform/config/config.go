package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Overland-East-Bay/household-fpl-api/internal/domain"
)

// Config is the full runtime configuration.
//
// Precedence: built-in defaults, then the optional YAML file, then environment variables.
type Config struct {
	Port string `yaml:"port"`

	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	FPL     FPLConfig     `yaml:"fpl"`
	Limits  LimitsConfig  `yaml:"rateLimit"`

	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text | json
}

type StorageConfig struct {
	Backend     string `yaml:"backend"` // memory | redis | postgres | sqlite
	DatabaseURL string `yaml:"databaseUrl"`
	SQLitePath  string `yaml:"sqlitePath"`

	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDb"`
	RedisPrefix   string `yaml:"redisPrefix"`
}

// FPLConfig carries the poverty guideline policy values.
type FPLConfig struct {
	Base                float64 `yaml:"base"`
	PerAdditionalMember float64 `yaml:"perAdditionalMember"`
}

// LimitsConfig configures per-client request rate limiting. RPS <= 0 disables it.
type LimitsConfig struct {
	RPS   float64       `yaml:"rps"`
	Burst int           `yaml:"burst"`
	Idle  time.Duration `yaml:"idleTTL"`
}

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Port: "8080",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Storage: StorageConfig{
			Backend:    BackendMemory,
			SQLitePath: "households.db",
		},
		FPL: FPLConfig{
			Base:                domain.DefaultBaseGuideline,
			PerAdditionalMember: domain.DefaultPerAdditionalMember,
		},
		Limits: LimitsConfig{
			Burst: 20,
			Idle:  10 * time.Minute,
		},
		ShutdownTimeout: 10 * time.Second,
	}
}

// Guidelines converts the FPL section into domain values.
func (c Config) Guidelines() domain.Guidelines {
	return domain.Guidelines{
		Base:                c.FPL.Base,
		PerAdditionalMember: c.FPL.PerAdditionalMember,
	}
}

// Load builds the configuration. path may be empty, in which case HOUSEHOLD_CONFIG is consulted;
// a missing file at an explicitly given path is an error.
func Load(path string) (Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if path == "" {
		path, _ = lookup("HOUSEHOLD_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("PORT", &cfg.Port)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)
	str("STORAGE_BACKEND", &cfg.Storage.Backend)
	str("DATABASE_URL", &cfg.Storage.DatabaseURL)
	str("SQLITE_PATH", &cfg.Storage.SQLitePath)
	// Legacy container-link variable; REDIS_ADDR wins when both are set.
	if v, ok := lookup("DB_PORT_6379_TCP_ADDR"); ok && strings.TrimSpace(v) != "" {
		cfg.Storage.RedisAddr = strings.TrimSpace(v) + ":6379"
	}
	str("REDIS_ADDR", &cfg.Storage.RedisAddr)
	str("REDIS_PASSWORD", &cfg.Storage.RedisPassword)
	str("REDIS_PREFIX", &cfg.Storage.RedisPrefix)

	if v, ok := lookup("REDIS_DB"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB must be an integer: %w", err)
		}
		cfg.Storage.RedisDB = n
	}
	if v, ok := lookup("FPL_BASE"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("FPL_BASE must be a number: %w", err)
		}
		cfg.FPL.Base = f
	}
	if v, ok := lookup("FPL_PER_ADDITIONAL_MEMBER"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("FPL_PER_ADDITIONAL_MEMBER must be a number: %w", err)
		}
		cfg.FPL.PerAdditionalMember = f
	}
	if v, ok := lookup("RATE_LIMIT_RPS"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_RPS must be a number: %w", err)
		}
		cfg.Limits.RPS = f
	}
	if v, ok := lookup("RATE_LIMIT_BURST"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_BURST must be an integer: %w", err)
		}
		cfg.Limits.Burst = n
	}
	if v, ok := lookup("SHUTDOWN_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SHUTDOWN_TIMEOUT must be a duration (e.g. 10s): %w", err)
		}
		cfg.ShutdownTimeout = d
	}
	return nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendSQLite:
	case BackendRedis:
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("storage backend redis requires REDIS_ADDR")
		}
	case BackendPostgres:
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("storage backend postgres requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown storage backend %q (expected memory|redis|postgres|sqlite)", c.Storage.Backend)
	}
	if math.IsNaN(c.FPL.Base) || math.IsInf(c.FPL.Base, 0) {
		return fmt.Errorf("fpl base guideline must be finite, got %v", c.FPL.Base)
	}
	if math.IsNaN(c.FPL.PerAdditionalMember) || math.IsInf(c.FPL.PerAdditionalMember, 0) {
		return fmt.Errorf("fpl per-additional-member amount must be finite, got %v", c.FPL.PerAdditionalMember)
	}
	// The guideline must stay strictly positive for every household size.
	if c.FPL.Base <= 0 {
		return fmt.Errorf("fpl base guideline must be positive, got %v", c.FPL.Base)
	}
	if c.FPL.PerAdditionalMember < 0 {
		return fmt.Errorf("fpl per-additional-member amount must be non-negative, got %v", c.FPL.PerAdditionalMember)
	}
	if c.Limits.RPS > 0 && c.Limits.Burst <= 0 {
		return fmt.Errorf("rate limit burst must be positive when rps is set")
	}
	return nil
}
