package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func envFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := load("", envFrom(nil))
	if err != nil {
		t.Fatalf("load() err=%v", err)
	}
	if cfg.Port != "8080" || cfg.Storage.Backend != BackendMemory {
		t.Fatalf("cfg=%+v", cfg)
	}
	g := cfg.Guidelines()
	if g.Base != 12140.0 || g.PerAdditionalMember != 4320.0 {
		t.Fatalf("Guidelines()=%+v", g)
	}
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
port: "9000"
log:
  level: debug
  format: json
storage:
  backend: redis
  redisAddr: "localhost:6379"
fpl:
  base: 15060
  perAdditionalMember: 5380
rateLimit:
  rps: 5
  burst: 10
shutdownTimeout: 3s
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := load(path, envFrom(map[string]string{
		"PORT":     "9100",
		"FPL_BASE": "15650",
	}))
	if err != nil {
		t.Fatalf("load() err=%v", err)
	}
	if cfg.Port != "9100" {
		t.Fatalf("port=%q, want env override", cfg.Port)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("log=%+v", cfg.Log)
	}
	if cfg.Storage.Backend != BackendRedis || cfg.Storage.RedisAddr != "localhost:6379" {
		t.Fatalf("storage=%+v", cfg.Storage)
	}
	if cfg.FPL.Base != 15650 || cfg.FPL.PerAdditionalMember != 5380 {
		t.Fatalf("fpl=%+v", cfg.FPL)
	}
	if cfg.Limits.RPS != 5 || cfg.Limits.Burst != 10 {
		t.Fatalf("limits=%+v", cfg.Limits)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("shutdownTimeout=%v", cfg.ShutdownTimeout)
	}
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("port: \"7000\"\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := load("", envFrom(map[string]string{"HOUSEHOLD_CONFIG": path}))
	if err != nil {
		t.Fatalf("load() err=%v", err)
	}
	if cfg.Port != "7000" {
		t.Fatalf("port=%q", cfg.Port)
	}
}

func TestLoad_LegacyRedisHost(t *testing.T) {
	t.Parallel()

	cfg, err := load("", envFrom(map[string]string{
		"STORAGE_BACKEND":       "redis",
		"DB_PORT_6379_TCP_ADDR": "172.17.0.2",
	}))
	if err != nil {
		t.Fatalf("load() err=%v", err)
	}
	if cfg.Storage.RedisAddr != "172.17.0.2:6379" {
		t.Fatalf("redisAddr=%q", cfg.Storage.RedisAddr)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	cases := map[string]map[string]string{
		"unknown backend":    {"STORAGE_BACKEND": "cassandra"},
		"postgres needs dsn": {"STORAGE_BACKEND": "postgres"},
		"redis needs addr":   {"STORAGE_BACKEND": "redis"},
		"bad fpl base":       {"FPL_BASE": "lots"},
		"zero fpl base":      {"FPL_BASE": "0"},
		"negative increment": {"FPL_PER_ADDITIONAL_MEMBER": "-1"},
		"nan fpl base":       {"FPL_BASE": "NaN"},
		"inf fpl base":       {"FPL_BASE": "Inf"},
		"nan increment":      {"FPL_PER_ADDITIONAL_MEMBER": "NaN"},
		"inf increment":      {"FPL_PER_ADDITIONAL_MEMBER": "+Inf"},
		"bad redis db":       {"REDIS_DB": "one"},
		"bad rps":            {"RATE_LIMIT_RPS": "fast"},
		"rps without burst":  {"RATE_LIMIT_RPS": "1", "RATE_LIMIT_BURST": "0"},
		"bad shutdown":       {"SHUTDOWN_TIMEOUT": "soon"},
	}
	for name, env := range cases {
		name, env := name, env
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if _, err := load("", envFrom(env)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := load(filepath.Join(t.TempDir(), "nope.yaml"), envFrom(nil))
	if err == nil || !strings.Contains(err.Error(), "read config") {
		t.Fatalf("err=%v, want read config error", err)
	}
}
