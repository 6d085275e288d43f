package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sample = `
server:
  port: "9090"
storage:
  driver: redis
redis:
  addr: localhost:6379
  ttl: 5m
catalog:
  seed: 42
  language: ru
game:
  nextQuestionDelay: 250ms
  leaderboardSize: 7
ar:
  placementRadius: 2.5
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Storage.Driver != DriverRedis {
		t.Fatalf("unexpected server/storage: %+v", cfg)
	}
	if cfg.Catalog.Seed != 42 || cfg.Catalog.Language != "ru" {
		t.Fatalf("unexpected catalog: %+v", cfg.Catalog)
	}
	if cfg.Game.LeaderboardSize != 7 || cfg.AR.PlacementRadius != 2.5 {
		t.Fatalf("unexpected game/ar: %+v %+v", cfg.Game, cfg.AR)
	}
	if d := TTLDuration(cfg.Game.NextQuestionDelay, time.Second); d != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %s", d)
	}
}

func TestEnvOverridesYAML(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/quiz.db")
	t.Setenv("CATALOG_SEED", "7")

	cfg, err := Load(writeConfig(t, sample))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != DriverSQLite || cfg.SQLite.Path != "/tmp/quiz.db" {
		t.Fatalf("env override not applied: %+v", cfg)
	}
	if cfg.Catalog.Seed != 7 {
		t.Fatalf("expected seed 7, got %d", cfg.Catalog.Seed)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("yaml value lost: %q", cfg.Redis.Addr)
	}
}

func TestMissingFileDefaultsToMemory(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != DriverMemory {
		t.Fatalf("expected memory driver, got %q", cfg.Storage.Driver)
	}
}

func TestUnknownDriverRejected(t *testing.T) {
	if _, err := Load(writeConfig(t, "storage:\n  driver: mongo\n")); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestTTLDurationFallback(t *testing.T) {
	if d := TTLDuration("", time.Minute); d != time.Minute {
		t.Fatalf("expected fallback, got %s", d)
	}
	if d := TTLDuration("soon", time.Minute); d != time.Minute {
		t.Fatalf("expected fallback on garbage, got %s", d)
	}
}
