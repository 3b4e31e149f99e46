package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("storage:\n  backend: redis\nredis:\n  addr: localhost:6379\nclient:\n  pollInterval: 2s\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Backend != "redis" || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Server.Port != "3001" {
		t.Fatalf("expected default port, got %q", cfg.Server.Port)
	}
	if got := TTLDuration(cfg.Client.PollInterval, time.Second); got != 2*time.Second {
		t.Fatalf("expected 2s poll interval, got %v", got)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("EVALMATE_API_URL", "http://example.test/api")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Backend != "file" {
		t.Fatalf("expected default backend, got %q", cfg.Storage.Backend)
	}
	if cfg.Client.APIURL != "http://example.test/api" {
		t.Fatalf("expected env override, got %q", cfg.Client.APIURL)
	}
}

func TestTTLDurationFallback(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for empty, got %v", got)
	}
	if got := TTLDuration("soon", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for garbage, got %v", got)
	}
}
