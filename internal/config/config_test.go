package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SYNAR_ENV", "")
	t.Setenv("SYNAR_LOG_LEVEL", "")
	t.Setenv("SYNAR_DB_PATH", "")
	t.Setenv("SYNAR_TICK_INTERVAL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Env != "dev" {
		t.Errorf("env = %q, want dev", cfg.Env)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level = %q, want info", cfg.LogLevel)
	}
	if cfg.DBPath != "synar.db" {
		t.Errorf("db path = %q, want synar.db", cfg.DBPath)
	}
	if cfg.TickInterval != 60*time.Second {
		t.Errorf("tick interval = %s, want 60s", cfg.TickInterval)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SYNAR_ENV", "PROD")
	t.Setenv("SYNAR_LOG_LEVEL", "debug")
	t.Setenv("SYNAR_DB_PATH", "/var/lib/synar/synar.db")
	t.Setenv("SYNAR_TICK_INTERVAL", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Env != "prod" {
		t.Errorf("env = %q, want prod (lowercased)", cfg.Env)
	}
	if cfg.DBPath != "/var/lib/synar/synar.db" {
		t.Errorf("db path = %q", cfg.DBPath)
	}
	if cfg.TickInterval != 5*time.Second {
		t.Errorf("tick interval = %s, want 5s", cfg.TickInterval)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("SYNAR_ENV", "staging")
	if _, err := Load(); err == nil {
		t.Error("unknown env should fail")
	}

	t.Setenv("SYNAR_ENV", "dev")
	t.Setenv("SYNAR_TICK_INTERVAL", "fast")
	if _, err := Load(); err == nil {
		t.Error("unparseable tick interval should fail")
	}

	t.Setenv("SYNAR_TICK_INTERVAL", "100ms")
	if _, err := Load(); err == nil {
		t.Error("sub-second tick interval should fail")
	}
}
