package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("unexpected port %q", cfg.Port)
	}
	if cfg.Storage.Driver != DriverMemory {
		t.Fatalf("unexpected driver %q", cfg.Storage.Driver)
	}
	if cfg.Backend.Timeout != 0 {
		t.Fatalf("expected no backend timeout, got %v", cfg.Backend.Timeout)
	}
	if cfg.SessionIdle != 30*time.Minute {
		t.Fatalf("unexpected idle %v", cfg.SessionIdle)
	}
	if cfg.Cookie.Name != "work21_sid" {
		t.Fatalf("unexpected cookie name %q", cfg.Cookie.Name)
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"STORAGE_DRIVER":  "redis",
		"BACKEND_TIMEOUT": "15s",
		"ALLOWED_ORIGINS": "https://work21.ru,https://app.work21.ru",
		"REDIS_DB":        "2",
	}))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Storage.Driver != DriverRedis || cfg.Redis.DB != 2 {
		t.Fatalf("unexpected storage config %+v %+v", cfg.Storage, cfg.Redis)
	}
	if cfg.Backend.Timeout != 15*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.Backend.Timeout)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
}

func TestLoadWith_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver":        {"STORAGE_DRIVER": "etcd"},
		"short prod secret":     {"ENV": "production", "COOKIE_SECRET": "short"},
		"non-positive burst":    {"LOGIN_BURST": "0"},
		"malformed idle period": {"SESSION_IDLE": "soon"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadWith(context.Background(), envconfig.MapLookuper(env)); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestLoadCLI(t *testing.T) {
	cfg, err := LoadCLI(context.Background(), envconfig.MapLookuper(map[string]string{
		"WORK21_HOME": "/tmp/w21",
	}))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.StoragePath() != "/tmp/w21/storage.json" {
		t.Fatalf("unexpected path %q", cfg.StoragePath())
	}
	if cfg.Timeout != 30*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.Timeout)
	}
}
