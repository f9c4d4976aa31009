package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Port != "8080" || cfg.Mongo.Database != "boxwise" || cfg.JWTTTL != 24*time.Hour {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !cfg.Redis.Enabled || cfg.Reminders.Workers != 4 || cfg.Reminders.Lead != 72*time.Hour {
		t.Fatalf("unexpected reminder/redis defaults: %+v", cfg)
	}
	if cfg.MailEnabled() {
		t.Fatal("mail must be disabled without SMTP_HOST")
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected missing JWT_SECRET to fail validation")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":             "s3cret",
		"SMTP_HOST":              "smtp.example.com",
		"REMINDER_SCAN_INTERVAL": "5m",
		"REDIS_ENABLED":          "false",
		"DASHBOARD_CACHE_TTL":    "30s",
	}))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	if !cfg.MailEnabled() || cfg.Reminders.ScanInterval != 5*time.Minute {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Redis.Enabled || cfg.DashboardCacheTTL != 30*time.Second {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_BadDuration(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{"JWT_TTL": "soon"}))
	if err == nil {
		t.Fatal("expected error for malformed duration")
	}
}
