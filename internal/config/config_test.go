package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validYAML = `
app:
  name: bagelshop
  port: 8080
  timezone: America/Chicago
database:
  driver: sqlite
  filename: data/bagelshop.db
scheduler:
  prune_cron: "0 4 * * *"
  override_retention_days: 14
`

func TestLoadReadsYAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yaml")
	if err := os.WriteFile(path, []byte(validYAML), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("CLERK_SECRET_KEY=sk_test_123\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("REDIS_PASSWORD", "hunter2")
	t.Cleanup(func() { os.Unsetenv("CLERK_SECRET_KEY") })

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Clerk.SecretKey != "sk_test_123" {
		t.Fatalf("expected clerk secret from .env, got %q", cfg.Clerk.SecretKey)
	}
	if cfg.Redis.Password != "hunter2" {
		t.Fatalf("expected redis password from env, got %q", cfg.Redis.Password)
	}
	if cfg.Location().String() != "America/Chicago" {
		t.Fatalf("expected America/Chicago, got %s", cfg.Location())
	}
	if cfg.Scheduler.OverrideRetentionDays != 14 {
		t.Fatalf("expected retention 14, got %d", cfg.Scheduler.OverrideRetentionDays)
	}
	if cfg.CacheTTL() != DefaultCacheTTLSeconds*time.Second {
		t.Fatalf("expected default cache ttl, got %s", cfg.CacheTTL())
	}
}

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("app:\n  name: x\n  port: 1\ndatabase:\n  filename: x.db\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.App.Timezone != DefaultTimezone {
		t.Fatalf("expected default timezone, got %q", cfg.App.Timezone)
	}
	if cfg.Scheduler.PruneCron != DefaultPruneCron {
		t.Fatalf("expected default cron, got %q", cfg.Scheduler.PruneCron)
	}
	if cfg.RateLimit.PublicRequestsPerMinute != DefaultPublicRequestsPerMin {
		t.Fatalf("expected default rate limit, got %d", cfg.RateLimit.PublicRequestsPerMinute)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "missing name", mutate: func(c *Config) { c.App.Name = "" }, wantErr: "app name"},
		{name: "missing port", mutate: func(c *Config) { c.App.Port = 0 }, wantErr: "app port"},
		{name: "bad timezone", mutate: func(c *Config) { c.App.Timezone = "Mars/Olympus" }, wantErr: "timezone"},
		{name: "bad driver", mutate: func(c *Config) { c.Database.Driver = "postgres" }, wantErr: "unsupported database driver"},
		{name: "bad cron", mutate: func(c *Config) { c.Scheduler.PruneCron = "every day" }, wantErr: "prune_cron"},
		{name: "negative retention", mutate: func(c *Config) { c.Scheduler.OverrideRetentionDays = -1 }, wantErr: "override_retention_days"},
		{name: "negative rate limit", mutate: func(c *Config) { c.RateLimit.PublicRequestsPerMinute = -5 }, wantErr: "public_requests_per_minute"},
		{name: "bucket without region", mutate: func(c *Config) { c.Storage.Bucket = "images" }, wantErr: "storage region"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(validYAML))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
