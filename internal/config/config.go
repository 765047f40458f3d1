// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTimezone              = "America/New_York"
	DefaultPruneCron             = "15 3 * * *"
	DefaultOverrideRetentionDays = 30
	DefaultCacheTTLSeconds       = 300
	DefaultPublicRequestsPerMin  = 120
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

type RedisConfig struct {
	Address         string `yaml:"address"`
	DB              int    `yaml:"db"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	Password        string `yaml:"-"` // Loaded from environment
}

type StorageConfig struct {
	Bucket   string `yaml:"bucket"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint,omitempty"`
	// Path-style addressing for S3-compatible endpoints such as MinIO.
	UsePathStyle    bool   `yaml:"use_path_style"`
	AccessKeyID     string `yaml:"-"` // Loaded from environment
	SecretAccessKey string `yaml:"-"` // Loaded from environment
}

type ClerkConfig struct {
	PublishableKey string `yaml:"publishable_key"`
	SecretKey      string `yaml:"-"` // Loaded from environment
}

type SchedulerConfig struct {
	PruneCron             string `yaml:"prune_cron"`
	OverrideRetentionDays int    `yaml:"override_retention_days"`
}

type RateLimitConfig struct {
	PublicRequestsPerMinute int  `yaml:"public_requests_per_minute"`
	TrustProxy              bool `yaml:"trust_proxy"`
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
		BaseURL     string `yaml:"base_url"`
		Timezone    string `yaml:"timezone"`
		SecretKey   string `yaml:"-"` // Loaded from environment
	} `yaml:"app"`

	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Storage   StorageConfig   `yaml:"storage"`
	Clerk     ClerkConfig     `yaml:"clerk"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	Features struct {
		EnableMetrics   bool `yaml:"enable_metrics"`
		EnableDebug     bool `yaml:"enable_debug"`
		AllowAdminSetup bool `yaml:"allow_admin_setup"`
	} `yaml:"features"`

	location *time.Location
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	// Load sensitive values from environment
	cfg.App.SecretKey = os.Getenv("APP_SECRET_KEY")
	cfg.Clerk.SecretKey = os.Getenv("CLERK_SECRET_KEY")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	cfg.Storage.AccessKeyID = os.Getenv("STORAGE_ACCESS_KEY_ID")
	cfg.Storage.SecretAccessKey = os.Getenv("STORAGE_SECRET_ACCESS_KEY")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML and fills defaults. It does not validate.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Timezone == "" {
		c.App.Timezone = DefaultTimezone
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Scheduler.PruneCron == "" {
		c.Scheduler.PruneCron = DefaultPruneCron
	}
	if c.Scheduler.OverrideRetentionDays == 0 {
		c.Scheduler.OverrideRetentionDays = DefaultOverrideRetentionDays
	}
	if c.Redis.CacheTTLSeconds == 0 {
		c.Redis.CacheTTLSeconds = DefaultCacheTTLSeconds
	}
	if c.RateLimit.PublicRequestsPerMinute == 0 {
		c.RateLimit.PublicRequestsPerMinute = DefaultPublicRequestsPerMin
	}
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}

	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return fmt.Errorf("invalid app timezone %q: %w", c.App.Timezone, err)
	}
	c.location = loc

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if _, err := cron.ParseStandard(c.Scheduler.PruneCron); err != nil {
		return fmt.Errorf("invalid scheduler prune_cron %q: %w", c.Scheduler.PruneCron, err)
	}
	if c.Scheduler.OverrideRetentionDays < 0 {
		return fmt.Errorf("scheduler override_retention_days must not be negative")
	}
	if c.Redis.CacheTTLSeconds < 0 {
		return fmt.Errorf("redis cache_ttl_seconds must not be negative")
	}
	if c.RateLimit.PublicRequestsPerMinute < 0 {
		return fmt.Errorf("rate_limit public_requests_per_minute must not be negative")
	}
	if c.Storage.Bucket != "" && c.Storage.Region == "" {
		return fmt.Errorf("storage region is required when a bucket is set")
	}

	return nil
}

// Location returns the shop's time zone. Valid only after Validate succeeds.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Redis.CacheTTLSeconds) * time.Second
}
