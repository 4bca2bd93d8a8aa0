package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	SiteURL     string `yaml:"site_url"`
	ExtensionID string `yaml:"extension_id"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SupabaseConfig struct {
	URL            string `yaml:"url"`
	AnonKey        string `yaml:"anon_key"`
	ServiceRoleKey string `yaml:"service_role_key"`
	JWTSecret      string `yaml:"jwt_secret"` // optional; enables local token pre-check
	StorageBucket  string `yaml:"storage_bucket"`
}

type StripePriceConfig struct {
	ProductName        string `yaml:"product_name"`
	ProductDescription string `yaml:"product_description"`
	UnitAmount         int64  `yaml:"unit_amount"` // cents
	Currency           string `yaml:"currency"`
	Interval           string `yaml:"interval"`
}

type StripeConfig struct {
	SecretKey     string            `yaml:"secret_key"`
	WebhookSecret string            `yaml:"webhook_secret"`
	Price         StripePriceConfig `yaml:"price"`
}

type AIConfig struct {
	Provider  string `yaml:"provider"` // gemini | openai
	GeminiKey string `yaml:"gemini_key"`
	GeminiURL string `yaml:"gemini_url"`
	OpenAIKey string `yaml:"openai_key"`
	OpenAIURL string `yaml:"openai_url"`
	Model     string `yaml:"model"`
}

type QuotaConfig struct {
	FreeMonthlyLimit int `yaml:"free_monthly_limit"`
	ProMonthlyLimit  int `yaml:"pro_monthly_limit"`
}

type DiagnosticsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
	Database    DatabaseConfig    `yaml:"database"`
	Redis       RedisConfig       `yaml:"redis"`
	Supabase    SupabaseConfig    `yaml:"supabase"`
	Stripe      StripeConfig      `yaml:"stripe"`
	AI          AIConfig          `yaml:"ai"`
	Quota       QuotaConfig       `yaml:"quota"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Supabase.StorageBucket == "" {
		cfg.Supabase.StorageBucket = "virtual-try-on-generations"
	}
	if cfg.Stripe.Price.ProductName == "" {
		cfg.Stripe.Price.ProductName = "Drippler Pro"
	}
	if cfg.Stripe.Price.ProductDescription == "" {
		cfg.Stripe.Price.ProductDescription = "200 virtual clothing try-on generations per month"
	}
	if cfg.Stripe.Price.UnitAmount == 0 {
		cfg.Stripe.Price.UnitAmount = 999
	}
	if cfg.Stripe.Price.Currency == "" {
		cfg.Stripe.Price.Currency = "usd"
	}
	if cfg.Stripe.Price.Interval == "" {
		cfg.Stripe.Price.Interval = "month"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-2.5-flash-image-preview"
	}
	if cfg.Quota.FreeMonthlyLimit <= 0 {
		cfg.Quota.FreeMonthlyLimit = 15
	}
	if cfg.Quota.ProMonthlyLimit <= 0 {
		cfg.Quota.ProMonthlyLimit = 200
	}
	cfg.Server.SiteURL = strings.TrimRight(cfg.Server.SiteURL, "/")
	cfg.Supabase.URL = strings.TrimRight(cfg.Supabase.URL, "/")

	// Minimal validation
	if cfg.Server.SiteURL == "" {
		return nil, errors.New("server.site_url is required")
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Supabase.URL == "" || cfg.Supabase.AnonKey == "" {
		return nil, errors.New("supabase.url and supabase.anon_key are required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

// SuccessURL is the fixed checkout success redirect.
func (c *Config) SuccessURL() string { return c.Server.SiteURL + "/success" }

// CancelURL is the fixed checkout cancel redirect.
func (c *Config) CancelURL() string { return c.Server.SiteURL + "/cancel" }
