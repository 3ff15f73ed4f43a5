// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath      string `env:"ROTA_DB_PATH" envDefault:"./data/rotabiletiket.db"`
	AdminSecret string `env:"ROTA_ADMIN_SECRET,required"`
	ServerHost  string `env:"ROTA_SERVER_HOST" envDefault:"localhost"`
	ServerPort  int    `env:"ROTA_SERVER_PORT" envDefault:"8080"`
	Env         string `env:"ROTA_ENV" envDefault:"development"`
	LogLevel    string `env:"ROTA_LOG_LEVEL" envDefault:"info"`
	SiteURL     string `env:"ROTA_SITE_URL" envDefault:"http://localhost:8080"`

	// Site identity used in SEO metadata
	SiteName        string `env:"ROTA_SITE_NAME" envDefault:"Rotabil Etiket"`
	SiteDescription string `env:"ROTA_SITE_DESCRIPTION"`
	DefaultOGImage  string `env:"ROTA_DEFAULT_OG_IMAGE"`
	// DisallowRobots blocks every crawler, for staging deployments.
	DisallowRobots bool `env:"ROTA_DISALLOW_ROBOTS" envDefault:"false"`

	// Cache configuration
	RedisURL     string `env:"ROTA_REDIS_URL"`                         // Optional Redis URL for shared caching
	CachePrefix  string `env:"ROTA_CACHE_PREFIX" envDefault:"rota:"`   // Redis key prefix
	CacheTTL     int    `env:"ROTA_CACHE_TTL" envDefault:"300"`        // Default cache TTL in seconds
	CacheMaxSize int    `env:"ROTA_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// GeoIP configuration
	GeoIPDBPath string `env:"ROTA_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	CORSOrigins []string `env:"ROTA_CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	// Analytics
	RetentionDays int    `env:"ROTA_ANALYTICS_RETENTION_DAYS" envDefault:"90"`
	AnalyticsSalt string `env:"ROTA_ANALYTICS_SALT"`

	// Seeding configuration. SeedFile is a YAML fixture document; the
	// embedded fixtures are used when it is empty.
	SeedFile string `env:"ROTA_SEED_FILE"`
	DoSeed   bool   `env:"ROTA_DO_SEED" envDefault:"false"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// CacheTTLDuration returns the cache TTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// Retention returns how long raw visits are kept.
func (c Config) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MinAdminSecretLength is the minimum length of the HS256 signing key.
const MinAdminSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.AdminSecret) < MinAdminSecretLength {
		return nil, fmt.Errorf("ROTA_ADMIN_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinAdminSecretLength, len(cfg.AdminSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.AdminSecret == weak {
			return nil, fmt.Errorf("ROTA_ADMIN_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if cfg.RetentionDays < 1 {
		return nil, fmt.Errorf("ROTA_ANALYTICS_RETENTION_DAYS must be positive, got %d", cfg.RetentionDays)
	}
	if cfg.CacheTTL < 0 {
		return nil, fmt.Errorf("ROTA_CACHE_TTL must not be negative, got %d", cfg.CacheTTL)
	}
	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")

	if !hasMinimumEntropy(cfg.AdminSecret) {
		slog.Warn("ROTA_ADMIN_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	// The visitor hash falls back to the admin secret so hashes never go unsalted.
	if cfg.AnalyticsSalt == "" {
		cfg.AnalyticsSalt = cfg.AdminSecret
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
