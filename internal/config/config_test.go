// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"log/slog"
	"os"
	"testing"
	"time"
)

const testSecret = "test-secret-key-32-bytes-long!!!"

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	// Clear environment and set only required var
	os.Clearenv()
	setEnv(t, "ROTA_ADMIN_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/rotabiletiket.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/rotabiletiket.db")
	}
	if cfg.ServerHost != "localhost" {
		t.Errorf("ServerHost = %q, want %q", cfg.ServerHost, "localhost")
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 8080)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want %q", cfg.Env, "development")
	}
	if cfg.CachePrefix != "rota:" {
		t.Errorf("CachePrefix = %q, want %q", cfg.CachePrefix, "rota:")
	}
	if cfg.RetentionDays != 90 {
		t.Errorf("RetentionDays = %d, want 90", cfg.RetentionDays)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.CORSOrigins)
	}
	if cfg.AnalyticsSalt != testSecret {
		t.Error("AnalyticsSalt should default to the admin secret")
	}
	if cfg.UseRedisCache() {
		t.Error("UseRedisCache() = true without ROTA_REDIS_URL")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	setEnv(t, "ROTA_ADMIN_SECRET", testSecret)
	setEnv(t, "ROTA_DB_PATH", "/custom/path.db")
	setEnv(t, "ROTA_SERVER_HOST", "0.0.0.0")
	setEnv(t, "ROTA_SERVER_PORT", "3000")
	setEnv(t, "ROTA_ENV", "production")
	setEnv(t, "ROTA_SITE_URL", "https://rotabiletiket.com/")
	setEnv(t, "ROTA_CORS_ORIGINS", "https://a.example,https://b.example")
	setEnv(t, "ROTA_CACHE_TTL", "60")
	setEnv(t, "ROTA_ANALYTICS_RETENTION_DAYS", "30")
	setEnv(t, "ROTA_ANALYTICS_SALT", "pepper")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "/custom/path.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q", cfg.ServerAddr())
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true in production")
	}
	if cfg.SiteURL != "https://rotabiletiket.com" {
		t.Errorf("SiteURL = %q, trailing slash should be trimmed", cfg.SiteURL)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.CacheTTLDuration() != time.Minute {
		t.Errorf("CacheTTLDuration() = %v", cfg.CacheTTLDuration())
	}
	if cfg.Retention() != 30*24*time.Hour {
		t.Errorf("Retention() = %v", cfg.Retention())
	}
	if cfg.AnalyticsSalt != "pepper" {
		t.Errorf("AnalyticsSalt = %q", cfg.AnalyticsSalt)
	}
}

func TestLoad_RequiredAdminSecret(t *testing.T) {
	os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail when ROTA_ADMIN_SECRET is not set")
	}
}

func TestLoad_AdminSecretRejected(t *testing.T) {
	tests := []struct {
		name   string
		secret string
	}{
		{"empty", ""},
		{"short", "short"},
		{"31_bytes", "1234567890123456789012345678901"},
		{"known_default", "change-me-to-32-byte-secret-key!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			setEnv(t, "ROTA_ADMIN_SECRET", tt.secret)

			if _, err := Load(); err == nil {
				t.Fatalf("Load() should fail with secret %q", tt.secret)
			}
		})
	}
}

func TestLoad_InvalidRetention(t *testing.T) {
	os.Clearenv()
	setEnv(t, "ROTA_ADMIN_SECRET", testSecret)
	setEnv(t, "ROTA_ANALYTICS_RETENTION_DAYS", "0")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail with zero retention")
	}
}

func TestConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := Config{LogLevel: tt.level}
			if got := cfg.SlogLevel(); got != tt.want {
				t.Errorf("SlogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfig_GeoIPEnabled(t *testing.T) {
	if (Config{}).GeoIPEnabled() {
		t.Error("GeoIPEnabled() = true with empty path")
	}
	if !(Config{GeoIPDBPath: "/path/to/GeoLite2-Country.mmdb"}).GeoIPEnabled() {
		t.Error("GeoIPEnabled() = false with path set")
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	if hasMinimumEntropy("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa") {
		t.Error("single class should be low entropy")
	}
	if !hasMinimumEntropy(testSecret + "A") {
		t.Error("three classes should pass")
	}
}
