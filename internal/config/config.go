// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

// Package config provides centralized configuration for the Navarasa backend.
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority
// wins): environment variables > optional YAML config file > built-in defaults.
// The resulting Config is immutable after Load() and is passed explicitly to
// the components that need it; there are no module-level settings globals.
package config

import (
	"time"
)

// Config holds all application configuration.
//
// Categories:
//   - Server: HTTP listener settings
//   - Database: BadgerDB document store
//   - Upload: audio intake (directory, size cap, allowed extensions)
//   - ML: external emotion-inference service
//   - API: pagination limits
//   - Security: CORS, rate limiting, admin auth
//   - Logging: log level and output format
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Upload   UploadConfig   `koanf:"upload"`
	ML       MLConfig       `koanf:"ml"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	// Port is the HTTP listen port.
	Port int `koanf:"port"`

	// Host is the bind address.
	Host string `koanf:"host"`

	// ShutdownTimeout bounds graceful shutdown of in-flight requests.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// Environment is "development" or "production".
	Environment string `koanf:"environment"`
}

// DatabaseConfig holds BadgerDB configuration.
type DatabaseConfig struct {
	// Path is the directory for the Badger value log and LSM tree.
	Path string `koanf:"path"`

	// InMemory runs the store without disk persistence. Test use only.
	InMemory bool `koanf:"in_memory"`
}

// UploadConfig holds audio intake configuration.
type UploadConfig struct {
	// Dir is the directory uploaded audio is written to. Created on first run.
	Dir string `koanf:"dir"`

	// MaxSizeBytes caps a single upload. Default 10 MiB.
	MaxSizeBytes int64 `koanf:"max_size_bytes"`

	// AllowedExtensions is the lowercase extension allow-list.
	AllowedExtensions []string `koanf:"allowed_extensions"`
}

// MLConfig holds configuration for the external emotion-inference service.
type MLConfig struct {
	// URL is the base URL of the ML service; predictions POST to {URL}/predict.
	URL string `koanf:"url"`

	// Timeout bounds the outbound prediction call. The generous default
	// accommodates cold starts on free-tier hosting.
	Timeout time.Duration `koanf:"timeout"`

	// RequestsPerSecond paces outbound prediction calls. 0 disables pacing.
	RequestsPerSecond float64 `koanf:"requests_per_second"`

	// BreakerEnabled wraps the upstream call in a circuit breaker.
	BreakerEnabled bool `koanf:"breaker_enabled"`
}

// APIConfig holds API behavior configuration.
type APIConfig struct {
	// HistoryPageSize is the default page size for analysis history listings.
	HistoryPageSize int `koanf:"history_page_size"`

	// ContactPageSize is the default page size for contact listings.
	ContactPageSize int `koanf:"contact_page_size"`

	// MaxPageSize caps any requested limit.
	MaxPageSize int `koanf:"max_page_size"`
}

// SecurityConfig holds CORS, rate limiting, and admin auth configuration.
type SecurityConfig struct {
	// CORSOrigin is the configured production origin, appended to the two
	// hardcoded local development origins.
	CORSOrigin string `koanf:"cors_origin"`

	// RateLimitRequests / RateLimitWindow bound per-IP request rates.
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// AuthMode is "none" (open admin surface, matching the original
	// deployment) or "jwt" (admin contact routes require a bearer token).
	AuthMode string `koanf:"auth_mode"`

	// JWTSecret signs admin tokens. Required when AuthMode is "jwt".
	JWTSecret string `koanf:"jwt_secret"`

	// AdminUsername / AdminPasswordHash are the admin login credentials.
	// The hash is a bcrypt digest; a plaintext AdminPassword is accepted
	// and hashed at load time for convenience in development.
	AdminUsername     string        `koanf:"admin_username"`
	AdminPassword     string        `koanf:"admin_password"`
	AdminPasswordHash string        `koanf:"admin_password_hash"`
	SessionTimeout    time.Duration `koanf:"session_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// CORSOrigins returns the full CORS allow-list: the two local development
// origins plus the configured production origin, if any.
func (c *Config) CORSOrigins() []string {
	origins := []string{
		"http://localhost:5173",
		"http://localhost:3000",
	}
	if c.Security.CORSOrigin != "" {
		origins = append(origins, c.Security.CORSOrigin)
	}
	return origins
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
