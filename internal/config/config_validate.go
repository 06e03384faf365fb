// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

package config

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateUpload(); err != nil {
		return err
	}
	if err := c.validateML(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	switch c.Server.Environment {
	case "development", "production", "test":
	default:
		return fmt.Errorf("environment must be development, production, or test, got %q", c.Server.Environment)
	}

	return nil
}

func (c *Config) validateUpload() error {
	if c.Upload.Dir == "" {
		return fmt.Errorf("UPLOAD_DIR must not be empty")
	}
	if c.Upload.MaxSizeBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive, got %d", c.Upload.MaxSizeBytes)
	}
	if len(c.Upload.AllowedExtensions) == 0 {
		return fmt.Errorf("upload.allowed_extensions must not be empty")
	}
	for _, ext := range c.Upload.AllowedExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("allowed extension %q must start with a dot", ext)
		}
	}
	return nil
}

func (c *Config) validateML() error {
	if c.ML.URL == "" {
		return fmt.Errorf("ML_SERVICE_URL must not be empty")
	}

	u, err := url.Parse(c.ML.URL)
	if err != nil {
		return fmt.Errorf("ML_SERVICE_URL is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("ML_SERVICE_URL must use http or https, got %q", u.Scheme)
	}

	if c.ML.Timeout <= 0 {
		return fmt.Errorf("ML_TIMEOUT must be positive, got %v", c.ML.Timeout)
	}

	return nil
}

func (c *Config) validateAPI() error {
	if c.API.HistoryPageSize < 1 {
		return fmt.Errorf("api.history_page_size must be at least 1, got %d", c.API.HistoryPageSize)
	}
	if c.API.ContactPageSize < 1 {
		return fmt.Errorf("api.contact_page_size must be at least 1, got %d", c.API.ContactPageSize)
	}
	if c.API.MaxPageSize < c.API.HistoryPageSize || c.API.MaxPageSize < c.API.ContactPageSize {
		return fmt.Errorf("api.max_page_size %d must not be below the default page sizes", c.API.MaxPageSize)
	}
	return nil
}

// validateSecurity validates auth settings and derives the bcrypt password
// hash when a plaintext development password was supplied.
func (c *Config) validateSecurity() error {
	switch c.Security.AuthMode {
	case "none":
		return nil
	case "jwt":
	default:
		return fmt.Errorf("AUTH_MODE must be none or jwt, got %q", c.Security.AuthMode)
	}

	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters when AUTH_MODE=jwt")
	}
	if c.Security.AdminUsername == "" {
		return fmt.Errorf("ADMIN_USERNAME is required when AUTH_MODE=jwt")
	}

	if c.Security.AdminPasswordHash == "" {
		if c.Security.AdminPassword == "" {
			return fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required when AUTH_MODE=jwt")
		}
		if len(c.Security.AdminPassword) < 8 {
			return fmt.Errorf("ADMIN_PASSWORD must be at least 8 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(c.Security.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		c.Security.AdminPasswordHash = string(hash)
		c.Security.AdminPassword = ""
	}

	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL must be a valid level, got %q", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}

	return nil
}
