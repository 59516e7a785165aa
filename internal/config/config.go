// Clipframe - Video Sharing Platform Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipframe

// Package config loads and validates Clipframe configuration from
// layered sources: struct defaults, an optional YAML file, and
// environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration for the Clipframe server.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Engagement EngagementConfig `koanf:"engagement"`
	Storage    StorageConfig    `koanf:"storage"`
	Security   SecurityConfig   `koanf:"security"`
	API        APIConfig        `koanf:"api"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development or production
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsProduction reports whether the server runs in production mode.
// Production mode enables stricter configuration validation.
func (s ServerConfig) IsProduction() bool {
	return strings.EqualFold(s.Environment, "production")
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL             string        `koanf:"url"` // takes precedence when set
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	Name            string        `koanf:"name"`
	SSLMode         string        `koanf:"ssl_mode"`
	MaxConns        int32         `koanf:"max_conns"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout"`
	MigrateOnStart  bool          `koanf:"migrate_on_start"`
}

// DSN returns the connection string for pgx.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// EngagementConfig selects and configures the engagement key-set store.
type EngagementConfig struct {
	// Store is the backend type: memory, badger, or redis.
	Store string `koanf:"store"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	BadgerPath string `koanf:"badger_path"`
}

// StorageConfig holds S3-compatible object storage settings.
type StorageConfig struct {
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	Bucket    string `koanf:"bucket"`
	Region    string `koanf:"region"`
	UseSSL    bool   `koanf:"use_ssl"`

	// PublicBaseURL is the URL prefix for serving stored objects.
	// Defaults to https://{endpoint}/{bucket} when empty.
	PublicBaseURL string `koanf:"public_base_url"`

	// MaxVideoSize and MaxImageSize cap upload sizes in bytes.
	MaxVideoSize int64 `koanf:"max_video_size"`
	MaxImageSize int64 `koanf:"max_image_size"`
}

// SecurityConfig holds authentication and request hardening settings.
type SecurityConfig struct {
	JWTSecret string        `koanf:"jwt_secret"`
	TokenTTL  time.Duration `koanf:"token_ttl"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	AuthRateLimitReqs int           `koanf:"auth_rate_limit_reqs"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// APIConfig holds API behavior settings.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// minJWTSecretLength is the minimum accepted HS256 secret length.
const minJWTSecretLength = 32

// Validate checks the configuration for errors. Production mode adds
// hardening checks that are relaxed during development.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.Timeout <= 0 {
		errs = append(errs, errors.New("server.timeout must be positive"))
	}

	switch c.Engagement.Store {
	case "memory", "badger", "redis", "":
	default:
		errs = append(errs, fmt.Errorf("engagement.store %q is not one of memory, badger, redis", c.Engagement.Store))
	}
	if c.Engagement.Store == "redis" && c.Engagement.RedisAddr == "" {
		errs = append(errs, errors.New("engagement.redis_addr required when engagement.store is redis"))
	}
	if c.Engagement.Store == "badger" && c.Engagement.BadgerPath == "" {
		errs = append(errs, errors.New("engagement.badger_path required when engagement.store is badger"))
	}

	if c.Security.JWTSecret == "" {
		errs = append(errs, errors.New("security.jwt_secret is required"))
	} else if len(c.Security.JWTSecret) < minJWTSecretLength {
		errs = append(errs, fmt.Errorf("security.jwt_secret must be at least %d characters", minJWTSecretLength))
	}
	if c.Security.TokenTTL <= 0 {
		errs = append(errs, errors.New("security.token_ttl must be positive"))
	}

	if c.API.DefaultPageSize < 1 {
		errs = append(errs, errors.New("api.default_page_size must be positive"))
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		errs = append(errs, errors.New("api.max_page_size must be >= api.default_page_size"))
	}

	if c.Storage.MaxVideoSize <= 0 {
		errs = append(errs, errors.New("storage.max_video_size must be positive"))
	}
	if c.Storage.MaxImageSize <= 0 {
		errs = append(errs, errors.New("storage.max_image_size must be positive"))
	}

	if c.Server.IsProduction() {
		if c.Engagement.Store == "" || c.Engagement.Store == "memory" {
			errs = append(errs, errors.New("engagement.store memory is not allowed in production"))
		}
		if c.Database.DSN() == defaultConfig().Database.DSN() {
			errs = append(errs, errors.New("database credentials must be configured in production"))
		}
		for _, origin := range c.Security.CORSOrigins {
			if origin == "*" {
				errs = append(errs, errors.New("security.cors_origins must not contain * in production"))
			}
		}
		if c.Storage.Endpoint == "" {
			errs = append(errs, errors.New("storage.endpoint is required in production"))
		}
	}

	return errors.Join(errs...)
}
