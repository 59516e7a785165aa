// Clipframe - Video Sharing Platform Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipframe

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/clipframe/config.yaml",
	"/etc/clipframe/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults. They are applied first,
// then overridden by the config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Database: DatabaseConfig{
			Host:           "127.0.0.1",
			Port:           5432,
			User:           "clipframe",
			Password:       "clipframe",
			Name:           "clipframe",
			SSLMode:        "disable",
			MaxConns:       10,
			ConnectTimeout: 10 * time.Second,
			MigrateOnStart: true,
		},
		Engagement: EngagementConfig{
			Store:      "redis",
			RedisAddr:  "127.0.0.1:6379",
			BadgerPath: "/data/engagement",
		},
		Storage: StorageConfig{
			Region:       "us-east-1",
			UseSSL:       true,
			MaxVideoSize: 700 << 20, // 700 MB
			MaxImageSize: 10 << 20,  // 10 MB
		},
		Security: SecurityConfig{
			TokenTTL:          24 * time.Hour,
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			AuthRateLimitReqs: 10,
			CORSOrigins:       []string{"*"},
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds configuration from layered sources:
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. Environment variables (highest priority)
func Load() (*Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file that exists, checking
// CONFIG_PATH before the default locations.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths lists config paths parsed as comma-separated slices
// when they arrive as strings from the environment.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		// Already a slice from the YAML file.
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf paths.
// Unmapped variables are dropped so unrelated environment noise cannot
// leak into the configuration.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - ENGAGEMENT_STORE -> engagement.store
//   - S3_BUCKET -> storage.bucket
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"http_host":    "server.host",
		"http_port":    "server.port",
		"http_timeout": "server.timeout",
		"environment":  "server.environment",

		// Database mappings
		"database_url":         "database.url",
		"postgres_host":        "database.host",
		"postgres_port":        "database.port",
		"postgres_user":        "database.user",
		"postgres_password":    "database.password",
		"postgres_db":          "database.name",
		"postgres_ssl_mode":    "database.ssl_mode",
		"postgres_max_conns":   "database.max_conns",
		"db_connect_timeout":   "database.connect_timeout",
		"db_migrate_on_start":  "database.migrate_on_start",

		// Engagement store mappings
		"engagement_store":       "engagement.store",
		"redis_addr":             "engagement.redis_addr",
		"redis_password":         "engagement.redis_password",
		"redis_db":               "engagement.redis_db",
		"engagement_badger_path": "engagement.badger_path",

		// Object storage mappings
		"s3_endpoint":        "storage.endpoint",
		"s3_access_key":      "storage.access_key",
		"s3_secret_key":      "storage.secret_key",
		"s3_bucket":          "storage.bucket",
		"s3_region":          "storage.region",
		"s3_use_ssl":         "storage.use_ssl",
		"s3_public_base_url": "storage.public_base_url",
		"max_video_size":     "storage.max_video_size",
		"max_image_size":     "storage.max_image_size",

		// Security mappings
		"jwt_secret":           "security.jwt_secret",
		"token_ttl":            "security.token_ttl",
		"rate_limit_requests":  "security.rate_limit_reqs",
		"rate_limit_window":    "security.rate_limit_window",
		"auth_rate_limit":      "security.auth_rate_limit_reqs",
		"disable_rate_limit":   "security.rate_limit_disabled",
		"cors_origins":         "security.cors_origins",

		// API mappings
		"api_default_page_size": "api.default_page_size",
		"api_max_page_size":     "api.max_page_size",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}
