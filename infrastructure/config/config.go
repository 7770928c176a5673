// Package config loads server configuration from the environment and
// editing limits from an optional YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	domaincfg "github.com/shalles/web-mind/domain/config"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Logging
	LogLevel string

	// Authentication
	EnableAuth bool
	JWTSecret  string
	JWTIssuer  string

	// Rate limiting, requests per minute
	RateLimitPerIP   int
	RateLimitPerUser int

	// Query cache
	CacheTTLSeconds int

	// Editing limits. LimitsFile points at an optional YAML file with
	// overrides for the domain configuration; it is also the file the
	// watcher reloads on change.
	LimitsFile string

	// Feature flags
	EnableMetrics bool
	EnableCORS    bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		EnableAuth: getEnvBool("ENABLE_AUTH", false),
		JWTSecret:  getEnv("JWT_SECRET", ""),
		JWTIssuer:  getEnv("JWT_ISSUER", "web-mind-api"),

		RateLimitPerIP:   getEnvInt("RATE_LIMIT_PER_IP", 100),
		RateLimitPerUser: getEnvInt("RATE_LIMIT_PER_USER", 200),

		CacheTTLSeconds: getEnvInt("CACHE_TTL_SECONDS", 60),

		LimitsFile: getEnv("LIMITS_FILE", ""),

		EnableMetrics: getEnvBool("ENABLE_METRICS", true),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.IsProduction() && c.EnableAuth && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production when auth is enabled")
	}
	if c.CacheTTLSeconds < 0 {
		return fmt.Errorf("CACHE_TTL_SECONDS must not be negative")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// DomainConfig builds the editing limits for this environment,
// applying the YAML overrides from LimitsFile when one is configured.
func (c *Config) DomainConfig() (*domaincfg.DomainConfig, error) {
	cfg := domaincfg.LoadDomainConfig(c.Environment)

	if c.LimitsFile != "" {
		if err := ApplyLimitsFile(cfg, c.LimitsFile); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid editing limits: %w", err)
	}
	return cfg, nil
}

// limitsOverride mirrors the tunable subset of the domain
// configuration. Pointer fields distinguish "absent" from zero, so a
// file can legally set max_history_depth to 0 for unbounded history.
type limitsOverride struct {
	MaxNodesPerMap         *int     `yaml:"max_nodes_per_map"`
	MaxRelationshipsPerMap *int     `yaml:"max_relationships_per_map"`
	MaxContentLength       *int     `yaml:"max_content_length"`
	MaxHistoryDepth        *int     `yaml:"max_history_depth"`
	SnapThreshold          *float64 `yaml:"snap_threshold"`
	SnapAnimationMillis    *int     `yaml:"snap_animation_millis"`
	DefaultNodeWidth       *float64 `yaml:"default_node_width"`
	DefaultNodeHeight      *float64 `yaml:"default_node_height"`
	HorizontalSpacing      *float64 `yaml:"horizontal_spacing"`
	VerticalSpacing        *float64 `yaml:"vertical_spacing"`
	MaxMapsPerPage         *int     `yaml:"max_maps_per_page"`
}

// ApplyLimitsFile merges YAML overrides from path into cfg.
func ApplyLimitsFile(cfg *domaincfg.DomainConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read limits file: %w", err)
	}

	var override limitsOverride
	if err := yaml.Unmarshal(data, &override); err != nil {
		return fmt.Errorf("failed to parse limits file %s: %w", path, err)
	}

	if override.MaxNodesPerMap != nil {
		cfg.MaxNodesPerMap = *override.MaxNodesPerMap
	}
	if override.MaxRelationshipsPerMap != nil {
		cfg.MaxRelationshipsPerMap = *override.MaxRelationshipsPerMap
	}
	if override.MaxContentLength != nil {
		cfg.MaxContentLength = *override.MaxContentLength
	}
	if override.MaxHistoryDepth != nil {
		cfg.MaxHistoryDepth = *override.MaxHistoryDepth
	}
	if override.SnapThreshold != nil {
		cfg.SnapThreshold = *override.SnapThreshold
	}
	if override.SnapAnimationMillis != nil {
		cfg.SnapAnimationDuration = time.Duration(*override.SnapAnimationMillis) * time.Millisecond
	}
	if override.DefaultNodeWidth != nil {
		cfg.DefaultNodeWidth = *override.DefaultNodeWidth
	}
	if override.DefaultNodeHeight != nil {
		cfg.DefaultNodeHeight = *override.DefaultNodeHeight
	}
	if override.HorizontalSpacing != nil {
		cfg.HorizontalSpacing = *override.HorizontalSpacing
	}
	if override.VerticalSpacing != nil {
		cfg.VerticalSpacing = *override.VerticalSpacing
	}
	if override.MaxMapsPerPage != nil {
		cfg.MaxMapsPerPage = *override.MaxMapsPerPage
	}

	return nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
