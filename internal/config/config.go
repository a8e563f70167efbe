// Package config loads the YAML configuration shared by cavegen and
// caveserver.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/lawnchairsociety/cavemesh/internal/database"
	"github.com/lawnchairsociety/cavemesh/internal/generator"
	"github.com/lawnchairsociety/cavemesh/internal/logger"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration file.
type Config struct {
	Generation generator.Params `yaml:"generation"`
	Logging    logger.Config    `yaml:"logging"`
	Server     ServerConfig     `yaml:"server"`
	Store      StoreConfig      `yaml:"store"`
}

// StoreConfig selects and configures the run catalog.
type StoreConfig struct {
	// Enabled turns run recording on.
	Enabled bool `yaml:"enabled"`

	database.Config `yaml:",inline"`
}

// ServerConfig holds settings for the generation service.
type ServerConfig struct {
	Address     string            `yaml:"address"`
	WebSocket   WebSocketConfig   `yaml:"websocket"`
	Connections ConnectionsConfig `yaml:"connections"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`

	// MaxCells caps the cell count of a requested cave after border padding.
	// 0 means unlimited.
	MaxCells int `yaml:"max_cells"`
}

// RateLimitConfig limits generate requests per client IP.
type RateLimitConfig struct {
	// MaxRequests is the number of generate requests allowed per window.
	// 0 disables rate limiting.
	MaxRequests int `yaml:"max_requests"`

	// WindowSeconds is the length of the counting window.
	WindowSeconds int `yaml:"window_seconds"`
}

// ConnectionsConfig holds connection limit settings.
type ConnectionsConfig struct {
	// MaxPerIP is the maximum concurrent connections allowed from a single IP address.
	// 0 means unlimited (not recommended).
	MaxPerIP int `yaml:"max_per_ip"`

	// MaxTotal is the maximum total concurrent connections to the server.
	// 0 means unlimited.
	MaxTotal int `yaml:"max_total"`
}

// WebSocketConfig holds WebSocket-specific settings.
type WebSocketConfig struct {
	// AllowedOrigins is a list of origins allowed to connect via WebSocket.
	// Empty list enforces same-origin policy.
	// Use "*" to allow all origins (not recommended for production).
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum inbound WebSocket message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`
}

// DefaultConfig returns the default cave, console logging, a local
// service and recording disabled.
func DefaultConfig() *Config {
	return &Config{
		Generation: generator.DefaultParams(),
		Logging:    logger.DefaultConfig(),
		Server: ServerConfig{
			Address: ":8080",
			WebSocket: WebSocketConfig{
				AllowedOrigins: []string{}, // Same-origin only by default
				MaxMessageSize: 4096,
			},
			Connections: ConnectionsConfig{
				MaxPerIP: 3,
				MaxTotal: 100,
			},
			RateLimit: RateLimitConfig{
				MaxRequests:   30,
				WindowSeconds: 60,
			},
			MaxCells: 512 * 512,
		},
		Store: StoreConfig{
			Enabled: false,
			Config:  database.DefaultConfig("data/caves.db"),
		},
	}
}

// LoadConfig loads configuration from a YAML file over the defaults and
// applies the logging environment overrides. A missing file yields the
// defaults; a file that cannot be parsed yields the defaults and the error.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		config.Logging.ApplyEnv()
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		config = DefaultConfig()
		config.Logging.ApplyEnv()
		return config, fmt.Errorf("config: parse %s: %w", path, err)
	}

	config.Logging.ApplyEnv()
	return config, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *WebSocketConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	return false
}

// isSameOrigin checks if the origin matches the request host.
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // No origin header means a non-browser client
	}

	// "http://localhost:3000" -> "localhost:3000"
	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
