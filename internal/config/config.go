// Package config provides configuration management for the chat server.
package config

import (
	"crypto/tls"
	"errors"
	"fmt"
	"time"
)

// ListenerMode defines the operational mode for a listener.
type ListenerMode string

const (
	// ModeChat is plain TCP chat.
	ModeChat ListenerMode = "chat"
	// ModeChatTLS is implicit TLS.
	ModeChatTLS ListenerMode = "chats"
)

// FileConfig is the top-level wrapper for the configuration file, keyed by
// the [chatd] table.
type FileConfig struct {
	Chatd Config `toml:"chatd"`
}

// Config holds the chat server configuration.
type Config struct {
	LogLevel  string           `toml:"log_level"`
	Listeners []ListenerConfig `toml:"listeners"`
	TLS       TLSConfig        `toml:"tls"`
	Liveness  LivenessConfig   `toml:"liveness"`
	Limits    LimitsConfig     `toml:"limits"`
	Metrics   MetricsConfig    `toml:"metrics"`
}

// ListenerConfig defines settings for a single listener.
type ListenerConfig struct {
	Address string       `toml:"address"`
	Mode    ListenerMode `toml:"mode"`
}

// TLSConfig holds TLS certificate and version settings.
type TLSConfig struct {
	CertFile   string `toml:"cert_file"`
	KeyFile    string `toml:"key_file"`
	MinVersion string `toml:"min_version"`
}

// LivenessConfig holds the ping/pong watchdog settings. Only the ping
// interval is configurable; the fatal deadline is always twice the
// interval, so the two liveness thresholds move as a pair.
type LivenessConfig struct {
	PingInterval string `toml:"ping_interval"`
}

// LimitsConfig defines resource limits for the server.
type LimitsConfig struct {
	MaxConnections int `toml:"max_connections"`
	MaxLineLength  int `toml:"max_line_length"`
}

// MetricsConfig holds configuration for Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Address string `toml:"address"`
	Path    string `toml:"path"`
}

// Default returns a Config with sensible default values.
func Default() Config {
	return Config{
		LogLevel: "info",
		Listeners: []ListenerConfig{
			{Address: ":6667", Mode: ModeChat},
		},
		TLS: TLSConfig{
			MinVersion: "1.2",
		},
		Liveness: LivenessConfig{
			PingInterval: "90s",
		},
		Limits: LimitsConfig{
			MaxConnections: 1024,
			MaxLineLength:  1024,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Address: ":9102",
			Path:    "/metrics",
		},
	}
}

// Validate checks that the configuration is valid and returns an error if not.
func (c *Config) Validate() error {
	if len(c.Listeners) == 0 {
		return errors.New("at least one listener is required")
	}

	for i, l := range c.Listeners {
		if l.Address == "" {
			return fmt.Errorf("listener %d: address is required", i)
		}
		if !isValidMode(l.Mode) {
			return fmt.Errorf("listener %d: invalid mode %q", i, l.Mode)
		}
		if l.Mode == ModeChatTLS && (c.TLS.CertFile == "" || c.TLS.KeyFile == "") {
			return fmt.Errorf("listener %d: mode %q requires tls cert_file and key_file", i, l.Mode)
		}
	}

	if c.Limits.MaxConnections <= 0 {
		return errors.New("max_connections must be positive")
	}

	if c.Limits.MaxLineLength <= 0 {
		return errors.New("max_line_length must be positive")
	}

	if c.Liveness.PingInterval != "" {
		d, err := time.ParseDuration(c.Liveness.PingInterval)
		if err != nil {
			return fmt.Errorf("invalid ping interval: %w", err)
		}
		if d <= 0 {
			return errors.New("ping_interval must be positive")
		}
	}

	if c.TLS.MinVersion != "" {
		if _, ok := minTLSVersions[c.TLS.MinVersion]; !ok {
			return fmt.Errorf("invalid TLS min_version %q (valid: 1.0, 1.1, 1.2, 1.3)", c.TLS.MinVersion)
		}
	}

	if c.Metrics.Enabled {
		if c.Metrics.Address == "" {
			return errors.New("metrics address is required when metrics are enabled")
		}
		if c.Metrics.Path == "" {
			return errors.New("metrics path is required when metrics are enabled")
		}
	}

	return nil
}

// MinTLSVersion returns the crypto/tls constant for the configured minimum TLS version.
// Returns tls.VersionTLS12 if not configured or invalid.
func (c *TLSConfig) MinTLSVersion() uint16 {
	if v, ok := minTLSVersions[c.MinVersion]; ok {
		return v
	}
	return tls.VersionTLS12
}

// Interval returns the liveness ping interval as a time.Duration.
// Returns 90 seconds if not configured or invalid.
func (c *LivenessConfig) Interval() time.Duration {
	if c.PingInterval == "" {
		return 90 * time.Second
	}
	d, err := time.ParseDuration(c.PingInterval)
	if err != nil || d <= 0 {
		return 90 * time.Second
	}
	return d
}

var minTLSVersions = map[string]uint16{
	"1.0": tls.VersionTLS10,
	"1.1": tls.VersionTLS11,
	"1.2": tls.VersionTLS12,
	"1.3": tls.VersionTLS13,
}

func isValidMode(m ListenerMode) bool {
	switch m {
	case ModeChat, ModeChatTLS:
		return true
	default:
		return false
	}
}
