package config

import (
	"flag"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// LogLevelEnv is the environment variable consulted for logging verbosity
// when no -log-level flag is given.
const LogLevelEnv = "CHATD_LOG_LEVEL"

// Flags holds command-line flag values. Address is the optional positional
// host:port argument; when present it replaces all configured listeners.
type Flags struct {
	ConfigPath     string
	LogLevel       string
	TLSCert        string
	TLSKey         string
	MaxConnections int
	PingInterval   string
	MetricsAddress string
	Address        string
}

// ParseFlags parses command-line flags and returns a Flags struct.
func ParseFlags() *Flags {
	f := &Flags{}

	flag.StringVar(&f.ConfigPath, "config", "./chatd.toml", "Path to configuration file")
	flag.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&f.TLSCert, "tls-cert", "", "TLS certificate file path")
	flag.StringVar(&f.TLSKey, "tls-key", "", "TLS key file path")
	flag.IntVar(&f.MaxConnections, "max-connections", 0, "Maximum concurrent connections")
	flag.StringVar(&f.PingInterval, "ping-interval", "", "Liveness ping interval (the pong deadline is twice this)")
	flag.StringVar(&f.MetricsAddress, "metrics-address", "", "Prometheus metrics listen address (enables metrics)")

	flag.Parse()

	f.Address = flag.Arg(0)
	return f
}

// Load parses a TOML configuration file and returns the Config.
// If the file does not exist, returns the default configuration.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	var fileConfig FileConfig
	if err := toml.Unmarshal(data, &fileConfig); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}

	return mergeConfig(cfg, fileConfig.Chatd), nil
}

// ApplyFlags merges command-line flag values into the config. Non-zero
// flag values override config file values; the CHATD_LOG_LEVEL environment
// variable sits between the two.
func ApplyFlags(cfg Config, f *Flags) Config {
	if env := os.Getenv(LogLevelEnv); env != "" {
		cfg.LogLevel = env
	}

	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}

	if f.Address != "" {
		// The positional address replaces ALL configured listeners.
		cfg.Listeners = []ListenerConfig{
			{Address: f.Address, Mode: ModeChat},
		}
	}

	if f.TLSCert != "" {
		cfg.TLS.CertFile = f.TLSCert
	}

	if f.TLSKey != "" {
		cfg.TLS.KeyFile = f.TLSKey
	}

	if f.MaxConnections > 0 {
		cfg.Limits.MaxConnections = f.MaxConnections
	}

	if f.PingInterval != "" {
		cfg.Liveness.PingInterval = f.PingInterval
	}

	if f.MetricsAddress != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Address = f.MetricsAddress
	}

	return cfg
}

// LoadWithFlags loads configuration from the path specified in flags,
// then applies environment and flag overrides.
func LoadWithFlags(f *Flags) (Config, error) {
	cfg, err := Load(f.ConfigPath)
	if err != nil {
		return cfg, err
	}
	return ApplyFlags(cfg, f), nil
}

// mergeConfig merges non-zero values from src into dst.
func mergeConfig(dst, src Config) Config {
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}

	if len(src.Listeners) > 0 {
		dst.Listeners = src.Listeners
	}

	if src.TLS.CertFile != "" {
		dst.TLS.CertFile = src.TLS.CertFile
	}

	if src.TLS.KeyFile != "" {
		dst.TLS.KeyFile = src.TLS.KeyFile
	}

	if src.TLS.MinVersion != "" {
		dst.TLS.MinVersion = src.TLS.MinVersion
	}

	if src.Liveness.PingInterval != "" {
		dst.Liveness.PingInterval = src.Liveness.PingInterval
	}

	if src.Limits.MaxConnections > 0 {
		dst.Limits.MaxConnections = src.Limits.MaxConnections
	}

	if src.Limits.MaxLineLength > 0 {
		dst.Limits.MaxLineLength = src.Limits.MaxLineLength
	}

	// Metrics: enabled is a boolean, so only an explicit true merges.
	if src.Metrics.Enabled {
		dst.Metrics.Enabled = src.Metrics.Enabled
	}

	if src.Metrics.Address != "" {
		dst.Metrics.Address = src.Metrics.Address
	}

	if src.Metrics.Path != "" {
		dst.Metrics.Path = src.Metrics.Path
	}

	return dst
}
