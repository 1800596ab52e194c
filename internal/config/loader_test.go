package config

import (
	"os"
	"path/filepath"
	"testing"
)

func createTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chatd.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default %q", cfg.LogLevel, "info")
	}
	if len(cfg.Listeners) != 1 || cfg.Listeners[0].Address != ":6667" {
		t.Errorf("Listeners = %+v, want default listener on :6667", cfg.Listeners)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := createTempConfig(t, "this is not [valid toml")
	if _, err := Load(path); err == nil {
		t.Error("Load() succeeded on invalid TOML, want error")
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := createTempConfig(t, `
[chatd]
log_level = "debug"

[[chatd.listeners]]
address = ":7000"
mode = "chat"

[[chatd.listeners]]
address = ":7001"
mode = "chats"

[chatd.tls]
cert_file = "/etc/chatd/cert.pem"
key_file = "/etc/chatd/key.pem"
min_version = "1.3"

[chatd.liveness]
ping_interval = "30s"

[chatd.limits]
max_connections = 500

[chatd.metrics]
enabled = true
address = ":9200"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if len(cfg.Listeners) != 2 {
		t.Fatalf("len(Listeners) = %d, want 2", len(cfg.Listeners))
	}
	if cfg.Listeners[1].Mode != ModeChatTLS {
		t.Errorf("Listeners[1].Mode = %q, want %q", cfg.Listeners[1].Mode, ModeChatTLS)
	}
	if cfg.TLS.MinVersion != "1.3" {
		t.Errorf("TLS.MinVersion = %q, want %q", cfg.TLS.MinVersion, "1.3")
	}
	if cfg.Liveness.PingInterval != "30s" {
		t.Errorf("Liveness.PingInterval = %q, want %q", cfg.Liveness.PingInterval, "30s")
	}
	if cfg.Limits.MaxConnections != 500 {
		t.Errorf("Limits.MaxConnections = %d, want 500", cfg.Limits.MaxConnections)
	}

	// Values the file leaves out keep their defaults.
	if cfg.Limits.MaxLineLength != 1024 {
		t.Errorf("Limits.MaxLineLength = %d, want default 1024", cfg.Limits.MaxLineLength)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("Metrics.Path = %q, want default %q", cfg.Metrics.Path, "/metrics")
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want true")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config failed validation: %v", err)
	}
}

func TestApplyFlags(t *testing.T) {
	cfg := Default()
	cfg = ApplyFlags(cfg, &Flags{
		LogLevel:       "debug",
		TLSCert:        "/tmp/cert.pem",
		TLSKey:         "/tmp/key.pem",
		MaxConnections: 64,
		PingInterval:   "45s",
	})

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.TLS.CertFile != "/tmp/cert.pem" || cfg.TLS.KeyFile != "/tmp/key.pem" {
		t.Errorf("TLS = %+v, want flag cert and key", cfg.TLS)
	}
	if cfg.Limits.MaxConnections != 64 {
		t.Errorf("Limits.MaxConnections = %d, want 64", cfg.Limits.MaxConnections)
	}
	if cfg.Liveness.PingInterval != "45s" {
		t.Errorf("Liveness.PingInterval = %q, want %q", cfg.Liveness.PingInterval, "45s")
	}
}

// The positional address replaces every configured listener with a single
// plain chat listener.
func TestApplyFlagsPositionalAddress(t *testing.T) {
	cfg := Default()
	cfg.Listeners = []ListenerConfig{
		{Address: ":7000", Mode: ModeChat},
		{Address: ":7001", Mode: ModeChatTLS},
	}

	cfg = ApplyFlags(cfg, &Flags{Address: "127.0.0.1:6000"})

	if len(cfg.Listeners) != 1 {
		t.Fatalf("len(Listeners) = %d, want 1", len(cfg.Listeners))
	}
	if cfg.Listeners[0].Address != "127.0.0.1:6000" {
		t.Errorf("Listeners[0].Address = %q, want %q", cfg.Listeners[0].Address, "127.0.0.1:6000")
	}
	if cfg.Listeners[0].Mode != ModeChat {
		t.Errorf("Listeners[0].Mode = %q, want %q", cfg.Listeners[0].Mode, ModeChat)
	}
}

func TestApplyFlagsMetricsAddress(t *testing.T) {
	cfg := Default()
	cfg = ApplyFlags(cfg, &Flags{MetricsAddress: ":9300"})

	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want true after -metrics-address")
	}
	if cfg.Metrics.Address != ":9300" {
		t.Errorf("Metrics.Address = %q, want %q", cfg.Metrics.Address, ":9300")
	}
}

func TestLogLevelEnvBetweenFileAndFlags(t *testing.T) {
	t.Setenv(LogLevelEnv, "warn")

	cfg := Default()
	cfg.LogLevel = "debug" // file value

	got := ApplyFlags(cfg, &Flags{})
	if got.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want env override %q", got.LogLevel, "warn")
	}

	got = ApplyFlags(cfg, &Flags{LogLevel: "error"})
	if got.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want flag override %q", got.LogLevel, "error")
	}
}

func TestLoadWithFlags(t *testing.T) {
	path := createTempConfig(t, `
[chatd]
log_level = "warn"

[chatd.liveness]
ping_interval = "60s"
`)

	cfg, err := LoadWithFlags(&Flags{
		ConfigPath:   path,
		PingInterval: "20s",
	})
	if err != nil {
		t.Fatalf("LoadWithFlags() error: %v", err)
	}

	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "warn")
	}
	if cfg.Liveness.PingInterval != "20s" {
		t.Errorf("Liveness.PingInterval = %q, want flag override %q", cfg.Liveness.PingInterval, "20s")
	}
}
