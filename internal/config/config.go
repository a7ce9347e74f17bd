package config

import (
	"log/slog"
	"time"
)

// Config aggregates the full application configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Paths     PathsConfig     `mapstructure:"paths"`
	Provision ProvisionConfig `mapstructure:"provision"`
	Keygen    KeygenConfig    `mapstructure:"keygen"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	AddSource bool   `mapstructure:"add_source"`
}

// HTTPConfig configures the subscription HTTP server.
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
}

// PathsConfig names the artifact locations. Tests point these at temp dirs.
type PathsConfig struct {
	ServerConfig string `mapstructure:"server_config"`
	Subscription string `mapstructure:"subscription"`
	LinksPage    string `mapstructure:"links_page"`
}

// ProvisionConfig carries the operator-supplied endpoint parameters.
type ProvisionConfig struct {
	Domain           string       `mapstructure:"domain"`
	VlessRealityPort int          `mapstructure:"vless_reality_port"`
	Hysteria2Port    int          `mapstructure:"hysteria2_port"`
	TuicPort         int          `mapstructure:"tuic_port"`
	VmessPort        int          `mapstructure:"vmess_port"`
	VlessWSPort      int          `mapstructure:"vless_ws_port"`
	WSPath           string       `mapstructure:"ws_path"`
	Tunnel           TunnelConfig `mapstructure:"tunnel"`
}

// TunnelConfig describes the optional reverse-tunnel collaborator. When Domain
// is set the VMess WS endpoint is published through the tunnel hostname.
type TunnelConfig struct {
	Host   string `mapstructure:"host"`
	Domain string `mapstructure:"domain"`
	Token  string `mapstructure:"token"`
}

// KeygenConfig selects the Reality key-pair source.
type KeygenConfig struct {
	// Command names an external binary whose "generate reality-keypair"
	// output is parsed; empty means the built-in X25519 generator.
	Command string        `mapstructure:"command"`
	Timeout time.Duration `mapstructure:"timeout"`
	Retries uint64        `mapstructure:"retries"`
}

// MetricsConfig configures Prometheus metrics exposure.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

func (c LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
