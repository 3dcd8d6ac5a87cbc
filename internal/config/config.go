// Package config loads netvis configuration using viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"firestige.xyz/netvis/internal/core"
)

// Config is the root configuration.
type Config struct {
	Capture CaptureConfig `mapstructure:"capture"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Output  OutputConfig  `mapstructure:"output"`
}

// ─── Capture ───

// CaptureConfig configures the capture handle and session.
type CaptureConfig struct {
	Device       string        `mapstructure:"device"`
	Backend      string        `mapstructure:"backend"` // pcap | afpacket
	SnapLen      int           `mapstructure:"snap_len"`
	Promiscuous  bool          `mapstructure:"promiscuous"`
	Timeout      time.Duration `mapstructure:"timeout"` // read timeout, bounds stop latency
	BPFFilter    string        `mapstructure:"bpf_filter"`
	Duration     time.Duration `mapstructure:"duration"` // 0 = until interrupted
	BufferSizeMB int           `mapstructure:"buffer_size_mb"`
}

// ─── Observability ───

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
	Path    string `mapstructure:"path"`
}

// LogConfig configures slog output.
type LogConfig struct {
	Level   string           `mapstructure:"level"`  // debug / info / warn / error
	Format  string           `mapstructure:"format"` // json / text
	Outputs LogOutputsConfig `mapstructure:"outputs"`
}

// LogOutputsConfig lists optional log sinks besides stderr.
type LogOutputsConfig struct {
	File FileOutputConfig `mapstructure:"file"`
}

// FileOutputConfig configures file log output.
type FileOutputConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Path     string         `mapstructure:"path"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	MaxBackups int  `mapstructure:"max_backups"`
	Compress   bool `mapstructure:"compress"`
}

// ─── Output ───

// OutputConfig controls how capture results are rendered.
type OutputConfig struct {
	Format string `mapstructure:"format"` // text / json / yaml
	Color  bool   `mapstructure:"color"`
	TUI    bool   `mapstructure:"tui"`
}

type configRoot struct {
	Netvis Config `mapstructure:"netvis"`
}

// Load loads configuration from path. An empty path yields defaults plus
// environment overrides.
// The YAML file uses `netvis:` as root key; env vars use the NETVIS_ prefix
// (e.g., NETVIS_CAPTURE_DEVICE).
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Key "netvis.log.level" maps to env "NETVIS_LOG_LEVEL" via the replacer.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg := root.Netvis

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		// Defaults are constants; only a hostile environment gets here.
		panic(err)
	}
	return cfg
}

// setDefaults sets default values for configuration.
// All keys use "netvis." prefix to match the YAML root wrapper.
func setDefaults(v *viper.Viper) {
	// Capture defaults
	v.SetDefault("netvis.capture.device", "")
	v.SetDefault("netvis.capture.backend", "pcap")
	v.SetDefault("netvis.capture.snap_len", 65536)
	v.SetDefault("netvis.capture.promiscuous", true)
	v.SetDefault("netvis.capture.timeout", "500ms")
	v.SetDefault("netvis.capture.bpf_filter", "")
	v.SetDefault("netvis.capture.duration", "0s")
	v.SetDefault("netvis.capture.buffer_size_mb", 8)

	// Log defaults
	v.SetDefault("netvis.log.level", "info")
	v.SetDefault("netvis.log.format", "text")
	v.SetDefault("netvis.log.outputs.file.enabled", false)
	v.SetDefault("netvis.log.outputs.file.path", "netvis.log")
	v.SetDefault("netvis.log.outputs.file.rotation.max_size_mb", 100)
	v.SetDefault("netvis.log.outputs.file.rotation.max_age_days", 30)
	v.SetDefault("netvis.log.outputs.file.rotation.max_backups", 5)
	v.SetDefault("netvis.log.outputs.file.rotation.compress", true)

	// Metrics defaults
	v.SetDefault("netvis.metrics.enabled", false)
	v.SetDefault("netvis.metrics.listen", ":9091")
	v.SetDefault("netvis.metrics.path", "/metrics")

	// Output defaults
	v.SetDefault("netvis.output.format", "text")
	v.SetDefault("netvis.output.color", true)
	v.SetDefault("netvis.output.tui", false)
}

// Validate checks value ranges and enumerations.
func (cfg *Config) Validate() error {
	// ── Log validation ──
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Log.Level] {
		return fmt.Errorf("%w: log level %q (must be debug/info/warn/error)", core.ErrConfigInvalid, cfg.Log.Level)
	}
	if cfg.Log.Format != "json" && cfg.Log.Format != "text" {
		return fmt.Errorf("%w: log format %q (must be json/text)", core.ErrConfigInvalid, cfg.Log.Format)
	}
	if cfg.Log.Outputs.File.Enabled && cfg.Log.Outputs.File.Path == "" {
		return fmt.Errorf("%w: log.outputs.file.path is required when file output is enabled", core.ErrConfigInvalid)
	}

	// ── Capture validation ──
	if cfg.Capture.Backend != "pcap" && cfg.Capture.Backend != "afpacket" {
		return fmt.Errorf("%w: capture backend %q (must be pcap/afpacket)", core.ErrConfigInvalid, cfg.Capture.Backend)
	}
	if cfg.Capture.SnapLen <= 0 || cfg.Capture.SnapLen > 262144 {
		return fmt.Errorf("%w: capture snap_len %d out of range (1..262144)", core.ErrConfigInvalid, cfg.Capture.SnapLen)
	}
	if cfg.Capture.Timeout <= 0 {
		return fmt.Errorf("%w: capture timeout must be positive", core.ErrConfigInvalid)
	}
	if cfg.Capture.Duration < 0 {
		return fmt.Errorf("%w: capture duration must not be negative", core.ErrConfigInvalid)
	}

	// ── Output validation ──
	switch cfg.Output.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("%w: output format %q (must be text/json/yaml)", core.ErrConfigInvalid, cfg.Output.Format)
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Listen == "" {
		return fmt.Errorf("%w: metrics.listen is required when metrics are enabled", core.ErrConfigInvalid)
	}
	return nil
}
