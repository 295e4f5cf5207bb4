// Package config handles configuration loading using viper.
package config

import (
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/spf13/viper"

	"firestige.xyz/netproc/internal/core"
)

// Capture source kinds.
const (
	SourceLive     = "live"
	SourceAFPacket = "afpacket"
	SourceFile     = "file"
)

// Report formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Log formats.
const (
	LogFormatPattern = "pattern"
	LogFormatNested  = "nested"
	LogFormatJSON    = "json"
)

// MinSnapLen is the smallest snap length that still holds Ethernet, a
// fixed IPv4 header and a UDP header, rounded up.
const MinSnapLen = 64

// Config is the top-level configuration.
// Maps to the `netproc:` root key in YAML.
type Config struct {
	Capture  CaptureConfig  `mapstructure:"capture"`
	Identity IdentityConfig `mapstructure:"identity"`
	Process  ProcessConfig  `mapstructure:"process"`
	Report   ReportConfig   `mapstructure:"report"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Log      LogConfig      `mapstructure:"log"`
}

// ─── Capture ───

// CaptureConfig selects and tunes the frame source.
type CaptureConfig struct {
	Source       string        `mapstructure:"source"`    // live | afpacket | file
	Interface    string        `mapstructure:"interface"` // Empty = first pcap device
	File         string        `mapstructure:"file"`
	SnapLen      int           `mapstructure:"snap_len"`
	Promiscuous  bool          `mapstructure:"promiscuous"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Filter       string        `mapstructure:"filter"`
	Count        int           `mapstructure:"count"` // 0 = unlimited
	BufferSizeMB int           `mapstructure:"buffer_size_mb"`
}

// ─── Identity ───

// IdentityConfig lists the addresses that count as "this host".
type IdentityConfig struct {
	Addresses []netip.Addr `mapstructure:"addresses"` // Empty = auto-detect
	Loopback  netip.Addr   `mapstructure:"loopback"`
}

// ─── Process mapping ───

// ProcessConfig controls port to process attribution.
type ProcessConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	TTL             time.Duration `mapstructure:"ttl"` // How long a port keeps its owner once unseen
}

// ─── Report ───

// ReportConfig controls the final process table.
type ReportConfig struct {
	Format string `mapstructure:"format"` // table | json | yaml
	Output string `mapstructure:"output"` // "-" = stdout
	Sort   string `mapstructure:"sort"`   // bytes | port
}

// ─── Metrics ───

// MetricsConfig contains Prometheus exporter settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
	Path    string `mapstructure:"path"`
}

// ─── Log ───

// LogConfig contains logging settings.
type LogConfig struct {
	Level   string        `mapstructure:"level"`
	Format  string        `mapstructure:"format"` // pattern | nested | json
	Pattern string        `mapstructure:"pattern"`
	Time    string        `mapstructure:"time"`
	File    FileLogConfig `mapstructure:"file"`
}

// FileLogConfig configures the rotating log file.
type FileLogConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// configRoot is the top-level wrapper matching the YAML structure `netproc: ...`.
type configRoot struct {
	Netproc Config `mapstructure:"netproc"`
}

// Load loads configuration from file. An empty path yields defaults plus
// environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Key "netproc.capture.interface" maps to env NETPROC_CAPTURE_INTERFACE.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var root configRoot
	if err := v.Unmarshal(&root, viper.DecodeHook(decodeHook())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg := root.Netproc

	if err := cfg.ValidateAndApplyDefaults(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		// Only environment overrides can break defaults.
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	// Capture defaults
	v.SetDefault("netproc.capture.source", SourceLive)
	v.SetDefault("netproc.capture.interface", "")
	v.SetDefault("netproc.capture.file", "")
	v.SetDefault("netproc.capture.snap_len", 1518)
	v.SetDefault("netproc.capture.promiscuous", true)
	v.SetDefault("netproc.capture.timeout", "1s")
	v.SetDefault("netproc.capture.filter", "ip")
	v.SetDefault("netproc.capture.count", 0)
	v.SetDefault("netproc.capture.buffer_size_mb", 8)

	// Identity defaults
	v.SetDefault("netproc.identity.addresses", []string{})
	v.SetDefault("netproc.identity.loopback", core.DefaultLoopback.String())

	// Process defaults
	v.SetDefault("netproc.process.enabled", true)
	v.SetDefault("netproc.process.refresh_interval", "5s")
	v.SetDefault("netproc.process.ttl", "10m")

	// Report defaults
	v.SetDefault("netproc.report.format", FormatTable)
	v.SetDefault("netproc.report.output", "-")
	v.SetDefault("netproc.report.sort", "bytes")

	// Metrics defaults
	v.SetDefault("netproc.metrics.enabled", false)
	v.SetDefault("netproc.metrics.listen", ":9464")
	v.SetDefault("netproc.metrics.path", "/metrics")

	// Log defaults
	v.SetDefault("netproc.log.level", "info")
	v.SetDefault("netproc.log.format", LogFormatPattern)
	v.SetDefault("netproc.log.pattern", "%time [%level] %field %msg\n")
	v.SetDefault("netproc.log.time", "2006-01-02 15:04:05.000")
	v.SetDefault("netproc.log.file.enabled", false)
	v.SetDefault("netproc.log.file.path", "/var/log/netproc/netproc.log")
	v.SetDefault("netproc.log.file.max_size_mb", 100)
	v.SetDefault("netproc.log.file.max_backups", 5)
	v.SetDefault("netproc.log.file.max_age_days", 30)
	v.SetDefault("netproc.log.file.compress", true)
}

// ValidateAndApplyDefaults validates the loaded configuration and fills
// values that depend on other values.
func (cfg *Config) ValidateAndApplyDefaults() error {
	// ── Log validation ──
	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	if !validLevels[cfg.Log.Level] {
		return invalid("invalid log level: %s (must be trace/debug/info/warn/error)", cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case LogFormatPattern, LogFormatNested, LogFormatJSON:
	default:
		return invalid("invalid log format: %s (must be pattern/nested/json)", cfg.Log.Format)
	}
	if cfg.Log.File.Enabled && cfg.Log.File.Path == "" {
		return invalid("log.file.path is required when log.file.enabled=true")
	}

	// ── Capture validation ──
	switch cfg.Capture.Source {
	case SourceLive, SourceAFPacket:
	case SourceFile:
		if cfg.Capture.File == "" {
			return invalid("capture.file is required when capture.source=file")
		}
	default:
		return invalid("unsupported capture.source: %s (must be live/afpacket/file)", cfg.Capture.Source)
	}
	if cfg.Capture.SnapLen < MinSnapLen {
		return invalid("capture.snap_len must be >= %d, got %d", MinSnapLen, cfg.Capture.SnapLen)
	}
	if cfg.Capture.Count < 0 {
		return invalid("capture.count must be >= 0, got %d", cfg.Capture.Count)
	}
	if cfg.Capture.Timeout <= 0 {
		cfg.Capture.Timeout = time.Second
	}
	if cfg.Capture.BufferSizeMB <= 0 {
		cfg.Capture.BufferSizeMB = 8
	}

	// ── Identity ──
	if !cfg.Identity.Loopback.IsValid() {
		cfg.Identity.Loopback = core.DefaultLoopback
	}
	for _, addr := range cfg.Identity.Addresses {
		if !addr.Unmap().Is4() {
			return invalid("identity.addresses: %s is not an IPv4 address", addr)
		}
	}

	// ── Process ──
	if cfg.Process.RefreshInterval <= 0 {
		cfg.Process.RefreshInterval = 5 * time.Second
	}
	if cfg.Process.TTL < cfg.Process.RefreshInterval {
		cfg.Process.TTL = 2 * cfg.Process.RefreshInterval
	}

	// ── Report ──
	switch cfg.Report.Format {
	case FormatTable, FormatJSON, FormatYAML:
	default:
		return invalid("invalid report.format: %s (must be table/json/yaml)", cfg.Report.Format)
	}
	if cfg.Report.Sort != "bytes" && cfg.Report.Sort != "port" {
		return invalid("invalid report.sort: %s (must be bytes/port)", cfg.Report.Sort)
	}
	if cfg.Report.Output == "" {
		cfg.Report.Output = "-"
	}

	// ── Metrics ──
	if cfg.Metrics.Enabled && cfg.Metrics.Listen == "" {
		return invalid("metrics.listen is required when metrics.enabled=true")
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	return nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", core.ErrConfigInvalid, fmt.Sprintf(format, args...))
}
