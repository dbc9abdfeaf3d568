// Package config loads driver settings from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/ardnew/softwlan/mt7601u"
	"github.com/ardnew/softwlan/pkg"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SOFTWLAN_"

// Config is the complete driver configuration.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	USB     USBConfig     `yaml:"usb"`
	Timing  TimingConfig  `yaml:"timing"`
	Bringup BringupConfig `yaml:"bringup"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // "text", "json" or "" to pick by terminal
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMb"`
	MaxBackups int    `yaml:"maxBackups"`
}

// USBConfig holds transport and bulk aggregation settings.
type USBConfig struct {
	TransferTimeoutMs int `yaml:"transferTimeoutMs"`
	RxAggTimeout      int `yaml:"rxAggTimeout"` // USB_DMA_CFG RX_BULK_AGG_TOUT
	RxAggLimit        int `yaml:"rxAggLimit"`   // USB_DMA_CFG RX_BULK_AGG_LMT
	BurstWords        int `yaml:"burstWords"`   // registers per multi-write request
}

// TimingConfig holds polling and retry settings.
type TimingConfig struct {
	ASICReadyPolls     int `yaml:"asicReadyPolls"`
	StatsPeriodMs      int `yaml:"statsPeriodMs"`
	AttachMinBackoffMs int `yaml:"attachMinBackoffMs"`
	AttachMaxBackoffMs int `yaml:"attachMaxBackoffMs"`
}

// BringupConfig holds bring-up policy.
type BringupConfig struct {
	AbortOnPLLFailure bool `yaml:"abortOnPllFailure"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:      "warn",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		USB: USBConfig{
			TransferTimeoutMs: 500,
			RxAggTimeout:      0x80,
			RxAggLimit:        21,
			BurstWords:        64,
		},
		Timing: TimingConfig{
			ASICReadyPolls:     100,
			StatsPeriodMs:      100,
			AttachMinBackoffMs: 100,
			AttachMaxBackoffMs: 5000,
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path (skipped
// when path is empty) and SOFTWLAN_* environment variables, validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays a YAML file onto cfg.
func loadFromFile(cfg *Config, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, cfg)
}

// applyEnvOverrides applies environment variable overrides.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_FILE"); v != "" {
		cfg.Log.File = v
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"USB_TRANSFER_TIMEOUT_MS", &cfg.USB.TransferTimeoutMs},
		{"USB_RX_AGG_TIMEOUT", &cfg.USB.RxAggTimeout},
		{"USB_RX_AGG_LIMIT", &cfg.USB.RxAggLimit},
		{"USB_BURST_WORDS", &cfg.USB.BurstWords},
		{"ASIC_READY_POLLS", &cfg.Timing.ASICReadyPolls},
		{"STATS_PERIOD_MS", &cfg.Timing.StatsPeriodMs},
	}
	for _, x := range ints {
		s := os.Getenv(EnvPrefix + x.name)
		if s == "" {
			continue
		}
		n, err := strconv.ParseInt(s, 0, 32)
		if err != nil {
			return fmt.Errorf("invalid %s%s=%q: %w", EnvPrefix, x.name, s, err)
		}
		*x.dst = int(n)
	}

	if s := os.Getenv(EnvPrefix + "ABORT_ON_PLL_FAILURE"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("invalid %sABORT_ON_PLL_FAILURE=%q: %w", EnvPrefix, s, err)
		}
		cfg.Bringup.AbortOnPLLFailure = b
	}
	return nil
}

// Validate checks that every value is within hardware limits.
func (c *Config) Validate() error {
	if _, ok := pkg.ParseLogLevel(c.Log.Level); !ok {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log format %q, must be text or json", c.Log.Format)
	}
	if c.USB.TransferTimeoutMs <= 0 {
		return fmt.Errorf("usb transfer timeout %dms must be positive", c.USB.TransferTimeoutMs)
	}
	if c.USB.RxAggTimeout < 0 || c.USB.RxAggTimeout > 0xff {
		return fmt.Errorf("rx aggregation timeout %d outside [0, 255]", c.USB.RxAggTimeout)
	}
	if c.USB.RxAggLimit < 0 || c.USB.RxAggLimit > 0xff {
		return fmt.Errorf("rx aggregation limit %d outside [0, 255]", c.USB.RxAggLimit)
	}
	if c.USB.BurstWords < 1 || c.USB.BurstWords > 1024 {
		return fmt.Errorf("burst size %d words outside [1, 1024]", c.USB.BurstWords)
	}
	if c.Timing.ASICReadyPolls < 1 {
		return fmt.Errorf("asic ready polls %d must be positive", c.Timing.ASICReadyPolls)
	}
	if c.Timing.StatsPeriodMs < 1 {
		return fmt.Errorf("stats period %dms must be positive", c.Timing.StatsPeriodMs)
	}
	if c.Timing.AttachMinBackoffMs < 1 || c.Timing.AttachMaxBackoffMs < c.Timing.AttachMinBackoffMs {
		return fmt.Errorf("invalid attach backoff range [%d, %d]ms",
			c.Timing.AttachMinBackoffMs, c.Timing.AttachMaxBackoffMs)
	}
	return nil
}

// TransferTimeout returns the per-transfer USB timeout.
func (c *Config) TransferTimeout() time.Duration {
	return time.Duration(c.USB.TransferTimeoutMs) * time.Millisecond
}

// AttachBackoff returns the minimum and maximum delay between attach attempts.
func (c *Config) AttachBackoff() (min, max time.Duration) {
	return time.Duration(c.Timing.AttachMinBackoffMs) * time.Millisecond,
		time.Duration(c.Timing.AttachMaxBackoffMs) * time.Millisecond
}

// DeviceOptions converts the configuration into core options. Clock and
// transport parameters are left for the caller.
func (c *Config) DeviceOptions() mt7601u.Options {
	return mt7601u.Options{
		RxAggTimeout:      uint8(c.USB.RxAggTimeout),
		RxAggLimit:        uint8(c.USB.RxAggLimit),
		ASICReadyPolls:    c.Timing.ASICReadyPolls,
		StatsPeriod:       time.Duration(c.Timing.StatsPeriodMs) * time.Millisecond,
		AbortOnPLLFailure: c.Bringup.AbortOnPLLFailure,
	}
}

// ApplyLogging configures the shared logger from c. An empty format is
// resolved by the caller (see the wlan-up example) and treated as text here.
func (c *Config) ApplyLogging() error {
	level, _ := pkg.ParseLogLevel(c.Log.Level)
	pkg.SetLogLevel(level)
	if err := pkg.SetLogFile(c.Log.File, c.Log.MaxSizeMB, c.Log.MaxBackups); err != nil {
		return err
	}
	if c.Log.Format == "json" {
		pkg.SetLogFormat(pkg.LogFormatJSON)
	} else {
		pkg.SetLogFormat(pkg.LogFormatText)
	}
	return nil
}
