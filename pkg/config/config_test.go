package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "softwlan.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.USB.RxAggTimeout != 0x80 {
		t.Errorf("RxAggTimeout = %#x, want 0x80", cfg.USB.RxAggTimeout)
	}
	if cfg.USB.RxAggLimit != 21 {
		t.Errorf("RxAggLimit = %d, want 21", cfg.USB.RxAggLimit)
	}
	if cfg.Bringup.AbortOnPLLFailure {
		t.Error("AbortOnPLLFailure should default to false")
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}
	if cfg.Timing.ASICReadyPolls != 100 {
		t.Errorf("ASICReadyPolls = %d, want 100", cfg.Timing.ASICReadyPolls)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: json
usb:
  rxAggLimit: 32
  burstWords: 16
bringup:
  abortOnPllFailure: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log = %+v, want debug/json", cfg.Log)
	}
	if cfg.USB.RxAggLimit != 32 {
		t.Errorf("RxAggLimit = %d, want 32", cfg.USB.RxAggLimit)
	}
	if cfg.USB.RxAggTimeout != 0x80 {
		t.Errorf("RxAggTimeout = %#x, want default 0x80", cfg.USB.RxAggTimeout)
	}
	if !cfg.Bringup.AbortOnPLLFailure {
		t.Error("AbortOnPLLFailure not loaded")
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadUnknownKey(t *testing.T) {
	path := writeConfig(t, "usb:\n  rxAggLimt: 3\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for misspelled key")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"LOG_LEVEL", "info")
	t.Setenv(EnvPrefix+"USB_RX_AGG_TIMEOUT", "0x40")
	t.Setenv(EnvPrefix+"ABORT_ON_PLL_FAILURE", "true")

	cfg := Default()
	if err := applyEnvOverrides(cfg); err != nil {
		t.Fatalf("applyEnvOverrides failed: %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.USB.RxAggTimeout != 0x40 {
		t.Errorf("RxAggTimeout = %#x, want 0x40", cfg.USB.RxAggTimeout)
	}
	if !cfg.Bringup.AbortOnPLLFailure {
		t.Error("AbortOnPLLFailure override not applied")
	}
}

func TestApplyEnvOverridesInvalid(t *testing.T) {
	t.Setenv(EnvPrefix+"STATS_PERIOD_MS", "soon")

	err := applyEnvOverrides(Default())
	if err == nil || !strings.Contains(err.Error(), "STATS_PERIOD_MS") {
		t.Errorf("applyEnvOverrides error = %v, want STATS_PERIOD_MS error", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
		{"transfer timeout", func(c *Config) { c.USB.TransferTimeoutMs = 0 }},
		{"agg timeout", func(c *Config) { c.USB.RxAggTimeout = 256 }},
		{"agg limit", func(c *Config) { c.USB.RxAggLimit = -1 }},
		{"burst words", func(c *Config) { c.USB.BurstWords = 0 }},
		{"asic polls", func(c *Config) { c.Timing.ASICReadyPolls = 0 }},
		{"stats period", func(c *Config) { c.Timing.StatsPeriodMs = 0 }},
		{"backoff range", func(c *Config) { c.Timing.AttachMaxBackoffMs = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestDeviceOptions(t *testing.T) {
	cfg := Default()
	cfg.USB.RxAggLimit = 8
	cfg.Timing.StatsPeriodMs = 250
	cfg.Bringup.AbortOnPLLFailure = true

	opts := cfg.DeviceOptions()
	if opts.RxAggTimeout != 0x80 || opts.RxAggLimit != 8 {
		t.Errorf("aggregation = %#x/%d, want 0x80/8", opts.RxAggTimeout, opts.RxAggLimit)
	}
	if opts.StatsPeriod != 250*time.Millisecond {
		t.Errorf("StatsPeriod = %v, want 250ms", opts.StatsPeriod)
	}
	if !opts.AbortOnPLLFailure {
		t.Error("AbortOnPLLFailure not propagated")
	}
	if opts.ASICReadyPolls != 100 {
		t.Errorf("ASICReadyPolls = %d, want 100", opts.ASICReadyPolls)
	}
}

func TestAttachBackoff(t *testing.T) {
	min, max := Default().AttachBackoff()
	if min != 100*time.Millisecond || max != 5*time.Second {
		t.Errorf("AttachBackoff() = %v, %v; want 100ms, 5s", min, max)
	}
}
