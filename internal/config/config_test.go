package config

import (
	"os"
	"path/filepath"
	"testing"
)

// ── Load / Defaults ──

func TestLoadReturnsDefaults(t *testing.T) {
	os.Unsetenv("STOCKSCOPE_PORTFOLIO_RISK_FREE_RATE")
	os.Unsetenv("STOCKSCOPE_OUTPUT_DIR")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Source.CacheTTLSec != 900 {
		t.Errorf("Source.CacheTTLSec: got %d, want 900", cfg.Source.CacheTTLSec)
	}
	if cfg.Source.RequestsPerSec != 5 {
		t.Errorf("Source.RequestsPerSec: got %d, want 5", cfg.Source.RequestsPerSec)
	}

	if cfg.Indicators.SMAWindow != 20 {
		t.Errorf("Indicators.SMAWindow: got %d, want 20", cfg.Indicators.SMAWindow)
	}
	if cfg.Indicators.EMAFast != 20 || cfg.Indicators.EMASlow != 50 {
		t.Errorf("EMA windows: got %d/%d, want 20/50", cfg.Indicators.EMAFast, cfg.Indicators.EMASlow)
	}
	if cfg.Indicators.MACDFast != 12 || cfg.Indicators.MACDSlow != 26 || cfg.Indicators.MACDSignal != 9 {
		t.Errorf("MACD windows: got %d/%d/%d, want 12/26/9",
			cfg.Indicators.MACDFast, cfg.Indicators.MACDSlow, cfg.Indicators.MACDSignal)
	}
	if !cfg.Indicators.AnnualizeVol {
		t.Error("Indicators.AnnualizeVol should default to true")
	}

	if cfg.Portfolio.RiskFreeRate != 0.02 {
		t.Errorf("Portfolio.RiskFreeRate: got %f, want 0.02", cfg.Portfolio.RiskFreeRate)
	}

	if cfg.Output.Format != "html" {
		t.Errorf("Output.Format: got %q, want %q", cfg.Output.Format, "html")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestEnvOverride(t *testing.T) {
	os.Setenv("STOCKSCOPE_PORTFOLIO_RISK_FREE_RATE", "0.045")
	defer os.Unsetenv("STOCKSCOPE_PORTFOLIO_RISK_FREE_RATE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Portfolio.RiskFreeRate != 0.045 {
		t.Errorf("env override not applied: got %f, want 0.045", cfg.Portfolio.RiskFreeRate)
	}
}

// ── LoadFromFile ──

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
source:
  cache_ttl_sec: 60
indicators:
  ema_fast: 10
  ema_slow: 30
portfolio:
  risk_free_rate: 0.05
output:
  dir: /tmp/reports
  format: text
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}

	if cfg.Source.CacheTTLSec != 60 {
		t.Errorf("Source.CacheTTLSec: got %d, want 60", cfg.Source.CacheTTLSec)
	}
	if cfg.Indicators.EMAFast != 10 || cfg.Indicators.EMASlow != 30 {
		t.Errorf("EMA windows: got %d/%d, want 10/30", cfg.Indicators.EMAFast, cfg.Indicators.EMASlow)
	}
	if cfg.Portfolio.RiskFreeRate != 0.05 {
		t.Errorf("Portfolio.RiskFreeRate: got %f, want 0.05", cfg.Portfolio.RiskFreeRate)
	}
	if cfg.Output.Dir != "/tmp/reports" || cfg.Output.Format != "text" {
		t.Errorf("output: got %q/%q", cfg.Output.Dir, cfg.Output.Format)
	}
	// Untouched sections keep their defaults.
	if cfg.Indicators.MACDSlow != 26 {
		t.Errorf("Indicators.MACDSlow default lost: got %d", cfg.Indicators.MACDSlow)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}
