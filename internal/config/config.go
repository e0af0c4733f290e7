// Package config handles configuration loading for StockScope.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Source     SourceConfig     `mapstructure:"source"     yaml:"source"`
	Indicators IndicatorConfig  `mapstructure:"indicators" yaml:"indicators"`
	Portfolio  PortfolioConfig  `mapstructure:"portfolio"  yaml:"portfolio"`
	Output     OutputConfig     `mapstructure:"output"     yaml:"output"`
	Logging    LoggingConfig    `mapstructure:"logging"    yaml:"logging"`
}

// SourceConfig holds market-data source settings.
type SourceConfig struct {
	CacheTTLSec    int `mapstructure:"cache_ttl_sec"    yaml:"cache_ttl_sec"`
	RequestsPerSec int `mapstructure:"requests_per_sec" yaml:"requests_per_sec"`
	TimeoutSec     int `mapstructure:"timeout_sec"      yaml:"timeout_sec"`
	NewsLimit      int `mapstructure:"news_limit"       yaml:"news_limit"`
}

// IndicatorConfig holds default indicator window sizes.
type IndicatorConfig struct {
	SMAWindow        int  `mapstructure:"sma_window"         yaml:"sma_window"`
	EMAFast          int  `mapstructure:"ema_fast"           yaml:"ema_fast"`
	EMASlow          int  `mapstructure:"ema_slow"           yaml:"ema_slow"`
	MACDFast         int  `mapstructure:"macd_fast"          yaml:"macd_fast"`
	MACDSlow         int  `mapstructure:"macd_slow"          yaml:"macd_slow"`
	MACDSignal       int  `mapstructure:"macd_signal"        yaml:"macd_signal"`
	VolatilityWindow int  `mapstructure:"volatility_window"  yaml:"volatility_window"`
	ZScoreWindow     int  `mapstructure:"zscore_window"      yaml:"zscore_window"`
	AnnualizeVol     bool `mapstructure:"annualize_vol"      yaml:"annualize_vol"`
}

// PortfolioConfig holds portfolio metric settings.
type PortfolioConfig struct {
	RiskFreeRate float64 `mapstructure:"risk_free_rate" yaml:"risk_free_rate"` // annual, e.g. 0.02
}

// OutputConfig holds report output settings.
type OutputConfig struct {
	Dir    string `mapstructure:"dir"    yaml:"dir"`
	Format string `mapstructure:"format" yaml:"format"` // "html" or "text"
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "console" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.stockscope/config.yaml (home directory)
//  3. /etc/stockscope/config.yaml (system)
//
// Environment variables override config file values.
// Format: STOCKSCOPE_<SECTION>_<KEY>, e.g. STOCKSCOPE_PORTFOLIO_RISK_FREE_RATE
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".stockscope"))
	v.AddConfigPath("/etc/stockscope")

	v.SetEnvPrefix("STOCKSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — use defaults + env vars.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("STOCKSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Data source defaults
	v.SetDefault("source.cache_ttl_sec", 900) // 15 minutes for daily bars
	v.SetDefault("source.requests_per_sec", 5)
	v.SetDefault("source.timeout_sec", 30)
	v.SetDefault("source.news_limit", 10)

	// Indicator defaults
	v.SetDefault("indicators.sma_window", 20)
	v.SetDefault("indicators.ema_fast", 20)
	v.SetDefault("indicators.ema_slow", 50)
	v.SetDefault("indicators.macd_fast", 12)
	v.SetDefault("indicators.macd_slow", 26)
	v.SetDefault("indicators.macd_signal", 9)
	v.SetDefault("indicators.volatility_window", 20)
	v.SetDefault("indicators.zscore_window", 20)
	v.SetDefault("indicators.annualize_vol", true)

	// Portfolio defaults
	v.SetDefault("portfolio.risk_free_rate", 0.02)

	// Output defaults
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.format", "html")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
