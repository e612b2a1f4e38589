package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// AnalysisConfig holds the tunable parameters of a metrics run.
type AnalysisConfig struct {
	// RiskFreeRate is the annual risk-free rate as a decimal (0.03 = 3%).
	RiskFreeRate float64 `toml:"risk_free_rate"`
	// RollingWindowDays is the window for the rolling-returns chart.
	RollingWindowDays int `toml:"rolling_window_days"`
	// RSIPeriod is the lookback for the per-holding RSI indicator.
	RSIPeriod int `toml:"rsi_period"`
}

// DefaultAnalysisConfig returns the built-in analysis parameters.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		RiskFreeRate:      0.03,
		RollingWindowDays: 30,
		RSIPeriod:         14,
	}
}

// LoadAnalysisConfig loads analysis parameters from a TOML file.
// Fields missing from the file keep their defaults.
func LoadAnalysisConfig(path string) (*AnalysisConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("analysis config not found: %s", path)
	}

	cfg := DefaultAnalysisConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config: %w", err)
	}

	return &cfg, nil
}
