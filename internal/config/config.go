package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	OutputDir  string
	LogLevel   string
	LogPretty  bool
	Benchmark  string
	HTTPRateRPS float64

	Analysis AnalysisConfig
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		OutputDir:   getEnv("OUTPUT_DIR", "./output"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogPretty:   getEnvAsBool("LOG_PRETTY", true),
		Benchmark:   getEnv("BENCHMARK_SYMBOL", "^IXIC"),
		HTTPRateRPS: getEnvAsFloat("HTTP_RATE_RPS", 4),
		Analysis:    DefaultAnalysisConfig(),
	}

	// Optional TOML file with analysis parameters
	if path := getEnv("ANALYSIS_CONFIG", ""); path != "" {
		analysis, err := LoadAnalysisConfig(path)
		if err != nil {
			return nil, err
		}
		cfg.Analysis = *analysis
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR is required")
	}
	if c.Analysis.RiskFreeRate < 0 || c.Analysis.RiskFreeRate >= 1 {
		return fmt.Errorf("risk_free_rate must be in [0, 1), got %f", c.Analysis.RiskFreeRate)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
