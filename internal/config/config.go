// Package config handles configuration loading for ARQV30.
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
	LLM      LLMConfig      `mapstructure:"llm"      yaml:"llm"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Research ResearchConfig `mapstructure:"research" yaml:"research"`
	Report   ReportConfig   `mapstructure:"report"   yaml:"report"`
	API      APIConfig      `mapstructure:"api"      yaml:"api"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// LLMConfig holds Gemini provider configuration.
type LLMConfig struct {
	GeminiKey   string  `mapstructure:"gemini_key"  yaml:"gemini_key"`
	Model       string  `mapstructure:"model"       yaml:"model"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
	TopP        float64 `mapstructure:"top_p"       yaml:"top_p"`
	TopK        int     `mapstructure:"top_k"       yaml:"top_k"`
	MaxTokens   int     `mapstructure:"max_tokens"  yaml:"max_tokens"`
}

// DatabaseConfig holds PostgreSQL settings. An empty URL disables the
// history store.
type DatabaseConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

// ResearchConfig holds web research settings.
type ResearchConfig struct {
	Enabled     bool `mapstructure:"enabled"       yaml:"enabled"`
	MaxPerQuery int  `mapstructure:"max_per_query" yaml:"max_per_query"`
}

// ReportConfig holds report generation settings.
type ReportConfig struct {
	Author    string `mapstructure:"author"     yaml:"author"`
	PDFEngine string `mapstructure:"pdf_engine" yaml:"pdf_engine"` // "wkhtmltopdf", "chromium", "" for auto
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
}

// APIConfig holds HTTP server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config.yaml (working directory)
//  2. ~/.arqv30/config.yaml (home directory)
//  3. /etc/arqv30/config.yaml (system)
//
// Environment variables override config file values.
// Format: ARQV30_<SECTION>_<KEY>, e.g., ARQV30_LLM_GEMINI_KEY
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(filepath.Join(homeDir(), ".arqv30"))
	v.AddConfigPath("/etc/arqv30")

	v.SetEnvPrefix("ARQV30")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)

	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("ARQV30")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// LLM defaults mirror the original product's generation settings.
	v.SetDefault("llm.model", "gemini-1.5-flash")
	v.SetDefault("llm.temperature", 0.6)
	v.SetDefault("llm.top_p", 0.8)
	v.SetDefault("llm.top_k", 40)
	v.SetDefault("llm.max_tokens", 8192)

	// Research defaults
	v.SetDefault("research.enabled", true)
	v.SetDefault("research.max_per_query", 4)

	// Report defaults
	v.SetDefault("report.author", "ARQV30")
	v.SetDefault("report.output_dir", "reports")

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"*"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads sensitive keys from environment
// variables. The plain GEMINI_API_KEY and DATABASE_URL names are
// honored for compatibility with the original deployment.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("ARQV30_LLM_GEMINI_KEY"); key != "" {
		cfg.LLM.GeminiKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" && cfg.LLM.GeminiKey == "" {
		cfg.LLM.GeminiKey = key
	}
	if url := os.Getenv("ARQV30_DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}
	if url := os.Getenv("DATABASE_URL"); url != "" && cfg.Database.URL == "" {
		cfg.Database.URL = url
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
