package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig represents the application configuration loaded from YAML
type AppConfig struct {
	// Server settings
	Server ServerConfig `yaml:"server"`

	// Session and response processing settings
	Processing ProcessingConfig `yaml:"processing"`

	// Work order table analysis settings
	Analysis AnalysisConfig `yaml:"analysis"`

	// Logging and tracing settings
	Advanced AdvancedConfig `yaml:"advanced"`
}

// ServerConfig holds server-related settings
type ServerConfig struct {
	Port         int     `yaml:"port"`
	BindAddress  string  `yaml:"bind_address"`
	EnableCORS   bool    `yaml:"enable_cors"`
	AllowOrigins string  `yaml:"allow_origins"`
	ReadTimeout  int     `yaml:"read_timeout_seconds"`
	WriteTimeout int     `yaml:"write_timeout_seconds"`
	IdleTimeout  int     `yaml:"idle_timeout_seconds"`
	BodyLimit    string  `yaml:"body_limit"`
	RateLimit    float64 `yaml:"rate_limit_per_second"` // 0 disables rate limiting
	RateBurst    int     `yaml:"rate_burst"`
}

// ProcessingConfig holds session and response settings
type ProcessingConfig struct {
	SessionTimeoutMinutes  int  `yaml:"session_timeout_minutes"`
	CleanupIntervalMinutes int  `yaml:"cleanup_interval_minutes"`
	MaxSessions            int  `yaml:"max_sessions"`
	MaxUploadMB            int  `yaml:"max_upload_mb"` // decompressed size of an uploaded export
	EnableCompression      bool `yaml:"enable_compression"`
	CompressionLevel       int  `yaml:"compression_level"`
}

// AnalysisConfig holds column inference and ranking settings
type AnalysisConfig struct {
	MinHeaderColumns int    `yaml:"min_header_columns"`
	PatternsFile     string `yaml:"patterns_file"` // empty uses the built-in keywords
	TopN             int    `yaml:"top_n"`
}

// AdvancedConfig holds logging and tracing settings
type AdvancedConfig struct {
	LogLevel             string `yaml:"log_level"`
	LogFormat            string `yaml:"log_format"` // text or json
	EnableRequestLogging bool   `yaml:"enable_request_logging"`
	EnableTracing        bool   `yaml:"enable_tracing"`
	ShowErrorDetails     bool   `yaml:"show_error_details"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8089,
			BindAddress:  "0.0.0.0",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  120,
			BodyLimit:    "20M",
			RateLimit:    20,
			RateBurst:    40,
		},
		Processing: ProcessingConfig{
			SessionTimeoutMinutes:  30,
			CleanupIntervalMinutes: 5,
			MaxSessions:            50,
			MaxUploadMB:            64,
			EnableCompression:      true,
			CompressionLevel:       5,
		},
		Analysis: AnalysisConfig{
			MinHeaderColumns: 3,
			TopN:             10,
		},
		Advanced: AdvancedConfig{
			LogLevel:             "info",
			LogFormat:            "text",
			EnableRequestLogging: true,
			EnableTracing:        false,
			ShowErrorDetails:     false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, creates it with default values
func LoadConfig(configPath string) (*AppConfig, error) {
	var config *AppConfig

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config = DefaultConfig()
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Unset keys keep their defaults
		config = DefaultConfig()
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.applyEnvironmentOverrides()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.resolvePaths(filepath.Dir(configPath))

	return config, nil
}

// Save saves the configuration to a YAML file
func (c *AppConfig) Save(configPath string) error {
	output, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# MTBF Work Order Analyzer configuration\n# This file is auto-generated on first run\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate rejects settings the server cannot run with
func (c *AppConfig) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Analysis.MinHeaderColumns < 1 {
		return fmt.Errorf("min_header_columns must be at least 1, got %d", c.Analysis.MinHeaderColumns)
	}
	if c.Processing.MaxUploadMB < 1 {
		return fmt.Errorf("max_upload_mb must be at least 1, got %d", c.Processing.MaxUploadMB)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("rate_limit_per_second must not be negative, got %v", c.Server.RateLimit)
	}
	switch c.Advanced.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format: %q", c.Advanced.LogFormat)
	}
	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if patterns := os.Getenv("MTBF_PATTERNS_FILE"); patterns != "" {
		c.Analysis.PatternsFile = patterns
	}

	if level := os.Getenv("MTBF_LOG_LEVEL"); level != "" {
		c.Advanced.LogLevel = level
	}
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	if c.Analysis.PatternsFile != "" && !filepath.IsAbs(c.Analysis.PatternsFile) {
		c.Analysis.PatternsFile = filepath.Join(configDir, c.Analysis.PatternsFile)
	}
}

// MaxUploadBytes returns the upload size limit in bytes
func (c *AppConfig) MaxUploadBytes() int64 {
	return int64(c.Processing.MaxUploadMB) << 20
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// SessionTimeout returns how long an idle analysis is kept
func (c *AppConfig) SessionTimeout() time.Duration {
	return time.Duration(c.Processing.SessionTimeoutMinutes) * time.Minute
}

// CleanupInterval returns the period of the session cleanup ticker
func (c *AppConfig) CleanupInterval() time.Duration {
	if c.Processing.CleanupIntervalMinutes <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.Processing.CleanupIntervalMinutes) * time.Minute
}
