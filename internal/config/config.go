// Package config provides configuration management for cmk.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/ciceromark-cli/internal/logging"
	"github.com/open-cli-collective/ciceromark-cli/internal/view"
	"github.com/open-cli-collective/ciceromark-cli/pkg/ciceromark"
	"github.com/open-cli-collective/ciceromark-cli/pkg/pdf"
)

// Config holds the cmk configuration. Every field is optional.
type Config struct {
	OutputFormat string `yaml:"output_format,omitempty"`
	CodeMarks    string `yaml:"code_marks,omitempty"`

	PDFBackend   string  `yaml:"pdf_backend,omitempty"`
	PDFOutputDir string  `yaml:"pdf_output_dir,omitempty"`
	PDFFileName  string  `yaml:"pdf_file_name,omitempty"`
	PDFPageSize  string  `yaml:"pdf_page_size,omitempty"`
	PDFFontSize  float64 `yaml:"pdf_font_size,omitempty"`

	LogLevel  string `yaml:"log_level,omitempty"`
	LogFormat string `yaml:"log_format,omitempty"`
}

// Validate checks that every set field holds an accepted value.
func (c *Config) Validate() error {
	if err := view.ValidateFormat(c.OutputFormat); err != nil {
		return err
	}
	if _, err := ciceromark.ParseCodeMarkPolicy(c.CodeMarks); err != nil {
		return err
	}
	if c.PDFBackend != "" && !slices.Contains(pdf.ValidBackends, c.PDFBackend) {
		return fmt.Errorf("invalid pdf backend %q (valid: %s)", c.PDFBackend, strings.Join(pdf.ValidBackends, ", "))
	}
	if err := c.PDFConfig().Validate(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.LogFormat != "" && !slices.Contains(logging.ValidFormats, c.LogFormat) {
		return fmt.Errorf("invalid log format %q (valid: %s)", c.LogFormat, strings.Join(logging.ValidFormats, ", "))
	}
	return nil
}

// CodeMarkPolicy returns the parsed code mark policy.
func (c *Config) CodeMarkPolicy() (ciceromark.CodeMarkPolicy, error) {
	return ciceromark.ParseCodeMarkPolicy(c.CodeMarks)
}

// PDFConfig returns the page layout settings.
func (c *Config) PDFConfig() pdf.Config {
	return pdf.Config{PageSize: c.PDFPageSize, FontSize: c.PDFFontSize}
}

// PDFOptions returns the export options derived from the configuration.
func (c *Config) PDFOptions() pdf.Options {
	return pdf.Options{
		FileName: c.PDFFileName,
		Path:     c.PDFOutputDir,
		Config:   c.PDFConfig(),
	}
}

// LoggingConfig returns the logger settings.
func (c *Config) LoggingConfig() logging.Config {
	return logging.Config{Level: c.LogLevel, Format: c.LogFormat}
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and non-empty.
func (c *Config) LoadFromEnv() {
	if output := os.Getenv("CMK_OUTPUT"); output != "" {
		c.OutputFormat = output
	}
	if marks := os.Getenv("CMK_CODE_MARKS"); marks != "" {
		c.CodeMarks = marks
	}
	if backend := os.Getenv("CMK_PDF_BACKEND"); backend != "" {
		c.PDFBackend = backend
	}
	if dir := os.Getenv("CMK_PDF_OUTPUT_DIR"); dir != "" {
		c.PDFOutputDir = dir
	}
	if name := os.Getenv("CMK_PDF_FILE_NAME"); name != "" {
		c.PDFFileName = name
	}
	if size := os.Getenv("CMK_PDF_PAGE_SIZE"); size != "" {
		c.PDFPageSize = size
	}
	if size := os.Getenv("CMK_PDF_FONT_SIZE"); size != "" {
		if parsed, err := strconv.ParseFloat(size, 64); err == nil {
			c.PDFFontSize = parsed
		}
	}
	if level := getEnvWithFallback("CMK_LOG_LEVEL", "LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
	if format := getEnvWithFallback("CMK_LOG_FORMAT", "LOG_FORMAT"); format != "" {
		c.LogFormat = format
	}
}

// getEnvWithFallback returns the value of the primary env var, or the fallback if primary is empty.
func getEnvWithFallback(primary, fallback string) string {
	if v := os.Getenv(primary); v != "" {
		return v
	}
	return os.Getenv(fallback)
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	// Try XDG config directory first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "cmk", "config.yml")
	}

	// Fall back to ~/.config/cmk/config.yml
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".cmk", "config.yml")
	}

	return filepath.Join(home, ".config", "cmk", "config.yml")
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write with restricted permissions (user read/write only)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file and overrides with environment
// variables. A missing file yields the defaults; a malformed one is an error.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	return cfg, nil
}
