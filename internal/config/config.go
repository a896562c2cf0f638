// =============================================================================
// SVG Badge Generator - Configuration Module
// =============================================================================
//
// This module loads and validates the run configuration. All settings have
// sensible defaults; a YAML file is entirely optional and CLI flags override
// whatever the file says.
//
// RESOLUTION ORDER:
//   1. Built-in defaults (Default)
//   2. YAML configuration file (Load)
//   3. Command line flags (applied by the cmd package)
//
// =============================================================================

package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultTagPrefix marks substitutable text nodes in the SVG template.
// A placeholder identifier is <prefix><column><slot>, e.g. PXTAG_name1.
const DefaultTagPrefix = "PXTAG_"

// DefaultReportFile is the name of the XLSX run manifest.
const DefaultReportFile = "badges.xlsx"

// =============================================================================
// CONFIGURATION STRUCTURES
// =============================================================================

// Config holds the full run configuration.
type Config struct {
	// TagPrefix is the placeholder prefix used in the SVG template.
	// Default: "PXTAG_"
	TagPrefix string `yaml:"tag_prefix"`

	// Delimiter is the field delimiter of the attendee table.
	// Accepts a single character or one of the aliases "tab", "pipe",
	// "semicolon", "comma".
	// Default: tab
	Delimiter string `yaml:"delimiter"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// PDF contains the settings for the best-effort PDF conversion step.
	PDF PDFSettings `yaml:"pdf"`

	// Report contains the settings for the optional XLSX run manifest.
	Report ReportSettings `yaml:"report"`
}

// PDFSettings configures the external SVG-to-PDF converter.
type PDFSettings struct {
	// Enabled determines whether PDF conversion is attempted at all.
	// When no converter is installed the step is skipped either way.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// ConverterPath points at a specific converter executable. When empty,
	// Inkscape and rsvg-convert are looked up on the execution path and in
	// well-known installation locations.
	ConverterPath string `yaml:"converter_path"`

	// TimeoutSeconds bounds a single conversion. Exceeding it counts as a
	// non-fatal converter failure; the run continues without that PDF.
	// Default: 60
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// ReportSettings configures the XLSX run manifest.
type ReportSettings struct {
	// Enabled determines whether the manifest is written.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// FileName is the manifest file name inside the output directory.
	// Default: "badges.xlsx"
	FileName string `yaml:"file_name"`
}

// =============================================================================
// LOADING
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		TagPrefix: DefaultTagPrefix,
		Delimiter: "tab",
		LogLevel:  "info",
		PDF: PDFSettings{
			Enabled:        true,
			TimeoutSeconds: 60,
		},
		Report: ReportSettings{
			Enabled:  false,
			FileName: DefaultReportFile,
		},
	}
}

// Load reads a YAML configuration file on top of the defaults.
// Keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for values the pipeline cannot work with.
func (c *Config) Validate() error {
	if c.TagPrefix == "" {
		return fmt.Errorf("tag_prefix must not be empty")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q (want debug, info, warn or error)", c.LogLevel)
	}

	if c.PDF.TimeoutSeconds <= 0 {
		return fmt.Errorf("pdf.timeout_seconds must be positive, got %d", c.PDF.TimeoutSeconds)
	}

	if c.Report.FileName == "" {
		return fmt.Errorf("report.file_name must not be empty")
	}

	return nil
}

// =============================================================================
// ACCESSORS
// =============================================================================

// SlogLevel maps the configured log level onto a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// PDFTimeout returns the converter timeout as a duration.
func (c *Config) PDFTimeout() time.Duration {
	return time.Duration(c.PDF.TimeoutSeconds) * time.Second
}
