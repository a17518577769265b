// Package config loads converter settings from YAML files and UDF_*
// environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/udf/ocr"
	"github.com/tsawler/udf/render"
)

// Config holds the full converter configuration.
type Config struct {
	CanonicalFont        string       `yaml:"canonical_font"`
	PreferDeclaredFamily bool         `yaml:"prefer_declared_family"`
	Fonts                FontFiles    `yaml:"fonts"`
	ImagePlaceholder     string       `yaml:"image_placeholder"`
	MarkdownPlaceholder  string       `yaml:"markdown_image_placeholder"`
	MaxInputMB           int          `yaml:"max_input_mb"`
	LogLevel             string       `yaml:"log_level"`
	LogFormat            string       `yaml:"log_format"`
	OCR                  OCRConfig    `yaml:"ocr"`
	PDF                  PDFConfig    `yaml:"pdf"`
	Server               ServerConfig `yaml:"server"`
}

// FontFiles are TrueType files embedded in PDF output for the canonical
// family. Missing styles fall back to the closest configured one.
type FontFiles struct {
	Regular    string `yaml:"regular"`
	Bold       string `yaml:"bold"`
	Italic     string `yaml:"italic"`
	BoldItalic string `yaml:"bold_italic"`
}

// IsZero reports whether no font file is configured.
func (f FontFiles) IsZero() bool { return f == FontFiles{} }

// OCRConfig configures image text recognition in Markdown output.
type OCRConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Language string `yaml:"language"`
}

// PDFConfig configures the PDF backend.
type PDFConfig struct {
	Optimize bool `yaml:"optimize"`
}

// ServerConfig configures the HTTP conversion service.
type ServerConfig struct {
	Listen    string `yaml:"listen"`
	MaxBodyMB int    `yaml:"max_body_mb"`
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		CanonicalFont:       render.DefaultCanonicalFont,
		ImagePlaceholder:    render.DefaultImagePlaceholder,
		MarkdownPlaceholder: render.DefaultMarkdownPlaceholder,
		MaxInputMB:          100,
		LogLevel:            "info",
		LogFormat:           "text",
		OCR:                 OCRConfig{Language: ocr.DefaultLanguage},
		Server: ServerConfig{
			Listen:    ":8080",
			MaxBodyMB: 32,
		},
	}
}

// LoadConfig reads and parses a YAML config file. Returns DefaultConfig
// merged with the file and the environment.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.ApplyEnvironment(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// FromEnvironment returns DefaultConfig with environment overrides applied.
func FromEnvironment() (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.ApplyEnvironment(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnvironment overrides fields from UDF_* variables.
func (c *Config) ApplyEnvironment() error {
	strs := map[string]*string{
		"UDF_CANONICAL_FONT":             &c.CanonicalFont,
		"UDF_FONT_REGULAR":               &c.Fonts.Regular,
		"UDF_FONT_BOLD":                  &c.Fonts.Bold,
		"UDF_FONT_ITALIC":                &c.Fonts.Italic,
		"UDF_FONT_BOLD_ITALIC":           &c.Fonts.BoldItalic,
		"UDF_IMAGE_PLACEHOLDER":          &c.ImagePlaceholder,
		"UDF_MARKDOWN_IMAGE_PLACEHOLDER": &c.MarkdownPlaceholder,
		"UDF_LOG_LEVEL":                  &c.LogLevel,
		"UDF_LOG_FORMAT":                 &c.LogFormat,
		"UDF_OCR_LANGUAGE":               &c.OCR.Language,
		"UDF_LISTEN":                     &c.Server.Listen,
	}
	for key, field := range strs {
		if val := os.Getenv(key); val != "" {
			*field = val
		}
	}

	bools := map[string]*bool{
		"UDF_PREFER_DECLARED_FAMILY": &c.PreferDeclaredFamily,
		"UDF_OCR_ENABLED":            &c.OCR.Enabled,
		"UDF_PDF_OPTIMIZE":           &c.PDF.Optimize,
	}
	for key, field := range bools {
		if val := os.Getenv(key); val != "" {
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*field = b
		}
	}

	ints := map[string]*int{
		"UDF_MAX_INPUT_MB": &c.MaxInputMB,
		"UDF_MAX_BODY_MB":  &c.Server.MaxBodyMB,
	}
	for key, field := range ints {
		if val := os.Getenv(key); val != "" {
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*field = n
		}
	}
	return nil
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.CanonicalFont) == "" {
		return fmt.Errorf("canonical_font is required")
	}
	if c.MaxInputMB <= 0 {
		return fmt.Errorf("max_input_mb must be > 0")
	}
	if c.Server.MaxBodyMB <= 0 {
		return fmt.Errorf("server.max_body_mb must be > 0")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log_level %q (use debug, info, warn or error)", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log_format %q (use text or json)", c.LogFormat)
	}
	if c.Fonts.IsZero() {
		return nil
	}
	if c.Fonts.Regular == "" {
		return fmt.Errorf("fonts.regular is required when other font files are set")
	}
	return nil
}

// MaxInputBytes returns the input size limit in bytes.
func (c *Config) MaxInputBytes() int64 { return int64(c.MaxInputMB) * 1024 * 1024 }

// MaxBodyBytes returns the request body limit in bytes.
func (c *Config) MaxBodyBytes() int64 { return int64(c.Server.MaxBodyMB) * 1024 * 1024 }
