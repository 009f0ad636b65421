// Package config loads ocrlayout settings from a YAML file, an optional .env
// file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/gardar/ocrlayout/pkg/gdocai"
	"github.com/gardar/ocrlayout/pkg/layout"
	"github.com/gardar/ocrlayout/pkg/pdftext"
)

// Engine names accepted in the configuration.
const (
	EngineTesseract = "tesseract"
	EngineDocAI     = "docai"
)

// Config is the complete ocrlayout configuration.
type Config struct {
	Engine    string          `yaml:"engine"`
	Language  string          `yaml:"language"` // Tesseract language list, e.g. "eng" or "ara+eng"
	RTL       bool            `yaml:"rtl"`      // force right-to-left ordering
	Workers   int             `yaml:"workers"`  // images recognized in parallel
	LogLevel  string          `yaml:"log_level"`
	DocAI     gdocai.Config   `yaml:"docai"`
	Tesseract TesseractConfig `yaml:"tesseract"`
	Layout    LayoutConfig    `yaml:"layout"`
	PDF       PDFConfig       `yaml:"pdf"`
}

// TesseractConfig holds settings passed to the Tesseract engine.
type TesseractConfig struct {
	PageSegMode int               `yaml:"psm"` // 0 leaves Tesseract's default
	Variables   map[string]string `yaml:"variables"`
}

// LayoutConfig overrides reconstruction constants. Zero values keep the defaults.
type LayoutConfig struct {
	BandTolerance  float64 `yaml:"band_tolerance"`
	ClusterRatio   float64 `yaml:"cluster_ratio"`
	MinClusterGap  float64 `yaml:"min_cluster_gap"`
	MinLineHeight  float64 `yaml:"min_line_height"`
	MinCharPitch   float64 `yaml:"min_char_pitch"`
	MaxRun         int     `yaml:"max_run"`
	BlankLineRatio float64 `yaml:"blank_line_ratio"`
}

// PDFConfig holds PDF output settings.
type PDFConfig struct {
	LayerName string  `yaml:"layer_name"`
	PageSize  string  `yaml:"page_size"`
	FontSize  float64 `yaml:"font_size"`
	Debug     bool    `yaml:"debug"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Engine:   EngineTesseract,
		Language: "eng",
		Workers:  2,
		LogLevel: "info",
		DocAI:    gdocai.Config{Location: "us"},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is not empty), then environment overrides. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadEnvFile loads variables from .env style files into the environment.
// Existing variables are not overwritten and missing files are ignored.
func LoadEnvFile(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Engine = getEnvOrDefault("OCRLAYOUT_ENGINE", c.Engine)
	c.Language = getEnvOrDefault("OCRLAYOUT_LANG", c.Language)
	c.RTL = getEnvAsBoolOrDefault("OCRLAYOUT_RTL", c.RTL)
	c.Workers = getEnvAsIntOrDefault("OCRLAYOUT_WORKERS", c.Workers)
	c.LogLevel = getEnvOrDefault("OCRLAYOUT_LOG_LEVEL", c.LogLevel)

	c.DocAI.ProjectID = getEnvOrDefault("DOCAI_PROJECT_ID", c.DocAI.ProjectID)
	c.DocAI.Location = getEnvOrDefault("DOCAI_LOCATION", c.DocAI.Location)
	c.DocAI.ProcessorID = getEnvOrDefault("DOCAI_PROCESSOR_ID", c.DocAI.ProcessorID)
	c.DocAI.CredentialsFile = getEnvOrDefault("GOOGLE_APPLICATION_CREDENTIALS", c.DocAI.CredentialsFile)
}

// Validate checks the engine selection and numeric ranges.
func (c *Config) Validate() error {
	c.Engine = strings.ToLower(strings.TrimSpace(c.Engine))
	switch c.Engine {
	case EngineTesseract:
	case EngineDocAI:
		if err := c.DocAI.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown engine %q (want %s or %s)", c.Engine, EngineTesseract, EngineDocAI)
	}
	if c.Workers < 1 || c.Workers > 64 {
		return fmt.Errorf("workers must be between 1 and 64, got %d", c.Workers)
	}
	if c.Tesseract.PageSegMode < 0 || c.Tesseract.PageSegMode > 13 {
		return fmt.Errorf("tesseract psm must be between 0 and 13, got %d", c.Tesseract.PageSegMode)
	}
	return nil
}

// LayoutOptions converts the layout section into reconstruction options.
func (c *Config) LayoutOptions() layout.Config {
	cfg := layout.DefaultConfig()
	l := c.Layout
	setIfPositive(&cfg.BandTolerance, l.BandTolerance)
	setIfPositive(&cfg.ClusterRatio, l.ClusterRatio)
	setIfPositive(&cfg.MinClusterGap, l.MinClusterGap)
	setIfPositive(&cfg.MinLineHeight, l.MinLineHeight)
	setIfPositive(&cfg.MinCharPitch, l.MinCharPitch)
	setIfPositive(&cfg.BlankLineRatio, l.BlankLineRatio)
	if l.MaxRun > 0 {
		cfg.MaxRun = l.MaxRun
	}
	return cfg
}

// PDFOptions converts the pdf section into renderer settings.
func (c *Config) PDFOptions() pdftext.Config {
	cfg := pdftext.DefaultConfig()
	if c.PDF.LayerName != "" {
		cfg.LayerName = c.PDF.LayerName
	}
	if c.PDF.PageSize != "" {
		cfg.PageSize = c.PDF.PageSize
	}
	if c.PDF.FontSize > 0 {
		cfg.Font.Size = c.PDF.FontSize
	}
	cfg.Debug = c.PDF.Debug
	return cfg
}

func setIfPositive(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
