// Package config loads CLI settings from YAML files and the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/oukeidos/sentiview/internal/logger"
	"github.com/oukeidos/sentiview/internal/metadata"
	"github.com/oukeidos/sentiview/internal/pipeline"
)

type Config struct {
	Backend  string         `yaml:"backend"`
	Model    string         `yaml:"model"`
	Ollama   OllamaConfig   `yaml:"ollama"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Output   OutputConfig   `yaml:"output"`
	LogLevel string         `yaml:"log_level"`
	LogFile  string         `yaml:"log_file"`
}

type OllamaConfig struct {
	Host string `yaml:"host"`
}

type AnalysisConfig struct {
	Concurrency int           `yaml:"concurrency"`
	QPS         int           `yaml:"qps"`
	MaxAttempts int           `yaml:"max_attempts"`
	Timeout     time.Duration `yaml:"timeout"`
}

type OutputConfig struct {
	Format string `yaml:"format"` // text or json
	Color  string `yaml:"color"`  // auto, always or never
}

func DefaultConfig() *Config {
	return &Config{
		Backend: string(metadata.DefaultBackend),
		Analysis: AnalysisConfig{
			Concurrency: pipeline.DefaultConcurrency,
			MaxAttempts: 3,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  "auto",
		},
		LogLevel: "info",
	}
}

func (c *Config) Validate() error {
	if _, err := metadata.ParseBackend(c.Backend); err != nil {
		return fmt.Errorf("backend: %w", err)
	}
	if c.Analysis.Concurrency < 0 {
		return fmt.Errorf("analysis.concurrency must not be negative")
	}
	if c.Analysis.QPS < 0 {
		return fmt.Errorf("analysis.qps must not be negative")
	}
	if c.Analysis.Timeout < 0 {
		return fmt.Errorf("analysis.timeout must not be negative")
	}
	switch strings.ToLower(c.Output.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("output.format must be text or json, got %q", c.Output.Format)
	}
	switch strings.ToLower(c.Output.Color) {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("output.color must be auto, always or never, got %q", c.Output.Color)
	}
	if _, ok := logger.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// Pipeline converts the file settings into a run configuration. The API
// key is resolved separately from the keychain.
func (c *Config) Pipeline() pipeline.Config {
	b, _ := metadata.ParseBackend(c.Backend)
	return pipeline.Config{
		Backend:     b,
		Model:       c.Model,
		OllamaHost:  c.Ollama.Host,
		Concurrency: c.Analysis.Concurrency,
		QPS:         c.Analysis.QPS,
		MaxAttempts: c.Analysis.MaxAttempts,
		Timeout:     c.Analysis.Timeout,
	}
}
