package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/oukeidos/sentiview/internal/logger"
	"gopkg.in/yaml.v3"
)

// SearchPaths lists config files from highest to lowest priority.
var SearchPaths = []string{
	"./.sentiview.yaml",
	"~/.config/sentiview/config.yaml",
}

// Loader merges defaults, config files and environment variables.
type Loader struct {
	paths  []string
	getenv func(string) string
}

func NewLoader() *Loader {
	return &Loader{paths: SearchPaths, getenv: os.Getenv}
}

// Load builds the effective configuration. When customPath is set only that
// file is read and it must exist. Otherwise every search path that exists is
// applied, lowest priority first. Environment variables win over files.
func (l *Loader) Load(customPath string) (*Config, error) {
	cfg := DefaultConfig()

	if customPath != "" {
		if err := checkYAMLPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := loadFile(cfg, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		for i := len(l.paths) - 1; i >= 0; i-- {
			path := expandHome(l.paths[i])
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if err := loadFile(cfg, path); err != nil {
				logger.Warn("Skipping unreadable config file", "path", path, "error", err)
				continue
			}
			logger.Debug("Loaded config file", "path", path)
		}
	}

	if err := l.applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile decodes path over cfg; keys absent from the file keep their value.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

func (l *Loader) applyEnv(cfg *Config) error {
	setters := []struct {
		name string
		set  func(string) error
	}{
		{"SENTIVIEW_BACKEND", func(v string) error { cfg.Backend = v; return nil }},
		{"SENTIVIEW_MODEL", func(v string) error { cfg.Model = v; return nil }},
		{"SENTIVIEW_CONCURRENCY", func(v string) error { return parseInt(v, &cfg.Analysis.Concurrency) }},
		{"SENTIVIEW_QPS", func(v string) error { return parseInt(v, &cfg.Analysis.QPS) }},
		{"SENTIVIEW_TIMEOUT", func(v string) error { return parseDuration(v, &cfg.Analysis.Timeout) }},
		{"SENTIVIEW_LOG_LEVEL", func(v string) error { cfg.LogLevel = v; return nil }},
		{"OLLAMA_HOST", func(v string) error { cfg.Ollama.Host = normalizeOllamaHost(v); return nil }},
	}
	for _, s := range setters {
		v := strings.TrimSpace(l.getenv(s.name))
		if v == "" {
			continue
		}
		if err := s.set(v); err != nil {
			return fmt.Errorf("invalid value for %s: %w", s.name, err)
		}
	}
	// OLLAMA_MODEL only applies when the ollama backend is in effect.
	if v := strings.TrimSpace(l.getenv("OLLAMA_MODEL")); v != "" && strings.EqualFold(cfg.Backend, "ollama") && l.getenv("SENTIVIEW_MODEL") == "" {
		cfg.Model = v
	}
	return nil
}

// normalizeOllamaHost accepts the bare host:port form the ollama CLI allows.
func normalizeOllamaHost(v string) string {
	if strings.Contains(v, "://") {
		return v
	}
	return "http://" + v
}

func checkYAMLPath(path string) error {
	clean := filepath.Clean(path)
	for _, part := range strings.Split(filepath.ToSlash(clean), "/") {
		if part == ".." {
			return errors.New("path traversal not allowed")
		}
	}
	ext := strings.ToLower(filepath.Ext(clean))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must be .yaml or .yml, got %q", ext)
	}
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

func parseInt(v string, dst *int) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func parseDuration(v string, dst *time.Duration) error {
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}
