package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/oukeidos/sentiview/internal/metadata"
	"github.com/oukeidos/sentiview/internal/sentiment"
)

// Config holds everything needed for one analysis run.
type Config struct {
	// Backend selection
	Backend    metadata.Backend
	Model      string
	APIKey     string
	OllamaHost string

	// Processing parameters
	Concurrency int
	QPS         int
	MaxAttempts int
	// Timeout bounds the whole run. Zero means no limit beyond the caller's context.
	Timeout time.Duration
}

const (
	MinConcurrency     = 1
	MaxConcurrency     = sentiment.MaxConcurrency
	DefaultConcurrency = 4
	MaxQPS             = 50
)

func ClampConcurrency(value int) (int, bool) {
	if value < MinConcurrency {
		return MinConcurrency, true
	}
	if value > MaxConcurrency {
		return MaxConcurrency, true
	}
	return value, false
}

// Normalize fills defaults and applies safe bounds, returning a note per change.
func (c Config) Normalize() (Config, []string) {
	var notes []string
	if strings.TrimSpace(string(c.Backend)) == "" {
		c.Backend = metadata.DefaultBackend
		notes = append(notes, fmt.Sprintf("backend defaulted to %s", c.Backend))
	} else if b, err := metadata.ParseBackend(string(c.Backend)); err == nil {
		c.Backend = b
	}
	c.Model = strings.TrimSpace(c.Model)
	if c.Model == "" {
		if def := metadata.DefaultModel(c.Backend); def != "" {
			c.Model = def
			notes = append(notes, fmt.Sprintf("model defaulted to %s", def))
		}
	}
	if clamped, changed := ClampConcurrency(c.Concurrency); changed {
		notes = append(notes, fmt.Sprintf("concurrency clamped from %d to %d (max %d)", c.Concurrency, clamped, MaxConcurrency))
		c.Concurrency = clamped
	}
	if c.QPS < 0 {
		c.QPS = 0
	}
	if c.QPS > MaxQPS {
		notes = append(notes, fmt.Sprintf("qps clamped from %d to %d", c.QPS, MaxQPS))
		c.QPS = MaxQPS
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = sentiment.DefaultMaxAttempts
	}
	c.APIKey = strings.TrimSpace(c.APIKey)
	return c, notes
}

// Validate checks that the configuration can build a classifier.
func (c Config) Validate() error {
	b, err := metadata.ParseBackend(string(c.Backend))
	if err != nil {
		return err
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be greater than 0, got %d", c.Concurrency)
	}
	if b.NeedsAPIKey() && c.APIKey == "" {
		return fmt.Errorf("API key is required for %s", b.DisplayName())
	}
	return nil
}

func (c Config) options() sentiment.Options {
	ramp := time.Duration(0)
	if c.Backend.NeedsAPIKey() && c.Concurrency > 1 {
		ramp = time.Second
	}
	return sentiment.Options{
		Concurrency: c.Concurrency,
		QPS:         c.QPS,
		MaxAttempts: c.MaxAttempts,
		RampUp:      ramp,
	}
}
