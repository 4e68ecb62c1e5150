// Package pipeline builds a classifier from configuration and runs one analysis.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oukeidos/sentiview/internal/gemini"
	"github.com/oukeidos/sentiview/internal/logger"
	"github.com/oukeidos/sentiview/internal/metadata"
	"github.com/oukeidos/sentiview/internal/ollama"
	"github.com/oukeidos/sentiview/internal/openai"
	"github.com/oukeidos/sentiview/internal/sentiment"
)

// classifierFactory is swapped out in tests.
var classifierFactory = NewClassifier

// NewClassifier builds the backend named by cfg. The returned close func
// must be called once the classifier is no longer needed.
func NewClassifier(ctx context.Context, cfg Config) (sentiment.Classifier, func(), error) {
	noop := func() {}
	switch cfg.Backend {
	case metadata.BackendGemini:
		c, err := gemini.NewClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return c, func() {
			if err := c.Close(); err != nil {
				logger.Debug("Gemini client close failed", "error", err)
			}
		}, nil
	case metadata.BackendOpenAI:
		return openai.NewClient(cfg.APIKey, cfg.Model), noop, nil
	case metadata.BackendOllama:
		c, err := ollama.NewClient(cfg.OllamaHost, cfg.Model)
		if err != nil {
			return nil, noop, err
		}
		return c, noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// Run classifies every non-blank line of text with the configured backend.
func Run(ctx context.Context, cfg Config, text string, onProgress func(sentiment.Progress)) (sentiment.Report, error) {
	if strings.TrimSpace(text) == "" {
		return sentiment.Report{}, sentiment.ErrEmptyInput
	}

	cfg, notes := cfg.Normalize()
	for _, note := range notes {
		logger.Debug("Config normalized", "detail", note)
	}
	if err := cfg.Validate(); err != nil {
		return sentiment.Report{}, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	classifier, closeFn, err := classifierFactory(ctx, cfg)
	if err != nil {
		return sentiment.Report{}, err
	}
	defer closeFn()

	runID := uuid.NewString()
	log := logger.With("run_id", runID, "backend", string(cfg.Backend), "model", cfg.Model)
	opts := cfg.options()
	opts.OnProgress = onProgress

	start := time.Now()
	log.Info("Starting analysis", "concurrency", opts.Concurrency)
	report, err := sentiment.Analyze(ctx, classifier, text, opts)
	if err != nil {
		log.Warn("Analysis failed", "error", err)
		return sentiment.Report{}, err
	}

	report.RunID = runID
	report.Backend = string(cfg.Backend)
	report.Model = cfg.Model
	report.Elapsed = time.Since(start)
	log.Info("Analysis finished",
		"positive", report.Counts.Positive,
		"negative", report.Counts.Negative,
		"elapsed", report.Elapsed.Round(time.Millisecond))
	return report, nil
}
