package main

import (
	"strings"

	"fyne.io/fyne/v2"

	"github.com/oukeidos/sentiview/internal/logger"
	"github.com/oukeidos/sentiview/internal/metadata"
	"github.com/oukeidos/sentiview/internal/ollama"
	"github.com/oukeidos/sentiview/internal/pipeline"
)

// AppConfig is persisted in fyne Preferences. The theme is deliberately not part of it.
type AppConfig struct {
	Backend     metadata.Backend
	Model       string
	OllamaHost  string
	Concurrency int
}

const (
	prefBackend     = "Backend"
	prefModel       = "Model"
	prefOllamaHost  = "OllamaHost"
	prefConcurrency = "Concurrency"
)

func (a *guiApp) loadConfig() {
	a.config = readConfig(fyne.CurrentApp().Preferences())
}

func (a *guiApp) saveConfig() {
	writeConfig(fyne.CurrentApp().Preferences(), a.config)
}

func readConfig(prefs fyne.Preferences) AppConfig {
	var cfg AppConfig
	backend, err := metadata.ParseBackend(prefs.StringWithFallback(prefBackend, string(metadata.DefaultBackend)))
	if err != nil {
		logger.Warn("Unknown backend in preferences, using default", "error", err)
		backend = metadata.DefaultBackend
		prefs.SetString(prefBackend, string(backend))
	}
	cfg.Backend = backend
	cfg.Model = normalizeModel(backend, prefs.String(prefModel))
	cfg.OllamaHost = prefs.StringWithFallback(prefOllamaHost, ollama.DefaultHost)

	cfg.Concurrency = prefs.IntWithFallback(prefConcurrency, pipeline.DefaultConcurrency)
	if clamped, changed := pipeline.ClampConcurrency(cfg.Concurrency); changed {
		logger.Warn("Concurrency clamped", "requested", cfg.Concurrency, "effective", clamped, "max", pipeline.MaxConcurrency)
		cfg.Concurrency = clamped
		prefs.SetInt(prefConcurrency, clamped)
	}
	return cfg
}

func writeConfig(prefs fyne.Preferences, cfg AppConfig) {
	prefs.SetString(prefBackend, string(cfg.Backend))
	prefs.SetString(prefModel, cfg.Model)
	prefs.SetString(prefOllamaHost, cfg.OllamaHost)
	prefs.SetInt(prefConcurrency, cfg.Concurrency)
}

// normalizeModel keeps any name for ollama, which serves whatever the user
// has pulled. Hosted backends fall back to their default for unknown ids.
func normalizeModel(b metadata.Backend, model string) string {
	model = strings.TrimSpace(model)
	if model == "" {
		return metadata.DefaultModel(b)
	}
	if b == metadata.BackendOllama || metadata.Known(b, model) {
		return model
	}
	logger.Warn("Unknown model in preferences, using default", "backend", b, "model", model)
	return metadata.DefaultModel(b)
}

func (a *guiApp) pipelineConfig() pipeline.Config {
	return pipeline.Config{
		Backend:     a.config.Backend,
		Model:       a.config.Model,
		OllamaHost:  a.config.OllamaHost,
		Concurrency: a.config.Concurrency,
	}
}
