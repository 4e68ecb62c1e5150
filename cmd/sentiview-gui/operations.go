package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"github.com/oukeidos/sentiview/internal/apperrors"
	"github.com/oukeidos/sentiview/internal/chart"
	"github.com/oukeidos/sentiview/internal/logger"
	"github.com/oukeidos/sentiview/internal/sentiment"
	"github.com/oukeidos/sentiview/internal/source"
	"github.com/oukeidos/sentiview/internal/wordcloud"
)

const defaultResultsName = "sentiment_results.txt"

// visuals are the two images shown under the text areas. Either may be nil.
type visuals struct {
	chart *image.RGBA
	cloud *image.RGBA
}

func renderVisuals(report sentiment.Report, dark bool) visuals {
	chartPalette, cloudPalette := chart.LightPalette, wordcloud.LightPalette
	if dark {
		chartPalette, cloudPalette = chart.DarkPalette, wordcloud.DarkPalette
	}

	var v visuals
	img, err := chart.Render(chart.SentimentSpec(report.Counts), chartPalette)
	if err != nil {
		logger.Error("Chart rendering failed", "error", err)
	} else {
		v.chart = img
	}

	img, err = wordcloud.Render(report.Text, wordcloud.DefaultOptions(), cloudPalette)
	switch {
	case errors.Is(err, wordcloud.ErrNoWords):
		logger.Debug("Word cloud skipped: no words left after filtering")
	case err != nil:
		logger.Error("Word cloud rendering failed", "error", err)
	default:
		v.cloud = img
	}
	return v
}

func (a *guiApp) onAnalyze() {
	text := a.input.Text
	if strings.TrimSpace(text) == "" {
		a.notify("Input Error", apperrors.PublicMessage(sentiment.ErrEmptyInput))
		return
	}
	if a.jobs.Busy() {
		a.notify("Analysis Running", "An analysis is already running. Please wait for it to finish.")
		return
	}

	cfg := a.pipelineConfig()
	if cfg.Backend.NeedsAPIKey() {
		cfg.APIKey = a.lookupKey(string(cfg.Backend))
		if cfg.APIKey == "" {
			a.notify("No API Key", fmt.Sprintf("Please save a %s API key in Settings, or switch to the Ollama backend.", cfg.Backend.DisplayName()))
			return
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	id, err := a.jobs.TryStart(cancel)
	if err != nil {
		cancel()
		a.notify("Analysis Running", "An analysis is already running. Please wait for it to finish.")
		return
	}
	a.setBusy(true)
	dark := a.dark

	a.spawn("ops.analyze", func() {
		defer cancel()
		report, err := a.runAnalysis(ctx, cfg, text, func(p sentiment.Progress) {
			a.dispatch("ops.analyze.progress", func() {
				if a.jobs.Current(id) {
					a.showProgress(p)
				}
			})
		})
		var v visuals
		if err == nil {
			v = a.render(report, dark)
		}
		a.dispatch("ops.analyze.apply", func() {
			if !a.jobs.Finish(id) {
				logger.Debug("Dropping result of cancelled run", "run_id", report.RunID)
				return
			}
			a.setBusy(false)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				logger.Error("Analysis failed", "error", err)
				a.notify("Analysis Failed", apperrors.PublicMessage(err))
				return
			}
			a.applyReport(report, v)
			if a.dark != dark {
				a.rerenderVisuals()
			}
		})
	})
}

// applyReport replaces everything a previous run displayed.
func (a *guiApp) applyReport(report sentiment.Report, v visuals) {
	a.lastReport = &report
	a.results.SetText(report.ResultsText())
	a.setVisuals(v)
	a.summary.SetText(report.Summary())
	a.status.SetText(fmt.Sprintf("%s · %s", report.Backend, report.Model))
	logger.Info("Analysis applied", "run_id", report.RunID, "positive", report.Counts.Positive, "negative", report.Counts.Negative)
}

func (a *guiApp) setVisuals(v visuals) {
	a.chartBox.RemoveAll()
	a.cloudBox.RemoveAll()
	if v.chart != nil {
		b := v.chart.Bounds()
		a.chartBox.Add(imageObject(canvas.NewImageFromImage(v.chart), b.Dx(), b.Dy()))
	}
	if v.cloud != nil {
		b := v.cloud.Bounds()
		a.cloudBox.Add(imageObject(canvas.NewImageFromImage(v.cloud), b.Dx(), b.Dy()))
	}
	a.chartBox.Refresh()
	a.cloudBox.Refresh()
}

func (a *guiApp) setBusy(busy bool) {
	if busy {
		a.analyzeBtn.Disable()
		a.progress.SetValue(0)
		a.progress.Show()
		a.status.SetText("Analyzing...")
		return
	}
	a.analyzeBtn.Enable()
	a.progress.Hide()
	a.status.SetText("")
}

func (a *guiApp) showProgress(p sentiment.Progress) {
	if p.Total <= 0 {
		return
	}
	a.progress.SetValue(float64(p.Done) / float64(p.Total))
	a.status.SetText(fmt.Sprintf("Analyzing... %d/%d", p.Done, p.Total))
}

func (a *guiApp) onClear() {
	a.jobs.Cancel("cleared")
	a.setBusy(false)
	a.lastReport = nil
	a.input.SetText("")
	a.results.SetText("")
	a.setVisuals(visuals{})
	a.summary.SetText(sentiment.DefaultSummary)
}

func (a *guiApp) onSave() {
	content := strings.TrimSpace(a.results.Text)
	if content == "" {
		a.notify("No Results", "No results to save.")
		return
	}
	a.pickSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			a.notify("Error", fmt.Sprintf("Failed to save results: %v", err))
			return
		}
		if w == nil {
			return
		}
		if err := writeResults(w, content); err != nil {
			logger.Error("Saving results failed", "error", err)
			a.notify("Error", fmt.Sprintf("Failed to save results: %v", err))
			return
		}
		a.notify("Saved", "Results saved successfully!")
	})
}

// writeResults writes content as given and always closes w.
func writeResults(w io.WriteCloser, content string) (err error) {
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()
	_, err = io.WriteString(w, content)
	return err
}

func (a *guiApp) showSaveDialog(onChosen func(fyne.URIWriteCloser, error)) {
	fd := dialog.NewFileSave(onChosen, a.window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".txt"}))
	fd.SetFileName(defaultResultsName)
	fd.Show()
}

func (a *guiApp) onToggleTheme() {
	a.dark = !a.dark
	if app := fyne.CurrentApp(); app != nil {
		app.Settings().SetTheme(themeFor(a.dark))
	}
	a.rerenderVisuals()
}

// rerenderVisuals redraws the last report's images for the current theme off
// the UI thread. A result that no longer matches the theme or report is dropped.
func (a *guiApp) rerenderVisuals() {
	if a.lastReport == nil {
		return
	}
	report, dark := *a.lastReport, a.dark
	a.spawn("ops.theme.render", func() {
		v := a.render(report, dark)
		a.dispatch("ops.theme.apply", func() {
			if a.dark != dark || a.lastReport == nil || a.lastReport.RunID != report.RunID {
				return
			}
			a.setVisuals(v)
		})
	})
}

func (a *guiApp) onOpen() {
	a.pickOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			a.notify("Error", fmt.Sprintf("Failed to open file: %v", err))
			return
		}
		if r == nil {
			return
		}
		uri := r.URI()
		_ = r.Close()
		a.loadInput(uri)
	})
}

func (a *guiApp) showOpenDialog(onChosen func(fyne.URIReadCloser, error)) {
	fd := dialog.NewFileOpen(onChosen, a.window)
	fd.SetFilter(storage.NewExtensionFileFilter(source.SupportedExtensions()))
	fd.Show()
}

// loadInput replaces the input text with the contents of uri.
func (a *guiApp) loadInput(uri fyne.URI) {
	if uri == nil || uri.Scheme() != "file" {
		a.notify("Error", "Only local files can be opened.")
		return
	}
	path := uri.Path()
	a.spawn("ops.open", func() {
		text, err := source.Load(path)
		a.dispatch("ops.open.apply", func() {
			if err != nil {
				logger.Error("Loading input failed", "error", err)
				a.notify("Error", fmt.Sprintf("Failed to open file: %s", apperrors.PublicMessage(err)))
				return
			}
			a.input.SetText(text)
		})
	})
}
