package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"github.com/oukeidos/sentiview/internal/chart"
	"github.com/oukeidos/sentiview/internal/files"
	"github.com/oukeidos/sentiview/internal/logger"
	"github.com/oukeidos/sentiview/internal/sentiment"
	"github.com/oukeidos/sentiview/internal/wordcloud"
)

type jsonReport struct {
	sentiment.Report
	Summary string `json:"summary"`
}

func writeJSON(w io.Writer, report sentiment.Report) error {
	data, err := json.MarshalIndent(jsonReport{Report: report, Summary: report.Summary()}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// writeArtifacts saves the optional results file and images.
func writeArtifacts(report sentiment.Report, opts *analyzeOptions) error {
	if opts.outPath != "" {
		path, err := overwriteCheck(opts.outPath, opts.yes)
		if err != nil {
			return err
		}
		if err := files.AtomicWrite(path, []byte(strings.TrimSpace(report.ResultsText())), 0644); err != nil {
			return fmt.Errorf("failed to save results: %w", err)
		}
		logger.Info("Results saved", "path", path)
	}
	if opts.chartOut != "" {
		img, err := chart.Render(chart.SentimentSpec(report.Counts), chart.LightPalette)
		if err != nil {
			return fmt.Errorf("failed to draw chart: %w", err)
		}
		if err := savePNG(opts.chartOut, img, opts.yes); err != nil {
			return err
		}
	}
	if opts.cloudOut != "" {
		img, err := wordcloud.Render(report.Text, wordcloud.DefaultOptions(), wordcloud.LightPalette)
		if errors.Is(err, wordcloud.ErrNoWords) {
			logger.Warn("Word cloud skipped; no words left after filtering")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to draw word cloud: %w", err)
		}
		if err := savePNG(opts.cloudOut, img, opts.yes); err != nil {
			return err
		}
	}
	return nil
}

func savePNG(path string, img image.Image, force bool) error {
	path, err := overwriteCheck(path, force)
	if err != nil {
		return err
	}
	if err := files.AtomicWriteFunc(path, 0644, func(w io.Writer) error {
		return png.Encode(w, img)
	}); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Info("Image saved", "path", path)
	return nil
}
