package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oukeidos/sentiview/internal/metadata"
	"github.com/oukeidos/sentiview/internal/pipeline"
	"github.com/oukeidos/sentiview/internal/sentiment"
)

// useTempConfig isolates a test from the user's config files and
// environment and returns the path of a config file holding body.
func useTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	for _, name := range []string{
		"SENTIVIEW_BACKEND", "SENTIVIEW_MODEL", "SENTIVIEW_CONCURRENCY", "SENTIVIEW_QPS",
		"SENTIVIEW_TIMEOUT", "SENTIVIEW_LOG_LEVEL", "OLLAMA_HOST", "OLLAMA_MODEL", "NO_COLOR",
	} {
		t.Setenv(name, "")
	}
	if body == "" {
		body = "log_level: error\n"
	}
	path := filepath.Join(dir, "sentiview.yaml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

type pipelineCall struct {
	cfg  pipeline.Config
	text string
}

// stubPipeline labels a line Positive when it contains "good".
func stubPipeline(t *testing.T) *[]pipelineCall {
	t.Helper()
	calls := &[]pipelineCall{}
	prev := runPipeline
	runPipeline = func(_ context.Context, cfg pipeline.Config, text string, onProgress func(sentiment.Progress)) (sentiment.Report, error) {
		*calls = append(*calls, pipelineCall{cfg: cfg, text: text})
		lines := sentiment.SplitUtterances(text)
		results := make([]sentiment.Result, len(lines))
		for i, line := range lines {
			label := sentiment.Negative
			if strings.Contains(line, "good") {
				label = sentiment.Positive
			}
			results[i] = sentiment.Result{Utterance: line, Label: label}
			if onProgress != nil {
				onProgress(sentiment.Progress{Done: i + 1, Total: len(lines)})
			}
		}
		return sentiment.Report{
			Backend: string(cfg.Backend),
			Model:   cfg.Model,
			Text:    strings.TrimSpace(text),
			Results: results,
			Counts:  sentiment.Tally(results),
		}, nil
	}
	t.Cleanup(func() { runPipeline = prev })
	return calls
}

func TestAnalyze_EmptyInput(t *testing.T) {
	cfgPath := useTempConfig(t, "")
	calls := stubPipeline(t)

	_, err := executeCommandWithInput(t, "  \n\t\n", "analyze", "--config", cfgPath, "-")
	if !errors.Is(err, sentiment.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if err.Error() != "Please enter some text to analyze." {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if len(*calls) != 0 {
		t.Fatalf("pipeline should not run for empty input")
	}
}

func TestAnalyze_TextOutput(t *testing.T) {
	cfgPath := useTempConfig(t, "")
	stubPipeline(t)

	out, err := executeCommandWithInput(t, "a good day\nterrible food\nso good\n", "--config", cfgPath, "--color", "never")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"Sentence: a good day\nAnalysis: 😊 Positive",
		"Sentence: terrible food\nAnalysis: 😞 Negative",
		"Overall Sentiment: 😊 Positive (2 Positive, 1 Negative)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no escape codes with --color never")
	}
}

func TestAnalyze_JSONOutput(t *testing.T) {
	cfgPath := useTempConfig(t, "")
	stubPipeline(t)

	out, err := executeCommandWithInput(t, "good\nbad\n", "analyze", "--config", cfgPath, "--format", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got struct {
		Results []struct {
			Sentence string `json:"sentence"`
			Label    string `json:"label"`
		} `json:"results"`
		Counts  sentiment.Counts `json:"counts"`
		Summary string           `json:"summary"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(got.Results) != 2 || got.Results[0].Label != "Positive" || got.Results[1].Label != "Negative" {
		t.Fatalf("unexpected results: %+v", got.Results)
	}
	if got.Counts != (sentiment.Counts{Positive: 1, Negative: 1}) {
		t.Fatalf("unexpected counts: %+v", got.Counts)
	}
	if !strings.Contains(got.Summary, "Balanced") {
		t.Fatalf("unexpected summary: %q", got.Summary)
	}
}

func TestAnalyze_ConfigAndFlagPrecedence(t *testing.T) {
	cfgPath := useTempConfig(t, "backend: ollama\nmodel: from-file\nanalysis:\n  concurrency: 2\nlog_level: error\n")
	calls := stubPipeline(t)

	if _, err := executeCommandWithInput(t, "good\n", "analyze", "--config", cfgPath, "--concurrency", "7", "--ollama-host", "http://gpu:11434"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*calls) != 1 {
		t.Fatalf("expected one pipeline run, got %d", len(*calls))
	}
	cfg := (*calls)[0].cfg
	if cfg.Backend != metadata.BackendOllama || cfg.Model != "from-file" {
		t.Fatalf("expected file backend/model, got %s/%s", cfg.Backend, cfg.Model)
	}
	if cfg.Concurrency != 7 || cfg.OllamaHost != "http://gpu:11434" {
		t.Fatalf("expected flag overrides, got concurrency=%d host=%q", cfg.Concurrency, cfg.OllamaHost)
	}
}

func TestAnalyze_HostedBackendUsesResolvedKey(t *testing.T) {
	cfgPath := useTempConfig(t, "")
	calls := stubPipeline(t)
	_, restore := withKeyStubs(t, false, "", "kc-secret", "")
	defer restore()

	if _, err := executeCommandWithInput(t, "good\n", "analyze", "--config", cfgPath, "--backend", "gemini"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg := (*calls)[0].cfg
	if cfg.APIKey != "kc-secret" {
		t.Fatalf("expected keychain key to reach the pipeline")
	}
	if cfg.Model != "" {
		t.Fatalf("switching backend should drop the file model, got %q", cfg.Model)
	}
}

func TestAnalyze_HostedBackendWithoutKeyFails(t *testing.T) {
	cfgPath := useTempConfig(t, "")
	calls := stubPipeline(t)
	_, restore := withKeyStubs(t, false, "", "", "")
	defer restore()

	_, err := executeCommandWithInput(t, "good\n", "analyze", "--config", cfgPath, "--backend", "openai")
	if err == nil || !strings.Contains(err.Error(), "API key") {
		t.Fatalf("expected missing key error, got %v", err)
	}
	if len(*calls) != 0 {
		t.Fatalf("pipeline should not run without a key")
	}
}

func TestAnalyze_PipelineErrorReturned(t *testing.T) {
	cfgPath := useTempConfig(t, "")
	prev := runPipeline
	runPipeline = func(context.Context, pipeline.Config, string, func(sentiment.Progress)) (sentiment.Report, error) {
		return sentiment.Report{}, errors.New("backend down")
	}
	defer func() { runPipeline = prev }()

	_, err := executeCommandWithInput(t, "good\n", "analyze", "--config", cfgPath)
	if err == nil || !strings.Contains(err.Error(), "backend down") {
		t.Fatalf("expected pipeline error, got %v", err)
	}
}

func TestAnalyze_ReadsFile(t *testing.T) {
	cfgPath := useTempConfig(t, "")
	calls := stubPipeline(t)
	input := filepath.Join(t.TempDir(), "reviews.txt")
	if err := os.WriteFile(input, []byte("\ufeffgood one\nbad one\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := executeCommand(t, "--config", cfgPath, input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := (*calls)[0].text; strings.HasPrefix(got, "\ufeff") || !strings.Contains(got, "good one") {
		t.Fatalf("unexpected text passed to pipeline: %q", got)
	}
}

func TestAnalyze_OutFile(t *testing.T) {
	cfgPath := useTempConfig(t, "")
	stubPipeline(t)
	dir := t.TempDir()
	outPath := filepath.Join(dir, "results.txt")

	if _, err := executeCommandWithInput(t, "good\nbad\n", "analyze", "--config", cfgPath, "--out", outPath); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read results: %v", err)
	}
	want := "Sentence: good\nAnalysis: 😊 Positive\n\nSentence: bad\nAnalysis: 😞 Negative"
	if string(data) != want {
		t.Fatalf("results file = %q, want %q", data, want)
	}
}

func TestAnalyze_OutFileExisting(t *testing.T) {
	cases := []struct {
		name      string
		args      []string
		confirm   bool
		wantAlt   bool
		wantAsked bool
	}{
		{name: "yes_flag", args: []string{"-y"}},
		{name: "confirmed", confirm: true, wantAsked: true},
		{name: "declined", confirm: false, wantAlt: true, wantAsked: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfgPath := useTempConfig(t, "")
			stubPipeline(t)
			dir := t.TempDir()
			outPath := filepath.Join(dir, "results.txt")
			if err := os.WriteFile(outPath, []byte("old"), 0600); err != nil {
				t.Fatal(err)
			}

			asked := false
			prev := confirmOverwrite
			confirmOverwrite = func(_ string, force bool) (bool, error) {
				if force {
					return true, nil
				}
				asked = true
				return tc.confirm, nil
			}
			defer func() { confirmOverwrite = prev }()

			args := append([]string{"analyze", "--config", cfgPath, "--out", outPath}, tc.args...)
			if _, err := executeCommandWithInput(t, "good\n", args...); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if asked != tc.wantAsked {
				t.Fatalf("asked = %v, want %v", asked, tc.wantAsked)
			}
			old, _ := os.ReadFile(outPath)
			alt, altErr := os.ReadFile(filepath.Join(dir, "results_1.txt"))
			if tc.wantAlt {
				if string(old) != "old" || altErr != nil || !strings.Contains(string(alt), "Sentence: good") {
					t.Fatalf("expected original kept and results_1.txt written; old=%q altErr=%v", old, altErr)
				}
			} else if !strings.Contains(string(old), "Sentence: good") {
				t.Fatalf("expected overwrite, got %q", old)
			}
		})
	}
}

func TestAnalyze_ImageOutputs(t *testing.T) {
	cfgPath := useTempConfig(t, "")
	stubPipeline(t)
	dir := t.TempDir()
	chartPath := filepath.Join(dir, "chart.png")
	cloudPath := filepath.Join(dir, "cloud.png")

	if _, err := executeCommandWithInput(t, "good coffee\nbad weather today\n", "analyze", "--config", cfgPath,
		"--chart-out", chartPath, "--cloud-out", cloudPath); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range []string{chartPath, cloudPath} {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("read %s: %v", p, err)
		}
		if !strings.HasPrefix(string(data), "\x89PNG") {
			t.Fatalf("%s is not a PNG", p)
		}
	}
}
