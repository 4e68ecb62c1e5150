package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/oukeidos/sentiview/internal/cleanup"
	"github.com/oukeidos/sentiview/internal/config"
	"github.com/oukeidos/sentiview/internal/files"
	"github.com/oukeidos/sentiview/internal/logger"
	"github.com/oukeidos/sentiview/internal/metadata"
	"github.com/oukeidos/sentiview/internal/pipeline"
	"github.com/oukeidos/sentiview/internal/sentiment"
	"github.com/oukeidos/sentiview/internal/source"
	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	configPath  string
	backend     string
	model       string
	ollamaHost  string
	concurrency int
	qps         int
	timeout     time.Duration
	format      string
	color       string
	outPath     string
	chartOut    string
	cloudOut    string
	yes         bool
	watch       bool
	logFilePath string
	debug       bool
	allowEnv    bool
	envOnly     bool
}

func newAnalyzeCmd() *cobra.Command {
	opts := analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze [file|-]",
		Short: "Classify each line of a text file or stdin",
		Long: `Classify each non-blank line as Positive or Negative.

Plain text (.txt, .md) is read line by line. Subtitle files (.srt, .vtt,
.ass, .ssa, .ttml, .stl) contribute one line per subtitle item. With no
file, or "-", the text is read from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, &opts)
		},
		SilenceUsage: true,
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addAnalyzeFlags(cmd, &opts)
	return cmd
}

func addAnalyzeFlags(cmd *cobra.Command, opts *analyzeOptions) {
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "Classifier backend ("+strings.Join(metadata.BackendNames(), ", ")+")")
	cmd.Flags().StringVar(&opts.model, "model", "", "Model name (see 'sentiview models')")
	cmd.Flags().StringVar(&opts.ollamaHost, "ollama-host", "", "Ollama server URL")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", pipeline.DefaultConcurrency, fmt.Sprintf("Concurrent classifier requests (%d-%d)", pipeline.MinConcurrency, pipeline.MaxConcurrency))
	cmd.Flags().IntVar(&opts.qps, "qps", 0, "Maximum requests per second (0 = unlimited)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Abort the run after this long (0 = no limit)")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&opts.color, "color", "auto", "Colour output: auto, always or never")
	cmd.Flags().StringVarP(&opts.outPath, "out", "o", "", "Also save the results listing to this file")
	cmd.Flags().StringVar(&opts.chartOut, "chart-out", "", "Save the bar chart as PNG")
	cmd.Flags().StringVar(&opts.cloudOut, "cloud-out", "", "Save the word cloud as PNG")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Overwrite output files without asking")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-run whenever the input file changes")
	cmd.Flags().StringVar(&opts.logFilePath, "log-file", "", "Path to save machine-readable JSONL logs")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&opts.allowEnv, "allow-env", false, "Allow reading API keys from environment variables")
	cmd.Flags().BoolVar(&opts.envOnly, "env-only", false, "Use only environment variables for API keys")
}

// settings is the merged view of config file, environment and flags.
type settings struct {
	run    pipeline.Config
	format string
	color  string
}

func loadSettings(cmd *cobra.Command, opts *analyzeOptions) (settings, *config.Config, error) {
	fileCfg, err := config.NewLoader().Load(opts.configPath)
	if err != nil {
		return settings{}, nil, err
	}
	s := settings{
		run:    fileCfg.Pipeline(),
		format: fileCfg.Output.Format,
		color:  fileCfg.Output.Color,
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		b, err := metadata.ParseBackend(opts.backend)
		if err != nil {
			return settings{}, nil, err
		}
		if b != s.run.Backend && !flags.Changed("model") {
			s.run.Model = ""
		}
		s.run.Backend = b
	}
	if flags.Changed("model") {
		s.run.Model = opts.model
	}
	if flags.Changed("ollama-host") {
		s.run.OllamaHost = opts.ollamaHost
	}
	if flags.Changed("concurrency") || s.run.Concurrency == 0 {
		s.run.Concurrency = opts.concurrency
	}
	if flags.Changed("qps") {
		s.run.QPS = opts.qps
	}
	if flags.Changed("timeout") {
		s.run.Timeout = opts.timeout
	}
	if flags.Changed("format") {
		s.format = opts.format
	}
	if flags.Changed("color") {
		s.color = opts.color
	}
	s.format = strings.ToLower(s.format)
	if s.format != "text" && s.format != "json" {
		return settings{}, nil, fmt.Errorf("--format must be text or json, got %q", s.format)
	}
	return s, fileCfg, nil
}

func setupLogging(opts *analyzeOptions, fileCfg *config.Config) error {
	level, _ := logger.ParseLevel(fileCfg.LogLevel)
	if opts.debug {
		level = logger.LevelDebug
	}
	path := fileCfg.LogFile
	if opts.logFilePath != "" {
		path = opts.logFilePath
	}
	var logFileW io.Writer
	if path != "" {
		if err := files.RejectSymlinkPath(path); err != nil {
			return err
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		cleanup.Register("log file", f.Close)
		logFileW = f
	}
	logger.Init(level, logFileW)
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string, opts *analyzeOptions) error {
	s, fileCfg, err := loadSettings(cmd, opts)
	if err != nil {
		return err
	}
	if err := setupLogging(opts, fileCfg); err != nil {
		return err
	}

	inputPath := ""
	if len(args) > 0 && args[0] != "-" {
		inputPath = args[0]
	}
	if opts.watch && inputPath == "" {
		return fmt.Errorf("--watch needs an input file")
	}

	if s.run.Backend.NeedsAPIKey() {
		key, src, err := resolveAPIKey(string(s.run.Backend), opts.allowEnv, opts.envOnly)
		if err != nil {
			return err
		}
		logger.Info("Using API key", "service", string(s.run.Backend), "source", src)
		s.run.APIKey = key
	}

	ctx, stop := signalContext()
	defer stop()

	once := func(ctx context.Context) error {
		return analyzeOnce(ctx, cmd, s, opts, inputPath)
	}
	if opts.watch {
		return watchFile(ctx, inputPath, once)
	}
	err = once(ctx)
	if err != nil && ctx.Err() != nil {
		logger.Warn("Analysis canceled")
		return nil
	}
	return err
}

func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "" {
		return source.ReadText(cmd.InOrStdin())
	}
	return source.Load(path)
}

func analyzeOnce(ctx context.Context, cmd *cobra.Command, s settings, opts *analyzeOptions, inputPath string) error {
	text, err := readInput(cmd, inputPath)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return sentiment.ErrEmptyInput
	}

	var lastLogged int
	report, err := runPipeline(ctx, s.run, text, func(p sentiment.Progress) {
		if p.Done == p.Total || p.Done-lastLogged >= 10 {
			lastLogged = p.Done
			logger.Debug("Progress", "done", p.Done, "total", p.Total)
		}
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch s.format {
	case "json":
		err = writeJSON(out, report)
	default:
		err = renderText(out, report, newRenderer(out, s.color))
	}
	if err != nil {
		return err
	}
	return writeArtifacts(report, opts)
}

// overwriteCheck picks the path an artifact is written to. Declining the
// overwrite prompt writes next to the existing file instead.
func overwriteCheck(path string, force bool) (string, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return path, nil
	}
	ok, err := confirmOverwrite(path, force)
	if err != nil {
		return "", err
	}
	if ok {
		return path, nil
	}
	alt, _, err := files.SafePath(path)
	if err != nil {
		return "", err
	}
	logger.Info("Keeping existing file", "path", path, "written", alt)
	return alt, nil
}
