package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/oukeidos/sentiview/internal/auth"
	"github.com/oukeidos/sentiview/internal/logger"
	"github.com/oukeidos/sentiview/internal/metadata"
	"github.com/oukeidos/sentiview/internal/pipeline"
	"github.com/oukeidos/sentiview/internal/prompt"
	"golang.org/x/term"
)

var (
	isTerminal   = term.IsTerminal
	getKey       = auth.GetKey
	getEnvKey    = auth.GetEnvKey
	getStatus    = auth.GetStatus
	promptForKey = auth.PromptForAPIKey
	runPipeline  = pipeline.Run

	confirmOverwrite = prompt.DefaultConfirmer().ConfirmOverwrite
)

const (
	sourceEnv    = "Environment Variable"
	sourcePrompt = "Terminal Prompt"
)

// resolveAPIKey finds the key for a hosted backend: keychain first, then the
// environment when allowed, then an interactive prompt.
func resolveAPIKey(service string, allowEnv, envOnly bool) (string, string, error) {
	name := metadata.Backend(service).DisplayName()
	if envOnly {
		if key, ok := getEnvKey(service); ok {
			return key, sourceEnv, nil
		}
		return "", "", fmt.Errorf("--env-only set but %s is not set", auth.EnvVar(service))
	}

	if key, source := getKey(service, false); key != "" {
		return key, source, nil
	}
	if allowEnv {
		if key, ok := getEnvKey(service); ok {
			return key, sourceEnv, nil
		}
	}

	if !isTerminal(int(os.Stdin.Fd())) {
		return "", "", fmt.Errorf("no %s API key available (non-interactive shell); run 'sentiview env setup --service %s' or use --allow-env", name, service)
	}
	key, err := promptForKey(fmt.Sprintf("%s API Key (press Enter to skip): ", name))
	if err != nil {
		return "", "", fmt.Errorf("error reading API key: %w", err)
	}
	if key = strings.TrimSpace(key); key != "" {
		return key, sourcePrompt, nil
	}
	if allowEnv {
		return "", "", fmt.Errorf("%s API key is required; not found in keychain or environment", name)
	}
	return "", "", fmt.Errorf("%s API key is required; not found in keychain (environment disabled by default; use --allow-env)", name)
}

func signalContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("Cancellation requested")
			cancel()
		case <-ctx.Done():
		}
	}()
	stop := func() {
		signal.Stop(sigCh)
		cancel()
	}
	return ctx, stop
}
