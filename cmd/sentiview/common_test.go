package main

import (
	"strings"
	"testing"
)

type keyStubs struct {
	promptCalls int
	keyCalls    int
	envCalls    int
}

func withKeyStubs(t *testing.T, terminal bool, promptVal string, keychainVal string, envVal string) (*keyStubs, func()) {
	t.Helper()
	stubs := &keyStubs{}

	prevIsTerminal := isTerminal
	prevPrompt := promptForKey
	prevGetKey := getKey
	prevGetEnv := getEnvKey

	isTerminal = func(_ int) bool { return terminal }
	promptForKey = func(_ string) (string, error) {
		stubs.promptCalls++
		return promptVal, nil
	}
	getKey = func(_ string, _ bool) (string, string) {
		stubs.keyCalls++
		if keychainVal == "" {
			return "", ""
		}
		return keychainVal, "Keychain"
	}
	getEnvKey = func(_ string) (string, bool) {
		stubs.envCalls++
		if envVal == "" {
			return "", false
		}
		return envVal, true
	}

	return stubs, func() {
		isTerminal = prevIsTerminal
		promptForKey = prevPrompt
		getKey = prevGetKey
		getEnvKey = prevGetEnv
	}
}

func TestResolveAPIKey(t *testing.T) {
	cases := []struct {
		name       string
		terminal   bool
		prompt     string
		keychain   string
		env        string
		allowEnv   bool
		envOnly    bool
		wantKey    string
		wantSource string
		wantErr    string
		wantPrompt int
	}{
		{name: "keychain_first", terminal: true, keychain: "kc", env: "ev", allowEnv: true, wantKey: "kc", wantSource: "Keychain"},
		{name: "env_when_allowed", keychain: "", env: "ev", allowEnv: true, wantKey: "ev", wantSource: sourceEnv},
		{name: "env_ignored_by_default", terminal: true, prompt: "typed", env: "ev", wantKey: "typed", wantSource: sourcePrompt, wantPrompt: 1},
		{name: "env_only", keychain: "kc", env: "ev", envOnly: true, wantKey: "ev", wantSource: sourceEnv},
		{name: "env_only_missing", keychain: "kc", envOnly: true, wantErr: "GEMINI_API_KEY"},
		{name: "non_interactive", env: "ev", wantErr: "non-interactive"},
		{name: "prompt_skipped", terminal: true, prompt: "  ", wantErr: "use --allow-env", wantPrompt: 1},
		{name: "prompt_skipped_env_allowed", terminal: true, allowEnv: true, wantErr: "not found in keychain or environment", wantPrompt: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stubs, restore := withKeyStubs(t, tc.terminal, tc.prompt, tc.keychain, tc.env)
			defer restore()

			key, source, err := resolveAPIKey("gemini", tc.allowEnv, tc.envOnly)
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if key != tc.wantKey || source != tc.wantSource {
					t.Fatalf("got key=%q source=%q, want key=%q source=%q", key, source, tc.wantKey, tc.wantSource)
				}
			}
			if stubs.promptCalls != tc.wantPrompt {
				t.Fatalf("prompt calls = %d, want %d", stubs.promptCalls, tc.wantPrompt)
			}
		})
	}
}

func TestResolveAPIKey_NoEnvLookupWithoutOptIn(t *testing.T) {
	stubs, restore := withKeyStubs(t, true, "typed", "", "ev")
	defer restore()

	if _, _, err := resolveAPIKey("openai", false, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stubs.envCalls != 0 {
		t.Fatalf("expected no env lookups, got %d", stubs.envCalls)
	}
}
