// Package auth stores backend API keys in the OS keychain.
package auth

import (
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

const serviceName = "sentiview"

// Key sources reported alongside a key.
const (
	SourceKeychain = "Keychain"
	SourceEnv      = "Environment Variable"
)

type account struct {
	keychain string
	envVar   string
}

var accounts = map[string]account{
	"gemini": {keychain: "gemini-api-key", envVar: "GEMINI_API_KEY"},
	"openai": {keychain: "openai-api-key", envVar: "OPENAI_API_KEY"},
}

// Services lists the backends that take an API key.
func Services() []string { return []string{"gemini", "openai"} }

func lookup(service string) (account, error) {
	a, ok := accounts[strings.ToLower(strings.TrimSpace(service))]
	if !ok {
		return account{}, fmt.Errorf("unsupported service %q (want gemini or openai)", service)
	}
	return a, nil
}

// EnvVar returns the environment variable consulted for service.
func EnvVar(service string) string {
	a, _ := lookup(service)
	return a.envVar
}

// GetKey returns the key for service and where it came from. The keychain
// wins; the environment is consulted only when allowEnv is set.
func GetKey(service string, allowEnv bool) (string, string) {
	a, err := lookup(service)
	if err != nil {
		return "", ""
	}
	if key, err := keyring.Get(serviceName, a.keychain); err == nil && strings.TrimSpace(key) != "" {
		return strings.TrimSpace(key), SourceKeychain
	}
	if allowEnv {
		if key := strings.TrimSpace(os.Getenv(a.envVar)); key != "" {
			return key, SourceEnv
		}
	}
	return "", ""
}

// GetEnvKey reads the key from the environment only.
func GetEnvKey(service string) (string, bool) {
	a, err := lookup(service)
	if err != nil {
		return "", false
	}
	key := strings.TrimSpace(os.Getenv(a.envVar))
	return key, key != ""
}

func SaveKey(service, key string) error {
	a, err := lookup(service)
	if err != nil {
		return err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("empty API key")
	}
	return keyring.Set(serviceName, a.keychain, key)
}

func DeleteKey(service string) error {
	a, err := lookup(service)
	if err != nil {
		return err
	}
	return keyring.Delete(serviceName, a.keychain)
}

// GetStatus reports whether the keychain holds a key for service.
func GetStatus(service string) bool {
	a, err := lookup(service)
	if err != nil {
		return false
	}
	key, err := keyring.Get(serviceName, a.keychain)
	return err == nil && key != ""
}

// PromptForAPIKey reads a key from the terminal without echo.
func PromptForAPIKey(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
