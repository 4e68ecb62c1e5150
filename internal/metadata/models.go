// Package metadata is the catalog of classifier backends and their models.
package metadata

import (
	"fmt"
	"strings"
)

type Backend string

const (
	BackendGemini Backend = "gemini"
	BackendOpenAI Backend = "openai"
	BackendOllama Backend = "ollama"
)

// DefaultBackend runs without an API key.
const DefaultBackend = BackendOllama

// ReferenceModel is the sst-2 checkpoint whose label set the backends reproduce.
const ReferenceModel = "distilbert-base-uncased-finetuned-sst-2-english"

type Model struct {
	Backend Backend
	ID      string
	Label   string
}

var Models = []Model{
	{Backend: BackendGemini, ID: "gemini-2.5-flash-lite", Label: "Gemini 2.5 Flash-Lite"},
	{Backend: BackendGemini, ID: "gemini-2.5-flash", Label: "Gemini 2.5 Flash"},
	{Backend: BackendGemini, ID: "gemini-3-flash-preview", Label: "Gemini 3 Flash (preview)"},
	{Backend: BackendOpenAI, ID: "gpt-4.1-mini", Label: "GPT-4.1 mini"},
	{Backend: BackendOpenAI, ID: "gpt-4.1-nano", Label: "GPT-4.1 nano"},
	{Backend: BackendOpenAI, ID: "gpt-5-mini", Label: "GPT-5 mini"},
	{Backend: BackendOllama, ID: "llama3.2", Label: "Llama 3.2 (local)"},
	{Backend: BackendOllama, ID: "qwen2.5", Label: "Qwen 2.5 (local)"},
	{Backend: BackendOllama, ID: "mistral", Label: "Mistral 7B (local)"},
}

// Backends lists every supported backend in display order.
func Backends() []Backend {
	return []Backend{BackendOllama, BackendGemini, BackendOpenAI}
}

func BackendNames() []string {
	bs := Backends()
	names := make([]string, len(bs))
	for i, b := range bs {
		names[i] = string(b)
	}
	return names
}

func ParseBackend(s string) (Backend, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Backends() {
		if b == known {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown backend %q (want one of %s)", s, strings.Join(BackendNames(), ", "))
}

// NeedsAPIKey reports whether the backend is a hosted service.
func (b Backend) NeedsAPIKey() bool {
	return b == BackendGemini || b == BackendOpenAI
}

func (b Backend) DisplayName() string {
	switch b {
	case BackendGemini:
		return "Google Gemini"
	case BackendOpenAI:
		return "OpenAI"
	case BackendOllama:
		return "Ollama"
	default:
		return string(b)
	}
}

// ModelsFor returns the catalog entries of one backend.
func ModelsFor(b Backend) []Model {
	var out []Model
	for _, m := range Models {
		if m.Backend == b {
			out = append(out, m)
		}
	}
	return out
}

func ModelIDs(b Backend) []string {
	ms := ModelsFor(b)
	ids := make([]string, len(ms))
	for i, m := range ms {
		ids[i] = m.ID
	}
	return ids
}

// DefaultModel is the first catalog entry of the backend.
func DefaultModel(b Backend) string {
	if ms := ModelsFor(b); len(ms) > 0 {
		return ms[0].ID
	}
	return ""
}

// Known reports whether id is in the catalog for b. Ollama accepts any pulled
// model, so unknown ids are not an error there.
func Known(b Backend, id string) bool {
	for _, m := range ModelsFor(b) {
		if m.ID == id {
			return true
		}
	}
	return false
}
