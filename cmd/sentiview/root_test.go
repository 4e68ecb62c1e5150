package main

import (
	"strings"
	"testing"

	"github.com/oukeidos/sentiview/internal/metadata"
)

func TestModelsCommand_ListsEveryBackend(t *testing.T) {
	out, err := executeCommand(t, "models")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	for _, b := range metadata.Backends() {
		if !strings.Contains(out, b.DisplayName()) {
			t.Fatalf("missing backend %s in:\n%s", b, out)
		}
		def := metadata.DefaultModel(b)
		if !strings.Contains(out, "* "+def) {
			t.Fatalf("default model %s not marked in:\n%s", def, out)
		}
	}
	if !strings.Contains(out, "GEMINI_API_KEY") || !strings.Contains(out, "OPENAI_API_KEY") {
		t.Fatalf("expected key env vars in output:\n%s", out)
	}
}

func TestVersionAndAbout(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{args: []string{"version"}, want: "sentiview "},
		{args: []string{"--version"}, want: "commit"},
		{args: []string{"about"}, want: "https://github.com/oukeidos/sentiview"},
	}
	for _, tc := range cases {
		t.Run(strings.Join(tc.args, "_"), func(t *testing.T) {
			out, err := executeCommand(t, tc.args...)
			if err != nil {
				t.Fatalf("command failed: %v", err)
			}
			if !strings.Contains(out, tc.want) {
				t.Fatalf("expected %q in output, got: %s", tc.want, out)
			}
		})
	}
}
