package files

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSafePath_NoChange(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "sentiment_results.txt")
	got, changed, err := SafePath(path)
	if err != nil {
		t.Fatalf("SafePath failed: %v", err)
	}
	if changed {
		t.Fatalf("expected unchanged path")
	}
	if got != path {
		t.Fatalf("expected %q, got %q", path, got)
	}
}

func TestSafePath_WithCollision(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "sentiment_results.txt")
	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	got, changed, err := SafePath(path)
	if err != nil {
		t.Fatalf("SafePath failed: %v", err)
	}
	if !changed {
		t.Fatalf("expected changed path")
	}
	if got == path {
		t.Fatalf("expected different path")
	}
}

func TestSafePath_NumberedThenUUID(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "cloud.png")
	for _, name := range []string{"cloud.png", "cloud_1.png"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), nil, 0600); err != nil {
			t.Fatal(err)
		}
	}
	got, _, err := SafePath(path)
	if err != nil {
		t.Fatalf("SafePath failed: %v", err)
	}
	if got != filepath.Join(tmpDir, "cloud_2.png") {
		t.Fatalf("got %q, want cloud_2.png", got)
	}

	for i := 2; i <= 9; i++ {
		if err := os.WriteFile(filepath.Join(tmpDir, "cloud_"+string(rune('0'+i))+".png"), nil, 0600); err != nil {
			t.Fatal(err)
		}
	}
	got, changed, err := SafePath(path)
	if err != nil || !changed {
		t.Fatalf("SafePath = %q, %v, %v", got, changed, err)
	}
	if filepath.Ext(got) != ".png" || len(filepath.Base(got)) <= len("cloud_9.png") {
		t.Fatalf("expected uuid-suffixed path, got %q", got)
	}
}

func TestSafePath_Empty(t *testing.T) {
	if _, _, err := SafePath(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
