package files

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestRejectSymlinkPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink not permitted on Windows")
	}

	cases := []struct {
		name    string
		setup   func(t *testing.T, dir string) string
		wantErr bool
	}{
		{
			name:  "plain_new_file",
			setup: func(_ *testing.T, dir string) string { return filepath.Join(dir, "results.txt") },
		},
		{
			name: "missing_parents",
			setup: func(_ *testing.T, dir string) string {
				return filepath.Join(dir, "a", "b", "results.txt")
			},
		},
		{
			name: "file_is_symlink",
			setup: func(t *testing.T, dir string) string {
				target := filepath.Join(dir, "target.txt")
				mustWrite(t, target, "original")
				link := filepath.Join(dir, "results.txt")
				mustSymlink(t, target, link)
				return link
			},
			wantErr: true,
		},
		{
			name: "parent_is_symlink",
			setup: func(t *testing.T, dir string) string {
				real := filepath.Join(dir, "real")
				if err := os.MkdirAll(real, 0700); err != nil {
					t.Fatal(err)
				}
				mustSymlink(t, real, filepath.Join(dir, "link"))
				return filepath.Join(dir, "link", "chart.png")
			},
			wantErr: true,
		},
		{
			name: "ancestor_is_symlink",
			setup: func(t *testing.T, dir string) string {
				if err := os.MkdirAll(filepath.Join(dir, "real", "nested"), 0700); err != nil {
					t.Fatal(err)
				}
				mustSymlink(t, filepath.Join(dir, "real"), filepath.Join(dir, "link"))
				return filepath.Join(dir, "link", "nested", "cloud.png")
			},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// resolve the temp dir itself; on some systems it sits under a symlink
			dir, err := filepath.EvalSymlinks(t.TempDir())
			if err != nil {
				t.Fatal(err)
			}
			path := tc.setup(t, dir)
			err = RejectSymlinkPath(path)
			if tc.wantErr && err == nil {
				t.Fatalf("expected rejection for %s", path)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}

	if err := RejectSymlinkPath("  "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestAtomicWrite_LeavesSymlinkTargetAlone(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink not permitted on Windows")
	}
	dir := t.TempDir()
	target := filepath.Join(dir, "target.txt")
	mustWrite(t, target, "original")
	link := filepath.Join(dir, "sentiment_results.txt")
	mustSymlink(t, target, link)

	if err := AtomicWrite(link, []byte("Sentence: x\n"), 0600); err == nil {
		t.Fatalf("expected AtomicWrite to reject symlink")
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read target: %v", err)
	}
	if string(data) != "original" {
		t.Fatalf("target modified via symlink: %s", data)
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func mustSymlink(t *testing.T, target, link string) {
	t.Helper()
	if err := os.Symlink(target, link); err != nil {
		t.Fatalf("symlink: %v", err)
	}
}
