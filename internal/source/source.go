// Package source loads analysis input from plain text or subtitle files.
package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/asticode/go-astisub"
	"github.com/oukeidos/sentiview/internal/apperrors"
)

// MaxInputBytes caps how much text one run will read.
const MaxInputBytes = 8 * 1024 * 1024

var (
	textExts     = map[string]bool{"": true, ".txt": true, ".text": true, ".md": true}
	subtitleExts = map[string]bool{".srt": true, ".vtt": true, ".ssa": true, ".ass": true, ".ttml": true, ".stl": true}

	markupTag  = regexp.MustCompile(`<[^>]*>|\{\\[^}]*\}`)
	multiSpace = regexp.MustCompile(`\s+`)
)

// SupportedExtensions lists the file extensions Load accepts, for open dialogs.
func SupportedExtensions() []string {
	return []string{".txt", ".text", ".md", ".srt", ".vtt", ".ssa", ".ass", ".ttml", ".stl"}
}

// IsSubtitle reports whether path is loaded through the subtitle parser.
func IsSubtitle(path string) bool {
	return subtitleExts[strings.ToLower(filepath.Ext(path))]
}

// Load returns the analysis text stored at path, one utterance per line.
func Load(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case subtitleExts[ext]:
		return loadSubtitles(path)
	case textExts[ext]:
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		return ReadText(f)
	default:
		return "", apperrors.Input(fmt.Sprintf("Unsupported file type %q.", ext))
	}
}

// ReadText reads UTF-8 text from r, dropping a leading byte order mark.
func ReadText(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxInputBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if len(data) > MaxInputBytes {
		return "", apperrors.Input(fmt.Sprintf("Input is larger than %d MB.", MaxInputBytes/(1024*1024)))
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return "", apperrors.Input("Input is not valid UTF-8 text.")
	}
	return string(data), nil
}

func loadSubtitles(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > MaxInputBytes {
		return "", apperrors.Input(fmt.Sprintf("Input is larger than %d MB.", MaxInputBytes/(1024*1024)))
	}
	subs, err := astisub.OpenFile(path)
	if err != nil {
		return "", apperrors.New(apperrors.KindInput, "Could not parse subtitle file.", err)
	}
	return Utterances(subs), nil
}

// Utterances flattens subtitle items into text: each item becomes one line
// with its own line breaks and markup removed. Empty items are skipped.
func Utterances(subs *astisub.Subtitles) string {
	out := make([]string, 0, len(subs.Items))
	for _, item := range subs.Items {
		parts := make([]string, 0, len(item.Lines))
		for _, l := range item.Lines {
			parts = append(parts, l.String())
		}
		text := markupTag.ReplaceAllString(strings.Join(parts, " "), "")
		text = strings.TrimSpace(multiSpace.ReplaceAllString(text, " "))
		if text != "" {
			out = append(out, text)
		}
	}
	return strings.Join(out, "\n")
}
