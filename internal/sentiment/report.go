package sentiment

import (
	"fmt"
	"strings"
	"time"

	"github.com/rivo/uniseg"
)

// DefaultSummary is the summary label text before any analysis has run.
const DefaultSummary = "Overall Sentiment:"

// Result pairs one utterance with its label.
type Result struct {
	Utterance string `json:"sentence"`
	Label     Label  `json:"label"`
}

// Counts is the tally of the most recent run.
type Counts struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
}

func (c Counts) Total() int { return c.Positive + c.Negative }

// Verdict is the majority decision over a run.
type Verdict int

const (
	VerdictBalanced Verdict = iota
	VerdictPositive
	VerdictNegative
)

func (c Counts) Verdict() Verdict {
	switch {
	case c.Positive > c.Negative:
		return VerdictPositive
	case c.Negative > c.Positive:
		return VerdictNegative
	default:
		return VerdictBalanced
	}
}

// Summary renders the overall sentiment line for the given counts.
func Summary(c Counts) string {
	var head string
	switch c.Verdict() {
	case VerdictPositive:
		head = "😊 Positive"
	case VerdictNegative:
		head = "😞 Negative"
	default:
		head = "😐 Balanced"
	}
	return fmt.Sprintf("%s %s (%d Positive, %d Negative)", DefaultSummary, head, c.Positive, c.Negative)
}

// Tally counts labels in results.
func Tally(results []Result) Counts {
	var c Counts
	for _, r := range results {
		if r.Label == Positive {
			c.Positive++
		} else {
			c.Negative++
		}
	}
	return c
}

// Report is everything one analysis run produced.
type Report struct {
	RunID   string        `json:"run_id,omitempty"`
	Backend string        `json:"backend,omitempty"`
	Model   string        `json:"model,omitempty"`
	Text    string        `json:"-"`
	Results []Result      `json:"results"`
	Counts  Counts        `json:"counts"`
	Elapsed time.Duration `json:"elapsed_ns,omitempty"`
}

// Summary is the overall sentiment line for the report.
func (r Report) Summary() string {
	return Summary(r.Counts)
}

// ResultsText is the listing shown in the results area and written by Save.
func (r Report) ResultsText() string {
	entries := make([]string, len(r.Results))
	for i, res := range r.Results {
		entries[i] = fmt.Sprintf("Sentence: %s\nAnalysis: %s\n", res.Utterance, res.Label.Icon())
	}
	return strings.Join(entries, "\n")
}

// ClipUtterance shortens s to at most max user-perceived characters so a
// prompt never splits an emoji or a combining sequence.
func ClipUtterance(s string, max int) string {
	if max <= 0 || uniseg.GraphemeClusterCount(s) <= max {
		return s
	}
	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for n := 0; n < max && g.Next(); n++ {
		b.WriteString(g.Str())
	}
	return b.String()
}
