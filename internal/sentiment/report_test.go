package sentiment

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSummary(t *testing.T) {
	cases := []struct {
		counts Counts
		want   string
	}{
		{Counts{Positive: 2, Negative: 1}, "Overall Sentiment: 😊 Positive (2 Positive, 1 Negative)"},
		{Counts{Positive: 0, Negative: 3}, "Overall Sentiment: 😞 Negative (0 Positive, 3 Negative)"},
		{Counts{Positive: 2, Negative: 2}, "Overall Sentiment: 😐 Balanced (2 Positive, 2 Negative)"},
		{Counts{}, "Overall Sentiment: 😐 Balanced (0 Positive, 0 Negative)"},
	}
	for _, tc := range cases {
		if got := Summary(tc.counts); got != tc.want {
			t.Errorf("Summary(%+v) = %q, want %q", tc.counts, got, tc.want)
		}
	}
}

func TestTally(t *testing.T) {
	results := []Result{
		{Utterance: "a", Label: Positive},
		{Utterance: "b", Label: Negative},
		{Utterance: "c", Label: Negative},
	}
	c := Tally(results)
	if c.Positive != 1 || c.Negative != 2 || c.Total() != 3 {
		t.Fatalf("Tally = %+v", c)
	}
	if c.Verdict() != VerdictNegative {
		t.Fatalf("verdict = %v, want negative", c.Verdict())
	}
}

func TestResultsText_Empty(t *testing.T) {
	if got := (Report{}).ResultsText(); got != "" {
		t.Fatalf("empty report text = %q", got)
	}
}

func TestReportJSON(t *testing.T) {
	r := Report{
		Backend: "ollama",
		Text:    "private",
		Results: []Result{{Utterance: "I love this!", Label: Positive}},
		Counts:  Counts{Positive: 1},
	}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, `"label":"Positive"`) || !strings.Contains(s, `"sentence":"I love this!"`) {
		t.Fatalf("unexpected JSON: %s", s)
	}
	if strings.Contains(s, "private") {
		t.Fatalf("raw text must not be serialized: %s", s)
	}
}

func TestClipUtterance(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"hello", 0, "hello"},
		{"👍🏽👍🏽👍🏽", 2, "👍🏽👍🏽"},
		{"é🇰🇷x", 2, "é🇰🇷"},
	}
	for _, tc := range cases {
		if got := ClipUtterance(tc.in, tc.max); got != tc.want {
			t.Errorf("ClipUtterance(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}
