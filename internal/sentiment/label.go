// Package sentiment splits input text into utterances, classifies each one
// and aggregates the results into a report.
package sentiment

import (
	"fmt"
	"strconv"
	"strings"
)

// Label is the binary sentiment class. The numeric values match the output
// index of the sst-2 style classifiers: 0 is negative, 1 is positive.
type Label int

const (
	Negative Label = iota
	Positive
)

var labelNames = [...]string{"Negative", "Positive"}

func (l Label) String() string {
	if l < Negative || l > Positive {
		return fmt.Sprintf("Label(%d)", int(l))
	}
	return labelNames[l]
}

// Icon returns the label decorated the way it is shown next to a sentence.
func (l Label) Icon() string {
	if l == Positive {
		return "😊 Positive"
	}
	return "😞 Negative"
}

func (l Label) Valid() bool {
	return l == Negative || l == Positive
}

// LabelFromIndex maps a classifier output index to a label.
func LabelFromIndex(i int) (Label, error) {
	l := Label(i)
	if !l.Valid() {
		return Negative, fmt.Errorf("label index out of range: %d", i)
	}
	return l, nil
}

// ParseLabel accepts the spellings backends tend to produce: the label names
// in any case, the bare index, and the LABEL_n form of hosted pipelines.
func ParseLabel(s string) (Label, error) {
	v := strings.TrimSpace(s)
	v = strings.Trim(v, "\"'`.!* \n\t")
	lower := strings.ToLower(v)
	switch lower {
	case "positive", "pos":
		return Positive, nil
	case "negative", "neg":
		return Negative, nil
	}
	if rest, ok := strings.CutPrefix(lower, "label_"); ok {
		lower = rest
	}
	if n, err := strconv.Atoi(lower); err == nil {
		return LabelFromIndex(n)
	}
	return Negative, fmt.Errorf("unrecognized sentiment label %q", s)
}

// MarshalText keeps reports readable in JSON output.
func (l Label) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid label %d", int(l))
	}
	return []byte(l.String()), nil
}

func (l *Label) UnmarshalText(b []byte) error {
	parsed, err := ParseLabel(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
