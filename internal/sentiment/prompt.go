package sentiment

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MaxUtteranceGraphemes bounds how much of one line is sent to a backend.
const MaxUtteranceGraphemes = 2000

// SystemPrompt is the instruction shared by every LLM backend. It asks for the
// same binary decision an sst-2 classifier makes.
const SystemPrompt = `You are a binary sentiment classifier.
For the sentence given in the "sentence" field, decide whether its overall sentiment is Positive or Negative.
There is no neutral class: mixed or mild sentences must still be assigned the closer of the two.
Reply with a JSON object of the form {"label": "Positive"} or {"label": "Negative"} and nothing else.`

// Request is the JSON payload sent to a backend for one utterance.
type Request struct {
	Sentence string `json:"sentence"`
}

// Answer is the JSON shape backends are asked to reply with.
type Answer struct {
	Label string `json:"label"`
}

// NewRequest builds the user payload for utterance, clipped to MaxUtteranceGraphemes.
func NewRequest(utterance string) ([]byte, error) {
	return json.Marshal(Request{Sentence: ClipUtterance(utterance, MaxUtteranceGraphemes)})
}

// LabelSchema is the JSON schema of Answer, for backends that enforce structured output.
func LabelSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"label": map[string]any{
				"type": "string",
				"enum": []string{Negative.String(), Positive.String()},
			},
		},
		"required":             []string{"label"},
		"additionalProperties": false,
	}
}

// ParseAnswer extracts the label from a backend reply. It accepts the JSON
// object, a JSON string, or a bare label word, since smaller local models do
// not always honour the requested format.
func ParseAnswer(text string) (Label, error) {
	trimmed := strings.TrimSpace(text)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if trimmed == "" {
		return Negative, fmt.Errorf("empty classifier answer")
	}

	var ans Answer
	if err := json.Unmarshal([]byte(trimmed), &ans); err == nil && ans.Label != "" {
		return ParseLabel(ans.Label)
	}
	var s string
	if err := json.Unmarshal([]byte(trimmed), &s); err == nil {
		return ParseLabel(s)
	}
	if l, err := ParseLabel(trimmed); err == nil {
		return l, nil
	}
	// Last resort: a single recognizable word somewhere in a short reply.
	fields := strings.Fields(strings.ToLower(trimmed))
	if len(fields) <= 8 {
		var found []Label
		for _, f := range fields {
			if l, err := ParseLabel(f); err == nil && !isDigitWord(f) {
				found = append(found, l)
			}
		}
		if len(found) == 1 {
			return found[0], nil
		}
	}
	return Negative, fmt.Errorf("unrecognized classifier answer")
}

func isDigitWord(s string) bool {
	s = strings.Trim(s, "\"'`.!*,:;")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
