package gemini

import (
	"context"
	"sync"

	"github.com/oukeidos/sentiview/internal/sentiment"
)

// MockClient stands in for Client in tests of code that takes a classifier.
type MockClient struct {
	Label sentiment.Label
	Error error

	mu    sync.Mutex
	Calls []string
}

func (m *MockClient) Classify(_ context.Context, utterance string) (sentiment.Label, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, utterance)
	m.mu.Unlock()
	return m.Label, m.Error
}
