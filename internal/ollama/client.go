// Package ollama classifies sentences with a model served by a local Ollama daemon.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/JexSrs/go-ollama"
	"github.com/oukeidos/sentiview/internal/apperrors"
	"github.com/oukeidos/sentiview/internal/httpclient"
	"github.com/oukeidos/sentiview/internal/logger"
	"github.com/oukeidos/sentiview/internal/sentiment"
)

const DefaultHost = "http://localhost:11434"

// generateFunc is the single round trip the classifier needs. It is a field
// so tests can run without a daemon.
type generateFunc func(ctx context.Context, model, system, prompt string) (done bool, response string, err error)

type Client struct {
	host     string
	model    string
	generate generateFunc
}

var _ sentiment.Classifier = (*Client)(nil)

// NewClient validates host and prepares a client for model.
func NewClient(host, model string) (*Client, error) {
	if strings.TrimSpace(host) == "" {
		host = DefaultHost
	}
	u, err := url.Parse(host)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, apperrors.New(apperrors.KindBadRequest, fmt.Sprintf("Invalid Ollama host %q.", host), err)
	}
	if strings.TrimSpace(model) == "" {
		return nil, apperrors.New(apperrors.KindBadRequest, "An Ollama model name is required.", nil)
	}

	logger.Debug("Using Ollama", "host", u.Host, "model", model)

	return &Client{
		host:  u.String(),
		model: model,
		generate: func(ctx context.Context, model, system, prompt string) (bool, string, error) {
			api := ollama.New(*u)
			api.Http = contextClient(ctx, httpclient.GetDefaultClient())
			res, err := api.Generate(
				api.Generate.WithModel(model),
				api.Generate.WithSystem(system),
				api.Generate.WithPrompt(prompt),
			)
			if err != nil {
				return false, "", err
			}
			return res.Done, res.Response, nil
		},
	}, nil
}

// contextClient binds every request sent through the returned client to ctx;
// go-ollama builds its requests without one.
func contextClient(ctx context.Context, base *http.Client) *http.Client {
	rt := base.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	return &http.Client{
		Timeout:   base.Timeout,
		Transport: contextTransport{ctx: ctx, base: rt},
	}
}

type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

func (c *Client) ModelName() string { return c.model }

func (c *Client) Host() string { return c.host }

// Classify asks the model for a label. The request is aborted when ctx is
// done or the per-call timeout expires.
func (c *Client) Classify(ctx context.Context, utterance string) (sentiment.Label, error) {
	ctx, cancel := context.WithTimeout(ctx, httpclient.DefaultTimeout)
	defer cancel()

	payload, err := sentiment.NewRequest(utterance)
	if err != nil {
		return sentiment.Negative, fmt.Errorf("failed to marshal request: %w", err)
	}

	done, response, err := c.generate(ctx, c.model, sentiment.SystemPrompt, string(payload))
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return sentiment.Negative, apperrors.New(apperrors.KindTransient, "Ollama did not answer in time.", ctxErr)
		}
		return sentiment.Negative, ctxErr
	}
	if err != nil {
		return sentiment.Negative, classifyOllamaError(err)
	}
	if !done {
		return sentiment.Negative, apperrors.Validation(fmt.Errorf("ollama response not marked done"))
	}
	label, err := sentiment.ParseAnswer(response)
	if err != nil {
		return sentiment.Negative, apperrors.Validation(fmt.Errorf("failed to parse Ollama answer: %w", err))
	}
	return label, nil
}

func classifyOllamaError(err error) error {
	wrapped := fmt.Errorf("ollama generate failed: %w", err)
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not found") && strings.Contains(msg, "model"):
		return apperrors.New(apperrors.KindBadRequest, "Ollama model not found. Pull it with `ollama pull` first.", wrapped)
	case strings.Contains(msg, "connection refused"):
		return apperrors.New(apperrors.KindTransient, "Could not reach the Ollama daemon. Is it running?", wrapped)
	default:
		return apperrors.New(apperrors.KindTransient, "Ollama request failed.", wrapped)
	}
}
