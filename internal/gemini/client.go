package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/oukeidos/sentiview/internal/apperrors"
	"github.com/oukeidos/sentiview/internal/httpclient"
	"github.com/oukeidos/sentiview/internal/logger"
	"github.com/oukeidos/sentiview/internal/sentiment"
	"google.golang.org/api/option"
)

// Client classifies sentences with a Gemini model.
type Client struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
}

var _ sentiment.Classifier = (*Client)(nil)

// NewClient creates a new Gemini client configured for label-only JSON output.
func NewClient(ctx context.Context, apiKey string, modelName string) (*Client, error) {
	// option.WithHTTPClient breaks the library's API key header injection, so
	// timeouts are enforced per call via context instead.
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = labelSchema()
	model.SetTemperature(0)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(sentiment.SystemPrompt)},
	}

	return &Client{
		client:    client,
		model:     model,
		modelName: modelName,
	}, nil
}

func labelSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"label": {
				Type: genai.TypeString,
				Enum: []string{sentiment.Negative.String(), sentiment.Positive.String()},
			},
		},
		Required: []string{"label"},
	}
}

// Close closes the underlying genai client.
func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) ModelName() string { return c.modelName }

// Classify sends one utterance to Gemini and parses the returned label.
func (c *Client) Classify(ctx context.Context, utterance string) (sentiment.Label, error) {
	ctx, cancel := context.WithTimeout(ctx, httpclient.DefaultTimeout)
	defer cancel()

	payload, err := sentiment.NewRequest(utterance)
	if err != nil {
		return sentiment.Negative, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.model.GenerateContent(ctx, genai.Text(string(payload)))
	if err != nil {
		return sentiment.Negative, classifyGeminiError(err)
	}
	if resp.UsageMetadata != nil {
		logger.Debug("Gemini usage", "model", c.modelName, "total_tokens", resp.UsageMetadata.TotalTokenCount)
	}

	text, err := extractResponseText(resp)
	if err != nil {
		return sentiment.Negative, apperrors.Validation(err)
	}
	label, err := sentiment.ParseAnswer(text)
	if err != nil {
		return sentiment.Negative, apperrors.Validation(fmt.Errorf("failed to parse Gemini answer: %w", err))
	}
	return label, nil
}

func extractResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("no response received from Gemini")
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
			continue
		}
		var combined string
		for _, part := range candidate.Content.Parts {
			text, ok := part.(genai.Text)
			if !ok {
				continue
			}
			combined += string(text)
		}
		if combined != "" {
			return combined, nil
		}
	}
	return "", fmt.Errorf("no text parts found in Gemini response")
}
