package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/oukeidos/sentiview/internal/apperrors"
	"github.com/oukeidos/sentiview/internal/httpclient"
	"github.com/oukeidos/sentiview/internal/logger"
	"github.com/oukeidos/sentiview/internal/sentiment"
)

const defaultBaseURL = "https://api.openai.com/v1"

// RequestData is the Responses API request body.
type RequestData struct {
	Model           string            `json:"model"`
	Instructions    string            `json:"instructions,omitempty"`
	Input           []InputItem       `json:"input"`
	Reasoning       *ReasoningOptions `json:"reasoning,omitempty"`
	Text            *TextOptions      `json:"text,omitempty"`
	MaxOutputTokens int               `json:"max_output_tokens,omitempty"`
}

type ReasoningOptions struct {
	Effort string `json:"effort,omitempty"`
}

type TextOptions struct {
	Format *ResponseFormat `json:"format,omitempty"`
}

type ResponseFormat struct {
	Type   string `json:"type"`
	Name   string `json:"name,omitempty"`
	Strict bool   `json:"strict,omitempty"`
	Schema any    `json:"schema,omitempty"`
}

type InputItem struct {
	Type    string `json:"type"`
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// ResponseData is the subset of the Responses API reply the classifier reads.
type ResponseData struct {
	ID                string             `json:"id"`
	Status            string             `json:"status"`
	IncompleteDetails *IncompleteDetails `json:"incomplete_details,omitempty"`
	Output            []OutputItem       `json:"output"`
	Usage             Usage              `json:"usage"`
}

type IncompleteDetails struct {
	Reason string `json:"reason"`
}

type OutputItem struct {
	Type    string            `json:"type"`
	Role    string            `json:"role,omitempty"`
	Content []ResponseContent `json:"content,omitempty"`
}

type ResponseContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// OutputText concatenates every output_text part of the reply.
func (r *ResponseData) OutputText() string {
	var b strings.Builder
	for _, item := range r.Output {
		if item.Type != "message" {
			continue
		}
		for _, c := range item.Content {
			if c.Type == "output_text" {
				b.WriteString(c.Text)
			}
		}
	}
	return b.String()
}

type errorEnvelope struct {
	Error errorDetails `json:"error"`
}

type errorDetails struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}

func (e errorDetails) codeString() string {
	if e.Code == nil {
		return ""
	}
	return fmt.Sprint(e.Code)
}

// Client classifies sentences through the OpenAI Responses API.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

var _ sentiment.Classifier = (*Client)(nil)

func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		http:    httpclient.GetDefaultClient(),
	}
}

func (c *Client) ModelName() string { return c.model }

func (c *Client) newRequest(utterance string) (RequestData, error) {
	payload, err := sentiment.NewRequest(utterance)
	if err != nil {
		return RequestData{}, fmt.Errorf("failed to marshal sentence: %w", err)
	}
	req := RequestData{
		Model:        c.model,
		Instructions: sentiment.SystemPrompt,
		Input: []InputItem{
			{Type: "message", Role: "user", Content: string(payload)},
		},
		Text: &TextOptions{Format: &ResponseFormat{
			Type:   "json_schema",
			Name:   "sentiment_label",
			Strict: true,
			Schema: sentiment.LabelSchema(),
		}},
		MaxOutputTokens: 256,
	}
	if isReasoningModel(c.model) {
		req.Reasoning = &ReasoningOptions{Effort: "minimal"}
		// Reasoning tokens count against the output budget.
		req.MaxOutputTokens = 2048
	}
	return req, nil
}

func isReasoningModel(model string) bool {
	m := strings.ToLower(model)
	return strings.HasPrefix(m, "gpt-5") || strings.HasPrefix(m, "o3") || strings.HasPrefix(m, "o4")
}

// Classify sends one utterance and returns the parsed label.
func (c *Client) Classify(ctx context.Context, utterance string) (sentiment.Label, error) {
	req, err := c.newRequest(utterance)
	if err != nil {
		return sentiment.Negative, err
	}
	result, err := c.Generate(ctx, req)
	if err != nil {
		return sentiment.Negative, err
	}
	if result.Status == "incomplete" {
		reason := ""
		if result.IncompleteDetails != nil {
			reason = result.IncompleteDetails.Reason
		}
		return sentiment.Negative, apperrors.Validation(fmt.Errorf("openai response incomplete: %s", reason))
	}
	label, err := sentiment.ParseAnswer(result.OutputText())
	if err != nil {
		return sentiment.Negative, apperrors.Validation(fmt.Errorf("failed to parse OpenAI answer: %w", err))
	}
	return label, nil
}

// Generate posts a raw Responses API request.
func (c *Client) Generate(ctx context.Context, req RequestData) (*ResponseData, error) {
	req.Model = c.model
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}

	body, resp, err := httpclient.PostJSON(ctx, c.http, c.baseURL+"/responses", headers, req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, apperrors.New(
			apperrors.KindTransient,
			"OpenAI request failed due to a temporary network error.",
			fmt.Errorf("request failed: %w", err),
		)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, classifyOpenAIError(resp.StatusCode, resp.Status, parseErrorDetails(body))
	}

	var result ResponseData
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, apperrors.New(
			apperrors.KindValidation,
			"OpenAI response format was invalid.",
			fmt.Errorf("failed to decode response: %w", err),
		)
	}
	logger.Debug("OpenAI response", "status", resp.Status, "usage_total", result.Usage.TotalTokens, "response_id", result.ID)
	return &result, nil
}

func parseErrorDetails(body []byte) errorDetails {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return errorDetails{}
	}
	return envelope.Error
}

func classifyOpenAIError(statusCode int, status string, details errorDetails) error {
	cause := fmt.Errorf("openai status=%s type=%s code=%s message=%s", status, details.Type, details.codeString(), details.Message)

	switch {
	case statusCode == http.StatusTooManyRequests:
		if details.codeString() == "insufficient_quota" {
			return apperrors.New(apperrors.KindAuth, "OpenAI quota exhausted (429): check your plan and billing details.", cause)
		}
		return apperrors.New(apperrors.KindRateLimit, "OpenAI API rate limit exceeded (429): please try again later.", cause)
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return apperrors.New(
			apperrors.KindAuth,
			fmt.Sprintf("OpenAI API authentication/authorization failed (%d): please verify your API key and permissions.", statusCode),
			cause,
		)
	case statusCode == http.StatusNotFound && isOpenAIModelNotFound(details):
		return apperrors.New(apperrors.KindBadRequest, "The model does not exist or you do not have access to it.", cause)
	case statusCode >= 500:
		return apperrors.New(apperrors.KindTransient, fmt.Sprintf("OpenAI server error (%d): please try again later.", statusCode), cause)
	default:
		return apperrors.New(apperrors.KindBadRequest, fmt.Sprintf("OpenAI API error (%d): %s", statusCode, status), cause)
	}
}

func isOpenAIModelNotFound(details errorDetails) bool {
	needle := strings.ToLower(details.codeString() + " " + details.Type + " " + details.Message)
	return strings.Contains(needle, "model_not_found") ||
		strings.Contains(needle, "does not exist or you do not have access to it")
}
