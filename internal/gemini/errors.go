package gemini

import (
	"context"
	"errors"
	"fmt"

	"github.com/oukeidos/sentiview/internal/apperrors"
	"google.golang.org/api/googleapi"
)

// classifyGeminiError maps a genai failure onto an apperrors kind so the
// analysis engine knows whether to retry. Raw API messages stay in Cause.
func classifyGeminiError(err error) error {
	if err == nil {
		return nil
	}
	wrapped := fmt.Errorf("gemini classify failed: %w", err)

	if errors.Is(err, context.Canceled) {
		return wrapped
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.New(apperrors.KindTransient, "Gemini did not answer in time. Please retry.", wrapped)
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		// DNS, socket and stream failures.
		return apperrors.New(apperrors.KindTransient, "Gemini request failed due to a temporary network error.", wrapped)
	}

	code := gerr.Code
	switch {
	case code == 404:
		return apperrors.New(apperrors.KindBadRequest, "Gemini model not found or not available to this key (404).", wrapped)
	case code == 400:
		return apperrors.New(apperrors.KindBadRequest, "Gemini rejected the classification request (400).", wrapped)
	case code == 401 || code == 403:
		return apperrors.New(apperrors.KindAuth, fmt.Sprintf("Gemini API key was rejected (%d).", code), wrapped)
	case code == 429:
		return apperrors.New(apperrors.KindRateLimit, "Gemini rate limit exceeded (429). Please try again later.", wrapped)
	case code >= 500:
		return apperrors.New(apperrors.KindTransient, fmt.Sprintf("Gemini service error (%d). Please retry.", code), wrapped)
	default:
		return apperrors.New(apperrors.KindBadRequest, fmt.Sprintf("Gemini API error (%d).", code), wrapped)
	}
}
