package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestPublicMessage_UsesSafeMessage(t *testing.T) {
	sentinel := errors.New("SECRET_VALUE")
	err := New(KindAuth, "safe auth error", sentinel)
	if got := PublicMessage(err); got != "safe auth error" {
		t.Fatalf("PublicMessage() = %q, want %q", got, "safe auth error")
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped cause to be retained for internal matching")
	}
}

func TestKindOfAndRetryable(t *testing.T) {
	cases := []struct {
		err       error
		kind      Kind
		retryable bool
	}{
		{RateLimit(errors.New("429")), KindRateLimit, true},
		{Transient(errors.New("eof")), KindTransient, true},
		{Validation(errors.New("bad json")), KindValidation, true},
		{Auth(errors.New("401")), KindAuth, false},
		{BadRequest(errors.New("400")), KindBadRequest, false},
		{Input("Please enter some text to analyze."), KindInput, false},
		{New(KindBusy, "", nil), KindBusy, false},
	}
	for _, tc := range cases {
		kind, ok := KindOf(tc.err)
		if !ok || kind != tc.kind {
			t.Fatalf("KindOf() = (%q, %v), want (%q, true)", kind, ok, tc.kind)
		}
		if got := IsRetryable(tc.err); got != tc.retryable {
			t.Fatalf("IsRetryable(%s) = %v, want %v", tc.kind, got, tc.retryable)
		}
	}
}

func TestKindOf_SurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("utterance 3: %w", RateLimit(errors.New("slow down")))
	if !IsRateLimit(err) {
		t.Fatalf("expected wrapped rate limit to be detected")
	}
	if got := PublicMessage(err); got != defaultSafeMessage(KindRateLimit) {
		t.Fatalf("PublicMessage() = %q", got)
	}
}

func TestPublicMessage_NonAppError(t *testing.T) {
	err := errors.New("plain")
	if got := PublicMessage(err); got != "plain" {
		t.Fatalf("PublicMessage() = %q, want %q", got, "plain")
	}
	if PublicMessage(nil) != "" {
		t.Fatalf("expected empty message for nil error")
	}
}
