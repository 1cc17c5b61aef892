// Package ai holds the outbound AI collaborators: a fact checker used to
// moderate posts and a response generator that answers questions in replies.
package ai

import (
	"context"
	"errors"
	"strings"
)

// ErrNotConfigured is returned when no API key is configured.
var ErrNotConfigured = errors.New("ai: api key not configured")

// ErrEmptyResponse is returned when the model answered with no content.
var ErrEmptyResponse = errors.New("ai: empty response")

// Verdict is the outcome of a fact check.
type Verdict struct {
	Flagged bool
	Reason  string
}

// FactChecker reviews post content for clear misinformation.
type FactChecker interface {
	FactCheck(ctx context.Context, content string) (Verdict, error)
}

// ResponseGenerator answers a question given the surrounding conversation.
type ResponseGenerator interface {
	GenerateResponse(ctx context.Context, question, conversationContext string) (string, error)
}

const warningPrefix = "WARNING:"

// ParseVerdict interprets a fact-check answer. Only answers starting with
// "WARNING:", after surrounding whitespace is trimmed, flag the post; the
// remainder is the reason.
func ParseVerdict(answer string) Verdict {
	answer = strings.TrimSpace(answer)
	if !strings.HasPrefix(answer, warningPrefix) {
		return Verdict{}
	}
	reason := strings.TrimSpace(strings.TrimPrefix(answer, warningPrefix))
	if reason == "" {
		reason = "Possible misinformation detected"
	}
	return Verdict{Flagged: true, Reason: reason}
}
