package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/GenkiNakashima/systemst/internal/ai"
	"github.com/GenkiNakashima/systemst/internal/featureflags"
	"github.com/GenkiNakashima/systemst/internal/middleware"
	"github.com/GenkiNakashima/systemst/internal/models"
	"github.com/GenkiNakashima/systemst/internal/observability"

	"github.com/google/uuid"
)

// ModerationResult is the flag state attached to a post at creation.
type ModerationResult struct {
	Flagged bool
	Reason  string
}

// ReasonPtr returns the reason for persistence, nil when unflagged.
func (r ModerationResult) ReasonPtr() *string {
	if !r.Flagged {
		return nil
	}
	reason := r.Reason
	return &reason
}

// ModerationGate fact-checks post content before it is stored. It fails open:
// any collaborator failure yields an unflagged result.
type ModerationGate struct {
	checker ai.FactChecker
	flags   *featureflags.Manager
}

// NewModerationGate returns a gate backed by checker. A nil flags manager
// disables the gate.
func NewModerationGate(checker ai.FactChecker, flags *featureflags.Manager) *ModerationGate {
	return &ModerationGate{checker: checker, flags: flags}
}

// Check runs the fact checker once. It never returns an error.
func (g *ModerationGate) Check(ctx context.Context, userID uuid.UUID, content string) ModerationResult {
	start := time.Now()
	if g == nil || g.checker == nil || !g.flags.Enabled(featureflags.AIFactCheck, userID) {
		observability.ObserveAI(ai.OperationFactCheck, observability.OutcomeDisabled, start)
		return ModerationResult{}
	}

	verdict, err := g.checker.FactCheck(ctx, content)
	if err != nil {
		observability.ObserveAI(ai.OperationFactCheck, observability.OutcomeError, start)
		extErr := models.NewExternalServiceError("fact checker", err)
		middleware.Logger.WarnContext(ctx, "fact check failed, accepting post unflagged",
			slog.String("operation", ai.OperationFactCheck),
			slog.String("error", extErr.Error()),
		)
		return ModerationResult{}
	}

	if verdict.Flagged {
		observability.ObserveAI(ai.OperationFactCheck, observability.OutcomeFlagged, start)
		return ModerationResult{Flagged: true, Reason: verdict.Reason}
	}
	observability.ObserveAI(ai.OperationFactCheck, observability.OutcomeSuccess, start)
	return ModerationResult{}
}
