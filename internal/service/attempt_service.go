package service

import (
	"context"
	"strings"

	"github.com/GenkiNakashima/systemst/internal/models"
	"github.com/GenkiNakashima/systemst/internal/observability"
	"github.com/GenkiNakashima/systemst/internal/repository"

	"github.com/google/uuid"
)

const cannedRunTimeMS = 42

type AttemptService struct {
	attemptRepo  repository.AttemptRepository
	scenarioRepo repository.ScenarioRepository
}

type StartAttemptInput struct {
	UserID       uuid.UUID
	ScenarioID   uuid.UUID
	CodeSnapshot string
}

type SubmitAttemptInput struct {
	UserID          uuid.UUID
	AttemptID       uuid.UUID
	CodeSnapshot    string
	ExecutionTimeMS *int
}

// SubmitResult pairs the updated attempt with its new feedback row.
type SubmitResult struct {
	Attempt  *models.UserAttempt `json:"attempt"`
	Feedback *models.AIFeedback  `json:"feedback"`
}

func NewAttemptService(attemptRepo repository.AttemptRepository, scenarioRepo repository.ScenarioRepository) *AttemptService {
	return &AttemptService{attemptRepo: attemptRepo, scenarioRepo: scenarioRepo}
}

func (s *AttemptService) StartAttempt(ctx context.Context, in StartAttemptInput) (*models.UserAttempt, error) {
	if in.ScenarioID == uuid.Nil {
		return nil, models.NewValidationError("scenario_id is required")
	}
	if strings.TrimSpace(in.CodeSnapshot) == "" {
		return nil, models.NewValidationError("code_snapshot is required")
	}
	scenario, err := s.scenarioRepo.GetByID(ctx, in.ScenarioID)
	if err != nil {
		return nil, err
	}

	attempt := &models.UserAttempt{
		UserID:       in.UserID,
		ScenarioID:   scenario.ID,
		Status:       models.AttemptInProgress,
		CodeSnapshot: in.CodeSnapshot,
	}
	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		return nil, err
	}
	attempt.Scenario = scenario
	return attempt, nil
}

// SubmitAttempt stores the snapshot, generates feedback and settles the status.
func (s *AttemptService) SubmitAttempt(ctx context.Context, in SubmitAttemptInput) (*SubmitResult, error) {
	if strings.TrimSpace(in.CodeSnapshot) == "" {
		return nil, models.NewValidationError("code_snapshot is required")
	}
	if in.ExecutionTimeMS != nil && *in.ExecutionTimeMS < 0 {
		return nil, models.NewValidationError("execution_time_ms must not be negative")
	}

	attempt, err := s.ownedAttempt(ctx, in.UserID, in.AttemptID)
	if err != nil {
		return nil, err
	}

	scenario := attempt.Scenario
	if scenario == nil {
		if scenario, err = s.scenarioRepo.GetByID(ctx, attempt.ScenarioID); err != nil {
			return nil, err
		}
	}

	fb := GenerateFeedback(scenario, in.CodeSnapshot)
	attempt.CodeSnapshot = in.CodeSnapshot
	attempt.ExecutionTimeMS = in.ExecutionTimeMS
	attempt.Status = models.AttemptFailed
	if fb.Solved {
		attempt.Status = models.AttemptSolved
	}

	feedback := &models.AIFeedback{Content: fb.Content, Score: fb.Score}
	if err := s.attemptRepo.SaveSubmission(ctx, attempt, feedback); err != nil {
		return nil, err
	}
	observability.AttemptSubmissionsTotal.WithLabelValues(attempt.Status).Inc()

	attempt.Feedbacks = append(attempt.Feedbacks, *feedback)
	return &SubmitResult{Attempt: attempt, Feedback: feedback}, nil
}

// History lists the caller's attempts newest first.
func (s *AttemptService) History(ctx context.Context, userID uuid.UUID) ([]*models.UserAttempt, error) {
	attempts, err := s.attemptRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if attempts == nil {
		attempts = []*models.UserAttempt{}
	}
	return attempts, nil
}

// RunAttempt returns canned output; code is never executed.
func (s *AttemptService) RunAttempt(ctx context.Context, userID, attemptID uuid.UUID) (*models.RunResult, error) {
	if _, err := s.ownedAttempt(ctx, userID, attemptID); err != nil {
		return nil, err
	}
	return &models.RunResult{
		Output:          "Build succeeded.\nExecution finished with exit code 0.",
		ExecutionTimeMS: cannedRunTimeMS,
		Success:         true,
	}, nil
}

func (s *AttemptService) ownedAttempt(ctx context.Context, userID, attemptID uuid.UUID) (*models.UserAttempt, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, models.NewForbiddenError("You can only access your own attempts")
	}
	return attempt, nil
}
