package repository

import (
	"context"
	"fmt"

	"github.com/GenkiNakashima/systemst/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttemptRepository persists practice attempts and their feedback.
type AttemptRepository interface {
	Create(ctx context.Context, attempt *models.UserAttempt) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.UserAttempt, error)
	SaveSubmission(ctx context.Context, attempt *models.UserAttempt, feedback *models.AIFeedback) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.UserAttempt, error)
}

type attemptRepository struct {
	db *gorm.DB
}

// NewAttemptRepository creates a new AttemptRepository
func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(ctx context.Context, attempt *models.UserAttempt) error {
	if err := r.db.WithContext(ctx).Omit("Scenario", "Feedbacks").Create(attempt).Error; err != nil {
		return models.NewInternalError(fmt.Errorf("create attempt: %w", err))
	}
	return nil
}

func (r *attemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.UserAttempt, error) {
	var attempt models.UserAttempt
	err := r.db.WithContext(ctx).
		Preload("Scenario").
		Preload("Feedbacks", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&attempt, "id = ?", id).Error
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("Attempt", id)
		}
		return nil, models.NewInternalError(fmt.Errorf("get attempt: %w", err))
	}
	return &attempt, nil
}

// SaveSubmission stores the new snapshot and status together with the feedback row.
func (r *attemptRepository) SaveSubmission(ctx context.Context, attempt *models.UserAttempt, feedback *models.AIFeedback) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.UserAttempt{}).Where("id = ?", attempt.ID).Updates(map[string]interface{}{
			"code_snapshot":     attempt.CodeSnapshot,
			"status":            attempt.Status,
			"execution_time_ms": attempt.ExecutionTimeMS,
		}).Error
		if err != nil {
			return models.NewInternalError(fmt.Errorf("update attempt: %w", err))
		}

		feedback.AttemptID = attempt.ID
		if err := tx.Create(feedback).Error; err != nil {
			return models.NewInternalError(fmt.Errorf("create feedback: %w", err))
		}
		return nil
	})
}

// ListByUser returns the user's attempts newest first with scenario and feedback.
func (r *attemptRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.UserAttempt, error) {
	var attempts []*models.UserAttempt
	err := r.db.WithContext(ctx).
		Preload("Scenario").
		Preload("Feedbacks", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("list attempts: %w", err))
	}
	return attempts, nil
}
