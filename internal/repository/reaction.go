package repository

import (
	"context"
	"fmt"

	"github.com/GenkiNakashima/systemst/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionRepository defines reaction persistence.
type ReactionRepository interface {
	Toggle(ctx context.Context, postID, userID uuid.UUID) (*models.ReactionToggleResult, error)
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new ReactionRepository
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// Toggle removes the user's reaction if present, otherwise adds it, and
// re-counts inside the same transaction. The unique (post_id, user_id) index
// turns a racing duplicate insert into a no-op.
func (r *reactionRepository) Toggle(ctx context.Context, postID, userID uuid.UUID) (*models.ReactionToggleResult, error) {
	result := &models.ReactionToggleResult{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&exists).Error; err != nil {
			return models.NewInternalError(fmt.Errorf("check post: %w", err))
		}
		if exists == 0 {
			return models.NewNotFoundError("Post", postID)
		}

		del := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Reaction{})
		if del.Error != nil {
			return models.NewInternalError(fmt.Errorf("delete reaction: %w", del.Error))
		}

		if del.RowsAffected == 0 {
			reaction := &models.Reaction{PostID: postID, UserID: userID}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
				DoNothing: true,
			}).Create(reaction).Error
			if err != nil {
				return models.NewInternalError(fmt.Errorf("insert reaction: %w", err))
			}
			result.Reacted = true
		}

		if err := tx.Model(&models.Reaction{}).Where("post_id = ?", postID).Count(&result.ReactionsCount).Error; err != nil {
			return models.NewInternalError(fmt.Errorf("count reactions: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
