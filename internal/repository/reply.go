package repository

import (
	"context"
	"fmt"

	"github.com/GenkiNakashima/systemst/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReplyRepository defines interface for reply operations
type ReplyRepository interface {
	Create(ctx context.Context, reply *models.Reply) error
	ListByPost(ctx context.Context, postID uuid.UUID) ([]*models.Reply, error)
}

type replyRepository struct {
	db *gorm.DB
}

// NewReplyRepository creates a new ReplyRepository
func NewReplyRepository(db *gorm.DB) ReplyRepository {
	return &replyRepository{db: db}
}

func (r *replyRepository) Create(ctx context.Context, reply *models.Reply) error {
	if err := r.db.WithContext(ctx).Create(reply).Error; err != nil {
		return models.NewInternalError(fmt.Errorf("create reply: %w", err))
	}
	return nil
}

// ListByPost returns the thread oldest first.
func (r *replyRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]*models.Reply, error) {
	var replies []*models.Reply
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&replies).Error
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("list replies: %w", err))
	}
	return replies, nil
}
