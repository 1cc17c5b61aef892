package repository

import (
	"context"
	"fmt"

	"github.com/GenkiNakashima/systemst/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostQuery selects a page of the feed. An empty Search disables filtering.
type PostQuery struct {
	Search string
	Limit  int
	Offset int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id, viewerID uuid.UUID) (*models.Post, error)
	GetWithReplies(ctx context.Context, id, viewerID uuid.UUID) (*models.Post, error)
	List(ctx context.Context, q PostQuery, viewerID uuid.UUID) ([]*models.Post, int64, error)
	Trending(ctx context.Context, limit int, viewerID uuid.UUID) ([]*models.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(fmt.Errorf("create post: %w", err))
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id, viewerID uuid.UUID) (*models.Post, error) {
	return r.get(ctx, id, viewerID, false)
}

func (r *postRepository) GetWithReplies(ctx context.Context, id, viewerID uuid.UUID) (*models.Post, error) {
	return r.get(ctx, id, viewerID, true)
}

func (r *postRepository) get(ctx context.Context, id, viewerID uuid.UUID, withReplies bool) (*models.Post, error) {
	var post models.Post
	q := applyPostDetails(r.db.WithContext(ctx), viewerID).Preload("User")
	if withReplies {
		q = q.Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("replies.created_at ASC")
		}).Preload("Replies.User")
	}
	if err := q.Where("posts.id = ?", id).First(&post).Error; err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(fmt.Errorf("get post: %w", err))
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, q PostQuery, viewerID uuid.UUID) ([]*models.Post, int64, error) {
	filter := func(db *gorm.DB) *gorm.DB {
		if q.Search == "" {
			return db
		}
		return db.Where(`LOWER(posts.content) LIKE ? ESCAPE '\'`, likePattern(q.Search))
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(fmt.Errorf("count posts: %w", err))
	}

	var posts []*models.Post
	err := applyPostDetails(r.db.WithContext(ctx), viewerID).
		Scopes(filter).
		Preload("User").
		Order("posts.created_at DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, models.NewInternalError(fmt.Errorf("list posts: %w", err))
	}
	return posts, total, nil
}

// Trending orders by live reaction count; equal counts keep insertion order.
func (r *postRepository) Trending(ctx context.Context, limit int, viewerID uuid.UUID) ([]*models.Post, error) {
	var posts []*models.Post
	err := applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Order("reactions_count DESC").
		Order("posts.created_at ASC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("trending posts: %w", err))
	}
	return posts, nil
}

// Delete removes the post with its replies and reactions.
func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Reaction{}).Error; err != nil {
			return models.NewInternalError(fmt.Errorf("delete reactions: %w", err))
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Reply{}).Error; err != nil {
			return models.NewInternalError(fmt.Errorf("delete replies: %w", err))
		}
		res := tx.Where("id = ?", id).Delete(&models.Post{})
		if res.Error != nil {
			return models.NewInternalError(fmt.Errorf("delete post: %w", res.Error))
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Post", id)
		}
		return nil
	})
}

// applyPostDetails adds subqueries to fetch counts and the viewer's reaction in a single query.
func applyPostDetails(db *gorm.DB, viewerID uuid.UUID) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM reactions WHERE reactions.post_id = posts.id) AS reactions_count, " +
		"(SELECT COUNT(*) FROM replies WHERE replies.post_id = posts.id) AS replies_count"

	if viewerID != uuid.Nil {
		return db.Model(&models.Post{}).Select(selectQuery+
			", EXISTS(SELECT 1 FROM reactions WHERE reactions.post_id = posts.id AND reactions.user_id = ?) AS has_reacted", viewerID)
	}
	return db.Model(&models.Post{}).Select(selectQuery + ", false AS has_reacted")
}
