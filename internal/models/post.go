package models

import (
	"time"

	"github.com/google/uuid"
)

// Content limits for posts and replies, counted in characters.
const (
	MaxPostContentLength  = 5000
	MaxReplyContentLength = 2000
)

// Post is a community post. The moderation fields are written once at
// creation and never change afterwards.
type Post struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User         *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	IsAIFlagged  bool      `gorm:"not null;default:false" json:"is_ai_flagged"`
	AIFlagReason *string   `gorm:"type:text" json:"ai_flag_reason"`
	Replies      []Reply   `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"replies,omitempty"`
	// ReactionsCount is computed at query time
	ReactionsCount int64 `gorm:"->;-:migration" json:"reactions_count"`
	// RepliesCount is computed at query time
	RepliesCount int64 `gorm:"->;-:migration" json:"replies_count"`
	// HasReacted reports whether the requesting user reacted to this post (computed)
	HasReacted bool      `gorm:"->;-:migration" json:"has_reacted"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PostPage is a page of posts with its pagination envelope.
type PostPage struct {
	Data        []*Post `json:"data"`
	CurrentPage int     `json:"current_page"`
	PerPage     int     `json:"per_page"`
	Total       int64   `json:"total"`
	LastPage    int     `json:"last_page"`
}

// NewPostPage builds the envelope; LastPage is at least 1.
func NewPostPage(posts []*Post, page, perPage int, total int64) *PostPage {
	last := 1
	if perPage > 0 && total > 0 {
		last = int((total + int64(perPage) - 1) / int64(perPage))
	}
	if posts == nil {
		posts = []*Post{}
	}
	return &PostPage{Data: posts, CurrentPage: page, PerPage: perPage, Total: total, LastPage: last}
}
