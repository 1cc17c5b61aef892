package models

import (
	"time"

	"github.com/google/uuid"
)

// Reaction marks that a user reacted to a post. The composite unique
// index allows at most one row per (post, user).
type Reaction struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reaction_post_user" json:"post_id"`
	Post      *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reaction_post_user;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// ReactionToggleResult is the outcome of a toggle.
type ReactionToggleResult struct {
	Reacted        bool  `json:"reacted"`
	ReactionsCount int64 `json:"reactions_count"`
}
