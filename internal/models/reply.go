package models

import (
	"time"

	"github.com/google/uuid"
)

// Reply belongs to a post. AI replies have no author (UserID nil).
type Reply struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PostID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"post_id"`
	UserID       *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User         *User      `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
	Content      string     `gorm:"type:text;not null" json:"content"`
	IsAIResponse bool       `gorm:"not null;default:false" json:"is_ai_response"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
