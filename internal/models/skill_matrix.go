package models

import (
	"time"

	"github.com/google/uuid"
)

// SkillMatrix holds one user's self-assessed scores, each in [0,100].
type SkillMatrix struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User             *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	NetworkScore     int       `gorm:"not null;default:0" json:"network_score"`
	DBScore          int       `gorm:"column:db_score;not null;default:0" json:"db_score"`
	SecurityScore    int       `gorm:"not null;default:0" json:"security_score"`
	PerformanceScore int       `gorm:"not null;default:0" json:"performance_score"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// SkillUpdate is a partial overwrite; nil fields are left unchanged.
type SkillUpdate struct {
	NetworkScore     *int `json:"network_score,omitempty"`
	DBScore          *int `json:"db_score,omitempty"`
	SecurityScore    *int `json:"security_score,omitempty"`
	PerformanceScore *int `json:"performance_score,omitempty"`
}

// Columns returns the column/value pairs that are set.
func (u SkillUpdate) Columns() map[string]int {
	cols := make(map[string]int, 4)
	if u.NetworkScore != nil {
		cols["network_score"] = *u.NetworkScore
	}
	if u.DBScore != nil {
		cols["db_score"] = *u.DBScore
	}
	if u.SecurityScore != nil {
		cols["security_score"] = *u.SecurityScore
	}
	if u.PerformanceScore != nil {
		cols["performance_score"] = *u.PerformanceScore
	}
	return cols
}
