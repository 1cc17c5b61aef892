package models

import (
	"time"

	"github.com/google/uuid"
)

// Attempt statuses.
const (
	AttemptInProgress = "in_progress"
	AttemptSolved     = "solved"
	AttemptFailed     = "failed"
)

// UserAttempt records a user's work on a scenario.
type UserAttempt struct {
	ID              uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID    `gorm:"type:uuid;not null;index" json:"user_id"`
	User            *User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ScenarioID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"scenario_id"`
	Scenario        *Scenario    `gorm:"foreignKey:ScenarioID;constraint:OnDelete:CASCADE" json:"scenario,omitempty"`
	Status          string       `gorm:"not null;size:20;default:in_progress" json:"status"`
	CodeSnapshot    string       `gorm:"type:text" json:"code_snapshot"`
	ExecutionTimeMS *int         `json:"execution_time_ms"`
	Feedbacks       []AIFeedback `gorm:"foreignKey:AttemptID;constraint:OnDelete:CASCADE" json:"feedbacks,omitempty"`
	CreatedAt       time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// AIFeedback is generated feedback for a submitted attempt.
type AIFeedback struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AttemptID uuid.UUID `gorm:"type:uuid;not null;index" json:"attempt_id"`
	Content   string    `gorm:"column:feedback_content;type:text;not null" json:"feedback_content"`
	Score     int       `gorm:"not null" json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName keeps the table name readable.
func (AIFeedback) TableName() string { return "ai_feedbacks" }

// RunResult is the canned output of a code run.
type RunResult struct {
	Output          string `json:"output"`
	ExecutionTimeMS int    `json:"execution_time_ms"`
	Success         bool   `json:"success"`
}
