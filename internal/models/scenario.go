package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Scenario categories.
const (
	CategoryNetwork     = "Network"
	CategoryDatabase    = "Database"
	CategorySecurity    = "Security"
	CategoryPerformance = "Performance"
	CategoryOS          = "OS"
)

// ScenarioCategories lists the accepted category values.
var ScenarioCategories = []string{CategoryNetwork, CategoryDatabase, CategorySecurity, CategoryPerformance, CategoryOS}

// Scenario is a read-only practice exercise from the catalog.
type Scenario struct {
	ID                     uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title                  string         `gorm:"uniqueIndex;not null;size:255" json:"title"`
	Category               string         `gorm:"not null;index;size:32" json:"category"`
	Difficulty             int            `gorm:"not null;index" json:"difficulty"`
	Description            string         `gorm:"type:text;not null" json:"description"`
	EnvironmentConfig      datatypes.JSON `json:"environment_config"`
	BrokenCodeSnippet      *string        `gorm:"type:text" json:"broken_code_snippet"`
	SolutionValidationRule datatypes.JSON `json:"solution_validation_rule"`
	CreatedAt              time.Time      `json:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at"`
}

// ValidationRule is the decoded form of SolutionValidationRule.
type ValidationRule struct {
	Type        string   `json:"type,omitempty"`
	MustContain []string `json:"must_contain,omitempty"`
}

// Rule decodes the validation rule. An empty or malformed rule yields the zero value.
func (s *Scenario) Rule() ValidationRule {
	var rule ValidationRule
	if len(s.SolutionValidationRule) == 0 {
		return rule
	}
	_ = json.Unmarshal(s.SolutionValidationRule, &rule)
	return rule
}

// ScenarioFilter narrows the catalog listing. Zero values mean no filter.
type ScenarioFilter struct {
	Category   string
	Difficulty int
}
