package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/GenkiNakashima/systemst/internal/cache"
	"github.com/GenkiNakashima/systemst/internal/models"
	"github.com/GenkiNakashima/systemst/internal/repository"

	"gopkg.in/yaml.v3"
)

//go:embed scenarios.yaml
var scenarioCatalog []byte

type scenarioFile struct {
	Scenarios []scenarioEntry `yaml:"scenarios"`
}

type scenarioEntry struct {
	Title                  string         `yaml:"title"`
	Category               string         `yaml:"category"`
	Difficulty             int            `yaml:"difficulty"`
	Description            string         `yaml:"description"`
	EnvironmentConfig      map[string]any `yaml:"environment_config"`
	BrokenCodeSnippet      string         `yaml:"broken_code_snippet"`
	SolutionValidationRule map[string]any `yaml:"solution_validation_rule"`
}

// LoadScenarios parses the embedded catalog.
func LoadScenarios() ([]*models.Scenario, error) {
	return ParseScenarios(scenarioCatalog)
}

// ParseScenarios decodes a YAML catalog and checks every entry.
func ParseScenarios(raw []byte) ([]*models.Scenario, error) {
	var file scenarioFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse scenario catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Scenarios))
	out := make([]*models.Scenario, 0, len(file.Scenarios))
	for i, entry := range file.Scenarios {
		if err := entry.validate(); err != nil {
			return nil, fmt.Errorf("scenario %d: %w", i, err)
		}
		if _, dup := seen[entry.Title]; dup {
			return nil, fmt.Errorf("scenario %d: duplicate title %q", i, entry.Title)
		}
		seen[entry.Title] = struct{}{}

		scenario, err := entry.toModel()
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", entry.Title, err)
		}
		out = append(out, scenario)
	}
	return out, nil
}

// Scenarios upserts the embedded catalog and drops cached listings.
func Scenarios(ctx context.Context, repo repository.ScenarioRepository) (int, error) {
	scenarios, err := LoadScenarios()
	if err != nil {
		return 0, err
	}
	if err := repo.UpsertByTitle(ctx, scenarios); err != nil {
		return 0, err
	}
	cache.InvalidateScenarios(ctx)
	return len(scenarios), nil
}

func (e scenarioEntry) validate() error {
	switch {
	case strings.TrimSpace(e.Title) == "":
		return fmt.Errorf("title is required")
	case !slices.Contains(models.ScenarioCategories, e.Category):
		return fmt.Errorf("unknown category %q", e.Category)
	case e.Difficulty < 1 || e.Difficulty > 5:
		return fmt.Errorf("difficulty %d out of range", e.Difficulty)
	case strings.TrimSpace(e.Description) == "":
		return fmt.Errorf("description is required")
	}
	return nil
}

func (e scenarioEntry) toModel() (*models.Scenario, error) {
	envConfig, err := json.Marshal(e.EnvironmentConfig)
	if err != nil {
		return nil, fmt.Errorf("environment_config: %w", err)
	}
	rule, err := json.Marshal(e.SolutionValidationRule)
	if err != nil {
		return nil, fmt.Errorf("solution_validation_rule: %w", err)
	}

	scenario := &models.Scenario{
		Title:                  strings.TrimSpace(e.Title),
		Category:               e.Category,
		Difficulty:             e.Difficulty,
		Description:            strings.TrimSpace(e.Description),
		EnvironmentConfig:      envConfig,
		SolutionValidationRule: rule,
	}
	if snippet := strings.TrimRight(e.BrokenCodeSnippet, "\n"); snippet != "" {
		scenario.BrokenCodeSnippet = &snippet
	}
	return scenario, nil
}
