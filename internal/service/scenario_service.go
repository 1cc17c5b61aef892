package service

import (
	"context"
	"strings"

	"github.com/GenkiNakashima/systemst/internal/cache"
	"github.com/GenkiNakashima/systemst/internal/models"
	"github.com/GenkiNakashima/systemst/internal/repository"

	"github.com/google/uuid"
)

type ScenarioService struct {
	scenarioRepo repository.ScenarioRepository
}

func NewScenarioService(scenarioRepo repository.ScenarioRepository) *ScenarioService {
	return &ScenarioService{scenarioRepo: scenarioRepo}
}

// ListScenarios returns the catalog, optionally narrowed by category and difficulty.
func (s *ScenarioService) ListScenarios(ctx context.Context, filter models.ScenarioFilter) ([]*models.Scenario, error) {
	filter, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	var scenarios []*models.Scenario
	key := cache.ScenarioListKey(filter.Category, filter.Difficulty)
	err = cache.Aside(ctx, key, &scenarios, cache.ScenarioTTL, func() error {
		var fetchErr error
		scenarios, fetchErr = s.scenarioRepo.List(ctx, filter)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	if scenarios == nil {
		scenarios = []*models.Scenario{}
	}
	return scenarios, nil
}

func (s *ScenarioService) GetScenario(ctx context.Context, id uuid.UUID) (*models.Scenario, error) {
	var scenario *models.Scenario
	err := cache.Aside(ctx, cache.ScenarioKey(id.String()), &scenario, cache.ScenarioTTL, func() error {
		var fetchErr error
		scenario, fetchErr = s.scenarioRepo.GetByID(ctx, id)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	return scenario, nil
}

// normalizeFilter canonicalises the category spelling and rejects unknown
// categories and difficulties outside 1-5.
func normalizeFilter(filter models.ScenarioFilter) (models.ScenarioFilter, error) {
	if filter.Difficulty != 0 && (filter.Difficulty < 1 || filter.Difficulty > 5) {
		return filter, models.NewValidationError("difficulty must be between 1 and 5")
	}
	if filter.Category == "" {
		return filter, nil
	}
	for _, c := range models.ScenarioCategories {
		if strings.EqualFold(c, strings.TrimSpace(filter.Category)) {
			filter.Category = c
			return filter, nil
		}
	}
	return filter, models.NewValidationError("unknown category: " + filter.Category)
}
