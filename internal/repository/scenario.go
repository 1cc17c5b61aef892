package repository

import (
	"context"
	"fmt"

	"github.com/GenkiNakashima/systemst/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScenarioRepository reads the catalog and upserts seed data.
type ScenarioRepository interface {
	List(ctx context.Context, filter models.ScenarioFilter) ([]*models.Scenario, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Scenario, error)
	UpsertByTitle(ctx context.Context, scenarios []*models.Scenario) error
}

type scenarioRepository struct {
	db *gorm.DB
}

// NewScenarioRepository creates a new ScenarioRepository
func NewScenarioRepository(db *gorm.DB) ScenarioRepository {
	return &scenarioRepository{db: db}
}

func (r *scenarioRepository) List(ctx context.Context, filter models.ScenarioFilter) ([]*models.Scenario, error) {
	q := r.db.WithContext(ctx).Model(&models.Scenario{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Difficulty != 0 {
		q = q.Where("difficulty = ?", filter.Difficulty)
	}

	var scenarios []*models.Scenario
	if err := q.Order("category ASC").Order("difficulty ASC").Order("title ASC").Find(&scenarios).Error; err != nil {
		return nil, models.NewInternalError(fmt.Errorf("list scenarios: %w", err))
	}
	return scenarios, nil
}

func (r *scenarioRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Scenario, error) {
	var scenario models.Scenario
	if err := r.db.WithContext(ctx).First(&scenario, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("Scenario", id)
		}
		return nil, models.NewInternalError(fmt.Errorf("get scenario: %w", err))
	}
	return &scenario, nil
}

// UpsertByTitle inserts new scenarios and refreshes existing ones matched by title.
func (r *scenarioRepository) UpsertByTitle(ctx context.Context, scenarios []*models.Scenario) error {
	if len(scenarios) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "title"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"category", "difficulty", "description", "environment_config",
			"broken_code_snippet", "solution_validation_rule", "updated_at",
		}),
	}).Create(&scenarios).Error
	if err != nil {
		return models.NewInternalError(fmt.Errorf("upsert scenarios: %w", err))
	}
	return nil
}
