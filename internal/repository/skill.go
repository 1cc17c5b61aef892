package repository

import (
	"context"
	"fmt"

	"github.com/GenkiNakashima/systemst/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SkillRepository persists per-user skill matrices.
type SkillRepository interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.SkillMatrix, error)
	Update(ctx context.Context, userID uuid.UUID, update models.SkillUpdate) (*models.SkillMatrix, error)
}

type skillRepository struct {
	db *gorm.DB
}

// NewSkillRepository creates a new SkillRepository
func NewSkillRepository(db *gorm.DB) SkillRepository {
	return &skillRepository{db: db}
}

// GetOrCreate returns the user's matrix, inserting an all-zero row on first use.
// Concurrent first reads converge on one row through the unique user_id index.
func (r *skillRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.SkillMatrix, error) {
	return getOrCreateSkill(r.db.WithContext(ctx), userID)
}

func getOrCreateSkill(db *gorm.DB, userID uuid.UUID) (*models.SkillMatrix, error) {
	var matrix models.SkillMatrix
	err := db.Where("user_id = ?", userID).First(&matrix).Error
	if err == nil {
		return &matrix, nil
	}
	if !isNotFound(err) {
		return nil, models.NewInternalError(fmt.Errorf("get skill matrix: %w", err))
	}

	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&models.SkillMatrix{UserID: userID}).Error
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("create skill matrix: %w", err))
	}

	matrix = models.SkillMatrix{}
	if err := db.Where("user_id = ?", userID).First(&matrix).Error; err != nil {
		return nil, models.NewInternalError(fmt.Errorf("reload skill matrix: %w", err))
	}
	return &matrix, nil
}

// Update overwrites only the provided scores.
func (r *skillRepository) Update(ctx context.Context, userID uuid.UUID, update models.SkillUpdate) (*models.SkillMatrix, error) {
	var out *models.SkillMatrix
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		matrix, err := getOrCreateSkill(tx, userID)
		if err != nil {
			return err
		}

		cols := update.Columns()
		if len(cols) > 0 {
			values := make(map[string]interface{}, len(cols))
			for k, v := range cols {
				values[k] = v
			}
			if err := tx.Model(matrix).Updates(values).Error; err != nil {
				return models.NewInternalError(fmt.Errorf("update skill matrix: %w", err))
			}
		}

		out = &models.SkillMatrix{}
		if err := tx.Where("user_id = ?", userID).First(out).Error; err != nil {
			return models.NewInternalError(fmt.Errorf("reload skill matrix: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
