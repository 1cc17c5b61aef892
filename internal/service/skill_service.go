package service

import (
	"context"

	"github.com/GenkiNakashima/systemst/internal/models"
	"github.com/GenkiNakashima/systemst/internal/repository"
	"github.com/GenkiNakashima/systemst/internal/validation"

	"github.com/google/uuid"
)

type SkillService struct {
	skillRepo repository.SkillRepository
}

func NewSkillService(skillRepo repository.SkillRepository) *SkillService {
	return &SkillService{skillRepo: skillRepo}
}

// GetSkills returns the caller's matrix, creating an all-zero one on first access.
func (s *SkillService) GetSkills(ctx context.Context, userID uuid.UUID) (*models.SkillMatrix, error) {
	return s.skillRepo.GetOrCreate(ctx, userID)
}

// UpdateSkills overwrites the provided scores after checking each is in [0,100].
func (s *SkillService) UpdateSkills(ctx context.Context, userID uuid.UUID, update models.SkillUpdate) (*models.SkillMatrix, error) {
	for field, score := range update.Columns() {
		if err := validation.ValidateScore(field, score); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}
	return s.skillRepo.Update(ctx, userID, update)
}
