package seed

import (
	"context"
	"fmt"

	"github.com/GenkiNakashima/systemst/internal/cache"
	"github.com/GenkiNakashima/systemst/internal/models"

	"gorm.io/gorm"
)

// Clear removes all user-generated data, children first. The scenario
// catalog is kept.
func Clear(ctx context.Context, db *gorm.DB) error {
	tables := []any{
		&models.AIFeedback{},
		&models.UserAttempt{},
		&models.Reaction{},
		&models.Reply{},
		&models.Post{},
		&models.SkillMatrix{},
		&models.User{},
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, table := range tables {
			if err := all.Delete(table).Error; err != nil {
				return fmt.Errorf("clear %T: %w", table, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	cache.InvalidateTrending(ctx)
	return nil
}
