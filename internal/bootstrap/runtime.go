// Package bootstrap wires the process-level dependencies shared by the commands.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GenkiNakashima/systemst/internal/cache"
	"github.com/GenkiNakashima/systemst/internal/config"
	"github.com/GenkiNakashima/systemst/internal/database"
	"github.com/GenkiNakashima/systemst/internal/middleware"
	"github.com/GenkiNakashima/systemst/internal/repository"
	"github.com/GenkiNakashima/systemst/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedScenarios bool
}

// InitRuntime connects to DB and Redis and optionally seeds the scenario catalog.
// The returned Redis client is nil when Redis is unreachable.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedScenarios {
		if err := SeedScenarios(ctx, db); err != nil {
			return nil, nil, err
		}
	}

	return db, r, nil
}

// SeedScenarios upserts the embedded scenario catalog.
func SeedScenarios(ctx context.Context, db *gorm.DB) error {
	n, err := seed.Scenarios(ctx, repository.NewScenarioRepository(db))
	if err != nil {
		return fmt.Errorf("failed to seed scenarios: %w", err)
	}
	middleware.Logger.Info("scenario catalog seeded", slog.Int("count", n))
	return nil
}
