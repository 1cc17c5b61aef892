package repository

import (
	"context"
	"testing"

	"github.com/GenkiNakashima/systemst/internal/models"
	"github.com/GenkiNakashima/systemst/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarioRepository_ListFilters(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewScenarioRepository(db)
	ctx := context.Background()

	testutil.CreateScenario(t, db, "N+1 query", models.CategoryDatabase, 2, "Preload")
	testutil.CreateScenario(t, db, "Missing index", models.CategoryDatabase, 3, "CREATE INDEX")
	testutil.CreateScenario(t, db, "XSS", models.CategorySecurity, 2, "escape")

	all, err := repo.List(ctx, models.ScenarioFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	db2, err := repo.List(ctx, models.ScenarioFilter{Category: models.CategoryDatabase})
	require.NoError(t, err)
	assert.Len(t, db2, 2)

	level2, err := repo.List(ctx, models.ScenarioFilter{Difficulty: 2})
	require.NoError(t, err)
	assert.Len(t, level2, 2)

	both, err := repo.List(ctx, models.ScenarioFilter{Category: models.CategorySecurity, Difficulty: 2})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "XSS", both[0].Title)
	assert.Equal(t, []string{"escape"}, both[0].Rule().MustContain)
}

func TestScenarioRepository_UpsertByTitle(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewScenarioRepository(db)
	ctx := context.Background()

	original := testutil.CreateScenario(t, db, "CORS", models.CategoryNetwork, 1)

	err := repo.UpsertByTitle(ctx, []*models.Scenario{
		{Title: "CORS", Category: models.CategoryNetwork, Difficulty: 2, Description: "updated", SolutionValidationRule: []byte(`{"type":"quiz"}`)},
		{Title: "TCP", Category: models.CategoryNetwork, Difficulty: 1, Description: "handshake", SolutionValidationRule: []byte(`{"type":"quiz"}`)},
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Difficulty)
	assert.Equal(t, "updated", got.Description)

	all, err := repo.List(ctx, models.ScenarioFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}
