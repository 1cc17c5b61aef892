package bootstrap

import (
	"context"
	"testing"

	"github.com/GenkiNakashima/systemst/internal/models"
	"github.com/GenkiNakashima/systemst/internal/seed"
	"github.com/GenkiNakashima/systemst/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedScenarios(t *testing.T) {
	db := testutil.NewTestDB(t)
	require.NoError(t, SeedScenarios(context.Background(), db))

	catalog, err := seed.LoadScenarios()
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Scenario{}).Count(&count).Error)
	assert.Equal(t, int64(len(catalog)), count)
}
