package seed

import (
	"context"
	"testing"

	"github.com/GenkiNakashima/systemst/internal/models"
	"github.com/GenkiNakashima/systemst/internal/repository"
	"github.com/GenkiNakashima/systemst/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLoadScenarios_EmbeddedCatalogIsValid(t *testing.T) {
	scenarios, err := LoadScenarios()
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	categories := map[string]int{}
	for _, s := range scenarios {
		categories[s.Category]++
		rule := s.Rule()
		if rule.Type == "quiz" {
			assert.Empty(t, rule.MustContain, s.Title)
			continue
		}
		assert.NotEmpty(t, rule.MustContain, s.Title)
		require.NotNil(t, s.BrokenCodeSnippet, s.Title)
		assert.NotRegexp(t, `\n$`, *s.BrokenCodeSnippet)
	}
	for _, c := range models.ScenarioCategories {
		assert.Positive(t, categories[c], "category %s has no scenarios", c)
	}
}

func TestParseScenarios_Rejects(t *testing.T) {
	tests := map[string]string{
		"bad yaml":       "scenarios: [",
		"bad category":   "scenarios:\n  - {title: a, category: Cooking, difficulty: 1, description: d}",
		"bad difficulty": "scenarios:\n  - {title: a, category: OS, difficulty: 9, description: d}",
		"no title":       "scenarios:\n  - {category: OS, difficulty: 1, description: d}",
		"duplicate": "scenarios:\n" +
			"  - {title: a, category: OS, difficulty: 1, description: d}\n" +
			"  - {title: a, category: OS, difficulty: 2, description: d}",
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseScenarios([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestScenarios_UpsertIsIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewScenarioRepository(db)
	ctx := context.Background()

	n, err := Scenarios(ctx, repo)
	require.NoError(t, err)
	_, err = Scenarios(ctx, repo)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Scenario{}).Count(&count).Error)
	assert.Equal(t, int64(n), count)
}

func TestFactory_Demo(t *testing.T) {
	db := testutil.NewTestDB(t)
	f, err := NewFactory(db, Options{Users: 5, Posts: 12, Seed: 42, FastHash: true})
	require.NoError(t, err)

	summary, err := f.Demo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Users)
	assert.Equal(t, 12, summary.Posts)

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 5)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users[0].Password), []byte(DemoPassword)))

	var skills, reactions, replies int64
	require.NoError(t, db.Model(&models.SkillMatrix{}).Count(&skills).Error)
	require.NoError(t, db.Model(&models.Reaction{}).Count(&reactions).Error)
	require.NoError(t, db.Model(&models.Reply{}).Count(&replies).Error)
	assert.Equal(t, int64(5), skills)
	assert.Equal(t, int64(summary.Reactions), reactions)
	assert.Equal(t, int64(summary.Replies), replies)

	require.NoError(t, Clear(context.Background(), db))
	var left int64
	require.NoError(t, db.Model(&models.User{}).Count(&left).Error)
	assert.Zero(t, left)
}

func TestFactory_ReactorsAreDistinct(t *testing.T) {
	f, err := NewFactory(nil, Options{Seed: 7, FastHash: true})
	require.NoError(t, err)

	users := make([]*models.User, 4)
	for i := range users {
		users[i] = f.BuildUser(i)
	}
	for i := 0; i < 20; i++ {
		picked := f.Reactors(users, 10)
		assert.LessOrEqual(t, len(picked), len(users))
		seen := map[*models.User]bool{}
		for _, u := range picked {
			assert.False(t, seen[u], "user picked twice")
			seen[u] = true
		}
	}
}

func TestFactory_BuildUserIsValid(t *testing.T) {
	f, err := NewFactory(nil, Options{Seed: 1, FastHash: true})
	require.NoError(t, err)
	u := f.BuildUser(3)
	assert.Regexp(t, `^[a-z0-9]+3$`, u.Username)
	assert.Equal(t, u.Username+"@example.com", u.Email)
}
