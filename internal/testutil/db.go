// Package testutil provides in-memory stores and fake collaborators for tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/GenkiNakashima/systemst/internal/database"
	"github.com/GenkiNakashima/systemst/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a migrated, isolated in-memory SQLite database with foreign
// keys enforced. The pool holds a single connection so concurrent callers queue
// on it instead of seeing separate databases.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateUser inserts a user with a bcrypt-hashed "password123".
func CreateUser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// CreatePost inserts an unflagged post.
func CreatePost(t testing.TB, db *gorm.DB, author *models.User, content string) *models.Post {
	t.Helper()

	post := &models.Post{UserID: author.ID, Content: content}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

// CreateScenario inserts a scenario with the given must_contain tokens; no
// tokens produces a quiz scenario.
func CreateScenario(t testing.TB, db *gorm.DB, title, category string, difficulty int, mustContain ...string) *models.Scenario {
	t.Helper()

	rule := []byte(`{"type":"quiz"}`)
	if len(mustContain) > 0 {
		rule = []byte(fmt.Sprintf(`{"must_contain":%s}`, quoteAll(mustContain)))
	}
	scenario := &models.Scenario{
		Title:                  title,
		Category:               category,
		Difficulty:             difficulty,
		Description:            title + " description",
		EnvironmentConfig:      []byte(`{"language":"go"}`),
		SolutionValidationRule: rule,
	}
	if err := db.Create(scenario).Error; err != nil {
		t.Fatalf("create scenario: %v", err)
	}
	return scenario
}

func quoteAll(items []string) string {
	out := "["
	for i, item := range items {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf("%q", item)
	}
	return out + "]"
}
