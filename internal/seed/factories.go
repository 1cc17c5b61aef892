// Package seed loads the scenario catalog and generates demo community data
// for development environments.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/GenkiNakashima/systemst/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password of every generated user.
const DemoPassword = "password123"

// Options configure demo data generation.
type Options struct {
	Users int
	Posts int
	// MaxDays bounds how far back post timestamps are spread.
	MaxDays int
	// Seed makes generation reproducible; zero uses the clock.
	Seed int64
	// FastHash uses bcrypt.MinCost so large seeds finish quickly.
	FastHash bool
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db    *gorm.DB
	opts  Options
	faker *gofakeit.Faker
	hash  string
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) (*Factory, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 30
	}

	cost := bcrypt.DefaultCost
	if opts.FastHash {
		cost = bcrypt.MinCost
	}
	// one hash shared by every demo account
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	return &Factory{db: db, opts: opts, faker: gofakeit.New(seed), hash: string(hash)}, nil
}

// BuildUser returns an unsaved user with a unique username derived from n.
func (f *Factory) BuildUser(n int) *models.User {
	base := strings.ToLower(f.faker.Username())
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, base)
	if len(base) > 20 {
		base = base[:20]
	}
	if base == "" {
		base = "user"
	}
	username := fmt.Sprintf("%s%d", base, n)
	return &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: f.hash,
	}
}

// BuildPost returns an unsaved post by author with a timestamp in the last MaxDays.
func (f *Factory) BuildPost(author *models.User) *models.Post {
	content := f.faker.HackerPhrase()
	if f.faker.Bool() {
		content += " " + f.faker.Sentence(f.faker.IntRange(6, 14))
	}
	return &models.Post{
		UserID:    author.ID,
		Content:   content,
		CreatedAt: f.pastTime(),
	}
}

// BuildReply returns an unsaved human reply on post.
func (f *Factory) BuildReply(author *models.User, post *models.Post) *models.Reply {
	authorID := author.ID
	createdAt := post.CreatedAt.Add(time.Duration(f.faker.IntRange(1, 240)) * time.Minute)
	if now := time.Now().UTC(); createdAt.After(now) {
		createdAt = now
	}
	return &models.Reply{
		PostID:    post.ID,
		UserID:    &authorID,
		Content:   f.faker.Sentence(f.faker.IntRange(4, 12)),
		CreatedAt: createdAt,
	}
}

// BuildSkills returns an unsaved skill matrix with random scores.
func (f *Factory) BuildSkills(user *models.User) *models.SkillMatrix {
	return &models.SkillMatrix{
		UserID:           user.ID,
		NetworkScore:     f.faker.IntRange(0, 100),
		DBScore:          f.faker.IntRange(0, 100),
		SecurityScore:    f.faker.IntRange(0, 100),
		PerformanceScore: f.faker.IntRange(0, 100),
	}
}

// Reactors picks up to limit distinct users to react to a post.
func (f *Factory) Reactors(users []*models.User, limit int) []*models.User {
	if limit > len(users) {
		limit = len(users)
	}
	n := f.faker.IntRange(0, limit)
	out := make([]*models.User, 0, n)
	for _, i := range f.faker.Rand.Perm(len(users))[:n] {
		out = append(out, users[i])
	}
	return out
}

func (f *Factory) pastTime() time.Time {
	back := time.Duration(f.faker.IntRange(0, f.opts.MaxDays*24*60)) * time.Minute
	return time.Now().Add(-back).UTC()
}

// Demo generates users with skill matrices, posts, reactions and replies.
func (f *Factory) Demo(ctx context.Context) (*DemoSummary, error) {
	summary := &DemoSummary{}
	err := f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := make([]*models.User, 0, f.opts.Users)
		for i := 0; i < f.opts.Users; i++ {
			users = append(users, f.BuildUser(i+1))
		}
		if len(users) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(users, 100).Error; err != nil {
			return fmt.Errorf("create users: %w", err)
		}
		summary.Users = len(users)

		skills := make([]*models.SkillMatrix, 0, len(users))
		for _, u := range users {
			skills = append(skills, f.BuildSkills(u))
		}
		if err := tx.CreateInBatches(skills, 100).Error; err != nil {
			return fmt.Errorf("create skills: %w", err)
		}

		posts := make([]*models.Post, 0, f.opts.Posts)
		for i := 0; i < f.opts.Posts; i++ {
			posts = append(posts, f.BuildPost(users[f.faker.IntRange(0, len(users)-1)]))
		}
		if len(posts) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(posts, 100).Error; err != nil {
			return fmt.Errorf("create posts: %w", err)
		}
		summary.Posts = len(posts)

		var reactions []*models.Reaction
		var replies []*models.Reply
		for _, p := range posts {
			for _, u := range f.Reactors(users, 8) {
				reactions = append(reactions, &models.Reaction{PostID: p.ID, UserID: u.ID})
			}
			for j := f.faker.IntRange(0, 3); j > 0; j-- {
				replies = append(replies, f.BuildReply(users[f.faker.IntRange(0, len(users)-1)], p))
			}
		}
		if len(reactions) > 0 {
			if err := tx.CreateInBatches(reactions, 200).Error; err != nil {
				return fmt.Errorf("create reactions: %w", err)
			}
		}
		if len(replies) > 0 {
			if err := tx.CreateInBatches(replies, 200).Error; err != nil {
				return fmt.Errorf("create replies: %w", err)
			}
		}
		summary.Reactions, summary.Replies = len(reactions), len(replies)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// DemoSummary counts what Demo created.
type DemoSummary struct {
	Users     int
	Posts     int
	Reactions int
	Replies   int
}
