package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/GenkiNakashima/systemst/internal/models"
	"github.com/GenkiNakashima/systemst/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedPostAt(t *testing.T, db *gorm.DB, author *models.User, content string, at time.Time) *models.Post {
	t.Helper()
	post := &models.Post{UserID: author.ID, Content: content, CreatedAt: at, UpdatedAt: at}
	require.NoError(t, db.Create(post).Error)
	return post
}

func react(t *testing.T, db *gorm.DB, post *models.Post, users ...*models.User) {
	t.Helper()
	for _, u := range users {
		require.NoError(t, db.Create(&models.Reaction{PostID: post.ID, UserID: u.ID}).Error)
	}
}

func TestPostRepository_ListOrdersByRecencyWithCounts(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	base := time.Now().Add(-time.Hour)

	older := seedPostAt(t, db, alice, "Indexes speed up lookups", base)
	newer := seedPostAt(t, db, bob, "CORS preflight explained", base.Add(time.Minute))
	react(t, db, older, alice, bob)
	require.NoError(t, db.Create(&models.Reply{PostID: older.ID, UserID: &bob.ID, Content: "nice"}).Error)

	posts, total, err := repo.List(ctx, PostQuery{Limit: 15}, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, posts, 2)

	assert.Equal(t, newer.ID, posts[0].ID)
	assert.Equal(t, older.ID, posts[1].ID)
	assert.Equal(t, int64(2), posts[1].ReactionsCount)
	assert.Equal(t, int64(1), posts[1].RepliesCount)
	assert.True(t, posts[1].HasReacted)
	assert.False(t, posts[0].HasReacted)
	require.NotNil(t, posts[1].User)
	assert.Equal(t, "alice", posts[1].User.Username)
}

func TestPostRepository_ListAnonymousViewer(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostRepository(db)

	alice := testutil.CreateUser(t, db, "alice")
	post := testutil.CreatePost(t, db, alice, "hello")
	react(t, db, post, alice)

	posts, _, err := repo.List(context.Background(), PostQuery{Limit: 10}, uuid.Nil)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.False(t, posts[0].HasReacted)
	assert.Equal(t, int64(1), posts[0].ReactionsCount)
}

func TestPostRepository_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	testutil.CreatePost(t, db, alice, "Understanding TCP handshakes")
	testutil.CreatePost(t, db, alice, "Why N+1 queries hurt")
	testutil.CreatePost(t, db, alice, "100% coverage is a myth")

	posts, total, err := repo.List(ctx, PostQuery{Search: "tcp", Limit: 10}, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, posts, 1)
	assert.Contains(t, posts[0].Content, "TCP")

	posts, _, err = repo.List(ctx, PostQuery{Search: "%", Limit: 10}, uuid.Nil)
	require.NoError(t, err)
	require.Len(t, posts, 1, "wildcards in the search term are literal")
	assert.Contains(t, posts[0].Content, "100%")
}

func TestPostRepository_ListPaginates(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostRepository(db)
	alice := testutil.CreateUser(t, db, "alice")
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		seedPostAt(t, db, alice, fmt.Sprintf("post %d", i), base.Add(time.Duration(i)*time.Minute))
	}

	page2, total, err := repo.List(context.Background(), PostQuery{Limit: 2, Offset: 2}, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page2, 2)
	assert.Equal(t, "post 2", page2[0].Content)
	assert.Equal(t, "post 1", page2[1].Content)
}

func TestPostRepository_TrendingTopThreeByReactions(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostRepository(db)

	users := make([]*models.User, 4)
	for i := range users {
		users[i] = testutil.CreateUser(t, db, fmt.Sprintf("user%d", i))
	}
	base := time.Now().Add(-time.Hour)
	seedPostAt(t, db, users[0], "zero", base)
	p1 := seedPostAt(t, db, users[0], "one", base.Add(time.Minute))
	p2 := seedPostAt(t, db, users[0], "two", base.Add(2*time.Minute))
	p3 := seedPostAt(t, db, users[0], "three", base.Add(3*time.Minute))

	react(t, db, p3, users...)
	react(t, db, p1, users[0], users[1])
	react(t, db, p2, users[2], users[3])

	posts, err := repo.Trending(context.Background(), 3, users[0].ID)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, p3.ID, posts[0].ID)
	assert.Equal(t, p1.ID, posts[1].ID, "ties keep insertion order")
	assert.Equal(t, p2.ID, posts[2].ID)
	for i := 1; i < len(posts); i++ {
		assert.GreaterOrEqual(t, posts[i-1].ReactionsCount, posts[i].ReactionsCount)
	}
	assert.True(t, posts[0].HasReacted)
	assert.False(t, posts[2].HasReacted)
}

func TestPostRepository_GetWithReplies(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	post := testutil.CreatePost(t, db, alice, "question")
	base := time.Now().Add(-time.Minute)
	require.NoError(t, db.Create(&models.Reply{PostID: post.ID, Content: "ai answer", IsAIResponse: true, CreatedAt: base.Add(time.Second)}).Error)
	require.NoError(t, db.Create(&models.Reply{PostID: post.ID, UserID: &alice.ID, Content: "first", CreatedAt: base}).Error)

	got, err := repo.GetWithReplies(ctx, post.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, got.Replies, 2)
	assert.Equal(t, "first", got.Replies[0].Content)
	assert.Nil(t, got.Replies[1].UserID)
	assert.Equal(t, int64(2), got.RepliesCount)

	_, err = repo.GetByID(ctx, uuid.New(), alice.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestPostRepository_DeleteCascades(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	post := testutil.CreatePost(t, db, alice, "to be removed")
	react(t, db, post, alice)
	require.NoError(t, db.Create(&models.Reply{PostID: post.ID, UserID: &alice.ID, Content: "reply"}).Error)

	require.NoError(t, repo.Delete(ctx, post.ID))

	var n int64
	db.Model(&models.Reaction{}).Where("post_id = ?", post.ID).Count(&n)
	assert.Zero(t, n)
	db.Model(&models.Reply{}).Where("post_id = ?", post.ID).Count(&n)
	assert.Zero(t, n)

	err := repo.Delete(ctx, post.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}
