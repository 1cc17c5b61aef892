package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/GenkiNakashima/systemst/internal/models"
	"github.com/GenkiNakashima/systemst/internal/service"
	"github.com/GenkiNakashima/systemst/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	ts := newTestServer(t)
	alice := testutil.CreateUser(t, ts.db, "alice")
	token := ts.tokenFor(t, alice)

	t.Run("clean post", func(t *testing.T) {
		var resp CreatePostResponse
		status := ts.do(t, http.MethodPost, "/api/posts", token, map[string]string{"content": "  Indexes speed up reads  "}, &resp)
		require.Equal(t, http.StatusCreated, status)
		assert.Equal(t, "Indexes speed up reads", resp.Post.Content)
		assert.False(t, resp.Post.IsAIFlagged)
		assert.Nil(t, resp.AIWarning)
		assert.Equal(t, alice.ID, resp.Post.UserID)
	})

	t.Run("flagged post carries the warning", func(t *testing.T) {
		ts.checker.Flagged, ts.checker.Reason = true, "TCP is not connectionless"
		defer func() { ts.checker.Flagged, ts.checker.Reason = false, "" }()

		var resp CreatePostResponse
		status := ts.do(t, http.MethodPost, "/api/posts", token, map[string]string{"content": "TCP is connectionless"}, &resp)
		require.Equal(t, http.StatusCreated, status)
		assert.True(t, resp.Post.IsAIFlagged)
		require.NotNil(t, resp.AIWarning)
		assert.Equal(t, "TCP is not connectionless", *resp.AIWarning)
	})

	t.Run("fact check failure still creates the post", func(t *testing.T) {
		ts.checker.Err = errors.New("timeout")
		defer func() { ts.checker.Err = nil }()

		var resp CreatePostResponse
		require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/posts", token, map[string]string{"content": "UDP has no handshake"}, &resp))
		assert.False(t, resp.Post.IsAIFlagged)
	})

	t.Run("validation", func(t *testing.T) {
		var body models.ErrorResponse
		assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/api/posts", token, map[string]string{"content": "   "}, &body))
		assert.Equal(t, "Content is required", body.Error)
		assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/api/posts", token, `not json`, nil))
	})

	t.Run("requires auth", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodPost, "/api/posts", "", map[string]string{"content": "hi"}, nil))
	})
}

func TestGetPosts(t *testing.T) {
	ts := newTestServer(t)
	alice := testutil.CreateUser(t, ts.db, "alice")
	bob := testutil.CreateUser(t, ts.db, "bob")
	for i := 0; i < 3; i++ {
		testutil.CreatePost(t, ts.db, alice, fmt.Sprintf("Postgres tip %d", i))
	}
	other := testutil.CreatePost(t, ts.db, bob, "Redis eviction policies")
	require.NoError(t, ts.db.Create(&models.Reaction{PostID: other.ID, UserID: alice.ID}).Error)

	var page models.PostPage
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/posts?per_page=2", "", nil, &page))
	assert.Len(t, page.Data, 2)
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, 2, page.LastPage)
	assert.Equal(t, 2, page.PerPage)

	var search models.PostPage
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/posts?search=REDIS", ts.tokenFor(t, alice), nil, &search))
	require.Len(t, search.Data, 1)
	assert.True(t, search.Data[0].HasReacted)
	assert.Equal(t, int64(1), search.Data[0].ReactionsCount)

	var viaSearch models.PostPage
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/posts/search?q=postgres", "", nil, &viaSearch))
	assert.Equal(t, int64(3), viaSearch.Total)

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/posts/search", "", nil, nil))
}

func TestGetPostAndReplies(t *testing.T) {
	ts := newTestServer(t)
	alice := testutil.CreateUser(t, ts.db, "alice")
	post := testutil.CreatePost(t, ts.db, alice, "What is MVCC?")
	aliceID := alice.ID
	require.NoError(t, ts.db.Create(&models.Reply{PostID: post.ID, UserID: &aliceID, Content: "first"}).Error)

	var got models.Post
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/posts/"+post.ID.String(), "", nil, &got))
	assert.Equal(t, post.ID, got.ID)
	require.Len(t, got.Replies, 1)

	var replies []models.Reply
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/posts/"+post.ID.String()+"/replies", "", nil, &replies))
	assert.Len(t, replies, 1)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/posts/"+uuid.NewString(), "", nil, nil))
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/posts/"+uuid.NewString()+"/replies", "", nil, nil))
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/posts/not-a-uuid", "", nil, nil))
}

func TestDeletePost(t *testing.T) {
	ts := newTestServer(t)
	alice := testutil.CreateUser(t, ts.db, "alice")
	bob := testutil.CreateUser(t, ts.db, "bob")
	post := testutil.CreatePost(t, ts.db, alice, "mine")
	path := "/api/posts/" + post.ID.String()

	var body models.ErrorResponse
	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodDelete, path, ts.tokenFor(t, bob), nil, &body))
	assert.Equal(t, models.CodeForbidden, body.Code)

	var deleted struct {
		Message string `json:"message"`
	}
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodDelete, path, ts.tokenFor(t, alice), nil, &deleted))
	assert.Equal(t, "Post deleted successfully", deleted.Message)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodDelete, path, ts.tokenFor(t, alice), nil, nil))
}

func TestToggleReaction(t *testing.T) {
	ts := newTestServer(t)
	alice := testutil.CreateUser(t, ts.db, "alice")
	post := testutil.CreatePost(t, ts.db, alice, "react to me")
	token := ts.tokenFor(t, alice)
	path := "/api/posts/" + post.ID.String() + "/reactions"

	var first, second models.ReactionToggleResult
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, path, token, nil, &first))
	assert.True(t, first.Reacted)
	assert.Equal(t, int64(1), first.ReactionsCount)

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, path, token, nil, &second))
	assert.False(t, second.Reacted)
	assert.Equal(t, int64(0), second.ReactionsCount)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPost, "/api/posts/"+uuid.NewString()+"/reactions", token, nil, nil))
}

func TestGetTrendingPosts(t *testing.T) {
	ts := newTestServer(t)
	alice := testutil.CreateUser(t, ts.db, "alice")
	bob := testutil.CreateUser(t, ts.db, "bob")

	var empty []models.Post
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/posts/trending", "", nil, &empty))
	assert.Empty(t, empty)

	quiet := testutil.CreatePost(t, ts.db, alice, "quiet")
	popular := testutil.CreatePost(t, ts.db, alice, "popular")
	for _, u := range []*models.User{alice, bob} {
		require.NoError(t, ts.db.Create(&models.Reaction{PostID: popular.ID, UserID: u.ID}).Error)
	}

	var trending []models.Post
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/posts/trending", "", nil, &trending))
	require.Len(t, trending, 2)
	assert.Equal(t, popular.ID, trending[0].ID)
	assert.Equal(t, quiet.ID, trending[1].ID)
}

func TestCreateReply(t *testing.T) {
	ts := newTestServer(t)
	alice := testutil.CreateUser(t, ts.db, "alice")
	post := testutil.CreatePost(t, ts.db, alice, "Why add an index?")
	token := ts.tokenFor(t, alice)
	path := "/api/posts/" + post.ID.String() + "/replies"

	var human models.Reply
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, path, token, map[string]string{"content": "Faster reads"}, &human))
	assert.False(t, human.IsAIResponse)
	require.NotNil(t, human.UserID)
	assert.Equal(t, alice.ID, *human.UserID)

	var assisted models.Reply
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, path, token, map[string]string{"content": "@checkAI is this right?"}, &assisted))
	assert.True(t, assisted.IsAIResponse)
	assert.Nil(t, assisted.UserID)
	assert.Equal(t, "An index speeds up lookups.", assisted.Content)
	require.Equal(t, 1, ts.responder.CallCount())
	assert.Equal(t, "is this right?", ts.responder.Calls[0].Question)
	assert.Equal(t, "Original post: Why add an index?", ts.responder.Calls[0].Context)

	ts.responder.Err = errors.New("upstream 500")
	var fallback models.Reply
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, path, token, map[string]string{"content": "@checkAI again"}, &fallback))
	assert.Equal(t, service.AIFallbackReply, fallback.Content)

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, path, token, map[string]string{"content": ""}, nil))
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPost, "/api/posts/"+uuid.NewString()+"/replies", token, map[string]string{"content": "hi"}, nil))
}
