package server

import (
	"time"

	"github.com/GenkiNakashima/systemst/internal/middleware"
	"github.com/GenkiNakashima/systemst/internal/models"
	"github.com/GenkiNakashima/systemst/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePostResponse is returned by POST /api/posts. AIWarning carries the
// moderation reason when the post was flagged.
type CreatePostResponse struct {
	Post      *models.Post `json:"post"`
	AIWarning *string      `json:"ai_warning"`
}

// CreatePost handles POST /api/posts
// @Summary Create post
// @Description Create a post; the content is fact-checked before it is stored
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{content=string} true "Post content"
// @Success 201 {object} CreatePostResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		UserID:  middleware.UserID(c),
		Content: req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}

	s.publishBroadcastEvent(ctx, EventPostCreated, map[string]any{
		"post_id":       post.ID,
		"author_id":     post.UserID,
		"is_ai_flagged": post.IsAIFlagged,
		"created_at":    post.CreatedAt.UTC().Format(time.RFC3339Nano),
	})

	return c.Status(fiber.StatusCreated).JSON(CreatePostResponse{
		Post:      post,
		AIWarning: post.AIFlagReason,
	})
}

// GetPosts handles GET /api/posts
// @Summary List posts
// @Description Newest first, optionally filtered by a case-insensitive search term
// @Tags posts
// @Produce json
// @Param search query string false "Search term"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Page size" default(15)
// @Success 200 {object} models.PostPage
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page, perPage := parsePage(c)
	result, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		Search:   c.Query("search"),
		Page:     page,
		PerPage:  perPage,
		ViewerID: middleware.UserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// SearchPosts handles GET /api/posts/search?q=...
// @Summary Search posts
// @Tags posts
// @Produce json
// @Param q query string true "Search term"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Page size" default(15)
// @Success 200 {object} models.PostPage
// @Failure 400 {object} models.ErrorResponse
// @Router /posts/search [get]
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	page, perPage := parsePage(c)
	result, err := s.postService.SearchPosts(c.UserContext(), service.ListPostsInput{
		Search:   c.Query("q"),
		Page:     page,
		PerPage:  perPage,
		ViewerID: middleware.UserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// GetTrendingPosts handles GET /api/posts/trending
// @Summary Trending posts
// @Description The three most-reacted posts
// @Tags posts
// @Produce json
// @Success 200 {array} models.Post
// @Router /posts/trending [get]
func (s *Server) GetTrendingPosts(c *fiber.Ctx) error {
	posts, err := s.postService.Trending(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
// @Summary Get post
// @Description A post with its replies, oldest reply first
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), id, middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete post
// @Tags posts
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.DeletePost(ctx, service.DeletePostInput{
		UserID: middleware.UserID(c),
		PostID: id,
	})
	if err != nil {
		return respondError(c, err)
	}

	s.publishBroadcastEvent(ctx, EventPostDeleted, map[string]any{
		"post_id":   post.ID,
		"author_id": post.UserID,
	})
	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}

// ToggleReaction handles POST /api/posts/:id/reactions
// @Summary Toggle reaction
// @Description Adds the caller's reaction, or removes it if present
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} models.ReactionToggleResult
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/reactions [post]
func (s *Server) ToggleReaction(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}
	userID := middleware.UserID(c)

	result, err := s.postService.ToggleReaction(ctx, userID, id)
	if err != nil {
		return respondError(c, err)
	}

	s.publishBroadcastEvent(ctx, EventPostReactionUpdated, map[string]any{
		"post_id":         id,
		"user_id":         userID,
		"reacted":         result.Reacted,
		"reactions_count": result.ReactionsCount,
	})
	return c.JSON(result)
}

// CreateReply handles POST /api/posts/:id/replies
// @Summary Reply to post
// @Description Mentioning the assistant trigger token stores an AI-generated reply instead
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body object{content=string} true "Reply content"
// @Success 201 {object} models.Reply
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/replies [post]
func (s *Server) CreateReply(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	reply, err := s.postService.AddReply(ctx, service.AddReplyInput{
		UserID:  middleware.UserID(c),
		PostID:  id,
		Content: req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}

	s.publishBroadcastEvent(ctx, EventReplyCreated, map[string]any{
		"post_id":        reply.PostID,
		"reply_id":       reply.ID,
		"is_ai_response": reply.IsAIResponse,
	})
	return c.Status(fiber.StatusCreated).JSON(reply)
}

// GetReplies handles GET /api/posts/:id/replies
// @Summary List replies
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {array} models.Reply
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/replies [get]
func (s *Server) GetReplies(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}

	replies, err := s.postService.ListReplies(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(replies)
}
