package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/GenkiNakashima/systemst/internal/ai"
	"github.com/GenkiNakashima/systemst/internal/cache"
	"github.com/GenkiNakashima/systemst/internal/featureflags"
	"github.com/GenkiNakashima/systemst/internal/middleware"
	"github.com/GenkiNakashima/systemst/internal/models"
	"github.com/GenkiNakashima/systemst/internal/observability"
	"github.com/GenkiNakashima/systemst/internal/repository"
	"github.com/GenkiNakashima/systemst/internal/validation"

	"github.com/google/uuid"
)

// Pagination bounds for post listings.
const (
	DefaultPerPage = 15
	MaxPerPage     = 100
	TrendingLimit  = 3
)

// Reply texts used when the assistant cannot answer.
const (
	AIFallbackReply = "Could not get a response from the AI assistant."
	AIDisabledReply = "The AI assistant is not enabled."
)

// DefaultTriggerToken routes a reply to the AI assistant.
const DefaultTriggerToken = "@checkAI"

type PostService struct {
	postRepo     repository.PostRepository
	reactionRepo repository.ReactionRepository
	replyRepo    repository.ReplyRepository
	moderation   *ModerationGate
	responder    ai.ResponseGenerator
	flags        *featureflags.Manager
	triggerToken string
}

type PostServiceDeps struct {
	Posts        repository.PostRepository
	Reactions    repository.ReactionRepository
	Replies      repository.ReplyRepository
	Moderation   *ModerationGate
	Responder    ai.ResponseGenerator
	Flags        *featureflags.Manager
	TriggerToken string
}

type CreatePostInput struct {
	UserID  uuid.UUID
	Content string
}

type ListPostsInput struct {
	Search   string
	Page     int
	PerPage  int
	ViewerID uuid.UUID
}

type DeletePostInput struct {
	UserID uuid.UUID
	PostID uuid.UUID
}

type AddReplyInput struct {
	UserID  uuid.UUID
	PostID  uuid.UUID
	Content string
}

func NewPostService(deps PostServiceDeps) *PostService {
	token := strings.TrimSpace(deps.TriggerToken)
	if token == "" {
		token = DefaultTriggerToken
	}
	return &PostService{
		postRepo:     deps.Posts,
		reactionRepo: deps.Reactions,
		replyRepo:    deps.Replies,
		moderation:   deps.Moderation,
		responder:    deps.Responder,
		flags:        deps.Flags,
		triggerToken: token,
	}
}

// CreatePost moderates and stores a post. The moderation outcome is fixed at
// this point; posts have no update path.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	content, err := validation.NormalizeContent("Content", in.Content, models.MaxPostContentLength)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	result := s.moderation.Check(ctx, in.UserID, content)

	post := &models.Post{
		UserID:       in.UserID,
		Content:      content,
		IsAIFlagged:  result.Flagged,
		AIFlagReason: result.ReasonPtr(),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	cache.InvalidateTrending(ctx)

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

// ListPosts returns one page of posts, newest first.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) (*models.PostPage, error) {
	page, perPage := normalizePage(in.Page, in.PerPage)

	posts, total, err := s.postRepo.List(ctx, repository.PostQuery{
		Search: strings.TrimSpace(in.Search),
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	}, in.ViewerID)
	if err != nil {
		return nil, err
	}
	return models.NewPostPage(posts, page, perPage, total), nil
}

// SearchPosts is ListPosts with a mandatory query.
func (s *PostService) SearchPosts(ctx context.Context, in ListPostsInput) (*models.PostPage, error) {
	if strings.TrimSpace(in.Search) == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.ListPosts(ctx, in)
}

// GetPost returns the post with its replies, oldest first.
func (s *PostService) GetPost(ctx context.Context, id, viewerID uuid.UUID) (*models.Post, error) {
	return s.postRepo.GetWithReplies(ctx, id, viewerID)
}

// DeletePost removes a post owned by the requester along with its replies and reactions.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only delete your own posts")
	}

	if err := s.postRepo.Delete(ctx, in.PostID); err != nil {
		return nil, err
	}
	cache.InvalidateTrending(ctx)
	return post, nil
}

// Trending returns the most-reacted posts. Anonymous results are cached briefly;
// signed-in viewers read through so has_reacted stays accurate.
func (s *PostService) Trending(ctx context.Context, viewerID uuid.UUID) ([]*models.Post, error) {
	if viewerID != uuid.Nil {
		return s.postRepo.Trending(ctx, TrendingLimit, viewerID)
	}

	var posts []*models.Post
	err := cache.Aside(ctx, cache.TrendingPostsKey, &posts, cache.TrendingTTL, func() error {
		var fetchErr error
		posts, fetchErr = s.postRepo.Trending(ctx, TrendingLimit, uuid.Nil)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return posts, nil
}

// ToggleReaction flips the user's reaction on a post.
func (s *PostService) ToggleReaction(ctx context.Context, userID, postID uuid.UUID) (*models.ReactionToggleResult, error) {
	result, err := s.reactionRepo.Toggle(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	state := "removed"
	if result.Reacted {
		state = "added"
	}
	observability.ReactionTogglesTotal.WithLabelValues(state).Inc()
	cache.InvalidateTrending(ctx)
	return result, nil
}

// AddReply appends a reply. Content mentioning the trigger token is answered
// by the AI assistant instead; that path always stores a reply, falling back
// to a fixed text when the assistant fails.
func (s *PostService) AddReply(ctx context.Context, in AddReplyInput) (*models.Reply, error) {
	content, err := validation.NormalizeContent("Content", in.Content, models.MaxReplyContentLength)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID, uuid.Nil)
	if err != nil {
		return nil, err
	}

	var reply *models.Reply
	if strings.Contains(content, s.triggerToken) {
		reply = &models.Reply{
			PostID:       post.ID,
			Content:      s.assistantAnswer(ctx, in.UserID, content, post.Content),
			IsAIResponse: true,
		}
	} else {
		userID := in.UserID
		reply = &models.Reply{
			PostID:  post.ID,
			UserID:  &userID,
			Content: content,
		}
	}

	if err := s.replyRepo.Create(ctx, reply); err != nil {
		return nil, err
	}
	cache.InvalidateTrending(ctx)
	return reply, nil
}

// ListReplies returns a post's replies oldest first.
func (s *PostService) ListReplies(ctx context.Context, postID uuid.UUID) ([]*models.Reply, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, uuid.Nil); err != nil {
		return nil, err
	}
	return s.replyRepo.ListByPost(ctx, postID)
}

func (s *PostService) assistantAnswer(ctx context.Context, userID uuid.UUID, content, postContent string) string {
	start := time.Now()
	if s.responder == nil || !s.flags.Enabled(featureflags.AIReplies, userID) {
		observability.ObserveAI(ai.OperationRespond, observability.OutcomeDisabled, start)
		return AIDisabledReply
	}

	question := strings.TrimSpace(strings.ReplaceAll(content, s.triggerToken, ""))
	answer, err := s.responder.GenerateResponse(ctx, question, "Original post: "+postContent)
	if err == nil && strings.TrimSpace(answer) == "" {
		err = ai.ErrEmptyResponse
	}
	if err != nil {
		observability.ObserveAI(ai.OperationRespond, observability.OutcomeError, start)
		level := slog.LevelWarn
		if !errors.Is(err, ai.ErrNotConfigured) && !errors.Is(err, context.DeadlineExceeded) {
			level = slog.LevelError
		}
		middleware.Logger.Log(ctx, level, "assistant reply failed, storing fallback",
			slog.String("operation", ai.OperationRespond),
			slog.String("error", models.NewExternalServiceError("assistant", err).Error()),
		)
		return AIFallbackReply
	}

	observability.ObserveAI(ai.OperationRespond, observability.OutcomeSuccess, start)
	return strings.TrimSpace(answer)
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}
