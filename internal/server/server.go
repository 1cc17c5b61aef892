// Package server contains HTTP and WebSocket handlers for the DeepDive API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/GenkiNakashima/systemst/docs" // swagger docs
	"github.com/GenkiNakashima/systemst/internal/ai"
	"github.com/GenkiNakashima/systemst/internal/config"
	"github.com/GenkiNakashima/systemst/internal/featureflags"
	"github.com/GenkiNakashima/systemst/internal/middleware"
	"github.com/GenkiNakashima/systemst/internal/models"
	"github.com/GenkiNakashima/systemst/internal/notifications"
	"github.com/GenkiNakashima/systemst/internal/repository"
	"github.com/GenkiNakashima/systemst/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config          *config.Config
	db              *gorm.DB
	redis           *redis.Client
	app             *fiber.App
	shutdownCtx     context.Context
	shutdownFn      context.CancelFunc
	userRepo        repository.UserRepository
	notifier        *notifications.Notifier
	hub             *notifications.Hub
	featureFlags    *featureflags.Manager
	postService     *service.PostService
	skillService    *service.SkillService
	scenarioService *service.ScenarioService
	attemptService  *service.AttemptService
}

// AIDeps are the outbound AI collaborators used by the post services.
type AIDeps struct {
	FactChecker ai.FactChecker
	Responder   ai.ResponseGenerator
}

// NewServer creates a Server backed by the OpenAI client described in cfg.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	client := ai.NewClient(ai.Config{
		APIKey:          cfg.OpenAIAPIKey,
		BaseURL:         cfg.OpenAIBaseURL,
		Model:           cfg.OpenAIModel,
		FactTimeout:     cfg.FactCheckTimeout(),
		ResponseTimeout: cfg.AIResponseTimeout(),
	})
	return NewServerWithDeps(cfg, db, redisClient, AIDeps{FactChecker: client, Responder: client})
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, deps AIDeps) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, fmt.Errorf("server: config and database are required")
	}
	middleware.InitMiddleware(cfg)

	flags := featureflags.NewManager(cfg.FeatureFlags)
	middleware.Logger.Info("feature flags loaded", slog.Int("count", flags.Len()))
	postRepo := repository.NewPostRepository(db)
	scenarioRepo := repository.NewScenarioRepository(db)

	s := &Server{
		config:       cfg,
		db:           db,
		redis:        redisClient,
		userRepo:     repository.NewUserRepository(db),
		notifier:     notifications.NewNotifier(redisClient),
		hub:          notifications.NewHub(),
		featureFlags: flags,
	}
	s.postService = service.NewPostService(service.PostServiceDeps{
		Posts:        postRepo,
		Reactions:    repository.NewReactionRepository(db),
		Replies:      repository.NewReplyRepository(db),
		Moderation:   service.NewModerationGate(deps.FactChecker, flags),
		Responder:    deps.Responder,
		Flags:        flags,
		TriggerToken: cfg.AITriggerToken,
	})
	s.skillService = service.NewSkillService(repository.NewSkillRepository(db))
	s.scenarioService = service.NewScenarioService(scenarioRepo)
	s.attemptService = service.NewAttemptService(repository.NewAttemptRepository(db), scenarioRepo)

	return s, nil
}

// App builds the Fiber application with middleware and routes.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "DeepDive API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	// propagate request ID and trace ID into the user context for logging
	app.Use(middleware.ContextMiddleware())
	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	middleware.InitMetrics(app, "deepdive-api")

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so error responses still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		MaxAge:       86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || strings.HasPrefix(c.Path(), "/health")
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error: "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	api := app.Group("/api")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "DeepDive API Metrics Dashboard",
	}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Get("/me", middleware.AuthRequired, s.Me)

	// Public post reads; a valid token personalises has_reacted.
	publicPosts := api.Group("/posts", middleware.OptionalAuth)
	publicPosts.Get("/", s.GetPosts)
	publicPosts.Get("/search", s.SearchPosts)
	publicPosts.Get("/trending", s.GetTrendingPosts)
	publicPosts.Get("/:id/replies", s.GetReplies)
	publicPosts.Get("/:id", s.GetPost)

	scenarios := api.Group("/scenarios")
	scenarios.Get("/", s.GetScenarios)
	scenarios.Get("/:id", s.GetScenario)

	// the websocket carries its token in the query string, so it is
	// registered ahead of the bearer-only group below
	api.Get("/ws/feed", middleware.WebSocketAuthRequired, s.FeedWebsocketHandler())

	protected := api.Group("", middleware.AuthRequired)

	posts := protected.Group("/posts")
	posts.Post("/", middleware.RateLimit(s.redis, 5, time.Minute, "create_post"), s.CreatePost)
	// specific /:id/:resource routes before the generic /:id route
	posts.Post("/:id/reactions", s.ToggleReaction)
	posts.Post("/:id/replies", middleware.RateLimit(s.redis, 10, time.Minute, "create_reply"), s.CreateReply)
	posts.Delete("/:id", s.DeletePost)

	skills := protected.Group("/skills")
	skills.Get("/", s.GetSkills)
	skills.Put("/", s.UpdateSkills)

	attempts := protected.Group("/attempts")
	attempts.Post("/", s.CreateAttempt)
	attempts.Get("/history", s.GetAttemptHistory)
	attempts.Post("/:id/submit", s.SubmitAttempt)
	attempts.Post("/:id/run", s.RunAttempt)

}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if sqlDB, err := s.db.DB(); err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis backs caching, rate limits and fan-out, all of which degrade
	// gracefully, so its absence does not fail readiness.
	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	s.app = s.App()

	if s.notifier.Enabled() {
		if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
			middleware.Logger.Error("failed to start feed wiring", slog.String("error", err.Error()))
		}
	}

	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := s.hub.Shutdown(ctx); err != nil {
		middleware.Logger.Error("error shutting down feed hub", slog.String("error", err.Error()))
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
