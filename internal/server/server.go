// Package server contains the HTTP handlers of the quad API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"quad/internal/cache"
	"quad/internal/config"
	"quad/internal/database"
	"quad/internal/featureflags"
	"quad/internal/middleware"
	"quad/internal/models"
	"quad/internal/notifications"
	"quad/internal/repository"
	"quad/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	limiter        *middleware.RateLimiter
	featureFlags   *featureflags.Flags
	notifier       *notifications.Notifier
	hub            *notifications.Hub
	stopHub        context.CancelFunc

	profileService    *service.ProfileService
	friendService     *service.FriendService
	followService     *service.FollowService
	noteService       *service.NoteService
	engagementService *service.EngagementService
	commentService    *service.CommentService
	importService     *service.VoterImportService
	reportService     *service.VoterReportService
}

// NewServer connects to the database and Redis and builds a Server.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// A nil client means Redis is unreachable; caching and notifications are skipped.
	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests pass a SQLite database and, optionally, a miniredis client.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	profileRepo := repository.NewProfileRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	followRepo := repository.NewFollowRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	voterRepo := repository.NewVoterRepository(db)

	flags := featureflags.Parse(cfg.FeatureFlags)
	for name, value := range flags.Raw() {
		middleware.Logger.Info("feature flag configured", slog.String("flag", name), slog.String("value", value))
	}
	notifier := notifications.NewNotifier(redisClient)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("quad-api"),
		limiter:        middleware.NewRateLimiter(redisClient, cfg.Env),
		featureFlags:   flags,
		notifier:       notifier,
		hub:            notifications.NewHub(),
	}

	hubCtx, stop := context.WithCancel(context.Background())
	s.stopHub = stop
	// Without the subscription the API still works; streams just stay quiet.
	if err := s.hub.Run(hubCtx, notifier); err != nil {
		middleware.Logger.Warn("notification subscription failed", slog.String("error", err.Error()))
	}
	s.profileService = service.NewProfileService(profileRepo)
	s.friendService = service.NewFriendService(friendRepo, profileRepo, notifier, flags)
	s.followService = service.NewFollowService(followRepo, profileRepo, notifier)
	s.noteService = service.NewNoteService(noteRepo, friendRepo, profileRepo)
	s.engagementService = service.NewEngagementService(noteRepo, notifier)
	s.commentService = service.NewCommentService(commentRepo, noteRepo, profileRepo, notifier)
	s.importService = service.NewVoterImportService(voterRepo, cfg.ImportBatchSize)
	s.reportService = service.NewVoterReportService(voterRepo, time.Duration(cfg.ReportCacheTTLSeconds)*time.Second)

	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}
	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS must run before the limiter so throttled responses still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       86400,
	}))

	if s.config.IsProduction() {
		app.Use(limiter.New(limiter.Config{
			Max:        100,
			Expiration: time.Minute,
			Next: func(c *fiber.Ctx) bool {
				return c.Method() == fiber.MethodOptions
			},
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "Too many requests, please try again later.",
				})
			},
		}))
	}
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	auth := middleware.AuthRequired(s.config.JWTSecret)

	// Profiles
	profiles := api.Group("/profiles")
	profiles.Get("/", s.ListProfiles)
	profiles.Post("/", s.limiter.Handler(10, 10*time.Minute, middleware.FailOpen, "create_profile"), s.CreateProfile)
	profiles.Put("/me", auth, s.UpdateMyProfile)
	profiles.Get("/me/feed", auth, s.GetNewsFeed)
	profiles.Get("/:id/stats", s.GetProfileStats)
	profiles.Get("/:id/friends", s.GetFriends)
	profiles.Get("/:id/suggestions", s.GetFriendSuggestions)
	profiles.Get("/:id/followers", s.GetFollowers)
	profiles.Get("/:id/following", s.GetFollowing)
	profiles.Get("/:id/liked", s.GetLikedNotes)
	profiles.Get("/:id/bookmarked", s.GetBookmarkedNotes)
	profiles.Get("/:id", s.GetProfile)

	// Social graph mutations act on behalf of the caller.
	friends := api.Group("/friends", auth)
	friends.Post("/:id", s.limiter.Handler(20, 5*time.Minute, middleware.FailOpen, "add_friend"), s.AddFriend)
	friends.Delete("/:id", s.RemoveFriend)

	follows := api.Group("/follows", auth)
	follows.Post("/:id/toggle", s.ToggleFollow)
	follows.Post("/:id", s.Follow)
	follows.Delete("/:id", s.Unfollow)

	// Notes
	notes := api.Group("/notes")
	notes.Get("/", s.ListNotes)
	notes.Get("/top", s.GetTopNotes)
	notes.Post("/", auth, s.limiter.Handler(10, time.Minute, middleware.FailOpen, "create_note"), s.CreateNote)
	notes.Get("/:id/likers", s.GetLikers)
	notes.Get("/:id/bookmarkers", s.GetBookmarkers)
	notes.Post("/:id/like", auth, s.ToggleLike)
	notes.Post("/:id/bookmark", auth, s.ToggleBookmark)
	notes.Get("/:id/comments", s.GetComments)
	notes.Post("/:id/comments", auth, s.limiter.Handler(10, time.Minute, middleware.FailOpen, "create_comment"), s.CreateComment)
	notes.Put("/:id/comments/:commentId", auth, s.UpdateComment)
	notes.Delete("/:id/comments/:commentId", auth, s.DeleteComment)
	notes.Get("/:id", s.GetNote)
	notes.Put("/:id", auth, s.UpdateNote)
	notes.Delete("/:id", auth, s.DeleteNote)

	// Voter reports
	voters := api.Group("/voters")
	voters.Get("/", s.QueryVoters)
	voters.Get("/report", s.GetVoterReport)
	voters.Get("/options", s.GetVoterFilterOptions)
	voters.Post("/import", auth, s.limiter.Handler(2, time.Minute, middleware.FailClosed, "voter_import"), s.ImportVoters)
	voters.Get("/:id", s.GetVoter)

	api.Get("/feature-flags", auth, s.GetFeatureFlags)

	api.Get("/ws/notifications", requireUpgrade, middleware.WebSocketAuth(s.config.JWTSecret), s.NotificationStream())
}

// App builds the Fiber application with middleware and routes.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "quad",
		BodyLimit: 32 * 1024 * 1024,
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

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "up", "time": time.Now()})
}

// ReadinessCheck reports database and Redis health. Redis is optional, so
// only an unhealthy database fails readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if sqlDB, err := s.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status, overall := fiber.StatusOK, "healthy"
	if dbStatus != "healthy" {
		status, overall = fiber.StatusServiceUnavailable, "unhealthy"
	}
	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start listens on the configured port until Shutdown.
func (s *Server) Start() error {
	s.app = s.App()
	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopHub()
	s.hub.Shutdown()

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing database", slog.String("error", cerr.Error()))
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
