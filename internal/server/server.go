// Package server contains the HTTP handlers for the Tingle API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	_ "tingle/docs" // swagger docs
	"tingle/internal/auth"
	"tingle/internal/bootstrap"
	"tingle/internal/config"
	"tingle/internal/database"
	"tingle/internal/events"
	"tingle/internal/featureflags"
	"tingle/internal/middleware"
	"tingle/internal/models"
	"tingle/internal/repository"
	"tingle/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
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
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	events         events.Publisher
	sessions       *auth.SessionManager
	oauth          auth.IdentityProvider
	featureFlags   *featureflags.Manager

	identityService     *service.IdentityService
	userService         *service.UserService
	graphService        *service.GraphService
	suggestionService   *service.SuggestionService
	feedService         *service.FeedService
	postService         *service.PostService
	commentService      *service.CommentService
	notificationService *service.NotificationService
	messageService      *service.MessageService
}

// NewServer connects the runtime dependencies and returns a ready Server.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, redisClient, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{ApplySchema: true})
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, db, redisClient, bootstrap.InitEvents(cfg))
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// A nil Redis client or publisher disables the features that need them.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, publisher events.Publisher) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, fmt.Errorf("server requires config and database")
	}
	if publisher == nil {
		publisher = events.Nop{}
	}

	userRepo := repository.NewUserRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	followRepo := repository.NewFollowRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("tingle-api"),
		events:         publisher,
		sessions:       auth.NewSessionManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.SessionTTL, redisClient),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
	}
	if cfg.GoogleEnabled() {
		server.oauth = auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	}

	server.notificationService = service.NewNotificationService(notificationRepo, postRepo)
	server.identityService = service.NewIdentityService(userRepo, accountRepo)
	server.userService = service.NewUserService(userRepo, followRepo, server.featureFlags)
	server.graphService = service.NewGraphService(userRepo, followRepo, server.notificationService, publisher)
	server.suggestionService = service.NewSuggestionService(userRepo, followRepo)
	server.feedService = service.NewFeedService(postRepo)
	server.postService = service.NewPostService(postRepo, userRepo, server.notificationService, publisher)
	server.commentService = service.NewCommentService(commentRepo, postRepo, server.notificationService, publisher)
	server.messageService = service.NewMessageService(messageRepo, userRepo, publisher)

	return server, nil
}

// NewApp builds the Fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "Tingle API",
		BodyLimit: 1 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok && fe.Code < fiber.StatusInternalServerError {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// Propagates request, trace and user ids to the logger
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so error responses still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000,http://127.0.0.1:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
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
	api := app.Group("/api")

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Tingle API Metrics Dashboard",
	}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	authRequired := middleware.AuthRequired(s.sessions)

	authGroup := api.Group("/auth")
	authGroup.Get("/google/login", s.GoogleLogin)
	authGroup.Get("/google/callback", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "oauth_callback"), s.GoogleCallback)
	authGroup.Post("/dev/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "dev_login"), s.DevLogin)
	authGroup.Post("/logout", authRequired, s.Logout)
	authGroup.Get("/session", authRequired, s.GetSession)

	protected := api.Group("", authRequired)
	protected.Get("/feature-flags", s.GetFeatureFlags)

	// Specific /users routes must be registered before /users/:id
	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Patch("/me", s.UpdateMyProfile)
	users.Get("/search", middleware.RateLimit(
		s.redis, 60, time.Minute, "search"), s.SearchUsers)
	users.Get("/suggestions", s.GetSuggestions)
	users.Get("/notifications/unread-count", s.GetUnreadCount)
	users.Get("/notifications", s.GetNotifications)
	users.Patch("/notifications", s.MarkNotificationsRead)
	users.Get("/:id/posts", s.GetUserPosts)
	users.Get("/:id/followers", s.GetFollowers)
	users.Get("/:id/following", s.GetFollowing)
	users.Post("/:id/follow", middleware.RateLimit(
		s.redis, 30, time.Minute, "follow"), s.FollowUser)
	users.Delete("/:id/follow", s.UnfollowUser)
	users.Get("/:id", s.GetUserProfile)

	posts := protected.Group("/posts")
	posts.Get("/", s.GetHomeFeed)
	posts.Get("/explore", s.GetExploreFeed)
	posts.Post("/", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_post"), s.CreatePost)
	posts.Post("/:id/like", s.LikePost)
	posts.Delete("/:id/like", s.UnlikePost)
	posts.Get("/:id/comments", s.GetComments)
	posts.Post("/:id/comments", middleware.RateLimit(
		s.redis, 20, time.Minute, "create_comment"), s.CreateComment)
	posts.Get("/:id", s.GetPost)
	posts.Patch("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	comments := protected.Group("/comments")
	comments.Put("/:id", s.UpdateComment)
	comments.Delete("/:id", s.DeleteComment)

	messages := protected.Group("/messages")
	messages.Get("/", s.GetConversations)
	messages.Get("/:userId", s.GetThread)
	messages.Post("/:userId", middleware.RateLimit(
		s.redis, 30, time.Minute, "send_message"), s.SendMessage)
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
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus != "healthy" {
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

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if s.events != nil {
		s.events.Close()
	}

	database.Close(s.db)

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", err.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
