// Package server contains the HTTP handlers and routing for the web application.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"campusgram/internal/config"
	"campusgram/internal/middleware"
	"campusgram/internal/notifications"
	"campusgram/internal/repository"
	"campusgram/internal/service"
	"campusgram/internal/session"
	"campusgram/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
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
	store          storage.Store
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	sessions       *session.Manager
	notifier       *notifications.Notifier
	hub            *notifications.Hub
	limits         *middleware.RateLimiter
	shutdownFn     context.CancelFunc

	authService         *service.AuthService
	postService         *service.PostService
	interactionService  *service.InteractionService
	feedService         *service.FeedService
	notificationService *service.NotificationService
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil; revocation, rate limiting and live notifications are then skipped.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, store storage.Store) (*Server, error) {
	if db == nil {
		return nil, errors.New("server: database is required")
	}
	if store == nil {
		return nil, errors.New("server: image store is required")
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)

	sessions := session.NewManager(cfg.JWTSecret, time.Duration(cfg.SessionTTLHours)*time.Hour, redisClient)
	notifier := notifications.NewNotifier(redisClient)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		store:          store,
		promMiddleware: middleware.InitMetrics("campusgram"),
		sessions:       sessions,
		notifier:       notifier,
		limits:         middleware.NewRateLimiter(redisClient, cfg.Env),
	}
	if redisClient != nil {
		s.hub = notifications.NewHub()
	}

	s.authService = service.NewAuthService(userRepo, sessions, cfg.InstitutionEmailDomain)
	s.postService = service.NewPostService(postRepo, store, int64(cfg.UploadMaxSizeMB)<<20)
	s.interactionService = service.NewInteractionService(repository.NewInteractionRepository(db), notifier)
	s.feedService = service.NewFeedService(
		userRepo,
		postRepo,
		repository.NewCommentRepository(db),
		repository.NewFollowRepository(db),
		store,
	)
	s.notificationService = service.NewNotificationService(repository.NewNotificationRepository(db))

	return s, nil
}

// App returns the Fiber application, building it on first use.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}

	app := fiber.New(fiber.Config{
		AppName: "Campusgram",
		// Multipart framing on top of the largest accepted image.
		BodyLimit: (s.config.UploadMaxSizeMB + 1) << 20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code, message := fiber.StatusInternalServerError, fiber.ErrInternalServerError.Message
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code, message = fe.Code, fe.Message
			}
			if code >= fiber.StatusInternalServerError {
				middleware.Logger.ErrorContext(c.UserContext(), "Unhandled error", slog.String("error", err.Error()))
			}
			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())

	app.Use(requestid.New())

	app.Use(middleware.TracingMiddleware())

	// Propagate request and trace IDs to the service layer.
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New(helmet.Config{
		CrossOriginEmbedderPolicy: "unsafe-none",
	}))

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// Global per-IP limit; the per-route Redis limits below are tighter.
	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			switch c.Path() {
			case "/health/live", "/health/ready", "/metrics":
				return true
			}
			return false
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

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	app.Get("/", s.Home)
	app.Get("/register", s.RegisterForm)
	app.Post("/register", s.limits.Limit(5, 10*time.Minute, "register"), s.Register)
	app.Get("/login", s.LoginForm)
	app.Post("/login", s.limits.Limit(10, 5*time.Minute, "login"), s.Login)

	// Auth is attached per route so unmatched paths still fall through to 404.
	auth := s.AuthRequired()

	app.Get("/logout", auth, s.Logout)

	app.Get("/feed", auth, s.Feed)
	app.Get("/explore", auth, s.Explore)
	app.Get("/saved", auth, s.Saved)
	app.Get("/me", auth, s.SelfProfile)
	app.Get("/profile/:username", auth, s.Profile)
	app.Get("/notifications", auth, s.Notifications)
	app.Get("/uploads/:filename", auth, s.ServeUpload)
	app.Get("/ws/notifications", auth, s.NotificationSocket())

	app.Get("/upload", auth, s.UploadForm)
	app.Post("/upload", auth, s.limits.Limit(10, 5*time.Minute, "upload"), s.Upload)
	app.Post("/delete/:postId", auth, s.DeletePost)

	interact := s.limits.Limit(120, time.Minute, "interaction")
	app.Post("/like/:postId", auth, interact, s.Like)
	app.Post("/save/:postId", auth, interact, s.Save)
	app.Post("/follow/:userId", auth, interact, s.Follow)
	app.Post("/comment/:postId", auth, s.limits.Limit(20, time.Minute, "comment"), s.Comment)
	app.Post("/feedback/:postId", auth, s.limits.Limit(20, time.Minute, "feedback"), s.Feedback)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports database and Redis health. Redis is optional, so a
// server started without it is still ready.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
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

// Start wires live notifications, then starts the server.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownFn = cancel
	if err := s.StartNotificationWiring(ctx); err != nil {
		middleware.Logger.Warn("Live notifications disabled", slog.String("error", err.Error()))
	}

	app := s.App()
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}
	if s.hub != nil {
		if err := s.hub.Shutdown(ctx); err != nil {
			middleware.Logger.Error("error closing notification sockets", slog.String("error", err.Error()))
		}
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
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

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
