// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"strings"
	"time"

	"snapgold/internal/cache"
	"snapgold/internal/config"
	"snapgold/internal/database"
	"snapgold/internal/middleware"
	"snapgold/internal/models"
	"snapgold/internal/observability"
	"snapgold/internal/repository"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
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
	transfer       repository.GoldTransferExecutor
	userRepo       repository.UserRepository
	categoryRepo   repository.CategoryRepository
	photoRepo      repository.PhotoRepository
	annotationRepo repository.AnnotationRepository
	reportRepo     repository.ReportRepository
	iapRepo        repository.IapRepository
	gallery        repository.GalleryReader
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Initialize Redis
	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and
// optionally performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	// The transfer executor is shared so every gold movement, whatever its
	// entry point, goes through the same guarded path and ledger.
	transfer := repository.NewGoldTransferExecutor(db)

	gallery := repository.NewGalleryRepository(db)
	if redisClient != nil {
		gallery = repository.NewCachedGalleryRepository(gallery, cfg.CacheTTL())
	}

	middleware.InitMiddleware(cfg)
	prom := middleware.InitMetrics("snapgold-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		transfer:       transfer,
		userRepo:       repository.NewUserRepository(db, transfer, cfg),
		categoryRepo:   repository.NewCategoryRepository(db, transfer, cfg),
		photoRepo:      repository.NewPhotoRepository(db),
		annotationRepo: repository.NewAnnotationRepository(db, transfer),
		reportRepo:     repository.NewReportRepository(db),
		iapRepo:        repository.NewIapRepository(db, transfer),
		gallery:        gallery,
	}

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
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

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)
	api.Get("/", s.HealthCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	// Operator dashboard needs a valid token but not an account row
	api.Get("/metrics/dashboard", middleware.AuthRequired, monitor.New(monitor.Config{
		Title: "SnapGold Backend Metrics Dashboard",
	}))

	// Public browse routes
	categories := api.Group("/categories")
	categories.Get("/", s.GetCategories)
	categories.Get("/previews", s.GetCategoryPreviews)
	categories.Get("/:id/photos", s.GetCategoryPhotos)
	categories.Get("/:id", s.GetCategory)

	publicPhotos := api.Group("/photos")
	publicPhotos.Get("/heroes", s.GetHeroPhotos)
	publicPhotos.Get("/:id/annotations", s.GetAnnotations)
	publicPhotos.Get("/:id", s.GetPhoto)

	api.Get("/leaderboard", s.GetLeaderboard)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	// User routes
	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me/profile-photo", s.UpdateMyProfilePhoto)
	users.Get("/", s.GetAllUsers)
	users.Get("/:id/photos", s.GetUserPhotos)
	users.Get("/:id", s.GetUserProfile)

	// Category creation costs a moderation review, throttle it hard
	protectedCategories := protected.Group("/categories")
	protectedCategories.Post("/", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "create_category"), s.CreateCategory)

	// Protected photo routes
	photos := protected.Group("/photos")
	photos.Post("/", middleware.RateLimit(
		s.redis, 10, time.Minute, "upload_photo"), s.CreatePhoto)
	photos.Post("/:id/annotations", middleware.RateLimit(
		s.redis, 15, time.Minute, "create_annotation"), s.CreateAnnotation)
	photos.Delete("/:id/annotations/:annotationId", s.DeleteAnnotation)
	photos.Put("/:id/status", s.UpdatePhotoStatus)
	photos.Put("/:id", s.UpdatePhoto)
	photos.Delete("/:id", s.DeletePhoto)

	// Moderation reports
	reports := protected.Group("/reports")
	reports.Post("/", middleware.RateLimit(
		s.redis, 10, 10*time.Minute, "create_report"), s.CreateReport)
	reports.Get("/", s.GetActiveReports)

	// In-app purchase fulfillment
	iap := protected.Group("/iap")
	iap.Post("/redeem", s.RedeemPurchase)
}

// HealthCheck is a legacy/simple alias for ReadinessCheck
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return s.ReadinessCheck(c)
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
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
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
		// The API degrades to uncached aggregates without Redis
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
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

// AuthRequired returns middleware that validates the bearer token and resolves
// the caller's account. The token's "sub" claim carries the registration
// reference issued by the identity provider; an unseen reference creates the
// account (with its welcome bonus) on first contact.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})

		if err != nil || !token.Valid {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token claims"))
		}

		ref, ok := claims["sub"].(string)
		if !ok || strings.TrimSpace(ref) == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid subject claim"))
		}

		user, err := s.userRepo.ResolveOrCreate(c.Context(), ref)
		if err != nil {
			observability.Logger().ErrorContext(c.UserContext(),
				"account resolution failed", "error", err)
			return models.RespondWithError(c, models.StatusForError(err), err)
		}

		c.Locals(middleware.RegistrationRefLocal, ref)
		c.Locals("userID", user.ID)
		// Sync to UserContext for logging in deep layers
		c.SetUserContext(observability.WithUserID(c.UserContext(), user.ID))

		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "SnapGold API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			observability.Logger().Error("unhandled error", "error", err)
			return models.RespondWithError(c, models.StatusForError(err), err)
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	observability.Logger().Info("server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			observability.Logger().Error("error shutting down HTTP server", "error", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			observability.Logger().Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			observability.Logger().Error("error closing redis", "error", rerr)
		}
	}

	observability.Logger().Info("server shutdown complete")
	return nil
}
