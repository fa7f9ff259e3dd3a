package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/glodinasflexwork/flexwork-api/internal/config"
	"github.com/glodinasflexwork/flexwork-api/internal/domain"
	"github.com/glodinasflexwork/flexwork-api/internal/handler"
	"github.com/glodinasflexwork/flexwork-api/internal/i18n"
	"github.com/glodinasflexwork/flexwork-api/internal/middleware"
	"github.com/glodinasflexwork/flexwork-api/internal/repository"
	"github.com/glodinasflexwork/flexwork-api/internal/service"
	"github.com/glodinasflexwork/flexwork-api/internal/storage"
	"github.com/glodinasflexwork/flexwork-api/pkg/database"
	redisclient "github.com/glodinasflexwork/flexwork-api/pkg/redis"
)

func main() {
	cfg := config.Load()

	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Storage: Postgres when configured, in-memory otherwise so the API
	// stays usable for local frontend work.
	var submissionRepo domain.SubmissionRepository
	if cfg.DatabaseURL != "" {
		db, err := database.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()

		if err := database.RunMigrations(db); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		submissionRepo = repository.NewSubmissionRepository(db)
	} else {
		log.Warn().Msg("DATABASE_URL not set, using in-memory submission store")
		submissionRepo = repository.NewMemorySubmissionRepository()
	}

	redisConn, err := redisclient.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisConn.Close()

	sessionRepo := repository.NewSessionRepository(redisConn)
	idempotencyStore := repository.NewIdempotencyStore(redisConn)

	bundle, err := i18n.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load locale bundles")
	}

	uploadStore, err := storage.NewLocalStorage(cfg.UploadDir, "/files")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to prepare upload dir")
	}

	submissionService := service.NewSubmissionService(submissionRepo, idempotencyStore)
	authService := service.NewAuthService(cfg, sessionRepo)

	submissionHandler := handler.NewSubmissionHandler(submissionService)
	authHandler := handler.NewAuthHandler(authService)
	uploadHandler := handler.NewUploadHandler(uploadStore, cfg.UploadMaxBytes)
	localeHandler := handler.NewLocaleHandler(bundle)

	router := setupRouter(cfg, sessionRepo, submissionHandler, authHandler, uploadHandler, localeHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server startup failed")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("environment", cfg.Environment).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

func setupRouter(
	cfg *config.Config,
	sessions domain.SessionRepository,
	submissionHandler *handler.SubmissionHandler,
	authHandler *handler.AuthHandler,
	uploadHandler *handler.UploadHandler,
	localeHandler *handler.LocaleHandler,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.FrontendURL))

	// Wrong-method requests must answer 405, not 404.
	router.HandleMethodNotAllowed = true

	router.Static("/files", cfg.UploadDir)

	api := router.Group("/api/v1")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":    "healthy",
				"timestamp": time.Now().Unix(),
			})
		})

		api.GET("/locales", localeHandler.List)
		api.GET("/locales/:code", localeHandler.Get)

		// Public funnel endpoints
		api.POST("/submissions", submissionHandler.Create)
		api.POST("/uploads", uploadHandler.Upload)

		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout",
				middleware.AuthMiddleware(cfg.JWTSecret, sessions),
				authHandler.Logout)
		}

		// Admin panel endpoints
		admin := api.Group("/")
		admin.Use(middleware.AuthMiddleware(cfg.JWTSecret, sessions))
		admin.Use(middleware.RequireRole(domain.RoleAdmin))
		{
			admin.GET("/submissions", submissionHandler.List)
			admin.GET("/submissions/:id", submissionHandler.Get)
			admin.PUT("/submissions/:id", submissionHandler.UpdateStatus)
			admin.DELETE("/submissions/:id", submissionHandler.Delete)
		}
	}

	return router
}
