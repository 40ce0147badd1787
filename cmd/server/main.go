package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/seatpredictor-backend/internal/cache"
	"github.com/stemsi/seatpredictor-backend/internal/config"
	"github.com/stemsi/seatpredictor-backend/internal/database"
	"github.com/stemsi/seatpredictor-backend/internal/handler"
	"github.com/stemsi/seatpredictor-backend/internal/logger"
	"github.com/stemsi/seatpredictor-backend/internal/mailer"
	"github.com/stemsi/seatpredictor-backend/internal/middleware"
	"github.com/stemsi/seatpredictor-backend/internal/repository"
	"github.com/stemsi/seatpredictor-backend/internal/router"
	"github.com/stemsi/seatpredictor-backend/internal/service"
	"github.com/stemsi/seatpredictor-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Seat Predictor Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, "seatpredictor-server", log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	allotmentRepo := repository.NewAllotmentRepository(pool)
	trackerRepo := repository.NewTrackerRepository(pool)
	groupRepo := repository.NewGroupCategoryRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, cache.NewRefreshTokenStore(rdb))
	adminService := service.NewAdminService(adminRepo, authService)
	allotmentService := service.NewAllotmentService(allotmentRepo, trackerRepo, log)
	uploadService := service.NewUploadService(allotmentRepo, log)
	trackerService := service.NewTrackerService(trackerRepo)
	taxonomyService := service.NewTaxonomyService(groupRepo, cache.NewTaxonomyCache(rdb, cfg.TaxonomyCacheTTL), log)
	emailService := service.NewEmailService(mailer.NewSMTPMailer(cfg.SMTP, log), log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Allotment: handler.NewAllotmentHandler(allotmentService),
		Upload:    handler.NewUploadHandler(uploadService, cfg.MaxUploadBytes),
		Taxonomy:  handler.NewTaxonomyHandler(taxonomyService),
		Tracker:   handler.NewTrackerHandler(trackerService),
		Auth:      handler.NewAuthHandler(adminService, authService),
		Email:     handler.NewEmailHandler(emailService),
		System: handler.NewSystemHandler(map[string]handler.Pinger{
			"postgres": pool.Ping,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	guards := router.Guards{
		Auth:    authService,
		Admins:  adminService,
		Limiter: middleware.NewRateLimiter(cfg.QueryRateLimit, time.Minute, ctx.Done()),
	}
	r := router.SetupRouter(guards, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
