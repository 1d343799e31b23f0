package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/almasbek/pinpoint/config"
	"github.com/almasbek/pinpoint/internal/email"
	"github.com/almasbek/pinpoint/internal/hash"
	"github.com/almasbek/pinpoint/internal/health"
	"github.com/almasbek/pinpoint/internal/infrastructure/postgres"
	ctxlog "github.com/almasbek/pinpoint/internal/log"
	"github.com/almasbek/pinpoint/internal/metrics"
	"github.com/almasbek/pinpoint/internal/token"
	httptransport "github.com/almasbek/pinpoint/internal/transport/http"
	"github.com/almasbek/pinpoint/internal/transport/http/handler"
	"github.com/almasbek/pinpoint/internal/upload"
	"github.com/almasbek/pinpoint/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	bookmarkRepo := postgres.NewBookmarkRepository(pool)

	tokens := token.NewService([]byte(cfg.JWTSecret))
	hasher := hash.NewBcryptHasher()
	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)
	uploads := upload.NewStore(cfg.UploadDir)

	authUsecase := usecase.NewAuthUsecase(userRepo, hasher, tokens, sender, cfg.FrontendBaseURL, logger)
	authHandler := handler.NewAuthHandler(authUsecase, logger)

	profileUsecase := usecase.NewProfileUsecase(userRepo, uploads, cfg.PublicBaseURL, logger)
	profileHandler := handler.NewProfileHandler(profileUsecase, logger)

	bookmarkUsecase := usecase.NewBookmarkUsecase(bookmarkRepo)
	bookmarkHandler := handler.NewBookmarkHandler(bookmarkUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, authHandler, profileHandler, bookmarkHandler, tokens, cfg.UploadDir),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
