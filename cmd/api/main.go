package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/jaekwang-park/smarttasker-api/internal/auth"
	"github.com/jaekwang-park/smarttasker-api/internal/config"
	apphttp "github.com/jaekwang-park/smarttasker-api/internal/http"
	"github.com/jaekwang-park/smarttasker-api/internal/mail"
	"github.com/jaekwang-park/smarttasker-api/internal/middleware"
	"github.com/jaekwang-park/smarttasker-api/internal/repository"
	"github.com/jaekwang-park/smarttasker-api/internal/service"
	"github.com/jaekwang-park/smarttasker-api/internal/telemetry"
)

func main() {
	// Initial logger at info level; reconfigured after config load
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(context.Background()); err != nil {
		logger.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.ParseLogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("config loaded",
		"env", cfg.AppEnv,
		"port", cfg.ServerPort,
		"auth_test_mode", cfg.AuthTestMode,
		"mail_backend", cfg.Mail.Backend,
		"log_level", cfg.LogLevel,
	)

	if cfg.Telemetry.Enabled() {
		tp, err := telemetry.InitTracerProvider(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint, cfg.AppEnv)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				logger.Error("failed to shut down tracer provider", "error", err)
			}
		}()
		logger.Info("tracing enabled", "endpoint", cfg.Telemetry.OTLPEndpoint)
	}

	// Database connection
	db, err := repository.NewDB(cfg.DB.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("database connected")

	// Repositories
	taskRepo := repository.NewPostgresTask(db)
	eventRepo := repository.NewPostgresEvent(db)
	userRepo := repository.NewPostgresUser(db)

	mailer, err := newMailSender(ctx, cfg.Mail, logger)
	if err != nil {
		return err
	}

	secret := cfg.JWT.Secret
	if secret == "" {
		// Only reachable in test mode; tokens will not survive a restart.
		secret = uuid.NewString()
		logger.Warn("JWT_SECRET not set, using an ephemeral signing key")
	}

	// Services
	authSvc := service.NewAuthService(
		userRepo,
		auth.NewPasswordHasher(auth.DefaultBcryptCost),
		auth.NewTokenManager(auth.TokenConfig{
			Secret:     secret,
			Issuer:     cfg.JWT.Issuer,
			AccessTTL:  cfg.JWT.AccessTTL,
			RefreshTTL: cfg.JWT.RefreshTTL,
		}),
		auth.NewResetTokens(secret, cfg.JWT.PasswordResetTimeout),
		mailer,
		service.AuthConfig{
			FrontendURL: cfg.FrontendURL,
			MailFrom:    cfg.Mail.From,
		},
		nil,
	)
	svcs := apphttp.Services{
		Tasks:  service.NewTaskService(taskRepo, nil),
		Events: service.NewEventService(eventRepo),
		Stats:  service.NewStatsService(taskRepo, nil),
		Auth:   authSvc,
	}

	var resolver middleware.IdentityResolver
	if cfg.AuthTestMode {
		resolver = middleware.NewFirstUserResolver(authSvc)
		logger.Warn("auth test mode enabled: every request acts as the first user")
	} else {
		resolver = middleware.NewTokenResolver(authSvc)
	}

	// HTTP Server
	srv, err := apphttp.NewServer(cfg.ServerPort, logger, resolver, svcs)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	logger.Info("server starting", "port", cfg.ServerPort)

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}

func newMailSender(ctx context.Context, cfg config.MailConfig, logger *slog.Logger) (mail.Sender, error) {
	switch cfg.Backend {
	case "smtp":
		logger.Info("mail backend initialized", "backend", "smtp", "host", cfg.SMTPHost)
		return mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword), nil
	case "ses":
		sender, err := mail.NewSESSender(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		logger.Info("mail backend initialized", "backend", "ses", "region", cfg.AWSRegion)
		return sender, nil
	default:
		return mail.NewLogSender(logger), nil
	}
}
