package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"recruitment-api/internal/common/config"
	"recruitment-api/internal/common/logger"
	"recruitment-api/internal/mailer"
	"recruitment-api/internal/server"
	"recruitment-api/internal/submission"
	"recruitment-api/internal/turnstile"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	zapLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer func() { _ = zapLogger.Sync() }()
	log := logger.NewZapAdapter(zapLogger)

	log.Info("starting recruitment-api", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
		"addr":        cfg.Server.Addr(),
		"mailer":      cfg.Mail.Provider,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m, err := buildMailer(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Error("failed to build mail transport", nil)
		os.Exit(1)
	}

	verifier := turnstile.NewClient(cfg.Turnstile, log)
	pipeline := submission.NewService(cfg, verifier, m, log)
	router := server.NewRouter(cfg, pipeline, log)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received", nil)
	case err := <-errCh:
		log.WithError(err).Error("http server failed", nil)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed", nil)
	}

	log.Info("recruitment-api stopped", nil)
}

func buildMailer(ctx context.Context, cfg *config.Config, log logger.Logger) (mailer.Mailer, error) {
	switch cfg.Mail.Provider {
	case "ses":
		return mailer.NewSESMailer(ctx, cfg.Mail.SES, log)
	default:
		return mailer.NewSMTPMailer(cfg.Mail.SMTP, log), nil
	}
}
