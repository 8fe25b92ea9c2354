package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farmacia/internal/config"
	"farmacia/internal/infra"
	"farmacia/internal/middleware"
	"farmacia/internal/router"
	"farmacia/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// @title       Farmacia API
// @version     1.0
// @description Inventario de medicamentos y tipos de medicamento.
// @BasePath    /
func main() {
	rootCmd := &cobra.Command{
		Use:   "farmacia",
		Short: "Pharmacy inventory API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and background jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			setupLogger(cfg)
			return runServer(cfg)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			setupLogger(cfg)

			db, err := infra.NewDatabase(cfg)
			if err != nil {
				return fmt.Errorf("connect to postgres: %w", err)
			}
			if err := infra.RunMigrations(db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			log.Info().Msg("schema up to date")
			return nil
		},
	}
}

// setupLogger configures the global zerolog logger: dev pretty, prod JSON.
func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsProduction() {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

func runServer(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := infra.NewDatabase(cfg)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	if err := infra.RunMigrations(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer rdb.Close()

	// Background jobs are wired here (composition root) so the pool has
	// access to all infrastructure dependencies.
	mailer := infra.NewMailer(cfg, infra.NewCircuitBreaker(infra.DefaultCBConfig()))
	if !mailer.Configurado() {
		log.Warn().Msg("SMTP_HOST not set: alert emails will fail and be parked in the DLQ")
	}
	dispatcher := worker.NewDispatcher(rdb)
	worker.StartWorkerPool(ctx, rdb, &worker.WorkerHandlers{
		Email: worker.NewEmailWorker(mailer),
	}, cfg.WorkerPoolSize)

	svcs := router.NewServices(cfg, db, time.Now)
	if _, err := worker.StartAlertasCron(ctx, worker.AlertasCronConfig{
		Schedule:     cfg.AlertasCron,
		Alertas:      svcs.Alertas,
		Dispatcher:   dispatcher,
		Destinatario: cfg.AlertasEmail,
	}); err != nil {
		return err
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	limiter.StartPurge(ctx)

	r := router.NewFromServices(cfg, svcs, db, rdb, limiter)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("farmacia API listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown on SIGINT / SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	log.Info().Msg("server exited")
	return nil
}
