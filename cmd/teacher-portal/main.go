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

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/SAP-F-2025/teacher-portal/internal/cache"
	"github.com/SAP-F-2025/teacher-portal/internal/config"
	"github.com/SAP-F-2025/teacher-portal/internal/handlers"
	"github.com/SAP-F-2025/teacher-portal/internal/repositories/postgres"
	"github.com/SAP-F-2025/teacher-portal/internal/services"
	"github.com/SAP-F-2025/teacher-portal/internal/utils"
	"github.com/SAP-F-2025/teacher-portal/internal/validator"
	"github.com/SAP-F-2025/teacher-portal/pkg"
)

const (
	sessionSweepInterval = time.Minute
	shutdownTimeout      = 15 * time.Second
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "teacher-portal",
		Short:        "Teacher dashboard API for building and assigning practice",
		SilenceUsage: true,
	}

	serve := serveCmd()
	root.AddCommand(serve, migrateCmd())

	// serve is the default when no subcommand is given
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.String("port", "", "HTTP listen port (PORT)")
	f.String("log-level", "", "Log level: debug, info, warn, error (LOG_LEVEL)")
	f.Duration("wizard-session-ttl", 0, "Idle timeout of wizard sessions (WIZARD_SESSION_TTL)")
	f.Bool("migrate", false, "Run database migrations before serving")
	return cmd
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE:  runMigrate,
	}
	cmd.Flags().String("log-level", "", "Log level: debug, info, warn, error (LOG_LEVEL)")
	return cmd
}

// loadConfig resolves configuration for cmd and installs the default logger.
// Unset flags leave environment values and defaults in place.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(cmd.Flags())
	if err != nil {
		return nil, nil, err
	}

	logger := utils.NewLogger(cfg.Environment, cfg.LogLevel)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return err
	}
	if err := pkg.Migrate(db); err != nil {
		return err
	}
	logger.Info("Database migrated")
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return err
	}
	if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
		if err := pkg.Migrate(db); err != nil {
			return err
		}
		logger.Info("Database migrated")
	}
	repo := postgres.NewRepository(db)
	defer repo.Close()

	var cacheService cache.CacheService
	redisClient, err := pkg.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Warn("Redis unavailable, serving catalog without cache", "error", err)
	} else {
		defer redisClient.Close()
		cacheService = cache.NewRedisCache(redisClient, logger)
	}

	publisher, err := cfg.Events.CreateEventPublisher(logger)
	if err != nil {
		return fmt.Errorf("failed to create event publisher: %w", err)
	}
	defer publisher.Close()

	sessions := services.NewSessionManager(cfg.WizardSessionTTL, logger)
	go sessions.Run(ctx, sessionSweepInterval)

	catalogService := services.NewCatalogService(repo, cacheService, cfg.CatalogCacheTTL, logger)
	dispatcher := services.NewSubmissionDispatcher(repo, publisher, logger)
	wizardService := services.NewWizardService(repo, catalogService, sessions, dispatcher, validator.New(), logger)
	assignmentService := services.NewAssignmentService(repo, logger)
	exportService := services.NewReviewExportService(wizardService, logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	appLogger := utils.NewSlogLogger(logger)
	hm := handlers.NewHandlerManager(
		wizardService,
		assignmentService,
		exportService,
		handlers.NewAuthMiddleware(cfg.Auth, appLogger),
		repo,
		appLogger,
	)
	hm.SetupRoutes(router)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
