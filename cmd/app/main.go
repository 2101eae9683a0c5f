package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"cfohelper/configs"
	deliveryhttp "cfohelper/internal/delivery/http"
	"cfohelper/internal/delivery/ops"
	"cfohelper/internal/infra"
	"cfohelper/internal/service"
	"cfohelper/internal/utils"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Load configuration
	cfg := configs.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(cfg *configs.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cfg *configs.Config, logger *zap.Logger) error {
	ctx := context.Background()

	if err := utils.SetDisplayLocation(cfg.Display.Timezone); err != nil {
		logger.Warn("Falling back to local time zone", zap.Error(err))
	}

	// Initialize account store
	repo, err := infra.OpenAccountRepository(ctx, cfg.Store, logger)
	if err != nil {
		return fmt.Errorf("failed to open account store: %w", err)
	}
	defer repo.Close()

	// Initialize services
	accountService := service.NewAccountService(repo, cfg.Auth.BcryptCost, logger)

	// Initialize background jobs
	scheduler := infra.NewScheduler(repo, cfg.Scheduler.HealthSpec, cfg.Scheduler.StatsSpec, logger)
	if err := scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer scheduler.Stop()

	// Initialize HTTP server
	e := deliveryhttp.NewEcho()
	deliveryhttp.SetupRoutes(e, &deliveryhttp.RouterConfig{
		AccountHandler: deliveryhttp.NewAccountHandler(accountService, logger),
		Logger:         logger,
		StaticDir:      cfg.Server.StaticDir,
	})

	apiSrv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	opsSrv := &http.Server{
		Addr:         ":" + cfg.Ops.Port,
		Handler:      ops.NewRouter(repo, scheduler, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 2)
	serve := func(name string, srv *http.Server) {
		logger.Info("[OK] Listening", zap.String("server", name), zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("%s server: %w", name, err)
		}
	}
	go serve("api", apiSrv)
	go serve("ops", opsSrv)

	logger.Info("CFO Helper account service started",
		zap.String("env", cfg.Server.Env),
		zap.String("store", cfg.Store.Driver),
		zap.String("static_dir", cfg.Server.StaticDir),
	)

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var serveErr error
	select {
	case <-quit:
	case serveErr = <-errCh:
	}

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := apiSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("API server forced to shutdown", zap.Error(err))
	}
	if err := opsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ops server forced to shutdown", zap.Error(err))
	}

	if serveErr != nil {
		return serveErr
	}
	logger.Info("[OK] Server exited gracefully")
	return nil
}
