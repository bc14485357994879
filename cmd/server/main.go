package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/rl1809/coffee-service/internal/adapter/handler"
	"github.com/rl1809/coffee-service/internal/adapter/messaging"
	"github.com/rl1809/coffee-service/internal/adapter/storage"
	"github.com/rl1809/coffee-service/internal/config"
	"github.com/rl1809/coffee-service/internal/core/service"
	"github.com/rl1809/coffee-service/internal/logging"
)

const healthProbeInterval = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, flush, err := logging.Init(cfg.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer flush()

	if err := run(cfg, logger); err != nil {
		logger.Error("server terminated", zap.Error(err))
		flush()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	db, err := storage.OpenDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("connected to database", zap.String("driver", cfg.Database.Driver))

	// Initialize broker
	publisher, err := messaging.NewPublisher(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("failed to close publisher", zap.Error(err))
		}
	}()

	// Initialize adapters and service
	coffeeRepo := storage.NewCoffeeRepository(db)
	coffeeService := service.NewCoffeeService(coffeeRepo, publisher, logger)

	checks := []handler.HealthCheck{
		{Name: "database", Checker: coffeeRepo},
		{Name: cfg.Broker, Checker: publisher},
	}

	// Initialize gRPC health server
	grpcServer := grpc.NewServer()
	grpcHealth := handler.NewGRPCHealth(logger, healthProbeInterval, checks...)
	grpcHealth.Register(grpcServer)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.GRPCPort))
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		grpcHealth.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		logger.Info("gRPC server listening", zap.Int("port", cfg.Server.GRPCPort))
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC server error", zap.Error(err))
		}
	}()

	// Initialize HTTP server
	httpHandler := handler.NewHTTPHandler(coffeeService, logger, cfg.IsDevelopment(), checks...)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           httpHandler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.Int("port", cfg.Server.HTTPPort))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		runErr = fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown incomplete", zap.Error(err))
	}
	logger.Info("HTTP server stopped")

	cancel()
	grpcServer.GracefulStop()
	wg.Wait()
	logger.Info("gRPC server stopped")

	return runErr
}
