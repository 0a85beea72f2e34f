package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/example/primepulse/pkg/auth"
	"github.com/example/primepulse/pkg/config"
	"github.com/example/primepulse/pkg/logging"
	"github.com/example/primepulse/pkg/repository"
	"github.com/example/primepulse/pkg/service"
	"github.com/example/primepulse/server"
)

func main() {
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger, err := logging.New(&cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting API server",
		zap.String("name", cfg.Server.Name),
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoRepo, err := repository.NewMongoRepository(&cfg.MongoDB)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	if err := mongoRepo.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}
	if err := mongoRepo.EnsureIndexes(ctx); err != nil {
		logger.Fatal("Failed to create indexes", zap.Error(err))
	}

	redisRepo := repository.NewRedisRepository(&cfg.Redis)
	if err := redisRepo.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping Redis", zap.Error(err))
	}

	tokens := auth.NewTokenIssuer(&cfg.JWT)

	svcs := server.Services{
		Auth:       service.NewAuthService(mongoRepo, mongoRepo, redisRepo, tokens, &cfg.Auth, logger),
		Addresses:  service.NewAddressService(mongoRepo, logger),
		Banks:      service.NewBankService(mongoRepo, logger),
		Categories: service.NewCategoryService(mongoRepo, logger),
		Companies:  service.NewCompanyService(mongoRepo, logger),
		Products:   service.NewProductService(mongoRepo, mongoRepo, redisRepo, logger),
		Carts:      service.NewCartService(mongoRepo, mongoRepo, logger),
		Favourites: service.NewFavouriteService(mongoRepo, mongoRepo, logger),
		Orders:     service.NewOrderService(mongoRepo, mongoRepo, mongoRepo, mongoRepo, mongoRepo, logger),
	}

	srv := server.NewServer(cfg, logger, tokens, svcs)
	srv.SetupRoutes()

	srvErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			srvErr <- err
		}
	}()

	logger.Info("API server started successfully")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-srvErr:
		logger.Fatal("Server error", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := redisRepo.Close(); err != nil {
		logger.Warn("Failed to close Redis connection", zap.Error(err))
	}
	if err := mongoRepo.Close(shutdownCtx); err != nil {
		logger.Warn("Failed to close MongoDB connection", zap.Error(err))
	}

	logger.Info("Server stopped")
}
