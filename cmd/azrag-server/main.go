package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/liliang-cn/azrag/internal/api"
	"github.com/liliang-cn/azrag/internal/config"
	"github.com/liliang-cn/azrag/internal/llm"
	"github.com/liliang-cn/azrag/internal/repository"
	"github.com/liliang-cn/azrag/internal/search"
	"github.com/liliang-cn/azrag/internal/service"
)

var (
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	// Azure clients are immutable and shared by every request
	searchClient, err := search.NewClient(cfg.Search.Endpoint, cfg.Search.AdminKey, &search.ClientOptions{
		APIVersion: cfg.Search.APIVersion,
	})
	if err != nil {
		logger.Fatal("Failed to create search client", zap.Error(err))
	}

	chatClient, err := llm.NewClient(llm.Config{
		Endpoint:   cfg.OpenAI.Endpoint,
		APIKey:     cfg.OpenAI.APIKey,
		Deployment: cfg.OpenAI.Deployment,
		APIVersion: cfg.OpenAI.APIVersion,
	})
	if err != nil {
		logger.Fatal("Failed to create chat client", zap.Error(err))
	}

	// Initialize services
	indexService := service.NewIndexService(searchClient, cfg, logger)
	askService := service.NewAskService(
		indexService,
		service.NewAnswerService(chatClient),
		logger,
	)

	// The run ledger is optional; the server only reads it
	var runs service.RunLister
	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Warn("Run ledger unavailable", zap.String("path", cfg.Database.Path), zap.Error(err))
	} else {
		defer db.Close()
		runs = repository.NewRunRepository(db)
	}
	adminService := service.NewAdminService(indexService, runs)

	// Setup router
	router := api.SetupRouter(askService, adminService, api.RouterConfig{
		APIKey:       cfg.Admin.APIKey,
		AllowOrigins: []string{"*"},
		Logger:       logger,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:        cfg.Address(),
		Handler:     router,
		ReadTimeout: 30 * time.Second,
		// a single answer waits on both the search and the chat deployment
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting azrag server",
			zap.String("address", cfg.Address()),
			zap.String("index", indexService.IndexName()),
			zap.String("deployment", chatClient.Deployment()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
