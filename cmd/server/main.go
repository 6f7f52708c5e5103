package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kpatel/shopcart-backend/config"
	"github.com/kpatel/shopcart-backend/internal/app/controller"
	"github.com/kpatel/shopcart-backend/internal/app/repository"
	"github.com/kpatel/shopcart-backend/internal/app/service"
	"github.com/kpatel/shopcart-backend/internal/db"
	"github.com/kpatel/shopcart-backend/internal/router"
	"github.com/kpatel/shopcart-backend/internal/scheduler"
	"github.com/kpatel/shopcart-backend/internal/storage"
	"github.com/kpatel/shopcart-backend/internal/websocket"
	"github.com/kpatel/shopcart-backend/pkg/logger"
	"github.com/kpatel/shopcart-backend/pkg/mail"
	"github.com/kpatel/shopcart-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting ShopCart Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis is optional; the best-seller cache degrades to the database
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, caching disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// Websocket hub for the order-status feed
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize repositories
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	notificationRepo := repository.NewNotificationRepository(db.GetDB())

	// Initialize services
	productService := service.NewProductService(productRepo, cfg.Catalog.BestSellerCacheTTL)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(orderRepo, cartRepo, db.GetDB(), hub)
	notificationService := service.NewNotificationService(
		orderRepo,
		notificationRepo,
		mail.NewSendGridClient(cfg.Email.SendGridAPIKey, cfg.Email.FromAddress, cfg.Email.FromName),
	)

	// S3 storage for product image uploads
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	productController := controller.NewProductController(productService, s3Storage)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService, notificationService)

	// Nightly best-seller recomputation
	bestSellerScheduler := scheduler.NewBestSellerScheduler(productService, cfg.Catalog.BestSellerLimit)
	if err := bestSellerScheduler.Start(); err != nil {
		logger.Error("Failed to start best-seller scheduler", err)
	}
	defer bestSellerScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		productController,
		cartController,
		orderController,
		hub,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
