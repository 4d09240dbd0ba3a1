package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"order_manager/internal/config"
	"order_manager/internal/database"
	"order_manager/internal/handlers"
	"order_manager/internal/migrations"
	"order_manager/internal/redis"
	"order_manager/internal/repository"
	"order_manager/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Seed default data on a fresh database
	if err := migrations.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Initialize Redis (preview cache)
	cache, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	// Initialize services
	userService := services.NewUserService(userRepo)
	checkoutService := services.NewCheckoutService(catalogRepo, orderRepo)
	stateMachine := services.NewStateMachine(cfg.ReopenTargets)
	statusService := services.NewStatusService(orderRepo, catalogRepo, checkoutService, stateMachine, services.NoopTableNotifier{})

	// Initialize handlers
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, cache, time.Duration(cfg.PreviewCacheTTL)*time.Second)
	orderHandler := handlers.NewOrderHandler(statusService, orderRepo, historyRepo)
	userHandler := handlers.NewUserHandler(userService)

	// Setup routes
	router := gin.Default()

	api := router.Group("/api")
	{
		api.POST("/login", userHandler.Login)
		api.POST("/users", userHandler.Create)

		api.POST("/orders/preview", checkoutHandler.Preview)
		api.POST("/orders", checkoutHandler.Finalize)

		api.GET("/orders", orderHandler.List)
		api.GET("/orders/:id", orderHandler.Get)
		api.GET("/orders/:id/history", orderHandler.History)
		api.PUT("/orders/:id/status", orderHandler.ChangeStatus)
		api.POST("/orders/:id/items", orderHandler.AddItem)
		api.DELETE("/orders/:id/items/:line_id", orderHandler.RemoveItem)
		api.POST("/orders/:id/close", orderHandler.CloseBill)
		api.POST("/orders/:id/reopen", orderHandler.Reopen)
		api.POST("/orders/:id/cancel", orderHandler.Cancel)
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
