package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"jumboprint/internal/config"
	"jumboprint/internal/handlers"
	"jumboprint/internal/middleware"
	"jumboprint/internal/models"
	"jumboprint/internal/repositories"
	"jumboprint/internal/services"
	"jumboprint/internal/shiprocket"
	"jumboprint/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg := config.Load()

	// --- Database ---
	db, err := openDatabase(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Order{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- RabbitMQ ---
	// A missing broker degrades to skipped events rather than a dead server;
	// checkout must keep working when fulfillment messaging is down.
	var mqClient *rabbitmq.Client
	mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		log.Printf("Warning: RabbitMQ unavailable, order events will be skipped: %v", err)
		mqClient = nil
	} else {
		defer mqClient.Close()
	}

	// --- Repositories ---
	orderRepo := repositories.NewGORMOrderRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	// --- Shipping client ---
	shippingClient := shiprocket.NewClient(shiprocket.Options{
		BaseURL:        cfg.Shiprocket.BaseURL,
		Email:          cfg.Shiprocket.Email,
		Password:       cfg.Shiprocket.Password,
		TestMode:       cfg.Shiprocket.TestMode,
		PickupLocation: cfg.Shiprocket.PickupLocation,
		SupportEmail:   cfg.SupportEmail,
		ParcelLength:   cfg.Shiprocket.ParcelLength,
		ParcelBreadth:  cfg.Shiprocket.ParcelBreadth,
		ParcelHeight:   cfg.Shiprocket.ParcelHeight,
		ParcelWeight:   cfg.Shiprocket.ParcelWeight,
	})
	if cfg.Shiprocket.TestMode {
		log.Println("Shiprocket sandbox mode enabled: no shipping calls will leave this process")
	}

	// --- Services ---
	authService := services.NewAuthService(userRepo, cfg.JWTSecret)
	pricingService := services.NewPricingService()
	uploadService, err := services.NewUploadService(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}
	var publisher services.EventPublisher
	if mqClient != nil {
		publisher = mqClient
	}
	orderService := services.NewOrderService(orderRepo, userRepo, pricingService, shippingClient, publisher)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	pricingHandler := handlers.NewPricingHandler(pricingService)
	uploadHandler := handlers.NewUploadHandler(uploadService)
	orderHandler := handlers.NewOrderHandler(orderService)

	// --- Fiber App ---
	app := fiber.New()
	app.Use(logger.New()) // Request logger

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")

	// Public routes
	authHandler.RegisterRoutes(apiV1)
	pricingHandler.RegisterRoutes(apiV1)

	// Protected routes (require JWT authentication)
	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	uploadHandler.RegisterRoutes(protectedRoutes)
	orderHandler.RegisterRoutes(protectedRoutes)

	// Stored design files
	app.Static("/files", cfg.UploadDir)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start RabbitMQ Consumer in a Goroutine ---
	// The fulfillment listener reacts to order lifecycle events. For now it
	// records them; notification channels hang off this consumer later.
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for order events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received order event (Tag: %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil // Return nil to acknowledge
			}
			if consumerErr := mqClient.ConsumeOrderEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	// Close RabbitMQ connection is handled by defer in main
	log.Println("Server gracefully stopped")
}

// openDatabase picks the GORM driver from the DSN: postgres for postgres://
// or key=value DSNs, sqlite for file paths.
func openDatabase(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
}
