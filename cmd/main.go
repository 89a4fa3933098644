package main

import (
	"context"
	"festival-service/internal/config"
	"festival-service/internal/database/mongo"
	"festival-service/internal/database/redis"
	"festival-service/internal/event"
	"festival-service/internal/handlers"
	"festival-service/internal/repository"
	"festival-service/internal/services"
	"festival-service/pkg/discovery"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
)

func setupLogging() (*os.File, error) {
	logDir := filepath.Join("/festguide", "log", "festival_service")
	err := os.MkdirAll(logDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	currentTime := time.Now()
	logFileName := fmt.Sprintf("log_%s.log", currentTime.Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	return file, nil
}

func main() {
	logFile, err := setupLogging()
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	cfg := config.ServiceConfig

	// Connect to MongoDB and Redis
	if err := mongo.InitMongoDB(&cfg.MongoDB); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	redis.InitRedis(&cfg.Redis)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	app.Get("/health", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("Festival Service is healthy")
	})

	// Initialize repositories
	cacheRepo := repository.NewRedisRepo(redis.Redis_Client)
	permissionRepo := repository.NewPermissionRepository(mongo.Database, "festival_permissions")
	festivalRepo := repository.NewFestivalRepository(mongo.Database, "festivals")
	userRepo := repository.NewUserRepository(mongo.Database, "users", cacheRepo)

	indexCtx, indexCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer indexCancel()
	if err := permissionRepo.InitializeIndexes(indexCtx); err != nil {
		log.Fatalf("Failed to initialize permission indexes: %v", err)
	}
	if err := festivalRepo.InitializeIndexes(indexCtx); err != nil {
		log.Fatalf("Failed to initialize festival indexes: %v", err)
	}
	if err := userRepo.InitializeIndexes(indexCtx); err != nil {
		log.Fatalf("Failed to initialize user indexes: %v", err)
	}

	// Initialize event publisher
	eventPublisher, err := event.NewEventPublisher(cfg.RabbitMQ.URI)
	if err != nil {
		log.Printf("Warning: Failed to initialize event publisher: %v", err)
		eventPublisher, _ = event.NewEventPublisher("")
	}

	// Initialize services
	authorizationService := services.NewAuthorizationService(permissionRepo, festivalRepo)
	permissionService := services.NewPermissionService(
		permissionRepo,
		festivalRepo,
		userRepo,
		authorizationService,
		services.SystemClock{},
		eventPublisher,
	)

	// Initialize event consumer for account deletion cleanup
	eventConsumer, err := event.NewEventConsumer(cfg.RabbitMQ.URI, permissionService)
	if err != nil {
		log.Printf("Warning: Failed to initialize event consumer: %v", err)
	} else {
		if err := eventConsumer.Start(); err != nil {
			log.Printf("Warning: Failed to start event consumer: %v", err)
			eventConsumer.Close()
		} else {
			log.Println("Successfully started event consumer for user events")
			defer eventConsumer.Close()
		}
	}

	// Initialize and register handlers
	permissionHandler := handlers.NewPermissionHandler(permissionService)
	permissionHandler.RegisterRoutes(app)

	// Register with service discovery
	registry, err := discovery.NewServiceRegistry(
		cfg.Consul.ConsulAddress,
		cfg.Server.ServiceName,
		cfg.Server.ServiceID,
		cfg.Server.Port,
	)
	if err != nil {
		log.Printf("Warning: Failed to create Consul client: %v", err)
	} else {
		discovery.ServiceDiscovery = registry
		if err := registry.Register(); err != nil {
			log.Printf("Warning: Failed to register with Consul: %v", err)
		}
	}

	shutdownChan := make(chan os.Signal, 1)
	doneChan := make(chan bool, 1)

	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := app.Listen(fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
		doneChan <- true
	}()

	<-shutdownChan
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}

	// Close event publisher
	if eventPublisher != nil {
		if err := eventPublisher.Close(); err != nil {
			log.Printf("Error closing event publisher: %v", err)
		}
	}

	// Disconnect from MongoDB and Redis
	mongo.CloseDB()
	redis.CloseRedis()

	// Deregister from service discovery
	if discovery.ServiceDiscovery != nil {
		if err := discovery.ServiceDiscovery.Deregister(); err != nil {
			log.Printf("Error deregistering from service discovery: %v", err)
		}
	}

	<-doneChan
	log.Println("Server shutdown complete")
}
