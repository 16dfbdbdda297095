package main

import (
	"context"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"vestisen/internal/database"
	"vestisen/internal/handlers"
	"vestisen/internal/logger"
	"vestisen/internal/middleware"
	"vestisen/internal/routes"
	"vestisen/internal/scheduler"
)

func main() {
	envErr := godotenv.Load()

	logger.Init()
	defer logger.Log.Sync()
	if envErr != nil {
		logger.Log.Info("no .env file found, using environment variables")
	}

	// Connect to database
	if err := database.Connect(); err != nil {
		logger.Log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	// Run migrations and seed defaults
	if err := database.Migrate(); err != nil {
		logger.Log.Fatal("failed to migrate database", zap.Error(err))
	}
	if err := database.Seed(); err != nil {
		logger.Log.Fatal("failed to seed database", zap.Error(err))
	}
	logger.Log.Info("database connected, migrated and seeded")

	// Initialize services
	handlers.InitServices(database.DB)

	// Background expiration sweep
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go scheduler.New(handlers.Annonces()).Run(ctx)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "VestiSen API v1.0",
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(middleware.ActionLogger())

	// Uploaded listing images are served from local disk
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads/images"
	}
	app.Static("/uploads", uploadDir)

	// Health check route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to VestiSen API",
			"status":  "running",
			"version": "1.0",
		})
	})

	// Setup application routes
	routes.SetupRoutes(app)
	routes.SetupAnnonceRoutes(app)
	routes.SetupCreditRoutes(app)
	routes.SetupCartRoutes(app)
	routes.SetupReviewRoutes(app)
	routes.SetupConversationRoutes(app)
	routes.SetupAdminRoutes(app)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Log.Info("server starting", zap.String("port", port))
	logger.Log.Fatal("server stopped", zap.Error(app.Listen(":"+port)))
}
