package routes

import (
	"github.com/gofiber/fiber/v2"

	"vestisen/internal/handlers"
	"vestisen/internal/middleware"
)

func SetupRoutes(app *fiber.App) {
	// API routes
	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", handlers.Register)
	auth.Post("/login", handlers.Login)
	auth.Get("/verify-email", handlers.VerifyEmail)
	auth.Post("/forgot-password", handlers.ForgotPassword)
	auth.Post("/reset-password", handlers.ResetPassword)

	// Profile
	auth.Get("/me", middleware.Protected(), handlers.Me)
	auth.Put("/me", middleware.Protected(), handlers.UpdateProfile)

	// Public catalogue
	api.Get("/categories", handlers.ListCategories)
	api.Get("/tarifs", handlers.ListTarifs)
	api.Get("/reviews/seller/:sellerId", handlers.SellerReviews)

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "VestiSen API v1.0",
			"status":  "running",
		})
	})
}
