package routes

import (
	"github.com/gofiber/fiber/v2"

	"vestisen/internal/handlers"
	"vestisen/internal/middleware"
)

func SetupReviewRoutes(app *fiber.App) {
	reviews := app.Group("/api/reviews", middleware.Protected())
	reviews.Post("/", handlers.CreateReview)
}
