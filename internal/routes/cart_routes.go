package routes

import (
	"github.com/gofiber/fiber/v2"

	"vestisen/internal/handlers"
	"vestisen/internal/middleware"
)

func SetupCartRoutes(app *fiber.App) {
	cart := app.Group("/api/cart", middleware.Protected())
	cart.Get("/", handlers.GetCart)
	cart.Post("/", handlers.AddToCart)
	cart.Delete("/annonce/:annonceId", handlers.RemoveFromCart)
}
