package routes

import (
	"github.com/gofiber/fiber/v2"

	"vestisen/internal/handlers"
	"vestisen/internal/middleware"
)

func SetupConversationRoutes(app *fiber.App) {
	conversations := app.Group("/api/conversations", middleware.Protected())
	conversations.Post("/annonce/:id", handlers.StartConversation)
	conversations.Get("/", handlers.MyConversations)
	conversations.Get("/:id", handlers.GetConversation)
	conversations.Post("/messages", handlers.SendMessage)
}
