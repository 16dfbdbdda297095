package routes

import (
	"github.com/gofiber/fiber/v2"

	"vestisen/internal/handlers"
	"vestisen/internal/middleware"
)

func SetupCreditRoutes(app *fiber.App) {
	// Public pricing and gateway callback
	app.Get("/api/credits/config", handlers.CreditPricing)
	app.Post("/api/credits/webhook", handlers.StripeWebhook)

	credits := app.Group("/api/credits", middleware.Protected())
	credits.Get("/balance", handlers.CreditBalance)
	credits.Post("/purchase", handlers.PurchaseCredits)
	credits.Post("/confirm/:id", handlers.ConfirmCreditPurchase)
	credits.Get("/transactions", handlers.CreditTransactions)
}
