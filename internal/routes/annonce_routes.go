package routes

import (
	"github.com/gofiber/fiber/v2"

	"vestisen/internal/handlers"
	"vestisen/internal/middleware"
)

func SetupAnnonceRoutes(app *fiber.App) {
	annonces := app.Group("/api/annonces")

	// Public browsing
	annonces.Get("/public", handlers.SearchAnnonces)
	annonces.Get("/public/top", handlers.TopAnnonces)
	annonces.Get("/public/most-viewed", handlers.MostViewedAnnonces)
	annonces.Get("/public/:id", handlers.GetAnnonce)
	annonces.Post("/contact/:id", handlers.ContactAnnonce)

	// Seller and buyer actions
	annonces.Post("/", middleware.Protected(), handlers.CreateAnnonce)
	annonces.Get("/my-annonces", middleware.Protected(), handlers.MyAnnonces)
	annonces.Get("/my-purchases", middleware.Protected(), handlers.MyPurchases)
	annonces.Post("/:id/buy", middleware.Protected(), handlers.BuyAnnonce)
	annonces.Post("/:id/photos", middleware.Protected(), handlers.UploadAnnoncePhotos)

	// Publication payments
	payments := app.Group("/api/payments", middleware.Protected())
	payments.Post("/", handlers.CreatePayment)
	payments.Post("/:id/confirm", handlers.ConfirmPayment)
}
