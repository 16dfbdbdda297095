package routes

import (
	"github.com/gofiber/fiber/v2"

	"vestisen/internal/handlers"
	"vestisen/internal/middleware"
)

func SetupAdminRoutes(app *fiber.App) {
	admin := app.Group("/api/admin", middleware.Protected(), middleware.RequireAdmin())

	// Users
	admin.Get("/users", handlers.AdminListUsers)
	admin.Get("/users/:id", handlers.AdminGetUser)
	admin.Put("/users/:id", handlers.AdminUpdateUser)
	admin.Delete("/users/:id", handlers.AdminDeleteUser)

	// Annonce moderation
	admin.Get("/annonces", handlers.AdminListAnnonces)
	admin.Put("/annonces/:id/approve", handlers.AdminApproveAnnonce)
	admin.Put("/annonces/:id/reject", handlers.AdminRejectAnnonce)
	admin.Put("/annonces/:id", handlers.AdminUpdateAnnonce)
	admin.Delete("/annonces/:id", handlers.AdminDeleteAnnonce)

	// Categories
	admin.Post("/categories", handlers.AdminCreateCategory)
	admin.Put("/categories/:id", handlers.AdminUpdateCategory)
	admin.Delete("/categories/:id", handlers.AdminDeleteCategory)

	// Publication tarifs
	admin.Get("/tarifs", handlers.AdminListTarifs)
	admin.Post("/tarifs", handlers.AdminCreateTarif)
	admin.Put("/tarifs/:id", handlers.AdminUpdateTarif)
	admin.Delete("/tarifs/:id", handlers.AdminDeleteTarif)

	// Credit pricing
	admin.Get("/credit-config", handlers.AdminGetCreditConfig)
	admin.Put("/credit-config", handlers.AdminUpdateCreditConfig)

	// Audit
	admin.Get("/action-logs", handlers.AdminActionLogs)
	admin.Get("/stats", handlers.AdminStats)
}
