package handlers

import (
	"github.com/gofiber/fiber/v2"

	"vestisen/internal/database"
	"vestisen/internal/models"
)

// ListCategories returns active categories ordered by display order.
func ListCategories(c *fiber.Ctx) error {
	var categories []models.Category
	if err := database.DB.
		Where("active = ?", true).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load categories"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"categories": categories})
}

// ListTarifs returns active publication tarifs, cheapest first.
func ListTarifs(c *fiber.Ctx) error {
	var tarifs []models.PublicationTarif
	if err := database.DB.
		Where("active = ?", true).
		Order("price ASC").
		Find(&tarifs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load tarifs"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"tarifs": tarifs})
}
