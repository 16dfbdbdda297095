package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"vestisen/internal/database"
	"vestisen/internal/models"
)

type AddToCartRequest struct {
	AnnonceID uint `json:"annonce_id" validate:"required"`
}

// GetCart lists the authenticated user's saved annonces.
func GetCart(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var items []models.CartItem
	if err := database.DB.
		Preload("Annonce").Preload("Annonce.Category").Preload("Annonce.Seller").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load cart"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"items": items})
}

// AddToCart saves an approved annonce. Re-adding the same annonce is a no-op.
func AddToCart(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	req := new(AddToCartRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var annonce models.Annonce
	if err := database.DB.First(&annonce, req.AnnonceID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Annonce introuvable"})
	}
	if annonce.Status != models.AnnonceApproved {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Annonce non disponible"})
	}
	if annonce.SellerID == user.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Impossible d'ajouter sa propre annonce"})
	}

	var existing models.CartItem
	err = database.DB.Where("user_id = ? AND annonce_id = ?", user.ID, req.AnnonceID).First(&existing).Error
	if err == nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Déjà dans le panier", "item": existing})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update cart"})
	}

	item := models.CartItem{UserID: user.ID, AnnonceID: req.AnnonceID}
	if err := database.DB.Create(&item).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update cart"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Ajouté au panier", "item": item})
}

// RemoveFromCart deletes one saved annonce from the user's cart.
func RemoveFromCart(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	annonceID, err := parseID(c, "annonceId")
	if err != nil {
		return err
	}

	result := database.DB.Where("user_id = ? AND annonce_id = ?", user.ID, annonceID).Delete(&models.CartItem{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update cart"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Annonce absente du panier"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Retiré du panier"})
}
