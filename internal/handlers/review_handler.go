package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"vestisen/internal/services"
)

// CreateReview records a buyer's review of the seller after a purchase.
func CreateReview(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	req := new(services.ReviewCreateRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	review, err := reviewService.Create(req, user)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Avis publié",
		"review":  review,
	})
}

// SellerReviews lists reviews received by a seller, newest first.
func SellerReviews(c *fiber.Ctx) error {
	sellerID, err := parseID(c, "sellerId")
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(c.Query("limit", "50"))

	reviews, err := reviewService.BySeller(sellerID, limit)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"reviews": reviews})
}
