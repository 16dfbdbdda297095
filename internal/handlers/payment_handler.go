package handlers

import (
	"github.com/gofiber/fiber/v2"

	"vestisen/internal/models"
)

type CreatePaymentRequest struct {
	AnnonceID     uint   `json:"annonce_id" validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"required"`
}

// CreatePayment opens a publication payment for the seller's own annonce.
func CreatePayment(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	req := new(CreatePaymentRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	payment, err := paymentService.Create(req.AnnonceID, user, models.PaymentMethod(req.PaymentMethod))
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Paiement initié",
		"payment": payment,
	})
}

// ConfirmPayment settles a pending payment and approves the annonce.
func ConfirmPayment(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	payment, err := paymentService.Confirm(id, user)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Paiement confirmé",
		"payment": payment,
	})
}
