package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"vestisen/internal/models"
)

type PurchaseCreditsRequest struct {
	Credits       decimal.Decimal `json:"credits" validate:"required"`
	PaymentMethod string          `json:"payment_method" validate:"required"`
}

// CreditBalance returns the authenticated user's credit balance.
func CreditBalance(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	balance, err := creditService.Balance(user.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"balance": balance})
}

// PurchaseCredits opens a pending ledger entry priced from the credit config.
func PurchaseCredits(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	req := new(PurchaseCreditsRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	entry, err := creditService.Purchase(user, req.Credits, models.PaymentMethod(req.PaymentMethod))
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Achat de crédits initié",
		"transaction": entry,
	})
}

// ConfirmCreditPurchase settles a pending ledger entry. Only the buyer may
// confirm their own transaction; settlement happens at most once.
func ConfirmCreditPurchase(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	entry, err := creditService.FindTransaction(id)
	if err != nil {
		return serviceError(c, err)
	}
	if entry.UserID != user.ID && !user.IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Transaction d'un autre utilisateur"})
	}

	entry, err = creditService.Confirm(id)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":     "Crédits ajoutés",
		"transaction": entry,
	})
}

// CreditTransactions lists the authenticated user's ledger entries.
func CreditTransactions(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	entries, err := creditService.Transactions(user.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"transactions": entries})
}

// CreditPricing exposes the public price per credit.
func CreditPricing(c *fiber.Ctx) error {
	config, err := creditService.GetOrCreateConfig()
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"price_per_credit_fcfa": config.PricePerCreditFcfa,
	})
}

// StripeWebhook settles a credit purchase from a payment provider callback.
func StripeWebhook(c *fiber.Ctx) error {
	var payload struct {
		PaymentIntentID string `json:"payment_intent_id"`
	}
	if err := c.BodyParser(&payload); err != nil || payload.PaymentIntentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payload"})
	}

	entry, err := creditService.ConfirmByProviderID(payload.PaymentIntentID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":     "Paiement confirmé",
		"transaction": entry,
	})
}
