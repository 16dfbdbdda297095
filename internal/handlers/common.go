package handlers

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"vestisen/internal/database"
	"vestisen/internal/models"
	"vestisen/internal/services"
)

var validate = validator.New()

// ErrorHandler renders handler errors in the same JSON shape the rest of the
// API uses instead of fiber's plain-text default.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	return c.Status(code).JSON(fiber.Map{"error": message})
}

var (
	annonceService      *services.AnnonceService
	creditService       *services.CreditService
	paymentService      *services.PaymentService
	reviewService       *services.ReviewService
	conversationService *services.ConversationService
	emailService        *services.EmailService
	storageService      *services.StorageService
	stripeService       *services.StripeService
)

// InitServices wires the domain services against the connected database.
func InitServices(db *gorm.DB) {
	stripeService = services.NewStripeService()
	storageService = services.NewStorageService()
	emailService = services.NewEmailService()
	creditService = services.NewCreditService(db, stripeService)
	annonceService = services.NewAnnonceService(db, creditService, storageService)
	paymentService = services.NewPaymentService(db, annonceService, stripeService)
	reviewService = services.NewReviewService(db)
	conversationService = services.NewConversationService(db)
}

// Annonces exposes the wired annonce service for background jobs.
func Annonces() *services.AnnonceService {
	return annonceService
}

// currentUser loads the authenticated user set by the Protected middleware.
func currentUser(c *fiber.Ctx) (*models.User, error) {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Not authenticated")
	}
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "User not found")
	}
	return &user, nil
}

// serviceError maps domain failures to HTTP responses.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInsufficientCredits):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal error"})
	}
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	return uint(id), nil
}

// generateJWT issues an HS256 token carrying the user id, email and role.
func generateJWT(user *models.User) (string, error) {
	expiryHours := 24 * 7
	if v := os.Getenv("JWT_EXPIRY_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			expiryHours = n
		}
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"exp":     time.Now().Add(time.Duration(expiryHours) * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", fmt.Errorf("JWT_SECRET environment variable not set")
	}
	return token.SignedString([]byte(secret))
}
