package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"vestisen/internal/database"
	"vestisen/internal/logger"
	"vestisen/internal/models"
	"vestisen/internal/services"
)

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Whatsapp  string `json:"whatsapp"`
	Role      string `json:"role" validate:"omitempty,oneof=USER VENDEUR"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Whatsapp  string `json:"whatsapp"`
}

// Register creates a disabled account and emails a verification link.
// The ADMIN role is never assignable through this endpoint.
func Register(c *fiber.Ctx) error {
	req := new(RegisterRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var existing models.User
	if err := database.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Un compte existe déjà avec cet email"})
	}
	if req.Phone != "" {
		if err := database.DB.Where("phone = ?", req.Phone).First(&existing).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Un compte existe déjà avec ce numéro de téléphone"})
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process password"})
	}

	code, err := services.UniqueCode(database.DB, &models.User{})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create account"})
	}

	role := models.RoleUser
	if req.Role == string(models.RoleVendeur) {
		role = models.RoleVendeur
	}

	tokenExpiry := time.Now().Add(24 * time.Hour)
	user := models.User{
		Code:                    code,
		Email:                   req.Email,
		Password:                string(hashed),
		FirstName:               req.FirstName,
		LastName:                req.LastName,
		Phone:                   req.Phone,
		Address:                 req.Address,
		Whatsapp:                req.Whatsapp,
		Role:                    role,
		Enabled:                 false,
		EmailVerified:           false,
		VerificationToken:       uuid.NewString(),
		VerificationTokenExpiry: &tokenExpiry,
	}

	if err := database.DB.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create account"})
	}

	// Verification mail failures must not block registration.
	if err := emailService.SendVerificationEmail(user.Email, user.VerificationToken, user.FirstName); err != nil {
		logger.Log.Warn("verification email not sent", zap.String("email", user.Email), zap.Error(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Compte créé. Vérifiez votre email pour activer votre compte.",
		"user":    user,
	})
}

// Login authenticates by email and password and issues a JWT.
func Login(c *fiber.Ctx) error {
	req := new(LoginRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Email ou mot de passe invalide"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Email ou mot de passe invalide"})
	}
	if !user.Enabled {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Compte non activé. Vérifiez votre email."})
	}

	token, err := generateJWT(&user)
	if err != nil {
		logger.Log.Error("token generation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Connexion réussie",
		"token":   token,
		"user":    user,
	})
}

// VerifyEmail activates the account matching a non-expired verification token.
func VerifyEmail(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Token manquant"})
	}

	var user models.User
	if err := database.DB.Where("verification_token = ?", token).First(&user).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Token invalide"})
	}
	if user.VerificationTokenExpiry == nil || user.VerificationTokenExpiry.Before(time.Now()) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Token expiré"})
	}

	updates := map[string]interface{}{
		"enabled":                   true,
		"email_verified":            true,
		"verification_token":        "",
		"verification_token_expiry": nil,
	}
	if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to verify email"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Email vérifié, votre compte est actif."})
}

// ForgotPassword issues a reset token. The response does not reveal whether
// the email is registered.
func ForgotPassword(c *fiber.Ctx) error {
	req := new(ForgotPasswordRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err == nil {
		expiry := time.Now().Add(1 * time.Hour)
		resetToken := uuid.NewString()
		updates := map[string]interface{}{
			"reset_password_token":  resetToken,
			"reset_password_expiry": &expiry,
		}
		if err := database.DB.Model(&user).Updates(updates).Error; err == nil {
			if err := emailService.SendPasswordResetEmail(user.Email, resetToken, user.FirstName); err != nil {
				logger.Log.Warn("reset email not sent", zap.String("email", user.Email), zap.Error(err))
			}
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Si un compte existe avec cet email, un lien de réinitialisation a été envoyé.",
	})
}

// ResetPassword sets a new password from a valid reset token.
func ResetPassword(c *fiber.Ctx) error {
	req := new(ResetPasswordRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	if err := database.DB.Where("reset_password_token = ?", req.Token).First(&user).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Token invalide"})
	}
	if user.ResetPasswordExpiry == nil || user.ResetPasswordExpiry.Before(time.Now()) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Token expiré"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process password"})
	}

	updates := map[string]interface{}{
		"password":              string(hashed),
		"reset_password_token":  "",
		"reset_password_expiry": nil,
	}
	if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to reset password"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Mot de passe réinitialisé."})
}

// Me returns the authenticated user's profile with credit balance.
func Me(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user": user})
}

// UpdateProfile patches the mutable profile fields.
func UpdateProfile(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	req := new(UpdateProfileRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updates := map[string]interface{}{}
	if req.FirstName != "" {
		updates["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		updates["last_name"] = req.LastName
	}
	if req.Phone != "" {
		var other models.User
		if err := database.DB.Where("phone = ? AND id <> ?", req.Phone, user.ID).First(&other).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Numéro de téléphone déjà utilisé"})
		}
		updates["phone"] = req.Phone
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if req.Whatsapp != "" {
		updates["whatsapp"] = req.Whatsapp
	}
	if len(updates) == 0 {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"user": user})
	}

	if err := database.DB.Model(user).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Profil mis à jour", "user": user})
}
