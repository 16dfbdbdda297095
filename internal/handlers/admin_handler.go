package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"vestisen/internal/database"
	"vestisen/internal/models"
	"vestisen/internal/services"
)

type AdminUpdateUserRequest struct {
	Role    string `json:"role" validate:"omitempty,oneof=USER VENDEUR ADMIN"`
	Enabled *bool  `json:"enabled"`
}

type CategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Active      *bool  `json:"active"`
}

type TarifRequest struct {
	TypeName     string           `json:"type_name" validate:"required"`
	Price        *decimal.Decimal `json:"price" validate:"required"`
	DurationDays *int             `json:"duration_days" validate:"required"`
	Active       *bool            `json:"active"`
}

type CreditConfigRequest struct {
	PricePerCreditFcfa decimal.Decimal `json:"price_per_credit_fcfa" validate:"required"`
}

// AdminListUsers returns all accounts, newest first.
func AdminListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := database.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load users"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"users": users})
}

// AdminGetUser returns one account by id.
func AdminGetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Utilisateur introuvable"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user": user})
}

// AdminUpdateUser changes an account's role or enabled flag.
func AdminUpdateUser(c *fiber.Ctx) error {
	admin, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	req := new(AdminUpdateUserRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Utilisateur introuvable"})
	}

	updates := map[string]interface{}{}
	if req.Role != "" {
		updates["role"] = req.Role
	}
	if req.Enabled != nil {
		updates["enabled"] = *req.Enabled
	}
	if len(updates) > 0 {
		if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user"})
		}
	}

	services.LogInternal(database.DB, admin, "Utilisateur modifié", "user", user.ID, true)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Utilisateur mis à jour", "user": user})
}

// AdminDeleteUser removes an account. Admin accounts cannot be deleted.
func AdminDeleteUser(c *fiber.Ctx) error {
	admin, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Utilisateur introuvable"})
	}
	if user.IsAdmin() {
		services.LogInternal(database.DB, admin, "Suppression d'un compte admin refusée", "user", user.ID, false)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Impossible de supprimer un compte administrateur"})
	}

	if err := database.DB.Delete(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete user"})
	}

	services.LogInternal(database.DB, admin, "Utilisateur supprimé", "user", user.ID, true)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Utilisateur supprimé"})
}

// AdminListAnnonces lists annonces, optionally filtered by status.
func AdminListAnnonces(c *fiber.Ctx) error {
	query := database.DB.Preload("Category").Preload("Seller").Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var annonces []models.Annonce
	if err := query.Find(&annonces).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load annonces"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"annonces": annonces})
}

// AdminApproveAnnonce publishes a pending annonce and starts its clock.
func AdminApproveAnnonce(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	annonce, err := annonceService.Approve(id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Annonce approuvée", "annonce": annonce})
}

// AdminRejectAnnonce rejects a pending annonce.
func AdminRejectAnnonce(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	annonce, err := annonceService.Reject(id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Annonce rejetée", "annonce": annonce})
}

type AdminUpdateAnnonceRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	CategoryID  *uint            `json:"category_id"`
}

// AdminUpdateAnnonce patches listing content during moderation.
func AdminUpdateAnnonce(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	req := new(AdminUpdateAnnonceRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	var annonce models.Annonce
	if err := database.DB.First(&annonce, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Annonce introuvable"})
	}

	updates := map[string]interface{}{}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Prix invalide"})
		}
		updates["price"] = *req.Price
	}
	if req.CategoryID != nil {
		var category models.Category
		if err := database.DB.First(&category, *req.CategoryID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Catégorie introuvable"})
		}
		updates["category_id"] = *req.CategoryID
	}
	if len(updates) > 0 {
		if err := database.DB.Model(&annonce).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update annonce"})
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"annonce": annonce})
}

// AdminDeleteAnnonce removes a listing outright.
func AdminDeleteAnnonce(c *fiber.Ctx) error {
	admin, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var annonce models.Annonce
	if err := database.DB.First(&annonce, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Annonce introuvable"})
	}
	if err := database.DB.Delete(&annonce).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete annonce"})
	}

	services.LogInternal(database.DB, admin, "Annonce supprimée", "annonce", annonce.ID, true)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Annonce supprimée"})
}

// AdminCreateCategory adds a category.
func AdminCreateCategory(c *fiber.Ctx) error {
	req := new(CategoryRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	category := models.Category{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Active:      true,
	}
	if req.Active != nil {
		category.Active = *req.Active
	}

	if err := database.DB.Create(&category).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Catégorie déjà existante"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"category": category})
}

// AdminUpdateCategory patches a category.
func AdminUpdateCategory(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	req := new(CategoryRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	var category models.Category
	if err := database.DB.First(&category, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Catégorie introuvable"})
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Icon != "" {
		updates["icon"] = req.Icon
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) > 0 {
		if err := database.DB.Model(&category).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update category"})
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"category": category})
}

// AdminDeleteCategory disables a category instead of breaking listings that
// reference it.
func AdminDeleteCategory(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var category models.Category
	if err := database.DB.First(&category, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Catégorie introuvable"})
	}
	if err := database.DB.Model(&category).Update("active", false).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to disable category"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Catégorie désactivée"})
}

// AdminListTarifs returns every publication tarif, active or not.
func AdminListTarifs(c *fiber.Ctx) error {
	var tarifs []models.PublicationTarif
	if err := database.DB.Order("price ASC").Find(&tarifs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load tarifs"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"tarifs": tarifs})
}

// AdminCreateTarif adds a publication tarif.
func AdminCreateTarif(c *fiber.Ctx) error {
	req := new(TarifRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Price.IsNegative() || *req.DurationDays < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Prix et durée doivent être positifs"})
	}

	tarif := models.PublicationTarif{
		TypeName:     req.TypeName,
		Price:        *req.Price,
		DurationDays: *req.DurationDays,
		Active:       true,
	}
	if req.Active != nil {
		tarif.Active = *req.Active
	}

	if err := database.DB.Create(&tarif).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Tarif déjà existant"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"tarif": tarif})
}

// AdminUpdateTarif patches a tarif. Changes apply to future publications only.
func AdminUpdateTarif(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	req := new(TarifRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	var tarif models.PublicationTarif
	if err := database.DB.First(&tarif, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tarif introuvable"})
	}

	updates := map[string]interface{}{}
	if req.TypeName != "" {
		updates["type_name"] = req.TypeName
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Prix invalide"})
		}
		updates["price"] = *req.Price
	}
	if req.DurationDays != nil {
		if *req.DurationDays < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Durée invalide"})
		}
		updates["duration_days"] = *req.DurationDays
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) > 0 {
		if err := database.DB.Model(&tarif).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update tarif"})
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"tarif": tarif})
}

// AdminDeleteTarif deactivates a tarif. The Standard tarif stays active
// because expired listings revert to it.
func AdminDeleteTarif(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var tarif models.PublicationTarif
	if err := database.DB.First(&tarif, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tarif introuvable"})
	}
	if tarif.TypeName == models.DefaultTarifName {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Le tarif Standard ne peut pas être désactivé"})
	}
	if err := database.DB.Model(&tarif).Update("active", false).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to disable tarif"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Tarif désactivé"})
}

// AdminGetCreditConfig returns the credit pricing row.
func AdminGetCreditConfig(c *fiber.Ctx) error {
	config, err := creditService.GetOrCreateConfig()
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"config": config})
}

// AdminUpdateCreditConfig changes the FCFA price of one credit.
func AdminUpdateCreditConfig(c *fiber.Ctx) error {
	admin, err := currentUser(c)
	if err != nil {
		return err
	}

	req := new(CreditConfigRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !req.PricePerCreditFcfa.IsPositive() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Le prix doit être strictement positif"})
	}

	config, err := creditService.GetOrCreateConfig()
	if err != nil {
		return serviceError(c, err)
	}
	if err := database.DB.Model(config).Update("price_per_credit_fcfa", req.PricePerCreditFcfa).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update config"})
	}

	services.LogInternal(database.DB, admin, "Prix du crédit modifié", "credit_config", config.ID, true)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"config": config})
}

// AdminActionLogs lists recent audit entries, newest first.
func AdminActionLogs(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "100"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var logs []models.ActionLog
	if err := database.DB.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load logs"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"logs": logs})
}

// AdminStats returns marketplace counters for the dashboard.
func AdminStats(c *fiber.Ctx) error {
	var stats struct {
		Users            int64 `json:"users"`
		Annonces         int64 `json:"annonces"`
		PendingAnnonces  int64 `json:"pending_annonces"`
		ApprovedAnnonces int64 `json:"approved_annonces"`
		SoldAnnonces     int64 `json:"sold_annonces"`
	}

	database.DB.Model(&models.User{}).Count(&stats.Users)
	database.DB.Model(&models.Annonce{}).Count(&stats.Annonces)
	database.DB.Model(&models.Annonce{}).Where("status = ?", models.AnnoncePending).Count(&stats.PendingAnnonces)
	database.DB.Model(&models.Annonce{}).Where("status = ?", models.AnnonceApproved).Count(&stats.ApprovedAnnonces)
	database.DB.Model(&models.Annonce{}).Where("status = ?", models.AnnonceSold).Count(&stats.SoldAnnonces)

	return c.Status(fiber.StatusOK).JSON(stats)
}
