package database

import (
	"os"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"vestisen/internal/logger"
	"vestisen/internal/models"
	"vestisen/internal/services"
)

// Seed bootstraps the admin account, the credit config row and the default
// categories and publication tarifs. Safe to run on every boot.
func Seed() error {
	if err := seedAdmin(); err != nil {
		return err
	}
	if err := seedCreditConfig(); err != nil {
		return err
	}
	if err := seedCategories(); err != nil {
		return err
	}
	return seedTarifs()
}

func seedAdmin() error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		logger.Log.Warn("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin bootstrap")
		return nil
	}

	var count int64
	if err := DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	code, err := services.UniqueCode(DB, &models.User{})
	if err != nil {
		return err
	}

	admin := models.User{
		Code:          code,
		Email:         email,
		Password:      string(hash),
		FirstName:     "Admin",
		LastName:      "VestiSen",
		Role:          models.RoleAdmin,
		Enabled:       true,
		EmailVerified: true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}
	logger.Log.Info("admin account created", zap.String("email", email))
	return nil
}

func seedCreditConfig() error {
	var count int64
	if err := DB.Model(&models.CreditConfig{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return DB.Create(&models.CreditConfig{PricePerCreditFcfa: decimal.NewFromInt(100)}).Error
}

func seedCategories() error {
	defaults := []models.Category{
		{Name: "Vêtements femme", Description: "Vêtements pour femmes", Icon: "👗", Active: true},
		{Name: "Vêtements homme", Description: "Vêtements pour hommes", Icon: "👔", Active: true},
		{Name: "Accessoires", Description: "Sacs, bijoux, chaussures...", Icon: "👜", Active: true},
		{Name: "Promotion", Description: "Offres et lots", Icon: "🏷️", Active: true},
	}
	for _, c := range defaults {
		var count int64
		if err := DB.Model(&models.Category{}).Where("name = ?", c.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := DB.Create(&c).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedTarifs() error {
	defaults := []models.PublicationTarif{
		{TypeName: "Standard", Price: decimal.NewFromInt(5), DurationDays: 7, Active: true},
		{TypeName: "Premium", Price: decimal.NewFromInt(15), DurationDays: 14, Active: true},
		{TypeName: "Top Pub", Price: decimal.NewFromInt(30), DurationDays: 30, Active: true},
	}
	for _, t := range defaults {
		var count int64
		if err := DB.Model(&models.PublicationTarif{}).Where("type_name = ?", t.TypeName).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := DB.Create(&t).Error; err != nil {
			return err
		}
	}
	return nil
}
