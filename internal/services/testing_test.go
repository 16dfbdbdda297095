package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"vestisen/internal/logger"
	"vestisen/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.Init()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.PublicationTarif{},
		&models.Annonce{},
		&models.CreditConfig{},
		&models.CreditTransaction{},
		&models.Payment{},
		&models.CartItem{},
		&models.Review{},
		&models.Conversation{},
		&models.Message{},
		&models.ActionLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string, role models.Role, balance int64) *models.User {
	t.Helper()
	code, err := UniqueCode(db, &models.User{})
	if err != nil {
		t.Fatalf("code: %v", err)
	}
	user := models.User{
		Code:          code,
		Email:         email,
		Password:      "hash",
		FirstName:     "Awa",
		LastName:      "Ndiaye",
		Role:          role,
		Enabled:       true,
		EmailVerified: true,
		CreditBalance: decimal.NewFromInt(balance),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &user
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := models.Category{Name: name, Active: true}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return &category
}

func seedTarif(t *testing.T, db *gorm.DB, typeName string, price int64, days int) *models.PublicationTarif {
	t.Helper()
	tarif := models.PublicationTarif{
		TypeName:     typeName,
		Price:        decimal.NewFromInt(price),
		DurationDays: days,
		Active:       true,
	}
	if err := db.Create(&tarif).Error; err != nil {
		t.Fatalf("seed tarif: %v", err)
	}
	return &tarif
}

func newAnnonceService(db *gorm.DB) *AnnonceService {
	return NewAnnonceService(db, NewCreditService(db, nil), NewStorageService())
}

func seedAnnonce(t *testing.T, db *gorm.DB, svc *AnnonceService, seller *models.User, categoryID uint, typeName string) *models.Annonce {
	t.Helper()
	annonce, err := svc.Create(&AnnonceCreateRequest{
		Title:           "Robe wax taille M",
		Price:           decimal.NewFromInt(15000),
		CategoryID:      categoryID,
		PublicationType: typeName,
	}, seller)
	if err != nil {
		t.Fatalf("seed annonce: %v", err)
	}
	return annonce
}

func expireAnnonce(t *testing.T, db *gorm.DB, id uint, ago time.Duration) {
	t.Helper()
	past := time.Now().Add(-ago)
	if err := db.Model(&models.Annonce{}).Where("id = ?", id).
		Update("expires_at", past).Error; err != nil {
		t.Fatalf("expire annonce: %v", err)
	}
}
