package scheduler

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"vestisen/internal/logger"
	"vestisen/internal/models"
	"vestisen/internal/services"
)

func TestRunSweepsImmediatelyAndStops(t *testing.T) {
	logger.Init()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Category{}, &models.PublicationTarif{},
		&models.Annonce{}, &models.ActionLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	standard := models.PublicationTarif{TypeName: "Standard", Price: decimal.NewFromInt(5), Active: true}
	if err := db.Create(&standard).Error; err != nil {
		t.Fatalf("seed tarif: %v", err)
	}
	past := time.Now().Add(-time.Hour)
	annonce := models.Annonce{
		Code:            "SCHEDTESTA12345678",
		Title:           "Chaussures",
		Price:           decimal.NewFromInt(9000),
		CategoryID:      1,
		SellerID:        1,
		PublicationType: "Premium",
		Status:          models.AnnonceApproved,
		ExpiresAt:       &past,
	}
	if err := db.Create(&annonce).Error; err != nil {
		t.Fatalf("seed annonce: %v", err)
	}

	annonces := services.NewAnnonceService(db, services.NewCreditService(db, nil), services.NewStorageService())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		New(annonces).Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("scheduler did not stop on context cancel")
	}

	var swept models.Annonce
	if err := db.First(&swept, annonce.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if swept.PublicationType != models.DefaultTarifName {
		t.Fatalf("startup sweep must run before the first tick, got %s", swept.PublicationType)
	}
	if swept.ExpiresAt != nil {
		t.Fatalf("swept annonce must have no expiry")
	}
}
