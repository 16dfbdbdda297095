package database

import (
	"fmt"

	"vestisen/internal/models"
)

func Migrate() error {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.PublicationTarif{},
		&models.CreditConfig{},
		&models.CreditTransaction{},
		&models.Annonce{},
		&models.Payment{},
		&models.CartItem{},
		&models.Review{},
		&models.Conversation{},
		&models.Message{},
		&models.ActionLog{},
	)

	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
