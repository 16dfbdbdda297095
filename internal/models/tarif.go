package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PublicationTarif is an admin-managed publication tier: price in credits and
// visibility duration in days (0 = unlimited).
type PublicationTarif struct {
	ID           uint            `gorm:"primarykey" json:"id"`
	TypeName     string          `gorm:"uniqueIndex;size:100;not null" json:"type_name"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	DurationDays int             `gorm:"not null;default:0" json:"duration_days"`
	Active       bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (PublicationTarif) TableName() string {
	return "publication_tarifs"
}

// DefaultTarifName is the tier expired paid listings revert to.
const DefaultTarifName = "Standard"
