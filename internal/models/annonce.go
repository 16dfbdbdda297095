package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type AnnonceStatus string

const (
	AnnoncePending  AnnonceStatus = "PENDING"
	AnnonceApproved AnnonceStatus = "APPROVED"
	AnnonceRejected AnnonceStatus = "REJECTED"
	AnnonceSold     AnnonceStatus = "SOLD"
	AnnonceExpired  AnnonceStatus = "EXPIRED"
)

type Condition string

const (
	ConditionNeuf        Condition = "NEUF"
	ConditionOccasion    Condition = "OCCASION"
	ConditionTresBonEtat Condition = "TRES_BON_ETAT"
	ConditionBonEtat     Condition = "BON_ETAT"
)

// Annonce is a classified listing. The publication clock (PublishedAt,
// ExpiresAt) starts at approval, never at creation.
type Annonce struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	Code        string          `gorm:"uniqueIndex;size:18" json:"code"`
	Title       string          `gorm:"not null" json:"title"`
	Description string          `gorm:"size:2000" json:"description,omitempty"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`

	CategoryID uint     `gorm:"not null;index" json:"category_id"`
	Category   Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	// TypeName of the publication tarif paid for this listing.
	PublicationType       string          `gorm:"size:100;not null;default:'Standard'" json:"publication_type"`
	PublicationCreditCost decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"publication_credit_cost"`

	Condition Condition `gorm:"type:varchar(20)" json:"condition,omitempty"`
	Size      string    `json:"size,omitempty"`
	Brand     string    `json:"brand,omitempty"`
	Color     string    `json:"color,omitempty"`
	Location  string    `json:"location,omitempty"`

	Images datatypes.JSONSlice[string] `json:"images"`

	SellerID uint  `gorm:"not null;index" json:"seller_id"`
	Seller   User  `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	BuyerID  *uint `gorm:"index" json:"buyer_id,omitempty"`
	Buyer    *User `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`

	Status AnnonceStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`

	ViewCount    int `gorm:"not null;default:0" json:"view_count"`
	ContactCount int `gorm:"not null;default:0" json:"contact_count"`

	PublishedAt *time.Time `json:"published_at,omitempty"`
	ExpiresAt   *time.Time `gorm:"index" json:"expires_at,omitempty"`

	// "Tout doit partir": clearance sale marker with the original price shown struck out.
	ToutDoitPartir bool             `gorm:"not null;default:false" json:"tout_doit_partir"`
	OriginalPrice  *decimal.Decimal `gorm:"type:decimal(12,2)" json:"original_price,omitempty"`
	IsLot          bool             `gorm:"not null;default:false" json:"is_lot"`

	AcceptPaymentOnDelivery bool `gorm:"not null;default:false" json:"accept_payment_on_delivery"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Annonce) TableName() string {
	return "annonces"
}
