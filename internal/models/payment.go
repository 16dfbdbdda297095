package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// AnnoncePaymentMethod extends the gateway methods with payment on delivery,
// which stays PENDING until manual confirmation.
const PaymentOnDelivery PaymentMethod = "PAIEMENT_LIVRAISON"

// Payment is the legacy per-annonce publication payment. Completing it
// approves the annonce.
type Payment struct {
	ID        uint    `gorm:"primarykey" json:"id"`
	AnnonceID uint    `gorm:"uniqueIndex;not null" json:"annonce_id"`
	Annonce   Annonce `gorm:"foreignKey:AnnonceID" json:"annonce,omitempty"`
	UserID    uint    `gorm:"not null;index" json:"user_id"`
	User      User    `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(30);not null" json:"payment_method"`
	Status        PaymentStatus   `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`

	TransactionID     string `json:"transaction_id,omitempty"`
	PaymentProviderID string `gorm:"index" json:"payment_provider_id,omitempty"`

	PaidAt    *time.Time `json:"paid_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}
