package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditConfig is a single-row configuration table: FCFA price of one credit.
// Read through get-or-create, never cached in process.
type CreditConfig struct {
	ID                 uint            `gorm:"primarykey" json:"id"`
	PricePerCreditFcfa decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price_per_credit_fcfa"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func (CreditConfig) TableName() string {
	return "credit_config"
}

type PaymentMethod string

const (
	PaymentStripe      PaymentMethod = "STRIPE"
	PaymentWave        PaymentMethod = "WAVE"
	PaymentOrangeMoney PaymentMethod = "ORANGE_MONEY"
	PaymentCard        PaymentMethod = "CARD"
)

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "PENDING"
	TransactionCompleted TransactionStatus = "COMPLETED"
	TransactionFailed    TransactionStatus = "FAILED"
	TransactionRefunded  TransactionStatus = "REFUNDED"
)

// CreditTransaction is an immutable ledger entry per credit purchase attempt.
// Created PENDING; becomes COMPLETED exactly once, crediting the balance.
type CreditTransaction struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	Code   string `gorm:"uniqueIndex;size:18" json:"code"`
	UserID uint   `gorm:"not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	AmountFcfa   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount_fcfa"`
	CreditsAdded decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"credits_added"`

	PaymentMethod PaymentMethod     `gorm:"type:varchar(20);not null" json:"payment_method"`
	Status        TransactionStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`

	// Client-side confirmation handle (e.g. Stripe client secret).
	TransactionID string `json:"transaction_id,omitempty"`
	// Gateway object id (e.g. Stripe payment intent id) for webhook lookup.
	PaymentProviderID string `gorm:"index" json:"payment_provider_id,omitempty"`

	PaidAt    *time.Time `json:"paid_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (CreditTransaction) TableName() string {
	return "credit_transactions"
}
