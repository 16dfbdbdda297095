package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"vestisen/internal/models"
)

// CreditService owns the credit ledger: config, balances, purchase/confirm
// flow and the deduction applied at listing creation.
type CreditService struct {
	db     *gorm.DB
	stripe *StripeService
}

func NewCreditService(db *gorm.DB, stripe *StripeService) *CreditService {
	return &CreditService{db: db, stripe: stripe}
}

// GetOrCreateConfig returns the single credit config row, creating the
// default (100 FCFA per credit) when the table is empty.
func (s *CreditService) GetOrCreateConfig() (*models.CreditConfig, error) {
	var config models.CreditConfig
	err := s.db.First(&config).Error
	if err == nil {
		return &config, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	config = models.CreditConfig{PricePerCreditFcfa: decimal.NewFromInt(100)}
	if err := s.db.Create(&config).Error; err != nil {
		return nil, err
	}
	return &config, nil
}

func (s *CreditService) Balance(userID uint) (decimal.Decimal, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return decimal.Zero, err
	}
	return user.CreditBalance, nil
}

// Purchase initiates a credit purchase: a PENDING ledger entry priced at the
// configured FCFA rate. STRIPE purchases get a payment intent whose client
// secret the frontend uses to confirm; other methods wait for manual or
// webhook confirmation.
func (s *CreditService) Purchase(user *models.User, credits decimal.Decimal, method models.PaymentMethod) (*models.CreditTransaction, error) {
	if credits.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("credits must be positive: %w", ErrValidation)
	}
	switch method {
	case models.PaymentStripe, models.PaymentWave, models.PaymentOrangeMoney, models.PaymentCard:
	default:
		return nil, fmt.Errorf("unknown payment method %q: %w", method, ErrValidation)
	}

	config, err := s.GetOrCreateConfig()
	if err != nil {
		return nil, err
	}
	// Round half-up to 2 decimals, the ledger pricing rule.
	amountFcfa := config.PricePerCreditFcfa.Mul(credits).Round(2)

	code, err := UniqueCode(s.db, &models.CreditTransaction{})
	if err != nil {
		return nil, err
	}

	tx := models.CreditTransaction{
		Code:          code,
		UserID:        user.ID,
		AmountFcfa:    amountFcfa,
		CreditsAdded:  credits,
		PaymentMethod: method,
		Status:        models.TransactionPending,
		TransactionID: fmt.Sprintf("CRED-%d-%d", time.Now().UnixMilli(), user.ID),
	}

	if method == models.PaymentStripe && s.stripe != nil && s.stripe.Configured() {
		intent, err := s.stripe.CreatePaymentIntent(amountFcfa, "xof")
		if err != nil {
			return nil, fmt.Errorf("stripe payment creation failed: %w", err)
		}
		tx.PaymentProviderID = intent.ID
		tx.TransactionID = intent.ClientSecret
	}

	if err := s.db.Create(&tx).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

// Confirm completes a PENDING purchase exactly once: the status flip is a
// conditional update so concurrent confirms on the same transaction cannot
// credit the balance twice.
func (s *CreditService) Confirm(txID uint) (*models.CreditTransaction, error) {
	var result models.CreditTransaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var entry models.CreditTransaction
		if err := tx.First(&entry, txID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("credit transaction %d: %w", txID, ErrNotFound)
			}
			return err
		}
		if entry.Status == models.TransactionCompleted {
			return fmt.Errorf("transaction already completed: %w", ErrConflict)
		}

		now := time.Now()
		res := tx.Model(&models.CreditTransaction{}).
			Where("id = ? AND status = ?", txID, models.TransactionPending).
			Updates(map[string]interface{}{
				"status":  models.TransactionCompleted,
				"paid_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("transaction already completed: %w", ErrConflict)
		}

		if err := tx.Model(&models.User{}).Where("id = ?", entry.UserID).
			Update("credit_balance", gorm.Expr("credit_balance + ?", entry.CreditsAdded)).Error; err != nil {
			return err
		}

		entry.Status = models.TransactionCompleted
		entry.PaidAt = &now
		result = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ConfirmByProviderID is the webhook confirmation path keyed by the gateway
// object id (e.g. a Stripe payment intent id).
func (s *CreditService) ConfirmByProviderID(providerID string) (*models.CreditTransaction, error) {
	var entry models.CreditTransaction
	if err := s.db.Where("payment_provider_id = ?", providerID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("credit transaction for provider id %q: %w", providerID, ErrNotFound)
		}
		return nil, err
	}
	return s.Confirm(entry.ID)
}

// Deduct subtracts credits from a user's balance inside the caller's
// transaction. The conditional update guarantees the balance never goes
// negative under concurrent deductions.
func (s *CreditService) Deduct(tx *gorm.DB, userID uint, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	res := tx.Model(&models.User{}).
		Where("id = ? AND credit_balance >= ?", userID, amount).
		Update("credit_balance", gorm.Expr("credit_balance - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return ErrInsufficientCredits
	}
	return nil
}

func (s *CreditService) Transactions(userID uint) ([]models.CreditTransaction, error) {
	var entries []models.CreditTransaction
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(100).Find(&entries).Error
	return entries, err
}

func (s *CreditService) FindTransaction(id uint) (*models.CreditTransaction, error) {
	var entry models.CreditTransaction
	if err := s.db.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("credit transaction %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &entry, nil
}
