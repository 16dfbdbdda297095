package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"vestisen/internal/models"
)

// PaymentService handles the per-annonce publication payment flow: one
// payment per listing, completion approves the listing.
type PaymentService struct {
	db       *gorm.DB
	annonces *AnnonceService
	stripe   *StripeService
}

func NewPaymentService(db *gorm.DB, annonces *AnnonceService, stripe *StripeService) *PaymentService {
	return &PaymentService{db: db, annonces: annonces, stripe: stripe}
}

// Create opens a PENDING payment for the caller's own listing, priced at the
// listing's tarif.
func (s *PaymentService) Create(annonceID uint, user *models.User, method models.PaymentMethod) (*models.Payment, error) {
	var annonce models.Annonce
	if err := s.db.First(&annonce, annonceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("annonce %d: %w", annonceID, ErrNotFound)
		}
		return nil, err
	}
	if annonce.SellerID != user.ID {
		return nil, fmt.Errorf("annonce does not belong to user: %w", ErrForbidden)
	}

	var count int64
	if err := s.db.Model(&models.Payment{}).Where("annonce_id = ?", annonceID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("payment already exists for this annonce: %w", ErrConflict)
	}

	tarif, err := s.annonces.activeTarif(annonce.PublicationType)
	if err != nil {
		return nil, err
	}

	payment := models.Payment{
		AnnonceID:     annonceID,
		UserID:        user.ID,
		Amount:        tarif.Price,
		PaymentMethod: method,
		Status:        models.PaymentPending,
	}

	switch method {
	case models.PaymentOnDelivery:
		payment.TransactionID = fmt.Sprintf("LIVRAISON-%d", annonceID)
	case models.PaymentStripe:
		if s.stripe != nil && s.stripe.Configured() {
			intent, err := s.stripe.CreatePaymentIntent(tarif.Price, "xof")
			if err != nil {
				return nil, fmt.Errorf("stripe payment creation failed: %w", err)
			}
			payment.PaymentProviderID = intent.ID
			payment.TransactionID = intent.ClientSecret
		}
	}

	if err := s.db.Create(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// Confirm completes the payment once and approves the annonce, which starts
// the publication clock.
func (s *PaymentService) Confirm(paymentID uint, user *models.User) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.First(&payment, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment %d: %w", paymentID, ErrNotFound)
		}
		return nil, err
	}
	if payment.UserID != user.ID {
		return nil, fmt.Errorf("you can only confirm your own payment: %w", ErrForbidden)
	}
	if payment.Status == models.PaymentCompleted {
		return nil, fmt.Errorf("payment already completed: %w", ErrConflict)
	}

	// Completion and approval commit or roll back together so a failed
	// approval never strands a COMPLETED payment.
	now := time.Now()
	var annonce *models.Annonce
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", paymentID, models.PaymentPending).
			Updates(map[string]interface{}{
				"status":  models.PaymentCompleted,
				"paid_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("payment already completed: %w", ErrConflict)
		}

		a, err := s.annonces.approveTx(tx, payment.AnnonceID)
		if err != nil {
			return err
		}
		annonce = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.annonces.logApproved(annonce)

	payment.Status = models.PaymentCompleted
	payment.PaidAt = &now
	return &payment, nil
}
