package services

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"vestisen/internal/models"
)

func TestPaymentOnDeliveryFlow(t *testing.T) {
	db := setupTestDB(t)
	annonces := newAnnonceService(db)
	svc := NewPaymentService(db, annonces, nil)
	seedTarif(t, db, "Premium", 15, 14)
	category := seedCategory(t, db, "Femmes")
	seller := seedUser(t, db, "seller@test.sn", models.RoleVendeur, 100)
	other := seedUser(t, db, "other@test.sn", models.RoleVendeur, 100)

	annonce := seedAnnonce(t, db, annonces, seller, category.ID, "Premium")

	if _, err := svc.Create(annonce.ID, other, models.PaymentOnDelivery); !errors.Is(err, ErrForbidden) {
		t.Fatalf("payment on someone else's annonce: expected ErrForbidden, got %v", err)
	}

	payment, err := svc.Create(annonce.ID, seller, models.PaymentOnDelivery)
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}
	if payment.Status != models.PaymentPending {
		t.Fatalf("expected PENDING, got %s", payment.Status)
	}
	if !payment.Amount.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("payment priced at the tarif, got %s", payment.Amount)
	}
	if payment.TransactionID == "" {
		t.Fatalf("delivery payments carry a reference")
	}

	if _, err := svc.Create(annonce.ID, seller, models.PaymentOnDelivery); !errors.Is(err, ErrConflict) {
		t.Fatalf("second payment on one annonce: expected ErrConflict, got %v", err)
	}

	if _, err := svc.Confirm(payment.ID, other); !errors.Is(err, ErrForbidden) {
		t.Fatalf("confirm by non-owner: expected ErrForbidden, got %v", err)
	}

	confirmed, err := svc.Confirm(payment.ID, seller)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.Status != models.PaymentCompleted {
		t.Fatalf("expected COMPLETED, got %s", confirmed.Status)
	}
	if confirmed.PaidAt == nil {
		t.Fatalf("expected paid_at set")
	}

	// Settlement approves the listing and starts its clock.
	var approved models.Annonce
	if err := db.First(&approved, annonce.ID).Error; err != nil {
		t.Fatalf("reload annonce: %v", err)
	}
	if approved.Status != models.AnnonceApproved {
		t.Fatalf("confirmed payment must approve the annonce, got %s", approved.Status)
	}
	if approved.PublishedAt == nil || approved.ExpiresAt == nil {
		t.Fatalf("approval must start the publication clock")
	}

	if _, err := svc.Confirm(payment.ID, seller); !errors.Is(err, ErrConflict) {
		t.Fatalf("double confirm: expected ErrConflict, got %v", err)
	}
}

func TestPaymentConfirmRollsBackWhenApprovalFails(t *testing.T) {
	db := setupTestDB(t)
	annonces := newAnnonceService(db)
	svc := NewPaymentService(db, annonces, nil)
	seedTarif(t, db, "Premium", 15, 14)
	category := seedCategory(t, db, "Femmes")
	seller := seedUser(t, db, "seller@test.sn", models.RoleVendeur, 100)

	annonce := seedAnnonce(t, db, annonces, seller, category.ID, "Premium")
	payment, err := svc.Create(annonce.ID, seller, models.PaymentOnDelivery)
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}

	// The listing disappears between payment creation and confirmation.
	if err := db.Delete(&models.Annonce{}, annonce.ID).Error; err != nil {
		t.Fatalf("delete annonce: %v", err)
	}

	if _, err := svc.Confirm(payment.ID, seller); !errors.Is(err, ErrNotFound) {
		t.Fatalf("confirm without annonce: expected ErrNotFound, got %v", err)
	}

	// Completion rolls back with the failed approval, so the payment stays
	// PENDING and can still be settled.
	var reloaded models.Payment
	if err := db.First(&reloaded, payment.ID).Error; err != nil {
		t.Fatalf("reload payment: %v", err)
	}
	if reloaded.Status != models.PaymentPending {
		t.Fatalf("expected PENDING after failed approval, got %s", reloaded.Status)
	}
	if reloaded.PaidAt != nil {
		t.Fatalf("expected paid_at unset after failed approval")
	}
}

func TestPaymentMissingAnnonce(t *testing.T) {
	db := setupTestDB(t)
	annonces := newAnnonceService(db)
	svc := NewPaymentService(db, annonces, nil)
	user := seedUser(t, db, "seller@test.sn", models.RoleVendeur, 100)

	if _, err := svc.Create(999, user, models.PaymentOnDelivery); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Confirm(999, user); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
