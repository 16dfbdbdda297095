package services

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"vestisen/internal/models"
)

func TestCreateDeductsPublicationCost(t *testing.T) {
	db := setupTestDB(t)
	svc := newAnnonceService(db)
	seedTarif(t, db, "Premium", 15, 14)
	category := seedCategory(t, db, "Femmes")
	seller := seedUser(t, db, "seller@test.sn", models.RoleVendeur, 20)

	annonce := seedAnnonce(t, db, svc, seller, category.ID, "Premium")
	if annonce.Status != models.AnnoncePending {
		t.Fatalf("new annonce must be PENDING, got %s", annonce.Status)
	}
	if annonce.PublishedAt != nil || annonce.ExpiresAt != nil {
		t.Fatalf("publication clock must not start at creation")
	}
	if !annonce.PublicationCreditCost.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("expected cost 15, got %s", annonce.PublicationCreditCost)
	}
	if len(annonce.Code) != 18 {
		t.Fatalf("expected 18-char code, got %q", annonce.Code)
	}

	var seller2 models.User
	if err := db.First(&seller2, seller.ID).Error; err != nil {
		t.Fatalf("reload seller: %v", err)
	}
	if !seller2.CreditBalance.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected balance 5 after deduction, got %s", seller2.CreditBalance)
	}
}

func TestCreateInsufficientCreditsLeavesNothing(t *testing.T) {
	db := setupTestDB(t)
	svc := newAnnonceService(db)
	seedTarif(t, db, "Standard", 5, 7)
	category := seedCategory(t, db, "Femmes")
	seller := seedUser(t, db, "seller@test.sn", models.RoleVendeur, 3)

	_, err := svc.Create(&AnnonceCreateRequest{
		Title:           "Sac à main",
		Price:           decimal.NewFromInt(8000),
		CategoryID:      category.ID,
		PublicationType: "Standard",
	}, seller)
	if !errors.Is(err, ErrInsufficientCredits) {
		t.Fatalf("expected ErrInsufficientCredits, got %v", err)
	}

	var count int64
	db.Model(&models.Annonce{}).Count(&count)
	if count != 0 {
		t.Fatalf("failed creation must not persist an annonce")
	}
	var seller2 models.User
	db.First(&seller2, seller.ID)
	if !seller2.CreditBalance.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("failed creation must not touch balance, got %s", seller2.CreditBalance)
	}
}

func TestCreateRejectsInactiveCategoryAndUnknownTarif(t *testing.T) {
	db := setupTestDB(t)
	svc := newAnnonceService(db)
	seedTarif(t, db, "Standard", 5, 7)
	seller := seedUser(t, db, "seller@test.sn", models.RoleVendeur, 50)

	inactive := models.Category{Name: "Archives", Active: false}
	if err := db.Create(&inactive).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}

	_, err := svc.Create(&AnnonceCreateRequest{
		Title:           "Veste",
		Price:           decimal.NewFromInt(5000),
		CategoryID:      inactive.ID,
		PublicationType: "Standard",
	}, seller)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("inactive category: expected ErrValidation, got %v", err)
	}

	active := seedCategory(t, db, "Hommes")
	_, err = svc.Create(&AnnonceCreateRequest{
		Title:           "Veste",
		Price:           decimal.NewFromInt(5000),
		CategoryID:      active.ID,
		PublicationType: "Platine",
	}, seller)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown tarif: expected ErrNotFound, got %v", err)
	}
}

func TestApproveStartsClockOnce(t *testing.T) {
	db := setupTestDB(t)
	svc := newAnnonceService(db)
	seedTarif(t, db, "Premium", 15, 14)
	category := seedCategory(t, db, "Femmes")
	seller := seedUser(t, db, "seller@test.sn", models.RoleVendeur, 50)
	annonce := seedAnnonce(t, db, svc, seller, category.ID, "Premium")

	approved, err := svc.Approve(annonce.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != models.AnnonceApproved {
		t.Fatalf("expected APPROVED, got %s", approved.Status)
	}
	if approved.PublishedAt == nil || approved.ExpiresAt == nil {
		t.Fatalf("approval must start the publication clock")
	}
	wantExpiry := approved.PublishedAt.AddDate(0, 0, 14)
	if d := approved.ExpiresAt.Sub(wantExpiry); d < -time.Second || d > time.Second {
		t.Fatalf("expected expiry 14 days after publication, got %s", approved.ExpiresAt)
	}

	// Re-approving must not restart the clock.
	again, err := svc.Approve(annonce.ID)
	if err != nil {
		t.Fatalf("re-approve: %v", err)
	}
	if !again.PublishedAt.Equal(*approved.PublishedAt) {
		t.Fatalf("re-approval moved published_at")
	}
	if !again.ExpiresAt.Equal(*approved.ExpiresAt) {
		t.Fatalf("re-approval moved expires_at")
	}
}

func TestApproveUnlimitedDuration(t *testing.T) {
	db := setupTestDB(t)
	svc := newAnnonceService(db)
	seedTarif(t, db, "Standard", 5, 0)
	category := seedCategory(t, db, "Femmes")
	seller := seedUser(t, db, "seller@test.sn", models.RoleVendeur, 50)
	annonce := seedAnnonce(t, db, svc, seller, category.ID, "Standard")

	approved, err := svc.Approve(annonce.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.PublishedAt == nil {
		t.Fatalf("expected published_at set")
	}
	if approved.ExpiresAt != nil {
		t.Fatalf("zero duration means no expiry, got %s", approved.ExpiresAt)
	}
}

func TestRevertExpiredSweepIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := newAnnonceService(db)
	seedTarif(t, db, "Standard", 5, 7)
	seedTarif(t, db, "Premium", 15, 14)
	category := seedCategory(t, db, "Femmes")
	seller := seedUser(t, db, "seller@test.sn", models.RoleVendeur, 100)

	annonce := seedAnnonce(t, db, svc, seller, category.ID, "Premium")
	if _, err := svc.Approve(annonce.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	expireAnnonce(t, db, annonce.ID, time.Hour)

	if err := svc.RevertExpired(); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	var reverted models.Annonce
	if err := db.First(&reverted, annonce.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reverted.PublicationType != models.DefaultTarifName {
		t.Fatalf("expected Standard after expiry, got %s", reverted.PublicationType)
	}
	if !reverted.PublicationCreditCost.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected Standard cost 5, got %s", reverted.PublicationCreditCost)
	}
	if reverted.ExpiresAt != nil {
		t.Fatalf("reverted annonce must have no expiry")
	}
	if reverted.Status != models.AnnonceApproved {
		t.Fatalf("reverted annonce stays visible, got %s", reverted.Status)
	}

	// Second sweep finds nothing to do.
	if err := svc.RevertExpired(); err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	var again models.Annonce
	db.First(&again, annonce.ID)
	if again.UpdatedAt.After(reverted.UpdatedAt.Add(time.Second)) {
		t.Fatalf("second sweep must not rewrite the annonce")
	}
}

func TestRevertExpiredWithoutStandardTarif(t *testing.T) {
	db := setupTestDB(t)
	svc := newAnnonceService(db)
	seedTarif(t, db, "Premium", 15, 14)
	category := seedCategory(t, db, "Femmes")
	seller := seedUser(t, db, "seller@test.sn", models.RoleVendeur, 100)

	annonce := seedAnnonce(t, db, svc, seller, category.ID, "Premium")
	if _, err := svc.Approve(annonce.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	expireAnnonce(t, db, annonce.ID, time.Hour)

	if err := svc.RevertExpired(); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	// No active Standard tarif: the sweep still reverts, at zero cost.
	var reverted models.Annonce
	if err := db.First(&reverted, annonce.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reverted.PublicationType != models.DefaultTarifName {
		t.Fatalf("expected Standard after expiry, got %s", reverted.PublicationType)
	}
	if !reverted.PublicationCreditCost.IsZero() {
		t.Fatalf("expected zero cost without a Standard tarif, got %s", reverted.PublicationCreditCost)
	}
	if reverted.ExpiresAt != nil {
		t.Fatalf("reverted annonce must have no expiry")
	}
}

func TestSearchReturnsApprovedOnlyOrderedByTier(t *testing.T) {
	db := setupTestDB(t)
	svc := newAnnonceService(db)
	seedTarif(t, db, "Standard", 5, 0)
	seedTarif(t, db, "Top Pub", 30, 30)
	category := seedCategory(t, db, "Femmes")
	seller := seedUser(t, db, "seller@test.sn", models.RoleVendeur, 100)

	pending := seedAnnonce(t, db, svc, seller, category.ID, "Standard")
	standard := seedAnnonce(t, db, svc, seller, category.ID, "Standard")
	top := seedAnnonce(t, db, svc, seller, category.ID, "Top Pub")
	if _, err := svc.Approve(standard.ID); err != nil {
		t.Fatalf("approve standard: %v", err)
	}
	if _, err := svc.Approve(top.ID); err != nil {
		t.Fatalf("approve top: %v", err)
	}

	results, total, err := svc.Search(&AnnonceFilter{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 2 || len(results) != 2 {
		t.Fatalf("expected 2 approved annonces, got total=%d len=%d", total, len(results))
	}
	for _, a := range results {
		if a.ID == pending.ID {
			t.Fatalf("pending annonce leaked into search results")
		}
	}
	if results[0].ID != top.ID {
		t.Fatalf("higher paying tier must rank first")
	}
}

func TestSearchGeoRadius(t *testing.T) {
	db := setupTestDB(t)
	svc := newAnnonceService(db)
	seedTarif(t, db, "Standard", 5, 0)
	category := seedCategory(t, db, "Femmes")
	seller := seedUser(t, db, "seller@test.sn", models.RoleVendeur, 100)

	// Dakar city centre and a point ~15 km north.
	centerLat, centerLng := 14.6928, -17.4467
	farLat := centerLat + 15.0/111.0

	near := seedAnnonce(t, db, svc, seller, category.ID, "Standard")
	db.Model(near).Updates(map[string]interface{}{"latitude": centerLat, "longitude": centerLng})
	far := seedAnnonce(t, db, svc, seller, category.ID, "Standard")
	db.Model(far).Updates(map[string]interface{}{"latitude": farLat, "longitude": centerLng})
	noGeo := seedAnnonce(t, db, svc, seller, category.ID, "Standard")
	for _, a := range []*models.Annonce{near, far, noGeo} {
		if _, err := svc.Approve(a.ID); err != nil {
			t.Fatalf("approve: %v", err)
		}
	}

	radius := 10.0
	results, total, err := svc.Search(&AnnonceFilter{
		Latitude:  &centerLat,
		Longitude: &centerLng,
		RadiusKm:  &radius,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 1 || len(results) != 1 || results[0].ID != near.ID {
		t.Fatalf("expected only the nearby annonce, got total=%d", total)
	}
}

func TestSearchFilters(t *testing.T) {
	db := setupTestDB(t)
	svc := newAnnonceService(db)
	seedTarif(t, db, "Standard", 5, 0)
	category := seedCategory(t, db, "Femmes")
	other := seedCategory(t, db, "Hommes")
	seller := seedUser(t, db, "seller@test.sn", models.RoleVendeur, 100)

	robe, err := svc.Create(&AnnonceCreateRequest{
		Title:           "Robe en wax",
		Price:           decimal.NewFromInt(12000),
		CategoryID:      category.ID,
		PublicationType: "Standard",
		Brand:           "Dior",
		Condition:       models.ConditionNeuf,
	}, seller)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	costume, err := svc.Create(&AnnonceCreateRequest{
		Title:           "Costume trois pièces",
		Price:           decimal.NewFromInt(45000),
		CategoryID:      other.ID,
		PublicationType: "Standard",
		Condition:       models.ConditionOccasion,
	}, seller)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, a := range []*models.Annonce{robe, costume} {
		if _, err := svc.Approve(a.ID); err != nil {
			t.Fatalf("approve: %v", err)
		}
	}

	_, total, err := svc.Search(&AnnonceFilter{CategoryID: &category.ID})
	if err != nil || total != 1 {
		t.Fatalf("category filter: total=%d err=%v", total, err)
	}

	maxPrice := decimal.NewFromInt(20000)
	_, total, err = svc.Search(&AnnonceFilter{MaxPrice: &maxPrice})
	if err != nil || total != 1 {
		t.Fatalf("price filter: total=%d err=%v", total, err)
	}

	results, total, err := svc.Search(&AnnonceFilter{Search: "WAX"})
	if err != nil || total != 1 || results[0].ID != robe.ID {
		t.Fatalf("text search is case-insensitive: total=%d err=%v", total, err)
	}

	_, total, err = svc.Search(&AnnonceFilter{Brand: "dior"})
	if err != nil || total != 1 {
		t.Fatalf("brand filter: total=%d err=%v", total, err)
	}

	_, total, err = svc.Search(&AnnonceFilter{Condition: string(models.ConditionOccasion)})
	if err != nil || total != 1 {
		t.Fatalf("condition filter: total=%d err=%v", total, err)
	}
}

func TestBuyMarksSoldAndClearsCart(t *testing.T) {
	db := setupTestDB(t)
	svc := newAnnonceService(db)
	seedTarif(t, db, "Standard", 5, 0)
	category := seedCategory(t, db, "Femmes")
	seller := seedUser(t, db, "seller@test.sn", models.RoleVendeur, 100)
	buyer := seedUser(t, db, "buyer@test.sn", models.RoleUser, 0)

	annonce := seedAnnonce(t, db, svc, seller, category.ID, "Standard")
	if _, err := svc.Approve(annonce.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := db.Create(&models.CartItem{UserID: buyer.ID, AnnonceID: annonce.ID}).Error; err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	if _, err := svc.Buy(annonce.ID, seller); !errors.Is(err, ErrForbidden) {
		t.Fatalf("self purchase: expected ErrForbidden, got %v", err)
	}

	sold, err := svc.Buy(annonce.ID, buyer)
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if sold.Status != models.AnnonceSold {
		t.Fatalf("expected SOLD, got %s", sold.Status)
	}
	if sold.BuyerID == nil || *sold.BuyerID != buyer.ID {
		t.Fatalf("buyer not recorded")
	}

	var cartCount int64
	db.Model(&models.CartItem{}).Where("user_id = ?", buyer.ID).Count(&cartCount)
	if cartCount != 0 {
		t.Fatalf("purchase must remove the annonce from the buyer's cart")
	}

	other := seedUser(t, db, "other@test.sn", models.RoleUser, 0)
	if _, err := svc.Buy(annonce.ID, other); !errors.Is(err, ErrConflict) {
		t.Fatalf("second purchase: expected ErrConflict, got %v", err)
	}
}

func TestGetPublicCountsViews(t *testing.T) {
	db := setupTestDB(t)
	svc := newAnnonceService(db)
	seedTarif(t, db, "Standard", 5, 0)
	category := seedCategory(t, db, "Femmes")
	seller := seedUser(t, db, "seller@test.sn", models.RoleVendeur, 100)

	annonce := seedAnnonce(t, db, svc, seller, category.ID, "Standard")
	if _, err := svc.GetPublic(annonce.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("pending annonce must be invisible, got %v", err)
	}

	if _, err := svc.Approve(annonce.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := svc.GetPublic(annonce.ID); err != nil {
			t.Fatalf("get: %v", err)
		}
	}

	var loaded models.Annonce
	db.First(&loaded, annonce.ID)
	if loaded.ViewCount != 3 {
		t.Fatalf("expected 3 views, got %d", loaded.ViewCount)
	}
}

func TestIncrementContactOnlyWhenApproved(t *testing.T) {
	db := setupTestDB(t)
	svc := newAnnonceService(db)
	seedTarif(t, db, "Standard", 5, 0)
	category := seedCategory(t, db, "Femmes")
	seller := seedUser(t, db, "seller@test.sn", models.RoleVendeur, 100)

	annonce := seedAnnonce(t, db, svc, seller, category.ID, "Standard")
	if err := svc.IncrementContact(annonce.ID); err != nil {
		t.Fatalf("contact on pending: %v", err)
	}
	var loaded models.Annonce
	db.First(&loaded, annonce.ID)
	if loaded.ContactCount != 0 {
		t.Fatalf("pending annonce must not count contacts")
	}

	if _, err := svc.Approve(annonce.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := svc.IncrementContact(annonce.ID); err != nil {
		t.Fatalf("contact: %v", err)
	}
	db.First(&loaded, annonce.ID)
	if loaded.ContactCount != 1 {
		t.Fatalf("expected 1 contact, got %d", loaded.ContactCount)
	}
}
