package services

import (
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"vestisen/internal/logger"
	"vestisen/internal/models"
)

type AnnonceService struct {
	db      *gorm.DB
	credits *CreditService
	storage *StorageService
}

func NewAnnonceService(db *gorm.DB, credits *CreditService, storage *StorageService) *AnnonceService {
	return &AnnonceService{db: db, credits: credits, storage: storage}
}

type AnnonceCreateRequest struct {
	Title                   string            `json:"title" validate:"required"`
	Description             string            `json:"description"`
	Price                   decimal.Decimal   `json:"price" validate:"required"`
	CategoryID              uint              `json:"category_id" validate:"required"`
	PublicationType         string            `json:"publication_type" validate:"required"`
	Condition               models.Condition  `json:"condition"`
	Size                    string            `json:"size"`
	Brand                   string            `json:"brand"`
	Color                   string            `json:"color"`
	Location                string            `json:"location"`
	Images                  []string          `json:"images"`
	ToutDoitPartir          bool              `json:"tout_doit_partir"`
	OriginalPrice           *decimal.Decimal  `json:"original_price"`
	IsLot                   bool              `json:"is_lot"`
	AcceptPaymentOnDelivery bool              `json:"accept_payment_on_delivery"`
	Latitude                *float64          `json:"latitude"`
	Longitude               *float64          `json:"longitude"`
}

// Create resolves the category and tarif, deducts the publication cost from
// the seller's balance and stores the listing as PENDING. Deduction and
// creation are one transaction: all-or-nothing.
func (s *AnnonceService) Create(req *AnnonceCreateRequest, seller *models.User) (*models.Annonce, error) {
	var category models.Category
	if err := s.db.First(&category, req.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %d: %w", req.CategoryID, ErrNotFound)
		}
		return nil, err
	}
	if !category.Active {
		return nil, fmt.Errorf("category is not active: %w", ErrValidation)
	}

	tarif, err := s.activeTarif(req.PublicationType)
	if err != nil {
		return nil, err
	}

	creditCost := tarif.Price
	if creditCost.LessThan(decimal.Zero) {
		creditCost = decimal.Zero
	}

	code, err := UniqueCode(s.db, &models.Annonce{})
	if err != nil {
		return nil, err
	}

	annonce := models.Annonce{
		Code:                    code,
		Title:                   req.Title,
		Description:             req.Description,
		Price:                   req.Price,
		CategoryID:              category.ID,
		PublicationType:         req.PublicationType,
		PublicationCreditCost:   creditCost,
		Condition:               req.Condition,
		Size:                    req.Size,
		Brand:                   req.Brand,
		Color:                   req.Color,
		Location:                req.Location,
		Images:                  req.Images,
		SellerID:                seller.ID,
		Status:                  models.AnnoncePending,
		ToutDoitPartir:          req.ToutDoitPartir,
		OriginalPrice:           req.OriginalPrice,
		IsLot:                   req.IsLot,
		AcceptPaymentOnDelivery: req.AcceptPaymentOnDelivery,
		Latitude:                req.Latitude,
		Longitude:               req.Longitude,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.credits.Deduct(tx, seller.ID, creditCost); err != nil {
			return err
		}
		return tx.Create(&annonce).Error
	})
	if err != nil {
		return nil, err
	}
	return &annonce, nil
}

// Approve moves a listing to APPROVED and, if the publication clock has not
// started yet, sets PublishedAt and ExpiresAt from the tarif duration in the
// same transaction. Re-approving is a no-op on the clock.
func (s *AnnonceService) Approve(id uint) (*models.Annonce, error) {
	var annonce *models.Annonce
	err := s.db.Transaction(func(tx *gorm.DB) error {
		a, err := s.approveTx(tx, id)
		if err != nil {
			return err
		}
		annonce = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logApproved(annonce)
	return annonce, nil
}

// approveTx applies the approval inside the caller's transaction so a caller
// can tie it to its own writes (payment completion approves atomically).
func (s *AnnonceService) approveTx(tx *gorm.DB, id uint) (*models.Annonce, error) {
	var annonce models.Annonce
	if err := tx.First(&annonce, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("annonce %d: %w", id, ErrNotFound)
		}
		return nil, err
	}

	annonce.Status = models.AnnonceApproved
	if annonce.PublishedAt == nil {
		now := time.Now()
		annonce.PublishedAt = &now
		annonce.ExpiresAt = nil
		var tarif models.PublicationTarif
		err := tx.Where("type_name = ? AND active = ?", annonce.PublicationType, true).First(&tarif).Error
		if err == nil && tarif.DurationDays > 0 {
			expires := now.AddDate(0, 0, tarif.DurationDays)
			annonce.ExpiresAt = &expires
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	if err := tx.Save(&annonce).Error; err != nil {
		return nil, err
	}
	return &annonce, nil
}

func (s *AnnonceService) logApproved(annonce *models.Annonce) {
	var seller models.User
	if s.db.First(&seller, annonce.SellerID).Error == nil {
		LogInternal(s.db, &seller, "Publication acceptée - décompte démarré", "annonce", annonce.ID, true)
	}
}

// Reject is terminal.
func (s *AnnonceService) Reject(id uint) (*models.Annonce, error) {
	var annonce models.Annonce
	if err := s.db.First(&annonce, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("annonce %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	annonce.Status = models.AnnonceRejected
	if err := s.db.Save(&annonce).Error; err != nil {
		return nil, err
	}
	return &annonce, nil
}

// Buy records the buyer, marks the listing SOLD and drops it from the
// buyer's cart.
func (s *AnnonceService) Buy(id uint, buyer *models.User) (*models.Annonce, error) {
	var annonce models.Annonce
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&annonce, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("annonce %d: %w", id, ErrNotFound)
			}
			return err
		}
		if annonce.SellerID == buyer.ID {
			return fmt.Errorf("you cannot buy your own annonce: %w", ErrForbidden)
		}
		if annonce.Status == models.AnnonceSold {
			return fmt.Errorf("annonce already sold: %w", ErrConflict)
		}
		if annonce.Status != models.AnnonceApproved && annonce.Status != models.AnnoncePending {
			return fmt.Errorf("annonce not available for sale: %w", ErrConflict)
		}

		annonce.BuyerID = &buyer.ID
		annonce.Status = models.AnnonceSold
		if err := tx.Save(&annonce).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND annonce_id = ?", buyer.ID, id).
			Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &annonce, nil
}

// GetPublic returns an APPROVED listing, lazily reverting an expired tier and
// counting the view.
func (s *AnnonceService) GetPublic(id uint) (*models.Annonce, error) {
	var annonce models.Annonce
	if err := s.db.Preload("Category").Preload("Seller").First(&annonce, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("annonce %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if annonce.Status != models.AnnonceApproved {
		return nil, fmt.Errorf("annonce not available: %w", ErrNotFound)
	}
	if err := s.RevertIfExpired(&annonce); err != nil {
		return nil, err
	}
	if err := s.db.Model(&annonce).Update("view_count", gorm.Expr("view_count + 1")).Error; err != nil {
		return nil, err
	}
	annonce.ViewCount++
	return &annonce, nil
}

// IncrementContact counts a "contact seller" action. No-op unless APPROVED.
func (s *AnnonceService) IncrementContact(id uint) error {
	var annonce models.Annonce
	if err := s.db.First(&annonce, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("annonce %d: %w", id, ErrNotFound)
		}
		return err
	}
	if annonce.Status != models.AnnonceApproved {
		return nil
	}
	return s.db.Model(&annonce).Update("contact_count", gorm.Expr("contact_count + 1")).Error
}

// RevertExpired is the expiration sweep: every APPROVED listing whose paid
// duration has elapsed reverts to the Standard tarif with no expiry. Running
// it twice is harmless since the first pass clears expires_at.
func (s *AnnonceService) RevertExpired() error {
	var expired []models.Annonce
	err := s.db.Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?",
		models.AnnonceApproved, time.Now()).Find(&expired).Error
	if err != nil {
		return err
	}
	if len(expired) == 0 {
		return nil
	}

	standardCost := s.standardCost()
	for i := range expired {
		a := &expired[i]
		a.PublicationType = models.DefaultTarifName
		a.PublicationCreditCost = standardCost
		a.ExpiresAt = nil
		if err := s.db.Save(a).Error; err != nil {
			return err
		}
		var seller models.User
		if s.db.First(&seller, a.SellerID).Error == nil {
			LogInternal(s.db, &seller, "Annonce repassée en Standard (durée dépassée)", "annonce", a.ID, true)
		}
	}
	logger.Log.Info("expired publications reverted to standard", zap.Int("count", len(expired)))
	return nil
}

// RevertIfExpired applies the sweep rule to a single listing on read.
func (s *AnnonceService) RevertIfExpired(annonce *models.Annonce) error {
	if annonce.ExpiresAt == nil || annonce.ExpiresAt.After(time.Now()) {
		return nil
	}
	annonce.PublicationType = models.DefaultTarifName
	annonce.PublicationCreditCost = s.standardCost()
	annonce.ExpiresAt = nil
	if err := s.db.Save(annonce).Error; err != nil {
		return err
	}
	var seller models.User
	if s.db.First(&seller, annonce.SellerID).Error == nil {
		LogInternal(s.db, &seller, "Annonce repassée en Standard (durée dépassée)", "annonce", annonce.ID, true)
	}
	return nil
}

func (s *AnnonceService) activeTarif(typeName string) (*models.PublicationTarif, error) {
	var tarif models.PublicationTarif
	err := s.db.Where("type_name = ? AND active = ?", typeName, true).First(&tarif).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("tarif not found for publication type %q: %w", typeName, ErrNotFound)
		}
		return nil, err
	}
	return &tarif, nil
}

func (s *AnnonceService) standardCost() decimal.Decimal {
	var tarif models.PublicationTarif
	err := s.db.Where("type_name = ? AND active = ?", models.DefaultTarifName, true).First(&tarif).Error
	if err != nil {
		logger.Log.Warn("default tarif not found, reverting with zero cost",
			zap.String("tarif", models.DefaultTarifName),
			zap.Error(err))
		return decimal.Zero
	}
	return tarif.Price
}

type AnnonceFilter struct {
	CategoryID     *uint            `query:"category_id"`
	MinPrice       *decimal.Decimal `query:"min_price"`
	MaxPrice       *decimal.Decimal `query:"max_price"`
	Size           string           `query:"size"`
	Brand          string           `query:"brand"`
	Condition      string           `query:"condition"`
	Search         string           `query:"search"`
	ToutDoitPartir *bool            `query:"tout_doit_partir"`
	Latitude       *float64         `query:"latitude"`
	Longitude      *float64         `query:"longitude"`
	RadiusKm       *float64         `query:"radius_km"`
	Page           int              `query:"page"`
	PageSize       int              `query:"page_size"`
}

// Search returns APPROVED listings matching every supplied predicate, higher
// paying tiers first, recent first within a tier. The sweep runs beforehand so
// stale paid tiers never surface.
func (s *AnnonceService) Search(filter *AnnonceFilter) ([]models.Annonce, int64, error) {
	if err := s.RevertExpired(); err != nil {
		return nil, 0, err
	}

	q := s.db.Model(&models.Annonce{}).Where("status = ?", models.AnnonceApproved)

	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.Size != "" {
		q = q.Where("size = ?", filter.Size)
	}
	if filter.Brand != "" {
		q = q.Where("LOWER(brand) LIKE ?", "%"+strings.ToLower(filter.Brand)+"%")
	}
	if filter.Condition != "" {
		q = q.Where("condition = ?", filter.Condition)
	}
	if filter.Search != "" {
		term := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", term, term)
	}
	if filter.ToutDoitPartir != nil {
		q = q.Where("tout_doit_partir = ?", *filter.ToutDoitPartir)
	}

	if filter.Latitude != nil && filter.Longitude != nil && filter.RadiusKm != nil && *filter.RadiusKm > 0 {
		// Equirectangular bounding box; 1 degree of latitude ~ 111 km.
		deltaLat := *filter.RadiusKm / 111.0
		deltaLng := *filter.RadiusKm / (111.0 * math.Max(0.01, math.Cos(*filter.Latitude*math.Pi/180)))
		q = q.Where("latitude IS NOT NULL AND longitude IS NOT NULL").
			Where("latitude BETWEEN ? AND ?", *filter.Latitude-deltaLat, *filter.Latitude+deltaLat).
			Where("longitude BETWEEN ? AND ?", *filter.Longitude-deltaLng, *filter.Longitude+deltaLng)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	if page < 0 {
		page = 0
	}

	var annonces []models.Annonce
	err := q.Preload("Category").Preload("Seller").
		Order("publication_credit_cost DESC, created_at DESC").
		Offset(page * pageSize).Limit(pageSize).
		Find(&annonces).Error
	if err != nil {
		return nil, 0, err
	}
	return annonces, total, nil
}

// Top returns the most recent APPROVED listings of a given publication type.
func (s *AnnonceService) Top(typeName string, limit int) ([]models.Annonce, error) {
	if err := s.RevertExpired(); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	var annonces []models.Annonce
	err := s.db.Preload("Category").Preload("Seller").
		Where("publication_type = ? AND status = ?", typeName, models.AnnonceApproved).
		Order("created_at DESC").Limit(limit).
		Find(&annonces).Error
	return annonces, err
}

func (s *AnnonceService) TopViewed(limit int) ([]models.Annonce, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	var annonces []models.Annonce
	err := s.db.Preload("Category").Preload("Seller").
		Where("status = ?", models.AnnonceApproved).
		Order("view_count DESC").Limit(limit).
		Find(&annonces).Error
	return annonces, err
}

func (s *AnnonceService) MyAnnonces(sellerID uint) ([]models.Annonce, error) {
	var annonces []models.Annonce
	err := s.db.Preload("Category").
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&annonces).Error
	return annonces, err
}

func (s *AnnonceService) MyPurchases(buyerID uint) ([]models.Annonce, error) {
	var annonces []models.Annonce
	err := s.db.Preload("Category").Preload("Seller").
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").Limit(100).
		Find(&annonces).Error
	return annonces, err
}

// AddPhotos stores uploaded images under the listing's code directory and
// appends their public paths. Seller-only.
func (s *AnnonceService) AddPhotos(id uint, user *models.User, files []*multipart.FileHeader) (*models.Annonce, error) {
	var annonce models.Annonce
	if err := s.db.First(&annonce, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("annonce %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if annonce.SellerID != user.ID {
		return nil, fmt.Errorf("you can only modify your own annonces: %w", ErrForbidden)
	}
	if annonce.Code == "" {
		return nil, fmt.Errorf("annonce has no code: %w", ErrValidation)
	}

	paths, err := s.storage.StoreAnnoncePhotos(annonce.Code, files)
	if err != nil {
		return nil, err
	}
	annonce.Images = append(annonce.Images, paths...)
	if err := s.db.Save(&annonce).Error; err != nil {
		return nil, err
	}
	return &annonce, nil
}
