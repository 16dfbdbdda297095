package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"vestisen/internal/models"
)

type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

type ReviewCreateRequest struct {
	AnnonceID uint   `json:"annonce_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

// Create records a buyer's review of the seller. Only the recorded buyer of
// the annonce may review, never the seller, and only once per annonce.
func (s *ReviewService) Create(req *ReviewCreateRequest, reviewer *models.User) (*models.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5: %w", ErrValidation)
	}

	var annonce models.Annonce
	if err := s.db.First(&annonce, req.AnnonceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("annonce %d: %w", req.AnnonceID, ErrNotFound)
		}
		return nil, err
	}
	if annonce.SellerID == reviewer.ID {
		return nil, fmt.Errorf("you cannot review your own annonce: %w", ErrForbidden)
	}
	if annonce.BuyerID == nil || *annonce.BuyerID != reviewer.ID {
		return nil, fmt.Errorf("only the buyer of this annonce can leave a review: %w", ErrForbidden)
	}

	var count int64
	if err := s.db.Model(&models.Review{}).
		Where("annonce_id = ? AND reviewer_id = ?", annonce.ID, reviewer.ID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("you have already reviewed this annonce: %w", ErrConflict)
	}

	review := models.Review{
		AnnonceID:  annonce.ID,
		ReviewerID: reviewer.ID,
		RevieweeID: annonce.SellerID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := s.db.Create(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// BySeller lists recent reviews received by a seller.
func (s *ReviewService) BySeller(sellerID uint, limit int) ([]models.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var reviews []models.Review
	err := s.db.Preload("Reviewer").
		Where("reviewee_id = ?", sellerID).
		Order("created_at DESC").Limit(limit).
		Find(&reviews).Error
	return reviews, err
}
