package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"vestisen/internal/models"
)

type ConversationService struct {
	db *gorm.DB
}

func NewConversationService(db *gorm.DB) *ConversationService {
	return &ConversationService{db: db}
}

type MessageCreateRequest struct {
	ConversationID uint   `json:"conversation_id" validate:"required"`
	Content        string `json:"content" validate:"required"`
}

// GetOrCreate returns the buyer's conversation on an annonce, creating it on
// first contact. A seller cannot open a conversation on their own listing.
func (s *ConversationService) GetOrCreate(annonceID uint, buyer *models.User) (*models.Conversation, error) {
	var annonce models.Annonce
	if err := s.db.First(&annonce, annonceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("annonce %d: %w", annonceID, ErrNotFound)
		}
		return nil, err
	}
	if annonce.SellerID == buyer.ID {
		return nil, fmt.Errorf("you cannot chat with yourself: %w", ErrForbidden)
	}

	var conv models.Conversation
	err := s.db.Where("annonce_id = ? AND buyer_id = ?", annonceID, buyer.ID).First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		conv = models.Conversation{
			AnnonceID: annonceID,
			BuyerID:   buyer.ID,
			SellerID:  annonce.SellerID,
		}
		err = s.db.Create(&conv).Error
	}
	if err != nil {
		return nil, err
	}
	return s.load(conv.ID)
}

// Mine lists the user's conversations, as buyer or seller.
func (s *ConversationService) Mine(user *models.User) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := s.db.Preload("Annonce").Preload("Buyer").Preload("Seller").
		Where("buyer_id = ? OR seller_id = ?", user.ID, user.ID).
		Order("created_at DESC").
		Find(&convs).Error
	return convs, err
}

// Get returns a conversation if the user participates in it.
func (s *ConversationService) Get(id uint, user *models.User) (*models.Conversation, error) {
	conv, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if conv.BuyerID != user.ID && conv.SellerID != user.ID {
		return nil, fmt.Errorf("access denied: %w", ErrForbidden)
	}
	return conv, nil
}

// Messages returns a conversation's messages in send order.
func (s *ConversationService) Messages(conversationID uint) ([]models.Message, error) {
	var msgs []models.Message
	err := s.db.Preload("Sender").
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&msgs).Error
	return msgs, err
}

func (s *ConversationService) SendMessage(req *MessageCreateRequest, sender *models.User) (*models.Message, error) {
	var conv models.Conversation
	if err := s.db.First(&conv, req.ConversationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("conversation %d: %w", req.ConversationID, ErrNotFound)
		}
		return nil, err
	}
	if conv.BuyerID != sender.ID && conv.SellerID != sender.ID {
		return nil, fmt.Errorf("access denied: %w", ErrForbidden)
	}

	msg := models.Message{
		ConversationID: conv.ID,
		SenderID:       sender.ID,
		Content:        req.Content,
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *ConversationService) load(id uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.db.Preload("Annonce").Preload("Buyer").Preload("Seller").First(&conv, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("conversation %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &conv, nil
}
