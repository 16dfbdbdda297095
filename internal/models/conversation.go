package models

import "time"

// Conversation is the chat thread between a buyer and the seller of an
// annonce: one conversation per (annonce, buyer).
type Conversation struct {
	ID        uint    `gorm:"primarykey" json:"id"`
	AnnonceID uint    `gorm:"not null;uniqueIndex:idx_conv_annonce_buyer" json:"annonce_id"`
	Annonce   Annonce `gorm:"foreignKey:AnnonceID" json:"annonce,omitempty"`
	BuyerID   uint    `gorm:"not null;uniqueIndex:idx_conv_annonce_buyer" json:"buyer_id"`
	Buyer     User    `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
	SellerID  uint    `gorm:"not null;index" json:"seller_id"`
	Seller    User    `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (Conversation) TableName() string {
	return "conversations"
}

type Message struct {
	ID             uint         `gorm:"primarykey" json:"id"`
	ConversationID uint         `gorm:"not null;index" json:"conversation_id"`
	Conversation   Conversation `gorm:"foreignKey:ConversationID" json:"-"`
	SenderID       uint         `gorm:"not null" json:"sender_id"`
	Sender         User         `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Content        string       `gorm:"type:text;not null" json:"content"`
	ReadAt         *time.Time   `json:"read_at,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}
