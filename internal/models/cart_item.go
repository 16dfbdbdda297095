package models

import "time"

// CartItem is a wishlist entry: one row per (user, annonce), no quantity.
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_annonce" json:"user_id"`
	AnnonceID uint      `gorm:"not null;uniqueIndex:idx_cart_user_annonce" json:"annonce_id"`
	Annonce   Annonce   `gorm:"foreignKey:AnnonceID" json:"annonce,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
