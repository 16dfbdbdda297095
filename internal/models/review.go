package models

import "time"

// Review is a buyer's rating of a seller after a sale. One review per
// (annonce, reviewer); only the recorded buyer may review.
type Review struct {
	ID         uint    `gorm:"primarykey" json:"id"`
	AnnonceID  uint    `gorm:"not null;uniqueIndex:idx_review_annonce_reviewer" json:"annonce_id"`
	Annonce    Annonce `gorm:"foreignKey:AnnonceID" json:"annonce,omitempty"`
	ReviewerID uint    `gorm:"not null;uniqueIndex:idx_review_annonce_reviewer" json:"reviewer_id"`
	Reviewer   User    `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	RevieweeID uint    `gorm:"not null;index" json:"reviewee_id"`
	Reviewee   User    `gorm:"foreignKey:RevieweeID" json:"reviewee,omitempty"`

	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (Review) TableName() string {
	return "reviews"
}
