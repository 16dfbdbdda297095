package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleVendeur Role = "VENDEUR"
	RoleUser    Role = "USER"
)

type User struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	Code      string `gorm:"uniqueIndex;size:18" json:"code"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Password  string `gorm:"not null" json:"-"`
	FirstName string `gorm:"not null" json:"first_name"`
	LastName  string `gorm:"not null" json:"last_name"`
	Phone     string `gorm:"uniqueIndex" json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	Whatsapp  string `json:"whatsapp,omitempty"`
	Role      Role   `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`

	Enabled       bool `gorm:"default:false" json:"enabled"`
	EmailVerified bool `gorm:"not null;default:false" json:"email_verified"`

	VerificationToken       string     `gorm:"index;size:255" json:"-"`
	VerificationTokenExpiry *time.Time `json:"-"`
	ResetPasswordToken      string     `gorm:"index;size:255" json:"-"`
	ResetPasswordExpiry     *time.Time `json:"-"`

	// Credits spent to publish listings; purchased via the credit ledger.
	CreditBalance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"credit_balance"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin checks if user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanSell checks if user may publish listings
func (u *User) CanSell() bool {
	return u.Role == RoleVendeur || u.Role == RoleAdmin
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
