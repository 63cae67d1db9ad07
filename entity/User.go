package entity

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email         string `gorm:"uniqueIndex;not null" json:"email"`
	Password      string `json:"-"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	PhoneNumber   string `json:"phoneNumber"`
	Role          string `gorm:"not null;default:customer" json:"role"`
	EmailVerified bool   `gorm:"not null;default:false" json:"emailVerified"`

	// Stripe customer created lazily on first payment intent
	StripeCustomerID string `json:"-" gorm:"column:stripe_customer_id"`

	// Relations — preload only when needed
	StoresOwned []Store   `gorm:"foreignKey:UserID" json:"-"`
	Orders      []Order   `json:"-"`
	Addresses   []Address `json:"-"`
	Cart        *Cart     `json:"-"`
}
