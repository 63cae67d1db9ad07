package entity

import (
	"gorm.io/gorm"
)

// GuestIdentity backs anonymous carts. The token is the only credential for
// the guest's cart — treat it as a bearer secret, never log it.
type GuestIdentity struct {
	gorm.Model
	Token string `gorm:"uniqueIndex;not null" json:"-"`
	Email string `json:"email"`

	Cart *Cart `gorm:"foreignKey:GuestID" json:"-"`
}
