package entity

import (
	"time"

	"gorm.io/gorm"
)

// Cart belongs to exactly one user or one guest identity, never both. It is
// created lazily on first access, cleared (items removed) after a successful
// checkout and reused afterwards — checkout never hard-deletes it.
type Cart struct {
	gorm.Model
	UserID *uint `json:"userId,omitempty" gorm:"uniqueIndex"`
	User   *User `json:"-"`

	GuestID *uint          `json:"-" gorm:"uniqueIndex"`
	Guest   *GuestIdentity `json:"-"`

	ExpiresAt time.Time `json:"expiresAt"`

	Items []CartItem `json:"items" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (c *Cart) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}
