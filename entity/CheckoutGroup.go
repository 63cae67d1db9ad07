package entity

import (
	"gorm.io/gorm"
)

// CheckoutGroup records one checkout attempt and the per-store orders it
// produced. Order creation is one transaction per store, so a mixed-store
// checkout is a saga, not an atomic unit — this row is what lets callers (and
// support) see which legs committed when a later leg failed.
type CheckoutGroup struct {
	gorm.Model
	UserID uint  `json:"userId"`
	User   User  `json:"-"`
	CartID *uint `json:"cartId,omitempty"`

	Orders []Order `gorm:"foreignKey:CheckoutGroupID" json:"orders"`
}
