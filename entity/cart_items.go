package entity

import (
	"gorm.io/gorm"
)

// CartItem is unique per (cart, product); re-adding a product increments the
// quantity instead of duplicating the row. Prices are derived from the live
// product at read time — carts snapshot nothing.
type CartItem struct {
	gorm.Model
	CartID uint `gorm:"uniqueIndex:idx_cart_product" json:"cartId"`
	Cart   Cart `json:"-"`

	ProductID uint    `gorm:"uniqueIndex:idx_cart_product" json:"productId"`
	Product   Product `json:"product"`

	Quantity int `gorm:"not null" json:"quantity"`
}
