package entity

import (
	"gorm.io/gorm"
)

// ProductSnapshot freezes the product at order time so historical orders stay
// accurate if the product is later edited or deleted.
type ProductSnapshot struct {
	Name        string `json:"name"`
	SKU         string `json:"sku"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	Image       string `json:"image,omitempty"`
}

type OrderItem struct {
	gorm.Model
	Quantity int `gorm:"not null" json:"quantity"`
	// cents; TotalPrice = Quantity × UnitPrice
	UnitPrice  int64 `gorm:"not null" json:"unitPrice"`
	TotalPrice int64 `gorm:"not null" json:"totalPrice"`

	ProductSnapshot ProductSnapshot `gorm:"serializer:json" json:"productSnapshot"`

	OrderID uint  `gorm:"uniqueIndex:idx_order_product" json:"orderId"`
	Order   Order `json:"-"`

	ProductID uint    `gorm:"uniqueIndex:idx_order_product" json:"productId"`
	Product   Product `json:"-"` // live product; may be gone, use the snapshot
}
