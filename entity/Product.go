package entity

import (
	"gorm.io/gorm"
)

type Product struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	SKU         string `gorm:"uniqueIndex;not null" json:"sku"`
	Description string `json:"description"`
	// BasePrice in cents
	BasePrice int64  `gorm:"not null" json:"basePrice"`
	Image     string `json:"image"`
	Active    bool   `gorm:"not null;default:true" json:"active"`

	// Inventory is only decremented by order fulfillment; the storefront and
	// the checkout pre-flight just read it.
	TrackInventory    bool `gorm:"not null;default:true" json:"trackInventory"`
	Inventory         int  `gorm:"not null;default:0" json:"inventory"`
	LowStockThreshold int  `gorm:"not null;default:5" json:"lowStockThreshold"`

	StoreID uint  `json:"storeId"`
	Store   Store `json:"-"` // preload when the storefront needs the seller name

	CategoryID uint     `json:"categoryId"`
	Category   Category `json:"-"`

	OrderItems []OrderItem `json:"-"`
	CartItems  []CartItem  `json:"-"`
}

// LowStock reports whether the product is at or below its alert threshold.
func (p *Product) LowStock() bool {
	return p.TrackInventory && p.Inventory <= p.LowStockThreshold
}
