package entity

import (
	"time"

	"gorm.io/gorm"
)

// Order is the unit of sale for one store. A multi-store checkout produces
// several orders linked by CheckoutGroupID. Which store an order belongs to
// never changes after creation.
type Order struct {
	gorm.Model
	OrderNumber string `gorm:"uniqueIndex;not null" json:"orderNumber"`

	Status        OrderStatus   `gorm:"not null;default:pending" json:"status"`
	PaymentStatus PaymentStatus `gorm:"not null;default:pending" json:"paymentStatus"`

	// Money in cents; TotalAmount = Subtotal + ShippingCost + TaxAmount
	Subtotal     int64 `json:"subtotal"`
	ShippingCost int64 `json:"shippingCost"`
	TaxAmount    int64 `json:"taxAmount"`
	TotalAmount  int64 `json:"totalAmount"`

	// Point-in-time snapshots, not references
	ShippingAddress OrderAddress  `gorm:"serializer:json" json:"shippingAddress"`
	BillingAddress  *OrderAddress `gorm:"serializer:json" json:"billingAddress,omitempty"`

	PaymentMethod string `json:"paymentMethod"`
	// PaymentReference holds the processor-side intent id
	PaymentReference string `gorm:"index" json:"paymentReference,omitempty"`

	TrackingNumber string     `json:"trackingNumber,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	FulfilledAt    *time.Time `json:"fulfilledAt,omitempty"`
	CancelledAt    *time.Time `json:"cancelledAt,omitempty"`

	UserID uint `json:"userId"`
	User   User `json:"-"` // preload only for seller views

	StoreID uint  `json:"storeId"`
	Store   Store `json:"-"`

	CheckoutGroupID *uint `json:"checkoutGroupId,omitempty"`

	Items []OrderItem `json:"items,omitempty"`
}
