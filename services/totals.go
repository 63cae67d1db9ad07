package services

import (
	"github.com/Dhallagan/indieout-marketplace-sub001/entity"
)

// Flat business rules, cents. No carrier lookup, no jurisdiction logic.
const (
	FreeShippingThreshold int64 = 10000 // subtotal at or above this ships free
	FlatShippingCost      int64 = 999
	TaxRatePercent        int64 = 8
)

func ShippingFor(subtotal int64) int64 {
	if subtotal >= FreeShippingThreshold {
		return 0
	}
	return FlatShippingCost
}

func TaxFor(subtotal int64) int64 {
	return subtotal * TaxRatePercent / 100
}

// ApplyTotals recomputes subtotal/shipping/tax/total from the order's items.
// It is idempotent and must run before every persist of an order whose items
// changed. With no items attached it keeps the prior values, so an order
// shell can be created first and finalized after its items exist.
func ApplyTotals(o *entity.Order) {
	if len(o.Items) == 0 {
		return
	}
	var subtotal int64
	for _, it := range o.Items {
		subtotal += it.TotalPrice
	}
	o.Subtotal = subtotal
	o.ShippingCost = ShippingFor(subtotal)
	o.TaxAmount = TaxFor(subtotal)
	o.TotalAmount = o.Subtotal + o.ShippingCost + o.TaxAmount
}
