package services

import (
	"github.com/Dhallagan/indieout-marketplace-sub001/entity"
)

// StockRequest pairs a loaded product with the quantity a buyer wants.
type StockRequest struct {
	Product  entity.Product
	Quantity int
}

// InventoryShortage is one line of the pre-flight report; json keys match the
// public checkout error payload.
type InventoryShortage struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
}

// CheckInventory is a stateless point-in-time check: every tracked product
// whose stock cannot cover the request is reported, not just the first. It
// takes no lock — a concurrent checkout can still win the stock between this
// check and fulfillment.
func CheckInventory(reqs []StockRequest) []InventoryShortage {
	var shortages []InventoryShortage
	for _, req := range reqs {
		if !req.Product.TrackInventory {
			continue
		}
		if req.Product.Inventory < req.Quantity {
			shortages = append(shortages, InventoryShortage{
				ProductID:   req.Product.ID,
				ProductName: req.Product.Name,
				Requested:   req.Quantity,
				Available:   req.Product.Inventory,
			})
		}
	}
	return shortages
}
