package services

import (
	"strings"

	"github.com/Dhallagan/indieout-marketplace-sub001/entity"
	"github.com/Dhallagan/indieout-marketplace-sub001/repository"
)

// CatalogService is the storefront read side plus the seller's inventory
// upkeep. Everything here is ordinary CRUD; the interesting invariants live
// in checkout and fulfillment.
type CatalogService struct {
	Stores   *repository.StoreRepository
	Products *repository.ProductRepository
	Catalog  *repository.CatalogRepository
}

func NewCatalogService(sr *repository.StoreRepository, pr *repository.ProductRepository, cr *repository.CatalogRepository) *CatalogService {
	return &CatalogService{Stores: sr, Products: pr, Catalog: cr}
}

func (s *CatalogService) ListStores(limit int) ([]entity.Store, error) {
	return s.Stores.List(limit)
}

func (s *CatalogService) StoreBySlug(slug string) (*entity.Store, error) {
	return s.Stores.FindBySlug(slug)
}

func (s *CatalogService) Categories() ([]entity.Category, error) {
	return s.Catalog.Categories()
}

func (s *CatalogService) Banners() ([]entity.Banner, error) {
	return s.Catalog.Banners()
}

func (s *CatalogService) ListProducts(storeID, categoryID uint, limit int) ([]entity.Product, error) {
	return s.Products.List(storeID, categoryID, limit)
}

func (s *CatalogService) GetProduct(id uint) (*entity.Product, error) {
	return s.Products.FindByID(id)
}

// ----- Seller writes -----

type ProductIn struct {
	Name              string `json:"name" binding:"required"`
	SKU               string `json:"sku" binding:"required"`
	Description       string `json:"description"`
	BasePrice         int64  `json:"base_price" binding:"required,min=1"`
	Image             string `json:"image"`
	TrackInventory    *bool  `json:"track_inventory"`
	Inventory         int    `json:"inventory"`
	LowStockThreshold int    `json:"low_stock_threshold"`
	StoreID           uint   `json:"store_id" binding:"required"`
	CategoryID        uint   `json:"category_id"`
}

func (s *CatalogService) CreateProduct(sellerID uint, in *ProductIn) (*entity.Product, error) {
	ok, err := s.Stores.IsOwnedBy(in.StoreID, sellerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	track := true
	if in.TrackInventory != nil {
		track = *in.TrackInventory
	}
	threshold := in.LowStockThreshold
	if threshold == 0 {
		threshold = 5
	}

	p := &entity.Product{
		Name:              strings.TrimSpace(in.Name),
		SKU:               strings.TrimSpace(in.SKU),
		Description:       in.Description,
		BasePrice:         in.BasePrice,
		Image:             in.Image,
		Active:            true,
		TrackInventory:    track,
		Inventory:         in.Inventory,
		LowStockThreshold: threshold,
		StoreID:           in.StoreID,
		CategoryID:        in.CategoryID,
	}
	if err := s.Products.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

type ProductUpdateIn struct {
	Name              *string `json:"name"`
	Description       *string `json:"description"`
	BasePrice         *int64  `json:"base_price"`
	Image             *string `json:"image"`
	Active            *bool   `json:"active"`
	TrackInventory    *bool   `json:"track_inventory"`
	Inventory         *int    `json:"inventory"`
	LowStockThreshold *int    `json:"low_stock_threshold"`
}

// UpdateProduct applies a partial update after checking the product belongs
// to one of the seller's stores.
func (s *CatalogService) UpdateProduct(sellerID, productID uint, in *ProductUpdateIn) (*entity.Product, error) {
	p, err := s.Products.FindByID(productID)
	if err != nil {
		return nil, err
	}
	ok, err := s.Stores.IsOwnedBy(p.StoreID, sellerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.BasePrice != nil {
		updates["base_price"] = *in.BasePrice
	}
	if in.Image != nil {
		updates["image"] = *in.Image
	}
	if in.Active != nil {
		updates["active"] = *in.Active
	}
	if in.TrackInventory != nil {
		updates["track_inventory"] = *in.TrackInventory
	}
	if in.Inventory != nil {
		updates["inventory"] = *in.Inventory
	}
	if in.LowStockThreshold != nil {
		updates["low_stock_threshold"] = *in.LowStockThreshold
	}
	if len(updates) == 0 {
		return p, nil
	}

	if err := s.Products.Update(p.ID, updates); err != nil {
		return nil, err
	}
	return s.Products.FindByID(p.ID)
}
