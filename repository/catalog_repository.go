package repository

import (
	"github.com/Dhallagan/indieout-marketplace-sub001/entity"

	"gorm.io/gorm"
)

// CatalogRepository serves the read-only storefront lookups: categories and
// banners. Both tables are seeded or managed out-of-band.
type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

func (r *CatalogRepository) Categories() ([]entity.Category, error) {
	var out []entity.Category
	err := r.DB.Order("name").Find(&out).Error
	return out, err
}

func (r *CatalogRepository) Banners() ([]entity.Banner, error) {
	var out []entity.Banner
	err := r.DB.Where("active = ?", true).Order("position").Find(&out).Error
	return out, err
}
