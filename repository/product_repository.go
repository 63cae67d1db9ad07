package repository

import (
	"github.com/Dhallagan/indieout-marketplace-sub001/entity"

	"gorm.io/gorm"
)

type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{DB: db}
}

func (r *ProductRepository) FindByID(id uint) (*entity.Product, error) {
	var p entity.Product
	if err := r.DB.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByIDs loads the products a checkout wants to buy; missing ids simply
// come back absent, the caller decides whether that is fatal.
func (r *ProductRepository) FindByIDs(ids []uint) ([]entity.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []entity.Product
	err := r.DB.Where("id IN ?", ids).Find(&out).Error
	return out, err
}

func (r *ProductRepository) List(storeID, categoryID uint, limit int) ([]entity.Product, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := r.DB.Where("active = ?", true)
	if storeID != 0 {
		q = q.Where("store_id = ?", storeID)
	}
	if categoryID != 0 {
		q = q.Where("category_id = ?", categoryID)
	}
	var out []entity.Product
	err := q.Order("id DESC").Limit(limit).Find(&out).Error
	return out, err
}

func (r *ProductRepository) Create(p *entity.Product) error {
	return r.DB.Create(p).Error
}

func (r *ProductRepository) Update(id uint, updates map[string]any) error {
	return r.DB.Model(&entity.Product{}).Where("id = ?", id).Updates(updates).Error
}
