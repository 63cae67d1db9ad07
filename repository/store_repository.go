package repository

import (
	"github.com/Dhallagan/indieout-marketplace-sub001/entity"

	"gorm.io/gorm"
)

type StoreRepository struct {
	DB *gorm.DB
}

func NewStoreRepository(db *gorm.DB) *StoreRepository {
	return &StoreRepository{DB: db}
}

// IsOwnedBy gates every seller-facing order operation.
func (r *StoreRepository) IsOwnedBy(storeID, userID uint) (bool, error) {
	var cnt int64
	if err := r.DB.Model(&entity.Store{}).
		Where("id = ? AND user_id = ?", storeID, userID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *StoreRepository) FindBySlug(slug string) (*entity.Store, error) {
	var s entity.Store
	if err := r.DB.Where("slug = ?", slug).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StoreRepository) List(limit int) ([]entity.Store, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []entity.Store
	err := r.DB.Order("id").Limit(limit).Find(&out).Error
	return out, err
}
