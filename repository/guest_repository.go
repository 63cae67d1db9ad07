package repository

import (
	"github.com/Dhallagan/indieout-marketplace-sub001/entity"

	"gorm.io/gorm"
)

type GuestRepository struct {
	DB *gorm.DB
}

func NewGuestRepository(db *gorm.DB) *GuestRepository {
	return &GuestRepository{DB: db}
}

func (r *GuestRepository) FindByToken(token string) (*entity.GuestIdentity, error) {
	var g entity.GuestIdentity
	if err := r.DB.Where("token = ?", token).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GuestRepository) Create(g *entity.GuestIdentity) error {
	return r.DB.Create(g).Error
}
