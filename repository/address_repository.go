package repository

import (
	"github.com/Dhallagan/indieout-marketplace-sub001/entity"

	"gorm.io/gorm"
)

type AddressRepository struct {
	DB *gorm.DB
}

func NewAddressRepository(db *gorm.DB) *AddressRepository {
	return &AddressRepository{DB: db}
}

func (r *AddressRepository) ListForUser(userID uint) ([]entity.Address, error) {
	var out []entity.Address
	err := r.DB.Where("user_id = ?", userID).
		Order("is_default DESC, id DESC").Find(&out).Error
	return out, err
}

// Create inserts the address; when it is flagged default, the user's previous
// default is cleared in the same transaction.
func (r *AddressRepository) Create(a *entity.Address) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if a.IsDefault {
			if err := tx.Model(&entity.Address{}).
				Where("user_id = ? AND is_default = ?", a.UserID, true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(a).Error
	})
}

// DeleteForUser removes the address only if it belongs to the user; a zero
// RowsAffected maps to not-found upstream.
func (r *AddressRepository) DeleteForUser(userID, addressID uint) (int64, error) {
	res := r.DB.Where("id = ? AND user_id = ?", addressID, userID).
		Delete(&entity.Address{})
	return res.RowsAffected, res.Error
}
