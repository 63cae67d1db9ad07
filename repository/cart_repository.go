package repository

import (
	"errors"
	"time"

	"github.com/Dhallagan/indieout-marketplace-sub001/entity"

	"gorm.io/gorm"
)

type CartRepository struct{ DB *gorm.DB }

func NewCartRepository(db *gorm.DB) *CartRepository { return &CartRepository{DB: db} }

// GetForUser returns the user's cart with items, or an empty unsaved cart so
// the storefront can always render something.
func (r *CartRepository) GetForUser(userID uint) (*entity.Cart, error) {
	var c entity.Cart
	err := r.DB.Where("user_id = ?", userID).
		Preload("Items").
		Preload("Items.Product").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &entity.Cart{UserID: &userID}, nil
	}
	return &c, err
}

func (r *CartRepository) GetForGuest(guestID uint) (*entity.Cart, error) {
	var c entity.Cart
	err := r.DB.Where("guest_id = ?", guestID).
		Preload("Items").
		Preload("Items.Product").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &entity.Cart{GuestID: &guestID}, nil
	}
	return &c, err
}

// GetOrCreateForUser creates the cart lazily on first access. At most one
// cart per user is enforced by the unique index on user_id. Items are loaded
// so callers can see what the cart already holds.
func (r *CartRepository) GetOrCreateForUser(userID uint, expiresAt time.Time) (*entity.Cart, error) {
	var c entity.Cart
	err := r.DB.Where("user_id = ?", userID).Preload("Items").First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c = entity.Cart{UserID: &userID, ExpiresAt: expiresAt}
		if err := r.DB.Create(&c).Error; err != nil {
			return nil, err
		}
		return &c, nil
	}
	return &c, err
}

func (r *CartRepository) GetOrCreateForGuest(guestID uint, expiresAt time.Time) (*entity.Cart, error) {
	var c entity.Cart
	err := r.DB.Where("guest_id = ?", guestID).Preload("Items").First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c = entity.Cart{GuestID: &guestID, ExpiresAt: expiresAt}
		if err := r.DB.Create(&c).Error; err != nil {
			return nil, err
		}
		return &c, nil
	}
	return &c, err
}

// UpsertItem merges by (cart, product): re-adding a product bumps the
// quantity instead of duplicating the row.
func (r *CartRepository) UpsertItem(tx *gorm.DB, cartID, productID uint, qty int) error {
	var exist entity.CartItem
	err := tx.Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&exist).Error
	if err == nil {
		exist.Quantity += qty
		return tx.Save(&exist).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return tx.Create(&entity.CartItem{CartID: cartID, ProductID: productID, Quantity: qty}).Error
}

// UpdateQty sets the quantity; qty <= 0 destroys the item.
func (r *CartRepository) UpdateQty(tx *gorm.DB, cartID, itemID uint, qty int) error {
	if qty <= 0 {
		return r.RemoveItem(tx, cartID, itemID)
	}
	return tx.Model(&entity.CartItem{}).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Update("quantity", qty).Error
}

// RemoveItem deletes for real: a soft-deleted row would still occupy the
// (cart, product) unique slot and block re-adding the product.
func (r *CartRepository) RemoveItem(tx *gorm.DB, cartID, itemID uint) error {
	return tx.Unscoped().Where("id = ? AND cart_id = ?", itemID, cartID).
		Delete(&entity.CartItem{}).Error
}

// Clear destroys all items but keeps the cart row for future purchases.
func (r *CartRepository) Clear(tx *gorm.DB, cartID uint) error {
	return tx.Unscoped().Where("cart_id = ?", cartID).Delete(&entity.CartItem{}).Error
}

// Touch extends the cart's expiration; called on every mutation.
func (r *CartRepository) Touch(tx *gorm.DB, cartID uint, expiresAt time.Time) error {
	return tx.Model(&entity.Cart{}).Where("id = ?", cartID).
		Update("expires_at", expiresAt).Error
}
