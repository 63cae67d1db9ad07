package services

import (
	"errors"
	"time"

	"github.com/Dhallagan/indieout-marketplace-sub001/entity"
	"github.com/Dhallagan/indieout-marketplace-sub001/repository"
	"github.com/Dhallagan/indieout-marketplace-sub001/utils"

	"gorm.io/gorm"
)

// CartTTL is how long a cart lives without mutation; every mutation extends it.
const CartTTL = 7 * 24 * time.Hour

type CartService struct {
	DB          *gorm.DB
	CartRepo    *repository.CartRepository
	ProductRepo *repository.ProductRepository
	GuestRepo   *repository.GuestRepository
}

func NewCartService(db *gorm.DB, cr *repository.CartRepository, pr *repository.ProductRepository, gr *repository.GuestRepository) *CartService {
	return &CartService{DB: db, CartRepo: cr, ProductRepo: pr, GuestRepo: gr}
}

// CartIdentity is who the cart belongs to: an authenticated user, or a guest
// holding a bearer token. Exactly one side is set.
type CartIdentity struct {
	UserID     uint
	GuestToken string
}

// CartView is what the storefront renders; subtotal is derived from live
// product prices, never persisted.
type CartView struct {
	Cart       *entity.Cart `json:"cart"`
	TotalItems int          `json:"totalItems"`
	TotalPrice int64        `json:"totalPrice"`
	// GuestToken is only set when a new guest identity was just minted.
	GuestToken string `json:"guestToken,omitempty"`
}

// resolveCart finds or lazily creates the identity's cart. For guests with no
// token a new GuestIdentity is minted and its token returned.
func (s *CartService) resolveCart(id CartIdentity, create bool) (*entity.Cart, string, error) {
	expires := time.Now().Add(CartTTL)

	if id.UserID != 0 {
		if !create {
			c, err := s.CartRepo.GetForUser(id.UserID)
			return c, "", err
		}
		c, err := s.CartRepo.GetOrCreateForUser(id.UserID, expires)
		return c, "", err
	}

	if id.GuestToken != "" {
		g, err := s.GuestRepo.FindByToken(id.GuestToken)
		if err != nil {
			return nil, "", err
		}
		if !create {
			c, err := s.CartRepo.GetForGuest(g.ID)
			return c, "", err
		}
		c, err := s.CartRepo.GetOrCreateForGuest(g.ID, expires)
		return c, "", err
	}

	if !create {
		// nothing to show yet; an unsaved empty cart
		return &entity.Cart{}, "", nil
	}
	g := &entity.GuestIdentity{Token: utils.NewGuestToken()}
	if err := s.GuestRepo.Create(g); err != nil {
		return nil, "", err
	}
	c, err := s.CartRepo.GetOrCreateForGuest(g.ID, expires)
	return c, g.Token, err
}

// expireIfStale clears an expired cart's items so it behaves as empty.
func (s *CartService) expireIfStale(c *entity.Cart) error {
	if c.ID == 0 || !c.Expired(time.Now()) {
		return nil
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.CartRepo.Clear(tx, c.ID); err != nil {
			return err
		}
		c.Items = nil
		return s.CartRepo.Touch(tx, c.ID, time.Now().Add(CartTTL))
	})
}

func (s *CartService) Get(id CartIdentity) (*CartView, error) {
	c, token, err := s.resolveCart(id, false)
	if err != nil {
		return nil, err
	}
	if err := s.expireIfStale(c); err != nil {
		return nil, err
	}
	view := &CartView{Cart: c, GuestToken: token}
	for _, it := range c.Items {
		view.TotalItems += it.Quantity
		view.TotalPrice += it.Product.BasePrice * int64(it.Quantity)
	}
	return view, nil
}

// Add upserts a cart item and extends the cart's expiration. Tracked products
// are checked against stock here so the storefront can warn early, even
// though only checkout enforces inventory for real.
func (s *CartService) Add(id CartIdentity, productID uint, qty int) (*CartView, error) {
	if qty <= 0 {
		qty = 1
	}

	p, err := s.ProductRepo.FindByID(productID)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, errors.New("product is not available")
	}

	c, token, err := s.resolveCart(id, true)
	if err != nil {
		return nil, err
	}
	if err := s.expireIfStale(c); err != nil {
		return nil, err
	}

	if p.TrackInventory {
		have := 0
		for _, it := range c.Items {
			if it.ProductID == p.ID {
				have = it.Quantity
			}
		}
		if have+qty > p.Inventory {
			return nil, &StockError{Available: p.Inventory}
		}
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.CartRepo.UpsertItem(tx, c.ID, p.ID, qty); err != nil {
			return err
		}
		return s.CartRepo.Touch(tx, c.ID, time.Now().Add(CartTTL))
	})
	if err != nil {
		return nil, err
	}

	view, err := s.Get(CartIdentity{UserID: id.UserID, GuestToken: firstNonEmpty(id.GuestToken, token)})
	if err != nil {
		return nil, err
	}
	view.GuestToken = token
	return view, nil
}

// UpdateQty sets an item's quantity; zero or less destroys it. No stock check
// here — checkout is the gate.
func (s *CartService) UpdateQty(id CartIdentity, itemID uint, qty int) error {
	c, _, err := s.resolveCart(id, false)
	if err != nil {
		return err
	}
	if c.ID == 0 {
		return gorm.ErrRecordNotFound
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.CartRepo.UpdateQty(tx, c.ID, itemID, qty); err != nil {
			return err
		}
		return s.CartRepo.Touch(tx, c.ID, time.Now().Add(CartTTL))
	})
}

func (s *CartService) RemoveItem(id CartIdentity, itemID uint) error {
	c, _, err := s.resolveCart(id, false)
	if err != nil {
		return err
	}
	if c.ID == 0 {
		return gorm.ErrRecordNotFound
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return s.CartRepo.RemoveItem(tx, c.ID, itemID)
	})
}

func (s *CartService) Clear(id CartIdentity) error {
	c, _, err := s.resolveCart(id, false)
	if err != nil {
		return err
	}
	if c.ID == 0 {
		return nil
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return s.CartRepo.Clear(tx, c.ID)
	})
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
