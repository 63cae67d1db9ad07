package services

import (
	"github.com/Dhallagan/indieout-marketplace-sub001/entity"
	"github.com/Dhallagan/indieout-marketplace-sub001/repository"

	"gorm.io/gorm"
)

type OrderService struct {
	DB        *gorm.DB
	Repo      *repository.OrderRepository
	StoreRepo *repository.StoreRepository
	Notifier  OrderNotifier
}

func NewOrderService(db *gorm.DB, repo *repository.OrderRepository, storeRepo *repository.StoreRepository, notifier OrderNotifier) *OrderService {
	return &OrderService{DB: db, Repo: repo, StoreRepo: storeRepo, Notifier: notifier}
}

// ----- Buyer views -----

func (s *OrderService) ListForUser(userID uint, limit int) ([]repository.OrderSummary, error) {
	return s.Repo.ListOrdersForUser(userID, limit)
}

type OrderDetail struct {
	Order entity.Order       `json:"order"`
	Items []entity.OrderItem `json:"items"`
}

func (s *OrderService) DetailForUser(userID, orderID uint) (*OrderDetail, error) {
	o, err := s.Repo.GetOrderForUser(userID, orderID)
	if err != nil {
		return nil, err
	}
	items, err := s.Repo.GetOrderItems(o.ID)
	if err != nil {
		return nil, err
	}
	return &OrderDetail{Order: *o, Items: items}, nil
}

// LookupByNumber is the guest order lookup. The email must match the order's
// owner; a mismatch is indistinguishable from a missing order so strangers
// cannot probe for order numbers.
func (s *OrderService) LookupByNumber(orderNumber, email string) (*OrderDetail, error) {
	if email == "" {
		return nil, gorm.ErrRecordNotFound
	}
	o, err := s.Repo.GetOrderByNumber(orderNumber, email)
	if err != nil {
		return nil, err
	}
	items, err := s.Repo.GetOrderItems(o.ID)
	if err != nil {
		return nil, err
	}
	return &OrderDetail{Order: *o, Items: items}, nil
}

// ----- Seller views -----

func (s *OrderService) ownerCheck(storeID, userID uint) error {
	ok, err := s.StoreRepo.IsOwnedBy(storeID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

type SellerOrderListOut struct {
	Items []repository.SellerOrderSummary `json:"items"`
	Total int64                           `json:"total"`
	Page  int                             `json:"page"`
	Limit int                             `json:"limit"`
}

func (s *OrderService) ListForStore(userID, storeID uint, status entity.OrderStatus, page, limit int) (*SellerOrderListOut, error) {
	if err := s.ownerCheck(storeID, userID); err != nil {
		return nil, err
	}
	items, total, err := s.Repo.ListOrdersForStore(storeID, status, page, limit)
	if err != nil {
		return nil, err
	}
	return &SellerOrderListOut{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *OrderService) DetailForStore(userID, storeID, orderID uint) (*OrderDetail, error) {
	if err := s.ownerCheck(storeID, userID); err != nil {
		return nil, err
	}
	o, err := s.Repo.GetOrderForStore(storeID, orderID)
	if err != nil {
		return nil, err
	}
	items, err := s.Repo.GetOrderItems(o.ID)
	if err != nil {
		return nil, err
	}
	return &OrderDetail{Order: *o, Items: items}, nil
}
