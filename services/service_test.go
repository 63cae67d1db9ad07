package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/Dhallagan/indieout-marketplace-sub001/entity"
	"github.com/Dhallagan/indieout-marketplace-sub001/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

// testDB opens a fresh in-memory database per test. The shared-cache DSN keeps
// every pooled connection on the same database.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entity.User{}, &entity.GuestIdentity{},
		&entity.Store{}, &entity.Category{}, &entity.Product{}, &entity.Banner{},
		&entity.Address{},
		&entity.Cart{}, &entity.CartItem{},
		&entity.CheckoutGroup{}, &entity.Order{}, &entity.OrderItem{},
	))
	return db
}

// ----- fixtures -----

func makeUser(t *testing.T, db *gorm.DB, email string) *entity.User {
	t.Helper()
	u := &entity.User{Email: email, Password: "x", Role: "customer", EmailVerified: true}
	require.NoError(t, db.Create(u).Error)
	return u
}

func makeSeller(t *testing.T, db *gorm.DB, email string) *entity.User {
	t.Helper()
	u := &entity.User{Email: email, Password: "x", Role: "seller", EmailVerified: true}
	require.NoError(t, db.Create(u).Error)
	return u
}

func makeStore(t *testing.T, db *gorm.DB, owner *entity.User, slug string) *entity.Store {
	t.Helper()
	s := &entity.Store{Name: slug, Slug: slug, UserID: owner.ID}
	require.NoError(t, db.Create(s).Error)
	return s
}

func makeProduct(t *testing.T, db *gorm.DB, store *entity.Store, sku string, price int64, stock int) *entity.Product {
	t.Helper()
	p := &entity.Product{
		Name:           sku,
		SKU:            sku,
		BasePrice:      price,
		Active:         true,
		TrackInventory: true,
		Inventory:      stock,
		StoreID:        store.ID,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// makeOrder persists an order directly in the given state, bypassing checkout.
func makeOrder(t *testing.T, db *gorm.DB, user *entity.User, store *entity.Store,
	status entity.OrderStatus, payment entity.PaymentStatus) *entity.Order {
	t.Helper()
	o := &entity.Order{
		OrderNumber:   fmt.Sprintf("ORD-20260830-%08X", testDBSeq.Add(1)),
		Status:        status,
		PaymentStatus: payment,
		UserID:        user.ID,
		StoreID:       store.ID,
		ShippingAddress: entity.OrderAddress{
			FirstName: "Sam", LastName: "Shopper", Email: user.Email,
			Address1: "1 Trail Rd", City: "Bend", State: "OR",
			PostalCode: "97701", Country: "US",
		},
	}
	require.NoError(t, db.Create(o).Error)
	return o
}

func addOrderItem(t *testing.T, db *gorm.DB, o *entity.Order, p *entity.Product, qty int) {
	t.Helper()
	require.NoError(t, db.Create(&entity.OrderItem{
		OrderID:    o.ID,
		ProductID:  p.ID,
		Quantity:   qty,
		UnitPrice:  p.BasePrice,
		TotalPrice: p.BasePrice * int64(qty),
	}).Error)
}

func newOrderService(db *gorm.DB) *OrderService {
	return NewOrderService(db, repository.NewOrderRepository(db), repository.NewStoreRepository(db), nil)
}

func newCheckoutService(db *gorm.DB) *CheckoutService {
	return NewCheckoutService(db,
		repository.NewOrderRepository(db),
		repository.NewCartRepository(db),
		repository.NewProductRepository(db),
		repository.NewUserRepository(db),
		nil)
}

func newCartService(db *gorm.DB) *CartService {
	return NewCartService(db,
		repository.NewCartRepository(db),
		repository.NewProductRepository(db),
		repository.NewGuestRepository(db))
}

func completeAddress(email string) AddressIn {
	return AddressIn{
		FirstName: "Sam", LastName: "Shopper", Email: email,
		Address1: "1 Trail Rd", City: "Bend", State: "OR",
		PostalCode: "97701", Country: "US",
	}
}

// reload fetches the current row for assertions after guarded updates.
func reload(t *testing.T, db *gorm.DB, id uint) *entity.Order {
	t.Helper()
	var o entity.Order
	require.NoError(t, db.First(&o, id).Error)
	return &o
}

func reloadProduct(t *testing.T, db *gorm.DB, id uint) *entity.Product {
	t.Helper()
	var p entity.Product
	require.NoError(t, db.First(&p, id).Error)
	return &p
}
