package services

import (
	"testing"
	"time"

	"github.com/Dhallagan/indieout-marketplace-sub001/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func fillCart(t *testing.T, db *gorm.DB, userID uint, items map[uint]int) {
	t.Helper()
	cart := &entity.Cart{UserID: &userID, ExpiresAt: time.Now().Add(CartTTL)}
	require.NoError(t, db.Create(cart).Error)
	for pid, qty := range items {
		require.NoError(t, db.Create(&entity.CartItem{CartID: cart.ID, ProductID: pid, Quantity: qty}).Error)
	}
}

func TestCheckoutSplitsByStore(t *testing.T) {
	db := testDB(t)
	svc := newCheckoutService(db)
	buyer := makeUser(t, db, "buyer@example.com")
	s1 := makeStore(t, db, makeSeller(t, db, "s1@example.com"), "alpine")
	s2 := makeStore(t, db, makeSeller(t, db, "s2@example.com"), "river")

	tent := makeProduct(t, db, s1, "TENT-1", 12000, 10)
	paddle := makeProduct(t, db, s2, "PADDLE-1", 4000, 10)
	fillCart(t, db, buyer.ID, map[uint]int{tent.ID: 1, paddle.ID: 1})

	orders, err := svc.CheckoutFromCart(buyer.ID, &CheckoutReq{
		ShippingAddress: completeAddress(buyer.Email),
		PaymentMethod:   "card",
	})
	require.NoError(t, err)
	require.Len(t, orders, 2)

	byStore := map[uint]entity.Order{}
	for _, o := range orders {
		byStore[o.StoreID] = o
	}

	// store one: 12000 subtotal ships free
	o1 := byStore[s1.ID]
	assert.Equal(t, int64(12000), o1.Subtotal)
	assert.Equal(t, int64(0), o1.ShippingCost)
	assert.Equal(t, int64(960), o1.TaxAmount)
	assert.Equal(t, int64(12960), o1.TotalAmount)

	// store two: below the threshold pays flat shipping
	o2 := byStore[s2.ID]
	assert.Equal(t, int64(4000), o2.Subtotal)
	assert.Equal(t, int64(999), o2.ShippingCost)
	assert.Equal(t, int64(320), o2.TaxAmount)
	assert.Equal(t, int64(5319), o2.TotalAmount)

	// both legs share a checkout group and start pending/pending
	require.NotNil(t, o1.CheckoutGroupID)
	assert.Equal(t, *o1.CheckoutGroupID, *o2.CheckoutGroupID)
	for _, o := range orders {
		assert.Equal(t, entity.OrderPending, o.Status)
		assert.Equal(t, entity.PaymentPending, o.PaymentStatus)
		assert.Regexp(t, `^ORD-\d{8}-[0-9A-F]{8}$`, o.OrderNumber)
	}

	// cart cleared only after every leg committed
	var itemCount int64
	require.NoError(t, db.Model(&entity.CartItem{}).Count(&itemCount).Error)
	assert.Zero(t, itemCount)
}

func TestCheckoutClearedCartIsReusable(t *testing.T) {
	db := testDB(t)
	svc := newCheckoutService(db)
	carts := newCartService(db)
	buyer := makeUser(t, db, "buyer@example.com")
	store := makeStore(t, db, makeSeller(t, db, "s@example.com"), "alpine")
	tent := makeProduct(t, db, store, "TENT-1", 12000, 10)

	id := CartIdentity{UserID: buyer.ID}
	_, err := carts.Add(id, tent.ID, 1)
	require.NoError(t, err)

	_, err = svc.CheckoutFromCart(buyer.ID, &CheckoutReq{
		ShippingAddress: completeAddress(buyer.Email),
	})
	require.NoError(t, err)

	// same cart row, same product, fresh purchase
	view, err := carts.Add(id, tent.ID, 2)
	require.NoError(t, err)
	require.Len(t, view.Cart.Items, 1)
	assert.Equal(t, 2, view.Cart.Items[0].Quantity)
}

func TestCheckoutItemsSnapshotProduct(t *testing.T) {
	db := testDB(t)
	svc := newCheckoutService(db)
	buyer := makeUser(t, db, "buyer@example.com")
	store := makeStore(t, db, makeSeller(t, db, "s@example.com"), "alpine")
	tent := makeProduct(t, db, store, "TENT-1", 12000, 10)
	fillCart(t, db, buyer.ID, map[uint]int{tent.ID: 2})

	orders, err := svc.CheckoutFromCart(buyer.ID, &CheckoutReq{
		ShippingAddress: completeAddress(buyer.Email),
	})
	require.NoError(t, err)
	require.Len(t, orders, 1)

	var items []entity.OrderItem
	require.NoError(t, db.Where("order_id = ?", orders[0].ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, int64(12000), items[0].UnitPrice)
	assert.Equal(t, int64(24000), items[0].TotalPrice)
	assert.Equal(t, "TENT-1", items[0].ProductSnapshot.SKU)
	assert.Equal(t, int64(12000), items[0].ProductSnapshot.Price)
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := testDB(t)
	svc := newCheckoutService(db)
	buyer := makeUser(t, db, "buyer@example.com")

	_, err := svc.CheckoutFromCart(buyer.ID, &CheckoutReq{
		ShippingAddress: completeAddress(buyer.Email),
	})
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestCheckoutIncompleteAddressFailsFast(t *testing.T) {
	db := testDB(t)
	svc := newCheckoutService(db)
	buyer := makeUser(t, db, "buyer@example.com")
	store := makeStore(t, db, makeSeller(t, db, "s@example.com"), "alpine")
	tent := makeProduct(t, db, store, "TENT-1", 12000, 10)
	fillCart(t, db, buyer.ID, map[uint]int{tent.ID: 1})

	addr := completeAddress(buyer.Email)
	addr.PostalCode = ""
	_, err := svc.CheckoutFromCart(buyer.ID, &CheckoutReq{ShippingAddress: addr})
	assert.ErrorIs(t, err, ErrAddressIncomplete)

	// nothing was created and the cart survives
	var orderCount, itemCount int64
	require.NoError(t, db.Model(&entity.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&entity.CartItem{}).Count(&itemCount).Error)
	assert.Zero(t, orderCount)
	assert.Equal(t, int64(1), itemCount)
}

func TestCheckoutShortageAbortsEverything(t *testing.T) {
	db := testDB(t)
	svc := newCheckoutService(db)
	buyer := makeUser(t, db, "buyer@example.com")
	s1 := makeStore(t, db, makeSeller(t, db, "s1@example.com"), "alpine")
	s2 := makeStore(t, db, makeSeller(t, db, "s2@example.com"), "river")

	tent := makeProduct(t, db, s1, "TENT-1", 12000, 10)
	scarce := makeProduct(t, db, s2, "PADDLE-1", 4000, 1)
	fillCart(t, db, buyer.ID, map[uint]int{tent.ID: 1, scarce.ID: 5})

	_, err := svc.CheckoutFromCart(buyer.ID, &CheckoutReq{
		ShippingAddress: completeAddress(buyer.Email),
	})

	var shortage *ShortageError
	require.ErrorAs(t, err, &shortage)
	require.Len(t, shortage.Items, 1)
	assert.Equal(t, scarce.ID, shortage.Items[0].ProductID)
	assert.Equal(t, 5, shortage.Items[0].Requested)
	assert.Equal(t, 1, shortage.Items[0].Available)

	// no partial orders, cart untouched
	var orderCount int64
	require.NoError(t, db.Model(&entity.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)
	var itemCount int64
	require.NoError(t, db.Model(&entity.CartItem{}).Count(&itemCount).Error)
	assert.Equal(t, int64(2), itemCount)
}

func TestGuestCheckoutProvisionsUser(t *testing.T) {
	db := testDB(t)
	svc := newCheckoutService(db)
	store := makeStore(t, db, makeSeller(t, db, "s@example.com"), "alpine")
	tent := makeProduct(t, db, store, "TENT-1", 12000, 10)

	orders, err := svc.GuestCheckout(&GuestCheckoutReq{
		Email:           "Guest@Example.com",
		CartItems:       []CheckoutItemIn{{ProductID: tent.ID, Quantity: 1}},
		ShippingAddress: completeAddress("guest@example.com"),
	})
	require.NoError(t, err)
	require.Len(t, orders, 1)

	var u entity.User
	require.NoError(t, db.Where("email = ?", "guest@example.com").First(&u).Error)
	assert.False(t, u.EmailVerified)
	assert.NotEmpty(t, u.Password)
	assert.Equal(t, u.ID, orders[0].UserID)
}

func TestGuestCheckoutReusesExistingUser(t *testing.T) {
	db := testDB(t)
	svc := newCheckoutService(db)
	existing := makeUser(t, db, "repeat@example.com")
	store := makeStore(t, db, makeSeller(t, db, "s@example.com"), "alpine")
	tent := makeProduct(t, db, store, "TENT-1", 12000, 10)

	orders, err := svc.GuestCheckout(&GuestCheckoutReq{
		Email:           "repeat@example.com",
		CartItems:       []CheckoutItemIn{{ProductID: tent.ID, Quantity: 1}},
		ShippingAddress: completeAddress(existing.Email),
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, orders[0].UserID)

	var count int64
	require.NoError(t, db.Model(&entity.User{}).Where("email = ?", "repeat@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGuestCheckoutUnknownProduct(t *testing.T) {
	db := testDB(t)
	svc := newCheckoutService(db)

	_, err := svc.GuestCheckout(&GuestCheckoutReq{
		Email:           "guest@example.com",
		CartItems:       []CheckoutItemIn{{ProductID: 999, Quantity: 1}},
		ShippingAddress: completeAddress("guest@example.com"),
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGuestCheckoutMergesDuplicateLines(t *testing.T) {
	db := testDB(t)
	svc := newCheckoutService(db)
	store := makeStore(t, db, makeSeller(t, db, "s@example.com"), "alpine")
	tent := makeProduct(t, db, store, "TENT-1", 1000, 10)

	orders, err := svc.GuestCheckout(&GuestCheckoutReq{
		Email: "guest@example.com",
		CartItems: []CheckoutItemIn{
			{ProductID: tent.ID, Quantity: 2},
			{ProductID: tent.ID, Quantity: 3},
		},
		ShippingAddress: completeAddress("guest@example.com"),
	})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(5000), orders[0].Subtotal)
}
