package services

import (
	"testing"

	"github.com/Dhallagan/indieout-marketplace-sub001/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestLookupByNumber(t *testing.T) {
	db := testDB(t)
	svc := newOrderService(db)
	buyer := makeUser(t, db, "buyer@example.com")
	seller := makeSeller(t, db, "seller@example.com")
	store := makeStore(t, db, seller, "trail-gear")
	o := makeOrder(t, db, buyer, store, entity.OrderPending, entity.PaymentPending)

	got, err := svc.LookupByNumber(o.OrderNumber, "buyer@example.com")
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.Order.ID)

	// email matching is case-insensitive on our side (emails are stored lowered)
	got, err = svc.LookupByNumber(o.OrderNumber, "  Buyer@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.Order.ID)
}

func TestLookupByNumberWrongEmailIndistinguishable(t *testing.T) {
	db := testDB(t)
	svc := newOrderService(db)
	buyer := makeUser(t, db, "buyer@example.com")
	makeUser(t, db, "other@example.com")
	seller := makeSeller(t, db, "seller@example.com")
	store := makeStore(t, db, seller, "trail-gear")
	o := makeOrder(t, db, buyer, store, entity.OrderPending, entity.PaymentPending)

	_, wrongEmail := svc.LookupByNumber(o.OrderNumber, "other@example.com")
	_, missing := svc.LookupByNumber("ORD-20260830-DEADBEEF", "buyer@example.com")
	_, noEmail := svc.LookupByNumber(o.OrderNumber, "")

	assert.ErrorIs(t, wrongEmail, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, missing, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, noEmail, gorm.ErrRecordNotFound)
}

func TestListForStoreOwnershipGate(t *testing.T) {
	db := testDB(t)
	svc := newOrderService(db)
	buyer := makeUser(t, db, "buyer@example.com")
	seller := makeSeller(t, db, "seller@example.com")
	other := makeSeller(t, db, "other@example.com")
	store := makeStore(t, db, seller, "trail-gear")
	makeOrder(t, db, buyer, store, entity.OrderConfirmed, entity.PaymentPaid)
	makeOrder(t, db, buyer, store, entity.OrderPending, entity.PaymentPending)

	out, err := svc.ListForStore(seller.ID, store.ID, "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.Total)
	assert.Len(t, out.Items, 2)

	// filtered by status
	out, err = svc.ListForStore(seller.ID, store.ID, entity.OrderConfirmed, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Total)

	_, err = svc.ListForStore(other.ID, store.ID, "", 1, 20)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDetailForUserScoped(t *testing.T) {
	db := testDB(t)
	svc := newOrderService(db)
	buyer := makeUser(t, db, "buyer@example.com")
	stranger := makeUser(t, db, "stranger@example.com")
	seller := makeSeller(t, db, "seller@example.com")
	store := makeStore(t, db, seller, "trail-gear")
	o := makeOrder(t, db, buyer, store, entity.OrderPending, entity.PaymentPending)

	got, err := svc.DetailForUser(buyer.ID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.OrderNumber, got.Order.OrderNumber)

	_, err = svc.DetailForUser(stranger.ID, o.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
