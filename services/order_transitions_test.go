package services

import (
	"testing"

	"github.com/Dhallagan/indieout-marketplace-sub001/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCancelMatrix(t *testing.T) {
	cases := []struct {
		from entity.OrderStatus
		ok   bool
	}{
		{entity.OrderPending, true},
		{entity.OrderConfirmed, true},
		{entity.OrderProcessing, false},
		{entity.OrderShipped, false},
		{entity.OrderDelivered, false},
		{entity.OrderCancelled, false},
		{entity.OrderRefunded, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from), func(t *testing.T) {
			db := testDB(t)
			svc := newOrderService(db)
			buyer := makeUser(t, db, "buyer@example.com")
			seller := makeSeller(t, db, "seller@example.com")
			store := makeStore(t, db, seller, "trail-gear")
			o := makeOrder(t, db, buyer, store, tc.from, entity.PaymentPending)

			err := svc.Cancel(buyer.ID, o.ID)
			got := reload(t, db, o.ID)

			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, entity.OrderCancelled, got.Status)
				assert.NotNil(t, got.CancelledAt)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, tc.from, got.Status)
			}
		})
	}
}

func TestCancelOtherUsersOrder(t *testing.T) {
	db := testDB(t)
	svc := newOrderService(db)
	buyer := makeUser(t, db, "buyer@example.com")
	stranger := makeUser(t, db, "stranger@example.com")
	seller := makeSeller(t, db, "seller@example.com")
	store := makeStore(t, db, seller, "trail-gear")
	o := makeOrder(t, db, buyer, store, entity.OrderPending, entity.PaymentPending)

	err := svc.Cancel(stranger.ID, o.ID)
	assert.Error(t, err)
	assert.Equal(t, entity.OrderPending, reload(t, db, o.ID).Status)
}

func TestFulfillDecrementsTrackedInventory(t *testing.T) {
	db := testDB(t)
	svc := newOrderService(db)
	buyer := makeUser(t, db, "buyer@example.com")
	seller := makeSeller(t, db, "seller@example.com")
	store := makeStore(t, db, seller, "trail-gear")

	tracked := makeProduct(t, db, store, "TENT-1", 12000, 10)
	untracked := makeProduct(t, db, store, "STICKER-1", 300, 0)
	require.NoError(t, db.Model(untracked).Update("track_inventory", false).Error)

	o := makeOrder(t, db, buyer, store, entity.OrderConfirmed, entity.PaymentPaid)
	addOrderItem(t, db, o, tracked, 3)
	addOrderItem(t, db, o, untracked, 2)

	require.NoError(t, svc.Fulfill(seller.ID, o.ID))

	got := reload(t, db, o.ID)
	assert.Equal(t, entity.OrderProcessing, got.Status)
	assert.NotNil(t, got.FulfilledAt)
	assert.Equal(t, 7, reloadProduct(t, db, tracked.ID).Inventory)
	assert.Equal(t, 0, reloadProduct(t, db, untracked.ID).Inventory)
}

func TestFulfillRequiresConfirmedAndPaid(t *testing.T) {
	db := testDB(t)
	svc := newOrderService(db)
	buyer := makeUser(t, db, "buyer@example.com")
	seller := makeSeller(t, db, "seller@example.com")
	store := makeStore(t, db, seller, "trail-gear")

	unpaid := makeOrder(t, db, buyer, store, entity.OrderConfirmed, entity.PaymentPending)
	assert.ErrorIs(t, svc.Fulfill(seller.ID, unpaid.ID), ErrInvalidTransition)

	pending := makeOrder(t, db, buyer, store, entity.OrderPending, entity.PaymentPaid)
	assert.ErrorIs(t, svc.Fulfill(seller.ID, pending.ID), ErrInvalidTransition)
}

func TestFulfillForeignStore(t *testing.T) {
	db := testDB(t)
	svc := newOrderService(db)
	buyer := makeUser(t, db, "buyer@example.com")
	seller := makeSeller(t, db, "seller@example.com")
	other := makeSeller(t, db, "other@example.com")
	store := makeStore(t, db, seller, "trail-gear")
	o := makeOrder(t, db, buyer, store, entity.OrderConfirmed, entity.PaymentPaid)

	assert.ErrorIs(t, svc.Fulfill(other.ID, o.ID), ErrForbidden)
}

func TestFulfillSkipsExhaustedLine(t *testing.T) {
	db := testDB(t)
	svc := newOrderService(db)
	buyer := makeUser(t, db, "buyer@example.com")
	seller := makeSeller(t, db, "seller@example.com")
	store := makeStore(t, db, seller, "trail-gear")

	scarce := makeProduct(t, db, store, "TENT-1", 12000, 1)
	o := makeOrder(t, db, buyer, store, entity.OrderConfirmed, entity.PaymentPaid)
	addOrderItem(t, db, o, scarce, 3) // more than remains

	// fulfillment still succeeds; the line is skipped, stock never goes negative
	require.NoError(t, svc.Fulfill(seller.ID, o.ID))
	assert.Equal(t, entity.OrderProcessing, reload(t, db, o.ID).Status)
	assert.Equal(t, 1, reloadProduct(t, db, scarce.ID).Inventory)
}

func TestConfirmPaymentAppliesOnce(t *testing.T) {
	db := testDB(t)
	svc := newOrderService(db)
	buyer := makeUser(t, db, "buyer@example.com")
	seller := makeSeller(t, db, "seller@example.com")
	store := makeStore(t, db, seller, "trail-gear")
	o := makeOrder(t, db, buyer, store, entity.OrderPending, entity.PaymentPending)

	applied, err := svc.ConfirmPayment(o.ID)
	require.NoError(t, err)
	assert.True(t, applied)

	got := reload(t, db, o.ID)
	assert.Equal(t, entity.OrderConfirmed, got.Status)
	assert.Equal(t, entity.PaymentPaid, got.PaymentStatus)

	// webhook re-delivery: a no-op, not a double apply
	applied, err = svc.ConfirmPayment(o.ID)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, entity.OrderConfirmed, reload(t, db, o.ID).Status)
}

func TestConfirmPaymentConvergesFromProcessing(t *testing.T) {
	db := testDB(t)
	svc := newOrderService(db)
	buyer := makeUser(t, db, "buyer@example.com")
	seller := makeSeller(t, db, "seller@example.com")
	store := makeStore(t, db, seller, "trail-gear")
	// confirm-poll already marked the payment in-flight
	o := makeOrder(t, db, buyer, store, entity.OrderPending, entity.PaymentProcessing)

	applied, err := svc.ConfirmPayment(o.ID)
	require.NoError(t, err)
	assert.True(t, applied)

	got := reload(t, db, o.ID)
	assert.Equal(t, entity.OrderConfirmed, got.Status)
	assert.Equal(t, entity.PaymentPaid, got.PaymentStatus)
}

func TestMarkPaymentFailedKeepsOrderStatus(t *testing.T) {
	db := testDB(t)
	svc := newOrderService(db)
	buyer := makeUser(t, db, "buyer@example.com")
	seller := makeSeller(t, db, "seller@example.com")
	store := makeStore(t, db, seller, "trail-gear")
	o := makeOrder(t, db, buyer, store, entity.OrderPending, entity.PaymentPending)

	require.NoError(t, svc.MarkPaymentFailed(o.ID, "card declined"))

	got := reload(t, db, o.ID)
	assert.Equal(t, entity.OrderPending, got.Status) // buyer may retry payment
	assert.Equal(t, entity.PaymentFailed, got.PaymentStatus)
	assert.Contains(t, got.Notes, "card declined")
}

func TestMarkRefunded(t *testing.T) {
	db := testDB(t)
	svc := newOrderService(db)
	buyer := makeUser(t, db, "buyer@example.com")
	seller := makeSeller(t, db, "seller@example.com")
	store := makeStore(t, db, seller, "trail-gear")
	o := makeOrder(t, db, buyer, store, entity.OrderDelivered, entity.PaymentPaid)

	require.NoError(t, svc.MarkRefunded(o.ID))

	got := reload(t, db, o.ID)
	assert.Equal(t, entity.OrderRefunded, got.Status)
	assert.Equal(t, entity.PaymentRefunded, got.PaymentStatus)
}

func TestUpdateStatusSellerTargets(t *testing.T) {
	db := testDB(t)
	svc := newOrderService(db)
	buyer := makeUser(t, db, "buyer@example.com")
	seller := makeSeller(t, db, "seller@example.com")
	store := makeStore(t, db, seller, "trail-gear")

	o := makeOrder(t, db, buyer, store, entity.OrderProcessing, entity.PaymentPaid)
	require.NoError(t, svc.UpdateStatus(seller.ID, o.ID, entity.OrderShipped, "1Z999"))

	got := reload(t, db, o.ID)
	assert.Equal(t, entity.OrderShipped, got.Status)
	assert.Equal(t, "1Z999", got.TrackingNumber)
}

func TestUpdateStatusRejectsIllegalWrites(t *testing.T) {
	db := testDB(t)
	svc := newOrderService(db)
	buyer := makeUser(t, db, "buyer@example.com")
	seller := makeSeller(t, db, "seller@example.com")
	store := makeStore(t, db, seller, "trail-gear")

	// cancelled is not a seller-writable target
	o := makeOrder(t, db, buyer, store, entity.OrderProcessing, entity.PaymentPaid)
	assert.ErrorIs(t, svc.UpdateStatus(seller.ID, o.ID, entity.OrderCancelled, ""), ErrInvalidTransition)

	// terminal orders accept nothing
	done := makeOrder(t, db, buyer, store, entity.OrderCancelled, entity.PaymentPending)
	assert.ErrorIs(t, svc.UpdateStatus(seller.ID, done.ID, entity.OrderShipped, ""), ErrInvalidTransition)

	// a pending (unpaid) order cannot be shipped around the payment gate
	fresh := makeOrder(t, db, buyer, store, entity.OrderPending, entity.PaymentPending)
	assert.ErrorIs(t, svc.UpdateStatus(seller.ID, fresh.ID, entity.OrderShipped, ""), ErrInvalidTransition)
}
