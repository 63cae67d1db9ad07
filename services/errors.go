package services

import (
	"errors"
	"fmt"

	"github.com/Dhallagan/indieout-marketplace-sub001/entity"
)

var (
	ErrCartEmpty         = errors.New("cart is empty")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid_or_conflict")
	ErrOrderNotPending   = errors.New("order is not pending")
	ErrAddressIncomplete = errors.New("shipping address is incomplete")
	ErrMalformedEvent    = errors.New("malformed webhook payload")
)

// StockError reports how many units are actually available when an add-to-cart
// asks for more than a tracked product has.
type StockError struct {
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient inventory, %d available", e.Available)
}

// ShortageError aborts a checkout before any order is created. Items carries
// the full shortage list so the caller can report every problem at once.
type ShortageError struct {
	Items []InventoryShortage
}

func (e *ShortageError) Error() string {
	return fmt.Sprintf("insufficient inventory for %d item(s)", len(e.Items))
}

// PaymentError wraps processor failures so controllers can answer 422 instead
// of leaking transport errors.
type PaymentError struct {
	Op  string
	Err error
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment %s failed: %v", e.Op, e.Err)
}

func (e *PaymentError) Unwrap() error { return e.Err }

// PartialCheckoutError surfaces a mixed-store checkout where some per-store
// transactions committed before one failed. The committed orders remain; the
// caller reconciles from Created.
type PartialCheckoutError struct {
	Created []entity.Order
	StoreID uint
	Err     error
}

func (e *PartialCheckoutError) Error() string {
	return fmt.Sprintf("checkout failed for store %d after %d order(s) were created: %v",
		e.StoreID, len(e.Created), e.Err)
}

func (e *PartialCheckoutError) Unwrap() error { return e.Err }
