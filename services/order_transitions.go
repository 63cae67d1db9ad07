// services/order_transitions.go
package services

import (
	"fmt"
	"log"
	"time"

	"github.com/Dhallagan/indieout-marketplace-sub001/entity"

	"gorm.io/gorm"
)

// DecrementOnFulfillment is the inventory policy: stock is taken when the
// seller fulfills, not when the order is placed. Unpaid orders can therefore
// overcommit the same stock; the conditional decrement below is what keeps a
// lost race from driving inventory negative.
const DecrementOnFulfillment = true

// cancellableFrom is the closed set of statuses a buyer may cancel out of.
// Inventory needs no revert on cancel: nothing was decremented yet.
var cancellableFrom = map[entity.OrderStatus]bool{
	entity.OrderPending:   true,
	entity.OrderConfirmed: true,
}

// sellerTargets are the manual transitions a seller may write directly.
// The ordering is deliberately permissive; sellers are trusted actors.
var sellerTargets = map[entity.OrderStatus]bool{
	entity.OrderProcessing: true,
	entity.OrderShipped:    true,
	entity.OrderDelivered:  true,
}

// ----- Buyer: cancel -----

// Cancel returns ErrInvalidTransition when the order has moved past the
// cancellable window or a concurrent writer got there first.
func (s *OrderService) Cancel(userID, orderID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		o, err := s.Repo.GetOrderForUser(userID, orderID)
		if err != nil {
			return err
		}
		if !cancellableFrom[o.Status] {
			return ErrInvalidTransition
		}

		affected, err := s.Repo.UpdateStatusGuard(tx, o.ID, o.Status, entity.OrderCancelled,
			map[string]any{"cancelled_at": time.Now()})
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrInvalidTransition
		}
		return nil
	})
}

// ----- Seller: fulfill -----

// Fulfill moves a paid, confirmed order to processing and applies the
// DecrementOnFulfillment policy: every tracked line decrements product
// inventory by its quantity, but a line whose stock ran out in the meantime
// is skipped silently rather than failing the whole fulfillment.
func (s *OrderService) Fulfill(sellerID, orderID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		o, err := s.Repo.GetOrder(orderID)
		if err != nil {
			return err
		}
		if err := s.ownerCheck(o.StoreID, sellerID); err != nil {
			return err
		}

		// status AND payment guard in one conditional write
		res := tx.Model(&entity.Order{}).
			Where("id = ? AND status = ? AND payment_status = ?",
				o.ID, entity.OrderConfirmed, entity.PaymentPaid).
			Updates(map[string]any{
				"status":       entity.OrderProcessing,
				"fulfilled_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		items, err := s.Repo.GetOrderItems(o.ID)
		if err != nil {
			return err
		}
		for _, it := range items {
			// false return = untracked product or insufficient stock; skip
			took, err := s.Repo.DecrementInventory(tx, it.ProductID, it.Quantity)
			if err != nil {
				return err
			}
			if !took {
				continue
			}
			var p entity.Product
			if err := tx.First(&p, it.ProductID).Error; err == nil && p.LowStock() {
				log.Printf("low stock: product %d (%s) down to %d", p.ID, p.SKU, p.Inventory)
			}
		}
		return nil
	})
}

// ----- Payment-driven: confirm -----

// ConfirmPayment is driven by the payment orchestrator (webhook or confirm
// polling), never by the client directly. It only applies while payment is
// still pending, so re-delivery of the same processor event is a safe no-op;
// the bool reports whether this call was the one that applied it.
func (s *OrderService) ConfirmPayment(orderID uint) (bool, error) {
	applied := false
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		n, err := s.Repo.UpdatePaymentStatusGuard(tx, orderID, entity.PaymentPending, entity.PaymentPaid, nil)
		if err != nil {
			return err
		}
		if n == 0 {
			// also converge from processing (confirm-poll marked it first)
			n, err = s.Repo.UpdatePaymentStatusGuard(tx, orderID, entity.PaymentProcessing, entity.PaymentPaid, nil)
			if err != nil {
				return err
			}
			if n == 0 {
				return nil
			}
		}
		if _, err := s.Repo.UpdateStatusGuard(tx, orderID, entity.OrderPending, entity.OrderConfirmed, nil); err != nil {
			return err
		}
		applied = true
		return nil
	})
	return applied, err
}

// MarkPaymentFailed records the processor's failure reason in the order notes
// without touching the order status.
func (s *OrderService) MarkPaymentFailed(orderID uint, reason string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		o, err := s.Repo.GetOrder(orderID)
		if err != nil {
			return err
		}
		note := "payment failed"
		if reason != "" {
			note = fmt.Sprintf("payment failed: %s", reason)
		}
		return tx.Model(&entity.Order{}).Where("id = ?", o.ID).Updates(map[string]any{
			"payment_status": entity.PaymentFailed,
			"notes":          appendNote(o.Notes, note),
		}).Error
	})
}

// MarkRefunded applies a full refund: both statuses flip to refunded.
func (s *OrderService) MarkRefunded(orderID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&entity.Order{}).Where("id = ?", orderID).Updates(map[string]any{
			"status":         entity.OrderRefunded,
			"payment_status": entity.PaymentRefunded,
		}).Error
	})
}

// NotePartialRefund records a partial refund without any state transition.
func (s *OrderService) NotePartialRefund(orderID uint, amountRefunded int64) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		o, err := s.Repo.GetOrder(orderID)
		if err != nil {
			return err
		}
		note := fmt.Sprintf("partial refund of %d received", amountRefunded)
		return tx.Model(&entity.Order{}).Where("id = ?", o.ID).
			Update("notes", appendNote(o.Notes, note)).Error
	})
}

// ----- Seller: manual status writes -----

// UpdateStatus is the seller-facing direct write for processing/shipped/
// delivered. Shipped accepts an optional tracking number and notifies the
// buyer-facing channel for the store.
func (s *OrderService) UpdateStatus(sellerID, orderID uint, to entity.OrderStatus, trackingNumber string) error {
	if !sellerTargets[to] {
		return ErrInvalidTransition
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		o, err := s.Repo.GetOrder(orderID)
		if err != nil {
			return err
		}
		if err := s.ownerCheck(o.StoreID, sellerID); err != nil {
			return err
		}
		if o.Status.Terminal() || o.Status == entity.OrderPending {
			return ErrInvalidTransition
		}

		updates := map[string]any{"status": to}
		if to == entity.OrderShipped && trackingNumber != "" {
			updates["tracking_number"] = trackingNumber
		}
		if err := tx.Model(&entity.Order{}).Where("id = ?", o.ID).Updates(updates).Error; err != nil {
			return err
		}

		if to == entity.OrderShipped && s.Notifier != nil {
			s.Notifier.NotifyStore(o.StoreID, "order.shipped", map[string]any{
				"orderId":        o.ID,
				"orderNumber":    o.OrderNumber,
				"trackingNumber": trackingNumber,
			})
		}
		return nil
	})
}

func appendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + "\n" + note
}
