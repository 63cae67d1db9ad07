package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/Dhallagan/indieout-marketplace-sub001/entity"
	"github.com/Dhallagan/indieout-marketplace-sub001/repository"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/customer"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/webhook"
	"gorm.io/gorm"
)

// PaymentService talks to Stripe and reconciles its asynchronous events back
// into order state. All reconciliation goes through the guarded transitions
// on OrderService, so webhook re-delivery and confirm polling converge.
type PaymentService struct {
	DB            *gorm.DB
	OrderRepo     *repository.OrderRepository
	UserRepo      *repository.UserRepository
	Orders        *OrderService
	WebhookSecret string
}

func NewPaymentService(db *gorm.DB, or *repository.OrderRepository, ur *repository.UserRepository, orders *OrderService, secretKey, webhookSecret string) *PaymentService {
	stripe.Key = secretKey
	return &PaymentService{DB: db, OrderRepo: or, UserRepo: ur, Orders: orders, WebhookSecret: webhookSecret}
}

// ----- Intent creation -----

type IntentOut struct {
	ClientSecret    string `json:"client_secret"`
	PaymentIntentID string `json:"payment_intent_id"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
}

// CreateIntent creates a processor-side payment intent for a pending order
// and persists the intent id as the order's payment reference. The returned
// client secret is what the frontend needs to complete payment.
func (s *PaymentService) CreateIntent(userID, orderID uint) (*IntentOut, error) {
	o, err := s.OrderRepo.GetOrderForUser(userID, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != entity.OrderPending {
		return nil, ErrOrderNotPending
	}

	u, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	custID, err := s.ensureCustomer(u)
	if err != nil {
		return nil, &PaymentError{Op: "customer", Err: err}
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(o.TotalAmount),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		Customer: stripe.String(custID),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Shipping: &stripe.ShippingDetailsParams{
			Name: stripe.String(o.ShippingAddress.FirstName + " " + o.ShippingAddress.LastName),
			Address: &stripe.AddressParams{
				Line1:      stripe.String(o.ShippingAddress.Address1),
				Line2:      stripe.String(o.ShippingAddress.Address2),
				City:       stripe.String(o.ShippingAddress.City),
				State:      stripe.String(o.ShippingAddress.State),
				PostalCode: stripe.String(o.ShippingAddress.PostalCode),
				Country:    stripe.String(o.ShippingAddress.Country),
			},
		},
	}
	params.AddMetadata("order_id", fmt.Sprintf("%d", o.ID))
	params.AddMetadata("order_number", o.OrderNumber)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, &PaymentError{Op: "create_intent", Err: err}
	}

	if err := s.DB.Model(&entity.Order{}).Where("id = ?", o.ID).
		Update("payment_reference", pi.ID).Error; err != nil {
		return nil, err
	}

	return &IntentOut{
		ClientSecret:    pi.ClientSecret,
		PaymentIntentID: pi.ID,
		Amount:          o.TotalAmount,
		Currency:        string(stripe.CurrencyUSD),
	}, nil
}

// ensureCustomer finds-or-creates the Stripe customer for a user and caches
// the id on the user row.
func (s *PaymentService) ensureCustomer(u *entity.User) (string, error) {
	if u.StripeCustomerID != "" {
		return u.StripeCustomerID, nil
	}
	params := &stripe.CustomerParams{
		Email: stripe.String(u.Email),
		Name:  stripe.String(u.FirstName + " " + u.LastName),
	}
	params.AddMetadata("user_id", fmt.Sprintf("%d", u.ID))
	cust, err := customer.New(params)
	if err != nil {
		return "", err
	}
	if err := s.UserRepo.SetStripeCustomerID(u.ID, cust.ID); err != nil {
		return "", err
	}
	return cust.ID, nil
}

// ----- Confirm polling -----

type ConfirmOut struct {
	Status  string `json:"status"`
	Paid    bool   `json:"paid"`
	Message string `json:"message,omitempty"`
}

// Confirm polls the processor for the intent's current status. Succeeded here
// and the webhook racing each other is fine: ConfirmPayment only applies once.
func (s *PaymentService) Confirm(userID, orderID uint) (*ConfirmOut, error) {
	o, err := s.OrderRepo.GetOrderForUser(userID, orderID)
	if err != nil {
		return nil, err
	}
	if o.PaymentReference == "" {
		return nil, &PaymentError{Op: "confirm", Err: errors.New("no payment intent for order")}
	}

	pi, err := paymentintent.Get(o.PaymentReference, nil)
	if err != nil {
		return nil, &PaymentError{Op: "confirm", Err: err}
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		if _, err := s.Orders.ConfirmPayment(o.ID); err != nil {
			return nil, err
		}
		return &ConfirmOut{Status: "succeeded", Paid: true}, nil

	case stripe.PaymentIntentStatusProcessing:
		// mark in-flight; the webhook will land the terminal state
		if _, err := s.OrderRepo.UpdatePaymentStatusGuard(s.DB, o.ID,
			entity.PaymentPending, entity.PaymentProcessing, nil); err != nil {
			return nil, err
		}
		return &ConfirmOut{Status: "processing", Paid: false}, nil

	case stripe.PaymentIntentStatusRequiresPaymentMethod:
		return &ConfirmOut{Status: "failed", Paid: false, Message: "payment method required"}, nil

	case stripe.PaymentIntentStatusRequiresAction:
		return &ConfirmOut{Status: "failed", Paid: false, Message: "additional authentication required"}, nil

	default:
		return &ConfirmOut{Status: "failed", Paid: false, Message: "payment not completed"}, nil
	}
}

// ----- Webhook reconciliation -----

// VerifyWebhook checks the processor signature before anything is parsed.
func (s *PaymentService) VerifyWebhook(payload []byte, signature string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, signature, s.WebhookSecret)
}

// HandleEvent applies one verified processor event. Delivery is at-least-once
// and out-of-order, so every branch re-derives current state instead of
// overwriting blindly. A missing order is acknowledged (nil) — failing would
// only make the processor retry a stale or test event forever. Only a payload
// we cannot parse is an error (ErrMalformedEvent → 400).
func (s *PaymentService) HandleEvent(event stripe.Event) error {
	switch event.Type {
	case "payment_intent.succeeded":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return ErrMalformedEvent
		}
		o, err := s.OrderRepo.GetOrderByPaymentReference(pi.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("webhook: no order for intent %s", pi.ID)
				return nil
			}
			return err
		}
		applied, err := s.Orders.ConfirmPayment(o.ID)
		if err != nil {
			return err
		}
		if !applied {
			log.Printf("webhook: intent %s already reconciled", pi.ID)
		}
		return nil

	case "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return ErrMalformedEvent
		}
		o, err := s.OrderRepo.GetOrderByPaymentReference(pi.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		reason := ""
		if pi.LastPaymentError != nil {
			reason = pi.LastPaymentError.Msg
		}
		return s.Orders.MarkPaymentFailed(o.ID, reason)

	case "charge.refunded":
		var ch stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &ch); err != nil {
			return ErrMalformedEvent
		}
		if ch.PaymentIntent == nil || ch.PaymentIntent.ID == "" {
			return nil
		}
		o, err := s.OrderRepo.GetOrderByPaymentReference(ch.PaymentIntent.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if ch.AmountRefunded >= ch.Amount {
			return s.Orders.MarkRefunded(o.ID)
		}
		return s.Orders.NotePartialRefund(o.ID, ch.AmountRefunded)

	default:
		// acknowledged and ignored
		return nil
	}
}
