package services

import (
	"errors"
	"strings"
	"time"

	"github.com/Dhallagan/indieout-marketplace-sub001/entity"
	"github.com/Dhallagan/indieout-marketplace-sub001/repository"
	"github.com/Dhallagan/indieout-marketplace-sub001/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CheckoutService is the order splitter: it turns a cart (or a guest's item
// list) into one persisted order per store, each in its own transaction.
type CheckoutService struct {
	DB          *gorm.DB
	OrderRepo   *repository.OrderRepository
	CartRepo    *repository.CartRepository
	ProductRepo *repository.ProductRepository
	UserRepo    *repository.UserRepository
	Notifier    OrderNotifier
}

func NewCheckoutService(
	db *gorm.DB,
	or *repository.OrderRepository,
	cr *repository.CartRepository,
	pr *repository.ProductRepository,
	ur *repository.UserRepository,
	notifier OrderNotifier,
) *CheckoutService {
	return &CheckoutService{DB: db, OrderRepo: or, CartRepo: cr, ProductRepo: pr, UserRepo: ur, Notifier: notifier}
}

// ----- DTOs (json keys are the public API contract) -----

type AddressIn struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address1   string `json:"address1"`
	Address2   string `json:"address2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

func (a *AddressIn) snapshot() entity.OrderAddress {
	return entity.OrderAddress(*a)
}

// Complete reports whether every required field is present. Checkout fails
// fast on the first incomplete address, before any order exists.
func (a *AddressIn) Complete() bool {
	required := []string{a.FirstName, a.LastName, a.Email, a.Address1, a.City, a.State, a.PostalCode, a.Country}
	for _, f := range required {
		if strings.TrimSpace(f) == "" {
			return false
		}
	}
	return true
}

type CheckoutItemIn struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type CheckoutReq struct {
	ShippingAddress AddressIn  `json:"shipping_address" binding:"required"`
	BillingAddress  *AddressIn `json:"billing_address"`
	PaymentMethod   string     `json:"payment_method"`
}

type GuestCheckoutReq struct {
	Email           string           `json:"email" binding:"required,email"`
	CartItems       []CheckoutItemIn `json:"cart_items" binding:"required,min=1"`
	ShippingAddress AddressIn        `json:"shipping_address" binding:"required"`
	BillingAddress  *AddressIn       `json:"billing_address"`
	PaymentMethod   string           `json:"payment_method"`
}

// checkoutLine is a validated (product, qty) pair ready to be ordered.
type checkoutLine struct {
	product entity.Product
	qty     int
}

// ----- Authenticated path -----

// CheckoutFromCart creates orders from the user's cart. The cart is cleared
// only after every per-store transaction committed.
func (s *CheckoutService) CheckoutFromCart(userID uint, req *CheckoutReq) ([]entity.Order, error) {
	if !req.ShippingAddress.Complete() {
		return nil, ErrAddressIncomplete
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	cart, err := s.CartRepo.GetForUser(userID)
	if err != nil {
		return nil, err
	}
	if cart.ID == 0 || len(cart.Items) == 0 || cart.Expired(time.Now()) {
		return nil, ErrCartEmpty
	}

	lines := make([]checkoutLine, 0, len(cart.Items))
	for _, it := range cart.Items {
		lines = append(lines, checkoutLine{product: it.Product, qty: it.Quantity})
	}

	cartID := cart.ID
	orders, err := s.createOrders(user, lines, req.ShippingAddress, req.BillingAddress, req.PaymentMethod, &cartID)
	if err != nil {
		return orders, err
	}

	// all store legs committed — now it is safe to empty the cart
	if err := s.DB.Transaction(func(tx *gorm.DB) error {
		return s.CartRepo.Clear(tx, cart.ID)
	}); err != nil {
		return orders, err
	}
	return orders, nil
}

// ----- Guest path -----

// GuestCheckout provisions (or reuses) a user for the guest's email and then
// runs the same split. New guest users get an unguessable password and stay
// unverified until they claim the account.
func (s *CheckoutService) GuestCheckout(req *GuestCheckoutReq) ([]entity.Order, error) {
	if len(req.CartItems) == 0 {
		return nil, ErrCartEmpty
	}
	if !req.ShippingAddress.Complete() {
		return nil, ErrAddressIncomplete
	}

	user, err := s.resolveGuestUser(req.Email)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(req.CartItems))
	want := make(map[uint]int, len(req.CartItems))
	for _, it := range req.CartItems {
		ids = append(ids, it.ProductID)
		want[it.ProductID] += it.Quantity
	}
	products, err := s.ProductRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(products) != len(want) {
		return nil, gorm.ErrRecordNotFound
	}

	lines := make([]checkoutLine, 0, len(products))
	for _, p := range products {
		lines = append(lines, checkoutLine{product: p, qty: want[p.ID]})
	}

	return s.createOrders(user, lines, req.ShippingAddress, req.BillingAddress, req.PaymentMethod, nil)
}

func (s *CheckoutService) resolveGuestUser(email string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.UserRepo.FindByEmail(email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user = &entity.User{
		Email:         email,
		Password:      string(hashed),
		Role:          "customer",
		EmailVerified: false,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ----- The split itself -----

// createOrders runs the shared pipeline: inventory guard, partition by store,
// then one transaction per store. A leg that fails does NOT roll back the
// legs that already committed; the PartialCheckoutError carries what exists.
func (s *CheckoutService) createOrders(
	user *entity.User,
	lines []checkoutLine,
	ship AddressIn,
	bill *AddressIn,
	paymentMethod string,
	cartID *uint,
) ([]entity.Order, error) {
	// pre-flight stock check, all shortages at once, no side effects yet
	reqs := make([]StockRequest, 0, len(lines))
	for _, l := range lines {
		reqs = append(reqs, StockRequest{Product: l.product, Quantity: l.qty})
	}
	if shortages := CheckInventory(reqs); len(shortages) > 0 {
		return nil, &ShortageError{Items: shortages}
	}

	// partition by owning store, keeping first-seen store order stable
	byStore := make(map[uint][]checkoutLine)
	storeOrder := make([]uint, 0)
	for _, l := range lines {
		if _, seen := byStore[l.product.StoreID]; !seen {
			storeOrder = append(storeOrder, l.product.StoreID)
		}
		byStore[l.product.StoreID] = append(byStore[l.product.StoreID], l)
	}

	group := &entity.CheckoutGroup{UserID: user.ID, CartID: cartID}
	if err := s.OrderRepo.CreateCheckoutGroup(group); err != nil {
		return nil, err
	}

	shipSnap := ship.snapshot()
	var billSnap *entity.OrderAddress
	if bill != nil {
		snap := bill.snapshot()
		billSnap = &snap
	}

	created := make([]entity.Order, 0, len(storeOrder))
	for _, storeID := range storeOrder {
		storeLines := byStore[storeID]

		var order entity.Order
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			order = entity.Order{
				Status:          entity.OrderPending,
				PaymentStatus:   entity.PaymentPending,
				ShippingAddress: shipSnap,
				BillingAddress:  billSnap,
				PaymentMethod:   paymentMethod,
				UserID:          user.ID,
				StoreID:         storeID,
				CheckoutGroupID: &group.ID,
			}
			if err := s.createWithNumber(tx, &order); err != nil {
				return err
			}

			for _, l := range storeLines {
				oi := entity.OrderItem{
					OrderID:    order.ID,
					ProductID:  l.product.ID,
					Quantity:   l.qty,
					UnitPrice:  l.product.BasePrice,
					TotalPrice: l.product.BasePrice * int64(l.qty),
					ProductSnapshot: entity.ProductSnapshot{
						Name:        l.product.Name,
						SKU:         l.product.SKU,
						Description: l.product.Description,
						Price:       l.product.BasePrice,
						Image:       l.product.Image,
					},
				}
				if err := s.OrderRepo.CreateOrderItem(tx, &oi); err != nil {
					return err
				}
				order.Items = append(order.Items, oi)
			}

			ApplyTotals(&order)
			return s.OrderRepo.SaveOrder(tx, &order)
		})
		if err != nil {
			return created, &PartialCheckoutError{Created: created, StoreID: storeID, Err: err}
		}

		created = append(created, order)
		if s.Notifier != nil {
			s.Notifier.NotifyStore(storeID, "order.created", map[string]any{
				"orderId":     order.ID,
				"orderNumber": order.OrderNumber,
				"totalAmount": order.TotalAmount,
			})
		}
	}

	return created, nil
}

// createWithNumber assigns a fresh order number and retries on the (rare)
// suffix collision.
func (s *CheckoutService) createWithNumber(tx *gorm.DB, o *entity.Order) error {
	var err error
	for attempt := 0; attempt < 5; attempt++ {
		o.OrderNumber = utils.NewOrderNumber(time.Now())
		err = s.OrderRepo.CreateOrder(tx, o)
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return err
		}
	}
	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
