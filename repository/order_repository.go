package repository

import (
	"strings"
	"time"

	"github.com/Dhallagan/indieout-marketplace-sub001/entity"

	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// ---------------- Orders ----------------

func (r *OrderRepository) CreateOrder(tx *gorm.DB, o *entity.Order) error {
	return tx.Create(o).Error
}

func (r *OrderRepository) SaveOrder(tx *gorm.DB, o *entity.Order) error {
	return tx.Save(o).Error
}

func (r *OrderRepository) GetOrder(orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.First(&o, orderID).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetOrderForUser(userID, orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.Where("id = ? AND user_id = ?", orderID, userID).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// GetOrderByNumber matches on both number and owner email so a wrong email
// behaves exactly like a missing order.
func (r *OrderRepository) GetOrderByNumber(orderNumber, email string) (*entity.Order, error) {
	var o entity.Order
	err := r.DB.
		Joins("JOIN users u ON u.id = orders.user_id").
		Where("orders.order_number = ? AND u.email = ?", orderNumber, strings.ToLower(strings.TrimSpace(email))).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetOrderByPaymentReference resolves webhook events back to an order.
func (r *OrderRepository) GetOrderByPaymentReference(ref string) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.Where("payment_reference = ?", ref).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

type OrderSummary struct {
	ID            uint                 `json:"id"`
	OrderNumber   string               `json:"orderNumber"`
	StoreID       uint                 `json:"storeId"`
	TotalAmount   int64                `json:"totalAmount"`
	Status        entity.OrderStatus   `json:"status"`
	PaymentStatus entity.PaymentStatus `json:"paymentStatus"`
	CreatedAt     time.Time            `json:"createdAt"`
}

func (r *OrderRepository) ListOrdersForUser(userID uint, limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []OrderSummary
	err := r.DB.Model(&entity.Order{}).
		Select("id, order_number, store_id, total_amount, status, payment_status, created_at").
		Where("user_id = ?", userID).
		Order("id DESC").Limit(limit).
		Scan(&out).Error
	return out, err
}

type SellerOrderSummary struct {
	ID            uint                 `json:"id"`
	OrderNumber   string               `json:"orderNumber"`
	UserID        uint                 `json:"userId"`
	CustomerName  string               `json:"customerName"`
	TotalAmount   int64                `json:"totalAmount"`
	Status        entity.OrderStatus   `json:"status"`
	PaymentStatus entity.PaymentStatus `json:"paymentStatus"`
	CreatedAt     time.Time            `json:"createdAt"`
}

func (r *OrderRepository) ListOrdersForStore(storeID uint, status entity.OrderStatus, page, limit int) ([]SellerOrderSummary, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	offset := (page - 1) * limit

	var total int64
	dbCount := r.DB.Table("orders AS o").
		Where("o.store_id = ? AND o.deleted_at IS NULL", storeID)
	if status != "" {
		dbCount = dbCount.Where("o.status = ?", status)
	}
	if err := dbCount.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// join users for the customer name
	var rows []struct {
		ID            uint
		OrderNumber   string
		UserID        uint
		TotalAmount   int64
		Status        entity.OrderStatus
		PaymentStatus entity.PaymentStatus
		CreatedAt     time.Time
		FirstName     string
		LastName      string
	}
	db := r.DB.Table("orders AS o").
		Select("o.id, o.order_number, o.user_id, o.total_amount, o.status, o.payment_status, o.created_at, u.first_name, u.last_name").
		Joins("JOIN users u ON u.id = o.user_id").
		Where("o.store_id = ? AND o.deleted_at IS NULL", storeID)
	if status != "" {
		db = db.Where("o.status = ?", status)
	}
	if err := db.Order("o.id DESC").Limit(limit).Offset(offset).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]SellerOrderSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, SellerOrderSummary{
			ID:            row.ID,
			OrderNumber:   row.OrderNumber,
			UserID:        row.UserID,
			CustomerName:  strings.TrimSpace(row.FirstName + " " + row.LastName),
			TotalAmount:   row.TotalAmount,
			Status:        row.Status,
			PaymentStatus: row.PaymentStatus,
			CreatedAt:     row.CreatedAt,
		})
	}
	return out, total, nil
}

func (r *OrderRepository) GetOrderForStore(storeID, orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.Where("id = ? AND store_id = ?", orderID, storeID).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateStatusGuard flips status only when the order is still in `from`;
// RowsAffected == 0 means an illegal transition or a concurrent writer won.
func (r *OrderRepository) UpdateStatusGuard(tx *gorm.DB, orderID uint, from, to entity.OrderStatus, extra map[string]any) (int64, error) {
	updates := map[string]any{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// UpdatePaymentStatusGuard is the payment-side twin; it is what makes webhook
// re-delivery and confirm polling converge instead of double-applying.
func (r *OrderRepository) UpdatePaymentStatusGuard(tx *gorm.DB, orderID uint, from, to entity.PaymentStatus, extra map[string]any) (int64, error) {
	updates := map[string]any{"payment_status": to}
	for k, v := range extra {
		updates[k] = v
	}
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND payment_status = ?", orderID, from).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// ---------------- Order Items ----------------

func (r *OrderRepository) CreateOrderItem(tx *gorm.DB, oi *entity.OrderItem) error {
	return tx.Create(oi).Error
}

func (r *OrderRepository) GetOrderItems(orderID uint) ([]entity.OrderItem, error) {
	var items []entity.OrderItem
	err := r.DB.Where("order_id = ?", orderID).Find(&items).Error
	return items, err
}

// ---------------- Inventory ----------------

// DecrementInventory takes stock only when enough remains at this instant;
// the conditional UPDATE makes the per-line skip race-safe.
func (r *OrderRepository) DecrementInventory(tx *gorm.DB, productID uint, qty int) (bool, error) {
	res := tx.Model(&entity.Product{}).
		Where("id = ? AND track_inventory = ? AND inventory >= ?", productID, true, qty).
		Update("inventory", gorm.Expr("inventory - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ---------------- Checkout groups ----------------

func (r *OrderRepository) CreateCheckoutGroup(g *entity.CheckoutGroup) error {
	return r.DB.Create(g).Error
}
