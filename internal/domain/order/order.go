// Package order holds the order aggregate types and the order lifecycle
// coordinator.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/novamart/novamart-api/internal/domain/delivery"
	"github.com/novamart/novamart-api/internal/domain/payment"
	"github.com/novamart/novamart-api/internal/domain/product"
	"github.com/novamart/novamart-api/internal/domain/user"
)

var (
	// ErrNotFound is returned when a requested order does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrInvalidReference is returned when an order or item references a
	// user or product row that does not exist.
	ErrInvalidReference = errors.New("referenced user or product does not exist")
)

// Status is the fulfillment progress of an order. Deliveries reuse this
// value domain for their own status field.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether s is one of the known order statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// PaymentStatus mirrors the payment status value domain on the order row.
// It is a caller-settable field, not a projection of the order's payment
// rows: the two can drift and no component reconciles them.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Valid reports whether s is one of the known payment statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// DeliveryMethod selects between customer pickup and courier delivery.
type DeliveryMethod string

const (
	MethodPickup   DeliveryMethod = "pickup"
	MethodDelivery DeliveryMethod = "delivery"
)

// Valid reports whether m is one of the known delivery methods.
func (m DeliveryMethod) Valid() bool {
	return m == MethodPickup || m == MethodDelivery
}

// Order is a purchase transaction by a user, aggregating line items,
// payments, and deliveries. The nested slices are populated only by the
// expanded read paths.
type Order struct {
	ID              int64           `json:"order_id"`
	UserID          int64           `json:"user_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          Status          `json:"order_status"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	DeliveryMethod  DeliveryMethod  `json:"delivery_method"`
	DeliveryAddress string          `json:"delivery_address,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	User       *user.User          `json:"user,omitempty"`
	Items      []Item              `json:"items,omitempty"`
	Payments   []payment.Payment   `json:"payments,omitempty"`
	Deliveries []delivery.Delivery `json:"deliveries,omitempty"`
}

// Item is a line item snapshotting a product's price at order time.
type Item struct {
	ID        int64           `json:"order_item_id"`
	OrderID   int64           `json:"order_id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`

	Product *product.Product `json:"product,omitempty"`
}

// Update holds the mutable fields of an order.
type Update struct {
	TotalAmount     *decimal.Decimal
	Status          *Status
	PaymentStatus   *PaymentStatus
	DeliveryMethod  *DeliveryMethod
	DeliveryAddress *string
}

// Repository defines persistence operations for orders and their line items.
// CreateWithItems must insert the order row and every item row in a single
// database transaction: either all rows land or none do.
type Repository interface {
	CreateWithItems(ctx context.Context, o *Order, items []Item) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	ListByUser(ctx context.Context, userID int64) ([]Order, error)
	ListByStatus(ctx context.Context, status Status) ([]Order, error)
	Update(ctx context.Context, id int64, upd Update) error
	Delete(ctx context.Context, id int64) error
}

// ItemRepository defines persistence operations for standalone line item
// management outside the order creation transaction.
type ItemRepository interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id int64) (*Item, error)
	List(ctx context.Context) ([]Item, error)
	ListByOrder(ctx context.Context, orderID int64) ([]Item, error)
	ListByProduct(ctx context.Context, productID int64) ([]Item, error)
	Update(ctx context.Context, id int64, upd ItemUpdate) error
	Delete(ctx context.Context, id int64) error
}

// ItemUpdate holds the mutable fields of a line item.
type ItemUpdate struct {
	Quantity *int
	Price    *decimal.Decimal
}

// ErrItemNotFound is returned when a requested line item does not exist.
var ErrItemNotFound = errors.New("order item not found")
