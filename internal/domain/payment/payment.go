// Package payment holds the payment domain types. An order may carry any
// number of payments (retries, partial payments, refunds); the payment's
// status is independent from the parent order's payment_status field and is
// never synced to it automatically.
package payment

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested payment does not exist.
var ErrNotFound = errors.New("payment not found")

// Status is the settlement state of a single payment.
type Status string

const (
	StatusPending  Status = "pending"
	StatusPaid     Status = "paid"
	StatusFailed   Status = "failed"
	StatusRefunded Status = "refunded"
)

// Valid reports whether s is one of the known payment statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusFailed, StatusRefunded:
		return true
	}
	return false
}

// Payment is a monetary transaction record against an order.
type Payment struct {
	ID            int64           `json:"payment_id"`
	OrderID       int64           `json:"order_id"`
	Amount        decimal.Decimal `json:"amount"`
	Status        Status          `json:"payment_status"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Method        string          `json:"payment_method,omitempty"`
	PaymentDate   time.Time       `json:"payment_date"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Update holds the mutable fields of a payment.
type Update struct {
	Amount        *decimal.Decimal
	Status        *Status
	TransactionID *string
	Method        *string
	PaymentDate   *time.Time
}

// Repository defines persistence operations for payments.
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id int64) (*Payment, error)
	List(ctx context.Context) ([]Payment, error)
	ListByOrder(ctx context.Context, orderID int64) ([]Payment, error)
	Update(ctx context.Context, id int64, upd Update) error
	UpdateStatus(ctx context.Context, id int64, status Status) error
	Delete(ctx context.Context, id int64) error
}
