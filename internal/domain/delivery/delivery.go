// Package delivery holds the fulfillment record domain types.
package delivery

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested delivery does not exist.
var ErrNotFound = errors.New("delivery not found")

// Status is the progress of a single delivery run. It reuses the order
// status value domain, but the two fields are tracked independently and
// never reconciled automatically.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether s is one of the known delivery statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Delivery is a fulfillment record (driver, status) against an order. An
// order may carry multiple deliveries, e.g. re-dispatch after a failed run.
type Delivery struct {
	ID          int64  `json:"delivery_id"`
	OrderID     int64  `json:"order_id"`
	DriverName  string `json:"driver_name,omitempty"`
	DriverPhone string `json:"driver_phone,omitempty"`
	Status      Status `json:"delivery_status"`
	// DeliveryDate is set once the parcel is handed over; nil while pending.
	DeliveryDate *time.Time `json:"delivery_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Update holds the mutable fields of a delivery.
type Update struct {
	DriverName   *string
	DriverPhone  *string
	Status       *Status
	DeliveryDate *time.Time
}

// Repository defines persistence operations for deliveries.
type Repository interface {
	Create(ctx context.Context, d *Delivery) error
	GetByID(ctx context.Context, id int64) (*Delivery, error)
	List(ctx context.Context) ([]Delivery, error)
	ListByOrder(ctx context.Context, orderID int64) ([]Delivery, error)
	Update(ctx context.Context, id int64, upd Update) error
	UpdateStatus(ctx context.Context, id int64, status Status) error
	Delete(ctx context.Context, id int64) error
}
