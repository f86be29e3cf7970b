package order

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/novamart/novamart-api/internal/domain/delivery"
	"github.com/novamart/novamart-api/internal/domain/payment"
)

// Validation sentinels for order placement.
var (
	ErrUserIDRequired      = errors.New("user_id is required")
	ErrTotalAmountRequired = errors.New("total_amount is required")
	ErrInvalidStatus       = errors.New("invalid status value")
)

// InvalidQuantityError indicates a line item has a non-positive quantity.
type InvalidQuantityError struct {
	ProductID int64
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %d", e.ProductID)
}

// PlaceOrderItem is one requested line item. Price is the caller-supplied
// snapshot of the product price at order time.
type PlaceOrderItem struct {
	ProductID int64
	Quantity  int
	Price     decimal.Decimal
}

// PlaceOrderRequest holds the input for placing an order. UserID and
// TotalAmount are required; Items may be empty.
type PlaceOrderRequest struct {
	UserID          int64
	TotalAmount     decimal.Decimal
	DeliveryMethod  DeliveryMethod
	DeliveryAddress string
	Items           []PlaceOrderItem
}

// Service coordinates the order fulfillment lifecycle: placement with line
// items, and the independent payment and delivery status transitions.
type Service struct {
	orders     Repository
	payments   payment.Repository
	deliveries delivery.Repository
}

// NewService creates an order Service with the required repositories.
func NewService(orders Repository, payments payment.Repository, deliveries delivery.Repository) *Service {
	return &Service{
		orders:     orders,
		payments:   payments,
		deliveries: deliveries,
	}
}

// PlaceOrder validates the request and persists the order together with its
// line items in one transaction. The created order, including its generated
// identifier, is returned to the caller.
//
// Stock is NOT adjusted here: reducing product stock is a separate operation
// the caller invokes explicitly. The total amount is likewise stored as
// given, without recomputing it from the line items.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	if req.UserID == 0 {
		return nil, ErrUserIDRequired
	}
	if req.TotalAmount.IsZero() {
		return nil, ErrTotalAmountRequired
	}

	items := make([]Item, len(req.Items))
	for i, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: it.ProductID}
		}
		items[i] = Item{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		}
	}

	method := req.DeliveryMethod
	if method == "" {
		method = MethodDelivery
	}
	if !method.Valid() {
		return nil, ErrInvalidStatus
	}

	o := &Order{
		UserID:          req.UserID,
		TotalAmount:     req.TotalAmount,
		Status:          StatusPending,
		PaymentStatus:   PaymentPending,
		DeliveryMethod:  method,
		DeliveryAddress: req.DeliveryAddress,
	}
	if err := s.orders.CreateWithItems(ctx, o, items); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	return o, nil
}

// UpdateStatus sets the order's own fulfillment status.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	return s.orders.Update(ctx, orderID, Update{Status: &status})
}

// RecordPayment attaches a payment to an order. It does not touch the
// order's own payment_status field.
func (s *Service) RecordPayment(ctx context.Context, p *payment.Payment) error {
	if p.OrderID == 0 {
		return errors.New("order_id is required")
	}
	if p.Status == "" {
		p.Status = payment.StatusPending
	}
	if !p.Status.Valid() {
		return ErrInvalidStatus
	}
	return s.payments.Create(ctx, p)
}

// UpdatePaymentStatus sets a single payment's status. The parent order's
// payment_status is deliberately left alone; the two fields are independent.
func (s *Service) UpdatePaymentStatus(ctx context.Context, paymentID int64, status payment.Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	return s.payments.UpdateStatus(ctx, paymentID, status)
}

// RecordDelivery attaches a delivery run to an order.
func (s *Service) RecordDelivery(ctx context.Context, d *delivery.Delivery) error {
	if d.OrderID == 0 {
		return errors.New("order_id is required")
	}
	if d.Status == "" {
		d.Status = delivery.StatusPending
	}
	if !d.Status.Valid() {
		return ErrInvalidStatus
	}
	return s.deliveries.Create(ctx, d)
}

// UpdateDeliveryStatus sets a single delivery's status, independent of the
// parent order's own status field.
func (s *Service) UpdateDeliveryStatus(ctx context.Context, deliveryID int64, status delivery.Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	return s.deliveries.UpdateStatus(ctx, deliveryID, status)
}
