// Package report holds the aggregate reporting read models.
package report

import (
	"context"

	"github.com/shopspring/decimal"
)

// OrderItemSummary totals the line items of a single order.
type OrderItemSummary struct {
	OrderID    int64           `json:"order_id"`
	TotalItems int64           `json:"total_items"`
	TotalCost  decimal.Decimal `json:"total_cost"`
}

// DeliverySummary counts an order's deliveries per status bucket. The bucket
// counts always sum to TotalDeliveries.
type DeliverySummary struct {
	OrderID         int64 `json:"order_id"`
	TotalDeliveries int64 `json:"total_deliveries"`
	Pending         int64 `json:"pending"`
	Processing      int64 `json:"processing"`
	Shipped         int64 `json:"shipped"`
	Delivered       int64 `json:"delivered"`
	Cancelled       int64 `json:"cancelled"`
}

// PaymentSummary totals an order's payments. LatestStatus is the status of
// the most recently inserted payment row (insertion order, not payment_date).
type PaymentSummary struct {
	OrderID           int64           `json:"order_id"`
	TotalPaid         decimal.Decimal `json:"totalPaid"`
	LatestStatus      string          `json:"latestStatus"`
	TotalTransactions int64           `json:"totalTransactions"`
}

// Repository defines the aggregate read queries. Each is a single SQL
// statement; none of them paginate.
type Repository interface {
	// OrderItemSummary returns Σ quantity and Σ price×quantity over the
	// order's line items. An order with no items yields zero totals.
	OrderItemSummary(ctx context.Context, orderID int64) (*OrderItemSummary, error)

	// DeliverySummary returns per-status delivery counts for the order.
	DeliverySummary(ctx context.Context, orderID int64) (*DeliverySummary, error)

	// PaymentSummary returns payment totals for the order, or nil when the
	// order has no payments.
	PaymentSummary(ctx context.Context, orderID int64) (*PaymentSummary, error)

	// TotalSales sums total_amount across orders whose payment_status is
	// 'paid'. Orders in any other payment state are excluded regardless of
	// their fulfillment status. The sum is unscoped by date.
	TotalSales(ctx context.Context) (decimal.Decimal, error)
}
