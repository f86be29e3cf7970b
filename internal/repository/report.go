package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/novamart/novamart-api/internal/domain/report"
)

const (
	orderItemSummarySQL = `SELECT
		COALESCE(SUM(quantity), 0),
		COALESCE(SUM(price * quantity), 0)
		FROM order_items WHERE order_id = $1`

	deliverySummarySQL = `SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE delivery_status = 'pending'),
		COUNT(*) FILTER (WHERE delivery_status = 'processing'),
		COUNT(*) FILTER (WHERE delivery_status = 'shipped'),
		COUNT(*) FILTER (WHERE delivery_status = 'delivered'),
		COUNT(*) FILTER (WHERE delivery_status = 'cancelled')
		FROM deliveries WHERE order_id = $1`

	// totalPaid sums every payment row for the order regardless of status.
	// Latest status is the most recently inserted payment row. payment_id is
	// serial, so MAX(payment_id) identifies it without touching payment_date.
	paymentSummarySQL = `SELECT
		COALESCE(SUM(amount), 0),
		(SELECT payment_status FROM payments
			WHERE order_id = $1 ORDER BY payment_id DESC LIMIT 1),
		COUNT(*)
		FROM payments WHERE order_id = $1`

	totalSalesSQL = `SELECT COALESCE(SUM(total_amount), 0)
		FROM orders WHERE payment_status = 'paid'`
)

var _ report.Repository = (*ReportRepository)(nil)

// ReportRepository implements report.Repository with single-statement
// aggregate queries over PostgreSQL.
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository returns a ReportRepository that uses the given pool.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

func (r *ReportRepository) OrderItemSummary(ctx context.Context, orderID int64) (*report.OrderItemSummary, error) {
	s := report.OrderItemSummary{OrderID: orderID}
	err := r.pool.QueryRow(ctx, orderItemSummarySQL, orderID).Scan(&s.TotalItems, &s.TotalCost)
	if err != nil {
		return nil, fmt.Errorf("summarizing items for order %d: %w", orderID, err)
	}
	return &s, nil
}

func (r *ReportRepository) DeliverySummary(ctx context.Context, orderID int64) (*report.DeliverySummary, error) {
	s := report.DeliverySummary{OrderID: orderID}
	err := r.pool.QueryRow(ctx, deliverySummarySQL, orderID).Scan(
		&s.TotalDeliveries, &s.Pending, &s.Processing, &s.Shipped, &s.Delivered, &s.Cancelled,
	)
	if err != nil {
		return nil, fmt.Errorf("summarizing deliveries for order %d: %w", orderID, err)
	}
	return &s, nil
}

// PaymentSummary returns nil when the order has no payment rows at all.
func (r *ReportRepository) PaymentSummary(ctx context.Context, orderID int64) (*report.PaymentSummary, error) {
	s := report.PaymentSummary{OrderID: orderID}
	var latest *string
	err := r.pool.QueryRow(ctx, paymentSummarySQL, orderID).Scan(
		&s.TotalPaid, &latest, &s.TotalTransactions,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("summarizing payments for order %d: %w", orderID, err)
	}
	if s.TotalTransactions == 0 || latest == nil {
		return nil, nil
	}
	s.LatestStatus = *latest
	return &s, nil
}

func (r *ReportRepository) TotalSales(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, totalSalesSQL).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("computing total sales: %w", err)
	}
	return total, nil
}
