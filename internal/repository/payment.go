package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/novamart/novamart-api/internal/domain/order"
	"github.com/novamart/novamart-api/internal/domain/payment"
)

const (
	paymentColumns = `payment_id, order_id, amount, payment_status,
		COALESCE(transaction_id, ''), COALESCE(payment_method, ''), payment_date, created_at`

	createPaymentSQL = `INSERT INTO payments (order_id, amount, payment_status, transaction_id, payment_method, payment_date)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), COALESCE($6, NOW()))
		RETURNING payment_id, payment_date, created_at`

	updatePaymentSQL = `UPDATE payments SET
		amount = COALESCE($2, amount),
		payment_status = COALESCE($3, payment_status),
		transaction_id = COALESCE($4, transaction_id),
		payment_method = COALESCE($5, payment_method),
		payment_date = COALESCE($6, payment_date)
		WHERE payment_id = $1`
)

var _ payment.Repository = (*PaymentRepository)(nil)

// PaymentRepository implements payment.Repository backed by PostgreSQL.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository returns a PaymentRepository that uses the given pool.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	var paymentDate any
	if !p.PaymentDate.IsZero() {
		paymentDate = p.PaymentDate
	}
	err := r.pool.QueryRow(ctx, createPaymentSQL,
		p.OrderID, p.Amount, p.Status, p.TransactionID, p.Method, paymentDate,
	).Scan(&p.ID, &p.PaymentDate, &p.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return order.ErrNotFound
		}
		return fmt.Errorf("creating payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*payment.Payment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE payment_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("getting payment %d: %w", id, err)
	}
	p, err := pgx.CollectExactlyOneRow(rows, scanPayment)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, payment.ErrNotFound
		}
		return nil, fmt.Errorf("getting payment %d: %w", id, err)
	}
	return &p, nil
}

func (r *PaymentRepository) List(ctx context.Context) ([]payment.Payment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments ORDER BY created_at DESC, payment_id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	return pgx.CollectRows(rows, scanPayment)
}

func (r *PaymentRepository) ListByOrder(ctx context.Context, orderID int64) ([]payment.Payment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE order_id = $1 ORDER BY created_at DESC, payment_id DESC`, orderID)
	if err != nil {
		return nil, fmt.Errorf("listing payments for order %d: %w", orderID, err)
	}
	return pgx.CollectRows(rows, scanPayment)
}

func (r *PaymentRepository) Update(ctx context.Context, id int64, upd payment.Update) error {
	tag, err := r.pool.Exec(ctx, updatePaymentSQL, id,
		upd.Amount, upd.Status, upd.TransactionID, upd.Method, upd.PaymentDate)
	if err != nil {
		return fmt.Errorf("updating payment %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return payment.ErrNotFound
	}
	return nil
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, id int64, status payment.Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE payments SET payment_status = $2 WHERE payment_id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("updating payment %d status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return payment.ErrNotFound
	}
	return nil
}

func (r *PaymentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM payments WHERE payment_id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting payment %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return payment.ErrNotFound
	}
	return nil
}

func scanPayment(row pgx.CollectableRow) (payment.Payment, error) {
	var p payment.Payment
	err := row.Scan(
		&p.ID, &p.OrderID, &p.Amount, &p.Status,
		&p.TransactionID, &p.Method, &p.PaymentDate, &p.CreatedAt,
	)
	return p, err
}
