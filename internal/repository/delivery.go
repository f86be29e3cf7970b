package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/novamart/novamart-api/internal/domain/delivery"
	"github.com/novamart/novamart-api/internal/domain/order"
)

const (
	deliveryColumns = `delivery_id, order_id, COALESCE(driver_name, ''),
		COALESCE(driver_phone, ''), delivery_status, delivery_date, created_at`

	createDeliverySQL = `INSERT INTO deliveries (order_id, driver_name, driver_phone, delivery_status, delivery_date)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5)
		RETURNING delivery_id, created_at`

	updateDeliverySQL = `UPDATE deliveries SET
		driver_name = COALESCE($2, driver_name),
		driver_phone = COALESCE($3, driver_phone),
		delivery_status = COALESCE($4, delivery_status),
		delivery_date = COALESCE($5, delivery_date)
		WHERE delivery_id = $1`
)

var _ delivery.Repository = (*DeliveryRepository)(nil)

// DeliveryRepository implements delivery.Repository backed by PostgreSQL.
type DeliveryRepository struct {
	pool *pgxpool.Pool
}

// NewDeliveryRepository returns a DeliveryRepository that uses the given pool.
func NewDeliveryRepository(pool *pgxpool.Pool) *DeliveryRepository {
	return &DeliveryRepository{pool: pool}
}

func (r *DeliveryRepository) Create(ctx context.Context, d *delivery.Delivery) error {
	err := r.pool.QueryRow(ctx, createDeliverySQL,
		d.OrderID, d.DriverName, d.DriverPhone, d.Status, d.DeliveryDate,
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return order.ErrNotFound
		}
		return fmt.Errorf("creating delivery: %w", err)
	}
	return nil
}

func (r *DeliveryRepository) GetByID(ctx context.Context, id int64) (*delivery.Delivery, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+deliveryColumns+` FROM deliveries WHERE delivery_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("getting delivery %d: %w", id, err)
	}
	d, err := pgx.CollectExactlyOneRow(rows, scanDelivery)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, delivery.ErrNotFound
		}
		return nil, fmt.Errorf("getting delivery %d: %w", id, err)
	}
	return &d, nil
}

func (r *DeliveryRepository) List(ctx context.Context) ([]delivery.Delivery, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+deliveryColumns+` FROM deliveries ORDER BY delivery_id`)
	if err != nil {
		return nil, fmt.Errorf("listing deliveries: %w", err)
	}
	return pgx.CollectRows(rows, scanDelivery)
}

func (r *DeliveryRepository) ListByOrder(ctx context.Context, orderID int64) ([]delivery.Delivery, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+deliveryColumns+` FROM deliveries WHERE order_id = $1 ORDER BY delivery_id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("listing deliveries for order %d: %w", orderID, err)
	}
	return pgx.CollectRows(rows, scanDelivery)
}

func (r *DeliveryRepository) Update(ctx context.Context, id int64, upd delivery.Update) error {
	tag, err := r.pool.Exec(ctx, updateDeliverySQL, id,
		upd.DriverName, upd.DriverPhone, upd.Status, upd.DeliveryDate)
	if err != nil {
		return fmt.Errorf("updating delivery %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return delivery.ErrNotFound
	}
	return nil
}

func (r *DeliveryRepository) UpdateStatus(ctx context.Context, id int64, status delivery.Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE deliveries SET delivery_status = $2 WHERE delivery_id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("updating delivery %d status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return delivery.ErrNotFound
	}
	return nil
}

func (r *DeliveryRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM deliveries WHERE delivery_id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting delivery %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return delivery.ErrNotFound
	}
	return nil
}

func scanDelivery(row pgx.CollectableRow) (delivery.Delivery, error) {
	var d delivery.Delivery
	err := row.Scan(
		&d.ID, &d.OrderID, &d.DriverName, &d.DriverPhone,
		&d.Status, &d.DeliveryDate, &d.CreatedAt,
	)
	return d, err
}
