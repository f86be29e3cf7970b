package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/novamart/novamart-api/internal/domain/order"
)

const (
	orderItemColumns = `order_item_id, order_id, product_id, quantity, price, created_at`

	createStandaloneItemSQL = `INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING order_item_id, created_at`

	updateOrderItemSQL = `UPDATE order_items SET
		quantity = COALESCE($2, quantity),
		price = COALESCE($3, price)
		WHERE order_item_id = $1`
)

var _ order.ItemRepository = (*OrderItemRepository)(nil)

// OrderItemRepository implements order.ItemRepository backed by PostgreSQL.
// It manages line items outside the order creation transaction; items can
// never exist without a valid order reference thanks to the foreign key.
type OrderItemRepository struct {
	pool *pgxpool.Pool
}

// NewOrderItemRepository returns an OrderItemRepository using the given pool.
func NewOrderItemRepository(pool *pgxpool.Pool) *OrderItemRepository {
	return &OrderItemRepository{pool: pool}
}

func (r *OrderItemRepository) Create(ctx context.Context, it *order.Item) error {
	err := r.pool.QueryRow(ctx, createStandaloneItemSQL,
		it.OrderID, it.ProductID, it.Quantity, it.Price,
	).Scan(&it.ID, &it.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return order.ErrInvalidReference
		}
		return fmt.Errorf("creating order item: %w", err)
	}
	return nil
}

func (r *OrderItemRepository) GetByID(ctx context.Context, id int64) (*order.Item, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderItemColumns+` FROM order_items WHERE order_item_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("getting order item %d: %w", id, err)
	}
	it, err := pgx.CollectExactlyOneRow(rows, scanOrderItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrItemNotFound
		}
		return nil, fmt.Errorf("getting order item %d: %w", id, err)
	}
	return &it, nil
}

func (r *OrderItemRepository) List(ctx context.Context) ([]order.Item, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderItemColumns+` FROM order_items ORDER BY order_item_id`)
	if err != nil {
		return nil, fmt.Errorf("listing order items: %w", err)
	}
	return pgx.CollectRows(rows, scanOrderItem)
}

func (r *OrderItemRepository) ListByOrder(ctx context.Context, orderID int64) ([]order.Item, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderItemColumns+` FROM order_items WHERE order_id = $1 ORDER BY order_item_id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("listing items for order %d: %w", orderID, err)
	}
	return pgx.CollectRows(rows, scanOrderItem)
}

func (r *OrderItemRepository) ListByProduct(ctx context.Context, productID int64) ([]order.Item, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderItemColumns+` FROM order_items WHERE product_id = $1 ORDER BY order_item_id`, productID)
	if err != nil {
		return nil, fmt.Errorf("listing items for product %d: %w", productID, err)
	}
	return pgx.CollectRows(rows, scanOrderItem)
}

func (r *OrderItemRepository) Update(ctx context.Context, id int64, upd order.ItemUpdate) error {
	tag, err := r.pool.Exec(ctx, updateOrderItemSQL, id, upd.Quantity, upd.Price)
	if err != nil {
		return fmt.Errorf("updating order item %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrItemNotFound
	}
	return nil
}

func (r *OrderItemRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM order_items WHERE order_item_id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting order item %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrItemNotFound
	}
	return nil
}

func scanOrderItem(row pgx.CollectableRow) (order.Item, error) {
	var it order.Item
	err := row.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price, &it.CreatedAt)
	return it, err
}
