package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/novamart/novamart-api/internal/domain/order"
	"github.com/novamart/novamart-api/internal/domain/product"
)

const (
	orderColumns = `order_id, user_id, total_amount, order_status, payment_status,
		delivery_method, COALESCE(delivery_address, ''), created_at, updated_at`

	createOrderSQL = `INSERT INTO orders (user_id, total_amount, order_status, payment_status, delivery_method, delivery_address)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		RETURNING order_id, created_at, updated_at`

	createOrderItemSQL = `INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING order_item_id, created_at`

	updateOrderSQL = `UPDATE orders SET
		total_amount = COALESCE($2, total_amount),
		order_status = COALESCE($3, order_status),
		payment_status = COALESCE($4, payment_status),
		delivery_method = COALESCE($5, delivery_method),
		delivery_address = COALESCE($6, delivery_address),
		updated_at = NOW()
		WHERE order_id = $1`

	orderItemsByOrdersSQL = `SELECT oi.order_item_id, oi.order_id, oi.product_id, oi.quantity, oi.price, oi.created_at,
		p.name, COALESCE(p.description, ''), p.price, p.stock_quantity, COALESCE(p.image_url, ''),
		p.category_id, p.is_active, p.created_at, p.updated_at
		FROM order_items oi
		JOIN products p ON p.product_id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.order_item_id`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// CreateWithItems inserts the order row and all item rows inside a single
// transaction. If any item insert fails the whole order rolls back; there is
// no window in which an order exists without its items.
func (r *OrderRepository) CreateWithItems(ctx context.Context, o *order.Order, items []order.Item) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, createOrderSQL,
			o.UserID, o.TotalAmount, o.Status, o.PaymentStatus, o.DeliveryMethod, o.DeliveryAddress,
		).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for i := range items {
			items[i].OrderID = o.ID
			err := tx.QueryRow(ctx, createOrderItemSQL,
				o.ID, items[i].ProductID, items[i].Quantity, items[i].Price,
			).Scan(&items[i].ID, &items[i].CreatedAt)
			if err != nil {
				return fmt.Errorf("insert order item for product %d: %w", items[i].ProductID, err)
			}
		}
		return nil
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return order.ErrInvalidReference
		}
		return fmt.Errorf("creating order: %w", err)
	}

	o.Items = items
	return nil
}

// GetByID returns the order with full nested expansion: user, items with
// their products, payments, and deliveries.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}
	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}

	orders := []order.Order{o}
	if err := r.expand(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY order_id`)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	if err := r.expand(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY order_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %d: %w", userID, err)
	}
	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %d: %w", userID, err)
	}
	if err := r.expand(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) ListByStatus(ctx context.Context, status order.Status) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_status = $1 ORDER BY order_id`, status)
	if err != nil {
		return nil, fmt.Errorf("listing orders by status: %w", err)
	}
	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("listing orders by status: %w", err)
	}
	if err := r.expand(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) Update(ctx context.Context, id int64, upd order.Update) error {
	tag, err := r.pool.Exec(ctx, updateOrderSQL, id,
		upd.TotalAmount, upd.Status, upd.PaymentStatus, upd.DeliveryMethod, upd.DeliveryAddress)
	if err != nil {
		return fmt.Errorf("updating order %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// Delete removes the order; items, payments, and deliveries go with it via
// ON DELETE CASCADE.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE order_id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting order %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// expand batch-loads the nested children (user, items+product, payments,
// deliveries) for the given orders with one query per relation.
func (r *OrderRepository) expand(ctx context.Context, orders []order.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, len(orders))
	userIDs := make([]int64, 0, len(orders))
	seenUsers := make(map[int64]struct{}, len(orders))
	byID := make(map[int64]*order.Order, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		byID[orders[i].ID] = &orders[i]
		if _, ok := seenUsers[orders[i].UserID]; !ok {
			seenUsers[orders[i].UserID] = struct{}{}
			userIDs = append(userIDs, orders[i].UserID)
		}
	}

	// Users.
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_id = ANY($1)`, userIDs)
	if err != nil {
		return fmt.Errorf("loading order users: %w", err)
	}
	users, err := pgx.CollectRows(rows, scanUser)
	if err != nil {
		return fmt.Errorf("loading order users: %w", err)
	}
	for i := range orders {
		for j := range users {
			if users[j].ID == orders[i].UserID {
				orders[i].User = &users[j]
				break
			}
		}
	}

	// Items with their product snapshot.
	rows, err = r.pool.Query(ctx, orderItemsByOrdersSQL, ids)
	if err != nil {
		return fmt.Errorf("loading order items: %w", err)
	}
	items, err := pgx.CollectRows(rows, scanItemWithProduct)
	if err != nil {
		return fmt.Errorf("loading order items: %w", err)
	}
	for _, it := range items {
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, it)
		}
	}

	// Payments.
	rows, err = r.pool.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE order_id = ANY($1) ORDER BY payment_id`, ids)
	if err != nil {
		return fmt.Errorf("loading order payments: %w", err)
	}
	payments, err := pgx.CollectRows(rows, scanPayment)
	if err != nil {
		return fmt.Errorf("loading order payments: %w", err)
	}
	for _, p := range payments {
		if o, ok := byID[p.OrderID]; ok {
			o.Payments = append(o.Payments, p)
		}
	}

	// Deliveries.
	rows, err = r.pool.Query(ctx,
		`SELECT `+deliveryColumns+` FROM deliveries WHERE order_id = ANY($1) ORDER BY delivery_id`, ids)
	if err != nil {
		return fmt.Errorf("loading order deliveries: %w", err)
	}
	deliveries, err := pgx.CollectRows(rows, scanDelivery)
	if err != nil {
		return fmt.Errorf("loading order deliveries: %w", err)
	}
	for _, d := range deliveries {
		if o, ok := byID[d.OrderID]; ok {
			o.Deliveries = append(o.Deliveries, d)
		}
	}

	return nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var o order.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.PaymentStatus,
		&o.DeliveryMethod, &o.DeliveryAddress, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

func scanItemWithProduct(row pgx.CollectableRow) (order.Item, error) {
	var (
		it order.Item
		p  product.Product
	)
	err := row.Scan(
		&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price, &it.CreatedAt,
		&p.Name, &p.Description, &p.Price, &p.StockQuantity, &p.ImageURL,
		&p.CategoryID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return it, err
	}
	p.ID = it.ProductID
	it.Product = &p
	return it, nil
}
