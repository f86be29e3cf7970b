package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/novamart/novamart-api/internal/domain/category"
	"github.com/novamart/novamart-api/internal/domain/product"
)

const (
	productColumns = `p.product_id, p.name, COALESCE(p.description, ''), p.price,
		p.stock_quantity, COALESCE(p.image_url, ''), p.category_id, p.is_active,
		p.created_at, p.updated_at,
		c.category_id, c.name, COALESCE(c.description, ''), c.created_at, c.updated_at`

	productFrom = ` FROM products p LEFT JOIN categories c ON c.category_id = p.category_id`

	createProductSQL = `INSERT INTO products (name, description, price, stock_quantity, image_url, category_id, is_active)
		VALUES ($1, NULLIF($2, ''), $3, $4, NULLIF($5, ''), $6, $7)
		RETURNING product_id, created_at, updated_at`

	updateProductSQL = `UPDATE products SET
		name = COALESCE($2, name),
		description = COALESCE($3, description),
		price = COALESCE($4, price),
		stock_quantity = COALESCE($5, stock_quantity),
		image_url = COALESCE($6, image_url),
		category_id = COALESCE($7, category_id),
		is_active = COALESCE($8, is_active),
		updated_at = NOW()
		WHERE product_id = $1`

	// reduceStockSQL is the stock manager's single guarded update: the
	// decrement and the non-negative check happen in one statement, so
	// concurrent reductions serialize on the row and can never oversell.
	reduceStockSQL = `UPDATE products
		SET stock_quantity = stock_quantity - $2, updated_at = NOW()
		WHERE product_id = $1 AND stock_quantity >= $2`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	err := r.pool.QueryRow(ctx, createProductSQL,
		p.Name, p.Description, p.Price, p.StockQuantity, p.ImageURL, p.CategoryID, p.IsActive,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return product.ErrDuplicateName
		}
		return fmt.Errorf("creating product: %w", err)
	}
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+productFrom+` WHERE p.product_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}
	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}
	return &p, nil
}

func (r *ProductRepository) GetByName(ctx context.Context, name string) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+productFrom+` WHERE p.name = $1`, name)
	if err != nil {
		return nil, fmt.Errorf("getting product by name: %w", err)
	}
	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product by name: %w", err)
	}
	return &p, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+productFrom+` ORDER BY p.product_id`)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

func (r *ProductRepository) ListByCategory(ctx context.Context, categoryID int64) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+productFrom+` WHERE p.category_id = $1 ORDER BY p.product_id`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("listing products by category: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// ListActive returns the customer-facing catalog: active products that have
// stock on hand.
func (r *ProductRepository) ListActive(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+productFrom+` WHERE p.is_active AND p.stock_quantity > 0 ORDER BY p.product_id`)
	if err != nil {
		return nil, fmt.Errorf("listing active products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

func (r *ProductRepository) Update(ctx context.Context, id int64, upd product.Update) error {
	tag, err := r.pool.Exec(ctx, updateProductSQL, id,
		upd.Name, upd.Description, upd.Price, upd.StockQuantity,
		upd.ImageURL, upd.CategoryID, upd.IsActive)
	if err != nil {
		if isUniqueViolation(err) {
			return product.ErrDuplicateName
		}
		return fmt.Errorf("updating product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE product_id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// ReduceStock decrements stock atomically. A zero row count means either the
// product is missing or the guard rejected the decrement; a follow-up
// existence probe tells the two apart.
func (r *ProductRepository) ReduceStock(ctx context.Context, id int64, qty int) error {
	tag, err := r.pool.Exec(ctx, reduceStockSQL, id, qty)
	if err != nil {
		return fmt.Errorf("reducing stock for product %d: %w", id, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE product_id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("checking product %d: %w", id, err)
	}
	if !exists {
		return product.ErrNotFound
	}
	return product.ErrInsufficientStock
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var (
		p     product.Product
		catID *int64
		cat   struct {
			name        *string
			description *string
			createdAt   *time.Time
			updatedAt   *time.Time
		}
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price,
		&p.StockQuantity, &p.ImageURL, &p.CategoryID, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt,
		&catID, &cat.name, &cat.description, &cat.createdAt, &cat.updatedAt,
	)
	if err != nil {
		return p, err
	}
	if catID != nil {
		p.Category = &category.Category{
			ID:          *catID,
			Name:        *cat.name,
			Description: *cat.description,
			CreatedAt:   *cat.createdAt,
			UpdatedAt:   *cat.updatedAt,
		}
	}
	return p, nil
}
