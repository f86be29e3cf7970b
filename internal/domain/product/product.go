// Package product holds the catalog product domain types and the stock
// manager contract.
package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/novamart/novamart-api/internal/domain/category"
)

var (
	// ErrNotFound is returned when a requested product does not exist.
	ErrNotFound = errors.New("product not found")
	// ErrDuplicateName is returned when a create or update collides with an
	// existing product name.
	ErrDuplicateName = errors.New("product name already exists")
	// ErrInsufficientStock is returned when a stock reduction would drive
	// stock_quantity below zero. The stored quantity is left unchanged.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Product represents a catalog item available for purchase.
type Product struct {
	ID            int64              `json:"product_id"`
	Name          string             `json:"name"`
	Description   string             `json:"description,omitempty"`
	Price         decimal.Decimal    `json:"price"`
	StockQuantity int                `json:"stock_quantity"`
	ImageURL      string             `json:"image_url,omitempty"`
	CategoryID    *int64             `json:"category_id,omitempty"`
	IsActive      bool               `json:"is_active"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	Category      *category.Category `json:"category,omitempty"`
}

// Update holds the mutable fields of a product.
type Update struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	StockQuantity *int
	ImageURL      *string
	CategoryID    *int64
	IsActive      *bool
}

// Repository defines persistence operations for products, including the
// stock manager. ReduceStock must be a single atomic guarded update so that
// concurrent reductions against the same product serialize in the database
// and can never leave stock_quantity negative.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetByName(ctx context.Context, name string) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]Product, error)
	ListActive(ctx context.Context) ([]Product, error)
	Update(ctx context.Context, id int64, upd Update) error
	Delete(ctx context.Context, id int64) error

	// ReduceStock decrements stock_quantity by qty. It returns ErrNotFound
	// when the product does not exist and ErrInsufficientStock when the
	// reduction would go negative; in both cases stock is unchanged.
	ReduceStock(ctx context.Context, id int64, qty int) error
}
