// Package category holds the product category domain types.
package category

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

var (
	// ErrNotFound is returned when a requested category does not exist.
	ErrNotFound = errors.New("category not found")
	// ErrDuplicateName is returned when a create or update collides with an
	// existing category name.
	ErrDuplicateName = errors.New("category name already exists")
)

// Category groups products for the storefront catalog.
type Category struct {
	ID          int64     `json:"category_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Update holds the mutable fields of a category.
type Update struct {
	Name        *string
	Description *string
}

// Repository defines persistence operations for categories.
type Repository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id int64) (*Category, error)
	GetByName(ctx context.Context, name string) (*Category, error)
	List(ctx context.Context) ([]Category, error)
	Update(ctx context.Context, id int64, upd Update) error
	Delete(ctx context.Context, id int64) error
}
