// Package user holds the user account domain types.
package user

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested user does not exist.
var ErrNotFound = errors.New("user not found")

// ErrDuplicateEmail is returned when registration reuses an existing email.
var ErrDuplicateEmail = errors.New("email already registered")

// Role is the access role carried in auth tokens.
type Role string

const (
	RoleUser     Role = "user"
	RoleAdmin    Role = "admin"
	RoleDelivery Role = "delivery"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleDelivery:
		return true
	}
	return false
}

// User represents a registered customer or staff account. Password holds the
// bcrypt hash, never the plaintext; it is excluded from JSON responses.
type User struct {
	ID           int64     `json:"user_id"`
	Firstname    string    `json:"firstname"`
	Lastname     string    `json:"lastname"`
	Email        string    `json:"email"`
	Password     string    `json:"-"`
	ContactPhone string    `json:"contact_phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	City         string    `json:"city,omitempty"`
	Role         Role      `json:"role"`
	IsVerified   bool      `json:"is_verified"`
	ImageURL     string    `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Update holds the mutable fields of a user. Nil pointers leave the stored
// value untouched.
type Update struct {
	Firstname    *string
	Lastname     *string
	ContactPhone *string
	Address      *string
	City         *string
	ImageURL     *string
}

// Repository defines persistence operations for user accounts.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id int64, upd Update) error
	Delete(ctx context.Context, id int64) error
	SetVerified(ctx context.Context, email string) error
}
