package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/novamart/novamart-api/internal/domain/user"
)

const (
	userColumns = `user_id, firstname, lastname, email, password,
		COALESCE(contact_phone, ''), COALESCE(address, ''), COALESCE(city, ''),
		role, is_verified, image_url, created_at, updated_at`

	createUserSQL = `INSERT INTO users (firstname, lastname, email, password, contact_phone, address, city, role)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8)
		RETURNING user_id, role, is_verified, image_url, created_at, updated_at`

	updateUserSQL = `UPDATE users SET
		firstname = COALESCE($2, firstname),
		lastname = COALESCE($3, lastname),
		contact_phone = COALESCE($4, contact_phone),
		address = COALESCE($5, address),
		city = COALESCE($6, city),
		image_url = COALESCE($7, image_url),
		updated_at = NOW()
		WHERE user_id = $1`
)

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new user. The email column is unique; collisions map to
// user.ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if u.Role == "" {
		u.Role = user.RoleUser
	}
	err := r.pool.QueryRow(ctx, createUserSQL,
		u.Firstname, u.Lastname, u.Email, u.Password,
		u.ContactPhone, u.Address, u.City, u.Role,
	).Scan(&u.ID, &u.Role, &u.IsVerified, &u.ImageURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return user.ErrDuplicateEmail
		}
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("getting user %d: %w", id, err)
	}
	u, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("getting user %d: %w", id, err)
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	u, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return pgx.CollectRows(rows, scanUser)
}

func (r *UserRepository) Update(ctx context.Context, id int64, upd user.Update) error {
	tag, err := r.pool.Exec(ctx, updateUserSQL, id,
		upd.Firstname, upd.Lastname, upd.ContactPhone, upd.Address, upd.City, upd.ImageURL)
	if err != nil {
		return fmt.Errorf("updating user %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting user %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

// SetVerified flips the is_verified flag for the account with this email.
func (r *UserRepository) SetVerified(ctx context.Context, email string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET is_verified = TRUE, updated_at = NOW() WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("verifying user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.CollectableRow) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Firstname, &u.Lastname, &u.Email, &u.Password,
		&u.ContactPhone, &u.Address, &u.City,
		&u.Role, &u.IsVerified, &u.ImageURL, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}
