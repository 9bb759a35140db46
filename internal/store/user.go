package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/vaughan-dsouza/gamehub/internal/models"
)

type UserStore struct {
	DB *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{DB: db}
}

// FindByEmail returns ErrNotFound when no user has that email.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.DB.GetContext(ctx, &u, s.DB.Rebind(`
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE email = ?
	`), email)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", notFound(err))
	}
	return &u, nil
}

// FindByID returns ErrNotFound when the id does not exist.
func (s *UserStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := s.DB.GetContext(ctx, &u, s.DB.Rebind(`
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE id = ?
	`), id)
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", notFound(err))
	}
	return &u, nil
}

// Insert writes u and fills in its ID. ErrDuplicate means the unique
// constraint on email rejected the row.
func (s *UserStore) Insert(ctx context.Context, u *models.User) error {
	err := s.DB.QueryRowxContext(ctx, s.DB.Rebind(`
		INSERT INTO users (email, password_hash, created_at)
		VALUES (?, ?, ?)
		RETURNING id
	`), u.Email, u.Password, u.CreatedAt).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert user: %w", ErrDuplicate)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// CountByEmail is used by tests and diagnostics to check uniqueness.
func (s *UserStore) CountByEmail(ctx context.Context, email string) (int, error) {
	var n int
	err := s.DB.GetContext(ctx, &n, s.DB.Rebind(`SELECT COUNT(*) FROM users WHERE email = ?`), email)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
