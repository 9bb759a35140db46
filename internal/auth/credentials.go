package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/vaughan-dsouza/gamehub/internal/models"
	"github.com/vaughan-dsouza/gamehub/internal/store"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserRepository is the slice of the user store Credentials needs.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	Insert(ctx context.Context, u *models.User) error
}

// Credentials registers users and checks their passwords.
type Credentials struct {
	users  UserRepository
	hasher *PasswordHasher
	now    func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewCredentials(users UserRepository, hasher *PasswordHasher) *Credentials {
	return &Credentials{users: users, hasher: hasher, now: time.Now}
}

// NormalizeEmail is the form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register stores a new user with a bcrypt hash of password. A second
// registration for the same email returns ErrDuplicateEmail, whether it is
// caught by the lookup or by the unique constraint on insert.
func (c *Credentials) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)

	_, err := c.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrDuplicateEmail
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := c.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	u := &models.User{
		Email:     email,
		Password:  hash,
		CreatedAt: c.now().UTC().Truncate(time.Microsecond),
	}
	if err := c.users.Insert(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	return u, nil
}

// Verify returns the user when password matches. Unknown emails still pay
// for one bcrypt comparison so they cost the same as a wrong password.
func (c *Credentials) Verify(ctx context.Context, email, password string) (*models.User, error) {
	u, err := c.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.hasher.Verify(password, c.dummy())
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("verify: %w", err)
	}

	if !c.hasher.Verify(password, u.Password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Lookup resolves a verified identity to its stored user.
func (c *Credentials) Lookup(ctx context.Context, id Identity) (*models.User, error) {
	u, err := c.users.FindByID(ctx, id.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup: %w", err)
	}
	return u, nil
}

func (c *Credentials) dummy() string {
	c.dummyOnce.Do(func() {
		h, err := c.hasher.Hash("gamehub-dummy-password")
		if err == nil {
			c.dummyHash = h
		}
	})
	return c.dummyHash
}
