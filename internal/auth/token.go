package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vaughan-dsouza/gamehub/internal/models"
)

// TokenLifetime is how long an issued session token stays valid.
const TokenLifetime = 8 * time.Hour

var (
	ErrMalformed        = errors.New("token malformed")
	ErrInvalidSignature = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
	ErrNotYetValid      = errors.New("token not valid yet")
	ErrNoSecret         = errors.New("secret not configured")
)

// TokenConfig is built once at startup and handed to NewIssuer and
// NewVerifier. Changing Secret invalidates every token signed with the old
// one; there is no overlap window.
type TokenConfig struct {
	Secret []byte
	// TTL defaults to TokenLifetime.
	TTL time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

func (c TokenConfig) normalize() (TokenConfig, error) {
	if len(c.Secret) == 0 {
		return c, ErrNoSecret
	}
	if c.TTL <= 0 {
		c.TTL = TokenLifetime
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c, nil
}

// Identity is what a verified token says about its bearer.
type Identity struct {
	ID    int64
	Email string
}

// Claims wraps jwt.RegisteredClaims with Email. Subject carries the user id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issuer mints HS256 session tokens.
type Issuer struct {
	cfg TokenConfig
}

func NewIssuer(cfg TokenConfig) (*Issuer, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	return &Issuer{cfg: cfg}, nil
}

// Issue signs {sub, email, jti, nbf, exp} for u.
func (i *Issuer) Issue(u *models.User) (string, error) {
	now := i.cfg.Now()

	claims := Claims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			ID:        uuid.NewString(),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.TTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verifier checks tokens minted by an Issuer with the same secret.
type Verifier struct {
	cfg    TokenConfig
	parser *jwt.Parser
}

func NewVerifier(cfg TokenConfig) (*Verifier, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(cfg.Now),
	)

	return &Verifier{cfg: cfg, parser: parser}, nil
}

// Verify returns the identity carried by tokenStr. The signature is checked
// before any claim is looked at, and expiry has no leeway.
func (v *Verifier) Verify(tokenStr string) (Identity, error) {
	var claims Claims

	_, err := v.parser.ParseWithClaims(tokenStr, &claims, func(*jwt.Token) (any, error) {
		return v.cfg.Secret, nil
	})
	if err != nil {
		return Identity{}, classify(err)
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return Identity{}, fmt.Errorf("%w: bad subject", ErrMalformed)
	}
	if claims.NotBefore == nil {
		return Identity{}, fmt.Errorf("%w: missing nbf", ErrMalformed)
	}

	return Identity{ID: id, Email: claims.Email}, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
