package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/barbershop-dashboard/internal/apperr"
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin   = "admin"
	RoleDefault = "default"
)

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// User is the authenticated caller attached to a request context.
type User struct {
	ID   string
	Role string
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Tokens signs and verifies HS256 bearer tokens.
type Tokens struct {
	secret []byte
	now    func() time.Time
}

func NewTokens(secret string) (*Tokens, error) {
	if secret == "" {
		return nil, errors.New("auth: empty signing secret")
	}
	return &Tokens{secret: []byte(secret), now: time.Now}, nil
}

func (t *Tokens) Issue(sub, role string, ttl time.Duration) (string, time.Time, error) {
	if sub == "" {
		return "", time.Time{}, apperr.Invalid("sub", "required")
	}
	if role != RoleAdmin {
		role = RoleDefault
	}
	now := t.now()
	exp := now.Add(ttl)
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	return s, exp, err
}

// Parse verifies raw and returns its user. Any failure maps to
// apperr.ErrUnauthorized.
func (t *Tokens) Parse(raw string) (User, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return User{}, fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return User{}, fmt.Errorf("%w: token has no subject", apperr.ErrUnauthorized)
	}
	role := claims.Role
	if role != RoleAdmin {
		role = RoleDefault
	}
	return User{ID: claims.Subject, Role: role}, nil
}

type ctxKey struct{}

func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

func FromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(ctxKey{}).(User)
	return u, ok
}
