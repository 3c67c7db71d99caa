package auth

import (
	"context"
	"testing"
	"time"

	"github.com/ariefcatur/barbershop-dashboard/internal/apperr"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokens(t *testing.T) *Tokens {
	t.Helper()
	tk, err := NewTokens("test-secret")
	require.NoError(t, err)
	tk.now = func() time.Time { return time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC) }
	return tk
}

func TestIssueAndParse(t *testing.T) {
	tk := newTestTokens(t)

	raw, exp, err := tk.Issue("u1", RoleAdmin, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 13, exp.Hour())

	u, err := tk.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, User{ID: "u1", Role: RoleAdmin}, u)
	assert.True(t, u.IsAdmin())

	raw, _, err = tk.Issue("u2", "superuser", time.Hour)
	require.NoError(t, err)
	u, err = tk.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, RoleDefault, u.Role)
}

func TestParseRejects(t *testing.T) {
	tk := newTestTokens(t)

	expired, _, err := tk.Issue("u1", RoleDefault, -time.Minute)
	require.NoError(t, err)
	_, err = tk.Parse(expired)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	other, err := NewTokens("other-secret")
	require.NoError(t, err)
	other.now = tk.now
	forged, _, err := other.Issue("u1", RoleAdmin, time.Hour)
	require.NoError(t, err)
	_, err = tk.Parse(forged)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Role: RoleAdmin}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tk.Parse(none)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = tk.Parse("garbage")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, _, err = tk.Issue("", RoleAdmin, time.Hour)
	assert.True(t, apperr.IsValidation(err))

	_, err = NewTokens("")
	assert.Error(t, err)
}

func TestContextUser(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithUser(context.Background(), User{ID: "u1"})
	u, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", u.ID)
}
