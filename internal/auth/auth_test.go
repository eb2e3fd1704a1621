package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_RoundTrip(t *testing.T) {
	v := NewVerifier("test-secret", "homeplate")
	id := Identity{UserID: uuid.New(), Role: RoleSeller}

	token, err := v.Sign(id, time.Hour)
	require.NoError(t, err)

	got, err := v.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestVerifier_DefaultsRoleToCustomer(t *testing.T) {
	v := NewVerifier("test-secret", "")

	token, err := v.Sign(Identity{UserID: uuid.New()}, time.Hour)
	require.NoError(t, err)

	got, err := v.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, RoleCustomer, got.Role)
}

func TestVerifier_Rejects(t *testing.T) {
	v := NewVerifier("test-secret", "homeplate")
	userID := uuid.New()

	sign := func(secret string, method jwt.SigningMethod, claims Claims) string {
		token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return token
	}
	valid := func() Claims {
		return Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    "homeplate",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "Wrong secret", token: sign("other", jwt.SigningMethodHS256, valid())},
		{name: "Wrong algorithm", token: sign("test-secret", jwt.SigningMethodHS512, valid())},
		{
			name: "Expired",
			token: func() string {
				c := valid()
				c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
				return sign("test-secret", jwt.SigningMethodHS256, c)
			}(),
		},
		{
			name: "No expiry",
			token: func() string {
				c := valid()
				c.ExpiresAt = nil
				return sign("test-secret", jwt.SigningMethodHS256, c)
			}(),
		},
		{
			name: "Wrong issuer",
			token: func() string {
				c := valid()
				c.Issuer = "elsewhere"
				return sign("test-secret", jwt.SigningMethodHS256, c)
			}(),
		},
		{
			name: "Subject is not a uuid",
			token: func() string {
				c := valid()
				c.Subject = "42"
				return sign("test-secret", jwt.SigningMethodHS256, c)
			}(),
		},
		{name: "Garbage", token: "not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Parse(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	_, err := v.Parse("")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	id := Identity{UserID: uuid.New(), Role: RoleCustomer}
	got, ok := FromContext(WithIdentity(context.Background(), id))
	require.True(t, ok)
	assert.Equal(t, id, got)
}
