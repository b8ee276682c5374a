package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "centralvendas/internal/errors"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("secret")
	p := Principal{TenantID: "t-1", UserID: "u-1", Role: "ADMIN"}

	token, err := svc.Issue(p, time.Hour)
	require.NoError(t, err)

	got, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestTokenService_WrongSecret(t *testing.T) {
	token, err := NewTokenService("secret").Issue(Principal{TenantID: "t-1"}, time.Hour)
	require.NoError(t, err)

	_, err = NewTokenService("other").Verify(token)
	_, ok := apperrors.IsUnauthorizedError(err)
	assert.True(t, ok)
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService("secret")
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := svc.Issue(Principal{TenantID: "t-1"}, time.Hour)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Verify(token)
	_, ok := apperrors.IsUnauthorizedError(err)
	assert.True(t, ok)
}

func TestTokenService_MissingTenant(t *testing.T) {
	svc := NewTokenService("secret")
	token, err := svc.Issue(Principal{UserID: "u-1"}, time.Hour)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	ue, ok := apperrors.IsUnauthorizedError(err)
	require.True(t, ok)
	assert.Contains(t, ue.Message, "tenant")
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{TenantID: "t-1"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenService("secret").Verify(token)
	assert.Error(t, err)
}
