package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/homeservice/internal/auth"
	"github.com/spec-kit/homeservice/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)

	token, expiresAt, err := tm.GenerateToken("user-1", domain.RoleProvider)
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, domain.RoleProvider, claims.Role)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := auth.NewTokenManager("secret-a", time.Hour).GenerateToken("user-1", domain.RoleCustomer)
	require.NoError(t, err)

	_, err = auth.NewTokenManager("secret-b", time.Hour).ParseToken(token)
	assert.Error(t, err)
}
