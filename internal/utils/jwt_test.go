// internal/utils/jwt_test.go
package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRequiresConfiguredSecret(t *testing.T) {
	SetJWTSecret("")
	t.Cleanup(func() { SetJWTSecret("") })

	_, err := GenerateJWT("admin-1", "ops", "admin", time.Hour)
	assert.ErrorIs(t, err, ErrJWTSecretUnset)
	_, err = ValidateJWT("a.b.c")
	assert.ErrorIs(t, err, ErrJWTSecretUnset)

	SetJWTSecret("first-secret")
	token, err := GenerateJWT("admin-1", "ops", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.UserID)
	assert.Equal(t, "admin", claims.UserType)

	SetJWTSecret("rotated-secret")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}
