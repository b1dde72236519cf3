// File: internal/auth/jwt_test.go
package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	secret := []byte("unit-test-secret")

	t.Run("round trip returns the user ID", func(t *testing.T) {
		t.Parallel()
		token, err := GenerateJWT(42, "alice@example.com", secret)
		require.NoError(t, err)

		userID, err := ValidateToken(token, secret)
		require.NoError(t, err)
		assert.EqualValues(t, 42, userID)
	})

	t.Run("zero user ID is rejected at signing", func(t *testing.T) {
		t.Parallel()
		_, err := GenerateJWT(0, "alice@example.com", secret)
		assert.Error(t, err)
	})

	t.Run("wrong secret fails validation", func(t *testing.T) {
		t.Parallel()
		token, err := GenerateJWT(42, "alice@example.com", secret)
		require.NoError(t, err)

		_, err = ValidateToken(token, []byte("a different secret"))
		assert.Error(t, err)
	})

	t.Run("garbage token fails validation", func(t *testing.T) {
		t.Parallel()
		_, err := ValidateToken("not.a.token", secret)
		assert.Error(t, err)
	})

	t.Run("expired token fails validation", func(t *testing.T) {
		t.Parallel()
		claims := jwt.MapClaims{
			"sub": 42,
			"iat": time.Now().Add(-2 * time.Hour).Unix(),
			"exp": time.Now().Add(-time.Hour).Unix(),
		}
		expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
		require.NoError(t, err)

		_, err = ValidateToken(expired, secret)
		assert.Error(t, err)
	})

	t.Run("non-HMAC signing method is rejected", func(t *testing.T) {
		t.Parallel()
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": 42}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = ValidateToken(unsigned, secret)
		assert.Error(t, err)
	})
}
