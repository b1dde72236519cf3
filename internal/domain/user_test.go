// File: internal/domain/user_test.go
package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPassword(t *testing.T) {
	t.Parallel()

	t.Run("hash and validate round trip", func(t *testing.T) {
		t.Parallel()
		u := &User{Email: "alice@example.com"}
		require.NoError(t, u.HashPassword("correct horse battery"))
		assert.NotEqual(t, "correct horse battery", u.Password)

		assert.NoError(t, u.ValidatePassword("correct horse battery"))
		assert.Error(t, u.ValidatePassword("wrong password!!"))
	})

	t.Run("short passwords are rejected", func(t *testing.T) {
		t.Parallel()
		u := &User{}
		assert.Error(t, u.HashPassword("seven77"))
	})
}

func TestUserIsValid(t *testing.T) {
	t.Parallel()

	assert.NoError(t, (&User{Email: "alice@example.com"}).IsValid())
	assert.Error(t, (&User{Email: "no-at-sign"}).IsValid())
	assert.Error(t, (&User{Email: "a@b"}).IsValid())
}

func TestDocumentOcrText(t *testing.T) {
	t.Parallel()

	assert.Empty(t, (&Document{}).OcrText())
	assert.Equal(t, "hello", (&Document{Ocr: &OcrResult{Text: "hello"}}).OcrText())
}
