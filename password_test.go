package auth_test

import (
	"testing"

	auth "github.com/ayushchatterjee-official/auth1-conn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaintextAuthenticator(t *testing.T) {
	p := auth.PlaintextAuthenticator{}

	stored, err := p.HashPassword("pw123456")
	require.NoError(t, err)
	assert.Equal(t, "pw123456", stored, "the default scheme stores credentials verbatim")

	assert.NoError(t, p.ComparePasswordAndHash("pw123456", stored))
	assert.ErrorIs(t, p.ComparePasswordAndHash("other", stored), auth.ErrMismatchedHashAndPassword)

	_, err = p.HashPassword("")
	assert.ErrorIs(t, err, auth.ErrNoEmptyString)
}

func TestBcryptAuthenticator(t *testing.T) {
	b := auth.BcryptAuthenticator{Cost: 4}

	hash, err := b.HashPassword("pw123456")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123456", hash)

	assert.NoError(t, b.ComparePasswordAndHash("pw123456", hash))
	assert.ErrorIs(t, b.ComparePasswordAndHash("other", hash), auth.ErrMismatchedHashAndPassword)

	_, err = b.HashPassword("")
	assert.ErrorIs(t, err, auth.ErrNoEmptyString)
}
