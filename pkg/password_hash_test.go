package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	passwordHash, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.NotEmpty(t, passwordHash)
	assert.True(t, CheckPasswordHash("admin123", passwordHash))
	assert.False(t, CheckPasswordHash("admin124", passwordHash))

	// two hashes of the same password never match each other, both verify
	otherHash, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, passwordHash, otherHash)
	assert.True(t, CheckPasswordHash("admin123", otherHash))
}

func TestCheckPasswordHash_NotAHash(t *testing.T) {
	// plaintext stored values never verify, regardless of input
	assert.False(t, CheckPasswordHash("admin123", "admin123"))
	assert.False(t, CheckPasswordHash("", ""))
}
