package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter2!", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, VerifyPassword(hash, "hunter2!"))
	assert.False(t, VerifyPassword(hash, "hunter3!"))
	assert.False(t, VerifyPassword("not-a-bcrypt-hash", "hunter2!"))
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	h1, err := HashPassword("same-input", bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := HashPassword("same-input", bcrypt.MinCost)
	require.NoError(t, err)
	// bcrypt salts every hash, so two hashes of one password differ
	assert.NotEqual(t, h1, h2)
}
