package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hashed, err := HashPassword("hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, hashed)
	assert.NotEqual(t, "hunter2", hashed)

	assert.True(t, CheckPassword(hashed, "hunter2"))
	assert.False(t, CheckPassword(hashed, "hunter3"))
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	first, err := HashPassword("same-password")
	require.NoError(t, err)
	second, err := HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
