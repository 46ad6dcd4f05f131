package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	salt, key, err := HashPassword("secret")
	require.NoError(t, err)
	assert.Len(t, salt, saltLength)
	assert.Len(t, key, keyLength)

	assert.True(t, VerifyPassword(salt, key, "secret"))
	assert.False(t, VerifyPassword(salt, key, "Secret"))
	assert.False(t, VerifyPassword(salt, key, ""))
}

func TestHashPasswordUsesFreshSalt(t *testing.T) {
	salt1, key1, err := HashPassword("secret")
	require.NoError(t, err)
	salt2, key2, err := HashPassword("secret")
	require.NoError(t, err)

	assert.NotEqual(t, salt1, salt2)
	assert.NotEqual(t, key1, key2)
	assert.True(t, VerifyPassword(salt2, key2, "secret"))
}

func TestVerifyPasswordMalformedInput(t *testing.T) {
	_, key, err := HashPassword("secret")
	require.NoError(t, err)

	assert.False(t, VerifyPassword(nil, key, "secret"))
	assert.False(t, VerifyPassword([]byte{1, 2, 3}, nil, "secret"))
	assert.False(t, VerifyPassword(nil, nil, "secret"))
}
