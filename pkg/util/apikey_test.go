package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAPIKey(t *testing.T) {
	key, err := GenerateAPIKey()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, APIKeyPrefix+"_"))

	other, err := GenerateAPIKey()
	require.NoError(t, err)
	assert.NotEqual(t, key, other)
}

func TestHashAndVerifyAPIKey(t *testing.T) {
	key, err := GenerateAPIKey()
	require.NoError(t, err)

	hash, err := HashAPIKey(key)
	require.NoError(t, err)
	assert.NotEqual(t, key, hash)

	assert.True(t, VerifyAPIKey(key, hash))
	assert.False(t, VerifyAPIKey(key+"x", hash))
	assert.False(t, VerifyAPIKey(key, "not-a-bcrypt-hash"))
}

func TestGenerateTempPassword(t *testing.T) {
	pw, err := GenerateTempPassword()
	require.NoError(t, err)
	assert.Len(t, pw, TempPasswordLength)

	other, err := GenerateTempPassword()
	require.NoError(t, err)
	assert.NotEqual(t, pw, other)
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	require.NoError(t, err)
	assert.True(t, VerifyPassword("hunter2hunter2", hash))
	assert.False(t, VerifyPassword("hunter3hunter3", hash))
}

func TestParseObjectID(t *testing.T) {
	id := GenerateObjectID()

	parsed, err := ParseObjectID(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
	assert.True(t, IsValidObjectID(id.Hex()))

	_, err = ParseObjectID("nope")
	assert.Error(t, err)
	assert.False(t, IsValidObjectID("nope"))
}
