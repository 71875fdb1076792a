package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Str0ng!Pass"))
	assert.Error(t, ValidatePassword("short1!"))
	assert.Error(t, ValidatePassword("alllowercase1!"))
	assert.Error(t, ValidatePassword("NoNumberHere!"))
	assert.Error(t, ValidatePassword("NoSpecial123"))
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Str0ng!Pass")
	require.NoError(t, err)
	assert.NotEqual(t, "Str0ng!Pass", hash)
	assert.True(t, CheckPassword(hash, "Str0ng!Pass"))
	assert.False(t, CheckPassword(hash, "WrongPass1!"))
}

func TestGenerateOTP(t *testing.T) {
	code, err := GenerateOTP()
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9')
	}

	hash, err := HashOTP(code)
	require.NoError(t, err)
	assert.True(t, CheckOTP(hash, code))
	if code != "999999" {
		assert.False(t, CheckOTP(hash, "999999"))
	}
}

func TestTokenPairRoundTrip(t *testing.T) {
	pair, err := GenerateTokenPair(42, "user@example.com", "seller", "secret", 1, 24)
	require.NoError(t, err)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	claims, err := ValidateToken(pair.AccessToken, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "seller", claims.Role)

	_, err = ValidateToken(pair.AccessToken, "wrong-secret")
	assert.Error(t, err)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello  "))
	assert.Equal(t, "user@example.com", SanitizeEmail("  USER@Example.COM "))
	assert.Equal(t, "+255 712 345 678", SanitizePhone("+255 712 345 678abc"))
}
