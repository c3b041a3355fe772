package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	for _, p := range []string{"Demo123!", "correct horse battery staple", "ünïcödé-Ω1!"} {
		hash, err := HashPassword(p)
		require.NoError(t, err)
		assert.NotEqual(t, p, hash)
		assert.True(t, VerifyPassword(p, hash), "password %q", p)
		assert.False(t, VerifyPassword(p+"x", hash), "password %q", p)
	}
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	first, err := HashPassword("Demo123!")
	require.NoError(t, err)
	second, err := HashPassword("Demo123!")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, VerifyPassword("Demo123!", first))
	assert.True(t, VerifyPassword("Demo123!", second))
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	assert.False(t, VerifyPassword("Demo123!", ""))
	assert.False(t, VerifyPassword("Demo123!", "not-a-bcrypt-hash"))
	assert.False(t, VerifyPassword("Demo123!", "$2a$10$short"))
}

func TestCheckPassword(t *testing.T) {
	tests := []struct {
		password string
		want     error
	}{
		{"Demo123!", nil},
		{"De1!", ErrPasswordTooShort},
		{"abcdefgh!", ErrPasswordNotAlphanumeric},
		{"12345678!", ErrPasswordNotAlphanumeric},
		{"Demo12345", ErrPasswordDoesNotHaveSpecialCharacter},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := CheckPassword(tt.password)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
