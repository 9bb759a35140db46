package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"unicode password", "密码123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := hasher.Hash(tt.password)
			require.NoError(t, err)
			assert.NotEqual(t, tt.password, hash)
			assert.True(t, hasher.Verify(tt.password, hash))
			assert.False(t, hasher.Verify(tt.password+"1", hash))
			assert.False(t, hasher.Verify("", hash))
		})
	}
}

func TestPasswordHasher_Salted(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	h1, err := hasher.Hash("samepassword")
	require.NoError(t, err)
	h2, err := hasher.Hash("samepassword")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, hasher.Verify("samepassword", h1))
	assert.True(t, hasher.Verify("samepassword", h2))
}

func TestPasswordHasher_Cost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).Cost())
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(99).Cost())
	assert.Equal(t, 12, NewPasswordHasher(12).Cost())

	hash, err := NewPasswordHasher(bcrypt.MinCost).Hash("pw")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestPasswordHasher_VerifyGarbageHash(t *testing.T) {
	assert.False(t, NewPasswordHasher(bcrypt.MinCost).Verify("pw", "not-a-hash"))
	assert.False(t, NewPasswordHasher(bcrypt.MinCost).Verify("pw", ""))
}
