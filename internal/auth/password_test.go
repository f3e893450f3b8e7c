package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasher_RoundTrip(t *testing.T) {
	hasher := NewHasher()

	salt, err := hasher.NewSalt()
	assert.NoError(t, err)
	assert.Len(t, salt, saltLength)

	digest := hasher.Hash("hunter2", salt)
	assert.Len(t, digest, keyLength)

	assert.True(t, hasher.Verify("hunter2", salt, digest))
	assert.False(t, hasher.Verify("hunter3", salt, digest))
}

func TestHasher_SaltsAreUnique(t *testing.T) {
	hasher := NewHasher()

	first, err := hasher.NewSalt()
	assert.NoError(t, err)
	second, err := hasher.NewSalt()
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NotEqual(t, hasher.Hash("hunter2", first), hasher.Hash("hunter2", second))
}

func TestHasher_DeterministicForSameSalt(t *testing.T) {
	hasher := NewHasher()

	salt, err := hasher.NewSalt()
	assert.NoError(t, err)

	assert.Equal(t, hasher.Hash("hunter2", salt), hasher.Hash("hunter2", salt))
}
