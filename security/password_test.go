package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	h := NewHasher()

	encoded, err := h.Hash("hunter2hunter2")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(encoded, "$argon2id$"))
	assert.NotContains(t, encoded, "hunter2", "raw password must not leak into the hash")

	ok, err := h.Compare("hunter2hunter2", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Compare("wrong-password", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashesAreSalted(t *testing.T) {
	h := NewHasher()

	first, err := h.Hash("same-password")
	require.NoError(t, err)

	second, err := h.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCompareUsesStoredParameters(t *testing.T) {
	weaker := &Hasher{memory: 16 * 1024, iterations: 1, parallelism: 1, saltLen: 16, keyLen: 32}

	encoded, err := weaker.Hash("carried-over-password")
	require.NoError(t, err)

	// A hash made under old cost parameters still verifies under the
	// current defaults
	ok, err := NewHasher().Compare("carried-over-password", encoded)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCompareRejectsGarbage(t *testing.T) {
	h := NewHasher()

	for _, encoded := range []string{
		"not-a-phc-hash",
		"$argon2i$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=3,p=2$c2FsdA$aGFzaA",
	} {
		_, err := h.Compare("whatever", encoded)
		assert.Error(t, err, "should reject %q", encoded)
	}
}
