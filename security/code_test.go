package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	seen := map[string]bool{}

	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)

		assert.Len(t, code, CodeLength)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "code must be numeric, got %q", code)
		}

		seen[code] = true
	}

	// 50 draws from a million values colliding down to a handful would
	// mean the generator is broken
	assert.Greater(t, len(seen), 40)
}
