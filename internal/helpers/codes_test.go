package helpers

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	// The code is part of an SMS message and typed by hand, so the format
	// is fixed: exactly six digits, never a shorter number zero-padded
	// away.
	for i := 0; i < 1000; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)

		value, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, value, 100000)
		assert.LessOrEqual(t, value, 999999)
	}
}

func TestGenerateCode_NotConstant(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestGenerateOpaqueToken(t *testing.T) {
	token, err := GenerateOpaqueToken(32)
	require.NoError(t, err)
	assert.Len(t, token, 64)
	assert.Regexp(t, "^[0-9a-f]+$", token)

	other, err := GenerateOpaqueToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}
