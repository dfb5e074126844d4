package random

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRandomString_LengthAndCharset(t *testing.T) {
	for _, length := range []int{1, 6, 16} {
		code, err := NewRandomString(length)
		require.NoError(t, err)
		assert.Len(t, code, length)

		for _, r := range code {
			assert.True(t, strings.ContainsRune(codeAlphabet, r),
				"unexpected character %q in %q", r, code)
		}
	}
}

func TestNewRandomString_InvalidLength(t *testing.T) {
	_, err := NewRandomString(0)
	assert.Error(t, err)

	_, err = NewRandomString(-3)
	assert.Error(t, err)
}

func TestNewRandomString_Distinct(t *testing.T) {
	// With a 62^6 space, 100 draws colliding would mean a broken source.
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := NewRandomString(6)
		require.NoError(t, err)
		assert.False(t, seen[code], "duplicate code %q", code)
		seen[code] = true
	}
}
