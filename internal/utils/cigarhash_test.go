package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCigarHash(t *testing.T) {
	h, err := NewCigarHash(3, 5)
	require.NoError(t, err)
	assert.Len(t, h, 64)
	assert.True(t, ValidCigarHash(h))
}

func TestNewCigarHashDistinct(t *testing.T) {
	// The salt keeps identical product/size intakes apart.
	a, err := NewCigarHash(3, 5)
	require.NoError(t, err)
	b, err := NewCigarHash(3, 5)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestValidCigarHash(t *testing.T) {
	good := strings.Repeat("ab12", 16)

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"well formed", good, true},
		{"empty", "", false},
		{"too short", good[:63], false},
		{"too long", good + "a", false},
		{"upper case rejected", strings.ToUpper(good), false},
		{"non-hex character", good[:63] + "g", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidCigarHash(tt.in))
		})
	}
}
