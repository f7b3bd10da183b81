package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateVenueCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := GenerateVenueCode()
		assert.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, strings.ContainsRune("23456789ABCDEFGHJKMNPQRSTUVWXYZ", r), "lookalike or invalid char %q", r)
		}
		seen[code] = true
	}
	// 100 draws from a 31^6 space colliding would mean the generator is broken.
	assert.Greater(t, len(seen), 95)
}

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
