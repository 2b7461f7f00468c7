package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testEnum string

const (
	testEnumAlpha testEnum = "alpha"
	testEnumBeta  testEnum = "beta"
)

func TestNormalizer(t *testing.T) {
	n := NewNormalizer(map[string]testEnum{
		"alpha": testEnumAlpha,
		"a":     testEnumAlpha,
		" BETA": testEnumBeta,
	}, testEnumAlpha)

	tests := []struct {
		input string
		want  testEnum
		ok    bool
	}{
		{"alpha", testEnumAlpha, true},
		{"  A ", testEnumAlpha, true},
		{"Beta", testEnumBeta, true},
		{"gamma", testEnumAlpha, false},
		{"", testEnumAlpha, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.input))
			_, ok := n.Lookup(tt.input)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestNormalizer_ValidKeys(t *testing.T) {
	n := NewNormalizer(map[string]testEnum{"beta": testEnumBeta, "Alpha": testEnumAlpha}, "")
	keys := n.ValidKeys()
	assert.Equal(t, []string{"alpha", "beta"}, keys)

	keys[0] = "mutated"
	assert.Equal(t, []string{"alpha", "beta"}, n.ValidKeys())
}
