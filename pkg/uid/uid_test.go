package uid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUUID_Generate(t *testing.T) {
	gen := NewUUID()

	first := gen.Generate()
	second := gen.Generate()

	assert.True(t, Valid(first))
	assert.True(t, Valid(second))
	assert.NotEqual(t, first, second)
	assert.Less(t, first, second)
}

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "canonical", in: "0190b6d4-2f3a-7c1e-9a55-3c2a1f0e4b77", want: true},
		{name: "empty", in: "", want: false},
		{name: "no dashes", in: "0190b6d42f3a7c1e9a553c2a1f0e4b77", want: false},
		{name: "garbage", in: "not-a-uuid-at-all-but-thirty-six-chr", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.in))
		})
	}
}

func TestStatic(t *testing.T) {
	var gen StringID = Static("fixed")
	assert.Equal(t, "fixed", gen.Generate())
}
