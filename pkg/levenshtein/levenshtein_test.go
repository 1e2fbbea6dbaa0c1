package levenshtein_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/segviz/pkg/levenshtein"
)

func TestDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{"", "a", 1},
		{"a", "", 1},
		{"a", "a", 0},
		{"ab", "aaa", 2},
		{"kitten", "sitting", 3},
		{"Fön", "Föm", 1},
		{"insert", "inser", 1},
		{"max_f", "mx_f", 1},
	}

	ctx := &levenshtein.Context{}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ctx.Distance(tt.a, tt.b), "%q -> %q", tt.a, tt.b)
		assert.Equal(t, tt.want, ctx.Distance(tt.b, tt.a), "%q -> %q", tt.b, tt.a)
	}
}

func TestClosest(t *testing.T) {
	t.Parallel()

	candidates := []string{"add_f", "max_f", "min_f"}

	got, ok := levenshtein.Closest("mx_f", candidates, 2)
	assert.True(t, ok)
	assert.Equal(t, "max_f", got)

	got, ok = levenshtein.Closest("m_f", candidates, 2)
	assert.True(t, ok)
	assert.Equal(t, "max_f", got, "ties go to the earlier candidate")

	_, ok = levenshtein.Closest("histogram", candidates, 2)
	assert.False(t, ok)

	_, ok = levenshtein.Closest("x", nil, 2)
	assert.False(t, ok)
}
