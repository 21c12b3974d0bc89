package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shade string

const (
	shadeLight shade = "light"
	shadeDark  shade = "dark"
)

func newShadeNormalizer() *Normalizer[shade] {
	return NewNormalizer("shade", map[string]shade{
		"light": shadeLight,
		"Dark":  shadeDark,
		"night": shadeDark,
	}, shadeLight)
}

func TestNormalize(t *testing.T) {
	n := newShadeNormalizer()
	tests := []struct {
		input string
		want  shade
	}{
		{"light", shadeLight},
		{"DARK", shadeDark},
		{"  night ", shadeDark},
		{"sepia", shadeLight},
		{"", shadeLight},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, n.Normalize(tt.input), "input %q", tt.input)
	}
}

func TestParse(t *testing.T) {
	n := newShadeNormalizer()

	got, err := n.Parse(" Night")
	require.NoError(t, err)
	assert.Equal(t, shadeDark, got)

	_, err = n.Parse("sepia")
	require.Error(t, err)
	assert.Equal(t, `invalid shade "sepia", valid options: dark, light, night`, err.Error())
}
