package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff0000")
	require.NoError(t, err)
	assert.Equal(t, ColorRed, c)

	c, err = ParseColor("#00000080")
	require.NoError(t, err)
	assert.InDelta(t, 0.502, c.A, 0.001)

	for _, bad := range []string{"", "red", "#ff00", "#gg0000"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}
