package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type level string

func newLevels() *Normalizer[level] {
	return NewNormalizer(map[string]level{
		"debug": "debug",
		"info":  "info",
		"WARN":  "warn",
	}, "info")
}

func TestNormalize(t *testing.T) {
	n := newLevels()

	assert.Equal(t, level("debug"), n.Normalize("  DEBUG "))
	assert.Equal(t, level("warn"), n.Normalize("warn"))
	assert.Equal(t, level("info"), n.Normalize("verbose"))
}

func TestNormalizeWithError(t *testing.T) {
	n := newLevels()

	got, err := n.NormalizeWithError("Info")
	require.NoError(t, err)
	assert.Equal(t, level("info"), got)

	got, err = n.NormalizeWithError("")
	require.NoError(t, err)
	assert.Equal(t, level("info"), got)

	_, err = n.NormalizeWithError("loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[debug info warn]")
}

func TestValidKeys_ReturnsCopy(t *testing.T) {
	n := newLevels()
	keys := n.ValidKeys()
	keys[0] = "mutated"
	assert.Equal(t, []string{"debug", "info", "warn"}, n.ValidKeys())
}
