package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestSealerRoundTrip(t *testing.T) {
	sealer, err := NewSealer(testKey)
	require.NoError(t, err)
	require.True(t, sealer.Enabled())

	sealed, err := sealer.SealString("42101-1234567-1")
	require.NoError(t, err)
	assert.NotEqual(t, "42101-1234567-1", string(sealed))
	assert.Equal(t, "42101-1234567-1", sealer.OpenString(sealed, ""))
}

func TestSealerDisabledPassesThrough(t *testing.T) {
	sealer, err := NewSealer("")
	require.NoError(t, err)
	assert.False(t, sealer.Enabled())

	sealed, err := sealer.SealString("42101-1234567-1")
	require.NoError(t, err)
	assert.Equal(t, "42101-1234567-1", string(sealed))
	assert.Equal(t, "plain", sealer.OpenString(nil, "plain"))
}

func TestSealerRejectsShortKey(t *testing.T) {
	_, err := NewSealer("short")
	assert.Error(t, err)
}

func TestOpenStringFallsBackOnGarbage(t *testing.T) {
	sealer, err := NewSealer(testKey)
	require.NoError(t, err)
	assert.Equal(t, "fallback", sealer.OpenString([]byte("xx"), "fallback"))
}
