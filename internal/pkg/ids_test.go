package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIDs(t *testing.T) {
	gameID, err := GenerateGameID()
	require.NoError(t, err)
	assert.Len(t, gameID, 8)

	first, err := GenerateNewSessionID()
	require.NoError(t, err)
	second, err := GenerateNewSessionID()
	require.NoError(t, err)

	assert.Len(t, first, 32)
	assert.NotEqual(t, first, second)
}
