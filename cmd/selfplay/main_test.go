package main

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-solver/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-solver/internal/render"
	"github.com/rocketscienceinc/tictactoe-solver/internal/tictactoe"
)

func TestPlay(t *testing.T) {
	// Given: a cached engine and a plain renderer
	var out bytes.Buffer
	renderer := render.New(&out, termenv.WithProfile(termenv.Ascii))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// When: the engine plays itself
	outcome, err := play(minimax.New(minimax.WithCache(0)), renderer, logger)

	// Then: the game is drawn after nine moves and every position was printed
	require.NoError(t, err)
	assert.Equal(t, tictactoe.Draw, outcome)
	assert.Equal(t, 10, strings.Count(out.String(), "\n\n"))
	assert.True(t, strings.HasSuffix(out.String(), "X X O\nO O X\nX O X\ndraw\n\n"))
}
