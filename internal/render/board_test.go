package render

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-solver/internal/tictactoe"
)

const (
	x = tictactoe.MarkX
	o = tictactoe.MarkO
	e = tictactoe.Empty
)

func TestRenderer_Board(t *testing.T) {
	t.Run("Plain text without colours", func(t *testing.T) {
		// Given: a renderer without colour support
		renderer := New(&bytes.Buffer{}, termenv.WithProfile(termenv.Ascii))
		board := tictactoe.Board{{x, o, e}, {e, x, e}, {e, e, o}}

		// When: rendering the board
		out := renderer.Board(board, &tictactoe.Move{Row: 2, Col: 2})

		// Then: the cells are printed as is
		assert.Equal(t, "X O .\n. X .\n. . O", out)
	})

	t.Run("Marks are coloured on ANSI terminals", func(t *testing.T) {
		renderer := New(&bytes.Buffer{}, termenv.WithProfile(termenv.ANSI256))

		out := renderer.Board(tictactoe.Board{{x, e, e}, {e, e, e}, {e, e, e}}, nil)

		assert.Contains(t, out, "\x1b[")
		assert.Contains(t, out, "X")
	})
}

func TestRenderer_Outcome(t *testing.T) {
	renderer := New(&bytes.Buffer{}, termenv.WithProfile(termenv.Ascii))

	tests := []struct {
		name  string
		board tictactoe.Board
		want  string
	}{
		{name: "initial", board: tictactoe.Initial(), want: "X to move"},
		{name: "O to move", board: tictactoe.Board{{x, e, e}, {e, e, e}, {e, e, e}}, want: "O to move"},
		{name: "X wins", board: tictactoe.Board{{x, x, x}, {o, o, e}, {e, e, e}}, want: "X wins"},
		{name: "O wins", board: tictactoe.Board{{o, x, x}, {x, o, e}, {e, e, o}}, want: "O wins"},
		{name: "draw", board: tictactoe.Board{{x, o, x}, {x, o, o}, {o, x, x}}, want: "draw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderer.Outcome(tt.board))
		})
	}
}

func TestRenderer_Print(t *testing.T) {
	var buf bytes.Buffer
	renderer := New(&buf, termenv.WithProfile(termenv.Ascii))

	require.NoError(t, renderer.Print(tictactoe.Initial(), nil))

	assert.Equal(t, ". . .\n. . .\n. . .\nX to move\n\n", buf.String())
}
