// Package render prints boards for terminals, coloured when the terminal supports it.
package render

import (
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-solver/internal/tictactoe"
)

const (
	colorX = "#E06C75"
	colorO = "#61AFEF"
)

type Renderer struct {
	out *termenv.Output
}

// New writes to w. Without options the colour profile is detected from w and the environment.
func New(w io.Writer, opts ...termenv.OutputOption) *Renderer {
	return &Renderer{out: termenv.NewOutput(w, opts...)}
}

// Board returns the board as three lines of space separated cells. The last move, when given, is underlined.
func (that *Renderer) Board(board tictactoe.Board, last *tictactoe.Move) string {
	var sb strings.Builder

	for row := range board {
		if row > 0 {
			sb.WriteByte('\n')
		}

		for col, cell := range board[row] {
			if col > 0 {
				sb.WriteByte(' ')
			}

			style := that.cell(cell)
			if last != nil && last.Row == row && last.Col == col {
				style = style.Underline()
			}

			sb.WriteString(style.String())
		}
	}

	return sb.String()
}

func (that *Renderer) cell(cell tictactoe.Cell) termenv.Style {
	switch cell {
	case tictactoe.MarkX:
		return that.out.String(cell.String()).Foreground(that.out.Color(colorX)).Bold()
	case tictactoe.MarkO:
		return that.out.String(cell.String()).Foreground(that.out.Color(colorO)).Bold()
	default:
		return that.out.String(".").Faint()
	}
}

// Outcome describes how the game on board ended, or who is to move.
func (that *Renderer) Outcome(board tictactoe.Board) string {
	switch board.Outcome() {
	case tictactoe.XWins:
		return that.out.String("X wins").Foreground(that.out.Color(colorX)).Bold().String()
	case tictactoe.OWins:
		return that.out.String("O wins").Foreground(that.out.Color(colorO)).Bold().String()
	case tictactoe.Draw:
		return that.out.String("draw").Bold().String()
	default:
		return board.ActivePlayer().String() + " to move"
	}
}

// Print writes the board followed by its outcome line to the renderer's output.
func (that *Renderer) Print(board tictactoe.Board, last *tictactoe.Move) error {
	_, err := io.WriteString(that.out, that.Board(board, last)+"\n"+that.Outcome(board)+"\n\n")
	return err
}
