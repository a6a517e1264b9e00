package tictactoe

import (
	"errors"
	"fmt"
	"strings"
)

const Size = 3

// Cell is the state of a single square on the board.
type Cell uint8

const (
	Empty Cell = iota
	MarkX
	MarkO
)

var (
	ErrInvalidMove    = errors.New("invalid move")
	ErrMalformedBoard = errors.New("malformed board")

	// WinLines lists every line of three cells: rows, then columns, then diagonals.
	// Winner relies on this order.
	WinLines = [8][3]Move{
		{{0, 0}, {0, 1}, {0, 2}},
		{{1, 0}, {1, 1}, {1, 2}},
		{{2, 0}, {2, 1}, {2, 2}},
		{{0, 0}, {1, 0}, {2, 0}},
		{{0, 1}, {1, 1}, {2, 1}},
		{{0, 2}, {1, 2}, {2, 2}},
		{{0, 0}, {1, 1}, {2, 2}},
		{{0, 2}, {1, 1}, {2, 0}},
	}
)

func (that Cell) String() string {
	switch that {
	case MarkX:
		return "X"
	case MarkO:
		return "O"
	default:
		return ""
	}
}

// ParseCell is the inverse of Cell.String.
func ParseCell(s string) (Cell, error) {
	switch s {
	case "X":
		return MarkX, nil
	case "O":
		return MarkO, nil
	case "":
		return Empty, nil
	default:
		return Empty, fmt.Errorf("%w: unknown mark %q", ErrMalformedBoard, s)
	}
}

// Move addresses a cell by row and column.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// MoveFromIndex converts a row-major cell index (0..8) into a Move.
func MoveFromIndex(index int) Move {
	if index < 0 {
		return Move{Row: -1, Col: -1}
	}
	return Move{Row: index / Size, Col: index % Size}
}

// Index is the row-major cell index of the move.
func (that Move) Index() int {
	return that.Row*Size + that.Col
}

func (that Move) inRange() bool {
	return that.Row >= 0 && that.Row < Size && that.Col >= 0 && that.Col < Size
}

func (that Move) String() string {
	return fmt.Sprintf("(%d,%d)", that.Row, that.Col)
}

// Board is an immutable 3x3 grid. Every transformation returns a new Board.
type Board [Size][Size]Cell

// Initial returns the empty starting board.
func Initial() Board {
	return Board{}
}

func (that Board) count() (x, o int) {
	for _, row := range that {
		for _, cell := range row {
			switch cell {
			case MarkX:
				x++
			case MarkO:
				o++
			}
		}
	}
	return x, o
}

// ActivePlayer derives whose turn it is from the mark counts: X moves first.
func (that Board) ActivePlayer() Cell {
	if x, o := that.count(); x == o {
		return MarkX
	}
	return MarkO
}

// LegalMoves returns every empty cell in row-major order.
func (that Board) LegalMoves() []Move {
	moves := make([]Move, 0, Size*Size)
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if that[row][col] == Empty {
				moves = append(moves, Move{Row: row, Col: col})
			}
		}
	}
	return moves
}

// Apply places the active player's mark at move and returns the resulting board.
func (that Board) Apply(move Move) (Board, error) {
	if !move.inRange() {
		return that, fmt.Errorf("%w: cell %s is out of range", ErrInvalidMove, move)
	}

	if that[move.Row][move.Col] != Empty {
		return that, fmt.Errorf("%w: cell %s is already occupied", ErrInvalidMove, move)
	}

	next := that
	next[move.Row][move.Col] = that.ActivePlayer()

	return next, nil
}

// Winner returns the mark owning the first complete line, or Empty.
func (that Board) Winner() Cell {
	for _, line := range WinLines {
		a := that[line[0].Row][line[0].Col]
		b := that[line[1].Row][line[1].Col]
		c := that[line[2].Row][line[2].Col]
		if a != Empty && a == b && b == c {
			return a
		}
	}
	return Empty
}

func (that Board) isFull() bool {
	x, o := that.count()
	return x+o == Size*Size
}

// IsTerminal reports whether the game on this board is over.
func (that Board) IsTerminal() bool {
	return that.Winner() != Empty || that.isFull()
}

// Utility is +1 when X has won, -1 when O has won and 0 otherwise.
func (that Board) Utility() int {
	switch that.Winner() {
	case MarkX:
		return 1
	case MarkO:
		return -1
	default:
		return 0
	}
}

// Validate checks the mark-count invariant. Boards built with Initial and Apply always pass.
func (that Board) Validate() error {
	x, o := that.count()
	if x != o && x != o+1 {
		return fmt.Errorf("%w: %d X marks and %d O marks", ErrMalformedBoard, x, o)
	}
	return nil
}

func (that Board) String() string {
	var sb strings.Builder
	for row := 0; row < Size; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := 0; col < Size; col++ {
			switch that[row][col] {
			case MarkX:
				sb.WriteByte('X')
			case MarkO:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}
