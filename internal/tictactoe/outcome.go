package tictactoe

// Outcome is the derived result of a board. It is never stored.
type Outcome uint8

const (
	InProgress Outcome = iota
	XWins
	OWins
	Draw
)

func (that Outcome) String() string {
	switch that {
	case XWins:
		return "x_wins"
	case OWins:
		return "o_wins"
	case Draw:
		return "draw"
	default:
		return "in_progress"
	}
}

func (that Board) Outcome() Outcome {
	switch that.Winner() {
	case MarkX:
		return XWins
	case MarkO:
		return OWins
	}

	if that.isFull() {
		return Draw
	}

	return InProgress
}
