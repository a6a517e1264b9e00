package tictactoe

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes the board as a 3x3 array of "X", "O" and "".
func (that Board) MarshalJSON() ([]byte, error) {
	var rows [Size][Size]string
	for row := range that {
		for col, cell := range that[row] {
			rows[row][col] = cell.String()
		}
	}
	return json.Marshal(rows)
}

func (that *Board) UnmarshalJSON(data []byte) error {
	var rows [][]string
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedBoard, err)
	}

	if len(rows) != Size {
		return fmt.Errorf("%w: expected %d rows, got %d", ErrMalformedBoard, Size, len(rows))
	}

	var board Board
	for row := range rows {
		if len(rows[row]) != Size {
			return fmt.Errorf("%w: row %d has %d cells", ErrMalformedBoard, row, len(rows[row]))
		}

		for col, mark := range rows[row] {
			cell, err := ParseCell(mark)
			if err != nil {
				return err
			}
			board[row][col] = cell
		}
	}

	*that = board

	return nil
}
