package entity

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/tictactoe"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"

	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "-"
)

const (
	PrivateType = "private"
	WithBotType = "bot"
)

const (
	EasyDifficulty = "easy"
	HardDifficulty = "hard"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

func IsKnownDifficulty(difficulty string) bool {
	return difficulty == EasyDifficulty || difficulty == HardDifficulty
}

type Game struct {
	ID         string          `json:"id"`
	Board      tictactoe.Board `json:"board"`
	Winner     string          `json:"winner"`
	Status     string          `json:"status"`
	Turn       string          `json:"player_turn"`
	Players    []*Player       `json:"players,omitempty"`
	Type       string          `json:"type,omitempty"`
	Difficulty string          `json:"difficulty,omitempty"`
}

func NewGame(id, gameType string) *Game {
	return &Game{
		ID:     id,
		Board:  tictactoe.Initial(),
		Turn:   PlayerX,
		Status: StatusWaiting,
		Type:   gameType,
	}
}

// UpdateGameState derives turn, winner and status from the board.
func (that *Game) UpdateGameState() {
	switch outcome := that.Board.Outcome(); outcome {
	// one player wins
	case tictactoe.XWins, tictactoe.OWins:
		that.Winner = that.Board.Winner().String()
		that.Status = StatusFinished
		that.Turn = ""
	// tie
	case tictactoe.Draw:
		that.Winner = PlayerTie
		that.Status = StatusFinished
		that.Turn = ""
	// game continue
	default:
		that.Status = StatusOngoing
		that.Turn = that.Board.ActivePlayer().String()
	}
}

// MakeTurn plays move for playerMark. The board is left untouched on error.
func (that *Game) MakeTurn(playerMark string, move tictactoe.Move) error {
	if err := that.ConfirmOngoingState(); err != nil {
		return err
	}

	if that.Board.ActivePlayer().String() != playerMark {
		return apperror.ErrNotYourTurn
	}

	board, err := that.Board.Apply(move)
	if err != nil {
		return fmt.Errorf("failed to apply move: %w", err)
	}

	that.Board = board
	that.UpdateGameState()

	return nil
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

func (that *Game) IsWithBot() bool {
	return that.Type == WithBotType
}

// Bot returns the bot player of the game, or nil.
func (that *Game) Bot() *Player {
	for _, player := range that.Players {
		if player.IsBot() {
			return player
		}
	}
	return nil
}

// PlayerByID returns the participant with the given id, or nil.
func (that *Game) PlayerByID(id string) *Player {
	for _, player := range that.Players {
		if player.ID == id {
			return player
		}
	}
	return nil
}

func (that *Game) GetRandomMarks() (string, string) {
	if rand.Intn(2) == 0 { //nolint: gosec // it's ok
		return PlayerX, PlayerO
	}
	return PlayerO, PlayerX
}
