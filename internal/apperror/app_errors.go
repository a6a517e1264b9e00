package apperror

import "errors"

var (
	ErrGameFinished      = errors.New("game is already finished")
	ErrGameIsNotStarted  = errors.New("game is not started")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrGameAlreadyExists = errors.New("game already exists")
	ErrGameIsFull        = errors.New("game is full")
	ErrNoActiveGame      = errors.New("no active game")
	ErrNotFound          = errors.New("not found")
	ErrUnknownGameType   = errors.New("unknown game type")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)
