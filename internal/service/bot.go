package service

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-solver/internal/tictactoe"
)

var (
	ErrBotNotFound      = errors.New("bot player not found")
	ErrNoAvailableMoves = errors.New("no available moves")
)

type BotService interface {
	MakeTurn(game *entity.Game) error
	SuggestMove(board tictactoe.Board) (tictactoe.Move, bool)
}

type searchEngine interface {
	OptimalMove(board tictactoe.Board) (tictactoe.Move, bool)
	Stats() minimax.Stats
}

type botService struct {
	logger *slog.Logger
	engine searchEngine
}

// NewBotService plays with engine on hard games and randomly on easy ones.
// Games without a difficulty are played as hard.
func NewBotService(logger *slog.Logger, engine searchEngine) BotService {
	return &botService{
		logger: logger.With("component", "bot"),
		engine: engine,
	}
}

func (that *botService) MakeTurn(game *entity.Game) error {
	log := that.logger.With("method", "MakeTurn", "gameID", game.ID)

	botPlayer := game.Bot()
	if botPlayer == nil {
		return ErrBotNotFound
	}

	moves := game.Board.LegalMoves()
	if len(moves) == 0 || game.Board.IsTerminal() {
		return ErrNoAvailableMoves
	}

	difficulty := game.Difficulty
	if difficulty == "" {
		difficulty = entity.HardDifficulty
	}

	var move tictactoe.Move
	switch difficulty {
	case entity.EasyDifficulty:
		move = moves[rand.Intn(len(moves))] //nolint: gosec // it's ok
	case entity.HardDifficulty:
		optimal, ok := that.engine.OptimalMove(game.Board)
		if !ok {
			return ErrNoAvailableMoves
		}
		move = optimal
	default:
		return fmt.Errorf("%w: %q", apperror.ErrUnknownDifficulty, difficulty)
	}

	if err := game.MakeTurn(botPlayer.Mark, move); err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	stats := that.engine.Stats()
	log.Debug("bot made turn", "difficulty", difficulty, "move", move.String(), "nodes", stats.Nodes, "cacheHits", stats.CacheHits)

	return nil
}

func (that *botService) SuggestMove(board tictactoe.Board) (tictactoe.Move, bool) {
	return that.engine.OptimalMove(board)
}
