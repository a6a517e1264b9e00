package service

import (
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-solver/internal/tictactoe"
)

const (
	x = tictactoe.MarkX
	o = tictactoe.MarkO
	e = tictactoe.Empty
)

func newTestBot() BotService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewBotService(logger, minimax.New(minimax.WithCache(0)))
}

func newBotGame(botMark string) (*entity.Game, *entity.Player) {
	game := entity.NewGame("g1", entity.WithBotType)
	game.Status = entity.StatusOngoing

	humanMark := entity.PlayerX
	if botMark == entity.PlayerX {
		humanMark = entity.PlayerO
	}

	human := &entity.Player{ID: "p1", GameID: "g1", Mark: humanMark}
	game.Players = []*entity.Player{human, entity.NewBotPlayer("g1", botMark)}

	return game, human
}

func TestBotService_MakeTurn(t *testing.T) {
	t.Run("Hard bot takes the win", func(t *testing.T) {
		// Given: the bot plays O and can complete the middle row
		game, _ := newBotGame(entity.PlayerO)
		game.Board = tictactoe.Board{{x, x, e}, {o, o, e}, {x, e, e}}

		// When: the bot makes its turn
		err := newTestBot().MakeTurn(game)

		// Then: O wins
		require.NoError(t, err)
		assert.Equal(t, o, game.Board[1][2])
		assert.True(t, game.IsFinished())
		assert.Equal(t, entity.PlayerO, game.Winner)
	})

	t.Run("Hard bot blocks", func(t *testing.T) {
		// Given: the bot plays X and O threatens column 2
		game, _ := newBotGame(entity.PlayerX)
		game.Board = tictactoe.Board{{x, e, o}, {e, e, o}, {e, x, e}}

		// When: the bot makes its turn
		err := newTestBot().MakeTurn(game)

		// Then: the threat is blocked
		require.NoError(t, err)
		assert.Equal(t, x, game.Board[2][2])
		assert.Equal(t, entity.PlayerO, game.Turn)
	})

	t.Run("Easy bot plays a legal move", func(t *testing.T) {
		game, _ := newBotGame(entity.PlayerX)
		game.Difficulty = entity.EasyDifficulty

		err := newTestBot().MakeTurn(game)

		require.NoError(t, err)
		assert.Len(t, game.Board.LegalMoves(), 8)
	})

	t.Run("Error on unknown difficulty", func(t *testing.T) {
		// Given: a game with a difficulty the bot does not know
		game, _ := newBotGame(entity.PlayerX)
		game.Difficulty = "medium"

		// When: the bot makes its turn
		err := newTestBot().MakeTurn(game)

		// Then: the turn is refused and the board is untouched
		require.ErrorIs(t, err, apperror.ErrUnknownDifficulty)
		assert.Equal(t, tictactoe.Initial(), game.Board)
	})

	t.Run("Error when there is no bot", func(t *testing.T) {
		game := entity.NewGame("g1", entity.PrivateType)
		game.Status = entity.StatusOngoing

		err := newTestBot().MakeTurn(game)

		assert.ErrorIs(t, err, ErrBotNotFound)
	})

	t.Run("Error on finished board", func(t *testing.T) {
		game, _ := newBotGame(entity.PlayerO)
		game.Board = tictactoe.Board{{x, x, x}, {o, o, e}, {e, e, e}}

		err := newTestBot().MakeTurn(game)

		assert.ErrorIs(t, err, ErrNoAvailableMoves)
	})

	t.Run("Hard bot never loses against random play", func(t *testing.T) {
		bot := newTestBot()
		rng := rand.New(rand.NewSource(42)) //nolint: gosec // test

		for i := 0; i < 50; i++ {
			botMark := entity.PlayerO
			if i%2 == 0 {
				botMark = entity.PlayerX
			}

			// Given: a fresh game against the bot
			game, human := newBotGame(botMark)

			// When: a random opponent plays it out
			for !game.IsFinished() {
				if game.Turn == botMark {
					require.NoError(t, bot.MakeTurn(game))
					continue
				}

				moves := game.Board.LegalMoves()
				require.NoError(t, game.MakeTurn(human.Mark, moves[rng.Intn(len(moves))]))
			}

			// Then: the human never wins
			assert.NotEqual(t, human.Mark, game.Winner, game.Board.String())
		}
	})
}

func TestBotService_SuggestMove(t *testing.T) {
	move, ok := newTestBot().SuggestMove(tictactoe.Board{{x, x, e}, {o, o, e}, {e, e, e}})

	require.True(t, ok)
	assert.Equal(t, tictactoe.Move{Row: 0, Col: 2}, move)

	_, ok = newTestBot().SuggestMove(tictactoe.Board{{x, x, x}, {o, o, e}, {e, e, e}})
	assert.False(t, ok)
}
