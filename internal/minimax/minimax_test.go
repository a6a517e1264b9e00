package minimax

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-solver/internal/tictactoe"
)

const (
	x = tictactoe.MarkX
	o = tictactoe.MarkO
	e = tictactoe.Empty
)

func reachable(t *testing.T) []tictactoe.Board {
	t.Helper()

	seen := map[tictactoe.Board]struct{}{}
	var walk func(b tictactoe.Board)
	walk = func(b tictactoe.Board) {
		if _, ok := seen[b]; ok {
			return
		}
		seen[b] = struct{}{}
		if b.IsTerminal() {
			return
		}
		for _, move := range b.LegalMoves() {
			next, err := b.Apply(move)
			require.NoError(t, err)
			walk(next)
		}
	}
	walk(tictactoe.Initial())

	boards := make([]tictactoe.Board, 0, len(seen))
	for b := range seen {
		boards = append(boards, b)
	}
	return boards
}

func TestOptimalMove(t *testing.T) {
	t.Run("Completes the winning row", func(t *testing.T) {
		// Given: X has two in the top row and it is X's turn
		board := tictactoe.Board{{x, x, e}, {o, o, e}, {e, e, e}}

		// When: asking for the optimal move
		move, ok := OptimalMove(board)

		// Then: X completes the row
		require.True(t, ok)
		assert.Equal(t, tictactoe.Move{Row: 0, Col: 2}, move)
	})

	t.Run("Blocks the opponent column", func(t *testing.T) {
		// Given: O is one move from completing column 2 and X has no immediate win
		board := tictactoe.Board{{x, e, o}, {e, e, o}, {e, x, e}}

		// When: asking for the optimal move
		move, ok := OptimalMove(board)

		// Then: X blocks at the bottom of column 2
		require.True(t, ok)
		assert.Equal(t, tictactoe.Move{Row: 2, Col: 2}, move)
	})

	t.Run("O takes the center against a corner opening", func(t *testing.T) {
		// Given: X opened in the corner
		board := tictactoe.Board{{x, e, e}, {e, e, e}, {e, e, e}}

		// When: O asks for the optimal move
		move, ok := OptimalMove(board)

		// Then: the center is the only drawing reply
		require.True(t, ok)
		assert.Equal(t, tictactoe.Move{Row: 1, Col: 1}, move)
	})

	t.Run("First move in row-major order wins ties", func(t *testing.T) {
		// When: asking for the opening move
		move, ok := OptimalMove(tictactoe.Initial())

		// Then: every opening draws, so the first cell is kept
		require.True(t, ok)
		assert.Equal(t, tictactoe.Move{Row: 0, Col: 0}, move)
	})

	t.Run("No move on a full board", func(t *testing.T) {
		// Given: a full board without a winner
		board := tictactoe.Board{{x, o, x}, {x, o, o}, {o, x, x}}

		// When: asking for the optimal move
		_, ok := OptimalMove(board)

		// Then: there is no move
		assert.False(t, ok)
	})

	t.Run("No move on a won board", func(t *testing.T) {
		board := tictactoe.Board{{x, x, x}, {o, o, e}, {e, e, e}}
		_, ok := OptimalMove(board)
		assert.False(t, ok)
	})

	t.Run("Self play from the initial board is a draw", func(t *testing.T) {
		// Given: the initial board
		board := tictactoe.Initial()

		// When: both sides play the optimal move until the game ends
		for !board.IsTerminal() {
			move, ok := OptimalMove(board)
			require.True(t, ok)

			var err error
			board, err = board.Apply(move)
			require.NoError(t, err)
		}

		// Then: nobody wins
		assert.Equal(t, 0, board.Utility())
		assert.Equal(t, tictactoe.Draw, board.Outcome())
	})

	t.Run("Returned move is always legal", func(t *testing.T) {
		engine := New(WithCache(0))
		for _, board := range reachable(t) {
			move, ok := engine.OptimalMove(board)
			if board.IsTerminal() {
				assert.False(t, ok)
				continue
			}

			require.True(t, ok)
			_, err := board.Apply(move)
			assert.NoError(t, err, board.String())
		}
	})
}

func TestMaximizeMinimize(t *testing.T) {
	t.Run("Terminal board returns utility and no move", func(t *testing.T) {
		// Given: a board won by O
		board := tictactoe.Board{{o, x, x}, {x, o, e}, {e, e, o}}

		// When: searching it with either role
		maxDecision := Maximize(board)
		minDecision := Minimize(board)

		// Then: the utility is returned without a move
		assert.Equal(t, Decision{Value: -1}, maxDecision)
		assert.Equal(t, Decision{Value: -1}, minDecision)
	})

	t.Run("Initial board is worth a draw", func(t *testing.T) {
		decision := Maximize(tictactoe.Initial())
		assert.Equal(t, 0, decision.Value)
		assert.True(t, decision.Found)
	})

	t.Run("Winning position for X", func(t *testing.T) {
		board := tictactoe.Board{{x, x, e}, {o, o, e}, {e, e, e}}
		assert.Equal(t, Decision{Value: 1, Move: tictactoe.Move{Row: 0, Col: 2}, Found: true}, Maximize(board))
	})

	t.Run("O wins when it is O's turn on the same shape", func(t *testing.T) {
		// Given: both sides threaten a row and O is to move
		board := tictactoe.Board{{x, x, e}, {o, o, e}, {x, e, e}}

		// When: minimizing
		decision := Minimize(board)

		// Then: O completes its own row
		assert.Equal(t, -1, decision.Value)
		assert.Equal(t, tictactoe.Move{Row: 1, Col: 2}, decision.Move)
	})
}

func TestRoleOf(t *testing.T) {
	assert.Equal(t, Max, RoleOf(tictactoe.Initial()))
	assert.Equal(t, Min, RoleOf(tictactoe.Board{{x, e, e}, {e, e, e}, {e, e, e}}))
}

func TestEngine_Stats(t *testing.T) {
	t.Run("Uncached search visits the whole tree", func(t *testing.T) {
		// Given: a fresh engine without a cache
		engine := New()

		// When: searching the initial board
		engine.Maximize(tictactoe.Initial())

		// Then: every node of the game tree is visited
		stats := engine.Stats()
		assert.Equal(t, uint64(549946), stats.Nodes)
		assert.Zero(t, stats.CacheHits)
	})

	t.Run("Cached search visits fewer nodes", func(t *testing.T) {
		engine := New(WithCache(0))
		engine.Maximize(tictactoe.Initial())

		stats := engine.Stats()
		assert.Less(t, stats.Nodes, uint64(549946))
		assert.Positive(t, stats.CacheHits)
	})
}

func TestEngine_CacheMatchesPlainSearch(t *testing.T) {
	// Given: a cached engine that has already explored the whole tree
	cached := New(WithCache(0))
	cached.Maximize(tictactoe.Initial())

	plain := New()

	// Then: both engines agree on every reachable board, including the chosen move
	for _, board := range reachable(t) {
		require.Equal(t, plain.Decide(board), cached.Decide(board), board.String())
	}
}

func TestEngine_BoundedCache(t *testing.T) {
	// Given: a cache that can hold ten boards
	engine := New(WithCache(10))

	// When: searching the whole tree
	decision := engine.Decide(tictactoe.Initial())

	// Then: the table stops growing and the result is unchanged
	assert.Equal(t, 10, engine.cache.Len())
	assert.Equal(t, Decision{Value: 0, Move: tictactoe.Move{Row: 0, Col: 0}, Found: true}, decision)
}

func TestEngine_ConcurrentCallers(t *testing.T) {
	engine := New(WithCache(0))
	board := tictactoe.Board{{x, e, e}, {e, e, e}, {e, e, e}}

	var wg sync.WaitGroup
	moves := make([]tictactoe.Move, 8)
	for i := range moves {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			moves[i], _ = engine.OptimalMove(board)
		}(i)
	}
	wg.Wait()

	for _, move := range moves {
		assert.Equal(t, tictactoe.Move{Row: 1, Col: 1}, move)
	}
}
