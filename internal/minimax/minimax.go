// Package minimax finds optimal tic-tac-toe moves by exhaustive game-tree search.
//
// X maximizes utility and O minimizes it. Children are explored in the board's
// row-major move order and a child only replaces the current best when its value is
// strictly better, so among equally good moves the first one in that order is chosen.
package minimax

import (
	"math"
	"sync/atomic"

	"github.com/rocketscienceinc/tictactoe-solver/internal/tictactoe"
)

// Role tells which side the search is playing at a node.
type Role uint8

const (
	Max Role = iota
	Min
)

func (that Role) String() string {
	if that == Min {
		return "minimize"
	}
	return "maximize"
}

// RoleOf returns Max when X is to move and Min otherwise.
func RoleOf(board tictactoe.Board) Role {
	if board.ActivePlayer() == tictactoe.MarkX {
		return Max
	}
	return Min
}

// Decision is the value of a node together with the move that achieves it.
// Found is false on terminal boards, where there is no move to make.
type Decision struct {
	Value int
	Move  tictactoe.Move
	Found bool
}

// Stats counts the work done by an Engine since it was created.
type Stats struct {
	Nodes     uint64
	CacheHits uint64
}

type Option func(*Engine)

// WithCache memoizes decisions per board and role. maxEntries <= 0 means unbounded.
func WithCache(maxEntries int) Option {
	return func(engine *Engine) {
		engine.cache = NewTranspositionTable(maxEntries)
	}
}

// Engine runs the search. It is safe for concurrent use.
type Engine struct {
	cache *TranspositionTable

	nodes     atomic.Uint64
	cacheHits atomic.Uint64
}

func New(opts ...Option) *Engine {
	engine := &Engine{}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

var defaultEngine = New()

// OptimalMove returns the move the active player should make. It reports false on a terminal board.
func OptimalMove(board tictactoe.Board) (tictactoe.Move, bool) {
	return defaultEngine.OptimalMove(board)
}

func Maximize(board tictactoe.Board) Decision {
	return defaultEngine.Maximize(board)
}

func Minimize(board tictactoe.Board) Decision {
	return defaultEngine.Minimize(board)
}

func (that *Engine) OptimalMove(board tictactoe.Board) (tictactoe.Move, bool) {
	if board.IsTerminal() {
		return tictactoe.Move{}, false
	}

	decision := that.Decide(board)

	return decision.Move, decision.Found
}

// Decide searches the board for the active player's role.
func (that *Engine) Decide(board tictactoe.Board) Decision {
	if RoleOf(board) == Max {
		return that.Maximize(board)
	}
	return that.Minimize(board)
}

func (that *Engine) Maximize(board tictactoe.Board) Decision {
	return that.search(board, Max)
}

func (that *Engine) Minimize(board tictactoe.Board) Decision {
	return that.search(board, Min)
}

func (that *Engine) Stats() Stats {
	return Stats{
		Nodes:     that.nodes.Load(),
		CacheHits: that.cacheHits.Load(),
	}
}

func (that *Engine) search(board tictactoe.Board, role Role) Decision {
	that.nodes.Add(1)

	if board.IsTerminal() {
		return Decision{Value: board.Utility()}
	}

	if that.cache != nil {
		if decision, ok := that.cache.Get(board, role); ok {
			that.cacheHits.Add(1)
			return decision
		}
	}

	best := math.MinInt
	next := Min
	if role == Min {
		best = math.MaxInt
		next = Max
	}

	var decision Decision
	for _, move := range board.LegalMoves() {
		child, err := board.Apply(move)
		if err != nil {
			// LegalMoves only yields empty in-range cells
			panic(err)
		}

		value := that.search(child, next).Value
		if (role == Max && value > best) || (role == Min && value < best) {
			best = value
			decision = Decision{Value: value, Move: move, Found: true}
		}
	}

	if that.cache != nil {
		that.cache.Put(board, role, decision)
	}

	return decision
}
