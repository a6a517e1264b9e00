package minimax

import (
	"sync"

	"github.com/rocketscienceinc/tictactoe-solver/internal/tictactoe"
)

type tableKey struct {
	board tictactoe.Board
	role  Role
}

// TranspositionTable memoizes search decisions. A decision depends only on the board
// and the role, so a hit returns exactly what a fresh search would.
type TranspositionTable struct {
	mu         sync.RWMutex
	entries    map[tableKey]Decision
	maxEntries int
}

func NewTranspositionTable(maxEntries int) *TranspositionTable {
	return &TranspositionTable{
		entries:    make(map[tableKey]Decision),
		maxEntries: maxEntries,
	}
}

func (that *TranspositionTable) Get(board tictactoe.Board, role Role) (Decision, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	decision, ok := that.entries[tableKey{board: board, role: role}]

	return decision, ok
}

// Put stores a decision. Once the table is full new boards are dropped.
func (that *TranspositionTable) Put(board tictactoe.Board, role Role, decision Decision) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.maxEntries > 0 && len(that.entries) >= that.maxEntries {
		return
	}

	that.entries[tableKey{board: board, role: role}] = decision
}

func (that *TranspositionTable) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.entries)
}
