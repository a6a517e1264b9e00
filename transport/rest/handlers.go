package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-solver/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-solver/internal/tictactoe"
)

const maxBodyBytes = 1 << 10

var errBoardRequired = errors.New("board is required")

type boardSolver interface {
	Decide(board tictactoe.Board) minimax.Decision
}

type Handlers interface {
	Ping(w http.ResponseWriter, _ *http.Request)
	Solve(w http.ResponseWriter, r *http.Request)
}

type handlers struct {
	logger *slog.Logger
	solver boardSolver
}

func NewHandlers(logger *slog.Logger, solver boardSolver) Handlers {
	return &handlers{
		logger: logger.With("component", "restHandlers"),
		solver: solver,
	}
}

type solveRequest struct {
	Board *tictactoe.Board `json:"board"`
}

type solveResponse struct {
	Move     *tictactoe.Move `json:"move,omitempty"`
	Cell     *int            `json:"cell,omitempty"`
	Player   string          `json:"player,omitempty"`
	Value    int             `json:"value"`
	Outcome  string          `json:"outcome"`
	Terminal bool            `json:"terminal"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// Solve answers with the optimal move for the player whose turn it is on the posted board.
func (that *handlers) Solve(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "Solve")

	var req solveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if req.Board == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: errBoardRequired.Error()})
		return
	}

	board := *req.Board
	if err := board.Validate(); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if board.IsTerminal() {
		that.writeJSON(w, http.StatusOK, solveResponse{
			Value:    board.Utility(),
			Outcome:  board.Outcome().String(),
			Terminal: true,
		})
		return
	}

	decision := that.solver.Decide(board)
	cell := decision.Move.Index()

	log.Debug("board solved", "move", decision.Move.String(), "value", decision.Value)

	that.writeJSON(w, http.StatusOK, solveResponse{
		Move:    &decision.Move,
		Cell:    &cell,
		Player:  board.ActivePlayer().String(),
		Value:   decision.Value,
		Outcome: board.Outcome().String(),
	})
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
