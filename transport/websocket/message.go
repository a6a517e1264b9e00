package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/tictactoe"
)

const (
	actionConnect  = "connect"
	actionGameNew  = "game:new"
	actionGameJoin = "game:join"
	actionGameTurn = "game:turn"
	actionGameHint = "game:hint"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	Player *entity.Player  `json:"player,omitempty"`
	Game   *entity.Game    `json:"game,omitempty"`
	Cell   *int            `json:"cell,omitempty"`
	Hint   *tictactoe.Move `json:"hint,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// maskGameDetails hides the player list and the game type from the game payload.
func maskGameDetails(game *entity.Game) *entity.Game {
	masked := *game
	masked.Players = nil
	masked.Type = ""
	return &masked
}
