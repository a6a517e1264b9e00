package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/tictactoe"
)

const (
	errMsgPlayerRequired = "player is required"
	errMsgGameRequired   = "game is required"
	errMsgCellRequired   = "cell is required"
)

func (that *Server) handleConnect(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleConnect")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return that.sendErrorResponse(conn, msg.Action, "malformed payload")
	}

	if payloadReq.Player == nil {
		return that.sendErrorResponse(conn, msg.Action, errMsgPlayerRequired)
	}

	player, err := that.gameUseCase.GetOrCreatePlayer(ctx, payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to create or get player", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to create a new player")
	}

	that.register(player.ID, conn)

	payloadResp := Payload{Player: player}

	if player.InGame() {
		game, err := that.gameUseCase.GetGameByPlayerID(ctx, player.ID)
		switch {
		case err == nil:
			payloadResp.Game = maskGameDetails(game)
		case errors.Is(err, apperror.ErrNotFound):
			log.Warn("player points to a missing game", "playerID", player.ID, "gameID", player.GameID)
		default:
			log.Error("failed to get game", "gameID", player.GameID, "error", err)
			return that.sendErrorResponse(conn, msg.Action, "failed to get the game")
		}
	}

	if err = that.sendMessage(conn, msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("successfully connected player", "playerID", player.ID)

	return nil
}

func (that *Server) handleNewGame(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleNewGame")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return that.sendErrorResponse(conn, msg.Action, "malformed payload")
	}

	if payloadReq.Player == nil {
		return that.sendErrorResponse(conn, msg.Action, errMsgPlayerRequired)
	}

	if payloadReq.Game == nil {
		return that.sendErrorResponse(conn, msg.Action, errMsgGameRequired)
	}

	that.register(payloadReq.Player.ID, conn)

	game, err := that.gameUseCase.GetOrCreateGame(ctx, payloadReq.Player.ID, payloadReq.Game.Type, payloadReq.Game.Difficulty)
	if err != nil {
		log.Error("failed to create or get game", "error", err)
		return that.sendErrorResponse(conn, msg.Action, fmt.Sprintf("failed to create a new game: %v", err))
	}

	that.broadcast(msg.Action, game)

	log.Info("player is in game", "playerID", payloadReq.Player.ID, "gameID", game.ID)

	return nil
}

func (that *Server) handleJoinGame(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleJoinGame")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return that.sendErrorResponse(conn, msg.Action, "malformed payload")
	}

	if payloadReq.Player == nil {
		return that.sendErrorResponse(conn, msg.Action, errMsgPlayerRequired)
	}

	if payloadReq.Game == nil {
		return that.sendErrorResponse(conn, msg.Action, errMsgGameRequired)
	}

	that.register(payloadReq.Player.ID, conn)

	log = log.With("playerID", payloadReq.Player.ID)

	game, err := that.gameUseCase.ConnectToGame(ctx, payloadReq.Game.ID, payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to join game", "error", err)
		return that.sendErrorResponse(conn, msg.Action, fmt.Sprintf("game %s: %v", payloadReq.Game.ID, err))
	}

	that.broadcast(msg.Action, game)

	log.Info("player joined game", "gameID", game.ID)

	return nil
}

func (that *Server) handleGameTurn(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleGameTurn")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return that.sendErrorResponse(conn, msg.Action, "malformed payload")
	}

	if payloadReq.Player == nil {
		return that.sendErrorResponse(conn, msg.Action, errMsgPlayerRequired)
	}

	if payloadReq.Cell == nil {
		return that.sendErrorResponse(conn, msg.Action, errMsgCellRequired)
	}

	that.register(payloadReq.Player.ID, conn)

	log = log.With("playerID", payloadReq.Player.ID)

	game, err := that.gameUseCase.MakeTurn(ctx, payloadReq.Player.ID, *payloadReq.Cell)
	switch {
	case errors.Is(err, apperror.ErrGameFinished) && game != nil:
		that.broadcast(msg.Action, game)
		log.Info("game finished", "gameID", game.ID, "winner", game.Winner)
		return nil
	case errors.Is(err, apperror.ErrGameIsNotStarted),
		errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrNoActiveGame),
		errors.Is(err, tictactoe.ErrInvalidMove):
		return that.sendErrorResponse(conn, msg.Action, err.Error())
	case err != nil:
		log.Error("failed to make turn", "error", err)
		return that.sendErrorResponse(conn, msg.Action, fmt.Sprintf("failed to turn in game: %v", err))
	}

	that.broadcast(msg.Action, game)

	return nil
}

// handleGameHint replies with the optimal move for the asking player only.
func (that *Server) handleGameHint(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleGameHint")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return that.sendErrorResponse(conn, msg.Action, "malformed payload")
	}

	if payloadReq.Player == nil {
		return that.sendErrorResponse(conn, msg.Action, errMsgPlayerRequired)
	}

	that.register(payloadReq.Player.ID, conn)

	move, err := that.gameUseCase.SuggestMove(ctx, payloadReq.Player.ID)
	if err != nil {
		log.Debug("no hint", "playerID", payloadReq.Player.ID, "error", err)
		return that.sendErrorResponse(conn, msg.Action, err.Error())
	}

	cell := move.Index()

	return that.sendMessage(conn, msg.Action, Payload{Hint: &move, Cell: &cell})
}

// broadcast sends the game to every connected human player, each with their own player record.
func (that *Server) broadcast(action string, game *entity.Game) {
	log := that.logger.With("method", "broadcast", "gameID", game.ID)

	masked := maskGameDetails(game)

	for _, player := range game.Players {
		if player.IsBot() {
			continue
		}

		conn, ok := that.connectionOf(player.ID)
		if !ok {
			log.Warn("connection not found for player", "playerID", player.ID)
			continue
		}

		payloadResp := Payload{
			Player: player,
			Game:   masked,
		}

		if err := that.sendMessage(conn, action, payloadResp); err != nil {
			log.Error("failed to send game update", "playerID", player.ID, "error", err)
		}
	}
}

func (that *Server) handleDisconnect(conn *connection) {
	log := that.logger.With("method", "handleDisconnect")

	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	for playerID, registered := range that.connections {
		if registered == conn {
			delete(that.connections, playerID)
			log.Info("player disconnected", "playerID", playerID)
		}
	}
}
