package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-solver/internal/tictactoe"
)

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type botService interface {
	MakeTurn(game *entity.Game) error
	SuggestMove(board tictactoe.Board) (tictactoe.Move, bool)
}

type GameManager struct {
	logger     *slog.Logger
	playerRepo playerRepo
	gameRepo   gameRepo
	bot        botService

	defaultDifficulty string
}

// NewGameManager creates bot games with defaultDifficulty when the request names none.
func NewGameManager(logger *slog.Logger, playerRepo playerRepo, gameRepo gameRepo, bot botService, defaultDifficulty string) *GameManager {
	return &GameManager{
		logger: logger.With("component", "gameManager"),

		playerRepo: playerRepo,
		gameRepo:   gameRepo,
		bot:        bot,

		defaultDifficulty: defaultDifficulty,
	}
}

// MakeTurn plays cell (a row-major index) for the player and lets the bot answer in bot games.
// When the game ends it is deleted and the final state is returned with apperror.ErrGameFinished.
func (that *GameManager) MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error) {
	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed get player by id: %w", err)
	}

	if !player.InGame() {
		return nil, apperror.ErrNoActiveGame
	}

	game, err := that.getGameByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed get game by id: %w", err)
	}

	// the game record decides who plays, the player record may be stale
	if game.PlayerByID(player.ID) == nil {
		return nil, apperror.ErrNoActiveGame
	}

	if game.IsWaiting() {
		return game, apperror.ErrGameIsNotStarted
	}

	if err = game.MakeTurn(player.Mark, tictactoe.MoveFromIndex(cell)); err != nil {
		if errors.Is(err, apperror.ErrGameFinished) {
			that.deleteGame(ctx, game)

			return game, apperror.ErrGameFinished
		}

		return nil, fmt.Errorf("failed make turn: %w", err)
	}

	if !game.IsFinished() && game.IsWithBot() {
		if err = that.bot.MakeTurn(game); err != nil {
			return nil, fmt.Errorf("bot failed to make turn: %w", err)
		}
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed update game: %w", err)
	}

	if game.IsFinished() {
		that.deleteGame(ctx, game)

		return game, apperror.ErrGameFinished
	}

	return game, nil
}

// SuggestMove returns the optimal move for the player in their current game.
func (that *GameManager) SuggestMove(ctx context.Context, playerID string) (tictactoe.Move, error) {
	game, player, err := that.gameOf(ctx, playerID)
	if err != nil {
		return tictactoe.Move{}, err
	}

	if err = game.ConfirmOngoingState(); err != nil {
		return tictactoe.Move{}, err
	}

	if game.Board.ActivePlayer().String() != player.Mark {
		return tictactoe.Move{}, apperror.ErrNotYourTurn
	}

	move, ok := that.bot.SuggestMove(game.Board)
	if !ok {
		return tictactoe.Move{}, apperror.ErrGameFinished
	}

	return move, nil
}

func (that *GameManager) ConnectToGame(ctx context.Context, gameID, playerID string) (*entity.Game, error) {
	existingGame, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed get game by id: %w", err)
	}

	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed get player by id: %w", err)
	}

	if member := existingGame.PlayerByID(player.ID); member != nil {
		if player.GameID != existingGame.ID {
			// an earlier join stored the game but not the player
			player.GameID = existingGame.ID
			player.Mark = member.Mark
			if err = that.updatePlayer(ctx, player); err != nil {
				return nil, fmt.Errorf("failed update player by id: %w", err)
			}
		}

		return existingGame, nil
	}

	if player.InGame() && player.GameID != existingGame.ID {
		return nil, fmt.Errorf("%w: player is in game %s", apperror.ErrGameAlreadyExists, player.GameID)
	}

	if existingGame.IsWithBot() || len(existingGame.Players) >= 2 {
		return nil, fmt.Errorf("%w: game id %s", apperror.ErrGameIsFull, gameID)
	}

	player.GameID = existingGame.ID
	player.Mark = entity.PlayerO

	// the game is written first so a failed write leaves the player free to retry
	existingGame.Players = append(existingGame.Players, player)
	existingGame.UpdateGameState()
	if err = that.updateGame(ctx, existingGame); err != nil {
		return nil, fmt.Errorf("failed update game by id: %w", err)
	}

	if err = that.updatePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("failed update player by id: %w", err)
	}

	return existingGame, nil
}

// GetOrCreateGame returns the player's current game or starts a new one of gameType.
func (that *GameManager) GetOrCreateGame(ctx context.Context, playerID, gameType, difficulty string) (*entity.Game, error) {
	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed get player by id: %w", err)
	}

	if player.InGame() {
		existingGame, err := that.getGameByID(ctx, player.GameID)
		if err == nil {
			return existingGame, nil
		}

		if !errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("failed get game: %w", err)
		}

		// the game expired, start over
		that.logger.Warn("player points to a missing game", "playerID", player.ID, "gameID", player.GameID)
	}

	existingGame, err := that.createGame(ctx, player, gameType, difficulty)
	if err != nil {
		return nil, fmt.Errorf("failed create game: %w", err)
	}

	return existingGame, nil
}

func (that *GameManager) GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error) {
	game, _, err := that.gameOf(ctx, playerID)
	if err != nil {
		return nil, err
	}

	return game, nil
}

func (that *GameManager) GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error) {
	if id == "" {
		player, err := that.createPlayer(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create new player %w", err)
		}

		return player, nil
	}

	player, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id %w", err)
	}

	return player, nil
}

func (that *GameManager) createGame(ctx context.Context, player *entity.Player, gameType, difficulty string) (*entity.Game, error) {
	if gameType != entity.PrivateType && gameType != entity.WithBotType {
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownGameType, gameType)
	}

	if gameType == entity.WithBotType && difficulty == "" {
		difficulty = that.defaultDifficulty
	}

	if difficulty != "" && !entity.IsKnownDifficulty(difficulty) {
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownDifficulty, difficulty)
	}

	gameID, err := pkg.GenerateGameID()
	if err != nil {
		return nil, fmt.Errorf("error generating game ID: %w", err)
	}

	newGame := entity.NewGame(gameID, gameType)
	if newGame.IsWithBot() {
		newGame.Difficulty = difficulty
	}

	player.GameID = gameID
	player.Mark = entity.PlayerX
	newGame.Players = []*entity.Player{player}

	if newGame.IsWithBot() {
		if err = that.addBotToGame(newGame, player); err != nil {
			return nil, fmt.Errorf("failed to add bot to game: %w", err)
		}
	}

	if err = that.updatePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("failed update player: %w", err)
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, newGame); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	return newGame, nil
}

// addBotToGame assigns marks at random and lets the bot open when it holds X.
func (that *GameManager) addBotToGame(game *entity.Game, player *entity.Player) error {
	playerMark, botMark := game.GetRandomMarks()
	player.Mark = playerMark

	game.Players = append(game.Players, entity.NewBotPlayer(game.ID, botMark))
	game.UpdateGameState()

	if botMark == entity.PlayerX {
		if err := that.bot.MakeTurn(game); err != nil {
			return fmt.Errorf("bot failed to make first turn: %w", err)
		}
	}

	return nil
}

func (that *GameManager) gameOf(ctx context.Context, playerID string) (*entity.Game, *entity.Player, error) {
	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed get player by id: %w", err)
	}

	if !player.InGame() {
		return nil, nil, apperror.ErrNoActiveGame
	}

	game, err := that.getGameByID(ctx, player.GameID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed get game: %w", err)
	}

	if game.PlayerByID(player.ID) == nil {
		return nil, nil, apperror.ErrNoActiveGame
	}

	return game, player, nil
}

func (that *GameManager) getGameByID(ctx context.Context, id string) (*entity.Game, error) {
	existingGame, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return existingGame, nil
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}

// deleteGame removes a finished game and releases its human players.
func (that *GameManager) deleteGame(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "deleteGame", "gameID", game.ID)

	if err := that.gameRepo.DeleteByID(ctx, game.ID); err != nil {
		log.Error("failed to delete game", "error", err)
	}

	for _, player := range game.Players {
		if player.IsBot() {
			continue
		}

		released := *player
		released.Mark = ""
		released.GameID = ""

		if err := that.playerRepo.CreateOrUpdate(ctx, &released); err != nil {
			log.Error("failed to update player", "playerID", player.ID, "error", err)
		}
	}

	log.Info("game deleted", "winner", game.Winner)
}

func (that *GameManager) createPlayer(ctx context.Context) (*entity.Player, error) {
	playerID, err := pkg.GenerateNewSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate player id: %w", err)
	}

	player := &entity.Player{
		ID: playerID,
	}

	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return player, nil
}

func (that *GameManager) getPlayerByID(ctx context.Context, id string) (*entity.Player, error) {
	player, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

func (that *GameManager) updatePlayer(ctx context.Context, player *entity.Player) error {
	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}

	return nil
}
