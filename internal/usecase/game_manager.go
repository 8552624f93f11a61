package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-engine/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

var ErrNotInGame = errors.New("player is not in a game")

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type resultRepo interface {
	Save(ctx context.Context, result entity.Result) error
	Stats(ctx context.Context) (entity.Stats, error)
}

type botProvider interface {
	For(difficulty string) (tictactoe.Bot, error)
}

// GameOptions describes a game requested by a player.
type GameOptions struct {
	Type       string
	Difficulty string
	// Mark is the side the human wants in a bot game; CellEmpty means X.
	Mark entity.Cell
}

type GameManager struct {
	logger *slog.Logger

	playerRepo playerRepo
	gameRepo   gameRepo
	resultRepo resultRepo

	bots   botProvider
	engine *minimax.Searcher
	now    func() time.Time
}

func NewGameManager(
	logger *slog.Logger,
	playerRepo playerRepo,
	gameRepo gameRepo,
	resultRepo resultRepo,
	engine *minimax.Searcher,
) *GameManager {
	return &GameManager{
		logger: logger,

		playerRepo: playerRepo,
		gameRepo:   gameRepo,
		resultRepo: resultRepo,

		bots:   tictactoe.NewBots(engine),
		engine: engine,
		now:    time.Now,
	}
}

func (that *GameManager) GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error) {
	if id == "" {
		sessionID, err := pkg.GenerateNewSessionID()
		if err != nil {
			return nil, fmt.Errorf("failed to create new player: %w", err)
		}

		return that.createPlayer(ctx, sessionID)
	}

	player, err := that.playerRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrPlayerNotFound) {
		return that.createPlayer(ctx, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	return player, nil
}

// CreateGame returns the player's unfinished game or starts a new one.
func (that *GameManager) CreateGame(ctx context.Context, playerID string, opts GameOptions) (*entity.Game, error) {
	opts, err := normalizeOptions(opts)
	if err != nil {
		return nil, err
	}

	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if player.GameID != "" {
		existingGame, err := that.gameRepo.GetByID(ctx, player.GameID)
		switch {
		case err == nil && !existingGame.IsFinished():
			return existingGame, nil
		case err == nil:
			that.deleteGame(ctx, existingGame)
		case !errors.Is(err, repository.ErrGameNotFound):
			return nil, fmt.Errorf("failed to get game: %w", err)
		}
	}

	return that.createGame(ctx, player, opts)
}

func (that *GameManager) JoinGame(ctx context.Context, gameID, playerID string) (*entity.Game, error) {
	game, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if player.GameID == game.ID {
		return game, nil
	}

	if !game.IsPrivate() || game.IsFull() {
		return nil, fmt.Errorf("%w: game id %s", apperror.ErrGameIsFull, gameID)
	}

	if err = that.leaveFinishedGame(ctx, player); err != nil {
		return nil, err
	}

	player.GameID = game.ID
	player.Mark = entity.PlayerB
	if err = that.updatePlayer(ctx, player); err != nil {
		return nil, err
	}

	game.Players = append(game.Players, player)
	game.Status = entity.StatusOngoing
	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	return game, nil
}

// MakeTurn applies the player's move and, in bot games, the bot's reply.
// The returned move is the bot's reply, or nil.
func (that *GameManager) MakeTurn(ctx context.Context, playerID string, move entity.Move) (*entity.Game, *entity.Move, error) {
	player, game, err := that.playerAndGame(ctx, playerID)
	if err != nil {
		return nil, nil, err
	}

	mark := player.Mark
	if game.IsLocal() {
		mark = game.Turn
	}

	if err = tictactoe.MakeTurn(game, mark, move.Row, move.Col); err != nil {
		return game, nil, fmt.Errorf("failed to make turn: %w", err)
	}

	botMove, err := that.botReply(game)
	if err != nil {
		return nil, nil, err
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, nil, err
	}

	that.recordResult(ctx, game)

	return game, botMove, nil
}

// ResetGame starts a new round in the player's game with X to move.
func (that *GameManager) ResetGame(ctx context.Context, playerID string) (*entity.Game, error) {
	_, game, err := that.playerAndGame(ctx, playerID)
	if err != nil {
		return nil, err
	}

	game.Reset()

	if _, err = that.botReply(game); err != nil {
		return nil, err
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	return game, nil
}

func (that *GameManager) LeaveGame(ctx context.Context, playerID string) (*entity.Game, error) {
	_, game, err := that.playerAndGame(ctx, playerID)
	if err != nil {
		return nil, err
	}

	that.deleteGame(ctx, game)

	return game, nil
}

func (that *GameManager) GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error) {
	_, game, err := that.playerAndGame(ctx, playerID)
	if err != nil {
		return nil, err
	}

	return game, nil
}

// BestMove evaluates a position reachable in play for the side turn.
func (that *GameManager) BestMove(board entity.Board, turn entity.Cell) (int, *entity.Move, error) {
	if err := board.ValidateTurn(turn); err != nil {
		return 0, nil, fmt.Errorf("invalid position: %w", err)
	}

	score, move := that.engine.BestMove(board, turn == entity.PlayerA)

	return score, move, nil
}

func (that *GameManager) Stats(ctx context.Context) (entity.Stats, error) {
	stats, err := that.resultRepo.Stats(ctx)
	if err != nil {
		return entity.Stats{}, fmt.Errorf("failed to get stats: %w", err)
	}

	return stats, nil
}

func normalizeOptions(opts GameOptions) (GameOptions, error) {
	if err := entity.ValidateGameType(opts.Type); err != nil {
		return GameOptions{}, err
	}

	if !opts.Mark.IsPlayer() {
		opts.Mark = entity.PlayerA
	}

	if opts.Type != entity.WithBotType {
		opts.Difficulty = ""
		opts.Mark = entity.PlayerA
		return opts, nil
	}

	if opts.Difficulty == "" {
		opts.Difficulty = entity.HardDifficulty
	}

	if err := entity.ValidateDifficulty(opts.Difficulty); err != nil {
		return GameOptions{}, err
	}

	return opts, nil
}

func (that *GameManager) createGame(ctx context.Context, player *entity.Player, opts GameOptions) (*entity.Game, error) {
	gameID, err := pkg.GenerateGameID()
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	player.GameID = gameID
	player.Mark = opts.Mark
	if err = that.updatePlayer(ctx, player); err != nil {
		return nil, err
	}

	game := entity.NewGame(gameID, opts.Type, opts.Difficulty)
	game.Players = []*entity.Player{player}

	if game.IsWithBot() {
		game.Players = append(game.Players, entity.NewBotPlayer(gameID, opts.Mark.Opponent()))
	}

	game.Reset()

	if _, err = that.botReply(game); err != nil {
		return nil, err
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "gameID", gameID, "type", game.Type, "difficulty", game.Difficulty)

	return game, nil
}

// botReply plays the bot's move when it is the bot's turn.
func (that *GameManager) botReply(game *entity.Game) (*entity.Move, error) {
	if !game.IsBotTurn() {
		return nil, nil
	}

	bot, err := that.bots.For(game.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("failed to pick bot: %w", err)
	}

	move, err := tictactoe.BotTurn(game, bot)
	if err != nil {
		return nil, err
	}

	return &move, nil
}

func (that *GameManager) recordResult(ctx context.Context, game *entity.Game) {
	if !game.IsFinished() {
		return
	}

	log := that.logger.With("method", "recordResult", "gameID", game.ID)

	if err := that.resultRepo.Save(ctx, entity.NewResult(game, that.now())); err != nil {
		log.Error("failed to save result", "error", err)
		return
	}

	log.Info("game finished", "outcome", game.Outcome.String())
}

func (that *GameManager) playerAndGame(ctx context.Context, playerID string) (*entity.Player, *entity.Game, error) {
	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, nil, err
	}

	if player.GameID == "" {
		return nil, nil, ErrNotInGame
	}

	game, err := that.getGameByID(ctx, player.GameID)
	if err != nil {
		return nil, nil, err
	}

	// the stored game carries the authoritative copy of its players
	if inGame := game.PlayerByID(player.ID); inGame != nil {
		player = inGame
	}

	return player, game, nil
}

// leaveFinishedGame frees a player bound to a finished or expired game.
// A player still in an unfinished game cannot enter another one.
func (that *GameManager) leaveFinishedGame(ctx context.Context, player *entity.Player) error {
	if player.GameID == "" {
		return nil
	}

	current, err := that.gameRepo.GetByID(ctx, player.GameID)
	switch {
	case errors.Is(err, repository.ErrGameNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to get game: %w", err)
	case !current.IsFinished():
		return fmt.Errorf("%w: game id %s", apperror.ErrAlreadyInGame, current.ID)
	}

	that.deleteGame(ctx, current)

	return nil
}

func (that *GameManager) deleteGame(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "deleteGame", "gameID", game.ID)

	if err := that.gameRepo.DeleteByID(ctx, game.ID); err != nil && !errors.Is(err, repository.ErrGameNotFound) {
		log.Error("failed to delete game", "error", err)
	}

	for _, player := range game.Players {
		if player.IsBot() {
			continue
		}

		that.detachStored(ctx, log, player.ID, game.ID)
		player.Detach()
	}

	log.Info("game deleted")
}

// detachStored clears the stored player's game only while it still points at gameID.
// A player that moved on to another game is left alone.
func (that *GameManager) detachStored(ctx context.Context, log *slog.Logger, playerID, gameID string) {
	stored, err := that.playerRepo.GetByID(ctx, playerID)
	if errors.Is(err, repository.ErrPlayerNotFound) {
		return
	}

	if err != nil {
		log.Error("failed to get player", "playerID", playerID, "error", err)
		return
	}

	if stored.GameID != gameID {
		return
	}

	stored.Detach()
	if err = that.playerRepo.CreateOrUpdate(ctx, stored); err != nil {
		log.Error("failed to update player", "playerID", playerID, "error", err)
	}
}

func (that *GameManager) createPlayer(ctx context.Context, id string) (*entity.Player, error) {
	player := &entity.Player{
		ID: id,
	}

	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
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

func (that *GameManager) getGameByID(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}

func (that *GameManager) updatePlayer(ctx context.Context, player *entity.Player) error {
	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}

	return nil
}
