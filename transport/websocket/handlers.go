package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

// clientErrors are reported to the client as they are; anything else is hidden.
var clientErrors = []error{
	apperror.ErrOutOfRange,
	apperror.ErrCellOccupied,
	apperror.ErrInvalidMark,
	apperror.ErrGameFinished,
	apperror.ErrGameIsNotStarted,
	apperror.ErrNotYourTurn,
	apperror.ErrGameIsFull,
	apperror.ErrUnknownGameType,
	apperror.ErrUnknownDifficulty,
	apperror.ErrAlreadyInGame,
	apperror.ErrUnreachable,
	repository.ErrGameNotFound,
	repository.ErrPlayerNotFound,
	usecase.ErrNotInGame,
}

func errorMessage(err error) string {
	for _, clientErr := range clientErrors {
		if errors.Is(err, clientErr) {
			return clientErr.Error()
		}
	}

	return "internal error"
}

func decodePayload(msg *Message) (RequestPayload, error) {
	var payload RequestPayload

	if len(msg.Payload) == 0 {
		return payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return payload, nil
}

// playerID prefers the id sent by the client over the session id.
func playerID(payload RequestPayload, conn *connection) string {
	if payload.Player != nil && payload.Player.ID != "" {
		return payload.Player.ID
	}

	return conn.playerID
}

// bind resolves the acting player and routes its updates to conn.
func (that *Server) bind(payload RequestPayload, conn *connection) string {
	id := playerID(payload, conn)
	that.register(id, conn)

	return id
}

func (that *Server) handleConnect(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleConnect")

	payload, err := decodePayload(msg)
	if err != nil {
		that.sendError(conn, msg.Action, "invalid payload")
		return err
	}

	player, err := that.gameUseCase.GetOrCreatePlayer(ctx, playerID(payload, conn))
	if err != nil {
		that.sendError(conn, msg.Action, "failed to create a new player")
		return fmt.Errorf("failed to get or create player: %w", err)
	}

	that.register(player.ID, conn)

	resp := ResponsePayload{Player: player}

	if player.GameID != "" {
		game, err := that.gameUseCase.GetGameByPlayerID(ctx, player.ID)
		if err != nil {
			log.Warn("failed to get the player's game", "gameID", player.GameID, "error", err)
		} else {
			resp.Game = maskGameDetails(game)
		}
	}

	if err = conn.send(msg.Action, resp); err != nil {
		return err
	}

	log.Info("successfully connected player", "playerID", player.ID)

	return nil
}

func (that *Server) handleNewGame(ctx context.Context, msg *Message, conn *connection) error {
	payload, err := decodePayload(msg)
	if err != nil {
		that.sendError(conn, msg.Action, "invalid payload")
		return err
	}

	if payload.Game == nil {
		that.sendError(conn, msg.Action, "game is required")
		return nil
	}

	id := that.bind(payload, conn)

	game, err := that.gameUseCase.CreateGame(ctx, id, usecase.GameOptions{
		Type:       payload.Game.Type,
		Difficulty: payload.Game.Difficulty,
		Mark:       payload.Game.Mark,
	})
	if err != nil {
		that.sendError(conn, msg.Action, errorMessage(err))
		return fmt.Errorf("failed to create game: %w", err)
	}

	that.broadcast(msg.Action, game, nil)

	return nil
}

func (that *Server) handleJoinGame(ctx context.Context, msg *Message, conn *connection) error {
	payload, err := decodePayload(msg)
	if err != nil {
		that.sendError(conn, msg.Action, "invalid payload")
		return err
	}

	if payload.Game == nil || payload.Game.ID == "" {
		that.sendError(conn, msg.Action, "game id is required")
		return nil
	}

	id := that.bind(payload, conn)

	game, err := that.gameUseCase.JoinGame(ctx, payload.Game.ID, id)
	if err != nil {
		that.sendError(conn, msg.Action, errorMessage(err))
		return fmt.Errorf("failed to join game: %w", err)
	}

	that.broadcast(msg.Action, game, nil)

	return nil
}

func (that *Server) handleGameTurn(ctx context.Context, msg *Message, conn *connection) error {
	payload, err := decodePayload(msg)
	if err != nil {
		that.sendError(conn, msg.Action, "invalid payload")
		return err
	}

	if payload.Move == nil {
		that.sendError(conn, msg.Action, "move is required")
		return nil
	}

	game, botMove, err := that.gameUseCase.MakeTurn(ctx, that.bind(payload, conn), *payload.Move)
	if err != nil {
		that.sendError(conn, msg.Action, errorMessage(err))
		return fmt.Errorf("failed to make turn: %w", err)
	}

	that.broadcast(msg.Action, game, botMove)

	return nil
}

func (that *Server) handleGameReset(ctx context.Context, msg *Message, conn *connection) error {
	payload, err := decodePayload(msg)
	if err != nil {
		that.sendError(conn, msg.Action, "invalid payload")
		return err
	}

	game, err := that.gameUseCase.ResetGame(ctx, that.bind(payload, conn))
	if err != nil {
		that.sendError(conn, msg.Action, errorMessage(err))
		return fmt.Errorf("failed to reset game: %w", err)
	}

	that.broadcast(msg.Action, game, nil)

	return nil
}

func (that *Server) handleGameLeave(ctx context.Context, msg *Message, conn *connection) error {
	payload, err := decodePayload(msg)
	if err != nil {
		that.sendError(conn, msg.Action, "invalid payload")
		return err
	}

	game, err := that.gameUseCase.LeaveGame(ctx, that.bind(payload, conn))
	if err != nil {
		that.sendError(conn, msg.Action, errorMessage(err))
		return fmt.Errorf("failed to leave game: %w", err)
	}

	left := maskGameDetails(game)
	left.Status = gameStatusLeave

	that.broadcastGame(msg.Action, game.Players, left, nil)

	return nil
}

// broadcast sends the game to every human player connected to it.
func (that *Server) broadcast(action string, game *entity.Game, botMove *entity.Move) {
	that.broadcastGame(action, game.Players, maskGameDetails(game), botMove)
}

func (that *Server) broadcastGame(action string, players []*entity.Player, view *entity.Game, botMove *entity.Move) {
	log := that.logger.With("method", "broadcast", "gameID", view.ID)

	for _, player := range players {
		if player.IsBot() {
			continue
		}

		conn, ok := that.connectionOf(player.ID)
		if !ok {
			log.Warn("connection not found for player", "playerID", player.ID)
			continue
		}

		resp := ResponsePayload{
			Player:  player,
			Game:    view,
			BotMove: botMove,
		}

		if err := conn.send(action, resp); err != nil {
			log.Error("failed to send game update", "playerID", player.ID, "error", err)
		}
	}
}

func (that *Server) sendError(conn *connection, action, message string) {
	if err := conn.send(action, ResponsePayload{Error: message}); err != nil {
		that.logger.Error("failed to send error response", "action", action, "error", err)
	}
}
