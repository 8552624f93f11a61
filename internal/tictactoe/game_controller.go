package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// MakeTurn applies a move by player and advances the game state.
func MakeTurn(gameInstance *entity.Game, player entity.Cell, row, col int) error {
	if err := gameInstance.ConfirmOngoingState(); err != nil {
		return err
	}

	if gameInstance.Turn != player {
		return apperror.ErrNotYourTurn
	}

	if err := gameInstance.Board.Mark(row, col, player); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	gameInstance.UpdateGameState(player)

	return nil
}

// BotTurn lets bot play the side whose turn it is.
func BotTurn(gameInstance *entity.Game, bot Bot) (entity.Move, error) {
	if err := gameInstance.ConfirmOngoingState(); err != nil {
		return entity.Move{}, err
	}

	move, err := bot.ChooseMove(gameInstance.Board, gameInstance.Turn)
	if err != nil {
		return entity.Move{}, fmt.Errorf("bot failed to choose move: %w", err)
	}

	if err = MakeTurn(gameInstance, gameInstance.Turn, move.Row, move.Col); err != nil {
		return entity.Move{}, fmt.Errorf("bot failed to make turn: %w", err)
	}

	return move, nil
}
