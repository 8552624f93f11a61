package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

func TestGameStatusMethods(t *testing.T) {
	t.Run("IsFinished returns true when game status is finished", func(t *testing.T) {
		// Given: a game with StatusFinished
		game := &Game{Status: StatusFinished}

		// Then: it should be finished only
		assert.True(t, game.IsFinished())
		assert.False(t, game.IsOngoing())
		assert.False(t, game.IsWaiting())
	})

	t.Run("IsWaiting returns true when game status is waiting", func(t *testing.T) {
		game := &Game{Status: StatusWaiting}

		assert.True(t, game.IsWaiting())
	})
}

func TestGame_ConfirmOngoingState(t *testing.T) {
	t.Run("Returns nil when game is ongoing", func(t *testing.T) {
		game := &Game{Status: StatusOngoing}

		assert.NoError(t, game.ConfirmOngoingState())
	})

	t.Run("Returns ErrGameIsNotStarted when game is waiting", func(t *testing.T) {
		game := &Game{Status: StatusWaiting}

		assert.ErrorIs(t, game.ConfirmOngoingState(), apperror.ErrGameIsNotStarted)
	})

	t.Run("Returns ErrGameFinished when game is finished", func(t *testing.T) {
		game := &Game{Status: StatusFinished}

		assert.ErrorIs(t, game.ConfirmOngoingState(), apperror.ErrGameFinished)
	})

	t.Run("Returns error for unknown game status", func(t *testing.T) {
		// Given: a game with unknown status
		game := &Game{Status: "unknown"}

		// When: checking if the game is active
		err := game.ConfirmOngoingState()

		// Then: it should return an error
		require.ErrorIs(t, err, ErrUnknownGameStatus)
	})
}

func TestGame_UpdateGameState(t *testing.T) {
	t.Run("Updates game state when Player X wins", func(t *testing.T) {
		// Given: a game where X has completed the top row
		game := &Game{
			Board:  mustBoard(t, [3][3]Cell{{x, x, x}, {o, o, e}, {e, e, e}}),
			Status: StatusOngoing,
			Turn:   PlayerA,
		}

		// When: updating the game state after X's move
		game.UpdateGameState(PlayerA)

		// Then: the game should be finished with X as the winner
		assert.Equal(t, StatusFinished, game.Status)
		assert.Equal(t, PlayerA, game.Winner())
		assert.Equal(t, CellEmpty, game.Turn)
		require.NotNil(t, game.WinningLine)
	})

	t.Run("Updates game state when the game is a tie", func(t *testing.T) {
		game := &Game{
			Board:  mustBoard(t, [3][3]Cell{{x, o, x}, {x, o, o}, {o, x, x}}),
			Status: StatusOngoing,
		}

		game.UpdateGameState(PlayerA)

		assert.Equal(t, StatusFinished, game.Status)
		assert.Equal(t, Draw, game.Outcome)
		assert.Equal(t, CellEmpty, game.Winner())
	})

	t.Run("Passes the turn while the game continues", func(t *testing.T) {
		game := &Game{
			Board:  mustBoard(t, [3][3]Cell{{x, e, e}, {e, e, e}, {e, e, e}}),
			Status: StatusOngoing,
		}

		game.UpdateGameState(PlayerA)

		assert.Equal(t, StatusOngoing, game.Status)
		assert.Equal(t, PlayerB, game.Turn)
		assert.Nil(t, game.WinningLine)
	})
}

func TestGame_Reset(t *testing.T) {
	t.Run("Finished bot game restarts with X to move", func(t *testing.T) {
		// Given: a finished bot game
		game := NewGame("1", WithBotType, HardDifficulty)
		game.Players = []*Player{{ID: "p1", Mark: PlayerB}, NewBotPlayer("1", PlayerA)}
		game.Board = mustBoard(t, [3][3]Cell{{x, x, x}, {o, o, e}, {e, e, e}})
		game.UpdateGameState(PlayerA)

		// When: the game is reset
		game.Reset()

		// Then: the board is empty, X moves, and the bot owns that turn
		assert.Equal(t, NewBoard(), game.Board)
		assert.Equal(t, PlayerA, game.Turn)
		assert.Equal(t, StatusOngoing, game.Status)
		assert.Equal(t, InProgress, game.Outcome)
		assert.Nil(t, game.WinningLine)
		assert.True(t, game.IsBotTurn())
	})

	t.Run("Private game without opponent waits", func(t *testing.T) {
		game := NewGame("1", PrivateType, "")
		game.Players = []*Player{{ID: "p1", Mark: PlayerA}}

		game.Reset()

		assert.Equal(t, StatusWaiting, game.Status)
	})
}

func TestGame_JSON(t *testing.T) {
	// Given: a game with a move played
	game := NewGame("42", LocalType, "")
	require.NoError(t, game.Board.Mark(1, 1, PlayerA))
	game.UpdateGameState(PlayerA)

	// When: it is encoded and decoded
	data, err := json.Marshal(game)
	require.NoError(t, err)

	var decoded Game
	require.NoError(t, json.Unmarshal(data, &decoded))

	// Then: board, turn and outcome survive
	assert.Equal(t, game.Board, decoded.Board)
	assert.Equal(t, PlayerB, decoded.Turn)
	assert.Equal(t, InProgress, decoded.Outcome)
	assert.Contains(t, string(data), `"player_turn":"O"`)
	assert.Contains(t, string(data), `"outcome":"in_progress"`)
}

func TestValidate(t *testing.T) {
	require.NoError(t, ValidateGameType(WithBotType))
	require.ErrorIs(t, ValidateGameType("public"), apperror.ErrUnknownGameType)
	require.NoError(t, ValidateDifficulty(EasyDifficulty))
	require.ErrorIs(t, ValidateDifficulty("impossible"), apperror.ErrUnknownDifficulty)
}
