package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"
)

const (
	PrivateType = "private"
	LocalType   = "local"
	WithBotType = "bot"
)

const (
	EasyDifficulty = "easy"
	HardDifficulty = "hard"
)

const maxPlayers = 2

var ErrUnknownGameStatus = errors.New("unknown game status")

type Game struct {
	ID          string    `json:"id"`
	Board       Board     `json:"board"`
	Turn        Cell      `json:"player_turn"`
	Status      string    `json:"status"`
	Outcome     Outcome   `json:"outcome"`
	WinningLine *Line     `json:"winning_line,omitempty"`
	Players     []*Player `json:"players,omitempty"`
	Type        string    `json:"type,omitempty"`
	Difficulty  string    `json:"difficulty,omitempty"`
}

func NewGame(id, gameType, difficulty string) *Game {
	game := &Game{
		ID:         id,
		Type:       gameType,
		Difficulty: difficulty,
	}
	game.Reset()

	return game
}

// Reset starts a new round on a fresh board with PlayerA to move.
func (that *Game) Reset() {
	that.Board = NewBoard()
	that.Turn = PlayerA
	that.Outcome = InProgress
	that.WinningLine = nil

	if that.Type == PrivateType && len(that.Players) < maxPlayers {
		that.Status = StatusWaiting
		return
	}

	that.Status = StatusOngoing
}

// UpdateGameState derives status, outcome and turn from the board after a move by mark.
func (that *Game) UpdateGameState(mark Cell) {
	that.Outcome = that.Board.Outcome()

	if line, ok := that.Board.WinningLine(); ok {
		that.WinningLine = &line
	}

	if that.Outcome.IsTerminal() {
		that.Status = StatusFinished
		that.Turn = CellEmpty
		return
	}

	that.Status = StatusOngoing
	that.Turn = mark.Opponent()
}

func (that *Game) Winner() Cell {
	return that.Outcome.Winner()
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

func (that *Game) IsPrivate() bool {
	return that.Type == PrivateType
}

func (that *Game) IsLocal() bool {
	return that.Type == LocalType
}

func (that *Game) IsWithBot() bool {
	return that.Type == WithBotType
}

func (that *Game) IsFull() bool {
	return len(that.Players) >= maxPlayers
}

func (that *Game) PlayerByID(id string) *Player {
	for _, player := range that.Players {
		if player.ID == id {
			return player
		}
	}

	return nil
}

func (that *Game) BotPlayer() *Player {
	for _, player := range that.Players {
		if player.IsBot() {
			return player
		}
	}

	return nil
}

// IsBotTurn reports whether the engine should move next.
func (that *Game) IsBotTurn() bool {
	bot := that.BotPlayer()

	return bot != nil && that.IsOngoing() && bot.Mark == that.Turn
}

func ValidateGameType(gameType string) error {
	switch gameType {
	case PrivateType, LocalType, WithBotType:
		return nil
	default:
		return fmt.Errorf("%w: %q", apperror.ErrUnknownGameType, gameType)
	}
}

func ValidateDifficulty(difficulty string) error {
	switch difficulty {
	case EasyDifficulty, HardDifficulty:
		return nil
	default:
		return fmt.Errorf("%w: %q", apperror.ErrUnknownDifficulty, difficulty)
	}
}
