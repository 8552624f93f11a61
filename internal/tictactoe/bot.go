package tictactoe

import (
	"fmt"
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/minimax"
)

type Bot interface {
	ChooseMove(board entity.Board, mark entity.Cell) (entity.Move, error)
}

// MinimaxBot plays perfectly.
type MinimaxBot struct {
	searcher *minimax.Searcher
}

func NewMinimaxBot(searcher *minimax.Searcher) *MinimaxBot {
	return &MinimaxBot{searcher: searcher}
}

func (that *MinimaxBot) ChooseMove(board entity.Board, mark entity.Cell) (entity.Move, error) {
	if board.Outcome().IsTerminal() {
		return entity.Move{}, apperror.ErrNoAvailableMoves
	}

	if !mark.IsPlayer() {
		return entity.Move{}, apperror.ErrInvalidMark
	}

	_, move := that.searcher.BestMove(board, mark == entity.PlayerA)
	if move == nil {
		return entity.Move{}, apperror.ErrNoAvailableMoves
	}

	return *move, nil
}

// RandomBot picks any free cell.
type RandomBot struct{}

func NewRandomBot() *RandomBot {
	return &RandomBot{}
}

func (that *RandomBot) ChooseMove(board entity.Board, _ entity.Cell) (entity.Move, error) {
	if board.Outcome().IsTerminal() {
		return entity.Move{}, apperror.ErrNoAvailableMoves
	}

	moves := board.EmptyCells()

	return moves[rand.Intn(len(moves))], nil //nolint: gosec // it's ok
}

// Bots maps a difficulty level to its bot.
type Bots map[string]Bot

func NewBots(searcher *minimax.Searcher) Bots {
	return Bots{
		entity.EasyDifficulty: NewRandomBot(),
		entity.HardDifficulty: NewMinimaxBot(searcher),
	}
}

func (that Bots) For(difficulty string) (Bot, error) {
	bot, ok := that[difficulty]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownDifficulty, difficulty)
	}

	return bot, nil
}
