// Package minimax finds optimal tic-tac-toe moves by exhaustive game-tree search.
//
// Scores are fixed globally: +1 when PlayerA (X) wins, -1 when PlayerB (O)
// wins, 0 for a draw. PlayerA is always the maximizer. Among equally good moves
// the first one in row-major order is chosen.
package minimax

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	ScoreWinA = 1
	ScoreWinB = -1
	ScoreDraw = 0
)

// Running bounds start strictly outside the score range so the first move is always taken.
const (
	belowMin = ScoreWinB - 1
	aboveMax = ScoreWinA + 1
)

// Evaluate returns the minimax score of board and the best move for the side to move.
// maximizing is true when PlayerA moves next. The move is nil on terminal boards.
func Evaluate(board entity.Board, maximizing bool) (int, *entity.Move) {
	if score, ok := TerminalScore(&board); ok {
		return score, nil
	}

	mark, best := sideToMove(maximizing)

	var bestMove *entity.Move
	for _, move := range board.EmptyCells() {
		move := move
		child := board.Clone()
		mustMark(&child, move, mark)

		score, _ := Evaluate(child, !maximizing)
		if improves(score, best, maximizing) {
			best = score
			bestMove = &move
		}
	}

	return best, bestMove
}

// TerminalScore scores a finished board; ok is false while the game is in progress.
func TerminalScore(board *entity.Board) (int, bool) {
	switch board.Outcome() {
	case entity.WinA:
		return ScoreWinA, true
	case entity.WinB:
		return ScoreWinB, true
	case entity.Draw:
		return ScoreDraw, true
	case entity.InProgress:
	}

	if board.IsFull() {
		return ScoreDraw, true
	}

	return 0, false
}

func sideToMove(maximizing bool) (entity.Cell, int) {
	if maximizing {
		return entity.PlayerA, belowMin
	}

	return entity.PlayerB, aboveMax
}

// improves reports a strict improvement, so ties keep the earlier move.
func improves(score, best int, maximizing bool) bool {
	if maximizing {
		return score > best
	}

	return score < best
}

// mustMark applies a move produced by EmptyCells. Failure means the board is corrupt.
func mustMark(board *entity.Board, move entity.Move, mark entity.Cell) {
	if err := board.Mark(move.Row, move.Col, mark); err != nil {
		panic(fmt.Sprintf("minimax: unreachable mark failure at %s: %v", move, err))
	}
}
