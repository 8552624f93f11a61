package minimax

import (
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type Option func(*Searcher)

// WithCache memoizes results per (grid, side to move).
func WithCache() Option {
	return func(that *Searcher) {
		that.cache = newCache()
	}
}

// WithParallel evaluates the root moves concurrently.
func WithParallel() Option {
	return func(that *Searcher) {
		that.parallel = true
	}
}

// Searcher returns the same score and move as Evaluate, optionally faster.
// It is safe for concurrent use.
type Searcher struct {
	cache    *cache
	parallel bool
}

func NewSearcher(opts ...Option) *Searcher {
	searcher := &Searcher{}
	for _, opt := range opts {
		opt(searcher)
	}

	return searcher
}

func (that *Searcher) BestMove(board entity.Board, maximizing bool) (int, *entity.Move) {
	if !that.parallel {
		return that.search(board, maximizing)
	}

	if score, ok := TerminalScore(&board); ok {
		return score, nil
	}

	mark, best := sideToMove(maximizing)
	moves := board.EmptyCells()
	scores := make([]int, len(moves))

	var wg sync.WaitGroup
	for i, move := range moves {
		i, move := i, move
		wg.Add(1)
		go func() {
			defer wg.Done()

			child := board.Clone()
			mustMark(&child, move, mark)
			scores[i], _ = that.search(child, !maximizing)
		}()
	}
	wg.Wait()

	// merge in row-major order regardless of completion order
	var bestMove *entity.Move
	for i, score := range scores {
		if improves(score, best, maximizing) {
			best = score
			bestMove = &moves[i]
		}
	}

	return best, bestMove
}

// CachedPositions reports how many positions the cache holds.
func (that *Searcher) CachedPositions() int {
	if that.cache == nil {
		return 0
	}

	return that.cache.len()
}

func (that *Searcher) search(board entity.Board, maximizing bool) (int, *entity.Move) {
	if that.cache == nil {
		return Evaluate(board, maximizing)
	}

	key := cacheKey{grid: board.Grid(), maximizing: maximizing}
	if hit, ok := that.cache.get(key); ok {
		return hit.unpack()
	}

	if score, ok := TerminalScore(&board); ok {
		that.cache.put(key, entry{score: score})
		return score, nil
	}

	mark, best := sideToMove(maximizing)

	var bestMove *entity.Move
	for _, move := range board.EmptyCells() {
		move := move
		child := board.Clone()
		mustMark(&child, move, mark)

		score, _ := that.search(child, !maximizing)
		if improves(score, best, maximizing) {
			best = score
			bestMove = &move
		}
	}

	that.cache.put(key, pack(best, bestMove))

	return best, bestMove
}
