package minimax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	e = entity.CellEmpty
	x = entity.PlayerA
	o = entity.PlayerB
)

func board(t *testing.T, grid [3][3]entity.Cell) entity.Board {
	t.Helper()

	b, err := entity.BoardFromGrid(grid)
	require.NoError(t, err)

	return b
}

type position struct {
	name       string
	grid       [3][3]entity.Cell
	maximizing bool
	score      int
	move       *entity.Move
}

var positions = []position{
	{
		name:       "Empty board, X to move draws from the first corner",
		grid:       [3][3]entity.Cell{},
		maximizing: true,
		score:      ScoreDraw,
		move:       &entity.Move{Row: 0, Col: 0},
	},
	{
		name:       "Empty board, O to move",
		grid:       [3][3]entity.Cell{},
		maximizing: false,
		score:      ScoreDraw,
		move:       &entity.Move{Row: 0, Col: 0},
	},
	{
		name:       "X completes the top row",
		grid:       [3][3]entity.Cell{{x, x, e}, {o, o, e}, {e, e, e}},
		maximizing: true,
		score:      ScoreWinA,
		move:       &entity.Move{Row: 0, Col: 2},
	},
	{
		name:       "O completes the middle row",
		grid:       [3][3]entity.Cell{{x, x, e}, {o, o, e}, {x, e, e}},
		maximizing: false,
		score:      ScoreWinB,
		move:       &entity.Move{Row: 1, Col: 2},
	},
	{
		name:       "X must block the O diagonal",
		grid:       [3][3]entity.Cell{{o, x, e}, {e, o, e}, {x, e, e}},
		maximizing: true,
		score:      ScoreDraw,
		move:       &entity.Move{Row: 2, Col: 2},
	},
	{
		name:       "O must block the X diagonal",
		grid:       [3][3]entity.Cell{{x, o, e}, {e, x, e}, {o, e, e}},
		maximizing: false,
		score:      ScoreDraw,
		move:       &entity.Move{Row: 2, Col: 2},
	},
	{
		name:       "O answers a corner with the center",
		grid:       [3][3]entity.Cell{{x, e, e}, {e, e, e}, {e, e, e}},
		maximizing: false,
		score:      ScoreDraw,
		move:       &entity.Move{Row: 1, Col: 1},
	},
	{
		name:       "O answers opposite corners with an edge",
		grid:       [3][3]entity.Cell{{x, e, e}, {e, o, e}, {e, e, x}},
		maximizing: false,
		score:      ScoreDraw,
		move:       &entity.Move{Row: 0, Col: 1},
	},
	{
		name:       "Won board is terminal",
		grid:       [3][3]entity.Cell{{x, x, x}, {o, o, e}, {e, e, e}},
		maximizing: false,
		score:      ScoreWinA,
	},
	{
		name:       "Full board without a line is a draw",
		grid:       [3][3]entity.Cell{{x, o, x}, {x, o, o}, {o, x, x}},
		maximizing: true,
		score:      ScoreDraw,
	},
}

func TestEvaluate(t *testing.T) {
	for _, tc := range positions {
		t.Run(tc.name, func(t *testing.T) {
			// Given: a position
			b := board(t, tc.grid)
			before := b.Clone()

			// When: the position is evaluated
			score, move := Evaluate(b, tc.maximizing)

			// Then: score and tie-broken move match, and the board is untouched
			assert.Equal(t, tc.score, score)
			assert.Equal(t, tc.move, move)
			assert.Equal(t, before, b)
		})
	}
}

func TestEvaluate_DoesNotMutateCallerBoard(t *testing.T) {
	// Given: a board held by the caller
	b := board(t, [3][3]entity.Cell{{x, e, e}, {e, o, e}, {e, e, e}})

	// When: the engine searches it
	_, move := Evaluate(b, true)

	// Then: the returned move is still free on the caller's board
	require.NotNil(t, move)
	empty, err := b.IsEmptyCell(move.Row, move.Col)
	require.NoError(t, err)
	assert.True(t, empty)
	assert.Equal(t, 2, b.Filled())
}

func TestSearcher_MatchesEvaluate(t *testing.T) {
	searchers := map[string]*Searcher{
		"plain":          NewSearcher(),
		"cache":          NewSearcher(WithCache()),
		"parallel":       NewSearcher(WithParallel()),
		"cache+parallel": NewSearcher(WithCache(), WithParallel()),
	}

	for name, searcher := range searchers {
		t.Run(name, func(t *testing.T) {
			for _, tc := range positions {
				b := board(t, tc.grid)

				score, move := searcher.BestMove(b, tc.maximizing)

				assert.Equal(t, tc.score, score, tc.name)
				assert.Equal(t, tc.move, move, tc.name)
			}
		})
	}
}

func TestSearcher_CacheIsReused(t *testing.T) {
	// Given: a caching searcher that solved the empty board
	searcher := NewSearcher(WithCache())
	_, _ = searcher.BestMove(entity.NewBoard(), true)
	filled := searcher.CachedPositions()

	// When: a reachable position is searched afterwards
	b := board(t, [3][3]entity.Cell{{x, e, e}, {e, o, e}, {e, e, e}})
	score, move := searcher.BestMove(b, true)

	// Then: the result comes from the table without adding entries
	assert.Positive(t, filled)
	assert.Equal(t, filled, searcher.CachedPositions())
	wantScore, wantMove := Evaluate(b, true)
	assert.Equal(t, wantScore, score)
	assert.Equal(t, wantMove, move)
}

func TestSelfPlay_AlwaysDraws(t *testing.T) {
	searcher := NewSearcher(WithCache())
	b := entity.NewBoard()
	mark := entity.PlayerA

	for !b.Outcome().IsTerminal() {
		_, move := searcher.BestMove(b, mark == entity.PlayerA)
		require.NotNil(t, move)
		require.NoError(t, b.Mark(move.Row, move.Col, mark))
		mark = mark.Opponent()
	}

	assert.Equal(t, entity.Draw, b.Outcome())
}
