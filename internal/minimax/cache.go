package minimax

import (
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type cacheKey struct {
	grid       [entity.BoardSize][entity.BoardSize]entity.Cell
	maximizing bool
}

type entry struct {
	score   int
	move    entity.Move
	hasMove bool
}

func pack(score int, move *entity.Move) entry {
	if move == nil {
		return entry{score: score}
	}

	return entry{score: score, move: *move, hasMove: true}
}

func (that entry) unpack() (int, *entity.Move) {
	if !that.hasMove {
		return that.score, nil
	}

	move := that.move

	return that.score, &move
}

// cache is a transposition table. A position's value and tie-broken move do not
// depend on the path that reached it.
type cache struct {
	mu      sync.RWMutex
	entries map[cacheKey]entry
}

func newCache() *cache {
	return &cache{entries: make(map[cacheKey]entry)}
}

func (that *cache) get(key cacheKey) (entry, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	hit, ok := that.entries[key]

	return hit, ok
}

func (that *cache) put(key cacheKey, value entry) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.entries[key] = value
}

func (that *cache) len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.entries)
}
