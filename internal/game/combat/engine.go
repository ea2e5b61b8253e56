package combat

import (
	"errors"
	"sync"
)

// ErrBattleInProgress is returned when a player already has an unfinished battle.
var ErrBattleInProgress = errors.New("battle already in progress")

// Engine tracks the active battle of every connected player.
//
// Engine guards only its index; each Battle is still driven by a single caller.
type Engine struct {
	mu      sync.RWMutex
	battles map[string]*Battle
}

// NewEngine creates an empty battle registry.
func NewEngine() *Engine {
	return &Engine{battles: make(map[string]*Battle)}
}

// Start registers b as playerID's active battle.
//
// Precondition: playerID must be non-empty; b must be non-nil.
// Postcondition: Returns ErrBattleInProgress if playerID already has a battle
// that has not ended; an ended battle is replaced.
func (e *Engine) Start(playerID string, b *Battle) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if cur, ok := e.battles[playerID]; ok && cur.Phase() != PhaseEnded {
		return ErrBattleInProgress
	}
	e.battles[playerID] = b
	return nil
}

// Get returns the battle registered for playerID.
func (e *Engine) Get(playerID string) (*Battle, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, ok := e.battles[playerID]
	return b, ok
}

// Remove discards playerID's battle.
func (e *Engine) Remove(playerID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.battles, playerID)
}

// Active returns the number of registered battles that have not ended.
func (e *Engine) Active() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	n := 0
	for _, b := range e.battles {
		if b.Phase() != PhaseEnded {
			n++
		}
	}
	return n
}
