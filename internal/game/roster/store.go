package roster

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrPlayerNotFound is returned by Store.Load when no profile exists.
var ErrPlayerNotFound = errors.New("player not found")

// Store persists player profiles.
type Store interface {
	// Load returns the profile for id, or ErrPlayerNotFound.
	Load(ctx context.Context, id uuid.UUID) (*Player, error)
	// Save creates or replaces the profile for p.ID.
	Save(ctx context.Context, p *Player) error
}

// MemoryStore is an in-process Store for development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	players map[uuid.UUID]*Player
	battles []BattleRecord
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{players: make(map[uuid.UUID]*Player)}
}

// Load implements Store. The returned Player is a copy.
func (s *MemoryStore) Load(_ context.Context, id uuid.UUID) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return p.Clone(), nil
}

// Save implements Store. A copy of p is kept.
func (s *MemoryStore) Save(_ context.Context, p *Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[p.ID] = p.Clone()
	return nil
}

// All returns copies of every stored player in no particular order.
func (s *MemoryStore) All() []*Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, p.Clone())
	}
	return out
}
