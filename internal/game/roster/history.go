package roster

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BattleRecord summarizes one finished or abandoned battle.
// Winner is "player", "enemy", or empty when the player fled.
type BattleRecord struct {
	ID        uuid.UUID
	PlayerID  uuid.UUID
	HeroID    string
	MonsterID string
	Winner    string
	Rounds    int
	Log       []string
	StartedAt time.Time
	EndedAt   time.Time
}

// BattleRecorder stores battle history.
type BattleRecorder interface {
	RecordBattle(ctx context.Context, rec BattleRecord) error
}

// BattleHistory records battles and reads them back per player.
type BattleHistory interface {
	BattleRecorder
	// Battles returns playerID's records, oldest first.
	Battles(ctx context.Context, playerID uuid.UUID) ([]BattleRecord, error)
}

// RecordBattle implements BattleRecorder.
func (s *MemoryStore) RecordBattle(_ context.Context, rec BattleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.Log = append([]string(nil), rec.Log...)
	s.battles = append(s.battles, rec)
	return nil
}

// Battles returns the recorded history of playerID, oldest first.
func (s *MemoryStore) Battles(_ context.Context, playerID uuid.UUID) ([]BattleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []BattleRecord
	for _, rec := range s.battles {
		if rec.PlayerID == playerID {
			out = append(out, rec)
		}
	}
	return out, nil
}
