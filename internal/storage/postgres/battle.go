package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/clash/internal/game/roster"
)

// BattleRepository stores finished battles. It implements roster.BattleHistory.
type BattleRepository struct {
	db *pgxpool.Pool
}

// NewBattleRepository creates a BattleRepository backed by the given pool.
func NewBattleRepository(db *pgxpool.Pool) *BattleRepository {
	return &BattleRepository{db: db}
}

// RecordBattle inserts rec. Recording the same battle ID twice is a no-op.
//
// Precondition: the player row for rec.PlayerID exists.
func (r *BattleRepository) RecordBattle(ctx context.Context, rec roster.BattleRecord) error {
	log := rec.Log
	if log == nil {
		log = []string{}
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO battles (id, player_id, hero_id, monster_id, winner, rounds, log, started_at, ended_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO NOTHING`,
		rec.ID, rec.PlayerID, rec.HeroID, rec.MonsterID, rec.Winner, rec.Rounds, log, rec.StartedAt, rec.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("recording battle %s: %w", rec.ID, err)
	}
	return nil
}

// Battles returns playerID's recorded battles, oldest first.
func (r *BattleRepository) Battles(ctx context.Context, playerID uuid.UUID) ([]roster.BattleRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, player_id, hero_id, monster_id, winner, rounds, log, started_at, ended_at
		 FROM battles WHERE player_id = $1
		 ORDER BY ended_at ASC, id ASC`,
		playerID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying battles for %s: %w", playerID, err)
	}
	recs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (roster.BattleRecord, error) {
		var rec roster.BattleRecord
		err := row.Scan(&rec.ID, &rec.PlayerID, &rec.HeroID, &rec.MonsterID, &rec.Winner,
			&rec.Rounds, &rec.Log, &rec.StartedAt, &rec.EndedAt)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning battles: %w", err)
	}
	return recs, nil
}
