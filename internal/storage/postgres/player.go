package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/clash/internal/game/character"
	"github.com/cory-johannsen/clash/internal/game/inventory"
	"github.com/cory-johannsen/clash/internal/game/roster"
)

// PlayerRepository persists roster.Player profiles. Heroes and inventory are
// stored as JSONB documents alongside the scalar counters.
type PlayerRepository struct {
	db *pgxpool.Pool
}

// NewPlayerRepository creates a PlayerRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewPlayerRepository(db *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// Load implements roster.Store.
//
// Postcondition: Returns roster.ErrPlayerNotFound when no row exists.
func (r *PlayerRepository) Load(ctx context.Context, id uuid.UUID) (*roster.Player, error) {
	p := &roster.Player{ID: id}
	var heroes []*character.Character
	var bag inventory.Bag
	err := r.db.QueryRow(ctx,
		`SELECT name, level, experience, coins, wins, losses, heroes, inventory
		 FROM players WHERE id = $1`,
		id,
	).Scan(&p.Name, &p.Level, &p.Experience, &p.Coins, &p.Wins, &p.Losses, &heroes, &bag)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, roster.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("querying player %s: %w", id, err)
	}
	if bag == nil {
		bag = inventory.Bag{}
	}
	p.Heroes, p.Inventory = heroes, bag
	return p, nil
}

// Save implements roster.Store as an upsert keyed on the player ID.
func (r *PlayerRepository) Save(ctx context.Context, p *roster.Player) error {
	heroes := p.Heroes
	if heroes == nil {
		heroes = []*character.Character{}
	}
	bag := p.Inventory
	if bag == nil {
		bag = inventory.Bag{}
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO players (id, name, level, experience, coins, wins, losses, heroes, inventory, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		 ON CONFLICT (id) DO UPDATE SET
		     name = EXCLUDED.name,
		     level = EXCLUDED.level,
		     experience = EXCLUDED.experience,
		     coins = EXCLUDED.coins,
		     wins = EXCLUDED.wins,
		     losses = EXCLUDED.losses,
		     heroes = EXCLUDED.heroes,
		     inventory = EXCLUDED.inventory,
		     updated_at = NOW()`,
		p.ID, p.Name, p.Level, p.Experience, p.Coins, p.Wins, p.Losses, heroes, bag,
	)
	if err != nil {
		return fmt.Errorf("saving player %s: %w", p.ID, err)
	}
	return nil
}

// Leaderboard ranks players by wins, then win rate, then coins, all
// descending. limit <= 0 returns every player.
func (r *PlayerRepository) Leaderboard(ctx context.Context, limit int) ([]roster.Standing, error) {
	query := `SELECT id, name, level, wins, losses, coins,
		         CASE WHEN wins + losses = 0 THEN 0
		              ELSE ROUND(wins * 100.0 / (wins + losses))::INTEGER END AS win_rate
		  FROM players
		  ORDER BY wins DESC, win_rate DESC, coins DESC, name ASC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying leaderboard: %w", err)
	}
	standings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (roster.Standing, error) {
		var s roster.Standing
		err := row.Scan(&s.PlayerID, &s.Name, &s.Level, &s.Wins, &s.Losses, &s.Coins, &s.WinRate)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning leaderboard: %w", err)
	}
	return standings, nil
}
