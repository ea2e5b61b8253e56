// Package gameserver orchestrates battles and roster changes for connected
// players. It owns the per-player battle registry, applies progression when
// a battle ends, and persists profiles through roster.Store.
package gameserver

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/clash/internal/game/ai"
	"github.com/cory-johannsen/clash/internal/game/character"
	"github.com/cory-johannsen/clash/internal/game/combat"
	"github.com/cory-johannsen/clash/internal/game/content"
	"github.com/cory-johannsen/clash/internal/game/dice"
	"github.com/cory-johannsen/clash/internal/game/roster"
)

var (
	// ErrNoBattle is returned when the player has no active battle.
	ErrNoBattle = errors.New("no battle in progress")
	// ErrUnknownMonster is returned when a monster ID is not in the catalog.
	ErrUnknownMonster = errors.New("unknown monster")
	// ErrUnknownItem is returned when an item ID is not in the catalog.
	ErrUnknownItem = errors.New("unknown item")
	// ErrUnknownRecruit is returned when a hero ID is not in the catalog.
	ErrUnknownRecruit = errors.New("unknown hero")
)

// PersistenceError reports a failed load or save that did not undo the
// in-memory change. Callers surface it to the player and carry on.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("saving progress (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsPersistence reports whether err is a *PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// Leaderboard ranks players.
type Leaderboard interface {
	Leaderboard(ctx context.Context, limit int) ([]roster.Standing, error)
}

// Options tunes a Service.
type Options struct {
	// StartingCoins is the purse of a new player; <= 0 selects roster.DefaultStartingCoins.
	StartingCoins int
	// IdleTimeout abandons a battle after this long without player input; 0 disables it.
	IdleTimeout time.Duration
}

// Service is the game's application layer.
//
// All operations on one player are serialized by a per-player mutex; a
// Battle is only ever driven while that mutex is held.
type Service struct {
	catalog  *content.Catalog
	players  roster.Store
	history  roster.BattleHistory
	leaders  Leaderboard
	policies *ai.Registry
	roller   *dice.Roller
	engine   *combat.Engine
	opts     Options
	logger   *zap.Logger

	locksMu sync.Mutex
	locks   map[uuid.UUID]*sync.Mutex

	activeMu sync.Mutex
	active   map[uuid.UUID]*activeBattle
}

type activeBattle struct {
	battle    *combat.Battle
	hero      *character.Character
	monster   *character.Character
	startedAt time.Time
	idle      *combat.IdleTimer
}

// NewService wires a Service.
//
// Precondition: catalog, players, policies, roller and logger must be non-nil;
// history and leaders may be nil (history is then not recorded and the
// leaderboard is empty).
func NewService(
	catalog *content.Catalog,
	players roster.Store,
	history roster.BattleHistory,
	leaders Leaderboard,
	policies *ai.Registry,
	roller *dice.Roller,
	opts Options,
	logger *zap.Logger,
) *Service {
	if opts.StartingCoins <= 0 {
		opts.StartingCoins = roster.DefaultStartingCoins
	}
	return &Service{
		catalog:  catalog,
		players:  players,
		history:  history,
		leaders:  leaders,
		policies: policies,
		roller:   roller,
		engine:   combat.NewEngine(),
		opts:     opts,
		logger:   logger,
		locks:    make(map[uuid.UUID]*sync.Mutex),
		active:   make(map[uuid.UUID]*activeBattle),
	}
}

// Catalog returns the content the service plays with.
func (s *Service) Catalog() *content.Catalog { return s.catalog }

// ActiveBattles returns the number of battles that have not ended.
func (s *Service) ActiveBattles() int { return s.engine.Active() }

func (s *Service) lock(playerID uuid.UUID) func() {
	s.locksMu.Lock()
	mu, ok := s.locks[playerID]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[playerID] = mu
	}
	s.locksMu.Unlock()
	mu.Lock()
	return mu.Unlock
}

func (s *Service) current(playerID uuid.UUID) (*activeBattle, bool) {
	s.activeMu.Lock()
	defer s.activeMu.Unlock()
	ab, ok := s.active[playerID]
	return ab, ok
}

// EnsurePlayer loads the profile for id, creating a new one named name when
// none exists.
//
// Postcondition: a new profile holds the catalog's starter heroes and the
// configured starting coins.
func (s *Service) EnsurePlayer(ctx context.Context, id uuid.UUID, name string) (*roster.Player, error) {
	unlock := s.lock(id)
	defer unlock()

	p, err := s.players.Load(ctx, id)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, roster.ErrPlayerNotFound) {
		return nil, fmt.Errorf("loading player %s: %w", id, err)
	}
	p = roster.NewPlayer(id, name, s.opts.StartingCoins, s.catalog.Starters())
	if err := s.players.Save(ctx, p); err != nil {
		return p, &PersistenceError{Op: "create player", Err: err}
	}
	s.logger.Info("player created",
		zap.String("player_id", id.String()),
		zap.String("name", name),
		zap.Int("heroes", len(p.Heroes)),
	)
	return p, nil
}

// Player returns the stored profile for id.
func (s *Service) Player(ctx context.Context, id uuid.UUID) (*roster.Player, error) {
	unlock := s.lock(id)
	defer unlock()
	return s.players.Load(ctx, id)
}

// History returns up to limit of the player's most recent battles, newest
// first. limit <= 0 returns all of them.
func (s *Service) History(ctx context.Context, playerID uuid.UUID, limit int) ([]roster.BattleRecord, error) {
	if s.history == nil {
		return nil, nil
	}
	recs, err := s.history.Battles(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("loading history for %s: %w", playerID, err)
	}
	slices.Reverse(recs)
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// Leaderboard returns up to limit standings, best first.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]roster.Standing, error) {
	if s.leaders == nil {
		return nil, nil
	}
	return s.leaders.Leaderboard(ctx, limit)
}
