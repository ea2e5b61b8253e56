package gameserver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/clash/internal/game/character"
	"github.com/cory-johannsen/clash/internal/game/combat"
	"github.com/cory-johannsen/clash/internal/game/inventory"
	"github.com/cory-johannsen/clash/internal/game/progression"
	"github.com/cory-johannsen/clash/internal/game/roster"
)

// View is a read-only snapshot of a battle for rendering.
type View struct {
	ID         uuid.UUID
	Phase      combat.Phase
	Round      int
	Player     *character.Instance
	Enemy      *character.Instance
	Log        []string
	Outcome    combat.Outcome
	HasOutcome bool
	Fled       bool
}

// Ended reports whether the battle accepts no further actions.
func (v View) Ended() bool { return v.Phase == combat.PhaseEnded }

func viewOf(b *combat.Battle) View {
	v := View{
		ID:     b.ID(),
		Phase:  b.Phase(),
		Round:  b.Round(),
		Player: b.Player(),
		Enemy:  b.Enemy(),
		Log:    b.Log(),
		Fled:   b.Fled(),
	}
	v.Outcome, v.HasOutcome = b.Outcome()
	return v
}

// Turn is the result of one player action.
type Turn struct {
	// Events are the ordered narrative of the exchange.
	Events []combat.Event
	// View is the battle after the exchange.
	View View
	// Summary is set when the battle ended with a winner and rewards were applied.
	Summary *progression.Summary
}

// StartBattle pits the player's hero against a catalog monster. An empty
// monsterID picks one uniformly at random.
//
// Precondition: the player profile exists.
// Postcondition: the player has exactly one active battle, built from copies
// of the roster hero and the catalog monster.
func (s *Service) StartBattle(ctx context.Context, playerID uuid.UUID, heroID, monsterID string) (View, error) {
	unlock := s.lock(playerID)
	defer unlock()

	if _, ok := s.current(playerID); ok {
		return View{}, combat.ErrBattleInProgress
	}
	p, err := s.players.Load(ctx, playerID)
	if err != nil {
		return View{}, fmt.Errorf("loading player %s: %w", playerID, err)
	}
	hero, ok := p.Hero(heroID)
	if !ok {
		return View{}, fmt.Errorf("hero %q: %w", heroID, roster.ErrUnknownHero)
	}
	var monster *character.Character
	if monsterID == "" {
		monster = s.catalog.Monsters[s.roller.Pick("monster", len(s.catalog.Monsters))]
	} else if monster, ok = s.catalog.Monster(monsterID); !ok {
		return View{}, fmt.Errorf("monster %q: %w", monsterID, ErrUnknownMonster)
	}

	b := combat.NewBattle(hero, monster, s.policies.For(monster.AI))
	if err := s.engine.Start(playerID.String(), b); err != nil {
		return View{}, err
	}
	ab := &activeBattle{battle: b, hero: hero.Clone(), monster: monster, startedAt: time.Now()}
	if s.opts.IdleTimeout > 0 {
		battleID := b.ID()
		ab.idle = combat.NewIdleTimer(s.opts.IdleTimeout, func() { s.abandonIdle(playerID, battleID) })
	}
	s.activeMu.Lock()
	s.active[playerID] = ab
	s.activeMu.Unlock()

	s.logger.Info("battle started",
		zap.String("player_id", playerID.String()),
		zap.String("battle_id", b.ID().String()),
		zap.String("hero", hero.ID),
		zap.String("monster", monster.ID),
		zap.String("policy", monster.AI),
	)
	return viewOf(b), nil
}

// Battle returns a snapshot of the player's active battle.
func (s *Service) Battle(playerID uuid.UUID) (View, bool) {
	unlock := s.lock(playerID)
	defer unlock()
	ab, ok := s.current(playerID)
	if !ok {
		return View{}, false
	}
	return viewOf(ab.battle), true
}

// Submit plays abilityID for the player's hero and resolves the enemy's reply.
//
// Postcondition: a rejected ability returns a combat.RejectionError and leaves
// the battle unchanged. When the battle ends, rewards are applied and saved;
// a failed save is returned as a *PersistenceError alongside a valid Turn.
func (s *Service) Submit(ctx context.Context, playerID uuid.UUID, abilityID string) (Turn, error) {
	unlock := s.lock(playerID)
	defer unlock()

	ab, ok := s.current(playerID)
	if !ok {
		return Turn{}, ErrNoBattle
	}
	events, err := ab.battle.SubmitPlayerAbility(ctx, abilityID)
	if err != nil {
		return Turn{View: viewOf(ab.battle)}, err
	}
	return s.afterExchange(ctx, playerID, ab, events, nil)
}

// UseItem drinks one carried battle consumable in place of an ability.
//
// Postcondition: on success the item is removed from the player's inventory.
func (s *Service) UseItem(ctx context.Context, playerID uuid.UUID, itemID string) (Turn, error) {
	unlock := s.lock(playerID)
	defer unlock()

	ab, ok := s.current(playerID)
	if !ok {
		return Turn{}, ErrNoBattle
	}
	it, ok := s.catalog.Item(itemID)
	if !ok {
		return Turn{}, fmt.Errorf("item %q: %w", itemID, ErrUnknownItem)
	}
	cons, ok := it.Consumable()
	if !ok {
		return Turn{}, &combat.RejectionError{Err: fmt.Errorf("item %q: %w", itemID, roster.ErrNotConsumable)}
	}
	p, err := s.players.Load(ctx, playerID)
	if err != nil {
		return Turn{}, fmt.Errorf("loading player %s: %w", playerID, err)
	}
	if p.Inventory.Count(itemID) == 0 {
		return Turn{}, &combat.RejectionError{Err: fmt.Errorf("item %q: %w", itemID, inventory.ErrNotCarried)}
	}

	events, err := ab.battle.SubmitPlayerItem(ctx, cons)
	if err != nil {
		return Turn{View: viewOf(ab.battle)}, err
	}
	if err := p.ConsumeItem(it); err != nil {
		return Turn{}, err
	}
	return s.afterExchange(ctx, playerID, ab, events, p)
}

// Abandon flees the player's battle. No rewards or losses are applied.
func (s *Service) Abandon(ctx context.Context, playerID uuid.UUID) (Turn, error) {
	unlock := s.lock(playerID)
	defer unlock()

	ab, ok := s.current(playerID)
	if !ok {
		return Turn{}, ErrNoBattle
	}
	ev, err := ab.battle.Abandon(ctx)
	if err != nil {
		return Turn{}, err
	}
	_, perr := s.finishLocked(ctx, playerID, ab, nil)
	return Turn{Events: []combat.Event{ev}, View: viewOf(ab.battle)}, perr
}

func (s *Service) abandonIdle(playerID, battleID uuid.UUID) {
	unlock := s.lock(playerID)
	defer unlock()

	ab, ok := s.current(playerID)
	if !ok || ab.battle.ID() != battleID {
		return
	}
	ctx := context.Background()
	if _, err := ab.battle.Abandon(ctx); err != nil {
		s.logger.Error("abandoning idle battle", zap.String("player_id", playerID.String()), zap.Error(err))
		return
	}
	s.logger.Info("battle abandoned after idle timeout",
		zap.String("player_id", playerID.String()),
		zap.String("battle_id", battleID.String()),
		zap.Duration("timeout", s.opts.IdleTimeout),
	)
	if _, err := s.finishLocked(ctx, playerID, ab, nil); err != nil {
		s.logger.Warn("recording idle battle", zap.Error(err))
	}
}

// afterExchange logs events, then either finishes an ended battle or saves a
// modified profile. p may be nil when the exchange did not touch the profile.
func (s *Service) afterExchange(ctx context.Context, playerID uuid.UUID, ab *activeBattle, events []combat.Event, p *roster.Player) (Turn, error) {
	for _, ev := range events {
		s.logger.Debug("battle event",
			zap.String("player_id", playerID.String()),
			zap.String("battle_id", ab.battle.ID().String()),
			zap.String("side", ev.Side.String()),
			zap.String("ability", ev.Ability),
			zap.Int("amount", ev.Amount),
			zap.String("message", ev.Message),
		)
	}

	turn := Turn{Events: events}
	var err error
	if ab.battle.Phase() == combat.PhaseEnded {
		turn.Summary, err = s.finishLocked(ctx, playerID, ab, p)
	} else {
		if ab.idle != nil {
			ab.idle.Touch()
		}
		if p != nil {
			if saveErr := s.players.Save(ctx, p); saveErr != nil {
				err = &PersistenceError{Op: "save player", Err: saveErr}
			}
		}
	}
	turn.View = viewOf(ab.battle)
	return turn, err
}

// finishLocked retires an ended battle, applies progression when there is a
// winner, saves the profile and records history.
//
// Precondition: the player's lock is held and the battle phase is ended.
func (s *Service) finishLocked(ctx context.Context, playerID uuid.UUID, ab *activeBattle, p *roster.Player) (*progression.Summary, error) {
	if ab.idle != nil {
		ab.idle.Stop()
	}
	s.engine.Remove(playerID.String())
	s.activeMu.Lock()
	delete(s.active, playerID)
	s.activeMu.Unlock()

	var errs []error
	var summary *progression.Summary
	outcome, hasOutcome := ab.battle.Outcome()
	if hasOutcome {
		if p == nil {
			loaded, err := s.players.Load(ctx, playerID)
			if err != nil {
				errs = append(errs, &PersistenceError{Op: "load player", Err: err})
			}
			p = loaded
		}
		if p != nil {
			sum := progression.ApplyOutcome(p, outcome, ab.monster)
			summary = &sum
		}
	}
	if p != nil {
		if err := s.players.Save(ctx, p); err != nil {
			errs = append(errs, &PersistenceError{Op: "save player", Err: err})
		}
	}

	rec := roster.BattleRecord{
		ID:        ab.battle.ID(),
		PlayerID:  playerID,
		HeroID:    ab.hero.ID,
		MonsterID: ab.monster.ID,
		Rounds:    ab.battle.Round(),
		Log:       ab.battle.Log(),
		StartedAt: ab.startedAt,
		EndedAt:   time.Now(),
	}
	if hasOutcome {
		rec.Winner = outcome.Winner.String()
	}
	if s.history != nil {
		if err := s.history.RecordBattle(ctx, rec); err != nil {
			errs = append(errs, &PersistenceError{Op: "record battle", Err: err})
		}
	}

	fields := []zap.Field{
		zap.String("player_id", playerID.String()),
		zap.String("battle_id", rec.ID.String()),
		zap.String("winner", rec.Winner),
		zap.Int("rounds", rec.Rounds),
	}
	if summary != nil {
		fields = append(fields,
			zap.Int("coins", summary.Coins),
			zap.Int("experience", summary.Experience),
			zap.Int("levels_gained", summary.LevelsGained),
		)
	}
	s.logger.Info("battle ended", fields...)
	return summary, errors.Join(errs...)
}
