package combat

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/looplab/fsm"

	"github.com/cory-johannsen/clash/internal/game/ability"
	"github.com/cory-johannsen/clash/internal/game/character"
)

// Phase is the externally observable state of a Battle.
type Phase string

const (
	PhaseAwaitingInput Phase = "awaiting-player-input"
	PhaseResolving     Phase = "resolving"
	PhaseEnded         Phase = "ended"
)

const (
	evSubmit = "submit"
	evAwait  = "await"
	evEnd    = "end"
)

var (
	// ErrNotAwaitingInput is returned when the player acts outside awaiting-player-input.
	ErrNotAwaitingInput = errors.New("battle is not awaiting player input")
	// ErrInvalidPhase is returned when an internal step is invoked outside resolving.
	ErrInvalidPhase = errors.New("operation not valid in current battle phase")

	ErrUnknownAbility     = character.ErrUnknownAbility
	ErrOnCooldown         = character.ErrOnCooldown
	ErrInsufficientEnergy = character.ErrInsufficientEnergy
)

// RejectionError reports a player action that was refused without changing
// battle state. It is a recoverable user error.
type RejectionError struct {
	Err error
}

func (e *RejectionError) Error() string { return e.Err.Error() }

func (e *RejectionError) Unwrap() error { return e.Err }

// IsRejection reports whether err is a *RejectionError.
func IsRejection(err error) bool {
	var rej *RejectionError
	return errors.As(err, &rej)
}

// Selector chooses the enemy's ability for its turn. Returning false skips the turn.
type Selector interface {
	Choose(enemy *character.Instance) (ability.Instance, bool)
}

// SelectorFunc adapts a function to the Selector interface.
type SelectorFunc func(enemy *character.Instance) (ability.Instance, bool)

// Choose calls f.
func (f SelectorFunc) Choose(enemy *character.Instance) (ability.Instance, bool) { return f(enemy) }

// Consumable is an in-battle item effect.
type Consumable struct {
	ID     string
	Name   string
	Health int
	Energy int
}

// Outcome records how a battle ended.
type Outcome struct {
	Winner Side
}

// Battle is the turn state machine for one hero-versus-monster fight.
//
// A Battle is not safe for concurrent use; exactly one caller drives it.
// It never touches persistence or presentation.
type Battle struct {
	id         uuid.UUID
	player     *character.Instance
	enemy      *character.Instance
	activeTurn Side
	log        []string
	round      int
	outcome    *Outcome
	fled       bool
	selector   Selector
	machine    *fsm.FSM
}

// NewBattle creates a battle between deep copies of hero and monster.
//
// Precondition: hero and monster are valid characters; sel must be non-nil.
// Postcondition: Phase is awaiting-player-input, round is 1, the roster
// records are never mutated, and the log holds the opening line.
func NewBattle(hero, monster *character.Character, sel Selector) *Battle {
	b := &Battle{
		id:         uuid.New(),
		player:     character.NewInstance(hero),
		enemy:      character.NewInstance(monster),
		activeTurn: PlayerSide,
		round:      1,
		selector:   sel,
	}
	b.machine = fsm.NewFSM(
		string(PhaseAwaitingInput),
		fsm.Events{
			{Name: evSubmit, Src: []string{string(PhaseAwaitingInput)}, Dst: string(PhaseResolving)},
			{Name: evAwait, Src: []string{string(PhaseResolving)}, Dst: string(PhaseAwaitingInput)},
			{Name: evEnd, Src: []string{string(PhaseAwaitingInput), string(PhaseResolving)}, Dst: string(PhaseEnded)},
		},
		fsm.Callbacks{},
	)
	b.record(startEvent(b.player.Name, b.enemy.Name))
	return b
}

// ID returns the battle's unique identifier.
func (b *Battle) ID() uuid.UUID { return b.id }

// Phase returns the current phase.
func (b *Battle) Phase() Phase { return Phase(b.machine.Current()) }

// ActiveTurn returns the side currently acting.
func (b *Battle) ActiveTurn() Side { return b.activeTurn }

// Round returns the 1-based round number.
func (b *Battle) Round() int { return b.round }

// Player returns a snapshot of the hero.
func (b *Battle) Player() *character.Instance { return b.player.Clone() }

// Enemy returns a snapshot of the monster.
func (b *Battle) Enemy() *character.Instance { return b.enemy.Clone() }

// Log returns a copy of the battle log.
func (b *Battle) Log() []string { return append([]string(nil), b.log...) }

// Outcome returns the winner once the battle ended by defeat.
// An abandoned battle has no outcome.
func (b *Battle) Outcome() (Outcome, bool) {
	if b.outcome == nil {
		return Outcome{}, false
	}
	return *b.outcome, true
}

// Fled reports whether the battle was abandoned.
func (b *Battle) Fled() bool { return b.fled }

// SubmitPlayerAbility runs a full exchange: the player's ability, then unless
// the enemy fell, the enemy's action and end-of-turn cleanup.
//
// Precondition: none; invalid submissions are rejected.
// Postcondition: On rejection returns a *RejectionError and the battle is
// unchanged. Otherwise returns the ordered events of the exchange, and the
// phase is awaiting-player-input or ended.
func (b *Battle) SubmitPlayerAbility(ctx context.Context, abilityID string) ([]Event, error) {
	if b.Phase() != PhaseAwaitingInput {
		return nil, &RejectionError{Err: ErrNotAwaitingInput}
	}
	if _, err := b.player.CheckUsable(abilityID); err != nil {
		return nil, &RejectionError{Err: err}
	}
	if err := b.transition(ctx, evSubmit); err != nil {
		return nil, err
	}
	b.activeTurn = PlayerSide

	res, err := ResolveAbility(b.player, b.enemy, abilityID)
	if err != nil {
		return nil, err
	}
	b.player, b.enemy = res.Actor, res.Target
	events := []Event{b.record(abilityEvent(PlayerSide, b.player.Name, res))}

	if b.enemy.IsDefeated() {
		ev, err := b.finish(ctx, PlayerSide)
		if err != nil {
			return events, err
		}
		return append(events, ev), nil
	}

	more, err := b.EnemyAct(ctx)
	return append(events, more...), err
}

// SubmitPlayerItem spends the player's turn on a consumable, then lets the enemy act.
//
// Postcondition: Health and energy gains are capped at their maxima; rejection
// leaves the battle unchanged.
func (b *Battle) SubmitPlayerItem(ctx context.Context, item Consumable) ([]Event, error) {
	if b.Phase() != PhaseAwaitingInput {
		return nil, &RejectionError{Err: ErrNotAwaitingInput}
	}
	if err := b.transition(ctx, evSubmit); err != nil {
		return nil, err
	}
	b.activeTurn = PlayerSide

	health := b.player.RestoreHealth(item.Health)
	energy := b.player.RestoreEnergy(item.Energy)
	events := []Event{b.record(itemEvent(b.player.Name, item, health, energy))}

	more, err := b.EnemyAct(ctx)
	return append(events, more...), err
}

// EnemyAct lets the monster choose and resolve one ability, or skip.
// SubmitPlayerAbility calls it automatically.
//
// Precondition: Phase is resolving.
// Postcondition: The battle ended with the enemy as winner, or end-of-turn
// cleanup ran and the phase is awaiting-player-input.
func (b *Battle) EnemyAct(ctx context.Context) ([]Event, error) {
	if b.Phase() != PhaseResolving {
		return nil, ErrInvalidPhase
	}
	b.activeTurn = EnemySide

	var events []Event
	choice, ok := b.selector.Choose(b.enemy.Clone())
	if ok {
		if _, err := b.enemy.CheckUsable(choice.ID); err != nil {
			ok = false
		}
	}
	if !ok {
		events = append(events, b.record(skipEvent(EnemySide, b.enemy.Name)))
	} else {
		res, err := ResolveAbility(b.enemy, b.player, choice.ID)
		if err != nil {
			return events, err
		}
		b.enemy, b.player = res.Actor, res.Target
		events = append(events, b.record(abilityEvent(EnemySide, b.enemy.Name, res)))
	}

	if b.player.IsDefeated() {
		ev, err := b.finish(ctx, EnemySide)
		if err != nil {
			return events, err
		}
		return append(events, ev), nil
	}

	ev, err := b.EndOfTurnCleanup(ctx)
	if err != nil {
		return events, err
	}
	return append(events, ev), nil
}

// EndOfTurnCleanup regenerates energy and ticks cooldowns for both sides.
//
// Precondition: Phase is resolving.
// Postcondition: Both combatants gained up to character.EnergyRegen energy,
// every cooldown dropped by one to a floor of zero, the round advanced, and
// the phase is awaiting-player-input.
func (b *Battle) EndOfTurnCleanup(ctx context.Context) (Event, error) {
	if b.Phase() != PhaseResolving {
		return Event{}, ErrInvalidPhase
	}
	b.player.EndTurn()
	b.enemy.EndTurn()
	b.round++
	b.activeTurn = PlayerSide
	if err := b.transition(ctx, evAwait); err != nil {
		return Event{}, err
	}
	return Event{Kind: EventTurnEnd, Side: PlayerSide}, nil
}

// Abandon ends the battle without an outcome. It is a no-op once ended.
//
// Postcondition: Phase is ended; no further actions are accepted.
func (b *Battle) Abandon(ctx context.Context) (Event, error) {
	if b.Phase() == PhaseEnded {
		return Event{}, nil
	}
	if err := b.transition(ctx, evEnd); err != nil {
		return Event{}, err
	}
	b.fled = true
	return b.record(Event{
		Kind:    EventFlee,
		Side:    PlayerSide,
		Message: fmt.Sprintf("%s flees the battle!", b.player.Name),
	}), nil
}

func (b *Battle) finish(ctx context.Context, winner Side) (Event, error) {
	if err := b.transition(ctx, evEnd); err != nil {
		return Event{}, err
	}
	b.outcome = &Outcome{Winner: winner}
	loser := b.enemy.Name
	if winner == EnemySide {
		loser = b.player.Name
	}
	return b.record(defeatEvent(winner.Opponent(), loser)), nil
}

func (b *Battle) transition(ctx context.Context, event string) error {
	if err := b.machine.Event(ctx, event); err != nil {
		return fmt.Errorf("battle %s: %s from %s: %w", b.id, event, b.machine.Current(), err)
	}
	return nil
}

func (b *Battle) record(ev Event) Event {
	if ev.Message != "" {
		b.log = append(b.log, ev.Message)
	}
	return ev
}
