package combat

import "fmt"

// Side identifies which combatant acted.
type Side int

const (
	PlayerSide Side = iota
	EnemySide
)

// String returns "player" or "enemy".
func (s Side) String() string {
	if s == PlayerSide {
		return "player"
	}
	return "enemy"
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == PlayerSide {
		return EnemySide
	}
	return PlayerSide
}

// EventKind classifies a battle event.
type EventKind int

const (
	EventStart EventKind = iota
	EventAbility
	EventItem
	EventSkip
	EventTurnEnd
	EventDefeat
	EventFlee
)

// Event is one step of battle narrative, returned in order so a presentation
// layer can pace or animate it. Message is the line also appended to the battle log.
type Event struct {
	Kind    EventKind
	Side    Side
	Ability string
	Effect  Effect
	Amount  int
	Message string
}

func startEvent(hero, monster string) Event {
	return Event{
		Kind:    EventStart,
		Side:    PlayerSide,
		Message: fmt.Sprintf("Battle begins! %s (Hero) vs %s (Monster)!", hero, monster),
	}
}

func abilityEvent(side Side, actor string, res Result) Event {
	ev := Event{
		Kind:    EventAbility,
		Side:    side,
		Ability: res.Ability.ID,
		Effect:  res.Effect,
		Amount:  res.Amount,
	}
	switch res.Effect {
	case EffectDamage:
		ev.Message = fmt.Sprintf("%s uses %s for %d damage!", actor, res.Ability.Name, res.Amount)
	case EffectHeal:
		ev.Message = fmt.Sprintf("%s uses %s and heals for %d HP!", actor, res.Ability.Name, res.Amount)
	case EffectGuard:
		ev.Message = fmt.Sprintf("%s uses %s and takes a defensive stance!", actor, res.Ability.Name)
	case EffectSpecial:
		ev.Message = fmt.Sprintf("%s uses %s!", actor, res.Ability.Name)
	}
	return ev
}

func itemEvent(actor string, c Consumable, health, energy int) Event {
	msg := fmt.Sprintf("%s uses %s", actor, c.Name)
	switch {
	case health > 0 && energy > 0:
		msg += fmt.Sprintf(" and restores %d HP and %d energy!", health, energy)
	case health > 0:
		msg += fmt.Sprintf(" and restores %d HP!", health)
	case energy > 0:
		msg += fmt.Sprintf(" and restores %d energy!", energy)
	default:
		msg += ", but nothing happens."
	}
	return Event{Kind: EventItem, Side: PlayerSide, Ability: c.ID, Amount: health + energy, Message: msg}
}

func skipEvent(side Side, actor string) Event {
	return Event{
		Kind:    EventSkip,
		Side:    side,
		Message: fmt.Sprintf("%s skips turn (no energy or ability on cooldown)", actor),
	}
}

func defeatEvent(loser Side, name string) Event {
	winner := "Hero"
	if loser == PlayerSide {
		winner = "Monster"
	}
	return Event{
		Kind:    EventDefeat,
		Side:    loser,
		Message: fmt.Sprintf("%s is defeated! %s wins!", name, winner),
	}
}
