// Package combat implements one-on-one battle resolution: the pure ability
// resolver, the turn state machine, and the registry of active battles.
package combat

import (
	"fmt"

	"github.com/cory-johannsen/clash/internal/game/ability"
	"github.com/cory-johannsen/clash/internal/game/character"
)

// Effect classifies the numeric outcome of a resolved ability.
type Effect int

const (
	// EffectDamage reduced the target's health.
	EffectDamage Effect = iota
	// EffectHeal restored the actor's own health.
	EffectHeal
	// EffectGuard is the defend no-op.
	EffectGuard
	// EffectSpecial is the special no-op.
	EffectSpecial
)

// String returns a short lowercase label for the effect.
func (e Effect) String() string {
	switch e {
	case EffectDamage:
		return "damage"
	case EffectHeal:
		return "heal"
	case EffectGuard:
		return "guard"
	case EffectSpecial:
		return "special"
	}
	return fmt.Sprintf("effect(%d)", int(e))
}

// Result describes one resolved ability.
//
// Actor and Target are post-action snapshots; the resolver's inputs are left untouched.
type Result struct {
	Ability     ability.Template
	Effect      Effect
	Amount      int
	EnergySpent int
	Actor       *character.Instance
	Target      *character.Instance
}

// ResolveAbility computes the effect of actor using abilityID against target.
//
// Precondition: the ability is owned by actor, ready, and affordable (see
// character.Instance.CheckUsable). The resolver does not re-check readiness.
// Postcondition: Actor.Energy was reduced by the ability's charged cost, the
// ability's cooldown equals its base cooldown, attacks dealt at least 1
// damage, heals never exceed MaxHealth, and both snapshots satisfy the
// instance invariants.
func ResolveAbility(actor, target *character.Instance, abilityID string) (Result, error) {
	a := actor.Clone()
	t := target.Clone()

	used := a.Ability(abilityID)
	if used == nil {
		return Result{}, fmt.Errorf("resolving %q for %s: %w", abilityID, actor.Name, character.ErrUnknownAbility)
	}

	res := Result{Ability: used.Template}
	res.EnergySpent = min(used.Cost(), a.Energy)
	a.Energy -= res.EnergySpent

	switch used.Type {
	case ability.Attack, ability.Super:
		res.Effect = EffectDamage
		res.Amount = max(1, used.Damage-t.Defense)
		t.TakeDamage(res.Amount)
	case ability.Heal:
		res.Effect = EffectHeal
		res.Amount = a.RestoreHealth(abs(used.Damage))
	case ability.Defend:
		res.Effect = EffectGuard
	case ability.Special:
		res.Effect = EffectSpecial
	default:
		return Result{}, fmt.Errorf("resolving %q: unhandled ability type %s", abilityID, used.Type)
	}

	used.CurrentCooldown = used.Cooldown
	a.Clamp()
	t.Clamp()
	res.Actor = a
	res.Target = t
	return res, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
