// Package ai chooses the monster's ability each enemy turn.
//
// Every policy satisfies combat.Selector. The canonical policy is RandomPolicy;
// WeightedHealPolicy, ClassicPolicy and ScriptPolicy are documented alternatives
// a monster can opt into by name.
package ai

import (
	"github.com/cory-johannsen/clash/internal/game/ability"
	"github.com/cory-johannsen/clash/internal/game/character"
	"github.com/cory-johannsen/clash/internal/game/dice"
)

// Policy chooses one ability for the enemy, or reports false to skip the turn.
// Policies never mutate enemy; the turn engine applies the choice.
type Policy interface {
	Choose(enemy *character.Instance) (ability.Instance, bool)
}

// ChooseEnemyAbility applies the canonical enemy rule:
//  1. keep abilities that are ready and affordable (attacks are always affordable);
//  2. skip if none remain;
//  3. drop heals;
//  4. choose uniformly among attacks and supers, else uniformly among the rest.
//
// Precondition: enemy and src must be non-nil.
// Postcondition: The returned ability, if any, passes enemy.CheckUsable and is not a heal.
func ChooseEnemyAbility(enemy *character.Instance, src dice.Source) (ability.Instance, bool) {
	var offense, other []ability.Instance
	for _, a := range enemy.Available() {
		switch a.Type {
		case ability.Attack, ability.Super:
			offense = append(offense, a)
		case ability.Defend, ability.Special:
			other = append(other, a)
		case ability.Heal:
		}
	}
	if len(offense) > 0 {
		return offense[src.Intn(len(offense))], true
	}
	if len(other) > 0 {
		return other[src.Intn(len(other))], true
	}
	return ability.Instance{}, false
}

// RandomPolicy is the canonical stateless policy: monsters never heal and
// prefer offense.
type RandomPolicy struct {
	src dice.Source
}

// NewRandomPolicy returns the canonical policy drawing from src.
//
// Precondition: src must be non-nil.
func NewRandomPolicy(src dice.Source) *RandomPolicy {
	return &RandomPolicy{src: src}
}

// Choose implements Policy.
func (p *RandomPolicy) Choose(enemy *character.Instance) (ability.Instance, bool) {
	return ChooseEnemyAbility(enemy, p.src)
}

// ClassicPolicy reproduces the original arcade behaviour: pick any owned
// ability uniformly, heals included. An unusable pick defers to
// ChooseEnemyAbility, so the monster only skips when nothing is usable.
type ClassicPolicy struct {
	src dice.Source
}

// NewClassicPolicy returns a ClassicPolicy drawing from src.
func NewClassicPolicy(src dice.Source) *ClassicPolicy {
	return &ClassicPolicy{src: src}
}

// Choose implements Policy.
func (p *ClassicPolicy) Choose(enemy *character.Instance) (ability.Instance, bool) {
	if len(enemy.Abilities) == 0 {
		return ability.Instance{}, false
	}
	pick := enemy.Abilities[p.src.Intn(len(enemy.Abilities))]
	if !pick.Ready() || !pick.Affordable(enemy.Energy) {
		return ChooseEnemyAbility(enemy, p.src)
	}
	return pick, true
}
