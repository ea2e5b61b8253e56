package character

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/clash/internal/game/ability"
)

// EnergyRegen is the flat amount of energy each combatant regains at end of turn.
const EnergyRegen = 10

var (
	// ErrUnknownAbility is returned when an ability ID is not owned by the instance.
	ErrUnknownAbility = errors.New("unknown ability")
	// ErrOnCooldown is returned when an ability's current cooldown is above zero.
	ErrOnCooldown = errors.New("ability on cooldown")
	// ErrInsufficientEnergy is returned when energy does not cover the ability's cost.
	ErrInsufficientEnergy = errors.New("insufficient energy")
)

// Instance is the mutable, battle-local copy of a Character.
//
// Invariant: 0 <= Health <= MaxHealth, 0 <= Energy <= MaxEnergy, and every
// ability has CurrentCooldown >= 0.
type Instance struct {
	ID        string
	Name      string
	Kind      Kind
	Rarity    Rarity
	Level     int
	Attack    int
	Defense   int
	MaxHealth int
	MaxEnergy int
	Health    int
	Energy    int
	Abilities []ability.Instance
	AI        string
}

// NewInstance builds a full-health, full-energy battle copy of c with every
// ability off cooldown.
//
// Precondition: c must not be nil.
// Postcondition: The returned Instance shares no mutable state with c.
func NewInstance(c *Character) *Instance {
	abilities := make([]ability.Instance, len(c.Abilities))
	for i, a := range c.Abilities {
		abilities[i] = ability.NewInstance(a)
	}
	return &Instance{
		ID:        c.ID,
		Name:      c.Name,
		Kind:      c.Kind,
		Rarity:    c.Rarity,
		Level:     c.Level,
		Attack:    c.Attack,
		Defense:   c.Defense,
		MaxHealth: c.MaxHealth,
		MaxEnergy: c.MaxEnergy,
		Health:    c.MaxHealth,
		Energy:    c.MaxEnergy,
		Abilities: abilities,
		AI:        c.AI,
	}
}

// Clone returns a deep copy of i.
func (i *Instance) Clone() *Instance {
	out := *i
	out.Abilities = append([]ability.Instance(nil), i.Abilities...)
	return &out
}

// Clamp forces Health, Energy and every cooldown back into range.
//
// Postcondition: The instance invariants hold.
func (i *Instance) Clamp() {
	i.Health = clamp(i.Health, 0, i.MaxHealth)
	i.Energy = clamp(i.Energy, 0, i.MaxEnergy)
	for k := range i.Abilities {
		if i.Abilities[k].CurrentCooldown < 0 {
			i.Abilities[k].CurrentCooldown = 0
		}
	}
}

// IsDefeated reports whether the combatant has no health left.
func (i *Instance) IsDefeated() bool {
	return i.Health <= 0
}

// Ability returns a pointer to the owned ability with the given ID, or nil.
func (i *Instance) Ability(id string) *ability.Instance {
	for k := range i.Abilities {
		if i.Abilities[k].ID == id {
			return &i.Abilities[k]
		}
	}
	return nil
}

// CheckUsable verifies that the ability exists, is ready, and is affordable.
//
// Postcondition: Returns the ability on success; otherwise wraps
// ErrUnknownAbility, ErrOnCooldown, or ErrInsufficientEnergy.
func (i *Instance) CheckUsable(id string) (ability.Instance, error) {
	a := i.Ability(id)
	if a == nil {
		return ability.Instance{}, fmt.Errorf("%s has no ability %q: %w", i.Name, id, ErrUnknownAbility)
	}
	if !a.Ready() {
		return ability.Instance{}, fmt.Errorf("%s is on cooldown for %d more turn(s): %w", a.Name, a.CurrentCooldown, ErrOnCooldown)
	}
	if !a.Affordable(i.Energy) {
		return ability.Instance{}, fmt.Errorf("%s needs %d energy, %s has %d: %w", a.Name, a.Cost(), i.Name, i.Energy, ErrInsufficientEnergy)
	}
	return *a, nil
}

// Available returns the abilities that are both ready and affordable, in roster order.
func (i *Instance) Available() []ability.Instance {
	var out []ability.Instance
	for _, a := range i.Abilities {
		if a.Ready() && a.Affordable(i.Energy) {
			out = append(out, a)
		}
	}
	return out
}

// RestoreHealth adds up to amount health, capped at MaxHealth.
//
// Postcondition: Returns the health actually gained (>= 0).
func (i *Instance) RestoreHealth(amount int) int {
	if amount <= 0 {
		return 0
	}
	before := i.Health
	i.Health = min(i.MaxHealth, i.Health+amount)
	return i.Health - before
}

// RestoreEnergy adds up to amount energy, capped at MaxEnergy.
//
// Postcondition: Returns the energy actually gained (>= 0).
func (i *Instance) RestoreEnergy(amount int) int {
	if amount <= 0 {
		return 0
	}
	before := i.Energy
	i.Energy = min(i.MaxEnergy, i.Energy+amount)
	return i.Energy - before
}

// TakeDamage subtracts amount from Health, flooring at zero.
func (i *Instance) TakeDamage(amount int) {
	i.Health = max(0, i.Health-amount)
}

// EndTurn applies the per-turn energy regeneration and ticks every cooldown down by one.
//
// Postcondition: Energy == min(MaxEnergy, Energy+EnergyRegen) and every
// CurrentCooldown == max(0, CurrentCooldown-1).
func (i *Instance) EndTurn() {
	i.Energy = min(i.MaxEnergy, i.Energy+EnergyRegen)
	for k := range i.Abilities {
		i.Abilities[k].CurrentCooldown = max(0, i.Abilities[k].CurrentCooldown-1)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
