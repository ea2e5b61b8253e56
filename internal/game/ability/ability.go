// Package ability defines ability templates and their per-battle instances.
package ability

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Type is the closed set of ability kinds the combat resolver understands.
type Type int

const (
	Attack Type = iota
	Defend
	Heal
	Special
	Super
)

var typeNames = [...]string{
	Attack:  "attack",
	Defend:  "defend",
	Heal:    "heal",
	Special: "special",
	Super:   "super",
}

// Types lists every ability type in declaration order.
var Types = []Type{Attack, Defend, Heal, Special, Super}

// String returns the lowercase name of t, or "unknown(N)" for values outside the enum.
func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("unknown(%d)", int(t))
	}
	return typeNames[t]
}

// Valid reports whether t is one of the declared ability types.
func (t Type) Valid() bool {
	return t >= Attack && t <= Super
}

// ParseType converts a case-insensitive type name to a Type.
//
// Postcondition: Returns a valid Type or a non-nil error naming the bad input.
func ParseType(s string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range typeNames {
		if n == name {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown ability type %q", s)
}

// MarshalText implements encoding.TextMarshaler; used by both JSON and YAML encoders.
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("cannot marshal ability type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// UnmarshalYAML rejects any scalar that is not a known ability type.
func (t *Type) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: ability type must be a scalar", node.Line)
	}
	parsed, err := ParseType(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*t = parsed
	return nil
}

// Template is the immutable definition of an ability.
// Damage is signed: heals are encoded as negative damage.
type Template struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Type        Type   `yaml:"type" json:"type"`
	Damage      int    `yaml:"damage" json:"damage"`
	EnergyCost  int    `yaml:"energy_cost" json:"energy_cost"`
	Cooldown    int    `yaml:"cooldown" json:"cooldown"`
	Description string `yaml:"description" json:"description"`
}

// Validate checks the template's structural invariants.
//
// Postcondition: Returns nil iff ID and Name are non-empty, Type is valid,
// EnergyCost >= 0 and Cooldown >= 0.
func (t Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("ability: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("ability %q: name must not be empty", t.ID)
	}
	if !t.Type.Valid() {
		return fmt.Errorf("ability %q: invalid type %d", t.ID, int(t.Type))
	}
	if t.EnergyCost < 0 {
		return fmt.Errorf("ability %q: energy_cost must be >= 0", t.ID)
	}
	if t.Cooldown < 0 {
		return fmt.Errorf("ability %q: cooldown must be >= 0", t.ID)
	}
	return nil
}

// Cost returns the energy actually charged when the ability is used.
// Attacks and specials are free regardless of the nominal EnergyCost.
func (t Template) Cost() int {
	switch t.Type {
	case Attack, Special:
		return 0
	case Defend, Heal, Super:
		return t.EnergyCost
	}
	return t.EnergyCost
}

// Instance is a battle-local copy of a Template carrying its live cooldown.
//
// Invariant: CurrentCooldown >= 0.
type Instance struct {
	Template
	CurrentCooldown int
}

// NewInstance returns a ready-to-use instance of t.
//
// Postcondition: CurrentCooldown == 0.
func NewInstance(t Template) Instance {
	return Instance{Template: t}
}

// Ready reports whether the ability is off cooldown.
func (i Instance) Ready() bool {
	return i.CurrentCooldown == 0
}

// Affordable reports whether energy covers the ability's charged cost.
func (i Instance) Affordable(energy int) bool {
	return energy >= i.Cost()
}
