// Package character defines the persistent character record shared by heroes
// and monsters, and the battle-local Instance built from it.
package character

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/clash/internal/game/ability"
)

// Kind distinguishes player-controlled heroes from AI-controlled monsters.
type Kind int

const (
	Hero Kind = iota
	Monster
)

// String returns "hero" or "monster".
func (k Kind) String() string {
	switch k {
	case Hero:
		return "hero"
	case Monster:
		return "monster"
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// ParseKind converts a case-insensitive kind name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hero":
		return Hero, nil
	case "monster":
		return Monster, nil
	}
	return 0, fmt.Errorf("unknown character kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k != Hero && k != Monster {
		return nil, fmt.Errorf("cannot marshal character kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// UnmarshalYAML decodes a kind name.
func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	if err := k.UnmarshalText([]byte(node.Value)); err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	return nil
}

// Rarity is the collectible tier of a character. It drives recruit prices and battle rewards.
type Rarity int

const (
	Common Rarity = iota
	Uncommon
	Rare
	Epic
	Legendary
)

var rarityNames = [...]string{
	Common:    "common",
	Uncommon:  "uncommon",
	Rare:      "rare",
	Epic:      "epic",
	Legendary: "legendary",
}

// Rarities lists every tier from lowest to highest.
var Rarities = []Rarity{Common, Uncommon, Rare, Epic, Legendary}

// String returns the lowercase tier name.
func (r Rarity) String() string {
	if r < 0 || int(r) >= len(rarityNames) {
		return fmt.Sprintf("unknown(%d)", int(r))
	}
	return rarityNames[r]
}

// Valid reports whether r is a declared tier.
func (r Rarity) Valid() bool {
	return r >= Common && r <= Legendary
}

// ParseRarity converts a case-insensitive tier name to a Rarity.
func ParseRarity(s string) (Rarity, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range rarityNames {
		if n == name {
			return Rarity(i), nil
		}
	}
	return 0, fmt.Errorf("unknown rarity %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Rarity) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("cannot marshal rarity %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rarity) UnmarshalText(text []byte) error {
	parsed, err := ParseRarity(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// UnmarshalYAML decodes a tier name.
func (r *Rarity) UnmarshalYAML(node *yaml.Node) error {
	if err := r.UnmarshalText([]byte(node.Value)); err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	return nil
}

// Character is the persistent form of a hero or monster: the catalog template
// and the record kept in a player's roster.
type Character struct {
	ID          string             `yaml:"id" json:"id"`
	Name        string             `yaml:"name" json:"name"`
	Kind        Kind               `yaml:"kind" json:"kind"`
	Rarity      Rarity             `yaml:"rarity" json:"rarity"`
	Description string             `yaml:"description,omitempty" json:"description,omitempty"`
	Attack      int                `yaml:"attack" json:"attack"`
	Defense     int                `yaml:"defense" json:"defense"`
	MaxHealth   int                `yaml:"max_health" json:"max_health"`
	MaxEnergy   int                `yaml:"max_energy" json:"max_energy"`
	Level       int                `yaml:"level" json:"level"`
	Abilities   []ability.Template `yaml:"abilities" json:"abilities"`
	// AI names the enemy policy used when this character is a monster; empty selects the default.
	AI string `yaml:"ai,omitempty" json:"ai,omitempty"`
	// Starter heroes are granted to every new player.
	Starter bool `yaml:"starter,omitempty" json:"starter,omitempty"`
	// Recruitable heroes can be bought in the village.
	Recruitable bool `yaml:"recruitable,omitempty" json:"recruitable,omitempty"`
}

// Validate checks the character's structural invariants.
//
// Precondition: c must not be nil.
// Postcondition: Returns nil iff ID and Name are set, Rarity is valid, stats are
// in range, Level >= 1, and there is at least one valid ability with a unique ID.
func (c *Character) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("character: id must not be empty")
	}
	if c.Name == "" {
		return fmt.Errorf("character %q: name must not be empty", c.ID)
	}
	if !c.Rarity.Valid() {
		return fmt.Errorf("character %q: invalid rarity %d", c.ID, int(c.Rarity))
	}
	if c.MaxHealth < 1 {
		return fmt.Errorf("character %q: max_health must be >= 1", c.ID)
	}
	if c.MaxEnergy < 0 {
		return fmt.Errorf("character %q: max_energy must be >= 0", c.ID)
	}
	if c.Attack < 0 || c.Defense < 0 {
		return fmt.Errorf("character %q: attack and defense must be >= 0", c.ID)
	}
	if c.Level < 1 {
		return fmt.Errorf("character %q: level must be >= 1", c.ID)
	}
	if len(c.Abilities) == 0 {
		return fmt.Errorf("character %q: at least one ability is required", c.ID)
	}
	seen := make(map[string]bool, len(c.Abilities))
	for _, a := range c.Abilities {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("character %q: %w", c.ID, err)
		}
		if seen[a.ID] {
			return fmt.Errorf("character %q: duplicate ability %q", c.ID, a.ID)
		}
		seen[a.ID] = true
	}
	return nil
}

// Clone returns a deep copy of c.
//
// Postcondition: Mutating the clone's ability slice never affects c.
func (c *Character) Clone() *Character {
	out := *c
	out.Abilities = append([]ability.Template(nil), c.Abilities...)
	return &out
}

// Ability looks up an ability template by ID.
func (c *Character) Ability(id string) (ability.Template, bool) {
	for _, a := range c.Abilities {
		if a.ID == id {
			return a, true
		}
	}
	return ability.Template{}, false
}
