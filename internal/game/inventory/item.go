// Package inventory provides shop item definitions, their YAML loader, and the
// per-player item bag.
package inventory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/clash/internal/game/character"
	"github.com/cory-johannsen/clash/internal/game/combat"
)

// Kind constants for Item.Kind.
const (
	KindWeapon    = "weapon"
	KindArmor     = "armor"
	KindPotion    = "potion"
	KindAccessory = "accessory"
)

// Stat constants for Effect.Stat.
const (
	StatAttack  = "attack"
	StatDefense = "defense"
	StatHealth  = "health"
	StatEnergy  = "energy"
)

var validKinds = map[string]bool{
	KindWeapon:    true,
	KindArmor:     true,
	KindPotion:    true,
	KindAccessory: true,
}

var validStats = map[string]bool{
	StatAttack:  true,
	StatDefense: true,
	StatHealth:  true,
	StatEnergy:  true,
}

// Effect is the stat an item raises and by how much.
type Effect struct {
	Stat  string `yaml:"stat" json:"stat"`
	Value int    `yaml:"value" json:"value"`
}

// Item defines the static properties of a shop item loaded from YAML.
type Item struct {
	ID             string           `yaml:"id" json:"id"`
	Name           string           `yaml:"name" json:"name"`
	Description    string           `yaml:"description" json:"description"`
	Kind           string           `yaml:"kind" json:"kind"`
	Price          int              `yaml:"price" json:"price"`
	Rarity         character.Rarity `yaml:"rarity" json:"rarity"`
	Effect         Effect           `yaml:"effect" json:"effect"`
	UsableInBattle bool             `yaml:"usable_in_battle" json:"usable_in_battle"`
}

// Validate checks that the Item satisfies its invariants.
//
// Precondition: i is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (i *Item) Validate() error {
	var errs []error
	if i.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if i.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if !validKinds[i.Kind] {
		errs = append(errs, fmt.Errorf("Kind must be one of weapon, armor, potion, accessory; got %q", i.Kind))
	}
	if !validStats[i.Effect.Stat] {
		errs = append(errs, fmt.Errorf("Effect.Stat must be one of attack, defense, health, energy; got %q", i.Effect.Stat))
	}
	if i.Effect.Value <= 0 {
		errs = append(errs, errors.New("Effect.Value must be > 0"))
	}
	if i.Price < 0 {
		errs = append(errs, errors.New("Price must be >= 0"))
	}
	if !i.Rarity.Valid() {
		errs = append(errs, fmt.Errorf("Rarity %d is not valid", int(i.Rarity)))
	}
	if i.UsableInBattle && i.Kind != KindPotion {
		errs = append(errs, errors.New("only potions may be usable in battle"))
	}
	if i.UsableInBattle && i.Effect.Stat != StatHealth && i.Effect.Stat != StatEnergy {
		errs = append(errs, errors.New("battle consumables must restore health or energy"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("item validation failed: %v", errs)
	}
	return nil
}

// Equipment reports whether the item is applied permanently to a hero.
func (i *Item) Equipment() bool {
	return i.Kind == KindWeapon || i.Kind == KindArmor || i.Kind == KindAccessory
}

// Consumable converts a battle-usable potion into the restore amounts the turn
// engine applies.
//
// Postcondition: ok is false unless UsableInBattle is set.
func (i *Item) Consumable() (c combat.Consumable, ok bool) {
	if !i.UsableInBattle {
		return combat.Consumable{}, false
	}
	c = combat.Consumable{ID: i.ID, Name: i.Name}
	switch i.Effect.Stat {
	case StatHealth:
		c.Health = i.Effect.Value
	case StatEnergy:
		c.Energy = i.Effect.Value
	}
	return c, true
}

// Apply adds the item's bonus permanently to c.
//
// Precondition: c is non-nil and i.Equipment() is true.
// Postcondition: exactly one of Attack, Defense, MaxHealth, MaxEnergy grows by Effect.Value.
func (i *Item) Apply(c *character.Character) {
	switch i.Effect.Stat {
	case StatAttack:
		c.Attack += i.Effect.Value
	case StatDefense:
		c.Defense += i.Effect.Value
	case StatHealth:
		c.MaxHealth += i.Effect.Value
	case StatEnergy:
		c.MaxEnergy += i.Effect.Value
	}
}

// LoadItems reads all *.yaml and *.yml files from dir, parses each as an
// Item, validates it, and returns them sorted by price then ID.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid Items or the first encountered error.
func LoadItems(dir string) ([]*Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadItems: cannot read directory %q: %w", dir, err)
	}

	items := []*Item{}
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadItems: cannot read file %q: %w", path, err)
		}
		var it Item
		if err := yaml.Unmarshal(data, &it); err != nil {
			return nil, fmt.Errorf("LoadItems: cannot parse file %q: %w", path, err)
		}
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("LoadItems: invalid item in %q: %w", path, err)
		}
		items = append(items, &it)
	}
	sortItems(items)
	return items, nil
}

func sortItems(items []*Item) {
	sort.Slice(items, func(a, b int) bool {
		if items[a].Price != items[b].Price {
			return items[a].Price < items[b].Price
		}
		return items[a].ID < items[b].ID
	})
}
