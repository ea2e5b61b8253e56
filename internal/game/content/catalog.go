// Package content loads the hero, monster, and item catalog from a content
// directory laid out as heroes/, monsters/ and items/.
package content

import (
	"fmt"
	"path/filepath"

	"github.com/cory-johannsen/clash/internal/game/character"
	"github.com/cory-johannsen/clash/internal/game/inventory"
)

// Subdirectories of the content root.
const (
	HeroesDir   = "heroes"
	MonstersDir = "monsters"
	ItemsDir    = "items"
)

// Catalog is the immutable set of definitions the game is played with.
// Slices are ordered by ID (items by price then ID).
type Catalog struct {
	Heroes   []*character.Character
	Monsters []*character.Character
	Items    *inventory.Registry

	heroByID    map[string]*character.Character
	monsterByID map[string]*character.Character
}

// Load reads the catalog rooted at dir.
//
// Precondition: dir contains readable heroes/, monsters/ and items/ directories.
// Postcondition: Returns a Catalog with at least one hero, one monster and one
// starter hero, or the first load or validation error.
func Load(dir string) (*Catalog, error) {
	heroes, err := character.LoadTemplates(filepath.Join(dir, HeroesDir), character.Hero)
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	monsters, err := character.LoadTemplates(filepath.Join(dir, MonstersDir), character.Monster)
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	items, err := inventory.LoadItems(filepath.Join(dir, ItemsDir))
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	return New(heroes, monsters, items)
}

// New assembles a Catalog from already-parsed definitions.
//
// Postcondition: Returns an error on duplicate IDs, an empty hero or monster
// list, or when no hero is marked starter.
func New(heroes, monsters []*character.Character, items []*inventory.Item) (*Catalog, error) {
	if len(heroes) == 0 {
		return nil, fmt.Errorf("content: no heroes defined")
	}
	if len(monsters) == 0 {
		return nil, fmt.Errorf("content: no monsters defined")
	}
	c := &Catalog{
		Heroes:      heroes,
		Monsters:    monsters,
		Items:       inventory.NewRegistry(),
		heroByID:    make(map[string]*character.Character, len(heroes)),
		monsterByID: make(map[string]*character.Character, len(monsters)),
	}
	starters := 0
	for _, h := range heroes {
		if _, dup := c.heroByID[h.ID]; dup {
			return nil, fmt.Errorf("content: duplicate hero id %q", h.ID)
		}
		c.heroByID[h.ID] = h
		if h.Starter {
			starters++
		}
	}
	if starters == 0 {
		return nil, fmt.Errorf("content: at least one hero must be marked starter")
	}
	for _, m := range monsters {
		if _, dup := c.monsterByID[m.ID]; dup {
			return nil, fmt.Errorf("content: duplicate monster id %q", m.ID)
		}
		c.monsterByID[m.ID] = m
	}
	for _, it := range items {
		if err := c.Items.Register(it); err != nil {
			return nil, fmt.Errorf("content: %w", err)
		}
	}
	return c, nil
}

// Hero returns the hero template with the given ID.
func (c *Catalog) Hero(id string) (*character.Character, bool) {
	h, ok := c.heroByID[id]
	return h, ok
}

// Monster returns the monster template with the given ID.
func (c *Catalog) Monster(id string) (*character.Character, bool) {
	m, ok := c.monsterByID[id]
	return m, ok
}

// Starters returns the heroes granted to every new player.
func (c *Catalog) Starters() []*character.Character {
	var out []*character.Character
	for _, h := range c.Heroes {
		if h.Starter {
			out = append(out, h)
		}
	}
	return out
}

// Recruitable returns the heroes offered in the village.
func (c *Catalog) Recruitable() []*character.Character {
	var out []*character.Character
	for _, h := range c.Heroes {
		if h.Recruitable {
			out = append(out, h)
		}
	}
	return out
}

// Item returns the item with the given ID.
func (c *Catalog) Item(id string) (*inventory.Item, bool) {
	return c.Items.Item(id)
}
