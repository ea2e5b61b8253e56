// Package roster holds a player's persistent profile: heroes, coins, items,
// and battle record. Battles never mutate a Player; only the progression and
// menu layers do.
package roster

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/cory-johannsen/clash/internal/game/character"
	"github.com/cory-johannsen/clash/internal/game/inventory"
)

// DefaultStartingCoins is the purse a new player receives.
const DefaultStartingCoins = 1250

var (
	ErrHeroOwned         = errors.New("hero already in roster")
	ErrUnknownHero       = errors.New("hero not in roster")
	ErrInsufficientCoins = errors.New("not enough coins")
	ErrNotRecruitable    = errors.New("hero cannot be recruited")
	ErrNotEquipment      = errors.New("item cannot be equipped")
	ErrNotConsumable     = errors.New("item cannot be used in battle")
)

var recruitPrices = map[character.Rarity]int{
	character.Common:    100,
	character.Uncommon:  250,
	character.Rare:      500,
	character.Epic:      1000,
	character.Legendary: 2000,
}

// RecruitPrice returns the coin cost of recruiting a hero of rarity r.
func RecruitPrice(r character.Rarity) int {
	return recruitPrices[r]
}

// Player is the persisted state of one player.
//
// Invariant: Coins >= 0; hero IDs are unique; Level >= 1.
type Player struct {
	ID         uuid.UUID              `json:"id"`
	Name       string                 `json:"name"`
	Level      int                    `json:"level"`
	Experience int                    `json:"experience"`
	Coins      int                    `json:"coins"`
	Wins       int                    `json:"wins"`
	Losses     int                    `json:"losses"`
	Heroes     []*character.Character `json:"heroes"`
	Inventory  inventory.Bag          `json:"inventory"`
}

// NewPlayer creates a level 1 player owning copies of starters.
//
// Precondition: coins >= 0.
// Postcondition: The returned Player shares no mutable state with starters.
func NewPlayer(id uuid.UUID, name string, coins int, starters []*character.Character) *Player {
	p := &Player{
		ID:        id,
		Name:      name,
		Level:     1,
		Coins:     coins,
		Inventory: inventory.Bag{},
	}
	for _, s := range starters {
		p.Heroes = append(p.Heroes, s.Clone())
	}
	return p
}

// Clone returns a deep copy of p.
func (p *Player) Clone() *Player {
	out := *p
	out.Heroes = make([]*character.Character, len(p.Heroes))
	for i, h := range p.Heroes {
		out.Heroes[i] = h.Clone()
	}
	out.Inventory = p.Inventory.Clone()
	return &out
}

// Hero returns the owned hero with the given ID.
func (p *Player) Hero(id string) (*character.Character, bool) {
	for _, h := range p.Heroes {
		if h.ID == id {
			return h, true
		}
	}
	return nil, false
}

// HasHero reports whether the player owns a hero with the given ID.
func (p *Player) HasHero(id string) bool {
	_, ok := p.Hero(id)
	return ok
}

// Spend deducts amount coins.
//
// Postcondition: on ErrInsufficientCoins the purse is unchanged.
func (p *Player) Spend(amount int) error {
	if amount > p.Coins {
		return fmt.Errorf("need %d coins, have %d: %w", amount, p.Coins, ErrInsufficientCoins)
	}
	p.Coins -= amount
	return nil
}

// Recruit buys a copy of tmpl at its rarity price.
//
// Precondition: tmpl is a hero template.
// Postcondition: on error the player is unchanged.
func (p *Player) Recruit(tmpl *character.Character) error {
	if !tmpl.Recruitable && !tmpl.Starter {
		return fmt.Errorf("recruit %q: %w", tmpl.ID, ErrNotRecruitable)
	}
	if p.HasHero(tmpl.ID) {
		return fmt.Errorf("recruit %q: %w", tmpl.ID, ErrHeroOwned)
	}
	if err := p.Spend(RecruitPrice(tmpl.Rarity)); err != nil {
		return fmt.Errorf("recruit %q: %w", tmpl.ID, err)
	}
	p.Heroes = append(p.Heroes, tmpl.Clone())
	return nil
}

// Purchase buys one unit of it.
//
// Postcondition: on error the player is unchanged.
func (p *Player) Purchase(it *inventory.Item) error {
	if err := p.Spend(it.Price); err != nil {
		return fmt.Errorf("buy %q: %w", it.ID, err)
	}
	if p.Inventory == nil {
		p.Inventory = inventory.Bag{}
	}
	return p.Inventory.Add(it.ID, 1)
}

// ApplyItem consumes one carried equipment item and adds its bonus to the hero.
//
// Postcondition: on error the player is unchanged.
func (p *Player) ApplyItem(heroID string, it *inventory.Item) error {
	if !it.Equipment() {
		return fmt.Errorf("equip %q: %w", it.ID, ErrNotEquipment)
	}
	hero, ok := p.Hero(heroID)
	if !ok {
		return fmt.Errorf("equip %q on %q: %w", it.ID, heroID, ErrUnknownHero)
	}
	if err := p.Inventory.Remove(it.ID, 1); err != nil {
		return fmt.Errorf("equip %q: %w", it.ID, err)
	}
	it.Apply(hero)
	return nil
}

// ConsumeItem removes one battle consumable after it has been used.
func (p *Player) ConsumeItem(it *inventory.Item) error {
	if !it.UsableInBattle {
		return fmt.Errorf("use %q: %w", it.ID, ErrNotConsumable)
	}
	if err := p.Inventory.Remove(it.ID, 1); err != nil {
		return fmt.Errorf("use %q: %w", it.ID, err)
	}
	return nil
}

// Games returns the number of finished battles.
func (p *Player) Games() int { return p.Wins + p.Losses }

// WinRate returns the rounded percentage of battles won, or 0 before any battle.
func (p *Player) WinRate() int {
	if p.Games() == 0 {
		return 0
	}
	return int(math.Round(float64(p.Wins) * 100 / float64(p.Games())))
}

// ExperienceToNext returns the experience a player needs to reach the next level.
func (p *Player) ExperienceToNext() int {
	return p.Level * 100
}
