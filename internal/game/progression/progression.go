// Package progression turns battle outcomes into rewards and grows heroes
// between battles. It mutates roster.Player values; callers persist them.
package progression

import (
	"fmt"

	"github.com/cory-johannsen/clash/internal/game/character"
	"github.com/cory-johannsen/clash/internal/game/combat"
	"github.com/cory-johannsen/clash/internal/game/roster"
)

type reward struct{ coins, xp int }

var rewards = map[character.Rarity]reward{
	character.Common:    {25, 15},
	character.Uncommon:  {50, 30},
	character.Rare:      {100, 60},
	character.Epic:      {200, 120},
	character.Legendary: {500, 300},
}

// Reward returns the coins and experience for defeating a monster of rarity r.
func Reward(r character.Rarity) (coins, xp int) {
	rw := rewards[r]
	return rw.coins, rw.xp
}

// Summary describes what ApplyOutcome changed.
type Summary struct {
	Won          bool
	Coins        int
	Experience   int
	LevelsGained int
}

// ApplyOutcome records a finished battle against monster on p.
//
// Precondition: p and monster are non-nil.
// Postcondition: a win increments Wins and adds the rarity reward, then levels
// the player up while Experience >= Level*100, carrying the remainder; a loss
// increments Losses only.
func ApplyOutcome(p *roster.Player, outcome combat.Outcome, monster *character.Character) Summary {
	if outcome.Winner != combat.PlayerSide {
		p.Losses++
		return Summary{}
	}
	coins, xp := Reward(monster.Rarity)
	p.Wins++
	p.Coins += coins
	p.Experience += xp
	s := Summary{Won: true, Coins: coins, Experience: xp}
	for p.Experience >= p.ExperienceToNext() {
		p.Experience -= p.ExperienceToNext()
		p.Level++
		s.LevelsGained++
	}
	return s
}

// LevelUpCost returns the coins needed to raise a hero from its current level.
func LevelUpCost(h *character.Character) int {
	return h.Level * 100
}

// Grow applies one level of stat growth to h: attack, defense and max health
// by 10%, max energy by 5%, each rounded down.
func Grow(h *character.Character) {
	h.Level++
	h.Attack = h.Attack * 110 / 100
	h.Defense = h.Defense * 110 / 100
	h.MaxHealth = h.MaxHealth * 110 / 100
	h.MaxEnergy = h.MaxEnergy * 105 / 100
}

// LevelUpHero spends LevelUpCost coins and grows the owned hero one level.
//
// Postcondition: on error p is unchanged; otherwise returns the coins spent.
func LevelUpHero(p *roster.Player, heroID string) (int, error) {
	h, ok := p.Hero(heroID)
	if !ok {
		return 0, fmt.Errorf("level up %q: %w", heroID, roster.ErrUnknownHero)
	}
	cost := LevelUpCost(h)
	if err := p.Spend(cost); err != nil {
		return 0, fmt.Errorf("level up %q: %w", heroID, err)
	}
	Grow(h)
	return cost, nil
}
