package ai

import (
	"github.com/cory-johannsen/clash/internal/game/ability"
	"github.com/cory-johannsen/clash/internal/game/character"
	"github.com/cory-johannsen/clash/internal/game/dice"
)

// Default tuning for WeightedHealPolicy.
const (
	DefaultHealThreshold = 30
	DefaultHealChance    = 70
)

// WeightedHealPolicy lets a wounded monster heal itself.
// Below ThresholdPct percent health, with an available heal, it heals with
// probability ChancePct percent; otherwise it behaves like RandomPolicy.
type WeightedHealPolicy struct {
	src          dice.Source
	ThresholdPct int
	ChancePct    int
}

// NewWeightedHealPolicy returns a policy using the default threshold and chance.
func NewWeightedHealPolicy(src dice.Source) *WeightedHealPolicy {
	return &WeightedHealPolicy{src: src, ThresholdPct: DefaultHealThreshold, ChancePct: DefaultHealChance}
}

// Choose implements Policy.
func (p *WeightedHealPolicy) Choose(enemy *character.Instance) (ability.Instance, bool) {
	if enemy.MaxHealth > 0 && enemy.Health*100 < enemy.MaxHealth*p.ThresholdPct {
		var heals []ability.Instance
		for _, a := range enemy.Available() {
			if a.Type == ability.Heal {
				heals = append(heals, a)
			}
		}
		if len(heals) > 0 && p.src.Intn(100) < p.ChancePct {
			return heals[p.src.Intn(len(heals))], true
		}
	}
	return ChooseEnemyAbility(enemy, p.src)
}
