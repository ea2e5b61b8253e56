package simulate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/clash/internal/game/ability"
	"github.com/cory-johannsen/clash/internal/game/ai"
	"github.com/cory-johannsen/clash/internal/game/character"
	"github.com/cory-johannsen/clash/internal/game/content"
	"github.com/cory-johannsen/clash/internal/game/dice"
	"github.com/cory-johannsen/clash/internal/game/simulate"
)

func catalog(t *testing.T) *content.Catalog {
	t.Helper()
	slayer := &character.Character{
		ID: "slayer", Name: "Slayer", Kind: character.Hero, Rarity: character.Rare,
		Attack: 30, Defense: 10, MaxHealth: 100, MaxEnergy: 50, Level: 1, Starter: true,
		Abilities: []ability.Template{{ID: "smite", Name: "Smite", Type: ability.Attack, Damage: 100}},
	}
	pacifist := &character.Character{
		ID: "pacifist", Name: "Pacifist", Kind: character.Hero, Rarity: character.Common,
		Attack: 1, Defense: 0, MaxHealth: 10, MaxEnergy: 10, Level: 1,
		Abilities: []ability.Template{{ID: "pray", Name: "Pray", Type: ability.Heal, Damage: -5, EnergyCost: 50}},
	}
	slime := &character.Character{
		ID: "slime", Name: "Slime", Kind: character.Monster, Rarity: character.Common,
		Attack: 5, MaxHealth: 50, MaxEnergy: 20, Level: 1,
		Abilities: []ability.Template{{ID: "ooze", Name: "Ooze", Type: ability.Attack, Damage: 15}},
	}
	cat, err := content.New([]*character.Character{pacifist, slayer}, []*character.Character{slime}, nil)
	require.NoError(t, err)
	return cat
}

func TestRun(t *testing.T) {
	cat := catalog(t)
	results, err := simulate.Run(context.Background(), cat, simulate.Options{Battles: 20, Seed: 7}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Len(t, results, 2)

	pacifist, slayer := results[0], results[1]
	assert.Equal(t, "pacifist", pacifist.Hero)
	assert.Equal(t, 20, pacifist.Stalls, "a hero with nothing usable stalls")
	assert.Zero(t, pacifist.WinRate())

	assert.Equal(t, "slayer", slayer.Hero)
	assert.Equal(t, "slime", slayer.Monster)
	assert.Equal(t, 20, slayer.HeroWins)
	assert.Equal(t, 100, slayer.WinRate())
	assert.InDelta(t, 1.0, slayer.AvgRounds(), 0.001)
}

func TestRun_Reproducible(t *testing.T) {
	cat := catalog(t)
	opts := simulate.Options{Battles: 10, Seed: 42, Workers: 1}
	a, err := simulate.Run(context.Background(), cat, opts, zaptest.NewLogger(t))
	require.NoError(t, err)
	opts.Workers = 4
	b, err := simulate.Run(context.Background(), cat, opts, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRun_Errors(t *testing.T) {
	cat := catalog(t)
	_, err := simulate.Run(context.Background(), cat, simulate.Options{}, zaptest.NewLogger(t))
	assert.Error(t, err)

	boom := errors.New("no scripts")
	_, err = simulate.Run(context.Background(), cat, simulate.Options{
		Battles:  1,
		Policies: func(dice.Source) (*ai.Registry, error) { return nil, boom },
	}, zaptest.NewLogger(t))
	assert.ErrorIs(t, err, boom)
}

func TestResult_Rates(t *testing.T) {
	r := simulate.Result{Battles: 3, HeroWins: 2, Rounds: 7}
	assert.Equal(t, 67, r.WinRate())
	assert.InDelta(t, 7.0/3.0, r.AvgRounds(), 0.0001)
	assert.Zero(t, simulate.Result{}.WinRate())
}
