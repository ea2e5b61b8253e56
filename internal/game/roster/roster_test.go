package roster_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/clash/internal/game/ability"
	"github.com/cory-johannsen/clash/internal/game/character"
	"github.com/cory-johannsen/clash/internal/game/inventory"
	"github.com/cory-johannsen/clash/internal/game/roster"
)

func hero(id string, r character.Rarity) *character.Character {
	return &character.Character{
		ID: id, Name: id, Kind: character.Hero, Rarity: r,
		Attack: 20, Defense: 10, MaxHealth: 100, MaxEnergy: 50, Level: 1,
		Abilities:   []ability.Template{{ID: "hit", Name: "Hit", Type: ability.Attack, Damage: 20}},
		Recruitable: true,
	}
}

func ironSword() *inventory.Item {
	return &inventory.Item{ID: "iron-sword", Name: "Iron Sword", Kind: inventory.KindWeapon, Price: 80,
		Effect: inventory.Effect{Stat: inventory.StatAttack, Value: 3}}
}

func potion() *inventory.Item {
	return &inventory.Item{ID: "healing-potion", Name: "Potion", Kind: inventory.KindPotion, Price: 100,
		Effect: inventory.Effect{Stat: inventory.StatHealth, Value: 50}, UsableInBattle: true}
}

func newPlayer() *roster.Player {
	starter := hero("fire-knight", character.Rare)
	starter.Starter = true
	return roster.NewPlayer(uuid.New(), "Ada", roster.DefaultStartingCoins, []*character.Character{starter})
}

func TestNewPlayer(t *testing.T) {
	starter := hero("fire-knight", character.Rare)
	p := roster.NewPlayer(uuid.New(), "Ada", roster.DefaultStartingCoins, []*character.Character{starter})
	assert.Equal(t, 1, p.Level)
	assert.Zero(t, p.Experience)
	assert.Equal(t, 1250, p.Coins)
	require.True(t, p.HasHero("fire-knight"))

	h, _ := p.Hero("fire-knight")
	h.Attack = 999
	assert.Equal(t, 20, starter.Attack, "roster heroes are copies of the template")
}

func TestRecruit(t *testing.T) {
	p := newPlayer()
	require.NoError(t, p.Recruit(hero("ice-mage", character.Epic)))
	assert.Equal(t, 250, p.Coins)
	assert.True(t, p.HasHero("ice-mage"))

	err := p.Recruit(hero("ice-mage", character.Epic))
	assert.ErrorIs(t, err, roster.ErrHeroOwned)

	err = p.Recruit(hero("shadow-assassin", character.Legendary))
	assert.ErrorIs(t, err, roster.ErrInsufficientCoins)
	assert.Equal(t, 250, p.Coins)
	assert.False(t, p.HasHero("shadow-assassin"))

	locked := hero("dragon", character.Common)
	locked.Recruitable = false
	assert.ErrorIs(t, p.Recruit(locked), roster.ErrNotRecruitable)
}

func TestRecruitPrice(t *testing.T) {
	assert.Equal(t, 100, roster.RecruitPrice(character.Common))
	assert.Equal(t, 250, roster.RecruitPrice(character.Uncommon))
	assert.Equal(t, 500, roster.RecruitPrice(character.Rare))
	assert.Equal(t, 1000, roster.RecruitPrice(character.Epic))
	assert.Equal(t, 2000, roster.RecruitPrice(character.Legendary))
}

func TestPurchaseAndApply(t *testing.T) {
	p := newPlayer()
	require.NoError(t, p.Purchase(ironSword()))
	assert.Equal(t, 1170, p.Coins)
	assert.Equal(t, 1, p.Inventory.Count("iron-sword"))

	require.NoError(t, p.ApplyItem("fire-knight", ironSword()))
	h, _ := p.Hero("fire-knight")
	assert.Equal(t, 23, h.Attack)
	assert.Zero(t, p.Inventory.Count("iron-sword"))

	assert.ErrorIs(t, p.ApplyItem("fire-knight", ironSword()), inventory.ErrNotCarried)

	require.NoError(t, p.Purchase(ironSword()))
	assert.ErrorIs(t, p.ApplyItem("nobody", ironSword()), roster.ErrUnknownHero)
	assert.Equal(t, 1, p.Inventory.Count("iron-sword"))

	assert.ErrorIs(t, p.ApplyItem("fire-knight", potion()), roster.ErrNotEquipment)
}

func TestPurchase_InsufficientCoins(t *testing.T) {
	p := newPlayer()
	p.Coins = 50
	assert.ErrorIs(t, p.Purchase(ironSword()), roster.ErrInsufficientCoins)
	assert.Equal(t, 50, p.Coins)
	assert.Zero(t, p.Inventory.Count("iron-sword"))
}

func TestConsumeItem(t *testing.T) {
	p := newPlayer()
	require.NoError(t, p.Purchase(potion()))
	require.NoError(t, p.ConsumeItem(potion()))
	assert.ErrorIs(t, p.ConsumeItem(potion()), inventory.ErrNotCarried)
	assert.ErrorIs(t, p.ConsumeItem(ironSword()), roster.ErrNotConsumable)
}

func TestWinRate(t *testing.T) {
	p := newPlayer()
	assert.Zero(t, p.WinRate())
	p.Wins, p.Losses = 2, 1
	assert.Equal(t, 67, p.WinRate())
	p.Wins, p.Losses = 0, 4
	assert.Zero(t, p.WinRate())
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := roster.NewMemoryStore()

	_, err := s.Load(ctx, uuid.New())
	assert.ErrorIs(t, err, roster.ErrPlayerNotFound)

	p := newPlayer()
	require.NoError(t, s.Save(ctx, p))
	p.Coins = 0

	loaded, err := s.Load(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1250, loaded.Coins, "store keeps its own copy")

	loaded.Heroes[0].Attack = 1
	again, err := s.Load(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, again.Heroes[0].Attack)
}

func TestLeaderboard(t *testing.T) {
	ctx := context.Background()
	s := roster.NewMemoryStore()
	mk := func(name string, wins, losses, coins int) {
		p := newPlayer()
		p.Name, p.Wins, p.Losses, p.Coins = name, wins, losses, coins
		require.NoError(t, s.Save(ctx, p))
	}
	mk("low", 1, 0, 5000)
	mk("rate", 5, 0, 10)
	mk("coins", 5, 5, 900)
	mk("poor", 5, 5, 100)

	rows, err := s.Leaderboard(ctx, 0)
	require.NoError(t, err)
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"rate", "coins", "poor", "low"}, names)
	assert.Equal(t, 100, rows[0].WinRate)

	rows, err = s.Leaderboard(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

// Property: a failed recruit or purchase never changes coins or roster size.
func TestProperty_FailedSpendIsAtomic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p := newPlayer()
		p.Coins = rapid.IntRange(0, 3000).Draw(rt, "coins")
		r := character.Rarities[rapid.IntRange(0, len(character.Rarities)-1).Draw(rt, "rarity")]
		before, heroes := p.Coins, len(p.Heroes)

		err := p.Recruit(hero("recruit", r))
		if err != nil {
			assert.Equal(rt, before, p.Coins)
			assert.Len(rt, p.Heroes, heroes)
			return
		}
		assert.Equal(rt, before-roster.RecruitPrice(r), p.Coins)
		assert.GreaterOrEqual(rt, p.Coins, 0)
	})
}

func TestMemoryStore_RecordBattle(t *testing.T) {
	ctx := context.Background()
	s := roster.NewMemoryStore()
	id := uuid.New()
	log := []string{"Battle begins!"}
	require.NoError(t, s.RecordBattle(ctx, roster.BattleRecord{ID: uuid.New(), PlayerID: id, Winner: "player", Log: log}))
	require.NoError(t, s.RecordBattle(ctx, roster.BattleRecord{ID: uuid.New(), PlayerID: uuid.New()}))
	log[0] = "changed"

	got, err := s.Battles(ctx, id)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "player", got[0].Winner)
	assert.Equal(t, "Battle begins!", got[0].Log[0])
}
