package handlers_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/clash/internal/config"
	"github.com/cory-johannsen/clash/internal/frontend/handlers"
	"github.com/cory-johannsen/clash/internal/frontend/telnet"
	"github.com/cory-johannsen/clash/internal/game/ability"
	"github.com/cory-johannsen/clash/internal/game/ai"
	"github.com/cory-johannsen/clash/internal/game/character"
	"github.com/cory-johannsen/clash/internal/game/content"
	"github.com/cory-johannsen/clash/internal/game/dice"
	"github.com/cory-johannsen/clash/internal/game/inventory"
	"github.com/cory-johannsen/clash/internal/game/roster"
	"github.com/cory-johannsen/clash/internal/gameserver"
	"github.com/cory-johannsen/clash/internal/testutil"
)

func testCatalog(t *testing.T) *content.Catalog {
	t.Helper()
	slayer := &character.Character{
		ID: "slayer", Name: "Slayer", Kind: character.Hero, Rarity: character.Rare,
		Attack: 30, Defense: 10, MaxHealth: 100, MaxEnergy: 50, Level: 1, Starter: true,
		Abilities: []ability.Template{
			{ID: "smite", Name: "Smite", Type: ability.Attack, Damage: 100},
			{ID: "mend", Name: "Mend", Type: ability.Heal, Damage: -20, EnergyCost: 10, Cooldown: 2},
		},
	}
	bard := &character.Character{
		ID: "bard", Name: "Bard", Kind: character.Hero, Rarity: character.Uncommon,
		Attack: 10, Defense: 5, MaxHealth: 80, MaxEnergy: 60, Level: 1, Recruitable: true,
		Abilities: []ability.Template{{ID: "lute", Name: "Lute", Type: ability.Attack, Damage: 12}},
	}
	slime := &character.Character{
		ID: "slime", Name: "Slime", Kind: character.Monster, Rarity: character.Common,
		Attack: 5, MaxHealth: 50, MaxEnergy: 20, Level: 1,
		Abilities: []ability.Template{{ID: "ooze", Name: "Ooze", Type: ability.Attack, Damage: 15}},
	}
	ogre := &character.Character{
		ID: "ogre", Name: "Ogre", Kind: character.Monster, Rarity: character.Epic,
		Attack: 50, MaxHealth: 500, MaxEnergy: 20, Level: 1,
		Abilities: []ability.Template{{ID: "crush", Name: "Crush", Type: ability.Attack, Damage: 1000}},
	}
	items := []*inventory.Item{
		{ID: "healing-potion", Name: "Healing Potion", Kind: inventory.KindPotion, Price: 100,
			Rarity: character.Rare, Effect: inventory.Effect{Stat: inventory.StatHealth, Value: 50}, UsableInBattle: true},
		{ID: "iron-sword", Name: "Iron Sword", Kind: inventory.KindWeapon, Price: 80,
			Effect: inventory.Effect{Stat: inventory.StatAttack, Value: 3}},
	}
	cat, err := content.New([]*character.Character{bard, slayer}, []*character.Character{ogre, slime}, items)
	require.NoError(t, err)
	return cat
}

// flakyStore fails saves while failSave is set.
type flakyStore struct {
	*roster.MemoryStore
	mu       sync.Mutex
	failSave bool
}

func (f *flakyStore) setFail(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failSave = v
}

func (f *flakyStore) Save(ctx context.Context, p *roster.Player) error {
	f.mu.Lock()
	fail := f.failSave
	f.mu.Unlock()
	if fail {
		return errors.New("database unavailable")
	}
	return f.MemoryStore.Save(ctx, p)
}

type server struct {
	addr  string
	game  *gameserver.Service
	store *flakyStore
}

type serverOpts struct {
	enemyDelay  time.Duration
	readTimeout time.Duration
	logger      *zap.Logger
}

// startServer runs the full Telnet front end over an in-memory game.
func startServer(t *testing.T, o serverOpts) *server {
	t.Helper()
	logger := o.logger
	if logger == nil {
		logger = zaptest.NewLogger(t)
	}
	if o.readTimeout == 0 {
		o.readTimeout = 5 * time.Second
	}
	store := &flakyStore{MemoryStore: roster.NewMemoryStore()}
	game := gameserver.NewService(
		testCatalog(t),
		store, store, store,
		ai.NewRegistry(dice.NewSeededSource(1)),
		dice.NewLoggedRoller(dice.NewSeededSource(2), logger),
		gameserver.Options{},
		logger,
	)
	h := handlers.NewAuthHandler(handlers.NewMemoryAccounts(), game, handlers.Options{EnemyDelay: o.enemyDelay}, logger)

	acc := telnet.NewAcceptor(config.TelnetConfig{
		Host:         "127.0.0.1",
		ReadTimeout:  o.readTimeout,
		WriteTimeout: 5 * time.Second,
	}, h, logger)
	go func() { _ = acc.ListenAndServe() }()
	require.Eventually(t, func() bool { return acc.IsRunning() && acc.Addr() != "" }, 2*time.Second, 5*time.Millisecond)
	t.Cleanup(acc.Stop)
	return &server{addr: acc.Addr(), game: game, store: store}
}

func (s *server) player(t *testing.T, name string) *testutil.TelnetClient {
	t.Helper()
	c := testutil.NewTelnetClient(t, s.addr)
	c.Login(name, "secret123")
	return c
}
