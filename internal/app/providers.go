package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cory-johannsen/clash/internal/config"
	"github.com/cory-johannsen/clash/internal/frontend/handlers"
	"github.com/cory-johannsen/clash/internal/frontend/telnet"
	"github.com/cory-johannsen/clash/internal/game/ai"
	"github.com/cory-johannsen/clash/internal/game/content"
	"github.com/cory-johannsen/clash/internal/game/dice"
	"github.com/cory-johannsen/clash/internal/game/roster"
	"github.com/cory-johannsen/clash/internal/gameserver"
	"github.com/cory-johannsen/clash/internal/observability"
	"github.com/cory-johannsen/clash/internal/scripting"
	"github.com/cory-johannsen/clash/internal/storage/postgres"
)

// Component names the binary in every log line.
type Component string

// CoreSet provides everything above the player store.
var CoreSet = wire.NewSet(
	ProvideLogger,
	ProvideCatalog,
	ProvideSource,
	dice.NewLoggedRoller,
	ProvideScripts,
	ProvidePolicies,
	ProvideServiceOptions,
	gameserver.NewService,
	ProvideHandlerOptions,
	handlers.NewAuthHandler,
	ProvideAcceptor,
	New,
)

// PostgresSet keeps accounts, players and battle history in PostgreSQL.
var PostgresSet = wire.NewSet(
	ProvidePool,
	ProvideDB,
	postgres.NewAccountRepository,
	postgres.NewPlayerRepository,
	postgres.NewBattleRepository,
	wire.Bind(new(handlers.AccountStore), new(*postgres.AccountRepository)),
	wire.Bind(new(roster.Store), new(*postgres.PlayerRepository)),
	wire.Bind(new(gameserver.Leaderboard), new(*postgres.PlayerRepository)),
	wire.Bind(new(roster.BattleHistory), new(*postgres.BattleRepository)),
)

// MemorySet keeps everything in process memory.
var MemorySet = wire.NewSet(
	NoPool,
	handlers.NewMemoryAccounts,
	roster.NewMemoryStore,
	wire.Bind(new(handlers.AccountStore), new(*handlers.MemoryAccounts)),
	wire.Bind(new(roster.Store), new(*roster.MemoryStore)),
	wire.Bind(new(gameserver.Leaderboard), new(*roster.MemoryStore)),
	wire.Bind(new(roster.BattleHistory), new(*roster.MemoryStore)),
)

// ProvideLogger builds the process logger; the cleanup flushes it.
func ProvideLogger(cfg config.Config, component Component) (*zap.Logger, func(), error) {
	logger, err := observability.NewLogger(cfg.Logging, string(component))
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}

// ProvideCatalog loads the content catalog from game.content_dir.
func ProvideCatalog(cfg config.Config, logger *zap.Logger) (*content.Catalog, error) {
	start := time.Now()
	cat, err := content.Load(cfg.Game.ContentDir)
	if err != nil {
		return nil, err
	}
	logger.Info("content loaded",
		zap.String("dir", cfg.Game.ContentDir),
		zap.Int("heroes", len(cat.Heroes)),
		zap.Int("monsters", len(cat.Monsters)),
		zap.Int("items", cat.Items.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return cat, nil
}

// ProvideSource returns a seeded source when game.seed is set, crypto/rand otherwise.
func ProvideSource(cfg config.Config) dice.Source {
	if cfg.Game.Seed != 0 {
		return dice.NewSeededSource(cfg.Game.Seed)
	}
	return dice.NewCryptoSource()
}

// ProvideScripts creates the Lua script manager; the cleanup closes every VM.
func ProvideScripts(roller *dice.Roller, logger *zap.Logger) (*scripting.Manager, func()) {
	m := scripting.NewManager(roller, logger, 0)
	return m, m.Close
}

// ProvidePolicies registers the built-in enemy policies plus one scripted
// policy per Lua file in game.script_dir.
func ProvidePolicies(cfg config.Config, src dice.Source, scripts *scripting.Manager, logger *zap.Logger) (*ai.Registry, error) {
	reg := ai.NewRegistry(src)
	if cfg.Game.ScriptDir == "" {
		return reg, nil
	}
	names, err := scripts.LoadDir(cfg.Game.ScriptDir)
	if err != nil {
		return nil, err
	}
	if err := reg.RegisterScripts(names, scripts, logger); err != nil {
		return nil, err
	}
	logger.Info("ai scripts loaded", zap.Strings("policies", reg.Names()))
	return reg, nil
}

// ProvideServiceOptions maps the game section onto gameserver.Options.
func ProvideServiceOptions(cfg config.Config) gameserver.Options {
	return gameserver.Options{
		StartingCoins: cfg.Game.StartingCoins,
		IdleTimeout:   cfg.Game.SessionTimeout,
	}
}

// ProvideHandlerOptions maps the game section onto handlers.Options.
func ProvideHandlerOptions(cfg config.Config) handlers.Options {
	return handlers.Options{EnemyDelay: cfg.Game.EnemyDelay}
}

// ProvideAcceptor creates the Telnet listener serving h.
func ProvideAcceptor(cfg config.Config, h *handlers.AuthHandler, logger *zap.Logger) *telnet.Acceptor {
	return telnet.NewAcceptor(cfg.Telnet, h, logger)
}

// ProvidePool connects to PostgreSQL; the cleanup closes the pool.
func ProvidePool(ctx context.Context, cfg config.Config, logger *zap.Logger) (*postgres.Pool, func(), error) {
	start := time.Now()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("database", cfg.Database.Name),
		zap.Duration("elapsed", time.Since(start)),
	)
	return pool, pool.Close, nil
}

// ProvideDB exposes the pgx pool to the repositories.
func ProvideDB(pool *postgres.Pool) *pgxpool.Pool {
	return pool.DB()
}

// NoPool stands in for the database pool in memory mode.
func NoPool() *postgres.Pool {
	return nil
}
