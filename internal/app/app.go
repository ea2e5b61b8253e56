// Package app assembles a runnable clash server from configuration. Its
// provider sets feed the wire injectors in cmd/gameserver and cmd/devserver.
package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/clash/internal/config"
	"github.com/cory-johannsen/clash/internal/frontend/telnet"
	"github.com/cory-johannsen/clash/internal/gameserver"
	"github.com/cory-johannsen/clash/internal/server"
	"github.com/cory-johannsen/clash/internal/storage/postgres"
)

const (
	monitorInterval = 30 * time.Second
	healthTimeout   = 5 * time.Second
)

// App is a fully wired server ready to run.
type App struct {
	Config   config.Config
	Logger   *zap.Logger
	Game     *gameserver.Service
	Acceptor *telnet.Acceptor
	// Pool is nil when players are kept in memory.
	Pool *postgres.Pool
}

// New bundles the wired components.
func New(cfg config.Config, logger *zap.Logger, game *gameserver.Service, acceptor *telnet.Acceptor, pool *postgres.Pool) *App {
	return &App{Config: cfg, Logger: logger, Game: game, Acceptor: acceptor, Pool: pool}
}

// Run serves Telnet players until a signal arrives, ctx is cancelled or the
// listener fails.
func (a *App) Run(ctx context.Context) error {
	a.Logger.Info("starting clash server",
		zap.String("name", a.Config.Server.Name),
		zap.String("mode", a.Config.Server.Mode),
		zap.String("telnet_addr", a.Config.Telnet.Addr()),
		zap.Int("heroes", len(a.Game.Catalog().Heroes)),
		zap.Int("monsters", len(a.Game.Catalog().Monsters)),
		zap.Int("items", a.Game.Catalog().Items.Len()),
	)
	lc := server.NewLifecycle(a.Logger)
	lc.Add("telnet", &server.FuncService{
		StartFn: a.Acceptor.ListenAndServe,
		StopFn:  a.Acceptor.Stop,
	})
	lc.Add("monitor", &server.TickerService{Interval: monitorInterval, Fn: a.Monitor})
	return lc.Run(ctx)
}

// Monitor logs one status line and checks the database when there is one.
func (a *App) Monitor(ctx context.Context) {
	if a.Pool != nil {
		if err := a.Pool.Health(ctx, healthTimeout); err != nil {
			a.Logger.Warn("database health check failed", zap.Error(err))
		}
		st := a.Pool.Stats()
		a.Logger.Debug("database pool",
			zap.Int32("total_conns", st.Total),
			zap.Int32("idle_conns", st.Idle),
			zap.Int32("acquired_conns", st.Acquired),
		)
	}
	a.Logger.Info("server status",
		zap.Int("sessions", a.Acceptor.Sessions()),
		zap.Int("active_battles", a.Game.ActiveBattles()),
	)
}
