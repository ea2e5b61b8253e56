// Package main provides the Epic Clash game server: the Telnet front end over
// the game service, with players kept in PostgreSQL or, in memory mode, in
// process memory.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/cory-johannsen/clash/internal/app"
	"github.com/cory-johannsen/clash/internal/config"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	ctx := context.Background()
	var (
		srv     *app.App
		cleanup func()
	)
	switch cfg.Server.Mode {
	case config.ModeMemory:
		srv, cleanup, err = initializeMemory(cfg, "gameserver")
	default:
		srv, cleanup, err = initializeStandalone(ctx, cfg, "gameserver")
	}
	if err != nil {
		log.Fatalf("initializing server: %v", err)
	}

	if err := srv.Run(ctx); err != nil {
		srv.Logger.Error("server stopped", zap.Error(err))
		cleanup()
		os.Exit(1)
	}
	cleanup()
}
