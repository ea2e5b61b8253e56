// Package main provides the all-in-one development server. Players, accounts
// and battle history live in process memory, so no database is needed and
// nothing survives a restart.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/clash/internal/config"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	port := flag.Int("port", 0, "Telnet port override; 0 keeps the configured port")
	seed := flag.Uint64("seed", 0, "fixed random seed for reproducible battles; 0 keeps the configured seed")
	enemyDelay := flag.Duration("enemy-delay", -1, "pause before the enemy's reply; negative keeps the configured delay")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	cfg.Server.Mode = config.ModeMemory
	cfg.Logging.Format = "console"
	if *port != 0 {
		cfg.Telnet.Port = *port
	}
	if *seed != 0 {
		cfg.Game.Seed = *seed
	}
	if *enemyDelay >= 0 {
		cfg.Game.EnemyDelay = *enemyDelay
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	srv, cleanup, err := initializeDevServer(cfg, "devserver")
	if err != nil {
		log.Fatalf("initializing server: %v", err)
	}
	defer cleanup()

	srv.Logger.Info("dev server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.Uint64("seed", cfg.Game.Seed),
	)
	if err := srv.Run(context.Background()); err != nil {
		srv.Logger.Error("server error", zap.Error(err))
	}
}
