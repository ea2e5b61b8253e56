// Package main plays headless battles between every catalog hero and monster
// and prints each matchup's hero win rate.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/clash/internal/config"
	"github.com/cory-johannsen/clash/internal/game/ai"
	"github.com/cory-johannsen/clash/internal/game/content"
	"github.com/cory-johannsen/clash/internal/game/dice"
	"github.com/cory-johannsen/clash/internal/game/simulate"
	"github.com/cory-johannsen/clash/internal/observability"
	"github.com/cory-johannsen/clash/internal/scripting"
)

func main() {
	start := time.Now()

	contentDir := flag.String("content", "content", "root of the heroes/, monsters/ and items/ catalog")
	scriptDir := flag.String("scripts", "content/scripts/ai", "directory of Lua tactics scripts; empty disables them")
	battles := flag.Int("battles", 200, "battles per matchup")
	maxRounds := flag.Int("max-rounds", simulate.DefaultMaxRounds, "round cap per battle")
	seed := flag.Uint64("seed", 0, "fixed random seed; 0 uses crypto/rand")
	workers := flag.Int("workers", 0, "concurrent matchups; 0 uses GOMAXPROCS")
	level := flag.String("log-level", "warn", "log level")
	flag.Parse()

	logger, err := observability.NewLogger(config.LoggingConfig{Level: *level, Format: "console"}, "simulate")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	cat, err := content.Load(*contentDir)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}

	opts := simulate.Options{Battles: *battles, MaxRounds: *maxRounds, Seed: *seed, Workers: *workers}
	if *scriptDir != "" {
		var scriptSrc dice.Source = dice.NewCryptoSource()
		if *seed != 0 {
			scriptSrc = dice.NewSeededSource(*seed)
		}
		// Scripts share one roller across workers.
		scripts := scripting.NewManager(dice.NewLoggedRoller(scriptSrc, logger), logger, 0)
		defer scripts.Close()
		names, err := scripts.LoadDir(*scriptDir)
		if err != nil {
			logger.Fatal("loading ai scripts", zap.Error(err))
		}
		opts.Policies = func(src dice.Source) (*ai.Registry, error) {
			reg := ai.NewRegistry(src)
			return reg, reg.RegisterScripts(names, scripts, logger)
		}
	}

	results, err := simulate.Run(context.Background(), cat, opts, logger)
	if err != nil {
		logger.Fatal("simulation failed", zap.Error(err))
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "HERO\tMONSTER\tBATTLES\tWIN%\tHERO\tMONSTER\tSTALLS\tAVG ROUNDS")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d%%\t%d\t%d\t%d\t%.1f\n",
			r.Hero, r.Monster, r.Battles, r.WinRate(), r.HeroWins, r.MonsterWins, r.Stalls, r.AvgRounds())
	}
	_ = w.Flush()
	fmt.Fprintf(os.Stdout, "\n%d matchups in %s\n", len(results), time.Since(start).Round(time.Millisecond))
}
