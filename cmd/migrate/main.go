// Package main provides a database migration runner.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cory-johannsen/clash/internal/config"
	"github.com/cory-johannsen/clash/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	dir := flag.String("dir", "migrations", "directory of SQL migration files")
	direction := flag.String("direction", "up", "migration direction: up or down")
	steps := flag.Int("steps", 0, "number of steps (0 = all)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	dsn := cfg.Database.DSN()

	switch *direction {
	case "up":
		res, err := postgres.Migrate(dsn, *dir, *steps)
		if err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		if !res.Changed {
			fmt.Fprintf(os.Stdout, "no changes (version=%d dirty=%v) [%s]\n", res.Version, res.Dirty, time.Since(start))
			return
		}
		fmt.Fprintf(os.Stdout, "migrated up to version=%d dirty=%v [%s]\n", res.Version, res.Dirty, time.Since(start))
	case "down":
		if *steps > 0 {
			res, err := postgres.Migrate(dsn, *dir, -*steps)
			if err != nil {
				log.Fatalf("migration failed: %v", err)
			}
			fmt.Fprintf(os.Stdout, "migrated down to version=%d dirty=%v [%s]\n", res.Version, res.Dirty, time.Since(start))
			return
		}
		if err := postgres.Rollback(dsn, *dir); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		fmt.Fprintf(os.Stdout, "rolled back all migrations [%s]\n", time.Since(start))
	default:
		log.Fatalf("invalid direction %q: must be 'up' or 'down'", *direction)
	}
}
