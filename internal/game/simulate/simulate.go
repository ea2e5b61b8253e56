// Package simulate plays headless battles between catalog heroes and
// monsters to measure balance.
package simulate

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/clash/internal/game/ai"
	"github.com/cory-johannsen/clash/internal/game/character"
	"github.com/cory-johannsen/clash/internal/game/combat"
	"github.com/cory-johannsen/clash/internal/game/content"
	"github.com/cory-johannsen/clash/internal/game/dice"
)

// DefaultMaxRounds caps a simulated battle; longer battles count as stalls.
const DefaultMaxRounds = 100

// Options tunes a simulation run.
type Options struct {
	// Battles is the number of battles per matchup.
	Battles int
	// MaxRounds caps each battle; <= 0 selects DefaultMaxRounds.
	MaxRounds int
	// Seed makes the run reproducible when non-zero.
	Seed uint64
	// Workers bounds concurrent matchups; <= 0 selects GOMAXPROCS.
	Workers int
	// Policies builds the monster policy registry for one matchup; nil selects ai.NewRegistry.
	Policies func(src dice.Source) (*ai.Registry, error)
}

// Result aggregates one hero-versus-monster matchup.
type Result struct {
	Hero        string
	Monster     string
	Battles     int
	HeroWins    int
	MonsterWins int
	// Stalls are battles that hit the round cap or where the hero had no usable ability.
	Stalls int
	Rounds int
}

// WinRate is the hero's rounded win percentage.
func (r Result) WinRate() int {
	if r.Battles == 0 {
		return 0
	}
	return (r.HeroWins*100 + r.Battles/2) / r.Battles
}

// AvgRounds is the mean battle length.
func (r Result) AvgRounds() float64 {
	if r.Battles == 0 {
		return 0
	}
	return float64(r.Rounds) / float64(r.Battles)
}

// Run plays opts.Battles battles for every hero and monster pairing in cat.
// The hero is piloted by ai.WeightedHealPolicy; monsters use their named policy.
//
// Precondition: opts.Battles > 0.
// Postcondition: results are ordered hero-major in catalog order, or the
// first error is returned.
func Run(ctx context.Context, cat *content.Catalog, opts Options, logger *zap.Logger) ([]Result, error) {
	if opts.Battles <= 0 {
		return nil, fmt.Errorf("simulate: battles must be > 0, got %d", opts.Battles)
	}
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = DefaultMaxRounds
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Policies == nil {
		opts.Policies = func(src dice.Source) (*ai.Registry, error) { return ai.NewRegistry(src), nil }
	}

	results := make([]Result, len(cat.Heroes)*len(cat.Monsters))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for hi, hero := range cat.Heroes {
		for mi, monster := range cat.Monsters {
			idx := hi*len(cat.Monsters) + mi
			g.Go(func() error {
				src := dice.NewCryptoSource()
				if opts.Seed != 0 {
					src = dice.NewSeededSource(opts.Seed + uint64(idx))
				}
				reg, err := opts.Policies(src)
				if err != nil {
					return err
				}
				res, err := matchup(ctx, hero, monster, reg, src, opts)
				if err != nil {
					return fmt.Errorf("simulate %s vs %s: %w", hero.ID, monster.ID, err)
				}
				results[idx] = res
				logger.Debug("matchup finished",
					zap.String("hero", hero.ID),
					zap.String("monster", monster.ID),
					zap.Int("win_rate", res.WinRate()),
				)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func matchup(ctx context.Context, hero, monster *character.Character, reg *ai.Registry, src dice.Source, opts Options) (Result, error) {
	res := Result{Hero: hero.ID, Monster: monster.ID, Battles: opts.Battles}
	pilot := ai.NewWeightedHealPolicy(src)
	enemy := reg.For(monster.AI)
	for range opts.Battles {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		b := combat.NewBattle(hero, monster, enemy)
		if err := play(ctx, b, pilot, opts.MaxRounds); err != nil {
			return res, err
		}
		res.Rounds += b.Round()
		outcome, ok := b.Outcome()
		switch {
		case !ok:
			res.Stalls++
		case outcome.Winner == combat.PlayerSide:
			res.HeroWins++
		default:
			res.MonsterWins++
		}
	}
	return res, nil
}

// play drives b until it ends, abandoning it at the round cap or when the
// pilot finds nothing usable.
func play(ctx context.Context, b *combat.Battle, pilot ai.Policy, maxRounds int) error {
	for b.Phase() != combat.PhaseEnded {
		if b.Round() > maxRounds {
			_, err := b.Abandon(ctx)
			return err
		}
		choice, ok := pilot.Choose(b.Player())
		if !ok {
			_, err := b.Abandon(ctx)
			return err
		}
		if _, err := b.SubmitPlayerAbility(ctx, choice.ID); err != nil {
			return err
		}
	}
	return nil
}
