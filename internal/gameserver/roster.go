package gameserver

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/clash/internal/game/progression"
	"github.com/cory-johannsen/clash/internal/game/roster"
)

// mutate loads the profile, applies fn and saves the result.
// fn errors leave the stored profile untouched.
func (s *Service) mutate(ctx context.Context, playerID uuid.UUID, op string, fn func(p *roster.Player) error) (*roster.Player, error) {
	unlock := s.lock(playerID)
	defer unlock()

	p, err := s.players.Load(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("loading player %s: %w", playerID, err)
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if err := s.players.Save(ctx, p); err != nil {
		return p, &PersistenceError{Op: op, Err: err}
	}
	s.logger.Info("roster updated",
		zap.String("player_id", playerID.String()),
		zap.String("op", op),
		zap.Int("coins", p.Coins),
	)
	return p, nil
}

// Recruit buys the catalog hero heroID into the player's roster.
func (s *Service) Recruit(ctx context.Context, playerID uuid.UUID, heroID string) (*roster.Player, error) {
	tmpl, ok := s.catalog.Hero(heroID)
	if !ok {
		return nil, fmt.Errorf("hero %q: %w", heroID, ErrUnknownRecruit)
	}
	return s.mutate(ctx, playerID, "recruit", func(p *roster.Player) error {
		return p.Recruit(tmpl)
	})
}

// Purchase buys one unit of a shop item.
func (s *Service) Purchase(ctx context.Context, playerID uuid.UUID, itemID string) (*roster.Player, error) {
	it, ok := s.catalog.Item(itemID)
	if !ok {
		return nil, fmt.Errorf("item %q: %w", itemID, ErrUnknownItem)
	}
	return s.mutate(ctx, playerID, "purchase", func(p *roster.Player) error {
		return p.Purchase(it)
	})
}

// ApplyItem equips a carried item on one of the player's heroes permanently.
func (s *Service) ApplyItem(ctx context.Context, playerID uuid.UUID, heroID, itemID string) (*roster.Player, error) {
	it, ok := s.catalog.Item(itemID)
	if !ok {
		return nil, fmt.Errorf("item %q: %w", itemID, ErrUnknownItem)
	}
	return s.mutate(ctx, playerID, "equip", func(p *roster.Player) error {
		return p.ApplyItem(heroID, it)
	})
}

// LevelUp spends coins to grow one of the player's heroes by a level.
//
// Postcondition: returns the coins spent.
func (s *Service) LevelUp(ctx context.Context, playerID uuid.UUID, heroID string) (int, *roster.Player, error) {
	var cost int
	p, err := s.mutate(ctx, playerID, "level up", func(p *roster.Player) error {
		var err error
		cost, err = progression.LevelUpHero(p, heroID)
		return err
	})
	return cost, p, err
}
