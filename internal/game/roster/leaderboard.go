package roster

import (
	"context"
	"sort"

	"github.com/google/uuid"
)

// Standing is one leaderboard row.
type Standing struct {
	PlayerID uuid.UUID
	Name     string
	Level    int
	Wins     int
	Losses   int
	WinRate  int
	Coins    int
}

// StandingOf summarizes p for the leaderboard.
func StandingOf(p *Player) Standing {
	return Standing{
		PlayerID: p.ID,
		Name:     p.Name,
		Level:    p.Level,
		Wins:     p.Wins,
		Losses:   p.Losses,
		WinRate:  p.WinRate(),
		Coins:    p.Coins,
	}
}

// Rank orders players by wins, then win rate, then coins, all descending, and
// returns at most limit rows. limit <= 0 returns every row.
func Rank(players []*Player, limit int) []Standing {
	rows := make([]Standing, len(players))
	for i, p := range players {
		rows[i] = StandingOf(p)
	}
	sort.SliceStable(rows, func(a, b int) bool {
		ra, rb := rows[a], rows[b]
		if ra.Wins != rb.Wins {
			return ra.Wins > rb.Wins
		}
		if ra.WinRate != rb.WinRate {
			return ra.WinRate > rb.WinRate
		}
		if ra.Coins != rb.Coins {
			return ra.Coins > rb.Coins
		}
		return ra.Name < rb.Name
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// Leaderboard implements the ranking query for the in-memory store.
func (s *MemoryStore) Leaderboard(_ context.Context, limit int) ([]Standing, error) {
	return Rank(s.All(), limit), nil
}
