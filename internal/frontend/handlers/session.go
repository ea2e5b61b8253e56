package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/clash/internal/frontend/telnet"
	"github.com/cory-johannsen/clash/internal/game/character"
	"github.com/cory-johannsen/clash/internal/game/combat"
	"github.com/cory-johannsen/clash/internal/game/command"
	"github.com/cory-johannsen/clash/internal/game/inventory"
	"github.com/cory-johannsen/clash/internal/game/roster"
	"github.com/cory-johannsen/clash/internal/gameserver"
	"github.com/cory-johannsen/clash/internal/observability"
	"github.com/cory-johannsen/clash/internal/storage/postgres"
)

const (
	leaderboardSize = 10
	historySize     = 5
)

// errQuit ends the session loop cleanly.
var errQuit = errors.New("quit")

// session is one logged-in player's menu loop.
type session struct {
	h      *AuthHandler
	conn   *telnet.Conn
	player uuid.UUID
	name   string
	logger *zap.Logger
}

func (h *AuthHandler) newSession(ctx context.Context, conn *telnet.Conn, acct postgres.Account) (*session, error) {
	s := &session{
		h:      h,
		conn:   conn,
		player: acct.PlayerID,
		name:   acct.Username,
		logger: observability.SessionLogger(h.logger, conn.RemoteAddr().String(), acct.Username),
	}
	p, err := h.game.EnsurePlayer(ctx, acct.PlayerID, acct.Username)
	if err != nil && !gameserver.IsPersistence(err) {
		s.logger.Error("loading player", zap.Error(err))
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Your profile could not be loaded. Please try again later."))
		return nil, err
	}
	s.warnPersistence(err)
	_ = conn.WriteLines(RenderPlayer(p)...)
	if v, ok := h.game.Battle(acct.PlayerID); ok {
		_ = conn.WriteLine(telnet.Colorize(telnet.Yellow, "Your battle is still waiting for you."))
		_ = conn.WriteLines(RenderBattle(v)...)
	} else {
		_ = conn.WriteLine("Type " + telnet.Colorize(telnet.Green, "help") + " to see what you can do.")
	}
	return s, nil
}

func (s *session) prompt() string {
	if v, ok := s.h.game.Battle(s.player); ok {
		return telnet.Colorf(telnet.BrightRed, "[Round %d]> ", v.Round)
	}
	return telnet.Colorf(telnet.BrightCyan, "[%s]> ", s.name)
}

func (s *session) run(ctx context.Context) error {
	start := time.Now()
	for {
		if ctx.Err() != nil {
			_ = s.conn.WriteLine(telnet.Colorize(telnet.Yellow, "Server shutting down. Goodbye!"))
			return ctx.Err()
		}
		if err := s.conn.WritePrompt(s.prompt()); err != nil {
			return fmt.Errorf("writing prompt: %w", err)
		}
		line, err := s.conn.ReadLine()
		if err != nil {
			if telnet.IsTimeout(err) {
				_ = s.conn.WriteLine(telnet.Colorize(telnet.Yellow, "Idle too long. Goodbye!"))
			}
			return fmt.Errorf("reading input: %w", err)
		}

		parsed := command.Parse(line)
		if parsed.Command == "" {
			continue
		}
		cmd, ok := s.h.commands.Resolve(parsed.Command)
		if !ok {
			_ = s.conn.WriteLine(telnet.Colorf(telnet.Red, "I don't know how to %q. Type 'help'.", parsed.Command))
			continue
		}
		_, inBattle := s.h.game.Battle(s.player)
		if !cmd.Allowed(inBattle) {
			if inBattle {
				_ = s.conn.WriteLine(telnet.Colorize(telnet.Yellow, "Finish your battle first (or 'flee')."))
			} else {
				_ = s.conn.WriteLine(telnet.Colorize(telnet.Yellow, "You are not in a battle. Try 'fight <hero>'."))
			}
			continue
		}
		if len(parsed.Args) < cmd.MinArgs {
			_ = s.conn.WriteLine(telnet.Colorize(telnet.Red, "Usage: "+cmd.Usage))
			continue
		}

		err = s.dispatch(ctx, cmd, parsed)
		if errors.Is(err, errQuit) {
			_ = s.conn.WriteLine(telnet.Colorize(telnet.Cyan, "Goodbye!"))
			s.logger.Info("player quit", zap.Duration("session_duration", time.Since(start)))
			return nil
		}
		if err != nil {
			s.report(err)
		}
	}
}

func (s *session) dispatch(ctx context.Context, cmd *command.Command, in command.ParseResult) error {
	switch cmd.Handler {
	case command.HandlerHeroes:
		return s.heroes(ctx)
	case command.HandlerMonsters:
		for _, m := range s.h.game.Catalog().Monsters {
			_ = s.conn.WriteLine(RenderMonster(m))
		}
		return nil
	case command.HandlerFight:
		return s.fight(ctx, in.Arg(0), in.Arg(1))
	case command.HandlerUse:
		return s.use(ctx, in.Arg(0))
	case command.HandlerItem:
		turn, err := s.h.game.UseItem(ctx, s.player, in.Arg(0))
		return s.showTurn(ctx, turn, err)
	case command.HandlerFlee:
		turn, err := s.h.game.Abandon(ctx, s.player)
		return s.showTurn(ctx, turn, err)
	case command.HandlerStatus:
		return s.status()
	case command.HandlerShop:
		return s.shop(ctx)
	case command.HandlerBuy:
		p, err := s.h.game.Purchase(ctx, s.player, in.Arg(0))
		return s.confirm(p, err, "You bought %s. Coins left: %d.", in.Arg(0))
	case command.HandlerVillage:
		return s.village(ctx)
	case command.HandlerRecruit:
		p, err := s.h.game.Recruit(ctx, s.player, in.Arg(0))
		return s.confirm(p, err, "%s joins your roster! Coins left: %d.", in.Arg(0))
	case command.HandlerEquip:
		p, err := s.h.game.ApplyItem(ctx, s.player, in.Arg(0), in.Arg(1))
		if err == nil || gameserver.IsPersistence(err) {
			if h, ok := p.Hero(in.Arg(0)); ok {
				_ = s.conn.WriteLines(RenderHero(h)...)
			}
		}
		return s.confirm(p, err, "%s equipped. Coins: %d.", in.Arg(1))
	case command.HandlerLevelUp:
		return s.levelUp(ctx, in.Arg(0))
	case command.HandlerStats:
		p, err := s.h.game.Player(ctx, s.player)
		if err != nil {
			return err
		}
		return s.conn.WriteLines(RenderPlayer(p)...)
	case command.HandlerLeaders:
		rows, err := s.h.game.Leaderboard(ctx, leaderboardSize)
		if err != nil {
			return err
		}
		return s.conn.WriteLines(RenderLeaders(rows)...)
	case command.HandlerHistory:
		recs, err := s.h.game.History(ctx, s.player, historySize)
		if err != nil {
			return err
		}
		return s.conn.WriteLines(RenderHistory(recs)...)
	case command.HandlerHelp:
		return s.help()
	case command.HandlerQuit:
		return errQuit
	}
	return fmt.Errorf("command %q has no handler %q", cmd.Name, cmd.Handler)
}

func (s *session) heroes(ctx context.Context) error {
	p, err := s.h.game.Player(ctx, s.player)
	if err != nil {
		return err
	}
	for _, h := range p.Heroes {
		_ = s.conn.WriteLines(RenderHero(h)...)
	}
	return nil
}

func (s *session) fight(ctx context.Context, heroID, monsterID string) error {
	v, err := s.h.game.StartBattle(ctx, s.player, heroID, monsterID)
	if err != nil {
		return err
	}
	for _, msg := range v.Log {
		_ = s.conn.WriteLine(telnet.Colorize(telnet.Bold+telnet.BrightWhite, msg))
	}
	return s.conn.WriteLines(RenderBattle(v)...)
}

func (s *session) status() error {
	v, ok := s.h.game.Battle(s.player)
	if !ok {
		return gameserver.ErrNoBattle
	}
	return s.conn.WriteLines(RenderBattle(v)...)
}

// use resolves arg as a 1-based ability number or an ability ID.
func (s *session) use(ctx context.Context, arg string) error {
	abilityID := arg
	if n, err := strconv.Atoi(arg); err == nil {
		v, ok := s.h.game.Battle(s.player)
		if !ok {
			// The idle timer may have ended the battle since the scope check.
			return gameserver.ErrNoBattle
		}
		if n < 1 || n > len(v.Player.Abilities) {
			return &combat.RejectionError{Err: fmt.Errorf("there is no ability number %d: %w", n, combat.ErrUnknownAbility)}
		}
		abilityID = v.Player.Abilities[n-1].ID
	}
	turn, err := s.h.game.Submit(ctx, s.player, abilityID)
	return s.showTurn(ctx, turn, err)
}

// showTurn prints the exchange, pausing before the enemy's first event.
// A persistence failure is reported after the turn is shown.
func (s *session) showTurn(ctx context.Context, turn gameserver.Turn, err error) error {
	if err != nil && !gameserver.IsPersistence(err) {
		return err
	}
	paused := false
	for _, ev := range turn.Events {
		if ev.Message == "" {
			continue
		}
		if ev.Side == combat.EnemySide && ev.Kind != combat.EventDefeat && !paused {
			paused = true
			if perr := s.pause(ctx); perr != nil {
				return perr
			}
		}
		_ = s.conn.WriteLine(RenderEvent(ev))
	}
	if turn.View.Ended() {
		_ = s.conn.WriteLines(RenderOutcome(turn.View, turn.Summary)...)
	} else {
		_ = s.conn.WriteLines(RenderBattle(turn.View)...)
	}
	s.warnPersistence(err)
	return nil
}

func (s *session) pause(ctx context.Context) error {
	if s.h.opts.EnemyDelay <= 0 {
		return nil
	}
	_ = s.conn.WriteLine(telnet.Colorize(telnet.Dim, "The enemy is thinking..."))
	t := time.NewTimer(s.h.opts.EnemyDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *session) shop(ctx context.Context) error {
	p, err := s.h.game.Player(ctx, s.player)
	if err != nil {
		return err
	}
	_ = s.conn.WriteLine(telnet.Colorf(telnet.BrightYellow, "Shop (you have %d coins):", p.Coins))
	for _, it := range s.h.game.Catalog().Items.All() {
		_ = s.conn.WriteLine("  " + RenderItem(it, p.Inventory.Count(it.ID)))
	}
	return nil
}

func (s *session) village(ctx context.Context) error {
	p, err := s.h.game.Player(ctx, s.player)
	if err != nil {
		return err
	}
	recruits := s.h.game.Catalog().Recruitable()
	if len(recruits) == 0 {
		return s.conn.WriteLine("No heroes are looking for work.")
	}
	_ = s.conn.WriteLine(telnet.Colorf(telnet.BrightYellow, "Village (you have %d coins):", p.Coins))
	for _, h := range recruits {
		_ = s.conn.WriteLine("  " + RenderRecruit(h, p.HasHero(h.ID)))
	}
	return nil
}

func (s *session) levelUp(ctx context.Context, heroID string) error {
	cost, p, err := s.h.game.LevelUp(ctx, s.player, heroID)
	if err != nil && !gameserver.IsPersistence(err) {
		return err
	}
	h, _ := p.Hero(heroID)
	_ = s.conn.WriteLine(telnet.Colorf(telnet.BrightGreen, "%s reaches level %d for %d coins. Coins left: %d.", h.Name, h.Level, cost, p.Coins))
	_ = s.conn.WriteLines(RenderHero(h)...)
	s.warnPersistence(err)
	return nil
}

// confirm prints a success line formatted with subject and the coin balance.
func (s *session) confirm(p *roster.Player, err error, format, subject string) error {
	if err != nil && !gameserver.IsPersistence(err) {
		return err
	}
	_ = s.conn.WriteLine(telnet.Colorf(telnet.BrightGreen, format, subject, p.Coins))
	s.warnPersistence(err)
	return nil
}

func (s *session) help() error {
	byCat := s.h.commands.CommandsByCategory()
	for _, cat := range s.h.commands.Categories() {
		_ = s.conn.WriteLine(telnet.Colorf(telnet.BrightWhite, "%s:", cat))
		for _, c := range byCat[cat] {
			_ = s.conn.WriteLine(fmt.Sprintf("  %s  %s", telnet.Colorf(telnet.Green, "%-24s", c.Usage), c.Help))
		}
	}
	return nil
}

func (s *session) warnPersistence(err error) {
	if err == nil {
		return
	}
	s.logger.Warn("progress not saved", zap.Error(err))
	_ = s.conn.WriteLine(telnet.Colorize(telnet.Yellow, "Warning: your progress could not be saved. Play continues."))
}

// report shows a failed command to the player. Expected game errors are
// shown as-is; anything else is logged and replaced by a generic message.
func (s *session) report(err error) {
	switch {
	case combat.IsRejection(err):
		_ = s.conn.WriteLine(telnet.Colorize(telnet.Yellow, err.Error()))
	case userFacing(err):
		_ = s.conn.WriteLine(telnet.Colorize(telnet.Red, err.Error()))
	default:
		s.logger.Error("command failed", zap.Error(err))
		_ = s.conn.WriteLine(telnet.Colorize(telnet.Red, "Something went wrong. Please try again."))
	}
}

var userErrors = []error{
	gameserver.ErrNoBattle,
	gameserver.ErrUnknownMonster,
	gameserver.ErrUnknownItem,
	gameserver.ErrUnknownRecruit,
	combat.ErrBattleInProgress,
	roster.ErrHeroOwned,
	roster.ErrUnknownHero,
	roster.ErrInsufficientCoins,
	roster.ErrNotRecruitable,
	roster.ErrNotEquipment,
	roster.ErrNotConsumable,
	inventory.ErrNotCarried,
	character.ErrUnknownAbility,
}

func userFacing(err error) bool {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
