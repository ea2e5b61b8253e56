package handlers

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/clash/internal/frontend/telnet"
	"github.com/cory-johannsen/clash/internal/game/ability"
	"github.com/cory-johannsen/clash/internal/game/character"
	"github.com/cory-johannsen/clash/internal/game/combat"
	"github.com/cory-johannsen/clash/internal/game/inventory"
	"github.com/cory-johannsen/clash/internal/game/progression"
	"github.com/cory-johannsen/clash/internal/game/roster"
	"github.com/cory-johannsen/clash/internal/gameserver"
)

const barWidth = 20

var rarityColors = map[character.Rarity]string{
	character.Common:    telnet.White,
	character.Uncommon:  telnet.Green,
	character.Rare:      telnet.Blue,
	character.Epic:      telnet.Magenta,
	character.Legendary: telnet.BrightYellow,
}

func rarityTag(r character.Rarity) string {
	return telnet.Colorf(rarityColors[r], "[%s]", r)
}

// RenderCombatant formats one side of a battle: name, level, gauges.
func RenderCombatant(label string, c *character.Instance) []string {
	return []string{
		fmt.Sprintf("%s %s (Lv %d) %s", telnet.Colorize(telnet.Bold, label), c.Name, c.Level, rarityTag(c.Rarity)),
		"  HP     " + telnet.HealthBar(c.Health, c.MaxHealth, barWidth),
		"  Energy " + telnet.EnergyBar(c.Energy, c.MaxEnergy, barWidth),
		fmt.Sprintf("  ATK %d  DEF %d", c.Attack, c.Defense),
	}
}

// RenderAbilities lists the hero's abilities, numbered from 1. Abilities that
// cannot be used right now are dimmed with the reason.
func RenderAbilities(hero *character.Instance) []string {
	lines := []string{telnet.Colorize(telnet.BrightWhite, "Abilities:")}
	for i, a := range hero.Abilities {
		line := fmt.Sprintf("  %d. %-16s %-8s %s", i+1, a.Name, a.Type, abilityDetail(a.Template))
		switch {
		case !a.Ready():
			line = telnet.Colorize(telnet.Dim, line+fmt.Sprintf("  (cooldown %d)", a.CurrentCooldown))
		case !a.Affordable(hero.Energy):
			line = telnet.Colorize(telnet.Dim, line+"  (not enough energy)")
		}
		lines = append(lines, line)
	}
	return lines
}

func abilityDetail(t ability.Template) string {
	var parts []string
	switch t.Type {
	case ability.Attack, ability.Super:
		parts = append(parts, fmt.Sprintf("dmg %d", t.Damage))
	case ability.Heal:
		parts = append(parts, fmt.Sprintf("heal %d", abs(t.Damage)))
	}
	if cost := t.Cost(); cost > 0 {
		parts = append(parts, fmt.Sprintf("cost %d", cost))
	}
	if t.Cooldown > 0 {
		parts = append(parts, fmt.Sprintf("cd %d", t.Cooldown))
	}
	return strings.Join(parts, ", ")
}

// RenderBattle formats the battle screen.
func RenderBattle(v gameserver.View) []string {
	lines := []string{"", telnet.Colorf(telnet.BrightCyan, "=== Round %d ===", v.Round)}
	lines = append(lines, RenderCombatant("Hero", v.Player)...)
	lines = append(lines, "")
	lines = append(lines, RenderCombatant("Monster", v.Enemy)...)
	if !v.Ended() {
		lines = append(lines, "")
		lines = append(lines, RenderAbilities(v.Player)...)
	}
	return lines
}

// RenderEvent formats one battle event.
func RenderEvent(ev combat.Event) string {
	switch ev.Kind {
	case combat.EventStart:
		return telnet.Colorize(telnet.Bold+telnet.BrightWhite, ev.Message)
	case combat.EventDefeat:
		if ev.Side == combat.EnemySide {
			return telnet.Colorize(telnet.Bold+telnet.BrightGreen, ev.Message)
		}
		return telnet.Colorize(telnet.Bold+telnet.BrightRed, ev.Message)
	case combat.EventSkip, combat.EventTurnEnd:
		return telnet.Colorize(telnet.Dim, ev.Message)
	case combat.EventFlee:
		return telnet.Colorize(telnet.Yellow, ev.Message)
	}
	if ev.Side == combat.PlayerSide {
		return telnet.Colorize(telnet.BrightCyan, ev.Message)
	}
	return telnet.Colorize(telnet.BrightRed, ev.Message)
}

// RenderOutcome formats the end of a battle and any rewards.
func RenderOutcome(v gameserver.View, sum *progression.Summary) []string {
	var lines []string
	switch {
	case v.Fled || !v.HasOutcome:
		lines = append(lines, telnet.Colorize(telnet.Yellow, "You left the battle. Nothing was won or lost."))
	case v.Outcome.Winner == combat.PlayerSide:
		lines = append(lines, telnet.Colorize(telnet.Bold+telnet.BrightGreen, "*** VICTORY ***"))
	default:
		lines = append(lines, telnet.Colorize(telnet.Bold+telnet.BrightRed, "*** DEFEAT ***"))
	}
	if sum != nil && sum.Won {
		lines = append(lines, telnet.Colorf(telnet.BrightYellow, "You earn %d coins and %d experience.", sum.Coins, sum.Experience))
		if sum.LevelsGained > 0 {
			lines = append(lines, telnet.Colorf(telnet.BrightGreen, "You gained %d level(s)!", sum.LevelsGained))
		}
	}
	return lines
}

// RenderHero formats a roster hero with its level-up cost.
func RenderHero(h *character.Character) []string {
	lines := []string{
		fmt.Sprintf("%s %s (Lv %d) %s", telnet.Colorize(telnet.BrightWhite, h.ID), h.Name, h.Level, rarityTag(h.Rarity)),
		fmt.Sprintf("    ATK %d  DEF %d  HP %d  Energy %d  level up: %d coins",
			h.Attack, h.Defense, h.MaxHealth, h.MaxEnergy, progression.LevelUpCost(h)),
	}
	names := make([]string, len(h.Abilities))
	for i, a := range h.Abilities {
		names[i] = a.Name
	}
	return append(lines, "    "+telnet.Colorize(telnet.Dim, strings.Join(names, ", ")))
}

// RenderMonster formats a catalog monster with its reward.
func RenderMonster(m *character.Character) string {
	coins, xp := progression.Reward(m.Rarity)
	return fmt.Sprintf("%s %s (Lv %d) %s  HP %d  ATK %d  DEF %d  reward %d coins / %d xp",
		telnet.Colorize(telnet.BrightWhite, m.ID), m.Name, m.Level, rarityTag(m.Rarity),
		m.MaxHealth, m.Attack, m.Defense, coins, xp)
}

// RenderRecruit formats a recruitable hero and its price.
func RenderRecruit(h *character.Character, owned bool) string {
	line := fmt.Sprintf("%s %s %s  ATK %d  DEF %d  HP %d  %d coins",
		telnet.Colorize(telnet.BrightWhite, h.ID), h.Name, rarityTag(h.Rarity),
		h.Attack, h.Defense, h.MaxHealth, roster.RecruitPrice(h.Rarity))
	if owned {
		return telnet.Colorize(telnet.Dim, telnet.StripANSI(line)+"  (in roster)")
	}
	return line
}

// RenderItem formats a shop item and how many the player carries.
func RenderItem(it *inventory.Item, carried int) string {
	use := "equip"
	if it.UsableInBattle {
		use = "battle"
	} else if !it.Equipment() {
		use = "-"
	}
	return fmt.Sprintf("%s %s %s  +%d %s  (%s)  %d coins  carried %d",
		telnet.Colorize(telnet.BrightWhite, it.ID), it.Name, rarityTag(it.Rarity),
		it.Effect.Value, it.Effect.Stat, use, it.Price, carried)
}

// RenderPlayer formats the player's profile.
func RenderPlayer(p *roster.Player) []string {
	lines := []string{
		telnet.Colorf(telnet.BrightWhite, "%s  Level %d", p.Name, p.Level),
		fmt.Sprintf("  Experience %d/%d", p.Experience, p.ExperienceToNext()),
		telnet.Colorf(telnet.BrightYellow, "  Coins %d", p.Coins),
		fmt.Sprintf("  Record %dW %dL (%d%%)", p.Wins, p.Losses, p.WinRate()),
		fmt.Sprintf("  Heroes %d", len(p.Heroes)),
	}
	ids := p.Inventory.IDs()
	if len(ids) == 0 {
		return append(lines, "  Items: none")
	}
	items := make([]string, len(ids))
	for i, id := range ids {
		items[i] = fmt.Sprintf("%s x%d", id, p.Inventory.Count(id))
	}
	return append(lines, "  Items: "+strings.Join(items, ", "))
}

// RenderLeaders formats leaderboard rows, best first.
func RenderLeaders(rows []roster.Standing) []string {
	if len(rows) == 0 {
		return []string{"No battles have been fought yet."}
	}
	lines := []string{telnet.Colorize(telnet.BrightWhite, fmt.Sprintf("%-4s %-20s %5s %5s %5s %6s", "#", "Player", "Lv", "W", "L", "Win%"))}
	for i, r := range rows {
		lines = append(lines, fmt.Sprintf("%-4d %-20s %5d %5d %5d %5d%%", i+1, r.Name, r.Level, r.Wins, r.Losses, r.WinRate))
	}
	return lines
}

// RenderHistory formats battle records, newest first.
func RenderHistory(recs []roster.BattleRecord) []string {
	if len(recs) == 0 {
		return []string{"You have not fought any battles yet."}
	}
	lines := make([]string, 0, len(recs))
	for _, r := range recs {
		result := telnet.Colorize(telnet.Yellow, "fled")
		switch r.Winner {
		case combat.PlayerSide.String():
			result = telnet.Colorize(telnet.BrightGreen, "won")
		case combat.EnemySide.String():
			result = telnet.Colorize(telnet.BrightRed, "lost")
		}
		lines = append(lines, fmt.Sprintf("%s  %s vs %s  %s in %d round(s)",
			r.EndedAt.Format("2006-01-02 15:04"), r.HeroID, r.MonsterID, result, r.Rounds))
	}
	return lines
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
