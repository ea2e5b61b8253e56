// Package command defines the player menu: command names, aliases, help
// text, the scope each command is valid in, and a line parser.
package command

// Categories group commands in help output.
const (
	CategoryBattle = "battle"
	CategoryRoster = "roster"
	CategoryShop   = "shop"
	CategoryInfo   = "info"
	CategorySystem = "system"
)

// Handler identifiers dispatched by the session loop.
const (
	HandlerHeroes   = "heroes"
	HandlerMonsters = "monsters"
	HandlerFight    = "fight"
	HandlerUse      = "use"
	HandlerItem     = "item"
	HandlerFlee     = "flee"
	HandlerStatus   = "status"
	HandlerShop     = "shop"
	HandlerBuy      = "buy"
	HandlerVillage  = "village"
	HandlerRecruit  = "recruit"
	HandlerEquip    = "equip"
	HandlerLevelUp  = "levelup"
	HandlerStats    = "stats"
	HandlerLeaders  = "leaders"
	HandlerHistory  = "history"
	HandlerHelp     = "help"
	HandlerQuit     = "quit"
)

// Scope says when a command may be issued.
type Scope int

const (
	// ScopeAny commands work in and out of battle.
	ScopeAny Scope = iota
	// ScopeMenu commands are refused while a battle is in progress.
	ScopeMenu
	// ScopeBattle commands need an active battle.
	ScopeBattle
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument shape, e.g. "fight <hero> [monster]".
	Usage string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command in help output.
	Category string
	// Handler selects the session loop's handler.
	Handler string
	// MinArgs is the number of required arguments.
	MinArgs int
	// Scope restricts the command to menu or battle play.
	Scope Scope
}

// Allowed reports whether the command may run given whether a battle is active.
func (c *Command) Allowed(inBattle bool) bool {
	switch c.Scope {
	case ScopeMenu:
		return !inBattle
	case ScopeBattle:
		return inBattle
	default:
		return true
	}
}

// BuiltinCommands returns every menu command.
func BuiltinCommands() []Command {
	return []Command{
		{Name: "heroes", Aliases: []string{"h", "roster"}, Usage: "heroes", Help: "List your heroes", Category: CategoryRoster, Handler: HandlerHeroes, Scope: ScopeMenu},
		{Name: "monsters", Aliases: []string{"m"}, Usage: "monsters", Help: "List the monsters you can fight", Category: CategoryBattle, Handler: HandlerMonsters, Scope: ScopeMenu},
		{Name: "fight", Aliases: []string{"f", "battle"}, Usage: "fight <hero> [monster]", Help: "Start a battle; a random monster if none is named", Category: CategoryBattle, Handler: HandlerFight, MinArgs: 1, Scope: ScopeMenu},
		{Name: "use", Aliases: []string{"u", "cast"}, Usage: "use <ability>", Help: "Use an ability by ID or list number", Category: CategoryBattle, Handler: HandlerUse, MinArgs: 1, Scope: ScopeBattle},
		{Name: "item", Aliases: []string{"drink"}, Usage: "item <item>", Help: "Use a carried potion instead of an ability", Category: CategoryBattle, Handler: HandlerItem, MinArgs: 1, Scope: ScopeBattle},
		{Name: "flee", Aliases: []string{"run"}, Usage: "flee", Help: "Abandon the battle (no reward, no loss)", Category: CategoryBattle, Handler: HandlerFlee, Scope: ScopeBattle},
		{Name: "status", Aliases: []string{"look", "l"}, Usage: "status", Help: "Show the battle", Category: CategoryBattle, Handler: HandlerStatus, Scope: ScopeBattle},
		{Name: "shop", Usage: "shop", Help: "List items for sale", Category: CategoryShop, Handler: HandlerShop, Scope: ScopeMenu},
		{Name: "buy", Usage: "buy <item>", Help: "Buy one item", Category: CategoryShop, Handler: HandlerBuy, MinArgs: 1, Scope: ScopeMenu},
		{Name: "village", Aliases: []string{"tavern"}, Usage: "village", Help: "List heroes available to recruit", Category: CategoryRoster, Handler: HandlerVillage, Scope: ScopeMenu},
		{Name: "recruit", Usage: "recruit <hero>", Help: "Recruit a hero into your roster", Category: CategoryRoster, Handler: HandlerRecruit, MinArgs: 1, Scope: ScopeMenu},
		{Name: "equip", Usage: "equip <hero> <item>", Help: "Permanently apply a carried item to a hero", Category: CategoryRoster, Handler: HandlerEquip, MinArgs: 2, Scope: ScopeMenu},
		{Name: "levelup", Aliases: []string{"train"}, Usage: "levelup <hero>", Help: "Spend coins to level up a hero", Category: CategoryRoster, Handler: HandlerLevelUp, MinArgs: 1, Scope: ScopeMenu},
		{Name: "stats", Aliases: []string{"me", "inventory", "inv"}, Usage: "stats", Help: "Show your level, coins, record and items", Category: CategoryInfo, Handler: HandlerStats, Scope: ScopeAny},
		{Name: "leaders", Aliases: []string{"top", "leaderboard"}, Usage: "leaders", Help: "Show the leaderboard", Category: CategoryInfo, Handler: HandlerLeaders, Scope: ScopeAny},
		{Name: "history", Usage: "history", Help: "Show your recent battles", Category: CategoryInfo, Handler: HandlerHistory, Scope: ScopeAny},
		{Name: "help", Aliases: []string{"?"}, Usage: "help", Help: "Show this help", Category: CategorySystem, Handler: HandlerHelp, Scope: ScopeAny},
		{Name: "quit", Aliases: []string{"exit", "q"}, Usage: "quit", Help: "Disconnect", Category: CategorySystem, Handler: HandlerQuit, Scope: ScopeAny},
	}
}
