package ai

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/clash/internal/game/ability"
	"github.com/cory-johannsen/clash/internal/game/character"
)

// ChooseHook is the Lua global a tactics script defines:
//
//	function choose_ability(enemy) return "ability-id" end
//
// enemy carries id, name, health, max_health, energy, max_energy and an
// abilities array of {id, name, type, damage, cost, cooldown, current_cooldown, usable}.
// Returning "skip" passes the turn; returning nil or an unusable ID defers
// to the fallback policy.
const ChooseHook = "choose_ability"

// SkipChoice is the script return value that passes the turn.
const SkipChoice = "skip"

// HookCaller runs named Lua hooks. *scripting.Manager satisfies it.
type HookCaller interface {
	CallHook(name, hook string, args ...lua.LValue) (lua.LValue, error)
	NewTable(name string) *lua.LTable
}

// ScriptPolicy delegates the choice to a sandboxed Lua script.
type ScriptPolicy struct {
	script   string
	caller   HookCaller
	fallback Policy
	logger   *zap.Logger
}

// NewScriptPolicy returns a policy backed by the named script.
//
// Precondition: caller, fallback and logger must be non-nil.
func NewScriptPolicy(script string, caller HookCaller, fallback Policy, logger *zap.Logger) *ScriptPolicy {
	return &ScriptPolicy{script: script, caller: caller, fallback: fallback, logger: logger}
}

// Choose implements Policy.
//
// Postcondition: The returned ability, if any, passes enemy.CheckUsable.
func (p *ScriptPolicy) Choose(enemy *character.Instance) (ability.Instance, bool) {
	tbl := p.caller.NewTable(p.script)
	if tbl == nil {
		return p.fallback.Choose(enemy)
	}
	fillEnemyTable(tbl, enemy, func() *lua.LTable { return p.caller.NewTable(p.script) })

	ret, err := p.caller.CallHook(p.script, ChooseHook, tbl)
	if err != nil {
		return p.fallback.Choose(enemy)
	}
	id, ok := ret.(lua.LString)
	if !ok {
		return p.fallback.Choose(enemy)
	}
	if string(id) == SkipChoice {
		return ability.Instance{}, false
	}
	chosen, err := enemy.CheckUsable(string(id))
	if err != nil {
		p.logger.Warn("tactics script chose an unusable ability",
			zap.String("script", p.script),
			zap.String("monster", enemy.ID),
			zap.String("ability", string(id)),
			zap.Error(err),
		)
		return p.fallback.Choose(enemy)
	}
	return chosen, true
}

func fillEnemyTable(tbl *lua.LTable, enemy *character.Instance, newTable func() *lua.LTable) {
	tbl.RawSetString("id", lua.LString(enemy.ID))
	tbl.RawSetString("name", lua.LString(enemy.Name))
	tbl.RawSetString("health", lua.LNumber(enemy.Health))
	tbl.RawSetString("max_health", lua.LNumber(enemy.MaxHealth))
	tbl.RawSetString("energy", lua.LNumber(enemy.Energy))
	tbl.RawSetString("max_energy", lua.LNumber(enemy.MaxEnergy))

	abilities := newTable()
	for _, a := range enemy.Abilities {
		at := newTable()
		at.RawSetString("id", lua.LString(a.ID))
		at.RawSetString("name", lua.LString(a.Name))
		at.RawSetString("type", lua.LString(a.Type.String()))
		at.RawSetString("damage", lua.LNumber(a.Damage))
		at.RawSetString("cost", lua.LNumber(a.Cost()))
		at.RawSetString("cooldown", lua.LNumber(a.Cooldown))
		at.RawSetString("current_cooldown", lua.LNumber(a.CurrentCooldown))
		at.RawSetString("usable", lua.LBool(a.Ready() && a.Affordable(enemy.Energy)))
		abilities.Append(at)
	}
	tbl.RawSetString("abilities", abilities)
}
