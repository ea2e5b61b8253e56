package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules installs the clash global table into L:
//
//	clash.random(n)  -> integer in [1, n], drawn from the Manager's roller
//	clash.chance(p)  -> true with probability p percent
//	clash.log(msg)   -> debug log line tagged with the script name
//
// Precondition: L must come from NewSandboxedState.
func (m *Manager) RegisterModules(L *lua.LState, name string) {
	mod := L.NewTable()

	L.SetField(mod, "random", L.NewFunction(func(L *lua.LState) int {
		n := L.CheckInt(1)
		if n < 1 {
			L.ArgError(1, "n must be >= 1")
			return 0
		}
		L.Push(lua.LNumber(m.roller.Pick(name+".random", n) + 1))
		return 1
	}))

	L.SetField(mod, "chance", L.NewFunction(func(L *lua.LState) int {
		p := L.CheckInt(1)
		L.Push(lua.LBool(m.roller.Percent(name+".chance", p)))
		return 1
	}))

	L.SetField(mod, "log", L.NewFunction(func(L *lua.LState) int {
		m.logger.Debug("script log",
			zap.String("script", name),
			zap.String("msg", L.CheckString(1)),
		)
		return 0
	}))

	L.SetGlobal("clash", mod)
}
