package scripting_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/clash/internal/game/dice"
	"github.com/cory-johannsen/clash/internal/scripting"
)

func newTestManager(t testing.TB, limit int) (*scripting.Manager, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	roller := dice.NewLoggedRoller(dice.NewSeededSource(3), logger)
	m := scripting.NewManager(roller, logger, limit)
	t.Cleanup(m.Close)
	return m, logs
}

func writeLua(t testing.TB, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestNewSandboxedState_UnsafeGlobalsRemoved(t *testing.T) {
	L := scripting.NewSandboxedState()
	defer L.Close()
	for _, name := range []string{"os", "io", "debug", "dofile", "loadfile", "load", "collectgarbage", "require"} {
		assert.Equal(t, lua.LNil, L.GetGlobal(name), "expected %s to be nil", name)
	}
}

func TestNewSandboxedState_SafeLibsAvailable(t *testing.T) {
	L := scripting.NewSandboxedState()
	defer L.Close()
	err := scripting.RunBudgeted(L, 0, func() error {
		return L.DoString(`
			assert(math.floor(2.5) == 2)
			assert(string.upper("ok") == "OK")
			local t = {}
			table.insert(t, 1)
			assert(#t == 1)
		`)
	})
	assert.NoError(t, err)
}

// Property: an infinite loop always exhausts any finite budget.
func TestProperty_RunBudgetedStopsInfiniteLoop(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		limit := rapid.IntRange(1, 200).Draw(rt, "limit")
		L := scripting.NewSandboxedState()
		defer L.Close()
		err := scripting.RunBudgeted(L, limit, func() error { return L.DoString(`while true do end`) })
		if err == nil {
			rt.Fatalf("expected budget error with limit=%d", limit)
		}
	})
}

func TestRunBudgeted_BudgetIsPerCall(t *testing.T) {
	L := scripting.NewSandboxedState()
	defer L.Close()
	for i := 0; i < 5; i++ {
		err := scripting.RunBudgeted(L, 1000, func() error { return L.DoString(`local x = 0 for i = 1, 50 do x = x + i end`) })
		require.NoError(t, err, "iteration %d", i)
	}
}

func TestManager_LoadDirAndCallHook(t *testing.T) {
	m, _ := newTestManager(t, 0)
	dir := t.TempDir()
	writeLua(t, dir, "adder.lua", `function add(a, b) return a + b end`)
	writeLua(t, dir, "greeter.lua", `function greet(t) return "hi " .. t.name end`)
	writeLua(t, dir, "readme.txt", `not lua`)

	names, err := m.LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"adder", "greeter"}, names)
	assert.True(t, m.Has("adder"))

	ret, err := m.CallHook("adder", "add", lua.LNumber(3), lua.LNumber(4))
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(7), ret)

	tbl := m.NewTable("greeter")
	require.NotNil(t, tbl)
	tbl.RawSetString("name", lua.LString("goblin"))
	ret, err = m.CallHook("greeter", "greet", tbl)
	require.NoError(t, err)
	assert.Equal(t, lua.LString("hi goblin"), ret)
}

func TestManager_MissingScriptOrHook(t *testing.T) {
	m, logs := newTestManager(t, 0)
	ret, err := m.CallHook("ghost", "anything")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.NotEmpty(t, logs.FilterMessage("scripting: no VM loaded").All())
	assert.Nil(t, m.NewTable("ghost"))

	require.NoError(t, m.LoadFile("empty", writeLua(t, t.TempDir(), "empty.lua", `-- nothing`)))
	ret, err = m.CallHook("empty", "missing")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}

func TestManager_RuntimeErrorLoggedAndReturned(t *testing.T) {
	m, logs := newTestManager(t, 0)
	require.NoError(t, m.LoadFile("bad", writeLua(t, t.TempDir(), "bad.lua", `function boom() error("kaboom") end`)))
	ret, err := m.CallHook("bad", "boom")
	assert.Error(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.NotEmpty(t, logs.FilterLevelExact(zap.WarnLevel).All())

	// The VM survives the error.
	require.NoError(t, m.LoadFile("bad", writeLua(t, t.TempDir(), "bad.lua", `function ok() return 1 end`)))
	ret, err = m.CallHook("bad", "ok")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(1), ret)
}

func TestManager_BudgetExhaustedOnCallButNextCallRuns(t *testing.T) {
	m, _ := newTestManager(t, 500)
	require.NoError(t, m.LoadFile("loop", writeLua(t, t.TempDir(), "loop.lua", `
		function spin() while true do end end
		function quick() return 5 end
	`)))
	_, err := m.CallHook("loop", "spin")
	assert.Error(t, err)
	ret, err := m.CallHook("loop", "quick")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(5), ret)
}

func TestManager_LoadInvalidLua(t *testing.T) {
	m, _ := newTestManager(t, 0)
	err := m.LoadFile("broken", writeLua(t, t.TempDir(), "broken.lua", `this is not lua @@`))
	assert.Error(t, err)
	assert.False(t, m.Has("broken"))
}

func TestModules_RandomAndChance(t *testing.T) {
	m, logs := newTestManager(t, 0)
	require.NoError(t, m.LoadFile("mod", writeLua(t, t.TempDir(), "mod.lua", `
		function roll(n) return clash.random(n) end
		function never() return clash.chance(0) end
		function note() clash.log("hello") end
	`)))
	for i := 0; i < 20; i++ {
		ret, err := m.CallHook("mod", "roll", lua.LNumber(4))
		require.NoError(t, err)
		n, ok := ret.(lua.LNumber)
		require.True(t, ok)
		assert.GreaterOrEqual(t, int(n), 1)
		assert.LessOrEqual(t, int(n), 4)
	}
	ret, err := m.CallHook("mod", "never")
	require.NoError(t, err)
	assert.Equal(t, lua.LFalse, ret)

	_, err = m.CallHook("mod", "note")
	require.NoError(t, err)
	assert.NotEmpty(t, logs.FilterMessage("script log").All())
}

func TestManager_ConcurrentCalls(t *testing.T) {
	m, _ := newTestManager(t, 0)
	require.NoError(t, m.LoadFile("sum", writeLua(t, t.TempDir(), "sum.lua", `function add(a, b) return a + b end`)))
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ret, err := m.CallHook("sum", "add", lua.LNumber(i), lua.LNumber(1))
			if err != nil || ret != lua.LNumber(i+1) {
				t.Errorf("add(%d, 1) = %v, %v", i, ret, err)
			}
		}(i)
	}
	wg.Wait()
}
