package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/clash/internal/game/dice"
)

// Manager owns one sandboxed LState per script and dispatches hook calls.
//
// An LState is single-threaded, so each script has its own mutex; different
// scripts may run concurrently.
type Manager struct {
	mu        sync.RWMutex
	scripts   map[string]*script
	instLimit int
	roller    *dice.Roller
	logger    *zap.Logger
}

type script struct {
	mu sync.Mutex
	L  *lua.LState
}

// NewManager creates an empty Manager.
//
// Precondition: roller and logger must be non-nil. instLimit <= 0 selects
// DefaultInstructionLimit.
func NewManager(roller *dice.Roller, logger *zap.Logger, instLimit int) *Manager {
	return &Manager{
		scripts:   make(map[string]*script),
		instLimit: instLimit,
		roller:    roller,
		logger:    logger,
	}
}

// LoadFile creates a VM named name, registers the clash module, and executes path.
// Loading a name twice replaces the previous VM.
//
// Postcondition: Returns an error on read, syntax, runtime, or budget failure;
// on error no VM is registered under name.
func (m *Manager) LoadFile(name, path string) error {
	L := NewSandboxedState()
	m.RegisterModules(L, name)

	if err := RunBudgeted(L, m.instLimit, func() error { return L.DoFile(path) }); err != nil {
		L.Close()
		return fmt.Errorf("scripting: loading %q as %q: %w", path, name, err)
	}

	m.mu.Lock()
	if old, ok := m.scripts[name]; ok {
		old.mu.Lock()
		old.L.Close()
		old.mu.Unlock()
	}
	m.scripts[name] = &script{L: L}
	m.mu.Unlock()
	return nil
}

// LoadDir loads every *.lua file in dir as its own VM named after the file stem.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns the loaded names in lexical order, or the first error.
func (m *Manager) LoadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scripting: reading script dir %q: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".lua" {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".lua")
		if err := m.LoadFile(name, filepath.Join(dir, e.Name())); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Has reports whether a VM named name is loaded.
func (m *Manager) Has(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.scripts[name]
	return ok
}

// CallHook calls the global function hook in the named VM with args.
// A missing VM or hook returns (LNil, nil). Lua runtime errors, including an
// exhausted instruction budget, are logged at warn level and returned.
//
// Postcondition: Returns the hook's first return value, or LNil.
func (m *Manager) CallHook(name, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	s, ok := m.scripts[name]
	m.mu.RUnlock()
	if !ok {
		m.logger.Info("scripting: no VM loaded",
			zap.String("script", name),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fn := s.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	err := RunBudgeted(s.L, m.instLimit, func() error {
		return s.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...)
	})
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("script", name),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, fmt.Errorf("scripting: %s.%s: %w", name, hook, err)
	}

	ret := s.L.Get(-1)
	s.L.Pop(1)
	return ret, nil
}

// NewTable creates a table owned by the named VM so callers can pass structured
// arguments to CallHook. It returns nil if no such VM is loaded.
func (m *Manager) NewTable(name string) *lua.LTable {
	m.mu.RLock()
	s, ok := m.scripts[name]
	m.mu.RUnlock()
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.L.NewTable()
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, s := range m.scripts {
		s.mu.Lock()
		s.L.Close()
		s.mu.Unlock()
		delete(m.scripts, name)
	}
}
