package ai

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/clash/internal/game/dice"
)

// Built-in policy names a monster definition may reference with `ai:`.
const (
	PolicyRandom       = "random"
	PolicyClassic      = "classic"
	PolicyWeightedHeal = "weighted-heal"
)

// Registry indexes enemy policies by name.
//
// Invariant: each name is registered at most once; PolicyRandom is always present.
type Registry struct {
	mu       sync.RWMutex
	policies map[string]Policy
}

// NewRegistry returns a Registry holding the built-in policies drawing from src.
//
// Precondition: src must be non-nil.
func NewRegistry(src dice.Source) *Registry {
	return &Registry{policies: map[string]Policy{
		PolicyRandom:       NewRandomPolicy(src),
		PolicyClassic:      NewClassicPolicy(src),
		PolicyWeightedHeal: NewWeightedHealPolicy(src),
	}}
}

// Register adds p under name.
//
// Postcondition: Returns an error if name is empty or already registered.
func (r *Registry) Register(name string, p Policy) error {
	if name == "" {
		return fmt.Errorf("ai.Registry: policy name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.policies[name]; exists {
		return fmt.Errorf("ai.Registry: policy %q already registered", name)
	}
	r.policies[name] = p
	return nil
}

// RegisterScripts adds a ScriptPolicy for every named script, falling back to
// the canonical policy.
func (r *Registry) RegisterScripts(names []string, caller HookCaller, logger *zap.Logger) error {
	fallback := r.Default()
	for _, name := range names {
		if err := r.Register(name, NewScriptPolicy(name, caller, fallback, logger)); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the policy registered under name.
func (r *Registry) Lookup(name string) (Policy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.policies[name]
	return p, ok
}

// Default returns the canonical policy.
func (r *Registry) Default() Policy {
	p, _ := r.Lookup(PolicyRandom)
	return p
}

// For returns the policy named name, or the canonical policy when name is
// empty or unknown.
func (r *Registry) For(name string) Policy {
	if p, ok := r.Lookup(name); ok {
		return p
	}
	return r.Default()
}

// Names returns every registered name in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.policies))
	for n := range r.policies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
