package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	cmds := r.Commands()
	require.NotEmpty(t, cmds)
	assert.Equal(t, "heroes", cmds[0].Name, "commands keep registration order")
}

func TestResolve(t *testing.T) {
	r := DefaultRegistry()
	tests := []struct {
		input   string
		handler string
	}{
		{"heroes", HandlerHeroes},
		{"roster", HandlerHeroes},
		{"monsters", HandlerMonsters},
		{"fight", HandlerFight},
		{"f", HandlerFight},
		{"use", HandlerUse},
		{"item", HandlerItem},
		{"flee", HandlerFlee},
		{"run", HandlerFlee},
		{"look", HandlerStatus},
		{"shop", HandlerShop},
		{"buy", HandlerBuy},
		{"village", HandlerVillage},
		{"recruit", HandlerRecruit},
		{"equip", HandlerEquip},
		{"levelup", HandlerLevelUp},
		{"inv", HandlerStats},
		{"leaders", HandlerLeaders},
		{"history", HandlerHistory},
		{"?", HandlerHelp},
		{"exit", HandlerQuit},
	}
	for _, tt := range tests {
		cmd, ok := r.Resolve(tt.input)
		require.True(t, ok, "input %q not found", tt.input)
		assert.Equal(t, tt.handler, cmd.Handler, "input %q wrong handler", tt.input)
	}

	_, ok := r.Resolve("north")
	assert.False(t, ok)
}

func TestAllowed(t *testing.T) {
	r := DefaultRegistry()
	fight, _ := r.Resolve("fight")
	use, _ := r.Resolve("use")
	stats, _ := r.Resolve("stats")

	assert.True(t, fight.Allowed(false))
	assert.False(t, fight.Allowed(true))
	assert.False(t, use.Allowed(false))
	assert.True(t, use.Allowed(true))
	assert.True(t, stats.Allowed(false))
	assert.True(t, stats.Allowed(true))
}

func TestNewRegistry_Errors(t *testing.T) {
	_, err := NewRegistry([]Command{{Name: "a", Handler: "x"}, {Name: "a", Handler: "y"}})
	assert.ErrorContains(t, err, "duplicate command name")

	_, err = NewRegistry([]Command{
		{Name: "a", Aliases: []string{"t"}, Handler: "x"},
		{Name: "b", Aliases: []string{"t"}, Handler: "y"},
	})
	assert.ErrorContains(t, err, "duplicate alias")

	_, err = NewRegistry([]Command{{Name: "a", Handler: "x"}, {Name: "b", Aliases: []string{"a"}, Handler: "y"}})
	assert.ErrorContains(t, err, "conflicts")

	_, err = NewRegistry([]Command{{Name: "a"}})
	assert.ErrorContains(t, err, "required")
}

func TestCategories(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{CategoryBattle, CategoryInfo, CategoryRoster, CategoryShop, CategorySystem}, r.Categories())
	assert.Len(t, r.CommandsByCategory()[CategorySystem], 2)
}

func TestPropertyAllAliasesResolveToCanonical(t *testing.T) {
	r := DefaultRegistry()
	cmds := r.Commands()
	rapid.Check(t, func(rt *rapid.T) {
		cmd := cmds[rapid.IntRange(0, len(cmds)-1).Draw(rt, "cmd_idx")]
		resolved, ok := r.Resolve(cmd.Name)
		require.True(rt, ok)
		assert.Equal(rt, cmd.Name, resolved.Name)
		for _, alias := range cmd.Aliases {
			got, ok := r.Resolve(alias)
			require.True(rt, ok, "alias %q", alias)
			assert.Equal(rt, cmd.Name, got.Name)
		}
	})
}
