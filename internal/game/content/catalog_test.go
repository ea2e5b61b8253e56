package content_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/clash/internal/game/character"
	"github.com/cory-johannsen/clash/internal/game/content"
)

const knightYAML = `
id: fire-knight
name: Fire Knight
rarity: rare
attack: 25
defense: 15
max_health: 100
max_energy: 50
starter: true
abilities:
  - {id: flame-strike, name: Flame Strike, type: attack, damage: 30, energy_cost: 20}
`

const mageYAML = `
id: ice-mage
name: Ice Mage
rarity: epic
attack: 30
defense: 10
max_health: 80
max_energy: 70
recruitable: true
abilities:
  - {id: frost-bolt, name: Frost Bolt, type: attack, damage: 28, energy_cost: 15}
`

const goblinYAML = `
id: goblin
name: Goblin
rarity: common
attack: 12
defense: 5
max_health: 60
max_energy: 30
abilities:
  - {id: stab, name: Stab, type: attack, damage: 18}
`

const potionYAML = `
id: healing-potion
name: Greater Healing Potion
kind: potion
price: 100
rarity: rare
usable_in_battle: true
effect: {stat: health, value: 50}
`

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for _, d := range []string{content.HeroesDir, content.MonstersDir, content.ItemsDir} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}
	for rel, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, rel), []byte(body), 0o644))
	}
	return root
}

func TestLoad(t *testing.T) {
	root := writeTree(t, map[string]string{
		"heroes/fire-knight.yaml": knightYAML,
		"heroes/ice-mage.yaml":    mageYAML,
		"monsters/goblin.yaml":    goblinYAML,
		"items/potion.yaml":       potionYAML,
	})

	cat, err := content.Load(root)
	require.NoError(t, err)

	require.Len(t, cat.Heroes, 2)
	require.Len(t, cat.Monsters, 1)
	assert.Equal(t, character.Monster, cat.Monsters[0].Kind)

	h, ok := cat.Hero("ice-mage")
	require.True(t, ok)
	assert.Equal(t, character.Epic, h.Rarity)

	_, ok = cat.Monster("fire-knight")
	assert.False(t, ok, "heroes are not monsters")

	starters := cat.Starters()
	require.Len(t, starters, 1)
	assert.Equal(t, "fire-knight", starters[0].ID)

	recruitable := cat.Recruitable()
	require.Len(t, recruitable, 1)
	assert.Equal(t, "ice-mage", recruitable[0].ID)

	it, ok := cat.Item("healing-potion")
	require.True(t, ok)
	assert.True(t, it.UsableInBattle)
}

func TestLoad_RequiresStarter(t *testing.T) {
	root := writeTree(t, map[string]string{
		"heroes/ice-mage.yaml": mageYAML,
		"monsters/goblin.yaml": goblinYAML,
	})
	_, err := content.Load(root)
	assert.ErrorContains(t, err, "starter")
}

func TestLoad_RequiresMonsters(t *testing.T) {
	root := writeTree(t, map[string]string{
		"heroes/fire-knight.yaml": knightYAML,
	})
	_, err := content.Load(root)
	assert.ErrorContains(t, err, "no monsters")
}

func TestLoad_KindMismatch(t *testing.T) {
	root := writeTree(t, map[string]string{
		"heroes/fire-knight.yaml": knightYAML,
		"monsters/goblin.yaml":    "kind: hero\n" + goblinYAML,
	})
	_, err := content.Load(root)
	assert.Error(t, err)
}

func TestLoad_MissingDirectory(t *testing.T) {
	_, err := content.Load(t.TempDir())
	assert.Error(t, err)
}
