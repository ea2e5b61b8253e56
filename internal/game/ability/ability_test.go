package ability_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/clash/internal/game/ability"
)

func TestParseType_AllNames(t *testing.T) {
	for _, typ := range ability.Types {
		got, err := ability.ParseType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}
}

func TestParseType_CaseInsensitive(t *testing.T) {
	got, err := ability.ParseType("  SuPeR ")
	require.NoError(t, err)
	assert.Equal(t, ability.Super, got)
}

func TestParseType_Unknown(t *testing.T) {
	_, err := ability.ParseType("buff")
	assert.Error(t, err)
}

func TestType_String_OutOfRange(t *testing.T) {
	assert.Equal(t, "unknown(42)", ability.Type(42).String())
	assert.False(t, ability.Type(42).Valid())
}

func TestTemplate_YAMLDecode(t *testing.T) {
	src := `
id: frost-bolt
name: Frost Bolt
type: attack
damage: 25
energy_cost: 15
cooldown: 0
`
	var tmpl ability.Template
	require.NoError(t, yaml.Unmarshal([]byte(src), &tmpl))
	assert.Equal(t, ability.Attack, tmpl.Type)
	assert.Equal(t, 15, tmpl.EnergyCost)
	require.NoError(t, tmpl.Validate())
}

func TestTemplate_YAMLDecode_RejectsUnknownType(t *testing.T) {
	var tmpl ability.Template
	err := yaml.Unmarshal([]byte("id: x\nname: X\ntype: teleport\n"), &tmpl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "teleport")
}

func TestTemplate_JSONUsesTypeName(t *testing.T) {
	data, err := json.Marshal(ability.Template{ID: "ice-heal", Name: "Ice Heal", Type: ability.Heal, Damage: -20})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"heal"`)
}

func TestTemplate_Validate(t *testing.T) {
	valid := ability.Template{ID: "a", Name: "A", Type: ability.Attack}
	require.NoError(t, valid.Validate())

	cases := map[string]ability.Template{
		"missing id":        {Name: "A"},
		"missing name":      {ID: "a"},
		"bad type":          {ID: "a", Name: "A", Type: ability.Type(9)},
		"negative cost":     {ID: "a", Name: "A", EnergyCost: -1},
		"negative cooldown": {ID: "a", Name: "A", Cooldown: -1},
	}
	for name, tmpl := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, tmpl.Validate())
		})
	}
}

func TestTemplate_Cost(t *testing.T) {
	for _, typ := range ability.Types {
		tmpl := ability.Template{Type: typ, EnergyCost: 20}
		switch typ {
		case ability.Attack, ability.Special:
			assert.Equal(t, 0, tmpl.Cost(), typ.String())
		default:
			assert.Equal(t, 20, tmpl.Cost(), typ.String())
		}
	}
}

// Property: an attack instance is affordable at any non-negative energy.
func TestInstance_AttackAlwaysAffordable(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		cost := rapid.IntRange(0, 500).Draw(rt, "cost")
		energy := rapid.IntRange(0, 500).Draw(rt, "energy")
		inst := ability.NewInstance(ability.Template{Type: ability.Attack, EnergyCost: cost})
		assert.True(rt, inst.Affordable(energy))
		assert.True(rt, inst.Ready())
	})
}
