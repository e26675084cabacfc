package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanadelino-stack/compiler-api/internal/serial"
)

func TestDefaultAliases(t *testing.T) {
	a := Default()
	assert.Equal(t, []string{"l", "jogadores"}, a.Team.Players)
	assert.Equal(t, []string{"m", "juniores"}, a.Team.Juniors)
	assert.Equal(t, []string{"vid", "aid"}, a.Team.CountryLookup)
	assert.Equal(t, []string{"f", "lado"}, a.Player.Side)
	assert.Equal(t, []string{"g", "cr1"}, a.Player.Trait1)
	assert.Equal(t, []string{"h", "cr2"}, a.Player.Trait2)
	assert.Same(t, a, Default())
}

func TestLoadAliasesFillsGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("player:\n  name: [nome, a]\n"), 0o644))

	a, err := LoadAliases(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"nome", "a"}, a.Player.Name)
	assert.Equal(t, []string{"d", "idade"}, a.Player.Age)
	assert.Equal(t, []string{"nome"}, a.Team.Name)

	_, err = LoadAliases(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBuiltinDescriptorsLayout(t *testing.T) {
	for _, d := range []*serial.ClassDesc{TeamDesc(DefaultTeamSUID), PlayerDesc(), ArrayListDesc(), ColorDesc()} {
		seenObject := false
		for _, f := range d.Fields {
			if !f.IsPrimitive() {
				seenObject = true
				continue
			}
			assert.False(t, seenObject, "%s: primitive %s after object fields", d.Name, f.Name)
		}
	}
	assert.Equal(t, int64(7), TeamDesc(7).SUID)
	assert.True(t, ArrayListDesc().HasWriteMethod())
}

func TestCatalogPrefersHarvested(t *testing.T) {
	c := NewCatalog(DefaultTeamSUID)
	assert.Equal(t, DefaultTeamSUID, c.Team().SUID)

	templateTeam := TeamDesc(-4242)
	player := PlayerDesc()
	player.SUID = 99
	list, err := serial.NewArrayList(ArrayListDesc(), []any{serial.NewObject(player)})
	require.NoError(t, err)
	root := serial.NewObject(templateTeam)
	require.NoError(t, root.SetSlot("l", list))

	c.Harvest(root)
	assert.Same(t, templateTeam, c.Team())
	assert.Equal(t, int64(99), c.Player().SUID)
	assert.NotNil(t, c.Color())

	_, ok := c.Lookup("com.example.Unknown")
	assert.False(t, ok)
}
