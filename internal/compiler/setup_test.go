package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanadelino-stack/compiler-api/internal/config"
	"github.com/ryanadelino-stack/compiler-api/internal/guard"
	"github.com/ryanadelino-stack/compiler-api/internal/schema"
)

func TestFromConfigMappingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.yaml")
	require.NoError(t, os.WriteFile(path, []byte("paises:\n  - {id: 99, nome: Atlantida, aliases: [atlantis]}\n"), 0o644))

	c, tables, err := FromConfig(&config.Config{
		MappingFile:   path,
		GuardLimits:   guard.DefaultLimits(),
		TeamClassSUID: schema.DefaultTeamSUID,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Atlantida", tables.CountryName(99))

	out, err := c.Compile(context.Background(), Request{Input: []byte(`[{"name":"Nemo","nationality":"Atlantis"}]`)})
	require.NoError(t, err)
	require.Len(t, out.Players, 1)
	assert.Equal(t, 99, out.Players[0].Nationality)
}

func TestFromConfigGuardLimits(t *testing.T) {
	base, err := New(Options{}).Compile(context.Background(), Request{Input: []byte(`{"team":"Base","roster":[]}`)})
	require.NoError(t, err)

	c, _, err := FromConfig(&config.Config{GuardLimits: guard.Limits{MaxBytes: 8}}, nil)
	require.NoError(t, err)

	_, err = c.Compile(context.Background(), Request{Input: []byte(`[]`), Template: base.Data})
	assert.ErrorIs(t, err, ErrResourceExceeded)
}

func TestFromConfigMissingFiles(t *testing.T) {
	_, _, err := FromConfig(&config.Config{MappingFile: filepath.Join(t.TempDir(), "nope.yaml")}, nil)
	assert.ErrorContains(t, err, "load mapping file")

	_, _, err = FromConfig(&config.Config{AliasFile: filepath.Join(t.TempDir(), "nope.yaml")}, nil)
	assert.ErrorContains(t, err, "load alias file")
}
