package guard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard_Decide(t *testing.T) {
	g := Default()

	tests := []struct {
		name string
		want Decision
	}{
		{"", Undecided},
		{"int", Allowed},
		{"boolean", Allowed},
		{"[I", Allowed},
		{"[Ljava.lang.Object;", Allowed},
		{"e.t", Allowed},
		{"e.g", Allowed},
		{"br.brasfoot.Something", Allowed},
		{"java.util.ArrayList", Allowed},
		{"java.awt.Color", Allowed},
		{"java.time.LocalDate", Allowed},
		{"java.lang.Integer", Allowed},
		{"org.apache.commons.collections.functors.InvokerTransformer", Rejected},
		{"javax.management.BadAttributeValueExpException", Rejected},
		{"ex.Evil", Rejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Decide(tt.name))
		})
	}
}

func TestGuard_CheckCarriesClassName(t *testing.T) {
	g := Default()

	err := g.Check("com.sun.rowset.JdbcRowSetImpl")
	require.Error(t, err)

	var blocked *BlockedClassError
	require.True(t, errors.As(err, &blocked))
	assert.Equal(t, "com.sun.rowset.JdbcRowSetImpl", blocked.Class)

	assert.NoError(t, g.Check("e.g"))
}

func TestGuard_Limits(t *testing.T) {
	g := New(nil, Limits{MaxDepth: 2, MaxRefs: 3, MaxBytes: 10})

	assert.NoError(t, g.CheckDepth(2))
	assert.NoError(t, g.CheckRefs(3))
	assert.NoError(t, g.CheckBytes(10))

	var re *ResourceExceededError
	require.True(t, errors.As(g.CheckDepth(3), &re))
	assert.Equal(t, "maxdepth", re.Limit)
	require.True(t, errors.As(g.CheckRefs(4), &re))
	assert.Equal(t, "maxrefs", re.Limit)
	require.True(t, errors.As(g.CheckBytes(11), &re))
	assert.Equal(t, "maxbytes", re.Limit)
	assert.Equal(t, int64(10), re.Max)
}

func TestGuard_ZeroLimitsDisableChecks(t *testing.T) {
	g := New([]string{"e."}, Limits{})
	assert.NoError(t, g.CheckDepth(1000))
	assert.NoError(t, g.CheckRefs(1_000_000))
	assert.NoError(t, g.CheckBytes(1<<40))
	assert.Equal(t, Rejected, g.Decide("java.util.ArrayList"))
}
