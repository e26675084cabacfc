package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanadelino-stack/compiler-api/internal/lookup"
)

func TestResolvePosition(t *testing.T) {
	tab := lookup.Default()
	tests := []struct {
		text string
		want Position
	}{
		{"Goleiro", Goalkeeper},
		{"Zagueiro", CenterBack},
		{"Lateral Esq.", FullBack},
		{"Ala direito", FullBack},
		{"Volante", Midfield},
		{"Meia Atacante", Midfield},
		{"Ponta Direita", Forward},
		{"Centroavante", Forward},
		{"Seg. Atacante", Forward},
		{"Libero", Forward},
		{"GK", Goalkeeper},
		{"CB", CenterBack},
		{PositionText(""), Forward},
		{"Goalkeeper", Goalkeeper},
		{"Centre-Back", CenterBack},
		{"Central Defender", CenterBack},
		{"Left-Back", FullBack},
		{"Right-Back", FullBack},
		{"Right Wing-Back", FullBack},
		{"Defensive Midfield", Midfield},
		{"Attacking Midfield", Midfield},
		{"Left Winger", Forward},
		{"Second Striker", Forward},
		{"Centre-Forward", Forward},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolvePosition(tab, tt.text), tt.text)
	}
	assert.Equal(t, Goalkeeper, ResolvePosition(nil, "GOLEIRO"))
}

func TestPositionText(t *testing.T) {
	assert.Equal(t, "Atacante", PositionText("  "))
	assert.Equal(t, "Volante", PositionText("Volante"))
}

func TestResolveSideChain(t *testing.T) {
	tests := []struct {
		name string
		in   SideInput
		want Side
	}{
		{"hint in primary", SideInput{Primary: "Lateral Esq.", Foot: "right"}, Left},
		{"right hint beats foot", SideInput{Primary: "Ponta Direita", Foot: "left"}, Right},
		{"abbreviation", SideInput{Primary: "LB", Foot: "right"}, Left},
		{"pe abbreviation", SideInput{Primary: "PE"}, Left},
		{"secondary", SideInput{Primary: "Meia", Secondary: []string{"Meia Central", "Ponta Esquerda"}}, Left},
		{"secondary abbreviation", SideInput{Primary: "Zagueiro", Secondary: []string{"RB"}}, Right},
		{"foot left", SideInput{Primary: "Zagueiro", Foot: "left"}, Left},
		{"foot canhoto", SideInput{Primary: "Volante", Foot: "Canhoto"}, Left},
		{"foot right", SideInput{Primary: "Volante", Foot: "destro"}, Right},
		{"unknown foot", SideInput{Primary: "Volante", Foot: "?"}, Right},
		{"nothing", SideInput{}, Right},
		{"english left back", SideInput{Primary: "Left-Back", Foot: "right"}, Left},
		{"english left winger", SideInput{Primary: "Left Winger", Foot: "right"}, Left},
		{"english right back", SideInput{Primary: "Right-Back", Foot: "left"}, Right},
		{"english left midfield", SideInput{Primary: "Left Midfield", Foot: "both"}, Left},
		{"english secondary", SideInput{Primary: "Centre-Back", Secondary: []string{"Left-Back"}, Foot: "right"}, Left},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveSide(tt.in))
		})
	}
}

func TestAmbidextrousIsStable(t *testing.T) {
	in := SideInput{Name: "Raphael Veiga", Primary: "Meia", Foot: "ambidextrous"}
	first := ResolveSide(in)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, ResolveSide(in))
	}
	assert.Equal(t, stableSide("Raphael Veiga|Meia"), first)

	// A positional signal wins over the hash.
	in.Primary = "Meia Esquerda"
	assert.Equal(t, Left, ResolveSide(in))
}

func TestStableSideSpreads(t *testing.T) {
	seen := map[Side]bool{}
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		seen[stableSide(name+"|Meia")] = true
	}
	assert.Len(t, seen, 2)
}

func TestNationality(t *testing.T) {
	tab := lookup.Default()

	italy, ok := Nationality(tab, "Italy")
	require.True(t, ok)
	brazil, ok := Nationality(tab, "Brazil")
	require.True(t, ok)
	assert.NotEqual(t, italy, brazil)
	assert.Equal(t, 29, brazil)

	_, ok = Nationality(tab, "")
	assert.False(t, ok)
	_, ok = Nationality(nil, "Brasil")
	assert.False(t, ok)
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "GK", Goalkeeper.String())
	assert.Equal(t, "FWD", Forward.String())
	assert.Equal(t, "L", Left.String())
	assert.Equal(t, "R", Right.String())
}
