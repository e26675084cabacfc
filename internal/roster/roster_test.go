package roster

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const objectDoc = `{
  "team": "Palmeiras",
  "roster": [
    {
      "name": " Weverton ",
      "age": 36,
      "height": "1,89 m",
      "position": {"primary": "Goleiro", "secondary": ["", "Libero"]},
      "foot": "direito",
      "nationality": [{"name": "Brasil"}, {"name": "Itália"}],
      "stats": {
        "matchesRelated": "1.020",
        "matchesPlayed": 512,
        "minutesPerGoal": "12,5",
        "minutesPlayed": {"total": 45000},
        "gk": {"goalsConceded": 480, "cleanSheets": 190}
      }
    },
    "not a player",
    {"positionText": "Zagueiro", "age": "29", "height": 1.9}
  ]
}`

func TestParseObjectDocument(t *testing.T) {
	doc, err := Parse([]byte(objectDoc))
	require.NoError(t, err)

	assert.True(t, doc.HasTeamObject)
	assert.Equal(t, "Palmeiras", doc.TeamName)
	assert.Equal(t, 1, doc.Skipped)
	require.Len(t, doc.Players, 2)

	gk := doc.Players[0]
	assert.Equal(t, "Weverton", gk.Name())
	age, ok := gk.Age()
	require.True(t, ok)
	assert.Equal(t, 36, age)
	assert.InDelta(t, 1.89, gk.Height(), 1e-9)
	assert.Equal(t, "Goleiro", gk.PrimaryPosition())
	assert.Equal(t, []string{"Libero"}, gk.SecondaryPositions())
	assert.Equal(t, "direito", gk.Foot())
	assert.Equal(t, "Brasil", gk.Nationality())

	st := gk.Stats()
	assert.Equal(t, 1020, st.MatchesRelated)
	assert.Equal(t, 512, st.MatchesPlayed)
	assert.InDelta(t, 12.5, st.MinutesPerGoal, 1e-9)
	assert.Equal(t, 45000, st.MinutesPlayed)
	assert.Equal(t, 480, st.GoalsConceded)
	assert.Equal(t, 190, st.CleanSheets)

	cb := doc.Players[1]
	assert.Equal(t, "", cb.Name())
	assert.Equal(t, "Zagueiro", cb.PrimaryPosition())
	age, ok = cb.Age()
	require.True(t, ok)
	assert.Equal(t, 29, age)
	assert.InDelta(t, 1.9, cb.Height(), 1e-9)
	assert.Equal(t, Stats{}, cb.Stats())
}

func TestParseBareArray(t *testing.T) {
	doc, err := Parse([]byte(`[{"name":"A"},{"name":"B"}]`))
	require.NoError(t, err)
	assert.False(t, doc.HasTeamObject)
	assert.Empty(t, doc.TeamName)
	assert.Len(t, doc.Players, 2)
}

func TestParseTeamNameForms(t *testing.T) {
	tests := []struct {
		doc  string
		want string
	}{
		{`{"team":"Santos","players":[]}`, "Santos"},
		{`{"team":{"displayName":"Grêmio"},"players":[]}`, "Grêmio"},
		{`{"team":{"name":"Bahia"}}`, "Bahia"},
		{`{"displayName":"Vasco"}`, "Vasco"},
		{`{"team":"  "}`, ""},
	}
	for _, tt := range tests {
		doc, err := Parse([]byte(tt.doc))
		require.NoError(t, err, tt.doc)
		assert.Equal(t, tt.want, doc.TeamName, tt.doc)
		assert.True(t, doc.HasTeamObject)
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(nil)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Parse([]byte("   \n"))
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Parse([]byte(`{"team":`))
	assert.Error(t, err)

	_, err = Parse([]byte(`42`))
	assert.ErrorIs(t, err, ErrShape)

	_, err = Parse([]byte(`[] []`))
	assert.Error(t, err)
}

func TestNationalityForms(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`"Argentina"`, "Argentina"},
		{`["Italy","Brazil"]`, "Italy"},
		{`{"label":"Uruguai"}`, "Uruguai"},
		{`[{"raw":"Paraguay"}]`, "Paraguay"},
		{`[]`, ""},
		{`null`, ""},
	}
	for _, tt := range tests {
		var raw map[string]any
		require.NoError(t, json.Unmarshal([]byte(`{"nationality":`+tt.raw+`}`), &raw))
		assert.Equal(t, tt.want, NewEntry(raw).Nationality(), tt.raw)
	}
}

func TestHeightAndAgeLeniency(t *testing.T) {
	tests := []struct {
		raw        string
		height     float64
		age        int
		agePresent bool
	}{
		{`{"height":"1.78m","age":"20"}`, 1.78, 20, true},
		{`{"height":"abc","age":"20.5"}`, 0, 0, false},
		{`{"height":null}`, 0, 0, false},
		{`{"age":"25.0"}`, 0, 25, true},
		{`{"age":31.0}`, 0, 31, true},
		{`{"age":-7}`, 0, 0, true},
		{`{"age":" -2 "}`, 0, 0, true},
		{`{"age":1e40}`, 0, 0, false},
		{`{"age":true}`, 0, 0, false},
	}
	for _, tt := range tests {
		doc, err := Parse([]byte(`[` + tt.raw + `]`))
		require.NoError(t, err)
		e := doc.Players[0]
		assert.InDelta(t, tt.height, e.Height(), 1e-9, tt.raw)
		age, ok := e.Age()
		assert.Equal(t, tt.agePresent, ok, tt.raw)
		assert.Equal(t, tt.age, age, tt.raw)
	}
}

func TestExtractValue(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{json.Number("12"), 12, true},
		{"3.456", 3456, true},
		{"7,5", 7.5, true},
		{map[string]any{"total": json.Number("15")}, 15, true},
		{map[string]any{"other": 1}, 0, false},
		{true, 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := ExtractValue(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, "%v", tt.in)
	}
}
