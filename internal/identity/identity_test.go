package identity

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromTeamURL(t *testing.T) {
	tests := []struct {
		url  string
		want Team
	}{
		{
			"https://www.transfermarkt.com.br/se-palmeiras-sao-paulo/startseite/verein/1023/saison_id/2025",
			Team{Country: "br", TeamID: 1023, Season: 2025, Slug: "se-palmeiras-sao-paulo"},
		},
		{
			"www.transfermarkt.de/Grêmio_Porto-Alegre/kader/VEREIN/210/SAISON_ID/2024?x=1",
			Team{Country: "de", TeamID: 210, Season: 2024, Slug: "gremio-porto-alegre"},
		},
		{
			"http://transfermarkt.com/---/startseite/verein/5/saison_id/1999",
			Team{Country: "com", TeamID: 5, Season: 1999, Slug: "team"},
		},
		{
			"https://www.transfermarkt.pt/benfica/startseite/verein/294/saison_id/2023",
			Team{Country: "www.transfermarkt.pt", TeamID: 294, Season: 2023, Slug: "benfica"},
		},
	}
	for _, tt := range tests {
		got, err := FromTeamURL(tt.url)
		require.NoError(t, err, tt.url)
		assert.Equal(t, tt.want, got, tt.url)
	}
}

func TestFromTeamURLErrors(t *testing.T) {
	_, err := FromTeamURL("  ")
	assert.ErrorIs(t, err, ErrEmptyURL)

	_, err = FromTeamURL("https://www.transfermarkt.com.br/x/startseite/saison_id/2025")
	assert.ErrorContains(t, err, "verein")

	_, err = FromTeamURL("https://www.transfermarkt.com.br/x/startseite/verein/12")
	assert.ErrorContains(t, err, "saison_id")
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "sao-paulo-f-c", Slug("São Paulo F.C."))
	assert.Equal(t, "team", Slug("***"))
}

func TestCache(t *testing.T) {
	c, err := NewCache(t.TempDir())
	require.NoError(t, err)
	team := Team{Country: "br", TeamID: 1023, Season: 2025, Slug: "palmeiras"}

	assert.Equal(t, filepath.Join(c.Base(), "br", "1023", "2025.json"), c.Path(team))
	assert.False(t, c.Exists(team))
	_, err = c.Read(team)
	assert.Error(t, err)

	require.NoError(t, c.Write(team, []byte(`[{"name":"Weverton"}]`)))
	assert.True(t, c.Exists(team))
	data, err := c.Read(team)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"Weverton"}]`, string(data))
	assert.Contains(t, string(data), "\n  ")

	assert.Error(t, c.Write(team, []byte(`{`)))
}
