// Package schema knows the shape of the save format: candidate slot names
// for each logical field and the class descriptors used when no template
// supplies them.
package schema

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed aliases.yaml
var defaultAliases []byte

// TeamFields lists candidate slot names on the team class.
type TeamFields struct {
	ID               []string `yaml:"id"`
	Name             []string `yaml:"name"`
	CountryPrimary   []string `yaml:"country_primary"`
	CountrySecondary []string `yaml:"country_secondary"`
	CountryLookup    []string `yaml:"country_lookup"`
	Color1           []string `yaml:"color1"`
	Color2           []string `yaml:"color2"`
	Valid            []string `yaml:"valid"`
	Mark             []string `yaml:"mark"`
	Players          []string `yaml:"players"`
	Juniors          []string `yaml:"juniors"`
}

// PlayerFields lists candidate slot names on the player class.
type PlayerFields struct {
	Name        []string `yaml:"name"`
	Age         []string `yaml:"age"`
	Position    []string `yaml:"position"`
	Side        []string `yaml:"side"`
	SideCompat  []string `yaml:"side_compat"`
	Nationality []string `yaml:"nationality"`
	Trait1      []string `yaml:"trait1"`
	Trait2      []string `yaml:"trait2"`
	FootCode    []string `yaml:"foot_code"`
	Flag        []string `yaml:"flag"`
	Top         []string `yaml:"top"`
}

// Aliases is the full alias table.
type Aliases struct {
	Team   TeamFields   `yaml:"team"`
	Player PlayerFields `yaml:"player"`
}

var (
	defaultOnce sync.Once
	defaultTab  *Aliases
)

// Default returns the embedded alias table. The result is shared and must
// not be modified.
func Default() *Aliases {
	defaultOnce.Do(func() {
		a, err := ParseAliases(defaultAliases)
		if err != nil {
			panic(fmt.Sprintf("embedded aliases.yaml: %v", err))
		}
		defaultTab = a
	})
	return defaultTab
}

// ParseAliases parses an alias table from YAML.
func ParseAliases(data []byte) (*Aliases, error) {
	var a Aliases
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to parse alias YAML: %w", err)
	}
	return &a, nil
}

// LoadAliases reads an alias file and fills every field it leaves empty
// from the embedded table.
func LoadAliases(path string) (*Aliases, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alias file %s: %w", path, err)
	}
	a, err := ParseAliases(data)
	if err != nil {
		return nil, err
	}
	a.fillFrom(Default())
	return a, nil
}

func (a *Aliases) fillFrom(d *Aliases) {
	fill := func(dst *[]string, src []string) {
		if len(*dst) == 0 {
			*dst = src
		}
	}
	fill(&a.Team.ID, d.Team.ID)
	fill(&a.Team.Name, d.Team.Name)
	fill(&a.Team.CountryPrimary, d.Team.CountryPrimary)
	fill(&a.Team.CountrySecondary, d.Team.CountrySecondary)
	fill(&a.Team.CountryLookup, d.Team.CountryLookup)
	fill(&a.Team.Color1, d.Team.Color1)
	fill(&a.Team.Color2, d.Team.Color2)
	fill(&a.Team.Valid, d.Team.Valid)
	fill(&a.Team.Mark, d.Team.Mark)
	fill(&a.Team.Players, d.Team.Players)
	fill(&a.Team.Juniors, d.Team.Juniors)

	fill(&a.Player.Name, d.Player.Name)
	fill(&a.Player.Age, d.Player.Age)
	fill(&a.Player.Position, d.Player.Position)
	fill(&a.Player.Side, d.Player.Side)
	fill(&a.Player.SideCompat, d.Player.SideCompat)
	fill(&a.Player.Nationality, d.Player.Nationality)
	fill(&a.Player.Trait1, d.Player.Trait1)
	fill(&a.Player.Trait2, d.Player.Trait2)
	fill(&a.Player.FootCode, d.Player.FootCode)
	fill(&a.Player.Flag, d.Player.Flag)
	fill(&a.Player.Top, d.Player.Top)
}
