package compiler

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/ryanadelino-stack/compiler-api/internal/mapper"
	"github.com/ryanadelino-stack/compiler-api/internal/schema"
	"github.com/ryanadelino-stack/compiler-api/internal/serial"
)

// maxInspectPlayers caps the players listed in a report.
const maxInspectPlayers = 60

// Report is a read-only summary of a team save.
type Report struct {
	Class   string         `json:"class"`
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Color1  string         `json:"color1"`
	Color2  string         `json:"color2"`
	Country string         `json:"country"`
	Valid   string         `json:"valid"`
	Mark    string         `json:"mark"`
	Lists   []ListReport   `json:"lists"`
	Players []PlayerReport `json:"players"`
	// PlayerCount and JuniorCount are taken from the best and second-best
	// player collections.
	PlayerCount int `json:"playerCount"`
	JuniorCount int `json:"juniorCount"`
	// Root is the decoded graph, for dumps.
	Root any `json:"-"`
}

// ListReport describes one collection field that holds players.
type ListReport struct {
	Field   string `json:"field"`
	Kind    string `json:"kind"`
	Size    int    `json:"size"`
	Players int    `json:"players"`
	elems   []any
}

// PlayerReport lists the raw slot values of one player. Missing slots
// read "null".
type PlayerReport struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	Nationality string `json:"nationality"`
	Age         string `json:"age"`
	Position    string `json:"position"`
	Side        string `json:"side"`
	Trait1      string `json:"trait1"`
	Trait2      string `json:"trait2"`
	SideCompat  string `json:"sideCompat"`
	FootCode    string `json:"footCode"`
	Flag        string `json:"flag"`
	Top         string `json:"top"`
}

// Inspect decodes a save under the guard and reports its team fields and
// player collections. Collections are found by scanning every list or
// array field of the team, so no field name is assumed.
func (c *Compiler) Inspect(data []byte) (*Report, error) {
	root, err := serial.Decode(bytes.NewReader(data), c.guard)
	if err != nil {
		return nil, classifyLoad(err)
	}
	team, ok := root.(*serial.Object)
	if !ok {
		return nil, invalidTemplate(fmt.Sprintf("save root is %s, want an object", describe(root)), nil)
	}

	tf := c.aliases.Team
	r := &Report{
		Class:   team.ClassName(),
		ID:      c.show(team, tf.ID),
		Name:    c.show(team, tf.Name),
		Country: c.show(team, tf.CountryPrimary),
		Valid:   c.show(team, tf.Valid),
		Mark:    c.show(team, tf.Mark),
		Root:    root,
	}
	v, _ := c.mapper.Get(team, tf.Color1...)
	r.Color1 = serial.HexColor(v)
	v, _ = c.mapper.Get(team, tf.Color2...)
	r.Color2 = serial.HexColor(v)

	r.Lists = c.playerCollections(team)
	if len(r.Lists) == 0 {
		return r, nil
	}

	best := r.Lists[0]
	r.PlayerCount = best.Players
	if len(r.Lists) > 1 && r.Lists[1].Players > 0 {
		r.JuniorCount = r.Lists[1].Players
	}

	pf := c.aliases.Player
	for _, e := range best.elems {
		p, ok := e.(*serial.Object)
		if !ok || p.ClassName() != schema.PlayerClass {
			continue
		}
		r.Players = append(r.Players, PlayerReport{
			Index:       len(r.Players) + 1,
			Name:        c.show(p, pf.Name),
			Nationality: c.show(p, pf.Nationality),
			Age:         c.show(p, pf.Age),
			Position:    c.show(p, pf.Position),
			Side:        c.show(p, pf.Side),
			Trait1:      c.show(p, pf.Trait1),
			Trait2:      c.show(p, pf.Trait2),
			SideCompat:  c.show(p, pf.SideCompat),
			FootCode:    c.show(p, pf.FootCode),
			Flag:        c.show(p, pf.Flag),
			Top:         c.show(p, pf.Top),
		})
		if len(r.Players) >= maxInspectPlayers {
			break
		}
	}
	return r, nil
}

// show renders the first non-nil candidate slot, or "null".
func (c *Compiler) show(rec mapper.Record, names []string) string {
	for _, name := range names {
		if v, ok := rec.SlotValue(name); ok && v != nil {
			return mapper.Text(v)
		}
	}
	return "null"
}

// playerCollections ranks the team's collection fields by player count,
// then by size.
func (c *Compiler) playerCollections(team *serial.Object) []ListReport {
	var out []ListReport
	for _, cd := range team.Data {
		for i, f := range cd.Desc.Fields {
			if f.IsPrimitive() || i >= len(cd.Values) {
				continue
			}
			var (
				elems []any
				kind  string
			)
			if list, ok := serial.ListElements(cd.Values[i]); ok {
				elems, kind = list, "collection"
			} else if arr, ok := cd.Values[i].(*serial.Array); ok {
				elems, kind = arr.Elems, "array"
			} else {
				continue
			}

			players := 0
			for _, e := range elems {
				if o, ok := e.(*serial.Object); ok && o.ClassName() == schema.PlayerClass {
					players++
				}
			}
			if players == 0 && (len(elems) == 0 || !c.looksLikePlayers(elems)) {
				continue
			}
			out = append(out, ListReport{
				Field:   cd.Desc.Name + "." + f.Name,
				Kind:    kind,
				Size:    len(elems),
				Players: players,
				elems:   elems,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Players != out[j].Players {
			return out[i].Players > out[j].Players
		}
		return out[i].Size > out[j].Size
	})
	return out
}

// looksLikePlayers samples up to three objects for player-like slots.
func (c *Compiler) looksLikePlayers(elems []any) bool {
	pf := c.aliases.Player
	groups := [][]string{pf.Name, pf.Age, pf.Position, pf.Side, pf.Trait1}
	checked, score := 0, 0
	for _, e := range elems {
		o, ok := e.(*serial.Object)
		if !ok || o == nil {
			continue
		}
		checked++
		for _, g := range groups {
			if c.show(o, g) != "null" {
				score++
			}
		}
		if checked >= 3 {
			break
		}
	}
	return score >= 3
}
