// Package compiler turns a JSON roster into a team save. A compile loads a
// template team (or starts from an empty one), applies team-level fields,
// builds one player record per roster entry and encodes the graph.
package compiler

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/ryanadelino-stack/compiler-api/internal/guard"
	"github.com/ryanadelino-stack/compiler-api/internal/lookup"
	"github.com/ryanadelino-stack/compiler-api/internal/mapper"
	"github.com/ryanadelino-stack/compiler-api/internal/normalize"
	"github.com/ryanadelino-stack/compiler-api/internal/roster"
	"github.com/ryanadelino-stack/compiler-api/internal/schema"
	"github.com/ryanadelino-stack/compiler-api/internal/serial"
	"github.com/ryanadelino-stack/compiler-api/internal/traits"
)

const (
	// DefaultPlayerName is written when an entry has no name.
	DefaultPlayerName = "SEM NOME"
	// DefaultAge is used when an entry has no readable age.
	DefaultAge = 20
)

// Options configures a Compiler. Zero fields fall back to defaults.
type Options struct {
	Logger   *slog.Logger
	Guard    *guard.Guard
	Aliases  *schema.Aliases
	Tables   *lookup.Tables
	TeamSUID int64
}

// Compiler is stateless between compiles and safe for concurrent use.
type Compiler struct {
	log      *slog.Logger
	guard    *guard.Guard
	aliases  *schema.Aliases
	tables   *lookup.Tables
	mapper   *mapper.Mapper
	teamSUID int64
}

// New creates a Compiler.
func New(opts Options) *Compiler {
	c := &Compiler{
		log:      opts.Logger,
		guard:    opts.Guard,
		aliases:  opts.Aliases,
		tables:   opts.Tables,
		teamSUID: opts.TeamSUID,
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	if c.guard == nil {
		c.guard = guard.Default()
	}
	if c.aliases == nil {
		c.aliases = schema.Default()
	}
	if c.tables == nil {
		c.tables = lookup.Default()
	}
	if c.teamSUID == 0 {
		c.teamSUID = schema.DefaultTeamSUID
	}
	c.mapper = mapper.New(c.log)
	return c
}

// Request is one compile job.
type Request struct {
	Input []byte
	// Template is an optional save whose team is reused.
	Template  []byte
	TeamID    *int
	CountryID *int
}

// PlayerSummary describes what was written for one roster entry.
type PlayerSummary struct {
	Name        string `json:"name"`
	Age         int    `json:"age"`
	Position    string `json:"position"`
	Side        string `json:"side"`
	Nationality int    `json:"nationality"`
	Trait1      string `json:"trait1"`
	Trait2      string `json:"trait2"`
	Fallback    bool   `json:"fallback,omitempty"`
}

// Output is a successful compile.
type Output struct {
	Data     []byte
	TeamName string
	Players  []PlayerSummary
	Juniors  int
	// Skipped counts roster items that were not objects.
	Skipped int
	// Misses counts writes that found no matching slot.
	Misses int
}

// compile holds the per-call state.
type compile struct {
	*Compiler
	catalog *schema.Catalog
	misses  int
}

func (s *compile) set(target mapper.Record, value any, names []string) {
	if r := s.mapper.Set(target, value, names...); r.Miss {
		s.misses++
	}
}

// Compile runs one compile. Errors are *Error values except for context
// cancellation.
func (c *Compiler) Compile(ctx context.Context, req Request) (*Output, error) {
	doc, err := roster.Parse(req.Input)
	if err != nil {
		return nil, invalidInput(err)
	}

	s := &compile{Compiler: c, catalog: schema.NewCatalog(c.teamSUID)}
	team, err := s.loadTeam(req.Template)
	if err != nil {
		return nil, err
	}

	s.applyTeam(team, doc, req)

	out := &Output{Skipped: doc.Skipped}
	players := make([]any, 0, len(doc.Players))
	for _, entry := range doc.Players {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, sum := s.buildPlayer(entry, team, req.CountryID)
		players = append(players, p)
		out.Players = append(out.Players, sum)
	}
	if err := s.setRoster(team, players); err != nil {
		return nil, fmt.Errorf("failed to store roster: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := serial.Encode(&buf, team); err != nil {
		return nil, fmt.Errorf("failed to encode team: %w", err)
	}

	out.Data = buf.Bytes()
	if v, ok := s.mapper.Get(team, c.aliases.Team.Name...); ok && v != nil {
		out.TeamName = mapper.Text(v)
	}
	if v, ok := s.mapper.Get(team, c.aliases.Team.Juniors...); ok {
		if elems, ok := serial.ListElements(v); ok {
			out.Juniors = len(elems)
		}
	}
	out.Misses = s.misses
	c.log.Debug("compiled team", "team", out.TeamName, "players", len(out.Players), "misses", out.Misses)
	return out, nil
}

// loadTeam decodes the template under the guard, or creates an empty team.
func (s *compile) loadTeam(template []byte) (*serial.Object, error) {
	if len(template) == 0 {
		return serial.NewObject(s.catalog.Team()), nil
	}
	root, err := serial.Decode(bytes.NewReader(template), s.guard)
	if err != nil {
		return nil, classifyLoad(err)
	}
	team, ok := root.(*serial.Object)
	if !ok || team.ClassName() != schema.TeamClass {
		return nil, invalidTemplate(fmt.Sprintf("template root is %s, want %s", describe(root), schema.TeamClass), nil)
	}
	s.catalog.Harvest(team)
	return team, nil
}

func describe(v any) string {
	switch x := v.(type) {
	case *serial.Object:
		return x.ClassName()
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func (s *compile) applyTeam(team *serial.Object, doc *roster.Document, req Request) {
	tf := s.aliases.Team
	if doc.HasTeamObject && doc.TeamName != "" {
		s.set(team, doc.TeamName, tf.Name)
	}
	if req.TeamID != nil {
		s.set(team, *req.TeamID, tf.ID)
	}
	if req.CountryID != nil {
		s.set(team, *req.CountryID, tf.CountryPrimary)
		s.set(team, *req.CountryID, tf.CountrySecondary)
	}

	s.defaultColor(team, tf.Color1, serial.ColorWhite)
	s.defaultColor(team, tf.Color2, serial.ColorBlack)

	s.set(team, true, tf.Valid)
	s.set(team, false, tf.Mark)
}

func (s *compile) defaultColor(team *serial.Object, names []string, argb int32) {
	if v, ok := s.mapper.Get(team, names...); ok && v != nil {
		return
	}
	color, err := serial.NewColor(s.catalog.Color(), argb)
	if err != nil {
		s.log.Debug("cannot build default color", "error", err)
		s.misses++
		return
	}
	s.set(team, color, names)
}

func (s *compile) buildPlayer(entry roster.Entry, team *serial.Object, countryOverride *int) (*serial.Object, PlayerSummary) {
	pf := s.aliases.Player
	p := serial.NewObject(s.catalog.Player())

	name := entry.Name()
	if name == "" {
		name = DefaultPlayerName
	}
	s.set(p, name, pf.Name)

	age, ok := entry.Age()
	if !ok {
		age = DefaultAge
	}
	s.set(p, age, pf.Age)

	posText := normalize.PositionText(entry.PrimaryPosition())
	pos := normalize.ResolvePosition(s.tables, posText)
	s.set(p, int(pos), pf.Position)

	secondary := entry.SecondaryPositions()
	side := normalize.ResolveSide(normalize.SideInput{
		Name:      name,
		Primary:   posText,
		Secondary: secondary,
		Foot:      entry.Foot(),
	})
	s.set(p, int(side), pf.Side)
	s.set(p, int(side), pf.SideCompat)

	nat := s.nationality(entry, team, countryOverride)
	s.set(p, nat, pf.Nationality)

	res := traits.Evaluate(traits.Input{
		Position:     pos,
		PositionText: posText,
		Secondary:    secondary,
		Stats:        traits.RawStats(entry.Stats()),
		Age:          age,
		HasAge:       true,
		Height:       entry.Height(),
	})
	s.set(p, int(res.Pair.A), pf.Trait1)
	s.set(p, int(res.Pair.B), pf.Trait2)

	s.log.Debug("built player",
		"name", name,
		"position", posText,
		"side", side.String(),
		"nationality", nat,
		"domain", res.Domain.String(),
		"traits", res.Pair.String(),
	)

	return p, PlayerSummary{
		Name:        name,
		Age:         age,
		Position:    pos.String(),
		Side:        side.String(),
		Nationality: nat,
		Trait1:      s.tables.TraitName(int(res.Pair.A)),
		Trait2:      s.tables.TraitName(int(res.Pair.B)),
		Fallback:    res.Fallback,
	}
}

// nationality resolves the first listed nationality, then the country
// override, then the team's own country, then 0.
func (s *compile) nationality(entry roster.Entry, team *serial.Object, override *int) int {
	if id, ok := normalize.Nationality(s.tables, entry.Nationality()); ok {
		return id
	}
	if override != nil {
		return *override
	}
	if id, ok := s.mapper.GetInt(team, s.aliases.Team.CountryLookup...); ok {
		return id
	}
	return 0
}

// setRoster stores the seniors, reusing the template's list object when
// there is one, and makes sure the juniors list exists.
func (s *compile) setRoster(team *serial.Object, players []any) error {
	tf := s.aliases.Team
	if v, ok := s.mapper.Get(team, tf.Players...); ok && serial.IsList(v) {
		if err := serial.SetListElements(v.(*serial.Object), players); err != nil {
			return err
		}
	} else {
		list, err := serial.NewArrayList(s.catalog.ArrayList(), players)
		if err != nil {
			return err
		}
		s.set(team, list, tf.Players)
	}

	if v, ok := s.mapper.Get(team, tf.Juniors...); !ok || v == nil {
		empty, err := serial.NewArrayList(s.catalog.ArrayList(), nil)
		if err != nil {
			return err
		}
		s.set(team, empty, tf.Juniors)
	}
	return nil
}
