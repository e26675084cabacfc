// Package lookup holds the process-wide alias tables for positions, sides,
// traits and countries. Tables are built once and read-only afterwards.
package lookup

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var defaultTables []byte

// Entry is one row of a table.
type Entry struct {
	ID      int      `yaml:"id"`
	Name    string   `yaml:"nome"`
	Aliases []string `yaml:"aliases"`
}

// File is the on-disk table layout. JSON mapping files parse as well.
type File struct {
	Positions []Entry `yaml:"posicoes"`
	Sides     []Entry `yaml:"lados"`
	Traits    []Entry `yaml:"caracteristicas"`
	Countries []Entry `yaml:"paises"`
}

type index struct {
	byKey  map[string]int
	byID   map[int]string
	sorted []Entry
}

func newIndex() *index {
	return &index{byKey: make(map[string]int), byID: make(map[int]string)}
}

func (ix *index) add(entries []Entry) {
	for _, e := range entries {
		if _, ok := ix.byID[e.ID]; !ok && e.Name != "" {
			ix.byID[e.ID] = e.Name
			ix.sorted = append(ix.sorted, e)
		}
		ix.put(e.Name, e.ID)
		for _, a := range e.Aliases {
			ix.put(a, e.ID)
		}
	}
}

// put keeps the first id registered for a key.
func (ix *index) put(raw string, id int) {
	for _, k := range []string{lower(raw), Fold(raw)} {
		if k == "" {
			continue
		}
		if _, ok := ix.byKey[k]; !ok {
			ix.byKey[k] = id
		}
	}
}

func (ix *index) get(s string) (int, bool) {
	k := lower(s)
	if k == "" {
		return 0, false
	}
	if id, ok := ix.byKey[k]; ok {
		return id, true
	}
	id, ok := ix.byKey[Fold(s)]
	return id, ok
}

// Tables is an immutable set of lookup indexes, safe for concurrent use.
type Tables struct {
	positions *index
	sides     *index
	traits    *index
	countries *index
}

var (
	defaultOnce sync.Once
	defaultTab  *Tables
)

// Default returns the embedded tables.
func Default() *Tables {
	defaultOnce.Do(func() {
		var f File
		if err := yaml.Unmarshal(defaultTables, &f); err != nil {
			panic(fmt.Sprintf("embedded tables.yaml: %v", err))
		}
		defaultTab = build(&f, nil)
	})
	return defaultTab
}

// Load reads an override file. Each group present in the file replaces the
// embedded group; groups it leaves out keep the embedded rows.
func Load(path string) (*Tables, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse mapping file %s: %w", path, err)
	}
	var base File
	if err := yaml.Unmarshal(defaultTables, &base); err != nil {
		return nil, fmt.Errorf("embedded tables: %w", err)
	}
	return build(&f, &base), nil
}

func build(primary, fallback *File) *Tables {
	pick := func(get func(*File) []Entry) []Entry {
		if rows := get(primary); len(rows) > 0 || fallback == nil {
			return rows
		}
		return get(fallback)
	}
	t := &Tables{positions: newIndex(), sides: newIndex(), traits: newIndex(), countries: newIndex()}
	t.positions.add(pick(func(f *File) []Entry { return f.Positions }))
	t.sides.add(pick(func(f *File) []Entry { return f.Sides }))
	t.traits.add(pick(func(f *File) []Entry { return f.Traits }))
	t.countries.add(pick(func(f *File) []Entry { return f.Countries }))
	return t
}

// Position resolves a position name or alias to its code.
func (t *Tables) Position(s string) (int, bool) { return t.positions.get(s) }

// Side resolves a side name or alias to its code.
func (t *Tables) Side(s string) (int, bool) { return t.sides.get(s) }

// Trait resolves a trait name or alias to its index.
func (t *Tables) Trait(s string) (int, bool) { return t.traits.get(s) }

// Country resolves a country name or alias to the game's country code.
func (t *Tables) Country(s string) (int, bool) { return t.countries.get(s) }

// TraitName returns the display name of a trait index.
func (t *Tables) TraitName(id int) string { return t.traits.byID[id] }

// PositionName returns the display name of a position code.
func (t *Tables) PositionName(id int) string { return t.positions.byID[id] }

// SideName returns the display name of a side code.
func (t *Tables) SideName(id int) string { return t.sides.byID[id] }

// CountryName returns the display name of a country code.
func (t *Tables) CountryName(id int) string { return t.countries.byID[id] }

// Countries returns the country rows in table order.
func (t *Tables) Countries() []Entry {
	out := make([]Entry, len(t.countries.sorted))
	copy(out, t.countries.sorted)
	return out
}

var foldChain = sync.Pool{
	New: func() any {
		return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	},
}

// Fold lowercases, trims and strips diacritics.
func Fold(s string) string {
	s = lower(s)
	if s == "" {
		return s
	}
	t := foldChain.Get().(transform.Transformer)
	defer foldChain.Put(t)
	t.Reset()
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
