// Package roster reads the generic JSON roster document: either an object
// carrying a team name and a roster array, or a bare array of players.
package roster

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrEmpty is returned for blank input.
	ErrEmpty = errors.New("roster document is empty")
	// ErrShape is returned when the root is neither an object nor an array.
	ErrShape = errors.New("roster document must be a JSON object or array")
)

// Document is a parsed roster.
type Document struct {
	// TeamName is set only when the root object names the team.
	TeamName      string
	HasTeamObject bool
	Players       []Entry
	// Skipped counts roster items that were not objects.
	Skipped int
}

// Parse decodes a roster document. Numbers are kept as json.Number so
// large counters survive untouched.
func Parse(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("invalid roster JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("invalid roster JSON: trailing data after document")
	}

	doc := &Document{}
	var items []any
	switch v := root.(type) {
	case []any:
		items = v
	case map[string]any:
		doc.HasTeamObject = true
		doc.TeamName = teamName(v)
		for _, key := range []string{"roster", "players"} {
			if arr, ok := v[key].([]any); ok {
				items = arr
				break
			}
		}
	default:
		return nil, ErrShape
	}

	for _, it := range items {
		obj, ok := it.(map[string]any)
		if !ok {
			doc.Skipped++
			continue
		}
		doc.Players = append(doc.Players, Entry{raw: obj})
	}
	return doc, nil
}

// teamName accepts "team" as a string or as an object with a display
// name, then a top-level "displayName".
func teamName(root map[string]any) string {
	switch t := root["team"].(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return s
		}
	case map[string]any:
		for _, key := range []string{"displayName", "name"} {
			if s := text(t[key]); s != "" {
				return s
			}
		}
	}
	return text(root["displayName"])
}

// Entry is one player object.
type Entry struct {
	raw map[string]any
}

// NewEntry wraps an already decoded player object.
func NewEntry(raw map[string]any) Entry {
	return Entry{raw: raw}
}

// Name returns the trimmed player name, or "".
func (e Entry) Name() string {
	return text(e.raw["name"])
}

// Age returns the player's age when present and integral. Negative ages
// read as 0.
func (e Entry) Age() (int, bool) {
	var raw string
	switch v := e.raw["age"].(type) {
	case json.Number:
		raw = v.String()
	case string:
		raw = strings.TrimSpace(v)
	default:
		return 0, false
	}
	n, ok := wholeNumber(raw)
	if !ok {
		return 0, false
	}
	return max(n, 0), true
}

// wholeNumber parses "25" or "25.0"; fractional values are rejected.
func wholeNumber(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// Height returns the height in meters, or 0 when absent or unreadable.
func (e Entry) Height() float64 {
	switch v := e.raw["height"].(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		s = strings.NewReplacer("m", "", " ", "", ",", ".").Replace(s)
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

// PrimaryPosition returns position.primary, falling back to positionText.
func (e Entry) PrimaryPosition() string {
	if pos, ok := e.raw["position"].(map[string]any); ok {
		if s := text(pos["primary"]); s != "" {
			return s
		}
	}
	return text(e.raw["positionText"])
}

// SecondaryPositions returns the non-blank position.secondary entries.
func (e Entry) SecondaryPositions() []string {
	pos, ok := e.raw["position"].(map[string]any)
	if !ok {
		return nil
	}
	arr, ok := pos["secondary"].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, it := range arr {
		if s := text(it); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Foot returns the preferred foot text.
func (e Entry) Foot() string {
	return text(e.raw["foot"])
}

// Nationality returns the first listed nationality name. Entries may be
// strings or objects with name, label or raw.
func (e Entry) Nationality() string {
	v := e.raw["nationality"]
	if arr, ok := v.([]any); ok {
		if len(arr) == 0 {
			return ""
		}
		v = arr[0]
	}
	switch n := v.(type) {
	case map[string]any:
		for _, key := range []string{"name", "label", "raw"} {
			if s := text(n[key]); s != "" {
				return s
			}
		}
		return ""
	default:
		return text(n)
	}
}

// Stats reads the stats block. Missing values are zero.
func (e Entry) Stats() Stats {
	st, ok := e.raw["stats"].(map[string]any)
	if !ok {
		return Stats{}
	}
	s := Stats{
		MatchesRelated: intStat(st["matchesRelated"]),
		MatchesPlayed:  intStat(st["matchesPlayed"]),
		Goals:          intStat(st["goals"]),
		Assists:        intStat(st["assists"]),
		OwnGoals:       intStat(st["ownGoals"]),
		FromBench:      intStat(st["fromBench"]),
		Substituted:    intStat(st["substituted"]),
		Yellow:         intStat(st["yellow"]),
		YellowRed:      intStat(st["yellowRed"]),
		Red:            intStat(st["red"]),
		PenaltyGoals:   intStat(st["penaltyGoals"]),
		MinutesPerGoal: floatStat(st["minutesPerGoal"]),
		MinutesPlayed:  intStat(st["minutesPlayed"]),
	}
	if gk, ok := st["gk"].(map[string]any); ok {
		s.GoalsConceded = intStat(gk["goalsConceded"])
		s.CleanSheets = intStat(gk["cleanSheets"])
	}
	return s
}

// Stats is the raw counter block of one player.
type Stats struct {
	MatchesRelated int
	MatchesPlayed  int
	Goals          int
	Assists        int
	OwnGoals       int
	FromBench      int
	Substituted    int
	Yellow         int
	YellowRed      int
	Red            int
	PenaltyGoals   int
	MinutesPerGoal float64
	MinutesPlayed  int
	GoalsConceded  int
	CleanSheets    int
}

func text(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	}
	return ""
}

func intStat(v any) int {
	f, _ := ExtractValue(v)
	return int(f)
}

func floatStat(v any) float64 {
	f, _ := ExtractValue(v)
	return f
}

// ExtractValue normalizes a stat value. Scraped rosters carry plain
// numbers, localized numeric strings ("1.234" or "12,5") or small objects
// holding an aggregate ({"total": 15}).
//
// Returns the scalar float64 value, and ok=false if not extractable.
func ExtractValue(val any) (float64, bool) {
	if val == nil {
		return 0, false
	}

	switch v := val.(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		s := strings.TrimSpace(v)
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
		return 0, false
	case map[string]any:
		for _, key := range []string{"total", "all", "count", "value"} {
			if inner, exists := v[key]; exists && inner != nil {
				return ExtractValue(inner)
			}
		}
		return 0, false
	default:
		return 0, false
	}
}
