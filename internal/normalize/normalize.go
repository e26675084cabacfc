// Package normalize turns free-text roster attributes into the save
// format's codes: position group, side and nationality.
package normalize

import (
	"hash/fnv"
	"strings"
	"unicode"

	"github.com/ryanadelino-stack/compiler-api/internal/lookup"
)

// Position is the save format's position group.
type Position int

const (
	Goalkeeper Position = iota
	FullBack
	CenterBack
	Midfield
	Forward
)

func (p Position) String() string {
	switch p {
	case Goalkeeper:
		return "GK"
	case FullBack:
		return "FB"
	case CenterBack:
		return "CB"
	case Midfield:
		return "MID"
	default:
		return "FWD"
	}
}

// Side is the save format's side code.
type Side int

const (
	Right Side = iota
	Left
)

func (s Side) String() string {
	if s == Left {
		return "L"
	}
	return "R"
}

// DefaultPositionText is used when a player has no position at all.
const DefaultPositionText = "Atacante"

// PositionText returns the text to classify, never blank.
func PositionText(primary string) string {
	if strings.TrimSpace(primary) == "" {
		return DefaultPositionText
	}
	return primary
}

// ResolvePosition maps position text to a position group. An exact alias
// from the lookup tables wins; otherwise the keyword ladder decides and
// anything unmatched is a forward.
func ResolvePosition(tab *lookup.Tables, text string) Position {
	if tab != nil {
		if code, ok := tab.Position(text); ok && code >= int(Goalkeeper) && code <= int(Forward) {
			return Position(code)
		}
	}
	t := lookup.Fold(text)
	switch {
	case containsAny(t, "gole", "keeper"):
		return Goalkeeper
	case containsAny(t, "zague", "centre-back", "center-back", "centre back", "center back",
		"central defender", "sweeper"):
		return CenterBack
	case containsAny(t, "lateral", "ala", "back"):
		// lateral, ala, full-back, left-back, wing-back
		return FullBack
	case containsAny(t, "volante", "meia", "midfield"):
		return Midfield
	default:
		// ponta, centroavante, atac, winger, striker and anything unknown
		return Forward
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// SideInput carries every text that can reveal a player's side.
type SideInput struct {
	Name      string
	Primary   string
	Secondary []string
	Foot      string
}

// ResolveSide applies the side chain and stops at the first decisive
// signal: hint words in the primary position, side words or abbreviations
// in the primary position, the secondary positions, the foot, then Right.
func ResolveSide(in SideInput) Side {
	if s, ok := sideHint(in.Primary); ok {
		return s
	}
	if s, ok := ParseSideText(in.Primary); ok {
		return s
	}
	for _, sec := range in.Secondary {
		if s, ok := sideHint(sec); ok {
			return s
		}
		if s, ok := ParseSideText(sec); ok {
			return s
		}
	}
	switch parseFoot(in.Foot) {
	case footLeft:
		return Left
	case footRight:
		return Right
	case footBoth:
		return stableSide(in.Name + "|" + in.Primary)
	}
	return Right
}

func sideHint(text string) (Side, bool) {
	t := lookup.Fold(text)
	switch {
	case containsAny(t, "esq", "left"):
		return Left, true
	case containsAny(t, "dir", "right"):
		return Right, true
	}
	return Right, false
}

var (
	rightTokens = map[string]bool{"ld": true, "rb": true, "rw": true, "rm": true, "rwb": true, "pd": true}
	leftTokens  = map[string]bool{"le": true, "lb": true, "lw": true, "lm": true, "lwb": true, "pe": true}
)

// ParseSideText reads side words and abbreviations (LD/LE, RB/LB, RW/LW,
// PD/PE, direito/esquerdo, right/left) from position text.
func ParseSideText(text string) (Side, bool) {
	t := lookup.Fold(text)
	if t == "" {
		return Right, false
	}
	switch {
	case strings.Contains(t, "direit"), strings.Contains(t, "rechts"),
		t == "r", t == "right", t == "destro":
		return Right, true
	case strings.Contains(t, "esquerd"), strings.Contains(t, "links"),
		t == "l", t == "left", t == "canhoto":
		return Left, true
	}
	tokens := strings.FieldsFunc(t, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, tok := range tokens {
		if rightTokens[tok] {
			return Right, true
		}
	}
	for _, tok := range tokens {
		if leftTokens[tok] {
			return Left, true
		}
	}
	return Right, false
}

type foot int

const (
	footUnknown foot = iota
	footRight
	footLeft
	footBoth
)

func parseFoot(text string) foot {
	t := lookup.Fold(text)
	if t == "" {
		return footUnknown
	}
	switch {
	case strings.Contains(t, "ambi"), strings.Contains(t, "both"),
		strings.Contains(t, "two-foot"), strings.Contains(t, "two foot"):
		return footBoth
	case strings.Contains(t, "left"), strings.Contains(t, "esq"), strings.Contains(t, "canhoto"),
		t == "l", t == "e":
		return footLeft
	case strings.Contains(t, "right"), strings.Contains(t, "dir"), strings.Contains(t, "destro"),
		t == "r", t == "d":
		return footRight
	}
	return footUnknown
}

// stableSide picks a side from a 32-bit FNV-1a hash so an ambidextrous
// player lands on the same side on every run.
func stableSide(seed string) Side {
	h := fnv.New32a()
	h.Write([]byte(seed))
	if h.Sum32()&1 == 0 {
		return Right
	}
	return Left
}

// Nationality resolves a country name through the lookup tables.
func Nationality(tab *lookup.Tables, name string) (int, bool) {
	if tab == nil || strings.TrimSpace(name) == "" {
		return 0, false
	}
	return tab.Country(name)
}
