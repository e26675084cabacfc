package traits

import (
	"math"
	"strings"

	"github.com/ryanadelino-stack/compiler-api/internal/lookup"
	"github.com/ryanadelino-stack/compiler-api/internal/normalize"
)

// DefaultHeight is used when the height is missing or not positive.
const DefaultHeight = 1.80

// RawStats is a snapshot of a player's counters.
type RawStats struct {
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

// Input is everything the engine looks at for one player.
type Input struct {
	Position     normalize.Position
	PositionText string
	Secondary    []string
	Stats        RawStats
	Age          int
	HasAge       bool
	Height       float64
}

// metrics is the derived view over an Input. Counters are clamped at zero.
type metrics struct {
	pos       normalize.Position
	posText   string // folded
	secondary []string

	related      int
	played       int
	goals        int
	assists      int
	fromBench    int
	penaltyGoals int
	mp           int
	gc           int
	cs           int
	mpg          float64

	age    int
	hasAge bool
	height float64

	g90      float64
	a90      float64
	p90      float64
	c90      float64
	playRate float64
	rotation float64
}

func newMetrics(in Input) *metrics {
	s := in.Stats
	m := &metrics{
		pos:          in.Position,
		posText:      lookup.Fold(in.PositionText),
		secondary:    in.Secondary,
		related:      max(0, s.MatchesRelated),
		played:       max(0, s.MatchesPlayed),
		goals:        max(0, s.Goals),
		assists:      max(0, s.Assists),
		fromBench:    max(0, s.FromBench),
		penaltyGoals: max(0, s.PenaltyGoals),
		mp:           max(0, s.MinutesPlayed),
		gc:           max(0, s.GoalsConceded),
		cs:           max(0, s.CleanSheets),
		age:          in.Age,
		hasAge:       in.HasAge,
		height:       in.Height,
	}
	if m.height <= 0 {
		m.height = DefaultHeight
	}

	substituted := max(0, s.Substituted)
	cardUnits := float64(max(0, s.Yellow)) + 2*float64(max(0, s.YellowRed)) + 3*float64(max(0, s.Red))
	if m.mp > 0 {
		mp := float64(m.mp)
		m.g90 = float64(m.goals) * 90 / mp
		m.a90 = float64(m.assists) * 90 / mp
		m.c90 = cardUnits * 90 / mp
	}
	m.p90 = m.g90 + m.a90

	switch {
	case m.related > 0:
		m.playRate = float64(m.played) / float64(m.related)
	case m.played > 0:
		m.playRate = 1
	}

	if m.played > 0 {
		m.rotation = float64(m.fromBench)/float64(m.played) + float64(substituted)/float64(m.played)
	}

	m.mpg = s.MinutesPerGoal
	if m.mpg <= 0 && m.goals > 0 {
		m.mpg = float64(m.mp) / float64(m.goals)
	}
	if m.mpg <= 0 {
		m.mpg = 9999
	}
	return m
}

func (m *metrics) text(sub ...string) bool {
	for _, s := range sub {
		if strings.Contains(m.posText, s) {
			return true
		}
	}
	return false
}

func (m *metrics) mostlyBench() bool {
	return m.played > 0 && float64(m.fromBench)/float64(m.played) >= 0.28
}

func (m *metrics) centerBackLike() bool {
	return m.pos == normalize.CenterBack || m.text("zague")
}

func (m *metrics) fullBackLike() bool {
	return m.pos == normalize.FullBack || m.text("lateral")
}

func (m *metrics) defMidLike() bool {
	return m.pos == normalize.Midfield && m.text("volante", "defensive", "holding")
}

func (m *metrics) attMidLike() bool {
	return m.pos == normalize.Midfield && m.text("ofens", "atacante", "meia-atac", "meia atac", "attacking")
}

func (m *metrics) wingerLike() bool {
	return m.pos == normalize.Forward && m.text("ponta", "wing")
}

func (m *metrics) dropStrikerLike() bool {
	return m.pos == normalize.Forward && m.text("recu", "seg", "segundo", "second")
}

func (m *metrics) strikerLike() bool {
	if m.pos != normalize.Forward {
		return false
	}
	return m.text("centroav", "9", "centre-forward", "center-forward") ||
		(m.text("atac", "striker") && !m.text("recu", "seg", "second"))
}

func (m *metrics) attackerLike() bool {
	return m.pos == normalize.Forward
}

// enduranceMotor is the gate that lets Stamina into a pair.
func (m *metrics) enduranceMotor() bool {
	return m.mp >= 3200 && m.playRate >= 0.85 && m.rotation <= 0.25
}

func (m *metrics) secondaryLike(token string) bool {
	token = strings.ToLower(token)
	for _, s := range m.secondary {
		if strings.Contains(lookup.Fold(s), token) {
			return true
		}
	}
	return false
}

func (m *metrics) gkRates() (gpg, csr float64) {
	played := math.Max(1, float64(m.played))
	return float64(m.gc) / played, float64(m.cs) / played
}

// ageAtMost is false when the age is unknown.
func (m *metrics) ageAtMost(n int) bool {
	return m.hasAge && m.age <= n
}

// seed is a 64-bit FNV-1a over the player's identifying numbers, each fed
// as four little-endian bytes.
func (m *metrics) seed() uint64 {
	x := uint64(1469598103934665603)
	age := 0
	if m.hasAge {
		age = m.age
	}
	for _, v := range []int{
		int(m.pos), m.played, m.goals, m.assists, m.mp,
		round(m.height * 100), age, round(m.rotation * 1000),
	} {
		x = fnv1a(x, int32(v))
	}
	return x
}

func fnv1a(h uint64, v int32) uint64 {
	for shift := 0; shift < 32; shift += 8 {
		h ^= uint64(byte(v >> shift))
		h *= 1099511628211
	}
	return h
}

func round(f float64) int {
	return int(math.Floor(f + 0.5))
}

// sat is a linear ramp from 0 at lo to 1 at hi.
func sat(x, lo, hi float64) float64 {
	switch {
	case hi <= lo, x <= lo:
		return 0
	case x >= hi:
		return 1
	}
	return (x - lo) / (hi - lo)
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
