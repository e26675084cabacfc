// Package traits derives a player's two most representative skill traits
// from raw performance counters, position and physique. Evaluation is a
// pure function: the same input always yields the same pair.
package traits

import "fmt"

// Trait indexes the fixed 14-element trait space.
type Trait int

const (
	Positioning Trait = iota
	PenaltySave
	Reflexes
	Sweeping
	Playmaking
	Heading
	Crossing
	Tackling
	Dribbling
	Finishing
	Marking
	Passing
	Stamina
	Pace

	traitCount = 14
)

var traitNames = [traitCount]string{
	"Positioning", "PenaltySave", "Reflexes", "Sweeping", "Playmaking",
	"Heading", "Crossing", "Tackling", "Dribbling", "Finishing",
	"Marking", "Passing", "Stamina", "Pace",
}

func (t Trait) String() string {
	if t < 0 || t >= traitCount {
		return fmt.Sprintf("Trait(%d)", int(t))
	}
	return traitNames[t]
}

// IsGoalkeeper reports whether the trait belongs to the keeper subset.
func (t Trait) IsGoalkeeper() bool {
	return t >= Positioning && t <= Sweeping
}

// Pair is an ordered pair of distinct traits: A is the primary trait.
type Pair struct {
	A, B Trait
}

func (p Pair) String() string {
	return p.A.String() + "/" + p.B.String()
}

// Has reports whether t is one of the pair's traits.
func (p Pair) Has(t Trait) bool {
	return p.A == t || p.B == t
}

// Is reports whether the pair is exactly (a, b).
func (p Pair) Is(a, b Trait) bool {
	return p.A == a && p.B == b
}

// IsEither reports whether the pair is (a, b) or (b, a).
func (p Pair) IsEither(a, b Trait) bool {
	return p.Is(a, b) || p.Is(b, a)
}

// Distinct enforces A != B. An equal second trait becomes Reflexes, or
// Positioning when the first trait already is Reflexes.
func (p Pair) Distinct() Pair {
	if p.A != p.B {
		return p
	}
	if p.A == Reflexes {
		return Pair{A: p.A, B: Positioning}
	}
	return Pair{A: p.A, B: Reflexes}
}
