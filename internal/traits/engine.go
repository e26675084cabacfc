package traits

import "math"

const (
	// tieEpsilon scales the deterministic per-pair jitter.
	tieEpsilon = 0.015
	// technicalTie is the score gap under which secondary positions may
	// swap the winner and runner-up.
	technicalTie = 0.010
)

// Result is the outcome of one evaluation.
type Result struct {
	Pair     Pair
	RunnerUp Pair
	Domain   Domain
	Score    float64
	// Fallback is set when the pair came from the domain default instead
	// of scoring, e.g. for players without a single match.
	Fallback bool
}

// Evaluate picks the trait pair for one player.
func Evaluate(in Input) Result {
	m := newMetrics(in)
	dom := resolveDomain(m)

	if m.played == 0 {
		fb := dom.Fallback()
		return Result{
			Pair:     fb.Distinct(),
			RunnerUp: dom.fallbackSecond(fb).Distinct(),
			Domain:   dom,
			Fallback: true,
		}
	}

	a := baseScores(m)
	seed := m.seed() ^ uint64(dom)*0x9E3779B97F4A7C15

	var best, second Pair
	var haveBest, haveSecond bool
	bestScore, secondScore := -1e9, -1e9
	for _, c := range menus[dom] {
		sc := scorePair(c, &a, m, dom, seed)
		switch {
		case sc > bestScore:
			second, secondScore, haveSecond = best, bestScore, haveBest
			best, bestScore, haveBest = c, sc, true
		case sc > secondScore:
			second, secondScore, haveSecond = c, sc, true
		}
	}

	if !haveBest {
		fb := dom.Fallback()
		return Result{
			Pair:     fb.Distinct(),
			RunnerUp: dom.fallbackSecond(fb).Distinct(),
			Domain:   dom,
			Fallback: true,
		}
	}
	if !haveSecond || second == best {
		second = dom.fallbackSecond(best)
	}

	if math.Abs(bestScore-secondScore) <= technicalTie && preferSecond(best, second, m) {
		best, second = second, best
	}
	return Result{
		Pair:     best.Distinct(),
		RunnerUp: second.Distinct(),
		Domain:   dom,
		Score:    bestScore,
	}
}

func scorePair(pr Pair, a *scores, m *metrics, dom Domain, seed uint64) float64 {
	sA, sB := a[pr.A], a[pr.B]
	base := 0.62*sA + 0.38*sB + 0.06*(sA*sB) - 0.05*math.Abs(sA-sB)
	return base + tieNoise(seed, pr) + staminaTerm(pr, m) + boost(dom, pr, m)
}

// preferSecond breaks a technical tie in favour of the runner-up when only
// the runner-up carries the trait hinted by the secondary positions.
func preferSecond(best, second Pair, m *metrics) bool {
	if len(m.secondary) == 0 {
		return false
	}
	var bias Trait = -1
	switch {
	case m.secondaryLike("ponta"):
		bias = Pace
	case m.secondaryLike("centroav"), m.secondaryLike("atac"), m.secondaryLike("seg"):
		bias = Finishing
	case m.secondaryLike("zagueiro"):
		bias = Marking
	case m.secondaryLike("meia"), m.secondaryLike("volante"):
		bias = Passing
	}
	if bias < 0 {
		return false
	}
	return second.Has(bias) && !best.Has(bias)
}

// tieNoise is a small deterministic jitter in [-tieEpsilon/2, tieEpsilon/2)
// derived from the player seed and the pair, mixed with the splitmix64
// finalizer.
func tieNoise(seed uint64, pr Pair) float64 {
	z := seed ^ uint64(pr.A)*0x9E3779B97F4A7C15 ^ uint64(pr.B)*0xC2B2AE3D27D4EB4F
	z ^= z >> 33
	z *= 0xff51afd7ed558ccd
	z ^= z >> 33
	z *= 0xc4ceb9fe1a85ec53
	z ^= z >> 33
	u := float64((z>>11)&(1<<53-1)) / float64(1<<53)
	return (u - 0.5) * tieEpsilon
}
