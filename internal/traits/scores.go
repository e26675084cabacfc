package traits

import "github.com/ryanadelino-stack/compiler-api/internal/normalize"

// scores holds one base score in [0,1] per trait.
type scores [traitCount]float64

// baseScores rates every trait on its own. Keepers only get keeper
// traits; outfield players never do.
func baseScores(m *metrics) scores {
	var a scores
	if m.pos == normalize.Goalkeeper {
		keeperScores(&a, m)
		return a
	}

	fin := 0.70*sat(m.g90, 0.05, 0.55) + 0.30*(1-sat(m.mpg, 180, 520))
	if m.goals > 0 && float64(m.penaltyGoals)/float64(m.goals) >= 0.35 {
		fin += 0.04
	}
	if m.mostlyBench() && m.mp < 1200 {
		fin -= 0.03
	}
	a[Finishing] = clamp01(fin)

	pas := sat(m.a90, 0.03, 0.35)
	if m.a90 >= m.g90 {
		pas += 0.03
	}
	if m.c90 > 0.45 {
		pas -= 0.02
	}
	a[Passing] = clamp01(pas)

	a[Playmaking] = clamp01(0.60*sat(m.a90, 0.04, 0.30) + 0.40*sat(m.p90, 0.08, 0.55))
	a[Dribbling] = clamp01(0.60*sat(m.p90, 0.10, 0.60) + 0.40*sat(m.rotation, 0.10, 0.90))

	pace := 0.65*sat(m.rotation, 0.10, 0.90) + 0.35*sat(m.p90, 0.08, 0.55)
	if m.wingerLike() && m.height >= 1.90 {
		pace -= 0.06
	}
	if m.centerBackLike() && m.g90+m.a90 < 0.06 {
		pace -= 0.04
	}
	a[Pace] = clamp01(pace)

	a[Stamina] = clamp01(0.60*sat(float64(m.mp), 800, 3200) + 0.40*sat(m.playRate, 0.35, 0.90))

	head := 0.40*sat(m.height, 1.78, 1.95) + 0.45*sat(m.g90, 0.04, 0.22) + 0.15*sat(float64(m.goals), 3, 30)
	if m.centerBackLike() || m.strikerLike() {
		head += 0.04
	}
	if m.fullBackLike() {
		head -= 0.06
	}
	a[Heading] = clamp01(head)

	a[Tackling] = clamp01(0.65*sat(m.c90, 0.10, 0.55) + 0.35*sat(float64(m.played), 10, 45))

	mar := 0.55*sat(m.c90, 0.08, 0.45) + 0.45*sat(float64(m.mp), 800, 3200)
	if m.centerBackLike() || m.defMidLike() {
		mar += 0.06
	}
	if m.attackerLike() {
		mar -= 0.06
	}
	a[Marking] = clamp01(mar)

	cru := sat(m.a90, 0.04, 0.30)
	if m.fullBackLike() {
		cru += 0.06
	}
	if m.wingerLike() {
		cru += 0.02
	}
	if m.centerBackLike() {
		cru -= 0.06
	}
	a[Crossing] = clamp01(cru)
	return a
}

func keeperScores(a *scores, m *metrics) {
	gpg, csr := m.gkRates()
	mp := float64(m.mp)
	a[Reflexes] = clamp01(0.55*sat(1-gpg, 0.05, 0.55) + 0.45*sat(csr, 0.15, 0.55))
	a[Positioning] = clamp01(0.65*sat(csr, 0.15, 0.60) + 0.35*sat(mp, 900, 4000))
	a[Sweeping] = clamp01(0.78*sat(m.height, 1.80, 2.05) + 0.22*sat(mp, 900, 3500))
	a[PenaltySave] = clamp01(0.50*sat(float64(m.penaltyGoals), 0, 6) + 0.50*sat(mp, 900, 4000))
}
