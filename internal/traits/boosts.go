package traits

// boost returns the domain-specific adjustment for one pair.
func boost(d Domain, pr Pair, m *metrics) float64 {
	switch d {
	case DomainGK:
		return boostKeeper(pr, m)
	case DomainCenterBack:
		return boostCenterBack(pr, m)
	case DomainFullBack:
		return boostFullBack(pr, m)
	case DomainDefMid:
		return boostDefMid(pr, m)
	case DomainTechMid, DomainMixMid:
		return boostCentralMid(pr, m, d)
	case DomainAttMid:
		return boostAttMid(pr, m)
	case DomainWinger:
		return boostWinger(pr, m)
	case DomainStriker:
		return boostStriker(pr, m)
	}
	return 0
}

// staminaTerm keeps Stamina rare outside genuine endurance profiles.
func staminaTerm(pr Pair, m *metrics) float64 {
	if !pr.Has(Stamina) {
		return 0
	}
	if m.enduranceMotor() {
		return 0.08
	}
	return -0.20
}

func boostKeeper(pr Pair, m *metrics) float64 {
	gpg, csr := m.gkRates()
	var b float64

	// Established keeper with a long record.
	if m.mp >= 30000 && csr >= 0.30 && gpg <= 1.15 && (!m.hasAge || m.age >= 32) {
		if pr.IsEither(Positioning, Reflexes) {
			b += 0.10
		}
		if pr.IsEither(Positioning, Sweeping) {
			b -= 0.05
		}
	}

	// Veteran shot-stopper with a solid clean-sheet rate.
	if m.hasAge && m.age >= 30 && m.played > 100 && csr > 0.30 {
		if pr.Is(Reflexes, PenaltySave) {
			b += 0.40
		}
	}

	if m.ageAtMost(27) && m.mp >= 4000 && gpg <= 1.10 {
		if pr.IsEither(Positioning, Reflexes) {
			b += 0.06
		} else {
			b -= 0.08
		}
	}

	if m.height >= 1.95 && m.mp >= 8000 && csr >= 0.30 {
		if pr.Is(Sweeping, Reflexes) {
			b += 0.08
		}
		if pr.Is(Sweeping, Positioning) {
			b -= 0.02
		}
	}

	if m.height >= 2.00 && m.mp >= 2500 && pr.A == Sweeping {
		b += 0.05
	}

	// Unsteady keeper: many conceded, few clean sheets.
	if gpg >= 1.55 && csr <= 0.22 && pr.IsEither(Positioning, PenaltySave) {
		b += 0.06
	}
	return b
}

func boostCenterBack(pr Pair, m *metrics) float64 {
	var b float64

	headerOK := m.height >= 1.85 ||
		(m.mp >= 1800 && m.g90 >= 0.10) ||
		(m.mp >= 12000 && m.goals >= 15)
	if pr.Has(Heading) && !headerOK {
		b -= 0.22
	}

	if m.height >= 1.86 && m.mp >= 1800 && m.c90 <= 0.22 && pr.IsEither(Marking, Heading) {
		b += 0.04
	}

	if m.mp >= 1800 && m.g90 >= 0.10 {
		if pr.IsEither(Marking, Heading) {
			b += 0.06
		}
		if pr.IsEither(Tackling, Heading) {
			b += 0.03
		}
	}

	if m.height >= 1.85 && m.mp >= 1800 && m.g90 >= 0.08 {
		if pr.Is(Marking, Heading) {
			b += 0.04
		}
		if pr.Is(Tackling, Heading) {
			b += 0.02
		}
	}

	// Card rate splits Marking/Heading from Tackling/Heading.
	if pr.Is(Marking, Heading) {
		if m.c90 >= 0.22 {
			b += 0.02
		} else {
			b -= 0.02
		}
	}
	if pr.Is(Tackling, Heading) {
		if m.c90 < 0.22 {
			b += 0.02
		} else {
			b -= 0.02
		}
	}

	if m.rotation >= 0.35 && m.g90 < 0.06 && pr.Is(Marking, Pace) {
		b += 0.04
	}

	// Scoring, combative center back.
	if headerOK && m.mp >= 1800 && m.g90 >= 0.09 && m.c90 >= 0.22 {
		if pr.Is(Marking, Heading) {
			b += 0.06
		}
		if pr.Is(Marking, Stamina) {
			b -= 0.10
		}
		if pr.Is(Tackling, Stamina) {
			b -= 0.08
		}
	}

	if pr.Has(Stamina) {
		if m.enduranceMotor() {
			b -= 0.12
		} else {
			b -= 0.35
		}
	}
	return b
}

func boostFullBack(pr Pair, m *metrics) float64 {
	var b float64

	veryAttacking := m.a90 >= 0.08 || m.p90 >= 0.12 || m.g90 >= 0.06
	attacking := m.a90 >= 0.06 || m.p90 >= 0.10
	defensive := (m.a90 <= 0.05 && m.p90 <= 0.09) || m.c90 >= 0.18

	switch {
	case veryAttacking:
		if pr.IsEither(Crossing, Pace) {
			b += 0.55
		}
		if pr.IsEither(Crossing, Passing) {
			b += 0.40
		}
		if pr.IsEither(Pace, Passing) {
			b += 0.22
		}
		if pr.IsEither(Finishing, Crossing) {
			b += 0.12
		}
		if pr.Has(Marking) {
			b -= 0.28
		}
		if pr.IsEither(Marking, Crossing) {
			b -= 0.18
		}
		if pr.IsEither(Marking, Pace) {
			b -= 0.25
		}
	case attacking:
		if pr.Has(Crossing) {
			b += 0.12
		}
		if pr.IsEither(Crossing, Pace) {
			b += 0.18
		}
		if pr.IsEither(Crossing, Passing) {
			b += 0.10
		}
		if pr.IsEither(Marking, Pace) {
			b -= 0.08
		}
	}

	if defensive {
		if pr.Has(Marking) {
			b += 0.10
		}
		if pr.IsEither(Marking, Crossing) {
			b += 0.22
		}
		if pr.IsEither(Marking, Pace) {
			b -= 0.10
		}
	}
	return b
}

func boostDefMid(pr Pair, m *metrics) float64 {
	var b float64

	// Holding midfielder: many cards, little output.
	if m.c90 >= 0.24 && m.p90 < 0.08 {
		if pr.Is(Tackling, Marking) {
			b += 0.12
		}
		if pr.Is(Marking, Stamina) || pr.Is(Tackling, Stamina) {
			b -= 0.10
		}
	}

	// Deep playmaker.
	switch {
	case m.a90 >= 0.09 && m.p90 >= 0.16 && m.c90 < 0.22:
		if pr.Is(Marking, Passing) {
			b += 0.08
		}
		if pr.Is(Tackling, Passing) {
			b += 0.06
		}
		if pr.IsEither(Marking, Tackling) {
			b -= 0.05
		}
	case m.a90 >= 0.10 && m.p90 >= 0.14:
		if pr.Is(Marking, Passing) {
			b += 0.05
		}
		if pr.Is(Tackling, Passing) {
			b += 0.04
		}
	}

	if m.g90 >= 0.12 && (pr.Is(Marking, Finishing) || pr.Is(Tackling, Finishing)) {
		b += 0.03
	}

	if pr.Has(Stamina) && !m.enduranceMotor() {
		b -= 0.10
	}
	return b
}

func boostCentralMid(pr Pair, m *metrics, d Domain) float64 {
	var b float64

	if pr.Has(Stamina) {
		b -= 0.02
	}
	if m.rotation < 0.65 && pr.Has(Pace) {
		b -= 0.02
	}

	if m.p90 >= 0.15 {
		if pr.Is(Passing, Dribbling) {
			b += 0.02
		}
		if pr.Is(Dribbling, Passing) {
			b += 0.01
		}
	}

	if d == DomainMixMid && m.c90 >= 0.30 && pr.Is(Tackling, Pace) {
		b += 0.02
	}

	if m.a90 >= 0.06 && m.p90 >= 0.14 && m.c90 <= 0.30 {
		if pr.Is(Marking, Passing) {
			b += 0.14
		}
		if pr.Is(Marking, Tackling) {
			b -= 0.08
		}
	}
	return b
}

func boostAttMid(pr Pair, m *metrics) float64 {
	var b float64

	if m.a90 >= 0.17 && m.p90 >= 0.28 && m.g90 < 0.22 {
		if pr.Is(Playmaking, Passing) {
			b += 0.07
		}
		if pr.Is(Passing, Playmaking) {
			b += 0.03
		}
		if pr.Is(Dribbling, Passing) {
			b -= 0.03
		}
	}
	if m.a90 >= 0.22 && m.g90 < 0.18 && pr.Is(Passing, Playmaking) {
		b += 0.04
	}

	if m.g90 >= 0.28 || m.mpg <= 240 {
		if pr.Is(Finishing, Passing) {
			b += 0.04
		}
		if pr.Is(Playmaking, Finishing) {
			b += 0.02
		}
	}

	switch {
	case m.a90 >= 0.18 && m.g90 >= 0.18:
		if pr.Is(Passing, Finishing) {
			b += 0.14
		}
		if pr.Is(Finishing, Passing) {
			b += 0.06
		}
		if pr.Is(Dribbling, Passing) {
			b -= 0.06
		}
	case m.a90 >= 0.15 && m.g90 >= 0.20:
		if pr.Is(Passing, Finishing) {
			b += 0.06
		}
		if pr.Is(Finishing, Passing) {
			b += 0.02
		}
	}

	if m.a90 >= 0.16 && m.g90 >= 0.18 && pr.Is(Playmaking, Finishing) {
		b += 0.04
	}
	if pr.Is(Finishing, Playmaking) {
		if m.g90 >= 0.32 && m.a90 >= 0.12 {
			b += 0.04
		} else {
			b -= 0.02
		}
	}

	if m.rotation >= 0.45 && m.p90 >= 0.30 && pr.Is(Dribbling, Passing) {
		if m.a90 < 0.18 || m.g90 >= 0.20 {
			b += 0.04
		}
		if m.a90 >= 0.18 && m.g90 < 0.18 {
			b -= 0.03
		}
	}

	// Decisive attacking midfielder.
	if m.g90 >= 0.20 && m.a90 >= 0.08 && m.p90 >= 0.25 {
		if pr.Is(Playmaking, Finishing) {
			b += 0.16
		}
		if pr.Is(Dribbling, Passing) {
			b -= 0.10
		}
	}
	return b
}

func boostWinger(pr Pair, m *metrics) float64 {
	var b float64

	switch {
	case m.p90 >= 0.38 && (m.g90 >= 0.16 || m.a90 >= 0.16):
		if pr.Is(Finishing, Dribbling) {
			b += 0.20
		}
		if pr.Is(Dribbling, Finishing) {
			b += 0.12
		}
		if pr.Is(Pace, Dribbling) {
			b -= 0.10
		}
		if pr.Is(Dribbling, Pace) {
			b -= 0.12
		}
		if pr.Is(Pace, Finishing) {
			b -= 0.06
		}
		if pr.Is(Finishing, Pace) {
			b -= 0.04
		}
		if m.p90 >= 0.36 && m.g90 >= 0.22 && m.a90 >= 0.14 {
			if pr.Is(Finishing, Pace) {
				b += 0.16
			}
			if pr.Is(Pace, Finishing) {
				b += 0.12
			}
			if pr.Is(Finishing, Dribbling) {
				b -= 0.08
			}
			if pr.Is(Dribbling, Finishing) {
				b -= 0.04
			}
		}
	case m.p90 >= 0.30 && m.g90 >= 0.18:
		if m.p90 >= 0.38 && m.a90 >= 0.20 && m.g90 >= 0.14 {
			if pr.Is(Finishing, Dribbling) {
				b += 0.10
			}
			if pr.Is(Dribbling, Finishing) {
				b -= 0.06
			}
		}
		if pr.Is(Finishing, Dribbling) {
			b += 0.06
		}
		if pr.Is(Dribbling, Finishing) {
			b += 0.04
		}
	}

	// Prolific scorer: pace and finishing over dribbling.
	if m.g90 >= 0.30 {
		if pr.IsEither(Pace, Finishing) {
			b += 0.14
		}
		if pr.Is(Finishing, Dribbling) {
			b -= 0.06
		}
		if pr.Is(Dribbling, Finishing) {
			b -= 0.05
		}
	}

	if m.ageAtMost(21) && m.g90 >= 0.30 && m.a90 < 0.12 {
		if pr.Is(Finishing, Pace) {
			b += 0.25
		}
		if pr.Is(Pace, Finishing) {
			b += 0.18
		}
		if pr.Is(Finishing, Dribbling) {
			b -= 0.20
		}
		if pr.Is(Dribbling, Finishing) {
			b -= 0.15
		}
	}
	return b
}

func boostStriker(pr Pair, m *metrics) float64 {
	var b float64

	if m.height >= 1.88 && m.g90 >= 0.22 {
		if pr.Is(Finishing, Heading) {
			b += 0.06
		}
		if pr.Is(Heading, Finishing) {
			b += 0.03
		}
	}

	if m.height >= 1.80 && m.g90 >= 0.42 && m.mpg <= 210 && pr.Is(Finishing, Heading) {
		b += 0.08
	}

	if m.height >= 1.90 && m.rotation >= 0.45 && pr.Is(Heading, Pace) {
		b += 0.04
	}

	// Young, mobile finisher.
	if m.ageAtMost(20) && m.rotation >= 0.33 && m.g90 >= 0.28 {
		if pr.Is(Heading, Pace) {
			b += 0.14
		}
		if pr.Is(Finishing, Pace) {
			b += 0.06
		}
		if m.a90 >= 0.12 && m.g90 >= 0.35 {
			if pr.Is(Finishing, Dribbling) {
				b += 0.12
			}
			if pr.Is(Dribbling, Finishing) {
				b += 0.08
			}
		} else {
			if pr.Is(Finishing, Dribbling) {
				b -= 0.08
			}
			if pr.Is(Dribbling, Finishing) {
				b -= 0.05
			}
		}
	}
	return b
}
