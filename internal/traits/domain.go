package traits

import "github.com/ryanadelino-stack/compiler-api/internal/normalize"

// Domain is the role family that selects the candidate menu and boosts.
type Domain int

const (
	DomainGK Domain = iota
	DomainCenterBack
	DomainFullBack
	DomainDefMid
	DomainTechMid
	DomainMixMid
	DomainAttMid
	DomainWinger
	DomainStriker
	DomainDropStriker
)

var domainNames = map[Domain]string{
	DomainGK:          "GK",
	DomainCenterBack:  "DEF_CB",
	DomainFullBack:    "FB",
	DomainDefMid:      "MID_DM",
	DomainTechMid:     "MID_CM_TECH",
	DomainMixMid:      "MID_CM_MIX",
	DomainAttMid:      "MID_AM",
	DomainWinger:      "FWD_WING",
	DomainStriker:     "FWD_ST",
	DomainDropStriker: "FWD_DROP",
}

func (d Domain) String() string {
	if s, ok := domainNames[d]; ok {
		return s
	}
	return "UNKNOWN"
}

func resolveDomain(m *metrics) Domain {
	switch {
	case m.pos == normalize.Goalkeeper:
		return DomainGK
	case m.centerBackLike():
		return DomainCenterBack
	case m.fullBackLike():
		return DomainFullBack
	}

	switch m.pos {
	case normalize.Midfield:
		switch {
		case m.defMidLike():
			return DomainDefMid
		case m.attMidLike():
			return DomainAttMid
		case m.c90 >= 0.30 && m.a90 < 0.12 && m.g90 < 0.12:
			return DomainMixMid
		}
		return DomainTechMid
	case normalize.Forward:
		switch {
		case m.wingerLike():
			return DomainWinger
		case m.dropStrikerLike():
			return DomainDropStriker
		}
		return DomainStriker
	}
	return DomainTechMid
}

func p(a, b Trait) Pair { return Pair{A: a, B: b} }

// menus lists each domain's candidate pairs in evaluation order. Order
// matters: on an exact score tie the earlier pair keeps the lead.
var menus = map[Domain][]Pair{
	DomainGK: {
		p(Positioning, Reflexes), p(Reflexes, Positioning), p(Reflexes, PenaltySave),
		p(PenaltySave, Reflexes), p(Sweeping, Reflexes), p(Reflexes, Sweeping),
		p(Positioning, PenaltySave), p(PenaltySave, Positioning), p(Sweeping, PenaltySave),
		p(PenaltySave, Sweeping), p(Sweeping, Positioning), p(Positioning, Sweeping),
	},
	DomainCenterBack: {
		p(Tackling, Marking), p(Marking, Tackling), p(Tackling, Passing), p(Marking, Passing),
		p(Tackling, Stamina), p(Marking, Stamina), p(Marking, Pace), p(Tackling, Heading),
		p(Heading, Tackling), p(Marking, Heading), p(Heading, Marking),
	},
	DomainFullBack: {
		p(Marking, Crossing), p(Crossing, Marking), p(Marking, Finishing), p(Marking, Pace),
		p(Pace, Marking), p(Tackling, Crossing), p(Crossing, Tackling), p(Pace, Passing),
		p(Passing, Pace), p(Crossing, Pace), p(Pace, Crossing), p(Crossing, Passing),
		p(Crossing, Finishing),
	},
	DomainDefMid: {
		p(Tackling, Passing), p(Marking, Passing), p(Marking, Stamina), p(Tackling, Stamina),
		p(Tackling, Marking), p(Marking, Tackling), p(Marking, Finishing), p(Tackling, Finishing),
		p(Tackling, Pace),
	},
	DomainTechMid: {
		p(Passing, Pace), p(Pace, Passing), p(Passing, Stamina), p(Playmaking, Pace),
		p(Playmaking, Dribbling), p(Dribbling, Passing), p(Passing, Dribbling), p(Playmaking, Passing),
	},
	DomainMixMid: {
		p(Tackling, Pace), p(Tackling, Passing), p(Marking, Passing), p(Tackling, Stamina),
		p(Marking, Stamina), p(Tackling, Marking), p(Marking, Finishing), p(Tackling, Finishing),
	},
	DomainAttMid: {
		p(Playmaking, Finishing), p(Playmaking, Passing), p(Playmaking, Dribbling), p(Dribbling, Passing),
		p(Finishing, Passing), p(Passing, Finishing), p(Passing, Playmaking), p(Finishing, Playmaking),
	},
	DomainWinger: {
		p(Pace, Finishing), p(Finishing, Pace), p(Pace, Dribbling),
		p(Dribbling, Pace), p(Finishing, Dribbling), p(Dribbling, Finishing),
	},
	DomainStriker: {
		p(Finishing, Passing), p(Finishing, Heading), p(Heading, Finishing), p(Finishing, Dribbling),
		p(Finishing, Stamina), p(Finishing, Pace), p(Pace, Finishing), p(Heading, Pace),
	},
	DomainDropStriker: {
		p(Dribbling, Passing), p(Dribbling, Finishing), p(Passing, Finishing),
	},
}

var fallbacks = map[Domain]Pair{
	DomainGK:          p(Positioning, Reflexes),
	DomainCenterBack:  p(Marking, Tackling),
	DomainFullBack:    p(Crossing, Pace),
	DomainDefMid:      p(Tackling, Marking),
	DomainTechMid:     p(Playmaking, Passing),
	DomainMixMid:      p(Tackling, Pace),
	DomainAttMid:      p(Playmaking, Finishing),
	DomainWinger:      p(Pace, Dribbling),
	DomainStriker:     p(Finishing, Dribbling),
	DomainDropStriker: p(Dribbling, Passing),
}

// Candidates returns a copy of the domain's candidate menu.
func (d Domain) Candidates() []Pair {
	return append([]Pair(nil), menus[d]...)
}

// Fallback is the pair used when nothing can be scored.
func (d Domain) Fallback() Pair {
	if fb, ok := fallbacks[d]; ok {
		return fb
	}
	return fallbacks[DomainTechMid]
}

// fallbackSecond is the first candidate that differs from primary.
func (d Domain) fallbackSecond(primary Pair) Pair {
	for _, c := range menus[d] {
		if c != primary {
			return c
		}
	}
	return d.Fallback()
}
