package game

// Band is a coarse proximity bucket used for spoken hints.
type Band int

const (
	BandUnknown Band = iota - 1
	BandCold
	BandWarm
	BandHot
	BandBurning
)

var bandFloors = [...]float64{BandWarm: 0.25, BandHot: 0.5, BandBurning: 0.8}

// BandFor buckets a proximity.
func BandFor(p float64) Band {
	switch {
	case p >= bandFloors[BandBurning]:
		return BandBurning
	case p >= bandFloors[BandHot]:
		return BandHot
	case p >= bandFloors[BandWarm]:
		return BandWarm
	default:
		return BandCold
	}
}

func (b Band) String() string {
	switch b {
	case BandCold:
		return "cold"
	case BandWarm:
		return "warm"
	case BandHot:
		return "hot"
	case BandBurning:
		return "burning"
	default:
		return "unknown"
	}
}

// Hint is the spoken line for entering b.
func (b Band) Hint(closer bool) string {
	if !closer {
		switch b {
		case BandCold:
			return "Cold."
		default:
			return "Colder. " + capitalize(b.String()) + "."
		}
	}
	switch b {
	case BandBurning:
		return "Burning hot!"
	default:
		return "Warmer. " + capitalize(b.String()) + "."
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
