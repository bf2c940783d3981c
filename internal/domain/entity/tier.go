package entity

// Tier categoría ABC ordinal. AA es la más crítica comercialmente.
type Tier string

const (
	TierAA Tier = "AA"
	TierA  Tier = "A"
	TierB  Tier = "B"
	TierC  Tier = "C"
	TierD  Tier = "D"
	TierE  Tier = "E"
)

// Tiers en orden de criticidad descendente.
var Tiers = []Tier{TierAA, TierA, TierB, TierC, TierD, TierE}

// Rank devuelve la posición ordinal (0 = AA). Un valor desconocido cuenta como E.
func (t Tier) Rank() int {
	switch t {
	case TierAA:
		return 0
	case TierA:
		return 1
	case TierB:
		return 2
	case TierC:
		return 3
	case TierD:
		return 4
	default:
		return 5
	}
}

// Valid indica si t es uno de los seis valores conocidos.
func (t Tier) Valid() bool {
	switch t {
	case TierAA, TierA, TierB, TierC, TierD, TierE:
		return true
	}
	return false
}

// Better devuelve la categoría más crítica entre t y o.
func (t Tier) Better(o Tier) Tier {
	if o.Rank() < t.Rank() {
		return o
	}
	return t
}

// IsTop indica AA o A.
func (t Tier) IsTop() bool { return t == TierAA || t == TierA }

// ParseTier normaliza un texto a Tier; lo desconocido se trata como E.
func ParseTier(s string) Tier {
	t := Tier(s)
	if t.Valid() {
		return t
	}
	return TierE
}
