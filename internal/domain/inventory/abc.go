package inventory

import (
	"math"
	"sort"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/entity"
)

// epsilon valor mínimo para considerar activa una entidad.
const epsilon = 1e-6

// Breakpoints límites porcentuales (acumulados) para AA, A, B y C; el resto es D.
type Breakpoints [4]float64

// DefaultBreakpoints tabla canónica 1/5/20/50.
var DefaultBreakpoints = Breakpoints{1, 5, 20, 50}

func (b Breakpoints) tierFor(pct float64) entity.Tier {
	switch {
	case pct <= b[0]:
		return entity.TierAA
	case pct <= b[1]:
		return entity.TierA
	case pct <= b[2]:
		return entity.TierB
	case pct <= b[3]:
		return entity.TierC
	default:
		return entity.TierD
	}
}

// Segment resultado de la clasificación de una entidad.
type Segment struct {
	Tier          entity.Tier `json:"tier"`
	SharePct      float64     `json:"share"`
	CumulativePct float64     `json:"cumulative"`
}

// Ranked entidad activa en el orden de clasificación (Position desde 0).
type Ranked struct {
	ID       string
	Value    float64
	Position int
}

// Override regla de negocio aplicada después de la regla percentil.
type Override func(r Ranked, current entity.Tier) entity.Tier

// LeaderOverride la entidad de mayor valor siempre es AA.
func LeaderOverride(r Ranked, current entity.Tier) entity.Tier {
	if r.Position == 0 {
		return entity.TierAA
	}
	return current
}

// ForceTopThreshold fuerza AA a toda entidad con valor >= threshold.
func ForceTopThreshold(threshold float64) Override {
	return func(r Ranked, current entity.Tier) entity.Tier {
		if r.Value >= threshold {
			return entity.TierAA
		}
		return current
	}
}

type classifyConfig struct {
	breakpoints Breakpoints
	overrides   []Override
}

// ClassifyOption ajusta una llamada a Classify.
type ClassifyOption func(*classifyConfig)

// WithBreakpoints reemplaza la tabla percentil.
func WithBreakpoints(b Breakpoints) ClassifyOption {
	return func(c *classifyConfig) { c.breakpoints = b }
}

// WithForceTopThreshold agrega el umbral absoluto de AA.
func WithForceTopThreshold(threshold float64) ClassifyOption {
	return func(c *classifyConfig) { c.overrides = append(c.overrides, ForceTopThreshold(threshold)) }
}

// WithOverrides agrega reglas posteriores.
func WithOverrides(o ...Override) ClassifyOption {
	return func(c *classifyConfig) { c.overrides = append(c.overrides, o...) }
}

// WithoutOverrides deja sólo la regla percentil.
func WithoutOverrides() ClassifyOption {
	return func(c *classifyConfig) { c.overrides = nil }
}

// Classify asigna una categoría ABC a cada entidad según su participación
// acumulada en el total y su posición en el ranking; gana la más crítica.
// Valores negativos cuentan como 0. Entidades inactivas quedan en E.
func Classify(values map[string]float64, opts ...ClassifyOption) map[string]Segment {
	cfg := classifyConfig{
		breakpoints: DefaultBreakpoints,
		overrides:   []Override{LeaderOverride},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	ranked := make([]Ranked, 0, len(values))
	var total float64
	for id, v := range values {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		ranked = append(ranked, Ranked{ID: id, Value: v})
		total += v
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Value != ranked[j].Value {
			return ranked[i].Value > ranked[j].Value
		}
		return ranked[i].ID < ranked[j].ID
	})

	out := make(map[string]Segment, len(ranked))
	for _, r := range ranked {
		out[r.ID] = Segment{Tier: entity.TierE, SharePct: 0, CumulativePct: 100}
	}
	if total <= 0 {
		return out
	}

	active := 0
	for _, r := range ranked {
		if r.Value > epsilon {
			active++
		}
	}
	if active == 0 {
		return out
	}

	var cum float64
	for i := 0; i < active; i++ {
		r := ranked[i]
		r.Position = i
		cum += r.Value
		cumPct := cum / total * 100
		rankPct := float64(i) / float64(active) * 100

		tier := cfg.breakpoints.tierFor(cumPct).Better(cfg.breakpoints.tierFor(rankPct))
		for _, o := range cfg.overrides {
			tier = o(r, tier)
		}
		out[r.ID] = Segment{
			Tier:          tier,
			SharePct:      round(r.Value/total*100, 2),
			CumulativePct: round(cumPct, 2),
		}
	}
	return out
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
