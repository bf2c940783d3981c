package inventory

import (
	"math"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/entity"
)

// Phase fase de reabastecimiento de un producto en un destino.
type Phase string

const (
	PhaseRescue        Phase = "RESCUE"
	PhaseNormalization Phase = "NORMALIZATION"
)

// NeedInput cifras del producto en el destino.
type NeedInput struct {
	Stock        float64
	Pending      float64
	Velocity     float64
	Tier         entity.Tier
	Dairy        bool
	LeadTimeDays float64 // 0 sin predicción

	// TargetTable reemplaza el objetivo por tier salvo el rescate de AA.
	TargetTable map[entity.Tier]float64
}

// NeedResult fase, objetivo y necesidad calculados.
type NeedResult struct {
	Phase                   Phase
	TargetDays              float64
	FloorDays               float64
	RescueWindowDays        float64
	NormalizationWindowDays float64
	WindowDays              float64 // ventana de la fase para acotar el pendiente
	RescueEffectiveStock    float64
	CoverageDays            float64
	PendingCapped           float64
	Need                    float64
	DairyOverride           bool
}

// Needy necesidad de al menos una unidad.
func (r NeedResult) Needy() bool { return r.Need >= 1 }

// NeedCalculator política de dos fases (rescate / normalización).
type NeedCalculator struct {
	p      Params
	demand DemandEstimator
}

// NewNeedCalculator construye la calculadora.
func NewNeedCalculator(p Params) NeedCalculator {
	return NeedCalculator{p: p, demand: NewDemandEstimator(p)}
}

// Windows ventanas de pendiente; con lead time se derivan de él.
func (c NeedCalculator) Windows(leadTimeDays float64) (rescue, normalization float64) {
	if leadTimeDays <= 0 {
		return c.p.RescuePendingWindowDays, c.p.NormalizationPendingWindowDays
	}
	rescue = clamp(math.Trunc(leadTimeDays), 1, c.p.RescuePendingWindowDays)
	normalization = clamp(math.Trunc(leadTimeDays*c.p.LeadTimeNormalizationFactor),
		c.p.RescuePendingWindowDays, c.p.NormalizationPendingWindowDays)
	return rescue, normalization
}

// Compute determina la fase con el pendiente acotado a la ventana de rescate y
// luego la necesidad con la ventana de la fase.
func (c NeedCalculator) Compute(in NeedInput) NeedResult {
	v := math.Max(0, in.Velocity)
	stock := math.Max(0, in.Stock)
	pending := math.Max(0, in.Pending)

	var res NeedResult
	res.RescueWindowDays, res.NormalizationWindowDays = c.Windows(in.LeadTimeDays)
	res.RescueEffectiveStock = stock + math.Min(pending, v*res.RescueWindowDays)
	res.CoverageDays = c.demand.Coverage(res.RescueEffectiveStock, v)

	if res.CoverageDays < c.p.RescueThresholdDays {
		res.Phase = PhaseRescue
		res.FloorDays = c.p.RescueFloorDays
		res.WindowDays = res.RescueWindowDays
		res.TargetDays = c.p.RescueTargetDays
		if in.Tier == entity.TierAA {
			res.TargetDays = c.p.RescueTargetDaysAA
		}
	} else {
		res.Phase = PhaseNormalization
		res.FloorDays = c.p.NormalizationFloorDays
		res.WindowDays = res.NormalizationWindowDays
		res.TargetDays = c.p.NormalizationTargetDays
	}

	if in.TargetTable != nil && !(res.Phase == PhaseRescue && in.Tier == entity.TierAA) {
		res.TargetDays = lookup(in.TargetTable, in.Tier)
	}
	c.applyDairyOverride(in, &res)

	res.PendingCapped = math.Min(pending, v*res.WindowDays)
	res.Need = math.Max(0, res.TargetDays*v-stock-res.PendingCapped)
	return res
}

// applyDairyOverride lácteos perecibles de tier AA/A se contienen a pocos días.
func (c NeedCalculator) applyDairyOverride(in NeedInput, res *NeedResult) {
	if in.Dairy && in.Tier.IsTop() {
		res.TargetDays = c.p.DairyTargetDays
		res.DairyOverride = true
	}
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
