package inventory

import "github.com/andyspruebas-jpg/Stock-Pro/internal/domain/entity"

// Params configuración inmutable del motor de rebalanceo. Se pasa por valor;
// el paquete no guarda estado global.
type Params struct {
	WindowDays       float64 // ventana de ventas (días)
	MinVelocity      float64 // piso de velocidad para razones de cobertura
	InfiniteCoverage float64 // centinela de cobertura cuando la velocidad es 0
	PredictionWeight float64 // peso de la predicción externa en la mezcla

	RescueThresholdDays            float64
	RescueTargetDays               float64
	RescueTargetDaysAA             float64
	NormalizationTargetDays        float64
	RescuePendingWindowDays        float64
	NormalizationPendingWindowDays float64
	RescueFloorDays                float64
	NormalizationFloorDays         float64
	LeadTimeNormalizationFactor    float64
	DairyTargetDays                float64

	DonorSafetyUnits    float64 // tope del colchón fijo del donante
	DonorSafetyFraction float64 // fracción del stock para el colchón fijo
	DonorMinFraction    float64 // reserva mínima como fracción del stock
	RiskMarginDays      float64
	RiskPenaltyPerDay   float64
	ProposedPlanSize    int
	AlternatesSize      int

	Pairwise PairwiseParams
	Keywords KeywordParams
	ABC      ABCParams
}

// PairwiseParams tablas del evaluador origen→destino.
type PairwiseParams struct {
	TargetCoverage map[entity.Tier]float64
	ProtectionDays map[entity.Tier]float64
	MicroThreshold map[entity.Tier]float64
	TierPoints     map[entity.Tier]float64

	MinScore          float64
	MediumScore       float64
	TightSourceFactor float64

	ShareWeight         float64
	UrgencyWeight       float64
	SalesVolumeTiers    []VolumeTier
	PendingCoversPoints float64 // pendiente cubre toda la necesidad
	PendingSomePoints   float64 // pendiente parcial
	NoPendingPoints     float64

	BranchBonusStep      float64
	BranchBonusCap       float64
	SellingBranchMinimum float64
}

// VolumeTier puntos por volumen absoluto de ventas en destino.
type VolumeTier struct {
	MinUnits float64
	Points   float64
}

// KeywordParams palabras clave de respaldo cuando el snapshot no trae atributos explícitos.
type KeywordParams struct {
	Dairy        []string
	DairyExclude []string
	Distribution []string
}

// ABCParams parámetros del clasificador aplicados a la red.
type ABCParams struct {
	Breakpoints         Breakpoints
	GlobalForceAAUnits  float64 // 0 desactiva el umbral
	RevenueForceAAValue float64
}

// DefaultParams valores por defecto del motor.
func DefaultParams() Params {
	return Params{
		WindowDays:       30,
		MinVelocity:      0.01,
		InfiniteCoverage: 999,
		PredictionWeight: 0.7,

		RescueThresholdDays:            7,
		RescueTargetDays:               7,
		RescueTargetDaysAA:             3,
		NormalizationTargetDays:        15,
		RescuePendingWindowDays:        7,
		NormalizationPendingWindowDays: 21,
		RescueFloorDays:                15,
		NormalizationFloorDays:         45,
		LeadTimeNormalizationFactor:    1.2,
		DairyTargetDays:                3,

		DonorSafetyUnits:    5,
		DonorSafetyFraction: 0.5,
		DonorMinFraction:    0.1,
		RiskMarginDays:      5,
		RiskPenaltyPerDay:   5,
		ProposedPlanSize:    2,
		AlternatesSize:      4,

		Pairwise: PairwiseParams{
			TargetCoverage: uniformTierTable(15),
			ProtectionDays: uniformTierTable(7),
			MicroThreshold: map[entity.Tier]float64{
				entity.TierAA: 3, entity.TierA: 3,
				entity.TierB: 6, entity.TierC: 6, entity.TierD: 6, entity.TierE: 6,
			},
			TierPoints: map[entity.Tier]float64{
				entity.TierAA: 30, entity.TierA: 25, entity.TierB: 18,
				entity.TierC: 10, entity.TierD: 0, entity.TierE: 0,
			},
			MinScore:          40,
			MediumScore:       60,
			TightSourceFactor: 1.5,

			ShareWeight:   20,
			UrgencyWeight: 40,
			SalesVolumeTiers: []VolumeTier{
				{MinUnits: 30, Points: 20},
				{MinUnits: 15, Points: 12},
				{MinUnits: 5, Points: 6},
			},
			PendingCoversPoints: 0,
			PendingSomePoints:   5,
			NoPendingPoints:     10,

			BranchBonusStep:      0.5,
			BranchBonusCap:       5,
			SellingBranchMinimum: 0.001,
		},
		Keywords: KeywordParams{
			Dairy:        []string{"LECHE"},
			DairyExclude: []string{"POLVO"},
			Distribution: []string{"ALMACEN", "CENTRAL", "PISO 3", "DISTRIBUCION"},
		},
		ABC: ABCParams{
			Breakpoints:        DefaultBreakpoints,
			GlobalForceAAUnits: 2000,
		},
	}
}

func uniformTierTable(v float64) map[entity.Tier]float64 {
	m := make(map[entity.Tier]float64, len(entity.Tiers))
	for _, t := range entity.Tiers {
		m[t] = v
	}
	return m
}

// lookup valor de la tabla para el tier; si falta, usa el de E.
func lookup(table map[entity.Tier]float64, t entity.Tier) float64 {
	if v, ok := table[t]; ok {
		return v
	}
	return table[entity.TierE]
}
