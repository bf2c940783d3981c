// Package forecast provee el pronóstico de demanda que alimenta al motor de
// rebalanceo cuando la corrida lo pide.
package forecast

import (
	"context"
	"math"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/ports"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/entity"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/inventory"
)

const (
	trendTop     = 1.10
	trendRest    = 0.95
	lowVelocity  = 0.1
	lowVelBump   = 0.05
	leadTimeHub  = 3.5
	leadTimeRest = 7.2
	maxFactors   = 3
)

// HeuristicPredictor pronóstico por reglas: tendencia según categoría,
// lead time según el tipo de destino y riesgo por cobertura.
type HeuristicPredictor struct {
	demand inventory.DemandEstimator
	detect inventory.Detector
}

var _ ports.DemandPredictor = (*HeuristicPredictor)(nil)

// NewHeuristicPredictor construye el predictor con los parámetros del motor.
func NewHeuristicPredictor(p inventory.Params) *HeuristicPredictor {
	return &HeuristicPredictor{
		demand: inventory.NewDemandEstimator(p),
		detect: inventory.NewDetector(p.Keywords),
	}
}

// Predict devuelve una predicción por producto para el destino.
func (h *HeuristicPredictor) Predict(ctx context.Context, products []entity.ProductSnapshot, destination entity.Warehouse) (map[string]inventory.Prediction, error) {
	hub := h.detect.IsDistribution(destination)
	out := make(map[string]inventory.Prediction, len(products))
	for i := range products {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := &products[i]
		out[p.ID] = h.predict(p, destination.ID, hub)
	}
	return out, nil
}

func (h *HeuristicPredictor) predict(p *entity.ProductSnapshot, destID string, hub bool) inventory.Prediction {
	vHist := h.demand.Historical(p.Sales(destID))
	trend := trendRest
	if p.ABCGlobal.IsTop() {
		trend = trendTop
	}
	v := vHist * trend
	if vHist < lowVelocity {
		v += lowVelBump
	}

	lt := leadTimeRest
	if hub {
		lt = leadTimeHub
	}

	var risk float64
	if v > 0 {
		switch cov := p.Stock(destID) / v; {
		case cov < 3:
			risk = 0.85
		case cov < 7:
			risk = 0.45
		default:
			risk = 0.10
		}
	}

	var factors []string
	if v > vHist {
		factors = append(factors, "High projected demand (7d)")
	}
	if risk > 0.5 {
		factors = append(factors, "Imminent stockout risk")
	}
	if p.ABCGlobal == entity.TierAA {
		factors = append(factors, "Strategic AA priority")
	}
	if len(factors) > maxFactors {
		factors = factors[:maxFactors]
	}

	return inventory.Prediction{
		Velocity:     roundTo(v, 3),
		LeadTimeDays: roundTo(lt, 1),
		RiskScore:    roundTo(risk, 2),
		Factors:      factors,
	}
}

func roundTo(x float64, places int) float64 {
	f := math.Pow(10, float64(places))
	return math.Round(x*f) / f
}
