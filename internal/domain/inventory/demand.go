package inventory

import (
	"math"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/entity"
)

// Prediction aporte opcional de un pronóstico externo para un producto.
type Prediction struct {
	Velocity     float64  `json:"velocity"`
	LeadTimeDays float64  `json:"lead_time_days"`
	RiskScore    float64  `json:"risk_score"`
	Factors      []string `json:"factors,omitempty"`
}

// Origen de la velocidad estimada.
const (
	VelocityFromHistory = "history"
	VelocityBlended     = "blended"
	VelocityFromNetwork = "network"
)

// Velocity velocidad diaria estimada para un producto en un warehouse.
type Velocity struct {
	Value      float64
	Historical float64
	Source     string
	Inert      bool // sin demanda ni stock: se excluye del análisis
}

// DemandEstimator convierte ventas de la ventana en unidades por día.
type DemandEstimator struct {
	p Params
}

// NewDemandEstimator construye el estimador.
func NewDemandEstimator(p Params) DemandEstimator {
	return DemandEstimator{p: p}
}

// Historical ventas de la ventana / días de la ventana.
func (e DemandEstimator) Historical(sales float64) float64 {
	if e.p.WindowDays <= 0 || sales <= 0 {
		return 0
	}
	return sales / e.p.WindowDays
}

// Estimate velocidad del producto en el warehouse. Con predicción mezcla
// (1-w)*histórica + w*predicha. Si queda en el piso y la red vende, usa la
// venta promedio por warehouse activo.
func (e DemandEstimator) Estimate(p *entity.ProductSnapshot, warehouseID string, activeWarehouses int, pred *Prediction) Velocity {
	hist := e.Historical(p.Sales(warehouseID))
	out := Velocity{Value: hist, Historical: hist, Source: VelocityFromHistory}
	if pred != nil {
		w := e.p.PredictionWeight
		out.Value = (1-w)*hist + w*math.Max(0, pred.Velocity)
		out.Source = VelocityBlended
	}

	stock := p.Stock(warehouseID)
	if out.Value <= 0 && stock <= 0 {
		out.Value = 0
		out.Inert = true
		return out
	}

	if out.Value <= e.p.MinVelocity {
		if network := p.TotalSales(); network > 0 {
			n := math.Max(1, float64(activeWarehouses))
			out.Value = math.Max(e.p.MinVelocity, network/n/e.p.WindowDays)
			out.Source = VelocityFromNetwork
		}
	}
	if out.Value <= e.p.MinVelocity && stock <= 0 {
		out.Inert = true
	}
	return out
}

// DonorVelocity velocidad propia de un donante, nunca por debajo del piso.
func (e DemandEstimator) DonorVelocity(sales float64) float64 {
	return math.Max(e.p.MinVelocity, e.Historical(sales))
}

// Coverage días de cobertura; velocidad 0 equivale a cobertura "infinita".
func (e DemandEstimator) Coverage(stock, velocity float64) float64 {
	if velocity <= 0 {
		return e.p.InfiniteCoverage
	}
	return stock / math.Max(velocity, e.p.MinVelocity)
}
