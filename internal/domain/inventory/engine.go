package inventory

import (
	"fmt"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/entity"
)

// Códigos de exclusión. El texto legible va en Rejection.Reason.
const (
	RejectInvalidInput     = "INVALID_INPUT"
	RejectInert            = "INERT"
	RejectDeadProduct      = "DEAD_PRODUCT"
	RejectSourceNoStock    = "SOURCE_NO_STOCK"
	RejectZeroVelocity     = "ZERO_VELOCITY"
	RejectNeedCovered      = "NEED_COVERED"
	RejectProtection       = "PROTECTION_RESERVE"
	RejectNoQuantity       = "NO_QUANTITY"
	RejectNoDonor          = "NO_DONOR"
	RejectScoreTooLow      = "SCORE_TOO_LOW"
	RejectMediumScoreTight = "MEDIUM_SCORE_TIGHT_SOURCE"
)

// Rejection producto excluido con su motivo; es el único rastro de auditoría.
type Rejection struct {
	ProductID   string   `json:"product_id"`
	ProductName string   `json:"product_name"`
	Code        string   `json:"code"`
	Reason      string   `json:"reason"`
	Score       *float64 `json:"score,omitempty"`
}

// Engine motor de rebalanceo. No guarda estado entre llamadas; es seguro
// para uso concurrente.
type Engine struct {
	p      Params
	demand DemandEstimator
	need   NeedCalculator
	detect Detector
}

// NewEngine construye el motor con sus parámetros.
func NewEngine(p Params) *Engine {
	return &Engine{
		p:      p,
		demand: NewDemandEstimator(p),
		need:   NewNeedCalculator(p),
		detect: NewDetector(p.Keywords),
	}
}

// Params parámetros activos.
func (e *Engine) Params() Params { return e.p }

// Classify clasificación ABC con el umbral opcional de AA.
func (e *Engine) Classify(values map[string]float64, forceTopThreshold *float64) map[string]Segment {
	opts := []ClassifyOption{WithBreakpoints(e.p.ABC.Breakpoints)}
	if forceTopThreshold != nil {
		opts = append(opts, WithForceTopThreshold(*forceTopThreshold))
	}
	return Classify(values, opts...)
}

func reject(p *entity.ProductSnapshot, code, reason string) Rejection {
	return Rejection{ProductID: p.ID, ProductName: p.Name, Code: code, Reason: reason}
}

// guard convierte un pánico sobre un registro en error de entrada inválida,
// para no abortar el lote completo.
func guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", domain.ErrInvalidInput, r)
		}
	}()
	fn()
	return nil
}
