package inventory

import (
	"fmt"
	"math"
	"sort"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/entity"
)

// Candidate donante propuesto para un producto en el destino.
type Candidate struct {
	SourceID             string  `json:"source_id"`
	SourceName           string  `json:"source_name"`
	Quantity             float64 `json:"qty"`
	BaselineQuantity     float64 `json:"qty_formula"`
	Score                float64 `json:"score"`
	Phase                Phase   `json:"phase"`
	Reason               string  `json:"reason"`
	SourceStock          float64 `json:"source_stock"`
	SourceReserved       float64 `json:"source_reserved"`
	SourceCoverageBefore float64 `json:"source_initial_coverage"`
	SourceCoverageAfter  float64 `json:"source_post_coverage"`
	DestCoverageBefore   float64 `json:"dest_initial_coverage"`
	DestCoverageAfter    float64 `json:"dest_post_coverage"`
	PredictionApplied    bool    `json:"ml_applied"`
}

// ProductPlan resultado del planificador global para un producto.
type ProductPlan struct {
	ProductID        string             `json:"product_id"`
	ProductName      string             `json:"product_name"`
	Barcode          string             `json:"product_barcode"`
	Tier             entity.Tier        `json:"tier"`
	Phase            Phase              `json:"phase"`
	Velocity         float64            `json:"velocity"`
	VelocitySource   string             `json:"velocity_source"`
	DestStock        float64            `json:"dest_stock"`
	DestPending      float64            `json:"dest_pending"`
	DestCoverageDays float64            `json:"dest_coverage_days"`
	TargetDays       float64            `json:"target_days"`
	Need             float64            `json:"need"`
	StockByWarehouse map[string]float64 `json:"stock_by_wh"`
	ProposedPlan     []Candidate        `json:"proposed_plan"`
	Alternates       []Candidate        `json:"top_sources"`
	BestSourceID     string             `json:"best_source_id"`
	BestSourceName   string             `json:"best_source_name"`
	BestQuantity     float64            `json:"best_qty"`
	BestBaseline     float64            `json:"best_qty_formula"`
	Score            float64            `json:"score"`
	Prediction       *Prediction        `json:"ml_data,omitempty"`
}

// GlobalStats totales de una corrida global.
type GlobalStats struct {
	Total             int  `json:"total"`
	WithSuggestions   int  `json:"withSuggestions"`
	Rejected          int  `json:"rejected"`
	PredictionsActive bool `json:"ml_active"`
}

// GlobalPlan resultado completo del planificador global.
type GlobalPlan struct {
	DestinationID string        `json:"destination_id"`
	Products      []ProductPlan `json:"products"`
	Rejected      []Rejection   `json:"rejected"`
	Stats         GlobalStats   `json:"global_stats"`
}

// PlanGlobalRebalance busca, para un destino y todo el catálogo, los mejores
// donantes de cada producto con necesidad. Productos en RESCUE primero,
// luego por score descendente.
func (e *Engine) PlanGlobalRebalance(products []entity.ProductSnapshot, warehouses []entity.Warehouse,
	destinationID string, predictions map[string]Prediction) GlobalPlan {
	plan := GlobalPlan{
		DestinationID: destinationID,
		Products:      []ProductPlan{},
		Rejected:      []Rejection{},
		Stats: GlobalStats{
			Total:             len(products),
			PredictionsActive: len(predictions) > 0,
		},
	}

	for i := range products {
		p := &products[i]
		var pred *Prediction
		if pr, ok := predictions[p.ID]; ok {
			pred = &pr
		}

		var (
			pp  *ProductPlan
			rej *Rejection
		)
		err := guard(func() {
			if verr := p.Validate(); verr != nil {
				r := reject(p, RejectInvalidInput, verr.Error())
				rej = &r
				return
			}
			pp, rej = e.planProduct(p, warehouses, destinationID, pred)
		})
		if err != nil {
			r := reject(p, RejectInvalidInput, err.Error())
			rej = &r
		}
		if rej != nil {
			plan.Rejected = append(plan.Rejected, *rej)
			continue
		}
		plan.Products = append(plan.Products, *pp)
	}

	sort.SliceStable(plan.Products, func(i, j int) bool {
		a, b := plan.Products[i], plan.Products[j]
		if a.Phase != b.Phase {
			return a.Phase == PhaseRescue
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.ProductID < b.ProductID
	})
	plan.Stats.WithSuggestions = len(plan.Products)
	plan.Stats.Rejected = len(plan.Rejected)
	return plan
}

func (e *Engine) planProduct(p *entity.ProductSnapshot, warehouses []entity.Warehouse, destID string,
	pred *Prediction) (*ProductPlan, *Rejection) {
	v := e.demand.Estimate(p, destID, len(warehouses), pred)
	if v.Inert {
		r := reject(p, RejectInert, "no demand and no stock at destination")
		return nil, &r
	}

	stock := p.Stock(destID)
	pending := p.Pending(destID)
	tier := p.TierAt(destID)
	in := NeedInput{
		Stock:    stock,
		Pending:  pending,
		Velocity: v.Value,
		Tier:     tier,
		Dairy:    e.detect.IsPerishableDairy(p),
	}
	if pred != nil {
		in.LeadTimeDays = pred.LeadTimeDays
	}
	need := e.need.Compute(in)
	if !need.Needy() {
		r := reject(p, RejectNeedCovered, "need already covered")
		return nil, &r
	}
	baselineNeed := e.baselineNeed(p, destID, len(warehouses), need)

	destCoverage := e.demand.Coverage(stock, v.Value)
	var candidates []Candidate
	for _, w := range warehouses {
		if w.ID == destID {
			continue
		}
		c, ok := e.donorCandidate(p, w, v.Value, stock, need, baselineNeed, pred)
		if !ok {
			continue
		}
		c.DestCoverageBefore = destCoverage
		candidates = append(candidates, c)
	}
	if len(candidates) == 0 {
		r := reject(p, RejectNoDonor, "no donor with transferable surplus")
		return nil, &r
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].SourceID < candidates[j].SourceID
	})

	best := candidates[0]
	return &ProductPlan{
		ProductID:        p.ID,
		ProductName:      p.Name,
		Barcode:          p.Barcode,
		Tier:             tier,
		Phase:            need.Phase,
		Velocity:         v.Value,
		VelocitySource:   v.Source,
		DestStock:        math.Round(stock),
		DestPending:      pending,
		DestCoverageDays: destCoverage,
		TargetDays:       need.TargetDays,
		Need:             need.Need,
		StockByWarehouse: p.StockByWarehouse,
		ProposedPlan:     window(candidates, 0, e.p.ProposedPlanSize),
		Alternates:       window(candidates, e.p.ProposedPlanSize, e.p.ProposedPlanSize+e.p.AlternatesSize),
		BestSourceID:     best.SourceID,
		BestSourceName:   best.SourceName,
		BestQuantity:     best.Quantity,
		BestBaseline:     best.BaselineQuantity,
		Score:            best.Score,
		Prediction:       pred,
	}, nil
}

// donorCandidate excedente transferible de un donante y su puntaje.
func (e *Engine) donorCandidate(p *entity.ProductSnapshot, w entity.Warehouse, vDest, destStock float64,
	need NeedResult, baselineNeed float64, pred *Prediction) (Candidate, bool) {
	srcStock := p.Stock(w.ID)
	if srcStock <= 0 {
		return Candidate{}, false
	}
	vSrc := e.demand.DonorVelocity(p.Sales(w.ID))
	reserved := math.Max(need.FloorDays*vSrc, math.Max(
		math.Min(e.p.DonorSafetyUnits, srcStock*e.p.DonorSafetyFraction),
		srcStock*e.p.DonorMinFraction))
	surplus := math.Max(0, srcStock-reserved)
	if surplus < 1 {
		return Candidate{}, false
	}
	qty := math.Floor(math.Min(need.Need, surplus))
	if qty < 1 {
		return Candidate{}, false
	}

	srcPostCoverage := (srcStock - qty) / vSrc
	score := e.donorScore(vDest, qty, need, srcPostCoverage, pred)

	return Candidate{
		SourceID:             w.ID,
		SourceName:           w.DisplayName(),
		Quantity:             qty,
		BaselineQuantity:     math.Floor(math.Min(baselineNeed, surplus)),
		Score:                round(score, 1),
		Phase:                need.Phase,
		Reason:               globalReason(need.Phase, pred != nil),
		SourceStock:          srcStock,
		SourceReserved:       reserved,
		SourceCoverageBefore: srcStock / vSrc,
		SourceCoverageAfter:  srcPostCoverage,
		DestCoverageAfter:    e.demand.Coverage(destStock+qty, vDest),
		PredictionApplied:    pred != nil,
	}, true
}

// donorScore beneficio por fase menos la penalización por dejar al donante cerca
// de su piso; con riesgo predicho se multiplica por 0.6 + 0.4*riesgo.
func (e *Engine) donorScore(vDest, qty float64, need NeedResult, srcPostCoverage float64, pred *Prediction) float64 {
	var benefit float64
	if need.Phase == PhaseRescue {
		debt := math.Max(0, vDest*e.p.RescueThresholdDays-need.RescueEffectiveStock)
		benefit = 50 + math.Min(debt, qty)/math.Max(debt, 1)*50
	} else {
		benefit = qty / need.Need * 60
	}

	var penalty float64
	if margin := srcPostCoverage - need.FloorDays; margin < e.p.RiskMarginDays {
		penalty = math.Max(0, (e.p.RiskMarginDays-margin)*e.p.RiskPenaltyPerDay)
	}
	score := benefit - penalty
	if pred != nil && pred.RiskScore > 0 {
		score *= 0.6 + 0.4*clamp(pred.RiskScore, 0, 1)
	}
	return score
}

// baselineNeed necesidad sólo con historial y ventanas fijas, misma fase y objetivo.
func (e *Engine) baselineNeed(p *entity.ProductSnapshot, destID string, activeWarehouses int, need NeedResult) float64 {
	vh := e.demand.Estimate(p, destID, activeWarehouses, nil).Value
	vh = math.Max(e.p.MinVelocity, vh)
	w := e.p.NormalizationPendingWindowDays
	if need.Phase == PhaseRescue {
		w = e.p.RescuePendingWindowDays
	}
	pending := math.Min(p.Pending(destID), vh*w)
	return math.Max(0, vh*need.TargetDays-p.Stock(destID)-pending)
}

func globalReason(phase Phase, predicted bool) string {
	switch {
	case predicted && phase == PhaseRescue:
		return "Urgent rescue: imminent stockout risk according to the demand forecast."
	case predicted:
		return "Normalization: stock sized to cover projected demand."
	case phase == PhaseRescue:
		return "Critical rescue: coverage below 7 days (history based)."
	default:
		return fmt.Sprintf("Phase %s", phase)
	}
}

func window(c []Candidate, from, to int) []Candidate {
	if from >= len(c) {
		return []Candidate{}
	}
	if to > len(c) {
		to = len(c)
	}
	out := make([]Candidate, to-from)
	copy(out, c[from:to])
	return out
}
