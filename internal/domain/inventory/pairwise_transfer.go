package inventory

import (
	"fmt"
	"math"
	"sort"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/entity"
)

// Prioridad de una sugerencia origen→destino.
const (
	PriorityHigh = "high"
	PriorityLow  = "low"
)

// ScoreBreakdown componentes del puntaje origen→destino.
type ScoreBreakdown struct {
	Share   float64 `json:"share"`
	Urgency float64 `json:"urgency"`
	Tier    float64 `json:"tier"`
	Volume  float64 `json:"volume"`
	Pending float64 `json:"pending"`
	Bonus   float64 `json:"bonus"`
	Total   float64 `json:"total"`
}

// Suggestion traspaso propuesto entre un origen y un destino fijos.
type Suggestion struct {
	ProductID            string         `json:"product_id"`
	ProductName          string         `json:"product_name"`
	Barcode              string         `json:"barcode,omitempty"`
	Quantity             float64        `json:"quantity"`
	Score                float64        `json:"score"`
	Priority             string         `json:"priority"`
	Phase                Phase          `json:"phase"`
	Reason               string         `json:"reason"`
	DestTier             entity.Tier    `json:"dest_tier"`
	SourceTier           entity.Tier    `json:"source_tier"`
	TargetDays           float64        `json:"target_days"`
	Need                 float64        `json:"need"`
	Available            float64        `json:"available"`
	ProtectedUnits       float64        `json:"protected_units"`
	DestStock            float64        `json:"dest_stock"`
	DestPending          float64        `json:"dest_pending"`
	DestSales            float64        `json:"dest_sales"`
	SourceStock          float64        `json:"source_stock"`
	DestCoverageBefore   float64        `json:"dest_coverage_before"`
	DestCoverageAfter    float64        `json:"dest_coverage_after"`
	SourceCoverageBefore float64        `json:"source_coverage_before"`
	SourceCoverageAfter  float64        `json:"source_coverage_after"`
	Breakdown            ScoreBreakdown `json:"breakdown"`
}

// PairwiseStats conteos de una corrida origen→destino.
type PairwiseStats struct {
	Total         int `json:"total"`
	Approved      int `json:"approved"`
	Opportunities int `json:"opportunities"`
	Rejected      int `json:"rejected"`
}

// PairwiseResult resultado del evaluador origen→destino.
type PairwiseResult struct {
	Source        entity.Warehouse `json:"-"`
	Destination   entity.Warehouse `json:"-"`
	Suggestions   []Suggestion     `json:"suggestions"`
	Opportunities []Suggestion     `json:"opportunities"`
	Rejected      []Rejection      `json:"rejected"`
	Stats         PairwiseStats    `json:"stats"`
}

// EvaluatePairwiseTransfer aplica filtros duros, protección del origen y el
// puntaje multifactor a cada producto para un par origen→destino fijo.
func (e *Engine) EvaluatePairwiseTransfer(products []entity.ProductSnapshot, source, destination entity.Warehouse) PairwiseResult {
	res := PairwiseResult{
		Source:        source,
		Destination:   destination,
		Suggestions:   []Suggestion{},
		Opportunities: []Suggestion{},
		Rejected:      []Rejection{},
	}
	sourceIsHub := e.detect.IsDistribution(source)

	for i := range products {
		p := &products[i]
		var (
			s   *Suggestion
			rej *Rejection
		)
		err := guard(func() {
			s, rej = e.evaluatePair(p, source, destination, sourceIsHub)
		})
		if err != nil {
			r := reject(p, RejectInvalidInput, err.Error())
			rej = &r
		}
		switch {
		case rej != nil:
			res.Rejected = append(res.Rejected, *rej)
		case s.Priority == PriorityLow:
			res.Opportunities = append(res.Opportunities, *s)
		default:
			res.Suggestions = append(res.Suggestions, *s)
		}
	}

	sortSuggestions(res.Suggestions)
	sortSuggestions(res.Opportunities)
	res.Stats = PairwiseStats{
		Total:         len(products),
		Approved:      len(res.Suggestions),
		Opportunities: len(res.Opportunities),
		Rejected:      len(res.Rejected),
	}
	return res
}

func (e *Engine) evaluatePair(p *entity.ProductSnapshot, src, dst entity.Warehouse, sourceIsHub bool) (*Suggestion, *Rejection) {
	fail := func(code, reason string) (*Suggestion, *Rejection) {
		r := reject(p, code, reason)
		return nil, &r
	}

	srcStock := p.Stock(src.ID)
	if srcStock <= 0 {
		return fail(RejectSourceNoStock, "source has no stock")
	}
	if err := p.Validate(); err != nil {
		return fail(RejectInvalidInput, err.Error())
	}
	destSales := p.Sales(dst.ID)
	if destSales <= 0 {
		return fail(RejectDeadProduct, "dead product")
	}
	vd := e.demand.Historical(destSales)
	if vd <= 0 {
		return fail(RejectZeroVelocity, "zero daily velocity")
	}

	destTier := p.TierAt(dst.ID)
	srcTier := p.TierAt(src.ID)
	destStock := p.Stock(dst.ID)
	destPending := p.Pending(dst.ID)
	need := e.need.Compute(NeedInput{
		Stock:       destStock,
		Pending:     destPending,
		Velocity:    vd,
		Tier:        destTier,
		Dairy:       e.detect.IsPerishableDairy(p),
		TargetTable: e.p.Pairwise.TargetCoverage,
	})
	needU := math.Ceil(round(need.Need, 6))
	if needU <= 0 {
		return fail(RejectNeedCovered, "need already covered")
	}

	srcSales := p.Sales(src.ID)
	vSrc := e.demand.Historical(srcSales)
	if sourceIsHub {
		others := p.TotalSales() - destSales - srcSales
		vSrc += e.demand.Historical(math.Max(0, others))
	}
	vProtect := math.Max(e.p.MinVelocity, vSrc)
	protected := vProtect * lookup(e.p.Pairwise.ProtectionDays, srcTier)
	available := math.Max(0, srcStock-protected)
	if available <= 0 {
		return fail(RejectProtection, fmt.Sprintf("protection reserve exceeds available stock (reserves %.0f units)", protected))
	}

	qty := math.Min(needU, math.Floor(available))
	if qty <= 0 {
		return fail(RejectNoQuantity, "no transferable quantity after protection")
	}

	bd := e.pairwiseScore(p, dst.ID, destTier, vd, need.TargetDays, needU)
	s := &Suggestion{
		ProductID:            p.ID,
		ProductName:          p.Name,
		Barcode:              p.Barcode,
		Quantity:             qty,
		Score:                round(bd.Total, 1),
		Phase:                need.Phase,
		DestTier:             destTier,
		SourceTier:           srcTier,
		TargetDays:           need.TargetDays,
		Need:                 needU,
		Available:            available,
		ProtectedUnits:       protected,
		DestStock:            destStock,
		DestPending:          destPending,
		DestSales:            destSales,
		SourceStock:          srcStock,
		DestCoverageBefore:   e.demand.Coverage(destStock, vd),
		DestCoverageAfter:    e.demand.Coverage(destStock+qty, vd),
		SourceCoverageBefore: e.demand.Coverage(srcStock, vProtect),
		SourceCoverageAfter:  e.demand.Coverage(srcStock-qty, vProtect),
		Breakdown:            bd,
	}

	if micro := lookup(e.p.Pairwise.MicroThreshold, destTier); qty < micro {
		s.Priority = PriorityLow
		s.Reason = fmt.Sprintf("Micro-transfer: %.0f units below the %.0f unit threshold; only worth adding to a shipment", qty, micro)
		return s, nil
	}
	if bd.Total < e.p.Pairwise.MinScore {
		r := reject(p, RejectScoreTooLow, fmt.Sprintf("score too low (%.1f)", bd.Total))
		r.Score = &s.Score
		return nil, &r
	}
	if bd.Total < e.p.Pairwise.MediumScore && available < needU*e.p.Pairwise.TightSourceFactor {
		r := reject(p, RejectMediumScoreTight, fmt.Sprintf("medium score, tight source (%.1f)", bd.Total))
		r.Score = &s.Score
		return nil, &r
	}
	s.Priority = PriorityHigh
	s.Reason = fmt.Sprintf("%s: coverage %.1f of %.0f target days, tier %s, score %.1f",
		need.Phase, s.DestCoverageBefore, need.TargetDays, destTier, s.Score)
	return s, nil
}

// pairwiseScore participación + urgencia + tier + volumen + pendiente + bono multisucursal.
func (e *Engine) pairwiseScore(p *entity.ProductSnapshot, destID string, destTier entity.Tier,
	vd, targetDays, needU float64) ScoreBreakdown {
	pw := e.p.Pairwise
	var bd ScoreBreakdown

	destSales := p.Sales(destID)
	if total := p.TotalSales(); total > 0 {
		bd.Share = destSales / total * pw.ShareWeight
	}

	coverage := e.demand.Coverage(p.Stock(destID), vd)
	if targetDays > 0 {
		bd.Urgency = (1 - clamp(coverage/targetDays, 0, 1)) * pw.UrgencyWeight
	}

	bd.Tier = lookup(pw.TierPoints, destTier)

	for _, vt := range pw.SalesVolumeTiers {
		if destSales >= vt.MinUnits {
			bd.Volume = vt.Points
			break
		}
	}

	switch pending := p.Pending(destID); {
	case pending >= needU:
		bd.Pending = pw.PendingCoversPoints
	case pending > 0:
		bd.Pending = pw.PendingSomePoints
	default:
		bd.Pending = pw.NoPendingPoints
	}

	branches := float64(p.SellingWarehouses(pw.SellingBranchMinimum))
	bd.Bonus = math.Min(pw.BranchBonusCap, pw.BranchBonusStep*math.Max(0, branches-1))

	bd.Total = bd.Share + bd.Urgency + bd.Tier + bd.Volume + bd.Pending + bd.Bonus
	return bd
}

func sortSuggestions(s []Suggestion) {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Score != s[j].Score {
			return s[i].Score > s[j].Score
		}
		return s[i].ProductID < s[j].ProductID
	})
}
