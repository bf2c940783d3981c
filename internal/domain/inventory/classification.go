package inventory

import "github.com/andyspruebas-jpg/Stock-Pro/internal/domain/entity"

// NetworkClassification categorías de toda la red para una corrida.
type NetworkClassification struct {
	Global      map[string]Segment            // producto → segmento por unidades
	Revenue     map[string]Segment            // producto → segmento por ingresos
	ByWarehouse map[string]map[string]Segment // warehouse → producto → segmento por unidades
}

// ClassifyNetwork calcula la clasificación global (unidades e ingresos) y la de cada
// warehouse usando sólo sus propias ventas. Un producto participa en un warehouse
// si tiene stock, ventas o ingresos allí.
func ClassifyNetwork(products []entity.ProductSnapshot, p ABCParams) NetworkClassification {
	units := make(map[string]float64, len(products))
	revenue := make(map[string]float64, len(products))
	perWarehouse := make(map[string]map[string]float64)

	for i := range products {
		prod := &products[i]
		units[prod.ID] = prod.TotalSales()
		revenue[prod.ID] = prod.TotalRevenue().InexactFloat64()
		for _, wh := range prod.Warehouses() {
			m, ok := perWarehouse[wh]
			if !ok {
				m = make(map[string]float64)
				perWarehouse[wh] = m
			}
			m[prod.ID] = prod.Sales(wh)
		}
	}

	globalOpts := []ClassifyOption{WithBreakpoints(p.Breakpoints)}
	if p.GlobalForceAAUnits > 0 {
		globalOpts = append(globalOpts, WithForceTopThreshold(p.GlobalForceAAUnits))
	}
	revenueOpts := []ClassifyOption{WithBreakpoints(p.Breakpoints)}
	if p.RevenueForceAAValue > 0 {
		revenueOpts = append(revenueOpts, WithForceTopThreshold(p.RevenueForceAAValue))
	}

	nc := NetworkClassification{
		Global:      Classify(units, globalOpts...),
		Revenue:     Classify(revenue, revenueOpts...),
		ByWarehouse: make(map[string]map[string]Segment, len(perWarehouse)),
	}
	for wh, values := range perWarehouse {
		nc.ByWarehouse[wh] = Classify(values, WithBreakpoints(p.Breakpoints))
	}
	return nc
}

// ApplyClassification devuelve copias de los productos con las categorías derivadas.
// Los mapas de cantidades se comparten con la entrada.
func ApplyClassification(products []entity.ProductSnapshot, nc NetworkClassification) []entity.ProductSnapshot {
	out := make([]entity.ProductSnapshot, len(products))
	for i, prod := range products {
		prod.ABCGlobal = tierOf(nc.Global, prod.ID)
		prod.ABCRevenue = tierOf(nc.Revenue, prod.ID)
		prod.ABCByWarehouse = make(map[string]entity.Tier)
		for wh, segs := range nc.ByWarehouse {
			if seg, ok := segs[prod.ID]; ok {
				prod.ABCByWarehouse[wh] = seg.Tier
			}
		}
		out[i] = prod
	}
	return out
}

func tierOf(segs map[string]Segment, id string) entity.Tier {
	if seg, ok := segs[id]; ok {
		return seg.Tier
	}
	return entity.TierE
}
