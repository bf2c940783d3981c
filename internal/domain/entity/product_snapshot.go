package entity

import (
	"fmt"
	"math"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain"
	"github.com/shopspring/decimal"
)

// Categorías explícitas de producto relevantes para el motor.
const (
	CategoryPerishableDairy = "perishable-dairy"
)

// ProductSnapshot estado de un producto en toda la red para una corrida de análisis.
// Un warehouse ausente en un mapa equivale a 0.
type ProductSnapshot struct {
	ID           string
	Name         string
	Barcode      string
	CategoryName string // texto libre del ERP
	Category     string // atributo explícito (p. ej. perishable-dairy); vacío si no se informa
	Provider     string

	StockByWarehouse   map[string]float64
	SalesByWarehouse   map[string]float64 // unidades vendidas en la ventana (30 días)
	RevenueByWarehouse map[string]decimal.Decimal
	PendingByWarehouse map[string]float64
	PendingOrders      []PendingOrder

	// Derivados; se recalculan en cada corrida.
	ABCGlobal      Tier
	ABCRevenue     Tier
	ABCByWarehouse map[string]Tier
}

// Stock existencia en el warehouse.
func (p *ProductSnapshot) Stock(warehouseID string) float64 { return p.StockByWarehouse[warehouseID] }

// Sales unidades vendidas en la ventana.
func (p *ProductSnapshot) Sales(warehouseID string) float64 { return p.SalesByWarehouse[warehouseID] }

// Pending unidades en órdenes abiertas.
func (p *ProductSnapshot) Pending(warehouseID string) float64 {
	return p.PendingByWarehouse[warehouseID]
}

// Revenue ingreso de la ventana en el warehouse.
func (p *ProductSnapshot) Revenue(warehouseID string) decimal.Decimal {
	return p.RevenueByWarehouse[warehouseID]
}

// TotalSales suma de ventas en toda la red.
func (p *ProductSnapshot) TotalSales() float64 { return sum(p.SalesByWarehouse) }

// TotalStock suma de existencias en toda la red.
func (p *ProductSnapshot) TotalStock() float64 { return sum(p.StockByWarehouse) }

// TotalPending suma de pendientes en toda la red.
func (p *ProductSnapshot) TotalPending() float64 { return sum(p.PendingByWarehouse) }

// TotalRevenue suma de ingresos en toda la red.
func (p *ProductSnapshot) TotalRevenue() decimal.Decimal {
	total := decimal.Zero
	for _, r := range p.RevenueByWarehouse {
		total = total.Add(r)
	}
	return total
}

// TierAt categoría del producto en un warehouse; cae a la global y luego a E.
func (p *ProductSnapshot) TierAt(warehouseID string) Tier {
	if t, ok := p.ABCByWarehouse[warehouseID]; ok && t.Valid() {
		return t
	}
	if p.ABCGlobal.Valid() {
		return p.ABCGlobal
	}
	return TierE
}

// SellingWarehouses cuántos warehouses venden más de minSales unidades.
func (p *ProductSnapshot) SellingWarehouses(minSales float64) int {
	n := 0
	for _, s := range p.SalesByWarehouse {
		if s > minSales {
			n++
		}
	}
	return n
}

// Validate rechaza cantidades negativas o no finitas y el ID vacío.
func (p *ProductSnapshot) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: producto sin id", domain.ErrInvalidInput)
	}
	for name, m := range map[string]map[string]float64{
		"stock":     p.StockByWarehouse,
		"ventas":    p.SalesByWarehouse,
		"pendiente": p.PendingByWarehouse,
	} {
		for wh, v := range m {
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: %s inválido en %s para %s (%v)", domain.ErrInvalidInput, name, wh, p.ID, v)
			}
		}
	}
	for wh, r := range p.RevenueByWarehouse {
		if r.IsNegative() {
			return fmt.Errorf("%w: ingreso negativo en %s para %s", domain.ErrInvalidInput, wh, p.ID)
		}
	}
	for _, o := range p.PendingOrders {
		if o.Quantity < 0 {
			return fmt.Errorf("%w: orden %s con cantidad negativa", domain.ErrInvalidInput, o.OrderRef)
		}
	}
	return nil
}

// Warehouses ids con stock, ventas o ingresos registrados.
func (p *ProductSnapshot) Warehouses() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for id := range p.StockByWarehouse {
		add(id)
	}
	for id := range p.SalesByWarehouse {
		add(id)
	}
	for id := range p.RevenueByWarehouse {
		add(id)
	}
	return out
}

func sum(m map[string]float64) float64 {
	var t float64
	for _, v := range m {
		t += v
	}
	return t
}
