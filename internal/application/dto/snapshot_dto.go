package dto

import (
	"time"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// WarehouseDTO bodega en la API.
type WarehouseDTO struct {
	ID   string `json:"id"`
	Code string `json:"code,omitempty"`
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// PendingOrderDTO línea de compra pendiente.
type PendingOrderDTO struct {
	OrderRef    string    `json:"order_ref"`
	Quantity    float64   `json:"qty"`
	DatePlanned time.Time `json:"date_planned"`
	Supplier    string    `json:"supplier"`
	WarehouseID string    `json:"warehouse_id"`
	State       string    `json:"state,omitempty"`
}

// ProductDTO producto del snapshot tal como viaja en la API y en archivos JSON.
type ProductDTO struct {
	ID            string                     `json:"id"`
	Name          string                     `json:"name"`
	Barcode       string                     `json:"barcode,omitempty"`
	CategoryName  string                     `json:"category_name,omitempty"`
	Category      string                     `json:"category,omitempty"`
	Provider      string                     `json:"provider,omitempty"`
	StockByWh     map[string]float64         `json:"stock_by_wh"`
	SalesByWh     map[string]float64         `json:"sales_by_wh"`
	RevenueByWh   map[string]decimal.Decimal `json:"revenue_by_wh,omitempty"`
	PendingByWh   map[string]float64         `json:"pending_by_wh,omitempty"`
	PendingOrders []PendingOrderDTO          `json:"pending_orders,omitempty"`
	ABCCategory   entity.Tier                `json:"abc_category,omitempty"`
	ABCRevenue    entity.Tier                `json:"abc_revenue,omitempty"`
	ABCByWh       map[string]entity.Tier     `json:"abc_by_wh,omitempty"`
	TotalStock    float64                    `json:"total_stock"`
	TotalSales    float64                    `json:"total_sales"`
	TotalPending  float64                    `json:"total_pending"`
}

// SnapshotDTO foto completa de la red.
type SnapshotDTO struct {
	Products   []ProductDTO   `json:"products"`
	Warehouses []WarehouseDTO `json:"warehouses"`
	TakenAt    time.Time      `json:"taken_at"`
}

// SyncStatus estado de la sincronización en segundo plano.
type SyncStatus struct {
	Syncing  bool      `json:"syncing"`
	LastSync time.Time `json:"last_sync"`
	NextSync time.Time `json:"next_sync"`
}

// ToWarehouseDTO convierte la entidad.
func ToWarehouseDTO(w entity.Warehouse) WarehouseDTO {
	return WarehouseDTO{ID: w.ID, Code: w.Code, Name: w.Name, Role: w.Role}
}

// ToEntity convierte a entidad.
func (w WarehouseDTO) ToEntity() entity.Warehouse {
	return entity.Warehouse{ID: w.ID, Code: w.Code, Name: w.Name, Role: w.Role}
}

// ToProductDTO convierte la entidad.
func ToProductDTO(p *entity.ProductSnapshot) ProductDTO {
	out := ProductDTO{
		ID:           p.ID,
		Name:         p.Name,
		Barcode:      p.Barcode,
		CategoryName: p.CategoryName,
		Category:     p.Category,
		Provider:     p.Provider,
		StockByWh:    p.StockByWarehouse,
		SalesByWh:    p.SalesByWarehouse,
		RevenueByWh:  p.RevenueByWarehouse,
		PendingByWh:  p.PendingByWarehouse,
		ABCCategory:  p.ABCGlobal,
		ABCRevenue:   p.ABCRevenue,
		ABCByWh:      p.ABCByWarehouse,
		TotalStock:   p.TotalStock(),
		TotalSales:   p.TotalSales(),
		TotalPending: p.TotalPending(),
	}
	for _, o := range p.PendingOrders {
		out.PendingOrders = append(out.PendingOrders, ToPendingOrderDTO(o))
	}
	return out
}

// ToPendingOrderDTO convierte la entidad.
func ToPendingOrderDTO(o entity.PendingOrder) PendingOrderDTO {
	return PendingOrderDTO{
		OrderRef:    o.OrderRef,
		Quantity:    o.Quantity,
		DatePlanned: o.ExpectedDate,
		Supplier:    o.Supplier,
		WarehouseID: o.WarehouseID,
		State:       o.State,
	}
}

// ToEntity convierte a entidad; los totales se ignoran porque se derivan.
func (p ProductDTO) ToEntity() entity.ProductSnapshot {
	out := entity.ProductSnapshot{
		ID:                 p.ID,
		Name:               p.Name,
		Barcode:            p.Barcode,
		CategoryName:       p.CategoryName,
		Category:           p.Category,
		Provider:           p.Provider,
		StockByWarehouse:   p.StockByWh,
		SalesByWarehouse:   p.SalesByWh,
		RevenueByWarehouse: p.RevenueByWh,
		PendingByWarehouse: p.PendingByWh,
		ABCGlobal:          p.ABCCategory,
		ABCRevenue:         p.ABCRevenue,
		ABCByWarehouse:     p.ABCByWh,
	}
	for _, o := range p.PendingOrders {
		out.PendingOrders = append(out.PendingOrders, entity.PendingOrder{
			OrderRef:     o.OrderRef,
			Quantity:     o.Quantity,
			ExpectedDate: o.DatePlanned,
			Supplier:     o.Supplier,
			WarehouseID:  o.WarehouseID,
			State:        o.State,
		})
	}
	return out
}

// ToSnapshotDTO convierte la foto completa.
func ToSnapshotDTO(s *entity.Snapshot) SnapshotDTO {
	out := SnapshotDTO{
		Products:   make([]ProductDTO, 0, len(s.Products)),
		Warehouses: make([]WarehouseDTO, 0, len(s.Warehouses)),
		TakenAt:    s.TakenAt,
	}
	for i := range s.Products {
		out.Products = append(out.Products, ToProductDTO(&s.Products[i]))
	}
	for _, w := range s.Warehouses {
		out.Warehouses = append(out.Warehouses, ToWarehouseDTO(w))
	}
	return out
}

// ToEntity convierte la foto completa.
func (s SnapshotDTO) ToEntity() *entity.Snapshot {
	out := &entity.Snapshot{
		Products:   ProductsToEntities(s.Products),
		Warehouses: WarehousesToEntities(s.Warehouses),
		TakenAt:    s.TakenAt,
	}
	return out
}

// ProductsToEntities convierte una lista.
func ProductsToEntities(in []ProductDTO) []entity.ProductSnapshot {
	out := make([]entity.ProductSnapshot, 0, len(in))
	for _, p := range in {
		out = append(out, p.ToEntity())
	}
	return out
}

// WarehousesToEntities convierte una lista.
func WarehousesToEntities(in []WarehouseDTO) []entity.Warehouse {
	out := make([]entity.Warehouse, 0, len(in))
	for _, w := range in {
		out = append(out, w.ToEntity())
	}
	return out
}
