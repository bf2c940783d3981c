package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/dto"
	appinv "github.com/andyspruebas-jpg/Stock-Pro/internal/application/inventory"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/ports"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/entity"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/inventory"
)

const (
	narrativeTimeout = 15 * time.Second
	globalViewName   = "Vista Global"

	narrativeSystem = "Eres un experto en logística y gestión de inventarios para una cadena de retail. Responde siempre en español."
)

// NarrativeUseCase redacta una conclusión breve sobre un producto a partir de
// sus cifras. El LLM sólo redacta; las cifras salen del snapshot.
type NarrativeUseCase struct {
	llm       ports.LLMService
	snapshots appinv.SnapshotSource
	demand    inventory.DemandEstimator
}

// NewNarrativeUseCase construye el caso de uso. snapshots puede ser nil si
// los pedidos siempre traen el producto inline.
func NewNarrativeUseCase(llm ports.LLMService, snapshots appinv.SnapshotSource, p inventory.Params) *NarrativeUseCase {
	return &NarrativeUseCase{llm: llm, snapshots: snapshots, demand: inventory.NewDemandEstimator(p)}
}

// Narrate arma el prompt y delega al LLM con timeout de 15 s.
func (uc *NarrativeUseCase) Narrate(ctx context.Context, req dto.NarrativeRequest) (*dto.NarrativeResponse, error) {
	if uc.llm == nil {
		return nil, fmt.Errorf("%w: narrativa no configurada", domain.ErrUpstream)
	}
	p, err := uc.product(ctx, req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, narrativeTimeout)
	defer cancel()

	text, err := uc.llm.Complete(ctx, narrativeSystem, uc.prompt(p, req))
	if err != nil {
		return nil, fmt.Errorf("%w: narrativa: %w", domain.ErrUpstream, err)
	}
	return &dto.NarrativeResponse{ProductID: p.ID, Analysis: strings.TrimSpace(text)}, nil
}

func (uc *NarrativeUseCase) product(ctx context.Context, req dto.NarrativeRequest) (*entity.ProductSnapshot, error) {
	if req.Product != nil {
		p := req.Product.ToEntity()
		if p.ID == "" {
			p.ID = req.ProductID
		}
		return &p, nil
	}
	if req.ProductID == "" {
		return nil, fmt.Errorf("%w: product_id o product requerido", domain.ErrInvalidInput)
	}
	if uc.snapshots == nil {
		return nil, domain.ErrSnapshotUnavailable
	}
	snap, err := uc.snapshots.Get(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := snap.Product(req.ProductID)
	if !ok {
		return nil, fmt.Errorf("producto %s: %w", req.ProductID, domain.ErrNotFound)
	}
	return p, nil
}

// prompt cifras del producto en la bodega pedida o en toda la red.
func (uc *NarrativeUseCase) prompt(p *entity.ProductSnapshot, req dto.NarrativeRequest) string {
	whName := req.WarehouseName
	var stock, sales, pending float64
	branchTier := "N/A"
	if req.WarehouseID != "" {
		stock, sales, pending = p.Stock(req.WarehouseID), p.Sales(req.WarehouseID), p.Pending(req.WarehouseID)
		branchTier = string(p.TierAt(req.WarehouseID))
		if whName == "" {
			whName = req.WarehouseID
		}
	} else {
		stock, sales, pending = p.TotalStock(), p.TotalSales(), p.TotalPending()
		if whName == "" {
			whName = globalViewName
		}
	}
	coverage := uc.demand.Coverage(stock, uc.demand.Historical(sales))
	globalTier := p.ABCGlobal
	if !globalTier.Valid() {
		globalTier = entity.TierE
	}

	var b strings.Builder
	b.WriteString("Analiza este producto en el sistema de gestión de stock:\n")
	fmt.Fprintf(&b, "Nombre: %s\n", p.Name)
	fmt.Fprintf(&b, "Sucursal actual: %s\n", whName)
	fmt.Fprintf(&b, "Stock actual: %.0f\n", stock)
	fmt.Fprintf(&b, "Ventas (últimos 30 días): %.0f\n", sales)
	fmt.Fprintf(&b, "Cobertura: %.1f días\n", coverage)
	fmt.Fprintf(&b, "Categoría ABC Global: %s\n", globalTier)
	fmt.Fprintf(&b, "Categoría ABC en esta Sucursal: %s\n", branchTier)
	fmt.Fprintf(&b, "Total pedidos pendientes (en tránsito): %.0f\n", pending)
	b.WriteString("Detalles de pedidos:\n")
	b.WriteString(pendingDetails(p.PendingOrders, req.WarehouseID))
	b.WriteString("\nInstrucciones: Proporciona una conclusión estratégica muy breve (máximo 3 frases) en tono profesional pero directo. ")
	b.WriteString("Si hay pedidos por llegar pronto, quizás no sea necesario pedir más aunque el stock sea bajo. ")
	b.WriteString("Enfócate en la relación entre el stock, la venta y si debe pedir más o transferir.")
	return b.String()
}

func pendingDetails(orders []entity.PendingOrder, warehouseID string) string {
	var lines []entity.PendingOrder
	for _, o := range orders {
		if warehouseID == "" || o.WarehouseID == "" || o.WarehouseID == warehouseID {
			lines = append(lines, o)
		}
	}
	if len(lines) == 0 {
		return "No hay pedidos pendientes.\n"
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].ExpectedDate.Before(lines[j].ExpectedDate) })
	var b strings.Builder
	for _, o := range lines {
		arrival := "fecha desconocida"
		if !o.ExpectedDate.IsZero() {
			arrival = o.ExpectedDate.Format("2006-01-02")
		}
		fmt.Fprintf(&b, "- %.0f unidades llegando el %s\n", o.Quantity, arrival)
	}
	return b.String()
}
