package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/dto"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/ports"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/entity"
	domaininv "github.com/andyspruebas-jpg/Stock-Pro/internal/domain/inventory"
	"github.com/andyspruebas-jpg/Stock-Pro/pkg/logger"
)

// RebalanceUseCase orquesta el motor: resuelve la foto (inline o vigente),
// pide pronósticos si corresponde y arma las respuestas.
type RebalanceUseCase struct {
	engine    *domaininv.Engine
	snapshots SnapshotSource
	predictor ports.DemandPredictor
	reports   ports.TransferReportGenerator
	log       *logger.Logger
	now       func() time.Time
}

// NewRebalanceUseCase construye el caso de uso. snapshots, predictor y reports
// pueden ser nil (la CLI trabaja sólo con productos inline).
func NewRebalanceUseCase(
	engine *domaininv.Engine,
	snapshots SnapshotSource,
	predictor ports.DemandPredictor,
	reports ports.TransferReportGenerator,
	log *logger.Logger,
) *RebalanceUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &RebalanceUseCase{
		engine:    engine,
		snapshots: snapshots,
		predictor: predictor,
		reports:   reports,
		log:       log.Named("rebalance"),
		now:       time.Now,
	}
}

// Classify clasificación ABC de un mapa id→valor.
func (uc *RebalanceUseCase) Classify(_ context.Context, req dto.ClassifyRequest) (*dto.ClassifyResponse, error) {
	if req.ForceTopThreshold != nil && *req.ForceTopThreshold < 0 {
		return nil, fmt.Errorf("%w: force_top_threshold negativo", domain.ErrInvalidInput)
	}
	return &dto.ClassifyResponse{Segments: uc.engine.Classify(req.Values, req.ForceTopThreshold)}, nil
}

// PlanGlobal mejores donantes por producto para un destino.
func (uc *RebalanceUseCase) PlanGlobal(ctx context.Context, req dto.GlobalRebalanceRequest) (*dto.GlobalRebalanceResponse, error) {
	if req.DestinationID == "" {
		return nil, fmt.Errorf("%w: destination_id requerido", domain.ErrInvalidInput)
	}
	products, warehouses, err := uc.resolve(ctx, req.Products, req.Warehouses)
	if err != nil {
		return nil, err
	}
	dest, ok := findWarehouse(warehouses, req.DestinationID)
	if !ok {
		return nil, fmt.Errorf("bodega destino %s: %w", req.DestinationID, domain.ErrNotFound)
	}

	predictions := req.Predictions
	if req.UsePredictions && len(predictions) == 0 && uc.predictor != nil {
		predictions, err = uc.predictor.Predict(ctx, products, dest)
		if err != nil {
			// El pronóstico es opcional: se sigue sólo con historial.
			uc.log.Warn().Err(err).Str("destination", dest.ID).Msg("pronóstico no disponible")
			predictions = nil
		}
	}

	runID := uuid.NewString()
	start := uc.now()
	plan := uc.engine.PlanGlobalRebalance(products, warehouses, dest.ID, predictions)
	uc.log.Info().
		Str("run_id", runID).
		Str("destination", dest.ID).
		Int("products", plan.Stats.Total).
		Int("with_suggestions", plan.Stats.WithSuggestions).
		Int("rejected", plan.Stats.Rejected).
		Bool("predictions", plan.Stats.PredictionsActive).
		Dur("elapsed", uc.now().Sub(start)).
		Msg("rebalanceo global")

	return &dto.GlobalRebalanceResponse{
		RunID:          runID,
		AnalysisResult: GlobalSummary(plan, dest),
		DestinationID:  plan.DestinationID,
		Products:       plan.Products,
		Rejected:       plan.Rejected,
		Stats:          plan.Stats,
	}, nil
}

// EvaluatePairwise evalúa el traspaso de todo el catálogo para un par origen→destino.
func (uc *RebalanceUseCase) EvaluatePairwise(ctx context.Context, req dto.PairwiseTransferRequest) (*dto.PairwiseTransferResponse, error) {
	if req.SourceID == "" || req.DestinationID == "" {
		return nil, fmt.Errorf("%w: source_id y dest_id requeridos", domain.ErrInvalidInput)
	}
	if req.SourceID == req.DestinationID {
		return nil, fmt.Errorf("%w: origen y destino deben ser distintos", domain.ErrInvalidInput)
	}
	products, warehouses, err := uc.resolve(ctx, req.Products, nil)
	if err != nil {
		return nil, err
	}
	src := pickWarehouse(warehouses, req.SourceID, req.SourceName)
	dst := pickWarehouse(warehouses, req.DestinationID, req.DestinationName)

	runID := uuid.NewString()
	start := uc.now()
	res := uc.engine.EvaluatePairwiseTransfer(products, src, dst)
	uc.log.Info().
		Str("run_id", runID).
		Str("source", src.ID).
		Str("destination", dst.ID).
		Int("approved", res.Stats.Approved).
		Int("opportunities", res.Stats.Opportunities).
		Int("rejected", res.Stats.Rejected).
		Dur("elapsed", uc.now().Sub(start)).
		Msg("evaluación origen-destino")

	return &dto.PairwiseTransferResponse{
		RunID:         runID,
		Analysis:      PairwiseSummary(res, src, dst),
		Source:        dto.ToWarehouseDTO(src),
		Destination:   dto.ToWarehouseDTO(dst),
		Suggestions:   res.Suggestions,
		Opportunities: res.Opportunities,
		Rejected:      res.Rejected,
		Stats:         res.Stats,
		GeneratedAt:   start,
	}, nil
}

// TransferOrderPDF evalúa el par y genera el PDF con las líneas aprobadas.
func (uc *RebalanceUseCase) TransferOrderPDF(ctx context.Context, req dto.PairwiseTransferRequest) ([]byte, *dto.TransferOrder, error) {
	if uc.reports == nil {
		return nil, nil, errors.New("generador de reportes no configurado")
	}
	res, err := uc.EvaluatePairwise(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	order := &dto.TransferOrder{
		RunID:       res.RunID,
		Source:      res.Source,
		Destination: res.Destination,
		Lines:       make([]dto.TransferOrderLine, 0, len(res.Suggestions)),
		GeneratedAt: res.GeneratedAt,
	}
	for _, s := range res.Suggestions {
		order.Lines = append(order.Lines, dto.TransferOrderLine{
			ProductID: s.ProductID,
			Name:      s.ProductName,
			Barcode:   s.Barcode,
			Quantity:  s.Quantity,
			Score:     s.Score,
			Reason:    s.Reason,
		})
	}
	pdf, err := uc.reports.GenerateTransferOrder(order)
	if err != nil {
		return nil, nil, fmt.Errorf("generar orden de traspaso: %w", err)
	}
	return pdf, order, nil
}

// Forecast pronóstico por producto para un destino.
func (uc *RebalanceUseCase) Forecast(ctx context.Context, req dto.ForecastRequest) (*dto.ForecastResponse, error) {
	if uc.predictor == nil {
		return nil, fmt.Errorf("%w: pronóstico no configurado", domain.ErrUpstream)
	}
	if req.DestinationID == "" {
		return nil, fmt.Errorf("%w: destination_id requerido", domain.ErrInvalidInput)
	}
	products, warehouses, err := uc.resolve(ctx, req.Products, nil)
	if err != nil {
		return nil, err
	}
	dest := pickWarehouse(warehouses, req.DestinationID, "")
	preds, err := uc.predictor.Predict(ctx, products, dest)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}
	return &dto.ForecastResponse{DestinationID: dest.ID, Predictions: preds}, nil
}

// resolve devuelve productos clasificados y bodegas: los inline si vienen,
// si no la foto vigente.
func (uc *RebalanceUseCase) resolve(ctx context.Context, inline []dto.ProductDTO, inlineWh []dto.WarehouseDTO) ([]entity.ProductSnapshot, []entity.Warehouse, error) {
	var snap *entity.Snapshot
	if len(inline) == 0 || len(inlineWh) == 0 {
		if uc.snapshots != nil {
			s, err := uc.snapshots.Get(ctx)
			switch {
			case err == nil:
				snap = s
			case len(inline) == 0:
				return nil, nil, err
			default:
				uc.log.Debug().Err(err).Msg("sin snapshot; bodegas derivadas de los productos")
			}
		} else if len(inline) == 0 {
			return nil, nil, fmt.Errorf("%w: sin productos", domain.ErrInvalidInput)
		}
	}

	var products []entity.ProductSnapshot
	if len(inline) > 0 {
		products = dto.ProductsToEntities(inline)
		if !classified(products) {
			nc := domaininv.ClassifyNetwork(products, uc.engine.Params().ABC)
			products = domaininv.ApplyClassification(products, nc)
		}
	} else {
		products = snap.Products
	}

	var warehouses []entity.Warehouse
	switch {
	case len(inlineWh) > 0:
		warehouses = dto.WarehousesToEntities(inlineWh)
	case len(inline) == 0:
		warehouses = snap.Warehouses
	default:
		var known []entity.Warehouse
		if snap != nil {
			known = snap.Warehouses
		}
		warehouses = warehousesOf(products, known)
	}
	return products, warehouses, nil
}

// classified indica si algún producto ya trae categoría ABC.
func classified(products []entity.ProductSnapshot) bool {
	for i := range products {
		if products[i].ABCGlobal.Valid() || len(products[i].ABCByWarehouse) > 0 {
			return true
		}
	}
	return false
}

// warehousesOf bodegas presentes en los productos, completadas con los datos
// conocidos y ordenadas por ID.
func warehousesOf(products []entity.ProductSnapshot, known []entity.Warehouse) []entity.Warehouse {
	seen := make(map[string]struct{})
	var ids []string
	for i := range products {
		for _, id := range products[i].Warehouses() {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	for _, w := range known {
		if _, ok := seen[w.ID]; !ok {
			seen[w.ID] = struct{}{}
			ids = append(ids, w.ID)
		}
	}
	sort.Strings(ids)
	out := make([]entity.Warehouse, 0, len(ids))
	for _, id := range ids {
		out = append(out, pickWarehouse(known, id, ""))
	}
	return out
}

func findWarehouse(warehouses []entity.Warehouse, id string) (entity.Warehouse, bool) {
	for _, w := range warehouses {
		if w.ID == id {
			return w, true
		}
	}
	return entity.Warehouse{}, false
}

// pickWarehouse busca la bodega; si no existe arma una con el ID y el nombre dado.
func pickWarehouse(warehouses []entity.Warehouse, id, name string) entity.Warehouse {
	w, ok := findWarehouse(warehouses, id)
	if !ok {
		w = entity.Warehouse{ID: id}
	}
	if name != "" {
		w.Name = name
	}
	return w
}
