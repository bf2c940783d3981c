package dto

import (
	"time"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/inventory"
)

// ClassifyRequest body para POST /api/abc/classify.
type ClassifyRequest struct {
	Values            map[string]float64 `json:"values"`
	ForceTopThreshold *float64           `json:"force_top_threshold,omitempty"`
}

// ClassifyResponse segmentos por entidad.
type ClassifyResponse struct {
	Segments map[string]inventory.Segment `json:"segments"`
}

// GlobalRebalanceRequest body para POST /api/rebalance/global.
// Sin products se usa el snapshot vigente.
type GlobalRebalanceRequest struct {
	DestinationID  string                          `json:"destination_id"`
	Products       []ProductDTO                    `json:"products,omitempty"`
	Warehouses     []WarehouseDTO                  `json:"warehouses,omitempty"`
	UsePredictions bool                            `json:"use_predictions"`
	Predictions    map[string]inventory.Prediction `json:"predictions,omitempty"`
}

// GlobalRebalanceResponse resultado del planificador global.
type GlobalRebalanceResponse struct {
	RunID          string                  `json:"run_id"`
	AnalysisResult string                  `json:"analysis_result"`
	DestinationID  string                  `json:"destination_id"`
	Products       []inventory.ProductPlan `json:"products"`
	Rejected       []inventory.Rejection   `json:"rejected"`
	Stats          inventory.GlobalStats   `json:"global_stats"`
}

// PairwiseTransferRequest body para POST /api/rebalance/pairwise.
type PairwiseTransferRequest struct {
	SourceID        string       `json:"source_id"`
	DestinationID   string       `json:"dest_id"`
	SourceName      string       `json:"source_name,omitempty"`
	DestinationName string       `json:"dest_name,omitempty"`
	Products        []ProductDTO `json:"products,omitempty"`
}

// PairwiseTransferResponse resultado del evaluador origen→destino.
type PairwiseTransferResponse struct {
	RunID         string                  `json:"run_id"`
	Analysis      string                  `json:"analysis"`
	Source        WarehouseDTO            `json:"source"`
	Destination   WarehouseDTO            `json:"destination"`
	Suggestions   []inventory.Suggestion  `json:"suggestions"`
	Opportunities []inventory.Suggestion  `json:"opportunities"`
	Rejected      []inventory.Rejection   `json:"rejected"`
	Stats         inventory.PairwiseStats `json:"stats"`
	GeneratedAt   time.Time               `json:"generated_at"`
}

// TransferOrder orden de traspaso lista para imprimir.
type TransferOrder struct {
	RunID       string
	Source      WarehouseDTO
	Destination WarehouseDTO
	Lines       []TransferOrderLine
	GeneratedAt time.Time
}

// TransferOrderLine línea de la orden.
type TransferOrderLine struct {
	ProductID string
	Name      string
	Barcode   string
	Quantity  float64
	Score     float64
	Reason    string
}

// ForecastRequest body para POST /api/forecast.
type ForecastRequest struct {
	DestinationID string       `json:"destination_id"`
	Products      []ProductDTO `json:"products,omitempty"`
}

// ForecastResponse predicciones por producto.
type ForecastResponse struct {
	DestinationID string                          `json:"destination_id"`
	Predictions   map[string]inventory.Prediction `json:"predictions"`
}
