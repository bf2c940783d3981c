package dto

// NarrativeRequest body para POST /api/narrative.
type NarrativeRequest struct {
	ProductID     string      `json:"product_id"`
	Product       *ProductDTO `json:"product,omitempty"`
	WarehouseID   string      `json:"warehouse_id,omitempty"`
	WarehouseName string      `json:"warehouse_name,omitempty"`
}

// NarrativeResponse conclusión redactada.
type NarrativeResponse struct {
	ProductID string `json:"product_id"`
	Analysis  string `json:"analysis"`
}
