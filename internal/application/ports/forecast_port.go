package ports

import (
	"context"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/entity"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/inventory"
)

// DemandPredictor gancho de pronóstico: velocidad, lead time y riesgo por producto
// para un destino. El motor sólo sabe mezclar estas cifras.
type DemandPredictor interface {
	Predict(ctx context.Context, products []entity.ProductSnapshot, destination entity.Warehouse) (map[string]inventory.Prediction, error)
}
