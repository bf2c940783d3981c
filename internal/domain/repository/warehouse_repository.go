package repository

import (
	"context"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/entity"
)

// WarehouseRepository define el puerto de lectura de bodegas de la red.
type WarehouseRepository interface {
	List(ctx context.Context) ([]entity.Warehouse, error)
}
