package repository

import (
	"context"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/entity"
)

// SnapshotRepository lee del ERP la foto de inventario de toda la red.
type SnapshotRepository interface {
	Load(ctx context.Context) (*entity.Snapshot, error)
}
