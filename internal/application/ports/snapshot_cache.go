package ports

import (
	"context"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/entity"
)

// SnapshotCache guarda la última foto de la red ya clasificada.
// Get devuelve nil, nil cuando no hay entrada.
type SnapshotCache interface {
	Get(ctx context.Context) (*entity.Snapshot, error)
	Set(ctx context.Context, snap *entity.Snapshot) error
	Invalidate(ctx context.Context) error
}
