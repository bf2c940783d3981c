package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/dto"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/repository"
)

// WarehouseUseCase consulta de bodegas de la red.
type WarehouseUseCase struct {
	repo repository.WarehouseRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo}
}

// List lista las bodegas ordenadas por nombre.
func (uc *WarehouseUseCase) List(ctx context.Context) ([]dto.WarehouseDTO, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseDTO, 0, len(list))
	for _, w := range list {
		items = append(items, dto.ToWarehouseDTO(w))
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

// GetByID obtiene una bodega por ID.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id string) (*dto.WarehouseDTO, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, w := range list {
		if w.ID == id {
			out := dto.ToWarehouseDTO(w)
			return &out, nil
		}
	}
	return nil, fmt.Errorf("bodega %s: %w", id, domain.ErrNotFound)
}
