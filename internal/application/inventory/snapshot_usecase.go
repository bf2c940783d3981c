package inventory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/dto"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/ports"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/entity"
	domaininv "github.com/andyspruebas-jpg/Stock-Pro/internal/domain/inventory"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/repository"
	"github.com/andyspruebas-jpg/Stock-Pro/pkg/logger"
)

// SnapshotSource entrega la foto vigente de la red ya clasificada.
type SnapshotSource interface {
	Get(ctx context.Context) (*entity.Snapshot, error)
}

// SnapshotUseCase sirve la foto de inventario: memoria, luego cache, luego ERP.
// Cada recarga vuelve a clasificar la red completa.
type SnapshotUseCase struct {
	repo     repository.SnapshotRepository
	cache    ports.SnapshotCache
	abc      domaininv.ABCParams
	interval time.Duration
	log      *logger.Logger
	now      func() time.Time

	mu       sync.RWMutex
	current  *entity.Snapshot
	lastSync time.Time

	refreshMu sync.Mutex
	syncing   atomic.Bool
}

var _ SnapshotSource = (*SnapshotUseCase)(nil)

// NewSnapshotUseCase construye el caso de uso. cache puede ser nil.
func NewSnapshotUseCase(
	repo repository.SnapshotRepository,
	cache ports.SnapshotCache,
	abc domaininv.ABCParams,
	interval time.Duration,
	log *logger.Logger,
) *SnapshotUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SnapshotUseCase{
		repo:     repo,
		cache:    cache,
		abc:      abc,
		interval: interval,
		log:      log.Named("snapshot"),
		now:      time.Now,
	}
}

// Get devuelve la foto vigente. Si no hay en memoria prueba la cache y,
// si tampoco, carga desde el ERP.
func (uc *SnapshotUseCase) Get(ctx context.Context) (*entity.Snapshot, error) {
	if snap := uc.snapshot(); snap != nil {
		return snap, nil
	}
	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx)
		if err != nil {
			uc.log.Warn().Err(err).Msg("cache de snapshot no disponible")
		} else if cached != nil {
			uc.store(cached, cached.TakenAt)
			return cached, nil
		}
	}
	return uc.Refresh(ctx)
}

// Refresh recarga desde el ERP y reclasifica. Si ya hay una recarga en curso
// y existe una foto previa, devuelve la previa sin esperar.
func (uc *SnapshotUseCase) Refresh(ctx context.Context) (*entity.Snapshot, error) {
	if !uc.refreshMu.TryLock() {
		if snap := uc.snapshot(); snap != nil {
			return snap, nil
		}
		uc.refreshMu.Lock()
		if snap := uc.snapshot(); snap != nil {
			uc.refreshMu.Unlock()
			return snap, nil
		}
	}
	defer uc.refreshMu.Unlock()

	uc.syncing.Store(true)
	defer uc.syncing.Store(false)

	start := uc.now()
	snap, err := uc.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSnapshotUnavailable, err)
	}
	if snap == nil {
		return nil, domain.ErrSnapshotUnavailable
	}

	nc := domaininv.ClassifyNetwork(snap.Products, uc.abc)
	snap.Products = domaininv.ApplyClassification(snap.Products, nc)
	if snap.TakenAt.IsZero() {
		snap.TakenAt = start
	}
	uc.store(snap, uc.now())

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, snap); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudo guardar el snapshot en cache")
		}
	}

	uc.log.Info().
		Int("products", len(snap.Products)).
		Int("warehouses", len(snap.Warehouses)).
		Dur("elapsed", uc.now().Sub(start)).
		Msg("snapshot sincronizado")
	return snap, nil
}

// StartAutoRefresh recarga en segundo plano cada interval hasta que ctx termine.
// Con interval <= 0 usa el configurado; si ambos son <= 0 no hace nada.
func (uc *SnapshotUseCase) StartAutoRefresh(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = uc.interval
	}
	if interval <= 0 {
		return
	}
	uc.mu.Lock()
	uc.interval = interval
	uc.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := uc.Refresh(ctx); err != nil {
					uc.log.Error().Err(err).Msg("falló la sincronización automática")
				}
			}
		}
	}()
}

// Status estado de la sincronización para las cabeceras X-Last-Sync / X-Next-Sync.
func (uc *SnapshotUseCase) Status() dto.SyncStatus {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	st := dto.SyncStatus{Syncing: uc.syncing.Load(), LastSync: uc.lastSync}
	if !uc.lastSync.IsZero() && uc.interval > 0 {
		st.NextSync = uc.lastSync.Add(uc.interval)
	}
	return st
}

// PendingOrders órdenes de compra abiertas de un producto, por fecha esperada.
func (uc *SnapshotUseCase) PendingOrders(ctx context.Context, productID string) ([]entity.PendingOrder, error) {
	snap, err := uc.Get(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := snap.Product(productID)
	if !ok {
		return nil, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	out := append([]entity.PendingOrder(nil), p.PendingOrders...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ExpectedDate.Equal(out[j].ExpectedDate) {
			return out[i].ExpectedDate.Before(out[j].ExpectedDate)
		}
		return out[i].OrderRef < out[j].OrderRef
	})
	return out, nil
}

func (uc *SnapshotUseCase) snapshot() *entity.Snapshot {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.current
}

func (uc *SnapshotUseCase) store(snap *entity.Snapshot, at time.Time) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.current = snap
	uc.lastSync = at
}
