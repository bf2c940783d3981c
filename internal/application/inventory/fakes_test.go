package inventory_test

import (
	"context"
	"errors"
	"sync"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/dto"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/entity"
	domaininv "github.com/andyspruebas-jpg/Stock-Pro/internal/domain/inventory"
)

// fakeSnapshotRepo devuelve siempre una copia de la misma foto y cuenta las cargas.
type fakeSnapshotRepo struct {
	mu    sync.Mutex
	snap  entity.Snapshot
	err   error
	loads int
}

func (r *fakeSnapshotRepo) Load(_ context.Context) (*entity.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads++
	if r.err != nil {
		return nil, r.err
	}
	cp := r.snap
	cp.Products = append([]entity.ProductSnapshot(nil), r.snap.Products...)
	return &cp, nil
}

func (r *fakeSnapshotRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loads
}

type fakeCache struct {
	snap   *entity.Snapshot
	getErr error
	sets   int
}

func (c *fakeCache) Get(_ context.Context) (*entity.Snapshot, error) { return c.snap, c.getErr }
func (c *fakeCache) Set(_ context.Context, s *entity.Snapshot) error {
	c.sets++
	c.snap = s
	return nil
}
func (c *fakeCache) Invalidate(_ context.Context) error {
	c.snap = nil
	return nil
}

// staticSource foto fija, sin reclasificar.
type staticSource struct {
	snap *entity.Snapshot
	err  error
}

func (s staticSource) Get(_ context.Context) (*entity.Snapshot, error) { return s.snap, s.err }

type fakePredictor struct {
	preds map[string]domaininv.Prediction
	err   error
	calls int
}

func (p *fakePredictor) Predict(_ context.Context, _ []entity.ProductSnapshot, _ entity.Warehouse) (map[string]domaininv.Prediction, error) {
	p.calls++
	return p.preds, p.err
}

type fakeReports struct {
	order *dto.TransferOrder
	fail  bool
}

func (r *fakeReports) GenerateTransferOrder(order *dto.TransferOrder) ([]byte, error) {
	if r.fail {
		return nil, errors.New("pdf roto")
	}
	r.order = order
	return []byte("%PDF-fake"), nil
}
