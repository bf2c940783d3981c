package entity

import "time"

// Snapshot foto completa de la red usada por una corrida de análisis.
type Snapshot struct {
	Products   []ProductSnapshot
	Warehouses []Warehouse
	TakenAt    time.Time
}

// Warehouse busca una bodega por ID.
func (s *Snapshot) Warehouse(id string) (Warehouse, bool) {
	for _, w := range s.Warehouses {
		if w.ID == id {
			return w, true
		}
	}
	return Warehouse{}, false
}

// Product busca un producto por ID.
func (s *Snapshot) Product(id string) (*ProductSnapshot, bool) {
	for i := range s.Products {
		if s.Products[i].ID == id {
			return &s.Products[i], true
		}
	}
	return nil, false
}
