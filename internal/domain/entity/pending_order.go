package entity

import "time"

// PendingOrder línea de orden de compra abierta aún no recibida.
type PendingOrder struct {
	OrderRef     string
	Quantity     float64
	ExpectedDate time.Time
	Supplier     string
	WarehouseID  string
	State        string
}
