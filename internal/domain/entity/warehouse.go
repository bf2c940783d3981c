package entity

// Roles de bodega dentro de la red.
const (
	WarehouseRoleBranch       = "branch"       // sucursal de venta
	WarehouseRoleDistribution = "distribution" // centro de distribución que abastece sucursales
)

// Warehouse representa una bodega o sucursal de la red. Sólo se usa para búsqueda y presentación.
type Warehouse struct {
	ID   string
	Code string
	Name string
	Role string // branch, distribution o vacío si el origen no lo informa
}

// DisplayName nombre para mostrar; cae al ID si no hay nombre.
func (w Warehouse) DisplayName() string {
	if w.Name != "" {
		return w.Name
	}
	return w.ID
}
