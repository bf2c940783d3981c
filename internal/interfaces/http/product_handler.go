package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/dto"
	appinv "github.com/andyspruebas-jpg/Stock-Pro/internal/application/inventory"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/entity"
)

// ProductHandler sirve la foto de inventario de la red ya clasificada (protegido).
type ProductHandler struct {
	uc *appinv.SnapshotUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *appinv.SnapshotUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// List godoc
// @Summary      Foto de inventario con categorías ABC
// @Description  Devuelve productos y bodegas. Con sync=true fuerza la recarga desde el ERP.
// @Description  Las cabeceras X-Last-Sync y X-Next-Sync informan el ciclo de sincronización.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        sync  query  bool  false  "Forzar recarga"
// @Success      200   {object}  dto.SnapshotDTO
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var (
		snap *entity.Snapshot
		err  error
	)
	if c.QueryBool("sync", false) {
		snap, err = h.uc.Refresh(c.UserContext())
	} else {
		snap, err = h.uc.Get(c.UserContext())
	}
	if err != nil {
		return respondError(c, err)
	}
	h.syncHeaders(c)
	return c.JSON(dto.ToSnapshotDTO(snap))
}

// Pending godoc
// @Summary      Órdenes de compra pendientes de un producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {array}   dto.PendingOrderDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/pending [get]
func (h *ProductHandler) Pending(c *fiber.Ctx) error {
	orders, err := h.uc.PendingOrders(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.PendingOrderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, dto.ToPendingOrderDTO(o))
	}
	return c.JSON(out)
}

// Sync godoc
// @Summary      Forzar sincronización del snapshot (admin, analista)
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncStatus
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/products/sync [post]
func (h *ProductHandler) Sync(c *fiber.Ctx) error {
	if _, err := h.uc.Refresh(c.UserContext()); err != nil {
		return respondError(c, err)
	}
	h.syncHeaders(c)
	return c.JSON(h.uc.Status())
}

func (h *ProductHandler) syncHeaders(c *fiber.Ctx) {
	st := h.uc.Status()
	if !st.LastSync.IsZero() {
		c.Set("X-Last-Sync", st.LastSync.UTC().Format(time.RFC3339))
	}
	if !st.NextSync.IsZero() {
		c.Set("X-Next-Sync", st.NextSync.UTC().Format(time.RFC3339))
	}
}
