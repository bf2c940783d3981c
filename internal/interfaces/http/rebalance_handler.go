package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/dto"
	appinv "github.com/andyspruebas-jpg/Stock-Pro/internal/application/inventory"
)

// RebalanceHandler expone el planificador global y el evaluador origen→destino.
type RebalanceHandler struct {
	uc *appinv.RebalanceUseCase
}

// NewRebalanceHandler construye el handler.
func NewRebalanceHandler(uc *appinv.RebalanceUseCase) *RebalanceHandler {
	return &RebalanceHandler{uc: uc}
}

// Global godoc
// @Summary      Rebalanceo global hacia un destino
// @Description  Para cada producto con necesidad en el destino propone los mejores donantes.
// @Description  RESCUE primero, luego por score. Sin products usa el snapshot vigente.
// @Tags         rebalance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GlobalRebalanceRequest  true  "destination_id y opcionalmente productos inline"
// @Success      200   {object}  dto.GlobalRebalanceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/rebalance/global [post]
func (h *RebalanceHandler) Global(c *fiber.Ctx) error {
	var in dto.GlobalRebalanceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.PlanGlobal(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Pairwise godoc
// @Summary      Evaluar traspaso entre un origen y un destino
// @Tags         rebalance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PairwiseTransferRequest  true  "source_id, dest_id"
// @Success      200   {object}  dto.PairwiseTransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/rebalance/pairwise [post]
func (h *RebalanceHandler) Pairwise(c *fiber.Ctx) error {
	var in dto.PairwiseTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.EvaluatePairwise(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PairwiseReport godoc
// @Summary      Orden de traspaso en PDF
// @Description  Evalúa el par y devuelve las líneas aprobadas como PDF con QR del run id.
// @Tags         rebalance
// @Security     Bearer
// @Accept       json
// @Produce      application/pdf
// @Param        body  body  dto.PairwiseTransferRequest  true  "source_id, dest_id"
// @Success      200   {file}    binary
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/rebalance/pairwise/report [post]
func (h *RebalanceHandler) PairwiseReport(c *fiber.Ctx) error {
	var in dto.PairwiseTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	pdf, order, err := h.uc.TransferOrderPDF(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="traspaso-%s-%s.pdf"`, order.Source.ID, order.Destination.ID))
	c.Set("X-Run-ID", order.RunID)
	return c.Send(pdf)
}
