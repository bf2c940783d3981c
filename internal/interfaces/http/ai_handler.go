package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/dto"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/usecase"
)

// AIHandler redacta la conclusión de negocio de un producto con el LLM configurado.
type AIHandler struct {
	uc *usecase.NarrativeUseCase
}

// NewAIHandler construye el handler.
func NewAIHandler(uc *usecase.NarrativeUseCase) *AIHandler {
	return &AIHandler{uc: uc}
}

// Narrate godoc
// @Summary      Narrativa de negocio de un producto
// @Description  Convierte las cifras del producto (stock, ventas, pendientes, ABC) en hasta
// @Description  tres oraciones. Timeout interno de 15 s.
// @Tags         ai
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.NarrativeRequest  true  "product_id o product inline"
// @Success      200   {object}  dto.NarrativeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      408   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/narrative [post]
func (h *AIHandler) Narrate(c *fiber.Ctx) error {
	var req dto.NarrativeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_BODY", Message: "cuerpo de la petición inválido",
		})
	}
	if req.ProductID == "" && req.Product == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: "product_id o product es requerido",
		})
	}
	out, err := h.uc.Narrate(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
