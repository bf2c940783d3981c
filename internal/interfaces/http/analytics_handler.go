package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/dto"
	appinv "github.com/andyspruebas-jpg/Stock-Pro/internal/application/inventory"
)

// AnalyticsHandler clasificación ABC ad hoc y pronóstico de demanda.
type AnalyticsHandler struct {
	uc *appinv.RebalanceUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *appinv.RebalanceUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// Classify godoc
// @Summary      Clasificación ABC de un mapa id → valor
// @Description  Ordena por valor descendente y asigna AA/A/B/C/D por participación acumulada.
// @Description  El líder siempre queda en AA; force_top_threshold lleva a AA todo valor >= umbral.
// @Tags         analytics
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ClassifyRequest  true  "values y force_top_threshold opcional"
// @Success      200   {object}  dto.ClassifyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/abc/classify [post]
func (h *AnalyticsHandler) Classify(c *fiber.Ctx) error {
	var in dto.ClassifyRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Classify(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Forecast godoc
// @Summary      Pronóstico de demanda por producto para un destino
// @Tags         analytics
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ForecastRequest  true  "destination_id"
// @Success      200   {object}  dto.ForecastResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/forecast [post]
func (h *AnalyticsHandler) Forecast(c *fiber.Ctx) error {
	var in dto.ForecastRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Forecast(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
