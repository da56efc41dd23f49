package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Bazar-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary ventas del día y del mes por método de pago y comprobantes por estado.
// GET /api/dashboard/resumen
//
// El admin ve todas las cajas; un cajero solo sus propias ventas.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	var userID *int64
	if !IsAdmin(c) {
		uid := GetUserID(c)
		userID = &uid
	}
	summary, err := h.uc.Summary(c.UserContext(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
