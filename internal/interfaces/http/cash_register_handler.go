package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Bazar-api/internal/application/cashregister"
	"github.com/jhoicas/Bazar-api/internal/application/dto"
	"github.com/jhoicas/Bazar-api/internal/domain/entity"
)

// CashRegisterHandler endpoints de caja (/api/cierre-caja). Cada usuario opera su propia caja.
type CashRegisterHandler struct {
	uc *cashregister.UseCase
}

// NewCashRegisterHandler construye el handler.
func NewCashRegisterHandler(uc *cashregister.UseCase) *CashRegisterHandler {
	return &CashRegisterHandler{uc: uc}
}

// Status GET /api/cierre-caja/estado
func (h *CashRegisterHandler) Status(c *fiber.Ctx) error {
	s, err := h.uc.Current(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CashRegisterStatusResponse{
		Open:    s != nil,
		Session: dto.FromCashRegisterSession(s),
	})
}

// Open godoc
// @Summary      Abrir caja
// @Tags         cierre-caja
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenCashRegisterRequest  true  "monto_inicial y observaciones"
// @Success      201   {object}  dto.CashRegisterSessionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/cierre-caja/abrir [post]
func (h *CashRegisterHandler) Open(c *fiber.Ctx) error {
	var req dto.OpenCashRegisterRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	s, err := h.uc.Open(c.UserContext(), GetUserID(c), req.OpeningAmount, req.Notes)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromCashRegisterSession(s))
}

// Close godoc
// @Summary      Cerrar caja
// @Description  Congela los totales por método de pago desde la apertura y registra el monto contado.
// @Tags         cierre-caja
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CloseCashRegisterRequest  true  "monto_final y observaciones"
// @Success      200   {object}  dto.CashRegisterSessionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/cierre-caja/cerrar [post]
func (h *CashRegisterHandler) Close(c *fiber.Ctx) error {
	var req dto.CloseCashRegisterRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	s, err := h.uc.Close(c.UserContext(), GetUserID(c), req.CountedAmount, req.Notes)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromCashRegisterSession(s))
}

// Preview totales en curso sin cerrar la caja.
// GET /api/cierre-caja/preview
func (h *CashRegisterHandler) Preview(c *fiber.Ctx) error {
	p, err := h.uc.Preview(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CashRegisterPreviewResponse{
		Range:              dto.DateRangeDTO{From: p.WindowStart, To: p.WindowEnd},
		Session:            dto.FromCashRegisterSession(p.Session),
		Totals:             dto.FromPaymentTotals(p.Totals),
		EstimatedFinalCash: p.EstimatedFinalCash,
	})
}

// List historial de cierres. Un cajero solo ve los suyos; el admin puede filtrar por usuario_id.
// GET /api/cierre-caja?desde=&hasta=&usuario_id=&limit=
func (h *CashRegisterHandler) List(c *fiber.Ctx) error {
	f := entity.SessionFilter{Limit: parseLimitQuery(c, 100)}
	var err error
	if f.From, err = parseDateQuery(c, "desde", false); err != nil {
		return badRequest(c, err.Error())
	}
	if f.To, err = parseDateQuery(c, "hasta", true); err != nil {
		return badRequest(c, err.Error())
	}

	if IsAdmin(c) {
		if s := c.Query("usuario_id"); s != "" {
			id, err := strconv.ParseInt(s, 10, 64)
			if err != nil || id <= 0 {
				return badRequest(c, "usuario_id inválido")
			}
			f.UserID = &id
		}
	} else {
		uid := GetUserID(c)
		f.UserID = &uid
	}

	list, err := h.uc.ListSessions(c.UserContext(), f)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.CashRegisterSessionResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *dto.FromCashRegisterSession(s))
	}
	return c.JSON(dto.ListResponse[dto.CashRegisterSessionResponse]{Items: items, Total: len(items)})
}
