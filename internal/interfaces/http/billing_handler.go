package http

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Bazar-api/internal/application/billing"
	"github.com/jhoicas/Bazar-api/internal/application/dto"
	"github.com/jhoicas/Bazar-api/internal/domain/entity"
)

// BillingHandler endpoints de facturación electrónica (/api/facturacion).
type BillingHandler struct {
	orch *billing.Orchestrator
	pdf  *billing.PDFUseCase
}

// NewBillingHandler construye el handler.
func NewBillingHandler(orch *billing.Orchestrator, pdf *billing.PDFUseCase) *BillingHandler {
	return &BillingHandler{orch: orch, pdf: pdf}
}

// Generate godoc
// @Summary      Generar comprobante (DRAFT)
// @Tags         facturacion
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GenerateComprobanteRequest  true  "sale_id y tipo (FACTURA | BOLETA)"
// @Success      201   {object}  dto.ComprobanteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/facturacion/generar [post]
func (h *BillingHandler) Generate(c *fiber.Ctx) error {
	var req dto.GenerateComprobanteRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	docType, err := entity.ParseDocumentType(req.DocType)
	if err != nil {
		return badRequest(c, err.Error())
	}
	comp, err := h.orch.Generate(c.UserContext(), req.SaleID, docType)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromComprobante(comp))
}

// Sign POST /api/facturacion/firmar/:ventaId
func (h *BillingHandler) Sign(c *fiber.Ctx) error {
	return h.transition(c, h.orch.Sign)
}

// Submit POST /api/facturacion/enviar/:ventaId
//
// Un rechazo de SUNAT no es error HTTP: responde 200 con estado REJECTED.
func (h *BillingHandler) Submit(c *fiber.Ctx) error {
	return h.transition(c, h.orch.Submit)
}

// Resubmit POST /api/facturacion/reenviar/:ventaId
func (h *BillingHandler) Resubmit(c *fiber.Ctx) error {
	return h.transition(c, h.orch.Resubmit)
}

// Process godoc
// @Summary      Generar, firmar y enviar en una sola llamada
// @Description  Continúa desde el estado actual del comprobante. Sin body se emite BOLETA.
// @Tags         facturacion
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        ventaId  path  int  true  "ID de la venta"
// @Param        body     body  dto.ProcessComprobanteRequest  false  "tipo opcional"
// @Success      200   {object}  dto.ComprobanteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/facturacion/procesar/{ventaId} [post]
func (h *BillingHandler) Process(c *fiber.Ctx) error {
	saleID, ok := parseSaleIDParam(c)
	if !ok {
		return badRequest(c, "ventaId inválido")
	}
	var req dto.ProcessComprobanteRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "JSON inválido"})
		}
	}
	docType := entity.DocReceipt
	if req.DocType != "" {
		t, err := entity.ParseDocumentType(req.DocType)
		if err != nil {
			return badRequest(c, err.Error())
		}
		docType = t
	}
	comp, err := h.orch.ProcessFull(c.UserContext(), saleID, docType)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromComprobante(comp))
}

// Status GET /api/facturacion/estado/:ventaId
func (h *BillingHandler) Status(c *fiber.Ctx) error {
	return h.transition(c, h.orch.GetStatus)
}

// List GET /api/facturacion/listar?estado=&venta_id=&desde=&hasta=&limit=
func (h *BillingHandler) List(c *fiber.Ctx) error {
	f := entity.ComprobanteFilter{Limit: parseLimitQuery(c, 100)}
	if s := c.Query("estado"); s != "" {
		st, err := entity.ParseComprobanteStatus(s)
		if err != nil {
			return badRequest(c, err.Error())
		}
		f.Status = &st
	}
	if s := c.Query("venta_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			return badRequest(c, "venta_id inválido")
		}
		f.SaleID = &id
	}
	var err error
	if f.From, err = parseDateQuery(c, "desde", false); err != nil {
		return badRequest(c, err.Error())
	}
	if f.To, err = parseDateQuery(c, "hasta", true); err != nil {
		return badRequest(c, err.Error())
	}

	list, err := h.orch.List(c.UserContext(), f)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.ComprobanteResponse, 0, len(list))
	for _, comp := range list {
		items = append(items, dto.FromComprobante(comp))
	}
	return c.JSON(dto.ListResponse[dto.ComprobanteResponse]{Items: items, Total: len(items)})
}

// XML descarga el XML firmado (o el borrador si aún no se firmó).
// GET /api/facturacion/xml/:ventaId
func (h *BillingHandler) XML(c *fiber.Ctx) error {
	return h.download(c, h.orch.Document)
}

// CDR descarga la constancia de recepción de SUNAT.
// GET /api/facturacion/cdr/:ventaId
func (h *BillingHandler) CDR(c *fiber.Ctx) error {
	return h.download(c, h.orch.CDR)
}

// Details comprobante con la venta de origen.
// GET /api/facturacion/detalles/:ventaId
func (h *BillingHandler) Details(c *fiber.Ctx) error {
	saleID, ok := parseSaleIDParam(c)
	if !ok {
		return badRequest(c, "ventaId inválido")
	}
	d, err := h.orch.Details(c.UserContext(), saleID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ComprobanteDetailsResponse{
		Comprobante: dto.FromComprobante(d.Comprobante),
		Sale:        dto.FromSale(d.Sale),
	})
}

// PDF representación impresa.
// GET /api/facturacion/pdf/:ventaId
func (h *BillingHandler) PDF(c *fiber.Ctx) error {
	saleID, ok := parseSaleIDParam(c)
	if !ok {
		return badRequest(c, "ventaId inválido")
	}
	pdfBytes, filename, err := h.pdf.Render(c.UserContext(), saleID)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (h *BillingHandler) transition(c *fiber.Ctx, op func(context.Context, int64) (*entity.Comprobante, error)) error {
	saleID, ok := parseSaleIDParam(c)
	if !ok {
		return badRequest(c, "ventaId inválido")
	}
	comp, err := op(c.UserContext(), saleID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromComprobante(comp))
}

func (h *BillingHandler) download(c *fiber.Ctx, op func(context.Context, int64) (*billing.ExportedFile, error)) error {
	saleID, ok := parseSaleIDParam(c)
	if !ok {
		return badRequest(c, "ventaId inválido")
	}
	f, err := op(c.UserContext(), saleID)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, f.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+f.FileName+`"`)
	return c.Send(f.Content)
}
