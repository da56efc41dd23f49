package billing

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/Bazar-api/internal/domain"
	"github.com/jhoicas/Bazar-api/internal/domain/entity"
	"github.com/jhoicas/Bazar-api/internal/domain/repository"
	"github.com/jhoicas/Bazar-api/internal/domain/sunat"
)

// PDFUseCase genera la representación impresa de un comprobante ya firmado.
type PDFUseCase struct {
	comprobantes repository.ComprobanteRepository
	builder      *DocumentBuilder
	generator    ComprobantePDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(
	comprobantes repository.ComprobanteRepository,
	builder *DocumentBuilder,
	generator ComprobantePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{comprobantes: comprobantes, builder: builder, generator: generator}
}

// Render devuelve el PDF y su nombre de archivo.
//
//   - domain.ErrNotFound      si la venta no tiene comprobante.
//   - domain.ErrInvalidState  si el comprobante sigue en DRAFT (sin firma).
func (uc *PDFUseCase) Render(ctx context.Context, saleID int64) (pdfBytes []byte, filename string, err error) {
	if err := validateSaleID(saleID); err != nil {
		return nil, "", err
	}

	// ── 1. Comprobante ───────────────────────────────────────────────────────
	c, err := uc.comprobantes.GetBySaleID(ctx, saleID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener comprobante: %w", err)
	}
	if c == nil {
		return nil, "", domain.ErrNotFound
	}
	if c.Status == entity.StatusDraft {
		return nil, "", fmt.Errorf("%w: el comprobante está en DRAFT, fírmelo antes de imprimir", domain.ErrInvalidState)
	}

	// ── 2. Documento estructurado (emisor, cliente, líneas, IGV) ────────────
	doc, err := uc.builder.Build(ctx, saleID, c.DocType)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: %w", err)
	}

	// ── 3. Generar PDF ───────────────────────────────────────────────────────
	pdfBytes, err = uc.generator.GenerateComprobantePDF(ctx, PrintableComprobante{
		Comprobante: c,
		Document:    doc,
		QRData:      QRPayload(c, doc),
	})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, strings.ToLower(c.DocType.Label()) + "_" + c.FullNumber() + ".pdf", nil
}

// RUC|TIPO|SERIE|NUMERO|IGV|TOTAL|FECHA|HASH.
func QRPayload(c *entity.Comprobante, doc *sunat.Document) string {
	return strings.Join([]string{
		doc.Supplier.ID,
		doc.TypeCode,
		c.Series,
		strconv.FormatInt(c.Number, 10),
		doc.Tax.TaxAmount.StringFixed(2),
		doc.Totals.PayableAmount.StringFixed(2),
		doc.IssueDate,
		c.Hash,
	}, "|")
}
