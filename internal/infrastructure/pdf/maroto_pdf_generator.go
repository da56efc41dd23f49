// Package pdf implementa la representación impresa del comprobante electrónico SUNAT.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + RUC  │  FACTURA/BOLETA + N° + Fecha │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMISOR: Dirección                                          │
//	│  ADQUIRIENTE: Nombre + RUC/DNI                              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | Importe               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Op. gravada / IGV 18% / IMPORTE TOTAL             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER SUNAT: Hash + QR + Estado + Leyenda                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bazar-api/internal/application/billing"
	"github.com/jhoicas/Bazar-api/internal/domain/entity"
	"github.com/jhoicas/Bazar-api/internal/domain/sunat"
	pkgsunat "github.com/jhoicas/Bazar-api/pkg/sunat"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 170, Green: 20, Blue: 40}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ billing.ComprobantePDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa billing.ComprobantePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateComprobantePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateComprobantePDF(_ context.Context, data billing.PrintableComprobante) ([]byte, error) {
	c, doc := data.Comprobante, data.Document
	if c == nil || doc == nil {
		return nil, fmt.Errorf("pdf: comprobante o documento nulo")
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title(c.DocType)+" "+c.FullNumber(), true).
		WithAuthor(doc.Supplier.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(c, doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(supplierRow(doc.Supplier))
	m.AddRows(customerRow(doc.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(doc)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(doc))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(sunatFooterRows(c, data.QRData)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

func title(t entity.DocumentType) string {
	if t == entity.DocReceipt {
		return "BOLETA DE VENTA ELECTRÓNICA"
	}
	return "FACTURA ELECTRÓNICA"
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: razón social + RUC (izq) y recuadro del comprobante (der).
func headerRow(c *entity.Comprobante, doc *sunat.Document) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New(doc.Supplier.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("RUC: "+doc.Supplier.ID, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(title(c.DocType), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(c.FullNumber(), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha de emisión: "+doc.IssueDate+" "+doc.IssueTime, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func supplierRow(p sunat.Party) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("EMISOR", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New("Dirección: "+nonEmpty(p.Address, "-"), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func customerRow(p sunat.Party) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("ADQUIRIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(p.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(identityLabel(p.SchemeID)+": "+p.ID, props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 6, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Importe", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableDetailRows una fila por línea. Sin líneas se imprime una fila con el total de la venta.
func tableDetailRows(doc *sunat.Document) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	if len(doc.Lines) == 0 {
		return []core.Row{row.New(7).Add(
			cell("1", 1, align.Center),
			cell("Venta de mercadería", 6, align.Left),
			cell(money(doc.Totals.PayableAmount), 2, align.Right),
			cell(money(doc.Totals.PayableAmount), 3, align.Right),
		)}
	}
	rows := make([]core.Row, 0, len(doc.Lines))
	for _, l := range doc.Lines {
		desc := l.Description
		if desc == "" {
			desc = "Item " + strconv.Itoa(l.ID)
		}
		rows = append(rows, row.New(7).Add(
			cell(strconv.Itoa(l.Quantity), 1, align.Center),
			cell(desc, 6, align.Left),
			cell(money(l.UnitPrice), 2, align.Right),
			cell(money(l.LineExtensionAmount), 3, align.Right),
		))
	}
	return rows
}

func totalsRow(doc *sunat.Document) core.Row {
	label := func(s string, bold bool) core.Component {
		p := props.Text{Size: 9, Align: align.Right, Right: 2}
		if bold {
			p.Style = fontstyle.Bold
			p.Color = colorPrimary
			p.Size = 10
		}
		return text.New(s, p)
	}
	return row.New(22).Add(
		col.New(6),
		col.New(3).Add(
			label("Op. gravada:", false),
			label("IGV "+doc.Tax.Percent.String()+"%:", false),
			label("IMPORTE TOTAL:", true),
		),
		col.New(3).Add(
			label(money(doc.Totals.LineExtensionAmount), false),
			label(money(doc.Tax.TaxAmount), false),
			label(money(doc.Totals.PayableAmount), true),
		),
	)
}

// sunatFooterRows: hash, QR y estado ante SUNAT.
func sunatFooterRows(c *entity.Comprobante, qrData string) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("INFORMACIÓN ELECTRÓNICA SUNAT", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
		row.New(5).Add(col.New(12).Add(
			text.New("Resumen (hash): "+c.Hash, props.Text{Size: 7, Color: colorGray, Top: 1}),
		)),
	}

	status := "Estado SUNAT: " + string(c.Status)
	if c.ResponseMessage != "" {
		status += " - " + c.ResponseMessage
	}

	if qrData != "" {
		rows = append(rows, row.New(45).Add(
			code.NewQrCol(4, qrData, props.Rect{Percent: 95, Center: true}),
			col.New(8).Add(
				text.New("Representación impresa de la "+title(c.DocType)+".", props.Text{
					Style: fontstyle.Bold, Size: 9, Top: 4, Left: 3, Color: colorPrimary,
				}),
				text.New("Consulte su validez en www.sunat.gob.pe.", props.Text{
					Size: 8, Top: 12, Left: 3, Color: colorGray,
				}),
				text.New(status, props.Text{Size: 8, Top: 20, Left: 3, Color: colorGray}),
			),
		))
	} else {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New(status, props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		)))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func identityLabel(scheme string) string {
	switch scheme {
	case pkgsunat.IdentityTypeRUC:
		return "RUC"
	case pkgsunat.IdentityTypeDNI:
		return "DNI"
	}
	return "Doc."
}

// money formatea soles con dos decimales: 1234.5 -> "S/ 1,234.50".
func money(d decimal.Decimal) string {
	s := d.Round(2).StringFixed(2)
	neg := false
	if s[0] == '-' {
		neg, s = true, s[1:]
	}
	intPart, frac := s[:len(s)-3], s[len(s)-3:]
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, intPart[i])
	}
	out := "S/ " + string(buf) + frac
	if neg {
		out = "-" + out
	}
	return out
}
