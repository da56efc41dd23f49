// Package sunat modela el comprobante electrónico UBL 2.1 (Perú) independiente del
// formato de serialización: cabecera, emisor, adquiriente, medios de pago, IGV y líneas.
package sunat

import (
	"time"

	"github.com/shopspring/decimal"
)

// Document representación estructurada de una venta lista para serializar a UBL 2.1.
type Document struct {
	ID           string // serie-correlativo, ej. F001-00000042
	SaleID       int64
	TypeCode     string // catálogo 01: 01 factura, 03 boleta
	IssueDate    string // YYYY-MM-DD
	IssueTime    string // HH:MM:SS
	CurrencyCode string
	Supplier     Party
	Customer     Party
	PaymentMeans string // catálogo 59
	Tax          TaxTotal
	Totals       MonetaryTotal
	Lines        []Line
}

// Party emisor o adquiriente.
type Party struct {
	ID       string // RUC / DNI
	SchemeID string // catálogo 06
	Name     string
	Address  string
}

// TaxTotal IGV del comprobante.
type TaxTotal struct {
	TaxableAmount decimal.Decimal
	TaxAmount     decimal.Decimal
	Percent       decimal.Decimal // 18
}

// MonetaryTotal totales derivados del total registrado en la venta.
type MonetaryTotal struct {
	LineExtensionAmount decimal.Decimal // base imponible
	TaxInclusiveAmount  decimal.Decimal
	PayableAmount       decimal.Decimal
}

// Line línea de detalle.
type Line struct {
	ID                  int
	Quantity            int
	LineExtensionAmount decimal.Decimal
	Description         string
	UnitPrice           decimal.Decimal
}

// SplitIssueTime separa fecha y hora de emisión como los exige el XML.
func SplitIssueTime(t time.Time) (date, clock string) {
	return t.Format("2006-01-02"), t.Format("15:04:05")
}
