package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Bazar-api/pkg/sunat"
)

// DocumentType tipo de comprobante electrónico.
type DocumentType string

const (
	DocInvoice DocumentType = "INVOICE" // factura (01)
	DocReceipt DocumentType = "RECEIPT" // boleta (03)
)

// ParseDocumentType acepta el valor canónico o el nombre usado en caja ("FACTURA", "BOLETA").
func ParseDocumentType(s string) (DocumentType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INVOICE", "FACTURA", sunat.DocTypeFactura:
		return DocInvoice, nil
	case "RECEIPT", "BOLETA", sunat.DocTypeBoleta:
		return DocReceipt, nil
	}
	return "", fmt.Errorf("tipo de comprobante desconocido %q", s)
}

// Valid true para factura o boleta.
func (t DocumentType) Valid() bool {
	return t == DocInvoice || t == DocReceipt
}

// Code código SUNAT (catálogo 01).
func (t DocumentType) Code() string {
	if t == DocReceipt {
		return sunat.DocTypeBoleta
	}
	return sunat.DocTypeFactura
}

// Label nombre comercial del tipo ("FACTURA", "BOLETA").
func (t DocumentType) Label() string {
	if t == DocReceipt {
		return "BOLETA"
	}
	return "FACTURA"
}

// Series serie fija por tipo de comprobante.
func (t DocumentType) Series() string {
	if t == DocReceipt {
		return sunat.SeriesBoleta
	}
	return sunat.SeriesFactura
}

// ComprobanteStatus estado del ciclo de vida del comprobante.
type ComprobanteStatus string

const (
	StatusDraft     ComprobanteStatus = "DRAFT"
	StatusSigned    ComprobanteStatus = "SIGNED"
	StatusSubmitted ComprobanteStatus = "SUBMITTED" // transitorio mientras se espera a SUNAT
	StatusAccepted  ComprobanteStatus = "ACCEPTED"
	StatusRejected  ComprobanteStatus = "REJECTED"
)

// MaxResubmitAttempts reenvíos permitidos tras un rechazo. El primer envío no cuenta.
const MaxResubmitAttempts = 3

var transitions = map[ComprobanteStatus][]ComprobanteStatus{
	StatusDraft:     {StatusSigned},
	StatusSigned:    {StatusSubmitted},
	StatusSubmitted: {StatusAccepted, StatusRejected},
	StatusRejected:  {StatusSubmitted},
}

// CanTransition indica si el paso from -> to está permitido.
func CanTransition(from, to ComprobanteStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ParseComprobanteStatus valida un estado recibido por query string.
func ParseComprobanteStatus(s string) (ComprobanteStatus, error) {
	st := ComprobanteStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case StatusDraft, StatusSigned, StatusSubmitted, StatusAccepted, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("estado de comprobante desconocido %q", s)
}

// Comprobante documento tributario electrónico de una venta (uno por venta).
type Comprobante struct {
	ID              string
	SaleID          int64
	DocType         DocumentType
	Series          string
	Number          int64
	UnsignedXML     string
	SignedXML       string // vacío hasta que el comprobante se firma
	Hash            string // SHA-256 hex del XML sin firma
	Status          ComprobanteStatus
	ResponseCode    string
	ResponseMessage string
	CDR             string // constancia de recepción devuelta por SUNAT
	SubmittedAt     *time.Time
	RespondedAt     *time.Time
	RetryCount      int
	LastError       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FullNumber serie-correlativo, ej. F001-00000042.
func (c *Comprobante) FullNumber() string {
	return FormatDocumentNumber(c.Series, c.Number)
}

// FormatDocumentNumber serie y correlativo con 8 dígitos.
func FormatDocumentNumber(series string, number int64) string {
	return fmt.Sprintf("%s-%08d", series, number)
}

// HasSignedXML true si el comprobante ya tiene XML firmado.
func (c *Comprobante) HasSignedXML() bool {
	return c.SignedXML != ""
}

// CanResubmit true si está rechazado y le quedan reintentos.
func (c *Comprobante) CanResubmit() bool {
	return c.Status == StatusRejected && c.RetryCount < MaxResubmitAttempts
}

// Document devuelve el XML firmado si existe; si no, el XML sin firma.
func (c *Comprobante) Document() string {
	if c.HasSignedXML() {
		return c.SignedXML
	}
	return c.UnsignedXML
}

// ComprobanteFilter filtros del listado de comprobantes.
type ComprobanteFilter struct {
	Status *ComprobanteStatus
	SaleID *int64
	From   *time.Time
	To     *time.Time
	Limit  int
}
