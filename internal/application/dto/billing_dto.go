package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bazar-api/internal/domain/entity"
)

// GenerateComprobanteRequest body para POST /api/facturacion/generar.
type GenerateComprobanteRequest struct {
	SaleID  int64  `json:"sale_id" validate:"required,gt=0"`
	DocType string `json:"tipo" validate:"required"` // FACTURA | BOLETA
}

// ProcessComprobanteRequest body opcional para POST /api/facturacion/procesar/:ventaId.
type ProcessComprobanteRequest struct {
	DocType string `json:"tipo"` // vacío = BOLETA
}

// ComprobanteResponse comprobante en respuestas (sin el XML).
type ComprobanteResponse struct {
	ID              string     `json:"id"`
	SaleID          int64      `json:"sale_id"`
	DocType         string     `json:"tipo"`
	DocTypeCode     string     `json:"tipo_codigo"`
	Series          string     `json:"serie"`
	Number          int64      `json:"numero"`
	FullNumber      string     `json:"numero_completo"`
	Status          string     `json:"estado"`
	Hash            string     `json:"hash"`
	Signed          bool       `json:"firmado"`
	ResponseCode    string     `json:"codigo_respuesta,omitempty"`
	ResponseMessage string     `json:"mensaje_respuesta,omitempty"`
	HasCDR          bool       `json:"tiene_cdr"`
	RetryCount      int        `json:"reintentos"`
	LastError       string     `json:"ultimo_error,omitempty"`
	SubmittedAt     *time.Time `json:"fecha_envio,omitempty"`
	RespondedAt     *time.Time `json:"fecha_respuesta,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// FromComprobante mapea la entidad a la respuesta.
func FromComprobante(c *entity.Comprobante) ComprobanteResponse {
	return ComprobanteResponse{
		ID:              c.ID,
		SaleID:          c.SaleID,
		DocType:         c.DocType.Label(),
		DocTypeCode:     c.DocType.Code(),
		Series:          c.Series,
		Number:          c.Number,
		FullNumber:      c.FullNumber(),
		Status:          string(c.Status),
		Hash:            c.Hash,
		Signed:          c.HasSignedXML(),
		ResponseCode:    c.ResponseCode,
		ResponseMessage: c.ResponseMessage,
		HasCDR:          c.CDR != "",
		RetryCount:      c.RetryCount,
		LastError:       c.LastError,
		SubmittedAt:     c.SubmittedAt,
		RespondedAt:     c.RespondedAt,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// SaleLineResponse línea de la venta.
type SaleLineResponse struct {
	ProductID   int64           `json:"producto_id"`
	ProductName string          `json:"producto"`
	Quantity    int             `json:"cantidad"`
	UnitPrice   decimal.Decimal `json:"precio_unitario"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleResponse venta de origen del comprobante.
type SaleResponse struct {
	ID            int64              `json:"id"`
	ClientName    string             `json:"cliente"`
	Total         decimal.Decimal    `json:"total"`
	PaymentLabel  string             `json:"metodo_pago"`
	PaymentMethod string             `json:"metodo_pago_normalizado"`
	SoldAt        time.Time          `json:"fecha"`
	UserID        int64              `json:"usuario_id"`
	Lines         []SaleLineResponse `json:"detalles"`
}

// FromSale mapea la venta a la respuesta.
func FromSale(s *entity.Sale) *SaleResponse {
	if s == nil {
		return nil
	}
	out := &SaleResponse{
		ID:            s.ID,
		ClientName:    s.ClientName,
		Total:         s.Total,
		PaymentLabel:  s.PaymentLabel,
		PaymentMethod: string(s.Method()),
		SoldAt:        s.SoldAt,
		UserID:        s.UserID,
		Lines:         make([]SaleLineResponse, 0, len(s.Lines)),
	}
	for _, l := range s.Lines {
		out.Lines = append(out.Lines, SaleLineResponse{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal(),
		})
	}
	return out
}

// ComprobanteDetailsResponse respuesta de GET /api/facturacion/detalles/:ventaId.
type ComprobanteDetailsResponse struct {
	Comprobante ComprobanteResponse `json:"comprobante"`
	Sale        *SaleResponse       `json:"venta"`
}
