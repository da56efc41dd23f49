package billing

import (
	"context"

	"github.com/jhoicas/Bazar-api/internal/domain/entity"
	"github.com/jhoicas/Bazar-api/internal/domain/sunat"
)

// DocumentRenderer serializa el documento a XML UBL 2.1 (sin firma).
type DocumentRenderer interface {
	Render(doc *sunat.Document) ([]byte, error)
}

// SubmitRequest comprobante firmado listo para enviar a SUNAT.
type SubmitRequest struct {
	SaleID      int64
	SupplierRUC string
	TypeCode    string // 01 | 03
	DocumentID  string // F001-00000042
	SignedXML   []byte
}

// FileBaseName nombre de archivo exigido por SUNAT: RUC-TIPO-SERIE-CORRELATIVO.
func (r SubmitRequest) FileBaseName() string {
	return r.SupplierRUC + "-" + r.TypeCode + "-" + r.DocumentID
}

// SubmitResult respuesta de SUNAT. CDR es la constancia de recepción (XML).
type SubmitResult struct {
	Accepted        bool
	ResponseCode    string
	ResponseMessage string
	CDR             []byte
}

// Submitter envía comprobantes firmados a SUNAT. Las implementaciones no persisten nada:
// el orquestador traduce errores y rechazos al estado REJECTED.
type Submitter interface {
	Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error)
}

// ComprobantePDFGenerator genera la representación impresa del comprobante.
type ComprobantePDFGenerator interface {
	GenerateComprobantePDF(ctx context.Context, data PrintableComprobante) ([]byte, error)
}

// PrintableComprobante datos que necesita la representación impresa.
type PrintableComprobante struct {
	Comprobante *entity.Comprobante
	Document    *sunat.Document
	QRData      string
}
