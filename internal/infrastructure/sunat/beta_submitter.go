package sunat

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/beevik/etree"

	"github.com/jhoicas/Bazar-api/internal/application/billing"
	pkgsunat "github.com/jhoicas/Bazar-api/pkg/sunat"
)

var _ billing.Submitter = (*BetaSubmitter)(nil)

// BetaSubmitter simula el ambiente beta de SUNAT: no hace llamadas de red y acepta todo
// comprobante firmado devolviendo un CDR (ApplicationResponse) generado localmente.
type BetaSubmitter struct {
	now func() time.Time
}

// NewBetaSubmitter crea el submitter simulado.
func NewBetaSubmitter() *BetaSubmitter {
	return &BetaSubmitter{now: time.Now}
}

// Submit acepta el comprobante con código 0.
func (s *BetaSubmitter) Submit(ctx context.Context, req billing.SubmitRequest) (*billing.SubmitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(req.SignedXML) == 0 {
		return nil, fmt.Errorf("sunat beta: XML firmado vacío")
	}

	msg := fmt.Sprintf("La %s numero %s, ha sido aceptada", docLabel(req.TypeCode), req.DocumentID)
	cdr, err := buildApplicationResponse(req, pkgsunat.ResponseCodeAccepted, msg, s.now())
	if err != nil {
		return nil, err
	}
	return &billing.SubmitResult{
		Accepted:        true,
		ResponseCode:    pkgsunat.ResponseCodeAccepted,
		ResponseMessage: msg,
		CDR:             cdr,
	}, nil
}

func docLabel(typeCode string) string {
	if typeCode == pkgsunat.DocTypeBoleta {
		return "Boleta"
	}
	return "Factura"
}

// buildApplicationResponse arma un CDR mínimo con la misma forma que devuelve SUNAT.
func buildApplicationResponse(req billing.SubmitRequest, code, description string, at time.Time) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("ApplicationResponse")
	root.CreateAttr("xmlns", NsApplicationResponse)
	root.CreateAttr("xmlns:cac", NsCac)
	root.CreateAttr("xmlns:cbc", NsCbc)

	root.CreateElement("cbc:UBLVersionID").SetText(pkgsunat.UBLVersion)
	root.CreateElement("cbc:CustomizationID").SetText("1.0")
	root.CreateElement("cbc:ID").SetText(fmt.Sprintf("CDR-%d", req.SaleID))
	root.CreateElement("cbc:IssueDate").SetText(at.Format("2006-01-02"))
	root.CreateElement("cbc:IssueTime").SetText(at.Format("15:04:05"))
	root.CreateElement("cbc:ResponseDate").SetText(at.Format("2006-01-02"))
	root.CreateElement("cbc:ResponseTime").SetText(at.Format("15:04:05"))

	sender := root.CreateElement("cac:SenderParty").CreateElement("cac:PartyIdentification")
	sender.CreateElement("cbc:ID").SetText("20131312955") // RUC de SUNAT

	receiver := root.CreateElement("cac:ReceiverParty").CreateElement("cac:PartyIdentification")
	receiver.CreateElement("cbc:ID").SetText(req.SupplierRUC)

	docResp := root.CreateElement("cac:DocumentResponse")
	resp := docResp.CreateElement("cac:Response")
	resp.CreateElement("cbc:ReferenceID").SetText(req.DocumentID)
	resp.CreateElement("cbc:ResponseCode").SetText(code)
	resp.CreateElement("cbc:Description").SetText(description)

	ref := docResp.CreateElement("cac:DocumentReference")
	ref.CreateElement("cbc:ID").SetText(req.DocumentID)
	ref.CreateElement("cbc:DocumentTypeCode").SetText(req.TypeCode)

	docResp.CreateElement("cac:RecipientParty").
		CreateElement("cac:PartyIdentification").
		CreateElement("cbc:ID").SetText(req.SupplierRUC)

	root.CreateElement("cbc:Note").SetText("Comprobante recibido correctamente")

	doc.Indent(2)
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("sunat beta: serializar CDR: %w", err)
	}
	return buf.Bytes(), nil
}

// CDRResponse datos relevantes de un ApplicationResponse.
type CDRResponse struct {
	ReferenceID  string
	ResponseCode string
	Description  string
	Notes        []string
}

// ParseCDR extrae código y descripción de un ApplicationResponse (CDR).
func ParseCDR(cdr []byte) (*CDRResponse, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(cdr); err != nil {
		return nil, fmt.Errorf("sunat: parsear CDR: %w", err)
	}
	resp := doc.FindElement("//cac:DocumentResponse/cac:Response")
	if resp == nil {
		return nil, fmt.Errorf("sunat: CDR sin cac:DocumentResponse")
	}
	out := &CDRResponse{}
	if el := resp.FindElement("cbc:ReferenceID"); el != nil {
		out.ReferenceID = el.Text()
	}
	if el := resp.FindElement("cbc:ResponseCode"); el != nil {
		out.ResponseCode = el.Text()
	}
	if el := resp.FindElement("cbc:Description"); el != nil {
		out.Description = el.Text()
	}
	for _, n := range doc.FindElements("//cbc:Note") {
		out.Notes = append(out.Notes, n.Text())
	}
	return out, nil
}
