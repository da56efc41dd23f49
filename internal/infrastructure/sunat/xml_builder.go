// Package sunat contiene los adaptadores de emisión electrónica SUNAT (Perú):
// serialización UBL 2.1, firma simulada, envío beta simulado y cliente SOAP sendBill.
package sunat

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bazar-api/internal/application/billing"
	"github.com/jhoicas/Bazar-api/internal/domain/sunat"
	pkgsunat "github.com/jhoicas/Bazar-api/pkg/sunat"
)

// Namespaces UBL 2.1.
const (
	NsInvoice             = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsApplicationResponse = "urn:oasis:names:specification:ubl:schema:xsd:ApplicationResponse-2"
	NsCac                 = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc                 = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
	NsExt                 = "urn:oasis:names:specification:ubl:schema:xsd:CommonExtensionComponents-2"
	NsDs                  = "http://www.w3.org/2000/09/xmldsig#"
)

// SignatureMethodURN método declarado en cac:Signature.
const SignatureMethodURN = "urn:digicert:signature:rsa-sha256"

const operationTypeVentaInterna = "0101"

var _ billing.DocumentRenderer = (*XMLBuilderService)(nil)

// XMLBuilderService serializa sunat.Document a UBL 2.1 (sin firma).
// Los elementos se escriben con prefijo literal (cbc:, cac:, ext:) para que el XML
// use los prefijos declarados en la raíz y no un xmlns por elemento.
type XMLBuilderService struct{}

// NewXMLBuilderService crea el servicio.
func NewXMLBuilderService() *XMLBuilderService {
	return &XMLBuilderService{}
}

// Render genera el Invoice UBL 2.1. La salida es determinista para el mismo documento.
func (s *XMLBuilderService) Render(doc *sunat.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("sunat: documento nulo")
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	root := xml.StartElement{
		Name: xml.Name{Local: "Invoice"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns"}, Value: NsInvoice},
			{Name: xml.Name{Local: "xmlns:cac"}, Value: NsCac},
			{Name: xml.Name{Local: "xmlns:cbc"}, Value: NsCbc},
			{Name: xml.Name{Local: "xmlns:ds"}, Value: NsDs},
			{Name: xml.Name{Local: "xmlns:ext"}, Value: NsExt},
		},
	}
	start(enc, root)

	// ext:UBLExtensions siempre primer hijo: el firmador con certificado inyecta ds:Signature aquí.
	open(enc, "ext:UBLExtensions")
	open(enc, "ext:UBLExtension")
	open(enc, "ext:ExtensionContent")
	closeTag(enc, "ext:ExtensionContent")
	closeTag(enc, "ext:UBLExtension")
	closeTag(enc, "ext:UBLExtensions")

	writeCbc(enc, "UBLVersionID", pkgsunat.UBLVersion)
	writeCbc(enc, "CustomizationID", pkgsunat.CustomizationID)
	writeCbc(enc, "ID", doc.ID)
	writeCbc(enc, "IssueDate", doc.IssueDate)
	writeCbc(enc, "IssueTime", doc.IssueTime)
	writeCbcWithAttr(enc, "InvoiceTypeCode", doc.TypeCode, "listID", operationTypeVentaInterna)
	writeCbc(enc, "DocumentCurrencyCode", doc.CurrencyCode)
	writeCbc(enc, "LineCountNumeric", strconv.Itoa(len(doc.Lines)))

	s.writeSignatureReference(enc, doc)
	s.writeParty(enc, "cac:AccountingSupplierParty", doc.Supplier, true)
	s.writeParty(enc, "cac:AccountingCustomerParty", doc.Customer, false)
	s.writeDelivery(enc, doc)
	s.writePaymentMeans(enc, doc)
	s.writeTaxTotal(enc, doc)
	s.writeLegalMonetaryTotal(enc, doc)
	for _, line := range doc.Lines {
		s.writeInvoiceLine(enc, doc.CurrencyCode, line)
	}

	end(enc, root)
	if err := enc.Flush(); err != nil {
		return nil, fmt.Errorf("sunat: serializar XML: %w", err)
	}
	return buf.Bytes(), nil
}

// writeSignatureReference cac:Signature con el firmante (RUC del emisor).
func (s *XMLBuilderService) writeSignatureReference(enc *xml.Encoder, doc *sunat.Document) {
	open(enc, "cac:Signature")
	writeCbc(enc, "ID", "SIGN"+doc.Supplier.ID)
	writeCbc(enc, "SignatureMethod", SignatureMethodURN)
	open(enc, "cac:SignatoryParty")
	open(enc, "cac:PartyIdentification")
	writeCbc(enc, "ID", doc.Supplier.ID)
	closeTag(enc, "cac:PartyIdentification")
	open(enc, "cac:PartyName")
	writeCbc(enc, "Name", doc.Supplier.Name)
	closeTag(enc, "cac:PartyName")
	closeTag(enc, "cac:SignatoryParty")
	open(enc, "cac:DigitalSignatureAttachment")
	open(enc, "cac:ExternalReference")
	writeCbc(enc, "URI", "#SIGN"+doc.Supplier.ID)
	closeTag(enc, "cac:ExternalReference")
	closeTag(enc, "cac:DigitalSignatureAttachment")
	closeTag(enc, "cac:Signature")
}

func (s *XMLBuilderService) writeParty(enc *xml.Encoder, tag string, p sunat.Party, supplier bool) {
	open(enc, tag)
	open(enc, "cac:Party")

	open(enc, "cac:PartyIdentification")
	writeCbcWithAttr(enc, "ID", p.ID, "schemeID", p.SchemeID)
	closeTag(enc, "cac:PartyIdentification")

	open(enc, "cac:PartyName")
	writeCbc(enc, "Name", p.Name)
	closeTag(enc, "cac:PartyName")

	open(enc, "cac:PartyLegalEntity")
	writeCbc(enc, "RegistrationName", p.Name)
	if supplier {
		open(enc, "cac:RegistrationAddress")
		if p.Address != "" {
			open(enc, "cac:AddressLine")
			writeCbc(enc, "Line", p.Address)
			closeTag(enc, "cac:AddressLine")
		}
		writeCbc(enc, "CityName", "Lima")
		open(enc, "cac:Country")
		writeCbc(enc, "IdentificationCode", "PE")
		closeTag(enc, "cac:Country")
		closeTag(enc, "cac:RegistrationAddress")
	}
	closeTag(enc, "cac:PartyLegalEntity")

	closeTag(enc, "cac:Party")
	closeTag(enc, tag)
}

func (s *XMLBuilderService) writeDelivery(enc *xml.Encoder, doc *sunat.Document) {
	open(enc, "cac:Delivery")
	writeCbc(enc, "ActualDeliveryDate", doc.IssueDate)
	open(enc, "cac:DeliveryLocation")
	writeCbc(enc, "Description", "Entrega en tienda")
	closeTag(enc, "cac:DeliveryLocation")
	closeTag(enc, "cac:Delivery")
}

func (s *XMLBuilderService) writePaymentMeans(enc *xml.Encoder, doc *sunat.Document) {
	code := doc.PaymentMeans
	if code == "" {
		code = pkgsunat.PaymentMeansOtros
	}
	open(enc, "cac:PaymentMeans")
	writeCbc(enc, "PaymentMeansCode", code)
	writeCbc(enc, "PaymentDueDate", doc.IssueDate)
	closeTag(enc, "cac:PaymentMeans")
}

func (s *XMLBuilderService) writeTaxTotal(enc *xml.Encoder, doc *sunat.Document) {
	cur := doc.CurrencyCode
	open(enc, "cac:TaxTotal")
	writeCbcAmount(enc, "TaxAmount", formatDecimal(doc.Tax.TaxAmount), cur)
	open(enc, "cac:TaxSubtotal")
	writeCbcAmount(enc, "TaxableAmount", formatDecimal(doc.Tax.TaxableAmount), cur)
	writeCbcAmount(enc, "TaxAmount", formatDecimal(doc.Tax.TaxAmount), cur)
	open(enc, "cac:TaxCategory")
	writeCbc(enc, "Percent", doc.Tax.Percent.String())
	open(enc, "cac:TaxScheme")
	writeCbc(enc, "ID", pkgsunat.TaxSchemeIGV)
	writeCbc(enc, "Name", pkgsunat.TaxNameIGV)
	writeCbc(enc, "TaxTypeCode", pkgsunat.TaxTypeCodeVAT)
	closeTag(enc, "cac:TaxScheme")
	closeTag(enc, "cac:TaxCategory")
	closeTag(enc, "cac:TaxSubtotal")
	closeTag(enc, "cac:TaxTotal")
}

func (s *XMLBuilderService) writeLegalMonetaryTotal(enc *xml.Encoder, doc *sunat.Document) {
	cur := doc.CurrencyCode
	open(enc, "cac:LegalMonetaryTotal")
	writeCbcAmount(enc, "LineExtensionAmount", formatDecimal(doc.Totals.LineExtensionAmount), cur)
	writeCbcAmount(enc, "TaxInclusiveAmount", formatDecimal(doc.Totals.TaxInclusiveAmount), cur)
	writeCbcAmount(enc, "PayableAmount", formatDecimal(doc.Totals.PayableAmount), cur)
	closeTag(enc, "cac:LegalMonetaryTotal")
}

func (s *XMLBuilderService) writeInvoiceLine(enc *xml.Encoder, cur string, line sunat.Line) {
	open(enc, "cac:InvoiceLine")
	writeCbc(enc, "ID", strconv.Itoa(line.ID))
	writeCbcWithAttr(enc, "InvoicedQuantity", strconv.Itoa(line.Quantity), "unitCode", pkgsunat.UnitNIU)
	writeCbcAmount(enc, "LineExtensionAmount", formatDecimal(line.LineExtensionAmount), cur)

	open(enc, "cac:Item")
	desc := line.Description
	if desc == "" {
		desc = "Item " + strconv.Itoa(line.ID)
	}
	writeCbc(enc, "Description", desc)
	open(enc, "cac:SellersItemIdentification")
	writeCbc(enc, "ID", strconv.Itoa(line.ID))
	closeTag(enc, "cac:SellersItemIdentification")
	closeTag(enc, "cac:Item")

	open(enc, "cac:Price")
	writeCbcAmount(enc, "PriceAmount", formatDecimal(line.UnitPrice), cur)
	closeTag(enc, "cac:Price")

	closeTag(enc, "cac:InvoiceLine")
}

func start(enc *xml.Encoder, el xml.StartElement) { _ = enc.EncodeToken(el) }
func end(enc *xml.Encoder, el xml.StartElement)   { _ = enc.EncodeToken(el.End()) }

func open(enc *xml.Encoder, qname string) {
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: qname}})
}

func closeTag(enc *xml.Encoder, qname string) {
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: qname}})
}

func writeCbc(enc *xml.Encoder, local, value string) {
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: "cbc:" + local}})
	_ = enc.EncodeToken(xml.CharData(value))
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "cbc:" + local}})
}

func writeCbcAmount(enc *xml.Encoder, local, value, currency string) {
	writeCbcWithAttr(enc, local, value, "currencyID", currency)
}

func writeCbcWithAttr(enc *xml.Encoder, local, value, attrLocal, attrValue string) {
	_ = enc.EncodeToken(xml.StartElement{
		Name: xml.Name{Local: "cbc:" + local},
		Attr: []xml.Attr{{Name: xml.Name{Local: attrLocal}, Value: attrValue}},
	})
	_ = enc.EncodeToken(xml.CharData(value))
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "cbc:" + local}})
}

func formatDecimal(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}
