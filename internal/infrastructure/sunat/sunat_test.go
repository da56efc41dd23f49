package sunat

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bazar-api/internal/application/billing"
	"github.com/jhoicas/Bazar-api/internal/domain/sunat"
	"github.com/jhoicas/Bazar-api/pkg/config"
	pkgsunat "github.com/jhoicas/Bazar-api/pkg/sunat"
)

func testDocument() *sunat.Document {
	total := decimal.RequireFromString("118.00")
	base, tax := sunat.SplitTax(total, pkgsunat.IGVRate)
	return &sunat.Document{
		ID:           "F001-00000042",
		SaleID:       42,
		TypeCode:     pkgsunat.DocTypeFactura,
		IssueDate:    "2024-03-05",
		IssueTime:    "10:30:00",
		CurrencyCode: pkgsunat.CurrencyPEN,
		Supplier: sunat.Party{
			ID: "20000000001", SchemeID: pkgsunat.IdentityTypeRUC,
			Name: "BAZAR ABEM S.A.C.", Address: "Av. Principal 123",
		},
		Customer:     sunat.Party{ID: "20000000002", SchemeID: pkgsunat.IdentityTypeRUC, Name: "Ana Torres"},
		PaymentMeans: pkgsunat.PaymentMeansEfectivo,
		Tax:          sunat.TaxTotal{TaxableAmount: base, TaxAmount: tax, Percent: decimal.NewFromInt(18)},
		Totals:       sunat.MonetaryTotal{LineExtensionAmount: base, TaxInclusiveAmount: total, PayableAmount: total},
		Lines: []sunat.Line{
			{ID: 1, Quantity: 2, LineExtensionAmount: decimal.RequireFromString("100.00"), Description: "Taza", UnitPrice: decimal.RequireFromString("50.00")},
			{ID: 2, Quantity: 1, LineExtensionAmount: decimal.RequireFromString("18.00"), UnitPrice: decimal.RequireFromString("18.00")},
		},
	}
}

func parse(t *testing.T, b []byte) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(b))
	return doc
}

func text(t *testing.T, doc *etree.Document, path string) string {
	t.Helper()
	el := doc.FindElement(path)
	require.NotNil(t, el, path)
	return el.Text()
}

// ── Serialización UBL ─────────────────────────────────────────────────────────

func TestRender_EstructuraUBL(t *testing.T) {
	out, err := NewXMLBuilderService().Render(testDocument())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "<?xml"))

	doc := parse(t, out)
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "Invoice", root.Tag)
	assert.Equal(t, NsInvoice, root.SelectAttrValue("xmlns", ""))
	assert.Equal(t, NsCbc, root.SelectAttrValue("xmlns:cbc", ""))

	// UBLExtensions es el primer hijo y queda vacío para la firma.
	first := root.ChildElements()[0]
	assert.Equal(t, "UBLExtensions", first.Tag)
	ec := root.FindElement("./ext:UBLExtensions/ext:UBLExtension/ext:ExtensionContent")
	require.NotNil(t, ec)
	assert.Empty(t, ec.ChildElements())

	assert.Equal(t, "2.1", text(t, doc, "/Invoice/cbc:UBLVersionID"))
	assert.Equal(t, "F001-00000042", text(t, doc, "/Invoice/cbc:ID"))
	assert.Equal(t, "2024-03-05", text(t, doc, "/Invoice/cbc:IssueDate"))
	assert.Equal(t, "10:30:00", text(t, doc, "/Invoice/cbc:IssueTime"))
	assert.Equal(t, "01", text(t, doc, "/Invoice/cbc:InvoiceTypeCode"))
	assert.Equal(t, "PEN", text(t, doc, "/Invoice/cbc:DocumentCurrencyCode"))

	supplierID := root.FindElement("./cac:AccountingSupplierParty/cac:Party/cac:PartyIdentification/cbc:ID")
	require.NotNil(t, supplierID)
	assert.Equal(t, "20000000001", supplierID.Text())
	assert.Equal(t, "6", supplierID.SelectAttrValue("schemeID", ""))

	assert.Equal(t, "Ana Torres", text(t, doc, "/Invoice/cac:AccountingCustomerParty/cac:Party/cac:PartyLegalEntity/cbc:RegistrationName"))
	assert.Equal(t, "01", text(t, doc, "/Invoice/cac:PaymentMeans/cbc:PaymentMeansCode"))

	taxAmount := root.FindElement("./cac:TaxTotal/cbc:TaxAmount")
	require.NotNil(t, taxAmount)
	assert.Equal(t, "18.00", taxAmount.Text())
	assert.Equal(t, "PEN", taxAmount.SelectAttrValue("currencyID", ""))
	assert.Equal(t, "100.00", text(t, doc, "/Invoice/cac:TaxTotal/cac:TaxSubtotal/cbc:TaxableAmount"))
	assert.Equal(t, "1000", text(t, doc, "/Invoice/cac:TaxTotal/cac:TaxSubtotal/cac:TaxCategory/cac:TaxScheme/cbc:ID"))
	assert.Equal(t, "118.00", text(t, doc, "/Invoice/cac:LegalMonetaryTotal/cbc:PayableAmount"))

	lines := root.FindElements("./cac:InvoiceLine")
	require.Len(t, lines, 2)
	assert.Equal(t, "Taza", lines[0].FindElement("./cac:Item/cbc:Description").Text())
	assert.Equal(t, "Item 2", lines[1].FindElement("./cac:Item/cbc:Description").Text())
	qty := lines[0].FindElement("./cbc:InvoicedQuantity")
	assert.Equal(t, "2", qty.Text())
	assert.Equal(t, "NIU", qty.SelectAttrValue("unitCode", ""))
}

func TestRender_Determinista(t *testing.T) {
	b := NewXMLBuilderService()
	a, err := b.Render(testDocument())
	require.NoError(t, err)
	c, err := b.Render(testDocument())
	require.NoError(t, err)
	assert.Equal(t, a, c)
}

func TestRender_EscapaTexto(t *testing.T) {
	doc := testDocument()
	doc.Customer.Name = "Pérez & Hijos <SAC>"
	out, err := NewXMLBuilderService().Render(doc)
	require.NoError(t, err)
	assert.Contains(t, string(out), "Pérez &amp; Hijos &lt;SAC&gt;")
	parsed := parse(t, out)
	assert.Equal(t, "Pérez & Hijos <SAC>", text(t, parsed, "/Invoice/cac:AccountingCustomerParty/cac:Party/cac:PartyName/cbc:Name"))
}

func TestRender_DocumentoNulo(t *testing.T) {
	_, err := NewXMLBuilderService().Render(nil)
	assert.Error(t, err)
}

// ── Firma simulada ────────────────────────────────────────────────────────────

func TestSimulatedSigner_AgregaHash(t *testing.T) {
	unsigned, err := NewXMLBuilderService().Render(testDocument())
	require.NoError(t, err)

	signed, err := NewSimulatedSigner().Sign(unsigned)
	require.NoError(t, err)

	doc := parse(t, signed)
	sigs := doc.Root().FindElements("./cac:Signature")
	require.Len(t, sigs, 2)
	last := sigs[len(sigs)-1]
	assert.Equal(t, sunat.ContentHash(unsigned), last.FindElement("./cbc:SignatureValue").Text())
	assert.Equal(t, SignatureMethodURN, last.FindElement("./cbc:SignatureMethod").Text())
	assert.Equal(t, "F001-00000042", text(t, doc, "/Invoice/cbc:ID"))
}

func TestSimulatedSigner_Determinista(t *testing.T) {
	unsigned, err := NewXMLBuilderService().Render(testDocument())
	require.NoError(t, err)
	s := NewSimulatedSigner()
	a, err := s.Sign(unsigned)
	require.NoError(t, err)
	b, err := s.Sign(unsigned)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSimulatedSigner_XMLInvalido(t *testing.T) {
	_, err := NewSimulatedSigner().Sign(nil)
	assert.Error(t, err)
	_, err = NewSimulatedSigner().Sign([]byte("   "))
	assert.Error(t, err)
}

// ── Envío beta ────────────────────────────────────────────────────────────────

func submitRequest() billing.SubmitRequest {
	return billing.SubmitRequest{
		SaleID:      42,
		SupplierRUC: "20000000001",
		TypeCode:    pkgsunat.DocTypeFactura,
		DocumentID:  "F001-00000042",
		SignedXML:   []byte("<Invoice/>"),
	}
}

func TestBetaSubmitter_AceptaConCDR(t *testing.T) {
	s := NewBetaSubmitter()
	s.now = func() time.Time { return time.Date(2024, 3, 5, 10, 31, 0, 0, time.UTC) }

	res, err := s.Submit(context.Background(), submitRequest())
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.Equal(t, "0", res.ResponseCode)
	assert.Equal(t, "La Factura numero F001-00000042, ha sido aceptada", res.ResponseMessage)

	cdr, err := ParseCDR(res.CDR)
	require.NoError(t, err)
	assert.Equal(t, "0", cdr.ResponseCode)
	assert.Equal(t, "F001-00000042", cdr.ReferenceID)
	assert.Contains(t, cdr.Notes, "Comprobante recibido correctamente")

	doc := parse(t, res.CDR)
	assert.Equal(t, "CDR-42", text(t, doc, "/ApplicationResponse/cbc:ID"))
	assert.Equal(t, "2024-03-05", text(t, doc, "/ApplicationResponse/cbc:ResponseDate"))
}

func TestBetaSubmitter_Boleta(t *testing.T) {
	req := submitRequest()
	req.TypeCode = pkgsunat.DocTypeBoleta
	req.DocumentID = "B001-00000042"
	res, err := NewBetaSubmitter().Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "La Boleta numero B001-00000042, ha sido aceptada", res.ResponseMessage)
}

func TestBetaSubmitter_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewBetaSubmitter().Submit(ctx, submitRequest())
	assert.ErrorIs(t, err, context.Canceled)
}

// ── Cliente SOAP ──────────────────────────────────────────────────────────────

func soapResponse(t *testing.T, code, description string) string {
	t.Helper()
	req := submitRequest()
	cdr, err := buildApplicationResponse(req, code, description, time.Date(2024, 3, 5, 10, 31, 0, 0, time.UTC))
	require.NoError(t, err)
	zipped, err := CompressXMLToZip(cdr, "R-"+req.FileBaseName()+".xml")
	require.NoError(t, err)
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<soap-env:Envelope xmlns:soap-env="http://schemas.xmlsoap.org/soap/envelope/">
  <soap-env:Header/>
  <soap-env:Body>
    <br:sendBillResponse xmlns:br="http://service.sunat.gob.pe">
      <applicationResponse>%s</applicationResponse>
    </br:sendBillResponse>
  </soap-env:Body>
</soap-env:Envelope>`, base64.StdEncoding.EncodeToString(zipped))
}

func TestSOAPClient_EnviaSendBill(t *testing.T) {
	var gotAction, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAction = r.Header.Get("SOAPAction")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte(soapResponse(t, "0", "La Factura numero F001-00000042, ha sido aceptada")))
	}))
	defer srv.Close()

	c := NewSOAPSunatClient(srv.URL, "20000000001MODDATOS", "moddatos", 5*time.Second)
	res, err := c.Submit(context.Background(), submitRequest())
	require.NoError(t, err)

	assert.Equal(t, "urn:sendBill", gotAction)
	assert.Contains(t, gotBody, "<wsse:Username>20000000001MODDATOS</wsse:Username>")
	assert.Contains(t, gotBody, "<fileName>20000000001-01-F001-00000042.zip</fileName>")

	assert.True(t, res.Accepted)
	assert.Equal(t, "0", res.ResponseCode)
	assert.Equal(t, "La Factura numero F001-00000042, ha sido aceptada", res.ResponseMessage)
	assert.NotEmpty(t, res.CDR)
}

func TestSOAPClient_CDRRechazado(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(soapResponse(t, "2335", "El documento electrónico ingresado ha sido alterado")))
	}))
	defer srv.Close()

	res, err := NewSOAPSunatClient(srv.URL, "u", "p", time.Second).Submit(context.Background(), submitRequest())
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Equal(t, "2335", res.ResponseCode)
}

func TestSOAPClient_SOAPFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<soap-env:Envelope xmlns:soap-env="http://schemas.xmlsoap.org/soap/envelope/">
  <soap-env:Body>
    <soap-env:Fault>
      <faultcode>soap-env:Client.0111</faultcode>
      <faultstring>No tiene el perfil para enviar comprobantes electronicos</faultstring>
    </soap-env:Fault>
  </soap-env:Body>
</soap-env:Envelope>`))
	}))
	defer srv.Close()

	res, err := NewSOAPSunatClient(srv.URL, "u", "p", time.Second).Submit(context.Background(), submitRequest())
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Equal(t, "0111", res.ResponseCode)
	assert.Contains(t, res.ResponseMessage, "No tiene el perfil")
}

func TestSOAPClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := NewSOAPSunatClient(srv.URL, "u", "p", 5*time.Second).Submit(ctx, submitRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestIsAcceptedCode(t *testing.T) {
	assert.True(t, IsAcceptedCode("0"))
	assert.True(t, IsAcceptedCode("4252"))
	assert.False(t, IsAcceptedCode("2335"))
	assert.False(t, IsAcceptedCode("0111"))
	assert.False(t, IsAcceptedCode(""))
}

func TestZip_IdaYVuelta(t *testing.T) {
	z, err := CompressXMLToZip([]byte("<Invoice/>"), "20000000001-01-F001-00000042.xml")
	require.NoError(t, err)
	data, name, err := ExtractXMLFromZip(z)
	require.NoError(t, err)
	assert.Equal(t, "20000000001-01-F001-00000042.xml", name)
	assert.Equal(t, "<Invoice/>", string(data))
}

// ── Factory ───────────────────────────────────────────────────────────────────

func TestFactory_ModosPorDefecto(t *testing.T) {
	cfg := config.SUNATConfig{SubmitMode: config.SubmitModeBeta, SignerMode: config.SignerSimulated}
	s, err := NewSigner(cfg)
	require.NoError(t, err)
	assert.IsType(t, &SimulatedSigner{}, s)

	sub, err := NewSubmitter(cfg)
	require.NoError(t, err)
	assert.IsType(t, &BetaSubmitter{}, sub)

	cfg.SubmitMode = config.SubmitModeSOAP
	cfg.Endpoint = config.EndpointBeta
	sub, err = NewSubmitter(cfg)
	require.NoError(t, err)
	assert.IsType(t, &SOAPSunatClient{}, sub)

	cfg.SignerMode = config.SignerCertificate
	cfg.CertPath = "/no/existe.p12"
	_, err = NewSigner(cfg)
	assert.Error(t, err)

	_, err = NewSubmitter(config.SUNATConfig{SubmitMode: "fax"})
	assert.Error(t, err)
}
