package sunat

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/Bazar-api/internal/application/billing"
)

// ── Constantes SOAP ────────────────────────────────────────────────────────────

const (
	soapNS        = "http://schemas.xmlsoap.org/soap/envelope/"
	soapNSService = "http://service.sunat.gob.pe"
	soapNSWSSE    = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-wssecurity-secext-1.0.xsd"
	soapAction    = "urn:sendBill"
)

// ── Implementación SOAP ────────────────────────────────────────────────────────

var _ billing.Submitter = (*SOAPSunatClient)(nil)

// SOAPSunatClient envía comprobantes al billService de SUNAT (operación sendBill síncrona).
type SOAPSunatClient struct {
	endpoint   string
	username   string // RUC + usuario SOL
	password   string
	httpClient *http.Client
}

// NewSOAPSunatClient construye el cliente. timeout acota la llamada HTTP completa;
// el orquestador aplica además su propio deadline vía context.
func NewSOAPSunatClient(endpoint, username, password string, timeout time.Duration) *SOAPSunatClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &SOAPSunatClient{
		endpoint:   endpoint,
		username:   username,
		password:   password,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ── Estructuras SOAP ──────────────────────────────────────────────────────────

type soapEnvelope struct {
	XMLName   xml.Name   `xml:"soapenv:Envelope"`
	XmlnsSoap string     `xml:"xmlns:soapenv,attr"`
	XmlnsSer  string     `xml:"xmlns:ser,attr"`
	XmlnsWSSE string     `xml:"xmlns:wsse,attr"`
	Header    soapHeader `xml:"soapenv:Header"`
	Body      soapBody   `xml:"soapenv:Body"`
}

type soapHeader struct {
	Security wsseSecurity `xml:"wsse:Security"`
}

type wsseSecurity struct {
	UsernameToken wsseUsernameToken `xml:"wsse:UsernameToken"`
}

type wsseUsernameToken struct {
	Username string `xml:"wsse:Username"`
	Password string `xml:"wsse:Password"`
}

type soapBody struct {
	SendBill sendBillBody `xml:"ser:sendBill"`
}

type sendBillBody struct {
	FileName    string `xml:"fileName"`
	ContentFile string `xml:"contentFile"` // ZIP en Base64
}

// ── Estructuras de respuesta SOAP ─────────────────────────────────────────────

type soapResponseEnvelope struct {
	Body soapResponseBody `xml:"Body"`
}

type soapResponseBody struct {
	SendBillResponse *sendBillResponse `xml:"sendBillResponse"`
	Fault            *soapFault        `xml:"Fault"`
}

type sendBillResponse struct {
	ApplicationResponse string `xml:"applicationResponse"` // ZIP del CDR en Base64
}

type soapFault struct {
	FaultCode   string `xml:"faultcode"`
	FaultString string `xml:"faultstring"`
}

// ── Submit ────────────────────────────────────────────────────────────────────

// Submit empaqueta el XML firmado en ZIP, invoca sendBill y traduce el CDR.
// Los errores de transporte se devuelven como error; un SOAP Fault o un CDR con código
// de rechazo se devuelven como resultado no aceptado.
func (c *SOAPSunatClient) Submit(ctx context.Context, req billing.SubmitRequest) (*billing.SubmitResult, error) {
	if len(req.SignedXML) == 0 {
		return nil, fmt.Errorf("soap: XML firmado vacío")
	}
	base := req.FileBaseName()
	zipBytes, err := CompressXMLToZip(req.SignedXML, base+".xml")
	if err != nil {
		return nil, err
	}

	envelope := soapEnvelope{
		XmlnsSoap: soapNS,
		XmlnsSer:  soapNSService,
		XmlnsWSSE: soapNSWSSE,
		Header: soapHeader{Security: wsseSecurity{UsernameToken: wsseUsernameToken{
			Username: c.username,
			Password: c.password,
		}}},
		Body: soapBody{SendBill: sendBillBody{
			FileName:    base + ".zip",
			ContentFile: base64.StdEncoding.EncodeToString(zipBytes),
		}},
	}
	payload, err := xml.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("soap: serializar envelope: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("soap: crear request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "text/xml; charset=utf-8")
	httpReq.Header.Set("SOAPAction", soapAction)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("soap: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("soap: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("soap: leer respuesta: %w", err)
	}
	return parseSendBillResponse(rawBody, resp.StatusCode)
}

// parseSendBillResponse desempaqueta la respuesta y extrae el CDR.
func parseSendBillResponse(rawBody []byte, status int) (*billing.SubmitResult, error) {
	var env soapResponseEnvelope
	if err := xml.Unmarshal(rawBody, &env); err != nil {
		if status >= http.StatusInternalServerError {
			return nil, fmt.Errorf("soap: HTTP %d", status)
		}
		return &billing.SubmitResult{
			Accepted:        false,
			ResponseMessage: "no se pudo parsear respuesta SOAP: " + truncate(string(rawBody), 500),
		}, nil
	}

	if f := env.Body.Fault; f != nil {
		return &billing.SubmitResult{
			Accepted:        false,
			ResponseCode:    faultCode(f.FaultCode),
			ResponseMessage: strings.TrimSpace(f.FaultString),
		}, nil
	}

	if env.Body.SendBillResponse == nil || env.Body.SendBillResponse.ApplicationResponse == "" {
		return &billing.SubmitResult{
			Accepted:        false,
			ResponseMessage: "respuesta SOAP vacía o inesperada",
		}, nil
	}

	zipBytes, err := base64.StdEncoding.DecodeString(strings.TrimSpace(env.Body.SendBillResponse.ApplicationResponse))
	if err != nil {
		return nil, fmt.Errorf("soap: decodificar applicationResponse: %w", err)
	}
	cdrXML, _, err := ExtractXMLFromZip(zipBytes)
	if err != nil {
		return nil, err
	}
	cdr, err := ParseCDR(cdrXML)
	if err != nil {
		return nil, err
	}
	return &billing.SubmitResult{
		Accepted:        IsAcceptedCode(cdr.ResponseCode),
		ResponseCode:    cdr.ResponseCode,
		ResponseMessage: cdr.Description,
		CDR:             cdrXML,
	}, nil
}

// IsAcceptedCode 0 es aceptado; 4000 en adelante son observaciones (aceptado con observaciones).
// Del 100 al 3999 son excepciones o rechazos.
func IsAcceptedCode(code string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(code))
	if err != nil {
		return false
	}
	return n == 0 || n >= 4000
}

// faultCode extrae el código numérico de "soap-env:Client.0111".
func faultCode(fc string) string {
	fc = strings.TrimSpace(fc)
	if i := strings.LastIndex(fc, "."); i >= 0 {
		return fc[i+1:]
	}
	return fc
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
