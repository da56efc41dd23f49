package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/Bazar-api/internal/application/analytics"
	"github.com/jhoicas/Bazar-api/internal/application/billing"
	"github.com/jhoicas/Bazar-api/internal/application/cashregister"
	"github.com/jhoicas/Bazar-api/internal/application/dto"
	"github.com/jhoicas/Bazar-api/internal/domain/entity"
	"github.com/jhoicas/Bazar-api/internal/infrastructure/lock"
	"github.com/jhoicas/Bazar-api/internal/infrastructure/memory"
	"github.com/jhoicas/Bazar-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Bazar-api/internal/infrastructure/pdf"
	infrasunat "github.com/jhoicas/Bazar-api/internal/infrastructure/sunat"
	apphttp "github.com/jhoicas/Bazar-api/internal/interfaces/http"
)

// ── Servidor de prueba ───────────────────────────────────────────────────────

type testServer struct {
	app   *fiber.App
	store *memory.Store
	clock time.Time
}

var openingTime = time.Date(2024, 3, 5, 9, 0, 0, 0, time.Local)

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	s := &testServer{store: memory.New(), clock: openingTime}
	s.store.AddSale(entity.Sale{
		ID:           1,
		ClientName:   "Ana Torres",
		Total:        decimal.RequireFromString("118.00"),
		PaymentLabel: "Efectivo",
		SoldAt:       openingTime.Add(-24 * time.Hour),
		UserID:       99,
		Lines: []entity.SaleLine{
			{ProductID: 1, ProductName: "Taza", Quantity: 2, UnitPrice: decimal.RequireFromString("50.00")},
			{ProductID: 2, ProductName: "Cuaderno", Quantity: 1, UnitPrice: decimal.RequireFromString("18.00")},
		},
	})
	s.store.AddSale(entity.Sale{
		ID:           2,
		ClientName:   "Comercial Lima SAC",
		Total:        decimal.RequireFromString("45.00"),
		PaymentLabel: "Yape",
		SoldAt:       openingTime.Add(-23 * time.Hour),
		UserID:       99,
	})

	prom := metrics.NewPrometheus()
	locker := lock.NewKeyedMutex()
	supplier := billing.SupplierInfo{RUC: "20000000001", LegalName: "BAZAR ABEM S.A.C.", Address: "Av. Principal 123, Lima"}
	builder := billing.NewDocumentBuilder(s.store.Sales(), supplier)

	orch := billing.NewOrchestrator(billing.OrchestratorDeps{
		Sales:         s.store.Sales(),
		Comprobantes:  s.store.Comprobantes(),
		Builder:       builder,
		Renderer:      infrasunat.NewXMLBuilderService(),
		Signer:        infrasunat.NewSimulatedSigner(),
		Submitter:     infrasunat.NewBetaSubmitter(),
		Locker:        locker,
		Metrics:       prom,
		SubmitTimeout: 5 * time.Second,
	})
	pdfUC := billing.NewPDFUseCase(s.store.Comprobantes(), builder, infrapdf.NewMarotoPDFGenerator())

	sessions := s.store.CashRegisters()
	cashUC := cashregister.NewUseCase(cashregister.Deps{
		Sessions: sessions,
		Sales:    s.store.Sales(),
		Tx:       memory.NewTxRunner(sessions, s.store.Sales()),
		Locker:   locker,
		Metrics:  prom,
		Now:      func() time.Time { return s.clock },
	})
	dashboardUC := appanalytics.NewDashboardUseCase(cashregister.NewSalesAggregator(s.store.Sales()), s.store.Comprobantes())

	s.app = fiber.New()
	apphttp.Router(s.app, apphttp.RouterDeps{
		Billing:        orch,
		BillingPDF:     pdfUC,
		CashRegister:   cashUC,
		Dashboard:      dashboardUC,
		JWTSecret:      testJWTSecret,
		ServiceName:    "bazar-api-test",
		MetricsHandler: prom.Handler(),
	})
	return s
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func readBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return b
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var e dto.ErrorResponse
	decodeBody(t, resp, &e)
	return e.Code
}

// ── Infraestructura ──────────────────────────────────────────────────────────

func TestHealth_SinToken(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(readBody(t, resp)), "bazar-api-test")
}

func TestRutasAPI_RequierenToken(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/api/facturacion/listar", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodGet, "/api/dashboard/resumen", tokenForRole(t, "vendedor"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestMetrics_ExponeTransiciones(t *testing.T) {
	s := newTestServer(t)
	admin := tokenForRole(t, apphttp.RoleAdmin)
	resp := s.do(t, http.MethodPost, "/api/facturacion/procesar/1", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := string(readBody(t, resp))
	assert.Contains(t, body, "bazar_comprobantes_transitions_total")
	assert.Contains(t, body, "bazar_sunat_submissions_total")
}

// ── Facturación ──────────────────────────────────────────────────────────────

func TestFacturacion_ProcesarFlujoCompleto(t *testing.T) {
	s := newTestServer(t)
	tok := tokenForRole(t, apphttp.RoleCashier)

	resp := s.do(t, http.MethodPost, "/api/facturacion/procesar/1", tok, map[string]string{"tipo": "FACTURA"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var comp dto.ComprobanteResponse
	decodeBody(t, resp, &comp)
	assert.Equal(t, "ACCEPTED", comp.Status)
	assert.Equal(t, "FACTURA", comp.DocType)
	assert.Equal(t, "01", comp.DocTypeCode)
	assert.Equal(t, "F001-00000001", comp.FullNumber)
	assert.Equal(t, "0", comp.ResponseCode)
	assert.True(t, comp.Signed)
	assert.True(t, comp.HasCDR)
	assert.Len(t, comp.Hash, 64)

	resp = s.do(t, http.MethodGet, "/api/facturacion/estado/1", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &comp)
	assert.Equal(t, "ACCEPTED", comp.Status)

	resp = s.do(t, http.MethodGet, "/api/facturacion/xml/1", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/xml", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xml")
	assert.Contains(t, string(readBody(t, resp)), "F001-00000001")

	resp = s.do(t, http.MethodGet, "/api/facturacion/cdr/1", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "R-")
	assert.Contains(t, string(readBody(t, resp)), "ApplicationResponse")

	resp = s.do(t, http.MethodGet, "/api/facturacion/pdf/1", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "factura_F001-00000001.pdf")
	assert.True(t, bytes.HasPrefix(readBody(t, resp), []byte("%PDF")))
}

func TestFacturacion_ProcesarSinBodyEmiteBoleta(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/facturacion/procesar/2", tokenForRole(t, apphttp.RoleCashier), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var comp dto.ComprobanteResponse
	decodeBody(t, resp, &comp)
	assert.Equal(t, "BOLETA", comp.DocType)
	assert.Equal(t, "B001-00000002", comp.FullNumber)
}

func TestFacturacion_PasoAPaso(t *testing.T) {
	s := newTestServer(t)
	tok := tokenForRole(t, apphttp.RoleAdmin)

	resp := s.do(t, http.MethodPost, "/api/facturacion/generar", tok, map[string]interface{}{"sale_id": 1, "tipo": "BOLETA"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var comp dto.ComprobanteResponse
	decodeBody(t, resp, &comp)
	assert.Equal(t, "DRAFT", comp.Status)
	assert.False(t, comp.Signed)

	resp = s.do(t, http.MethodGet, "/api/facturacion/pdf/1", tok, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_STATE", errorCode(t, resp))

	resp = s.do(t, http.MethodPost, "/api/facturacion/firmar/1", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &comp)
	assert.Equal(t, "SIGNED", comp.Status)
	assert.True(t, comp.Signed)

	resp = s.do(t, http.MethodPost, "/api/facturacion/enviar/1", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &comp)
	assert.Equal(t, "ACCEPTED", comp.Status)

	resp = s.do(t, http.MethodPost, "/api/facturacion/reenviar/1", tok, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_STATE", errorCode(t, resp))
}

func TestFacturacion_GenerarDuplicado_409(t *testing.T) {
	s := newTestServer(t)
	tok := tokenForRole(t, apphttp.RoleAdmin)
	body := map[string]interface{}{"sale_id": 1, "tipo": "FACTURA"}

	resp := s.do(t, http.MethodPost, "/api/facturacion/generar", tok, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPost, "/api/facturacion/generar", tok, body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ALREADY_EXISTS", errorCode(t, resp))
}

func TestFacturacion_VentaInexistente_404(t *testing.T) {
	s := newTestServer(t)
	tok := tokenForRole(t, apphttp.RoleAdmin)

	resp := s.do(t, http.MethodPost, "/api/facturacion/generar", tok, map[string]interface{}{"sale_id": 999, "tipo": "FACTURA"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))

	resp = s.do(t, http.MethodPost, "/api/facturacion/firmar/999", tok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestFacturacion_BodyInvalido(t *testing.T) {
	s := newTestServer(t)
	tok := tokenForRole(t, apphttp.RoleAdmin)

	resp := s.do(t, http.MethodPost, "/api/facturacion/generar", tok, map[string]interface{}{"tipo": ""})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var verr dto.ValidationErrorResponse
	decodeBody(t, resp, &verr)
	assert.Equal(t, "required", verr.Fields["sale_id"])
	assert.Equal(t, "required", verr.Fields["tipo"])

	resp = s.do(t, http.MethodPost, "/api/facturacion/generar", tok, map[string]interface{}{"sale_id": 1, "tipo": "NOTA"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodPost, "/api/facturacion/firmar/abc", tok, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestFacturacion_CDRNoDisponible(t *testing.T) {
	s := newTestServer(t)
	tok := tokenForRole(t, apphttp.RoleAdmin)
	resp := s.do(t, http.MethodPost, "/api/facturacion/generar", tok, map[string]interface{}{"sale_id": 1, "tipo": "FACTURA"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodGet, "/api/facturacion/cdr/1", tok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_AVAILABLE", errorCode(t, resp))
}

func TestFacturacion_ListarConFiltros(t *testing.T) {
	s := newTestServer(t)
	tok := tokenForRole(t, apphttp.RoleAdmin)

	resp := s.do(t, http.MethodPost, "/api/facturacion/procesar/1", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp = s.do(t, http.MethodPost, "/api/facturacion/generar", tok, map[string]interface{}{"sale_id": 2, "tipo": "BOLETA"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	var list dto.ListResponse[dto.ComprobanteResponse]
	resp = s.do(t, http.MethodGet, "/api/facturacion/listar", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &list)
	assert.Equal(t, 2, list.Total)

	resp = s.do(t, http.MethodGet, "/api/facturacion/listar?estado=draft", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &list)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, int64(2), list.Items[0].SaleID)

	resp = s.do(t, http.MethodGet, "/api/facturacion/listar?venta_id=1", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &list)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "ACCEPTED", list.Items[0].Status)

	resp = s.do(t, http.MethodGet, "/api/facturacion/listar?estado=XYZ", tok, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodGet, "/api/facturacion/listar?desde=05-03-2024", tok, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestFacturacion_Detalles(t *testing.T) {
	s := newTestServer(t)
	tok := tokenForRole(t, apphttp.RoleAdmin)
	resp := s.do(t, http.MethodPost, "/api/facturacion/procesar/1", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodGet, "/api/facturacion/detalles/1", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var d dto.ComprobanteDetailsResponse
	decodeBody(t, resp, &d)
	assert.Equal(t, "ACCEPTED", d.Comprobante.Status)
	require.NotNil(t, d.Sale)
	assert.Equal(t, "Ana Torres", d.Sale.ClientName)
	assert.Equal(t, "CASH", d.Sale.PaymentMethod)
	assert.Len(t, d.Sale.Lines, 2)
}

// ── Caja ─────────────────────────────────────────────────────────────────────

func TestCaja_AbrirPreviewCerrar(t *testing.T) {
	s := newTestServer(t)
	tok := tokenForRole(t, apphttp.RoleCashier)

	var status dto.CashRegisterStatusResponse
	resp := s.do(t, http.MethodGet, "/api/cierre-caja/estado", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &status)
	assert.False(t, status.Open)
	assert.Nil(t, status.Session)

	resp = s.do(t, http.MethodPost, "/api/cierre-caja/abrir", tok, map[string]interface{}{"monto_inicial": "100.00", "observaciones": "turno mañana"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sess dto.CashRegisterSessionResponse
	decodeBody(t, resp, &sess)
	assert.Equal(t, "OPEN", sess.Status)
	assert.Equal(t, testUserID, sess.UserID)
	assert.True(t, decimal.NewFromInt(100).Equal(sess.OpeningAmount))

	resp = s.do(t, http.MethodPost, "/api/cierre-caja/abrir", tok, map[string]interface{}{"monto_inicial": "50"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "SESSION_ALREADY_OPEN", errorCode(t, resp))

	s.store.AddSale(entity.Sale{
		ID: 10, Total: decimal.RequireFromString("50.00"), PaymentLabel: "Efectivo",
		SoldAt: openingTime.Add(time.Hour), UserID: testUserID,
	})
	s.store.AddSale(entity.Sale{
		ID: 11, Total: decimal.RequireFromString("30.00"), PaymentLabel: "Tarjeta",
		SoldAt: openingTime.Add(time.Hour), UserID: testUserID,
	})
	s.clock = openingTime.Add(2 * time.Hour)

	resp = s.do(t, http.MethodGet, "/api/cierre-caja/preview", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var preview dto.CashRegisterPreviewResponse
	decodeBody(t, resp, &preview)
	require.NotNil(t, preview.Session)
	assert.Equal(t, 2, preview.Totals.Count)
	assert.True(t, decimal.NewFromInt(50).Equal(preview.Totals.Cash))
	assert.True(t, decimal.NewFromInt(30).Equal(preview.Totals.Card))
	assert.True(t, decimal.NewFromInt(150).Equal(preview.EstimatedFinalCash))

	resp = s.do(t, http.MethodPost, "/api/cierre-caja/cerrar", tok, map[string]interface{}{"monto_final": "145.50"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &sess)
	assert.Equal(t, "CLOSED", sess.Status)
	require.NotNil(t, sess.CountedAmount)
	assert.True(t, decimal.NewFromInt(150).Equal(sess.ExpectedCash))
	assert.True(t, decimal.RequireFromString("-4.50").Equal(sess.Difference))
	assert.True(t, decimal.NewFromInt(80).Equal(sess.Totals.Overall))
	assert.Equal(t, "turno mañana", sess.Notes)

	resp = s.do(t, http.MethodPost, "/api/cierre-caja/cerrar", tok, map[string]interface{}{"monto_final": "0"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "NO_OPEN_SESSION", errorCode(t, resp))
}

func TestCaja_MontoNegativo_422(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/cierre-caja/abrir", tokenForRole(t, apphttp.RoleCashier), map[string]interface{}{"monto_inicial": "-5"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var verr dto.ValidationErrorResponse
	decodeBody(t, resp, &verr)
	assert.Equal(t, "gte", verr.Fields["monto_inicial"])
}

func TestCaja_BodyMalformado_400(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/cierre-caja/abrir", bytes.NewReader([]byte("{monto")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, apphttp.RoleCashier))
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", errorCode(t, resp))
}

func TestCaja_ListarSegunRol(t *testing.T) {
	s := newTestServer(t)
	for _, uid := range []int64{testUserID, 8} {
		tok := tokenFor(t, uid, apphttp.RoleCashier)
		resp := s.do(t, http.MethodPost, "/api/cierre-caja/abrir", tok, map[string]interface{}{"monto_inicial": "10"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
		resp = s.do(t, http.MethodPost, "/api/cierre-caja/cerrar", tok, map[string]interface{}{"monto_final": "10"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	var list dto.ListResponse[dto.CashRegisterSessionResponse]

	// el cajero solo ve sus cierres aunque pida otro usuario
	resp := s.do(t, http.MethodGet, "/api/cierre-caja?usuario_id=8", tokenForRole(t, apphttp.RoleCashier), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &list)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, testUserID, list.Items[0].UserID)

	admin := tokenFor(t, 1, apphttp.RoleAdmin)
	resp = s.do(t, http.MethodGet, "/api/cierre-caja", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &list)
	assert.Equal(t, 2, list.Total)

	resp = s.do(t, http.MethodGet, "/api/cierre-caja?usuario_id=8", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &list)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, int64(8), list.Items[0].UserID)

	resp = s.do(t, http.MethodGet, "/api/cierre-caja?desde=2024-03-06&hasta=2024-03-01", admin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, resp))
}

// ── Dashboard ────────────────────────────────────────────────────────────────

func TestDashboard_Resumen(t *testing.T) {
	s := newTestServer(t)
	tok := tokenForRole(t, apphttp.RoleAdmin)
	resp := s.do(t, http.MethodPost, "/api/facturacion/procesar/1", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(t, http.MethodGet, "/api/dashboard/resumen", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary dto.DashboardSummaryDTO
	decodeBody(t, resp, &summary)
	assert.Equal(t, 1, summary.Comprobantes["ACCEPTED"])
	assert.NotEmpty(t, summary.DateLabel)
}
