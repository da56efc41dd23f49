package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	appanalytics "github.com/jhoicas/Bazar-api/internal/application/analytics"
	"github.com/jhoicas/Bazar-api/internal/application/billing"
	"github.com/jhoicas/Bazar-api/internal/application/cashregister"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Billing        *billing.Orchestrator
	BillingPDF     *billing.PDFUseCase
	CashRegister   *cashregister.UseCase
	Dashboard      *appanalytics.DashboardUseCase
	JWTSecret      string
	ServiceName    string
	MetricsHandler nethttp.Handler // nil: sin /metrics
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	api := app.Group("/api")

	// Rutas protegidas (Bearer Token con rol admin o cajero)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireRole(RoleAdmin, RoleCashier))

	// Facturación electrónica SUNAT
	fact := protected.Group("/facturacion")
	billingHandler := NewBillingHandler(deps.Billing, deps.BillingPDF)
	fact.Post("/generar", billingHandler.Generate)
	fact.Post("/firmar/:ventaId", billingHandler.Sign)
	fact.Post("/enviar/:ventaId", billingHandler.Submit)
	fact.Post("/reenviar/:ventaId", billingHandler.Resubmit)
	fact.Post("/procesar/:ventaId", billingHandler.Process)
	fact.Get("/estado/:ventaId", billingHandler.Status)
	fact.Get("/listar", billingHandler.List)
	fact.Get("/xml/:ventaId", billingHandler.XML)
	fact.Get("/cdr/:ventaId", billingHandler.CDR)
	fact.Get("/detalles/:ventaId", billingHandler.Details)
	fact.Get("/pdf/:ventaId", billingHandler.PDF)

	// Caja
	caja := protected.Group("/cierre-caja")
	cashHandler := NewCashRegisterHandler(deps.CashRegister)
	caja.Get("/estado", cashHandler.Status)
	caja.Get("/preview", cashHandler.Preview)
	caja.Post("/abrir", cashHandler.Open)
	caja.Post("/cerrar", cashHandler.Close)
	caja.Get("/", cashHandler.List)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.Dashboard)
	protected.Get("/dashboard/resumen", dashboardHandler.GetSummary)
}
