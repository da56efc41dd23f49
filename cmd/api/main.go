package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/Bazar-api/internal/application/analytics"
	"github.com/jhoicas/Bazar-api/internal/application/billing"
	"github.com/jhoicas/Bazar-api/internal/application/cashregister"
	"github.com/jhoicas/Bazar-api/internal/application/ports"
	"github.com/jhoicas/Bazar-api/internal/domain/repository"
	"github.com/jhoicas/Bazar-api/internal/infrastructure/lock"
	"github.com/jhoicas/Bazar-api/internal/infrastructure/memory"
	"github.com/jhoicas/Bazar-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Bazar-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Bazar-api/internal/infrastructure/postgres"
	infrasunat "github.com/jhoicas/Bazar-api/internal/infrastructure/sunat"
	httpRouter "github.com/jhoicas/Bazar-api/internal/interfaces/http"
	"github.com/jhoicas/Bazar-api/pkg/config"
	"github.com/jhoicas/Bazar-api/pkg/logger"
)

// stores repositorios y runner transaccional según STORAGE.
type stores struct {
	sales        repository.SaleRepository
	comprobantes repository.ComprobanteRepository
	sessions     repository.CashRegisterRepository
	tx           cashregister.TxRunner
	close        func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Str("sunat_mode", cfg.SUNAT.SubmitMode).
		Str("signer", cfg.SUNAT.SignerMode).
		Msg("iniciando aplicación")

	ctx := context.Background()

	st := openStores(ctx, cfg, log)
	defer st.close()

	// Lock por venta / por usuario: Redis si hay REDIS_URL (varias réplicas), si no en proceso.
	var locker ports.Locker = lock.NewKeyedMutex()
	if cfg.Redis.URL != "" {
		rdb, err := lock.NewRedis(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		locker = lock.NewRedisLocker(rdb, cfg.Redis.LockTTL)
		log.Info().Dur("ttl", cfg.Redis.LockTTL).Msg("lock distribuido con Redis")
	}

	var appMetrics ports.Metrics = ports.NopMetrics{}
	var prom *metrics.Prometheus
	if cfg.Metrics.Enabled {
		prom = metrics.NewPrometheus()
		appMetrics = prom
	}

	signerSvc, err := infrasunat.NewSigner(cfg.SUNAT)
	if err != nil {
		log.Fatal().Err(err).Msg("firmador SUNAT")
	}
	submitter, err := infrasunat.NewSubmitter(cfg.SUNAT)
	if err != nil {
		log.Fatal().Err(err).Msg("cliente de envío SUNAT")
	}

	builder := billing.NewDocumentBuilder(st.sales, billing.SupplierInfo{
		RUC:       cfg.SUNAT.RUC,
		LegalName: cfg.SUNAT.LegalName,
		Address:   cfg.SUNAT.Address,
	})

	// Orquestador: DRAFT -> SIGNED -> SUBMITTED -> ACCEPTED | REJECTED
	orchestrator := billing.NewOrchestrator(billing.OrchestratorDeps{
		Sales:         st.sales,
		Comprobantes:  st.comprobantes,
		Builder:       builder,
		Renderer:      infrasunat.NewXMLBuilderService(),
		Signer:        signerSvc,
		Submitter:     submitter,
		Locker:        locker,
		Metrics:       appMetrics,
		Log:           log,
		SubmitTimeout: cfg.SUNAT.SubmitTimeout,
	})
	pdfUC := billing.NewPDFUseCase(st.comprobantes, builder, infrapdf.NewMarotoPDFGenerator())

	cashRegisterUC := cashregister.NewUseCase(cashregister.Deps{
		Sessions: st.sessions,
		Sales:    st.sales,
		Tx:       st.tx,
		Locker:   locker,
		Metrics:  appMetrics,
		Log:      log,
	})
	dashboardUC := appanalytics.NewDashboardUseCase(cashregister.NewSalesAggregator(st.sales), st.comprobantes)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.SUNAT.SubmitTimeout + 10*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	if cfg.Docs.Enabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.Docs.FilePath,
			Path:     "docs",
			Title:    "Bazar API",
		}))
	}

	deps := httpRouter.RouterDeps{
		Billing:      orchestrator,
		BillingPDF:   pdfUC,
		CashRegister: cashRegisterUC,
		Dashboard:    dashboardUC,
		JWTSecret:    cfg.JWT.Secret,
		ServiceName:  cfg.App.Name,
	}
	if prom != nil {
		deps.MetricsHandler = prom.Handler()
	}
	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) stores {
	if cfg.App.Storage == "memory" {
		log.Warn().Msg("STORAGE=memory: datos en memoria con ventas de ejemplo, se pierden al reiniciar")
		mem := memory.NewSeeded()
		sessions := mem.CashRegisters()
		return stores{
			sales:        mem.Sales(),
			comprobantes: mem.Comprobantes(),
			sessions:     sessions,
			tx:           memory.NewTxRunner(sessions, mem.Sales()),
			close:        func() {},
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if cfg.DB.AutoMigrate {
		if _, err := postgres.Migrate(ctx, pool, log); err != nil {
			pool.Close()
			log.Fatal().Err(err).Msg("migraciones")
		}
	}
	return stores{
		sales:        postgres.NewSaleRepository(pool),
		comprobantes: postgres.NewComprobanteRepository(pool),
		sessions:     postgres.NewCashRegisterRepository(pool),
		tx:           postgres.NewTxRunner(pool),
		close:        pool.Close,
	}
}
