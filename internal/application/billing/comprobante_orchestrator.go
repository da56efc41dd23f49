package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/Bazar-api/internal/application/ports"
	"github.com/jhoicas/Bazar-api/internal/domain"
	"github.com/jhoicas/Bazar-api/internal/domain/entity"
	"github.com/jhoicas/Bazar-api/internal/domain/repository"
	"github.com/jhoicas/Bazar-api/internal/domain/sunat"
	"github.com/jhoicas/Bazar-api/pkg/logger"
	pkgsunat "github.com/jhoicas/Bazar-api/pkg/sunat"
)

const defaultSubmitTimeout = 30 * time.Second

// Esperas entre reintentos al guardar la respuesta de SUNAT.
var persistBackoff = []time.Duration{100 * time.Millisecond, 300 * time.Millisecond}

// Orchestrator orquesta el ciclo de vida del comprobante electrónico SUNAT:
//
//	venta → DRAFT (XML + hash) → SIGNED → SUBMITTED → ACCEPTED | REJECTED (→ reenvío)
//
// Todas las operaciones de escritura toman el lock "comprobante:<venta>" durante toda la
// operación y cada cambio de estado se persiste con compare-and-swap sobre el estado
// almacenado. Se ejecuta dentro del request, sin goroutines propias.
type Orchestrator struct {
	sales         repository.SaleRepository
	comprobantes  repository.ComprobanteRepository
	builder       *DocumentBuilder
	renderer      DocumentRenderer
	signer        pkgsunat.Signer
	submitter     Submitter
	locker        ports.Locker
	metrics       ports.Metrics
	log           *logger.Logger
	submitTimeout time.Duration
	now           func() time.Time
}

// OrchestratorDeps dependencias del orquestador. Metrics, Log, SubmitTimeout y Now son opcionales.
type OrchestratorDeps struct {
	Sales         repository.SaleRepository
	Comprobantes  repository.ComprobanteRepository
	Builder       *DocumentBuilder
	Renderer      DocumentRenderer
	Signer        pkgsunat.Signer
	Submitter     Submitter
	Locker        ports.Locker
	Metrics       ports.Metrics
	Log           *logger.Logger
	SubmitTimeout time.Duration
	Now           func() time.Time
}

// NewOrchestrator construye el orquestador.
func NewOrchestrator(d OrchestratorDeps) *Orchestrator {
	if d.Metrics == nil {
		d.Metrics = ports.NopMetrics{}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.SubmitTimeout <= 0 {
		d.SubmitTimeout = defaultSubmitTimeout
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Orchestrator{
		sales:         d.Sales,
		comprobantes:  d.Comprobantes,
		builder:       d.Builder,
		renderer:      d.Renderer,
		signer:        d.Signer,
		submitter:     d.Submitter,
		locker:        d.Locker,
		metrics:       d.Metrics,
		log:           d.Log.Component("billing"),
		submitTimeout: d.SubmitTimeout,
		now:           d.Now,
	}
}

// ExportedFile archivo descargable (XML o CDR).
type ExportedFile struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ComprobanteDetails comprobante junto con la venta de origen.
type ComprobanteDetails struct {
	Comprobante *entity.Comprobante
	Sale        *entity.Sale
}

// Generate crea el comprobante DRAFT de la venta con su XML sin firma y su hash.
// domain.ErrAlreadyExists si la venta ya tiene comprobante; domain.ErrNotFound si la venta no existe.
func (o *Orchestrator) Generate(ctx context.Context, saleID int64, docType entity.DocumentType) (*entity.Comprobante, error) {
	if err := validateSaleID(saleID); err != nil {
		return nil, err
	}
	if err := validateDocType(docType); err != nil {
		return nil, err
	}
	var out *entity.Comprobante
	err := o.withLock(ctx, saleID, func() error {
		existing, err := o.comprobantes.GetBySaleID(ctx, saleID)
		if err != nil {
			return fmt.Errorf("billing: obtener comprobante: %w", err)
		}
		if existing != nil {
			return domain.ErrAlreadyExists
		}
		out, err = o.generate(ctx, saleID, docType)
		return err
	})
	return out, err
}

// Sign firma el XML de un comprobante DRAFT. domain.ErrInvalidState en cualquier otro estado.
func (o *Orchestrator) Sign(ctx context.Context, saleID int64) (*entity.Comprobante, error) {
	if err := validateSaleID(saleID); err != nil {
		return nil, err
	}
	var out *entity.Comprobante
	err := o.withLock(ctx, saleID, func() error {
		c, err := o.load(ctx, saleID)
		if err != nil {
			return err
		}
		out, err = o.sign(ctx, c)
		return err
	})
	return out, err
}

// Submit envía un comprobante SIGNED. Un rechazo o un error de transporte no es un error:
// el comprobante queda REJECTED con LastError. El primer envío no cuenta como reintento.
func (o *Orchestrator) Submit(ctx context.Context, saleID int64) (*entity.Comprobante, error) {
	if err := validateSaleID(saleID); err != nil {
		return nil, err
	}
	var out *entity.Comprobante
	err := o.withLock(ctx, saleID, func() error {
		c, err := o.load(ctx, saleID)
		if err != nil {
			return err
		}
		if c.Status != entity.StatusSigned || !c.HasSignedXML() {
			return fmt.Errorf("%w: no se puede enviar un comprobante en estado %s", domain.ErrInvalidState, c.Status)
		}
		out, err = o.dispatch(ctx, c, false)
		return err
	})
	return out, err
}

// Resubmit reenvía un comprobante REJECTED incrementando RetryCount.
// domain.ErrRetryExhausted, sin contactar a SUNAT, cuando ya se alcanzó el máximo.
// Un envío SUBMITTED sin respuesta por más de SubmitTimeout se da por rechazado.
func (o *Orchestrator) Resubmit(ctx context.Context, saleID int64) (*entity.Comprobante, error) {
	if err := validateSaleID(saleID); err != nil {
		return nil, err
	}
	var out *entity.Comprobante
	err := o.withLock(ctx, saleID, func() error {
		c, err := o.load(ctx, saleID)
		if err != nil {
			return err
		}
		if c, err = o.recoverStale(ctx, c); err != nil {
			return err
		}
		out, err = o.resubmit(ctx, c)
		return err
	})
	return out, err
}

// ProcessFull genera (o reutiliza) el comprobante y continúa desde su estado almacenado
// hasta obtener una respuesta de SUNAT.
func (o *Orchestrator) ProcessFull(ctx context.Context, saleID int64, docType entity.DocumentType) (*entity.Comprobante, error) {
	if err := validateSaleID(saleID); err != nil {
		return nil, err
	}
	if err := validateDocType(docType); err != nil {
		return nil, err
	}
	var out *entity.Comprobante
	err := o.withLock(ctx, saleID, func() error {
		c, err := o.comprobantes.GetBySaleID(ctx, saleID)
		if err != nil {
			return fmt.Errorf("billing: obtener comprobante: %w", err)
		}
		if c == nil {
			if c, err = o.generate(ctx, saleID, docType); err != nil {
				return err
			}
		}
		if c.Status == entity.StatusDraft {
			if c, err = o.sign(ctx, c); err != nil {
				return err
			}
		}
		if c, err = o.recoverStale(ctx, c); err != nil {
			return err
		}
		switch c.Status {
		case entity.StatusSigned:
			out, err = o.dispatch(ctx, c, false)
		case entity.StatusRejected:
			out, err = o.resubmit(ctx, c)
		case entity.StatusAccepted:
			out = c
		default:
			err = fmt.Errorf("%w: el comprobante está en estado %s", domain.ErrInvalidState, c.Status)
		}
		return err
	})
	return out, err
}

// GetStatus devuelve el comprobante de la venta; domain.ErrNotFound si no existe.
func (o *Orchestrator) GetStatus(ctx context.Context, saleID int64) (*entity.Comprobante, error) {
	if err := validateSaleID(saleID); err != nil {
		return nil, err
	}
	return o.load(ctx, saleID)
}

// List comprobantes filtrados, del más reciente al más antiguo.
func (o *Orchestrator) List(ctx context.Context, f entity.ComprobanteFilter) ([]*entity.Comprobante, error) {
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return nil, fmt.Errorf("%w: la fecha desde es posterior a hasta", domain.ErrInvalidInput)
	}
	list, err := o.comprobantes.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("billing: listar comprobantes: %w", err)
	}
	return list, nil
}

// Document XML firmado si existe, si no el XML sin firma.
func (o *Orchestrator) Document(ctx context.Context, saleID int64) (*ExportedFile, error) {
	c, err := o.GetStatus(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return &ExportedFile{
		FileName:    o.fileBaseName(c) + ".xml",
		ContentType: "application/xml",
		Content:     []byte(c.Document()),
	}, nil
}

// CDR constancia de recepción; domain.ErrNotAvailable si ningún envío la produjo.
func (o *Orchestrator) CDR(ctx context.Context, saleID int64) (*ExportedFile, error) {
	c, err := o.GetStatus(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if c.CDR == "" {
		return nil, domain.ErrNotAvailable
	}
	return &ExportedFile{
		FileName:    "R-" + o.fileBaseName(c) + ".xml",
		ContentType: "application/xml",
		Content:     []byte(c.CDR),
	}, nil
}

// Details comprobante y venta de origen.
func (o *Orchestrator) Details(ctx context.Context, saleID int64) (*ComprobanteDetails, error) {
	c, err := o.GetStatus(ctx, saleID)
	if err != nil {
		return nil, err
	}
	sale, err := o.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("billing: obtener venta: %w", err)
	}
	return &ComprobanteDetails{Comprobante: c, Sale: sale}, nil
}

func (o *Orchestrator) generate(ctx context.Context, saleID int64, docType entity.DocumentType) (*entity.Comprobante, error) {
	doc, err := o.builder.Build(ctx, saleID, docType)
	if err != nil {
		return nil, err
	}
	if err := sunat.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	xmlBytes, err := o.renderer.Render(doc)
	if err != nil {
		return nil, fmt.Errorf("billing: serializar XML: %w", err)
	}

	now := o.now()
	c := &entity.Comprobante{
		SaleID:      saleID,
		DocType:     docType,
		Series:      docType.Series(),
		Number:      saleID,
		UnsignedXML: string(xmlBytes),
		Hash:        sunat.ContentHash(xmlBytes),
		Status:      entity.StatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := o.comprobantes.Create(ctx, c); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("billing: guardar comprobante: %w", err)
	}
	o.metrics.ComprobanteTransition(entity.StatusDraft)
	o.log.Info().Int64("sale_id", saleID).Str("numero", c.FullNumber()).Str("hash", c.Hash).Msg("comprobante generado")
	return c, nil
}

func (o *Orchestrator) sign(ctx context.Context, c *entity.Comprobante) (*entity.Comprobante, error) {
	if !entity.CanTransition(c.Status, entity.StatusSigned) {
		return nil, fmt.Errorf("%w: solo se firman comprobantes en DRAFT (actual %s)", domain.ErrInvalidState, c.Status)
	}
	signed, err := o.signer.Sign([]byte(c.UnsignedXML))
	if err != nil {
		o.log.Error().Err(err).Int64("sale_id", c.SaleID).Msg("firma fallida")
		return nil, fmt.Errorf("%w: %v", domain.ErrSigning, err)
	}

	next := *c
	next.SignedXML = string(signed)
	next.Status = entity.StatusSigned
	if err := o.comprobantes.Transition(ctx, &next, entity.StatusDraft); err != nil {
		return nil, o.transitionErr(err)
	}
	o.metrics.ComprobanteTransition(entity.StatusSigned)
	o.log.Info().Int64("sale_id", c.SaleID).Str("status", string(next.Status)).Msg("comprobante firmado")
	return &next, nil
}

func (o *Orchestrator) resubmit(ctx context.Context, c *entity.Comprobante) (*entity.Comprobante, error) {
	if c.Status != entity.StatusRejected {
		return nil, fmt.Errorf("%w: solo se reenvían comprobantes rechazados (actual %s)", domain.ErrInvalidState, c.Status)
	}
	if !c.CanResubmit() {
		return nil, domain.ErrRetryExhausted
	}
	if !c.HasSignedXML() {
		return nil, fmt.Errorf("%w: el comprobante no tiene XML firmado", domain.ErrInvalidState)
	}
	return o.dispatch(ctx, c, true)
}

// recoverStale da por rechazado un envío que quedó SUBMITTED sin respuesta registrada
// (caída del proceso o de la base al guardar la respuesta).
func (o *Orchestrator) recoverStale(ctx context.Context, c *entity.Comprobante) (*entity.Comprobante, error) {
	if c.Status != entity.StatusSubmitted {
		return c, nil
	}
	if c.SubmittedAt != nil && o.now().Sub(*c.SubmittedAt) <= o.submitTimeout {
		return nil, fmt.Errorf("%w: el comprobante tiene un envío en curso", domain.ErrInvalidState)
	}
	next := *c
	next.Status = entity.StatusRejected
	next.LastError = fmt.Errorf("%w: el envío no registró respuesta de SUNAT", domain.ErrSubmission).Error()
	if err := o.comprobantes.Transition(ctx, &next, entity.StatusSubmitted); err != nil {
		return nil, o.transitionErr(err)
	}
	o.metrics.ComprobanteTransition(entity.StatusRejected)
	o.log.Warn().Int64("sale_id", c.SaleID).Int("retry_count", c.RetryCount).Msg("envío sin respuesta, comprobante marcado REJECTED")
	return &next, nil
}

// dispatch pasa el comprobante a SUBMITTED, llama a SUNAT con timeout y persiste la respuesta.
// La respuesta se guarda aunque el contexto del request haya expirado.
func (o *Orchestrator) dispatch(ctx context.Context, c *entity.Comprobante, retry bool) (*entity.Comprobante, error) {
	from := c.Status
	if !entity.CanTransition(from, entity.StatusSubmitted) {
		return nil, fmt.Errorf("%w: no se puede enviar un comprobante en estado %s", domain.ErrInvalidState, from)
	}
	sent := o.now()

	next := *c
	next.Status = entity.StatusSubmitted
	next.SubmittedAt = &sent
	if retry {
		next.RetryCount++
	}
	if err := o.comprobantes.Transition(ctx, &next, from); err != nil {
		return nil, o.transitionErr(err)
	}
	o.metrics.ComprobanteTransition(entity.StatusSubmitted)

	req := SubmitRequest{
		SaleID:      next.SaleID,
		SupplierRUC: o.builder.Supplier().RUC,
		TypeCode:    next.DocType.Code(),
		DocumentID:  next.FullNumber(),
		SignedXML:   []byte(next.SignedXML),
	}
	subCtx, cancel := context.WithTimeout(ctx, o.submitTimeout)
	start := time.Now()
	res, err := o.submitter.Submit(subCtx, req)
	elapsed := time.Since(start)
	cancel()

	responded := o.now()
	next.RespondedAt = &responded
	switch {
	case err != nil:
		next.Status = entity.StatusRejected
		next.ResponseCode = ""
		next.ResponseMessage = ""
		next.LastError = fmt.Errorf("%w: %v", domain.ErrSubmission, err).Error()
	case res == nil:
		next.Status = entity.StatusRejected
		next.LastError = fmt.Errorf("%w: respuesta vacía", domain.ErrSubmission).Error()
	case res.Accepted:
		next.Status = entity.StatusAccepted
		next.ResponseCode = res.ResponseCode
		next.ResponseMessage = res.ResponseMessage
		next.CDR = string(res.CDR)
		next.LastError = ""
	default:
		next.Status = entity.StatusRejected
		next.ResponseCode = res.ResponseCode
		next.ResponseMessage = res.ResponseMessage
		if len(res.CDR) > 0 {
			next.CDR = string(res.CDR)
		}
		next.LastError = fmt.Sprintf("SUNAT rechazó el comprobante (%s): %s", res.ResponseCode, res.ResponseMessage)
	}

	saved, err := o.persistResponse(context.WithoutCancel(ctx), &next)
	if err != nil {
		return nil, err
	}
	accepted := saved.Status == entity.StatusAccepted
	o.metrics.SubmissionObserved(accepted, elapsed)
	o.metrics.ComprobanteTransition(saved.Status)

	ev := o.log.Info()
	if !accepted {
		ev = o.log.Warn().Str("last_error", saved.LastError)
	}
	ev.Int64("sale_id", saved.SaleID).
		Str("status", string(saved.Status)).
		Int("retry_count", saved.RetryCount).
		Dur("elapsed", elapsed).
		Msg("respuesta SUNAT registrada")
	return saved, nil
}

// persistResponse guarda la respuesta de SUNAT con reintentos. Si la base sigue fallando
// intenta dejar el comprobante REJECTED; si tampoco puede, recoverStale lo libera después
// de SubmitTimeout.
func (o *Orchestrator) persistResponse(ctx context.Context, next *entity.Comprobante) (*entity.Comprobante, error) {
	var err error
	for attempt := 0; ; attempt++ {
		err = o.comprobantes.Transition(ctx, next, entity.StatusSubmitted)
		if err == nil {
			return next, nil
		}
		if errors.Is(err, domain.ErrInvalidState) {
			return nil, o.transitionErr(err)
		}
		if attempt == len(persistBackoff) {
			break
		}
		o.log.Warn().Err(err).Int64("sale_id", next.SaleID).Int("intento", attempt+1).Msg("reintentando guardar respuesta de SUNAT")
		time.Sleep(persistBackoff[attempt])
	}
	o.log.Error().Err(err).Int64("sale_id", next.SaleID).Str("status", string(next.Status)).Msg("no se pudo persistir la respuesta de SUNAT")

	fallback := *next
	fallback.Status = entity.StatusRejected
	fallback.LastError = fmt.Sprintf("no se pudo registrar la respuesta de SUNAT (%s %s): %v",
		next.Status, next.ResponseCode, err)
	if ferr := o.comprobantes.Transition(ctx, &fallback, entity.StatusSubmitted); ferr != nil {
		return nil, o.transitionErr(err)
	}
	return &fallback, nil
}

func (o *Orchestrator) load(ctx context.Context, saleID int64) (*entity.Comprobante, error) {
	c, err := o.comprobantes.GetBySaleID(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("billing: obtener comprobante: %w", err)
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (o *Orchestrator) withLock(ctx context.Context, saleID int64, fn func() error) error {
	unlock, err := o.locker.Lock(ctx, fmt.Sprintf("comprobante:%d", saleID))
	if err != nil {
		return fmt.Errorf("billing: lock venta %d: %w", saleID, err)
	}
	defer unlock()
	return fn()
}

func (o *Orchestrator) transitionErr(err error) error {
	if errors.Is(err, domain.ErrInvalidState) {
		return fmt.Errorf("%w: el comprobante cambió de estado en otro proceso", domain.ErrInvalidState)
	}
	return fmt.Errorf("billing: actualizar comprobante: %w", err)
}

func (o *Orchestrator) fileBaseName(c *entity.Comprobante) string {
	return o.builder.Supplier().RUC + "-" + c.DocType.Code() + "-" + c.FullNumber()
}

func validateDocType(t entity.DocumentType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: tipo de comprobante desconocido %q", domain.ErrInvalidInput, t)
	}
	return nil
}

func validateSaleID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: venta_id debe ser mayor que cero", domain.ErrInvalidInput)
	}
	return nil
}
