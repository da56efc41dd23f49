package cashregister

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bazar-api/internal/application/ports"
	"github.com/jhoicas/Bazar-api/internal/domain"
	"github.com/jhoicas/Bazar-api/internal/domain/entity"
	"github.com/jhoicas/Bazar-api/internal/domain/repository"
	"github.com/jhoicas/Bazar-api/pkg/logger"
)

// TxRunner ejecuta fn en una transacción: la lectura de ventas y la actualización de
// la sesión se confirman juntas o no se confirman.
type TxRunner interface {
	RunCashRegister(ctx context.Context, fn func(
		sessions repository.CashRegisterRepository,
		sales repository.SaleRepository,
	) error) error
}

// Preview totales de la sesión en curso sin modificar nada.
type Preview struct {
	Session            *entity.CashRegisterSession // nil si no hay caja abierta
	WindowStart        time.Time
	WindowEnd          time.Time
	Totals             entity.PaymentTotals
	EstimatedFinalCash decimal.Decimal
}

// UseCase apertura, cierre y consulta de sesiones de caja.
type UseCase struct {
	sessions   repository.CashRegisterRepository
	aggregator *SalesAggregator
	tx         TxRunner
	locker     ports.Locker
	metrics    ports.Metrics
	log        *logger.Logger
	now        func() time.Time
}

// Deps dependencias del caso de uso. Metrics, Log y Now son opcionales.
type Deps struct {
	Sessions repository.CashRegisterRepository
	Sales    repository.SaleRepository
	Tx       TxRunner
	Locker   ports.Locker
	Metrics  ports.Metrics
	Log      *logger.Logger
	Now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(d Deps) *UseCase {
	if d.Metrics == nil {
		d.Metrics = ports.NopMetrics{}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &UseCase{
		sessions:   d.Sessions,
		aggregator: NewSalesAggregator(d.Sales),
		tx:         d.Tx,
		locker:     d.Locker,
		metrics:    d.Metrics,
		log:        d.Log.Component("cashregister"),
		now:        d.Now,
	}
}

// Open abre la caja del usuario. domain.ErrSessionAlreadyOpen si ya tiene una abierta.
func (uc *UseCase) Open(ctx context.Context, userID int64, openingAmount decimal.Decimal, notes string) (*entity.CashRegisterSession, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	if openingAmount.IsNegative() {
		return nil, fmt.Errorf("%w: el monto inicial no puede ser negativo", domain.ErrInvalidInput)
	}

	var out *entity.CashRegisterSession
	err := uc.withLock(ctx, userID, func() error {
		existing, err := uc.sessions.GetOpenByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("cashregister: obtener caja abierta: %w", err)
		}
		if existing != nil {
			return domain.ErrSessionAlreadyOpen
		}
		now := uc.now()
		sess := &entity.CashRegisterSession{
			UserID:        userID,
			OpenedAt:      now,
			OpeningAmount: openingAmount,
			Status:        entity.SessionOpen,
			Notes:         strings.TrimSpace(notes),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := uc.sessions.Create(ctx, sess); err != nil {
			if errors.Is(err, domain.ErrSessionAlreadyOpen) {
				return err
			}
			return fmt.Errorf("cashregister: crear sesión: %w", err)
		}
		out = sess
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.CashRegisterOpened()
	uc.log.Info().Int64("user_id", userID).Str("session_id", out.ID).Str("monto_inicial", openingAmount.StringFixed(2)).Msg("caja abierta")
	return out, nil
}

// Close cierra la caja abierta del usuario congelando los totales de [apertura, ahora].
// Si la agregación falla no se modifica nada y la sesión sigue OPEN.
// notes vacío conserva las observaciones de apertura.
func (uc *UseCase) Close(ctx context.Context, userID int64, countedAmount decimal.Decimal, notes string) (*entity.CashRegisterSession, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	if countedAmount.IsNegative() {
		return nil, fmt.Errorf("%w: el monto contado no puede ser negativo", domain.ErrInvalidInput)
	}

	var out *entity.CashRegisterSession
	err := uc.withLock(ctx, userID, func() error {
		return uc.tx.RunCashRegister(ctx, func(sessions repository.CashRegisterRepository, sales repository.SaleRepository) error {
			sess, err := sessions.LockOpenByUser(ctx, userID)
			if err != nil {
				return fmt.Errorf("cashregister: obtener caja abierta: %w", err)
			}
			if sess == nil {
				return domain.ErrNoOpenSession
			}

			now := uc.now()
			totals, err := aggregate(ctx, sales, entity.AggregationWindow{Start: sess.OpenedAt, End: now, UserID: &userID})
			if err != nil {
				return err
			}

			closed := *sess
			closed.ClosedAt = &now
			closed.CountedAmount = &countedAmount
			closed.Status = entity.SessionClosed
			closed.Totals = totals
			if n := strings.TrimSpace(notes); n != "" {
				closed.Notes = n
			}
			closed.UpdatedAt = now
			if err := sessions.Close(ctx, &closed); err != nil {
				if errors.Is(err, domain.ErrNoOpenSession) {
					return err
				}
				return fmt.Errorf("cashregister: cerrar sesión: %w", err)
			}
			out = &closed
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.CashRegisterClosed()
	uc.log.Info().
		Int64("user_id", userID).
		Str("session_id", out.ID).
		Str("esperado", out.ExpectedCash().StringFixed(2)).
		Str("contado", countedAmount.StringFixed(2)).
		Str("diferencia", out.Difference().StringFixed(2)).
		Int("ventas", out.Totals.Count).
		Msg("caja cerrada")
	return out, nil
}

// Preview totales desde la apertura (o desde el inicio del día si no hay caja abierta)
// hasta ahora. Solo lectura.
func (uc *UseCase) Preview(ctx context.Context, userID int64) (*Preview, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	sess, err := uc.sessions.GetOpenByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cashregister: obtener caja abierta: %w", err)
	}

	now := uc.now()
	start := startOfDay(now)
	opening := decimal.Zero
	if sess != nil {
		start = sess.OpenedAt
		opening = sess.OpeningAmount
	}
	totals, err := uc.aggregator.Aggregate(ctx, entity.AggregationWindow{Start: start, End: now, UserID: &userID})
	if err != nil {
		return nil, err
	}
	return &Preview{
		Session:            sess,
		WindowStart:        start,
		WindowEnd:          now,
		Totals:             totals,
		EstimatedFinalCash: opening.Add(totals.Cash),
	}, nil
}

// Current caja abierta del usuario; nil si no tiene.
func (uc *UseCase) Current(ctx context.Context, userID int64) (*entity.CashRegisterSession, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	sess, err := uc.sessions.GetOpenByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cashregister: obtener caja abierta: %w", err)
	}
	return sess, nil
}

// ListSessions historial ordenado por apertura descendente.
func (uc *UseCase) ListSessions(ctx context.Context, f entity.SessionFilter) ([]*entity.CashRegisterSession, error) {
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return nil, fmt.Errorf("%w: la fecha desde es posterior a hasta", domain.ErrInvalidInput)
	}
	list, err := uc.sessions.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("cashregister: listar sesiones: %w", err)
	}
	return list, nil
}

func (uc *UseCase) withLock(ctx context.Context, userID int64, fn func() error) error {
	unlock, err := uc.locker.Lock(ctx, fmt.Sprintf("caja:%d", userID))
	if err != nil {
		return fmt.Errorf("cashregister: lock usuario %d: %w", userID, err)
	}
	defer unlock()
	return fn()
}

func validateUser(userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("%w: usuario no identificado", domain.ErrInvalidInput)
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
