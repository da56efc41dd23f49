// Package analytics contiene el resumen de ventas y comprobantes del dashboard.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Bazar-api/internal/application/dto"
	"github.com/jhoicas/Bazar-api/internal/domain/entity"
	"github.com/jhoicas/Bazar-api/internal/domain/repository"
)

// Aggregator totales de ventas por método de pago en una ventana.
type Aggregator interface {
	Aggregate(ctx context.Context, w entity.AggregationWindow) (entity.PaymentTotals, error)
}

// DashboardUseCase genera el resumen del día y del mes en curso.
type DashboardUseCase struct {
	aggregator   Aggregator
	comprobantes repository.ComprobanteRepository
	now          func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(aggregator Aggregator, comprobantes repository.ComprobanteRepository) *DashboardUseCase {
	return &DashboardUseCase{aggregator: aggregator, comprobantes: comprobantes, now: time.Now}
}

// Summary construye el DashboardSummaryDTO. userID nil = todas las cajas.
//
// Tres llamadas en paralelo:
//  1. Aggregate(hoy)     → Today
//  2. Aggregate(mes)     → Month
//  3. CountByStatus()    → Comprobantes
func (uc *DashboardUseCase) Summary(ctx context.Context, userID *int64) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type totalsResult struct {
		totals entity.PaymentTotals
		err    error
	}
	type countsResult struct {
		counts map[entity.ComprobanteStatus]int
		err    error
	}

	todayCh := make(chan totalsResult, 1)
	monthCh := make(chan totalsResult, 1)
	countsCh := make(chan countsResult, 1)

	go func() {
		t, err := uc.aggregator.Aggregate(ctx, entity.AggregationWindow{Start: todayStart, End: now, UserID: userID})
		todayCh <- totalsResult{t, err}
	}()
	go func() {
		t, err := uc.aggregator.Aggregate(ctx, entity.AggregationWindow{Start: monthStart, End: now, UserID: userID})
		monthCh <- totalsResult{t, err}
	}()
	go func() {
		c, err := uc.comprobantes.CountByStatus(ctx)
		countsCh <- countsResult{c, err}
	}()

	today := <-todayCh
	month := <-monthCh
	counts := <-countsCh

	if today.err != nil {
		return nil, fmt.Errorf("dashboard: ventas de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: ventas del mes: %w", month.err)
	}
	if counts.err != nil {
		return nil, fmt.Errorf("dashboard: comprobantes por estado: %w", counts.err)
	}

	byStatus := map[string]int{}
	for _, st := range []entity.ComprobanteStatus{
		entity.StatusDraft, entity.StatusSigned, entity.StatusSubmitted, entity.StatusAccepted, entity.StatusRejected,
	} {
		byStatus[string(st)] = counts.counts[st]
	}

	return &dto.DashboardSummaryDTO{
		Today:        dto.FromPaymentTotals(today.totals),
		Month:        dto.FromPaymentTotals(month.totals),
		Comprobantes: byStatus,
		DateLabel:    monthLabel(now),
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Marzo 2024".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
