// Package cashregister contiene los casos de uso de apertura, previsualización y cierre de caja.
package cashregister

import (
	"context"
	"fmt"

	"github.com/jhoicas/Bazar-api/internal/domain"
	"github.com/jhoicas/Bazar-api/internal/domain/entity"
	"github.com/jhoicas/Bazar-api/internal/domain/repository"
)

// SalesAggregator suma las ventas de una ventana por método de pago normalizado.
type SalesAggregator struct {
	sales repository.SaleRepository
}

// NewSalesAggregator construye el agregador.
func NewSalesAggregator(sales repository.SaleRepository) *SalesAggregator {
	return &SalesAggregator{sales: sales}
}

// Aggregate totales de la ventana [Start, End]. Una ventana sin ventas devuelve ceros.
func (a *SalesAggregator) Aggregate(ctx context.Context, w entity.AggregationWindow) (entity.PaymentTotals, error) {
	return aggregate(ctx, a.sales, w)
}

func aggregate(ctx context.Context, sales repository.SaleRepository, w entity.AggregationWindow) (entity.PaymentTotals, error) {
	var totals entity.PaymentTotals
	if w.End.Before(w.Start) {
		return totals, fmt.Errorf("%w: la ventana termina antes de empezar", domain.ErrInvalidInput)
	}
	list, err := sales.ListInWindow(ctx, w)
	if err != nil {
		return totals, fmt.Errorf("cashregister: listar ventas: %w", err)
	}
	for _, s := range list {
		totals.Add(s.Method(), s.Total)
	}
	return totals, nil
}
