package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Bazar-api/internal/domain/entity"
	"github.com/jhoicas/Bazar-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas en memoria.
type SaleRepo struct {
	s *Store
	// FailWith fuerza un error en ListInWindow (tests de cierre de caja).
	FailWith error
}

func (r *SaleRepo) GetByID(_ context.Context, id int64) (*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	sale.Lines = append([]entity.SaleLine(nil), sale.Lines...)
	return &sale, nil
}

func (r *SaleRepo) ListInWindow(_ context.Context, w entity.AggregationWindow) ([]*entity.Sale, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Sale, 0)
	for _, sale := range r.s.sales {
		if !w.Contains(sale.SoldAt) {
			continue
		}
		if w.UserID != nil && sale.UserID != *w.UserID {
			continue
		}
		sale := sale
		sale.Lines = nil
		out = append(out, &sale)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SoldAt.Before(out[j].SoldAt) })
	return out, nil
}
