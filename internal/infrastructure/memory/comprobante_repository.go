package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Bazar-api/internal/domain"
	"github.com/jhoicas/Bazar-api/internal/domain/entity"
	"github.com/jhoicas/Bazar-api/internal/domain/repository"
)

var _ repository.ComprobanteRepository = (*ComprobanteRepo)(nil)

// ComprobanteRepo comprobantes en memoria, indexados por venta.
type ComprobanteRepo struct {
	s *Store
}

func (r *ComprobanteRepo) Create(_ context.Context, c *entity.Comprobante) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comprobantesBySale[c.SaleID]; ok {
		return domain.ErrAlreadyExists
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	r.s.comprobantesBySale[c.SaleID] = *c
	return nil
}

func (r *ComprobanteRepo) GetBySaleID(_ context.Context, saleID int64) (*entity.Comprobante, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.comprobantesBySale[saleID]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *ComprobanteRepo) Transition(_ context.Context, c *entity.Comprobante, from entity.ComprobanteStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.comprobantesBySale[c.SaleID]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Status != from {
		return domain.ErrInvalidState
	}
	c.UpdatedAt = time.Now()
	r.s.comprobantesBySale[c.SaleID] = *c
	return nil
}

func (r *ComprobanteRepo) List(_ context.Context, f entity.ComprobanteFilter) ([]*entity.Comprobante, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Comprobante, 0)
	for _, c := range r.s.comprobantesBySale {
		if f.Status != nil && c.Status != *f.Status {
			continue
		}
		if f.SaleID != nil && c.SaleID != *f.SaleID {
			continue
		}
		if f.From != nil && c.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && c.CreatedAt.After(*f.To) {
			continue
		}
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].SaleID > out[j].SaleID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *ComprobanteRepo) CountByStatus(_ context.Context) (map[entity.ComprobanteStatus]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	counts := make(map[entity.ComprobanteStatus]int)
	for _, c := range r.s.comprobantesBySale {
		counts[c.Status]++
	}
	return counts, nil
}
