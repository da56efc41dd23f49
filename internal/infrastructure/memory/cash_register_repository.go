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

var _ repository.CashRegisterRepository = (*CashRegisterRepo)(nil)

// CashRegisterRepo sesiones de caja en memoria; openSessionByUser garantiza una OPEN por usuario.
type CashRegisterRepo struct {
	s *Store
}

func (r *CashRegisterRepo) Create(_ context.Context, sess *entity.CashRegisterSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.openSessionByUser[sess.UserID]; ok {
		return domain.ErrSessionAlreadyOpen
	}
	if sess.ID == "" {
		sess.ID = uuid.New().String()
	}
	now := time.Now()
	sess.CreatedAt = now
	sess.UpdatedAt = now
	r.s.sessionsByID[sess.ID] = *sess
	r.s.openSessionByUser[sess.UserID] = sess.ID
	return nil
}

func (r *CashRegisterRepo) GetOpenByUser(_ context.Context, userID int64) (*entity.CashRegisterSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.openSessionByUser[userID]
	if !ok {
		return nil, nil
	}
	sess := r.s.sessionsByID[id]
	return &sess, nil
}

// LockOpenByUser en memoria no necesita bloqueo de fila: el TxRunner serializa los cierres.
func (r *CashRegisterRepo) LockOpenByUser(ctx context.Context, userID int64) (*entity.CashRegisterSession, error) {
	return r.GetOpenByUser(ctx, userID)
}

func (r *CashRegisterRepo) Close(_ context.Context, sess *entity.CashRegisterSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.sessionsByID[sess.ID]
	if !ok || current.Status != entity.SessionOpen {
		return domain.ErrNoOpenSession
	}
	sess.UpdatedAt = time.Now()
	r.s.sessionsByID[sess.ID] = *sess
	delete(r.s.openSessionByUser, sess.UserID)
	return nil
}

func (r *CashRegisterRepo) List(_ context.Context, f entity.SessionFilter) ([]*entity.CashRegisterSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.CashRegisterSession, 0)
	for _, sess := range r.s.sessionsByID {
		if f.UserID != nil && sess.UserID != *f.UserID {
			continue
		}
		if f.From != nil && sess.OpenedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && sess.OpenedAt.After(*f.To) {
			continue
		}
		sess := sess
		out = append(out, &sess)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpenedAt.After(out[j].OpenedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}
