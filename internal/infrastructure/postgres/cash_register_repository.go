package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Bazar-api/internal/domain"
	"github.com/jhoicas/Bazar-api/internal/domain/entity"
	"github.com/jhoicas/Bazar-api/internal/domain/repository"
)

var _ repository.CashRegisterRepository = (*CashRegisterRepo)(nil)

// CashRegisterRepo sesiones de caja. El índice único parcial uq_cash_register_open_per_user
// garantiza una sola sesión OPEN por usuario.
type CashRegisterRepo struct {
	q Querier
}

// NewCashRegisterRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashRegisterRepository(q Querier) *CashRegisterRepo {
	return &CashRegisterRepo{q: q}
}

const sessionSelect = `
	id::text, user_id, opened_at, closed_at, opening_amount, counted_amount, status,
	total_cash, total_card, total_wallet_a, total_wallet_b, total_transfer, total_other,
	total_overall, sales_count, notes, created_at, updated_at`

// Create inserta la sesión OPEN. Violación del índice parcial -> ErrSessionAlreadyOpen.
func (r *CashRegisterRepo) Create(ctx context.Context, s *entity.CashRegisterSession) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	const query = `
		INSERT INTO cash_register_sessions (id, user_id, opened_at, opening_amount, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.UserID, s.OpenedAt, s.OpeningAmount, string(s.Status), s.Notes, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSessionAlreadyOpen
		}
		return fmt.Errorf("insert cash register session: %w", err)
	}
	return nil
}

// GetOpenByUser devuelve (nil, nil) si el usuario no tiene caja abierta.
func (r *CashRegisterRepo) GetOpenByUser(ctx context.Context, userID int64) (*entity.CashRegisterSession, error) {
	return r.openByUser(ctx, userID, "")
}

// LockOpenByUser SELECT ... FOR UPDATE: solo tiene efecto dentro de una transacción.
func (r *CashRegisterRepo) LockOpenByUser(ctx context.Context, userID int64) (*entity.CashRegisterSession, error) {
	return r.openByUser(ctx, userID, " FOR UPDATE")
}

func (r *CashRegisterRepo) openByUser(ctx context.Context, userID int64, suffix string) (*entity.CashRegisterSession, error) {
	query := `SELECT ` + sessionSelect + ` FROM cash_register_sessions WHERE user_id = $1 AND status = 'OPEN'` + suffix
	s, err := scanSession(r.q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get open cash register session: %w", err)
	}
	return s, nil
}

// Close congela totales; CAS sobre status = 'OPEN'.
func (r *CashRegisterRepo) Close(ctx context.Context, s *entity.CashRegisterSession) error {
	s.UpdatedAt = time.Now()
	const query = `
		UPDATE cash_register_sessions
		SET status         = $2,
		    closed_at      = $3,
		    counted_amount = $4,
		    total_cash     = $5,
		    total_card     = $6,
		    total_wallet_a = $7,
		    total_wallet_b = $8,
		    total_transfer = $9,
		    total_other    = $10,
		    total_overall  = $11,
		    sales_count    = $12,
		    notes          = $13,
		    updated_at     = $14
		WHERE id = $1 AND status = 'OPEN'`
	t := s.Totals
	tag, err := r.q.Exec(ctx, query,
		s.ID, string(s.Status), s.ClosedAt, s.CountedAmount,
		t.Cash, t.Card, t.WalletA, t.WalletB, t.Transfer, t.Other, t.Overall, t.Count,
		s.Notes, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("close cash register session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNoOpenSession
	}
	return nil
}

// List historial por fecha de apertura descendente.
func (r *CashRegisterRepo) List(ctx context.Context, f entity.SessionFilter) ([]*entity.CashRegisterSession, error) {
	query := `SELECT ` + sessionSelect + ` FROM cash_register_sessions WHERE 1=1`
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		query += fmt.Sprintf(" AND "+cond, len(args))
	}
	if f.UserID != nil {
		add("user_id = $%d", *f.UserID)
	}
	if f.From != nil {
		add("opened_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("opened_at <= $%d", *f.To)
	}
	query += ` ORDER BY opened_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cash register sessions: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.CashRegisterSession, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cash register session: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanSession(row pgx.Row) (*entity.CashRegisterSession, error) {
	var s entity.CashRegisterSession
	var status string
	var counted decimal.NullDecimal
	err := row.Scan(
		&s.ID, &s.UserID, &s.OpenedAt, &s.ClosedAt, &s.OpeningAmount, &counted, &status,
		&s.Totals.Cash, &s.Totals.Card, &s.Totals.WalletA, &s.Totals.WalletB, &s.Totals.Transfer, &s.Totals.Other,
		&s.Totals.Overall, &s.Totals.Count, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Status = entity.SessionStatus(status)
	if counted.Valid {
		v := counted.Decimal
		s.CountedAmount = &v
	}
	return &s, nil
}
