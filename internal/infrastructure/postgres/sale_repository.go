package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Bazar-api/internal/domain/entity"
	"github.com/jhoicas/Bazar-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo lectura de ventas (tablas sales y sale_details).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// GetByID obtiene la venta con sus líneas; (nil, nil) si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	const query = `
		SELECT id, client_name, total, payment_method, sold_at, user_id
		FROM sales WHERE id = $1`
	var s entity.Sale
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.ClientName, &s.Total, &s.PaymentLabel, &s.SoldAt, &s.UserID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	lines, err := r.lines(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Lines = lines
	return &s, nil
}

func (r *SaleRepo) lines(ctx context.Context, saleID int64) ([]entity.SaleLine, error) {
	const query = `
		SELECT COALESCE(product_id, 0), product_name, quantity, unit_price
		FROM sale_details WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale details: %w", err)
	}
	defer rows.Close()
	var list []entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan sale detail: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// ListInWindow ventas con sold_at en [Start, End], opcionalmente de un usuario.
func (r *SaleRepo) ListInWindow(ctx context.Context, w entity.AggregationWindow) ([]*entity.Sale, error) {
	query := `
		SELECT id, client_name, total, payment_method, sold_at, user_id
		FROM sales WHERE sold_at >= $1 AND sold_at <= $2`
	args := []any{w.Start, w.End}
	if w.UserID != nil {
		query += ` AND user_id = $3`
		args = append(args, *w.UserID)
	}
	query += ` ORDER BY sold_at, id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales in window: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Sale, 0)
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.ClientName, &s.Total, &s.PaymentLabel, &s.SoldAt, &s.UserID); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Insert registra una venta importada con sus líneas conservando su ID.
// Devuelve false si la venta ya existía (no se modifica). Usar dentro de una transacción.
func (r *SaleRepo) Insert(ctx context.Context, s *entity.Sale) (bool, error) {
	const query = `
		INSERT INTO sales (id, client_name, total, payment_method, sold_at, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`
	tag, err := r.q.Exec(ctx, query, s.ID, s.ClientName, s.Total, s.PaymentLabel, s.SoldAt, s.UserID)
	if err != nil {
		return false, fmt.Errorf("insert sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	for _, l := range s.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_details (sale_id, product_id, product_name, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5)`,
			s.ID, nullIfZero(l.ProductID), l.ProductName, l.Quantity, l.UnitPrice,
		)
		if err != nil {
			return false, fmt.Errorf("insert sale detail: %w", err)
		}
	}
	return true, nil
}

// SyncSequence alinea la secuencia de sales.id con el máximo importado.
func (r *SaleRepo) SyncSequence(ctx context.Context) error {
	const query = `SELECT setval(pg_get_serial_sequence('sales', 'id'), GREATEST((SELECT MAX(id) FROM sales), 1))`
	if _, err := r.q.Exec(ctx, query); err != nil {
		return fmt.Errorf("sync sales sequence: %w", err)
	}
	return nil
}
