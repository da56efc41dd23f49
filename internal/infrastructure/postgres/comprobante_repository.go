package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Bazar-api/internal/domain"
	"github.com/jhoicas/Bazar-api/internal/domain/entity"
	"github.com/jhoicas/Bazar-api/internal/domain/repository"
)

var _ repository.ComprobanteRepository = (*ComprobanteRepo)(nil)

// ComprobanteRepo implementación de ComprobanteRepository (usable con pool o tx).
type ComprobanteRepo struct {
	q Querier
}

// NewComprobanteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewComprobanteRepository(q Querier) *ComprobanteRepo {
	return &ComprobanteRepo{q: q}
}

const comprobanteColumns = `
	id, sale_id, doc_type, series, number, unsigned_xml, signed_xml, hash, status,
	response_code, response_message, cdr, submitted_at, responded_at, retry_count, last_error,
	created_at, updated_at`

// comprobanteSelect igual que comprobanteColumns con el UUID como texto.
const comprobanteSelect = `
	id::text, sale_id, doc_type, series, number, unsigned_xml, signed_xml, hash, status,
	response_code, response_message, cdr, submitted_at, responded_at, retry_count, last_error,
	created_at, updated_at`

// Create inserta el comprobante. sale_id es UNIQUE: una segunda inserción devuelve ErrAlreadyExists.
func (r *ComprobanteRepo) Create(ctx context.Context, c *entity.Comprobante) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	query := `INSERT INTO comprobantes (` + comprobanteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.SaleID, string(c.DocType), c.Series, c.Number, c.UnsignedXML,
		nullIfEmpty(c.SignedXML), c.Hash, string(c.Status),
		nullIfEmpty(c.ResponseCode), nullIfEmpty(c.ResponseMessage), nullIfEmpty(c.CDR),
		c.SubmittedAt, c.RespondedAt, c.RetryCount, nullIfEmpty(c.LastError),
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert comprobante: %w", err)
	}
	return nil
}

// GetBySaleID devuelve (nil, nil) si la venta no tiene comprobante.
func (r *ComprobanteRepo) GetBySaleID(ctx context.Context, saleID int64) (*entity.Comprobante, error) {
	query := `SELECT ` + comprobanteSelect + ` FROM comprobantes WHERE sale_id = $1`
	c, err := scanComprobante(r.q.QueryRow(ctx, query, saleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comprobante: %w", err)
	}
	return c, nil
}

// Transition UPDATE ... WHERE sale_id = $1 AND status = $from. Si ninguna fila cambia, el
// comprobante no existe (ErrNotFound) u otro proceso ganó la transición (ErrInvalidState).
func (r *ComprobanteRepo) Transition(ctx context.Context, c *entity.Comprobante, from entity.ComprobanteStatus) error {
	c.UpdatedAt = time.Now()
	const query = `
		UPDATE comprobantes
		SET doc_type         = $3,
		    series           = $4,
		    number           = $5,
		    unsigned_xml     = $6,
		    signed_xml       = $7,
		    hash             = $8,
		    status           = $9,
		    response_code    = $10,
		    response_message = $11,
		    cdr              = $12,
		    submitted_at     = $13,
		    responded_at     = $14,
		    retry_count      = $15,
		    last_error       = $16,
		    updated_at       = $17
		WHERE sale_id = $1 AND status = $2`
	tag, err := r.q.Exec(ctx, query,
		c.SaleID, string(from),
		string(c.DocType), c.Series, c.Number, c.UnsignedXML, nullIfEmpty(c.SignedXML), c.Hash,
		string(c.Status), nullIfEmpty(c.ResponseCode), nullIfEmpty(c.ResponseMessage), nullIfEmpty(c.CDR),
		c.SubmittedAt, c.RespondedAt, c.RetryCount, nullIfEmpty(c.LastError), c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update comprobante: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM comprobantes WHERE sale_id = $1)`, c.SaleID).Scan(&exists); err != nil {
		return fmt.Errorf("check comprobante: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrInvalidState
}

// List filtra por estado, venta y rango de creación; más reciente primero.
func (r *ComprobanteRepo) List(ctx context.Context, f entity.ComprobanteFilter) ([]*entity.Comprobante, error) {
	query := `SELECT ` + comprobanteSelect + ` FROM comprobantes WHERE 1=1`
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		query += fmt.Sprintf(" AND "+cond, len(args))
	}
	if f.Status != nil {
		add("status = $%d", string(*f.Status))
	}
	if f.SaleID != nil {
		add("sale_id = $%d", *f.SaleID)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}
	query += ` ORDER BY created_at DESC, sale_id DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list comprobantes: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Comprobante, 0)
	for rows.Next() {
		c, err := scanComprobante(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comprobante: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// CountByStatus conteo agrupado por estado.
func (r *ComprobanteRepo) CountByStatus(ctx context.Context) (map[entity.ComprobanteStatus]int, error) {
	rows, err := r.q.Query(ctx, `SELECT status, COUNT(*) FROM comprobantes GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count comprobantes: %w", err)
	}
	defer rows.Close()
	counts := make(map[entity.ComprobanteStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[entity.ComprobanteStatus(status)] = n
	}
	return counts, rows.Err()
}

func scanComprobante(row pgx.Row) (*entity.Comprobante, error) {
	var c entity.Comprobante
	var docType, status string
	var signedXML, respCode, respMsg, cdr, lastError *string
	err := row.Scan(
		&c.ID, &c.SaleID, &docType, &c.Series, &c.Number, &c.UnsignedXML, &signedXML, &c.Hash, &status,
		&respCode, &respMsg, &cdr, &c.SubmittedAt, &c.RespondedAt, &c.RetryCount, &lastError,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.DocType = entity.DocumentType(docType)
	c.Status = entity.ComprobanteStatus(status)
	c.SignedXML = derefStr(signedXML)
	c.ResponseCode = derefStr(respCode)
	c.ResponseMessage = derefStr(respMsg)
	c.CDR = derefStr(cdr)
	c.LastError = derefStr(lastError)
	return &c, nil
}
