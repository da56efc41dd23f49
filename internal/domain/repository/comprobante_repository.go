package repository

import (
	"context"

	"github.com/jhoicas/Bazar-api/internal/domain/entity"
)

// ComprobanteRepository persistencia de comprobantes electrónicos (uno por venta).
type ComprobanteRepository interface {
	// Create inserta el comprobante; domain.ErrAlreadyExists si la venta ya tiene uno.
	Create(ctx context.Context, c *entity.Comprobante) error
	// GetBySaleID devuelve (nil, nil) si la venta no tiene comprobante.
	GetBySaleID(ctx context.Context, saleID int64) (*entity.Comprobante, error)
	// Transition persiste el comprobante solo si su estado almacenado sigue siendo from
	// (compare-and-swap); domain.ErrInvalidState si otro proceso lo cambió antes.
	Transition(ctx context.Context, c *entity.Comprobante, from entity.ComprobanteStatus) error
	// List ordena del más reciente al más antiguo.
	List(ctx context.Context, f entity.ComprobanteFilter) ([]*entity.Comprobante, error)
	// CountByStatus conteo de comprobantes por estado.
	CountByStatus(ctx context.Context) (map[entity.ComprobanteStatus]int, error)
}
