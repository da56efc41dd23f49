package repository

import (
	"context"

	"github.com/jhoicas/Bazar-api/internal/domain/entity"
)

// SaleRepository acceso de solo lectura a las ventas registradas en caja.
type SaleRepository interface {
	// GetByID devuelve la venta con sus líneas; (nil, nil) si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Sale, error)
	// ListInWindow devuelve las ventas (sin líneas) con fecha dentro de la ventana, extremos incluidos.
	ListInWindow(ctx context.Context, w entity.AggregationWindow) ([]*entity.Sale, error)
}
