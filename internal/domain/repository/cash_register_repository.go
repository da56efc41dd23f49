package repository

import (
	"context"

	"github.com/jhoicas/Bazar-api/internal/domain/entity"
)

// CashRegisterRepository persistencia de sesiones de caja.
type CashRegisterRepository interface {
	// Create inserta una sesión OPEN; domain.ErrSessionAlreadyOpen si el usuario ya tiene una.
	Create(ctx context.Context, s *entity.CashRegisterSession) error
	// GetOpenByUser devuelve (nil, nil) si el usuario no tiene caja abierta.
	GetOpenByUser(ctx context.Context, userID int64) (*entity.CashRegisterSession, error)
	// LockOpenByUser igual que GetOpenByUser pero bloquea la fila hasta el fin de la transacción.
	LockOpenByUser(ctx context.Context, userID int64) (*entity.CashRegisterSession, error)
	// Close congela totales y cierra la sesión solo si sigue OPEN; domain.ErrNoOpenSession si no.
	Close(ctx context.Context, s *entity.CashRegisterSession) error
	// List ordena por fecha de apertura descendente.
	List(ctx context.Context, f entity.SessionFilter) ([]*entity.CashRegisterSession, error)
}
