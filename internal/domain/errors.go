package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrAlreadyExists      = errors.New("ya existe un comprobante para esta venta")
	ErrInvalidState       = errors.New("operación no permitida en el estado actual")
	ErrRetryExhausted     = errors.New("se alcanzó el máximo de reintentos de envío")
	ErrSessionAlreadyOpen = errors.New("ya existe una caja abierta para este usuario")
	ErrNoOpenSession      = errors.New("no hay una caja abierta para este usuario")
	ErrSigning            = errors.New("error al firmar el comprobante")
	ErrSubmission         = errors.New("error al enviar el comprobante a SUNAT")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrNotAvailable       = errors.New("el recurso aún no está disponible")
	ErrUnauthorized       = errors.New("no autorizado")
)
