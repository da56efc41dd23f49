package ports

import "context"

// Locker serializa operaciones sobre una misma clave (venta, usuario de caja).
// Las implementaciones pueden ser en proceso o distribuidas (Redis).
type Locker interface {
	// Lock bloquea hasta obtener la clave o hasta que ctx expire. unlock libera la clave.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
