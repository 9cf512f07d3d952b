package allocation

import "context"

// MaterialLocker serializa la asignación y la emisión por material (escritor único).
// Sin transacciones multi-documento en el almacén, dos asignaciones concurrentes
// sobre el mismo material podrían leer la misma disponibilidad y sobre-reservar
// un lote; el lock por material cierra esa ventana. Materiales distintos no
// compiten entre sí.
type MaterialLocker interface {
	WithLock(ctx context.Context, itemID string, fn func(ctx context.Context) error) error
}
