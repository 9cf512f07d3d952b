package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrLotNotFound     = errors.New("lote no encontrado")
	ErrTaskNotFound    = errors.New("tarea de producción no encontrada")
	ErrOrderNotFound   = errors.New("pedido no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrConflict        = errors.New("conflicto con el estado actual")
	ErrStaleWrite      = errors.New("el registro cambió entre lectura y escritura")
	ErrInconsistent    = errors.New("estado de reservas inconsistente")
	ErrNothingReserved = errors.New("no hay reservas para emitir")
	ErrUnauthorized    = errors.New("no autorizado")
)
