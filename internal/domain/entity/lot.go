package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot representa una recepción inmutable de material: cantidad de un ítem
// recibida en un momento dado con su propio precio unitario y vencimiento opcional.
// UnitPrice es el único campo que el motor trata como mutable (correcciones de precio);
// Quantity solo baja por consumo, nunca por reserva.
type Lot struct {
	ID              string
	ItemID          string
	LotNumber       string // número de lote para mostrar en reservas y consumos
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	ExpiryDate      *time.Time // nil = sin vencimiento; en FEFO ordena al final
	ReceiptSequence int64      // secuencia monótona de recepción, ordena FIFO
	Version         int64      // escrituras condicionadas (compare-and-swap)
	ReceivedAt      time.Time
	UpdatedAt       time.Time
}

// HasExpiry indica si el lote tiene fecha de vencimiento.
func (l *Lot) HasExpiry() bool {
	return l.ExpiryDate != nil
}
