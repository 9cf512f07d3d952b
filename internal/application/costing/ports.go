package costing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mrp-api/internal/domain/entity"
)

// CostSheetLine una línea de la hoja de costos: un lote reservado o consumido.
type CostSheetLine struct {
	ItemID    string
	ItemName  string
	LotNumber string
	Source    string // "consumo" o "reserva"
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Value     decimal.Decimal
}

// CostSheetData todo lo que el generador necesita para renderizar la hoja.
type CostSheetData struct {
	Task        entity.ProductionTask
	Lines       []CostSheetLine
	Costs       CostResult
	GeneratedAt time.Time
}

// CostSheetGenerator puerto de presentación: renderiza la hoja de costos de
// una tarea como documento binario (PDF en la implementación actual).
type CostSheetGenerator interface {
	GenerateCostSheet(ctx context.Context, data *CostSheetData) ([]byte, error)
}
