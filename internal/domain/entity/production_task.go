package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaskMaterial es un material requerido por una tarea de producción.
// IncludedInCost ausente equivale a false: el material suma al costo total de
// producción pero no al costo de materiales reportable.
type TaskMaterial struct {
	ItemID           string
	RequiredQuantity decimal.Decimal
	IncludedInCost   bool
}

// ProductionTask es el consumidor de materiales del motor de asignación.
// Los cuatro campos de costo son derivados: los recalcula el agregador de costos
// a partir de reservas/consumos y se cachean aquí para consulta y listados.
type ProductionTask struct {
	ID             string
	Name           string
	OutputQuantity decimal.Decimal // unidades producidas; divisor de los costos unitarios
	Materials      []TaskMaterial

	MaterialCost           decimal.Decimal // solo materiales con IncludedInCost
	FullProductionCost     decimal.Decimal // todos los materiales
	MaterialUnitCost       decimal.Decimal
	FullProductionUnitCost decimal.Decimal
	CostUpdatedAt          *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Material devuelve el material de la tarea para un ítem, o nil si no existe.
func (t *ProductionTask) Material(itemID string) *TaskMaterial {
	for i := range t.Materials {
		if t.Materials[i].ItemID == itemID {
			return &t.Materials[i]
		}
	}
	return nil
}
