package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mrp-api/internal/application/costing"
)

// CostResponse campos de costo derivados de una tarea.
type CostResponse struct {
	MaterialCost           decimal.Decimal `json:"material_cost"`
	FullProductionCost     decimal.Decimal `json:"full_production_cost"`
	MaterialUnitCost       decimal.Decimal `json:"material_unit_cost"`
	FullProductionUnitCost decimal.Decimal `json:"full_production_unit_cost"`
	Changed                bool            `json:"changed"`
}

// CascadeFailureDTO falla de un pedido individual durante la cascada.
type CascadeFailureDTO struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

// CascadeResponse resumen de la propagación de costos hacia pedidos.
type CascadeResponse struct {
	OrdersUpdated int                 `json:"orders_updated"`
	Succeeded     []string            `json:"succeeded,omitempty"`
	Failed        []CascadeFailureDTO `json:"failed,omitempty"`
}

// ReconcileResponse resumen de una pasada de reconciliación de precios.
type ReconcileResponse struct {
	Updated     int              `json:"updated"`
	Skipped     int              `json:"skipped"`
	Warnings    []string         `json:"warnings,omitempty"`
	CostChanged bool             `json:"cost_changed"`
	Cascade     *CascadeResponse `json:"cascade,omitempty"`
}

// FromCostResult mapea el resultado del agregador a la respuesta HTTP.
func FromCostResult(r costing.CostResult, changed bool) CostResponse {
	return CostResponse{
		MaterialCost:           r.MaterialCost,
		FullProductionCost:     r.FullProductionCost,
		MaterialUnitCost:       r.MaterialUnitCost,
		FullProductionUnitCost: r.FullProductionUnitCost,
		Changed:                changed,
	}
}

// FromCascadeResult mapea el resumen de cascada a la respuesta HTTP.
func FromCascadeResult(r costing.CascadeResult) CascadeResponse {
	out := CascadeResponse{
		OrdersUpdated: r.OrdersUpdated,
		Succeeded:     r.Succeeded,
	}
	for _, f := range r.Failed {
		out.Failed = append(out.Failed, CascadeFailureDTO{OrderID: f.OrderID, Reason: f.Reason})
	}
	return out
}

// FromReconcileResult mapea el resumen de reconciliación a la respuesta HTTP.
func FromReconcileResult(r costing.ReconcileResult) ReconcileResponse {
	out := ReconcileResponse{
		Updated:     r.Updated,
		Skipped:     r.Skipped,
		Warnings:    r.Warnings,
		CostChanged: r.CostChanged,
	}
	if r.Cascade != nil {
		c := FromCascadeResult(*r.Cascade)
		out.Cascade = &c
	}
	return out
}
