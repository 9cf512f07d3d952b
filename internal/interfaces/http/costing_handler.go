package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mrp-api/internal/application/costing"
	"github.com/jhoicas/mrp-api/internal/application/dto"
)

// CostingHandler maneja las peticiones HTTP de costos de tareas (protegido).
type CostingHandler struct {
	aggregator *costing.CostAggregator
	reconciler *costing.PriceReconciler
	costSheet  *costing.CostSheetUseCase
}

// NewCostingHandler construye el handler.
func NewCostingHandler(
	aggregator *costing.CostAggregator,
	reconciler *costing.PriceReconciler,
	costSheet *costing.CostSheetUseCase,
) *CostingHandler {
	return &CostingHandler{aggregator: aggregator, reconciler: reconciler, costSheet: costSheet}
}

// RecomputeCost godoc
// @Summary      Recalcular el costo de una tarea
// @Description  Recalcula el costo ponderado de materiales desde reservas/consumos
//
//	y persiste los campos derivados si cambiaron.
//
// @Tags         costing
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la tarea"
// @Success      200  {object}  dto.CostResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tasks/{id}/recompute-cost [post]
func (h *CostingHandler) RecomputeCost(c *fiber.Ctx) error {
	taskID := c.Params("id")
	result, changed, err := h.aggregator.PersistCost(c.Context(), taskID)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.FromCostResult(result, changed))
}

// ReconcilePrices godoc
// @Summary      Reconciliar precios de una tarea
// @Description  Refresca los precios de reservas y consumos desviados del precio
//
//	vigente del lote; si el costo cambió propaga hacia los pedidos.
//
// @Tags         costing
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la tarea"
// @Success      200  {object}  dto.ReconcileResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tasks/{id}/reconcile-prices [post]
func (h *CostingHandler) ReconcilePrices(c *fiber.Ctx) error {
	taskID := c.Params("id")
	result, err := h.reconciler.ReconcilePrices(c.Context(), taskID)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.FromReconcileResult(result))
}

// CostSheet godoc
// @Summary      Hoja de costos en PDF
// @Description  Genera el PDF con los lotes reservados/consumidos y los costos de la tarea.
// @Tags         costing
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la tarea"
// @Success      200  {file}    binary
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tasks/{id}/cost-sheet [get]
func (h *CostingHandler) CostSheet(c *fiber.Ctx) error {
	taskID := c.Params("id")
	pdfBytes, err := h.costSheet.Generate(c.Context(), taskID)
	if err != nil {
		return mapDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="hoja-costos-`+taskID+`.pdf"`)
	return c.Send(pdfBytes)
}
