package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mrp-api/internal/application/allocation"
	"github.com/jhoicas/mrp-api/internal/application/costing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AllocateUC    *allocation.AllocateUseCase
	IssueUC       *allocation.IssueUseCase
	Aggregator    *costing.CostAggregator
	Reconciler    *costing.PriceReconciler
	CostSheetUC   *costing.CostSheetUseCase
	DefaultPolicy string
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Asignación y emisión de lotes (protegido)
	allocationHandler := NewAllocationHandler(deps.AllocateUC, deps.IssueUC, deps.DefaultPolicy)
	protected.Post("/allocations", allocationHandler.Allocate)
	protected.Delete("/allocations", allocationHandler.Release)
	protected.Post("/issues", allocationHandler.Issue)

	// Costos de tareas de producción (protegido)
	costingHandler := NewCostingHandler(deps.Aggregator, deps.Reconciler, deps.CostSheetUC)
	tasks := protected.Group("/tasks")
	tasks.Post("/:id/recompute-cost", costingHandler.RecomputeCost)
	tasks.Post("/:id/reconcile-prices", costingHandler.ReconcilePrices)
	tasks.Get("/:id/cost-sheet", costingHandler.CostSheet)
}
