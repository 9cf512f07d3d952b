package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mrp-api/internal/application/allocation"
	"github.com/jhoicas/mrp-api/internal/application/dto"
	"github.com/jhoicas/mrp-api/internal/domain"
)

// AllocationHandler maneja las peticiones HTTP de reserva y emisión de lotes (protegido).
type AllocationHandler struct {
	allocate      *allocation.AllocateUseCase
	issue         *allocation.IssueUseCase
	defaultPolicy string
}

// NewAllocationHandler construye el handler. defaultPolicy aplica cuando la
// petición no trae política.
func NewAllocationHandler(allocate *allocation.AllocateUseCase, issue *allocation.IssueUseCase, defaultPolicy string) *AllocationHandler {
	return &AllocationHandler{allocate: allocate, issue: issue, defaultPolicy: defaultPolicy}
}

// Allocate godoc
// @Summary      Reservar lotes para una tarea de producción
// @Description  Asigna lotes concretos al par (tarea, material) según FIFO o FEFO.
//
//	Idempotente: repetir la llamada ajusta las reservas existentes al nuevo plan.
//
// @Tags         allocations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AllocateRequest  true  "item_id, task_id, quantity, policy (FIFO|FEFO)"
// @Success      200   {object}  dto.AllocateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/allocations [post]
func (h *AllocationHandler) Allocate(c *fiber.Ctx) error {
	var in dto.AllocateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	policy := in.Policy
	if policy == "" {
		policy = h.defaultPolicy
	}
	result, err := h.allocate.Allocate(c.Context(), allocation.AllocateInput{
		ItemID:    in.ItemID,
		TaskID:    in.TaskID,
		Requested: in.Quantity,
		Policy:    policy,
	})
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.FromAllocateResult(result))
}

// Release godoc
// @Summary      Liberar reservas
// @Description  Libera las reservas del par (tarea, material); sin item_id libera toda la tarea.
// @Tags         allocations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReleaseRequest  true  "task_id, item_id (opcional)"
// @Success      200   {object}  dto.ReleaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/allocations [delete]
func (h *AllocationHandler) Release(c *fiber.Ctx) error {
	var in dto.ReleaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	released, err := h.allocate.Release(c.Context(), in.TaskID, in.ItemID)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.ReleaseResponse{Released: released})
}

// Issue godoc
// @Summary      Emitir material reservado
// @Description  Convierte las reservas del par (tarea, material) en consumos y
//
//	descuenta los lotes. Las fallas por registro se devuelven en el cuerpo.
//
// @Tags         allocations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IssueRequest  true  "task_id, item_id"
// @Success      200   {object}  dto.IssueResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/issues [post]
func (h *AllocationHandler) Issue(c *fiber.Ctx) error {
	var in dto.IssueRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.issue.Issue(c.Context(), in.TaskID, in.ItemID)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.FromIssueResult(result))
}

// mapDomainError traduce errores de dominio a códigos HTTP.
func mapDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrTaskNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "tarea no encontrada"})
	case errors.Is(err, domain.ErrLotNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "lote no encontrado"})
	case errors.Is(err, domain.ErrOrderNotFound), errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrNothingReserved):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOTHING_RESERVED", Message: "no hay reservas para emitir"})
	case errors.Is(err, domain.ErrStaleWrite), errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
