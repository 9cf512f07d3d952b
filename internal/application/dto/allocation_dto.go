package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mrp-api/internal/application/allocation"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
)

// AllocateRequest petición de asignación de material a una tarea.
type AllocateRequest struct {
	ItemID   string          `json:"item_id" validate:"required"`
	TaskID   string          `json:"task_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
	Policy   string          `json:"policy"` // FIFO | FEFO; vacío usa la política por defecto
}

// ReleaseRequest petición de liberación de reservas. ItemID vacío libera toda la tarea.
type ReleaseRequest struct {
	TaskID string `json:"task_id" validate:"required"`
	ItemID string `json:"item_id"`
}

// IssueRequest petición de emisión de las reservas del par (tarea, material).
type IssueRequest struct {
	TaskID string `json:"task_id" validate:"required"`
	ItemID string `json:"item_id" validate:"required"`
}

// ReservationDTO reserva en respuestas.
type ReservationDTO struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id"`
	LotID     string          `json:"lot_id"`
	LotNumber string          `json:"lot_number"`
	TaskID    string          `json:"task_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// AllocateResponse resultado de la asignación. shortfall > 0 indica reserva parcial.
type AllocateResponse struct {
	Reserved     decimal.Decimal  `json:"reserved"`
	Shortfall    decimal.Decimal  `json:"shortfall"`
	Released     int              `json:"released"`
	Reservations []ReservationDTO `json:"reservations"`
}

// ReleaseResponse resultado de la liberación.
type ReleaseResponse struct {
	Released int `json:"released"`
}

// ConsumptionDTO consumo en respuestas.
type ConsumptionDTO struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id"`
	LotID     string          `json:"lot_id"`
	LotNumber string          `json:"lot_number"`
	TaskID    string          `json:"task_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	IssuedAt  time.Time       `json:"issued_at"`
}

// IssueFailureDTO falla individual durante la emisión.
type IssueFailureDTO struct {
	ReservationID string `json:"reservation_id"`
	LotID         string `json:"lot_id"`
	Reason        string `json:"reason"`
}

// IssueResponse resultado de la emisión.
type IssueResponse struct {
	Issued       decimal.Decimal   `json:"issued"`
	Consumptions []ConsumptionDTO  `json:"consumptions"`
	Failed       []IssueFailureDTO `json:"failed,omitempty"`
	Warnings     []string          `json:"warnings,omitempty"`
}

// FromAllocateResult mapea el resultado del caso de uso a la respuesta HTTP.
func FromAllocateResult(r allocation.AllocateResult) AllocateResponse {
	out := AllocateResponse{
		Reserved:     r.Reserved,
		Shortfall:    r.Shortfall,
		Released:     r.Released,
		Reservations: make([]ReservationDTO, 0, len(r.Reservations)),
	}
	for _, res := range r.Reservations {
		out.Reservations = append(out.Reservations, fromReservation(res))
	}
	return out
}

// FromIssueResult mapea el resultado de la emisión a la respuesta HTTP.
func FromIssueResult(r allocation.IssueResult) IssueResponse {
	out := IssueResponse{
		Issued:       r.Issued,
		Consumptions: make([]ConsumptionDTO, 0, len(r.Consumptions)),
		Warnings:     r.Warnings,
	}
	for _, c := range r.Consumptions {
		out.Consumptions = append(out.Consumptions, ConsumptionDTO{
			ID:        c.ID,
			ItemID:    c.ItemID,
			LotID:     c.LotID,
			LotNumber: c.LotNumber,
			TaskID:    c.TaskID,
			Quantity:  c.Quantity,
			UnitPrice: c.UnitPrice,
			IssuedAt:  c.IssuedAt,
		})
	}
	for _, f := range r.Failed {
		out.Failed = append(out.Failed, IssueFailureDTO{
			ReservationID: f.ReservationID,
			LotID:         f.LotID,
			Reason:        f.Reason,
		})
	}
	return out
}

func fromReservation(res entity.Reservation) ReservationDTO {
	return ReservationDTO{
		ID:        res.ID,
		ItemID:    res.ItemID,
		LotID:     res.LotID,
		LotNumber: res.LotNumber,
		TaskID:    res.TaskID,
		Quantity:  res.Quantity,
		UnitPrice: res.UnitPrice,
	}
}
