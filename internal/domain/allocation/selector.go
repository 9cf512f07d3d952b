package allocation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
)

// Policy define el orden de selección de lotes.
const (
	PolicyFIFO = "FIFO" // lotes más antiguos primero (ReceiptSequence)
	PolicyFEFO = "FEFO" // lotes más próximos a vencer primero; sin vencimiento al final
)

// ValidPolicy verifica si la política es conocida.
func ValidPolicy(p string) bool {
	return p == PolicyFIFO || p == PolicyFEFO
}

// Candidate es un lote candidato con su disponibilidad efectiva:
// Lot.Quantity menos las reservas de otras tareas sobre el mismo lote.
type Candidate struct {
	Lot       entity.Lot
	Available decimal.Decimal
}

// PlanEntry es la porción del plan asignada a un lote.
type PlanEntry struct {
	LotID     string
	LotNumber string
	UnitPrice decimal.Decimal
	Quantity  decimal.Decimal
}

// Plan es el resultado de la selección: una entrada por lote tocado,
// en el orden de la política, más el faltante si los candidatos no alcanzan.
// Un Shortfall positivo no es un error: el caller decide si procede parcial.
type Plan struct {
	Entries   []PlanEntry
	Reserved  decimal.Decimal
	Shortfall decimal.Decimal
}

// Select arma el plan de reserva: ordena los candidatos según la política y los
// consume de forma codiciosa, con tope en la disponibilidad efectiva de cada lote.
// No toca el almacén; es una función pura sobre el snapshot de candidatos.
func Select(requested decimal.Decimal, candidates []Candidate, policy string) (Plan, error) {
	if !ValidPolicy(policy) {
		return Plan{}, domain.ErrInvalidInput
	}
	if requested.LessThanOrEqual(decimal.Zero) {
		return Plan{}, domain.ErrInvalidInput
	}

	usable := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		// Disponibilidad negativa indica sobre-reserva previa: se trata como cero.
		if c.Available.GreaterThan(decimal.Zero) {
			usable = append(usable, c)
		}
	}
	sortCandidates(usable, policy)

	plan := Plan{Reserved: decimal.Zero}
	remaining := requested
	for _, c := range usable {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		take := decimal.Min(remaining, c.Available)
		plan.Entries = append(plan.Entries, PlanEntry{
			LotID:     c.Lot.ID,
			LotNumber: c.Lot.LotNumber,
			UnitPrice: c.Lot.UnitPrice,
			Quantity:  take,
		})
		plan.Reserved = plan.Reserved.Add(take)
		remaining = remaining.Sub(take)
	}

	plan.Shortfall = decimal.Max(decimal.Zero, requested.Sub(plan.Reserved))
	return plan, nil
}

// sortCandidates ordena in-place según la política.
// FIFO: ReceiptSequence ascendente.
// FEFO: vencimiento ascendente, lotes sin vencimiento al final, empate por ReceiptSequence.
func sortCandidates(cs []Candidate, policy string) {
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := cs[i].Lot, cs[j].Lot
		if policy == PolicyFEFO {
			switch {
			case a.HasExpiry() && !b.HasExpiry():
				return true
			case !a.HasExpiry() && b.HasExpiry():
				return false
			case a.HasExpiry() && b.HasExpiry():
				if !a.ExpiryDate.Equal(*b.ExpiryDate) {
					return a.ExpiryDate.Before(*b.ExpiryDate)
				}
			}
		}
		return a.ReceiptSequence < b.ReceiptSequence
	})
}
