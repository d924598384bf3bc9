package inventory

import (
	"sort"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// Policy orden de consumo de lotes.
type Policy int

const (
	// PolicyFEFO primero lo que vence antes; sin vencimiento al final; empate por fecha de recepción.
	PolicyFEFO Policy = iota
	// PolicyFIFO por fecha de recepción ascendente.
	PolicyFIFO
)

// Allocation cantidad tomada de un lote.
type Allocation struct {
	BatchID       string `json:"batch_id"`
	QuantityTaken int    `json:"quantity_taken"`
}

// Plan resultado de la asignación. Si Feasible es false, Allocations es el plan parcial
// y Shortfall las unidades que faltan.
type Plan struct {
	Feasible    bool
	Requested   int
	Available   int
	Shortfall   int
	Allocations []Allocation
}

// Allocate decide de qué lotes tomar `requested` unidades. Función pura sobre una foto de los lotes:
// no modifica los lotes recibidos. Solo considera lotes con cantidad > 0.
func Allocate(requested int, batches []*entity.InventoryBatch, policy Policy) Plan {
	candidates := Candidates(batches, policy)

	available := 0
	for _, b := range candidates {
		available += b.Quantity
	}

	plan := Plan{Requested: requested, Available: available, Allocations: []Allocation{}}
	remaining := requested
	for _, b := range candidates {
		if remaining <= 0 {
			break
		}
		take := min(b.Quantity, remaining)
		plan.Allocations = append(plan.Allocations, Allocation{BatchID: b.ID, QuantityTaken: take})
		remaining -= take
	}

	if remaining > 0 {
		plan.Shortfall = remaining
		return plan
	}
	plan.Feasible = true
	return plan
}

// Candidates filtra los lotes agotados y los ordena según la política. Devuelve una copia del slice.
func Candidates(batches []*entity.InventoryBatch, policy Policy) []*entity.InventoryBatch {
	out := make([]*entity.InventoryBatch, 0, len(batches))
	for _, b := range batches {
		if b != nil && b.Quantity > 0 {
			out = append(out, b)
		}
	}
	switch policy {
	case PolicyFIFO:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].ReceivedDate.Before(out[j].ReceivedDate)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return fefoLess(out[i], out[j])
		})
	}
	return out
}

func fefoLess(a, b *entity.InventoryBatch) bool {
	switch {
	case a.ExpiryDate == nil && b.ExpiryDate == nil:
		return a.ReceivedDate.Before(b.ReceivedDate)
	case a.ExpiryDate == nil:
		return false
	case b.ExpiryDate == nil:
		return true
	case !a.ExpiryDate.Equal(*b.ExpiryDate):
		return a.ExpiryDate.Before(*b.ExpiryDate)
	}
	return a.ReceivedDate.Before(b.ReceivedDate)
}

// Total suma de cantidades tomadas en el plan.
func (p Plan) Total() int {
	total := 0
	for _, a := range p.Allocations {
		total += a.QuantityTaken
	}
	return total
}
