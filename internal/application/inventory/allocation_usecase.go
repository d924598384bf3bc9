package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/inventory"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// AllocationUseCase vista previa de la asignación FEFO. Solo lectura: no bloquea ni descuenta.
type AllocationUseCase struct {
	itemRepo  repository.ItemRepository
	batchRepo repository.BatchRepository
}

// NewAllocationUseCase construye el caso de uso.
func NewAllocationUseCase(itemRepo repository.ItemRepository, batchRepo repository.BatchRepository) *AllocationUseCase {
	return &AllocationUseCase{itemRepo: itemRepo, batchRepo: batchRepo}
}

// Preview siempre devuelve un resultado; infeasible no es un error.
func (uc *AllocationUseCase) Preview(ctx context.Context, itemID string, quantity int) (*dto.AllocationResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if item == nil {
		return nil, domain.NotFoundf("Item not found")
	}
	batches, err := uc.batchRepo.ListAvailable(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}

	plan := inventory.Allocate(quantity, batches, inventory.PolicyFEFO)
	out := &dto.AllocationResponse{
		ItemID:     item.ID,
		Feasible:   plan.Feasible,
		Requested:  plan.Requested,
		Available:  plan.Available,
		Shortfall:  plan.Shortfall,
		Allocation: make([]dto.AllocationSegment, 0, len(plan.Allocations)),
	}
	for _, a := range plan.Allocations {
		out.Allocation = append(out.Allocation, dto.AllocationSegment{BatchID: a.BatchID, QuantityTaken: a.QuantityTaken})
	}
	return out, nil
}
