package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición: ítems activos cuyo stock derivado
// está en o bajo su punto de reorden, con la cantidad sugerida para volver al stock ideal.
type ReplenishmentUseCase struct {
	itemRepo repository.ItemRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(itemRepo repository.ItemRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{itemRepo: itemRepo}
}

// IdealStock stock objetivo tras reponer: ceil(reorderPoint × 1.5).
func IdealStock(reorderPoint int) int {
	return (reorderPoint*3 + 1) / 2
}

// GenerateReplenishmentList devuelve las sugerencias ordenadas por déficit (1 = más urgente).
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	rawItems, err := uc.itemRepo.ListAtOrBelowReorderPoint(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reorder items: %w", err)
	}

	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(rawItems))
	for i, item := range rawItems {
		ideal := IdealStock(item.ReorderPoint)
		suggested := max(ideal-item.CurrentStock, 0)
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ItemID:            item.ItemID,
			Code:              item.Code,
			Name:              item.Name,
			CurrentStock:      item.CurrentStock,
			ReorderPoint:      item.ReorderPoint,
			IdealStock:        ideal,
			SuggestedOrderQty: suggested,
			Priority:          i + 1,
		})
	}
	return suggestions, nil
}
