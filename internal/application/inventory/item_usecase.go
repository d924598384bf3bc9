package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
	"github.com/jhoicas/stockflow-api/pkg/clock"
)

// ItemUseCase administración de ítems y consultas de inventario (stock derivado, vencimientos, libro).
type ItemUseCase struct {
	itemRepo            repository.ItemRepository
	batchRepo           repository.BatchRepository
	txnRepo             repository.TransactionRepository
	clock               clock.Clock
	expiringDefaultDays int
}

// NewItemUseCase construye el caso de uso. expiringDefaultDays es la ventana por defecto de ListExpiring.
func NewItemUseCase(
	itemRepo repository.ItemRepository,
	batchRepo repository.BatchRepository,
	txnRepo repository.TransactionRepository,
	clk clock.Clock,
	expiringDefaultDays int,
) *ItemUseCase {
	if expiringDefaultDays <= 0 {
		expiringDefaultDays = 7
	}
	return &ItemUseCase{
		itemRepo:            itemRepo,
		batchRepo:           batchRepo,
		txnRepo:             txnRepo,
		clock:               clk,
		expiringDefaultDays: expiringDefaultDays,
	}
}

// Create da de alta un ítem activo sin stock.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	code := strings.TrimSpace(in.Code)
	name := strings.TrimSpace(in.Name)
	if code == "" || name == "" {
		return nil, domain.InvalidInputf("Code and name are required")
	}
	if in.CostPrice.IsNegative() || in.SellingPrice.IsNegative() || in.ReorderPoint < 0 {
		return nil, domain.InvalidInputf("Prices and reorder point cannot be negative")
	}
	now := uc.clock.Now()
	item := &entity.Item{
		ID:           uuid.New().String(),
		Code:         code,
		Name:         name,
		CostPrice:    in.CostPrice,
		SellingPrice: in.SellingPrice,
		ReorderPoint: in.ReorderPoint,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.itemRepo.Create(ctx, item); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, &domain.BusinessError{Kind: domain.ErrConflict, Message: fmt.Sprintf("Item code already exists: %s", code)}
		}
		return nil, fmt.Errorf("create item: %w", err)
	}
	return toItemResponse(item, 0), nil
}

// Get devuelve el ítem con su stock derivado.
func (uc *ItemUseCase) Get(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if item == nil {
		return nil, domain.NotFoundf("Item not found")
	}
	stock, err := uc.batchRepo.SumAvailable(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("sum stock: %w", err)
	}
	return toItemResponse(item, stock), nil
}

// List ítems no eliminados con stock derivado.
func (uc *ItemUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ItemListResponse, error) {
	page.DefaultPage()
	list, err := uc.itemRepo.ListWithStock(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	out := &dto.ItemListResponse{
		Items: make([]dto.ItemResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, it := range list {
		out.Items = append(out.Items, *toItemResponse(&it.Item, it.CurrentStock))
	}
	return out, nil
}

// Update modifica nombre, precios, punto de reorden y estado activo. Solo cambia lo que viene en la petición;
// el código y el stock (derivado de los lotes) no se editan.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if item == nil {
		return nil, domain.NotFoundf("Item not found")
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.InvalidInputf("Name cannot be empty")
		}
		item.Name = name
	}
	if in.CostPrice != nil {
		item.CostPrice = *in.CostPrice
	}
	if in.SellingPrice != nil {
		item.SellingPrice = *in.SellingPrice
	}
	if in.ReorderPoint != nil {
		item.ReorderPoint = *in.ReorderPoint
	}
	if in.IsActive != nil {
		item.IsActive = *in.IsActive
	}
	if item.CostPrice.IsNegative() || item.SellingPrice.IsNegative() || item.ReorderPoint < 0 {
		return nil, domain.InvalidInputf("Prices and reorder point cannot be negative")
	}
	item.UpdatedAt = uc.clock.Now()

	if err := uc.itemRepo.Update(ctx, item); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFoundf("Item not found")
		}
		return nil, fmt.Errorf("update item: %w", err)
	}
	stock, err := uc.batchRepo.SumAvailable(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("sum stock: %w", err)
	}
	return toItemResponse(item, stock), nil
}

// Delete borrado lógico; lotes y libro se conservan.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.itemRepo.SoftDelete(ctx, id, uc.clock.Now()); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFoundf("Item not found")
		}
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// ListExpiring lotes con stock que vencen dentro de los próximos `days` días (0 = valor por defecto).
func (uc *ItemUseCase) ListExpiring(ctx context.Context, days int) ([]dto.ExpiringBatchResponse, error) {
	if days < 0 {
		return nil, domain.InvalidInputf("Days must be positive")
	}
	if days == 0 {
		days = uc.expiringDefaultDays
	}
	now := uc.clock.Now()
	list, err := uc.batchRepo.ListExpiring(ctx, now, now.AddDate(0, 0, days))
	if err != nil {
		return nil, fmt.Errorf("list expiring batches: %w", err)
	}
	out := make([]dto.ExpiringBatchResponse, 0, len(list))
	for _, b := range list {
		out = append(out, dto.ExpiringBatchResponse{
			BatchID:      b.ID,
			BatchNumber:  b.BatchNumber,
			ItemID:       b.ItemID,
			ItemCode:     b.ItemCode,
			ItemName:     b.ItemName,
			Quantity:     b.Quantity,
			ReceivedDate: b.ReceivedDate,
			ExpiryDate:   *b.ExpiryDate,
			DaysLeft:     int(b.ExpiryDate.Sub(now) / (24 * time.Hour)),
		})
	}
	return out, nil
}

// Ledger movimientos del ítem, más recientes primero.
func (uc *ItemUseCase) Ledger(ctx context.Context, itemID string, page dto.PageRequest) ([]dto.TransactionResponse, error) {
	page.DefaultPage()
	rows, err := uc.txnRepo.ListByItem(ctx, itemID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]dto.TransactionResponse, 0, len(rows))
	for _, t := range rows {
		out = append(out, dto.TransactionResponse{
			ID:             t.ID,
			ItemID:         t.ItemID,
			BatchID:        t.BatchID,
			ChangeType:     t.ChangeType,
			QuantityChange: t.QuantityChange,
			ReferenceID:    t.ReferenceID,
			CreatedAt:      t.CreatedAt,
		})
	}
	return out, nil
}

func toItemResponse(it *entity.Item, stock int) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:           it.ID,
		Code:         it.Code,
		Name:         it.Name,
		CostPrice:    it.CostPrice,
		SellingPrice: it.SellingPrice,
		ReorderPoint: it.ReorderPoint,
		IsActive:     it.IsActive,
		CurrentStock: stock,
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
}
