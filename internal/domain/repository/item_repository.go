package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// ReorderItem resultado crudo para un ítem con stock derivado en o bajo su punto de reorden.
type ReorderItem struct {
	ItemID       string
	Code         string
	Name         string
	CurrentStock int
	ReorderPoint int
}

// ItemRepository define el puerto de persistencia para Item (DIP).
// Todas las lecturas excluyen ítems con borrado lógico (deleted_at IS NOT NULL).
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// GetByCode resuelve un ítem activo por su código único.
	GetByCode(ctx context.Context, code string) (*entity.Item, error)
	// ListWithStock lista ítems con el stock derivado de sus lotes.
	ListWithStock(ctx context.Context, limit, offset int) ([]*entity.ItemWithStock, error)
	// Update guarda los campos editables (nombre, precios, punto de reorden, activo).
	Update(ctx context.Context, item *entity.Item) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	// UpdateCostPrice fija el costo unitario (promedio ponderado tras una recepción).
	UpdateCostPrice(ctx context.Context, id string, cost decimal.Decimal, at time.Time) error
	// ListAtOrBelowReorderPoint devuelve ítems activos cuyo stock derivado <= reorder_point,
	// mayor déficit primero.
	ListAtOrBelowReorderPoint(ctx context.Context) ([]ReorderItem, error)
}
