package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un artículo vendible. El stock NO se guarda: se deriva sumando
// la cantidad de sus lotes (InventoryBatch) con quantity > 0.
type Item struct {
	ID           string
	Code         string // código único
	Name         string
	CostPrice    decimal.Decimal
	SellingPrice decimal.Decimal
	ReorderPoint int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time // borrado lógico; nil = activo
}

// IsDeleted indica si el ítem fue dado de baja (borrado lógico).
func (i *Item) IsDeleted() bool {
	return i.DeletedAt != nil
}

// ItemWithStock ítem con su stock derivado (Σ cantidades de lotes no agotados).
type ItemWithStock struct {
	Item
	CurrentStock int
}
