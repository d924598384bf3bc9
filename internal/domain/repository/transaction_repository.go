package repository

import (
	"context"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// TransactionRepository libro de inventario. Solo inserción y lectura.
type TransactionRepository interface {
	Create(ctx context.Context, txn *entity.InventoryTransaction) error
	ListByItem(ctx context.Context, itemID string, limit, offset int) ([]*entity.InventoryTransaction, error)
	ListByReference(ctx context.Context, referenceID string) ([]*entity.InventoryTransaction, error)
}
