package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo libro de inventario (solo INSERT y SELECT).
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

func (r *TransactionRepo) Create(ctx context.Context, t *entity.InventoryTransaction) error {
	query := `
		INSERT INTO inventory_transactions (id, item_id, batch_id, change_type, quantity_change, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, t.ID, t.ItemID, t.BatchID, t.ChangeType, t.QuantityChange, t.ReferenceID, t.CreatedAt)
	if err != nil {
		return wrap("create inventory transaction", err)
	}
	return nil
}

func (r *TransactionRepo) ListByItem(ctx context.Context, itemID string, limit, offset int) ([]*entity.InventoryTransaction, error) {
	query := `
		SELECT id, item_id, batch_id, change_type, quantity_change, reference_id, created_at
		FROM inventory_transactions
		WHERE item_id = $1
		ORDER BY seq DESC
		LIMIT $2 OFFSET $3`
	return r.list(ctx, query, itemID, limit, offset)
}

func (r *TransactionRepo) ListByReference(ctx context.Context, referenceID string) ([]*entity.InventoryTransaction, error) {
	query := `
		SELECT id, item_id, batch_id, change_type, quantity_change, reference_id, created_at
		FROM inventory_transactions
		WHERE reference_id = $1
		ORDER BY seq`
	return r.list(ctx, query, referenceID)
}

func (r *TransactionRepo) list(ctx context.Context, query string, args ...any) ([]*entity.InventoryTransaction, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory transactions: %w", err)
	}
	defer rows.Close()

	list := []*entity.InventoryTransaction{}
	for rows.Next() {
		var t entity.InventoryTransaction
		if err := rows.Scan(&t.ID, &t.ItemID, &t.BatchID, &t.ChangeType, &t.QuantityChange, &t.ReferenceID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory transaction: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
