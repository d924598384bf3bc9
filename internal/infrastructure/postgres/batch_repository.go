package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo lotes de inventario sobre PostgreSQL.
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// orden FEFO: vence antes primero, sin vencimiento al final, empate por recepción
const availableBatchesQuery = `
	SELECT id, item_id, batch_number, quantity, received_date, expiry_date, created_at
	FROM inventory_batches
	WHERE item_id = $1 AND quantity > 0
	ORDER BY expiry_date ASC NULLS LAST, received_date ASC, id`

func (r *BatchRepo) Create(ctx context.Context, b *entity.InventoryBatch) error {
	query := `
		INSERT INTO inventory_batches (id, item_id, batch_number, quantity, received_date, expiry_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, b.ID, b.ItemID, b.BatchNumber, b.Quantity, b.ReceivedDate, b.ExpiryDate, b.CreatedAt)
	if err != nil {
		return wrap("create batch", err)
	}
	return nil
}

func (r *BatchRepo) ListAvailable(ctx context.Context, itemID string) ([]*entity.InventoryBatch, error) {
	return r.list(ctx, availableBatchesQuery, itemID)
}

// ListAvailableForUpdate bloquea las filas hasta el fin de la transacción.
func (r *BatchRepo) ListAvailableForUpdate(ctx context.Context, itemID string) ([]*entity.InventoryBatch, error) {
	return r.list(ctx, availableBatchesQuery+` FOR UPDATE`, itemID)
}

func (r *BatchRepo) list(ctx context.Context, query string, args ...any) ([]*entity.InventoryBatch, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var list []*entity.InventoryBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func scanBatch(row pgx.Row) (*entity.InventoryBatch, error) {
	var b entity.InventoryBatch
	if err := row.Scan(&b.ID, &b.ItemID, &b.BatchNumber, &b.Quantity, &b.ReceivedDate, &b.ExpiryDate, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// Deduct actualización condicional: nunca deja un lote en negativo aunque el plan venga de una lectura vieja.
func (r *BatchRepo) Deduct(ctx context.Context, batchID string, qty int) error {
	query := `UPDATE inventory_batches SET quantity = quantity - $2 WHERE id = $1 AND quantity >= $2 AND $2 > 0`
	tag, err := r.q.Exec(ctx, query, batchID, qty)
	if err != nil {
		return fmt.Errorf("deduct batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *BatchRepo) SumAvailable(ctx context.Context, itemID string) (int, error) {
	query := `SELECT COALESCE(SUM(quantity), 0)::int FROM inventory_batches WHERE item_id = $1 AND quantity > 0`
	var total int
	if err := r.q.QueryRow(ctx, query, itemID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum stock: %w", err)
	}
	return total, nil
}

func (r *BatchRepo) ListExpiring(ctx context.Context, from, to time.Time) ([]*entity.ExpiringBatch, error) {
	query := `
		SELECT b.id, b.item_id, b.batch_number, b.quantity, b.received_date, b.expiry_date, b.created_at,
		       i.code, i.name
		FROM inventory_batches b
		JOIN items i ON i.id = b.item_id AND i.deleted_at IS NULL
		WHERE b.quantity > 0 AND b.expiry_date BETWEEN $1 AND $2
		ORDER BY b.expiry_date ASC, b.received_date ASC`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list expiring batches: %w", err)
	}
	defer rows.Close()

	list := []*entity.ExpiringBatch{}
	for rows.Next() {
		var e entity.ExpiringBatch
		if err := rows.Scan(&e.ID, &e.ItemID, &e.BatchNumber, &e.Quantity, &e.ReceivedDate, &e.ExpiryDate, &e.CreatedAt,
			&e.ItemCode, &e.ItemName); err != nil {
			return nil, fmt.Errorf("scan expiring batch: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
