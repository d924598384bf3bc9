package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, code, name, cost_price, selling_price, reorder_point, is_active, created_at, updated_at, deleted_at`

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(&it.ID, &it.Code, &it.Name, &it.CostPrice, &it.SellingPrice,
		&it.ReorderPoint, &it.IsActive, &it.CreatedAt, &it.UpdatedAt, &it.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *ItemRepo) Create(ctx context.Context, it *entity.Item) error {
	query := `
		INSERT INTO items (id, code, name, cost_price, selling_price, reorder_point, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, it.ID, it.Code, it.Name, it.CostPrice, it.SellingPrice,
		it.ReorderPoint, it.IsActive, it.CreatedAt, it.UpdatedAt)
	if err != nil {
		return wrap("create item", err)
	}
	return nil
}

func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 AND deleted_at IS NULL`
	it, err := scanItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

func (r *ItemRepo) GetByCode(ctx context.Context, code string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE code = $1 AND is_active AND deleted_at IS NULL`
	it, err := scanItem(r.q.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item by code: %w", err)
	}
	return it, nil
}

func (r *ItemRepo) ListWithStock(ctx context.Context, limit, offset int) ([]*entity.ItemWithStock, error) {
	query := `
		SELECT i.id, i.code, i.name, i.cost_price, i.selling_price, i.reorder_point, i.is_active,
		       i.created_at, i.updated_at, i.deleted_at,
		       COALESCE((SELECT SUM(b.quantity) FROM inventory_batches b
		                 WHERE b.item_id = i.id AND b.quantity > 0), 0)::int AS current_stock
		FROM items i
		WHERE i.deleted_at IS NULL
		ORDER BY i.code
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var list []*entity.ItemWithStock
	for rows.Next() {
		var it entity.ItemWithStock
		if err := rows.Scan(&it.ID, &it.Code, &it.Name, &it.CostPrice, &it.SellingPrice,
			&it.ReorderPoint, &it.IsActive, &it.CreatedAt, &it.UpdatedAt, &it.DeletedAt, &it.CurrentStock); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

func (r *ItemRepo) Update(ctx context.Context, it *entity.Item) error {
	query := `
		UPDATE items SET name = $2, cost_price = $3, selling_price = $4, reorder_point = $5, is_active = $6, updated_at = $7
		WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.q.Exec(ctx, query, it.ID, it.Name, it.CostPrice, it.SellingPrice, it.ReorderPoint, it.IsActive, it.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ItemRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE items SET deleted_at = $2, is_active = FALSE, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.q.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("soft delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ItemRepo) UpdateCostPrice(ctx context.Context, id string, cost decimal.Decimal, at time.Time) error {
	query := `UPDATE items SET cost_price = $2, updated_at = $3 WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.q.Exec(ctx, query, id, cost, at)
	if err != nil {
		return fmt.Errorf("update item cost: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ItemRepo) ListAtOrBelowReorderPoint(ctx context.Context) ([]repository.ReorderItem, error) {
	query := `
		SELECT i.id, i.code, i.name, s.stock, i.reorder_point
		FROM items i
		CROSS JOIN LATERAL (
			SELECT COALESCE(SUM(b.quantity), 0)::int AS stock
			FROM inventory_batches b
			WHERE b.item_id = i.id AND b.quantity > 0
		) s
		WHERE i.deleted_at IS NULL AND i.is_active AND s.stock <= i.reorder_point
		ORDER BY (i.reorder_point - s.stock) DESC, i.code`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list reorder items: %w", err)
	}
	defer rows.Close()

	list := []repository.ReorderItem{}
	for rows.Next() {
		var it repository.ReorderItem
		if err := rows.Scan(&it.ItemID, &it.Code, &it.Name, &it.CurrentStock, &it.ReorderPoint); err != nil {
			return nil, fmt.Errorf("scan reorder item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}
