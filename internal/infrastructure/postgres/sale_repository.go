package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas, segmentos y guarda de idempotencia (processed_invoices).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta cabecera y segmentos. Debe usarse dentro de una transacción.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (id, invoice_id, customer_name, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.Exec(ctx, query, s.ID, s.InvoiceID, s.CustomerName, s.TotalAmount, s.CreatedAt); err != nil {
		return wrap("create sale", err)
	}

	itemQuery := `
		INSERT INTO sale_items (id, sale_id, item_id, quantity, unit_price, batch_id_used)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, it := range s.Items {
		if _, err := r.q.Exec(ctx, itemQuery, it.ID, s.ID, it.ItemID, it.Quantity, it.UnitPrice, it.BatchIDUsed); err != nil {
			return wrap("create sale item", err)
		}
	}
	return nil
}

func (r *SaleRepo) GetByInvoiceID(ctx context.Context, invoiceID string) (*entity.Sale, error) {
	query := `SELECT id, invoice_id, customer_name, total_amount, created_at FROM sales WHERE invoice_id = $1`
	var s entity.Sale
	err := r.q.QueryRow(ctx, query, invoiceID).Scan(&s.ID, &s.InvoiceID, &s.CustomerName, &s.TotalAmount, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, item_id, quantity, unit_price, batch_id_used
		FROM sale_items WHERE sale_id = $1 ORDER BY seq`, s.ID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ItemID, &it.Quantity, &it.UnitPrice, &it.BatchIDUsed); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		s.Items = append(s.Items, it)
	}
	return &s, rows.Err()
}

func (r *SaleRepo) IsProcessed(ctx context.Context, invoiceID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM processed_invoices WHERE invoice_id = $1)`, invoiceID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check processed invoice: %w", err)
	}
	return exists, nil
}

func (r *SaleRepo) MarkProcessed(ctx context.Context, invoiceID string, at time.Time) error {
	query := `INSERT INTO processed_invoices (id, invoice_id, processed_at) VALUES ($1, $2, $3)`
	if _, err := r.q.Exec(ctx, query, uuid.New().String(), invoiceID, at); err != nil {
		return wrap("mark invoice processed", err)
	}
	return nil
}
