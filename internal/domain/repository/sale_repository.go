package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// SaleRepository persistencia de ventas, sus segmentos y la guarda de idempotencia.
type SaleRepository interface {
	// Create guarda cabecera y segmentos. Retorna domain.ErrDuplicate si el invoice id ya existe.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByInvoiceID(ctx context.Context, invoiceID string) (*entity.Sale, error)
	IsProcessed(ctx context.Context, invoiceID string) (bool, error)
	// MarkProcessed inserta la fila de processed_invoices. domain.ErrDuplicate si ya existía.
	MarkProcessed(ctx context.Context, invoiceID string, at time.Time) error
}
