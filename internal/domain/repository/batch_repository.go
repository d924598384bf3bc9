package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// BatchRepository define el puerto para los lotes de inventario.
type BatchRepository interface {
	Create(ctx context.Context, batch *entity.InventoryBatch) error
	// ListAvailable lotes con quantity > 0 en orden FEFO (vencimiento asc, sin vencimiento al final,
	// recepción asc). Lectura sin bloqueo.
	ListAvailable(ctx context.Context, itemID string) ([]*entity.InventoryBatch, error)
	// ListAvailableForUpdate igual que ListAvailable pero bloquea las filas (SELECT FOR UPDATE).
	// Solo tiene sentido dentro de una transacción.
	ListAvailableForUpdate(ctx context.Context, itemID string) ([]*entity.InventoryBatch, error)
	// Deduct descuenta qty del lote solo si quantity >= qty. Si ninguna fila cumple retorna domain.ErrConflict.
	Deduct(ctx context.Context, batchID string, qty int) error
	// SumAvailable stock derivado del ítem.
	SumAvailable(ctx context.Context, itemID string) (int, error)
	// ListExpiring lotes con stock que vencen en [from, to], vencimiento asc.
	ListExpiring(ctx context.Context, from, to time.Time) ([]*entity.ExpiringBatch, error)
}
