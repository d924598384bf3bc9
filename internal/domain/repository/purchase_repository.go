package repository

import (
	"context"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// PurchaseRepository persistencia de órdenes de compra.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	// GetByIDForUpdate bloquea la fila (SELECT FOR UPDATE).
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Purchase, error)
	// Update persiste cantidad recibida, estado, fecha real y nota de calidad.
	Update(ctx context.Context, purchase *entity.Purchase) error
	List(ctx context.Context, status string, limit, offset int) ([]*entity.Purchase, error)
}
