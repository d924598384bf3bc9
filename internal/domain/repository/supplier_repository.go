package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

// SupplierRepository persistencia de proveedores (borrado lógico).
// GetByID y List excluyen proveedores dados de baja.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	// GetByIDForUpdate bloquea la fila aunque el proveedor esté dado de baja:
	// las órdenes ya emitidas se siguen recibiendo y puntuando.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Supplier, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error)
	// Update guarda nombre, contacto y tiempo promedio de entrega. No toca el puntaje.
	Update(ctx context.Context, supplier *entity.Supplier) error
	// UpdateReliabilityScore único punto de escritura del puntaje. Incluye proveedores dados de baja.
	UpdateReliabilityScore(ctx context.Context, id string, score float64, at time.Time) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}
