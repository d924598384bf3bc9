package supplier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
	"github.com/jhoicas/stockflow-api/pkg/clock"
)

// SupplierUseCase alta, edición, listado y baja lógica de proveedores.
// El puntaje de confiabilidad no se edita aquí: solo lo mueve la recepción de compras.
type SupplierUseCase struct {
	repo  repository.SupplierRepository
	clock clock.Clock
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository, clk clock.Clock) *SupplierUseCase {
	return &SupplierUseCase{repo: repo, clock: clk}
}

// Create registra un proveedor con el puntaje inicial por defecto.
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.InvalidInputf("Supplier name is required")
	}
	if in.AvgDeliveryTimeDays != nil && *in.AvgDeliveryTimeDays < 0 {
		return nil, domain.InvalidInputf("Average delivery time cannot be negative")
	}
	now := uc.clock.Now()
	s := &entity.Supplier{
		ID:                  uuid.New().String(),
		Name:                name,
		ContactInfo:         strings.TrimSpace(in.ContactInfo),
		ReliabilityScore:    entity.DefaultReliabilityScore,
		AvgDeliveryTimeDays: in.AvgDeliveryTimeDays,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}
	return toSupplierResponse(s), nil
}

// List proveedores activos por nombre.
func (uc *SupplierUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.SupplierResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSupplierResponse(s))
	}
	return out, nil
}

// Update modifica nombre, contacto y tiempo promedio de entrega (solo los campos presentes).
func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	if s == nil {
		return nil, domain.NotFoundf("Supplier not found")
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.InvalidInputf("Supplier name is required")
		}
		s.Name = name
	}
	if in.ContactInfo != nil {
		s.ContactInfo = strings.TrimSpace(*in.ContactInfo)
	}
	if in.AvgDeliveryTimeDays != nil {
		if *in.AvgDeliveryTimeDays < 0 {
			return nil, domain.InvalidInputf("Average delivery time cannot be negative")
		}
		s.AvgDeliveryTimeDays = in.AvgDeliveryTimeDays
	}
	s.UpdatedAt = uc.clock.Now()

	if err := uc.repo.Update(ctx, s); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFoundf("Supplier not found")
		}
		return nil, fmt.Errorf("update supplier: %w", err)
	}
	return toSupplierResponse(s), nil
}

// Delete borrado lógico; las órdenes existentes conservan la referencia.
func (uc *SupplierUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.SoftDelete(ctx, id, uc.clock.Now()); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFoundf("Supplier not found")
		}
		return fmt.Errorf("delete supplier: %w", err)
	}
	return nil
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:                  s.ID,
		Name:                s.Name,
		ContactInfo:         s.ContactInfo,
		ReliabilityScore:    s.ReliabilityScore,
		AvgDeliveryTimeDays: s.AvgDeliveryTimeDays,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}
