package purchasing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	appinventory "github.com/jhoicas/stockflow-api/internal/application/inventory"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
	"github.com/jhoicas/stockflow-api/pkg/clock"
)

// PurchaseOrderUseCase alta, consulta y cancelación de órdenes de compra.
type PurchaseOrderUseCase struct {
	txRunner appinventory.TxRunner
	repos    repository.TxRepos
	clock    clock.Clock
}

// NewPurchaseOrderUseCase construye el caso de uso. repos son los repositorios fuera de transacción (lecturas).
func NewPurchaseOrderUseCase(txRunner appinventory.TxRunner, repos repository.TxRepos, clk clock.Clock) *PurchaseOrderUseCase {
	return &PurchaseOrderUseCase{txRunner: txRunner, repos: repos, clock: clk}
}

// Create registra una orden PENDING. Proveedor e ítem deben existir y estar activos.
func (uc *PurchaseOrderUseCase) Create(ctx context.Context, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if in.QuantityOrdered <= 0 {
		return nil, domain.InvalidInputf("Quantity ordered must be positive")
	}
	now := uc.clock.Now()
	p := &entity.Purchase{
		ID:                   uuid.New().String(),
		SupplierID:           in.SupplierID,
		ItemID:               in.ItemID,
		QuantityOrdered:      in.QuantityOrdered,
		Status:               entity.PurchaseStatusPending,
		ExpectedDeliveryDate: in.ExpectedDeliveryDate,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		s, err := r.Suppliers.GetByID(ctx, in.SupplierID)
		if err != nil {
			return fmt.Errorf("get supplier: %w", err)
		}
		if s == nil {
			return domain.NotFoundf("Supplier not found")
		}
		item, err := r.Items.GetByID(ctx, in.ItemID)
		if err != nil {
			return fmt.Errorf("get item: %w", err)
		}
		if item == nil {
			return domain.NotFoundf("Item not found")
		}
		if err := r.Purchases.Create(ctx, p); err != nil {
			return fmt.Errorf("create purchase: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(p), nil
}

// Get devuelve una orden por id.
func (uc *PurchaseOrderUseCase) Get(ctx context.Context, id string) (*dto.PurchaseResponse, error) {
	p, err := uc.repos.Purchases.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	if p == nil {
		return nil, domain.NotFoundf("Purchase Order not found")
	}
	return toPurchaseResponse(p), nil
}

// List órdenes más recientes primero, filtradas opcionalmente por estado.
func (uc *PurchaseOrderUseCase) List(ctx context.Context, f dto.PurchaseFilter) ([]dto.PurchaseResponse, error) {
	f.DefaultPage()
	list, err := uc.repos.Purchases.List(ctx, f.Status, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	out := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toPurchaseResponse(p))
	}
	return out, nil
}

// Cancel pasa una orden PENDING o PARTIAL a CANCELLED. Lo ya recibido queda en inventario.
func (uc *PurchaseOrderUseCase) Cancel(ctx context.Context, id string) (*dto.PurchaseResponse, error) {
	var out *entity.Purchase
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		p, err := r.Purchases.GetByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("lock purchase: %w", err)
		}
		if p == nil {
			return domain.NotFoundf("Purchase Order not found")
		}
		if p.IsTerminal() {
			return domain.InvalidStatef("Purchase Order is already %s", p.Status)
		}
		p.Status = entity.PurchaseStatusCancelled
		p.UpdatedAt = uc.clock.Now()
		if err := r.Purchases.Update(ctx, p); err != nil {
			return fmt.Errorf("update purchase: %w", err)
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(out), nil
}
