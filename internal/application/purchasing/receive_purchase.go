package purchasing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	appinventory "github.com/jhoicas/stockflow-api/internal/application/inventory"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/inventory"
	"github.com/jhoicas/stockflow-api/internal/domain/purchasing"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
	"github.com/jhoicas/stockflow-api/pkg/clock"
	"github.com/jhoicas/stockflow-api/pkg/logger"
)

// ReceivePurchaseUseCase registra la recepción (total o parcial) de una orden de compra:
// lote nuevo, fila PURCHASE en el libro, estado de la orden y, al completarse, el puntaje del proveedor.
type ReceivePurchaseUseCase struct {
	txRunner appinventory.TxRunner
	clock    clock.Clock
	log      *logger.Logger
}

// NewReceivePurchaseUseCase construye el caso de uso.
func NewReceivePurchaseUseCase(txRunner appinventory.TxRunner, clk clock.Clock, log *logger.Logger) *ReceivePurchaseUseCase {
	return &ReceivePurchaseUseCase{txRunner: txRunner, clock: clk, log: log.Component("purchasing")}
}

// Receive aplica la recepción en una sola transacción.
func (uc *ReceivePurchaseUseCase) Receive(ctx context.Context, purchaseID string, in dto.ReceivePurchaseRequest) (*dto.PurchaseResponse, error) {
	if in.QuantityReceived <= 0 {
		return nil, domain.InvalidInputf("Quantity received must be positive")
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return nil, domain.InvalidInputf("Unit cost cannot be negative")
	}
	now := uc.clock.Now()
	actual := now
	if in.ReceivedDate != nil {
		actual = in.ReceivedDate.UTC()
	}
	var quality *string
	if in.QualityNote != nil {
		q := strings.ToUpper(strings.TrimSpace(*in.QualityNote))
		quality = &q
	}

	var out *entity.Purchase
	var scored *entity.Supplier
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		p, err := r.Purchases.GetByIDForUpdate(ctx, purchaseID)
		if err != nil {
			return fmt.Errorf("lock purchase: %w", err)
		}
		if p == nil {
			return domain.NotFoundf("Purchase Order not found")
		}
		if p.IsTerminal() {
			return domain.InvalidStatef("Purchase Order is already %s", p.Status)
		}

		p.QuantityReceived += in.QuantityReceived
		p.Status = entity.PurchaseStatusPartial
		if p.QuantityReceived >= p.QuantityOrdered {
			p.Status = entity.PurchaseStatusReceived
		}
		p.ActualDeliveryDate = &actual
		if quality != nil {
			p.QualityNote = quality
		}
		p.UpdatedAt = now

		if in.UnitCost != nil {
			if err := updateItemCost(ctx, r, p.ItemID, in.QuantityReceived, *in.UnitCost, now); err != nil {
				return err
			}
		}

		batchNumber := strings.TrimSpace(in.BatchNumber)
		if batchNumber == "" {
			batchNumber = fmt.Sprintf("PO-%s-%s", shortID(p.ID), actual.Format("20060102150405"))
		}
		batch := &entity.InventoryBatch{
			ID:           uuid.New().String(),
			ItemID:       p.ItemID,
			BatchNumber:  batchNumber,
			Quantity:     in.QuantityReceived,
			ReceivedDate: actual,
			ExpiryDate:   in.ExpiryDate,
			CreatedAt:    now,
		}
		if err := r.Batches.Create(ctx, batch); err != nil {
			return fmt.Errorf("create batch: %w", err)
		}
		if err := r.Transactions.Create(ctx, &entity.InventoryTransaction{
			ID:             uuid.New().String(),
			ItemID:         p.ItemID,
			BatchID:        batch.ID,
			ChangeType:     entity.ChangeTypePurchase,
			QuantityChange: in.QuantityReceived,
			ReferenceID:    p.ID,
			CreatedAt:      now,
		}); err != nil {
			return fmt.Errorf("create purchase transaction: %w", err)
		}
		if err := r.Purchases.Update(ctx, p); err != nil {
			return fmt.Errorf("update purchase: %w", err)
		}

		if p.Status == entity.PurchaseStatusReceived {
			s, err := uc.rescoreSupplier(ctx, r, p, actual, quality, now)
			if err != nil {
				return err
			}
			scored = s
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	if scored != nil {
		uc.log.Info().
			Str("supplier_id", scored.ID).
			Str("supplier", scored.Name).
			Float64("score", scored.ReliabilityScore).
			Msgf("Updated Supplier %s score to %.2f", scored.Name, scored.ReliabilityScore)
	}
	return toPurchaseResponse(out), nil
}

// rescoreSupplier único escritor del puntaje de confiabilidad. Un proveedor dado de baja
// se sigue puntuando: la orden ya estaba emitida. quality es la nota de esta recepción.
func (uc *ReceivePurchaseUseCase) rescoreSupplier(
	ctx context.Context,
	r repository.TxRepos,
	p *entity.Purchase,
	actual time.Time,
	quality *string,
	now time.Time,
) (*entity.Supplier, error) {
	s, err := r.Suppliers.GetByIDForUpdate(ctx, p.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("lock supplier: %w", err)
	}
	if s == nil {
		return nil, domain.NotFoundf("Supplier not found")
	}
	note := ""
	if quality != nil {
		note = *quality
	}
	s.ReliabilityScore = purchasing.Score(s.ReliabilityScore, p.ExpectedDeliveryDate, actual, note)
	if err := r.Suppliers.UpdateReliabilityScore(ctx, s.ID, s.ReliabilityScore, now); err != nil {
		return nil, fmt.Errorf("update supplier score: %w", err)
	}
	return s, nil
}

// updateItemCost promedia el costo del ítem con el de la entrada. Debe correr antes de crear el lote.
// Un ítem dado de baja conserva su costo.
func updateItemCost(ctx context.Context, r repository.TxRepos, itemID string, received int, unitCost decimal.Decimal, now time.Time) error {
	item, err := r.Items.GetByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	if item == nil {
		return nil
	}
	stock, err := r.Batches.SumAvailable(ctx, itemID)
	if err != nil {
		return fmt.Errorf("sum stock: %w", err)
	}
	cost := inventory.WeightedAverageCost(stock, item.CostPrice, received, unitCost)
	if err := r.Items.UpdateCostPrice(ctx, itemID, cost, now); err != nil {
		return fmt.Errorf("update item cost: %w", err)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
