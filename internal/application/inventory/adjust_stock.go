package inventory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/inventory"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
	"github.com/jhoicas/stockflow-api/pkg/clock"
	"github.com/jhoicas/stockflow-api/pkg/logger"
)

// DefaultAdjustmentReason referencia del libro cuando el ajuste no trae motivo.
const DefaultAdjustmentReason = "MANUAL_ADJUSTMENT"

// AdjustStockUseCase correcciones manuales de stock (positivas o negativas) con bloqueo de lotes.
type AdjustStockUseCase struct {
	txRunner          TxRunner
	clock             clock.Clock
	log               *logger.Logger
	defaultExpiryDays int
}

// NewAdjustStockUseCase construye el caso de uso. defaultExpiryDays aplica a lotes creados por ajuste positivo.
func NewAdjustStockUseCase(txRunner TxRunner, clk clock.Clock, log *logger.Logger, defaultExpiryDays int) *AdjustStockUseCase {
	if defaultExpiryDays <= 0 {
		defaultExpiryDays = 365
	}
	return &AdjustStockUseCase{
		txRunner:          txRunner,
		clock:             clk,
		log:               log.Component("inventory"),
		defaultExpiryDays: defaultExpiryDays,
	}
}

// ParseQuantityChange acepta solo enteros distintos de cero.
func ParseQuantityChange(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n == 0 {
		return 0, domain.InvalidInputf("Invalid quantity change")
	}
	return n, nil
}

// Adjust aplica el ajuste en una sola transacción y devuelve el stock resultante.
func (uc *AdjustStockUseCase) Adjust(ctx context.Context, itemID string, in dto.AdjustStockRequest) (*dto.AdjustStockResult, error) {
	change, err := ParseQuantityChange(in.QuantityChange.String())
	if err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = DefaultAdjustmentReason
	}
	now := uc.clock.Now()

	var newQty int
	err = uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		item, err := r.Items.GetByID(ctx, itemID)
		if err != nil {
			return fmt.Errorf("get item: %w", err)
		}
		if item == nil {
			return domain.NotFoundf("Item not found")
		}

		if change > 0 {
			err = uc.increase(ctx, r, item, change, reason, in, now)
		} else {
			err = uc.decrease(ctx, r, item, -change, reason, now)
		}
		if err != nil {
			return err
		}

		newQty, err = r.Batches.SumAvailable(ctx, item.ID)
		if err != nil {
			return fmt.Errorf("sum stock: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("item_id", itemID).Int("change", change).Str("reason", reason).Int("new_quantity", newQty).Msg("stock adjusted")
	return &dto.AdjustStockResult{Success: true, NewQuantity: newQty}, nil
}

// increase crea un lote nuevo del tamaño del ajuste (vencimiento por defecto si no se indica).
func (uc *AdjustStockUseCase) increase(
	ctx context.Context,
	r repository.TxRepos,
	item *entity.Item,
	qty int,
	reason string,
	in dto.AdjustStockRequest,
	now time.Time,
) error {
	expiry := in.ExpiryDate
	if expiry == nil {
		d := now.AddDate(0, 0, uc.defaultExpiryDays)
		expiry = &d
	}
	batchNumber := strings.TrimSpace(in.BatchNumber)
	if batchNumber == "" {
		batchNumber = "ADJ-" + now.Format("20060102150405")
	}
	batch := &entity.InventoryBatch{
		ID:           uuid.New().String(),
		ItemID:       item.ID,
		BatchNumber:  batchNumber,
		Quantity:     qty,
		ReceivedDate: now,
		ExpiryDate:   expiry,
		CreatedAt:    now,
	}
	if err := r.Batches.Create(ctx, batch); err != nil {
		return fmt.Errorf("create batch: %w", err)
	}
	return writeAdjustment(ctx, r, item.ID, batch.ID, qty, reason, now)
}

// decrease descuenta por orden de recepción (FIFO); sin stock suficiente no se toca ningún lote.
func (uc *AdjustStockUseCase) decrease(
	ctx context.Context,
	r repository.TxRepos,
	item *entity.Item,
	qty int,
	reason string,
	now time.Time,
) error {
	batches, err := r.Batches.ListAvailableForUpdate(ctx, item.ID)
	if err != nil {
		return fmt.Errorf("lock batches: %w", err)
	}
	plan := inventory.Allocate(qty, batches, inventory.PolicyFIFO)
	if !plan.Feasible {
		return domain.InvalidStatef("Resulting quantity cannot be negative")
	}
	for _, a := range plan.Allocations {
		if err := r.Batches.Deduct(ctx, a.BatchID, a.QuantityTaken); err != nil {
			return fmt.Errorf("deduct batch %s: %w", a.BatchID, err)
		}
		if err := writeAdjustment(ctx, r, item.ID, a.BatchID, -a.QuantityTaken, reason, now); err != nil {
			return err
		}
	}
	return nil
}

func writeAdjustment(ctx context.Context, r repository.TxRepos, itemID, batchID string, delta int, reason string, now time.Time) error {
	if err := r.Transactions.Create(ctx, &entity.InventoryTransaction{
		ID:             uuid.New().String(),
		ItemID:         itemID,
		BatchID:        batchID,
		ChangeType:     entity.ChangeTypeAdjustment,
		QuantityChange: delta,
		ReferenceID:    reason,
		CreatedAt:      now,
	}); err != nil {
		return fmt.Errorf("create adjustment transaction: %w", err)
	}
	return nil
}
