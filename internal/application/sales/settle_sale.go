package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	appinventory "github.com/jhoicas/stockflow-api/internal/application/inventory"
	"github.com/jhoicas/stockflow-api/internal/application/ports"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/inventory"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
	"github.com/jhoicas/stockflow-api/pkg/clock"
	"github.com/jhoicas/stockflow-api/pkg/logger"
)

const duplicateMessage = "Invoice already processed"

// SettleSaleUseCase liquida una venta: guarda de idempotencia, validación de stock, asignación FEFO,
// descuento de lotes, libro, venta y processed_invoices. Todo en una sola transacción.
type SettleSaleUseCase struct {
	txRunner      appinventory.TxRunner
	saleRepo      repository.SaleRepository
	cache         ports.SettledInvoiceCache
	notifier      ports.SaleNotifier
	clock         clock.Clock
	log           *logger.Logger
	notifyTimeout time.Duration
}

// NewSettleSaleUseCase construye el caso de uso. cache y notifier pueden ser nil.
func NewSettleSaleUseCase(
	txRunner appinventory.TxRunner,
	saleRepo repository.SaleRepository,
	cache ports.SettledInvoiceCache,
	notifier ports.SaleNotifier,
	clk clock.Clock,
	log *logger.Logger,
	notifyTimeout time.Duration,
) *SettleSaleUseCase {
	if cache == nil {
		cache = ports.NopInvoiceCache{}
	}
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	if notifyTimeout <= 0 {
		notifyTimeout = 5 * time.Second
	}
	return &SettleSaleUseCase{
		txRunner:      txRunner,
		saleRepo:      saleRepo,
		cache:         cache,
		notifier:      notifier,
		clock:         clk,
		log:           log.Component("sales"),
		notifyTimeout: notifyTimeout,
	}
}

// segment porción de una línea servida por un lote concreto.
type segment struct {
	itemID    string
	batchID   string
	quantity  int
	unitPrice decimal.Decimal
}

// Settle liquida la venta. Una factura ya liquidada devuelve Status DUPLICATE sin error y sin mutaciones.
func (uc *SettleSaleUseCase) Settle(ctx context.Context, in dto.SettleSaleRequest) (*dto.SettleSaleResult, error) {
	if err := validateSale(&in); err != nil {
		return nil, err
	}

	// 1. Idempotencia, antes de abrir la transacción de escritura
	if hit, err := uc.cache.IsSettled(ctx, in.InvoiceID); err != nil {
		uc.log.Warn().Err(err).Str("invoice_id", in.InvoiceID).Msg("settled invoice cache unavailable")
	} else if hit {
		return uc.duplicate(in.InvoiceID), nil
	}
	processed, err := uc.saleRepo.IsProcessed(ctx, in.InvoiceID)
	if err != nil {
		return nil, fmt.Errorf("check processed invoice: %w", err)
	}
	if processed {
		return uc.duplicate(in.InvoiceID), nil
	}

	now := uc.clock.Now()
	sale := &entity.Sale{
		ID:           uuid.New().String(),
		InvoiceID:    in.InvoiceID,
		CustomerName: in.CustomerName,
		CreatedAt:    now,
	}

	err = uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		// 2-3. Resolver y asignar todas las líneas antes de mutar nada
		segments, err := planSale(ctx, r, in.Items)
		if err != nil {
			return err
		}

		// 4. Descontar lotes; una fila SALE por segmento
		computed := decimal.Zero
		for _, s := range segments {
			if err := r.Batches.Deduct(ctx, s.batchID, s.quantity); err != nil {
				return fmt.Errorf("deduct batch %s: %w", s.batchID, err)
			}
			if err := r.Transactions.Create(ctx, &entity.InventoryTransaction{
				ID:             uuid.New().String(),
				ItemID:         s.itemID,
				BatchID:        s.batchID,
				ChangeType:     entity.ChangeTypeSale,
				QuantityChange: -s.quantity,
				ReferenceID:    in.InvoiceID,
				CreatedAt:      now,
			}); err != nil {
				return fmt.Errorf("create sale transaction: %w", err)
			}
			item := entity.SaleItem{
				ID:          uuid.New().String(),
				SaleID:      sale.ID,
				ItemID:      s.itemID,
				Quantity:    s.quantity,
				UnitPrice:   s.unitPrice,
				BatchIDUsed: s.batchID,
			}
			computed = computed.Add(item.Subtotal())
			sale.Items = append(sale.Items, item)
		}

		// 5. Venta con sus segmentos
		sale.TotalAmount = in.TotalAmount
		if sale.TotalAmount.IsZero() {
			sale.TotalAmount = computed
		}
		if err := r.Sales.Create(ctx, sale); err != nil {
			return err
		}

		// 6. Guarda de idempotencia
		return r.Sales.MarkProcessed(ctx, in.InvoiceID, now)
	})
	if err != nil {
		// otra petición con el mismo invoice id ganó la carrera
		if errors.Is(err, domain.ErrDuplicate) {
			return uc.duplicate(in.InvoiceID), nil
		}
		uc.log.Error().Err(err).Str("invoice_id", in.InvoiceID).Msg("sale settlement failed")
		return nil, err
	}

	if err := uc.cache.MarkSettled(ctx, in.InvoiceID); err != nil {
		uc.log.Warn().Err(err).Str("invoice_id", in.InvoiceID).Msg("could not cache settled invoice")
	}

	// 7. Best-effort, fuera de la transacción
	go uc.notify(in.InvoiceID)

	uc.log.Info().Str("invoice_id", in.InvoiceID).Int("segments", len(sale.Items)).Msg("sale settled")
	return &dto.SettleSaleResult{
		Status:  dto.SettleStatusSuccess,
		Message: "Sale processed successfully",
		Sale:    toSaleResponse(sale),
	}, nil
}

// planSale resuelve cada línea y calcula su plan FEFO sobre una foto de los lotes bloqueados.
// La foto se descuenta entre líneas para que un mismo ítem repetido no se asigne dos veces.
func planSale(ctx context.Context, r repository.TxRepos, lines []dto.SaleLineRequest) ([]segment, error) {
	snapshots := make(map[string][]*entity.InventoryBatch)
	var segments []segment

	for _, line := range lines {
		item, err := r.Items.GetByCode(ctx, line.ItemCode)
		if err != nil {
			return nil, fmt.Errorf("get item %s: %w", line.ItemCode, err)
		}
		if item == nil {
			return nil, domain.NotFoundf("Item not found: %s", line.ItemCode)
		}

		batches, ok := snapshots[item.ID]
		if !ok {
			batches, err = r.Batches.ListAvailableForUpdate(ctx, item.ID)
			if err != nil {
				return nil, fmt.Errorf("lock batches for %s: %w", item.Code, err)
			}
			snapshots[item.ID] = batches
		}

		plan := inventory.Allocate(line.Quantity, batches, inventory.PolicyFEFO)
		if !plan.Feasible {
			return nil, &domain.InsufficientStockError{
				ItemName:  item.Name,
				Requested: line.Quantity,
				Available: plan.Available,
			}
		}

		taken := make(map[string]int, len(plan.Allocations))
		for _, a := range plan.Allocations {
			taken[a.BatchID] = a.QuantityTaken
			segments = append(segments, segment{
				itemID:    item.ID,
				batchID:   a.BatchID,
				quantity:  a.QuantityTaken,
				unitPrice: line.UnitPrice,
			})
		}
		for _, b := range batches {
			b.Quantity -= taken[b.ID]
		}
	}
	return segments, nil
}

func (uc *SettleSaleUseCase) duplicate(invoiceID string) *dto.SettleSaleResult {
	uc.log.Warn().Str("invoice_id", invoiceID).Msg("skipping duplicate invoice")
	return &dto.SettleSaleResult{
		Status:    dto.SettleStatusDuplicate,
		Duplicate: true,
		Message:   duplicateMessage,
	}
}

func (uc *SettleSaleUseCase) notify(invoiceID string) {
	ctx, cancel := context.WithTimeout(context.Background(), uc.notifyTimeout)
	defer cancel()
	if err := uc.notifier.NotifySale(ctx, invoiceID); err != nil {
		uc.log.Error().Err(err).Str("invoice_id", invoiceID).Msg("sale notification failed")
	}
}

func validateSale(in *dto.SettleSaleRequest) error {
	in.InvoiceID = strings.TrimSpace(in.InvoiceID)
	if in.InvoiceID == "" {
		return domain.InvalidInputf("Invoice id is required")
	}
	if len(in.Items) == 0 {
		return domain.InvalidInputf("Sale must contain at least one item")
	}
	for i, line := range in.Items {
		if strings.TrimSpace(line.ItemCode) == "" {
			return domain.InvalidInputf("Item code is required (line %d)", i+1)
		}
		if line.Quantity <= 0 {
			return domain.InvalidInputf("Quantity must be positive (line %d)", i+1)
		}
		if line.UnitPrice.IsNegative() {
			return domain.InvalidInputf("Unit price cannot be negative (line %d)", i+1)
		}
	}
	if in.TotalAmount.IsNegative() {
		return domain.InvalidInputf("Total amount cannot be negative")
	}
	return nil
}
