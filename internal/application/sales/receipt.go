package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/application/ports"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// ReceiptUseCase consulta de ventas liquidadas y su comprobante PDF.
type ReceiptUseCase struct {
	saleRepo repository.SaleRepository
	renderer ports.ReceiptRenderer
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(saleRepo repository.SaleRepository, renderer ports.ReceiptRenderer) *ReceiptUseCase {
	return &ReceiptUseCase{saleRepo: saleRepo, renderer: renderer}
}

// GetByInvoiceID devuelve la venta con sus segmentos (qué lote sirvió cada porción).
func (uc *ReceiptUseCase) GetByInvoiceID(ctx context.Context, invoiceID string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if sale == nil {
		return nil, domain.NotFoundf("Sale not found: %s", invoiceID)
	}
	return toSaleResponse(sale), nil
}

// RenderReceipt genera el PDF del comprobante.
func (uc *ReceiptUseCase) RenderReceipt(ctx context.Context, invoiceID string) ([]byte, error) {
	sale, err := uc.GetByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	pdf, err := uc.renderer.RenderSaleReceipt(sale)
	if err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return pdf, nil
}
