package ports

import (
	"context"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
)

// SaleNotifier avisa a un colaborador externo que hubo una venta nueva.
// Es best-effort: el error solo se registra, nunca revierte la venta.
type SaleNotifier interface {
	NotifySale(ctx context.Context, invoiceID string) error
}

// SettledInvoiceCache atajo en memoria para facturas ya liquidadas.
// Solo contiene ids de liquidaciones confirmadas; la fuente de verdad sigue siendo processed_invoices.
type SettledInvoiceCache interface {
	IsSettled(ctx context.Context, invoiceID string) (bool, error)
	MarkSettled(ctx context.Context, invoiceID string) error
}

// ReceiptRenderer genera el comprobante de una venta.
type ReceiptRenderer interface {
	RenderSaleReceipt(sale *dto.SaleResponse) ([]byte, error)
}

// NopNotifier no notifica a nadie (AGENT_URL vacío).
type NopNotifier struct{}

func (NopNotifier) NotifySale(context.Context, string) error { return nil }

// NopInvoiceCache caché deshabilitada (REDIS_ADDR vacío).
type NopInvoiceCache struct{}

func (NopInvoiceCache) IsSettled(context.Context, string) (bool, error) { return false, nil }

func (NopInvoiceCache) MarkSettled(context.Context, string) error { return nil }
