package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest una línea de la venta.
type SaleLineRequest struct {
	ItemCode  string          `json:"item_code" validate:"required,max=100"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// SettleSaleRequest body para POST /api/sales.
// TotalAmount en cero se recalcula como Σ cantidad × precio.
type SettleSaleRequest struct {
	InvoiceID    string            `json:"invoice_id" validate:"required,max=100"`
	CustomerName string            `json:"customer_name" validate:"max=200"`
	TotalAmount  decimal.Decimal   `json:"total_amount"`
	Items        []SaleLineRequest `json:"items" validate:"required,min=1,dive"`
}

// Estados del resultado de liquidación.
const (
	SettleStatusSuccess   = "SUCCESS"
	SettleStatusDuplicate = "DUPLICATE"
)

// SettleSaleResult resultado de settleSale. Sale es nil cuando Status es DUPLICATE.
type SettleSaleResult struct {
	Status    string        `json:"status"`
	Duplicate bool          `json:"duplicate"`
	Message   string        `json:"message,omitempty"`
	Sale      *SaleResponse `json:"sale,omitempty"`
}

// SaleSegmentResponse porción de una línea servida por un lote.
type SaleSegmentResponse struct {
	ItemID      string          `json:"item_id"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	BatchIDUsed string          `json:"batch_id_used"`
}

// SaleResponse venta liquidada con sus segmentos.
type SaleResponse struct {
	ID           string                `json:"id"`
	InvoiceID    string                `json:"invoice_id"`
	CustomerName string                `json:"customer_name"`
	TotalAmount  decimal.Decimal       `json:"total_amount"`
	CreatedAt    time.Time             `json:"created_at"`
	Items        []SaleSegmentResponse `json:"items"`
}
