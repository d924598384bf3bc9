package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale cabecera de una venta liquidada.
type Sale struct {
	ID           string
	InvoiceID    string // único, provisto por el cliente
	CustomerName string
	TotalAmount  decimal.Decimal
	CreatedAt    time.Time
	Items        []SaleItem
}

// SaleItem un segmento de la venta: qué lote sirvió qué porción de una línea.
type SaleItem struct {
	ID          string
	SaleID      string
	ItemID      string
	Quantity    int
	UnitPrice   decimal.Decimal
	BatchIDUsed string
}

// Subtotal cantidad por precio unitario.
func (s SaleItem) Subtotal() decimal.Decimal {
	return s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
}

// ProcessedInvoice guarda de idempotencia: si existe la fila, la factura no se reprocesa.
type ProcessedInvoice struct {
	ID          string
	InvoiceID   string
	ProcessedAt time.Time
}
