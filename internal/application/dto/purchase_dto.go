package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseRequest orden de compra nueva (queda PENDING).
type CreatePurchaseRequest struct {
	SupplierID           string     `json:"supplier_id" validate:"required,uuid"`
	ItemID               string     `json:"item_id" validate:"required,uuid"`
	QuantityOrdered      int        `json:"quantity_ordered" validate:"gt=0"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date"`
}

// ReceivePurchaseRequest body para POST /api/purchases/:id/receive.
// ReceivedDate nil = ahora. ExpiryDate, BatchNumber y UnitCost son opcionales;
// con UnitCost se recalcula el costo promedio ponderado del ítem.
type ReceivePurchaseRequest struct {
	QuantityReceived int              `json:"quantity_received" validate:"gt=0"`
	QualityNote      *string          `json:"quality_note" validate:"omitempty,max=100"`
	ReceivedDate     *time.Time       `json:"received_date"`
	ExpiryDate       *time.Time       `json:"expiry_date"`
	BatchNumber      string           `json:"batch_number" validate:"max=100"`
	UnitCost         *decimal.Decimal `json:"unit_cost"`
}

// PurchaseFilter filtros de listado.
type PurchaseFilter struct {
	Status string `query:"status" validate:"omitempty,oneof=PENDING PARTIAL RECEIVED CANCELLED"`
	PageRequest
}

// PurchaseResponse salida de una orden de compra.
type PurchaseResponse struct {
	ID                   string     `json:"id"`
	SupplierID           string     `json:"supplier_id"`
	ItemID               string     `json:"item_id"`
	QuantityOrdered      int        `json:"quantity_ordered"`
	QuantityReceived     int        `json:"quantity_received"`
	Status               string     `json:"status"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date,omitempty"`
	ActualDeliveryDate   *time.Time `json:"actual_delivery_date,omitempty"`
	QualityNote          *string    `json:"quality_note,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}
