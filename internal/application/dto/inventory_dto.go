package dto

import (
	"encoding/json"
	"time"
)

// AdjustStockRequest body para POST /api/items/:id/adjust.
// QuantityChange se recibe crudo para poder rechazar valores no enteros con el mensaje de dominio.
type AdjustStockRequest struct {
	QuantityChange json.Number `json:"quantity_change"`
	Reason         string      `json:"reason" validate:"max=200"`
	ExpiryDate     *time.Time  `json:"expiry_date"`
	BatchNumber    string      `json:"batch_number" validate:"max=100"`
}

// AdjustStockResult resultado de adjustStock.
type AdjustStockResult struct {
	Success     bool `json:"success"`
	NewQuantity int  `json:"new_quantity"`
}

// AllocationSegment lote y cantidad que se tomaría de él.
type AllocationSegment struct {
	BatchID       string `json:"batch_id"`
	QuantityTaken int    `json:"quantity_taken"`
}

// AllocationResponse vista previa de la asignación FEFO (sin mutaciones).
type AllocationResponse struct {
	ItemID     string              `json:"item_id"`
	Feasible   bool                `json:"feasible"`
	Requested  int                 `json:"requested"`
	Available  int                 `json:"available"`
	Shortfall  int                 `json:"shortfall,omitempty"`
	Allocation []AllocationSegment `json:"allocation"`
}

// TransactionResponse fila del libro de inventario.
type TransactionResponse struct {
	ID             string    `json:"id"`
	ItemID         string    `json:"item_id"`
	BatchID        string    `json:"batch_id"`
	ChangeType     string    `json:"change_type"`
	QuantityChange int       `json:"quantity_change"`
	ReferenceID    string    `json:"reference_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// ExpiringBatchResponse lote con stock próximo a vencer.
type ExpiringBatchResponse struct {
	BatchID      string    `json:"batch_id"`
	BatchNumber  string    `json:"batch_number"`
	ItemID       string    `json:"item_id"`
	ItemCode     string    `json:"item_code"`
	ItemName     string    `json:"item_name"`
	Quantity     int       `json:"quantity"`
	ReceivedDate time.Time `json:"received_date"`
	ExpiryDate   time.Time `json:"expiry_date"`
	DaysLeft     int       `json:"days_left"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un ítem en o bajo su punto de reorden.
type ReplenishmentSuggestionDTO struct {
	ItemID            string `json:"item_id"`
	Code              string `json:"code"`
	Name              string `json:"name"`
	CurrentStock      int    `json:"current_stock"`
	ReorderPoint      int    `json:"reorder_point"`
	IdealStock        int    `json:"ideal_stock"`         // ceil(ReorderPoint * 1.5)
	SuggestedOrderQty int    `json:"suggested_order_qty"` // IdealStock - CurrentStock
	Priority          int    `json:"priority"`            // 1 = más urgente
}
