package entity

import "time"

// InventoryBatch lote recibido de un ítem con su cantidad restante y vencimiento.
// Un lote con Quantity 0 se conserva (auditoría) pero no participa en la asignación.
type InventoryBatch struct {
	ID           string
	ItemID       string
	BatchNumber  string
	Quantity     int // >= 0
	ReceivedDate time.Time
	ExpiryDate   *time.Time // nil = sin vencimiento
	CreatedAt    time.Time
}

// IsExhausted indica si el lote ya no tiene unidades.
func (b *InventoryBatch) IsExhausted() bool {
	return b.Quantity <= 0
}

// ExpiringBatch lote próximo a vencer con datos del ítem para alertas.
type ExpiringBatch struct {
	InventoryBatch
	ItemCode string
	ItemName string
}
