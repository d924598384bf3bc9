package entity

import "time"

// Tipos de cambio del libro de inventario.
const (
	ChangeTypePurchase   = "PURCHASE"   // recepción de compra
	ChangeTypeSale       = "SALE"       // venta
	ChangeTypeAdjustment = "ADJUSTMENT" // ajuste manual
)

// InventoryTransaction fila del libro de inventario (solo inserción, nunca se modifica).
// Cada cambio de cantidad en un lote produce exactamente una fila en la misma transacción.
type InventoryTransaction struct {
	ID             string
	ItemID         string
	BatchID        string
	ChangeType     string
	QuantityChange int    // con signo: positivo entra, negativo sale
	ReferenceID    string // invoice id, id de orden de compra o motivo del ajuste
	CreatedAt      time.Time
}
