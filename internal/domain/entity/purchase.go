package entity

import "time"

// Estados de una orden de compra. RECEIVED y CANCELLED son terminales.
const (
	PurchaseStatusPending   = "PENDING"
	PurchaseStatusPartial   = "PARTIAL"
	PurchaseStatusReceived  = "RECEIVED"
	PurchaseStatusCancelled = "CANCELLED"
)

// Notas de calidad reconocidas por el cálculo de confiabilidad.
const (
	QualityGood    = "GOOD"
	QualityDamaged = "DAMAGED"
)

// Purchase orden de compra a un proveedor por un ítem.
type Purchase struct {
	ID                   string
	SupplierID           string
	ItemID               string
	QuantityOrdered      int
	QuantityReceived     int // acumulado
	Status               string
	ExpectedDeliveryDate *time.Time
	ActualDeliveryDate   *time.Time
	QualityNote          *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsTerminal indica si la orden ya no admite recepciones.
func (p *Purchase) IsTerminal() bool {
	return p.Status == PurchaseStatusReceived || p.Status == PurchaseStatusCancelled
}
