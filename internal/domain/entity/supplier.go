package entity

import "time"

// DefaultReliabilityScore puntaje inicial de un proveedor nuevo.
const DefaultReliabilityScore = 1.0

// Supplier proveedor. ReliabilityScore ∈ [0, 1] y solo lo modifica el cálculo de confiabilidad.
type Supplier struct {
	ID                  string
	Name                string
	ContactInfo         string
	ReliabilityScore    float64
	AvgDeliveryTimeDays *int
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           *time.Time
}
