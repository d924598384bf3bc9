package dto

import "time"

// CreateSupplierRequest entrada para registrar un proveedor. El puntaje inicia en 1.0.
type CreateSupplierRequest struct {
	Name                string `json:"name" validate:"required,min=1,max=200"`
	ContactInfo         string `json:"contact_info" validate:"max=500"`
	AvgDeliveryTimeDays *int   `json:"avg_delivery_time_days" validate:"omitempty,min=0"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	ContactInfo         string    `json:"contact_info"`
	ReliabilityScore    float64   `json:"reliability_score"`
	AvgDeliveryTimeDays *int      `json:"avg_delivery_time_days,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// UpdateSupplierRequest campos editables de un proveedor. El puntaje de confiabilidad no es editable.
type UpdateSupplierRequest struct {
	Name                *string `json:"name" validate:"omitempty,min=1,max=200"`
	ContactInfo         *string `json:"contact_info" validate:"omitempty,max=500"`
	AvgDeliveryTimeDays *int    `json:"avg_delivery_time_days" validate:"omitempty,min=0"`
}
