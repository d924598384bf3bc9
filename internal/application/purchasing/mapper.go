package purchasing

import (
	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

func toPurchaseResponse(p *entity.Purchase) *dto.PurchaseResponse {
	return &dto.PurchaseResponse{
		ID:                   p.ID,
		SupplierID:           p.SupplierID,
		ItemID:               p.ItemID,
		QuantityOrdered:      p.QuantityOrdered,
		QuantityReceived:     p.QuantityReceived,
		Status:               p.Status,
		ExpectedDeliveryDate: p.ExpectedDeliveryDate,
		ActualDeliveryDate:   p.ActualDeliveryDate,
		QualityNote:          p.QualityNote,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}
