package sales

import (
	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
)

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:           s.ID,
		InvoiceID:    s.InvoiceID,
		CustomerName: s.CustomerName,
		TotalAmount:  s.TotalAmount,
		CreatedAt:    s.CreatedAt,
		Items:        make([]dto.SaleSegmentResponse, 0, len(s.Items)),
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, dto.SaleSegmentResponse{
			ItemID:      it.ItemID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal(),
			BatchIDUsed: it.BatchIDUsed,
		})
	}
	return out
}
