package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/application/sales"
)

// SaleHandler liquidación de ventas y consulta de comprobantes.
type SaleHandler struct {
	responder
	settle   *sales.SettleSaleUseCase
	receipts *sales.ReceiptUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(r responder, settle *sales.SettleSaleUseCase, receipts *sales.ReceiptUseCase) *SaleHandler {
	return &SaleHandler{responder: r, settle: settle, receipts: receipts}
}

// Settle godoc
// @Summary      Liquidar venta
// @Description  Descuenta stock FEFO por lote y registra la venta. Un invoice_id repetido responde 200 con duplicate=true.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SettleSaleRequest  true  "invoice_id, items[]"
// @Success      201   {object}  dto.SettleSaleResult
// @Success      200   {object}  dto.SettleSaleResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Settle(c *fiber.Ctx) error {
	var in dto.SettleSaleRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.settle.Settle(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	if out.Duplicate {
		return c.Status(fiber.StatusOK).JSON(out)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByInvoiceID godoc
// @Summary      Venta por número de factura
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        invoiceId  path  string  true  "Número de factura"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{invoiceId} [get]
func (h *SaleHandler) GetByInvoiceID(c *fiber.Ctx) error {
	out, err := h.receipts.GetByInvoiceID(c.UserContext(), c.Params("invoiceId"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Comprobante PDF de la venta
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        invoiceId  path  string  true  "Número de factura"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{invoiceId}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	invoiceID := c.Params("invoiceId")
	pdf, err := h.receipts.RenderReceipt(c.UserContext(), invoiceID)
	if err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="receipt-`+invoiceID+`.pdf"`)
	return c.Send(pdf)
}
