package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/application/purchasing"
)

// PurchaseHandler órdenes de compra y su recepción.
type PurchaseHandler struct {
	responder
	orders  *purchasing.PurchaseOrderUseCase
	receive *purchasing.ReceivePurchaseUseCase
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(r responder, orders *purchasing.PurchaseOrderUseCase, receive *purchasing.ReceivePurchaseUseCase) *PurchaseHandler {
	return &PurchaseHandler{responder: r, orders: orders, receive: receive}
}

// Create godoc
// @Summary      Crear orden de compra
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequest  true  "supplier_id, item_id, quantity_ordered"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.orders.Create(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar órdenes de compra
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "PENDING | PARTIAL | RECEIVED | CANCELLED"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.PurchaseResponse
// @Router       /api/purchases [get]
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	var f dto.PurchaseFilter
	if err := c.QueryParser(&f); err != nil {
		return badRequest(c, "VALIDATION", "invalid query parameters")
	}
	if err := validateStruct(&f); err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	out, err := h.orders.List(c.UserContext(), f)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden de compra
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id must be a UUID")
	}
	out, err := h.orders.Get(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Receive godoc
// @Summary      Recibir mercancía de una orden
// @Description  Crea un lote, acumula lo recibido y al completar la orden recalcula la confiabilidad del proveedor.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID de la orden"
// @Param        body  body  dto.ReceivePurchaseRequest  true  "quantity_received, quality_note, received_date"
// @Success      200   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/receive [post]
func (h *PurchaseHandler) Receive(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id must be a UUID")
	}
	var in dto.ReceivePurchaseRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.receive.Receive(c.UserContext(), id, in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar orden de compra
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/cancel [post]
func (h *PurchaseHandler) Cancel(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id must be a UUID")
	}
	out, err := h.orders.Cancel(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}
