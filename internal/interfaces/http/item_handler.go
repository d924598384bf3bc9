package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/application/inventory"
)

// ItemHandler administración de ítems y operaciones de stock por ítem.
type ItemHandler struct {
	responder
	items      *inventory.ItemUseCase
	adjust     *inventory.AdjustStockUseCase
	allocation *inventory.AllocationUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(r responder, items *inventory.ItemUseCase, adjust *inventory.AdjustStockUseCase, allocation *inventory.AllocationUseCase) *ItemHandler {
	return &ItemHandler{responder: r, items: items, adjust: adjust, allocation: allocation}
}

// Create godoc
// @Summary      Crear ítem
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Datos del ítem"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.items.Create(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener ítem con stock
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id must be a UUID")
	}
	out, err := h.items.Get(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar ítems con stock derivado
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.ItemListResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	page, ok, err := parsePage(c)
	if !ok {
		return err
	}
	out, err := h.items.List(c.UserContext(), page)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar ítem
// @Description  Solo se modifican los campos presentes. El código y el stock no son editables.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del ítem"
// @Param        body  body  dto.UpdateItemRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id must be a UUID")
	}
	var in dto.UpdateItemRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.items.Update(c.UserContext(), id, in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar ítem (lógico)
// @Tags         items
// @Security     Bearer
// @Param        id   path  string  true  "ID del ítem"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id must be a UUID")
	}
	if err := h.items.Delete(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Adjust godoc
// @Summary      Ajuste manual de stock
// @Description  quantity_change positivo crea un lote; negativo descuenta lotes por fecha de recepción.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del ítem"
// @Param        body  body  dto.AdjustStockRequest  true  "quantity_change, reason"
// @Success      200   {object}  dto.AdjustStockResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/adjust [post]
func (h *ItemHandler) Adjust(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id must be a UUID")
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		// p. ej. quantity_change como texto
		return badRequest(c, "VALIDATION", "Invalid quantity change")
	}
	if err := validateStruct(&in); err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	out, err := h.adjust.Adjust(c.UserContext(), id, in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Allocation godoc
// @Summary      Vista previa de asignación FEFO
// @Description  No modifica stock. feasible=false incluye shortfall y el plan parcial.
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id        path   string  true  "ID del ítem"
// @Param        quantity  query  int     true  "Cantidad requerida"
// @Success      200  {object}  dto.AllocationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/allocation [get]
func (h *ItemHandler) Allocation(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id must be a UUID")
	}
	qty := c.QueryInt("quantity", 0)
	if qty <= 0 {
		return badRequest(c, "VALIDATION", "quantity must be a positive integer")
	}
	out, err := h.allocation.Preview(c.UserContext(), id, qty)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Transactions godoc
// @Summary      Libro de movimientos del ítem
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del ítem"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.TransactionResponse
// @Router       /api/items/{id}/transactions [get]
func (h *ItemHandler) Transactions(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id must be a UUID")
	}
	page, ok, err := parsePage(c)
	if !ok {
		return err
	}
	out, err := h.items.Ledger(c.UserContext(), id, page)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// parsePage lee limit/offset del query string.
func parsePage(c *fiber.Ctx) (dto.PageRequest, bool, error) {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return page, false, badRequest(c, "VALIDATION", "invalid pagination parameters")
	}
	if err := validateStruct(&page); err != nil {
		return page, false, badRequest(c, "VALIDATION", err.Error())
	}
	return page, true, nil
}
