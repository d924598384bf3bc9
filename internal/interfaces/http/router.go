package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockflow-api/internal/application/inventory"
	"github.com/jhoicas/stockflow-api/internal/application/purchasing"
	"github.com/jhoicas/stockflow-api/internal/application/sales"
	"github.com/jhoicas/stockflow-api/internal/application/supplier"
	"github.com/jhoicas/stockflow-api/pkg/jwt"
	"github.com/jhoicas/stockflow-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SettleSale      *sales.SettleSaleUseCase
	Receipts        *sales.ReceiptUseCase
	Items           *inventory.ItemUseCase
	AdjustStock     *inventory.AdjustStockUseCase
	Allocation      *inventory.AllocationUseCase
	Replenishment   *inventory.ReplenishmentUseCase
	Suppliers       *supplier.SupplierUseCase
	PurchaseOrders  *purchasing.PurchaseOrderUseCase
	ReceivePurchase *purchasing.ReceivePurchaseUseCase
	JWTSecret       string
	ServiceName     string
	Log             *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	r := responder{log: log.Component("http")}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	// Todas las rutas /api requieren Bearer Token
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	anyRole := RequireRole(jwt.RoleAdmin, jwt.RoleStaff)
	adminOnly := RequireRole(jwt.RoleAdmin)

	// Sales
	saleHandler := NewSaleHandler(r, deps.SettleSale, deps.Receipts)
	salesGroup := api.Group("/sales", anyRole)
	salesGroup.Post("/", saleHandler.Settle)
	salesGroup.Get("/:invoiceId", saleHandler.GetByInvoiceID)
	salesGroup.Get("/:invoiceId/receipt", saleHandler.Receipt)

	// Items
	itemHandler := NewItemHandler(r, deps.Items, deps.AdjustStock, deps.Allocation)
	items := api.Group("/items", anyRole)
	items.Get("/", itemHandler.List)
	items.Post("/", adminOnly, itemHandler.Create)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", adminOnly, itemHandler.Update)
	items.Delete("/:id", adminOnly, itemHandler.Delete)
	items.Post("/:id/adjust", adminOnly, itemHandler.Adjust)
	items.Get("/:id/allocation", itemHandler.Allocation)
	items.Get("/:id/transactions", itemHandler.Transactions)

	// Inventory
	inventoryHandler := NewInventoryHandler(r, deps.Items, deps.Replenishment)
	invGroup := api.Group("/inventory", anyRole)
	invGroup.Get("/expiring", inventoryHandler.Expiring)
	invGroup.Get("/reorder-list", inventoryHandler.GetReplenishmentList)

	// Suppliers
	supplierHandler := NewSupplierHandler(r, deps.Suppliers)
	suppliers := api.Group("/suppliers", anyRole)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Post("/", adminOnly, supplierHandler.Create)
	suppliers.Put("/:id", adminOnly, supplierHandler.Update)
	suppliers.Delete("/:id", adminOnly, supplierHandler.Delete)

	// Purchases
	purchaseHandler := NewPurchaseHandler(r, deps.PurchaseOrders, deps.ReceivePurchase)
	purchases := api.Group("/purchases", anyRole)
	purchases.Get("/", purchaseHandler.List)
	purchases.Post("/", adminOnly, purchaseHandler.Create)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Post("/:id/receive", purchaseHandler.Receive)
	purchases.Post("/:id/cancel", adminOnly, purchaseHandler.Cancel)
}
