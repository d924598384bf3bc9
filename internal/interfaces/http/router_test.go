package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/application/inventory"
	"github.com/jhoicas/stockflow-api/internal/application/purchasing"
	"github.com/jhoicas/stockflow-api/internal/application/sales"
	"github.com/jhoicas/stockflow-api/internal/application/supplier"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/stockflow-api/internal/interfaces/http"
	"github.com/jhoicas/stockflow-api/pkg/clock"
	pkgjwt "github.com/jhoicas/stockflow-api/pkg/jwt"
	"github.com/jhoicas/stockflow-api/pkg/logger"
)

var now = time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)

type fakeRenderer struct{}

func (fakeRenderer) RenderSaleReceipt(*dto.SaleResponse) ([]byte, error) {
	return []byte("%PDF-fake"), nil
}

type testEnv struct {
	app   *fiber.App
	store *memory.Store
	admin string
	staff string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	clk := clock.Fixed{T: now}
	log := logger.Nop()

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		SettleSale:      sales.NewSettleSaleUseCase(store, repos.Sales, nil, nil, clk, log, time.Second),
		Receipts:        sales.NewReceiptUseCase(repos.Sales, fakeRenderer{}),
		Items:           inventory.NewItemUseCase(repos.Items, repos.Batches, repos.Transactions, clk, 7),
		AdjustStock:     inventory.NewAdjustStockUseCase(store, clk, log, 365),
		Allocation:      inventory.NewAllocationUseCase(repos.Items, repos.Batches),
		Replenishment:   inventory.NewReplenishmentUseCase(repos.Items),
		Suppliers:       supplier.NewSupplierUseCase(repos.Suppliers, clk),
		PurchaseOrders:  purchasing.NewPurchaseOrderUseCase(store, repos, clk),
		ReceivePurchase: purchasing.NewReceivePurchaseUseCase(store, clk, log),
		JWTSecret:       testJWTSecret,
		ServiceName:     "stockflow-test",
		Log:             log,
	})
	return &testEnv{
		app:   app,
		store: store,
		admin: tokenForRole(t, pkgjwt.RoleAdmin),
		staff: tokenForRole(t, pkgjwt.RoleStaff),
	}
}

// do lanza la petición y devuelve status y cuerpo.
func (e *testEnv) do(t *testing.T, method, path, auth string, body any) (int, []byte) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rdr = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			rdr = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func day(s string) *time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &d
}

// seedYogurt crea el ítem YOG por API y dos lotes: 5 que vencen antes y 10 que vencen después.
func (e *testEnv) seedYogurt(t *testing.T) (itemID, earlyBatch, lateBatch string) {
	t.Helper()
	status, raw := e.do(t, http.MethodPost, "/api/items", e.admin, map[string]any{
		"code": "YOG", "name": "Yogurt", "selling_price": "1.25", "reorder_point": 20,
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	item := decode[dto.ItemResponse](t, raw)

	ctx := context.Background()
	earlyBatch = "00000000-0000-0000-0000-0000000000e1"
	lateBatch = "00000000-0000-0000-0000-0000000000e2"
	require.NoError(t, e.store.Repos().Batches.Create(ctx, &entity.InventoryBatch{
		ID: lateBatch, ItemID: item.ID, BatchNumber: "L", Quantity: 10,
		ReceivedDate: *day("2024-10-01"), ExpiryDate: day("2025-02-01"),
	}))
	require.NoError(t, e.store.Repos().Batches.Create(ctx, &entity.InventoryBatch{
		ID: earlyBatch, ItemID: item.ID, BatchNumber: "E", Quantity: 5,
		ReceivedDate: *day("2024-11-01"), ExpiryDate: day("2025-01-10"),
	}))
	return item.ID, earlyBatch, lateBatch
}

func saleBody(invoiceID, code string, qty int) map[string]any {
	return map[string]any{
		"invoice_id":    invoiceID,
		"customer_name": "Ana",
		"items":         []map[string]any{{"item_code": code, "quantity": qty, "unit_price": "1.25"}},
	}
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	status, raw := e.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), `"status":"ok"`)
}

func TestAPI_RequiresToken(t *testing.T) {
	e := newTestEnv(t)
	status, _ := e.do(t, http.MethodGet, "/api/items", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestSettleSale_SuccessThenDuplicate(t *testing.T) {
	e := newTestEnv(t)
	itemID, early, late := e.seedYogurt(t)

	status, raw := e.do(t, http.MethodPost, "/api/sales", e.staff, saleBody("INV-1", "YOG", 7))
	require.Equal(t, http.StatusCreated, status, string(raw))
	res := decode[dto.SettleSaleResult](t, raw)
	assert.Equal(t, dto.SettleStatusSuccess, res.Status)
	require.NotNil(t, res.Sale)
	require.Len(t, res.Sale.Items, 2)
	assert.Equal(t, early, res.Sale.Items[0].BatchIDUsed)
	assert.Equal(t, 5, res.Sale.Items[0].Quantity)
	assert.Equal(t, late, res.Sale.Items[1].BatchIDUsed)
	assert.Equal(t, 2, res.Sale.Items[1].Quantity)
	assert.Equal(t, "8.75", res.Sale.TotalAmount.String())

	status, raw = e.do(t, http.MethodPost, "/api/sales", e.staff, saleBody("INV-1", "YOG", 7))
	require.Equal(t, http.StatusOK, status, string(raw))
	dup := decode[dto.SettleSaleResult](t, raw)
	assert.True(t, dup.Duplicate)
	assert.Equal(t, dto.SettleStatusDuplicate, dup.Status)

	status, raw = e.do(t, http.MethodGet, "/api/items/"+itemID, e.staff, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 8, decode[dto.ItemResponse](t, raw).CurrentStock, "el duplicado no descuenta")

	status, raw = e.do(t, http.MethodGet, "/api/sales/INV-1", e.staff, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[dto.SaleResponse](t, raw).Items, 2)

	req := httptest.NewRequest(http.MethodGet, "/api/sales/INV-1/receipt", nil)
	req.Header.Set("Authorization", e.staff)
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
}

func TestSettleSale_ErrorMapping(t *testing.T) {
	e := newTestEnv(t)
	e.seedYogurt(t)

	t.Run("stock insuficiente", func(t *testing.T) {
		status, raw := e.do(t, http.MethodPost, "/api/sales", e.staff, saleBody("INV-2", "YOG", 100))
		assert.Equal(t, http.StatusConflict, status)
		body := decode[dto.ErrorResponse](t, raw)
		assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
		assert.Equal(t, "Insufficient stock for Yogurt. Requested: 100, Available: 15", body.Message)
		assert.Equal(t, 85, body.Shortfall)
	})

	t.Run("otros errores sin faltante", func(t *testing.T) {
		status, raw := e.do(t, http.MethodPost, "/api/sales", e.staff, saleBody("INV-5", "NOPE", 1))
		assert.Equal(t, http.StatusNotFound, status)
		assert.NotContains(t, string(raw), "shortfall")
	})

	t.Run("ítem inexistente", func(t *testing.T) {
		status, raw := e.do(t, http.MethodPost, "/api/sales", e.staff, saleBody("INV-3", "NOPE", 1))
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Item not found: NOPE", decode[dto.ErrorResponse](t, raw).Message)
	})

	t.Run("sin líneas", func(t *testing.T) {
		status, raw := e.do(t, http.MethodPost, "/api/sales", e.staff, map[string]any{"invoice_id": "INV-4", "items": []any{}})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, raw).Code)
	})

	t.Run("cuerpo inválido", func(t *testing.T) {
		status, raw := e.do(t, http.MethodPost, "/api/sales", e.staff, "{not json")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INVALID_BODY", decode[dto.ErrorResponse](t, raw).Code)
	})

	t.Run("venta inexistente", func(t *testing.T) {
		status, _ := e.do(t, http.MethodGet, "/api/sales/INV-404", e.staff, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestItems_RolesAndConflicts(t *testing.T) {
	e := newTestEnv(t)
	body := map[string]any{"code": "MLK", "name": "Milk", "selling_price": "2"}

	status, _ := e.do(t, http.MethodPost, "/api/items", e.staff, body)
	assert.Equal(t, http.StatusForbidden, status)

	status, raw := e.do(t, http.MethodPost, "/api/items", e.admin, body)
	require.Equal(t, http.StatusCreated, status, string(raw))
	id := decode[dto.ItemResponse](t, raw).ID

	status, raw = e.do(t, http.MethodPost, "/api/items", e.admin, body)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", decode[dto.ErrorResponse](t, raw).Code)

	status, raw = e.do(t, http.MethodGet, "/api/items", e.staff, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[dto.ItemListResponse](t, raw).Items, 1)

	status, _ = e.do(t, http.MethodGet, "/api/items/not-a-uuid", e.staff, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = e.do(t, http.MethodDelete, "/api/items/"+id, e.admin, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = e.do(t, http.MethodGet, "/api/items/"+id, e.staff, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAdjustStock(t *testing.T) {
	e := newTestEnv(t)
	itemID, _, _ := e.seedYogurt(t)
	path := "/api/items/" + itemID + "/adjust"

	cases := map[string]string{
		"texto":   `{"quantity_change":"abc"}`,
		"decimal": `{"quantity_change":1.5}`,
		"cero":    `{"quantity_change":0}`,
		"ausente": `{"reason":"x"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			status, raw := e.do(t, http.MethodPost, path, e.admin, body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "Invalid quantity change", decode[dto.ErrorResponse](t, raw).Message)
		})
	}

	status, raw := e.do(t, http.MethodPost, path, e.admin, `{"quantity_change":-100}`)
	assert.Equal(t, http.StatusConflict, status)
	body := decode[dto.ErrorResponse](t, raw)
	assert.Equal(t, "INVALID_STATE", body.Code)
	assert.Equal(t, "Resulting quantity cannot be negative", body.Message)

	status, raw = e.do(t, http.MethodPost, path, e.admin, `{"quantity_change":5,"reason":"recount"}`)
	require.Equal(t, http.StatusOK, status, string(raw))
	res := decode[dto.AdjustStockResult](t, raw)
	assert.True(t, res.Success)
	assert.Equal(t, 20, res.NewQuantity)

	status, _ = e.do(t, http.MethodPost, path, e.staff, `{"quantity_change":5}`)
	assert.Equal(t, http.StatusForbidden, status)

	status, raw = e.do(t, http.MethodGet, "/api/items/"+itemID+"/transactions", e.staff, nil)
	require.Equal(t, http.StatusOK, status)
	ledger := decode[[]dto.TransactionResponse](t, raw)
	require.Len(t, ledger, 1)
	assert.Equal(t, "recount", ledger[0].ReferenceID)
}

func TestAllocationPreview(t *testing.T) {
	e := newTestEnv(t)
	itemID, early, _ := e.seedYogurt(t)
	path := "/api/items/" + itemID + "/allocation"

	status, raw := e.do(t, http.MethodGet, path+"?quantity=3", e.staff, nil)
	require.Equal(t, http.StatusOK, status)
	res := decode[dto.AllocationResponse](t, raw)
	assert.True(t, res.Feasible)
	require.Len(t, res.Allocation, 1)
	assert.Equal(t, early, res.Allocation[0].BatchID)

	status, raw = e.do(t, http.MethodGet, path+"?quantity=20", e.staff, nil)
	require.Equal(t, http.StatusOK, status)
	res = decode[dto.AllocationResponse](t, raw)
	assert.False(t, res.Feasible)
	assert.Equal(t, 5, res.Shortfall)
	assert.Len(t, res.Allocation, 2)

	status, _ = e.do(t, http.MethodGet, path+"?quantity=0", e.staff, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestInventoryQueries(t *testing.T) {
	e := newTestEnv(t)
	e.seedYogurt(t)

	status, raw := e.do(t, http.MethodGet, "/api/inventory/expiring?days=90", e.staff, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]dto.ExpiringBatchResponse](t, raw), 2)

	status, _ = e.do(t, http.MethodGet, "/api/inventory/expiring?days=-1", e.staff, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, raw = e.do(t, http.MethodGet, "/api/inventory/reorder-list", e.staff, nil)
	require.Equal(t, http.StatusOK, status)
	var list struct {
		Total          int                              `json:"total"`
		Replenishments []dto.ReplenishmentSuggestionDTO `json:"replenishments"`
	}
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, 15, list.Replenishments[0].SuggestedOrderQty)
}

func TestPurchaseFlow(t *testing.T) {
	e := newTestEnv(t)
	itemID, _, _ := e.seedYogurt(t)

	status, raw := e.do(t, http.MethodPost, "/api/suppliers", e.admin, map[string]any{"name": "Dairy Co"})
	require.Equal(t, http.StatusCreated, status, string(raw))
	sup := decode[dto.SupplierResponse](t, raw)
	assert.Equal(t, 1.0, sup.ReliabilityScore)

	status, raw = e.do(t, http.MethodPost, "/api/purchases", e.admin, map[string]any{
		"supplier_id": sup.ID, "item_id": itemID, "quantity_ordered": 10,
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	po := decode[dto.PurchaseResponse](t, raw)
	assert.Equal(t, "PENDING", po.Status)

	status, raw = e.do(t, http.MethodPost, "/api/purchases/"+po.ID+"/receive", e.staff, map[string]any{
		"quantity_received": 4,
	})
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, "PARTIAL", decode[dto.PurchaseResponse](t, raw).Status)

	status, raw = e.do(t, http.MethodPost, "/api/purchases/"+po.ID+"/receive", e.staff, map[string]any{
		"quantity_received": 6, "quality_note": "damaged",
	})
	require.Equal(t, http.StatusOK, status, string(raw))
	done := decode[dto.PurchaseResponse](t, raw)
	assert.Equal(t, "RECEIVED", done.Status)
	assert.Equal(t, 10, done.QuantityReceived)

	status, raw = e.do(t, http.MethodPost, "/api/purchases/"+po.ID+"/receive", e.staff, map[string]any{
		"quantity_received": 1,
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Purchase Order is already RECEIVED", decode[dto.ErrorResponse](t, raw).Message)

	status, raw = e.do(t, http.MethodPost, "/api/purchases/00000000-0000-0000-0000-00000000dead/receive", e.staff, map[string]any{
		"quantity_received": 1,
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Purchase Order not found", decode[dto.ErrorResponse](t, raw).Message)

	status, raw = e.do(t, http.MethodGet, "/api/suppliers", e.staff, nil)
	require.Equal(t, http.StatusOK, status)
	suppliers := decode[[]dto.SupplierResponse](t, raw)
	require.Len(t, suppliers, 1)
	// sin fecha esperada cuenta como a tiempo: 1.0 + 0.02 - 0.15
	assert.InDelta(t, 0.87, suppliers[0].ReliabilityScore, 1e-9)

	status, raw = e.do(t, http.MethodGet, "/api/purchases?status=RECEIVED", e.staff, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]dto.PurchaseResponse](t, raw), 1)

	status, _ = e.do(t, http.MethodGet, "/api/purchases?status=BOGUS", e.staff, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestItems_Update(t *testing.T) {
	e := newTestEnv(t)
	itemID, _, _ := e.seedYogurt(t)
	path := "/api/items/" + itemID

	status, _ := e.do(t, http.MethodPut, path, e.staff, map[string]any{"name": "X"})
	assert.Equal(t, http.StatusForbidden, status)

	status, raw := e.do(t, http.MethodPut, path, e.admin, map[string]any{
		"name": "Yogurt griego", "selling_price": "1.80", "reorder_point": 5,
	})
	require.Equal(t, http.StatusOK, status, string(raw))
	item := decode[dto.ItemResponse](t, raw)
	assert.Equal(t, "Yogurt griego", item.Name)
	assert.Equal(t, "YOG", item.Code)
	assert.Equal(t, "1.8", item.SellingPrice.String())
	assert.Equal(t, 5, item.ReorderPoint)
	assert.True(t, item.IsActive, "los campos ausentes no cambian")
	assert.Equal(t, 15, item.CurrentStock, "el stock sigue derivado de los lotes")

	status, raw = e.do(t, http.MethodPut, path, e.admin, map[string]any{"is_active": false})
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.False(t, decode[dto.ItemResponse](t, raw).IsActive)

	status, raw = e.do(t, http.MethodPost, "/api/sales", e.staff, saleBody("INV-OFF", "YOG", 1))
	assert.Equal(t, http.StatusNotFound, status, "un ítem inactivo no se vende")
	assert.Equal(t, "Item not found: YOG", decode[dto.ErrorResponse](t, raw).Message)

	status, raw = e.do(t, http.MethodPut, path, e.admin, map[string]any{"reorder_point": -1})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, raw).Code)

	status, _ = e.do(t, http.MethodPut, "/api/items/00000000-0000-0000-0000-00000000dead", e.admin, map[string]any{"name": "X"})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSuppliers_Update(t *testing.T) {
	e := newTestEnv(t)
	status, raw := e.do(t, http.MethodPost, "/api/suppliers", e.admin, map[string]any{"name": "Dairy Co"})
	require.Equal(t, http.StatusCreated, status, string(raw))
	sup := decode[dto.SupplierResponse](t, raw)
	path := "/api/suppliers/" + sup.ID

	status, raw = e.do(t, http.MethodPut, path, e.admin, map[string]any{
		"contact_info": "ventas@dairy.example", "avg_delivery_time_days": 3, "reliability_score": 0.1,
	})
	require.Equal(t, http.StatusOK, status, string(raw))
	got := decode[dto.SupplierResponse](t, raw)
	assert.Equal(t, "Dairy Co", got.Name)
	assert.Equal(t, "ventas@dairy.example", got.ContactInfo)
	require.NotNil(t, got.AvgDeliveryTimeDays)
	assert.Equal(t, 3, *got.AvgDeliveryTimeDays)
	assert.Equal(t, 1.0, got.ReliabilityScore, "el puntaje no se edita por API")

	status, _ = e.do(t, http.MethodPut, path, e.staff, map[string]any{"name": "X"})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = e.do(t, http.MethodDelete, path, e.admin, nil)
	require.Equal(t, http.StatusNoContent, status)
	status, _ = e.do(t, http.MethodPut, path, e.admin, map[string]any{"name": "X"})
	assert.Equal(t, http.StatusNotFound, status)
}
