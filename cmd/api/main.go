package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/text/language"

	"github.com/jhoicas/stockflow-api/internal/application/inventory"
	"github.com/jhoicas/stockflow-api/internal/application/ports"
	"github.com/jhoicas/stockflow-api/internal/application/purchasing"
	"github.com/jhoicas/stockflow-api/internal/application/sales"
	"github.com/jhoicas/stockflow-api/internal/application/supplier"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
	infracache "github.com/jhoicas/stockflow-api/internal/infrastructure/cache"
	"github.com/jhoicas/stockflow-api/internal/infrastructure/memory"
	"github.com/jhoicas/stockflow-api/internal/infrastructure/notifier"
	infrapdf "github.com/jhoicas/stockflow-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stockflow-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stockflow-api/internal/interfaces/http"
	"github.com/jhoicas/stockflow-api/pkg/clock"
	"github.com/jhoicas/stockflow-api/pkg/config"
	"github.com/jhoicas/stockflow-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.DB.Driver).
		Msg("iniciando aplicación")
	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: todas las rutas /api responderán 401")
	}

	ctx := context.Background()

	// Persistencia: PostgreSQL o memoria (STORAGE_DRIVER=memory)
	var (
		txRunner inventory.TxRunner
		repos    repository.TxRepos
	)
	switch cfg.DB.Driver {
	case config.StorageMemory:
		store := memory.NewStore()
		txRunner, repos = store, store.Repos()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Msg("migraciones aplicadas")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner, repos = postgres.NewTxRunner(pool), postgres.NewRepos(pool)
	}

	// Caché de facturas liquidadas (opcional)
	var invoiceCache ports.SettledInvoiceCache = ports.NopInvoiceCache{}
	if cfg.Redis.Addr != "" {
		client, err := infracache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			// la caché es solo un atajo; sin Redis se sigue con processed_invoices
			log.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, caché deshabilitada")
		} else {
			defer client.Close()
			invoiceCache = infracache.NewRedisInvoiceCache(client, cfg.Redis.InvoiceTTL)
		}
	}

	clk := clock.System{}

	var saleNotifier ports.SaleNotifier = ports.NopNotifier{}
	if cfg.Agent.URL != "" {
		saleNotifier = notifier.NewAgentNotifier(cfg.Agent.URL, cfg.Agent.Timeout, clk)
	}

	settleUC := sales.NewSettleSaleUseCase(txRunner, repos.Sales, invoiceCache, saleNotifier, clk, log, cfg.Agent.Timeout)
	receiptUC := sales.NewReceiptUseCase(repos.Sales, infrapdf.NewMarotoReceiptRenderer(cfg.App.Name, language.Spanish))
	itemUC := inventory.NewItemUseCase(repos.Items, repos.Batches, repos.Transactions, clk, cfg.Inventory.ExpiringDefaultDays)
	adjustUC := inventory.NewAdjustStockUseCase(txRunner, clk, log, cfg.Inventory.DefaultExpiryDays)
	allocationUC := inventory.NewAllocationUseCase(repos.Items, repos.Batches)
	replenishmentUC := inventory.NewReplenishmentUseCase(repos.Items)
	supplierUC := supplier.NewSupplierUseCase(repos.Suppliers, clk)
	purchaseOrderUC := purchasing.NewPurchaseOrderUseCase(txRunner, repos, clk)
	receivePurchaseUC := purchasing.NewReceivePurchaseUseCase(txRunner, clk, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs (solo si existe el archivo)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "StockFlow API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		SettleSale:      settleUC,
		Receipts:        receiptUC,
		Items:           itemUC,
		AdjustStock:     adjustUC,
		Allocation:      allocationUC,
		Replenishment:   replenishmentUC,
		Suppliers:       supplierUC,
		PurchaseOrders:  purchaseOrderUC,
		ReceivePurchase: receivePurchaseUC,
		JWTSecret:       cfg.JWT.Secret,
		ServiceName:     cfg.App.Name,
		Log:             log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
