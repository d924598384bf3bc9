// seed carga datos de demostración en PostgreSQL: catálogo de ítems con stock inicial,
// proveedores y órdenes de compra pendientes. Imprime tokens JWT de prueba si hay JWT_SECRET.
//
// Uso: go run ./cmd/seed [-catalog items.csv]
// Sin -catalog usa un catálogo de ejemplo. Los ítems cuyo código ya existe se omiten.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/application/inventory"
	"github.com/jhoicas/stockflow-api/internal/application/purchasing"
	"github.com/jhoicas/stockflow-api/internal/application/supplier"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stockflow-api/pkg/clock"
	"github.com/jhoicas/stockflow-api/pkg/config"
	"github.com/jhoicas/stockflow-api/pkg/jwt"
	"github.com/jhoicas/stockflow-api/pkg/logger"
)

const seedReason = "SEED"

func main() {
	catalogPath := flag.String("catalog", "", "CSV del catálogo (code,name,cost_price,selling_price,reorder_point,initial_stock,expiry_days)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	if cfg.DB.Driver == config.StorageMemory {
		log.Fatal().Msg("seed requiere STORAGE_DRIVER=postgres")
	}

	rows := demoCatalog()
	if *catalogPath != "" {
		f, err := os.Open(*catalogPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *catalogPath).Msg("abrir catálogo")
		}
		rows, err = parseCatalog(f)
		f.Close()
		if err != nil {
			log.Fatal().Err(err).Msg("leer catálogo")
		}
	}

	ctx := context.Background()
	if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)
	repos := postgres.NewRepos(pool)
	clk := clock.System{}

	itemUC := inventory.NewItemUseCase(repos.Items, repos.Batches, repos.Transactions, clk, cfg.Inventory.ExpiringDefaultDays)
	adjustUC := inventory.NewAdjustStockUseCase(txRunner, clk, log, cfg.Inventory.DefaultExpiryDays)
	supplierUC := supplier.NewSupplierUseCase(repos.Suppliers, clk)
	purchaseUC := purchasing.NewPurchaseOrderUseCase(txRunner, repos, clk)

	var itemIDs []string
	created, skipped := 0, 0
	for _, row := range rows {
		item, err := itemUC.Create(ctx, row.Item)
		if errors.Is(err, domain.ErrConflict) {
			skipped++
			continue
		}
		if err != nil {
			log.Fatal().Err(err).Str("code", row.Item.Code).Msg("crear ítem")
		}
		created++
		itemIDs = append(itemIDs, item.ID)

		if row.InitialStock <= 0 {
			continue
		}
		// stock inicial como ajuste positivo: crea el lote y su fila ADJUSTMENT
		adj := dto.AdjustStockRequest{
			QuantityChange: jsonInt(row.InitialStock),
			Reason:         seedReason,
			BatchNumber:    "SEED-" + row.Item.Code,
		}
		if row.ExpiryDays > 0 {
			exp := clk.Now().AddDate(0, 0, row.ExpiryDays)
			adj.ExpiryDate = &exp
		}
		if _, err := adjustUC.Adjust(ctx, item.ID, adj); err != nil {
			log.Fatal().Err(err).Str("code", row.Item.Code).Msg("stock inicial")
		}
	}
	log.Info().Int("created", created).Int("skipped", skipped).Msg("ítems")

	suppliers := []dto.CreateSupplierRequest{
		{Name: "Lácteos del Valle", ContactInfo: "ventas@lacteosdelvalle.example", AvgDeliveryTimeDays: intPtr(3)},
		{Name: "Distribuidora Central", ContactInfo: "+57 300 000 0000", AvgDeliveryTimeDays: intPtr(5)},
	}
	for i, in := range suppliers {
		sup, err := supplierUC.Create(ctx, in)
		if err != nil {
			log.Fatal().Err(err).Str("supplier", in.Name).Msg("crear proveedor")
		}
		if len(itemIDs) == 0 {
			continue
		}
		expected := clk.Now().AddDate(0, 0, *in.AvgDeliveryTimeDays)
		po, err := purchaseUC.Create(ctx, dto.CreatePurchaseRequest{
			SupplierID:           sup.ID,
			ItemID:               itemIDs[i%len(itemIDs)],
			QuantityOrdered:      50,
			ExpectedDeliveryDate: &expected,
		})
		if err != nil {
			log.Fatal().Err(err).Str("supplier", sup.Name).Msg("crear orden de compra")
		}
		log.Info().Str("supplier", sup.Name).Str("purchase_id", po.ID).Msg("orden de compra pendiente")
	}

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: no se generan tokens de prueba")
		return
	}
	for _, role := range []string{jwt.RoleAdmin, jwt.RoleStaff} {
		tok, err := jwt.Generate(cfg.JWT.Secret, uuid.New().String(), role, cfg.JWT.Issuer, int((24 * time.Hour).Minutes()))
		if err != nil {
			log.Fatal().Err(err).Msg("generar token")
		}
		fmt.Printf("%s token: %s\n", role, tok)
	}
}

func jsonInt(n int) json.Number { return json.Number(strconv.Itoa(n)) }

func intPtr(n int) *int { return &n }
