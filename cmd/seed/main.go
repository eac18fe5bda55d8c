// seed prepara los datos del punto de venta sin levantar la API.
//
// Uso:
//
//	go run ./cmd/seed [--reset] [--import respaldo.json] [--csv catalogo.csv [--latin1]] [--demo=false]
//
// Usa el mismo almacenamiento configurado que la API (STORAGE_DRIVER, SQLITE_PATH, ...).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/jhoicas/shop-erp/internal/application/backup"
	"github.com/jhoicas/shop-erp/internal/application/checkout"
	"github.com/jhoicas/shop-erp/internal/application/customer"
	"github.com/jhoicas/shop-erp/internal/application/inventory"
	"github.com/jhoicas/shop-erp/internal/application/sales"
	"github.com/jhoicas/shop-erp/internal/infrastructure/kvstore"
	"github.com/jhoicas/shop-erp/internal/infrastructure/memory"
	"github.com/jhoicas/shop-erp/internal/infrastructure/notify"
	"github.com/jhoicas/shop-erp/internal/infrastructure/storage"
	"github.com/jhoicas/shop-erp/pkg/config"
	"github.com/jhoicas/shop-erp/pkg/logger"
)

func main() {
	reset := pflag.Bool("reset", false, "vaciar productos, clientes, ventas y movimientos antes de cargar")
	importPath := pflag.String("import", "", "archivo JSON exportado desde /api/backup/export")
	csvPath := pflag.String("csv", "", "catálogo de productos separado por ';'")
	latin1 := pflag.Bool("latin1", false, "el CSV está codificado en ISO-8859-1")
	demo := pflag.Bool("demo", true, "cargar los datos de demostración si nunca se cargaron")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	store, err := storage.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("abrir almacenamiento")
	}
	defer store.Close()

	locationRepo := memory.NewLocationRepository(memory.DefaultLocations()...)
	productRepo := kvstore.NewProductRepository(store)
	customerRepo := kvstore.NewCustomerRepository(store)
	saleRepo := kvstore.NewSaleRepository(store)
	txRunner := kvstore.NewTxRunner(store)
	notifier := notify.NewLogNotifier(log)

	stockUC := inventory.NewStockUseCase(txRunner, productRepo, locationRepo, notifier)
	productUC := inventory.NewProductUseCase(txRunner, productRepo, locationRepo, cfg.Inventory.IntakeDefaultLocation)
	customerUC := customer.NewCustomerUseCase(txRunner, customerRepo)
	ledgerUC := sales.NewLedgerUseCase(txRunner, saleRepo, locationRepo)
	carts := checkout.NewRegistry(cfg.Inventory.POSDefaultLocation)
	cartUC := checkout.NewCartUseCase(carts, txRunner, ledgerUC, stockUC, productRepo, locationRepo, customerRepo, notifier)
	backupUC := backup.NewUseCase(store, locationRepo, carts, productUC, customerUC, cartUC)

	if *reset {
		if err := backupUC.Reset(ctx); err != nil {
			log.Fatal().Err(err).Msg("reset")
		}
		log.Info().Msg("datos eliminados")
	}

	if *importPath != "" {
		data, err := readBackup(*importPath)
		if err != nil {
			log.Fatal().Err(err).Str("file", *importPath).Msg("leer respaldo")
		}
		if err := backupUC.Import(ctx, data); err != nil {
			log.Fatal().Err(err).Str("file", *importPath).Msg("importar respaldo")
		}
		log.Info().
			Int("products", len(data.Products)).
			Int("customers", len(data.Customers)).
			Int("sales", len(data.Sales)).
			Int("movements", len(data.Movements)).
			Msg("respaldo importado")
	}

	if *csvPath != "" {
		n, err := importCatalog(ctx, productUC, *csvPath, *latin1)
		if err != nil {
			log.Fatal().Err(err).Str("file", *csvPath).Msg("importar catálogo")
		}
		log.Info().Int("products", n).Msg("catálogo importado")
	}

	if *demo && *importPath == "" {
		seeded, err := backupUC.Seed(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("datos de demostración")
		}
		if seeded {
			log.Info().Msg("datos de demostración cargados")
		} else {
			log.Info().Msg("los datos de demostración ya estaban cargados")
		}
	}
}

func readBackup(path string) (*backup.Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data backup.Dataset
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decodificar: %w", err)
	}
	return &data, nil
}

func importCatalog(ctx context.Context, products backup.ProductCreator, path string, latin1 bool) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	rows, err := readCatalog(f, latin1)
	if err != nil {
		return 0, err
	}
	for _, in := range rows {
		if _, err := products.Create(ctx, backup.SeedUserID, in); err != nil {
			return 0, fmt.Errorf("producto %s: %w", in.SKU, err)
		}
	}
	return len(rows), nil
}
