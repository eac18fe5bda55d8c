package main

import (
	"context"
	"fmt"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/shop-erp/internal/application/auth"
	"github.com/jhoicas/shop-erp/internal/application/backup"
	"github.com/jhoicas/shop-erp/internal/application/checkout"
	"github.com/jhoicas/shop-erp/internal/application/customer"
	"github.com/jhoicas/shop-erp/internal/application/inventory"
	"github.com/jhoicas/shop-erp/internal/application/location"
	"github.com/jhoicas/shop-erp/internal/application/sales"
	"github.com/jhoicas/shop-erp/internal/application/settings"
	"github.com/jhoicas/shop-erp/internal/domain/entity"
	"github.com/jhoicas/shop-erp/internal/infrastructure/kvstore"
	"github.com/jhoicas/shop-erp/internal/infrastructure/memory"
	"github.com/jhoicas/shop-erp/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/shop-erp/internal/infrastructure/pdf"
	"github.com/jhoicas/shop-erp/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/shop-erp/internal/interfaces/http"
	"github.com/jhoicas/shop-erp/pkg/config"
	"github.com/jhoicas/shop-erp/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

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
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := storage.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("abrir almacenamiento")
	}

	// Repositorios
	locationRepo := memory.NewLocationRepository(memory.DefaultLocations()...)
	userRepo := memory.NewUserRepository()
	productRepo := kvstore.NewProductRepository(store)
	movementRepo := kvstore.NewStockMovementRepository(store)
	saleRepo := kvstore.NewSaleRepository(store)
	customerRepo := kvstore.NewCustomerRepository(store)
	settingsRepo := kvstore.NewSettingsRepository(store)
	txRunner := kvstore.NewTxRunner(store)
	notifier := notify.NewLogNotifier(log)

	// Casos de uso
	locationUC, err := location.NewLocationUseCase(locationRepo, cfg.Inventory.POSDefaultLocation, cfg.Inventory.IntakeDefaultLocation)
	if err != nil {
		log.Fatal().Err(err).Msg("ubicaciones por defecto")
	}
	stockUC := inventory.NewStockUseCase(txRunner, productRepo, locationRepo, notifier)
	productUC := inventory.NewProductUseCase(txRunner, productRepo, locationRepo, cfg.Inventory.IntakeDefaultLocation)
	reportsUC := inventory.NewReportsUseCase(productRepo, movementRepo, saleRepo, settingsRepo)
	ledgerUC := sales.NewLedgerUseCase(txRunner, saleRepo, locationRepo)
	dashboardUC := sales.NewDashboardUseCase(ledgerUC, reportsUC)
	receiptUC := sales.NewReceiptUseCase(saleRepo, customerRepo, locationRepo, settingsRepo, infrapdf.NewMarotoPDFGenerator())
	customerUC := customer.NewCustomerUseCase(txRunner, customerRepo)
	settingsUC := settings.NewSettingsUseCase(settingsRepo)
	carts := checkout.NewRegistry(cfg.Inventory.POSDefaultLocation)
	cartUC := checkout.NewCartUseCase(carts, txRunner, ledgerUC, stockUC, productRepo, locationRepo, customerRepo, notifier)
	backupUC := backup.NewUseCase(store, locationRepo, carts, productUC, customerUC, cartUC)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	if err := bootstrap(ctx, cfg, log, authUC, settingsUC, backupUC); err != nil {
		log.Fatal().Err(err).Msg("datos iniciales")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    16 * 1024 * 1024, // respaldos completos
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, statErr := os.Stat(cfg.Swagger.FilePath); cfg.Swagger.Enabled && statErr != nil {
		log.Warn().Str("file", cfg.Swagger.FilePath).Msg("swagger deshabilitado: no se encontró el archivo (generar con swag init)")
	} else if cfg.Swagger.Enabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.Swagger.FilePath,
			Path:     "docs",
			Title:    "Shop ERP API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		LocationUC:  locationUC,
		ProductUC:   productUC,
		StockUC:     stockUC,
		ReportsUC:   reportsUC,
		CartUC:      cartUC,
		Carts:       carts,
		LedgerUC:    ledgerUC,
		DashboardUC: dashboardUC,
		ReceiptUC:   receiptUC,
		CustomerUC:  customerUC,
		SettingsUC:  settingsUC,
		BackupUC:    backupUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				log.Info().Msg("señal de apagado recibida, cerrando servidor...")
				if err := app.ShutdownWithContext(ctx); err != nil {
					log.Error().Err(err).Msg("apagado del servidor")
				}
				return store.Close()
			},
		},
	)

	exitCode := <-wait
	log.Info().Int("exit_code", exitCode).Msg("aplicación detenida")
	os.Exit(exitCode)
}

// bootstrap siembra los usuarios configurados, el umbral de stock bajo inicial
// y los datos de demostración.
func bootstrap(
	ctx context.Context,
	cfg *config.Config,
	log *logger.Logger,
	authUC *auth.AuthUseCase,
	settingsUC *settings.SettingsUseCase,
	backupUC *backup.UseCase,
) error {
	if err := authUC.EnsureUser(cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, "Administrador", entity.RoleAdmin); err != nil {
		return fmt.Errorf("usuario admin: %w", err)
	}
	if err := authUC.EnsureUser(cfg.Auth.StaffEmail, cfg.Auth.StaffPassword, "Vendedor", entity.RoleStaff); err != nil {
		return fmt.Errorf("usuario staff: %w", err)
	}
	if !cfg.Inventory.SeedOnStart {
		return nil
	}
	seeded, err := backupUC.Seed(ctx)
	if err != nil {
		return err
	}
	if seeded {
		if err := settingsUC.UpdateLowStockThreshold(cfg.Inventory.LowStockThreshold); err != nil {
			return err
		}
		log.Info().Msg("datos de demostración cargados")
	}
	return nil
}
