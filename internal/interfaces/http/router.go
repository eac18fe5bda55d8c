package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/shop-erp/internal/application/auth"
	"github.com/jhoicas/shop-erp/internal/application/backup"
	"github.com/jhoicas/shop-erp/internal/application/checkout"
	"github.com/jhoicas/shop-erp/internal/application/customer"
	"github.com/jhoicas/shop-erp/internal/application/inventory"
	"github.com/jhoicas/shop-erp/internal/application/location"
	"github.com/jhoicas/shop-erp/internal/application/sales"
	"github.com/jhoicas/shop-erp/internal/application/settings"
	"github.com/jhoicas/shop-erp/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	LocationUC  *location.LocationUseCase
	ProductUC   *inventory.ProductUseCase
	StockUC     *inventory.StockUseCase
	ReportsUC   *inventory.ReportsUseCase
	CartUC      *checkout.CartUseCase
	Carts       *checkout.Registry
	LedgerUC    *sales.LedgerUseCase
	DashboardUC *sales.DashboardUseCase
	ReceiptUC   *sales.ReceiptUseCase
	CustomerUC  *customer.CustomerUseCase
	SettingsUC  *settings.SettingsUseCase
	BackupUC    *backup.UseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Carts)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/auth/logout", authHandler.Logout)

	// Locations (catálogo fijo)
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.StockUC, deps.ReportsUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)
	products.Get("/:id/movements", productHandler.Movements)
	products.Get("/:id/stock/:locationId", productHandler.StockAt)

	// Inventory: movimientos y reportes
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.StockUC, deps.ReportsUC, deps.ProductUC)
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Get("/movements", inventoryHandler.Movements)
	invGroup.Post("/receive", inventoryHandler.Receive)
	invGroup.Post("/adjust", inventoryHandler.Adjust)
	invGroup.Post("/transfer", inventoryHandler.Transfer)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)
	invGroup.Get("/out-of-stock", inventoryHandler.OutOfStock)
	invGroup.Get("/valuation", inventoryHandler.Valuation)
	invGroup.Get("/by-category", inventoryHandler.ByCategory)
	invGroup.Get("/reconcile", inventoryHandler.Reconcile)
	invGroup.Get("/pos", inventoryHandler.POS)

	// Cart (uno por usuario)
	cart := protected.Group("/cart")
	cartHandler := NewCartHandler(deps.CartUC)
	cart.Get("/", cartHandler.Get)
	cart.Delete("/", cartHandler.Clear)
	cart.Post("/lines", cartHandler.AddLine)
	cart.Put("/lines/:productId", cartHandler.SetQuantity)
	cart.Delete("/lines/:productId", cartHandler.RemoveLine)
	cart.Put("/discount", cartHandler.ApplyDiscount)
	cart.Put("/location", cartHandler.SetLocation)
	cart.Put("/customer", cartHandler.SetCustomer)
	cart.Put("/notes", cartHandler.SetNotes)
	cart.Post("/checkout", cartHandler.Checkout)

	// Sales: las rutas fijas van antes de /:id
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.LedgerUC, deps.DashboardUC, deps.ReceiptUC)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/summary", saleHandler.Summary)
	salesGroup.Get("/daily", saleHandler.Daily)
	salesGroup.Get("/top-products", saleHandler.TopProducts)
	salesGroup.Get("/dashboard", saleHandler.Dashboard)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", saleHandler.DownloadReceipt)

	// Customers
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	// Settings
	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	protected.Get("/settings", settingsHandler.Get)
	protected.Put("/settings", settingsHandler.Update)

	// Backup
	backupGroup := protected.Group("/backup")
	backupHandler := NewBackupHandler(deps.BackupUC)
	backupGroup.Get("/export", backupHandler.Export)
	backupGroup.Post("/import", adminOnly, backupHandler.Import)
	backupGroup.Post("/reset", adminOnly, backupHandler.Reset)
}
